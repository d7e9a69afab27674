package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceRatio(t *testing.T) {
	// A basename must stay similar to its directory-qualified form.
	assert.InDelta(t, 0.8, sequenceRatio("utils.py", "src/utils.py"), 1e-9)
	assert.Equal(t, 1.0, sequenceRatio("same", "same"))
	assert.Equal(t, 1.0, sequenceRatio("", ""))
	assert.Less(t, sequenceRatio("a.py", "completely/other.md"), 0.5)
}

func TestHintsSimilar(t *testing.T) {
	assert.True(t, hintsSimilar("utils.py", "src/utils.py"))
	assert.True(t, hintsSimilar("UTILS.PY", "utils.py"))
	assert.False(t, hintsSimilar("config.yaml", "src/utils.py"))
	assert.False(t, hintsSimilar("", "utils.py"))
	assert.False(t, hintsSimilar("utils.py", ""))

	// Repeated lookups hit the memo and stay stable.
	for i := 0; i < 3; i++ {
		assert.True(t, hintsSimilar("utils.py", "src/utils.py"))
	}
}

func TestCloseMatches(t *testing.T) {
	candidates := []string{"src/main.py", "src/mian.py", "docs/readme.md"}

	got := closeMatches("src/main.py", candidates, 1, 0.8)
	assert.Equal(t, []string{"src/main.py"}, got)

	got = closeMatches("src/main.py", candidates, 3, 0.8)
	assert.Equal(t, []string{"src/main.py", "src/mian.py"}, got)

	assert.Empty(t, closeMatches("zzz", candidates, 3, 0.8))
	assert.Empty(t, closeMatches("anything", nil, 3, 0.8))
}

func TestPathSpecificity(t *testing.T) {
	assert.Equal(t, 0, pathSpecificity(""))
	assert.Equal(t, 1, pathSpecificity("a.py"))
	assert.Equal(t, 2, pathSpecificity("src/a.py"))
	assert.Equal(t, 1, pathSpecificity("./a"))
	assert.Equal(t, 2, pathSpecificity("a//b"))
}
