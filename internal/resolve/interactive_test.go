package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractiveShortCircuits(t *testing.T) {
	in := &Interactive{}

	got, err := in.Choose("x", nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = in.Choose("x", []string{"src/only.py"})
	require.NoError(t, err)
	assert.Equal(t, "src/only.py", got, "a single candidate never prompts")
}

func TestRenderDifferences(t *testing.T) {
	out := renderDifferences([]string{"src/utils.py", "utils.py", "scripts/Makefile"})

	assert.Contains(t, out, "Depth: 2")
	assert.Contains(t, out, "Depth: 1")
	assert.Contains(t, out, "Directory: src")
	assert.Contains(t, out, "Directory: (root)")
	assert.Contains(t, out, "Filename: utils.py")
	assert.Contains(t, out, "Extension: .py")
	assert.Contains(t, out, "Filename: Makefile")
	assert.NotContains(t, out, "Extension: Makefile")
}

func TestRenderDifferencesNumbersCandidates(t *testing.T) {
	out := renderDifferences([]string{"a.py", "b.py"})

	assert.Contains(t, out, "1. ")
	assert.Contains(t, out, "2. ")
}
