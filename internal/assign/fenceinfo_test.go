package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferTargetsExactBasename(t *testing.T) {
	entries := []string{"src/utils.py", "README.md"}
	assert.Equal(t, []string{"src/utils.py"}, InferTargets("utils.py", entries))
	assert.Equal(t, []string{"src/utils.py"}, InferTargets("UTILS.PY", entries))
}

func TestInferTargetsExactPath(t *testing.T) {
	entries := []string{"src/utils.py", "src/app.py"}
	assert.Equal(t, []string{"src/utils.py"}, InferTargets("src/utils.py", entries))
}

func TestInferTargetsAmbiguousBasename(t *testing.T) {
	entries := []string{"a/utils.py", "b/utils.py"}
	got := InferTargets("utils.py", entries)
	assert.Equal(t, []string{"a/utils.py", "b/utils.py"}, got)
}

func TestInferTargetsPrefixOutranksSubstring(t *testing.T) {
	entries := []string{"app/main_test.py", "app/main.py"}
	got := InferTargets("main", entries)
	require.Len(t, got, 2)
	// main.py scores higher: prefix plus exact stem plus stripped-extension
	// variation beat the bare substring hit on main_test.py.
	assert.Equal(t, "app/main.py", got[0])
}

func TestInferTargetsFilenameVariations(t *testing.T) {
	entries := []string{"src/my_utils.py"}
	assert.Equal(t, entries, InferTargets("my-utils.py", entries))
}

func TestInferTargetsWhitespaceSplit(t *testing.T) {
	entries := []string{"src/main.py", "src/util.py"}
	assert.Equal(t, []string{"src/main.py"}, InferTargets("python src/main.py", entries))
}

func TestInferTargetsDropsExtensionlessWhenAmbiguous(t *testing.T) {
	entries := []string{"docs", "docs/api.md"}
	assert.Equal(t, []string{"docs/api.md"}, InferTargets("doc", entries))

	// A lone extensionless candidate survives.
	assert.Equal(t, []string{"docs"}, InferTargets("docs", []string{"docs", "readme.md"}))
}

func TestInferTargetsPathSubstring(t *testing.T) {
	entries := []string{"backend/handlers/auth.go", "frontend/login.js"}
	assert.Equal(t, []string{"backend/handlers/auth.go"}, InferTargets("handlers", entries))
}

func TestInferTargetsNoMatch(t *testing.T) {
	entries := []string{"src/app.py"}
	assert.Empty(t, InferTargets("rust", entries))
	assert.Empty(t, InferTargets("", entries))
	assert.Empty(t, InferTargets("python", nil))
	assert.Empty(t, InferTargets("go x", entries))
}

func TestFilenameVariations(t *testing.T) {
	v := filenameVariations("My_Utils.py")
	assert.True(t, v["my_utils.py"])
	assert.True(t, v["my-utils.py"])
	assert.True(t, v["myutils.py"])
	assert.True(t, v["my_utils"])
	assert.False(t, v["my-utils"])
}

func TestHasExtension(t *testing.T) {
	assert.True(t, hasExtension("src/app.py"))
	assert.False(t, hasExtension("src/bin"))
	assert.False(t, hasExtension(".gitignore"))
	assert.True(t, hasExtension("a/.env.local"))
}
