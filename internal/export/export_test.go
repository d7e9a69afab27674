package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- helpers ----------

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixtureFolder(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "proj")
	writeFile(t, filepath.Join(root, "README.md"), "# Project\n")
	writeFile(t, filepath.Join(root, "keep.log"), "kept\n")
	writeFile(t, filepath.Join(root, "debug.log"), "noise\n")
	writeFile(t, filepath.Join(root, "secret.txt"), "hidden\n")
	writeFile(t, filepath.Join(root, "src", "app.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "src", "util", "helpers.py"), "def help(): pass\n")
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "junk\n")
	writeFile(t, filepath.Join(root, ".gitignore"), "# local\nsecret.txt\n\n!keep.log\n")
	return root
}

// ---------- tests ----------

func TestRunExportsFolder(t *testing.T) {
	root := fixtureFolder(t)
	out := filepath.Join(t.TempDir(), "structure.md")

	res, err := Run(context.Background(), Config{Folder: root, Output: out})
	require.NoError(t, err)
	assert.Equal(t, out, res.Output)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"README.md", "keep.log", "src/app.py", "src/util/helpers.py"}, res.Files)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# Generated Folder Structure")
	assert.Contains(t, content, "## File Structure")
	assert.Contains(t, content, "```text\nproj/\n")
	assert.Contains(t, content, "├── src/")
	assert.Contains(t, content, "## src/app.py")
	assert.Contains(t, content, "```python\nx = 1\n```")
	assert.Contains(t, content, "- Total files: 4")

	assert.NotContains(t, content, "secret.txt")
	assert.NotContains(t, content, "node_modules")
	assert.NotContains(t, content, "debug.log")
	assert.Contains(t, content, "## keep.log", "gitignore unignore must win over *.log")
}

func TestRunDefaultOutputPath(t *testing.T) {
	root := fixtureFolder(t)

	res, err := Run(context.Background(), Config{Folder: root})
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root)+".md", res.Output)

	_, err = os.Stat(res.Output)
	assert.NoError(t, err)
}

func TestRunRoundTripVerification(t *testing.T) {
	root := fixtureFolder(t)
	out := filepath.Join(t.TempDir(), "structure.md")

	res, err := Run(context.Background(), Config{Folder: root, Output: out, Compare: true})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings, "structure fence must agree with the exported files")
}

func TestRunRejectsNonDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	writeFile(t, file, "x")

	_, err := Run(context.Background(), Config{Folder: file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	_, err = Run(context.Background(), Config{Folder: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestBuildTreeShape(t *testing.T) {
	root := filepath.Join(t.TempDir(), "shape")
	writeFile(t, filepath.Join(root, "e.txt"), "e")
	writeFile(t, filepath.Join(root, "a", "b.py"), "b")
	writeFile(t, filepath.Join(root, "c", "d.py"), "d")

	lines := buildTree(Config{Folder: root, MaxDepth: 20}, newMatcher(root, nil))
	assert.Equal(t, []string{
		"├── a/",
		"│   └── b.py",
		"├── c/",
		"│   └── d.py",
		"└── e.txt",
	}, lines)
}

func TestBuildTreeEmptyDirectory(t *testing.T) {
	root := t.TempDir()

	lines := buildTree(Config{Folder: root, MaxDepth: 20}, newMatcher(root, nil))
	assert.Equal(t, []string{"# Empty directory"}, lines)
}

func TestBuildTreeDirClassifiedAsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "shape")
	writeFile(t, filepath.Join(root, "README.md", "inner.py"), "x")
	writeFile(t, filepath.Join(root, "app.py"), "x")

	lines := buildTree(Config{Folder: root, MaxDepth: 20}, newMatcher(root, nil))
	assert.Equal(t, []string{
		"├── README.md",
		"└── app.py",
	}, lines, "a directory named like a file is shown bare and not descended")
}

func TestBuildTreeMaxDepth(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep")
	writeFile(t, filepath.Join(root, "a", "b", "c.py"), "x")

	lines := buildTree(Config{Folder: root, MaxDepth: 1}, newMatcher(root, nil))
	assert.Equal(t, []string{
		"└── a/",
		"    └── b/",
	}, lines)
}

func TestRenderMarkdownSortsSections(t *testing.T) {
	files := []exportFile{
		{Path: "z.py", Language: "python", Content: "z = 1"},
		{Path: "A.py", Language: "python", Content: "a = 1"},
	}

	out := renderMarkdown("/tmp/proj", []string{"├── A.py", "└── z.py"}, files, []string{"w"})

	aIdx := strings.Index(out, "## A.py")
	zIdx := strings.Index(out, "## z.py")
	require.True(t, aIdx >= 0 && zIdx >= 0)
	assert.Less(t, aIdx, zIdx, "sections sort case-insensitively")
	assert.Contains(t, out, "proj/\n├── A.py")
	assert.Contains(t, out, "- Total files: 2")
	assert.Contains(t, out, "- Total directories: 0")
	assert.Contains(t, out, "- Warnings: 1")
}
