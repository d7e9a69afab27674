package tree

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = `myproject/
├── src/
│   ├── main.py
│   └── utils.py
├── tests/
│   └── test_main.py
└── README.md`

func TestParseSampleTree(t *testing.T) {
	entries := Parse(sampleTree, nil, nil)
	require.Equal(t, []string{
		"myproject",
		"myproject/src",
		"myproject/src/main.py",
		"myproject/src/utils.py",
		"myproject/tests",
		"myproject/tests/test_main.py",
		"myproject/README.md",
	}, entries)
}

func TestParseNormalizesToRoot(t *testing.T) {
	entries := Parse("app/\n├── main.go\ngo.mod", nil, nil)
	assert.Equal(t, []string{"app", "app/main.go", "app/go.mod"}, entries)
}

func TestParseFileRootLeftAlone(t *testing.T) {
	entries := Parse("a.txt\nb.txt", nil, nil)
	assert.Equal(t, []string{"a.txt", "b.txt"}, entries)
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	tree := `proj/
# a full-line comment

├── src/   # inline comment
│   └── app.js  // another style
└── doc.md  -- and another`
	entries := Parse(tree, nil, nil)
	assert.Equal(t, []string{"proj", "proj/src", "proj/src/app.js", "proj/doc.md"}, entries)
}

func TestParseSiblingDirectoriesAtEqualDepth(t *testing.T) {
	tree := `root/
├── a/
│   └── one.txt
├── b/
│   └── two.txt`
	entries := Parse(tree, nil, nil)
	assert.Equal(t, []string{
		"root", "root/a", "root/a/one.txt", "root/b", "root/b/two.txt",
	}, entries)
}

func TestParseSpaceOnlyIndentationNests(t *testing.T) {
	// Space counting still applies without connectors; documented behavior.
	entries := Parse("project\n  file.txt", nil, nil)
	assert.Equal(t, []string{"project", "project/file.txt"}, entries)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Nil(t, Parse("", nil, nil))
	assert.Nil(t, Parse("   \n  \n", nil, nil))
}

func TestParseHonorsOverrides(t *testing.T) {
	entries := Parse("proj/\n├── data\n│   └── x.txt", nil, nil)
	// Without overrides "data" is a directory and gains a child.
	assert.Contains(t, entries, "proj/data/x.txt")

	entries = Parse("proj/\n├── data\n├── other.txt", LowerSet([]string{"data"}), nil)
	assert.Equal(t, []string{"proj", "proj/data", "proj/other.txt"}, entries)
}

func TestParseParentChainClosure(t *testing.T) {
	entries := Parse(sampleTree, nil, nil)
	dirs := make(map[string]bool)
	for _, e := range entries {
		if !IsFile(path.Base(e), nil, nil) {
			dirs[e] = true
		}
	}
	for _, e := range entries {
		for dir := path.Dir(e); dir != "."; dir = path.Dir(dir) {
			assert.True(t, dirs[dir], "entry %s is missing ancestor %s", e, dir)
		}
	}
}

func TestValidate(t *testing.T) {
	ok, warnings := Validate([]string{"app", "app/main.go"})
	assert.True(t, ok)
	assert.Empty(t, warnings)

	ok, warnings = Validate([]string{"app/main.go"})
	assert.False(t, ok)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "missing parent directory app")

	ok, warnings = Validate([]string{"app", "app/x.go", "app/x.go"})
	assert.False(t, ok)
	assert.Contains(t, strings.Join(warnings, "\n"), "duplicate entries")

	ok, warnings = Validate(nil)
	assert.False(t, ok)
	assert.NotEmpty(t, warnings)
}

func TestCleanTreeLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"├── src/", "src/"},
		{"│   └── main.py", "main.py"},
		{"└── README.md  # docs", "README.md"},
		{"# comment line", ""},
		{"   ", ""},
		{"src/ # note", "src/"},
		{"─────", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanTreeLine(tc.in), "input %q", tc.in)
	}
}

func TestIndentLevel(t *testing.T) {
	assert.Equal(t, 0, indentLevel("root/"))
	assert.Equal(t, 4, indentLevel("├── src/"))
	assert.Equal(t, 8, indentLevel("│   ├── main.py"))
	assert.Equal(t, 2, indentLevel("  plain.txt"))
}
