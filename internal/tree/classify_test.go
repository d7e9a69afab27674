package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFile(t *testing.T) {
	cases := []struct {
		name        string
		filesAlways []string
		dirsAlways  []string
		want        bool
	}{
		{name: "src", want: false},
		{name: "main.py", want: true},
		{name: "Dockerfile", want: true},
		{name: "README", want: true},
		{name: "mydir", dirsAlways: []string{"mydir"}, want: false},
		{name: "data", filesAlways: []string{"data"}, want: true},

		{name: "src/", want: false},
		{name: `bin\`, want: false},
		{name: "Makefile", want: true},
		{name: "LICENSE", want: true},
		{name: "package.json", want: true},
		{name: ".gitignore", want: true},
		{name: ".env.production", want: true},
		{name: ".bashrc", want: true},
		{name: ".git", want: false},
		{name: ".vscode", want: false},
		{name: ".venv", want: false},
		{name: "node_modules", want: false},
		{name: "docker-compose.yml", want: true},
		{name: "custom.config.js", want: true},
		{name: "src/deep/main.go", want: true},
		{name: "src/deep/pkg", want: false},
		{name: "", want: false},
		{name: "   ", want: false},

		// dirsAlways outranks every file heuristic, including extensions.
		{name: "data.json", dirsAlways: []string{"data.json"}, want: false},
		{name: "Data", filesAlways: []string{"data"}, want: true},
	}
	for _, tc := range cases {
		got := IsFile(tc.name, LowerSet(tc.filesAlways), LowerSet(tc.dirsAlways))
		assert.Equal(t, tc.want, got, "name %q", tc.name)
	}
}

func TestLowerSet(t *testing.T) {
	set := LowerSet([]string{" Data ", "BIN", ""})
	assert.True(t, set["data"])
	assert.True(t, set["bin"])
	assert.Len(t, set, 2)
	assert.Nil(t, LowerSet(nil))
}
