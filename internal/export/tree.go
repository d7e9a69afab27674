package export

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/julianshen/mdscaffold/internal/tree"
)

// buildTree renders the folder as ASCII tree lines, directories first and
// names sorted case-insensitively, skipping ignored entries. The root line
// itself is added by the renderer.
func buildTree(cfg Config, m *matcher) []string {
	b := &treeBuilder{
		root:        cfg.Folder,
		matcher:     m,
		filesAlways: cfg.FilesAlways,
		dirsAlways:  cfg.DirsAlways,
		maxDepth:    cfg.MaxDepth,
	}
	lines := b.walk(cfg.Folder, "", 0)
	if len(lines) == 0 {
		return []string{"# Empty directory"}
	}
	return lines
}

type treeBuilder struct {
	root        string
	matcher     *matcher
	filesAlways map[string]bool
	dirsAlways  map[string]bool
	maxDepth    int
}

func (b *treeBuilder) walk(dir, prefix string, depth int) []string {
	if depth > b.maxDepth {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var valid []fs.DirEntry
	for _, entry := range entries {
		if b.matcher.shouldIgnore(b.rel(dir, entry.Name())) {
			continue
		}
		valid = append(valid, entry)
	}

	var lines []string
	for i, entry := range valid {
		last := i == len(valid)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		// A directory whose name classifies as a file (say a dir called
		// README.md) is shown bare and never descended into.
		isFile := tree.IsFile(entry.Name(), b.filesAlways, b.dirsAlways)
		suffix := ""
		if entry.IsDir() && !isFile {
			suffix = "/"
		}
		lines = append(lines, prefix+connector+entry.Name()+suffix)

		if entry.IsDir() && !isFile {
			lines = append(lines, b.walk(filepath.Join(dir, entry.Name()), childPrefix, depth+1)...)
		}
	}
	return lines
}

func (b *treeBuilder) rel(dir, name string) string {
	rel, err := filepath.Rel(b.root, filepath.Join(dir, name))
	if err != nil {
		return name
	}
	return filepath.ToSlash(rel)
}
