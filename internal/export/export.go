// Package export walks a real directory and renders it back into the
// generator's Markdown form: an ASCII structure fence followed by one
// fenced content section per file. The output is the inverse feed; run it
// back through the generation pipeline and you get the folder again.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all exporter configuration.
type Config struct {
	// Folder is the directory to export.
	Folder string

	// Output is the Markdown file to write. Empty means "<folder>.md"
	// next to the folder.
	Output string

	// Ignore holds extra ignore patterns applied on top of the built-in
	// table and the folder's .gitignore.
	Ignore []string

	// FilesAlways and DirsAlways override file/directory classification
	// by lowercased basename.
	FilesAlways map[string]bool
	DirsAlways  map[string]bool

	Concurrency int   // parallel file reads, 0 means 5
	MaxDepth    int   // tree recursion cap, 0 means 20
	MaxFileSize int64 // per-file embed cap in bytes, 0 means 1 MiB

	// Compare re-parses the written Markdown and warns when its structure
	// fence disagrees with the exported file list.
	Compare bool
}

// Result reports what one export produced.
type Result struct {
	Output   string
	Files    []string
	Warnings []string
}

// Run executes the exporter: scan -> tree -> read -> render -> verify.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	info, err := os.Stat(cfg.Folder)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", cfg.Folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", cfg.Folder)
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 20
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 1 << 20
	}
	output := cfg.Output
	if output == "" {
		output = filepath.Clean(cfg.Folder) + ".md"
	}

	m := newMatcher(cfg.Folder, cfg.Ignore)
	res := &Result{Output: output}

	treeLines := buildTree(cfg, m)

	files, warns := collectFiles(ctx, cfg, m)
	res.Warnings = append(res.Warnings, warns...)
	for _, f := range files {
		res.Files = append(res.Files, f.Path)
	}

	content := renderMarkdown(cfg.Folder, treeLines, files, res.Warnings)

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", output, err)
	}

	if cfg.Compare {
		res.Warnings = append(res.Warnings, compareStructure(cfg, content, res.Files)...)
	}
	return res, nil
}
