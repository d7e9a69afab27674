package export

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are directory names pruned wholesale, before any pattern runs.
var skipDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".venv":         true,
	"venv":          true,
	"env":           true,
	"build":         true,
	"dist":          true,
	"target":        true,
	"out":           true,
	".vscode":       true,
	".idea":         true,
	".cache":        true,
	"logs":          true,
	"vendor":        true,
	"htmlcov":       true,
	"_build":        true,
}

// defaultIgnorePatterns cover lockfiles, caches, build output and binary
// assets that never belong in an export.
var defaultIgnorePatterns = []string{
	// Node.js
	"node_modules/**",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	".npmrc",
	"npm-debug.log*",

	// Python
	"__pycache__/**",
	"*.pyc",
	"*.pyo",
	"*.pyd",
	"*.egg-info/**",
	"*.egg",
	".venv/**",
	"venv/**",
	"env/**",
	".env",
	".env.local",
	".env.*.local",

	// Git
	".git/**",
	".gitignore",
	".gitattributes",
	".gitkeep",

	// OS
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",

	// IDE and editors
	".vscode/**",
	".idea/**",
	"*.swp",
	"*.swo",
	"*~",

	// Build artifacts
	"build/**",
	"dist/**",
	"target/**",
	"out/**",
	".next/**",
	".nuxt/**",
	".output/**",

	// Logs and runtime data
	"*.log",
	"logs/**",
	"*.pid",
	"*.seed",
	"*.pid.lock",

	// Images
	"*.ico",
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.bmp",
	"*.tiff",
	"*.webp",
	"*.svg",

	// Archives and binaries
	"*.pdf",
	"*.zip",
	"*.tar",
	"*.gz",
	"*.7z",
	"*.exe",
	"*.dll",
	"*.so",
	"*.dylib",

	// Fonts
	"*.woff",
	"*.woff2",
	"*.ttf",
	"*.eot",
}

// matcher combines the built-in ignore table, user patterns and the
// folder's .gitignore (with "!" unignores) into one screen.
type matcher struct {
	ignores   []string
	unignores []string
}

func newMatcher(folder string, userIgnore []string) *matcher {
	m := &matcher{}
	m.ignores = append(m.ignores, defaultIgnorePatterns...)
	m.ignores = append(m.ignores, userIgnore...)

	ignores, unignores := loadGitignore(filepath.Join(folder, ".gitignore"))
	m.ignores = append(m.ignores, ignores...)
	m.unignores = append(m.unignores, unignores...)
	return m
}

// loadGitignore splits a .gitignore into ignore patterns and "!" unignores.
// A missing or unreadable file yields nothing.
func loadGitignore(path string) (ignores, unignores []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			unignores = append(unignores, line[1:])
			continue
		}
		ignores = append(ignores, line)
	}
	return ignores, unignores
}

// shouldIgnore applies unignores first, then the explicit directory table,
// then the combined ignore patterns.
func (m *matcher) shouldIgnore(rel string) bool {
	for _, pat := range m.unignores {
		if matchPattern(pat, rel) {
			return false
		}
	}
	for _, part := range strings.Split(rel, "/") {
		if skipDirs[strings.ToLower(part)] {
			return true
		}
	}
	for _, pat := range m.ignores {
		if matchPattern(pat, rel) {
			return true
		}
	}
	return false
}

// matchPattern matches one gitignore-style pattern against a slash-relative
// path. A pattern without a slash matches the basename at any depth; a
// directory pattern covers everything under it.
func matchPattern(pattern, rel string) bool {
	pattern = strings.TrimSuffix(strings.TrimSpace(pattern), "/")
	if pattern == "" {
		return false
	}
	if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, err := doublestar.Match(pattern, path.Base(rel)); err == nil && ok {
			return true
		}
	}
	if ok, err := doublestar.Match(pattern+"/**", rel); err == nil && ok {
		return true
	}
	return false
}
