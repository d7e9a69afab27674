package export

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"
)

// binaryExtensions short-circuit to a skip marker instead of embedding
// bytes that would corrupt the Markdown.
var binaryExtensions = map[string]bool{
	".ico": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tiff": true, ".webp": true, ".svg": true, ".pdf": true,
	".zip": true, ".tar": true, ".gz": true, ".7z": true, ".exe": true,
	".dll": true, ".so": true, ".dylib": true, ".woff": true, ".woff2": true,
	".ttf": true, ".eot": true,
}

// langExtensions maps file extensions to fence info strings.
var langExtensions = map[string]string{
	"py":         "python",
	"js":         "javascript",
	"ts":         "typescript",
	"tsx":        "tsx",
	"jsx":        "jsx",
	"json":       "json",
	"md":         "markdown",
	"mdx":        "markdown",
	"yml":        "yaml",
	"yaml":       "yaml",
	"sh":         "bash",
	"bash":       "bash",
	"zsh":        "bash",
	"css":        "css",
	"scss":       "scss",
	"sass":       "sass",
	"html":       "html",
	"htm":        "html",
	"xml":        "xml",
	"csv":        "csv",
	"txt":        "text",
	"text":       "text",
	"java":       "java",
	"c":          "c",
	"cpp":        "cpp",
	"h":          "c",
	"hpp":        "cpp",
	"go":         "go",
	"rs":         "rust",
	"php":        "php",
	"rb":         "ruby",
	"sql":        "sql",
	"dockerfile": "dockerfile",
	"toml":       "toml",
	"ini":        "ini",
	"cfg":        "ini",
}

// exportFile is one file headed for the Markdown body.
type exportFile struct {
	Path     string // slash-relative to the folder
	Language string
	Content  string
}

// collectFiles lists the exportable files under cfg.Folder and reads their
// contents with a bounded worker pool. Order follows the walk.
func collectFiles(ctx context.Context, cfg Config, m *matcher) ([]exportFile, []string) {
	var paths []string
	var warnings []string

	root := cfg.Folder
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if m.shouldIgnore(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("⚠️ Error scanning %s: %v", root, err))
	}

	files := make([]exportFile, len(paths))
	p := pool.New().WithMaxGoroutines(cfg.Concurrency)
	for i, rel := range paths {
		i, rel := i, rel
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			files[i] = exportFile{
				Path:     rel,
				Language: detectLanguage(rel),
				Content:  readFileSafely(filepath.Join(root, filepath.FromSlash(rel)), cfg.MaxFileSize),
			}
		})
	}
	p.Wait()

	// Cancellation leaves zero-valued slots behind.
	kept := files[:0]
	for _, f := range files {
		if f.Path != "" {
			kept = append(kept, f)
		}
	}
	return kept, warnings
}

// detectLanguage picks the fence info string for a file.
func detectLanguage(rel string) string {
	name := strings.ToLower(path.Base(rel))
	switch name {
	case "dockerfile", "makefile", ".gitignore":
		return strings.ReplaceAll(name, ".", "")
	}

	ext := strings.TrimPrefix(path.Ext(name), ".")
	if lang, ok := langExtensions[ext]; ok {
		return lang
	}
	return "text"
}

// readFileSafely reads one file for embedding, replacing binary or
// unreadable content with a marker comment. Inner triple backticks are
// escaped so the fence survives; the assignment engine restores them on
// the way back in.
func readFileSafely(path string, maxSize int64) string {
	if binaryExtensions[strings.ToLower(filepath.Ext(path))] {
		return "# Binary file (skipped)"
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("# Error reading file: %v", err)
	}
	if info.Size() > maxSize {
		return fmt.Sprintf("# File too large (%d bytes), skipped", info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("# Error reading file: %v", err)
	}
	if !utf8.Valid(data) {
		return "# Binary or non-text file, skipped"
	}

	content := strings.TrimRightFunc(string(data), unicode.IsSpace)
	return strings.ReplaceAll(content, "```", "\\```")
}
