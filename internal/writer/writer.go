// Package writer materializes an assignment result on disk: directories,
// files built from their collected blocks, placeholder stubs for files the
// document never filled in, the unassigned spill, exec bits, and optional
// archives. Nothing here aborts a run; problems accumulate as warnings on
// the Result.
package writer

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/julianshen/mdscaffold/internal/assign"
	"github.com/julianshen/mdscaffold/internal/tree"
)

// Options configures a write pass.
type Options struct {
	OutRoot      string
	DryRun       bool
	Verbose      bool
	SkipEmpty    bool
	Placeholders bool
	NoOverwrite  bool

	// AllowDangerous lets entries with dangerous extensions (.sh, .exe,
	// ...) through the path safety screen.
	AllowDangerous bool

	// ShouldWrite, when set, can veto a file write after its final content
	// is assembled. The incremental store uses it to skip unchanged files.
	ShouldWrite func(target, content string) bool

	// OnWrite, when set, observes each successful write with its final
	// content.
	OnWrite func(target, content string)

	// Ignore drops entries matching any of these doublestar patterns
	// before writing.
	Ignore []string

	FilesAlways map[string]bool
	DirsAlways  map[string]bool

	// Placeholder overrides the stub table. Zero value means
	// DefaultPlaceholders.
	Placeholder PlaceholderConfig
}

// Result summarizes a write pass. CreatedDirs and CreatedFiles are
// populated in dry runs too; FilesWritten counts actual disk writes.
type Result struct {
	CreatedDirs  []string
	CreatedFiles []string
	FilesWritten int
	Placeholders int
	LinesWritten int
	Warnings     []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Write reconciles the tree entries with the assigned content under
// opts.OutRoot. Entries keep tree order; a bad entry degrades into a
// warning and the rest still get written.
func Write(entries []string, assigned *assign.Result, opts Options) *Result {
	res := &Result{}
	if len(entries) == 0 {
		res.warnf("⚠️ No tree entries provided")
		return res
	}
	if opts.OutRoot == "" {
		res.warnf("❌ No output root provided")
		return res
	}
	if opts.Placeholder.Default == "" && opts.Placeholder.ByExtension == nil {
		opts.Placeholder = DefaultPlaceholders()
	}

	w := &treeWriter{Result: res, assigned: assigned, opts: opts}
	for _, entry := range entries {
		w.processEntry(entry)
	}
	return res
}

type treeWriter struct {
	*Result
	assigned *assign.Result
	opts     Options
}

func (w *treeWriter) processEntry(entry string) {
	defer func() {
		if r := recover(); r != nil {
			w.warnf("❌ Error processing entry '%s': %v", entry, r)
		}
	}()

	clean := tree.Normalize(entry)
	if clean == "" {
		w.warnf("⚠️ Empty or invalid entry: %s", entry)
		return
	}
	if w.ignored(clean) {
		return
	}

	if tree.IsFile(path.Base(clean), w.opts.FilesAlways, w.opts.DirsAlways) {
		w.processFile(clean)
	} else {
		w.processDir(clean)
	}
}

func (w *treeWriter) ignored(entry string) bool {
	for _, pat := range w.opts.Ignore {
		if ok, err := doublestar.Match(pat, entry); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *treeWriter) processFile(entry string) {
	if err := tree.ValidateEntryPath(entry, w.opts.AllowDangerous); err != nil {
		w.warnf("❌ Unsafe path '%s': %v", entry, err)
		return
	}

	content, isPlaceholder, ok := w.prepareContent(entry)
	if !ok {
		return
	}
	content = w.addHeadingBanner(content, entry)

	target := filepath.Join(w.opts.OutRoot, filepath.FromSlash(entry))
	if w.opts.Verbose {
		if isPlaceholder {
			log.Printf("[write] %s (placeholder)", target)
		} else {
			log.Printf("[write] %s", target)
		}
	}

	if !w.opts.DryRun && w.opts.ShouldWrite != nil && !w.opts.ShouldWrite(target, content) {
		if w.opts.Verbose {
			log.Printf("[skip] %s (unchanged)", target)
		}
		w.CreatedFiles = append(w.CreatedFiles, target)
		return
	}

	if !w.opts.DryRun {
		written, warns := SafeWrite(target, content, w.opts.NoOverwrite)
		w.Warnings = append(w.Warnings, warns...)
		if written {
			w.FilesWritten++
			if w.opts.OnWrite != nil {
				w.opts.OnWrite(target, content)
			}
		}
	}

	w.CreatedFiles = append(w.CreatedFiles, target)
	w.LinesWritten += countLines(content)
	if isPlaceholder {
		w.Placeholders++
	}
}

// prepareContent builds the file body from its collected blocks, or a
// placeholder when the document never filled the file in. ok is false
// when nothing should be written.
func (w *treeWriter) prepareContent(entry string) (content string, isPlaceholder, ok bool) {
	if blocks := w.assigned.CodeMap[entry]; len(blocks) > 0 {
		content = strings.TrimSpace(strings.Join(blocks, "\n\n"))
		if content == "" {
			w.warnf("⚠️ File '%s' has empty content blocks", entry)
			return "", false, false
		}
		return content + "\n", false, true
	}

	if w.opts.SkipEmpty {
		w.warnf("ℹ️ Skipped placeholder file %s due to --skip-empty", entry)
		return "", false, false
	}
	if w.opts.Placeholders {
		return w.opts.Placeholder.For(entry), true, true
	}
	return "", false, true
}

// addHeadingBanner prepends the matched heading as a comment in the
// file's own comment style, unless the content already opens with a hint
// naming this file.
func (w *treeWriter) addHeadingBanner(content, entry string) string {
	heading, ok := w.assigned.HeadingMap[entry]
	if !ok || heading == "" {
		return content
	}
	if hint, _ := assign.ExtractHint(content); hint != "" {
		if strings.HasSuffix(entry, hint) || strings.HasSuffix(hint, entry) {
			return content
		}
	}

	style := assign.StyleFor(entry)
	if style.Suffix != "" {
		return style.Prefix + heading + style.Suffix + "\n" + content
	}
	return style.Prefix + heading + "\n" + content
}

func (w *treeWriter) processDir(entry string) {
	if err := tree.ValidateEntryPath(entry, w.opts.AllowDangerous); err != nil {
		w.warnf("❌ Unsafe path '%s': %v", entry, err)
		return
	}

	target := filepath.Join(w.opts.OutRoot, filepath.FromSlash(entry))
	if !w.opts.DryRun {
		if err := os.MkdirAll(target, 0o755); err != nil {
			w.warnf("⚠️ Failed to create directory %s: %v", target, err)
			return
		}
	}
	w.CreatedDirs = append(w.CreatedDirs, target)
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// Spill saves each unassigned block as UNASSIGNED/unassigned_N.txt under
// outRoot, plus a README pointing at them. It returns how many blocks
// were saved.
func Spill(outRoot string, blocks []string) (int, []string) {
	if len(blocks) == 0 {
		return 0, nil
	}

	dir := filepath.Join(outRoot, "UNASSIGNED")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, []string{fmt.Sprintf("⚠️ Failed to save unassigned blocks: %v", err)}
	}

	var warnings []string
	var names []string
	for i, block := range blocks {
		name := fmt.Sprintf("unassigned_%d.txt", i+1)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(block), 0o644); err != nil {
			warnings = append(warnings, fmt.Sprintf("⚠️ Failed to save unassigned block %d: %v", i+1, err))
			continue
		}
		names = append(names, name)
	}

	var b strings.Builder
	b.WriteString("# Unassigned blocks\n\n")
	fmt.Fprintf(&b, "%d code block(s) could not be matched to any file in the tree.\n", len(names))
	b.WriteString("Review each file below and move its content where it belongs.\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(b.String()), 0o644); err != nil {
		warnings = append(warnings, fmt.Sprintf("⚠️ Failed to write UNASSIGNED/README.md: %v", err))
	}

	return len(names), warnings
}
