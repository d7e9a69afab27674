// Package assign maps Markdown headings, fenced code blocks, and paragraphs
// onto the file entries of a parsed tree. The primary pass walks the token
// stream with a strategy cascade (exact heading, partial path, basename,
// fuzzy, fence info, first-line hint); the rescue pass retries whatever was
// left unassigned at a configurable aggressiveness. Nothing here touches the
// filesystem, and nothing aborts: problems become warnings on the result.
package assign

import (
	"fmt"
	"path"

	"github.com/julianshen/mdscaffold/internal/markdown"
	"github.com/julianshen/mdscaffold/internal/tree"
)

// Options configures the primary assignment pass.
type Options struct {
	// FilesAlways and DirsAlways override classification for the named
	// basenames (lowercased).
	FilesAlways map[string]bool
	DirsAlways  map[string]bool

	// StripHints removes recognized first-line path hints from assigned
	// blocks instead of rewriting them.
	StripHints bool
}

// Result is the outcome of the assignment passes.
type Result struct {
	// Files lists the tree entries classified as files, in tree order.
	Files []string

	// CodeMap holds the content blocks collected per file, in discovery
	// order. Every entry in Files has a key here, possibly with no blocks.
	CodeMap map[string][]string

	// HeadingMap records the heading or info string that matched each file,
	// used downstream for banner comments.
	HeadingMap map[string]string

	// Unassigned holds blocks no strategy could place.
	Unassigned []string

	// Warnings is the audit trail. Entries carry an info or warning glyph
	// and never abort a run.
	Warnings []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// appendBlock adds body to target's block list. When the previous block's
// first line already names the target the two are fragments of one logical
// file being merged, which is worth a warning.
func (r *Result) appendBlock(target, body string) {
	blocks := r.CodeMap[target]
	if len(blocks) > 0 {
		if first := firstLine(blocks[len(blocks)-1]); hintsSimilar(first, target) {
			r.warnf("⚠️ File %s had multiple code blocks merged", target)
		}
	}
	r.CodeMap[target] = append(blocks, body)
}

func firstLine(s string) string {
	if lines := splitLines(s); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

// pathIndex is the lookup side of a Result: the file entries in tree order
// plus a basename index for unique-basename matching.
type pathIndex struct {
	files     []string
	basenames map[string][]string
}

func newPathIndex(entries []string, filesAlways, dirsAlways map[string]bool) *pathIndex {
	idx := &pathIndex{basenames: make(map[string][]string)}
	for _, entry := range entries {
		base := path.Base(entry)
		if !tree.IsFile(base, filesAlways, dirsAlways) {
			continue
		}
		idx.files = append(idx.files, entry)
		idx.basenames[base] = append(idx.basenames[base], entry)
	}
	return idx
}

// Map walks the token stream and assigns each content block to a tree entry.
// It never fails; malformed input degrades into warnings and unassigned
// blocks on the Result.
func Map(tokens []markdown.Token, treeEntries []string, opts Options) *Result {
	res := &Result{
		CodeMap:    make(map[string][]string),
		HeadingMap: make(map[string]string),
	}
	if len(tokens) == 0 || len(treeEntries) == 0 {
		return res
	}

	idx := newPathIndex(treeEntries, opts.FilesAlways, opts.DirsAlways)
	res.Files = idx.files
	for _, f := range idx.files {
		res.CodeMap[f] = nil
	}

	e := &engine{Result: res, idx: idx, strip: opts.StripHints}
	for i, tok := range tokens {
		e.process(i, tok)
	}
	return res
}
