// Package tree parses ASCII-art directory trees into ordered lists of
// canonical, slash-separated paths, and provides the path normalization and
// file/directory classification heuristics the rest of the converter builds on.
package tree

import (
	"fmt"
	"log"
	"path"
	"strings"
)

// Parse converts an ASCII tree block (box-drawing connectors, one entry per
// line) into an ordered list of canonical paths, root first. Directory nesting
// is tracked with an explicit stack of (path, indent) pairs keyed by each raw
// line's indent level. Malformed lines are logged and skipped; a tree that
// cannot be parsed at all yields an empty list, never a panic.
//
// The indent level is a raw character count over spaces and the box-drawing
// set, not a visual depth. Trees indented with plain spaces and no connectors
// therefore nest by space count alone, which is a known limitation for
// hand-written input.
func Parse(treeText string, filesAlways, dirsAlways map[string]bool) (entries []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tree: parse failed: %v", r)
			entries = nil
		}
	}()

	if strings.TrimSpace(treeText) == "" {
		log.Printf("tree: empty tree block")
		return nil
	}

	type frame struct {
		path   string
		indent int
	}
	stack := []frame{{"", 0}}

	for lineNum, raw := range strings.Split(treeText, "\n") {
		cleaned := cleanTreeLine(raw)
		if cleaned == "" {
			continue
		}
		indent := indentLevel(raw)

		// Pop back to the parent. Using <= (not <) lands siblings at equal
		// depth under the same parent rather than under each other.
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		parent := ""
		if len(stack) > 0 {
			parent = stack[len(stack)-1].path
		}

		full := cleaned
		if parent != "" {
			full = parent + "/" + cleaned
		}
		full = Normalize(full)
		if full == "" {
			log.Printf("tree: line %d: unusable entry %q", lineNum+1, raw)
			continue
		}
		entries = append(entries, full)

		if !IsFile(cleaned, filesAlways, dirsAlways) {
			stack = append(stack, frame{full, indent})
		}
	}

	return normalizeToRoot(entries, filesAlways, dirsAlways)
}

// cleanTreeLine strips connectors, comments and decoration from one raw tree
// line, preserving a trailing "/" so the classifier still sees the explicit
// directory marker. Returns "" for lines that carry no entry.
func cleanTreeLine(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	line := strings.TrimRight(raw, " \t\r\n")
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return ""
	}

	cleaned := strings.NewReplacer("│", " ", "├", " ", "└", " ").Replace(line)
	cleaned = strings.ReplaceAll(cleaned, "──", "  ")
	cleaned = strings.ReplaceAll(cleaned, "─", " ")

	content := strings.TrimSpace(cleaned)
	if content == "" {
		return ""
	}

	hadSlash := strings.HasSuffix(content, "/")
	content = strings.TrimRight(content, "/")

	if i := strings.Index(content, " #"); i >= 0 {
		content = content[:i]
	}
	if i := strings.Index(content, " //"); i >= 0 {
		content = content[:i]
	}
	if i := strings.Index(content, " -- "); i >= 0 {
		content = content[:i]
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	if hadSlash {
		content += "/"
	}
	return content
}

// indentLevel counts the leading characters of a raw line that belong to the
// tree-structure set (space and box-drawing glyphs). The same measure is used
// for both push and pop decisions so nesting stays consistent.
func indentLevel(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ', '│', '├', '└', '─':
			n++
		default:
			return n
		}
	}
	return n
}

// normalizeToRoot rewrites entries relative to the declared root: when the
// first entry is a directory, every later entry not already under it gets the
// root prefix. Trees that mix root-relative and bare lines come out uniform.
func normalizeToRoot(entries []string, filesAlways, dirsAlways map[string]bool) []string {
	if len(entries) == 0 {
		return entries
	}
	root := entries[0]
	if IsFile(path.Base(root), filesAlways, dirsAlways) {
		return entries
	}

	normalized := make([]string, 0, len(entries))
	normalized = append(normalized, root)
	for _, entry := range entries[1:] {
		if strings.HasPrefix(entry, root+"/") {
			normalized = append(normalized, entry)
		} else {
			normalized = append(normalized, root+"/"+entry)
		}
	}
	return normalized
}

// Validate checks a parsed entry list for internal consistency: duplicate
// entries and entries whose parent directories are missing from the tree.
// Returns ok=false with one warning per problem found.
func Validate(entries []string) (bool, []string) {
	if len(entries) == 0 {
		return false, []string{"no entries parsed from tree"}
	}

	var warnings []string
	seen := make(map[string]bool, len(entries))
	var dups []string
	for _, entry := range entries {
		if seen[entry] {
			dups = append(dups, entry)
		}
		seen[entry] = true
	}
	if len(dups) > 0 {
		warnings = append(warnings, fmt.Sprintf("duplicate entries: %s", strings.Join(dups, ", ")))
	}

	for _, entry := range entries {
		for dir := path.Dir(entry); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if !seen[dir] {
				warnings = append(warnings, fmt.Sprintf("missing parent directory %s for %s", dir, entry))
				break
			}
		}
	}

	return len(warnings) == 0, warnings
}
