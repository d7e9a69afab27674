package assign

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

// Comment styles recognized when scanning a block's first line for a path
// hint. Multi-character openers come first so they win over their
// single-character tails.
var hintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^<!--\s*(.*?)\s*(?:-->)?$`),
	regexp.MustCompile(`^//\s*(.*)$`),
	regexp.MustCompile(`^#\s*(.*)$`),
	regexp.MustCompile(`^--\s*(.*)$`),
	regexp.MustCompile(`(?i)^rem\s+(.*)$`),
	regexp.MustCompile(`^%\s*(.*)$`),
	regexp.MustCompile(`^"\s*(.*)$`),
	regexp.MustCompile(`^;\s*(.*)$`),
	regexp.MustCompile(`^\*\s*(.*)$`),
}

// The rescue pass additionally recognizes block-comment openers, since its
// input may carry styles the primary pass never sees.
var rescueHintPatterns = append([]*regexp.Regexp{
	regexp.MustCompile(`^/\*\s*(.*?)\s*(?:\*/)?$`),
}, hintPatterns...)

// rescueHintLines is how many leading lines the rescue pass scans for a hint.
const rescueHintLines = 2

// ExtractHint inspects the first line of a content block for a comment-style
// path hint. It returns the hint, or "" when none was found, and the body:
// the content with the hint line removed when a hint was present, the
// untouched content otherwise.
func ExtractHint(content string) (hint, body string) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return "", content
	}
	first := strings.TrimSpace(lines[0])
	for _, pat := range hintPatterns {
		m := pat.FindStringSubmatch(first)
		if m == nil {
			continue
		}
		if hint = cleanHintPath(m[1]); hint == "" {
			return "", content
		}
		return hint, strings.TrimRightFunc(strings.Join(lines[1:], "\n"), unicode.IsSpace)
	}
	return "", content
}

// rescueHint scans up to the first two lines for a comment hint and returns
// it with the line index it came from, or ("", -1).
func rescueHint(code string) (string, int) {
	lines := splitLines(code)
	for i := 0; i < len(lines) && i < rescueHintLines; i++ {
		line := strings.TrimSpace(lines[i])
		for _, pat := range rescueHintPatterns {
			m := pat.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if hint := cleanHintPath(m[1]); hint != "" {
				return hint, i
			}
			break
		}
	}
	return "", -1
}

// cleanHintPath normalizes a captured hint into path form.
func cleanHintPath(s string) string {
	return strings.ReplaceAll(strings.TrimLeft(strings.TrimSpace(s), "./"), `\`, "/")
}

// applyHintPolicy decides what happens to a block's leading hint once a
// target is known. A hint similar to the target but less specific is
// rewritten as a hint for the target; strip mode removes the hint line
// instead of rewriting, and also removes hints that never matched. The
// second return reports whether the content changed.
func applyHintPolicy(hint, target, content string, strip bool) (string, bool) {
	if hint == "" {
		return content, false
	}
	if hintsSimilar(hint, target) {
		if pathSpecificity(hint) >= pathSpecificity(target) {
			return content, false
		}
		if strip {
			return dropFirstLine(content), true
		}
		return FormatHint(target) + "\n" + dropFirstLine(content), true
	}
	if strip {
		return dropFirstLine(content), true
	}
	return content, false
}

// CommentStyle is the comment syntax for one file type.
type CommentStyle struct {
	Prefix string
	Suffix string
}

// commentStyles maps lowercased file extensions to the comment syntax used
// when writing a path hint or heading banner into that file type. Extensions
// without an entry get hash comments.
var commentStyles = map[string]CommentStyle{
	".py":   {Prefix: "# "},
	".sh":   {Prefix: "# "},
	".bash": {Prefix: "# "},
	".zsh":  {Prefix: "# "},
	".ps1":  {Prefix: "# "},
	".yml":  {Prefix: "# "},
	".yaml": {Prefix: "# "},
	".cfg":  {Prefix: "# "},
	".conf": {Prefix: "# "},
	".txt":  {Prefix: "# "},
	".rb":   {Prefix: "# "},
	".pl":   {Prefix: "# "},
	".tcl":  {Prefix: "# "},
	".r":    {Prefix: "# "},

	".lua":    {Prefix: "-- "},
	".sql":    {Prefix: "-- "},
	".sqlite": {Prefix: "-- "},

	".js":    {Prefix: "// "},
	".ts":    {Prefix: "// "},
	".tsx":   {Prefix: "// "},
	".jsx":   {Prefix: "// "},
	".java":  {Prefix: "// "},
	".go":    {Prefix: "// "},
	".rs":    {Prefix: "// "},
	".cpp":   {Prefix: "// "},
	".c":     {Prefix: "// "},
	".h":     {Prefix: "// "},
	".hpp":   {Prefix: "// "},
	".cs":    {Prefix: "// "},
	".php":   {Prefix: "// "},
	".swift": {Prefix: "// "},
	".kt":    {Prefix: "// "},
	".scala": {Prefix: "// "},
	".m":     {Prefix: "// "},

	".css":  {Prefix: "/* ", Suffix: " */"},
	".scss": {Prefix: "/* ", Suffix: " */"},
	".sass": {Prefix: "/* ", Suffix: " */"},
	".less": {Prefix: "/* ", Suffix: " */"},

	".html": {Prefix: "<!-- ", Suffix: " -->"},
	".xml":  {Prefix: "<!-- ", Suffix: " -->"},
	".md":   {Prefix: "<!-- ", Suffix: " -->"},

	".bat": {Prefix: "REM "},
	".vim": {Prefix: `" `},
	".el":  {Prefix: "; "},
}

// StyleFor returns the comment style for a file's extension.
func StyleFor(filename string) CommentStyle {
	if st, ok := commentStyles[strings.ToLower(path.Ext(filename))]; ok {
		return st
	}
	return CommentStyle{Prefix: "# "}
}

// FormatHint renders target as a comment line appropriate for its file type.
func FormatHint(target string) string {
	st := StyleFor(target)
	return st.Prefix + target + st.Suffix
}

// splitLines splits on newlines without producing a trailing empty line,
// matching how line-based hint indices are counted everywhere else.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	}
	return lines
}

// dropFirstLine removes the first line and trailing whitespace.
func dropFirstLine(content string) string {
	lines := splitLines(content)
	if len(lines) <= 1 {
		return ""
	}
	return strings.TrimRightFunc(strings.Join(lines[1:], "\n"), unicode.IsSpace)
}

// dropLine removes line n (zero-based) and trailing whitespace.
func dropLine(content string, n int) string {
	lines := splitLines(content)
	if n < 0 || n >= len(lines) {
		return strings.TrimRightFunc(content, unicode.IsSpace)
	}
	kept := make([]string, 0, len(lines)-1)
	kept = append(kept, lines[:n]...)
	kept = append(kept, lines[n+1:]...)
	return strings.TrimRightFunc(strings.Join(kept, "\n"), unicode.IsSpace)
}
