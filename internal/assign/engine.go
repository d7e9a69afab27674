package assign

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/julianshen/mdscaffold/internal/markdown"
)

// Match kinds, recorded in the audit warnings.
const (
	matchExact    = "exact"
	matchInferred = "inferred"
	matchHint     = "hint"
	matchBasename = "basename"
)

// engine holds the walk state of the primary pass: which file the last
// heading established as current, and the one-shot flag that keeps the
// "File Structure" tree fence out of the content.
type engine struct {
	*Result
	idx   *pathIndex
	strip bool

	currentFile    string
	currentHeading string
	skipNextFence  bool
}

// process dispatches one token. A panic while handling a token is recorded
// as a warning and the walk moves on; one malformed block must never take
// down the whole conversion.
func (e *engine) process(i int, tok markdown.Token) {
	defer func() {
		if r := recover(); r != nil {
			e.warnf("⚠️ Error processing token %d: %v", i, r)
		}
	}()
	switch tok.Kind {
	case markdown.KindHeading:
		e.handleHeading(tok.Text)
	case markdown.KindFence:
		e.handleFence(tok.Info, tok.Content)
	case markdown.KindParagraph:
		e.handleParagraph(tok.Text)
	}
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// cleanHeading reduces a heading to its path-like core: inline markup and
// HTML tags removed, backslashes turned into slashes, leading "./" dropped.
func cleanHeading(text string) string {
	s := strings.TrimSpace(htmlTagPattern.ReplaceAllString(text, ""))
	s = stripInlineMarkup(s)
	return strings.TrimLeft(strings.ReplaceAll(s, `\`, "/"), "./")
}

// stripInlineMarkup peels balanced emphasis and code markers off both ends.
// Unbalanced markers stay put so names like "__init__.py" survive.
func stripInlineMarkup(s string) string {
	markers := []string{"`", "**", "*", "__", "_"}
	for {
		t := s
		for _, m := range markers {
			if len(t) >= 2*len(m) && strings.HasPrefix(t, m) && strings.HasSuffix(t, m) {
				t = strings.TrimSpace(t[len(m) : len(t)-len(m)])
			}
		}
		if t == s {
			return t
		}
		s = t
	}
}

func (e *engine) handleHeading(text string) {
	heading := strings.TrimSpace(text)
	clean := cleanHeading(heading)

	if strings.EqualFold(clean, "file structure") {
		e.currentFile, e.currentHeading = "", ""
		e.skipNextFence = true
		return
	}
	e.currentFile, e.currentHeading = e.resolveHeading(heading, clean)
}

// resolveHeading maps a heading to a file entry: exact path, then unique
// partial path, then unique basename, then fuzzy. Ambiguity at the partial
// stage wins over the later stages, since a heading matching two files by
// suffix must not be silently fuzzy-matched to a third.
func (e *engine) resolveHeading(heading, clean string) (string, string) {
	if _, ok := e.CodeMap[clean]; ok {
		e.HeadingMap[clean] = heading
		return clean, heading
	}

	var candidates []string
	for _, f := range e.idx.files {
		if strings.HasSuffix(clean, f) || strings.HasSuffix(f, clean) {
			candidates = append(candidates, f)
		}
	}
	switch {
	case len(candidates) == 1:
		e.HeadingMap[candidates[0]] = heading
		e.warnf("ℹ️ Matched heading '%s' to file '%s' via partial path", heading, candidates[0])
		return candidates[0], heading
	case len(candidates) > 1:
		e.warnf("⚠️ Ambiguous heading '%s' matches multiple files: %s", heading, strings.Join(candidates, ", "))
		return "", ""
	}

	if base := path.Base(clean); base != "." && base != "/" {
		if paths := e.idx.basenames[base]; len(paths) == 1 {
			e.HeadingMap[paths[0]] = heading
			e.warnf("ℹ️ Matched heading '%s' to file '%s' via basename", heading, paths[0])
			return paths[0], heading
		}
	}

	if matches := closeMatches(clean, e.idx.files, 1, similarThreshold); len(matches) > 0 {
		e.HeadingMap[matches[0]] = heading
		e.warnf("ℹ️ Fuzzy matched heading '%s' to file '%s'", heading, matches[0])
		return matches[0], heading
	}

	e.warnf("⚠️ Heading '%s' does not match any file in tree", heading)
	return "", ""
}

func (e *engine) handleFence(info, content string) {
	info = strings.TrimSpace(info)
	content = strings.TrimRightFunc(dedent(content), unicode.IsSpace)
	content = strings.ReplaceAll(content, "\\```", "```")

	if e.skipNextFence {
		e.skipNextFence = false
		return
	}

	if e.currentFile != "" {
		if _, ok := e.CodeMap[e.currentFile]; ok {
			e.appendToCurrent(content)
			return
		}
	}

	if info != "" && e.assignByInfo(info, content) {
		return
	}

	if hint, _ := ExtractHint(content); hint != "" {
		var candidates []string
		for _, f := range e.idx.files {
			if strings.HasSuffix(f, hint) || strings.Contains(f, hint) {
				candidates = append(candidates, f)
			}
		}
		switch {
		case len(candidates) == 1:
			if e.assignFence(candidates[0], hint, content, matchHint) {
				return
			}
		case len(candidates) > 1:
			e.warnf("⚠️ Ambiguous hint '%s' matches %s; kept unassigned", hint, strings.Join(candidates, ", "))
			e.Unassigned = append(e.Unassigned, content)
			return
		}
	}

	if info != "" {
		if base := path.Base(info); base != "." && base != "/" {
			if paths := e.idx.basenames[base]; len(paths) == 1 {
				if e.assignFence(paths[0], base, content, matchBasename) {
					return
				}
			}
		}
	}

	e.Unassigned = append(e.Unassigned, content)
}

// appendToCurrent adds a fence to the file the current heading established,
// running the hint policy against the block's own first line.
func (e *engine) appendToCurrent(content string) {
	hint, _ := ExtractHint(content)
	body, replaced := applyHintPolicy(hint, e.currentFile, content, e.strip)
	if replaced {
		e.warnf("ℹ️ Replaced hint '%s' with '%s' (more specific)", hint, e.currentFile)
	}
	if body != "" {
		e.appendBlock(e.currentFile, body)
	}
}

// assignByInfo resolves a fence through its info string. It reports whether
// the fence was handled, including the ambiguous case, which parks the block
// in Unassigned; only a resolver miss falls through to the later stages.
func (e *engine) assignByInfo(info, content string) bool {
	candidates := InferTargets(info, e.idx.files)

	lower := strings.ToLower(info)
	for _, c := range candidates {
		if strings.ToLower(path.Base(c)) == lower {
			return e.assignFence(c, info, content, matchExact)
		}
	}
	if len(candidates) == 1 {
		return e.assignFence(candidates[0], info, content, matchInferred)
	}
	if len(candidates) > 1 {
		e.warnf("⚠️ Ambiguous fence info '%s' matches %s; kept unassigned", info, strings.Join(candidates, ", "))
		e.Unassigned = append(e.Unassigned, content)
		return true
	}
	return false
}

// assignFence places a block on target, applying the hint policy and
// recording the match in the heading map and the audit trail.
func (e *engine) assignFence(target, sourceInfo, content, kind string) bool {
	if _, ok := e.CodeMap[target]; !ok {
		return false
	}
	hint, _ := ExtractHint(content)
	body, replaced := applyHintPolicy(hint, target, content, e.strip)
	if replaced {
		e.warnf("ℹ️ Replaced hint '%s' with '%s' (more specific)", hint, target)
	}
	if body != "" {
		e.appendBlock(target, body)
		if _, ok := e.HeadingMap[target]; !ok {
			e.HeadingMap[target] = sourceInfo
		}
		if kind == matchExact {
			e.warnf("ℹ️ Assigned fenced block (exact info='%s') -> %s", sourceInfo, target)
		} else {
			e.warnf("ℹ️ Assigned fenced block (info='%s') -> %s", sourceInfo, target)
		}
	}
	return true
}

// handleParagraph treats prose under a resolved heading as content for that
// file. Consecutive duplicates are dropped.
func (e *engine) handleParagraph(text string) {
	if e.currentFile == "" {
		return
	}
	blocks, ok := e.CodeMap[e.currentFile]
	if !ok {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(blocks) > 0 && blocks[len(blocks)-1] == text {
		return
	}
	e.appendBlock(e.currentFile, text)
}

// dedent strips the longest common leading whitespace from every line,
// ignoring blank lines when computing the common prefix.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	found := false
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		if !found {
			prefix, found = indent, true
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
		if prefix == "" {
			return s
		}
	}
	if !found || prefix == "" {
		return s
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
