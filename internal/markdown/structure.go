package markdown

import (
	"log"
	"regexp"
	"strings"
)

var (
	structureHeadingPattern = regexp.MustCompile("(?is)(?:^|\\n)##+[ \\t]*[^\\n]*structure[^\\n]*\\n+```(?:\\w+)?[ \\t]*\\n(.*?)\\n```")
	structureAltPattern     = regexp.MustCompile("(?is)(?:^|\\n)(?:#+[ \\t]*[^\\n]*structure|File\\s+Structure|Folder\\s+Structure)[^\\n]*\\n```(?:\\w+)?[ \\t]*\\n(.*?)\\n```")
	treeLikePattern         = regexp.MustCompile("```(?:\\w+)?[ \\t]*\\n((?:[├└│─\\s\\w.\\-/]+\\n)+)```")
)

var structureKeywords = []string{
	"structure", "file structure", "folder structure",
	"directory structure", "project structure",
}

// isStructureHeading reports whether a heading introduces the file-structure
// block. Loose on purpose: "Project Structure", "Structure", "The structure of
// the app" all count.
func isStructureHeading(content string) bool {
	text := strings.ToLower(strings.TrimSpace(content))
	if text == "" {
		return false
	}
	for _, keyword := range structureKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// ExtractStructureBlock locates the ASCII tree inside a document: first the
// fence under a structure heading, then regex fallbacks over the raw source,
// finally any fence that simply looks like a tree. Returns "" when nothing
// plausible is found.
func ExtractStructureBlock(source string, tokens []Token) string {
	if len(tokens) == 0 {
		log.Printf("markdown: no tokens, falling back to regex structure search")
		return validateStructureContent(regexStructureSearch(source))
	}

	if idx := structureHeadingIndex(tokens); idx >= 0 {
		if content := fenceAfterHeading(tokens, idx); content != "" {
			if validated := validateStructureContent(content); validated != "" {
				return validated
			}
		}
	}

	if content := regexStructureSearch(source); content != "" {
		if validated := validateStructureContent(content); validated != "" {
			return validated
		}
	}

	// Last resort: any fence whose opening lines look tree-shaped.
	for _, tok := range tokens {
		if tok.Kind != KindFence {
			continue
		}
		content := strings.TrimSpace(tok.Content)
		if content == "" {
			continue
		}
		lines := strings.Split(content, "\n")
		if len(lines) >= 3 && countTreeIndicators(lines, 5) >= 2 {
			if validated := validateStructureContent(content); validated != "" {
				return validated
			}
		}
	}

	log.Printf("markdown: could not find a file structure block")
	return ""
}

func structureHeadingIndex(tokens []Token) int {
	for i, tok := range tokens {
		if tok.Kind == KindHeading && isStructureHeading(tok.Text) {
			return i
		}
	}
	return -1
}

// fenceAfterHeading returns the first fence between the structure heading and
// the next heading at the same or a higher level.
func fenceAfterHeading(tokens []Token, headingIdx int) string {
	level := tokens[headingIdx].Level
	for _, tok := range tokens[headingIdx+1:] {
		if tok.Kind == KindHeading && tok.Level <= level {
			return ""
		}
		if tok.Kind == KindFence {
			return tok.Content
		}
	}
	return ""
}

func regexStructureSearch(source string) string {
	if m := structureHeadingPattern.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	if m := structureAltPattern.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	if m := treeLikePattern.FindStringSubmatch(source); m != nil {
		lines := strings.Split(m[1], "\n")
		if countTreeIndicators(lines, 10) >= 2 {
			return m[1]
		}
	}
	return ""
}

// countTreeIndicators counts how many of the first limit lines contain a path
// separator or box-drawing connector.
func countTreeIndicators(lines []string, limit int) int {
	if len(lines) > limit {
		lines = lines[:limit]
	}
	count := 0
	for _, line := range lines {
		if strings.ContainsAny(line, "/│├└") || strings.Contains(line, "──") {
			count++
		}
	}
	return count
}

// validateStructureContent sanity-checks an extracted block and trims it.
// Blocks that look nothing like a tree are still returned (the parser degrades
// gracefully) but the mismatch is logged.
func validateStructureContent(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	lines := strings.Split(content, "\n")
	structure := 0
	fileLike := 0
	probe := lines
	if len(probe) > 10 {
		probe = probe[:10]
	}
	for _, line := range probe {
		clean := strings.TrimSpace(line)
		if strings.ContainsAny(clean, "│├└") || strings.Contains(clean, "──") {
			structure++
		}
		for _, ind := range []string{"/", ".json", ".js", ".py", ".html", ".css", ".md"} {
			if strings.Contains(clean, ind) {
				fileLike++
				break
			}
		}
		if strings.HasSuffix(clean, "/") && len(clean) > 1 {
			structure++
		}
	}
	if structure == 0 && fileLike < 2 {
		log.Printf("markdown: extracted block does not look like a file structure")
	}
	return content
}
