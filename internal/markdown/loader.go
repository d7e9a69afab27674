// Package markdown loads conversion input documents: it reads and
// preprocesses the Markdown source, parses optional front matter, tokenizes
// the document into the flat stream the assignment engine walks, and locates
// the ASCII file-structure block.
package markdown

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// maxDocumentSize caps input reads; anything larger is refused outright.
const maxDocumentSize = 10 << 20

var (
	fencedBlockPattern = regexp.MustCompile("(?s)```[\\w \\t]*\\n(.*?)\\n```")
	xaiArtifactPattern = regexp.MustCompile(`(?ims)^[ \t]*<xaiArtifact[^>]*?title="([^"]*)"[^>]*?contentType="([^"]*)">(.*?)</xaiArtifact>`)
	documentTagPattern = regexp.MustCompile(`(?is)<DOCUMENT[^>]*>.*?</DOCUMENT>`)
)

// DocMeta carries per-document overrides supplied as YAML front matter.
type DocMeta struct {
	Output      string   `yaml:"output"`
	FilesAlways []string `yaml:"files_always"`
	DirsAlways  []string `yaml:"dirs_always"`
}

// Document is a loaded, preprocessed conversion input.
type Document struct {
	Path   string
	Source string
	Meta   DocMeta
	Tokens []Token
}

// LoadDocument reads a Markdown file, converts embedded artifact tags into
// headings and fences, strips wrapper tags, parses any YAML front matter into
// Meta, and tokenizes the result.
func LoadDocument(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("not a file: %s", path)
	}
	if info.Size() > maxDocumentSize {
		return nil, fmt.Errorf("document too large: %s (%d bytes > %d limit)", path, info.Size(), maxDocumentSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var meta DocMeta
	rest, err := frontmatter.Parse(bytes.NewReader(data), &meta,
		frontmatter.NewFormat("---", "---", yaml.Unmarshal))
	if err != nil {
		// Malformed front matter is not fatal; the document is used as-is.
		meta = DocMeta{}
		rest = data
	}

	content := escapeArtifactsInFences(string(rest))
	content = convertArtifacts(content)
	content = documentTagPattern.ReplaceAllString(content, "")

	return &Document{
		Path:   path,
		Source: content,
		Meta:   meta,
		Tokens: Tokenize([]byte(content)),
	}, nil
}

// escapeArtifactsInFences HTML-escapes artifact tags that appear inside fenced
// code blocks so the later conversion pass only rewrites real top-level tags.
func escapeArtifactsInFences(content string) string {
	return fencedBlockPattern.ReplaceAllStringFunc(content, func(block string) string {
		m := fencedBlockPattern.FindStringSubmatch(block)
		if m == nil || !strings.Contains(strings.ToLower(m[1]), "<xaiartifact") {
			return block
		}
		fenceLine := block
		if i := strings.IndexByte(block, '\n'); i >= 0 {
			fenceLine = block[:i]
		}
		lang := strings.TrimPrefix(strings.TrimSpace(fenceLine), "```")
		escaped := strings.ReplaceAll(m[1], "<xaiArtifact", "&lt;xaiArtifact")
		escaped = strings.ReplaceAll(escaped, "</xaiArtifact>", "&lt;/xaiArtifact>")
		return "```" + lang + "\n" + escaped + "\n```"
	})
}

// convertArtifacts rewrites <xaiArtifact title=... contentType=...> blocks as
// a level-2 heading plus a fenced code block, so artifact-bearing documents go
// through the same assignment path as plain Markdown.
func convertArtifacts(content string) string {
	return xaiArtifactPattern.ReplaceAllStringFunc(content, func(tag string) string {
		m := xaiArtifactPattern.FindStringSubmatch(tag)
		if m == nil {
			return tag
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			title = "Untitled"
		}
		lang := artifactLanguage(m[2])
		body := strings.TrimSpace(m[3])
		return fmt.Sprintf("\n## %s\n```%s\n%s\n```", title, lang, body)
	})
}

func artifactLanguage(contentType string) string {
	i := strings.LastIndexByte(contentType, '/')
	if i < 0 {
		return "text"
	}
	switch lang := contentType[i+1:]; lang {
	case "javascript", "x-javascript":
		return "javascript"
	case "python", "x-python":
		return "python"
	case "plain", "":
		return "text"
	default:
		return lang
	}
}
