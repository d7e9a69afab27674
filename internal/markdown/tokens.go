package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Kind identifies the token types the assignment engine consumes. Markdown
// constructs outside these three kinds carry no file content and are skipped
// during tokenization.
type Kind int

const (
	KindHeading Kind = iota
	KindFence
	KindParagraph
)

// Token is one element of the flat stream the converter walks: a heading with
// its level and inline text, a fenced code block with its info string and raw
// content, or a paragraph with its raw inline text.
type Token struct {
	Kind    Kind
	Level   int
	Text    string
	Info    string
	Content string
}

var engine = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Tokenize parses Markdown source and flattens the document tree into the
// token stream. Fences nested inside lists or quotes are emitted like any
// other; block structure around them is irrelevant to assignment.
func Tokenize(source []byte) []Token {
	doc := engine.Parser().Parse(text.NewReader(source))

	var tokens []Token
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			tokens = append(tokens, Token{
				Kind:  KindHeading,
				Level: node.Level,
				Text:  rawText(node, source),
			})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			tokens = append(tokens, Token{
				Kind:    KindFence,
				Info:    fenceInfo(node, source),
				Content: fenceContent(node, source),
			})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			tokens = append(tokens, Token{
				Kind: KindParagraph,
				Text: rawText(node, source),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return tokens
}

// rawText returns the source text spanned by a block node's lines, with the
// inline markup left intact.
func rawText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}

func fenceInfo(n *ast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return ""
	}
	return string(bytes.TrimSpace(n.Info.Segment.Value(source)))
}

func fenceContent(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}
