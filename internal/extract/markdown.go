package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// extractMarkdown parses markdown into an AST and flattens it to plain text,
// taking the first level-1 heading (or level-2 when no level-1 exists) as the
// document title.
func extractMarkdown(sourceName string, content []byte) (string, Metadata, error) {
	reader := text.NewReader(content)
	doc := markdownParser.Parser().Parse(reader)

	meta := Metadata{
		Title:      markdownTitle(doc, content),
		SourceName: sourceName,
	}
	if meta.Title == "" {
		meta.Title = titleFromSourceName(sourceName)
	}

	return flattenMarkdown(doc, content), meta, nil
}

// markdownTitle finds the first H1, falling back to the first H2.
func markdownTitle(doc ast.Node, content []byte) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := nodeText(heading, content)
		switch {
		case heading.Level == 1 && firstH1 == "":
			firstH1 = headingText
			return ast.WalkStop, nil
		case heading.Level == 2 && firstH2 == "":
			firstH2 = headingText
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	return firstH2
}

// flattenMarkdown walks the AST collecting visible text, separating block
// nodes with newlines so chunk boundaries can fall between paragraphs.
func flattenMarkdown(doc ast.Node, content []byte) string {
	var sb strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
		case *ast.Text:
			sb.Write(node.Segment.Value(content))
		case *ast.String:
			sb.Write(node.Value)
		case *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				sb.Write(line.Value(content))
			}
		case *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				sb.Write(line.Value(content))
			}
		}
		return ast.WalkContinue, nil
	})

	return sb.String()
}

// nodeText extracts the text content of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var sb strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(content))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}
