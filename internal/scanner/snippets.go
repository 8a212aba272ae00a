package scanner

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"genforge/internal/model"
)

// ExtractSnippets uses a markdown AST to collect plain fenced code blocks
// from a response. Blocks whose info string is a file or folder directive
// belong to the materialization grammar and are skipped.
func ExtractSnippets(source []byte) ([]model.Snippet, error) {
	var snippets []model.Snippet
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var info string
		if fenced.Info != nil {
			info = string(fenced.Info.Text(source))
		}
		if strings.HasPrefix(info, "file:") || strings.HasPrefix(info, "folder:") {
			return ast.WalkSkipChildren, nil
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}

		snippets = append(snippets, model.Snippet{
			Lang:    info,
			Content: content.String(),
		})
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	return snippets, nil
}
