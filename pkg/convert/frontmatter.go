package convert

import (
	"bytes"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// frontmatterHints carries identity hints pulled from YAML frontmatter in
// the source markdown, used to repair the LLM's meta section.
type frontmatterHints struct {
	Name        string
	Description string
}

// extractFrontmatterHints parses SKILL.md-style frontmatter. Markdown
// without frontmatter yields empty hints.
func extractFrontmatterHints(markdown string) frontmatterHints {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(markdown), &buf, parser.WithContext(pctx)); err != nil {
		return frontmatterHints{}
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return frontmatterHints{}
	}

	hints := frontmatterHints{}
	if name, ok := metaData["name"].(string); ok {
		hints.Name = name
	}
	if description, ok := metaData["description"].(string); ok {
		hints.Description = description
	}
	return hints
}
