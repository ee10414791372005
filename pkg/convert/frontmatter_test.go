package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFrontmatterHints(t *testing.T) {
	t.Run("with frontmatter", func(t *testing.T) {
		markdown := `---
name: deploy-helper
description: Deployment helper for staging and production
---

# Deploy Helper

Some content.
`
		hints := extractFrontmatterHints(markdown)
		assert.Equal(t, "deploy-helper", hints.Name)
		assert.Equal(t, "Deployment helper for staging and production", hints.Description)
	})

	t.Run("partial frontmatter", func(t *testing.T) {
		markdown := "---\nname: deploy-helper\n---\n\n# Title\n"
		hints := extractFrontmatterHints(markdown)
		assert.Equal(t, "deploy-helper", hints.Name)
		assert.Empty(t, hints.Description)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		hints := extractFrontmatterHints("# Just a Title\n\nBody text.\n")
		assert.Empty(t, hints.Name)
		assert.Empty(t, hints.Description)
	})

	t.Run("non string values ignored", func(t *testing.T) {
		hints := extractFrontmatterHints("---\nname: 42\n---\n\nBody.\n")
		assert.Empty(t, hints.Name)
	})
}
