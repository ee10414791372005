package convert

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ifoster01/uasp/pkg/skill"
)

// Generator renders a skill as human-readable Markdown. The rendering is
// deterministic; when an LLM config is supplied the template output is
// additionally passed through the model for richer prose.
type Generator struct {
	// IncludeVersion controls whether the header shows the fingerprint.
	IncludeVersion bool
	// LLM, when non-nil, enables enhancement of the template output.
	LLM *Config
}

// NewGenerator returns a generator with version info included.
func NewGenerator() *Generator {
	return &Generator{IncludeVersion: true}
}

// Generate renders the skill. With an LLM configured, failures of the
// enhancement call fail the generation; use a nil LLM config for the
// purely mechanical rendering.
func (g *Generator) Generate(ctx context.Context, s *skill.Skill) (string, error) {
	template := g.renderTemplate(s)
	if g.LLM == nil {
		return template, nil
	}

	yamlText, err := yaml.Marshal(s)
	if err != nil {
		return "", &Error{Message: err.Error()}
	}
	enhanced, err := complete(ctx, *g.LLM, enhancementPrompt(string(yamlText), template))
	if err != nil {
		return "", &Error{Message: err.Error(), Source: string(g.LLM.Provider)}
	}
	return enhanced, nil
}

func (g *Generator) renderTemplate(s *skill.Skill) string {
	var sections []string

	sections = append(sections, g.renderHeader(s))
	if s.Triggers != nil {
		sections = append(sections, renderTriggers(s.Triggers))
	}
	if s.Constraints != nil {
		sections = append(sections, renderConstraints(s.Constraints))
	}
	if len(s.Decisions) > 0 {
		sections = append(sections, renderDecisions(s.Decisions))
	}
	if s.State != nil && len(s.State.Entities) > 0 {
		sections = append(sections, renderState(s.State))
	}
	if len(s.Commands) > 0 {
		sections = append(sections, renderCommands(s))
	}
	if len(s.Workflows) > 0 {
		sections = append(sections, renderWorkflows(s.Workflows))
	}
	if len(s.Reference) > 0 {
		sections = append(sections, renderReference(s.Reference))
	}
	if len(s.Templates) > 0 {
		sections = append(sections, renderTemplates(s.Templates))
	}
	if len(s.Environment) > 0 {
		sections = append(sections, renderEnvironment(s.Environment))
	}
	if len(s.Sources) > 0 {
		sections = append(sections, renderSources(s.Sources))
	}

	return strings.Join(sections, "\n")
}

func (g *Generator) renderHeader(s *skill.Skill) string {
	lines := []string{"# " + titleFromName(s.Meta.Name), ""}
	if s.Meta.Description != "" {
		lines = append(lines, s.Meta.Description, "")
	}
	if g.IncludeVersion {
		lines = append(lines, fmt.Sprintf("**Type:** %s | **Version:** `%s`", s.Meta.Type, s.Meta.Version), "")
	} else {
		lines = append(lines, fmt.Sprintf("**Type:** %s", s.Meta.Type), "")
	}
	return strings.Join(lines, "\n")
}

func renderTriggers(t *skill.Triggers) string {
	lines := []string{"## When to Use", ""}
	if len(t.Keywords) > 0 {
		lines = append(lines, "**Keywords:** "+strings.Join(t.Keywords, ", "), "")
	}
	if len(t.Intents) > 0 {
		lines = append(lines, "**Intents:**", "")
		for _, intent := range t.Intents {
			lines = append(lines, "- "+intent)
		}
		lines = append(lines, "")
	}
	if len(t.FilePatterns) > 0 {
		lines = append(lines, "**File patterns:** "+codeJoin(t.FilePatterns), "")
	}
	return strings.Join(lines, "\n")
}

func renderConstraints(c *skill.Constraints) string {
	lines := []string{"## Guidelines", ""}
	if len(c.Never) > 0 {
		lines = append(lines, "### Never", "")
		for _, rule := range c.Never {
			lines = append(lines, "- "+rule)
		}
		lines = append(lines, "")
	}
	if len(c.Always) > 0 {
		lines = append(lines, "### Always", "")
		for _, rule := range c.Always {
			lines = append(lines, "- "+rule)
		}
		lines = append(lines, "")
	}
	if len(c.Prefer) > 0 {
		lines = append(lines, "### Preferences", "")
		for _, pref := range c.Prefer {
			line := fmt.Sprintf("- Prefer **%s** over **%s**", pref.Use, pref.Over)
			if pref.When != "" {
				line += " when " + pref.When
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderDecisions(decisions []skill.Decision) string {
	lines := []string{"## Decision Rules", ""}
	for _, d := range decisions {
		line := fmt.Sprintf("- **When** %s **then** %s", d.When, d.Then)
		if d.Ref != "" {
			line += fmt.Sprintf(" _(see: %s)_", d.Ref)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func renderState(state *skill.State) string {
	lines := []string{"## State Management", ""}
	for _, entity := range state.Entities {
		lines = append(lines, fmt.Sprintf("### `%s`", entity.Name), "")
		if entity.Format != "" {
			lines = append(lines, "**Format:** `"+entity.Format+"`", "")
		}
		if len(entity.CreatedBy) > 0 {
			lines = append(lines, "**Created by:** "+strings.Join(entity.CreatedBy, ", "), "")
		}
		if len(entity.ConsumedBy) > 0 {
			lines = append(lines, "**Consumed by:** "+strings.Join(entity.ConsumedBy, ", "), "")
		}
		if len(entity.InvalidatedBy) > 0 {
			lines = append(lines, "**Invalidated by:** "+strings.Join(entity.InvalidatedBy, ", "), "")
		}
	}
	return strings.Join(lines, "\n")
}

func renderCommands(s *skill.Skill) string {
	lines := []string{"## Commands", ""}

	if len(s.GlobalFlags) > 0 {
		lines = append(lines, "### Global Flags", "")
		for _, flag := range s.GlobalFlags {
			line := "- `" + flag.Name + "`"
			if flag.Purpose != "" {
				line += " - " + flag.Purpose
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	for _, name := range sortedKeys(s.Commands) {
		cmd := s.Commands[name]
		lines = append(lines, fmt.Sprintf("### `%s`", name), "")
		if cmd.Description != "" {
			lines = append(lines, cmd.Description, "")
		}
		lines = append(lines, "```", cmd.Syntax, "```", "")
		if len(cmd.Args) > 0 {
			lines = append(lines, "**Arguments:**", "")
			for _, arg := range cmd.Args {
				line := fmt.Sprintf("- `%s` (%s", arg.Name, arg.Type)
				if arg.Required {
					line += ", required"
				}
				line += ")"
				if arg.Description != "" {
					line += ": " + arg.Description
				}
				lines = append(lines, line)
			}
			lines = append(lines, "")
		}
		if len(cmd.Flags) > 0 {
			lines = append(lines, "**Flags:**", "")
			for _, flag := range cmd.Flags {
				line := "- `" + flag.Name + "`"
				if flag.Purpose != "" {
					line += ": " + flag.Purpose
				}
				lines = append(lines, line)
			}
			lines = append(lines, "")
		}
		if cmd.Returns != "" {
			lines = append(lines, "**Returns:** "+cmd.Returns, "")
		}
		if len(cmd.Requires) > 0 {
			lines = append(lines, "**Requires:** "+codeJoin(cmd.Requires), "")
		}
		if len(cmd.Creates) > 0 {
			lines = append(lines, "**Creates:** "+codeJoin(cmd.Creates), "")
		}
		if len(cmd.Invalidates) > 0 {
			lines = append(lines, "**Invalidates:** "+codeJoin(cmd.Invalidates), "")
		}
		if cmd.Note != "" {
			lines = append(lines, "> **Note:** "+cmd.Note, "")
		}
		if cmd.Example != "" {
			lines = append(lines, "**Example:**", "", "```", cmd.Example, "```", "")
		}
	}
	return strings.Join(lines, "\n")
}

func renderWorkflows(workflows map[string]skill.Workflow) string {
	lines := []string{"## Workflows", ""}
	for _, name := range sortedKeys(workflows) {
		wf := workflows[name]
		lines = append(lines, "### "+titleFromName(name), "")
		lines = append(lines, wf.Description, "")
		if len(wf.Invariants) > 0 {
			lines = append(lines, "**Invariants:**", "")
			for _, inv := range wf.Invariants {
				lines = append(lines, "- "+inv)
			}
			lines = append(lines, "")
		}
		for i, step := range wf.Steps {
			line := fmt.Sprintf("%d. `%s`", i+1, step.Cmd)
			if step.Optional {
				line += " _(optional)_"
			}
			if step.Note != "" {
				line += " - " + step.Note
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
		if wf.Example != "" {
			lines = append(lines, "**Example:**", "", "```", wf.Example, "```", "")
		}
	}
	return strings.Join(lines, "\n")
}

func renderReference(reference map[string]skill.ReferenceEntry) string {
	lines := []string{"## Syntax Reference", ""}
	for _, name := range sortedKeys(reference) {
		entry := reference[name]
		lines = append(lines, fmt.Sprintf("### `%s`", name), "")
		if entry.Syntax != "" {
			lines = append(lines, "```", entry.Syntax, "```", "")
		}
		if entry.Example != "" {
			lines = append(lines, "**Example:** `"+entry.Example+"`", "")
		}
		if entry.Notes != "" {
			lines = append(lines, entry.Notes, "")
		}
		if len(entry.Values) > 0 {
			lines = append(lines, "**Values:** "+codeJoin(entry.Values), "")
		}
	}
	return strings.Join(lines, "\n")
}

func renderTemplates(templates map[string]skill.Template) string {
	lines := []string{"## Templates", ""}
	for _, name := range sortedKeys(templates) {
		tpl := templates[name]
		lines = append(lines, "### "+titleFromName(name), "")
		lines = append(lines, tpl.Description, "")
		if tpl.Usage != "" {
			lines = append(lines, "**Usage:** "+tpl.Usage, "")
		}
		if tpl.Path != "" {
			lines = append(lines, "**Path:** `"+tpl.Path+"`", "")
		}
		if tpl.Inline != "" {
			lines = append(lines, "```", tpl.Inline, "```", "")
		}
	}
	return strings.Join(lines, "\n")
}

func renderEnvironment(environment []skill.EnvironmentVar) string {
	lines := []string{"## Environment Variables", ""}
	for _, env := range environment {
		line := fmt.Sprintf("- `%s` - %s", env.Name, env.Purpose)
		if env.Default != "" {
			line += fmt.Sprintf(" (default: `%s`)", env.Default)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func renderSources(sources []skill.Source) string {
	lines := []string{"## References", ""}
	for _, src := range sources {
		line := "- **" + src.ID + "**"
		if src.URL != "" {
			line += ": " + src.URL
		} else if src.Path != "" {
			line += ": `" + src.Path + "`"
		}
		if src.UseFor != "" {
			line += " - " + src.UseFor
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func titleFromName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "-", " "), " ")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func codeJoin(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = "`" + item + "`"
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
