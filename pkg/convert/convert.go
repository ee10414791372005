// Package convert translates between UASP skill documents and Markdown.
// Skill to Markdown is a deterministic template rendering, optionally
// enhanced by an LLM; Markdown to skill is LLM-backed extraction followed
// by schema-driven post-processing. Clients are constructed per call from
// an explicit Config; there is no process-wide client cache.
package convert

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ifoster01/uasp/pkg/fingerprint"
	"github.com/ifoster01/uasp/pkg/loader"
	"github.com/ifoster01/uasp/pkg/schema"
	"github.com/ifoster01/uasp/pkg/skill"
)

// Error reports a failed conversion.
type Error struct {
	Message string
	Source  string
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("conversion failed (%s): %s", e.Source, e.Message)
	}
	return "conversion failed: " + e.Message
}

// Result is a converted skill: the value tree, its YAML rendering, and
// any non-fatal warnings collected during post-processing.
type Result struct {
	Skill    *skill.Value
	YAML     string
	Warnings []string
}

// Converter extracts UASP skills from Markdown via an LLM.
type Converter struct {
	cfg Config
}

// NewConverter creates a converter. The config must name a provider.
func NewConverter(cfg Config) (*Converter, error) {
	if cfg.Provider == "" {
		return nil, &Error{Message: "an LLM provider is required for markdown conversion"}
	}
	return &Converter{cfg: cfg}, nil
}

// Convert turns Markdown skill documentation into a validated UASP
// document. Schema problems the post-processor can repair become
// warnings; anything else fails the conversion.
func (c *Converter) Convert(ctx context.Context, markdown string) (*Result, error) {
	hints := extractFrontmatterHints(markdown)

	raw, err := complete(ctx, c.cfg, conversionPrompt(markdown, hints))
	if err != nil {
		return nil, &Error{Message: err.Error(), Source: string(c.cfg.Provider)}
	}

	return c.postProcess(raw, hints)
}

// postProcess extracts the YAML payload from the LLM output, repairs
// recoverable schema problems, stamps the fingerprint, and validates.
func (c *Converter) postProcess(raw string, hints frontmatterHints) (*Result, error) {
	var warnings []string

	doc, err := skill.ParseYAML([]byte(extractYAML(raw)))
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("LLM output is not valid YAML: %v", err)}
	}
	if !doc.IsMapping() {
		return nil, &Error{Message: "LLM output did not parse to a mapping"}
	}

	warnings = append(warnings, repairMeta(doc, hints)...)

	// Stamp the fingerprint after repairs so the stored version matches
	// the content.
	doc = fingerprint.Update(doc)

	if errs := schema.Validate(doc); len(errs) > 0 {
		return nil, &Error{Message: fmt.Sprintf("converted skill failed validation: %s", strings.Join(errs, "; "))}
	}

	parsed, err := schema.Decode(doc)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	warnings = append(warnings, loader.CheckConsistency(parsed)...)

	rendered, err := doc.MarshalYAML()
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}

	return &Result{Skill: doc, YAML: string(rendered), Warnings: warnings}, nil
}

var yamlFence = regexp.MustCompile("(?s)```(?:yaml|yml)?\\s*\\n(.*?)```")

// extractYAML pulls the YAML payload out of a fenced code block, or
// returns the text unchanged when no fence is present.
func extractYAML(text string) string {
	if m := yamlFence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// repairMeta fixes the recoverable meta problems the LLM tends to
// produce, recording a warning for each fix.
func repairMeta(doc *skill.Value, hints frontmatterHints) []string {
	var warnings []string

	meta, ok := doc.Get("meta")
	if !ok || !meta.IsMapping() {
		meta = skill.NewMapping()
		doc.Set("meta", meta)
		warnings = append(warnings, "Added missing meta section")
	}

	name := ""
	if v, ok := meta.Get("name"); ok && v.Kind() == skill.KindString {
		name = v.StringVal()
	}
	if name == "" {
		name = hints.Name
	}
	if name == "" {
		name = "converted-skill"
		warnings = append(warnings, "Added default skill name")
	}
	if fixed := slugify(name); fixed != name {
		warnings = append(warnings, fmt.Sprintf("Fixed skill name: %s -> %s", name, fixed))
		name = fixed
	}
	meta.Set("name", skill.String(name))

	typeVal := ""
	if v, ok := meta.Get("type"); ok && v.Kind() == skill.KindString {
		typeVal = v.StringVal()
	}
	if !validSkillType(typeVal) {
		if typeVal == "" {
			warnings = append(warnings, "Defaulted to knowledge type")
		} else {
			warnings = append(warnings, fmt.Sprintf("Invalid type %q, defaulted to knowledge", typeVal))
		}
		meta.Set("type", skill.String(skill.TypeKnowledge))
	}

	if hints.Description != "" {
		if _, ok := meta.Get("description"); !ok {
			meta.Set("description", skill.String(hints.Description))
		}
	}

	return warnings
}

func validSkillType(t string) bool {
	for _, known := range skill.Types {
		if t == known {
			return true
		}
	}
	return false
}

var invalidNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

// slugify coerces a name into the lowercase-hyphenated form the schema
// requires.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = invalidNameChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		s = "skill-" + s
		s = strings.TrimSuffix(s, "-")
	}
	return s
}
