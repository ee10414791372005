package convert

import "fmt"

const conversionRules = `## Conversion Rules

### Rule 1: Determine Skill Type
Analyze the skill's primary purpose:
- Guidelines, best practices, or decision rules -> type: "knowledge"
- CLI command definitions and workflows -> type: "cli"
- HTTP/API endpoint definitions -> type: "api"
- Combination of guidelines AND executable commands -> type: "hybrid"

### Rule 2: Extract Constraints
Scan for prescriptive language and categorize:
- constraints.never: absolute prohibitions ("never", "do not", "avoid",
  "prohibited", "forbidden"). Extract the action, not the surrounding prose.
- constraints.always: mandatory requirements ("always", "must", "required",
  "ensure", "mandatory"). Extract the required action concisely.
- constraints.prefer: soft preferences ("prefer X over Y", "use X instead
  of Y"). Structure as {use: "preferred", over: "alternative", when: "context"}.

### Rule 3: Extract Decisions
Identify conditional logic as decisions entries:
  - when: <condition in natural language>
    then: <action or recommendation>
    ref: <source_id if referenced>

### Rule 4: Extract Commands (CLI/API skills)
For each command, extract:
- syntax: full command syntax template with <placeholder> tokens
- args: list of arguments with name, type, required, description
- flags: list of flags with name, short, long, type, purpose
- returns: description of output
- requires/creates/invalidates: state entity references

### Rule 5: Extract State Entities
Identify stateful elements and their lifecycle under state.entities:
- name: entity identifier
- created_by: commands that create it
- consumed_by: commands that use it
- invalidated_by: conditions that break it

### Rule 6: Extract Workflows
Multi-step procedures become workflows with:
- description: what this workflow accomplishes
- invariants: rules that must hold throughout
- steps: list of {cmd, note, optional} objects`

// conversionPrompt builds the markdown-to-skill extraction prompt.
func conversionPrompt(markdown string, hints frontmatterHints) string {
	hintText := ""
	if hints.Name != "" {
		hintText = fmt.Sprintf("\nThe source frontmatter names this skill %q.", hints.Name)
	}
	return fmt.Sprintf(`You are converting Markdown skill documentation into the UASP
(Unified Agent Skills Protocol) YAML format.

A UASP skill is a YAML mapping with a required "meta" section (name: lowercase
hyphenated identifier; version: 8-char hex placeholder such as "00000000";
type: knowledge|cli|api|hybrid; description: one sentence) and optional
sections: triggers, constraints, decisions, state, commands, global_flags,
workflows, reference, templates, environment, sources.
%s

%s

Convert the following Markdown document. Output ONLY the YAML document in a
fenced yaml code block, with no commentary before or after.

<markdown>
%s
</markdown>`, hintText, conversionRules, markdown)
}

// enhancementPrompt builds the optional skill-to-markdown enrichment
// prompt. The template rendering is authoritative; the model may only
// expand explanations and examples.
func enhancementPrompt(yamlText, templateMarkdown string) string {
	return fmt.Sprintf(`You are improving generated documentation for an agent skill.

Below is the skill definition in UASP YAML, followed by a mechanically
generated Markdown rendering of it. Rewrite the Markdown so it reads
naturally and explains each section clearly. You may add short explanatory
prose and concrete examples, but you must not invent commands, constraints,
or state entities that are absent from the YAML, and you must not drop any
that are present. Keep the same section structure. Output only Markdown.

<uasp>
%s
</uasp>

<markdown>
%s
</markdown>`, yamlText, templateMarkdown)
}
