package skill

// Skill types recognized by the meta.type field.
const (
	TypeKnowledge = "knowledge"
	TypeCLI       = "cli"
	TypeAPI       = "api"
	TypeHybrid    = "hybrid"
)

// Types lists the valid meta.type values.
var Types = []string{TypeKnowledge, TypeCLI, TypeAPI, TypeHybrid}

// SectionOrder is the canonical ordering of top-level sections, used for
// documentation generation and info output.
var SectionOrder = []string{
	"meta", "triggers", "constraints", "decisions", "state", "commands",
	"global_flags", "workflows", "reference", "templates", "environment",
	"sources",
}

// Meta identifies a skill and carries its content fingerprint.
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Triggers describe when an agent should activate a skill.
type Triggers struct {
	Keywords     []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Intents      []string `yaml:"intents,omitempty" json:"intents,omitempty"`
	FilePatterns []string `yaml:"file_patterns,omitempty" json:"file_patterns,omitempty"`
}

// Preference is a soft "use X over Y" rule.
type Preference struct {
	Use  string `yaml:"use" json:"use"`
	Over string `yaml:"over" json:"over"`
	When string `yaml:"when,omitempty" json:"when,omitempty"`
}

// Constraints are hard rules the agent must follow.
type Constraints struct {
	Never  []string     `yaml:"never,omitempty" json:"never,omitempty"`
	Always []string     `yaml:"always,omitempty" json:"always,omitempty"`
	Prefer []Preference `yaml:"prefer,omitempty" json:"prefer,omitempty"`
}

// Decision is a conditional when/then rule, optionally citing a source.
type Decision struct {
	When string `yaml:"when" json:"when"`
	Then string `yaml:"then" json:"then"`
	Ref  string `yaml:"ref,omitempty" json:"ref,omitempty"`
}

// StateEntity declares a named stateful object with lifecycle references.
type StateEntity struct {
	Name          string   `yaml:"name" json:"name"`
	Format        string   `yaml:"format,omitempty" json:"format,omitempty"`
	CreatedBy     []string `yaml:"created_by,omitempty" json:"created_by,omitempty"`
	ConsumedBy    []string `yaml:"consumed_by,omitempty" json:"consumed_by,omitempty"`
	InvalidatedBy []string `yaml:"invalidated_by,omitempty" json:"invalidated_by,omitempty"`
	Properties    []string `yaml:"properties,omitempty" json:"properties,omitempty"`
	PersistedBy   []string `yaml:"persisted_by,omitempty" json:"persisted_by,omitempty"`
	RestoredBy    []string `yaml:"restored_by,omitempty" json:"restored_by,omitempty"`
}

// State groups the declared state entities.
type State struct {
	Entities []StateEntity `yaml:"entities,omitempty" json:"entities,omitempty"`
}

// Argument is a positional argument spec for a command or template.
type Argument struct {
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Required    bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Values      []string `yaml:"values,omitempty" json:"values,omitempty"`
}

// Flag is a named flag spec with optional short and long forms.
type Flag struct {
	Name    string `yaml:"name" json:"name"`
	Short   string `yaml:"short,omitempty" json:"short,omitempty"`
	Long    string `yaml:"long,omitempty" json:"long,omitempty"`
	Type    string `yaml:"type" json:"type"`
	Default any    `yaml:"default,omitempty" json:"default,omitempty"`
	Purpose string `yaml:"purpose,omitempty" json:"purpose,omitempty"`
	Env     string `yaml:"env,omitempty" json:"env,omitempty"`
}

// CommandVariant is an alternative syntax form of a command.
type CommandVariant struct {
	Syntax  string `yaml:"syntax" json:"syntax"`
	Purpose string `yaml:"purpose,omitempty" json:"purpose,omitempty"`
}

// Command is an executable command definition: a syntax template plus
// argument and flag specs and advisory state cross-references.
type Command struct {
	Syntax      string           `yaml:"syntax" json:"syntax"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Aliases     []string         `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Args        []Argument       `yaml:"args,omitempty" json:"args,omitempty"`
	Flags       []Flag           `yaml:"flags,omitempty" json:"flags,omitempty"`
	Returns     string           `yaml:"returns,omitempty" json:"returns,omitempty"`
	Requires    []string         `yaml:"requires,omitempty" json:"requires,omitempty"`
	Creates     []string         `yaml:"creates,omitempty" json:"creates,omitempty"`
	Invalidates []string         `yaml:"invalidates,omitempty" json:"invalidates,omitempty"`
	Note        string           `yaml:"note,omitempty" json:"note,omitempty"`
	Variants    []CommandVariant `yaml:"variants,omitempty" json:"variants,omitempty"`
	Example     string           `yaml:"example,omitempty" json:"example,omitempty"`
}

// WorkflowStep is a single step of a workflow.
type WorkflowStep struct {
	Cmd      string `yaml:"cmd" json:"cmd"`
	Note     string `yaml:"note,omitempty" json:"note,omitempty"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Workflow is a multi-step procedure with invariants.
type Workflow struct {
	Description string         `yaml:"description" json:"description"`
	Invariants  []string       `yaml:"invariants,omitempty" json:"invariants,omitempty"`
	Steps       []WorkflowStep `yaml:"steps" json:"steps"`
	Example     string         `yaml:"example,omitempty" json:"example,omitempty"`
}

// ReferenceEntry is a queryable syntax-reference record. Unlike the rest of
// the model it admits arbitrary extra string properties.
type ReferenceEntry struct {
	Syntax  string         `yaml:"syntax,omitempty" json:"syntax,omitempty"`
	Example string         `yaml:"example,omitempty" json:"example,omitempty"`
	Notes   string         `yaml:"notes,omitempty" json:"notes,omitempty"`
	Values  []string       `yaml:"values,omitempty" json:"values,omitempty"`
	Extra   map[string]any `yaml:",inline" json:"-"`
}

// Template is a reusable script template, inline or on disk.
type Template struct {
	Description string     `yaml:"description" json:"description"`
	Usage       string     `yaml:"usage,omitempty" json:"usage,omitempty"`
	Args        []Argument `yaml:"args,omitempty" json:"args,omitempty"`
	Path        string     `yaml:"path,omitempty" json:"path,omitempty"`
	Inline      string     `yaml:"inline,omitempty" json:"inline,omitempty"`
}

// EnvironmentVar documents an environment variable a skill depends on.
type EnvironmentVar struct {
	Name    string `yaml:"name" json:"name"`
	Purpose string `yaml:"purpose" json:"purpose"`
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// Source is an external documentation reference cited by decisions.
type Source struct {
	ID     string `yaml:"id" json:"id"`
	URL    string `yaml:"url,omitempty" json:"url,omitempty"`
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`
	UseFor string `yaml:"use_for,omitempty" json:"use_for,omitempty"`
}

// Skill is the complete typed UASP document.
type Skill struct {
	Meta        Meta                      `yaml:"meta" json:"meta"`
	Triggers    *Triggers                 `yaml:"triggers,omitempty" json:"triggers,omitempty"`
	Constraints *Constraints              `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Decisions   []Decision                `yaml:"decisions,omitempty" json:"decisions,omitempty"`
	State       *State                    `yaml:"state,omitempty" json:"state,omitempty"`
	Commands    map[string]Command        `yaml:"commands,omitempty" json:"commands,omitempty"`
	GlobalFlags []Flag                    `yaml:"global_flags,omitempty" json:"global_flags,omitempty"`
	Workflows   map[string]Workflow       `yaml:"workflows,omitempty" json:"workflows,omitempty"`
	Reference   map[string]ReferenceEntry `yaml:"reference,omitempty" json:"reference,omitempty"`
	Templates   map[string]Template       `yaml:"templates,omitempty" json:"templates,omitempty"`
	Environment []EnvironmentVar          `yaml:"environment,omitempty" json:"environment,omitempty"`
	Sources     []Source                  `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// Command returns the named command definition, if declared.
func (s *Skill) Command(name string) (Command, bool) {
	cmd, ok := s.Commands[name]
	return cmd, ok
}

// EntityNames returns the declared state entity names.
func (s *Skill) EntityNames() []string {
	if s.State == nil {
		return nil
	}
	names := make([]string, 0, len(s.State.Entities))
	for _, entity := range s.State.Entities {
		names = append(names, entity.Name)
	}
	return names
}

// SourceIDs returns the declared source identifiers.
func (s *Skill) SourceIDs() []string {
	ids := make([]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		ids = append(ids, src.ID)
	}
	return ids
}
