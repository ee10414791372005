// Package schema validates skill documents against the UASP structure.
// Validation is a strict typed decode (unknown fields rejected) followed
// by field rules the type system cannot express. The package also exposes
// the generated JSON Schema for external tooling.
package schema

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ifoster01/uasp/pkg/skill"
)

var (
	namePattern    = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	versionPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)
)

// maxDescriptionLength bounds meta.description.
const maxDescriptionLength = 500

// Validate checks a document tree and returns all violations as
// human-readable strings. An empty result means the document is valid.
func Validate(doc *skill.Value) []string {
	parsed, errs := decode(doc)
	if len(errs) > 0 {
		return errs
	}
	return checkRules(parsed)
}

// Decode validates and converts a document tree into the typed model.
func Decode(doc *skill.Value) (*skill.Skill, error) {
	parsed, errs := decode(doc)
	if len(errs) == 0 {
		errs = checkRules(parsed)
	}
	if len(errs) > 0 {
		return nil, errors.Errorf("schema validation failed with %d error(s): %s", len(errs), errs[0])
	}
	return parsed, nil
}

func decode(doc *skill.Value) (*skill.Skill, []string) {
	if !doc.IsMapping() {
		return nil, []string{"document must be a mapping"}
	}

	data, err := doc.MarshalYAML()
	if err != nil {
		return nil, []string{err.Error()}
	}

	var parsed skill.Skill
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&parsed); err != nil {
		if typeErr, ok := err.(*yaml.TypeError); ok {
			return nil, typeErr.Errors
		}
		return nil, []string{err.Error()}
	}
	return &parsed, nil
}

func checkRules(s *skill.Skill) []string {
	var errs []string

	if s.Meta.Name == "" {
		errs = append(errs, "meta.name is required")
	} else if !namePattern.MatchString(s.Meta.Name) {
		errs = append(errs, "meta.name must be lowercase with hyphens, starting with a letter")
	}
	if s.Meta.Version == "" {
		errs = append(errs, "meta.version is required")
	} else if !versionPattern.MatchString(s.Meta.Version) {
		errs = append(errs, "meta.version must be an 8-character lowercase hex string")
	}
	if s.Meta.Type == "" {
		errs = append(errs, "meta.type is required")
	} else if !validType(s.Meta.Type) {
		errs = append(errs, fmt.Sprintf("meta.type must be one of: knowledge, cli, api, hybrid (got %q)", s.Meta.Type))
	}
	if len(s.Meta.Description) > maxDescriptionLength {
		errs = append(errs, fmt.Sprintf("meta.description exceeds %d characters", maxDescriptionLength))
	}

	for name, cmd := range s.Commands {
		if cmd.Syntax == "" {
			errs = append(errs, fmt.Sprintf("commands.%s.syntax is required", name))
		}
		for i, arg := range cmd.Args {
			if arg.Name == "" {
				errs = append(errs, fmt.Sprintf("commands.%s.args[%d].name is required", name, i))
			}
			if arg.Type == "" {
				errs = append(errs, fmt.Sprintf("commands.%s.args[%d].type is required", name, i))
			}
		}
		for i, flag := range cmd.Flags {
			if flag.Name == "" {
				errs = append(errs, fmt.Sprintf("commands.%s.flags[%d].name is required", name, i))
			}
			if flag.Type == "" {
				errs = append(errs, fmt.Sprintf("commands.%s.flags[%d].type is required", name, i))
			}
		}
	}

	for name, wf := range s.Workflows {
		if wf.Description == "" {
			errs = append(errs, fmt.Sprintf("workflows.%s.description is required", name))
		}
		if len(wf.Steps) == 0 {
			errs = append(errs, fmt.Sprintf("workflows.%s.steps must not be empty", name))
		}
		for i, step := range wf.Steps {
			if step.Cmd == "" {
				errs = append(errs, fmt.Sprintf("workflows.%s.steps[%d].cmd is required", name, i))
			}
		}
	}

	if s.State != nil {
		for i, entity := range s.State.Entities {
			if entity.Name == "" {
				errs = append(errs, fmt.Sprintf("state.entities[%d].name is required", i))
			}
		}
	}

	for i, decision := range s.Decisions {
		if decision.When == "" {
			errs = append(errs, fmt.Sprintf("decisions[%d].when is required", i))
		}
		if decision.Then == "" {
			errs = append(errs, fmt.Sprintf("decisions[%d].then is required", i))
		}
	}

	for i, src := range s.Sources {
		if src.ID == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].id is required", i))
		}
	}

	for i, env := range s.Environment {
		if env.Name == "" {
			errs = append(errs, fmt.Sprintf("environment[%d].name is required", i))
		}
		if env.Purpose == "" {
			errs = append(errs, fmt.Sprintf("environment[%d].purpose is required", i))
		}
	}

	return errs
}

func validType(t string) bool {
	for _, known := range skill.Types {
		if t == known {
			return true
		}
	}
	return false
}

// JSONSchema generates the JSON Schema document for UASP skills from the
// typed model.
func JSONSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: false,
	}
	return reflector.Reflect(&skill.Skill{})
}
