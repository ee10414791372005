package loader

import (
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ifoster01/uasp/pkg/fingerprint"
	"github.com/ifoster01/uasp/pkg/schema"
	"github.com/ifoster01/uasp/pkg/skill"
)

// Validate runs every check on a skill file without loading it: read,
// YAML parse, schema, fingerprint, and internal consistency. All failures
// are aggregated; a nil result means the file is fully valid.
func (l *Loader) Validate(path string) error {
	var result *multierror.Error

	content, err := os.ReadFile(path)
	if err != nil {
		return multierror.Append(result, errors.Wrap(err, "failed to read file"))
	}

	doc, err := skill.ParseYAML(content)
	if err != nil {
		return multierror.Append(result, err)
	}
	if !doc.IsMapping() {
		return multierror.Append(result, errors.New("YAML must parse to a mapping"))
	}

	for _, msg := range schema.Validate(doc) {
		result = multierror.Append(result, errors.New(msg))
	}

	valid, stored, calculated := fingerprint.Verify(doc)
	if !valid {
		result = multierror.Append(result,
			errors.Errorf("version mismatch: stored=%s, calculated=%s", stored, calculated))
	}

	if parsed, err := schema.Decode(doc); err == nil {
		for _, msg := range CheckConsistency(parsed) {
			result = multierror.Append(result, errors.New(msg))
		}
	}

	return result.ErrorOrNil()
}

// ValidateFile is Validate flattened to a list of error strings for
// machine-readable output.
func (l *Loader) ValidateFile(path string) []string {
	err := l.Validate(path)
	if err == nil {
		return nil
	}
	if merr, ok := err.(*multierror.Error); ok {
		msgs := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

// CheckConsistency verifies advisory cross-references: command
// requires/creates/invalidates against declared state entities, and
// decision refs against declared sources. Checks are skipped when the
// referenced section is empty, matching the schema's advisory stance.
func CheckConsistency(s *skill.Skill) []string {
	var warnings []string

	entityNames := s.EntityNames()
	sourceIDs := s.SourceIDs()

	for name, cmd := range s.Commands {
		if len(entityNames) == 0 {
			break // advisory only: nothing declared to check against
		}
		for _, entity := range cmd.Requires {
			if !slices.Contains(entityNames, entity) {
				warnings = append(warnings, fmt.Sprintf("Command '%s' requires unknown state entity '%s'", name, entity))
			}
		}
		for _, entity := range cmd.Creates {
			if !slices.Contains(entityNames, entity) {
				warnings = append(warnings, fmt.Sprintf("Command '%s' creates unknown state entity '%s'", name, entity))
			}
		}
		for _, entity := range cmd.Invalidates {
			if !slices.Contains(entityNames, entity) {
				warnings = append(warnings, fmt.Sprintf("Command '%s' invalidates unknown state entity '%s'", name, entity))
			}
		}
	}

	for i, decision := range s.Decisions {
		if decision.Ref != "" && len(sourceIDs) > 0 && !slices.Contains(sourceIDs, decision.Ref) {
			warnings = append(warnings, fmt.Sprintf("Decision %d references unknown source '%s'", i, decision.Ref))
		}
	}

	return warnings
}
