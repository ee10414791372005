// Package loader parses, validates, and fingerprints skill documents.
// Loading aborts on schema failure; a fingerprint mismatch is a soft
// warning unless strict mode promotes it to an error.
package loader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ifoster01/uasp/pkg/fingerprint"
	"github.com/ifoster01/uasp/pkg/logger"
	"github.com/ifoster01/uasp/pkg/schema"
	"github.com/ifoster01/uasp/pkg/skill"
)

// ValidationError reports a rejected document with every failure found.
// No partial document is registered when this is returned.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("skill definition failed schema validation with %d error(s): %s",
		len(e.Errors), strings.Join(e.Errors, "; "))
}

// Document is a fully loaded skill: the typed model plus the raw value
// tree the query engine and hasher operate on.
type Document struct {
	Skill  *skill.Skill
	Value  *skill.Value
	Source string
}

// Name returns the document's meta.name.
func (d *Document) Name() string { return d.Skill.Meta.Name }

// Loader loads and validates UASP skill files.
type Loader struct {
	strictVersion bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithStrictVersion promotes fingerprint mismatches from warnings to
// load-aborting errors.
func WithStrictVersion() Option {
	return func(l *Loader) { l.strictVersion = true }
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and loads a skill from a YAML file.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read skill file %s", path)
	}
	return l.LoadString(ctx, string(content), path)
}

// LoadString loads a skill from YAML text. The source string only labels
// error and log messages.
func (l *Loader) LoadString(ctx context.Context, content, source string) (*Document, error) {
	doc, err := skill.ParseYAML([]byte(content))
	if err != nil {
		return nil, &ValidationError{Errors: []string{fmt.Sprintf("Invalid YAML: %v", err)}}
	}
	if !doc.IsMapping() {
		return nil, &ValidationError{Errors: []string{"YAML must parse to a mapping"}}
	}
	return l.LoadValue(ctx, doc, source)
}

// LoadValue loads a skill from an already parsed value tree.
func (l *Loader) LoadValue(ctx context.Context, doc *skill.Value, source string) (*Document, error) {
	if errs := schema.Validate(doc); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	valid, stored, calculated := fingerprint.Verify(doc)
	if !valid {
		if l.strictVersion {
			return nil, errors.Errorf("version mismatch in %s: stored=%s, calculated=%s", source, stored, calculated)
		}
		logger.G(ctx).WithFields(map[string]interface{}{
			"source":     source,
			"stored":     stored,
			"calculated": calculated,
		}).Warn("version mismatch")
	}

	parsed, err := schema.Decode(doc)
	if err != nil {
		return nil, &ValidationError{Errors: []string{err.Error()}}
	}

	return &Document{Skill: parsed, Value: doc, Source: source}, nil
}
