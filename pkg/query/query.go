// Package query resolves dotted paths against skill documents. Paths
// descend mapping keys, look sequence elements up by name or id, fall back
// to numeric indexes, and can narrow sequence results with glob filters.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/ifoster01/uasp/pkg/skill"
)

// Delimiter separates path segments.
const Delimiter = "."

// Result is the outcome of one query. Value is nil unless Found is true.
type Result struct {
	Skill   string
	Path    string
	Found   bool
	Value   *skill.Value
	Filters map[string]string
}

// ToMap renders the result in the machine-readable shape used by the CLI
// JSON output and the manifest.
func (r Result) ToMap() map[string]any {
	out := map[string]any{
		"skill": r.Skill,
		"path":  r.Path,
		"found": r.Found,
	}
	if r.Found {
		out["value"] = r.Value.ToAny()
	}
	if len(r.Filters) > 0 {
		out["filters"] = r.Filters
	}
	return out
}

// NotFoundError reports a path that did not resolve.
type NotFoundError struct {
	Skill string
	Path  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path %q not found in skill %q", e.Path, e.Skill)
}

// Query resolves a dotted path against a document. An empty path resolves
// to the whole document. Filters are applied only when the resolved value
// is a sequence; on anything else they are silently ignored.
func Query(doc *skill.Value, path string, filters map[string]string, skillName string) Result {
	if skillName == "" {
		skillName = documentName(doc)
	}

	notFound := Result{Skill: skillName, Path: path, Found: false, Filters: filters}

	current := doc
	if path != "" {
		for _, segment := range strings.Split(path, Delimiter) {
			next, ok := descend(current, segment)
			if !ok {
				return notFound
			}
			current = next
		}
	}

	if len(filters) > 0 && current.IsSequence() {
		current = applyFilters(current, filters)
	}

	return Result{Skill: skillName, Path: path, Found: true, Value: current, Filters: filters}
}

// QueryOrErr is Query with not-found promoted to a NotFoundError.
func QueryOrErr(doc *skill.Value, path string, filters map[string]string, skillName string) (*skill.Value, error) {
	result := Query(doc, path, filters, skillName)
	if !result.Found {
		return nil, &NotFoundError{Skill: result.Skill, Path: path}
	}
	return result.Value, nil
}

// descend resolves one segment against the current value.
func descend(current *skill.Value, segment string) (*skill.Value, bool) {
	switch current.Kind() {
	case skill.KindMapping:
		return current.Get(segment)
	case skill.KindSequence:
		// Name-or-id lookup first. A single match descends into the
		// element; multiple matches collapse into a list so subsequent
		// filters can narrow them.
		var matches []*skill.Value
		for _, item := range current.Items() {
			if !item.IsMapping() {
				continue
			}
			if fieldEquals(item, "name", segment) || fieldEquals(item, "id", segment) {
				matches = append(matches, item)
			}
		}
		switch len(matches) {
		case 1:
			return matches[0], true
		case 0:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= current.Len() {
				return nil, false
			}
			return current.Items()[idx], true
		default:
			return skill.NewSequence(matches...), true
		}
	default:
		// Scalars cannot be traversed further.
		return nil, false
	}
}

func fieldEquals(item *skill.Value, field, want string) bool {
	v, ok := item.Get(field)
	return ok && v.Kind() == skill.KindString && v.StringVal() == want
}

// applyFilters keeps only the mapping elements whose stringified field
// value matches the glob pattern, case-insensitively. A missing field is
// treated as the empty string.
func applyFilters(seq *skill.Value, filters map[string]string) *skill.Value {
	items := seq.Items()
	for _, key := range sortedFilterKeys(filters) {
		pattern := filters[key]
		var kept []*skill.Value
		for _, item := range items {
			if !item.IsMapping() {
				continue
			}
			fieldValue := ""
			if v, ok := item.Get(key); ok {
				fieldValue = v.Stringify()
			}
			if matchPattern(fieldValue, pattern) {
				kept = append(kept, item)
			}
		}
		items = kept
	}
	return skill.NewSequence(items...)
}

// matchPattern performs case-insensitive glob matching with * and ?
// wildcards. A pattern that fails to compile degrades to a literal
// case-insensitive comparison.
func matchPattern(value, pattern string) bool {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return strings.EqualFold(value, pattern)
	}
	return g.Match(strings.ToLower(value))
}

func sortedFilterKeys(filters map[string]string) []string {
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	// Filters intersect, so application order does not change the result;
	// sorting keeps traversal deterministic.
	sort.Strings(keys)
	return keys
}

func documentName(doc *skill.Value) string {
	if meta, ok := doc.Get("meta"); ok {
		if name, ok := meta.Get("name"); ok && name.Kind() == skill.KindString {
			return name.StringVal()
		}
	}
	return "unknown"
}
