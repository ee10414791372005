// Package state tracks per-entity validity and values for one loaded
// skill. A Tracker is owned by exactly one runtime entry; it is not safe
// for concurrent use.
package state

import (
	"sort"

	"github.com/ifoster01/uasp/pkg/logger"
	"github.com/ifoster01/uasp/pkg/skill"
)

// Entity is the runtime condition of one state entity. Declared entities
// start invalid with no value; commands may also materialize entities that
// were never declared.
type Entity struct {
	Name     string
	Value    string
	HasValue bool
	Valid    bool
}

// Status is the externally visible condition of an entity.
type Status struct {
	Valid    bool `json:"valid"`
	HasValue bool `json:"has_value"`
}

// Tracker manages the state entities of a single skill.
type Tracker struct {
	skill    *skill.Skill
	entities map[string]*Entity
}

// NewTracker initializes a tracker with the skill's declared entities, all
// invalid.
func NewTracker(s *skill.Skill) *Tracker {
	t := &Tracker{skill: s, entities: map[string]*Entity{}}
	if s != nil && s.State != nil {
		for _, def := range s.State.Entities {
			t.entities[def.Name] = &Entity{Name: def.Name}
		}
	}
	return t
}

// Create marks an entity valid and records its value, materializing the
// entity if it was not declared.
func (t *Tracker) Create(name, value string) {
	entity, ok := t.entities[name]
	if !ok {
		entity = &Entity{Name: name}
		t.entities[name] = entity
	}
	entity.Value = value
	entity.HasValue = true
	entity.Valid = true
	logger.L.WithField("entity", name).Debug("state created")
}

// Invalidate clears an entity's validity. The value is retained internally
// but no longer exposed.
func (t *Tracker) Invalidate(name string) {
	if entity, ok := t.entities[name]; ok {
		entity.Valid = false
		logger.L.WithField("entity", name).Debug("state invalidated")
	}
}

// IsValid reports whether the entity exists and is currently valid.
func (t *Tracker) IsValid(name string) bool {
	entity, ok := t.entities[name]
	return ok && entity.Valid
}

// Value returns the entity's value. The second result is false when the
// entity is unknown, invalid, or has no value.
func (t *Tracker) Value(name string) (string, bool) {
	entity, ok := t.entities[name]
	if !ok || !entity.Valid || !entity.HasValue {
		return "", false
	}
	return entity.Value, true
}

// CheckRequires returns the names from the command's requires list that
// are not currently valid. An empty result means preconditions are met.
func (t *Tracker) CheckRequires(commandName string) []string {
	var missing []string
	cmd, ok := t.skill.Command(commandName)
	if !ok {
		return missing
	}
	for _, req := range cmd.Requires {
		if !t.IsValid(req) {
			missing = append(missing, req)
		}
	}
	return missing
}

// ApplyEffects applies a command's post-execution transitions: every entry
// in creates becomes valid with the given result as its value, every entry
// in invalidates becomes invalid.
func (t *Tracker) ApplyEffects(commandName, result string) {
	cmd, ok := t.skill.Command(commandName)
	if !ok {
		return
	}
	for _, name := range cmd.Creates {
		t.Create(name, result)
	}
	for _, name := range cmd.Invalidates {
		t.Invalidate(name)
	}
}

// StatusAll reports the condition of every tracked entity.
func (t *Tracker) StatusAll() map[string]Status {
	out := make(map[string]Status, len(t.entities))
	for name, entity := range t.entities {
		out[name] = Status{Valid: entity.Valid, HasValue: entity.HasValue}
	}
	return out
}

// EntityNames returns tracked entity names in sorted order.
func (t *Tracker) EntityNames() []string {
	names := make([]string, 0, len(t.entities))
	for name := range t.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset returns every entity to invalid with no value.
func (t *Tracker) Reset() {
	for _, entity := range t.entities {
		entity.Valid = false
		entity.Value = ""
		entity.HasValue = false
	}
	logger.L.Debug("state reset")
}

// Definition returns the declared definition of an entity, if any.
func (t *Tracker) Definition(name string) (skill.StateEntity, bool) {
	if t.skill == nil || t.skill.State == nil {
		return skill.StateEntity{}, false
	}
	for _, def := range t.skill.State.Entities {
		if def.Name == name {
			return def, true
		}
	}
	return skill.StateEntity{}, false
}
