// Package skill defines the UASP document model: the typed Skill structure
// decoded from YAML, and the Value tree used by the hashing and query
// subsystems. Value is a tagged union over the shapes a skill document can
// hold (mapping, sequence, scalar) so traversal is an explicit switch per
// step instead of reflection over interface{}.
package skill

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is an immutable-by-convention node in a skill document tree.
// Mappings remember key insertion order for display and re-serialization;
// hashing sorts keys independently.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	real    float64
	str     string
	seq     []*Value
	keys    []string
	mapping map[string]*Value
}

// Null returns the null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolean: b} }

// Int returns an integer value.
func Int(i int64) *Value { return &Value{kind: KindInt, integer: i} }

// Float returns a floating point value.
func Float(f float64) *Value { return &Value{kind: KindFloat, real: f} }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// NewSequence returns a sequence value holding the given items.
func NewSequence(items ...*Value) *Value {
	return &Value{kind: KindSequence, seq: items}
}

// NewMapping returns an empty mapping value.
func NewMapping() *Value {
	return &Value{kind: KindMapping, mapping: map[string]*Value{}}
}

// Kind returns the variant of this value.
func (v *Value) Kind() Kind { return v.kind }

// IsMapping reports whether this value is a mapping.
func (v *Value) IsMapping() bool { return v.kind == KindMapping }

// IsSequence reports whether this value is a sequence.
func (v *Value) IsSequence() bool { return v.kind == KindSequence }

// IsScalar reports whether this value is a scalar (including null).
func (v *Value) IsScalar() bool {
	return v.kind != KindMapping && v.kind != KindSequence
}

// BoolVal returns the boolean payload. Valid only for KindBool.
func (v *Value) BoolVal() bool { return v.boolean }

// IntVal returns the integer payload. Valid only for KindInt.
func (v *Value) IntVal() int64 { return v.integer }

// FloatVal returns the float payload. Valid only for KindFloat.
func (v *Value) FloatVal() float64 { return v.real }

// StringVal returns the string payload. Valid only for KindString.
func (v *Value) StringVal() string { return v.str }

// Get looks up a key in a mapping. The second result is false when the
// value is not a mapping or the key is absent.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	child, ok := v.mapping[key]
	return child, ok
}

// Set inserts or replaces a mapping entry, preserving first-insertion order.
func (v *Value) Set(key string, child *Value) {
	if v.kind != KindMapping {
		return
	}
	if _, exists := v.mapping[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.mapping[key] = child
}

// Delete removes a mapping entry if present.
func (v *Value) Delete(key string) {
	if v.kind != KindMapping {
		return
	}
	if _, exists := v.mapping[key]; !exists {
		return
	}
	delete(v.mapping, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns mapping keys in insertion order.
func (v *Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// SortedKeys returns mapping keys in lexicographic order.
func (v *Value) SortedKeys() []string {
	keys := v.Keys()
	sort.Strings(keys)
	return keys
}

// Items returns the elements of a sequence.
func (v *Value) Items() []*Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.seq
}

// Append adds an item to a sequence.
func (v *Value) Append(item *Value) {
	if v.kind != KindSequence {
		return
	}
	v.seq = append(v.seq, item)
}

// Len returns the entry count for mappings and sequences, zero otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case KindMapping:
		return len(v.mapping)
	case KindSequence:
		return len(v.seq)
	default:
		return 0
	}
}

// DeepCopy returns a fully independent copy of the value tree.
func (v *Value) DeepCopy() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindMapping:
		out := NewMapping()
		for _, key := range v.keys {
			out.Set(key, v.mapping[key].DeepCopy())
		}
		return out
	case KindSequence:
		items := make([]*Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.DeepCopy()
		}
		return NewSequence(items...)
	default:
		clone := *v
		return &clone
	}
}

// Stringify renders a scalar as a string the way query filters see it:
// null becomes the empty string, numbers and booleans use their canonical
// textual form, and composites fall back to their kind name.
func (v *Value) Stringify() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindInt:
		return strconv.FormatInt(v.integer, 10)
	case KindFloat:
		return strconv.FormatFloat(v.real, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return v.kind.String()
	}
}

// FromAny converts a plain Go tree (as produced by yaml or json decoding
// into interface{}) to a Value. Unsupported leaf types are rejected so the
// hashing contract of maps/sequences/scalars only holds downstream.
func FromAny(raw any) (*Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint64:
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []any:
		out := NewSequence()
		for _, item := range val {
			child, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil
	case map[string]any:
		out := NewMapping()
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			child, err := FromAny(val[key])
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
		}
		return out, nil
	case map[any]any:
		out := NewMapping()
		keys := make([]string, 0, len(val))
		for key := range val {
			str, ok := key.(string)
			if !ok {
				return nil, errors.Errorf("unsupported mapping key type %T", key)
			}
			keys = append(keys, str)
		}
		sort.Strings(keys)
		for _, key := range keys {
			child, err := FromAny(val[key])
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported value type %T", raw)
	}
}

// ToAny converts a Value back to a plain Go tree suitable for json or yaml
// encoding. Mapping order is not preserved; use ToNode when order matters.
func (v *Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.boolean
	case KindInt:
		return v.integer
	case KindFloat:
		return v.real
	case KindString:
		return v.str
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.ToAny()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.mapping))
		for key, child := range v.mapping {
			out[key] = child.ToAny()
		}
		return out
	default:
		return nil
	}
}
