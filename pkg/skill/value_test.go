package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("zebra", Int(1))
	m.Set("apple", Int(2))
	m.Set("mango", Int(3))

	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())
	assert.Equal(t, []string{"apple", "mango", "zebra"}, m.SortedKeys())

	// Replacing a value keeps the original position.
	m.Set("apple", Int(20))
	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())
	v, ok := m.Get("apple")
	require.True(t, ok)
	assert.Equal(t, int64(20), v.IntVal())
}

func TestMappingDelete(t *testing.T) {
	m := NewMapping()
	m.Set("a", Int(1))
	m.Set("b", Int(2))
	m.Set("c", Int(3))

	m.Delete("b")
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	_, ok := m.Get("b")
	assert.False(t, ok)

	m.Delete("missing")
	assert.Equal(t, 2, m.Len())
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, NewMapping().IsMapping())
	assert.True(t, NewSequence().IsSequence())
	assert.True(t, String("x").IsScalar())
	assert.True(t, Null().IsScalar())
	assert.False(t, NewMapping().IsScalar())

	_, ok := String("x").Get("key")
	assert.False(t, ok)
	assert.Nil(t, String("x").Items())
}

func TestDeepCopyIndependence(t *testing.T) {
	original := NewMapping()
	meta := NewMapping()
	meta.Set("name", String("stripe"))
	original.Set("meta", meta)
	original.Set("tags", NewSequence(String("payments")))

	clone := original.DeepCopy()
	cloneMeta, ok := clone.Get("meta")
	require.True(t, ok)
	cloneMeta.Set("name", String("changed"))
	tags, ok := clone.Get("tags")
	require.True(t, ok)
	tags.Append(String("extra"))

	name, ok := meta.Get("name")
	require.True(t, ok)
	assert.Equal(t, "stripe", name.StringVal())
	originalTags, _ := original.Get("tags")
	assert.Equal(t, 1, originalTags.Len())
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Null().Stringify())
	assert.Equal(t, "true", Bool(true).Stringify())
	assert.Equal(t, "42", Int(42).Stringify())
	assert.Equal(t, "2.5", Float(2.5).Stringify())
	assert.Equal(t, "hello", String("hello").Stringify())
	assert.Equal(t, "mapping", NewMapping().Stringify())
	assert.Equal(t, "sequence", NewSequence().Stringify())
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"name":  "stripe",
		"count": 3,
		"ratio": 0.5,
		"live":  true,
		"tags":  []any{"a", "b"},
		"extra": nil,
	})
	require.NoError(t, err)

	require.True(t, v.IsMapping())
	name, _ := v.Get("name")
	assert.Equal(t, "stripe", name.StringVal())
	count, _ := v.Get("count")
	assert.Equal(t, int64(3), count.IntVal())
	tags, _ := v.Get("tags")
	assert.Equal(t, 2, tags.Len())
	extra, _ := v.Get("extra")
	assert.Equal(t, KindNull, extra.Kind())
}

func TestFromAnyInterfaceKeys(t *testing.T) {
	v, err := FromAny(map[any]any{"name": "stripe"})
	require.NoError(t, err)
	name, ok := v.Get("name")
	require.True(t, ok)
	assert.Equal(t, "stripe", name.StringVal())

	_, err = FromAny(map[any]any{42: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mapping key type")
}

func TestFromAnyUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value type")
}

func TestToAnyRoundTrip(t *testing.T) {
	original := map[string]any{
		"name": "stripe",
		"tags": []any{"a", "b"},
	}
	v, err := FromAny(original)
	require.NoError(t, err)

	back, ok := v.ToAny().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "stripe", back["name"])
	assert.Equal(t, []any{"a", "b"}, back["tags"])
}
