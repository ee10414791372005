// Package fingerprint computes the content hash of a skill document.
// The fingerprint is a truncated SHA-256 over a canonical serialization of
// the document with meta.version removed, so it is stable across mapping
// key order and independent of the stored fingerprint itself.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/ifoster01/uasp/pkg/skill"
)

// Length is the number of lowercase hex characters in a fingerprint.
// Truncation trades collision resistance for a short, human-writable
// identifier; the fingerprint detects drift, it is not an identity.
const Length = 8

// Calculate returns the fingerprint of a skill document. The input is not
// mutated; meta.version is excluded from the hashed content.
func Calculate(doc *skill.Value) string {
	stripped := stripVersion(doc)
	var buf bytes.Buffer
	canonicalize(&buf, stripped)
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])[:Length]
}

// Verify recomputes the fingerprint and compares it with the stored
// meta.version (empty string when absent).
func Verify(doc *skill.Value) (valid bool, stored, calculated string) {
	if meta, ok := doc.Get("meta"); ok {
		if v, ok := meta.Get("version"); ok && v.Kind() == skill.KindString {
			stored = v.StringVal()
		}
	}
	calculated = Calculate(doc)
	return stored == calculated, stored, calculated
}

// Update returns an independent copy of the document with meta.version set
// to the freshly calculated fingerprint. The input is never mutated.
func Update(doc *skill.Value) *skill.Value {
	out := doc.DeepCopy()
	meta, ok := out.Get("meta")
	if !ok {
		meta = skill.NewMapping()
		out.Set("meta", meta)
	}
	meta.Set("version", skill.String(Calculate(doc)))
	return out
}

// stripVersion deep-copies the document without meta.version.
func stripVersion(doc *skill.Value) *skill.Value {
	out := doc.DeepCopy()
	if meta, ok := out.Get("meta"); ok {
		meta.Delete("version")
	}
	return out
}

// canonicalize writes a compact JSON-shaped rendering with mapping keys
// sorted lexicographically at every level. The output is only ever hashed,
// never parsed.
func canonicalize(buf *bytes.Buffer, v *skill.Value) {
	switch v.Kind() {
	case skill.KindNull:
		buf.WriteString("null")
	case skill.KindBool:
		buf.WriteString(strconv.FormatBool(v.BoolVal()))
	case skill.KindInt:
		buf.WriteString(strconv.FormatInt(v.IntVal(), 10))
	case skill.KindFloat:
		buf.WriteString(strconv.FormatFloat(v.FloatVal(), 'g', -1, 64))
	case skill.KindString:
		encoded, _ := json.Marshal(v.StringVal())
		buf.Write(encoded)
	case skill.KindSequence:
		buf.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			canonicalize(buf, item)
		}
		buf.WriteByte(']')
	case skill.KindMapping:
		buf.WriteByte('{')
		for i, key := range v.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encoded, _ := json.Marshal(key)
			buf.Write(encoded)
			buf.WriteByte(':')
			child, _ := v.Get(key)
			canonicalize(buf, child)
		}
		buf.WriteByte('}')
	}
}
