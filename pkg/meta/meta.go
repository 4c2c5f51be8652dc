// Package meta holds per-photo capture metadata and the tools that extract it.
package meta

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Metadata is a read-only mapping of EXIF field names to raw values.
//
// Values are whatever the extractor produced: text, integers, or floats for the
// fields this package cares about. A missing key and an empty value are distinct.
type Metadata struct {
	fields map[string]any
}

// New returns Metadata backed by a copy of fields.
func New(fields map[string]any) Metadata {
	return Metadata{fields: maps.Clone(fields)}
}

// Len returns the number of fields.
func (m Metadata) Len() int {
	return len(m.fields)
}

// Keys returns the field names in sorted order.
func (m Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m.fields))
}

// Lookup returns the raw value for key.
func (m Metadata) Lookup(key string) (any, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// First returns the value of the first key present, in the order given.
func (m Metadata) First(keys ...string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := m.fields[k]; ok {
			return k, v, true
		}
	}
	return "", nil, false
}

// String returns the value for key if it is text.
func (m Metadata) String(key string) (string, bool) {
	s, ok := m.fields[key].(string)
	return s, ok
}

// Number returns the value for key if it is numeric.
func (m Metadata) Number(key string) (float64, bool) {
	v, ok := m.fields[key]
	if !ok {
		return 0, false
	}
	return AsNumber(v)
}

// Text renders any field value as a string, for fields that are free text.
func (m Metadata) Text(key string) (string, bool) {
	v, ok := m.fields[key]
	if !ok {
		return "", false
	}
	return AsText(v), true
}

// Fields returns a copy of the underlying mapping.
func (m Metadata) Fields() map[string]any {
	return maps.Clone(m.fields)
}

// MarshalJSON encodes the metadata as a flat JSON object.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.fields)
}

// UnmarshalJSON decodes a flat JSON object.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	fields := map[string]any{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	m.fields = fields
	return nil
}

// AsNumber converts the numeric kinds produced by extractors to float64.
func AsNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// AsText renders a raw value as text.
func AsText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	}
	if f, ok := AsNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if xs, ok := v.([]any); ok {
		parts := make([]string, 0, len(xs))
		for _, e := range xs {
			parts = append(parts, AsText(e))
		}
		return strings.Join(parts, ", ")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
