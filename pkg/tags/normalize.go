// Package tags derives searchable tags from photo metadata and timestamps.
package tags

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrTypeMismatch is returned when a tag source holds something other than text.
var ErrTypeMismatch = errors.New("type mismatch")

// Set is a collection of normalized tags.
type Set map[string]struct{}

// Add normalizes t and adds it to the set, ignoring blank tags.
func (s Set) Add(t string) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return
	}
	s[t] = struct{}{}
}

// Has reports whether the normalized form of t is in the set.
func (s Set) Has(t string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(t))]
	return ok
}

// Union adds every tag of o to s.
func (s Set) Union(o Set) Set {
	for t := range o {
		s[t] = struct{}{}
	}
	return s
}

// Sorted returns the tags in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Normalize trims, lowercases, and dedupes tags, discarding empty entries.
func Normalize(seq []string) Set {
	s := Set{}
	for _, t := range seq {
		s.Add(t)
	}
	return s
}

// NormalizeValues is Normalize for loosely typed input, such as a Keywords field
// that exiftool may report as a single string or as a list.
func NormalizeValues(v any) (Set, error) {
	switch x := v.(type) {
	case nil:
		return Set{}, nil
	case string:
		return Normalize(strings.Split(x, ",")), nil
	case []string:
		return Normalize(x), nil
	case []any:
		s := Set{}
		for i, e := range x {
			str, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d is %T: %w", i, e, ErrTypeMismatch)
			}
			s.Add(str)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%T: %w", v, ErrTypeMismatch)
	}
}

// Namespace returns the prefix before the first colon, or "" for unprefixed tags.
func Namespace(t string) string {
	ns, _, found := strings.Cut(t, ":")
	if !found {
		return ""
	}
	return ns
}

// Group buckets tags by namespace, each bucket sorted.
func Group(s Set) map[string][]string {
	g := map[string][]string{}
	for _, t := range s.Sorted() {
		ns := Namespace(t)
		g[ns] = append(g[ns], t)
	}
	return g
}
