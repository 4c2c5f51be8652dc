package tags

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" Beach", "beach ", "BEACH", "", "   ", "Sunset\t"}).Sorted()
	want := []string{"beach", "sunset"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeValues(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    []string
		wantErr bool
	}{
		{name: "nil", in: nil, want: []string{}},
		{name: "string", in: "Family, Beach ,", want: []string{"beach", "family"}},
		{name: "strings", in: []string{"A", "a", "b"}, want: []string{"a", "b"}},
		{name: "any", in: []any{"Fav", " fav"}, want: []string{"fav"}},
		{name: "mixed", in: []any{"fav", 3.0}, wantErr: true},
		{name: "number", in: 42, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeValues(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrTypeMismatch) {
					t.Fatalf("NormalizeValues(%v) err = %v, want ErrTypeMismatch", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeValues(%v): %v", tc.in, err)
			}
			if diff := cmp.Diff(tc.want, got.Sorted()); diff != "" {
				t.Errorf("NormalizeValues(%v) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	s := Normalize([]string{"y:2009", "m:01:january", "kit:eos", "200ms", "aperture:f/2.8", "beach"})
	got := Group(s)
	want := map[string][]string{
		"":         {"200ms", "beach"},
		"aperture": {"aperture:f/2.8"},
		"kit":      {"kit:eos"},
		"m":        {"m:01:january"},
		"y":        {"y:2009"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetHasUnion(t *testing.T) {
	s := Normalize([]string{"a"})
	s.Union(Normalize([]string{"B"}))
	if !s.Has(" A ") || !s.Has("b") || s.Has("c") {
		t.Errorf("unexpected set contents: %v", s.Sorted())
	}
}
