package ljus

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tstromberg/ljus/pkg/ops"
)

func TestParseEdits(t *testing.T) {
	cutoff := 2.0
	tests := []struct {
		in   string
		want []ops.Operation
	}{
		{"", nil},
		{"rotate=10", []ops.Operation{ops.Rotate{Degrees: 10}}},
		{
			"rotate=-5,crop=0.1:0.1:0.9:0.9,brightness=1.2",
			[]ops.Operation{ops.Rotate{Degrees: -5}, ops.Crop{Box: ops.Box{0.1, 0.1, 0.9, 0.9}}, ops.Brightness{Level: 1.2}},
		},
		{
			"contrast=0.8, saturation=0 ,autocontrast,autocontrast=2",
			[]ops.Operation{ops.Contrast{Level: 0.8}, ops.Saturation{Level: 0}, ops.Autocontrast{}, ops.Autocontrast{Cutoff: &cutoff}},
		},
	}
	for _, tc := range tests {
		got, err := ParseEdits(tc.in)
		if err != nil {
			t.Errorf("ParseEdits(%q): %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseEdits(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseEditsErrors(t *testing.T) {
	for _, in := range []string{
		"rotate",
		"rotate=ten",
		"crop=0.1:0.1:0.9",
		"crop=0.9:0.1:0.1:0.9",
		"crop=a:b:c:d",
		"sharpen=2",
		"autocontrast=lots",
	} {
		if got, err := ParseEdits(in); err == nil {
			t.Errorf("ParseEdits(%q) = %v, want error", in, got)
		}
	}
}
