package ops

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRotateMerges(t *testing.T) {
	p := NewPipeline()
	p.Rotate(10)
	p.Rotate(20)

	want := []Operation{Rotate{Degrees: 30}}
	if diff := cmp.Diff(want, p.Ops()); diff != "" {
		t.Errorf("Ops() mismatch (-want +got):\n%s", diff)
	}
}

func TestRotateWraps(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{in: []float64{350, 20}, want: 10},
		{in: []float64{-10, -10}, want: 340},
		{in: []float64{90, 270}, want: 0},
		{in: []float64{360, 360}, want: 0},
		{in: []float64{-370, 5}, want: 355},
		{in: []float64{-10}, want: 350},
		{in: []float64{370}, want: 10},
		{in: []float64{720}, want: 0},
	}
	for _, tc := range tests {
		p := NewPipeline()
		for _, d := range tc.in {
			p.Rotate(d)
		}
		got := p.Ops()
		if len(got) != 1 {
			t.Fatalf("%v: got %d ops, want 1", tc.in, len(got))
		}
		if r := got[0].(Rotate); r.Degrees != tc.want {
			t.Errorf("%v: degrees = %v, want %v", tc.in, r.Degrees, tc.want)
		}
	}
}

func TestRotateOnlyMergesWithTrailing(t *testing.T) {
	p := NewPipeline()
	p.Rotate(10)
	p.Brightness(1.2)
	p.Rotate(5)
	p.Rotate(5)

	want := []Operation{Rotate{Degrees: 10}, Brightness{Level: 1.2}, Rotate{Degrees: 10}}
	if diff := cmp.Diff(want, p.Ops()); diff != "" {
		t.Errorf("Ops() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPipelineFolds(t *testing.T) {
	p := NewPipeline(Rotate{Degrees: 45}, Rotate{Degrees: 45}, Crop{Box: Box{0, 0, 1, 1}})
	want := []Operation{Rotate{Degrees: 90}, Crop{Box: Box{0, 0, 1, 1}}}
	if diff := cmp.Diff(want, p.Ops()); diff != "" {
		t.Errorf("Ops() mismatch (-want +got):\n%s", diff)
	}
}

func TestMutatorsAppend(t *testing.T) {
	p := NewPipeline()
	p.Brightness(1.1)
	p.Brightness(1.1)
	p.Contrast(0.9)
	p.Saturation(1.5)
	p.Autocontrast()
	p.AutocontrastCutoff(2)
	if err := p.Crop(Box{0.1, 0.1, 0.9, 0.9}); err != nil {
		t.Fatalf("Crop: %v", err)
	}

	cutoff := 2.0
	want := []Operation{
		Brightness{Level: 1.1},
		Brightness{Level: 1.1},
		Contrast{Level: 0.9},
		Saturation{Level: 1.5},
		Autocontrast{},
		Autocontrast{Cutoff: &cutoff},
		Crop{Box: Box{0.1, 0.1, 0.9, 0.9}},
	}
	if diff := cmp.Diff(want, p.Ops()); diff != "" {
		t.Errorf("Ops() mismatch (-want +got):\n%s", diff)
	}
}

func TestCropRejectsInvalidBox(t *testing.T) {
	for _, b := range []Box{
		{0.5, 0, 0.5, 1},
		{0, 0.8, 1, 0.2},
		{-0.1, 0, 1, 1},
		{0, 0, 1.5, 1},
	} {
		p := NewPipeline()
		if err := p.Crop(b); !errors.Is(err, ErrInvalidBox) {
			t.Errorf("Crop(%v) = %v, want ErrInvalidBox", b, err)
		}
		if p.Len() != 0 {
			t.Errorf("Crop(%v) appended an operation", b)
		}
	}
}

func TestOpsIsACopy(t *testing.T) {
	p := NewPipeline(Brightness{Level: 2})
	ops := p.Ops()
	ops[0] = Contrast{Level: 2}
	if _, ok := p.Ops()[0].(Brightness); !ok {
		t.Errorf("modifying Ops() result changed the pipeline")
	}
}

func TestAdd(t *testing.T) {
	p := NewPipeline()
	for _, op := range []Operation{Rotate{Degrees: 5}, Rotate{Degrees: 5}, Saturation{Level: 0}, Unknown{Name: "x"}} {
		if err := p.Add(op); err != nil {
			t.Fatalf("Add(%v): %v", op, err)
		}
	}
	want := []Operation{Rotate{Degrees: 10}, Saturation{Level: 0}, Unknown{Name: "x"}}
	if diff := cmp.Diff(want, p.Ops()); diff != "" {
		t.Errorf("Ops() mismatch (-want +got):\n%s", diff)
	}

	if err := p.Add(Crop{Box: Box{1, 1, 0, 0}}); !errors.Is(err, ErrInvalidBox) {
		t.Errorf("Add(bad crop) = %v, want ErrInvalidBox", err)
	}
	if err := p.Add(&Rotate{Degrees: 1}); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Add(*Rotate) = %v, want ErrUnknownOperation", err)
	}
}
