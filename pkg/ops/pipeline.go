package ops

import (
	"fmt"
	"image"
	"math"
	"slices"
)

// Pipeline is the ordered edit list of one photo. It is not safe for
// concurrent mutation; each photo has a single writer.
//
// Two rotations are never adjacent: a rotation that follows another is folded
// into it.
type Pipeline struct {
	ops []Operation
}

// NewPipeline returns a pipeline holding ops, folding adjacent rotations.
func NewPipeline(ops ...Operation) *Pipeline {
	p := &Pipeline{}
	for _, op := range ops {
		p.push(op)
	}
	return p
}

// Ops returns a copy of the operation list.
func (p *Pipeline) Ops() []Operation {
	return slices.Clone(p.ops)
}

// Len returns the number of operations.
func (p *Pipeline) Len() int {
	return len(p.ops)
}

// Rotate adds a counter-clockwise rotation, reduced to [0, 360). A trailing
// rotation absorbs it.
func (p *Pipeline) Rotate(degrees float64) {
	p.push(Rotate{Degrees: degrees})
}

// Crop adds a crop to box.
func (p *Pipeline) Crop(box Box) error {
	if err := box.Validate(); err != nil {
		return err
	}
	p.push(Crop{Box: box})
	return nil
}

// Brightness adds a brightness adjustment.
func (p *Pipeline) Brightness(level float64) {
	p.push(Brightness{Level: level})
}

// Contrast adds a contrast adjustment.
func (p *Pipeline) Contrast(level float64) {
	p.push(Contrast{Level: level})
}

// Saturation adds a saturation adjustment.
func (p *Pipeline) Saturation(level float64) {
	p.push(Saturation{Level: level})
}

// Autocontrast adds an automatic contrast stretch with the default cutoff.
func (p *Pipeline) Autocontrast() {
	p.push(Autocontrast{})
}

// AutocontrastCutoff adds an automatic contrast stretch that ignores cutoff
// percent of pixels at each end of the histogram.
func (p *Pipeline) AutocontrastCutoff(cutoff float64) {
	p.push(Autocontrast{Cutoff: &cutoff})
}

// Add appends op through the mutator for its kind.
func (p *Pipeline) Add(op Operation) error {
	switch o := op.(type) {
	case Crop:
		return p.Crop(o.Box)
	case Rotate, Brightness, Contrast, Saturation, Autocontrast, Unknown:
		p.push(op)
		return nil
	}
	return fmt.Errorf("%T: %w", op, ErrUnknownOperation)
}

// Apply renders the pipeline over base.
func (p *Pipeline) Apply(base image.Image, prim Primitives) image.Image {
	return Apply(base, p.ops, prim)
}

func (p *Pipeline) push(op Operation) {
	r, ok := op.(Rotate)
	if !ok {
		p.ops = append(p.ops, op)
		return
	}

	if n := len(p.ops); n > 0 {
		if last, ok := p.ops[n-1].(Rotate); ok {
			p.ops[n-1] = Rotate{Degrees: wrap(last.Degrees + r.Degrees)}
			return
		}
	}
	p.ops = append(p.ops, Rotate{Degrees: wrap(r.Degrees)})
}

// wrap reduces degrees to [0, 360).
func wrap(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	if d == 360 || d == 0 {
		return 0
	}
	return d
}
