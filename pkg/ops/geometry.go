package ops

import (
	"errors"
	"image"
	"math"
)

// ErrDegenerate is returned alongside the fallback rectangle when the
// largest-inscribed-rectangle solution is undefined for an angle.
var ErrDegenerate = errors.New("degenerate rotation")

// snapEps absorbs the error in sin and cos of right angles.
const snapEps = 1e-12

// degenerateEps bounds |sin²-cos²| below which the crop solution diverges.
const degenerateEps = 1e-9

// CropBox returns the rectangle to keep after rotating a width x height image
// by angle radians onto an expanded canvas. The rectangle is expressed in the
// expanded canvas coordinates and always lies within it.
//
// The corner-touching solution is used wherever it is defined and lies inside
// the canvas. Otherwise the rectangle is bounded by the short side only, which
// is the largest upright rectangle for those angles. At odd multiples of 45
// degrees the corner solution divides by zero; the result then comes with
// ErrDegenerate.
func CropBox(width, height int, angle float64) (image.Rectangle, error) {
	w, h := float64(width), float64(height)
	c := snap(math.Abs(math.Cos(angle)))
	s := snap(math.Abs(math.Sin(angle)))

	cw := w*c + h*s
	ch := w*s + h*c

	var err error
	d := s*s - c*c
	a, b := math.NaN(), math.NaN()
	if math.Abs(d) >= degenerateEps {
		f := s * c / d
		a = f * (w*s - h*c)
		b = f * (h*s - w*c)
	} else {
		err = ErrDegenerate
	}

	if !(a >= 0 && b >= 0) {
		wr, hr := shortSide(w, h, c, s)
		a, b = (cw-wr)/2, (ch-hr)/2
	}

	a = clamp(a, cw/2)
	b = clamp(b, ch/2)
	return image.Rect(int(a), int(b), int(cw-a), int(ch-b)), err
}

// shortSide returns the width and height of the rectangle centered on the
// rotated image whose corners touch its long edges.
func shortSide(w, h, c, s float64) (float64, float64) {
	if c == 0 || s == 0 {
		return w*c + h*s, w*s + h*c
	}
	x := min(w, h) / 2
	if w >= h {
		return x / s, x / c
	}
	return x / c, x / s
}

func snap(v float64) float64 {
	switch {
	case math.Abs(v) < snapEps:
		return 0
	case math.Abs(v-1) < snapEps:
		return 1
	}
	return v
}

// clamp limits v to [0, hi], mapping NaN to 0.
func clamp(v, hi float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return min(v, hi)
}
