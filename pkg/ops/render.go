package ops

import (
	"errors"
	"image"
	"math"

	"k8s.io/klog/v2"
)

// DefaultCutoff is the autocontrast cutoff, in percent, when none is given.
const DefaultCutoff = 0.5

// Primitives are the pixel transforms operations are built from.
// Implementations return new images and never modify their input.
type Primitives interface {
	Autocontrast(img image.Image, cutoff float64) image.Image
	Brightness(img image.Image, level float64) image.Image
	Contrast(img image.Image, level float64) image.Image
	Saturation(img image.Image, level float64) image.Image
	// Crop returns the part of img inside r, in img's coordinate space.
	Crop(img image.Image, r image.Rectangle) image.Image
	// Rotate turns img counter-clockwise by degrees, growing the canvas to fit.
	Rotate(img image.Image, degrees float64) image.Image
}

// Apply renders ops over base in order. Unknown operations are skipped.
func Apply(base image.Image, ops []Operation, p Primitives) image.Image {
	img := base
	for _, op := range ops {
		img = apply(img, op, p)
	}
	return img
}

func apply(img image.Image, op Operation, p Primitives) image.Image {
	switch o := op.(type) {
	case Autocontrast:
		cutoff := DefaultCutoff
		if o.Cutoff != nil {
			cutoff = *o.Cutoff
		}
		return p.Autocontrast(img, cutoff)
	case Brightness:
		return p.Brightness(img, o.Level)
	case Contrast:
		return p.Contrast(img, o.Level)
	case Saturation:
		return p.Saturation(img, o.Level)
	case Crop:
		return p.Crop(img, o.Box.Rect(img.Bounds()))
	case Rotate:
		return rotate(img, o.Degrees, p)
	}
	klog.Warningf("skipping %q: %v", op.Key(), ErrUnknownOperation)
	return img
}

// rotate turns img and trims the empty corners the turn introduces.
func rotate(img image.Image, degrees float64, p Primitives) image.Image {
	if degrees == 0 {
		return img
	}
	b := img.Bounds()
	out := p.Rotate(img, degrees)

	box, err := CropBox(b.Dx(), b.Dy(), degrees*math.Pi/180)
	if errors.Is(err, ErrDegenerate) {
		klog.V(1).Infof("rotate %v on %dx%d: %v, keeping full canvas", degrees, b.Dx(), b.Dy(), err)
	}
	ob := out.Bounds()
	return p.Crop(out, box.Add(ob.Min).Intersect(ob))
}

// Orient turns img clockwise by degrees, as reported by Metadata.Orientation,
// so that it displays upright. No trimming is done.
func Orient(img image.Image, clockwise int, p Primitives) image.Image {
	if clockwise%360 == 0 {
		return img
	}
	return p.Rotate(img, -float64(clockwise))
}
