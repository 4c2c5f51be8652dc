package ops

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/transform"
)

// Bild implements Primitives with github.com/anthonynsimon/bild.
type Bild struct{}

var _ Primitives = Bild{}

// change converts a level factor into bild's [-1, 1] change amount.
func change(level float64) float64 {
	return max(-1, min(1, level-1))
}

func (Bild) Brightness(img image.Image, level float64) image.Image {
	return adjust.Brightness(img, change(level))
}

func (Bild) Contrast(img image.Image, level float64) image.Image {
	return adjust.Contrast(img, change(level))
}

func (Bild) Saturation(img image.Image, level float64) image.Image {
	return adjust.Saturation(img, change(level))
}

func (Bild) Crop(img image.Image, r image.Rectangle) image.Image {
	return transform.Crop(img, r)
}

// Rotate turns counter-clockwise; bild turns clockwise.
func (Bild) Rotate(img image.Image, degrees float64) image.Image {
	return transform.Rotate(img, -degrees, &transform.RotationOptions{ResizeBounds: true})
}

// Autocontrast remaps each channel so that, after ignoring cutoff percent of
// pixels at either end, the darkest value becomes 0 and the lightest 255.
func (Bild) Autocontrast(img image.Image, cutoff float64) image.Image {
	h := histogram.NewRGBAHistogram(img)
	r := stretch(h.R.Bins, cutoff)
	g := stretch(h.G.Bins, cutoff)
	b := stretch(h.B.Bins, cutoff)
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{R: r[c.R], G: g[c.G], B: b[c.B], A: c.A}
	})
}

// stretch builds a lookup table for one channel histogram.
func stretch(bins []int, cutoff float64) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(i)
	}

	total := 0
	for _, n := range bins {
		total += n
	}
	cut := int(float64(total) * cutoff / 100)

	lo, seen := 0, 0
	for lo < len(bins) {
		if seen += bins[lo]; seen > cut {
			break
		}
		lo++
	}
	hi, seen := len(bins)-1, 0
	for hi >= 0 {
		if seen += bins[hi]; seen > cut {
			break
		}
		hi--
	}
	if hi <= lo {
		return lut
	}

	for i := range lut {
		switch {
		case i <= lo:
			lut[i] = 0
		case i >= hi:
			lut[i] = 255
		default:
			lut[i] = uint8((i - lo) * 255 / (hi - lo))
		}
	}
	return lut
}
