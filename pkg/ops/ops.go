// Package ops models non-destructive photo edits and replays them over pixels.
package ops

import (
	"errors"
	"fmt"
	"image"
)

// Key names an operation kind in stored records.
type Key string

const (
	KeyAutocontrast Key = "autocontrast"
	KeyBrightness   Key = "brightness"
	KeyContrast     Key = "contrast"
	KeyCrop         Key = "crop"
	KeyRotate       Key = "rotate"
	KeySaturation   Key = "saturation"
)

var (
	// ErrUnknownOperation marks operations whose key is not recognized.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrInvalidBox is returned for crop boxes outside the unit square.
	ErrInvalidBox = errors.New("invalid crop box")
)

// Operation is one edit. The concrete types below are the complete set;
// Unknown carries records written by something newer than this package.
type Operation interface {
	Key() Key
}

// Rotate turns the image counter-clockwise by Degrees, expanding the canvas
// and then trimming the empty corners.
type Rotate struct {
	Degrees float64
}

// Crop keeps the part of the image inside Box.
type Crop struct {
	Box Box
}

// Brightness scales brightness by Level; 1 leaves the image unchanged.
type Brightness struct {
	Level float64
}

// Contrast scales contrast by Level; 1 leaves the image unchanged.
type Contrast struct {
	Level float64
}

// Saturation scales color saturation by Level; 1 leaves the image unchanged.
type Saturation struct {
	Level float64
}

// Autocontrast stretches each channel to the full range after discarding
// Cutoff percent of the darkest and lightest pixels. A nil Cutoff means
// DefaultCutoff.
type Autocontrast struct {
	Cutoff *float64
}

// Unknown is an operation whose key this package does not recognize. It is
// kept so stored lists survive a round trip, and renders as a no-op.
type Unknown struct {
	Name   string
	Params map[string]any
}

func (Rotate) Key() Key       { return KeyRotate }
func (Crop) Key() Key         { return KeyCrop }
func (Brightness) Key() Key   { return KeyBrightness }
func (Contrast) Key() Key     { return KeyContrast }
func (Saturation) Key() Key   { return KeySaturation }
func (Autocontrast) Key() Key { return KeyAutocontrast }
func (u Unknown) Key() Key    { return Key(u.Name) }

// Box is a crop region as fractions of the image size: x1, y1, x2, y2.
type Box [4]float64

// Validate checks that the box lies inside the unit square and is not empty.
func (b Box) Validate() error {
	for _, v := range b {
		if v < 0 || v > 1 {
			return fmt.Errorf("%v: %w", b, ErrInvalidBox)
		}
	}
	if b[0] >= b[2] || b[1] >= b[3] {
		return fmt.Errorf("%v: %w", b, ErrInvalidBox)
	}
	return nil
}

// Rect scales the box to pixel coordinates within bounds.
func (b Box) Rect(bounds image.Rectangle) image.Rectangle {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	r := image.Rect(int(w*b[0]), int(h*b[1]), int(w*b[2]), int(h*b[3]))
	return r.Add(bounds.Min)
}
