package ops

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"k8s.io/klog/v2"
)

// fake records the primitives it was asked to run, and sizes its output the
// way a real implementation would.
type fake struct {
	calls []string
}

func (f *fake) Autocontrast(img image.Image, cutoff float64) image.Image {
	f.calls = append(f.calls, fmt.Sprintf("autocontrast %v", cutoff))
	return img
}

func (f *fake) Brightness(img image.Image, level float64) image.Image {
	f.calls = append(f.calls, fmt.Sprintf("brightness %v", level))
	return img
}

func (f *fake) Contrast(img image.Image, level float64) image.Image {
	f.calls = append(f.calls, fmt.Sprintf("contrast %v", level))
	return img
}

func (f *fake) Saturation(img image.Image, level float64) image.Image {
	f.calls = append(f.calls, fmt.Sprintf("saturation %v", level))
	return img
}

func (f *fake) Crop(img image.Image, r image.Rectangle) image.Image {
	f.calls = append(f.calls, fmt.Sprintf("crop %v", r))
	return image.NewGray(r)
}

func (f *fake) Rotate(img image.Image, degrees float64) image.Image {
	f.calls = append(f.calls, fmt.Sprintf("rotate %v", degrees))
	b := img.Bounds()
	a := degrees * math.Pi / 180
	c, s := math.Abs(math.Cos(a)), math.Abs(math.Sin(a))
	w, h := float64(b.Dx()), float64(b.Dy())
	return image.NewGray(image.Rect(0, 0, int(w*c+h*s), int(w*s+h*c)))
}

func TestApplyOrder(t *testing.T) {
	p := NewPipeline()
	p.Brightness(1.2)
	p.Autocontrast()
	p.AutocontrastCutoff(3)
	p.Contrast(0.5)
	p.Saturation(2)
	if err := p.Crop(Box{0.25, 0, 0.75, 0.5}); err != nil {
		t.Fatal(err)
	}

	f := &fake{}
	got := p.Apply(image.NewGray(image.Rect(0, 0, 400, 300)), f)

	want := []string{
		"brightness 1.2",
		"autocontrast 0.5",
		"autocontrast 3",
		"contrast 0.5",
		"saturation 2",
		"crop (100,0)-(300,150)",
	}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if got.Bounds() != image.Rect(100, 0, 300, 150) {
		t.Errorf("bounds = %v", got.Bounds())
	}
}

func TestApplyRotateTrims(t *testing.T) {
	f := &fake{}
	got := Apply(image.NewGray(image.Rect(0, 0, 400, 300)), []Operation{Rotate{Degrees: 10}}, f)

	want := []string{"rotate 10", "crop (41,62)-(404,302)"}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if got.Bounds().Dx() != 363 || got.Bounds().Dy() != 240 {
		t.Errorf("bounds = %v", got.Bounds())
	}
}

func TestApplyZeroRotateIsIdentity(t *testing.T) {
	f := &fake{}
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	if got := Apply(img, []Operation{Rotate{}}, f); got != image.Image(img) {
		t.Errorf("Apply returned a new image")
	}
	if len(f.calls) != 0 {
		t.Errorf("calls = %v, want none", f.calls)
	}
}

func TestApplyCropOffsetBounds(t *testing.T) {
	f := &fake{}
	img := image.NewGray(image.Rect(10, 20, 110, 120))
	Apply(img, []Operation{Crop{Box: Box{0, 0, 0.5, 0.5}}}, f)

	want := []string{"crop (10,20)-(60,70)"}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyUnknownIsNoop(t *testing.T) {
	f := &fake{}
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	ops := []Operation{
		Brightness{Level: 1.5},
		Unknown{Name: "unknown-op"},
		Contrast{Level: 1.5},
	}

	var buf bytes.Buffer
	klog.LogToStderr(false)
	klog.SetOutput(&buf)
	defer func() {
		klog.SetOutput(os.Stderr)
		klog.LogToStderr(true)
	}()

	Apply(img, ops, f)
	klog.Flush()

	want := []string{"brightness 1.5", "contrast 1.5"}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), `skipping "unknown-op"`) {
		t.Errorf("log = %q, want a warning naming unknown-op", buf.String())
	}
}

func TestOrient(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 30))

	f := &fake{}
	if got := Orient(img, 0, f); got != image.Image(img) || len(f.calls) != 0 {
		t.Errorf("Orient(0) transformed the image: %v", f.calls)
	}

	got := Orient(img, 90, f)
	if diff := cmp.Diff([]string{"rotate -90"}, f.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if got.Bounds().Dx() != 30 || got.Bounds().Dy() != 40 {
		t.Errorf("bounds = %v", got.Bounds())
	}
}
