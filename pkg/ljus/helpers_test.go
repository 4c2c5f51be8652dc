package ljus

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/tstromberg/ljus/pkg/meta"
)

// fakeExtractor returns canned metadata by path.
type fakeExtractor map[string]map[string]any

func (f fakeExtractor) Extract(path string) (meta.Metadata, error) {
	fields, ok := f[path]
	if !ok {
		return meta.Metadata{}, fmt.Errorf("no metadata for %s", path)
	}
	return meta.New(fields), nil
}

type fakeSuggester struct {
	tags  []string
	calls int
}

func (f *fakeSuggester) Suggest(_ context.Context, jpeg []byte) ([]string, error) {
	f.calls++
	if len(jpeg) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return f.tags, nil
}

// writeJPEG writes a w x h gradient to dir/name and returns its path.
func writeJPEG(t *testing.T, dir string, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := imgio.Save(path, img, imgio.JPEGEncoder(90)); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	tm, err := readThumb(path)
	if err != nil {
		t.Fatalf("readThumb(%s): %v", path, err)
	}
	return tm.X, tm.Y
}
