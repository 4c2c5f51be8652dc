package ljus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// ErrFormat is returned for malformed or unsupported export formats.
var ErrFormat = errors.New("bad format")

const defaultQuality = 90

var bboxPattern = regexp.MustCompile(`^(\d+)(?:x(\d+))?$`)

// Format describes an export: file type, bounding box, and JPEG quality.
// A zero BBox keeps the rendered size; an empty Ext keeps the source type.
type Format struct {
	Ext     string
	BBox    [2]int
	Quality int
}

// ParseFormat parses comma-separated parts: a bare "MxN" or "N" bounding box,
// a bare file extension, or key=value for ext, bbox, and quality.
// "png,100", "ext=png,bbox=100x100", and "100x100,png" are equivalent.
func ParseFormat(s string) (Format, error) {
	f := Format{Quality: defaultQuality}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, value, found := strings.Cut(item, "=")
		if !found {
			key, value = "ext", item
			if bboxPattern.MatchString(item) {
				key = "bbox"
			}
		}

		switch key {
		case "ext":
			f.Ext = strings.ToLower(strings.TrimPrefix(value, "."))
		case "bbox":
			m := bboxPattern.FindStringSubmatch(value)
			if m == nil {
				return Format{}, fmt.Errorf("bbox %q: %w", value, ErrFormat)
			}
			w, _ := strconv.Atoi(m[1])
			h := w
			if m[2] != "" {
				h, _ = strconv.Atoi(m[2])
			}
			f.BBox = [2]int{w, h}
		case "quality":
			q, err := strconv.Atoi(value)
			if err != nil || q < 1 || q > 100 {
				return Format{}, fmt.Errorf("quality %q: %w", value, ErrFormat)
			}
			f.Quality = q
		default:
			return Format{}, fmt.Errorf("unknown key %q: %w", key, ErrFormat)
		}
	}

	if f.Ext != "" {
		if _, err := encoder(f.Ext, f.Quality); err != nil {
			return Format{}, err
		}
	}
	return f, nil
}

// String renders f as it appears in export directory names.
func (f Format) String() string {
	var parts []string
	if f.Ext != "" {
		parts = append(parts, f.Ext)
	}
	if f.BBox != [2]int{} {
		parts = append(parts, fmt.Sprintf("%dx%d", f.BBox[0], f.BBox[1]))
	}
	if f.Quality != 0 && f.Quality != defaultQuality {
		parts = append(parts, fmt.Sprintf("quality=%d", f.Quality))
	}
	if len(parts) == 0 {
		return "orig"
	}
	return strings.Join(parts, ",")
}

func encoder(ext string, quality int) (imgio.Encoder, error) {
	switch ext {
	case "jpg", "jpeg":
		if quality == 0 {
			quality = defaultQuality
		}
		return imgio.JPEGEncoder(quality), nil
	case "png":
		return imgio.PNGEncoder(), nil
	case "bmp":
		return imgio.BMPEncoder(), nil
	}
	return nil, fmt.Errorf("extension %q: %w", ext, ErrFormat)
}

// ExportPath returns where Export writes p under root.
func ExportPath(p *Photo, root string, f Format) string {
	h := p.Hash()
	return filepath.Join(root, f.String(), h[:2], h+"."+exportExt(p, f))
}

func exportExt(p *Photo, f Format) string {
	if f.Ext != "" {
		return f.Ext
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(p.Path), "."))
}

// Export writes an edited copy of p under root and returns its path. An
// existing output is kept unless force is set. Photos with no edits, no
// bounding box, and no type change are copied byte for byte.
func (l *Library) Export(p *Photo, root string, f Format, force bool) (string, error) {
	out := ExportPath(p, root, f)
	if _, err := os.Stat(out); err == nil && !force {
		klog.V(1).Infof("%s exists", out)
		return out, nil
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	srcExt := strings.ToLower(strings.TrimPrefix(filepath.Ext(p.Path), "."))
	if p.Pipeline().Len() == 0 && f.BBox == [2]int{} && exportExt(p, f) == srcExt && p.Meta.Orientation() == 0 {
		klog.Infof("copying %s -> %s", p.Path, out)
		if err := copy.Copy(p.Path, out); err != nil {
			return "", fmt.Errorf("copy: %w", err)
		}
		return out, nil
	}

	enc, err := encoder(exportExt(p, f), f.Quality)
	if err != nil {
		return "", err
	}

	img, err := l.render(p, 0)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	img = fit(img, f.BBox[0], f.BBox[1])

	klog.Infof("exporting %s -> %s (%s)", p.Path, out, f)
	if err := imgio.Save(out, img, enc); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	return out, nil
}
