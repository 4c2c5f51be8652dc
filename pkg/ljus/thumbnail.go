package ljus

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"

	"github.com/tstromberg/ljus/pkg/ops"
)

// ThumbOpts describe a thumbnail bounding box. A zero X or Y leaves that axis
// unconstrained.
type ThumbOpts struct {
	X       int
	Y       int
	Quality int
}

// ThumbMeta describes a rendered thumbnail.
type ThumbMeta struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	RelPath string `json:"rel_path"`
	Path    string `json:"path"`
}

var defaultThumbOpts = map[string]ThumbOpts{
	"full":  {X: 800, Y: 800, Quality: 85},
	"thumb": {X: 80, Y: 80, Quality: 75},
}

// fastSlack is how much larger than the largest thumbnail a fast render keeps.
const fastSlack = 1.2

// render opens the photo upright and applies its edits. A positive shrink
// first scales the original to fit within a shrink x shrink box.
func (l *Library) render(p *Photo, shrink int) (image.Image, error) {
	img, err := imgio.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}

	img = ops.Orient(img, p.Meta.Orientation(), l.prim)
	if shrink > 0 {
		img = fit(img, shrink, shrink)
	}
	return p.Pipeline().Apply(img, l.prim), nil
}

// fastSize is the box a fast render shrinks originals to, or 0.
func (l *Library) fastSize() int {
	if !l.c.Fast {
		return 0
	}
	longest := 0
	for _, t := range l.c.thumbs() {
		longest = max(longest, t.X, t.Y)
	}
	return int(fastSlack * float64(longest))
}

// thumbnails renders any missing thumbnails for p.
func (l *Library) thumbnails(p *Photo) (map[string]ThumbMeta, error) {
	klog.V(1).Infof("creating thumbnails for %s in %s", p.Path, l.c.OutDir)

	digest, err := l.renderDigest(p)
	if err != nil {
		return nil, err
	}

	var img image.Image
	thumbs := map[string]ThumbMeta{}

	for _, name := range slices.Sorted(maps.Keys(l.c.thumbs())) {
		t := l.c.thumbs()[name]
		relPath := thumbRelPath(p, name, digest)
		fullPath := filepath.Join(l.c.OutDir, relPath)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}

		st, err := os.Stat(fullPath)
		if err == nil && st.Size() > int64(128) {
			klog.V(1).Infof("%s exists (%d bytes)", fullPath, st.Size())
			rt, err := readThumb(fullPath)
			if err == nil {
				rt.RelPath = relPath
				thumbs[name] = *rt
				continue
			}
			klog.Warningf("unable to read thumb: %v", err)
		}

		if img == nil {
			img, err = l.render(p, l.fastSize())
			if err != nil {
				return nil, fmt.Errorf("render: %w", err)
			}
		}

		ct, err := createThumb(img, fullPath, t)
		if err != nil {
			return nil, fmt.Errorf("create thumb: %w", err)
		}

		ct.RelPath = relPath
		thumbs[name] = *ct
		klog.V(1).Infof("created thumb: %+v", ct)
	}

	return thumbs, nil
}

func createThumb(i image.Image, path string, t ThumbOpts) (*ThumbMeta, error) {
	klog.Infof("creating %dx%d thumb: %s - %+v", t.X, t.Y, path, i.Bounds())

	if i.Bounds().Dx() == 0 || i.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("empty image: %v", i.Bounds())
	}

	rimg := fit(i, t.X, t.Y)
	q := t.Quality
	if q == 0 {
		q = 85
	}
	if err := imgio.Save(path, rimg, imgio.JPEGEncoder(q)); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	return &ThumbMeta{X: rimg.Bounds().Dx(), Y: rimg.Bounds().Dy(), Path: path}, nil
}

// fit scales i down to fit within a w x h box, keeping its aspect ratio.
// A zero w or h leaves that axis unconstrained. Images are never enlarged.
func fit(i image.Image, w, h int) image.Image {
	x, y := fitSize(i.Bounds().Dx(), i.Bounds().Dy(), w, h)
	if x == i.Bounds().Dx() && y == i.Bounds().Dy() {
		return i
	}
	return transform.Resize(i, x, y, transform.Lanczos)
}

func fitSize(x, y, w, h int) (int, int) {
	scale := 1.0
	if w > 0 {
		scale = min(scale, float64(w)/float64(x))
	}
	if h > 0 {
		scale = min(scale, float64(h)/float64(y))
	}
	return max(1, int(float64(x)*scale)), max(1, int(float64(y)*scale))
}

func readThumb(path string) (*ThumbMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode: %w", err)
	}

	return &ThumbMeta{X: ic.Width, Y: ic.Height, Path: path}, nil
}

// renderDigest names a rendering of p, so that a change to its edits, its
// source file, its orientation, or the fast pre-shrink produces new thumbnail
// files. Unedited photos are named "orig_<state>".
func (l *Library) renderDigest(p *Photo) (string, error) {
	edits := "orig"
	if p.Pipeline().Len() > 0 {
		b, err := json.Marshal(p.Pipeline())
		if err != nil {
			return "", fmt.Errorf("marshal ops: %w", err)
		}
		sum := md5.Sum(b)
		edits = hex.EncodeToString(sum[:4])
	}

	st, err := os.Stat(p.Path)
	if err != nil {
		return "", fmt.Errorf("stat: %w", err)
	}
	state := fmt.Sprintf("%d:%d:%d:%d", st.ModTime().UnixNano(), st.Size(), p.Meta.Orientation(), l.fastSize())
	sum := md5.Sum([]byte(state))
	return fmt.Sprintf("%s_%s", edits, hex.EncodeToString(sum[:4])), nil
}

// thumbRelPath returns the path of a thumbnail relative to the output directory.
func thumbRelPath(p *Photo, name string, digest string) string {
	h := p.Hash()
	return filepath.Join("_", name, h[:2], fmt.Sprintf("%s@%s.jpg", h, digest))
}
