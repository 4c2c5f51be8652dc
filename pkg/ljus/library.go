package ljus

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/tstromberg/ljus/pkg/meta"
	"github.com/tstromberg/ljus/pkg/ops"
	"github.com/tstromberg/ljus/pkg/tags"
)

// Library ties configuration, the record store, metadata extraction, and
// pixel operations together.
type Library struct {
	c     *Config
	store *Store
	ex    meta.Extractor
	prim  ops.Primitives
}

// New returns a Library. A nil prim uses ops.Bild.
func New(c *Config, s *Store, ex meta.Extractor, prim ops.Primitives) *Library {
	if prim == nil {
		prim = ops.Bild{}
	}
	return &Library{c: c, store: s, ex: ex, prim: prim}
}

// Store returns the library's record store.
func (l *Library) Store() *Store {
	return l.store
}

// Import adds or refreshes the photo at path. Existing user tags and edits
// are kept.
func (l *Library) Import(path string) (*Photo, error) {
	p, found := l.store.Get(path)
	if !found {
		p = &Photo{Path: path}
	}

	l.refresh(p)
	p.AddTags(keywords(path, p.Meta)...)
	p.AddTags(pathTags(path, l.c.PathTags)...)
	p.AddTags(l.c.Tags...)

	if err := l.save(p); err != nil {
		return nil, err
	}
	klog.V(1).Infof("imported %s: %v", path, p.Tags().Sorted())
	return p, nil
}

// ImportAll imports every photo beneath the configured input directories.
// Photos that fail to import are logged and skipped.
func (l *Library) ImportAll() (int, error) {
	n := 0
	for _, d := range l.c.InDirs {
		klog.Infof("import: %s", d)
		paths, err := Find(d)
		if err != nil {
			return n, fmt.Errorf("find: %w", err)
		}
		for _, path := range paths {
			if _, err := l.Import(path); err != nil {
				klog.Errorf("import %s: %v", path, err)
				continue
			}
			n++
		}
	}
	return n, nil
}

// Retag re-reads metadata for a stored photo, refreshing its derived tags and
// timestamp. User tags and edits are unchanged.
func (l *Library) Retag(path string) (*Photo, error) {
	p, found := l.store.Get(path)
	if !found {
		return nil, fmt.Errorf("%s: not in library", path)
	}
	l.refresh(p)
	if err := l.store.Put(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Edit appends operations to a stored photo's edit list and re-renders its
// thumbnails.
func (l *Library) Edit(path string, edits []ops.Operation) (*Photo, error) {
	p, found := l.store.Get(path)
	if !found {
		return nil, fmt.Errorf("%s: not in library", path)
	}
	for _, op := range edits {
		if err := p.Pipeline().Add(op); err != nil {
			return nil, fmt.Errorf("edit %s: %w", path, err)
		}
	}
	if err := l.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Revert drops every edit of a stored photo.
func (l *Library) Revert(path string) (*Photo, error) {
	p, found := l.store.Get(path)
	if !found {
		return nil, fmt.Errorf("%s: not in library", path)
	}
	p.Ops = ops.NewPipeline()
	if err := l.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Tag adds and removes user tags of a stored photo.
func (l *Library) Tag(path string, add []string, remove []string) (*Photo, error) {
	p, found := l.store.Get(path)
	if !found {
		return nil, fmt.Errorf("%s: not in library", path)
	}
	p.AddTags(add...)
	p.RemoveTags(remove...)
	if err := l.store.Put(p); err != nil {
		return nil, err
	}
	return p, nil
}

// refresh re-extracts metadata and the capture time.
func (l *Library) refresh(p *Photo) {
	md, err := l.ex.Extract(p.Path)
	if err != nil {
		klog.Warningf("metadata for %s: %v", p.Path, err)
		md = meta.Metadata{}
	}
	p.Meta = md
	p.Stamp = meta.Resolve(p.Path, md)

	if w, ok := md.Number("ImageWidth"); ok {
		p.Width = int(w)
	}
	if h, ok := md.Number("ImageHeight"); ok {
		p.Height = int(h)
	}
	for _, err := range tags.Metadata(md) {
		if err != nil {
			klog.Warningf("%s: %v", p.Path, err)
		}
	}
}

// save renders thumbnails, when an output directory is set, and stores p.
func (l *Library) save(p *Photo) error {
	if l.c.OutDir != "" {
		thumbs, err := l.thumbnails(p)
		if err != nil {
			return fmt.Errorf("thumbnails: %w", err)
		}
		p.Thumbs = thumbs
	}
	return l.store.Put(p)
}
