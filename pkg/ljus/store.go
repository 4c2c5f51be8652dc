package ljus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/patrickmn/go-cache"
	"k8s.io/klog/v2"

	"github.com/tstromberg/ljus/pkg/tags"
)

// Store holds photo records keyed by source path.
type Store struct {
	path  string
	cache *cache.Cache
}

// OpenStore loads the store persisted at path. A missing file is an empty
// store; an empty path is never persisted.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, cache: cache.New(cache.NoExpiration, 0)}
	if path == "" {
		return s, nil
	}
	if err := s.cache.LoadFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	klog.V(1).Infof("loaded %d records from %s", s.cache.ItemCount(), path)
	return s, nil
}

// Get returns the record for the photo at path.
func (s *Store) Get(path string) (*Photo, bool) {
	v, found := s.cache.Get(path)
	if !found {
		return nil, false
	}
	p, err := decode(v)
	if err != nil {
		klog.Warningf("record for %s: %v", path, err)
		return nil, false
	}
	return p, true
}

// Put stores p, replacing any previous record for its path.
func (s *Store) Put(p *Photo) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", p.Path, err)
	}
	s.cache.Set(p.Path, string(b), cache.NoExpiration)
	return nil
}

// Delete removes the record for path.
func (s *Store) Delete(path string) {
	s.cache.Delete(path)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// Photos returns every record, ordered by capture time and then path.
func (s *Store) Photos() []*Photo {
	var ps []*Photo
	for k, it := range s.cache.Items() {
		p, err := decode(it.Object)
		if err != nil {
			klog.Warningf("record for %s: %v", k, err)
			continue
		}
		ps = append(ps, p)
	}
	slices.SortFunc(ps, func(a, b *Photo) int {
		if c := a.Stamp.Compare(b.Stamp); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return ps
}

// Search returns the photos carrying every one of the given tags.
func (s *Store) Search(want ...string) []*Photo {
	q := tags.Normalize(want)
	var out []*Photo
	for _, p := range s.Photos() {
		have := p.Tags()
		match := true
		for t := range q {
			if !have.Has(t) {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return out
}

// Save persists the store to its file.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	if err := s.cache.SaveFile(s.path); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	klog.V(1).Infof("saved %d records to %s", s.cache.ItemCount(), s.path)
	return nil
}

func decode(v any) (*Photo, error) {
	str, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected %T", v)
	}
	p := &Photo{}
	if err := json.Unmarshal([]byte(str), p); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return p, nil
}
