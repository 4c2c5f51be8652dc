package ljus

import (
	"crypto/md5"
	"encoding/base32"
	"strings"
	"time"

	"github.com/tstromberg/ljus/pkg/meta"
	"github.com/tstromberg/ljus/pkg/ops"
	"github.com/tstromberg/ljus/pkg/tags"
)

// Photo is one library item, stored by source path.
type Photo struct {
	Path  string        `json:"path"`
	Stamp time.Time     `json:"stamp"`
	Meta  meta.Metadata `json:"meta"`

	// UserTags are tags that did not come from metadata or the timestamp:
	// embedded keywords, path tags, and manual or suggested tags.
	UserTags []string `json:"user_tags,omitempty"`

	Ops *ops.Pipeline `json:"ops,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Thumbs map[string]ThumbMeta `json:"thumbs,omitempty"`
}

// Pipeline returns the photo's edit list, creating it if needed.
func (p *Photo) Pipeline() *ops.Pipeline {
	if p.Ops == nil {
		p.Ops = ops.NewPipeline()
	}
	return p.Ops
}

// Tags returns every tag for the photo: user tags plus those derived from
// metadata and the capture time. Unparseable metadata is skipped quietly; it
// is reported on import.
func (p *Photo) Tags() tags.Set {
	s := tags.Normalize(p.UserTags)
	for t, err := range tags.Metadata(p.Meta) {
		if err == nil {
			s.Add(t)
		}
	}
	s.Union(tags.DatetimeTags(p.Stamp))
	return s
}

// AddTags adds user tags.
func (p *Photo) AddTags(ts ...string) {
	s := tags.Normalize(p.UserTags)
	for _, t := range ts {
		s.Add(t)
	}
	p.UserTags = s.Sorted()
}

// RemoveTags removes user tags. Derived tags cannot be removed.
func (p *Photo) RemoveTags(ts ...string) {
	s := tags.Normalize(p.UserTags)
	for t := range tags.Normalize(ts) {
		delete(s, t)
	}
	p.UserTags = s.Sorted()
}

// Hash identifies the photo's source path in output file names.
func (p *Photo) Hash() string {
	sum := md5.Sum([]byte(p.Path))
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:]))
}
