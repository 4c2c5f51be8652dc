package meta

import (
	"errors"
	"fmt"
)

// Extractor produces Metadata for a media file.
type Extractor interface {
	Extract(path string) (Metadata, error)
}

// Chain tries each Extractor in turn, returning the first success.
type Chain []Extractor

// Extract implements Extractor.
func (c Chain) Extract(path string) (Metadata, error) {
	var errs []error
	for _, e := range c {
		md, err := e.Extract(path)
		if err == nil {
			return md, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Metadata{}, fmt.Errorf("no extractors for %q", path)
	}
	return Metadata{}, errors.Join(errs...)
}
