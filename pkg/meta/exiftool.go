package meta

import (
	"fmt"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// Exiftool extracts metadata through a long-running exiftool process.
type Exiftool struct {
	et *exiftool.Exiftool
}

// NewExiftool starts exiftool. An empty binary uses the one found in $PATH.
func NewExiftool(binary string) (*Exiftool, error) {
	opts := []func(*exiftool.Exiftool) error{}
	if binary != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binary))
	}

	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Exiftool{et: et}, nil
}

// Extract implements Extractor.
func (e *Exiftool) Extract(path string) (Metadata, error) {
	fis := e.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return Metadata{}, fmt.Errorf("extract fail for %q: no results", path)
	}

	fi := fis[0]
	if fi.Err != nil {
		return Metadata{}, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v\n", k, v)
	}

	return New(fi.Fields), nil
}

// WriteKeywords replaces the Keywords field of the file at path.
func (e *Exiftool) WriteKeywords(path string, keywords []string) error {
	fis := e.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return fmt.Errorf("extract fail for %q: no results", path)
	}
	if fis[0].Err != nil {
		return fmt.Errorf("extract fail for %q: %w", path, fis[0].Err)
	}

	fis[0].SetStrings("Keywords", keywords)
	e.et.WriteMetadata(fis)
	if fis[0].Err != nil {
		return fmt.Errorf("write metadata for %q: %w", path, fis[0].Err)
	}
	return nil
}

// Close stops the exiftool process.
func (e *Exiftool) Close() error {
	return e.et.Close()
}
