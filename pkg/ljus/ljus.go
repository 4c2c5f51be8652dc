// Package ljus manages a photo library: import, tagging, non-destructive
// edits, thumbnails, and export.
package ljus

// Config holds configuration for ljus.
type Config struct {
	InDirs    []string
	OutDir    string
	StorePath string

	Thumbnails map[string]ThumbOpts

	// PathTags is the number of enclosing directory names added as tags.
	PathTags int
	// Tags are added to every imported photo.
	Tags []string

	ExiftoolPath string

	// Fast shrinks originals before edits are applied.
	Fast  bool
	Model string
}

// DefaultModel is used for suggested tags when Config.Model is empty.
var DefaultModel = "gemini-2.5-flash"

func (c *Config) thumbs() map[string]ThumbOpts {
	if len(c.Thumbnails) == 0 {
		return defaultThumbOpts
	}
	return c.Thumbnails
}

