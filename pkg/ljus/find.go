package ljus

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/ljus/pkg/meta"
	"github.com/tstromberg/ljus/pkg/tags"
)

// photoExts are the file extensions Find picks up.
var photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// IsPhoto reports whether path has a supported photo extension.
func IsPhoto(path string) bool {
	return photoExts[strings.ToLower(filepath.Ext(path))]
}

// Find returns the absolute paths of photos beneath root, skipping hidden files
// and directories.
func Find(root string) ([]string, error) {
	found := []string{}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs: %w", err)
	}

	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && filepath.Base(path)[0] == '.' {
				return godirwalk.SkipThis
			}
			if de.IsDir() || !IsPhoto(path) {
				return nil
			}
			klog.V(1).Infof("found %s", path)
			found = append(found, path)
			return nil
		},
	})

	return found, err
}

// pathTags returns the names of the n innermost directories containing path.
func pathTags(path string, n int) []string {
	var out []string
	dir := filepath.Dir(path)
	for range n {
		base := filepath.Base(dir)
		if base == "." || base == string(filepath.Separator) || base == "" {
			break
		}
		out = append(out, base)
		dir = filepath.Dir(dir)
	}
	return out
}

// keywords returns the embedded Keywords and Subject tags in md.
func keywords(path string, md meta.Metadata) []string {
	s := tags.Set{}
	for _, k := range []string{"Keywords", "Subject"} {
		v, ok := md.Lookup(k)
		if !ok {
			continue
		}
		kw, err := tags.NormalizeValues(v)
		if err != nil {
			klog.Warningf("%s: %s: %v", path, k, err)
			continue
		}
		s.Union(kw)
	}
	return s.Sorted()
}
