package meta

import (
	"os"
	"time"

	"k8s.io/klog/v2"
)

// StampKeys are the fields consulted for a capture time, most trusted first.
var StampKeys = []string{"DateTimeOriginal", "CreateDate", "ModifyDate", "FileModifyDate"}

var stampLayouts = []string{"2006-01-02 15:04:05", "2006:01:02 15:04:05"}

// Sentinel is returned when no timestamp can be determined for a photo.
var Sentinel = time.Date(1000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseStamp parses a metadata timestamp. Only the first 19 characters are
// considered, so zone or sub-second suffixes do not cause a miss.
func ParseStamp(s string) (time.Time, error) {
	if len(s) > 19 {
		s = s[:19]
	}
	var err error
	for _, layout := range stampLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Resolve returns the authoritative timestamp for the photo at path: the first
// parseable metadata stamp, else the file's mtime, else Sentinel.
func Resolve(path string, md Metadata) time.Time {
	t, src := resolve(path, md)
	klog.V(1).Infof("%s: timestamp %s from %s", path, t.Format(time.RFC3339), src)
	return t
}

func resolve(path string, md Metadata) (time.Time, string) {
	for _, k := range StampKeys {
		v, ok := md.Lookup(k)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			klog.V(1).Infof("%s: %s is %T, not text", path, k, v)
			continue
		}
		t, err := ParseStamp(s)
		if err != nil {
			klog.V(1).Infof("%s: unable to parse %s %q: %v", path, k, s, err)
			continue
		}
		return t, k
	}

	st, err := os.Stat(path)
	if err == nil {
		return st.ModTime().UTC(), "mtime"
	}
	klog.V(1).Infof("%s: stat: %v", path, err)
	return Sentinel, "sentinel"
}
