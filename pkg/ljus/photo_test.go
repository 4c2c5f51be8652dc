package ljus

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tstromberg/ljus/pkg/meta"
)

func TestPhotoTags(t *testing.T) {
	p := &Photo{
		Path:     "/photos/a.jpg",
		Stamp:    time.Date(2009, 1, 22, 10, 49, 0, 0, time.UTC),
		Meta:     meta.New(map[string]any{"Model": "Canon EOS Rebel T2i", "FNumber": 2.8, "ShutterSpeed": "fast"}),
		UserTags: []string{"Beach", " family "},
	}

	want := []string{
		"aperture:f/2.8",
		"beach",
		"d:22:22nd",
		"family",
		"h:11:11am",
		"kit:eos rebel t2i",
		"m:01:january",
		"w:3:thursday",
		"y:2009",
	}
	if diff := cmp.Diff(want, p.Tags().Sorted()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
}

func TestPhotoTagsSentinel(t *testing.T) {
	p := &Photo{Path: "/x.jpg", Stamp: meta.Sentinel}
	want := []string{"d:01:1st", "h:00:12am", "m:01:january", "w:2:wednesday", "y:1000"}
	if diff := cmp.Diff(want, p.Tags().Sorted()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
}

func TestAddRemoveTags(t *testing.T) {
	p := &Photo{}
	p.AddTags("Sunset", "beach", "BEACH", "")
	p.RemoveTags(" sunset ")
	p.AddTags("dog")

	if diff := cmp.Diff([]string{"beach", "dog"}, p.UserTags); diff != "" {
		t.Errorf("UserTags mismatch (-want +got):\n%s", diff)
	}
}

func TestHash(t *testing.T) {
	tests := map[string]string{
		"/photos/a.jpg":         "sll3codnvmfmwmti65vxexvk3m",
		"/tmp/x/2019/beach.jpg": "7eqh6tcpbtodvqqmnhyemrfani",
	}
	for path, want := range tests {
		p := &Photo{Path: path}
		if got := p.Hash(); got != want {
			t.Errorf("Hash(%s) = %s, want %s", path, got, want)
		}
	}
}

func TestPipelineCreated(t *testing.T) {
	p := &Photo{}
	p.Pipeline().Rotate(10)
	if p.Ops == nil || p.Ops.Len() != 1 {
		t.Errorf("Pipeline() did not persist: %+v", p.Ops)
	}
}
