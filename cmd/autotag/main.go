// autotag adds suggested tags to JPEG images using Gemini.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"github.com/tstromberg/ljus/pkg/ljus"
	"github.com/tstromberg/ljus/pkg/meta"
)

var (
	dryRun    = flag.Bool("n", false, "dry-run mode, don't write tags into files")
	overwrite = flag.Bool("o", false, "overwrite existing tags")
	outDir    = flag.String("out", "", "Location of output directory for thumbnails")
	storePath = flag.String("store", "ljus.db", "Location of the photo record store")
	model     = flag.String("model", ljus.DefaultModel, "Gemini model name")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	klog.Infof("autotag starting with %d input directories", len(flag.Args()))

	if len(flag.Args()) == 0 {
		klog.Fatalf("No input directories provided. Usage: %s -out <output_dir> <input_dir1> [input_dir2 ...]", os.Args[0])
	}

	if *outDir == "" {
		klog.Fatalf("please give me an out directory for thumbnails")
	}

	ctx := context.Background()
	g, err := ljus.NewGemini(ctx, os.Getenv("GOOGLE_AI_API_KEY"), *model)
	if err != nil {
		klog.Fatalf("gemini: %v", err)
	}

	e, err := meta.NewExiftool("")
	if err != nil {
		klog.Fatalf("exiftool: %v", err)
	}
	defer func() {
		if err := e.Close(); err != nil {
			klog.Errorf("Failed to close exiftool: %v", err)
		}
	}()

	s, err := ljus.OpenStore(*storePath)
	if err != nil {
		klog.Fatalf("store: %v", err)
	}

	c := &ljus.Config{
		InDirs: flag.Args(),
		OutDir: *outDir,
		Thumbnails: map[string]ljus.ThumbOpts{
			ljus.TagThumb: {Y: 350, Quality: 80},
		},
	}
	l := ljus.New(c, s, meta.Chain{e, meta.EXIFDecoder{}}, nil)

	total := 0
	for _, d := range c.InDirs {
		paths, err := ljus.Find(d)
		if err != nil {
			klog.Fatalf("find %s: %v", d, err)
		}
		klog.Infof("Processing %s with %d images", filepath.Base(d), len(paths))

		for _, path := range paths {
			total++
			if _, err := l.Import(path); err != nil {
				klog.Errorf("import %s: %v", path, err)
				continue
			}

			tags, err := l.AutoTag(ctx, g, path, *overwrite)
			if err != nil {
				klog.Errorf("err: %v", err)
				continue
			}
			if len(tags) == 0 || *dryRun {
				continue
			}

			p, _ := l.Store().Get(path)
			if err := e.WriteKeywords(path, p.UserTags); err != nil {
				klog.Errorf("Failed to write metadata for %s: %v", path, err)
			}
		}
	}

	if err := s.Save(); err != nil {
		klog.Errorf("save: %v", err)
	}
	klog.Infof("autotag completed. Processed %d total images across %d directories", total, len(c.InDirs))
}
