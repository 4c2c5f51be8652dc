// ljus imports, tags, edits, and exports a photo library.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/ljus/pkg/ljus"
	"github.com/tstromberg/ljus/pkg/meta"
)

var (
	outDir    = flag.String("out", "", "Location of output directory for thumbnails")
	storePath = flag.String("store", "ljus.db", "Location of the photo record store")
	pathTags  = flag.Int("path-tags", 1, "number of enclosing directory names to add as tags")
	extraTags = flag.String("tags", "", "comma-separated tags to add to imported photos")
	exiftool  = flag.String("exiftool", "", "path to the exiftool binary")
	fast      = flag.Bool("fast", false, "shrink originals before rendering thumbnails")

	edit   = flag.String("edit", "", "edits to apply to the named photos, e.g. rotate=10,crop=0.1:0.1:0.9:0.9,brightness=1.2")
	revert = flag.Bool("revert", false, "drop all edits of the named photos")
	retag  = flag.Bool("retag", false, "re-read metadata of the named photos, or all stored photos")
	search = flag.String("search", "", "list stored photos carrying all of these comma-separated tags")

	export = flag.String("export", "", "export format, e.g. jpg,1920x1080 or png,100")
	expDir = flag.String("export-dir", "export", "Location of export directory")
	force  = flag.Bool("force", false, "overwrite existing exports")

	watchFlag = flag.Bool("watch", false, "watch input directories and import new photos")
	listen    = flag.Bool("listen", false, "serve the output directory via HTTP")
	addr      = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c := &ljus.Config{
		InDirs:       absPaths(flag.Args()),
		OutDir:       *outDir,
		StorePath:    *storePath,
		PathTags:     *pathTags,
		Tags:         splitList(*extraTags),
		ExiftoolPath: *exiftool,
		Fast:         *fast,
	}

	s, err := ljus.OpenStore(c.StorePath)
	if err != nil {
		klog.Exitf("store: %v", err)
	}

	ex := meta.Chain{meta.EXIFDecoder{}}
	et, err := meta.NewExiftool(c.ExiftoolPath)
	if err != nil {
		klog.Warningf("exiftool unavailable, falling back to EXIF decoding: %v", err)
	} else {
		defer func() {
			if err := et.Close(); err != nil {
				klog.Errorf("Failed to close exiftool: %v", err)
			}
		}()
		ex = meta.Chain{et, meta.EXIFDecoder{}}
	}

	l := ljus.New(c, s, ex, nil)

	if err := run(c, l); err != nil {
		klog.Exitf("%v", err)
	}
	if err := s.Save(); err != nil {
		klog.Exitf("save: %v", err)
	}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(c, l); err != nil {
				klog.Exitf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		if c.OutDir == "" {
			klog.Exitf("--listen requires --out")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(c.OutDir, *addr)
		}()
	}

	wg.Wait()
}

// run performs the one-shot action selected by flags.
func run(c *ljus.Config, l *ljus.Library) error {
	switch {
	case *edit != "" || *revert:
		return editPhotos(l, flag.Args())
	case *retag:
		return retagPhotos(l, flag.Args())
	case *search != "":
		for _, p := range l.Store().Search(splitList(*search)...) {
			fmt.Printf("%s\t%s\t%s\n", p.Stamp.Format("2006-01-02 15:04"), p.Path, strings.Join(p.Tags().Sorted(), " "))
		}
		return nil
	case *export != "":
		return exportPhotos(l, flag.Args())
	}

	if len(c.InDirs) == 0 {
		if *watchFlag || *listen {
			return nil
		}
		return fmt.Errorf("no input directories provided. Usage: %s [flags] <dir> [dir ...]", os.Args[0])
	}
	n, err := l.ImportAll()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	klog.Infof("imported %d photos, %d in store", n, l.Store().Len())
	return nil
}

func editPhotos(l *ljus.Library, paths []string) error {
	edits, err := ljus.ParseEdits(*edit)
	if err != nil {
		return err
	}
	for _, path := range absPaths(paths) {
		if _, found := l.Store().Get(path); !found {
			if _, err := l.Import(path); err != nil {
				return fmt.Errorf("import: %w", err)
			}
		}
		if *revert {
			if _, err := l.Revert(path); err != nil {
				return fmt.Errorf("revert: %w", err)
			}
		}
		p, err := l.Edit(path, edits)
		if err != nil {
			return err
		}
		klog.Infof("%s: %d edits", path, p.Pipeline().Len())
	}
	return nil
}

func retagPhotos(l *ljus.Library, paths []string) error {
	paths = absPaths(paths)
	if len(paths) == 0 {
		for _, p := range l.Store().Photos() {
			paths = append(paths, p.Path)
		}
	}
	for _, path := range paths {
		p, err := l.Retag(path)
		if err != nil {
			return fmt.Errorf("retag: %w", err)
		}
		klog.V(1).Infof("%s: %v", path, p.Tags().Sorted())
	}
	klog.Infof("retagged %d photos", len(paths))
	return nil
}

func exportPhotos(l *ljus.Library, paths []string) error {
	f, err := ljus.ParseFormat(*export)
	if err != nil {
		return err
	}

	ps := l.Store().Photos()
	if len(paths) > 0 {
		want := absPaths(paths)
		ps = slices.DeleteFunc(ps, func(p *ljus.Photo) bool {
			return !slices.Contains(want, p.Path)
		})
	}
	for _, p := range ps {
		out, err := l.Export(p, *expDir, f, *force)
		if err != nil {
			return fmt.Errorf("export %s: %w", p.Path, err)
		}
		fmt.Println(out)
	}
	return nil
}

// serve serves a static web directory via HTTP
func serve(path string, addr string) {
	fs := http.FileServer(http.Dir(path))
	http.Handle("/", fs)

	klog.Infof("Listening on %s...", addr)
	err := http.ListenAndServe(addr, nil)
	if err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}

// watch imports photos as they appear in the input directories.
func watch(c *ljus.Config, l *ljus.Library) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watches: %w", err)
	}
	defer w.Close()

	dirs := []string{}
	for _, in := range c.InDirs {
		paths, err := ljus.Find(in)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		dirs = append(dirs, in)
		for _, p := range paths {
			dirs = append(dirs, filepath.Dir(p))
		}
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %v", event)
			if !ljus.IsPhoto(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				l.Store().Delete(event.Name)
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				if _, err := l.Import(event.Name); err != nil {
					klog.Errorf("import %s: %v", event.Name, err)
					continue
				}
			default:
				continue
			}
			if err := l.Store().Save(); err != nil {
				klog.Errorf("save: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func absPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			klog.Warningf("abs %s: %v", p, err)
			abs = p
		}
		out = append(out, abs)
	}
	return out
}
