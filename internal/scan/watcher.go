package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codewithboateng/seqsift/internal/ir"
	"github.com/codewithboateng/seqsift/internal/metrics"
)

// Watcher re-probes files as they appear or change under the source
// directories and emits detections incrementally. Patterns stay as
// loaded at startup; only the inputs are watched.
type Watcher struct {
	opts       Options
	w          *fsnotify.Watcher
	onDetect   func([]ir.Detection)
	ignoreDirs map[string]struct{}
	absSources []string
	pending    map[string]time.Time
	debounce   time.Duration
}

func NewWatcher(opts Options, onDetect func([]ir.Detection)) (*Watcher, error) {
	if len(opts.IgnoreDirs) == 0 {
		opts.IgnoreDirs = defaultIgnoreDirs
	}
	if len(opts.IgnoreFiles) == 0 {
		opts.IgnoreFiles = defaultIgnoreFiles
	}
	if opts.MaxFilesize <= 0 {
		opts.MaxFilesize = DefaultMaxFilesize
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		opts:       opts,
		w:          fw,
		onDetect:   onDetect,
		ignoreDirs: map[string]struct{}{},
		pending:    map[string]time.Time{},
		debounce:   500 * time.Millisecond, // collapse rapid writes into one probe
	}
	for _, d := range opts.IgnoreDirs {
		w.ignoreDirs[d] = struct{}{}
	}
	for _, src := range opts.Sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("source %s: %w", src, err)
		}
		w.absSources = append(w.absSources, abs)
	}
	return w, nil
}

// Run blocks until ctx is done, probing changed files after a short
// debounce window.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.w.Close()

	for _, src := range w.absSources {
		st, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("source %s: %w", src, err)
		}
		if !st.IsDir() {
			return fmt.Errorf("source %s: not a directory", src)
		}
		if err := w.addTree(src); err != nil {
			return fmt.Errorf("watch %s: %w", src, err)
		}
	}

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		case <-tick.C:
			w.flush()
		}
	}
}

// addTree watches root and every non-ignored directory below it.
// fsnotify does not recurse on its own.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root {
			if _, skip := w.ignoreDirs[d.Name()]; skip {
				return fs.SkipDir
			}
		}
		return w.w.Add(p)
	})
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			_ = w.addTree(ev.Name)
		}
		return
	}
	if ignoredFile(filepath.Base(ev.Name), w.opts.IgnoreFiles) {
		return
	}
	w.pending[ev.Name] = time.Now()
}

func (w *Watcher) flush() {
	now := time.Now()
	for path, t := range w.pending {
		if now.Sub(t) < w.debounce {
			continue
		}
		delete(w.pending, path)
		w.probe(path)
	}
}

func (w *Watcher) probe(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	if info.Size() > w.opts.MaxFilesize {
		metrics.FilesSkippedTotal.WithLabelValues("too_large").Inc()
		return
	}
	ds, skip, n := probeOne(candidate{osPath: path, rel: w.relFor(path), size: info.Size()}, w.opts.MaxFilesize)
	metrics.BytesProbedTotal.Add(float64(n))
	if skip != nil {
		metrics.FilesSkippedTotal.WithLabelValues(skip.Reason).Inc()
		return
	}
	metrics.FilesScannedTotal.Inc()
	for _, d := range ds {
		metrics.FilesMatchedTotal.WithLabelValues(d.Module).Inc()
	}
	if len(ds) > 0 && w.onDetect != nil {
		w.onDetect(ds)
	}
}

func (w *Watcher) relFor(path string) string {
	for _, src := range w.absSources {
		if rel, err := filepath.Rel(src, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Base(path))
}
