package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/seqsift/internal/ir"
	"github.com/codewithboateng/seqsift/internal/metrics"
	"github.com/codewithboateng/seqsift/internal/modules"
)

const DefaultMaxFilesize = 50_000_000

var (
	defaultIgnoreDirs = []string{
		".git", ".hg", ".svn", "__pycache__", "node_modules",
		".snakemake", ".nextflow", "multiqc_data",
	}

	// bulk sequence data is never a log file; skip it by name
	defaultIgnoreFiles = []string{
		".DS_Store", "*.bam", "*.bai", "*.cram", "*.crai", "*.sam",
		"*.fa", "*.fasta", "*.fq", "*.fastq", "*.fq.gz", "*.fastq.gz",
		"*.gtf", "*.bed", "*.vcf.gz", "*.tbi",
	}
)

type Options struct {
	Sources     []string
	IgnoreDirs  []string // directory names skipped during the walk
	IgnoreFiles []string // base-name globs never probed
	MaxFilesize int64    // probe ceiling in bytes; larger files become skips
	Workers     int
}

func DefaultOptions() Options {
	return Options{
		IgnoreDirs:  defaultIgnoreDirs,
		IgnoreFiles: defaultIgnoreFiles,
		MaxFilesize: DefaultMaxFilesize,
		Workers:     defaultWorkers(),
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

type Diagnostics struct {
	Warnings []string
}

type candidate struct {
	osPath string
	rel    string
	size   int64
}

// Scan walks the source directories and evaluates every registered
// search pattern against each candidate file.
func Scan(ctx context.Context, opts Options) (ir.Run, Diagnostics) {
	start := time.Now()

	if len(opts.IgnoreDirs) == 0 {
		opts.IgnoreDirs = defaultIgnoreDirs
	}
	if len(opts.IgnoreFiles) == 0 {
		opts.IgnoreFiles = defaultIgnoreFiles
	}
	if opts.MaxFilesize <= 0 {
		opts.MaxFilesize = DefaultMaxFilesize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers()
	}

	var run ir.Run
	run.IRVersion = ir.Version
	run.StartedAt = start.UTC()
	run.Source = strings.Join(opts.Sources, ",")
	run.Context.Sources = opts.Sources
	run.Context.MaxFilesize = opts.MaxFilesize
	diags := Diagnostics{}

	cands, seen, skips, warns := collect(opts)
	diags.Warnings = append(diags.Warnings, warns...)
	for _, s := range skips {
		metrics.FilesSkippedTotal.WithLabelValues(s.Reason).Inc()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)

	var (
		mu          sync.Mutex
		dets        []ir.Detection
		probed      int
		bytesProbed int64
	)
	for _, c := range cands {
		c := c
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			ds, skip, n := probeOne(c, opts.MaxFilesize)

			mu.Lock()
			defer mu.Unlock()
			bytesProbed += n
			if skip != nil {
				skips = append(skips, *skip)
				metrics.FilesSkippedTotal.WithLabelValues(skip.Reason).Inc()
				if skip.Reason != "unreadable" {
					probed++
					metrics.FilesScannedTotal.Inc()
				}
				return nil
			}
			probed++
			metrics.FilesScannedTotal.Inc()
			for _, d := range ds {
				metrics.FilesMatchedTotal.WithLabelValues(d.Module).Inc()
			}
			dets = append(dets, ds...)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		diags.Warnings = append(diags.Warnings, fmt.Sprintf("scan interrupted: %v", err))
	}

	// Stable order for reproducible outputs
	sort.Slice(dets, func(i, j int) bool {
		if dets[i].Path != dets[j].Path {
			return dets[i].Path < dets[j].Path
		}
		if dets[i].Module != dets[j].Module {
			return dets[i].Module < dets[j].Module
		}
		return dets[i].Key < dets[j].Key
	})
	sort.Slice(skips, func(i, j int) bool {
		if skips[i].Path != skips[j].Path {
			return skips[i].Path < skips[j].Path
		}
		return skips[i].Reason < skips[j].Reason
	})
	dedupIDs(dets)

	matched := map[string]struct{}{}
	for _, d := range dets {
		matched[d.Path] = struct{}{}
	}

	metrics.BytesProbedTotal.Add(float64(bytesProbed))
	metrics.ObserveScanDuration(time.Since(start))

	run.Detections = dets
	run.Skips = skips
	run.Totals = ir.Totals{
		FilesSeen:    seen,
		FilesProbed:  probed,
		FilesMatched: len(matched),
		FilesSkipped: len(skips),
		BytesProbed:  bytesProbed,
		ElapsedMS:    time.Since(start).Milliseconds(),
	}
	if seen == 0 {
		diags.Warnings = append(diags.Warnings, "no files found under the given sources")
	}
	return run, diags
}

func collect(opts Options) (cands []candidate, seen int, skips []ir.Skip, warnings []string) {
	ignoreDirs := map[string]struct{}{}
	for _, d := range opts.IgnoreDirs {
		ignoreDirs[d] = struct{}{}
	}

	for _, src := range opts.Sources {
		absRoot, err := filepath.Abs(src)
		if err == nil {
			var st os.FileInfo
			st, err = os.Stat(absRoot)
			if err == nil && !st.IsDir() {
				err = fmt.Errorf("not a directory")
			}
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("source %s: %v", src, err))
			continue
		}

		_ = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			if d.IsDir() {
				if p != absRoot {
					if _, skip := ignoreDirs[d.Name()]; skip {
						return fs.SkipDir
					}
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			seen++
			if ignoredFile(d.Name(), opts.IgnoreFiles) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			rel, err := filepath.Rel(absRoot, p)
			if err != nil {
				rel = p
			}
			rel = filepath.ToSlash(rel)
			if info.Size() > opts.MaxFilesize {
				skips = append(skips, ir.Skip{Path: rel, Reason: "too_large", Size: info.Size()})
				return nil
			}
			cands = append(cands, candidate{osPath: p, rel: rel, size: info.Size()})
			return nil
		})
	}
	return cands, seen, skips, warnings
}

func ignoredFile(name string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}

func probeOne(c candidate, limit int64) (ds []ir.Detection, skip *ir.Skip, bytesRead int64) {
	pr, err := modules.OpenProbe(c.osPath, c.size, limit)
	if err != nil {
		return nil, &ir.Skip{Path: c.rel, Reason: "unreadable", Size: c.size}, 0
	}
	defer pr.Close()

	pr.Path = c.rel
	ds = modules.Match(pr)
	if len(ds) == 0 && pr.Binary() {
		return nil, &ir.Skip{Path: c.rel, Reason: "binary", Size: c.size}, pr.BytesRead()
	}
	for i := range ds {
		ds[i].SampleHint = SampleHint(ds[i].File)
	}
	return ds, nil, pr.BytesRead()
}

// dedupIDs guarantees unique detection IDs within the run. Collisions
// happen when the same relative path appears under two sources.
func dedupIDs(dets []ir.Detection) {
	seen := make(map[string]struct{})
	seq := 0
	put := func(id string) bool {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
		return true
	}
	for k := range dets {
		id := dets[k].ID
		if id == "" || !put(id) {
			for {
				seq++
				next := fmt.Sprintf("%s-%06d", dets[k].Module, seq)
				if put(next) {
					id = next
					break
				}
			}
			dets[k].ID = id
		}
	}
}
