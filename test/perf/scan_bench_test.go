package perf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/seqsift/internal/modules"
	"github.com/codewithboateng/seqsift/internal/scan"
)

const benchCcsReport = `ZMWs input (A) : 93
ZMWs pass filters (B) : 81
ZMWs fail filters (C) : 12
`

const benchSummary = "chrom\tlength\tbases\tmean\tmin\tmax\ntotal\t248956422\t7087297415\t28.47\t0\t181\n"

const benchNotes = "pipeline finished without incident\n"

// BenchmarkScan_SmallTree walks a fixed tree of 120 files, a third of
// which match no module at all.
func BenchmarkScan_SmallTree(b *testing.B) {
	dir := b.TempDir()
	for i := 0; i < 40; i++ {
		sub := filepath.Join(dir, fmt.Sprintf("run%02d", i%4))
		if err := os.MkdirAll(sub, 0o755); err != nil {
			b.Fatal(err)
		}
		files := map[string]string{
			fmt.Sprintf("s%02d.ccs_report.txt", i):       benchCcsReport,
			fmt.Sprintf("s%02d.mosdepth.summary.txt", i): benchSummary,
			fmt.Sprintf("notes%02d.txt", i):              benchNotes,
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(sub, name), []byte(content), 0o644); err != nil {
				b.Fatal(err)
			}
		}
	}

	modules.SetSettings(modules.Settings{})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		run, _ := scan.Scan(ctx, scan.Options{Sources: []string{dir}})
		if len(run.Detections) == 0 {
			b.Fatal("no detections")
		}
	}
}

// BenchmarkMatch_Probe measures a single in-memory probe through the
// full registry, the hot inner loop of a scan.
func BenchmarkMatch_Probe(b *testing.B) {
	modules.SetSettings(modules.Settings{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pr := modules.ProbeFromString("s1.ccs_report.txt", benchCcsReport)
		if ds := modules.Match(pr); len(ds) == 0 {
			b.Fatal("no match")
		}
	}
}
