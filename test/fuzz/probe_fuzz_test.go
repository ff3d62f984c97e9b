package fuzz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/seqsift/internal/modules"
)

// Fuzz the probe and matcher with arbitrary file names and content to
// ensure matching never panics, whatever a pipeline drops in a run dir.
func FuzzMatchNoPanic(f *testing.F) {
	seeds := []struct {
		name, data string
	}{
		{"s1.ccs_report.txt", "ZMWs input (A) : 93\nZMWs pass filters (B) : 81\n"},
		{"s1.mosdepth.summary.txt", "chrom\tlength\tbases\n"},
		{"weird..name...log", "samblaster: Version 0.1.26\n"},
		{"nul.bin", "abc\x00def"},
		{"empty.txt", ""},
		{"crlf.tsv", "Classification of output reads\r\nPrimers_found 12\r\n"},
	}
	for _, s := range seeds {
		f.Add(s.name, s.data)
	}
	f.Fuzz(func(t *testing.T, name, data string) {
		pr := modules.ProbeFromString(name, data)
		_ = modules.Match(pr) // we only assert "no panic"
	})
}

// Fuzz OpenProbe with arbitrary bytes behind a .gz name: corrupt input
// must surface as an error, never a panic, and valid input must match
// cleanly.
func FuzzOpenProbeGzip(f *testing.F) {
	seeds := [][]byte{
		[]byte("not gzip at all"),
		{0x1f, 0x8b},             // truncated header
		{0x1f, 0x8b, 0x08, 0x00}, // header without body
		[]byte(""),
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		dir := t.TempDir()
		p := filepath.Join(dir, "fuzz.log.gz")
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Skipf("write failed: %v", err)
		}
		pr, err := modules.OpenProbe(p, int64(len(data)), 1<<20)
		if err != nil {
			return // bad gzip header is an expected outcome
		}
		_ = modules.Match(pr)
		_ = pr.Close()
	})
}
