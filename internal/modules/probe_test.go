package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestProbe_LinesTrimmedAndLazy(t *testing.T) {
	pr := ProbeFromString("x.txt", "first\r\nsecond\nthird without newline")

	if l, ok := pr.Line(1); !ok || l != "first" {
		t.Fatalf("line 1: got %q ok=%v", l, ok)
	}
	if l, ok := pr.Line(3); !ok || l != "third without newline" {
		t.Fatalf("line 3: got %q ok=%v", l, ok)
	}
	if _, ok := pr.Line(4); ok {
		t.Fatalf("line 4 should not exist")
	}
	// re-reads come from the cache
	if l, ok := pr.Line(2); !ok || l != "second" {
		t.Fatalf("line 2: got %q ok=%v", l, ok)
	}
}

func TestOpenProbe_ReadsGzipTransparently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m54321.ccs_report.txt.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(ccsReport)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	pr, err := OpenProbe(path, info.Size(), 0)
	if err != nil {
		t.Fatalf("open probe: %v", err)
	}
	defer pr.Close()

	if l, ok := pr.Line(1); !ok || l != "ZMWs input               (A)  : 93" {
		t.Fatalf("decompressed line 1: got %q ok=%v", l, ok)
	}
	if pr.Size != info.Size() {
		t.Fatalf("probe size should be the on-disk size; got %d want %d", pr.Size, info.Size())
	}
	if pr.BytesRead() == 0 {
		t.Fatalf("expected BytesRead > 0 after reading")
	}

	p := Pattern{Filename: "*report.txt", Contents: "ZMWs input", NumLines: 3}
	if _, ok := p.Match(pr); !ok {
		t.Fatalf("pattern should match through gzip")
	}
}

func TestOpenProbe_LimitCapsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.log")
	if err := os.WriteFile(path, []byte("0123456789\nhidden line\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	pr, err := OpenProbe(path, 23, 11)
	if err != nil {
		t.Fatalf("open probe: %v", err)
	}
	defer pr.Close()

	if l, ok := pr.Line(1); !ok || l != "0123456789" {
		t.Fatalf("line 1 within the cap: got %q ok=%v", l, ok)
	}
	if l, ok := pr.Line(2); ok {
		t.Fatalf("line past the byte cap should be unreadable; got %q", l)
	}
}

func TestProbe_BinarySniff(t *testing.T) {
	if !ProbeFromString("a", "head\x00tail").Binary() {
		t.Fatalf("NUL in head should mark the probe binary")
	}
	if ProbeFromString("a", "plain text\n").Binary() {
		t.Fatalf("plain text should not be binary")
	}
}
