package modules

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Probe wraps one candidate file for pattern matching. Lines are read
// lazily and cached so all patterns share a single pass over the file.
type Probe struct {
	Path string // as recorded in detections; the scanner rewrites it relative to the source root
	Name string
	Size int64

	src     io.Closer
	count   *countReader
	br      *bufio.Reader // nil once the stream is exhausted
	lines   []string
	binary  bool
	sniffed bool
}

// OpenProbe opens path for matching. Files named *.gz are read through
// gzip. limit caps how many decompressed bytes a probe may consume;
// limit <= 0 means no cap.
func OpenProbe(path string, size, limit int64) (*Probe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	p := &Probe{Path: path, Name: filepath.Base(path), Size: size, src: f}
	p.count = &countReader{r: f}
	var r io.Reader = p.count
	if strings.HasSuffix(p.Name, ".gz") {
		zr, err := gzip.NewReader(r)
		if err != nil {
			f.Close()
			return nil, err
		}
		r = zr
	}
	if limit > 0 {
		r = io.LimitReader(r, limit)
	}
	p.br = bufio.NewReader(r)
	return p, nil
}

// ProbeFromString builds an in-memory probe, mainly for tests.
func ProbeFromString(name, data string) *Probe {
	return &Probe{
		Name: name,
		Size: int64(len(data)),
		br:   bufio.NewReader(strings.NewReader(data)),
	}
}

// Line returns the i-th line (1-based), reading further as needed.
// ok is false past the end of the readable content.
func (p *Probe) Line(i int) (string, bool) {
	for len(p.lines) < i && p.br != nil {
		p.advance()
	}
	if i <= len(p.lines) {
		return p.lines[i-1], true
	}
	return "", false
}

func (p *Probe) advance() {
	line, err := p.br.ReadString('\n')
	if line != "" {
		p.lines = append(p.lines, strings.TrimRight(line, "\r\n"))
	}
	if err != nil {
		p.br = nil
	}
}

// Binary reports whether the content looks binary. A NUL byte in the
// head marks the file binary.
func (p *Probe) Binary() bool {
	if !p.sniffed {
		p.sniffed = true
		if p.br != nil {
			head, _ := p.br.Peek(1024)
			p.binary = bytes.IndexByte(head, 0) >= 0
		}
	}
	return p.binary
}

// BytesRead reports raw bytes consumed from disk (compressed size for
// gzipped files). Zero for in-memory probes.
func (p *Probe) BytesRead() int64 {
	if p.count == nil {
		return 0
	}
	return p.count.n
}

func (p *Probe) Close() error {
	if p.src == nil {
		return nil
	}
	return p.src.Close()
}

type countReader struct {
	r io.Reader
	n int64
}

func (c *countReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}
