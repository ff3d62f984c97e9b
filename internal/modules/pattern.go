package modules

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Pattern is one file search rule. A file satisfies the pattern only if
// every field that is set holds at the same time.
type Pattern struct {
	Contents    string `yaml:"contents,omitempty" json:"contents,omitempty"`
	Filename    string `yaml:"fn,omitempty" json:"fn,omitempty"`
	MaxFilesize int64  `yaml:"max_filesize,omitempty" json:"max_filesize,omitempty"`
	NumLines    int    `yaml:"num_lines,omitempty" json:"num_lines,omitempty"`
}

// Compile validates p for registration.
func Compile(p Pattern) error {
	if p.Contents == "" && p.Filename == "" {
		return fmt.Errorf("needs contents or fn")
	}
	if p.Filename != "" {
		if _, err := filepath.Match(p.Filename, "x"); err != nil {
			return fmt.Errorf("fn glob %q: %w", p.Filename, err)
		}
	}
	if p.MaxFilesize < 0 {
		return fmt.Errorf("max_filesize must be >= 0")
	}
	if p.NumLines < 0 {
		return fmt.Errorf("num_lines must be >= 0")
	}
	return nil
}

// Match reports whether pr satisfies p. On a match it returns a short
// evidence string naming what matched.
func (p Pattern) Match(pr *Probe) (string, bool) {
	if p.MaxFilesize > 0 && pr.Size > p.MaxFilesize {
		return "", false
	}
	if p.Filename != "" && !matchName(p.Filename, pr.Name) {
		return "", false
	}
	if p.Contents == "" {
		return "fn=" + p.Filename, true
	}
	if pr.Binary() {
		return "", false
	}
	for i := 1; p.NumLines == 0 || i <= p.NumLines; i++ {
		line, ok := pr.Line(i)
		if !ok {
			break
		}
		if strings.Contains(line, p.Contents) {
			return contentEvidence(i, line), true
		}
	}
	return "", false
}

// matchName applies the glob to the base name, and for gzipped files
// also to the name with the .gz suffix stripped.
func matchName(glob, name string) bool {
	if ok, err := filepath.Match(glob, name); err == nil && ok {
		return true
	}
	if s := strings.TrimSuffix(name, ".gz"); s != name {
		if ok, _ := filepath.Match(glob, s); ok {
			return true
		}
	}
	return false
}

func contentEvidence(n int, line string) string {
	line = strings.TrimSpace(line)
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return fmt.Sprintf("line %d: %s", n, line)
}
