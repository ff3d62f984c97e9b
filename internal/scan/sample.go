package scan

import (
	"path/filepath"
	"strings"
)

// Suffixes the supported tools append to the sample prefix. Longest
// match wins; keep multi-part suffixes ahead of plain extensions.
var sampleSuffixes = []string{
	".mosdepth.summary.txt",
	".mosdepth.global.dist.txt",
	".mosdepth.region.dist.txt",
	".ccs_report.txt",
	"_report.txt",
	".samblaster.log",
	".pychopper.tsv",
}

// SampleHint guesses the sample a file belongs to: the base name minus
// .gz, minus a known tool suffix, or failing that minus the final
// extension.
func SampleHint(name string) string {
	s := strings.TrimSuffix(name, ".gz")
	for _, suf := range sampleSuffixes {
		if strings.HasSuffix(s, suf) && len(s) > len(suf) {
			return s[:len(s)-len(suf)]
		}
	}
	if ext := filepath.Ext(s); ext != "" && ext != s {
		s = strings.TrimSuffix(s, ext)
	}
	return s
}
