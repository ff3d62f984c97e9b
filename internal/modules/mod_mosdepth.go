package modules

// mosdepth emits fixed-name outputs per sample prefix, so filename
// globs alone identify them.
func init() {
	Register(Module{
		ID:   "mosdepth",
		Name: "mosdepth",
		Href: "https://github.com/brentp/mosdepth",
		Info: "performs fast BAM/CRAM depth calculation for WGS, exome, or targeted sequencing.",
		DOI:  "10.1093/bioinformatics/btx699",
		Patterns: map[string][]Pattern{
			"mosdepth/summary":     {{Filename: "*.mosdepth.summary.txt"}},
			"mosdepth/global_dist": {{Filename: "*.mosdepth.global.dist.txt"}},
			"mosdepth/region_dist": {{Filename: "*.mosdepth.region.dist.txt"}},
		},
	})
}
