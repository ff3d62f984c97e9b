package modules

// samblaster logs to stderr starting with "samblaster: Version 0.1.26".
func init() {
	Register(Module{
		ID:   "samblaster",
		Name: "samblaster",
		Href: "https://github.com/GregoryFaust/samblaster",
		Info: "marks duplicates and can extract discordant and split-read alignments from SAM/BAM input.",
		DOI:  "10.1093/bioinformatics/btu314",
		Patterns: map[string][]Pattern{
			"samblaster": {{Contents: "samblaster: Version", NumLines: 10}},
		},
	})
}
