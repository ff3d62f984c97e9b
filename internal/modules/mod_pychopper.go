package modules

// Pychopper writes a small two-column stats TSV; the classification
// section carries a "Primers_found" row.
func init() {
	Register(Module{
		ID:   "pychopper",
		Name: "Pychopper",
		Href: "https://github.com/epi2me-labs/pychopper",
		Info: "identifies, orients and trims full-length Nanopore cDNA reads, and can rescue fused reads.",
		Patterns: map[string][]Pattern{
			"pychopper": {{Contents: "Primers_found", MaxFilesize: 512000}},
		},
	})
}
