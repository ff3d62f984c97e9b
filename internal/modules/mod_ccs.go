package modules

// A ccs report opens with the ZMW counter block:
//
//	ZMWs input               (A)  : 93
//	ZMWs pass filters        (B)  : 93 (100.00%)
func init() {
	Register(Module{
		ID:   "ccs",
		Name: "CCS",
		Href: "https://github.com/PacificBiosciences/ccs",
		Info: "generates highly accurate single-molecule consensus reads (HiFi reads) from PacBio subreads.",
		Patterns: map[string][]Pattern{
			"ccs": {{Filename: "*report.txt", Contents: "ZMWs input", NumLines: 3}},
		},
	})
}
