package scan

import "testing"

func TestSampleHint(t *testing.T) {
	cases := map[string]string{
		"s1.mosdepth.summary.txt":         "s1",
		"s1.mosdepth.global.dist.txt":     "s1",
		"m64011_190228.ccs_report.txt":    "m64011_190228",
		"m64011_190228.ccs_report.txt.gz": "m64011_190228",
		"barcode01.pychopper.tsv":         "barcode01",
		"dedup.log":                       "dedup",
		"noextension":                     "noextension",
	}
	for in, want := range cases {
		if got := SampleHint(in); got != want {
			t.Fatalf("SampleHint(%q) = %q; want %q", in, got, want)
		}
	}
}
