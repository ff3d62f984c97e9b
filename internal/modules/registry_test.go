package modules

import (
	"strings"
	"testing"
)

func restrictTo(t *testing.T, ids ...string) {
	t.Helper()
	only := map[string]bool{}
	for _, id := range ids {
		only[id] = true
	}
	SetSettings(Settings{Only: only})
	t.Cleanup(func() { SetSettings(Settings{}) })
}

func TestBuiltins_Registered(t *testing.T) {
	for _, id := range []string{"ccs", "pychopper", "samblaster", "mosdepth"} {
		if _, ok := Get(id); !ok {
			t.Fatalf("built-in module %s not registered", id)
		}
	}
	if m, _ := Get("mosdepth"); len(m.Keys()) != 3 {
		t.Fatalf("mosdepth should carry 3 pattern keys; got %v", m.Keys())
	}
	if n := PatternCount(); n < 6 {
		t.Fatalf("expected at least 6 built-in patterns; got %d", n)
	}
}

func TestRegister_MergesPatternsAndMetadata(t *testing.T) {
	Register(Module{
		ID:       "mergetool",
		Patterns: map[string][]Pattern{"mergetool": {{Contents: "mergetool v"}}},
	})
	Register(Module{
		ID:       "MergeTool",
		Name:     "MergeTool",
		Href:     "https://example.org/mergetool",
		Patterns: map[string][]Pattern{"mergetool": {{Filename: "*.mergetool.log"}}},
	})

	m, ok := Get("mergetool")
	if !ok {
		t.Fatalf("module not found after merge")
	}
	if m.Name != "MergeTool" || m.Href == "" {
		t.Fatalf("metadata should be filled by the second Register; got %+v", m)
	}
	if len(m.Patterns["mergetool"]) != 2 {
		t.Fatalf("expected 2 alternatives after merge; got %d", len(m.Patterns["mergetool"]))
	}
}

func TestMatch_FirstSatisfiedAlternativeWins(t *testing.T) {
	Register(Module{
		ID: "alttool",
		Patterns: map[string][]Pattern{
			"alttool": {
				{Contents: "alttool version"},
				{Filename: "*.alttool.log"},
			},
		},
	})
	restrictTo(t, "alttool")

	pr := ProbeFromString("run1.alttool.log", "alttool version 2.1\n")
	ds := Match(pr)
	if len(ds) != 1 {
		t.Fatalf("one key must yield at most one detection; got %d", len(ds))
	}
	if !strings.HasPrefix(ds[0].Evidence, "line 1:") {
		t.Fatalf("first alternative (contents) should have produced the evidence; got %q", ds[0].Evidence)
	}
}

func TestMatch_SeveralModulesMayClaimOneFile(t *testing.T) {
	Register(Module{
		ID:       "claima",
		Patterns: map[string][]Pattern{"claima": {{Contents: "shared marker"}}},
	})
	Register(Module{
		ID:       "claimb",
		Patterns: map[string][]Pattern{"claimb": {{Contents: "shared marker"}}},
	})
	restrictTo(t, "claima", "claimb")

	ds := Match(ProbeFromString("tool.log", "shared marker\n"))
	if len(ds) != 2 {
		t.Fatalf("both modules should claim the file; got %d detections", len(ds))
	}
	if ds[0].Module != "claima" || ds[1].Module != "claimb" {
		t.Fatalf("detections should come out in module order; got %s, %s", ds[0].Module, ds[1].Module)
	}
}

func TestMatch_DisabledModuleProducesNothing(t *testing.T) {
	Register(Module{
		ID:       "offtool",
		Patterns: map[string][]Pattern{"offtool": {{Contents: "offtool says"}}},
	})
	SetSettings(Settings{Disabled: map[string]bool{"offtool": true}})
	t.Cleanup(func() { SetSettings(Settings{}) })

	for _, d := range Match(ProbeFromString("x.log", "offtool says hi\n")) {
		if d.Module == "offtool" {
			t.Fatalf("disabled module must not match")
		}
	}
}

func TestMatch_DetectionIDsStable(t *testing.T) {
	Register(Module{
		ID:       "idtool",
		Patterns: map[string][]Pattern{"idtool": {{Contents: "idtool ran"}}},
	})
	restrictTo(t, "idtool")

	mk := func() string {
		pr := ProbeFromString("out/idtool.log", "idtool ran fine\n")
		pr.Path = "out/idtool.log"
		ds := Match(pr)
		if len(ds) != 1 {
			t.Fatalf("expected 1 detection; got %d", len(ds))
		}
		return ds[0].ID
	}
	a, b := mk(), mk()
	if a != b {
		t.Fatalf("same file and pattern must derive the same ID; got %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "idtool-") || len(a) != len("idtool-")+8 {
		t.Fatalf("ID should be module-<crc32>; got %s", a)
	}
}

func TestBuiltinCCS_EndToEnd(t *testing.T) {
	restrictTo(t, "ccs")

	pr := ProbeFromString("m64011_190228.ccs_report.txt", ccsReport)
	ds := Match(pr)
	if len(ds) != 1 || ds[0].Key != "ccs" {
		t.Fatalf("ccs report should be detected exactly once; got %+v", ds)
	}
	// same content under a non-matching name fails the fn constraint
	if ds := Match(ProbeFromString("m64011_190228.summary.csv", ccsReport)); len(ds) != 0 {
		t.Fatalf("fn constraint should hold; got %+v", ds)
	}
}
