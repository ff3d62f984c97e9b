package patterndsl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codewithboateng/seqsift/internal/ir"
	"github.com/codewithboateng/seqsift/internal/modules"
)

func writePack(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	return path
}

func hasModule(ds []ir.Detection, id string) bool {
	for _, d := range ds {
		if d.Module == id {
			return true
		}
	}
	return false
}

func TestLoadAndRegister_SingleAndSectionedKeys(t *testing.T) {
	n, err := LoadAndRegister(writePack(t, `
dsltoola:
  contents: "dsltoola v"
  num_lines: 1
dsltoolb/summary:
  fn: "*.dsltoolb.summary.txt"
dsltoolb/dist:
  fn: "*.dsltoolb.dist.txt"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 keys registered; got %d", n)
	}

	if _, ok := modules.Get("dsltoola"); !ok {
		t.Fatalf("dsltoola should be registered")
	}
	m, ok := modules.Get("dsltoolb")
	if !ok {
		t.Fatalf("sectioned keys should register under the module part")
	}
	if got := m.Keys(); len(got) != 2 {
		t.Fatalf("dsltoolb should have 2 keys; got %v", got)
	}

	pr := modules.ProbeFromString("anything.log", "dsltoola v1.2\n")
	if !hasModule(modules.Match(pr), "dsltoola") {
		t.Fatalf("loaded pattern should match its content probe")
	}
}

func TestLoadAndRegister_AlternativesAndMeta(t *testing.T) {
	n, err := LoadAndRegister(writePack(t, `
meta:
  dslalt:
    name: DSLAlt
    href: https://example.org/dslalt
    info: test tool with alternative patterns
dslalt:
  - contents: "dslalt version"
    num_lines: 2
  - fn: "*.dslalt.log"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 1 {
		t.Fatalf("meta must not count as a pattern key; got %d", n)
	}

	m, ok := modules.Get("dslalt")
	if !ok {
		t.Fatalf("dslalt should be registered")
	}
	if m.Name != "DSLAlt" || m.Href == "" {
		t.Fatalf("meta should fill module metadata; got %+v", m)
	}
	if len(m.Patterns["dslalt"]) != 2 {
		t.Fatalf("expected 2 alternatives; got %d", len(m.Patterns["dslalt"]))
	}

	// either alternative suffices
	if ds := modules.Match(modules.ProbeFromString("x.dslalt.log", "no marker\n")); !hasModule(ds, "dslalt") {
		t.Fatalf("fn alternative should match")
	}
}

func TestLoadAndRegister_AppendsToExistingModule(t *testing.T) {
	if _, err := LoadAndRegister(writePack(t, `
dslgrow:
  contents: "dslgrow first"
`)); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := LoadAndRegister(writePack(t, `
dslgrow:
  contents: "dslgrow second"
`)); err != nil {
		t.Fatalf("second load: %v", err)
	}
	m, _ := modules.Get("dslgrow")
	if len(m.Patterns["dslgrow"]) != 2 {
		t.Fatalf("second pack should append an alternative; got %d", len(m.Patterns["dslgrow"]))
	}
}

func TestLoadAndRegister_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "dslbad1:\n  contents: x\n  filename: oops\n",
		"empty pattern":   "dslbad2:\n  num_lines: 3\n",
		"bad glob":        "dslbad3:\n  fn: \"[unclosed\"\n",
		"empty module id": "/summary:\n  contents: x\n",
		"not a mapping":   "dslbad4: just a string\n",
	}
	for name, body := range cases {
		if _, err := LoadAndRegister(writePack(t, body)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}

	if _, err := LoadAndRegister(filepath.Join(t.TempDir(), "missing.yaml")); err == nil ||
		!strings.Contains(err.Error(), "read pattern pack") {
		t.Fatalf("missing file should fail with a read error; got %v", err)
	}
}
