package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codewithboateng/seqsift/internal/ir"
)

func demoRun(id string) ir.Run {
	return ir.Run{
		ID:        id,
		StartedAt: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
		Source:    "runs/batch7",
		IRVersion: ir.Version,
		Context:   ir.Context{Sources: []string{"runs/batch7"}},
		Detections: []ir.Detection{
			{ID: id + "-1", Module: "ccs", Key: "ccs", Path: "runA/s1.ccs_report.txt", File: "s1.ccs_report.txt", SampleHint: "s1", Size: 120, Evidence: "line 1: ZMWs input <raw>"},
			{ID: id + "-2", Module: "mosdepth", Key: "mosdepth/summary", Path: "runA/s1.mosdepth.summary.txt", File: "s1.mosdepth.summary.txt", SampleHint: "s1", Size: 80, Evidence: "fn=*.mosdepth.summary.txt"},
			{ID: id + "-3", Module: "mosdepth", Key: "mosdepth/global_dist", Path: "runA/s1.mosdepth.global.dist.txt", File: "s1.mosdepth.global.dist.txt", SampleHint: "s1", Size: 90, Evidence: "fn=*.mosdepth.global.dist.txt"},
		},
		Skips:  []ir.Skip{{Path: "runA/huge.bin", Reason: "too_large", Size: 1 << 30}},
		Totals: ir.Totals{FilesSeen: 4, FilesProbed: 3, FilesMatched: 3, FilesSkipped: 1, BytesProbed: 290, ElapsedMS: 12},
	}
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	run := demoRun("run-json")
	path, err := WriteJSON(run.ID, filepath.Join(dir, "out"), &run)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "run-json.json" {
		t.Fatalf("path = %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got ir.Run
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != run.ID || len(got.Detections) != 3 || got.Totals.FilesMatched != 3 {
		t.Fatalf("round trip mangled: %+v", got)
	}
}

func TestWriteHTML_EscapesAndSummarizes(t *testing.T) {
	run := demoRun("run-html")
	path, err := WriteHTML(run.ID, t.TempDir(), &run)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "seqsift report") {
		t.Fatal("missing title")
	}
	if strings.Contains(s, "<raw>") || !strings.Contains(s, "&lt;raw&gt;") {
		t.Fatal("evidence not escaped")
	}
	for _, want := range []string{"<td>mosdepth</td><td>2</td>", "<td>ccs</td><td>1</td>", "too_large"} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in report", want)
		}
	}
}

func TestWriteHTML_EmptyRun(t *testing.T) {
	run := ir.Run{ID: "run-empty", IRVersion: ir.Version}
	path, err := WriteHTML(run.ID, t.TempDir(), &run)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "No recognized tool output") {
		t.Fatal("missing empty-run message")
	}
}

func TestWriteDiffJSON(t *testing.T) {
	base := demoRun("base")
	head := demoRun("head")

	// change evidence on the ccs detection, drop global_dist, add a new one
	head.Detections[0].Evidence = "line 2: ZMWs pass filters"
	head.Detections = head.Detections[:2]
	head.Detections = append(head.Detections, ir.Detection{
		ID: "head-4", Module: "samblaster", Key: "samblaster",
		Path: "runB/s2.samblaster.log", File: "s2.samblaster.log", SampleHint: "s2", Size: 40,
		Evidence: "line 1: samblaster: Version 0.1.26",
	})

	path, err := WriteDiffJSON("base", "head", t.TempDir(), &base, &head)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if filepath.Base(path) != "diff_base__head.json" {
		t.Fatalf("path = %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got diffPayload
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Summary.NewCount != 1 || got.Summary.RemovedCount != 1 || got.Summary.ChangedCount != 1 {
		t.Fatalf("summary = %+v", got.Summary)
	}
	if got.New[0].Module != "samblaster" {
		t.Fatalf("new = %+v", got.New[0])
	}
	if got.Removed[0].Key != "mosdepth/global_dist" {
		t.Fatalf("removed = %+v", got.Removed[0])
	}
	if len(got.Changed[0].Changed) != 1 || got.Changed[0].Changed[0] != "evidence" {
		t.Fatalf("fields_changed = %v", got.Changed[0].Changed)
	}
}

func TestWriteDiffJSON_Identical(t *testing.T) {
	base := demoRun("a")
	head := demoRun("b")
	path, err := WriteDiffJSON("a", "b", t.TempDir(), &base, &head)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	b, _ := os.ReadFile(path)
	var got diffPayload
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Summary.NewCount+got.Summary.RemovedCount+got.Summary.ChangedCount != 0 {
		t.Fatalf("identical runs should produce an empty diff: %+v", got.Summary)
	}
}
