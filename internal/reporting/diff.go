package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/seqsift/internal/ir"
)

type diffPayload struct {
	BaseID  string        `json:"base_id"`
	HeadID  string        `json:"head_id"`
	Summary diffSummary   `json:"summary"`
	New     []diffEntry   `json:"new"`
	Removed []diffEntry   `json:"removed"`
	Changed []diffChanged `json:"changed"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type diffEntry struct {
	Module     string `json:"module"`
	Key        string `json:"key"`
	Path       string `json:"path"`
	SampleHint string `json:"sample_hint,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Evidence   string `json:"evidence,omitempty"`
}

type diffChanged struct {
	Key     string    `json:"key"`
	Base    diffEntry `json:"base"`
	Head    diffEntry `json:"head"`
	Changed []string  `json:"fields_changed"`
}

func WriteDiffJSON(baseID, headID, outDir string, base, head *ir.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	// index detections
	bm := map[string]ir.Detection{}
	hm := map[string]ir.Detection{}
	for _, d := range base.Detections {
		bm[keyOf(d)] = d
	}
	for _, d := range head.Detections {
		hm[keyOf(d)] = d
	}

	var added []diffEntry
	var removed []diffEntry
	var changed []diffChanged

	// additions & changes
	for k, hd := range hm {
		if bd, ok := bm[k]; !ok {
			added = append(added, asDiff(hd))
		} else {
			var fields []string
			if norm(bd.SampleHint) != norm(hd.SampleHint) {
				fields = append(fields, "sample_hint")
			}
			if bd.Size != hd.Size {
				fields = append(fields, "size")
			}
			if strings.TrimSpace(bd.Evidence) != strings.TrimSpace(hd.Evidence) {
				fields = append(fields, "evidence")
			}
			if len(fields) > 0 {
				changed = append(changed, diffChanged{
					Key:     k,
					Base:    asDiff(bd),
					Head:    asDiff(hd),
					Changed: fields,
				})
			}
		}
	}
	// removals
	for k, bd := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, asDiff(bd))
		}
	}

	// stable sort
	sort.Slice(added, func(i, j int) bool { return lessEntry(added[i], added[j]) })
	sort.Slice(removed, func(i, j int) bool { return lessEntry(removed[i], removed[j]) })
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			ChangedCount: len(changed),
		},
		New:     added,
		Removed: removed,
		Changed: changed,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

func keyOf(d ir.Detection) string {
	sb := strings.Builder{}
	sb.WriteString(norm(d.Module))
	sb.WriteByte('|')
	sb.WriteString(norm(d.Path))
	sb.WriteByte('|')
	// the pattern key separates sections of the same module
	sb.WriteString(norm(d.Key))
	return sb.String()
}

func asDiff(d ir.Detection) diffEntry {
	return diffEntry{
		Module:     d.Module,
		Key:        d.Key,
		Path:       d.Path,
		SampleHint: d.SampleHint,
		Size:       d.Size,
		Evidence:   d.Evidence,
	}
}

func lessEntry(a, b diffEntry) bool {
	if a.Path == b.Path {
		if a.Module == b.Module {
			return a.Key < b.Key
		}
		return a.Module < b.Module
	}
	return a.Path < b.Path
}

func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
