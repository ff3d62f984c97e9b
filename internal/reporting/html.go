package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/codewithboateng/seqsift/internal/ir"
)

func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>seqsift report <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Files: %d seen &nbsp; %d probed &nbsp; %d matched &nbsp; %d skipped</p>",
		run.Totals.FilesSeen, run.Totals.FilesProbed, run.Totals.FilesMatched, run.Totals.FilesSkipped)
	fmt.Fprintf(f, "<p><b>Probed</b>: %s in %d ms</p>", humanize.Bytes(uint64(run.Totals.BytesProbed)), run.Totals.ElapsedMS)

	// Context banner
	if run.Source != "" {
		fmt.Fprintf(f, "<p class='dim'>Sources: %s</p>", html.EscapeString(run.Source))
	}
	if n := len(run.Context.PatternPacks); n > 0 {
		fmt.Fprintf(f, "<p class='dim'>Extra pattern packs: %d</p>", n)
	}
	if n := len(run.Context.DisabledModules); n > 0 {
		fmt.Fprintf(f, "<p class='dim'>Disabled modules: %d</p>", n)
	}

	// Module summary (by count desc, then module asc)
	if len(run.Detections) > 0 {
		counts := map[string]int{}
		for _, d := range run.Detections {
			counts[d.Module]++
		}
		type mc struct {
			module string
			n      int
		}
		var rows []mc
		for m, n := range counts {
			rows = append(rows, mc{module: m, n: n})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].n == rows[j].n {
				return rows[i].module < rows[j].module
			}
			return rows[i].n > rows[j].n
		})
		fmt.Fprint(f, "<h2>Modules</h2><table><tr><th>Module</th><th>Files</th></tr>")
		for _, r := range rows {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%d</td></tr>", html.EscapeString(r.module), r.n)
		}
		fmt.Fprint(f, "</table>")
	}

	// All detections
	if len(run.Detections) > 0 {
		fmt.Fprint(f, "<h2>All Detections</h2><table><tr><th>Module</th><th>Key</th><th>Path</th><th>Sample</th><th>Size</th><th>Evidence</th></tr>")
		for _, d := range run.Detections {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td class='mono'>%s</td><td>%s</td><td>%s</td><td class='mono'>%s</td></tr>",
				html.EscapeString(d.Module),
				html.EscapeString(d.Key),
				html.EscapeString(d.Path),
				html.EscapeString(d.SampleHint),
				humanize.Bytes(uint64(d.Size)),
				html.EscapeString(d.Evidence),
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>All Detections</h2><p class='dim'>No recognized tool output under the scanned sources.</p>")
	}

	// Skips
	if len(run.Skips) > 0 {
		fmt.Fprint(f, "<h2>Skipped Files</h2><table><tr><th>Path</th><th>Reason</th><th>Size</th></tr>")
		for _, s := range run.Skips {
			fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(s.Path),
				html.EscapeString(s.Reason),
				humanize.Bytes(uint64(s.Size)),
			)
		}
		fmt.Fprint(f, "</table>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
