package modules

import (
	"path/filepath"
	"strings"

	"github.com/codewithboateng/seqsift/internal/ir"
	"github.com/codewithboateng/seqsift/internal/storage"
)

// ApplyIgnores filters out detections that match any active ignore entry.
// Returns (kept, ignoredCount)
func ApplyIgnores(in []ir.Detection, ignores []storage.Ignore) ([]ir.Detection, int) {
	if len(ignores) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []ir.Detection
	ignored := 0
nextDetection:
	for _, d := range in {
		for _, ig := range ignores {
			if !eqCI(d.Module, ig.Module) {
				continue
			}
			if ig.PathGlob != "" && !globCI(ig.PathGlob, d.Path) && !globCI(ig.PathGlob, d.File) {
				continue
			}
			if ig.PatternSub != "" {
				ps := strings.ToUpper(ig.PatternSub)
				if !strings.Contains(strings.ToUpper(d.Key), ps) &&
					!strings.Contains(strings.ToUpper(d.Evidence), ps) {
					continue
				}
			}
			// matched → drop it
			ignored++
			continue nextDetection
		}
		out = append(out, d)
	}
	return out, ignored
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }

func globCI(glob, name string) bool {
	ok, err := filepath.Match(strings.ToLower(glob), strings.ToLower(name))
	return err == nil && ok
}
