package api

import (
	"net/http"

	"github.com/codewithboateng/seqsift/internal/modules"
)

// GET /api/v1/modules (registry inventory; no auth needed for read-only)
func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	type M struct {
		ID       string   `json:"id"`
		Name     string   `json:"name,omitempty"`
		Info     string   `json:"info,omitempty"`
		Href     string   `json:"href,omitempty"`
		DOI      string   `json:"doi,omitempty"`
		Keys     []string `json:"keys"`
		Patterns int      `json:"patterns"`
	}
	var out []M
	for _, m := range modules.List() {
		n := 0
		for _, ps := range m.Patterns {
			n += len(ps)
		}
		out = append(out, M{
			ID: m.ID, Name: m.Name, Info: m.Info, Href: m.Href, DOI: m.DOI,
			Keys: m.Keys(), Patterns: n,
		})
	}
	// stable order guaranteed by modules.List()
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}
