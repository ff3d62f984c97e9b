package modules

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strings"

	"github.com/codewithboateng/seqsift/internal/ir"
)

var (
	registry []Module
	modIndex = map[string]int{} // lower(module ID) -> index
)

// Register adds m to the registry. Registering an ID twice merges the
// pattern keys, so YAML packs can extend built-in modules.
func Register(m Module) {
	id := strings.ToLower(strings.TrimSpace(m.ID))
	if idx, ok := modIndex[id]; ok {
		merge(&registry[idx], m)
		return
	}
	registry = append(registry, m)
	modIndex[id] = len(registry) - 1
}

func merge(dst *Module, src Module) {
	if dst.Patterns == nil {
		dst.Patterns = map[string][]Pattern{}
	}
	for key, alts := range src.Patterns {
		dst.Patterns[key] = append(dst.Patterns[key], alts...)
	}
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Info == "" {
		dst.Info = src.Info
	}
	if dst.Href == "" {
		dst.Href = src.Href
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
}

func List() []Module {
	out := make([]Module, 0, len(registry))
	for _, m := range registry {
		id := strings.ToLower(m.ID)
		if msettings.Disabled[id] {
			continue
		}
		if len(msettings.Only) > 0 && !msettings.Only[id] {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Match evaluates every enabled pattern against the probe. A key with
// alternative patterns yields at most one detection, from the first
// alternative that is satisfied.
func Match(pr *Probe) []ir.Detection {
	var out []ir.Detection
	for _, m := range List() {
		for _, key := range m.Keys() {
			for _, p := range m.Patterns[key] {
				ev, ok := p.Match(pr)
				if !ok {
					continue
				}
				out = append(out, ir.Detection{
					ID:       makeID(m.ID, key, pr.Path, ev),
					Module:   m.ID,
					Key:      key,
					Path:     pr.Path,
					File:     pr.Name,
					Size:     pr.Size,
					Evidence: ev,
				})
				break
			}
		}
	}
	return out
}

func makeID(module, key, path, evidence string) string {
	data := fmt.Sprintf("%s|%s|%s", key, path, evidence)
	sum := crc32.ChecksumIEEE([]byte(data))
	return fmt.Sprintf("%s-%08x", module, sum)
}

// Get returns the module registered under id, if any.
func Get(id string) (Module, bool) {
	idx, ok := modIndex[strings.ToLower(strings.TrimSpace(id))]
	if !ok || idx < 0 || idx >= len(registry) {
		return Module{}, false
	}
	return registry[idx], true
}

// PatternCount reports how many patterns are registered across all
// modules, counting alternatives.
func PatternCount() int {
	n := 0
	for _, m := range registry {
		for _, alts := range m.Patterns {
			n += len(alts)
		}
	}
	return n
}
