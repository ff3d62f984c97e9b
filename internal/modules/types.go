package modules

import "sort"

// Module describes one supported tool: display metadata plus the search
// patterns that recognize its output files.
type Module struct {
	ID   string
	Name string
	Info string
	Href string
	DOI  string
	// Patterns maps a pattern key (the module ID, or "module/section" for
	// tools that emit several file kinds) to its alternative patterns.
	// A key matches a file when any one alternative is satisfied.
	Patterns map[string][]Pattern
}

// Keys returns the module's pattern keys in stable order.
func (m Module) Keys() []string {
	out := make([]string, 0, len(m.Patterns))
	for k := range m.Patterns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
