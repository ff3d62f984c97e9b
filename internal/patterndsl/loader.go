package patterndsl

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/seqsift/internal/modules"
)

// A pack is a YAML mapping of pattern key -> pattern (or list of
// alternative patterns), the same shape the upstream search pattern
// files use:
//
//	ccs:
//	  fn: "*report.txt"
//	  contents: "ZMWs input"
//	  num_lines: 3
//	mosdepth/summary:
//	  fn: "*.mosdepth.summary.txt"
//
// The reserved "meta" key carries optional module metadata:
//
//	meta:
//	  ccs: {name: CCS, href: "https://...", info: "..."}

type dslMeta struct {
	Name string `yaml:"name"`
	Info string `yaml:"info"`
	Href string `yaml:"href"`
	DOI  string `yaml:"doi"`
}

var patternFields = map[string]bool{
	"contents":     true,
	"fn":           true,
	"max_filesize": true,
	"num_lines":    true,
}

// LoadAndRegister reads a pattern pack and registers its keys with the
// module registry. Returns the number of keys registered. Keys for an
// already-registered module append alternatives to that module.
func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pattern pack: %w", err)
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var n int
	for _, key := range keys {
		node := doc[key]
		if key == "meta" {
			if err := registerMeta(&node); err != nil {
				return n, fmt.Errorf("meta: %w", err)
			}
			continue
		}
		mod := moduleOf(key)
		if mod == "" {
			return n, fmt.Errorf("pattern key %q: empty module id", key)
		}
		pats, err := decodePatterns(&node)
		if err != nil {
			return n, fmt.Errorf("pattern %q: %w", key, err)
		}
		for _, p := range pats {
			if err := modules.Compile(p); err != nil {
				return n, fmt.Errorf("compile pattern %q: %w", key, err)
			}
		}
		modules.Register(modules.Module{
			ID:       mod,
			Patterns: map[string][]modules.Pattern{key: pats},
		})
		n++
	}
	return n, nil
}

// moduleOf returns the module part of a pattern key ("mosdepth" for
// "mosdepth/summary").
func moduleOf(key string) string {
	mod, _, _ := strings.Cut(key, "/")
	return strings.TrimSpace(mod)
}

func decodePatterns(n *yaml.Node) ([]modules.Pattern, error) {
	switch n.Kind {
	case yaml.MappingNode:
		p, err := decodeOne(n)
		if err != nil {
			return nil, err
		}
		return []modules.Pattern{p}, nil
	case yaml.SequenceNode:
		out := make([]modules.Pattern, 0, len(n.Content))
		for _, c := range n.Content {
			p, err := decodeOne(c)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a mapping or a list of mappings")
}

func decodeOne(n *yaml.Node) (modules.Pattern, error) {
	var p modules.Pattern
	if n.Kind != yaml.MappingNode {
		return p, fmt.Errorf("expected a mapping")
	}
	// mapping Content alternates key, value nodes
	for i := 0; i+1 < len(n.Content); i += 2 {
		if f := n.Content[i].Value; !patternFields[f] {
			return p, fmt.Errorf("unknown field %q", f)
		}
	}
	if err := n.Decode(&p); err != nil {
		return p, err
	}
	return p, nil
}

func registerMeta(n *yaml.Node) error {
	var metas map[string]dslMeta
	if err := n.Decode(&metas); err != nil {
		return err
	}
	ids := make([]string, 0, len(metas))
	for id := range metas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("empty module id")
		}
		m := metas[id]
		modules.Register(modules.Module{
			ID:   id,
			Name: m.Name,
			Info: m.Info,
			Href: m.Href,
			DOI:  m.DOI,
		})
	}
	return nil
}
