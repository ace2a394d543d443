package typegen

import (
	"sort"
	"strings"

	"github.com/teranos/contractgen/contract"
)

// Exclude returns a copy of p without excluded declarations. A declaration is
// excluded when its Excluded flag is set or a rule matches it, and exclusion
// carries to everything nested inside it. Aliases of removed declarations are
// dropped. The second return value lists the removed qualified names, sorted.
//
// p itself is never modified; kept declarations whose subtree changed are
// shallow-copied.
func Exclude(p *contract.Program, rules ExcludeRules) (*contract.Program, []string) {
	types := make(map[string]bool, len(rules.Types))
	for _, t := range rules.Types {
		types[t] = true
	}

	var removed []string
	var filter func(d contract.Declaration, ns, path string) (contract.Declaration, bool)
	filter = func(d contract.Declaration, ns, path string) (contract.Declaration, bool) {
		q := contract.Qualify(ns, path)
		if d.IsExcluded() || types[q] || inNamespace(ns, rules.Namespaces) {
			removed = append(removed, q)
			collectNested(d, ns, path, &removed)
			return nil, false
		}
		td, ok := d.(*contract.TypeDeclaration)
		if !ok || len(td.Nested) == 0 {
			return d, true
		}

		nested := make([]contract.Declaration, 0, len(td.Nested))
		changed := false
		for _, n := range td.Nested {
			kept, ok := filter(n, ns, path+"."+n.DeclName())
			if !ok {
				changed = true
				continue
			}
			if kept != n {
				changed = true
			}
			nested = append(nested, kept)
		}
		if !changed {
			return d, true
		}
		c := *td
		c.Nested = nested
		return &c, true
	}

	out := &contract.Program{
		Name:    p.Name,
		Version: p.Version,
	}
	for _, d := range p.Declarations {
		if kept, ok := filter(d, d.DeclNamespace(), d.DeclName()); ok {
			out.Declarations = append(out.Declarations, kept)
		}
	}

	gone := make(map[string]bool, len(removed))
	for _, q := range removed {
		gone[q] = true
	}
	for q, aliases := range p.Aliases {
		if gone[q] {
			continue
		}
		if out.Aliases == nil {
			out.Aliases = make(map[string][]string)
		}
		out.Aliases[q] = append([]string(nil), aliases...)
	}

	sort.Strings(removed)
	return out, removed
}

func collectNested(d contract.Declaration, ns, path string, removed *[]string) {
	td, ok := d.(*contract.TypeDeclaration)
	if !ok {
		return
	}
	for _, n := range td.Nested {
		p := path + "." + n.DeclName()
		*removed = append(*removed, contract.Qualify(ns, p))
		collectNested(n, ns, p, removed)
	}
}

// inNamespace reports whether ns is one of prefixes or nested below one.
func inNamespace(ns string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if ns == prefix || strings.HasPrefix(ns, prefix+".") {
			return true
		}
	}
	return false
}
