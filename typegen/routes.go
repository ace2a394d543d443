package typegen

import (
	"sort"

	"github.com/teranos/contractgen/contract"
)

// Route is one wire entry point of a program.
type Route struct {
	Kind contract.Kind
	// Key is the wire key: the qualified name, or the alias path
	Key string
	// Path is "/{kind}/{key}" for declarations and the alias verbatim for aliases
	Path string
	// Target is the qualified name of the declaration the route invokes
	Target string
	Alias  bool
}

// RoutePath builds the router path for a kind and wire key.
func RoutePath(kind contract.Kind, key string) string {
	return "/" + kind.String() + "/" + key
}

// Routes lists the routes of every non-excluded command, query and operation:
// declarations sorted by key, then aliases sorted by key.
func Routes(p *contract.Program) []Route {
	var routes, aliases []Route
	_ = contract.Walk(p, func(v contract.Visit) error {
		td, ok := v.Decl.(*contract.TypeDeclaration)
		if !ok || !td.Kind.IsRemote() || excludedVisit(v) {
			return nil
		}
		key := v.Qualified()
		routes = append(routes, Route{
			Kind:   td.Kind,
			Key:    key,
			Path:   RoutePath(td.Kind, key),
			Target: key,
		})
		for _, alias := range p.Aliases[key] {
			aliases = append(aliases, Route{
				Kind:   td.Kind,
				Key:    alias,
				Path:   alias,
				Target: key,
				Alias:  true,
			})
		}
		return nil
	})

	sort.Slice(routes, func(i, j int) bool { return routes[i].Key < routes[j].Key })
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Key < aliases[j].Key })
	return append(routes, aliases...)
}

func excludedVisit(v contract.Visit) bool {
	if v.Decl.IsExcluded() {
		return true
	}
	for _, p := range v.Parents {
		if p.Excluded {
			return true
		}
	}
	return false
}
