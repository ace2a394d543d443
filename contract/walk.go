package contract

import "strings"

// Visit describes one declaration reached by Walk.
type Visit struct {
	Decl Declaration
	// Parents is the chain of enclosing type declarations, outermost first
	Parents []*TypeDeclaration
}

// Path is the dotted nesting path: enclosing names followed by the declaration's own.
func (v Visit) Path() string {
	if len(v.Parents) == 0 {
		return v.Decl.DeclName()
	}
	parts := make([]string, 0, len(v.Parents)+1)
	for _, p := range v.Parents {
		parts = append(parts, p.Name)
	}
	parts = append(parts, v.Decl.DeclName())
	return strings.Join(parts, ".")
}

// Namespace is the namespace of the outermost declaration.
func (v Visit) Namespace() string {
	if len(v.Parents) > 0 {
		return v.Parents[0].Namespace
	}
	return v.Decl.DeclNamespace()
}

// Qualified is Namespace.Path, the declaration's identity and wire key.
func (v Visit) Qualified() string {
	return Qualify(v.Namespace(), v.Path())
}

// Parent is the directly enclosing declaration, or nil at top level.
func (v Visit) Parent() *TypeDeclaration {
	if len(v.Parents) == 0 {
		return nil
	}
	return v.Parents[len(v.Parents)-1]
}

// Qualify joins a namespace and a path.
func Qualify(namespace, path string) string {
	if namespace == "" {
		return path
	}
	return namespace + "." + path
}

// Walk visits every declaration depth-first, parents before their nested
// declarations. It stops at the first error returned by fn.
func Walk(p *Program, fn func(Visit) error) error {
	for _, d := range p.Declarations {
		if err := walk(d, nil, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(d Declaration, parents []*TypeDeclaration, fn func(Visit) error) error {
	if err := fn(Visit{Decl: d, Parents: parents}); err != nil {
		return err
	}
	td, ok := d.(*TypeDeclaration)
	if !ok || len(td.Nested) == 0 {
		return nil
	}
	chain := make([]*TypeDeclaration, len(parents)+1)
	copy(chain, parents)
	chain[len(parents)] = td
	for _, n := range td.Nested {
		if err := walk(n, chain, fn); err != nil {
			return err
		}
	}
	return nil
}

// Index maps every declaration's qualified name to its visit.
func Index(p *Program) map[string]Visit {
	idx := make(map[string]Visit)
	_ = Walk(p, func(v Visit) error {
		idx[v.Qualified()] = v
		return nil
	})
	return idx
}
