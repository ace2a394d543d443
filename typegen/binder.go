package typegen

import (
	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/typemap"
)

// BoundKind tags what a type reference resolved to.
type BoundKind int

const (
	BoundPrimitive BoundKind = iota
	BoundNamed
	BoundEnum
	BoundParam
	BoundList
	BoundMap
	BoundMarker
)

// Bound is a type reference resolved against the name table and type mapper.
// Emitters switch on Kind and never look names up themselves.
type Bound struct {
	Kind     BoundKind
	Ref      *contract.TypeRef
	Nullable bool

	// Primitive is set for BoundPrimitive
	Primitive typemap.Mapped
	// Entry is set for BoundNamed and BoundEnum
	Entry *names.Entry
	// Name is the type parameter (BoundParam) or marker name (BoundMarker)
	Name string
	// Args are generic arguments for BoundNamed and BoundMarker, the element
	// for BoundList, and key and value for BoundMap
	Args []*Bound
}

// Elem is the element of a list.
func (b *Bound) Elem() *Bound { return b.Args[0] }

// Key is the key of a map.
func (b *Bound) Key() *Bound { return b.Args[0] }

// Value is the value of a map.
func (b *Bound) Value() *Bound { return b.Args[1] }

// Is reports whether b is the given primitive category.
func (b *Bound) Is(p typemap.Primitive) bool {
	return b.Kind == BoundPrimitive && b.Primitive.Primitive == p
}

// Type is the declaration b refers to, for BoundNamed.
func (b *Bound) Type() *contract.TypeDeclaration {
	if b.Entry == nil {
		return nil
	}
	td, _ := b.Entry.Decl.(*contract.TypeDeclaration)
	return td
}

// Scope is what a reference can see: the namespaces unqualified declaration
// names are looked up in, and the type parameters of the enclosing declaration.
type Scope struct {
	Namespaces []string
	Params     map[string]bool
}

// ScopeOf returns the scope inside a declaration.
func ScopeOf(e *names.Entry) Scope {
	s := Scope{Namespaces: []string{e.Namespace}, Params: map[string]bool{}}
	if td, ok := e.Decl.(*contract.TypeDeclaration); ok {
		for _, p := range td.TypeParameters {
			s.Params[p.Name] = true
		}
	}
	return s
}

// Binder resolves type references for one language. It is read-only and safe
// for concurrent use.
type Binder struct {
	table *names.Table
	types *typemap.Mapper
}

// NewBinder returns a Binder over a name table and type mapper.
func NewBinder(table *names.Table, types *typemap.Mapper) *Binder {
	return &Binder{table: table, types: types}
}

// Table returns the binder's name table.
func (b *Binder) Table() *names.Table { return b.table }

// Types returns the binder's type mapper.
func (b *Binder) Types() *typemap.Mapper { return b.types }

// Bind resolves ref within scope. Resolution order for an unqualified name is
// type parameter, primitive, declaration at top level, declaration in a scope
// namespace, allow-listed marker. A reference that matches none of them is an ErrUnresolvedReference.
func (b *Binder) Bind(ref *contract.TypeRef, scope Scope) (*Bound, error) {
	if ref == nil {
		return nil, errors.MarkMalformed("missing type reference")
	}
	out := &Bound{Ref: ref, Nullable: ref.Nullable}

	switch {
	case ref.ArrayLike:
		if len(ref.Arguments) != 1 {
			return nil, errors.MarkMalformed("array-like type %s needs one element type", ref)
		}
		out.Kind = BoundList
		return out, b.bindArgs(out, ref, scope)

	case ref.Dictionary:
		if len(ref.Arguments) != 2 {
			return nil, errors.MarkMalformed("dictionary type %s needs key and value types", ref)
		}
		out.Kind = BoundMap
		if err := b.bindArgs(out, ref, scope); err != nil {
			return nil, err
		}
		switch key := out.Key(); {
		case key.Kind == BoundEnum:
		case key.Kind == BoundPrimitive && !key.Is(typemap.Dynamic) && !key.Is(typemap.Boolean):
		default:
			return nil, errors.WithHint(
				errors.MarkMalformed("dictionary %s has unsupported key type %s", ref, key.Ref),
				"JSON object keys are strings; use a string, number, date or enum key")
		}
		return out, nil
	}

	if ref.Namespace == "" {
		if scope.Params[ref.Name] {
			if len(ref.Arguments) > 0 {
				return nil, errors.MarkMalformed("type parameter %s cannot take arguments", ref.Name)
			}
			out.Kind = BoundParam
			out.Name = ref.Name
			return out, nil
		}
		if mapped, ok := b.types.Map(ref.Name); ok {
			if len(ref.Arguments) > 0 {
				return nil, errors.MarkMalformed("primitive %s cannot take arguments", ref.Name)
			}
			out.Kind = BoundPrimitive
			out.Primitive = mapped
			return out, nil
		}
	}

	entry, ok := b.table.Lookup(ref.Qualified())
	if !ok && ref.Namespace == "" {
		for _, ns := range scope.Namespaces {
			if ns == "" {
				continue
			}
			if entry, ok = b.table.Lookup(contract.Qualify(ns, ref.Name)); ok {
				break
			}
		}
	}
	if ok {
		out.Entry = entry
		switch d := entry.Decl.(type) {
		case *contract.EnumDeclaration:
			if len(ref.Arguments) > 0 {
				return nil, errors.MarkMalformed("enum %s cannot take arguments", entry.Qualified)
			}
			out.Kind = BoundEnum
			return out, nil
		case *contract.TypeDeclaration:
			if len(ref.Arguments) != len(d.TypeParameters) {
				return nil, errors.MarkMalformed("%s takes %d type arguments, got %d in %s",
					entry.Qualified, len(d.TypeParameters), len(ref.Arguments), ref)
			}
			out.Kind = BoundNamed
			return out, b.bindArgs(out, ref, scope)
		}
	}

	if ref.Namespace == "" && b.table.IsUnmangled(ref.Name) {
		out.Kind = BoundMarker
		out.Name = ref.Name
		return out, b.bindArgs(out, ref, scope)
	}

	return nil, errors.MarkUnresolved(ref.String(), "unresolved type reference %s", ref)
}

func (b *Binder) bindArgs(out *Bound, ref *contract.TypeRef, scope Scope) error {
	out.Args = make([]*Bound, len(ref.Arguments))
	for i, a := range ref.Arguments {
		arg, err := b.Bind(a, scope)
		if err != nil {
			return err
		}
		out.Args[i] = arg
	}
	return nil
}
