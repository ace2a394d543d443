package typegen

import (
	"go/constant"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen/names"
)

// Field is one serializable member as an emitter renders it.
type Field struct {
	// Wire is the exact JSON key
	Wire string
	// Ident is the emitted member identifier
	Ident string
	Type  *Bound
	// Inherited fields come from the generated base chain
	Inherited bool
}

// Constant is a static constant on a generated class.
type Constant struct {
	Name  string
	Ident string
	Value constant.Value
}

// Param is a generic type parameter with bound constraints.
type Param struct {
	Name        string
	Constraints []*Bound
}

// Shape is everything an emitter needs to render one type declaration, fully
// resolved up front.
type Shape struct {
	Entry *names.Entry
	Decl  *contract.TypeDeclaration
	Scope Scope

	Params []Param
	// Base is the generated base class, nil when there is none
	Base *Bound
	// Markers are allow-listed framework interfaces the type implements
	Markers []*Bound
	// Fields lists inherited fields (root base first) then own fields
	Fields    []Field
	Constants []Constant
	// Result is set for queries and operations
	Result *Bound
	// ErrorCodes marks a nested error-code container
	ErrorCodes bool
}

// OwnFields returns the fields declared on the type itself.
func (s *Shape) OwnFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if !f.Inherited {
			out = append(out, f)
		}
	}
	return out
}

// InheritedFields returns the fields that come from the base chain.
func (s *Shape) InheritedFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Inherited {
			out = append(out, f)
		}
	}
	return out
}

// IsRemote reports whether the type is a command, query or operation.
func (s *Shape) IsRemote() bool {
	return s.Decl.Kind.IsRemote()
}

// ShapeOf resolves a type declaration entry. errorCodesName identifies nested
// error-code containers.
func (b *Binder) ShapeOf(e *names.Entry, errorCodesName string) (*Shape, error) {
	td, ok := e.Decl.(*contract.TypeDeclaration)
	if !ok {
		return nil, errors.AssertionFailedf("%s is not a type declaration", e.Qualified)
	}
	s := &Shape{
		Entry:      e,
		Decl:       td,
		Scope:      ScopeOf(e),
		ErrorCodes: e.Parent != nil && td.Name == errorCodesName,
	}

	for _, tp := range td.TypeParameters {
		p := Param{Name: tp.Name}
		for _, c := range tp.Constraints {
			bound, err := b.Bind(c, s.Scope)
			if err != nil {
				return nil, errors.Wrapf(err, "constraint of %s on %s", tp.Name, e.Qualified)
			}
			p.Constraints = append(p.Constraints, bound)
		}
		s.Params = append(s.Params, p)
	}

	for _, ref := range td.BaseTypes {
		bound, err := b.Bind(ref, s.Scope)
		if err != nil {
			return nil, errors.Wrapf(err, "base type of %s", e.Qualified)
		}
		switch {
		case bound.Kind == BoundMarker:
			s.Markers = append(s.Markers, bound)
		case bound.Kind == BoundNamed && s.Base == nil:
			s.Base = bound
		case bound.Kind == BoundNamed:
			return nil, errors.WithHint(
				errors.MarkMalformed("%s extends both %s and %s", e.Qualified, s.Base.Entry.Qualified, bound.Entry.Qualified),
				"a contract type may extend at most one generated type; list framework interfaces as unmangled markers")
		default:
			return nil, errors.MarkMalformed("%s cannot extend %s", e.Qualified, ref)
		}
	}

	inherited, err := b.inheritedFields(s)
	if err != nil {
		return nil, err
	}
	s.Fields = inherited
	for _, f := range td.Fields {
		bound, err := b.Bind(f.Type, s.Scope)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", e.Qualified, f.Name)
		}
		s.Fields = append(s.Fields, Field{Wire: f.Name, Type: bound})
	}
	if err := b.identify(e.Qualified, s.Fields); err != nil {
		return nil, err
	}

	if td.Result != nil {
		bound, err := b.Bind(td.Result, s.Scope)
		if err != nil {
			return nil, errors.Wrapf(err, "result of %s", e.Qualified)
		}
		s.Result = bound
	} else if td.Kind.HasResult() {
		return nil, errors.MarkMalformed("%s %s has no result type", td.Kind, e.Qualified)
	}

	s.Constants, err = b.constants(s)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// inheritedFields walks the generated base chain, substituting type arguments
// at each step. Fields of the root base come first.
func (b *Binder) inheritedFields(s *Shape) ([]Field, error) {
	var chain [][]Field
	seen := map[string]bool{s.Entry.Qualified: true}

	base := s.Base
	for base != nil {
		td := base.Type()
		if seen[base.Entry.Qualified] {
			return nil, errors.MarkMalformed("%s has a cyclic base chain through %s", s.Entry.Qualified, base.Entry.Qualified)
		}
		seen[base.Entry.Qualified] = true

		bindings := make(map[string]*contract.TypeRef, len(td.TypeParameters))
		for i, tp := range td.TypeParameters {
			bindings[tp.Name] = base.Ref.Arguments[i]
		}
		scope := Scope{
			Namespaces: append([]string{base.Entry.Namespace}, s.Scope.Namespaces...),
			Params:     s.Scope.Params,
		}

		var level []Field
		for _, f := range td.Fields {
			bound, err := b.Bind(contract.Substitute(f.Type, bindings), scope)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s.%s inherited by %s", base.Entry.Qualified, f.Name, s.Entry.Qualified)
			}
			level = append(level, Field{Wire: f.Name, Type: bound, Inherited: true})
		}
		chain = append(chain, level)

		base = nil
		for _, ref := range td.BaseTypes {
			next, err := b.Bind(contract.Substitute(ref, bindings), scope)
			if err != nil {
				return nil, errors.Wrapf(err, "base type of %s", td.Name)
			}
			if next.Kind == BoundNamed {
				base = next
				break
			}
		}
	}

	var out []Field
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i]...)
	}
	return out, nil
}

func (b *Binder) identify(owner string, fields []Field) error {
	wire := make([]string, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if seen[f.Wire] {
			return errors.WithHint(
				errors.MarkMalformed("%s: field %s is declared on both the type and its base", owner, f.Wire),
				"remove the redeclared field from the derived type")
		}
		seen[f.Wire] = true
		wire[i] = f.Wire
	}
	idents, err := b.table.Members(owner, wire)
	if err != nil {
		return err
	}
	for i := range fields {
		fields[i].Ident = idents[i]
	}
	return nil
}

// constants collects the declaration's constants. Error-code containers also
// carry the constants of error-code containers they extend; own values win.
func (b *Binder) constants(s *Shape) ([]Constant, error) {
	decls := s.Decl.Constants
	if s.ErrorCodes && s.Base != nil {
		var inherited []*contract.ConstantDeclaration
		seen := map[string]bool{s.Entry.Qualified: true}
		for base := s.Base; base != nil && !seen[base.Entry.Qualified]; {
			seen[base.Entry.Qualified] = true
			td := base.Type()
			inherited = append(append([]*contract.ConstantDeclaration{}, td.Constants...), inherited...)
			scope := Scope{Namespaces: []string{base.Entry.Namespace}}
			base = nil
			for _, ref := range td.BaseTypes {
				if next, err := b.Bind(ref, scope); err == nil && next.Kind == BoundNamed {
					base = next
					break
				}
			}
		}
		own := make(map[string]bool, len(decls))
		for _, c := range decls {
			own[c.Name] = true
		}
		merged := make([]*contract.ConstantDeclaration, 0, len(inherited)+len(decls))
		for _, c := range inherited {
			if !own[c.Name] {
				merged = append(merged, c)
				own[c.Name] = true
			}
		}
		decls = append(merged, decls...)
	}

	wire := make([]string, len(decls))
	for i, c := range decls {
		wire[i] = c.Name
	}
	idents, err := b.table.Members(s.Entry.Qualified, wire)
	if err != nil {
		return nil, err
	}
	out := make([]Constant, len(decls))
	for i, c := range decls {
		switch c.Value.Kind() {
		case constant.Int, constant.String:
		default:
			return nil, errors.MarkMalformed("%s.%s: constant must be an integer or string, got %s", s.Entry.Qualified, c.Name, c.Value.Kind())
		}
		out[i] = Constant{Name: c.Name, Ident: idents[i], Value: c.Value}
	}
	return out, nil
}
