// Package extract builds a contract program from Go source.
//
// Exported struct types become type declarations, named integer types with
// constants become enums. Doc comment directives mark the remote kinds:
//
//	//contract:command
//	//contract:query []UserDTO
//	//contract:operation bool
//	//contract:alias users/create
//	//contract:exclude
//	//contract:errors CreateUser
//
// The result type of a query or operation is a Go type expression evaluated
// in the package scope. contract:errors turns an integer type's constants into
// the error-code container nested in the named command.
package extract

import (
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// DefaultProgramName is used when Options.ProgramName is empty.
const DefaultProgramName = "Contracts"

// Options configures extraction.
type Options struct {
	ProgramName string
	// TrimPrefix is removed from import paths before they become namespaces,
	// typically the module path
	TrimPrefix string
	// ErrorCodesName names the containers built from contract:errors types
	ErrorCodesName string
	// Dir is the directory packages are loaded from
	Dir        string
	BuildFlags []string
}

func (o Options) programName() string {
	if o.ProgramName == "" {
		return DefaultProgramName
	}
	return o.ProgramName
}

func (o Options) errorCodesName() string {
	if o.ErrorCodesName == "" {
		return "ErrorCodes"
	}
	return o.ErrorCodesName
}

// Namespace converts an import path into a contract namespace:
// "example.com/shop/users" becomes "example.com.shop.users" with segments
// sanitized into identifiers.
func (o Options) Namespace(importPath string) string {
	p := strings.TrimPrefix(strings.TrimPrefix(importPath, o.TrimPrefix), "/")
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '.' })
	for i, part := range parts {
		parts[i] = identifier(part)
	}
	return strings.Join(parts, ".")
}

func identifier(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || (unicode.IsLetter(r) && r < unicode.MaxASCII):
			sb.WriteRune(r)
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// FromPackages loads the packages matching patterns and extracts one program
// from all of them. Packages are processed in import path order.
func FromPackages(patterns []string, opts Options) (*contract.Program, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:        opts.Dir,
		BuildFlags: opts.BuildFlags,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.WithHint(
			errors.MarkInvalidConfig("no packages found for %s", strings.Join(patterns, " ")),
			"patterns are resolved like `go list` arguments, e.g. ./contracts/...")
	}

	var loadErrs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		return nil, errors.WithDetail(
			errors.Newf("%d errors while loading packages", len(loadErrs)),
			strings.Join(loadErrs, "\n"))
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	program := &contract.Program{
		Name:    opts.programName(),
		Version: contract.DefaultSchemaVersion,
	}
	for _, pkg := range pkgs {
		part, err := FromTypes(pkg.Types, pkg.Syntax, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", pkg.PkgPath)
		}
		program.Declarations = append(program.Declarations, part.Declarations...)
		for q, aliases := range part.Aliases {
			if program.Aliases == nil {
				program.Aliases = make(map[string][]string)
			}
			program.Aliases[q] = aliases
		}
	}

	logger.ComponentLogger("extract").Infow("extracted program",
		logger.FieldProgram, program.Name,
		logger.FieldCount, len(program.Declarations))
	return program, nil
}

// FromTypes extracts the declarations of one type-checked package. files
// supply the doc comment directives.
func FromTypes(pkg *types.Package, files []*ast.File, opts Options) (*contract.Program, error) {
	dirs, err := collectDirectives(files)
	if err != nil {
		return nil, errors.Wrapf(err, "package %s", pkg.Path())
	}
	x := &extractor{
		opts:       opts,
		pkg:        pkg,
		ns:         opts.Namespace(pkg.Path()),
		directives: dirs,
		program: &contract.Program{
			Name:    opts.programName(),
			Version: contract.DefaultSchemaVersion,
		},
	}
	if err := x.run(); err != nil {
		return nil, err
	}
	return x.program, nil
}

type extractor struct {
	opts       Options
	pkg        *types.Package
	ns         string
	directives map[string]*directives
	program    *contract.Program
}

func (x *extractor) run() error {
	scope := x.pkg.Scope()
	byName := make(map[string]*contract.TypeDeclaration)
	var errorTypes []*types.TypeName

	// Names() is sorted
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		dirs := x.directives[name]
		if dirs == nil {
			dirs = &directives{}
		}

		if dirs.errorsOf != "" {
			errorTypes = append(errorTypes, tn)
			continue
		}

		switch u := named.Underlying().(type) {
		case *types.Struct:
			td, err := x.typeDeclaration(named, u, dirs)
			if err != nil {
				return errors.Wrapf(err, "%s.%s", x.pkg.Path(), name)
			}
			byName[name] = td
			x.program.Declarations = append(x.program.Declarations, td)
		case *types.Basic:
			if !isEnum(named) {
				continue
			}
			if dirs.kind != contract.KindPlain {
				return errors.MarkMalformed("%s.%s: only structs can be commands, queries or operations", x.pkg.Path(), name)
			}
			x.program.Declarations = append(x.program.Declarations, &contract.EnumDeclaration{
				Namespace: x.ns,
				Name:      name,
				Members:   enumMembers(named),
				Excluded:  dirs.exclude,
			})
		}
	}

	for _, tn := range errorTypes {
		dirs := x.directives[tn.Name()]
		parent, ok := byName[dirs.errorsOf]
		if !ok {
			return errors.MarkMalformed("%s.%s: contract:errors names %s, which is not an exported struct in the package",
				x.pkg.Path(), tn.Name(), dirs.errorsOf)
		}
		named := tn.Type().(*types.Named)
		if !isInteger(named.Underlying()) {
			return errors.MarkMalformed("%s.%s: error codes must have an integer type", x.pkg.Path(), tn.Name())
		}
		codes := &contract.TypeDeclaration{Namespace: x.ns, Name: x.opts.errorCodesName()}
		for _, c := range typedConstants(named) {
			codes.Constants = append(codes.Constants, &contract.ConstantDeclaration{
				Name:  c.name,
				Value: c.value,
			})
		}
		parent.Nested = append(parent.Nested, codes)
	}
	return nil
}

func (x *extractor) typeDeclaration(named *types.Named, st *types.Struct, dirs *directives) (*contract.TypeDeclaration, error) {
	td := &contract.TypeDeclaration{
		Namespace: x.ns,
		Name:      named.Obj().Name(),
		Kind:      dirs.kind,
		Excluded:  dirs.exclude,
	}

	if tps := named.TypeParams(); tps != nil {
		for i := 0; i < tps.Len(); i++ {
			tp := tps.At(i)
			decl := &contract.TypeParameterDeclaration{Name: tp.Obj().Name()}
			constraints, err := x.constraints(tp.Constraint())
			if err != nil {
				return nil, errors.Wrapf(err, "constraint of %s", decl.Name)
			}
			decl.Constraints = constraints
			td.TypeParameters = append(td.TypeParameters, decl)
		}
	}

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := parseTag(st.Tag(i))
		if tag.skip {
			continue
		}
		if f.Embedded() {
			base, err := x.embedded(f.Type())
			if err != nil {
				return nil, errors.Wrapf(err, "embedded %s", f.Name())
			}
			td.BaseTypes = append(td.BaseTypes, base)
			continue
		}
		if !f.Exported() {
			continue
		}
		ref, err := x.typeRef(f.Type())
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name())
		}
		wire := tag.name
		if wire == "" {
			wire = f.Name()
		}
		td.Fields = append(td.Fields, &contract.FieldDeclaration{Name: wire, Type: ref})
	}

	if dirs.kind.HasResult() {
		if dirs.result == "" {
			return nil, errors.MarkMalformed("contract:%s needs a result type", dirs.kind)
		}
		tv, err := types.Eval(token.NewFileSet(), x.pkg, token.NoPos, dirs.result)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "result type %q", dirs.result), errors.ErrMalformedContract)
		}
		if !tv.IsType() {
			return nil, errors.MarkMalformed("result %q is not a type", dirs.result)
		}
		if td.Result, err = x.typeRef(tv.Type); err != nil {
			return nil, errors.Wrapf(err, "result type %q", dirs.result)
		}
	}

	if len(dirs.aliases) > 0 {
		if x.program.Aliases == nil {
			x.program.Aliases = make(map[string][]string)
		}
		q := contract.Qualify(x.ns, td.Name)
		x.program.Aliases[q] = append(x.program.Aliases[q], dirs.aliases...)
	}
	return td, nil
}

// embedded converts an embedded field into a base type: a struct becomes the
// generated base, an interface becomes an unqualified marker.
func (x *extractor) embedded(t types.Type) (*contract.TypeRef, error) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, errors.MarkMalformed("embedded %s is not a named type", t)
	}
	if _, ok := named.Underlying().(*types.Interface); ok {
		return x.marker(named)
	}
	return x.typeRef(named)
}

func (x *extractor) marker(named *types.Named) (*contract.TypeRef, error) {
	ref := contract.Ref(named.Obj().Name())
	if args := named.TypeArgs(); args != nil {
		for i := 0; i < args.Len(); i++ {
			a, err := x.typeRef(args.At(i))
			if err != nil {
				return nil, err
			}
			ref.Arguments = append(ref.Arguments, a)
		}
	}
	return ref, nil
}

// constraints flattens a type parameter constraint into references. any and
// comparable impose nothing on the wire and are dropped.
func (x *extractor) constraints(t types.Type) ([]*contract.TypeRef, error) {
	t = types.Unalias(t)
	if named, ok := t.(*types.Named); ok {
		if named.Obj().Pkg() == nil {
			// comparable
			return nil, nil
		}
		return x.constraintRef(named)
	}
	iface, ok := t.Underlying().(*types.Interface)
	if !ok || iface.Empty() {
		return nil, nil
	}
	var out []*contract.TypeRef
	for i := 0; i < iface.NumEmbeddeds(); i++ {
		named, ok := types.Unalias(iface.EmbeddedType(i)).(*types.Named)
		if !ok {
			return nil, errors.MarkMalformed("constraint term %s cannot be expressed in a contract", iface.EmbeddedType(i))
		}
		refs, err := x.constraintRef(named)
		if err != nil {
			return nil, err
		}
		out = append(out, refs...)
	}
	return out, nil
}

func (x *extractor) constraintRef(named *types.Named) ([]*contract.TypeRef, error) {
	if _, ok := named.Underlying().(*types.Interface); ok {
		ref, err := x.marker(named)
		if err != nil {
			return nil, err
		}
		return []*contract.TypeRef{ref}, nil
	}
	ref, err := x.typeRef(named)
	if err != nil {
		return nil, err
	}
	return []*contract.TypeRef{ref}, nil
}
