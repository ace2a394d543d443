package contract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/teranos/contractgen/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the structural invariants the compiler relies on:
//   - names are identifiers and qualified names are unique
//   - queries and operations have exactly one result type, other kinds none
//   - collection references carry the right number of arguments
//   - enum member names and values are unique
//   - aliases name remote declarations and are well-formed wire names
//
// It fails on the first violation. Reference resolution is not checked here;
// that happens when an emitter binds each reference.
func Validate(p *Program) error {
	if p == nil {
		return errors.MarkMalformed("program is nil")
	}
	if !identifierPattern.MatchString(p.Name) {
		return errors.MarkInvalidConfig("program name %q is not an identifier", p.Name)
	}

	seen := make(map[string]bool)
	err := Walk(p, func(v Visit) error {
		q := v.Qualified()
		if seen[q] {
			return errors.WithHint(
				errors.Mark(errors.Newf("%s is declared more than once", q), errors.ErrDuplicateDeclaration),
				"two declarations share namespace and name; rename one or exclude it")
		}
		seen[q] = true

		if parent := v.Parent(); parent != nil && v.Decl.DeclNamespace() != "" && v.Decl.DeclNamespace() != parent.Namespace {
			return errors.MarkMalformed("nested declaration %s has namespace %q, enclosing declaration has %q",
				q, v.Decl.DeclNamespace(), parent.Namespace)
		}

		switch d := v.Decl.(type) {
		case *TypeDeclaration:
			return validateType(q, d)
		case *EnumDeclaration:
			return validateEnum(q, d)
		default:
			return errors.AssertionFailedf("unhandled declaration %T", d)
		}
	})
	if err != nil {
		return err
	}

	return validateAliases(p)
}

func validateType(q string, d *TypeDeclaration) error {
	if !identifierPattern.MatchString(d.Name) {
		return errors.MarkMalformed("%s: name %q is not an identifier", q, d.Name)
	}
	if err := validateNamespace(q, d.Namespace); err != nil {
		return err
	}

	switch {
	case d.Kind.HasResult() && d.Result == nil:
		return errors.WithHint(
			errors.MarkMalformed("%s %s has no result type", d.Kind, q),
			"queries and operations must declare exactly one result type")
	case !d.Kind.HasResult() && d.Result != nil:
		return errors.MarkMalformed("%s %s declares a result type", d.Kind, q)
	}
	if d.Result != nil {
		if err := validateRef(q+" result", d.Result); err != nil {
			return err
		}
	}

	if d.Kind.IsRemote() && len(d.TypeParameters) > 0 {
		return errors.WithHint(
			errors.MarkMalformed("%s %s is generic", d.Kind, q),
			"commands, queries and operations are invoked by wire key and cannot take type parameters; make the payload type generic instead")
	}

	params := make(map[string]bool, len(d.TypeParameters))
	for _, tp := range d.TypeParameters {
		if !identifierPattern.MatchString(tp.Name) || params[tp.Name] {
			return errors.MarkMalformed("%s: invalid or duplicate type parameter %q", q, tp.Name)
		}
		params[tp.Name] = true
		for _, c := range tp.Constraints {
			if err := validateRef(q+" constraint of "+tp.Name, c); err != nil {
				return err
			}
		}
	}

	for _, b := range d.BaseTypes {
		if err := validateRef(q+" base type", b); err != nil {
			return err
		}
	}

	fields := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "" || fields[f.Name] {
			return errors.MarkMalformed("%s: empty or duplicate field name %q", q, f.Name)
		}
		fields[f.Name] = true
		if err := validateRef(q+"."+f.Name, f.Type); err != nil {
			return err
		}
	}

	consts := make(map[string]bool, len(d.Constants))
	for _, c := range d.Constants {
		if !identifierPattern.MatchString(c.Name) || consts[c.Name] {
			return errors.MarkMalformed("%s: invalid or duplicate constant %q", q, c.Name)
		}
		consts[c.Name] = true
		if c.Value == nil {
			return errors.MarkMalformed("%s.%s has no value", q, c.Name)
		}
	}
	return nil
}

func validateEnum(q string, d *EnumDeclaration) error {
	if !identifierPattern.MatchString(d.Name) {
		return errors.MarkMalformed("%s: name %q is not an identifier", q, d.Name)
	}
	if err := validateNamespace(q, d.Namespace); err != nil {
		return err
	}
	names := make(map[string]bool, len(d.Members))
	values := make(map[int64]string, len(d.Members))
	for _, m := range d.Members {
		if !identifierPattern.MatchString(m.Name) || names[m.Name] {
			return errors.MarkMalformed("%s: invalid or duplicate member %q", q, m.Name)
		}
		names[m.Name] = true
		if other, dup := values[m.Value]; dup {
			return errors.MarkMalformed("%s: members %s and %s share value %d", q, other, m.Name, m.Value)
		}
		values[m.Value] = m.Name
	}
	return nil
}

func validateNamespace(q, ns string) error {
	if ns == "" {
		return nil
	}
	for _, seg := range strings.Split(ns, ".") {
		if !identifierPattern.MatchString(seg) {
			return errors.MarkMalformed("%s: namespace %q has invalid segment %q", q, ns, seg)
		}
	}
	return nil
}

func validateRef(where string, r *TypeRef) error {
	if r == nil {
		return errors.MarkMalformed("%s: missing type", where)
	}
	switch {
	case r.ArrayLike && r.Dictionary:
		return errors.MarkMalformed("%s: %s is both array-like and a dictionary", where, r)
	case r.ArrayLike && len(r.Arguments) != 1:
		return errors.MarkMalformed("%s: array-like type needs exactly one element type, got %d", where, len(r.Arguments))
	case r.Dictionary && len(r.Arguments) != 2:
		return errors.MarkMalformed("%s: dictionary needs key and value types, got %d", where, len(r.Arguments))
	case !r.ArrayLike && !r.Dictionary && r.Name == "":
		return errors.MarkMalformed("%s: type reference has no name", where)
	}
	for _, a := range r.Arguments {
		if err := validateRef(where, a); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAliasPath checks that an alias is usable verbatim as a wire key.
func ValidateAliasPath(alias string) error {
	if alias == "" {
		return errors.MarkInvalidConfig("alias path is empty")
	}
	if strings.HasPrefix(alias, "/") || strings.HasSuffix(alias, "/") {
		return errors.MarkInvalidConfig("alias path %q must not start or end with '/'", alias)
	}
	for _, r := range alias {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '"' || r == '\'' || r == '`' || r == '\\' {
			return errors.MarkInvalidConfig("alias path %q contains invalid character %q", alias, r)
		}
	}
	return nil
}

func validateAliases(p *Program) error {
	if len(p.Aliases) == 0 {
		return nil
	}
	idx := Index(p)
	taken := make(map[string]string, len(idx))
	for q, v := range idx {
		if td, ok := v.Decl.(*TypeDeclaration); ok && td.Kind.IsRemote() {
			taken[q] = q
		}
	}
	for _, q := range SortedAliasKeys(p) {
		v, ok := idx[q]
		if !ok {
			return errors.MarkInvalidConfig("alias target %s is not declared", q)
		}
		td, ok := v.Decl.(*TypeDeclaration)
		if !ok || !td.Kind.IsRemote() {
			return errors.MarkInvalidConfig("alias target %s is not a command, query or operation", q)
		}
		for _, alias := range p.Aliases[q] {
			if err := ValidateAliasPath(alias); err != nil {
				return errors.Wrapf(err, "alias of %s", q)
			}
			if owner, dup := taken[alias]; dup {
				return errors.MarkInvalidConfig("alias %q of %s is already used by %s", alias, q, owner)
			}
			taken[alias] = q
		}
	}
	return nil
}
