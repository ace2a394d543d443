package dart

import (
	"go/constant"
	"strings"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/util"
)

const indent = "  "

func (e *emitter) enum(entry *names.Entry, d *contract.EnumDeclaration) (string, error) {
	wire := make([]string, len(d.Members))
	for i, m := range d.Members {
		wire[i] = m.Name
	}
	idents, err := e.binder.Table().Members(entry.Qualified, wire)
	if err != nil {
		return "", err
	}

	name := entry.Name
	var sb strings.Builder
	sb.WriteString("class " + name + " {\n")
	sb.WriteString(indent + "const " + name + "._(this.value);\n\n")
	sb.WriteString(indent + "final int value;\n\n")
	for i, m := range d.Members {
		sb.WriteString(indent + "static const " + idents[i] + " = " + name + "._(" + formatInt(m.Value) + ");\n")
	}
	if len(d.Members) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "static const values = <" + name + ">[" + strings.Join(idents, ", ") + "];\n\n")

	sb.WriteString(indent + "factory " + name + ".fromJson(int json) {\n")
	sb.WriteString(indent + indent + "for (final v in values) {\n")
	sb.WriteString(indent + indent + indent + "if (v.value == json) {\n")
	sb.WriteString(indent + indent + indent + indent + "return v;\n")
	sb.WriteString(indent + indent + indent + "}\n")
	sb.WriteString(indent + indent + "}\n")
	sb.WriteString(indent + indent + "return " + name + "._(json);\n")
	sb.WriteString(indent + "}\n\n")

	sb.WriteString(indent + "int toJson() => value;\n\n")
	sb.WriteString(indent + "@override\n")
	sb.WriteString(indent + "bool operator ==(Object other) => other is " + name + " && other.value == value;\n\n")
	sb.WriteString(indent + "@override\n")
	sb.WriteString(indent + "int get hashCode => value.hashCode;\n\n")
	sb.WriteString(indent + "@override\n")
	sb.WriteString(indent + "String toString() => '" + name + "($value)';\n")
	sb.WriteString("}")
	return sb.String(), nil
}

func (e *emitter) errorCodes(s *typegen.Shape) string {
	name := s.Entry.Name
	var sb strings.Builder
	sb.WriteString("class " + name + " {\n")
	sb.WriteString(indent + "const " + name + "._();\n")
	if len(s.Constants) > 0 {
		sb.WriteString("\n")
		sb.WriteString(constants(s.Constants))
	}
	sb.WriteString("}")
	return sb.String()
}

func (e *emitter) class(s *typegen.Shape) (string, error) {
	name := s.Entry.Name
	var sb strings.Builder

	sb.WriteString("class " + name + typeParams(s.Params))
	if s.Base != nil {
		sb.WriteString(" extends " + baseType(s.Base))
	}
	if len(s.Markers) > 0 {
		markers := make([]string, len(s.Markers))
		for i, m := range s.Markers {
			markers[i] = baseType(m)
		}
		sb.WriteString(" implements " + strings.Join(markers, ", "))
	}
	sb.WriteString(" {\n")

	members := []string{
		constructor(s),
		fromJson(s),
	}
	if len(s.Constants) > 0 {
		members = append(members, strings.TrimRight(constants(s.Constants), "\n"))
	}
	if s.IsRemote() {
		members = append(members,
			indent+"static const String fullName = "+quote(s.Entry.WireKey())+";",
			indent+"String getFullName() => fullName;")
	}
	if own := s.OwnFields(); len(own) > 0 {
		var fields strings.Builder
		for i, f := range own {
			if i > 0 {
				fields.WriteString("\n")
			}
			fields.WriteString(indent + "final " + typeExpr(f.Type) + " " + f.Ident + ";")
		}
		members = append(members, fields.String())
	}
	members = append(members, toJson(s))
	if s.Result != nil {
		if err := e.checkResultOverride(s); err != nil {
			return "", err
		}
		members = append(members, resultFactory(s))
	}

	sb.WriteString(util.JoinBlocks(members...))
	sb.WriteString("\n}")
	return sb.String(), nil
}

func typeParams(params []typegen.Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
		// Dart type parameters take a single bound
		if len(p.Constraints) > 0 {
			parts[i] += " extends " + baseType(p.Constraints[0])
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func constructor(s *typegen.Shape) string {
	name := s.Entry.Name
	if len(s.Fields) == 0 {
		return indent + name + "();"
	}
	var sb strings.Builder
	sb.WriteString(indent + name + "({\n")
	for _, f := range s.Fields {
		sb.WriteString(indent + indent)
		if !f.Type.Nullable {
			sb.WriteString("required ")
		}
		if f.Inherited {
			sb.WriteString("super.")
		} else {
			sb.WriteString("this.")
		}
		sb.WriteString(f.Ident + ",\n")
	}
	sb.WriteString(indent + "});")
	return sb.String()
}

func fromJson(s *typegen.Shape) string {
	name := s.Entry.Name
	var sb strings.Builder
	sb.WriteString(indent + "factory " + name + ".fromJson(Map<String, dynamic> json")
	for _, p := range s.Params {
		sb.WriteString(", " + p.Name + " Function(dynamic) " + paramDecoder(p.Name))
	}
	if len(s.Fields) == 0 {
		sb.WriteString(") => " + name + typeParamNames(s.Params) + "();")
		return sb.String()
	}
	sb.WriteString(") =>\n")
	sb.WriteString(indent + indent + name + typeParamNames(s.Params) + "(\n")
	for _, f := range s.Fields {
		sb.WriteString(indent + indent + indent + f.Ident + ": " + decode(f.Type, "json["+quote(f.Wire)+"]", 0) + ",\n")
	}
	sb.WriteString(indent + indent + ");")
	return sb.String()
}

func typeParamNames(params []typegen.Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func toJson(s *typegen.Shape) string {
	var sb strings.Builder
	if s.Base != nil {
		sb.WriteString(indent + "@override\n")
	}
	sb.WriteString(indent + "Map<String, dynamic> toJson() => <String, dynamic>{\n")
	if s.Base != nil {
		sb.WriteString(indent + indent + "...super.toJson(),\n")
	}
	for _, f := range s.OwnFields() {
		sb.WriteString(indent + indent + quote(f.Wire) + ": " + encode(f.Type, f.Ident, 0) + ",\n")
	}
	sb.WriteString(indent + "};")
	return sb.String()
}

// checkResultOverride rejects a result type that differs from the one the
// nearest ancestor's resultFactory returns: the override would not compile.
func (e *emitter) checkResultOverride(s *typegen.Shape) error {
	for base := s.Base; base != nil; {
		ancestor, err := e.binder.ShapeOf(base.Entry, e.cfg.ErrorCodesName)
		if err != nil {
			return err
		}
		if ancestor.Result != nil {
			if got, want := typeExpr(s.Result), typeExpr(ancestor.Result); got != want {
				return errors.WithHint(
					errors.MarkMalformed("%s returns %s but extends %s which returns %s", s.Entry.Qualified, got, ancestor.Entry.Qualified, want),
					"a query or operation may only extend one with the same result type")
			}
			return nil
		}
		base = ancestor.Base
	}
	return nil
}

// resultFactory converts the already JSON-decoded response payload into the
// declared result type.
func resultFactory(s *typegen.Shape) string {
	return indent + typeExpr(s.Result) + " resultFactory(dynamic decodedJson) =>\n" +
		indent + indent + decode(s.Result, "decodedJson", 0) + ";"
}

func constants(consts []typegen.Constant) string {
	var sb strings.Builder
	for _, c := range consts {
		if c.Value.Kind() == constant.String {
			sb.WriteString(indent + "static const String " + c.Ident + " = " + quote(constant.StringVal(c.Value)) + ";\n")
		} else {
			sb.WriteString(indent + "static const int " + c.Ident + " = " + c.Value.ExactString() + ";\n")
		}
	}
	return sb.String()
}

func formatInt(v int64) string {
	return constant.MakeInt64(v).ExactString()
}
