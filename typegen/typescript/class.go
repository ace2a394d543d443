package typescript

import (
	"go/constant"
	"strings"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/util"
)

const indent = "    "

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
	qualified := make([]string, len(idents))
	var sb strings.Builder
	sb.WriteString("export class " + name + " {\n")
	for i, m := range d.Members {
		sb.WriteString(indent + "static readonly " + idents[i] + " = new " + name + "(" + constant.MakeInt64(m.Value).ExactString() + ");\n")
		qualified[i] = name + "." + idents[i]
	}
	sb.WriteString(indent + "static readonly values: readonly " + name + "[] = [" + strings.Join(qualified, ", ") + "];\n\n")
	sb.WriteString(indent + "private constructor(readonly value: number) {}\n\n")

	sb.WriteString(indent + "static fromJson(json: number): " + name + " {\n")
	sb.WriteString(indent + indent + "return " + name + ".values.find((v) => v.value === json) ?? new " + name + "(json);\n")
	sb.WriteString(indent + "}\n\n")

	sb.WriteString(indent + "toJson(): number {\n")
	sb.WriteString(indent + indent + "return this.value;\n")
	sb.WriteString(indent + "}\n\n")

	sb.WriteString(indent + "equals(other: unknown): boolean {\n")
	sb.WriteString(indent + indent + "return other instanceof " + name + " && other.value === this.value;\n")
	sb.WriteString(indent + "}\n\n")

	sb.WriteString(indent + "hashCode(): number {\n")
	sb.WriteString(indent + indent + "return this.value;\n")
	sb.WriteString(indent + "}\n")
	sb.WriteString("}")
	return sb.String(), nil
}

func errorCodes(s *typegen.Shape) string {
	var sb strings.Builder
	sb.WriteString("export class " + s.Entry.Name + " {\n")
	sb.WriteString(constants(s.Constants))
	if len(s.Constants) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "private constructor() {}\n")
	sb.WriteString("}")
	return sb.String()
}

func class(s *typegen.Shape) string {
	name := s.Entry.Name
	var sb strings.Builder

	sb.WriteString("export class " + name + typeParams(s.Params))
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

	var statics strings.Builder
	if s.IsRemote() {
		statics.WriteString(indent + "static readonly fullName: string = " + util.Quote(s.Entry.WireKey()) + ";\n")
	}
	statics.WriteString(constants(s.Constants))

	var fields strings.Builder
	for _, f := range s.OwnFields() {
		if f.Type.Nullable {
			fields.WriteString(indent + f.Ident + ": " + typeExpr(f.Type) + " = null;\n")
		} else {
			fields.WriteString(indent + f.Ident + "!: " + typeExpr(f.Type) + ";\n")
		}
	}

	members := []string{
		statics.String(),
		fields.String(),
		constructor(s),
		toJson(s),
	}
	if s.IsRemote() {
		members = append(members, indent+"getFullName(): string {\n"+
			indent+indent+"return "+name+".fullName;\n"+
			indent+"}")
	}

	sb.WriteString(util.JoinBlocks(members...))
	sb.WriteString("\n}")

	// Decoders are free functions: a static fromJson on a class derived from
	// a generic base could not satisfy the base's static signature.
	blocks := []string{sb.String(), fromJson(s)}
	if s.Result != nil {
		blocks = append(blocks, resultFactory(s))
	}
	return util.JoinBlocks(blocks...)
}

// decoderName is the free function decoding JSON into class.
func decoderName(class string) string {
	return class + "FromJson"
}

// resultFactoryName is the free function decoding the result of a query or
// operation class.
func resultFactoryName(class string) string {
	return class + "ResultFactory"
}

func typeParams(params []typegen.Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
		if len(p.Constraints) > 0 {
			bounds := make([]string, len(p.Constraints))
			for j, c := range p.Constraints {
				bounds[j] = baseType(c)
			}
			parts[i] += " extends " + strings.Join(bounds, " & ")
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
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

func selfType(s *typegen.Shape) string {
	return s.Entry.Name + typeParamNames(s.Params)
}

func constructor(s *typegen.Shape) string {
	var sb strings.Builder
	sb.WriteString(indent + "constructor(init?: Partial<" + selfType(s) + ">) {\n")
	if s.Base != nil {
		sb.WriteString(indent + indent + "super();\n")
	}
	sb.WriteString(indent + indent + "Object.assign(this, init);\n")
	sb.WriteString(indent + "}")
	return sb.String()
}

func fromJson(s *typegen.Shape) string {
	var sb strings.Builder
	sb.WriteString("export function " + decoderName(s.Entry.Name) + typeParams(s.Params) + "(json: Record<string, unknown>")
	for _, p := range s.Params {
		sb.WriteString(", " + paramDecoder(p.Name) + ": (json: unknown) => " + p.Name)
	}
	sb.WriteString("): " + selfType(s) + " {\n")
	if len(s.Fields) == 0 {
		sb.WriteString(indent + "return new " + selfType(s) + "();\n")
	} else {
		sb.WriteString(indent + "return new " + selfType(s) + "({\n")
		for _, f := range s.Fields {
			sb.WriteString(indent + indent + f.Ident + ": " + decode(f.Type, "json["+util.Quote(f.Wire)+"]", 0) + ",\n")
		}
		sb.WriteString(indent + "});\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func toJson(s *typegen.Shape) string {
	var sb strings.Builder
	sb.WriteString(indent + "toJson(): Record<string, unknown> {\n")
	sb.WriteString(indent + indent + "return {\n")
	if s.Base != nil {
		sb.WriteString(indent + indent + indent + "...super.toJson(),\n")
	}
	for _, f := range s.OwnFields() {
		sb.WriteString(indent + indent + indent + util.Quote(f.Wire) + ": " + encode(f.Type, "this."+f.Ident, 0) + ",\n")
	}
	sb.WriteString(indent + indent + "};\n")
	sb.WriteString(indent + "}")
	return sb.String()
}

// resultFactory converts the already JSON-decoded response payload into the
// declared result type.
func resultFactory(s *typegen.Shape) string {
	return "export function " + resultFactoryName(s.Entry.Name) + "(decodedJson: unknown): " + typeExpr(s.Result) + " {\n" +
		indent + "return " + decode(s.Result, "decodedJson", 0) + ";\n" +
		"}"
}

func constants(consts []typegen.Constant) string {
	var sb strings.Builder
	for _, c := range consts {
		if c.Value.Kind() == constant.String {
			sb.WriteString(indent + "static readonly " + c.Ident + ": string = " + util.Quote(constant.StringVal(c.Value)) + ";\n")
		} else {
			sb.WriteString(indent + "static readonly " + c.Ident + ": number = " + c.Value.ExactString() + ";\n")
		}
	}
	return sb.String()
}
