// Package typescript generates TypeScript classes with JSON codecs and a typed
// RPC client from a contract program.
package typescript

import (
	"strings"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/typemap"
	"github.com/teranos/contractgen/typegen/util"
)

// Generator emits <Program>.ts and <Program>Client.ts.
type Generator struct{}

// NewGenerator creates a new TypeScript generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "typescript"
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns "ts"
func (g *Generator) FileExtension() string {
	return "ts"
}

// reserved holds words that cannot name a class or would shadow globals the
// generated code uses, plus the members every generated class defines.
var reserved = []string{
	// reserved words
	"break", "case", "catch", "class", "const", "continue", "debugger", "default",
	"delete", "do", "else", "enum", "export", "extends", "false", "finally", "for",
	"function", "if", "import", "in", "instanceof", "new", "null", "return", "super",
	"switch", "this", "throw", "true", "try", "typeof", "var", "void", "while", "with",
	// strict mode and type names
	"implements", "interface", "let", "package", "private", "protected", "public",
	"static", "yield", "any", "boolean", "number", "string", "symbol", "unknown",
	"never", "object", "undefined",
	// globals referenced by generated code
	"Date", "Map", "Array", "Object", "Number", "String", "Boolean", "Record",
	"Partial", "Promise", "Error", "Function",
	// generated members
	"value", "values", "json", "toJson", "fromJson", "equals", "hashCode",
	"constructor", "prototype", "fullName", "getFullName", "resultFactory",
}

// NamePolicy flattens nested declarations with "_" and escapes reserved words
// with a trailing "_".
func (g *Generator) NamePolicy() names.Policy {
	return names.Policy{
		NestedSeparator: "_",
		Unmangled:       names.DefaultUnmangled,
		Reserved:        reserved,
		EscapeSuffix:    "_",
	}
}

// TypeTargets maps primitive categories to TypeScript types.
func (g *Generator) TypeTargets() typemap.Targets {
	return typemap.Targets{
		typemap.Integer:  "number",
		typemap.Double:   "number",
		typemap.Boolean:  "boolean",
		typemap.String:   "string",
		typemap.DateTime: "Date",
		typemap.Dynamic:  "unknown",
	}
}

// Emit renders the contracts file and the client file.
func (g *Generator) Emit(program *contract.Program, table *names.Table, types *typemap.Mapper, cfg typegen.EmitConfig) ([]typegen.File, error) {
	e := &emitter{
		binder: typegen.NewBinder(table, types),
		cfg:    cfg,
	}

	if err := checkFunctionNames(table); err != nil {
		return nil, err
	}

	var blocks []string
	for _, entry := range table.Entries() {
		block, err := e.declaration(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to emit %s", entry.Qualified)
		}
		blocks = append(blocks, block)
	}
	body := util.JoinBlocks(blocks...)

	client, err := e.client(program)
	if err != nil {
		return nil, err
	}

	return []typegen.File{
		{
			Name:    cfg.ProgramName + "." + g.FileExtension(),
			Content: util.JoinBlocks(header(program), helpers(body), body) + "\n",
		},
		{
			Name:    cfg.ProgramName + "Client." + g.FileExtension(),
			Content: util.JoinBlocks(header(program), client) + "\n",
		},
	}, nil
}

func header(program *contract.Program) string {
	var sb strings.Builder
	sb.WriteString("/* eslint-disable */\n")
	sb.WriteString("// Code generated by contractgen. DO NOT EDIT.\n")
	sb.WriteString("// Program: " + program.Name + "\n")
	return sb.String()
}

// Helpers generated codecs call into. Only the ones a file uses are emitted.
const (
	doubleHelper = `function _double(json: unknown): number {
    return typeof json === "string" ? Number(json) : (json as number);
}`

	encodeKeyHelper = `function _encodeKey(key: unknown): string {
    if (key instanceof Date) {
        return key.toISOString();
    }
    if (typeof key === "object" && key !== null && "toJson" in key) {
        return String((key as { toJson(): unknown }).toJson());
    }
    return String(key);
}`

	encodeHelper = `function _encode(value: unknown): unknown {
    if (value === null || value === undefined || typeof value !== "object") {
        return value;
    }
    if (value instanceof Date) {
        return value.toISOString();
    }
    if (Array.isArray(value)) {
        return value.map(_encode);
    }
    if (value instanceof Map) {
        return Object.fromEntries(Array.from(value, ([k, v]) => [_encodeKey(k), _encode(v)]));
    }
    if ("toJson" in value) {
        return (value as { toJson(): unknown }).toJson();
    }
    return Object.fromEntries(Object.entries(value).map(([k, v]) => [k, _encode(v)]));
}`
)

func helpers(body string) string {
	var out []string
	if strings.Contains(body, "_double(") {
		out = append(out, doubleHelper)
	}
	if strings.Contains(body, "_encodeKey(") || strings.Contains(body, "_encode(") {
		out = append(out, encodeKeyHelper)
	}
	if strings.Contains(body, "_encode(") {
		out = append(out, encodeHelper)
	}
	return util.JoinBlocks(out...)
}

// emitter holds the read-only state of one Emit call. Every method returns
// its own fragment.
type emitter struct {
	binder *typegen.Binder
	cfg    typegen.EmitConfig
}

func (e *emitter) declaration(entry *names.Entry) (string, error) {
	switch d := entry.Decl.(type) {
	case *contract.EnumDeclaration:
		return e.enum(entry, d)
	case *contract.TypeDeclaration:
		shape, err := e.binder.ShapeOf(entry, e.cfg.ErrorCodesName)
		if err != nil {
			return "", err
		}
		if shape.ErrorCodes {
			return errorCodes(shape), nil
		}
		return class(shape), nil
	default:
		return "", errors.AssertionFailedf("unexpected declaration %T", d)
	}
}

// checkFunctionNames fails when a decoder function generated for one class
// would be named like another declaration.
func checkFunctionNames(table *names.Table) error {
	entries := table.Entries()
	taken := make(map[string]string, len(entries))
	for _, entry := range entries {
		taken[entry.Name] = entry.Qualified
	}
	for _, entry := range entries {
		if _, ok := entry.Decl.(*contract.TypeDeclaration); !ok {
			continue
		}
		for _, fn := range []string{decoderName(entry.Name), resultFactoryName(entry.Name)} {
			if other, ok := taken[fn]; ok {
				return errors.WithHintf(
					errors.Mark(errors.Newf("%s and the %s function of %s both emit as %s", other, strings.TrimPrefix(fn, entry.Name), entry.Qualified, fn), errors.ErrNameCollision),
					"rename %s or exclude it", other)
			}
		}
	}
	return nil
}
