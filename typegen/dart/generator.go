// Package dart generates Dart data classes with hand-written JSON codecs from
// a contract program.
package dart

import (
	"strings"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/typemap"
	"github.com/teranos/contractgen/typegen/util"
)

// Generator emits one <Program>.dart file.
type Generator struct{}

// NewGenerator creates a new Dart generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "dart"
func (g *Generator) Language() string {
	return "dart"
}

// FileExtension returns "dart"
func (g *Generator) FileExtension() string {
	return "dart"
}

// reserved holds Dart keywords and built-in identifiers plus the member names
// every generated class defines.
var reserved = []string{
	// reserved words
	"assert", "break", "case", "catch", "class", "const", "continue", "default",
	"do", "else", "enum", "extends", "false", "final", "finally", "for", "if",
	"in", "is", "new", "null", "rethrow", "return", "super", "switch", "this",
	"throw", "true", "try", "var", "void", "while", "with",
	// built-in identifiers
	"abstract", "as", "covariant", "deferred", "dynamic", "export", "extension",
	"external", "factory", "Function", "get", "implements", "import", "interface",
	"late", "library", "mixin", "operator", "part", "required", "set", "static",
	"typedef", "await", "yield", "async", "sync",
	// core types referenced by generated code
	"DateTime", "List", "Map", "MapEntry", "String", "Object", "int", "double",
	"num", "bool",
	// generated members
	"value", "values", "json", "toJson", "fromJson", "hashCode", "toString",
	"runtimeType", "noSuchMethod", "fullName", "getFullName", "resultFactory",
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

// TypeTargets maps primitive categories to Dart core types.
func (g *Generator) TypeTargets() typemap.Targets {
	return typemap.Targets{
		typemap.Integer:  "int",
		typemap.Double:   "double",
		typemap.Boolean:  "bool",
		typemap.String:   "String",
		typemap.DateTime: "DateTime",
		typemap.Dynamic:  "dynamic",
	}
}

// Emit renders every declaration of the table, sorted by emitted name.
func (g *Generator) Emit(program *contract.Program, table *names.Table, types *typemap.Mapper, cfg typegen.EmitConfig) ([]typegen.File, error) {
	e := &emitter{
		binder: typegen.NewBinder(table, types),
		cfg:    cfg,
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

	return []typegen.File{{
		Name:    cfg.ProgramName + "." + g.FileExtension(),
		Content: util.JoinBlocks(header(program), helpers(body), body) + "\n",
	}}, nil
}

func header(program *contract.Program) string {
	var sb strings.Builder
	sb.WriteString("// Code generated by contractgen. DO NOT EDIT.\n")
	sb.WriteString("// Program: " + program.Name + "\n")
	sb.WriteString("\n")
	sb.WriteString("// ignore_for_file: unused_element, unnecessary_non_null_assertion, annotate_overrides\n")
	return sb.String()
}

// Helpers generated codecs call into. Only the ones a file uses are emitted.
const (
	doubleHelper = `double _double(dynamic json) =>
    json is String ? double.parse(json) : (json as num).toDouble();`

	encodeKeyHelper = `String _encodeKey(dynamic key) {
  if (key is String) {
    return key;
  }
  if (key is DateTime) {
    return key.toIso8601String();
  }
  if (key is num) {
    return key.toString();
  }
  return (key as dynamic).toJson().toString();
}`

	encodeHelper = `dynamic _encode(dynamic value) {
  if (value == null || value is num || value is String || value is bool) {
    return value;
  }
  if (value is DateTime) {
    return value.toIso8601String();
  }
  if (value is List) {
    return value.map(_encode).toList();
  }
  if (value is Map) {
    return value.map((k, v) => MapEntry(_encodeKey(k), _encode(v)));
  }
  return (value as dynamic).toJson();
}`
)

func helpers(body string) string {
	var out []string
	if strings.Contains(body, "_double(") {
		out = append(out, doubleHelper)
	}
	if strings.Contains(body, "_encode(") {
		out = append(out, encodeKeyHelper, encodeHelper)
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
			return e.errorCodes(shape), nil
		}
		return e.class(shape)
	default:
		return "", errors.AssertionFailedf("unexpected declaration %T", d)
	}
}

// quote renders a Dart string literal.
func quote(s string) string {
	return util.Quote(s, '$')
}
