// Package typemap translates source primitive type names into target-language
// primitive types.
//
// Lookup is a two-step table: a case-insensitive source name resolves to a
// Primitive category, and each target language supplies the concrete type name
// for every category. Deployments remap a source name by pointing it at another
// category (e.g. decimal = "string" for precision-sensitive clients) without
// touching emitter code.
package typemap

import (
	"sort"
	"strings"

	"github.com/teranos/contractgen/errors"
)

// Primitive is the semantic category of a primitive type. Emitters use it to
// pick codec rules (ISO-8601 for DateTime, string-tolerant decode for Double).
type Primitive int

const (
	Integer Primitive = iota
	Double
	Boolean
	String
	DateTime
	Dynamic
)

var primitiveNames = map[Primitive]string{
	Integer:  "integer",
	Double:   "double",
	Boolean:  "boolean",
	String:   "string",
	DateTime: "datetime",
	Dynamic:  "dynamic",
}

func (p Primitive) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePrimitive parses a category name as used in configuration overrides.
func ParsePrimitive(s string) (Primitive, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "int", "long":
		return Integer, true
	case "float", "decimal", "number":
		return Double, true
	case "bool":
		return Boolean, true
	case "date", "datetime", "time":
		return DateTime, true
	case "any", "object", "json":
		return Dynamic, true
	}
	for p, name := range primitiveNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// DefaultTable maps lower-cased source type names to categories.
var DefaultTable = map[string]Primitive{
	// Integers of every width
	"int":    Integer,
	"int16":  Integer,
	"int32":  Integer,
	"int64":  Integer,
	"uint":   Integer,
	"uint16": Integer,
	"uint32": Integer,
	"uint64": Integer,
	"byte":   Integer,
	"sbyte":  Integer,
	"short":  Integer,
	"ushort": Integer,
	"long":   Integer,
	"ulong":  Integer,

	// Floating point and decimals
	"float":   Double,
	"single":  Double,
	"double":  Double,
	"decimal": Double,

	"bool":    Boolean,
	"boolean": Boolean,

	// String-like
	"string":   String,
	"char":     String,
	"guid":     String,
	"timespan": String,

	// Instants, serialized as ISO-8601
	"datetime":       DateTime,
	"datetimeoffset": DateTime,
	"date":           DateTime,

	// Opaque JSON
	"object":      Dynamic,
	"dynamic":     Dynamic,
	"json":        Dynamic,
	"jsonelement": Dynamic,
	"jsonobject":  Dynamic,
}

// Targets names the target-language type for each category.
type Targets map[Primitive]string

// Mapped is the result of a successful lookup.
type Mapped struct {
	Primitive Primitive
	// Target is the target-language type name
	Target string
}

// Mapper resolves primitive names for one target language. It is immutable
// once built and safe for concurrent use.
type Mapper struct {
	table   map[string]Primitive
	targets Targets
}

// New builds a Mapper from DefaultTable plus overrides. Override keys are
// source type names (any case), values are category names understood by
// ParsePrimitive. Every category must have a target.
func New(targets Targets, overrides map[string]string) (*Mapper, error) {
	for p := range primitiveNames {
		if targets[p] == "" {
			return nil, errors.MarkInvalidConfig("no target type for %s primitives", p)
		}
	}

	table := make(map[string]Primitive, len(DefaultTable)+len(overrides))
	for name, p := range DefaultTable {
		table[name] = p
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, errors.MarkInvalidConfig("type override with empty source name")
		}
		p, ok := ParsePrimitive(overrides[name])
		if !ok {
			return nil, errors.WithHint(
				errors.MarkInvalidConfig("type override %s = %q: unknown primitive", name, overrides[name]),
				"use one of integer, double, boolean, string, datetime, dynamic")
		}
		table[key] = p
	}

	return &Mapper{table: table, targets: targets}, nil
}

// Map looks up a source type name. ok is false when name is not a primitive,
// which is not an error: the caller resolves it as a declaration instead.
func (m *Mapper) Map(name string) (Mapped, bool) {
	p, ok := m.table[strings.ToLower(name)]
	if !ok {
		return Mapped{}, false
	}
	return Mapped{Primitive: p, Target: m.targets[p]}, true
}

// Target returns the target type name for a category.
func (m *Mapper) Target(p Primitive) string {
	return m.targets[p]
}

// IsPrimitive reports whether name is in the table.
func (m *Mapper) IsPrimitive(name string) bool {
	_, ok := m.table[strings.ToLower(name)]
	return ok
}
