package typescript

import (
	"fmt"
	"strings"

	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/typemap"
)

// typeExpr renders the TypeScript type of a bound reference.
func typeExpr(b *typegen.Bound) string {
	t := baseType(b)
	if b.Nullable && t != "unknown" {
		return t + " | null"
	}
	return t
}

func baseType(b *typegen.Bound) string {
	switch b.Kind {
	case typegen.BoundPrimitive:
		return b.Primitive.Target
	case typegen.BoundEnum:
		return b.Entry.Name
	case typegen.BoundNamed:
		return b.Entry.Name + typeArgs(b.Args)
	case typegen.BoundMarker:
		return b.Name + typeArgs(b.Args)
	case typegen.BoundParam:
		return b.Name
	case typegen.BoundList:
		elem := typeExpr(b.Elem())
		if strings.Contains(elem, " | ") {
			elem = "(" + elem + ")"
		}
		return elem + "[]"
	case typegen.BoundMap:
		return "Map<" + typeExpr(b.Key()) + ", " + typeExpr(b.Value()) + ">"
	}
	return "unknown"
}

func typeArgs(args []*typegen.Bound) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = typeExpr(a)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// paramDecoder is the name of the decoder function a generic fromJson takes
// for one type parameter.
func paramDecoder(param string) string {
	return "fromJson" + param
}

// decode renders an expression converting the JSON value src to b's type.
// depth keeps arrow parameter names unique in nested collections.
func decode(b *typegen.Bound, src string, depth int) string {
	inner := decodeValue(b, src, depth)
	if b.Nullable && inner != src {
		return src + " == null ? null : " + inner
	}
	return inner
}

func decodeValue(b *typegen.Bound, src string, depth int) string {
	switch b.Kind {
	case typegen.BoundPrimitive:
		switch b.Primitive.Primitive {
		case typemap.Integer:
			return src + " as number"
		case typemap.Double:
			return "_double(" + src + ")"
		case typemap.Boolean:
			return src + " as boolean"
		case typemap.String:
			return src + " as string"
		case typemap.DateTime:
			return "new Date(" + src + " as string)"
		}
		return src

	case typegen.BoundEnum:
		return b.Entry.Name + ".fromJson(" + src + " as number)"

	case typegen.BoundNamed:
		var sb strings.Builder
		sb.WriteString(decoderName(b.Entry.Name) + "(" + src + " as Record<string, unknown>")
		for _, arg := range b.Args {
			e := fmt.Sprintf("e%d", depth)
			sb.WriteString(", (" + e + ": unknown) => " + decode(arg, e, depth+1))
		}
		sb.WriteString(")")
		return sb.String()

	case typegen.BoundParam:
		return paramDecoder(b.Name) + "(" + src + ")"

	case typegen.BoundList:
		e := fmt.Sprintf("e%d", depth)
		return "(" + src + " as unknown[]).map((" + e + ") => " + decode(b.Elem(), e, depth+1) + ")"

	case typegen.BoundMap:
		k, v := fmt.Sprintf("k%d", depth), fmt.Sprintf("v%d", depth)
		return "new Map(Object.entries(" + src + " as Record<string, unknown>).map(([" + k + ", " + v + "]): [" +
			typeExpr(b.Key()) + ", " + typeExpr(b.Value()) + "] => [" + decodeKey(b.Key(), k) + ", " + decode(b.Value(), v, depth+1) + "]))"
	}
	return src
}

func decodeKey(b *typegen.Bound, src string) string {
	if b.Kind == typegen.BoundEnum {
		return b.Entry.Name + ".fromJson(Number(" + src + "))"
	}
	switch b.Primitive.Primitive {
	case typemap.Integer, typemap.Double:
		return "Number(" + src + ")"
	case typemap.DateTime:
		return "new Date(" + src + ")"
	}
	return src
}

// encode renders an expression converting src of b's type to a JSON value.
func encode(b *typegen.Bound, src string, depth int) string {
	inner := encodeValue(b, src, depth)
	if b.Nullable && inner != src {
		return src + " == null ? null : " + inner
	}
	return inner
}

func encodeValue(b *typegen.Bound, src string, depth int) string {
	switch b.Kind {
	case typegen.BoundPrimitive:
		switch b.Primitive.Primitive {
		case typemap.DateTime:
			return src + ".toISOString()"
		case typemap.Dynamic:
			return "_encode(" + src + ")"
		}
		return src

	case typegen.BoundEnum, typegen.BoundNamed:
		return src + ".toJson()"

	case typegen.BoundParam, typegen.BoundMarker:
		return "_encode(" + src + ")"

	case typegen.BoundList:
		e := fmt.Sprintf("e%d", depth)
		elem := encode(b.Elem(), e, depth+1)
		if elem == e {
			return src
		}
		return src + ".map((" + e + ") => " + elem + ")"

	case typegen.BoundMap:
		k, v := fmt.Sprintf("k%d", depth), fmt.Sprintf("v%d", depth)
		return "Object.fromEntries(Array.from(" + src + ", ([" + k + ", " + v + "]) => [" +
			encodeKey(b.Key(), k) + ", " + encode(b.Value(), v, depth+1) + "]))"
	}
	return src
}

func encodeKey(b *typegen.Bound, src string) string {
	if b.Kind == typegen.BoundEnum {
		return "String(" + src + ".toJson())"
	}
	switch b.Primitive.Primitive {
	case typemap.Integer, typemap.Double:
		return "String(" + src + ")"
	case typemap.DateTime:
		return src + ".toISOString()"
	}
	return src
}
