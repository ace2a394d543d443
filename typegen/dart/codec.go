package dart

import (
	"fmt"
	"strings"

	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/typemap"
)

// typeExpr renders the Dart type of a bound reference.
func typeExpr(b *typegen.Bound) string {
	t := baseType(b)
	if b.Nullable && t != "dynamic" {
		return t + "?"
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
		return "List<" + typeExpr(b.Elem()) + ">"
	case typegen.BoundMap:
		return "Map<" + typeExpr(b.Key()) + ", " + typeExpr(b.Value()) + ">"
	}
	return "dynamic"
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
// depth keeps closure parameter names unique in nested collections.
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
			return "(" + src + " as num).toInt()"
		case typemap.Double:
			return "_double(" + src + ")"
		case typemap.Boolean:
			return src + " as bool"
		case typemap.String:
			return src + " as String"
		case typemap.DateTime:
			return "DateTime.parse(" + src + " as String)"
		}
		return src

	case typegen.BoundEnum:
		return b.Entry.Name + ".fromJson((" + src + " as num).toInt())"

	case typegen.BoundNamed:
		var sb strings.Builder
		sb.WriteString(b.Entry.Name + ".fromJson(" + src + " as Map<String, dynamic>")
		for _, arg := range b.Args {
			e := fmt.Sprintf("e%d", depth)
			sb.WriteString(", (dynamic " + e + ") => " + decode(arg, e, depth+1))
		}
		sb.WriteString(")")
		return sb.String()

	case typegen.BoundParam:
		return paramDecoder(b.Name) + "(" + src + ")"

	case typegen.BoundList:
		e := fmt.Sprintf("e%d", depth)
		return "(" + src + " as List<dynamic>).map<" + typeExpr(b.Elem()) + ">((dynamic " + e + ") => " +
			decode(b.Elem(), e, depth+1) + ").toList()"

	case typegen.BoundMap:
		k, v := fmt.Sprintf("k%d", depth), fmt.Sprintf("v%d", depth)
		return "(" + src + " as Map<String, dynamic>).map<" + typeExpr(b.Key()) + ", " + typeExpr(b.Value()) + ">((" +
			k + ", " + v + ") => MapEntry(" + decodeKey(b.Key(), k) + ", " + decode(b.Value(), v, depth+1) + "))"
	}
	return src
}

func decodeKey(b *typegen.Bound, src string) string {
	if b.Kind == typegen.BoundEnum {
		return b.Entry.Name + ".fromJson(int.parse(" + src + "))"
	}
	switch b.Primitive.Primitive {
	case typemap.Integer:
		return "int.parse(" + src + ")"
	case typemap.Double:
		return "double.parse(" + src + ")"
	case typemap.DateTime:
		return "DateTime.parse(" + src + ")"
	}
	return src
}

// encode renders an expression converting src of b's type to a JSON value.
func encode(b *typegen.Bound, src string, depth int) string {
	if b.Nullable {
		inner := encodeValue(b, src+"!", depth)
		if inner == src+"!" {
			return src
		}
		return src + " == null ? null : " + inner
	}
	return encodeValue(b, src, depth)
}

func encodeValue(b *typegen.Bound, src string, depth int) string {
	switch b.Kind {
	case typegen.BoundPrimitive:
		switch b.Primitive.Primitive {
		case typemap.DateTime:
			return src + ".toIso8601String()"
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
		return src + ".map((" + e + ") => " + elem + ").toList()"

	case typegen.BoundMap:
		k, v := fmt.Sprintf("k%d", depth), fmt.Sprintf("v%d", depth)
		key, value := encodeKey(b.Key(), k), encode(b.Value(), v, depth+1)
		if key == k && value == v {
			return src
		}
		return src + ".map((" + k + ", " + v + ") => MapEntry(" + key + ", " + value + "))"
	}
	return src
}

func encodeKey(b *typegen.Bound, src string) string {
	if b.Kind == typegen.BoundEnum {
		return src + ".toJson().toString()"
	}
	switch b.Primitive.Primitive {
	case typemap.Integer, typemap.Double:
		return src + ".toString()"
	case typemap.DateTime:
		return src + ".toIso8601String()"
	}
	return src
}
