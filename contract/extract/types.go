package extract

import (
	"go/constant"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
)

// wellKnown maps standard library types to IR primitive names.
var wellKnown = map[string]string{
	"time.Time":                "datetime",
	"time.Duration":            "int64",
	"encoding/json.RawMessage": "object",
	"math/big.Int":             "string",
}

// typeRef converts a Go type into a contract type reference.
func (x *extractor) typeRef(t types.Type) (*contract.TypeRef, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		name, ok := basicName(t)
		if !ok {
			return nil, errors.MarkMalformed("unsupported type %s", t)
		}
		return contract.Ref(name), nil

	case *types.Pointer:
		inner, err := x.typeRef(t.Elem())
		if err != nil {
			return nil, err
		}
		return inner.OrNull(), nil

	case *types.Slice:
		return x.list(t.Elem())

	case *types.Array:
		return x.list(t.Elem())

	case *types.Map:
		key, err := x.typeRef(t.Key())
		if err != nil {
			return nil, errors.Wrap(err, "map key")
		}
		value, err := x.typeRef(t.Elem())
		if err != nil {
			return nil, err
		}
		return contract.MapOf(key, value), nil

	case *types.Interface:
		return contract.Ref("object"), nil

	case *types.TypeParam:
		return contract.Ref(t.Obj().Name()), nil

	case *types.Named:
		return x.named(t)
	}
	return nil, errors.MarkMalformed("unsupported type %s", t)
}

// list converts a slice or array; byte slices are base64 strings in JSON.
func (x *extractor) list(elem types.Type) (*contract.TypeRef, error) {
	if b, ok := types.Unalias(elem).(*types.Basic); ok && b.Kind() == types.Byte {
		return contract.Ref("string"), nil
	}
	inner, err := x.typeRef(elem)
	if err != nil {
		return nil, err
	}
	return contract.ListOf(inner), nil
}

func (x *extractor) named(t *types.Named) (*contract.TypeRef, error) {
	obj := t.Obj()
	if obj.Pkg() == nil {
		// error
		return contract.Ref("object"), nil
	}
	if name, ok := wellKnown[obj.Pkg().Path()+"."+obj.Name()]; ok {
		return contract.Ref(name), nil
	}

	switch u := t.Underlying().(type) {
	case *types.Struct:
		if !obj.Exported() {
			return nil, errors.MarkMalformed("unexported type %s cannot appear in a contract", obj.Name())
		}
		ref := contract.RefIn(x.opts.Namespace(obj.Pkg().Path()), obj.Name())
		if args := t.TypeArgs(); args != nil {
			for i := 0; i < args.Len(); i++ {
				a, err := x.typeRef(args.At(i))
				if err != nil {
					return nil, err
				}
				ref.Arguments = append(ref.Arguments, a)
			}
		}
		return ref, nil
	case *types.Basic:
		if isEnum(t) && obj.Exported() {
			return contract.RefIn(x.opts.Namespace(obj.Pkg().Path()), obj.Name()), nil
		}
		return x.typeRef(u)
	case *types.Interface:
		return contract.Ref("object"), nil
	default:
		return x.typeRef(u)
	}
}

func basicName(t *types.Basic) (string, bool) {
	switch t.Kind() {
	case types.Bool:
		return "bool", true
	case types.Int, types.Int64, types.Uint, types.Uint64, types.Uintptr:
		return "int64", true
	case types.Int8, types.Int16, types.Int32, types.Uint8, types.Uint16, types.Uint32:
		return "int32", true
	case types.Float32, types.Float64:
		return "double", true
	case types.String:
		return "string", true
	}
	return "", false
}

func isInteger(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Info()&types.IsInteger != 0
}

// isEnum reports whether named is an integer type with constants declared in
// its own package.
func isEnum(named *types.Named) bool {
	return isInteger(named.Underlying()) && len(typedConstants(named)) > 0
}

type member struct {
	name  string
	value constant.Value
}

// typedConstants lists the package-level constants of exactly type named,
// ordered by value then name. A constant name that starts with the type name
// loses that prefix: RoleAdmin of type Role becomes Admin.
func typedConstants(named *types.Named) []member {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}
	scope := obj.Pkg().Scope()
	var out []member
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() || !types.Identical(c.Type(), named) {
			continue
		}
		out = append(out, member{name: trimTypePrefix(name, obj.Name()), value: c.Val()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if constant.Compare(out[i].value, token.EQL, out[j].value) {
			return out[i].name < out[j].name
		}
		return constant.Compare(out[i].value, token.LSS, out[j].value)
	})
	return out
}

func trimTypePrefix(name, typeName string) string {
	rest := strings.TrimPrefix(name, typeName)
	if rest == name || rest == "" {
		return name
	}
	if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsUpper(r) {
		return name
	}
	return rest
}

func enumMembers(named *types.Named) []*contract.EnumMember {
	var out []*contract.EnumMember
	for _, c := range typedConstants(named) {
		v, _ := constant.Int64Val(c.value)
		out = append(out, &contract.EnumMember{Name: c.name, Value: v})
	}
	return out
}

type fieldTag struct {
	name string
	skip bool
}

// parseTag reads the json tag of a struct field
func parseTag(tag string) fieldTag {
	jsonTag, ok := reflect.StructTag(tag).Lookup("json")
	if !ok {
		return fieldTag{}
	}
	if jsonTag == "-" {
		return fieldTag{skip: true}
	}
	name, _, _ := strings.Cut(jsonTag, ",")
	return fieldTag{name: name}
}
