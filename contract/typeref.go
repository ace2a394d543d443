package contract

import "strings"

// TypeRef is a reference to a primitive, a declaration, a type parameter or a
// collection.
//
// Array-like references carry their element type in Arguments[0]; dictionaries
// carry key and value types in Arguments[0] and Arguments[1]. For references to
// nested declarations Name is the dotted nesting path ("Parent.Child").
type TypeRef struct {
	Name       string     `yaml:"name,omitempty"`
	Namespace  string     `yaml:"namespace,omitempty"`
	Nullable   bool       `yaml:"nullable,omitempty"`
	ArrayLike  bool       `yaml:"array,omitempty"`
	Dictionary bool       `yaml:"dictionary,omitempty"`
	Arguments  []*TypeRef `yaml:"arguments,omitempty"`
}

func (*TypeRef) node() {}

// Ref references a primitive or type parameter by name.
func Ref(name string) *TypeRef {
	return &TypeRef{Name: name}
}

// RefIn references a declaration in a namespace.
func RefIn(namespace, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Namespace: namespace, Name: name, Arguments: args}
}

// ListOf references an array-like collection of elem.
func ListOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Name: "List", ArrayLike: true, Arguments: []*TypeRef{elem}}
}

// MapOf references a dictionary from key to value.
func MapOf(key, value *TypeRef) *TypeRef {
	return &TypeRef{Name: "Dictionary", Dictionary: true, Arguments: []*TypeRef{key, value}}
}

// OrNull returns a nullable copy of r.
func (r *TypeRef) OrNull() *TypeRef {
	c := *r
	c.Nullable = true
	return &c
}

// Qualified returns Namespace.Name, or Name when there is no namespace.
func (r *TypeRef) Qualified() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// Elem is the element type of an array-like reference.
func (r *TypeRef) Elem() *TypeRef {
	if !r.ArrayLike || len(r.Arguments) == 0 {
		return nil
	}
	return r.Arguments[0]
}

// Key is the key type of a dictionary reference.
func (r *TypeRef) Key() *TypeRef {
	if !r.Dictionary || len(r.Arguments) < 2 {
		return nil
	}
	return r.Arguments[0]
}

// Value is the value type of a dictionary reference.
func (r *TypeRef) Value() *TypeRef {
	if !r.Dictionary || len(r.Arguments) < 2 {
		return nil
	}
	return r.Arguments[1]
}

// String renders the reference for diagnostics, e.g. "App.Page<App.User>?".
func (r *TypeRef) String() string {
	if r == nil {
		return "<nil>"
	}
	var sb strings.Builder
	switch {
	case r.ArrayLike && len(r.Arguments) == 1:
		sb.WriteString(r.Arguments[0].String())
		sb.WriteString("[]")
	case r.Dictionary && len(r.Arguments) == 2:
		sb.WriteString("{")
		sb.WriteString(r.Arguments[0].String())
		sb.WriteString(": ")
		sb.WriteString(r.Arguments[1].String())
		sb.WriteString("}")
	default:
		sb.WriteString(r.Qualified())
		if len(r.Arguments) > 0 {
			args := make([]string, len(r.Arguments))
			for i, a := range r.Arguments {
				args[i] = a.String()
			}
			sb.WriteString("<" + strings.Join(args, ", ") + ">")
		}
	}
	if r.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

// Substitute replaces type parameter references by name. References with a
// namespace are never parameters and are copied as-is apart from their arguments.
func Substitute(r *TypeRef, bindings map[string]*TypeRef) *TypeRef {
	if r == nil || len(bindings) == 0 {
		return r
	}
	if r.Namespace == "" && len(r.Arguments) == 0 && !r.ArrayLike && !r.Dictionary {
		if b, ok := bindings[r.Name]; ok {
			if r.Nullable && !b.Nullable {
				return b.OrNull()
			}
			return b
		}
	}
	c := *r
	if len(r.Arguments) > 0 {
		c.Arguments = make([]*TypeRef, len(r.Arguments))
		for i, a := range r.Arguments {
			c.Arguments[i] = Substitute(a, bindings)
		}
	}
	return &c
}
