package contract

import (
	"bytes"
	"go/constant"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teranos/contractgen/errors"
)

// document is the on-disk shape of a Program. JSON documents are read through
// the same YAML decoder.
type document struct {
	Version      string              `yaml:"version,omitempty"`
	Name         string              `yaml:"name"`
	Aliases      map[string][]string `yaml:"aliases,omitempty"`
	Declarations []declarationDoc    `yaml:"declarations"`
}

type declarationDoc struct {
	Kind           string                      `yaml:"kind"`
	Namespace      string                      `yaml:"namespace,omitempty"`
	Name           string                      `yaml:"name"`
	Contract       string                      `yaml:"contract,omitempty"`
	Excluded       bool                        `yaml:"excluded,omitempty"`
	TypeParameters []*TypeParameterDeclaration `yaml:"typeParameters,omitempty"`
	BaseTypes      []*TypeRef                  `yaml:"baseTypes,omitempty"`
	Fields         []*FieldDeclaration         `yaml:"fields,omitempty"`
	Constants      []constantDoc               `yaml:"constants,omitempty"`
	Nested         []declarationDoc            `yaml:"nested,omitempty"`
	Result         *TypeRef                    `yaml:"result,omitempty"`
	Members        []*EnumMember               `yaml:"members,omitempty"`
}

type constantDoc struct {
	Name  string      `yaml:"name"`
	Value interface{} `yaml:"value"`
}

const (
	docKindType = "type"
	docKindEnum = "enum"
)

// LoadFile reads a Program from a YAML or JSON IR document.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read IR document %s", path)
	}
	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return p, nil
}

// Decode reads a Program from a YAML or JSON IR document and checks its schema
// version. It does not run Validate.
func Decode(r io.Reader) (*Program, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode IR document"), errors.ErrMalformedContract)
	}

	if err := CheckSchemaVersion(doc.Version); err != nil {
		return nil, err
	}

	p := &Program{
		Name:    doc.Name,
		Version: doc.Version,
		Aliases: doc.Aliases,
	}
	if p.Version == "" {
		p.Version = DefaultSchemaVersion
	}
	for i := range doc.Declarations {
		d, err := doc.Declarations[i].toDeclaration("")
		if err != nil {
			return nil, err
		}
		p.Declarations = append(p.Declarations, d)
	}
	return p, nil
}

func (doc *declarationDoc) toDeclaration(parentNamespace string) (Declaration, error) {
	ns := doc.Namespace
	if ns == "" {
		ns = parentNamespace
	}

	switch doc.Kind {
	case docKindEnum:
		if doc.Contract != "" || len(doc.Fields) > 0 || len(doc.Nested) > 0 || doc.Result != nil {
			return nil, errors.MarkMalformed("enum %s may only declare members", Qualify(ns, doc.Name))
		}
		return &EnumDeclaration{
			Namespace: ns,
			Name:      doc.Name,
			Members:   doc.Members,
			Excluded:  doc.Excluded,
		}, nil

	case docKindType, "":
		kind, ok := ParseKind(doc.Contract)
		if !ok {
			return nil, errors.MarkMalformed("%s: unknown contract kind %q", Qualify(ns, doc.Name), doc.Contract)
		}
		if len(doc.Members) > 0 {
			return nil, errors.MarkMalformed("type %s declares enum members", Qualify(ns, doc.Name))
		}
		td := &TypeDeclaration{
			Namespace:      ns,
			Name:           doc.Name,
			Kind:           kind,
			TypeParameters: doc.TypeParameters,
			BaseTypes:      doc.BaseTypes,
			Fields:         doc.Fields,
			Result:         doc.Result,
			Excluded:       doc.Excluded,
		}
		for _, c := range doc.Constants {
			value, err := constantValue(c.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", Qualify(ns, doc.Name), c.Name)
			}
			td.Constants = append(td.Constants, &ConstantDeclaration{Name: c.Name, Value: value})
		}
		for i := range doc.Nested {
			n, err := doc.Nested[i].toDeclaration(ns)
			if err != nil {
				return nil, err
			}
			td.Nested = append(td.Nested, n)
		}
		return td, nil

	default:
		return nil, errors.MarkMalformed("%s: unknown declaration kind %q", Qualify(ns, doc.Name), doc.Kind)
	}
}

func constantValue(v interface{}) (constant.Value, error) {
	switch x := v.(type) {
	case int:
		return constant.MakeInt64(int64(x)), nil
	case int64:
		return constant.MakeInt64(x), nil
	case uint64:
		return constant.MakeUint64(x), nil
	case string:
		return constant.MakeString(x), nil
	default:
		return nil, errors.MarkMalformed("constant value must be an integer or a string, got %T", v)
	}
}

// Encode writes a Program as a YAML IR document.
func Encode(w io.Writer, p *Program) error {
	doc := document{
		Version: p.Version,
		Name:    p.Name,
		Aliases: p.Aliases,
	}
	for _, d := range p.Declarations {
		dd, err := declarationToDoc(d)
		if err != nil {
			return err
		}
		doc.Declarations = append(doc.Declarations, dd)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "failed to encode IR document")
	}
	return enc.Close()
}

func declarationToDoc(d Declaration) (declarationDoc, error) {
	switch d := d.(type) {
	case *EnumDeclaration:
		return declarationDoc{
			Kind:      docKindEnum,
			Namespace: d.Namespace,
			Name:      d.Name,
			Excluded:  d.Excluded,
			Members:   d.Members,
		}, nil

	case *TypeDeclaration:
		doc := declarationDoc{
			Kind:           docKindType,
			Namespace:      d.Namespace,
			Name:           d.Name,
			Excluded:       d.Excluded,
			TypeParameters: d.TypeParameters,
			BaseTypes:      d.BaseTypes,
			Fields:         d.Fields,
			Result:         d.Result,
		}
		if d.Kind != KindPlain {
			doc.Contract = d.Kind.String()
		}
		for _, c := range d.Constants {
			cd := constantDoc{Name: c.Name}
			switch c.Value.Kind() {
			case constant.String:
				cd.Value = constant.StringVal(c.Value)
			case constant.Int:
				v, exact := constant.Int64Val(c.Value)
				if !exact {
					return doc, errors.MarkMalformed("constant %s does not fit in 64 bits", c.Name)
				}
				cd.Value = v
			default:
				return doc, errors.MarkMalformed("constant %s has unsupported kind %s", c.Name, c.Value.Kind())
			}
			doc.Constants = append(doc.Constants, cd)
		}
		for _, n := range d.Nested {
			nd, err := declarationToDoc(n)
			if err != nil {
				return doc, err
			}
			doc.Nested = append(doc.Nested, nd)
		}
		return doc, nil

	default:
		return declarationDoc{}, errors.AssertionFailedf("unhandled declaration %T", d)
	}
}
