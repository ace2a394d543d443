// Package contract defines the intermediate representation (IR) of a contract
// surface: the commands, queries and operations a server exposes, their payload
// and result types, enums and generic parameters.
//
// The IR is a closed sum type. Node is sealed by an unexported method so the
// only implementations are the ones declared here, and every consumer switches
// over the same fixed set of kinds. Nodes are built once (by an extractor or by
// Decode) and never mutated afterwards; passes that need a different tree, such
// as exclusion filtering, build a new one.
package contract

import (
	"go/constant"
	"sort"
	"strings"
)

// Node is any element of the IR tree.
type Node interface {
	node()
}

// Declaration is a top-level or nested named declaration: a *TypeDeclaration
// or an *EnumDeclaration.
type Declaration interface {
	Node
	DeclNamespace() string
	DeclName() string
	IsExcluded() bool
	declaration()
}

// Program is the root of one compilation unit.
type Program struct {
	// Name is used for output file names (<Name>.dart, <Name>Client.ts)
	Name string
	// Version is the IR schema version of the document the program came from
	Version string
	// Declarations in source order
	Declarations []Declaration
	// Aliases maps a declaration's qualified name to additional wire names it
	// is reachable under
	Aliases map[string][]string
}

// Kind classifies a TypeDeclaration.
type Kind int

const (
	KindPlain Kind = iota
	KindCommand
	KindQuery
	KindOperation
)

var kindNames = [...]string{
	KindPlain:     "plain",
	KindCommand:   "command",
	KindQuery:     "query",
	KindOperation: "operation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind parses a kind name; the empty string is KindPlain.
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return KindPlain, true
	}
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), true
		}
	}
	return KindPlain, false
}

// IsRemote reports whether declarations of this kind are invocable over the wire.
func (k Kind) IsRemote() bool {
	return k == KindCommand || k == KindQuery || k == KindOperation
}

// HasResult reports whether declarations of this kind carry a result type.
func (k Kind) HasResult() bool {
	return k == KindQuery || k == KindOperation
}

// TypeDeclaration is a class/interface contract type.
type TypeDeclaration struct {
	Namespace      string
	Name           string
	Kind           Kind
	TypeParameters []*TypeParameterDeclaration
	// BaseTypes holds at most one generated base class plus any number of
	// marker interfaces, in declaration order
	BaseTypes []*TypeRef
	Fields    []*FieldDeclaration
	Constants []*ConstantDeclaration
	Nested    []Declaration
	// Result is set iff Kind.HasResult()
	Result   *TypeRef
	Excluded bool
}

func (*TypeDeclaration) node()        {}
func (*TypeDeclaration) declaration() {}

func (d *TypeDeclaration) DeclNamespace() string { return d.Namespace }
func (d *TypeDeclaration) DeclName() string      { return d.Name }
func (d *TypeDeclaration) IsExcluded() bool      { return d.Excluded }

// TypeParameter returns the type parameter with the given name, if declared.
func (d *TypeDeclaration) TypeParameter(name string) (*TypeParameterDeclaration, bool) {
	for _, p := range d.TypeParameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// EnumDeclaration is an enumerated integer constant set.
type EnumDeclaration struct {
	Namespace string
	Name      string
	Members   []*EnumMember
	Excluded  bool
}

func (*EnumDeclaration) node()        {}
func (*EnumDeclaration) declaration() {}

func (d *EnumDeclaration) DeclNamespace() string { return d.Namespace }
func (d *EnumDeclaration) DeclName() string      { return d.Name }
func (d *EnumDeclaration) IsExcluded() bool      { return d.Excluded }

// EnumMember is one named value of an enum.
type EnumMember struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

func (*EnumMember) node() {}

// FieldDeclaration is a serializable member. Name is the exact wire name.
type FieldDeclaration struct {
	Name string   `yaml:"name"`
	Type *TypeRef `yaml:"type"`
}

func (*FieldDeclaration) node() {}

// ConstantDeclaration is a compile-time integer or string constant.
type ConstantDeclaration struct {
	Name  string
	Value constant.Value
}

func (*ConstantDeclaration) node() {}

// TypeParameterDeclaration is a generic parameter of a TypeDeclaration.
type TypeParameterDeclaration struct {
	Name        string     `yaml:"name"`
	Constraints []*TypeRef `yaml:"constraints,omitempty"`
}

func (*TypeParameterDeclaration) node() {}

// SortedAliasKeys returns the alias map keys in order.
func SortedAliasKeys(p *Program) []string {
	keys := make([]string, 0, len(p.Aliases))
	for k := range p.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
