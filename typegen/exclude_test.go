package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractgen/contract"
)

func nestedProgram() *contract.Program {
	return &contract.Program{
		Name: "Contracts",
		Declarations: []contract.Declaration{
			&contract.TypeDeclaration{Namespace: "App.Users", Name: "Parent", Kind: contract.KindCommand,
				Nested: []contract.Declaration{
					&contract.TypeDeclaration{Namespace: "App.Users", Name: "Child", Nested: []contract.Declaration{
						&contract.EnumDeclaration{Namespace: "App.Users", Name: "Leaf"},
					}},
					&contract.TypeDeclaration{Namespace: "App.Users", Name: "Sibling"},
				}},
			&contract.TypeDeclaration{Namespace: "App.Internal.Jobs", Name: "Job"},
			&contract.TypeDeclaration{Namespace: "App.InternalApi", Name: "Ping", Kind: contract.KindQuery, Result: contract.Ref("bool")},
		},
		Aliases: map[string][]string{"App.Users.Parent": {"parent"}},
	}
}

func qualifiedNames(p *contract.Program) []string {
	var out []string
	_ = contract.Walk(p, func(v contract.Visit) error {
		out = append(out, v.Qualified())
		return nil
	})
	return out
}

func TestExclude_FlagPropagatesToNested(t *testing.T) {
	p := nestedProgram()
	p.Declarations[0].(*contract.TypeDeclaration).Excluded = true

	out, removed := Exclude(p, ExcludeRules{})
	assert.Equal(t, []string{"App.Internal.Jobs.Job", "App.InternalApi.Ping"}, qualifiedNames(out))
	assert.Equal(t, []string{
		"App.Users.Parent",
		"App.Users.Parent.Child",
		"App.Users.Parent.Child.Leaf",
		"App.Users.Parent.Sibling",
	}, removed)
	assert.Empty(t, out.Aliases)
}

func TestExclude_NestedOnly(t *testing.T) {
	p := nestedProgram()
	parent := p.Declarations[0].(*contract.TypeDeclaration)
	parent.Nested[0].(*contract.TypeDeclaration).Excluded = true

	out, removed := Exclude(p, ExcludeRules{})
	assert.Equal(t, []string{"App.Users.Parent.Child", "App.Users.Parent.Child.Leaf"}, removed)
	assert.Contains(t, qualifiedNames(out), "App.Users.Parent.Sibling")
	assert.NotContains(t, qualifiedNames(out), "App.Users.Parent.Child")

	// the input keeps its nested declarations
	assert.Len(t, parent.Nested, 2)
	assert.NotSame(t, parent, out.Declarations[0])
	assert.Equal(t, []string{"parent"}, out.Aliases["App.Users.Parent"])
}

func TestExclude_Rules(t *testing.T) {
	out, removed := Exclude(nestedProgram(), ExcludeRules{
		Namespaces: []string{"App.Internal"},
		Types:      []string{"App.Users.Parent.Sibling"},
	})

	// App.InternalApi is not below App.Internal
	assert.Equal(t, []string{"App.Internal.Jobs.Job", "App.Users.Parent.Sibling"}, removed)
	assert.Contains(t, qualifiedNames(out), "App.InternalApi.Ping")
}

func TestExclude_UnchangedSubtreesShared(t *testing.T) {
	p := nestedProgram()
	out, removed := Exclude(p, ExcludeRules{})
	require.Empty(t, removed)
	for i := range p.Declarations {
		assert.Same(t, p.Declarations[i], out.Declarations[i])
	}
}
