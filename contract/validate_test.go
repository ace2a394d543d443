package contract

import (
	"go/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractgen/errors"
)

func program(decls ...Declaration) *Program {
	return &Program{Name: "Contracts", Declarations: decls}
}

func TestValidate_Valid(t *testing.T) {
	p := program(
		&TypeDeclaration{
			Namespace: "App",
			Name:      "Page",
			TypeParameters: []*TypeParameterDeclaration{
				{Name: "T", Constraints: []*TypeRef{RefIn("App", "Entity")}},
			},
			Fields: []*FieldDeclaration{
				{Name: "Items", Type: ListOf(Ref("T"))},
				{Name: "Meta", Type: MapOf(Ref("string"), Ref("object"))},
			},
		},
		&TypeDeclaration{
			Namespace: "App",
			Name:      "GetPage",
			Kind:      KindQuery,
			Result:    RefIn("App", "Page", RefIn("App", "Entity")),
			Nested: []Declaration{
				&TypeDeclaration{Name: "ErrorCodes", Constants: []*ConstantDeclaration{
					{Name: "NotFound", Value: constant.MakeInt64(1)},
				}},
			},
		},
	)
	p.Aliases = map[string][]string{"App.GetPage": {"pages.get"}}

	assert.NoError(t, Validate(p))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		program *Program
		marker  error
	}{
		{
			name:    "query without result",
			program: program(&TypeDeclaration{Namespace: "N", Name: "Q", Kind: KindQuery}),
			marker:  errors.ErrMalformedContract,
		},
		{
			name: "generic command",
			program: program(&TypeDeclaration{Namespace: "N", Name: "C", Kind: KindCommand,
				TypeParameters: []*TypeParameterDeclaration{{Name: "T"}}}),
			marker: errors.ErrMalformedContract,
		},
		{
			name:    "command with result",
			program: program(&TypeDeclaration{Namespace: "N", Name: "C", Kind: KindCommand, Result: Ref("int")}),
			marker:  errors.ErrMalformedContract,
		},
		{
			name: "duplicate qualified name",
			program: program(
				&TypeDeclaration{Namespace: "N", Name: "T"},
				&EnumDeclaration{Namespace: "N", Name: "T"},
			),
			marker: errors.ErrDuplicateDeclaration,
		},
		{
			name: "duplicate nested name",
			program: program(&TypeDeclaration{Namespace: "N", Name: "P", Nested: []Declaration{
				&TypeDeclaration{Name: "C"},
				&EnumDeclaration{Name: "C"},
			}}),
			marker: errors.ErrDuplicateDeclaration,
		},
		{
			name: "array without element",
			program: program(&TypeDeclaration{Namespace: "N", Name: "T", Fields: []*FieldDeclaration{
				{Name: "Xs", Type: &TypeRef{ArrayLike: true}},
			}}),
			marker: errors.ErrMalformedContract,
		},
		{
			name: "dictionary with one argument",
			program: program(&TypeDeclaration{Namespace: "N", Name: "T", Fields: []*FieldDeclaration{
				{Name: "M", Type: &TypeRef{Dictionary: true, Arguments: []*TypeRef{Ref("string")}}},
			}}),
			marker: errors.ErrMalformedContract,
		},
		{
			name: "duplicate enum value",
			program: program(&EnumDeclaration{Namespace: "N", Name: "E", Members: []*EnumMember{
				{Name: "A", Value: 1}, {Name: "B", Value: 1},
			}}),
			marker: errors.ErrMalformedContract,
		},
		{
			name: "nested namespace mismatch",
			program: program(&TypeDeclaration{Namespace: "N", Name: "P", Nested: []Declaration{
				&TypeDeclaration{Namespace: "Other", Name: "C"},
			}}),
			marker: errors.ErrMalformedContract,
		},
		{
			name:    "bad namespace segment",
			program: program(&TypeDeclaration{Namespace: "N..M", Name: "T"}),
			marker:  errors.ErrMalformedContract,
		},
		{
			name:    "program name",
			program: &Program{Name: "my contracts"},
			marker:  errors.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.program)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.marker), "got %v", err)
		})
	}
}

func TestValidate_Aliases(t *testing.T) {
	base := func(aliases map[string][]string) *Program {
		p := program(
			&TypeDeclaration{Namespace: "N", Name: "DoIt", Kind: KindCommand},
			&TypeDeclaration{Namespace: "N", Name: "Other", Kind: KindCommand},
			&TypeDeclaration{Namespace: "N", Name: "Dto"},
		)
		p.Aliases = aliases
		return p
	}

	tests := []struct {
		name    string
		aliases map[string][]string
		wantErr bool
	}{
		{"valid", map[string][]string{"N.DoIt": {"legacy/do-it", "do"}}, false},
		{"unknown target", map[string][]string{"N.Missing": {"x"}}, true},
		{"plain target", map[string][]string{"N.Dto": {"x"}}, true},
		{"empty alias", map[string][]string{"N.DoIt": {""}}, true},
		{"whitespace", map[string][]string{"N.DoIt": {"do it"}}, true},
		{"leading slash", map[string][]string{"N.DoIt": {"/do"}}, true},
		{"quote", map[string][]string{"N.DoIt": {`do"it`}}, true},
		{"clashes with wire key", map[string][]string{"N.DoIt": {"N.Other"}}, true},
		{"used twice", map[string][]string{"N.DoIt": {"x"}, "N.Other": {"x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(base(tt.aliases))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsInvalidConfig(err), "got %v", err)
		})
	}
}
