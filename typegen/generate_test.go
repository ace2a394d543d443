package typegen

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/typemap"
)

// fakeGenerator lists the emitted names of every declaration, one per line.
type fakeGenerator struct {
	lang  string
	fail  error
	calls atomic.Int32
}

func (g *fakeGenerator) Language() string      { return g.lang }
func (g *fakeGenerator) FileExtension() string { return g.lang }

func (g *fakeGenerator) NamePolicy() names.Policy {
	return names.Policy{Unmangled: names.DefaultUnmangled}
}

func (g *fakeGenerator) TypeTargets() typemap.Targets {
	return typemap.Targets{
		typemap.Integer: "int", typemap.Double: "double", typemap.Boolean: "bool",
		typemap.String: "string", typemap.DateTime: "time", typemap.Dynamic: "any",
	}
}

func (g *fakeGenerator) Emit(p *contract.Program, table *names.Table, types *typemap.Mapper, cfg EmitConfig) ([]File, error) {
	g.calls.Add(1)
	if g.fail != nil {
		return nil, g.fail
	}
	binder := NewBinder(table, types)
	content := ""
	for _, e := range table.Entries() {
		if _, ok := e.Decl.(*contract.TypeDeclaration); ok {
			if _, err := binder.ShapeOf(e, cfg.ErrorCodesName); err != nil {
				return nil, err
			}
		}
		content += e.Name + "\n"
	}
	return []File{{Name: cfg.ProgramName + "." + g.lang, Content: content}}, nil
}

func sample() *contract.Program {
	return &contract.Program{
		Name: "Contracts",
		Declarations: []contract.Declaration{
			&contract.TypeDeclaration{Namespace: "App", Name: "User", Fields: []*contract.FieldDeclaration{
				{Name: "Name", Type: contract.Ref("string")},
			}},
			&contract.TypeDeclaration{Namespace: "App", Name: "GetUser", Kind: contract.KindQuery,
				Result: contract.RefIn("App", "User")},
		},
	}
}

// =============================================================================
// Orchestration
// =============================================================================

func TestGenerate_RunsEveryGenerator(t *testing.T) {
	a, b := &fakeGenerator{lang: "a"}, &fakeGenerator{lang: "b"}

	result, err := Generate(sample(), []Generator{a, b}, Options{})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "Contracts.a", result.Files[0].Name)
	assert.Equal(t, "a", result.Files[0].Language)
	assert.Equal(t, "GetUser\nUser\n", result.Files[0].Content)
	assert.Equal(t, "Contracts.b", result.Files[1].Name)
	assert.Equal(t, map[string]int{"a": 2, "b": 2}, result.Declarations)
}

func TestGenerate_SelectsLanguages(t *testing.T) {
	a, b := &fakeGenerator{lang: "a"}, &fakeGenerator{lang: "b"}

	result, err := Generate(sample(), []Generator{a, b}, Options{Languages: []string{"B"}})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "b", result.Files[0].Language)
	assert.Equal(t, int32(0), a.calls.Load())
}

func TestGenerate_ConfigErrorsStopBeforeEmission(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"unknown language", Options{Languages: []string{"cobol"}}},
		{"duplicate language", Options{Languages: []string{"a", "a"}}},
		{"bad error code name", Options{ErrorCodesName: "Error Codes"}},
		{"preamble for unknown language", Options{Preambles: map[string]string{"cobol": "x"}}},
		{"bad type override", Options{TypeOverrides: map[string]string{"decimal": "money"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeGenerator{lang: "a"}
			result, err := Generate(sample(), []Generator{a}, tt.opts)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.IsInvalidConfig(err), "got %v", err)
			assert.Equal(t, int32(0), a.calls.Load())
		})
	}
}

func TestGenerate_AllOrNothing(t *testing.T) {
	ok := &fakeGenerator{lang: "ok"}
	broken := &fakeGenerator{lang: "broken", fail: errors.MarkMalformed("boom")}

	result, err := Generate(sample(), []Generator{ok, broken}, Options{})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errors.ErrMalformedContract))
	assert.Contains(t, err.Error(), "broken generator")
}

func TestGenerate_InvalidProgram(t *testing.T) {
	p := sample()
	p.Declarations[1].(*contract.TypeDeclaration).Result = nil

	_, err := Generate(p, []Generator{&fakeGenerator{lang: "a"}}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedContract))
}

func TestGenerate_UnresolvedReference(t *testing.T) {
	p := sample()
	p.Declarations[1].(*contract.TypeDeclaration).Result = contract.RefIn("App", "Nope")

	_, err := Generate(p, []Generator{&fakeGenerator{lang: "a"}}, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvedReference(err))
}

func TestGenerate_Preamble(t *testing.T) {
	tests := []struct {
		name     string
		preamble string
		want     string
	}{
		{"with newline", "// header\n", "// header\nGetUser\nUser\n"},
		{"prepended verbatim", "/* a */ ", "/* a */ GetUser\nUser\n"},
		{"none", "", "GetUser\nUser\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(sample(), []Generator{&fakeGenerator{lang: "a"}}, Options{
				Preambles: map[string]string{"a": tt.preamble},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Files[0].Content)
		})
	}
}

func TestGenerate_NameTables(t *testing.T) {
	result, err := Generate(sample(), []Generator{&fakeGenerator{lang: "a"}}, Options{})
	require.NoError(t, err)

	table, ok := result.Names["a"]
	require.True(t, ok)
	entry, ok := table.Lookup("App.GetUser")
	require.True(t, ok)
	assert.Equal(t, "GetUser", entry.Name)
	assert.Equal(t, table.Len(), result.Declarations["a"])
}

func TestGenerate_WarnsShadowedDeclaration(t *testing.T) {
	defer func() { logger.Logger = zap.NewNop().Sugar() }()
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Logger = zap.New(core).Sugar()

	p := sample()
	p.Declarations = append(p.Declarations, &contract.TypeDeclaration{Namespace: "App", Name: "Date"})

	_, err := Generate(p, []Generator{&fakeGenerator{lang: "a"}}, Options{})
	require.NoError(t, err)

	shadowed := logs.FilterMessage("declaration is shadowed by a primitive type").AllUntimed()
	require.Len(t, shadowed, 1)
	assert.Equal(t, "App.Date", shadowed[0].ContextMap()[logger.FieldDeclaration])
}

func TestGenerate_UnmangledExtendsPolicy(t *testing.T) {
	p := sample()
	p.Declarations = append(p.Declarations,
		&contract.TypeDeclaration{Namespace: "App", Name: "Audited",
			BaseTypes: []*contract.TypeRef{contract.Ref("IAuditable")}})

	_, err := Generate(p, []Generator{&fakeGenerator{lang: "a"}}, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvedReference(err))

	_, err = Generate(p, []Generator{&fakeGenerator{lang: "a"}}, Options{Unmangled: []string{"IAuditable"}})
	assert.NoError(t, err)
}

func TestGenerate_DoesNotMutateProgram(t *testing.T) {
	p := sample()
	p.Declarations[0].(*contract.TypeDeclaration).Excluded = true
	before := len(p.Declarations)

	_, err := Generate(p, []Generator{&fakeGenerator{lang: "a"}}, Options{})
	// GetUser's result now points at an excluded declaration
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvedReference(err))
	assert.Len(t, p.Declarations, before)
}
