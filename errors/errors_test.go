package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
}

// =============================================================================
// Compiler failure classes
// =============================================================================

func TestMarkUnresolved(t *testing.T) {
	err := MarkUnresolved("App.Missing", "field %s references %s", "Owner", "App.Missing")

	assert.True(t, IsUnresolvedReference(err))
	assert.False(t, IsInvalidConfig(err))
	assert.Equal(t, "field Owner references App.Missing", err.Error())
	assert.Contains(t, FlattenHints(err), "App.Missing")
}

func TestMarkSurvivesWrapping(t *testing.T) {
	err := Wrap(MarkMalformed("query %s has no result type", "GetUser"), "dart")

	assert.True(t, Is(err, ErrMalformedContract))
	assert.Contains(t, err.Error(), "dart: query GetUser has no result type")
}

func TestIsNamingError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"exhausted", Mark(New("x"), ErrManglingExhausted), true},
		{"collision", Wrap(Mark(New("x"), ErrNameCollision), "ctx"), true},
		{"duplicate", Mark(New("x"), ErrDuplicateDeclaration), true},
		{"config", MarkInvalidConfig("bad"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNamingError(tt.err))
		})
	}
}

func ExampleWrap() {
	baseErr := New("unknown language")
	err := Wrap(baseErr, "failed to validate options")
	fmt.Println(err)
	// Output: failed to validate options: unknown language
}
