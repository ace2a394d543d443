package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Casing tests
// =============================================================================

func TestToIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FirstName", "firstName"},
		{"first-name", "firstName"},
		{"$type", "type"},
		{"@odata.etag", "odataEtag"},
		{"user_id", "user_id"},
		{"2fa", "n2fa"},
		{"ID-Card", "idCard"},
		{"héllo", "hLlo"},
		{"$$", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToIdentifier(tt.input))
		})
	}
}

func TestToLowerCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Name", "name"},
		{"FirstName", "firstName"},
		{"ID", "id"},
		{"UserID", "userID"},
		{"HTTPServer", "httpServer"},
		{"URLs", "urls"},
		{"already", "already"},
		{"X", "x"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToLowerCamel(tt.input))
		})
	}
}

// =============================================================================
// Text helpers
// =============================================================================

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", Indent("a\n\nb", 1, "  "))
	assert.Equal(t, "a", Indent("a", 0, "  "))
}

func TestJoinBlocks(t *testing.T) {
	assert.Equal(t, "a\n\nb", JoinBlocks("a\n", "", "  ", "b"))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"App.Users.CreateUser"`, Quote("App.Users.CreateUser"))
	assert.Equal(t, `"a\"b\\c$d"`, Quote(`a"b\c$d`))
	assert.Equal(t, `"a\$b"`, Quote(`a$b`, '$'))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}
