// Package util holds helpers shared by the language generators.
package util

import (
	"strings"
	"unicode"
)

// ToIdentifier converts a wire name to a lower-camel identifier valid in
// Dart and TypeScript. Runs of characters other than ASCII letters, digits and
// "_" separate words: "first-name" -> "firstName", "$type" -> "type". A
// leading digit gets an "n" prefix. It returns "" when nothing is left.
func ToIdentifier(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !(r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	})
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(ToLowerCamel(words[0]))
	for _, w := range words[1:] {
		sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	id := sb.String()
	if id[0] >= '0' && id[0] <= '9' {
		id = "n" + id
	}
	return id
}

// ToLowerCamel converts a PascalCase wire name to a lower-camel identifier.
// A leading acronym is lowered as a unit: "ID" -> "id", "HTTPServer" -> "httpServer",
// "URLs" -> "urls".
func ToLowerCamel(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}

	switch {
	case upper == 0:
		return s
	case upper == 1 || upper == len(runes):
		// "Name" -> "name", "ID" -> "id"
		for i := 0; i < upper; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	case unicode.IsLower(runes[upper]) && runes[upper] != 's':
		// "HTTPServer": keep the last capital, it starts the next word
		for i := 0; i < upper-1; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	default:
		// "URLs", "ID2"
		for i := 0; i < upper; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	return string(runes)
}
