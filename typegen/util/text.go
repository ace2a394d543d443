package util

import "strings"

// Indent prefixes every non-empty line of s with level copies of unit.
func Indent(s string, level int, unit string) string {
	if level <= 0 || s == "" {
		return s
	}
	prefix := strings.Repeat(unit, level)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// JoinBlocks joins non-empty fragments with a blank line between them.
func JoinBlocks(blocks ...string) string {
	kept := blocks[:0:0]
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, strings.TrimRight(b, "\n"))
		}
	}
	return strings.Join(kept, "\n\n")
}

// Quote renders s as a double-quoted string literal. Characters in escape are
// additionally backslash-escaped (Dart needs "$").
func Quote(s string, escape ...rune) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			for _, e := range escape {
				if r == e {
					sb.WriteByte('\\')
					break
				}
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
