package session

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
)

// LaunchSyntax turns a class name and string arguments into a call of the
// main entry point of the class.
type LaunchSyntax func(class string, args []string) string

// JavaLaunch produces Class.main(new String[]{"arg", ...});.
func JavaLaunch(class string, args []string) string {
	return class + ".main(new String[]{" + quoteAll(args) + "});"
}

// ScriptLaunch produces Class.main(["arg", ...]);, for interpreters of
// languages with array literals in brackets.
func ScriptLaunch(class string, args []string) string {
	return class + ".main([" + quoteAll(args) + "]);"
}

func quoteAll(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quote(arg)
	}
	return strings.Join(quoted, ",")
}

// Quotes s as a string literal valid in both Java and JavaScript. Characters
// that are not printable are written as UTF-16 \u escapes; line terminators
// use their short escapes, since Java translates \u escapes before lexing.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			} else if r1, r2 := utf16.EncodeRune(r); r1 != unicode.ReplacementChar {
				fmt.Fprintf(&sb, `\u%04x\u%04x`, r1, r2)
			} else {
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// RewriteLaunch rewrites the launch form "<keyword> Class arg1 arg2 ..." into
// a direct call built by syntax. A single trailing ";" is dropped first. The
// input must already be trimmed. The second return value reports whether the
// input was in launch form; if not, it is returned unchanged.
func RewriteLaunch(keyword string, syntax LaunchSyntax, s string) (string, bool) {
	if !strings.HasPrefix(s, keyword+" ") {
		return s, false
	}
	fields := strings.Fields(strings.TrimSuffix(s, ";"))
	if len(fields) < 2 {
		return s, false
	}
	return syntax(fields[1], fields[2:]), true
}
