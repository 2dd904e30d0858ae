// Package sqlutil holds helpers for the rare cases where a value has to be
// written into SQL text instead of being bound as a parameter.
package sqlutil

import "strings"

// escaper applies every replacement in a single left-to-right pass, so the
// output of one rule is never fed to another.
var escaper = strings.NewReplacer(
	"\x00", "",
	"\x1a", "",
	`'`, `''`,
	`\`, `\\`,
	`"`, `\"`,
)

// Escape makes text safe to embed inside a single-quoted SQL literal.
//
// NUL (0x00) and SUB (0x1A) bytes are removed, single quotes are doubled
// and backslashes and double quotes are backslash-escaped. Escaping is not
// idempotent: Escape(Escape(s)) escapes the escapes again.
//
// Prefer bound parameters. Escape exists for the places that cannot take
// one, such as DDL or vendor extensions, and its rules assume a server that
// treats backslash as an escape character.
func Escape(text string) string {
	return escaper.Replace(text)
}
