// Package format renders parsed SQL back to text under a configurable style.
//
// A Formatter binds a resolved style configuration (keyword casing,
// identifier escaping, indentation, separator break placement, comment export
// mode, parameter rendering) and walks statements from pkg/parser, driving a
// buffered line printer. Separator commas are placed in a second pass over
// the buffered lines, so a trailing comment on a list item never detaches the
// comma that follows it.
//
// Example usage:
//
//	script, _ := parser.ParseString(`SELECT id, name FROM users WHERE active = true`)
//
//	f, _ := format.New(&format.Options{
//		KeywordCase:      "lower",
//		IdentifierEscape: format.Escape(format.EscapeQuote),
//	})
//	result, _ := f.FormatScript(script)
//	fmt.Println(result.SQL)
//
// Output:
//
//	select "id", "name" from "users" where "active" = true
//
// Formatting is pure: the same AST and options always produce the same text,
// and formatting the re-parsed output is a fixed point.
package format
