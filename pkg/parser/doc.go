// Package parser converts SQL text into a typed AST with lossless comment
// attachment and per-lexeme source positions.
//
// The parser is a hand-written recursive descent parser over the lexeme
// stream produced by pkg/lexer, using precedence climbing for expressions.
// It supports SELECT (including set operations, VALUES, CTEs, and window
// functions), INSERT/UPDATE/DELETE with RETURNING, CREATE/ALTER/DROP TABLE,
// CREATE INDEX, and EXPLAIN/ANALYZE.
//
// Every comment in the source is attached to exactly one AST node at parse
// time, anchored as a header, leading, or trailing comment, which lets the
// formatter re-emit comments without loss. The full lexeme stream is retained
// on the returned Script so editor tooling can map a (line, column)
// coordinate back to the enclosing lexeme and its syntactic role.
//
// Example usage:
//
//	script, err := parser.ParseString("SELECT id, name FROM users WHERE active = true")
//	if err != nil {
//		log.Fatalf("Parse error: %v", err)
//	}
//
//	for _, stmt := range script.Statements {
//		if q, ok := stmt.(*parser.SimpleSelectQuery); ok {
//			fmt.Printf("SELECT with %d items\n", len(q.Items))
//		}
//	}
//
// Parsing fails fast: malformed input produces a *ParseError carrying the
// offending position and a description of what was expected. Callers that
// prefer structured failure over an error return can use Analyze.
package parser
