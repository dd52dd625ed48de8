// Package lexer converts raw SQL text into a stream of position-tagged
// lexemes suitable for hand-written parsing and position-based tooling.
//
// Every lexeme carries its 1-based start and end (line, column) span, and
// comments are emitted as lexemes rather than discarded so that the parser
// can attach them to AST nodes. The full lexeme stream for a statement is
// retained by the parser, which lets downstream consumers (rename tools,
// IDE integrations) map an editor coordinate back to the enclosing lexeme.
//
// Example usage:
//
//	lexemes, err := lexer.Tokenize("SELECT id FROM users -- primary key")
//	if err != nil {
//		log.Fatalf("Lex error: %v", err)
//	}
//
//	for _, lx := range lexemes {
//		fmt.Printf("%s %q at %d:%d\n", lx.Kind(), lx.Value, lx.Pos.Line, lx.Pos.Column)
//	}
//
// Tokenize fails with a *LexError when it encounters an unterminated string,
// quoted identifier, or block comment. Tabs advance the column by exactly
// one, matching the coordinates reported by the parser and formatter.
package lexer
