package lexer

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token types produced by Tokenize. These are participle lexer token types so
// that lexemes interoperate with participle-based tooling.
const (
	// Keyword is a reserved SQL word (SELECT, FROM, WHERE, ...).
	Keyword lexer.TokenType = iota + 1
	// Ident is a bare identifier.
	Ident
	// QuotedIdent is a double-quoted, backtick-quoted, or bracketed identifier.
	QuotedIdent
	// Number is an integer, decimal, or exponent literal.
	Number
	// String is a single-quoted string literal.
	String
	// Operator covers comparison, arithmetic, and cast operators.
	Operator
	// Punct covers structural punctuation: ( ) , . ;
	Punct
	// Comment is a line (--) or block (/* */) comment.
	Comment
	// Parameter is a placeholder: :name, @name, $1, or ?.
	Parameter
)

var kindNames = map[lexer.TokenType]string{
	lexer.EOF:   "EOF",
	Keyword:     "keyword",
	Ident:       "identifier",
	QuotedIdent: "identifier",
	Number:      "literal",
	String:      "literal",
	Operator:    "operator",
	Punct:       "punctuation",
	Comment:     "comment",
	Parameter:   "parameter",
}

// reserved holds the words that may never serve as identifiers. soft holds
// the remaining recognized keywords: they lex as Keyword so grammar positions
// match them, but the parser accepts them as identifiers everywhere else
// (SELECT id AS key).
var (
	reserved = map[string]bool{}
	soft     = map[string]bool{}
)

func init() {
	for _, kw := range []string{
		"SELECT", "FROM", "WHERE", "GROUP", "ORDER", "BY", "HAVING", "LIMIT", "OFFSET",
		"AS", "ON", "AND", "OR", "NOT", "IN", "LIKE", "BETWEEN", "IS", "NULL", "TRUE", "FALSE",
		"CASE", "WHEN", "THEN", "ELSE", "END", "EXISTS", "DISTINCT", "ALL",
		"JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "OUTER", "USING",
		"UNION", "INTERSECT", "EXCEPT", "WITH",
		"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "RETURNING", "DEFAULT",
		"CREATE", "TABLE", "ALTER", "DROP", "TO",
		"UNIQUE", "IF", "PRIMARY", "EXPLAIN", "ANALYZE",
		"OVER", "ASC", "DESC", "NULLS", "CAST", "INTERVAL",
	} {
		reserved[kw] = true
	}
	for _, kw := range []string{
		"ADD", "COLUMN", "CUBE", "FIRST", "GROUPING", "INDEX", "KEY", "LAST",
		"PARTITION", "RANGE", "RECURSIVE", "RENAME", "ROLLUP", "ROWS", "SETS", "TEMPORARY",
	} {
		soft[kw] = true
	}
}

// IsKeyword reports whether word is a recognized SQL keyword, reserved or
// soft (case-insensitive).
func IsKeyword(word string) bool {
	w := strings.ToUpper(word)
	return reserved[w] || soft[w]
}

// IsReserved reports whether word is fully reserved and may never be used as
// an identifier (case-insensitive).
func IsReserved(word string) bool {
	return reserved[strings.ToUpper(word)]
}

type (
	// Lexeme is a single classified token with its full source span. The
	// embedded participle token supplies Type, Value, and the start
	// position; End is the position one column past the final character.
	Lexeme struct {
		lexer.Token

		End lexer.Position
	}

	// LexError reports an unterminated string, quoted identifier, or block
	// comment at a specific source position.
	LexError struct {
		Msg string
		Pos lexer.Position
	}
)

// Kind returns the coarse classification used by position-lookup consumers:
// keyword, identifier, operator, literal, punctuation, comment, or parameter.
func (l Lexeme) Kind() string {
	if name, ok := kindNames[l.Type]; ok {
		return name
	}
	return "other"
}

// Contains reports whether the 1-based (line, column) coordinate falls inside
// this lexeme's span.
func (l Lexeme) Contains(line, column int) bool {
	if line < l.Pos.Line || line > l.End.Line {
		return false
	}
	if line == l.Pos.Line && column < l.Pos.Column {
		return false
	}
	if line == l.End.Line && column >= l.End.Column {
		return false
	}
	return true
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Message returns the error text without the position prefix.
func (e *LexError) Message() string { return e.Msg }

// Position returns the source position of the failure.
func (e *LexError) Position() lexer.Position { return e.Pos }
