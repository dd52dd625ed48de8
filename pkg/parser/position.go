package parser

import (
	"sort"

	sqllexer "github.com/pseudomuto/sqlkit/pkg/lexer"
)

type (
	// Role describes the syntactic role of a lexeme for position-based
	// tooling. Kind is one of keyword, identifier, alias, cte, literal,
	// operator, punctuation, parameter, comment, or other. CTE names the
	// logical CTE identity when Kind is "cte": the definition and every
	// reference of one CTE share the same value.
	Role struct {
		Kind string
		CTE  string
	}

	// PositionIndex maps editor coordinates back to lexemes. It is built
	// once per parse over the retained lexeme stream, sorted by source
	// position, and answers lookups by binary search.
	PositionIndex struct {
		lexemes []sqllexer.Lexeme
		roles   map[int]Role // keyed by lexeme byte offset
	}
)

func newPositionIndex(lexemes []sqllexer.Lexeme, roles map[int]Role) *PositionIndex {
	return &PositionIndex{lexemes: lexemes, roles: roles}
}

// Lexemes returns the full lexeme stream of the parse, comments included,
// in source order.
func (ix *PositionIndex) Lexemes() []sqllexer.Lexeme { return ix.lexemes }

// At resolves a 1-based (line, column) coordinate to the enclosing lexeme
// and its syntactic role. The third return is false when the coordinate
// falls on whitespace or outside the input.
func (ix *PositionIndex) At(line, column int) (sqllexer.Lexeme, Role, bool) {
	i := sort.Search(len(ix.lexemes), func(i int) bool {
		end := ix.lexemes[i].End
		return end.Line > line || (end.Line == line && end.Column > column)
	})
	if i >= len(ix.lexemes) || !ix.lexemes[i].Contains(line, column) {
		return sqllexer.Lexeme{}, Role{}, false
	}

	lx := ix.lexemes[i]
	if role, ok := ix.roles[lx.Pos.Offset]; ok {
		return lx, role, true
	}
	return lx, Role{Kind: lx.Kind()}, true
}
