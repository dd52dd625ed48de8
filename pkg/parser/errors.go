package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParseError reports malformed input at a specific source position. It
// implements participle.Error so callers already handling participle parsers
// can treat both uniformly.
type ParseError struct {
	Msg      string
	Expected string
	Found    string
	Pos      lexer.Position
}

var _ participle.Error = (*ParseError)(nil)

func (e *ParseError) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message returns the error text without the position prefix.
func (e *ParseError) Message() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: expected %s, found %s", e.Msg, e.Expected, e.Found)
	}
	return e.Msg
}

// Position returns the source position of the failure.
func (e *ParseError) Position() lexer.Position { return e.Pos }
