package format

import (
	"strings"

	sqllexer "github.com/pseudomuto/sqlkit/pkg/lexer"
)

// spellingSource pairs keywords the formatter emits with the keyword lexemes
// of the original parse, in source order, so preserve-case rendering reuses
// the author's spellings. The formatter emits keywords in source order; the
// look-ahead window absorbs source keywords that produce no output (a
// discarded ALL after SELECT, a soft keyword used as a name) without letting
// one synthesized keyword desynchronize the rest of the statement.
type spellingSource struct {
	lexemes []sqllexer.Lexeme
	cur     int
}

// spellingWindow bounds how far ahead one emitted keyword may search.
const spellingWindow = 3

func newSpellingSource(lexemes []sqllexer.Lexeme) *spellingSource {
	kws := make([]sqllexer.Lexeme, 0, len(lexemes))
	for _, lx := range lexemes {
		if lx.Type == sqllexer.Keyword {
			kws = append(kws, lx)
		}
	}
	return &spellingSource{lexemes: kws}
}

// take returns the source spelling of word if it appears within the window,
// advancing past it. Emitted keywords with no source lexeme (an AS the
// author omitted) report false and leave the cursor in place.
func (s *spellingSource) take(word string) (string, bool) {
	limit := s.cur + spellingWindow
	if limit > len(s.lexemes) {
		limit = len(s.lexemes)
	}
	for i := s.cur; i < limit; i++ {
		if strings.EqualFold(s.lexemes[i].Value, word) {
			s.cur = i + 1
			return s.lexemes[i].Value, true
		}
	}
	return "", false
}
