package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Tokenize scans sql into an ordered lexeme stream. The stream always ends
// with a single EOF lexeme carrying the position just past the input.
// Whitespace is consumed to advance positions but never emitted; comments are
// emitted. Tabs advance the column by one.
func Tokenize(sql string) ([]Lexeme, error) {
	s := &scanner{src: sql, pos: lexer.Position{Line: 1, Column: 1}}
	return s.run()
}

type scanner struct {
	src     string
	pos     lexer.Position
	lexemes []Lexeme
}

func (s *scanner) run() ([]Lexeme, error) {
	for !s.eof() {
		s.skipSpace()
		if s.eof() {
			break
		}

		start := s.pos
		r := s.peek()

		switch {
		case r == '-' && s.peekAt(1) == '-':
			s.lexLineComment(start)
		case r == '/' && s.peekAt(1) == '*':
			if err := s.lexBlockComment(start); err != nil {
				return nil, err
			}
		case r == '\'':
			if err := s.lexQuoted(start, '\'', '\'', String, "unterminated string literal"); err != nil {
				return nil, err
			}
		case r == '"':
			if err := s.lexQuoted(start, '"', '"', QuotedIdent, "unterminated quoted identifier"); err != nil {
				return nil, err
			}
		case r == '`':
			if err := s.lexQuoted(start, '`', '`', QuotedIdent, "unterminated quoted identifier"); err != nil {
				return nil, err
			}
		case r == '[':
			if err := s.lexQuoted(start, '[', ']', QuotedIdent, "unterminated bracketed identifier"); err != nil {
				return nil, err
			}
		case isDigit(r) || (r == '.' && isDigit(s.peekAt(1))):
			s.lexNumber(start)
		case isIdentStart(r):
			s.lexIdent(start)
		case r == ':' || r == '@' || r == '$' || r == '?':
			s.lexParamOrOperator(start)
		default:
			if err := s.lexOperatorOrPunct(start); err != nil {
				return nil, err
			}
		}
	}

	s.lexemes = append(s.lexemes, Lexeme{
		Token: lexer.Token{Type: lexer.EOF, Pos: s.pos},
		End:   s.pos,
	})
	return s.lexemes, nil
}

// advance consumes one rune, updating line/column tracking. A newline resets
// the column to 1; every other rune, tabs included, advances it by one.
func (s *scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.pos.Offset:])
	s.pos.Offset += size
	if r == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
	return r
}

func (s *scanner) peek() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.pos.Offset:])
	if size == 0 {
		return 0
	}
	return r
}

// peekAt returns the rune n runes ahead of the cursor, or 0 past the end.
func (s *scanner) peekAt(n int) rune {
	off := s.pos.Offset
	for ; n > 0; n-- {
		_, size := utf8.DecodeRuneInString(s.src[off:])
		if size == 0 {
			return 0
		}
		off += size
	}
	r, size := utf8.DecodeRuneInString(s.src[off:])
	if size == 0 {
		return 0
	}
	return r
}

func (s *scanner) eof() bool {
	return s.pos.Offset >= len(s.src)
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r':
			s.advance()
		default:
			return
		}
	}
}

func (s *scanner) emit(typ lexer.TokenType, start lexer.Position) {
	s.lexemes = append(s.lexemes, Lexeme{
		Token: lexer.Token{Type: typ, Value: s.src[start.Offset:s.pos.Offset], Pos: start},
		End:   s.pos,
	})
}

func (s *scanner) lexLineComment(start lexer.Position) {
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
	s.emit(Comment, start)
}

func (s *scanner) lexBlockComment(start lexer.Position) error {
	s.advance() // /
	s.advance() // *
	for !s.eof() {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.advance()
			s.advance()
			s.emit(Comment, start)
			return nil
		}
		s.advance()
	}
	return &LexError{Msg: "unterminated block comment", Pos: start}
}

// lexQuoted scans a delimited literal or identifier. A doubled closing
// delimiter or a backslash escape keeps the scan going.
func (s *scanner) lexQuoted(start lexer.Position, open, close rune, typ lexer.TokenType, unterminated string) error {
	s.advance() // opening delimiter
	for !s.eof() {
		r := s.advance()
		switch {
		case r == '\\' && !s.eof():
			s.advance()
		case r == close:
			if open == close && s.peek() == close {
				s.advance() // doubled delimiter escape
				continue
			}
			s.emit(typ, start)
			return nil
		}
	}
	return &LexError{Msg: unterminated, Pos: start}
}

func (s *scanner) lexNumber(start lexer.Position) {
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
	if !s.eof() && s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}
	}
	if r := s.peek(); r == 'e' || r == 'E' {
		next := s.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekAt(2))) {
			s.advance()
			if r := s.peek(); r == '+' || r == '-' {
				s.advance()
			}
			for !s.eof() && isDigit(s.peek()) {
				s.advance()
			}
		}
	}
	s.emit(Number, start)
}

func (s *scanner) lexIdent(start lexer.Position) {
	for !s.eof() && isIdentPart(s.peek()) {
		s.advance()
	}
	text := s.src[start.Offset:s.pos.Offset]
	if IsKeyword(text) {
		s.emit(Keyword, start)
		return
	}
	s.emit(Ident, start)
}

func (s *scanner) lexParamOrOperator(start lexer.Position) {
	switch s.advance() {
	case ':':
		if s.peek() == ':' {
			s.advance()
			s.emit(Operator, start) // :: cast
			return
		}
		if isIdentStart(s.peek()) {
			s.lexParamName(start)
			return
		}
		s.emit(Operator, start)
	case '@':
		if isIdentStart(s.peek()) {
			s.lexParamName(start)
			return
		}
		s.emit(Operator, start)
	case '$':
		if isDigit(s.peek()) || isIdentStart(s.peek()) {
			s.lexParamName(start)
			return
		}
		s.emit(Operator, start)
	case '?':
		s.emit(Parameter, start)
	}
}

func (s *scanner) lexParamName(start lexer.Position) {
	for !s.eof() && isIdentPart(s.peek()) {
		s.advance()
	}
	s.emit(Parameter, start)
}

// multiCharOps lists operators that span two characters; longest match wins.
var multiCharOps = []string{"<=", ">=", "<>", "!=", "||"}

func (s *scanner) lexOperatorOrPunct(start lexer.Position) error {
	two := string(s.peek()) + string(s.peekAt(1))
	for _, op := range multiCharOps {
		if two == op {
			s.advance()
			s.advance()
			s.emit(Operator, start)
			return nil
		}
	}

	r := s.advance()
	switch r {
	case '(', ')', ',', '.', ';':
		s.emit(Punct, start)
	case '=', '<', '>', '+', '-', '*', '/', '%', '!', '|', '&', '^', '~':
		s.emit(Operator, start)
	default:
		return &LexError{Msg: fmt.Sprintf("unexpected character %q", r), Pos: start}
	}
	return nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
