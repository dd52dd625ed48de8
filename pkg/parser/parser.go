package parser

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	sqllexer "github.com/pseudomuto/sqlkit/pkg/lexer"
)

// maxDepth bounds expression/query nesting so adversarial input fails with a
// ParseError instead of exhausting the stack.
const maxDepth = 200

// Parser is a single-use recursive descent parser over one lexeme stream.
type Parser struct {
	sig  []sqllexer.Lexeme   // significant lexemes, EOF-terminated
	gaps [][]sqllexer.Lexeme // gaps[i] holds comments between sig[i-1] and sig[i]
	cur  int

	gapMark int // first gap not yet drained
	last    Node
	lastGap int // gap index just past last's final token

	depth  int
	roles  map[int]Role      // keyed by lexeme byte offset
	scopes []map[string]bool // CTE names visible per nesting level
}

// Parse parses SQL statements from an io.Reader and returns the parsed
// script. This allows parsing SQL from any source that implements io.Reader,
// including files, strings, and in-memory buffers.
func Parse(reader io.Reader) (*Script, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SQL")
	}
	return ParseString(string(data))
}

// ParseString parses one or more ;-separated SQL statements into a Script.
// The returned script retains the full lexeme stream and a position index
// for (line, column) lookups. Errors are *sqllexer.LexError or *ParseError,
// both carrying the exact 1-based source position of the failure.
func ParseString(sql string) (*Script, error) {
	lexemes, err := sqllexer.Tokenize(sql)
	if err != nil {
		return nil, err
	}

	p := newParser(lexemes)
	statements, err := p.parseScript()
	if err != nil {
		return nil, err
	}

	return &Script{
		Statements: statements,
		Index:      newPositionIndex(lexemes, p.roles),
	}, nil
}

func newParser(lexemes []sqllexer.Lexeme) *Parser {
	p := &Parser{
		roles:  map[int]Role{},
		scopes: []map[string]bool{{}},
	}

	gap := []sqllexer.Lexeme(nil)
	for _, lx := range lexemes {
		if lx.Type == sqllexer.Comment {
			gap = append(gap, lx)
			continue
		}
		p.sig = append(p.sig, lx)
		p.gaps = append(p.gaps, gap)
		gap = nil
	}
	return p
}

func (p *Parser) parseScript() ([]Statement, error) {
	var statements []Statement

	for p.acceptPunct(";") {
	}
	if p.atEOF() {
		return nil, p.errHere("empty input: expected a statement")
	}

	for !p.atEOF() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
		p.element(stmt)

		if !p.acceptPunct(";") && !p.atEOF() {
			return nil, p.errExpected("';' or end of input")
		}
		for p.acceptPunct(";") {
		}
	}

	// Comments after the final token still need an owner.
	p.drainInto(statements[len(statements)-1], CommentTrailing)
	return statements, nil
}

// parseStatement dispatches on the leading keyword(s).
func (p *Parser) parseStatement() (Statement, error) {
	header := p.takeComments()

	var (
		stmt Statement
		err  error
	)

	switch {
	case p.isKeyword("SELECT"), p.isKeyword("WITH"), p.isKeyword("VALUES"), p.isPunct("("):
		stmt, err = p.parseSelectQuery()
	case p.isKeyword("INSERT"):
		stmt, err = p.parseInsert()
	case p.isKeyword("UPDATE"):
		stmt, err = p.parseUpdate()
	case p.isKeyword("DELETE"):
		stmt, err = p.parseDelete()
	case p.isKeyword("CREATE"):
		stmt, err = p.parseCreate()
	case p.isKeyword("ALTER"):
		stmt, err = p.parseAlterTable()
	case p.isKeyword("DROP"):
		stmt, err = p.parseDrop()
	case p.isKeyword("EXPLAIN"):
		stmt, err = p.parseExplain()
	case p.isKeyword("ANALYZE"):
		stmt, err = p.parseAnalyze()
	default:
		return nil, p.errExpected("a statement keyword (SELECT, INSERT, UPDATE, DELETE, CREATE, ALTER, DROP, EXPLAIN, or ANALYZE)")
	}
	if err != nil {
		return nil, err
	}

	attach(stmt, header, CommentHeader)
	return stmt, nil
}

// Cursor primitives.

func (p *Parser) peek() sqllexer.Lexeme { return p.sig[p.cur] }

func (p *Parser) peekN(n int) sqllexer.Lexeme {
	if p.cur+n >= len(p.sig) {
		return p.sig[len(p.sig)-1] // EOF
	}
	return p.sig[p.cur+n]
}

func (p *Parser) next() sqllexer.Lexeme {
	lx := p.sig[p.cur]
	if !lx.EOF() {
		p.cur++
	}
	return lx
}

func (p *Parser) atEOF() bool { return p.peek().EOF() }

func (p *Parser) isKeyword(kw string) bool {
	lx := p.peek()
	return lx.Type == sqllexer.Keyword && strings.EqualFold(lx.Value, kw)
}

func (p *Parser) isKeywordAt(n int, kw string) bool {
	lx := p.peekN(n)
	return lx.Type == sqllexer.Keyword && strings.EqualFold(lx.Value, kw)
}

func (p *Parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		return p.errExpected(kw)
	}
	return nil
}

func (p *Parser) isPunct(s string) bool {
	lx := p.peek()
	return lx.Type == sqllexer.Punct && lx.Value == s
}

func (p *Parser) acceptPunct(s string) bool {
	if p.isPunct(s) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expectPunct(s string) error {
	if !p.acceptPunct(s) {
		return p.errExpected("'" + s + "'")
	}
	return nil
}

func (p *Parser) isOperator(s string) bool {
	lx := p.peek()
	return lx.Type == sqllexer.Operator && lx.Value == s
}

func (p *Parser) acceptOperator(s string) bool {
	if p.isOperator(s) {
		p.next()
		return true
	}
	return false
}

// enter guards recursion depth; every call must be paired with leave.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return &ParseError{Msg: "statement nesting too deep", Pos: p.peek().Pos}
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// Error helpers.

func (p *Parser) errExpected(expected string) *ParseError {
	return &ParseError{
		Msg:      "unexpected token",
		Expected: expected,
		Found:    p.found(),
		Pos:      p.peek().Pos,
	}
}

func (p *Parser) errHere(msg string) *ParseError {
	return &ParseError{Msg: msg, Pos: p.peek().Pos}
}

func (p *Parser) found() string {
	lx := p.peek()
	if lx.EOF() {
		return "end of input"
	}
	return "'" + lx.Value + "'"
}

// Identifier helpers.

func (p *Parser) isIdent() bool { return identLike(p.peek()) }

// identLike reports whether a lexeme can serve as an identifier: a bare or
// quoted identifier, or a soft keyword (KEY, FIRST, INDEX, ...) appearing
// where the grammar wants a name.
func identLike(lx sqllexer.Lexeme) bool {
	switch lx.Type {
	case sqllexer.Ident, sqllexer.QuotedIdent:
		return true
	case sqllexer.Keyword:
		return !sqllexer.IsReserved(lx.Value)
	default:
		return false
	}
}

// parseIdentifier consumes one identifier, recording the given syntactic role
// in the position index. Role may be empty for plain identifiers.
func (p *Parser) parseIdentifier(role string) (*Identifier, error) {
	if !p.isIdent() {
		return nil, p.errExpected("an identifier")
	}

	lx := p.next()
	id := &Identifier{
		Name:   unquote(lx),
		Quoted: lx.Type == sqllexer.QuotedIdent,
		Pos:    lx.Pos,
	}
	switch {
	case role != "":
		p.recordRole(lx, role, "")
	case lx.Type == sqllexer.Keyword:
		// A soft keyword consumed as a name indexes as an identifier.
		p.recordRole(lx, "identifier", "")
	}
	return id, nil
}

func (p *Parser) parseQualifiedName() (*QualifiedName, error) {
	first, err := p.parseIdentifier("")
	if err != nil {
		return nil, err
	}

	name := &QualifiedName{Parts: []*Identifier{first}}
	for p.isPunct(".") && identLike(p.peekN(1)) {
		p.next() // .
		part, err := p.parseIdentifier("")
		if err != nil {
			return nil, err
		}
		name.Parts = append(name.Parts, part)
	}
	return name, nil
}

// unquote strips the delimiters from a quoted identifier and collapses any
// doubled closing delimiters.
func unquote(lx sqllexer.Lexeme) string {
	if lx.Type != sqllexer.QuotedIdent || len(lx.Value) < 2 {
		return lx.Value
	}

	body := lx.Value[1 : len(lx.Value)-1]
	switch lx.Value[0] {
	case '"':
		return strings.ReplaceAll(body, `""`, `"`)
	case '`':
		return strings.ReplaceAll(body, "``", "`")
	default: // [name]
		return body
	}
}

// CTE scope tracking.

func (p *Parser) pushScope() { p.scopes = append(p.scopes, map[string]bool{}) }

func (p *Parser) popScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

func (p *Parser) declareCTE(name string) {
	p.scopes[len(p.scopes)-1][strings.ToLower(name)] = true
}

func (p *Parser) isCTE(name string) bool {
	key := strings.ToLower(name)
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if p.scopes[i][key] {
			return true
		}
	}
	return false
}

func (p *Parser) recordRole(lx sqllexer.Lexeme, kind, cte string) {
	p.roles[lx.Pos.Offset] = Role{Kind: kind, CTE: cte}
}

func (p *Parser) position() lexer.Position { return p.peek().Pos }
