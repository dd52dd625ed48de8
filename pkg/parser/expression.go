package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	sqllexer "github.com/pseudomuto/sqlkit/pkg/lexer"
)

// LiteralKind classifies a literal expression.
type LiteralKind int

const (
	// LiteralNumber is an integer, decimal, or exponent literal.
	LiteralNumber LiteralKind = iota
	// LiteralString is a single-quoted string, delimiters included in Text.
	LiteralString
	// LiteralBool is TRUE or FALSE.
	LiteralBool
	// LiteralNull is NULL.
	LiteralNull
	// LiteralInterval is INTERVAL '<value>'; Text holds the quoted value.
	LiteralInterval
	// LiteralDefault is the DEFAULT marker usable in VALUES rows and SET.
	LiteralDefault
)

type (
	// Expression is any SQL expression node.
	Expression interface {
		Node
		expression()
	}

	// Literal is a constant value, stored exactly as written.
	Literal struct {
		comments

		Kind LiteralKind
		Text string
	}

	// Parameter is a placeholder such as :name, @name, $1, or ?. Name holds
	// the bare name or ordinal ("" for ?); Symbol the original sigil. Value
	// carries a bound value supplied by transformation tooling and is
	// surfaced by the formatter's parameter map.
	Parameter struct {
		comments

		Symbol string
		Name   string
		Value  any
	}

	// ColumnReference names a column, possibly qualified: col, t.col,
	// schema.t.col.
	ColumnReference struct {
		comments

		Name *QualifiedName
	}

	// Star is * or qualifier.* in a select list or function call.
	Star struct {
		comments

		Qualifier *QualifiedName
		Pos       lexer.Position
	}

	// BinaryExpression applies an infix operator. AND/OR never appear here;
	// they parse to NaryExpression.
	BinaryExpression struct {
		comments

		Left     Expression
		Operator string
		Right    Expression
	}

	// NaryExpression is a flattened AND or OR chain. Keeping conjunction
	// chains n-ary gives formatting and predicate-injection tooling a single
	// shape to reason about instead of a right-nested tree.
	NaryExpression struct {
		comments

		Operator string // AND, OR
		Operands []Expression
	}

	// UnaryExpression applies NOT, -, or +.
	UnaryExpression struct {
		comments

		Operator string
		Operand  Expression
	}

	// BetweenExpression is expr [NOT] BETWEEN lower AND upper.
	BetweenExpression struct {
		comments

		Not   bool
		Expr  Expression
		Lower Expression
		Upper Expression
	}

	// InExpression is expr [NOT] IN (list) or expr [NOT] IN (subquery).
	InExpression struct {
		comments

		Not      bool
		Expr     Expression
		List     []Expression
		Subquery *Subquery
	}

	// IsExpression is expr IS [NOT] NULL/TRUE/FALSE.
	IsExpression struct {
		comments

		Not       bool
		Expr      Expression
		Predicate string // NULL, TRUE, FALSE
	}

	// CaseExpression is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
	CaseExpression struct {
		comments

		Operand  Expression
		Branches []*CaseBranch
		Else     Expression
	}

	// CaseBranch is one WHEN ... THEN ... arm.
	CaseBranch struct {
		comments

		When Expression
		Then Expression
	}

	// FunctionCall is name(args), name(DISTINCT args), or name(*).
	FunctionCall struct {
		comments

		Name     *QualifiedName
		Distinct bool
		Star     bool
		Args     []Expression
	}

	// WindowFunctionCall is fn(...) OVER (PARTITION BY ... ORDER BY ...).
	WindowFunctionCall struct {
		comments

		Function    *FunctionCall
		PartitionBy []Expression
		OrderBy     *OrderByClause
	}

	// CastExpression is expr::type or CAST(expr AS type).
	CastExpression struct {
		comments

		Expr     Expression
		Type     *TypeName
		Standard bool // true for CAST(expr AS type) spelling
	}

	// ParenExpression preserves explicit parentheses around an expression.
	ParenExpression struct {
		comments

		Expr Expression
	}

	// TupleExpression is a parenthesized list of two or more expressions,
	// e.g. the left side of (a, b) IN (...).
	TupleExpression struct {
		comments

		Exprs []Expression
	}

	// Subquery is a parenthesized query used as an expression.
	Subquery struct {
		comments

		Query SelectQuery
	}

	// ExistsExpression is EXISTS (subquery).
	ExistsExpression struct {
		comments

		Subquery *Subquery
	}
)

func (*Literal) expression()            {}
func (*Parameter) expression()          {}
func (*ColumnReference) expression()    {}
func (*Star) expression()               {}
func (*BinaryExpression) expression()   {}
func (*NaryExpression) expression()     {}
func (*UnaryExpression) expression()    {}
func (*BetweenExpression) expression()  {}
func (*InExpression) expression()       {}
func (*IsExpression) expression()       {}
func (*CaseExpression) expression()     {}
func (*CaseBranch) expression()         {}
func (*FunctionCall) expression()       {}
func (*WindowFunctionCall) expression() {}
func (*CastExpression) expression()     {}
func (*ParenExpression) expression()    {}
func (*TupleExpression) expression()    {}
func (*Subquery) expression()           {}
func (*ExistsExpression) expression()   {}

// ConjoinAnd joins predicates into the flattened n-ary AND shape the parser
// itself produces, merging nested AND chains. It returns nil for no input
// and the predicate itself for a single input.
func ConjoinAnd(exprs ...Expression) Expression {
	var operands []Expression
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if n, ok := e.(*NaryExpression); ok && n.Operator == "AND" {
			operands = append(operands, n.Operands...)
			continue
		}
		operands = append(operands, e)
	}

	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	default:
		return &NaryExpression{Operator: "AND", Operands: operands}
	}
}

// Expression parsing, precedence climbing from lowest (OR) to highest
// (primary). Each operand of an AND/OR chain is registered as an element so
// trailing comments bind to the operand they follow.

func (p *Parser) parseExpression() (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseOr()
}

func (p *Parser) parseOr() (Expression, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	operands := []Expression{first}
	for p.isKeyword("OR") {
		p.element(operands[len(operands)-1])
		p.next()
		operand, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}

	if len(operands) == 1 {
		return first, nil
	}
	return &NaryExpression{Operator: "OR", Operands: operands}, nil
}

func (p *Parser) parseAnd() (Expression, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	operands := []Expression{first}
	for p.isKeyword("AND") {
		p.element(operands[len(operands)-1])
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}

	if len(operands) == 1 {
		return first, nil
	}
	return &NaryExpression{Operator: "AND", Operands: operands}, nil
}

func (p *Parser) parseNot() (Expression, error) {
	if p.acceptKeyword("NOT") {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Operator: "NOT", Operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{
	"=": true, "!=": true, "<>": true, "<": true, ">": true, "<=": true, ">=": true,
}

func (p *Parser) parseComparison() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.peek().Type == sqllexer.Operator && comparisonOps[p.peek().Value]:
			op := p.next().Value
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpression{Left: left, Operator: op, Right: right}

		case p.isKeyword("LIKE"):
			p.next()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpression{Left: left, Operator: "LIKE", Right: right}

		case p.isKeyword("NOT") && p.isKeywordAt(1, "LIKE"):
			p.next()
			p.next()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpression{Left: left, Operator: "NOT LIKE", Right: right}

		case p.isKeyword("IN"), p.isKeyword("NOT") && p.isKeywordAt(1, "IN"):
			not := p.acceptKeyword("NOT")
			p.next() // IN
			if left, err = p.parseInTail(left, not); err != nil {
				return nil, err
			}

		case p.isKeyword("BETWEEN"), p.isKeyword("NOT") && p.isKeywordAt(1, "BETWEEN"):
			not := p.acceptKeyword("NOT")
			p.next() // BETWEEN
			if left, err = p.parseBetweenTail(left, not); err != nil {
				return nil, err
			}

		case p.isKeyword("IS"):
			p.next()
			not := p.acceptKeyword("NOT")
			var predicate string
			switch {
			case p.acceptKeyword("NULL"):
				predicate = "NULL"
			case p.acceptKeyword("TRUE"):
				predicate = "TRUE"
			case p.acceptKeyword("FALSE"):
				predicate = "FALSE"
			default:
				return nil, p.errExpected("NULL, TRUE, or FALSE")
			}
			left = &IsExpression{Not: not, Expr: left, Predicate: predicate}

		default:
			return left, nil
		}
	}
}

// parseInTail parses the parenthesized tail of an IN predicate, which is
// either a subquery or an expression list.
func (p *Parser) parseInTail(left Expression, not bool) (Expression, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	in := &InExpression{Not: not, Expr: left}
	if p.isKeyword("SELECT") || p.isKeyword("WITH") || p.isKeyword("VALUES") {
		q, err := p.parseSelectQuery()
		if err != nil {
			return nil, err
		}
		in.Subquery = &Subquery{Query: q}
	} else {
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			in.List = append(in.List, expr)
			if !p.acceptPunct(",") {
				break
			}
		}
	}

	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return in, nil
}

// parseBetweenTail binds the AND inside BETWEEN to the range, not to the
// surrounding conjunction.
func (p *Parser) parseBetweenTail(left Expression, not bool) (Expression, error) {
	lower, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AND"); err != nil {
		return nil, err
	}
	upper, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &BetweenExpression{Not: not, Expr: left, Lower: lower, Upper: upper}, nil
}

func (p *Parser) parseAdditive() (Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.isOperator("+") || p.isOperator("-") || p.isOperator("||") {
		op := p.next().Value
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.isOperator("*") || p.isOperator("/") || p.isOperator("%") {
		op := p.next().Value
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expression, error) {
	if p.isOperator("-") || p.isOperator("+") {
		op := p.next().Value
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Operator: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles the :: cast operator, which binds tighter than any
// arithmetic.
func (p *Parser) parsePostfix() (Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.acceptOperator("::") {
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		expr = &CastExpression{Expr: expr, Type: typ}
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	lead := p.takeComments()
	expr, err := p.parsePrimaryInner()
	if err != nil {
		return nil, err
	}
	attach(expr, lead, CommentLeading)
	return expr, nil
}

func (p *Parser) parsePrimaryInner() (Expression, error) {
	lx := p.peek()

	switch lx.Type {
	case sqllexer.Number:
		p.next()
		return &Literal{Kind: LiteralNumber, Text: lx.Value}, nil

	case sqllexer.String:
		p.next()
		return &Literal{Kind: LiteralString, Text: lx.Value}, nil

	case sqllexer.Parameter:
		p.next()
		return newParameter(lx.Value), nil

	case sqllexer.Keyword:
		switch {
		case p.acceptKeyword("TRUE"), p.acceptKeyword("FALSE"):
			return &Literal{Kind: LiteralBool, Text: strings.ToLower(lx.Value)}, nil
		case p.acceptKeyword("NULL"):
			return &Literal{Kind: LiteralNull, Text: "null"}, nil
		case p.isKeyword("CASE"):
			return p.parseCase()
		case p.isKeyword("CAST"):
			return p.parseCast()
		case p.isKeyword("EXISTS"):
			return p.parseExists()
		case p.isKeyword("INTERVAL"):
			p.next()
			if p.peek().Type != sqllexer.String {
				return nil, p.errExpected("a quoted interval value")
			}
			return &Literal{Kind: LiteralInterval, Text: p.next().Value}, nil
		case p.isKeyword("DEFAULT"):
			// DEFAULT is valid as a VALUES/SET element in DML.
			p.next()
			return &Literal{Kind: LiteralDefault, Text: "default"}, nil
		default:
			// Soft keywords double as column references: SELECT key FROM t.
			if !sqllexer.IsReserved(lx.Value) {
				return p.parseNameExpression()
			}
			return nil, p.errExpected("an expression")
		}

	case sqllexer.Ident, sqllexer.QuotedIdent:
		return p.parseNameExpression()

	case sqllexer.Punct:
		if lx.Value == "(" {
			return p.parseParenOrSubquery()
		}
	}

	return nil, p.errExpected("an expression")
}

// newParameter splits a parameter lexeme into sigil and name.
func newParameter(raw string) *Parameter {
	if raw == "?" {
		return &Parameter{Symbol: "?"}
	}
	return &Parameter{Symbol: raw[:1], Name: raw[1:]}
}

// parseNameExpression parses everything that begins with an identifier: a
// column reference, a qualified star, a function call, or a window function.
func (p *Parser) parseNameExpression() (Expression, error) {
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}

	// qualifier.*
	if p.isPunct(".") && p.peekN(1).Type == sqllexer.Operator && p.peekN(1).Value == "*" {
		p.next() // .
		pos := p.next().Pos
		return &Star{Qualifier: name, Pos: pos}, nil
	}

	if !p.isPunct("(") {
		return &ColumnReference{Name: name}, nil
	}

	call, err := p.parseFunctionCall(name)
	if err != nil {
		return nil, err
	}

	if p.acceptKeyword("OVER") {
		return p.parseWindow(call)
	}
	return call, nil
}

func (p *Parser) parseFunctionCall(name *QualifiedName) (*FunctionCall, error) {
	p.next() // (

	call := &FunctionCall{Name: name}
	if p.isOperator("*") {
		p.next()
		call.Star = true
		return call, p.expectPunct(")")
	}

	call.Distinct = p.acceptKeyword("DISTINCT")
	for !p.isPunct(")") {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if !p.acceptPunct(",") {
			break
		}
	}
	return call, p.expectPunct(")")
}

func (p *Parser) parseWindow(call *FunctionCall) (Expression, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	win := &WindowFunctionCall{Function: call}
	if p.isKeyword("PARTITION") && p.isKeywordAt(1, "BY") {
		p.next()
		p.next()
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			win.PartitionBy = append(win.PartitionBy, expr)
			if !p.acceptPunct(",") {
				break
			}
		}
	}

	if p.isKeyword("ORDER") && p.isKeywordAt(1, "BY") {
		p.next()
		p.next()
		orderBy, err := p.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		win.OrderBy = orderBy
	}

	return win, p.expectPunct(")")
}

func (p *Parser) parseCase() (*CaseExpression, error) {
	p.next() // CASE

	expr := &CaseExpression{}
	if !p.isKeyword("WHEN") {
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Operand = operand
	}

	for p.isKeyword("WHEN") {
		branch := &CaseBranch{}
		p.leadInto(branch)
		p.next() // WHEN

		when, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		branch.When = when

		if err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		if branch.Then, err = p.parseExpression(); err != nil {
			return nil, err
		}

		expr.Branches = append(expr.Branches, branch)
		p.element(branch)
	}
	if len(expr.Branches) == 0 {
		return nil, p.errExpected("WHEN")
	}

	if p.acceptKeyword("ELSE") {
		elseExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Else = elseExpr
	}

	return expr, p.expectKeyword("END")
}

func (p *Parser) parseCast() (*CastExpression, error) {
	p.next() // CAST
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}

	return &CastExpression{Expr: inner, Type: typ, Standard: true}, p.expectPunct(")")
}

func (p *Parser) parseExists() (*ExistsExpression, error) {
	p.next() // EXISTS
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	q, err := p.parseSelectQuery()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &ExistsExpression{Subquery: &Subquery{Query: q}}, nil
}

func (p *Parser) parseParenOrSubquery() (Expression, error) {
	p.next() // (

	if p.isKeyword("SELECT") || p.isKeyword("WITH") || p.isKeyword("VALUES") {
		q, err := p.parseSelectQuery()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &Subquery{Query: q}, nil
	}

	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.acceptPunct(",") {
		tuple := &TupleExpression{Exprs: []Expression{inner}}
		for {
			next, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			tuple.Exprs = append(tuple.Exprs, next)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return tuple, nil
	}

	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &ParenExpression{Expr: inner}, nil
}

// parseTypeName parses a data type: a bare name with optional arguments,
// e.g. int, varchar(255), numeric(10, 2).
func (p *Parser) parseTypeName() (*TypeName, error) {
	if !p.isIdent() && p.peek().Type != sqllexer.Keyword {
		return nil, p.errExpected("a type name")
	}

	typ := &TypeName{Name: p.next().Value}
	if p.acceptPunct("(") {
		for !p.isPunct(")") {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			typ.Args = append(typ.Args, arg)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	return typ, nil
}
