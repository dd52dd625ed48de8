package parser

import "strings"

// parseSelectQuery parses a full query expression: a SELECT, VALUES, or WITH
// prefix followed by a left-associative chain of set operations.
func (p *Parser) parseSelectQuery() (SelectQuery, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	scoped := p.isKeyword("WITH")
	if scoped {
		p.pushScope()
		defer p.popScope()
	}

	left, err := p.parseQueryTerm()
	if err != nil {
		return nil, err
	}

	for {
		var op string
		switch {
		case p.isKeyword("UNION"):
			p.next()
			op = "UNION"
			if p.acceptKeyword("ALL") {
				op = "UNION ALL"
			}
		case p.isKeyword("INTERSECT"):
			p.next()
			op = "INTERSECT"
		case p.isKeyword("EXCEPT"):
			p.next()
			op = "EXCEPT"
		default:
			return left, nil
		}

		right, err := p.parseQueryTerm()
		if err != nil {
			return nil, err
		}
		left = &BinarySelectQuery{Left: left, Operator: op, Right: right}
	}
}

// parseQueryTerm parses one operand of a set-operation chain.
func (p *Parser) parseQueryTerm() (SelectQuery, error) {
	switch {
	case p.isPunct("("):
		p.next()
		q, err := p.parseSelectQuery()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return q, nil

	case p.isKeyword("WITH"):
		with, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}

		switch {
		case p.isKeyword("SELECT"):
			q, err := p.parseSimpleSelect()
			if err != nil {
				return nil, err
			}
			q.With = with
			return q, nil
		case p.isKeyword("VALUES"):
			q, err := p.parseValuesQuery()
			if err != nil {
				return nil, err
			}
			q.With = with
			return q, nil
		default:
			return nil, p.errExpected("SELECT or VALUES after WITH clause")
		}

	case p.isKeyword("VALUES"):
		return p.parseValuesQuery()

	case p.isKeyword("SELECT"):
		return p.parseSimpleSelect()

	default:
		return nil, p.errExpected("SELECT, VALUES, WITH, or '('")
	}
}

// parseWithClause parses WITH [RECURSIVE] name [(cols)] AS (query), ...
// Comments between WITH (or a separating comma) and a CTE name become
// leading comments on that CTE, never on the WITH clause itself.
func (p *Parser) parseWithClause() (*WithClause, error) {
	if err := p.expectKeyword("WITH"); err != nil {
		return nil, err
	}

	with := &WithClause{Recursive: p.acceptKeyword("RECURSIVE")}
	for {
		cte, err := p.parseCTE(with.Recursive)
		if err != nil {
			return nil, err
		}
		with.CTEs = append(with.CTEs, cte)
		p.element(cte)

		if !p.acceptPunct(",") {
			return with, nil
		}
	}
}

func (p *Parser) parseCTE(recursive bool) (*CTEDefinition, error) {
	lead := p.takeComments()

	if !p.isIdent() {
		return nil, p.errExpected("a CTE name")
	}
	nameLex := p.peek()
	name, err := p.parseIdentifier("")
	if err != nil {
		return nil, err
	}
	p.recordRole(nameLex, "cte", name.Name)
	if recursive {
		p.declareCTE(name.Name)
	}

	cte := &CTEDefinition{Name: name}
	attach(cte, lead, CommentLeading)

	if p.acceptPunct("(") {
		for {
			col, err := p.parseIdentifier("alias")
			if err != nil {
				return nil, err
			}
			cte.Columns = append(cte.Columns, col)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if cte.Query, err = p.parseSelectQuery(); err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	p.declareCTE(name.Name)
	return cte, nil
}

func (p *Parser) parseSimpleSelect() (*SimpleSelectQuery, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	q := &SimpleSelectQuery{}
	if p.acceptKeyword("DISTINCT") {
		q.Distinct = true
	} else {
		p.acceptKeyword("ALL")
	}

	items, err := p.parseSelectItems()
	if err != nil {
		return nil, err
	}
	q.Items = items

	if p.isKeyword("FROM") {
		if q.From, err = p.parseFromClause(); err != nil {
			return nil, err
		}
	}

	if p.acceptKeyword("WHERE") {
		if q.Where, err = p.parsePredicate(); err != nil {
			return nil, err
		}
	}

	if p.isKeyword("GROUP") && p.isKeywordAt(1, "BY") {
		if q.GroupBy, err = p.parseGroupByClause(); err != nil {
			return nil, err
		}
	}

	if p.acceptKeyword("HAVING") {
		if q.Having, err = p.parsePredicate(); err != nil {
			return nil, err
		}
	}

	if p.isKeyword("ORDER") && p.isKeywordAt(1, "BY") {
		if q.OrderBy, err = p.parseOrderByClause(); err != nil {
			return nil, err
		}
	}

	if p.acceptKeyword("LIMIT") {
		if q.Limit, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if p.acceptKeyword("OFFSET") {
		if q.Offset, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// parsePredicate parses a clause-level expression (WHERE, HAVING, ON) and
// registers it as an element so a same-line comment after it trails it.
func (p *Parser) parsePredicate() (Expression, error) {
	lead := p.takeComments()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	attach(expr, lead, CommentLeading)
	p.element(expr)
	return expr, nil
}

func (p *Parser) parseSelectItems() ([]*SelectItem, error) {
	var items []*SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.element(item)

		if !p.acceptPunct(",") {
			return items, nil
		}
	}
}

func (p *Parser) parseSelectItem() (*SelectItem, error) {
	item := &SelectItem{}
	p.leadInto(item)

	if p.isOperator("*") {
		star := &Star{Pos: p.next().Pos}
		item.Expr = star
		return item, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	item.Expr = expr

	if p.acceptKeyword("AS") {
		if item.Alias, err = p.parseIdentifier("alias"); err != nil {
			return nil, err
		}
	} else if p.isIdent() {
		if item.Alias, err = p.parseIdentifier("alias"); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (p *Parser) parseFromClause() (*FromClause, error) {
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	from := &FromClause{}
	p.leadInto(from)

	source, err := p.parseTableExpression()
	if err != nil {
		return nil, err
	}
	from.Source = source
	p.element(source)

	for {
		join, ok, err := p.parseJoinClause()
		if err != nil {
			return nil, err
		}
		if !ok {
			return from, nil
		}
		from.Joins = append(from.Joins, join)
		p.element(join)
	}
}

func (p *Parser) parseTableExpression() (TableExpression, error) {
	if p.acceptPunct("(") {
		sub := &SubqueryTable{}
		q, err := p.parseSelectQuery()
		if err != nil {
			return nil, err
		}
		sub.Query = q
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		if sub.Alias, err = p.parseOptionalAlias(); err != nil {
			return nil, err
		}
		return sub, nil
	}

	if !p.isIdent() {
		return nil, p.errExpected("a table name or subquery")
	}

	nameLex := p.peek()
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if len(name.Parts) == 1 && p.isCTE(name.Parts[0].Name) {
		p.recordRole(nameLex, "cte", name.Parts[0].Name)
	}

	table := &TableName{Name: name}
	if table.Alias, err = p.parseOptionalAlias(); err != nil {
		return nil, err
	}
	return table, nil
}

// parseOptionalAlias accepts AS name or a bare identifier alias.
func (p *Parser) parseOptionalAlias() (*Identifier, error) {
	if p.acceptKeyword("AS") {
		return p.parseIdentifier("alias")
	}
	if p.isIdent() {
		return p.parseIdentifier("alias")
	}
	return nil, nil
}

// joinAhead reports whether the cursor sits on the start of a join clause.
func (p *Parser) joinAhead() bool {
	switch {
	case p.isKeyword("JOIN"):
		return true
	case p.isKeyword("INNER"), p.isKeyword("CROSS"):
		return p.isKeywordAt(1, "JOIN")
	case p.isKeyword("LEFT"), p.isKeyword("RIGHT"), p.isKeyword("FULL"):
		return p.isKeywordAt(1, "JOIN") || (p.isKeywordAt(1, "OUTER") && p.isKeywordAt(2, "JOIN"))
	default:
		return false
	}
}

func (p *Parser) parseJoinClause() (*JoinClause, bool, error) {
	if !p.joinAhead() {
		return nil, false, nil
	}

	// Comments just before the JOIN keyword lead the join clause.
	lead := p.takeComments()

	var typ string
	switch {
	case p.acceptKeyword("JOIN"):
		typ = "JOIN"
	case p.acceptKeyword("INNER"):
		p.next() // JOIN
		typ = "INNER JOIN"
	case p.acceptKeyword("CROSS"):
		p.next() // JOIN
		typ = "CROSS JOIN"
	default:
		typ = strings.ToUpper(p.next().Value)
		if p.acceptKeyword("OUTER") {
			typ += " OUTER"
		}
		if err := p.expectKeyword("JOIN"); err != nil {
			return nil, false, err
		}
		typ += " JOIN"
	}

	join := &JoinClause{Type: typ}
	attach(join, lead, CommentLeading)

	target, err := p.parseTableExpression()
	if err != nil {
		return nil, false, err
	}
	join.Target = target

	switch {
	case p.acceptKeyword("ON"):
		if join.On, err = p.parseExpression(); err != nil {
			return nil, false, err
		}
	case p.acceptKeyword("USING"):
		if err := p.expectPunct("("); err != nil {
			return nil, false, err
		}
		for {
			col, err := p.parseIdentifier("")
			if err != nil {
				return nil, false, err
			}
			join.Using = append(join.Using, col)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, false, err
		}
	}

	return join, true, nil
}

func (p *Parser) parseGroupByClause() (*GroupByClause, error) {
	p.next() // GROUP
	p.next() // BY

	group := &GroupByClause{}
	for {
		elem, err := p.parseGroupingElement()
		if err != nil {
			return nil, err
		}
		group.Items = append(group.Items, elem)
		p.element(elem)

		if !p.acceptPunct(",") {
			return group, nil
		}
	}
}

func (p *Parser) parseGroupingElement() (*GroupingElement, error) {
	elem := &GroupingElement{}
	p.leadInto(elem)

	switch {
	case p.isKeyword("GROUPING") && p.isKeywordAt(1, "SETS"):
		p.next()
		p.next()
		elem.Kind = "GROUPING SETS"
		return elem, p.parseGroupingSets(elem)
	case p.isKeyword("ROLLUP"):
		p.next()
		elem.Kind = "ROLLUP"
		return elem, p.parseGroupingList(elem)
	case p.isKeyword("CUBE"):
		p.next()
		elem.Kind = "CUBE"
		return elem, p.parseGroupingList(elem)
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elem.Expr = expr
		return elem, nil
	}
}

// parseGroupingSets parses GROUPING SETS ((a, b), (a), ()).
func (p *Parser) parseGroupingSets(elem *GroupingElement) error {
	if err := p.expectPunct("("); err != nil {
		return err
	}
	for {
		if err := p.expectPunct("("); err != nil {
			return err
		}
		var set []Expression
		for !p.isPunct(")") {
			expr, err := p.parseExpression()
			if err != nil {
				return err
			}
			set = append(set, expr)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return err
		}
		elem.Sets = append(elem.Sets, set)

		if !p.acceptPunct(",") {
			break
		}
	}
	return p.expectPunct(")")
}

// parseGroupingList parses the single parenthesized list of ROLLUP/CUBE.
func (p *Parser) parseGroupingList(elem *GroupingElement) error {
	if err := p.expectPunct("("); err != nil {
		return err
	}
	var set []Expression
	for !p.isPunct(")") {
		expr, err := p.parseExpression()
		if err != nil {
			return err
		}
		set = append(set, expr)
		if !p.acceptPunct(",") {
			break
		}
	}
	elem.Sets = append(elem.Sets, set)
	return p.expectPunct(")")
}

func (p *Parser) parseOrderByClause() (*OrderByClause, error) {
	p.next() // ORDER
	p.next() // BY
	return p.parseOrderByItems()
}

// parseOrderByItems parses sort keys; shared by ORDER BY, window
// definitions, and CREATE INDEX column lists.
func (p *Parser) parseOrderByItems() (*OrderByClause, error) {
	clause := &OrderByClause{}
	for {
		item := &OrderByItem{}
		p.leadInto(item)

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		item.Expr = expr

		switch {
		case p.acceptKeyword("ASC"):
			item.Direction = "ASC"
		case p.acceptKeyword("DESC"):
			item.Direction = "DESC"
		}
		if p.acceptKeyword("NULLS") {
			switch {
			case p.acceptKeyword("FIRST"):
				item.Nulls = "FIRST"
			case p.acceptKeyword("LAST"):
				item.Nulls = "LAST"
			default:
				return nil, p.errExpected("FIRST or LAST")
			}
		}

		clause.Items = append(clause.Items, item)
		p.element(item)

		if !p.acceptPunct(",") {
			return clause, nil
		}
	}
}

func (p *Parser) parseValuesQuery() (*ValuesQuery, error) {
	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}

	q := &ValuesQuery{}
	for {
		p.leadInto(q)
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}

		var row []Expression
		for !p.isPunct(")") {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			row = append(row, expr)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		q.Rows = append(q.Rows, row)

		if !p.acceptPunct(",") {
			return q, nil
		}
	}
}
