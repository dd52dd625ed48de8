package parser

// DML statement parsing: INSERT, UPDATE, DELETE, all with optional WITH
// prefixes and RETURNING clauses.

func (p *Parser) parseInsert() (*InsertQuery, error) {
	q := &InsertQuery{}

	var err error
	if p.isKeyword("WITH") {
		p.pushScope()
		defer p.popScope()
		if q.With, err = p.parseWithClause(); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	if q.Table, err = p.parseQualifiedName(); err != nil {
		return nil, err
	}

	if p.acceptPunct("(") {
		for {
			col, err := p.parseIdentifier("")
			if err != nil {
				return nil, err
			}
			q.Columns = append(q.Columns, col)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	if q.Source, err = p.parseSelectQuery(); err != nil {
		return nil, err
	}

	if q.Returning, err = p.parseReturning(); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseUpdate() (*UpdateQuery, error) {
	q := &UpdateQuery{}

	var err error
	if p.isKeyword("WITH") {
		p.pushScope()
		defer p.popScope()
		if q.With, err = p.parseWithClause(); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("UPDATE"); err != nil {
		return nil, err
	}

	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	q.Table = &TableName{Name: name}
	if q.Table.Alias, err = p.parseOptionalAliasBeforeSet(); err != nil {
		return nil, err
	}

	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	for {
		set := &SetClause{}
		p.leadInto(set)

		if set.Column, err = p.parseQualifiedName(); err != nil {
			return nil, err
		}
		if !p.acceptOperator("=") {
			return nil, p.errExpected("'='")
		}
		if set.Value, err = p.parseExpression(); err != nil {
			return nil, err
		}

		q.Set = append(q.Set, set)
		p.element(set)

		if !p.acceptPunct(",") {
			break
		}
	}

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
	if q.Returning, err = p.parseReturning(); err != nil {
		return nil, err
	}
	return q, nil
}

// parseOptionalAliasBeforeSet accepts an UPDATE target alias without
// swallowing the SET keyword.
func (p *Parser) parseOptionalAliasBeforeSet() (*Identifier, error) {
	if p.acceptKeyword("AS") {
		return p.parseIdentifier("alias")
	}
	if p.isIdent() {
		return p.parseIdentifier("alias")
	}
	return nil, nil
}

func (p *Parser) parseDelete() (*DeleteQuery, error) {
	q := &DeleteQuery{}

	var err error
	if p.isKeyword("WITH") {
		p.pushScope()
		defer p.popScope()
		if q.With, err = p.parseWithClause(); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	q.Table = &TableName{Name: name}
	if p.acceptKeyword("AS") {
		if q.Table.Alias, err = p.parseIdentifier("alias"); err != nil {
			return nil, err
		}
	} else if p.isIdent() {
		if q.Table.Alias, err = p.parseIdentifier("alias"); err != nil {
			return nil, err
		}
	}

	if p.acceptKeyword("USING") {
		for {
			table, err := p.parseTableExpression()
			if err != nil {
				return nil, err
			}
			tn, ok := table.(*TableName)
			if !ok {
				return nil, p.errHere("USING requires named tables")
			}
			q.Using = append(q.Using, tn)
			if !p.acceptPunct(",") {
				break
			}
		}
	}

	if p.acceptKeyword("WHERE") {
		if q.Where, err = p.parsePredicate(); err != nil {
			return nil, err
		}
	}
	if q.Returning, err = p.parseReturning(); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseReturning() ([]*SelectItem, error) {
	if !p.acceptKeyword("RETURNING") {
		return nil, nil
	}
	return p.parseSelectItems()
}
