package parser

// DDL statement parsing: CREATE TABLE/INDEX, ALTER TABLE, DROP, and the
// EXPLAIN/ANALYZE wrappers.

func (p *Parser) parseCreate() (Statement, error) {
	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}

	switch {
	case p.isKeyword("TABLE"), p.isKeyword("TEMPORARY"):
		return p.parseCreateTable()
	case p.isKeyword("INDEX"), p.isKeyword("UNIQUE"):
		return p.parseCreateIndex()
	default:
		return nil, p.errExpected("TABLE, TEMPORARY TABLE, INDEX, or UNIQUE INDEX")
	}
}

func (p *Parser) parseCreateTable() (*CreateTableQuery, error) {
	q := &CreateTableQuery{Temporary: p.acceptKeyword("TEMPORARY")}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}

	if p.isKeyword("IF") {
		p.next()
		if err := p.expectKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfNotExists = true
	}

	var err error
	if q.Name, err = p.parseQualifiedName(); err != nil {
		return nil, err
	}

	if p.acceptKeyword("AS") {
		if q.AsQuery, err = p.parseSelectQuery(); err != nil {
			return nil, err
		}
		return q, nil
	}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	for {
		col, err := p.parseColumnDefinition()
		if err != nil {
			return nil, err
		}
		q.Columns = append(q.Columns, col)
		p.element(col)

		if !p.acceptPunct(",") {
			break
		}
	}
	return q, p.expectPunct(")")
}

func (p *Parser) parseColumnDefinition() (*ColumnDefinition, error) {
	col := &ColumnDefinition{}
	p.leadInto(col)

	var err error
	if col.Name, err = p.parseIdentifier(""); err != nil {
		return nil, err
	}
	if col.Type, err = p.parseTypeName(); err != nil {
		return nil, err
	}

	for {
		switch {
		case p.isKeyword("NOT") && p.isKeywordAt(1, "NULL"):
			p.next()
			p.next()
			col.NotNull = true
		case p.isKeyword("PRIMARY") && p.isKeywordAt(1, "KEY"):
			p.next()
			p.next()
			col.PrimaryKey = true
		case p.acceptKeyword("DEFAULT"):
			if col.Default, err = p.parseExpression(); err != nil {
				return nil, err
			}
		default:
			return col, nil
		}
	}
}

func (p *Parser) parseCreateIndex() (*CreateIndexStatement, error) {
	stmt := &CreateIndexStatement{Unique: p.acceptKeyword("UNIQUE")}
	if err := p.expectKeyword("INDEX"); err != nil {
		return nil, err
	}

	if p.isKeyword("IF") {
		p.next()
		if err := p.expectKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
	}

	var err error
	if stmt.Name, err = p.parseQualifiedName(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	if stmt.Table, err = p.parseQualifiedName(); err != nil {
		return nil, err
	}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cols, err := p.parseOrderByItems()
	if err != nil {
		return nil, err
	}
	stmt.Columns = cols.Items
	return stmt, p.expectPunct(")")
}

func (p *Parser) parseAlterTable() (*AlterTableStatement, error) {
	if err := p.expectKeyword("ALTER"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}

	stmt := &AlterTableStatement{}
	var err error
	if stmt.Table, err = p.parseQualifiedName(); err != nil {
		return nil, err
	}

	switch {
	case p.acceptKeyword("ADD"):
		p.acceptKeyword("COLUMN")
		if stmt.AddColumn, err = p.parseColumnDefinition(); err != nil {
			return nil, err
		}

	case p.acceptKeyword("DROP"):
		p.acceptKeyword("COLUMN")
		if p.isKeyword("IF") {
			p.next()
			if err := p.expectKeyword("EXISTS"); err != nil {
				return nil, err
			}
			stmt.DropIfExists = true
		}
		if stmt.DropColumn, err = p.parseIdentifier(""); err != nil {
			return nil, err
		}

	case p.acceptKeyword("RENAME"):
		if p.acceptKeyword("TO") {
			if stmt.RenameTable, err = p.parseQualifiedName(); err != nil {
				return nil, err
			}
			return stmt, nil
		}
		p.acceptKeyword("COLUMN")
		if stmt.RenameFrom, err = p.parseIdentifier(""); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("TO"); err != nil {
			return nil, err
		}
		if stmt.RenameTo, err = p.parseIdentifier(""); err != nil {
			return nil, err
		}

	default:
		return nil, p.errExpected("ADD, DROP, or RENAME")
	}

	return stmt, nil
}

func (p *Parser) parseDrop() (*DropStatement, error) {
	if err := p.expectKeyword("DROP"); err != nil {
		return nil, err
	}

	stmt := &DropStatement{}
	switch {
	case p.acceptKeyword("TABLE"):
		stmt.Kind = "TABLE"
	case p.acceptKeyword("INDEX"):
		stmt.Kind = "INDEX"
	default:
		return nil, p.errExpected("TABLE or INDEX")
	}

	if p.isKeyword("IF") {
		p.next()
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		stmt.IfExists = true
	}

	var err error
	if stmt.Name, err = p.parseQualifiedName(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseExplain() (*ExplainStatement, error) {
	if err := p.expectKeyword("EXPLAIN"); err != nil {
		return nil, err
	}

	stmt := &ExplainStatement{Analyze: p.acceptKeyword("ANALYZE")}
	target, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Target = target
	return stmt, nil
}

// parseAnalyze handles the standalone ANALYZE <table> statement. EXPLAIN
// ANALYZE is handled by parseExplain.
func (p *Parser) parseAnalyze() (*AnalyzeStatement, error) {
	if err := p.expectKeyword("ANALYZE"); err != nil {
		return nil, err
	}

	stmt := &AnalyzeStatement{}
	var err error
	if stmt.Target, err = p.parseQualifiedName(); err != nil {
		return nil, err
	}
	return stmt, nil
}
