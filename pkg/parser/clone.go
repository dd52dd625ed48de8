package parser

// Deep cloning for transformation tooling. Transforms never mutate a parsed
// tree in place: they clone the subtrees they rewrite, because several
// consumers may read one parse result.

func cloneComments(c comments) comments {
	if len(c.list) == 0 {
		return comments{}
	}
	out := make([]PositionedComment, len(c.list))
	copy(out, c.list)
	return comments{list: out}
}

// CloneStatement returns a deep copy of any statement.
func CloneStatement(s Statement) Statement {
	switch s := s.(type) {
	case nil:
		return nil
	case *SimpleSelectQuery, *BinarySelectQuery, *ValuesQuery:
		return CloneSelectQuery(s.(SelectQuery))
	case *InsertQuery:
		return &InsertQuery{
			comments:  cloneComments(s.comments),
			With:      cloneWith(s.With),
			Table:     cloneQualifiedName(s.Table),
			Columns:   cloneIdentifiers(s.Columns),
			Source:    CloneSelectQuery(s.Source),
			Returning: cloneSelectItems(s.Returning),
		}
	case *UpdateQuery:
		return &UpdateQuery{
			comments:  cloneComments(s.comments),
			With:      cloneWith(s.With),
			Table:     cloneTableName(s.Table),
			Set:       cloneSetClauses(s.Set),
			From:      cloneFrom(s.From),
			Where:     CloneExpression(s.Where),
			Returning: cloneSelectItems(s.Returning),
		}
	case *DeleteQuery:
		using := make([]*TableName, 0, len(s.Using))
		for _, t := range s.Using {
			using = append(using, cloneTableName(t))
		}
		if len(using) == 0 {
			using = nil
		}
		return &DeleteQuery{
			comments:  cloneComments(s.comments),
			With:      cloneWith(s.With),
			Table:     cloneTableName(s.Table),
			Using:     using,
			Where:     CloneExpression(s.Where),
			Returning: cloneSelectItems(s.Returning),
		}
	case *CreateTableQuery:
		cols := make([]*ColumnDefinition, 0, len(s.Columns))
		for _, c := range s.Columns {
			cols = append(cols, cloneColumnDefinition(c))
		}
		if len(cols) == 0 {
			cols = nil
		}
		return &CreateTableQuery{
			comments:    cloneComments(s.comments),
			Temporary:   s.Temporary,
			IfNotExists: s.IfNotExists,
			Name:        cloneQualifiedName(s.Name),
			Columns:     cols,
			AsQuery:     CloneSelectQuery(s.AsQuery),
		}
	case *AlterTableStatement:
		return &AlterTableStatement{
			comments:     cloneComments(s.comments),
			Table:        cloneQualifiedName(s.Table),
			AddColumn:    cloneColumnDefinition(s.AddColumn),
			DropColumn:   cloneIdentifier(s.DropColumn),
			DropIfExists: s.DropIfExists,
			RenameFrom:   cloneIdentifier(s.RenameFrom),
			RenameTo:     cloneIdentifier(s.RenameTo),
			RenameTable:  cloneQualifiedName(s.RenameTable),
		}
	case *DropStatement:
		return &DropStatement{
			comments: cloneComments(s.comments),
			Kind:     s.Kind,
			IfExists: s.IfExists,
			Name:     cloneQualifiedName(s.Name),
		}
	case *CreateIndexStatement:
		return &CreateIndexStatement{
			comments:    cloneComments(s.comments),
			Unique:      s.Unique,
			IfNotExists: s.IfNotExists,
			Name:        cloneQualifiedName(s.Name),
			Table:       cloneQualifiedName(s.Table),
			Columns:     cloneOrderByItems(s.Columns),
		}
	case *ExplainStatement:
		return &ExplainStatement{
			comments: cloneComments(s.comments),
			Analyze:  s.Analyze,
			Target:   CloneStatement(s.Target),
		}
	case *AnalyzeStatement:
		return &AnalyzeStatement{
			comments: cloneComments(s.comments),
			Target:   cloneQualifiedName(s.Target),
		}
	default:
		return nil
	}
}

// CloneSelectQuery returns a deep copy of a query expression.
func CloneSelectQuery(q SelectQuery) SelectQuery {
	switch q := q.(type) {
	case nil:
		return nil
	case *SimpleSelectQuery:
		var group *GroupByClause
		if q.GroupBy != nil {
			items := make([]*GroupingElement, 0, len(q.GroupBy.Items))
			for _, g := range q.GroupBy.Items {
				items = append(items, cloneGroupingElement(g))
			}
			group = &GroupByClause{comments: cloneComments(q.GroupBy.comments), Items: items}
		}
		return &SimpleSelectQuery{
			comments: cloneComments(q.comments),
			With:     cloneWith(q.With),
			Distinct: q.Distinct,
			Items:    cloneSelectItems(q.Items),
			From:     cloneFrom(q.From),
			Where:    CloneExpression(q.Where),
			GroupBy:  group,
			Having:   CloneExpression(q.Having),
			OrderBy:  cloneOrderBy(q.OrderBy),
			Limit:    CloneExpression(q.Limit),
			Offset:   CloneExpression(q.Offset),
		}
	case *BinarySelectQuery:
		return &BinarySelectQuery{
			comments: cloneComments(q.comments),
			Left:     CloneSelectQuery(q.Left),
			Operator: q.Operator,
			Right:    CloneSelectQuery(q.Right),
		}
	case *ValuesQuery:
		rows := make([][]Expression, 0, len(q.Rows))
		for _, row := range q.Rows {
			cloned := make([]Expression, 0, len(row))
			for _, e := range row {
				cloned = append(cloned, CloneExpression(e))
			}
			rows = append(rows, cloned)
		}
		return &ValuesQuery{comments: cloneComments(q.comments), With: cloneWith(q.With), Rows: rows}
	default:
		return nil
	}
}

// CloneExpression returns a deep copy of an expression.
func CloneExpression(e Expression) Expression {
	switch e := e.(type) {
	case nil:
		return nil
	case *Literal:
		return &Literal{comments: cloneComments(e.comments), Kind: e.Kind, Text: e.Text}
	case *Parameter:
		return &Parameter{comments: cloneComments(e.comments), Symbol: e.Symbol, Name: e.Name, Value: e.Value}
	case *ColumnReference:
		return &ColumnReference{comments: cloneComments(e.comments), Name: cloneQualifiedName(e.Name)}
	case *Star:
		return &Star{comments: cloneComments(e.comments), Qualifier: cloneQualifiedName(e.Qualifier), Pos: e.Pos}
	case *BinaryExpression:
		return &BinaryExpression{
			comments: cloneComments(e.comments),
			Left:     CloneExpression(e.Left),
			Operator: e.Operator,
			Right:    CloneExpression(e.Right),
		}
	case *NaryExpression:
		operands := make([]Expression, 0, len(e.Operands))
		for _, o := range e.Operands {
			operands = append(operands, CloneExpression(o))
		}
		return &NaryExpression{comments: cloneComments(e.comments), Operator: e.Operator, Operands: operands}
	case *UnaryExpression:
		return &UnaryExpression{comments: cloneComments(e.comments), Operator: e.Operator, Operand: CloneExpression(e.Operand)}
	case *BetweenExpression:
		return &BetweenExpression{
			comments: cloneComments(e.comments),
			Not:      e.Not,
			Expr:     CloneExpression(e.Expr),
			Lower:    CloneExpression(e.Lower),
			Upper:    CloneExpression(e.Upper),
		}
	case *InExpression:
		list := make([]Expression, 0, len(e.List))
		for _, x := range e.List {
			list = append(list, CloneExpression(x))
		}
		if len(list) == 0 {
			list = nil
		}
		return &InExpression{
			comments: cloneComments(e.comments),
			Not:      e.Not,
			Expr:     CloneExpression(e.Expr),
			List:     list,
			Subquery: cloneSubquery(e.Subquery),
		}
	case *IsExpression:
		return &IsExpression{comments: cloneComments(e.comments), Not: e.Not, Expr: CloneExpression(e.Expr), Predicate: e.Predicate}
	case *CaseExpression:
		branches := make([]*CaseBranch, 0, len(e.Branches))
		for _, b := range e.Branches {
			branches = append(branches, &CaseBranch{
				comments: cloneComments(b.comments),
				When:     CloneExpression(b.When),
				Then:     CloneExpression(b.Then),
			})
		}
		return &CaseExpression{
			comments: cloneComments(e.comments),
			Operand:  CloneExpression(e.Operand),
			Branches: branches,
			Else:     CloneExpression(e.Else),
		}
	case *FunctionCall:
		return cloneFunctionCall(e)
	case *WindowFunctionCall:
		partition := make([]Expression, 0, len(e.PartitionBy))
		for _, x := range e.PartitionBy {
			partition = append(partition, CloneExpression(x))
		}
		if len(partition) == 0 {
			partition = nil
		}
		return &WindowFunctionCall{
			comments:    cloneComments(e.comments),
			Function:    cloneFunctionCall(e.Function),
			PartitionBy: partition,
			OrderBy:     cloneOrderBy(e.OrderBy),
		}
	case *CastExpression:
		return &CastExpression{
			comments: cloneComments(e.comments),
			Expr:     CloneExpression(e.Expr),
			Type:     cloneTypeName(e.Type),
			Standard: e.Standard,
		}
	case *ParenExpression:
		return &ParenExpression{comments: cloneComments(e.comments), Expr: CloneExpression(e.Expr)}
	case *TupleExpression:
		exprs := make([]Expression, 0, len(e.Exprs))
		for _, x := range e.Exprs {
			exprs = append(exprs, CloneExpression(x))
		}
		return &TupleExpression{comments: cloneComments(e.comments), Exprs: exprs}
	case *Subquery:
		return cloneSubquery(e)
	case *ExistsExpression:
		return &ExistsExpression{comments: cloneComments(e.comments), Subquery: cloneSubquery(e.Subquery)}
	default:
		return nil
	}
}

func cloneIdentifier(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}
	return &Identifier{comments: cloneComments(id.comments), Name: id.Name, Quoted: id.Quoted, Pos: id.Pos}
}

func cloneIdentifiers(ids []*Identifier) []*Identifier {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Identifier, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneIdentifier(id))
	}
	return out
}

func cloneQualifiedName(q *QualifiedName) *QualifiedName {
	if q == nil {
		return nil
	}
	return &QualifiedName{comments: cloneComments(q.comments), Parts: cloneIdentifiers(q.Parts)}
}

func cloneWith(w *WithClause) *WithClause {
	if w == nil {
		return nil
	}
	ctes := make([]*CTEDefinition, 0, len(w.CTEs))
	for _, cte := range w.CTEs {
		ctes = append(ctes, &CTEDefinition{
			comments: cloneComments(cte.comments),
			Name:     cloneIdentifier(cte.Name),
			Columns:  cloneIdentifiers(cte.Columns),
			Query:    CloneSelectQuery(cte.Query),
		})
	}
	return &WithClause{comments: cloneComments(w.comments), Recursive: w.Recursive, CTEs: ctes}
}

func cloneSelectItems(items []*SelectItem) []*SelectItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]*SelectItem, 0, len(items))
	for _, item := range items {
		out = append(out, &SelectItem{
			comments: cloneComments(item.comments),
			Expr:     CloneExpression(item.Expr),
			Alias:    cloneIdentifier(item.Alias),
		})
	}
	return out
}

func cloneTableName(t *TableName) *TableName {
	if t == nil {
		return nil
	}
	return &TableName{comments: cloneComments(t.comments), Name: cloneQualifiedName(t.Name), Alias: cloneIdentifier(t.Alias)}
}

func cloneTableExpression(t TableExpression) TableExpression {
	switch t := t.(type) {
	case nil:
		return nil
	case *TableName:
		return cloneTableName(t)
	case *SubqueryTable:
		return &SubqueryTable{
			comments: cloneComments(t.comments),
			Query:    CloneSelectQuery(t.Query),
			Alias:    cloneIdentifier(t.Alias),
		}
	default:
		return nil
	}
}

func cloneFrom(f *FromClause) *FromClause {
	if f == nil {
		return nil
	}
	joins := make([]*JoinClause, 0, len(f.Joins))
	for _, j := range f.Joins {
		joins = append(joins, &JoinClause{
			comments: cloneComments(j.comments),
			Type:     j.Type,
			Target:   cloneTableExpression(j.Target),
			On:       CloneExpression(j.On),
			Using:    cloneIdentifiers(j.Using),
		})
	}
	if len(joins) == 0 {
		joins = nil
	}
	return &FromClause{comments: cloneComments(f.comments), Source: cloneTableExpression(f.Source), Joins: joins}
}

func cloneGroupingElement(g *GroupingElement) *GroupingElement {
	var sets [][]Expression
	for _, set := range g.Sets {
		cloned := make([]Expression, 0, len(set))
		for _, e := range set {
			cloned = append(cloned, CloneExpression(e))
		}
		sets = append(sets, cloned)
	}
	return &GroupingElement{
		comments: cloneComments(g.comments),
		Kind:     g.Kind,
		Expr:     CloneExpression(g.Expr),
		Sets:     sets,
	}
}

func cloneOrderBy(o *OrderByClause) *OrderByClause {
	if o == nil {
		return nil
	}
	return &OrderByClause{comments: cloneComments(o.comments), Items: cloneOrderByItems(o.Items)}
}

func cloneOrderByItems(items []*OrderByItem) []*OrderByItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]*OrderByItem, 0, len(items))
	for _, item := range items {
		out = append(out, &OrderByItem{
			comments:  cloneComments(item.comments),
			Expr:      CloneExpression(item.Expr),
			Direction: item.Direction,
			Nulls:     item.Nulls,
		})
	}
	return out
}

func cloneSetClauses(set []*SetClause) []*SetClause {
	if len(set) == 0 {
		return nil
	}
	out := make([]*SetClause, 0, len(set))
	for _, s := range set {
		out = append(out, &SetClause{
			comments: cloneComments(s.comments),
			Column:   cloneQualifiedName(s.Column),
			Value:    CloneExpression(s.Value),
		})
	}
	return out
}

func cloneColumnDefinition(c *ColumnDefinition) *ColumnDefinition {
	if c == nil {
		return nil
	}
	return &ColumnDefinition{
		comments:   cloneComments(c.comments),
		Name:       cloneIdentifier(c.Name),
		Type:       cloneTypeName(c.Type),
		NotNull:    c.NotNull,
		PrimaryKey: c.PrimaryKey,
		Default:    CloneExpression(c.Default),
	}
}

func cloneTypeName(t *TypeName) *TypeName {
	if t == nil {
		return nil
	}
	args := make([]Expression, 0, len(t.Args))
	for _, a := range t.Args {
		args = append(args, CloneExpression(a))
	}
	if len(args) == 0 {
		args = nil
	}
	return &TypeName{comments: cloneComments(t.comments), Name: t.Name, Args: args}
}

func cloneFunctionCall(f *FunctionCall) *FunctionCall {
	if f == nil {
		return nil
	}
	args := make([]Expression, 0, len(f.Args))
	for _, a := range f.Args {
		args = append(args, CloneExpression(a))
	}
	if len(args) == 0 {
		args = nil
	}
	return &FunctionCall{
		comments: cloneComments(f.comments),
		Name:     cloneQualifiedName(f.Name),
		Distinct: f.Distinct,
		Star:     f.Star,
		Args:     args,
	}
}

func cloneSubquery(s *Subquery) *Subquery {
	if s == nil {
		return nil
	}
	return &Subquery{comments: cloneComments(s.comments), Query: CloneSelectQuery(s.Query)}
}
