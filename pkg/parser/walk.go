package parser

// Children returns the direct child nodes of n in source order. It powers
// generic tree traversal for transformation and inspection tooling; nil
// children are skipped.
func Children(n Node) []Node {
	var out []Node

	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addIdent := func(id *Identifier) {
		if id != nil {
			out = append(out, id)
		}
	}
	addName := func(q *QualifiedName) {
		if q != nil {
			out = append(out, q)
		}
	}
	addExpr := func(e Expression) {
		if e != nil {
			out = append(out, e)
		}
	}
	addExprs := func(exprs []Expression) {
		for _, e := range exprs {
			addExpr(e)
		}
	}
	addItems := func(items []*SelectItem) {
		for _, item := range items {
			add(item)
		}
	}
	addWith := func(w *WithClause) {
		if w != nil {
			out = append(out, w)
		}
	}
	addQuery := func(q SelectQuery) {
		if q != nil {
			out = append(out, q)
		}
	}

	switch n := n.(type) {
	case *QualifiedName:
		for _, part := range n.Parts {
			addIdent(part)
		}

	case *WithClause:
		for _, cte := range n.CTEs {
			add(cte)
		}

	case *CTEDefinition:
		addIdent(n.Name)
		for _, col := range n.Columns {
			addIdent(col)
		}
		addQuery(n.Query)

	case *SimpleSelectQuery:
		addWith(n.With)
		addItems(n.Items)
		if n.From != nil {
			add(n.From)
		}
		addExpr(n.Where)
		if n.GroupBy != nil {
			add(n.GroupBy)
		}
		addExpr(n.Having)
		if n.OrderBy != nil {
			add(n.OrderBy)
		}
		addExpr(n.Limit)
		addExpr(n.Offset)

	case *BinarySelectQuery:
		addQuery(n.Left)
		addQuery(n.Right)

	case *ValuesQuery:
		addWith(n.With)
		for _, row := range n.Rows {
			addExprs(row)
		}

	case *SelectItem:
		addExpr(n.Expr)
		addIdent(n.Alias)

	case *FromClause:
		if n.Source != nil {
			add(n.Source)
		}
		for _, join := range n.Joins {
			add(join)
		}

	case *TableName:
		addName(n.Name)
		addIdent(n.Alias)

	case *SubqueryTable:
		addQuery(n.Query)
		addIdent(n.Alias)

	case *JoinClause:
		if n.Target != nil {
			add(n.Target)
		}
		addExpr(n.On)
		for _, col := range n.Using {
			addIdent(col)
		}

	case *GroupByClause:
		for _, item := range n.Items {
			add(item)
		}

	case *GroupingElement:
		addExpr(n.Expr)
		for _, set := range n.Sets {
			addExprs(set)
		}

	case *OrderByClause:
		for _, item := range n.Items {
			add(item)
		}

	case *OrderByItem:
		addExpr(n.Expr)

	case *InsertQuery:
		addWith(n.With)
		addName(n.Table)
		for _, col := range n.Columns {
			addIdent(col)
		}
		addQuery(n.Source)
		addItems(n.Returning)

	case *UpdateQuery:
		addWith(n.With)
		if n.Table != nil {
			add(n.Table)
		}
		for _, set := range n.Set {
			add(set)
		}
		if n.From != nil {
			add(n.From)
		}
		addExpr(n.Where)
		addItems(n.Returning)

	case *SetClause:
		addName(n.Column)
		addExpr(n.Value)

	case *DeleteQuery:
		addWith(n.With)
		if n.Table != nil {
			add(n.Table)
		}
		for _, u := range n.Using {
			add(u)
		}
		addExpr(n.Where)
		addItems(n.Returning)

	case *CreateTableQuery:
		addName(n.Name)
		for _, col := range n.Columns {
			add(col)
		}
		addQuery(n.AsQuery)

	case *ColumnDefinition:
		addIdent(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
		addExpr(n.Default)

	case *TypeName:
		addExprs(n.Args)

	case *AlterTableStatement:
		addName(n.Table)
		if n.AddColumn != nil {
			add(n.AddColumn)
		}
		addIdent(n.DropColumn)
		addIdent(n.RenameFrom)
		addIdent(n.RenameTo)
		addName(n.RenameTable)

	case *DropStatement:
		addName(n.Name)

	case *CreateIndexStatement:
		addName(n.Name)
		addName(n.Table)
		for _, col := range n.Columns {
			add(col)
		}

	case *ExplainStatement:
		if n.Target != nil {
			add(n.Target)
		}

	case *AnalyzeStatement:
		addName(n.Target)

	case *ColumnReference:
		addName(n.Name)

	case *Star:
		addName(n.Qualifier)

	case *BinaryExpression:
		addExpr(n.Left)
		addExpr(n.Right)

	case *NaryExpression:
		addExprs(n.Operands)

	case *UnaryExpression:
		addExpr(n.Operand)

	case *BetweenExpression:
		addExpr(n.Expr)
		addExpr(n.Lower)
		addExpr(n.Upper)

	case *InExpression:
		addExpr(n.Expr)
		addExprs(n.List)
		if n.Subquery != nil {
			add(n.Subquery)
		}

	case *IsExpression:
		addExpr(n.Expr)

	case *CaseExpression:
		addExpr(n.Operand)
		for _, branch := range n.Branches {
			add(branch)
		}
		addExpr(n.Else)

	case *CaseBranch:
		addExpr(n.When)
		addExpr(n.Then)

	case *FunctionCall:
		addName(n.Name)
		addExprs(n.Args)

	case *WindowFunctionCall:
		if n.Function != nil {
			add(n.Function)
		}
		addExprs(n.PartitionBy)
		if n.OrderBy != nil {
			add(n.OrderBy)
		}

	case *CastExpression:
		addExpr(n.Expr)
		if n.Type != nil {
			add(n.Type)
		}

	case *ParenExpression:
		addExpr(n.Expr)

	case *TupleExpression:
		addExprs(n.Exprs)

	case *Subquery:
		addQuery(n.Query)

	case *ExistsExpression:
		if n.Subquery != nil {
			add(n.Subquery)
		}
	}

	return out
}

// Walk visits n and every node beneath it in depth-first source order. The
// visit function returns false to skip a node's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, visit)
	}
}
