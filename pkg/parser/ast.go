package parser

import "github.com/alecthomas/participle/v2/lexer"

// CommentAnchor describes where a positioned comment sits relative to its
// owning node.
type CommentAnchor int

const (
	// CommentLeading precedes a specific clause element.
	CommentLeading CommentAnchor = iota
	// CommentTrailing follows an element on the same logical source line.
	CommentTrailing
	// CommentHeader precedes an entire statement or CTE definition.
	CommentHeader
)

func (a CommentAnchor) String() string {
	switch a {
	case CommentTrailing:
		return "trailing"
	case CommentHeader:
		return "header"
	default:
		return "leading"
	}
}

type (
	// PositionedComment is a source comment bound to a single AST node.
	// Text retains the comment delimiters exactly as written.
	PositionedComment struct {
		Text   string
		Anchor CommentAnchor
		Pos    lexer.Position
	}

	// Node is implemented by every AST node. Nodes own their children and
	// optionally carry positioned comments.
	Node interface {
		PositionedComments() []PositionedComment
		AddComment(c PositionedComment)
	}

	// Statement is a top-level SQL statement.
	Statement interface {
		Node
		statement()
	}

	// SelectQuery is any query usable where a SELECT is expected: a simple
	// SELECT, a set-operation chain, or a VALUES list.
	SelectQuery interface {
		Statement
		selectQuery()
	}

	// TableExpression is a source in a FROM clause: a named table or a
	// parenthesized subquery.
	TableExpression interface {
		Node
		tableExpression()
	}

	// comments is embedded by every concrete node to carry its positioned
	// comments.
	comments struct {
		list []PositionedComment
	}
)

func (c *comments) PositionedComments() []PositionedComment { return c.list }

func (c *comments) AddComment(pc PositionedComment) { c.list = append(c.list, pc) }

type (
	// Identifier is a single (possibly quoted) name. Name holds the bare
	// text with quoting stripped; Quoted records whether the author quoted
	// it in the source.
	Identifier struct {
		comments

		Name   string
		Quoted bool
		Pos    lexer.Position
	}

	// QualifiedName is a dotted name such as schema.table or t.col.
	QualifiedName struct {
		comments

		Parts []*Identifier
	}

	// WithClause holds the CTE definitions of a statement.
	WithClause struct {
		comments

		Recursive bool
		CTEs      []*CTEDefinition
	}

	// CTEDefinition is one entry of a WITH clause:
	// name [(col, ...)] AS ( <query> ).
	CTEDefinition struct {
		comments

		Name    *Identifier
		Columns []*Identifier
		Query   SelectQuery
	}

	// SimpleSelectQuery is a single SELECT block.
	SimpleSelectQuery struct {
		comments

		With     *WithClause
		Distinct bool
		Items    []*SelectItem
		From     *FromClause
		Where    Expression
		GroupBy  *GroupByClause
		Having   Expression
		OrderBy  *OrderByClause
		Limit    Expression
		Offset   Expression
	}

	// BinarySelectQuery is a set operation over two queries. Chains are
	// left-associative: a UNION b UNION c parses as (a UNION b) UNION c.
	BinarySelectQuery struct {
		comments

		Left     SelectQuery
		Operator string // UNION, UNION ALL, INTERSECT, EXCEPT
		Right    SelectQuery
	}

	// ValuesQuery is a standalone VALUES (...), (...) query.
	ValuesQuery struct {
		comments

		With *WithClause
		Rows [][]Expression
	}

	// SelectItem is one element of a SELECT list.
	SelectItem struct {
		comments

		Expr  Expression
		Alias *Identifier
	}

	// FromClause is a FROM source plus any joins.
	FromClause struct {
		comments

		Source TableExpression
		Joins  []*JoinClause
	}

	// TableName is a named table reference with an optional alias.
	TableName struct {
		comments

		Name  *QualifiedName
		Alias *Identifier
	}

	// SubqueryTable is a parenthesized query in a FROM clause.
	SubqueryTable struct {
		comments

		Query SelectQuery
		Alias *Identifier
	}

	// JoinClause is a single join step.
	JoinClause struct {
		comments

		Type   string // JOIN, INNER JOIN, LEFT JOIN, LEFT OUTER JOIN, ...
		Target TableExpression
		On     Expression
		Using  []*Identifier
	}

	// GroupByClause holds GROUP BY elements.
	GroupByClause struct {
		comments

		Items []*GroupingElement
	}

	// GroupingElement is a plain expression or a GROUPING SETS / ROLLUP /
	// CUBE group.
	GroupingElement struct {
		comments

		Kind string // "" (plain), GROUPING SETS, ROLLUP, CUBE
		Expr Expression
		Sets [][]Expression
	}

	// OrderByClause holds ORDER BY items.
	OrderByClause struct {
		comments

		Items []*OrderByItem
	}

	// OrderByItem is one sort key with optional direction and null ordering.
	OrderByItem struct {
		comments

		Expr      Expression
		Direction string // "", ASC, DESC
		Nulls     string // "", FIRST, LAST
	}

	// InsertQuery is an INSERT INTO statement sourcing rows from VALUES or a
	// query.
	InsertQuery struct {
		comments

		With      *WithClause
		Table     *QualifiedName
		Columns   []*Identifier
		Source    SelectQuery
		Returning []*SelectItem
	}

	// UpdateQuery is an UPDATE statement.
	UpdateQuery struct {
		comments

		With      *WithClause
		Table     *TableName
		Set       []*SetClause
		From      *FromClause
		Where     Expression
		Returning []*SelectItem
	}

	// SetClause is one column = expr assignment in UPDATE ... SET.
	SetClause struct {
		comments

		Column *QualifiedName
		Value  Expression
	}

	// DeleteQuery is a DELETE FROM statement.
	DeleteQuery struct {
		comments

		With      *WithClause
		Table     *TableName
		Using     []*TableName
		Where     Expression
		Returning []*SelectItem
	}

	// CreateTableQuery is a CREATE [TEMPORARY] TABLE statement, either with
	// an explicit column list or AS <query>.
	CreateTableQuery struct {
		comments

		Temporary   bool
		IfNotExists bool
		Name        *QualifiedName
		Columns     []*ColumnDefinition
		AsQuery     SelectQuery
	}

	// ColumnDefinition is one column of a CREATE TABLE.
	ColumnDefinition struct {
		comments

		Name       *Identifier
		Type       *TypeName
		NotNull    bool
		PrimaryKey bool
		Default    Expression
	}

	// TypeName is a data type with optional arguments, e.g. varchar(255) or
	// numeric(10, 2).
	TypeName struct {
		comments

		Name string
		Args []Expression
	}

	// AlterTableStatement is an ALTER TABLE statement with a single action.
	AlterTableStatement struct {
		comments

		Table        *QualifiedName
		AddColumn    *ColumnDefinition
		DropColumn   *Identifier
		DropIfExists bool
		RenameFrom   *Identifier
		RenameTo     *Identifier
		RenameTable  *QualifiedName
	}

	// DropStatement is DROP TABLE or DROP INDEX.
	DropStatement struct {
		comments

		Kind     string // TABLE, INDEX
		IfExists bool
		Name     *QualifiedName
	}

	// CreateIndexStatement is a CREATE [UNIQUE] INDEX statement.
	CreateIndexStatement struct {
		comments

		Unique      bool
		IfNotExists bool
		Name        *QualifiedName
		Table       *QualifiedName
		Columns     []*OrderByItem
	}

	// ExplainStatement wraps another statement in EXPLAIN [ANALYZE].
	ExplainStatement struct {
		comments

		Analyze bool
		Target  Statement
	}

	// AnalyzeStatement is a standalone ANALYZE <table> statement.
	AnalyzeStatement struct {
		comments

		Target *QualifiedName
	}

	// Script is the result of one parse: the statement list, the retained
	// lexeme stream, and the position index built over it.
	Script struct {
		Statements []Statement
		Index      *PositionIndex
	}
)

func (*SimpleSelectQuery) statement()    {}
func (*BinarySelectQuery) statement()    {}
func (*ValuesQuery) statement()          {}
func (*InsertQuery) statement()          {}
func (*UpdateQuery) statement()          {}
func (*DeleteQuery) statement()          {}
func (*CreateTableQuery) statement()     {}
func (*AlterTableStatement) statement()  {}
func (*DropStatement) statement()        {}
func (*CreateIndexStatement) statement() {}
func (*ExplainStatement) statement()     {}
func (*AnalyzeStatement) statement()     {}

func (*SimpleSelectQuery) selectQuery() {}
func (*BinarySelectQuery) selectQuery() {}
func (*ValuesQuery) selectQuery()       {}

func (*TableName) tableExpression()     {}
func (*SubqueryTable) tableExpression() {}

// String returns the dotted form of the name without quoting.
func (q *QualifiedName) String() string {
	if q == nil {
		return ""
	}
	out := ""
	for i, part := range q.Parts {
		if i > 0 {
			out += "."
		}
		out += part.Name
	}
	return out
}

// Last returns the final segment of the name.
func (q *QualifiedName) Last() *Identifier {
	if q == nil || len(q.Parts) == 0 {
		return nil
	}
	return q.Parts[len(q.Parts)-1]
}
