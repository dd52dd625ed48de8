package parser_test

import (
	"strings"
	"testing"

	. "github.com/pseudomuto/sqlkit/pkg/parser"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	sql := `SELECT id, name FROM users WHERE active = true;
INSERT INTO audit_log (user_id, action) VALUES (1, 'login');`

	reader := strings.NewReader(sql)
	script, err := Parse(reader)

	require.NoError(t, err)
	require.Len(t, script.Statements, 2)

	sel, ok := script.Statements[0].(*SimpleSelectQuery)
	require.True(t, ok)
	require.Len(t, sel.Items, 2)
	require.Equal(t, "users", sel.From.Source.(*TableName).Name.String())
	require.NotNil(t, sel.Where)

	ins, ok := script.Statements[1].(*InsertQuery)
	require.True(t, ok)
	require.Equal(t, "audit_log", ins.Table.String())
	require.Len(t, ins.Columns, 2)
	require.Len(t, ins.Source.(*ValuesQuery).Rows, 1)
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, sql := range []string{"", "   \n\t", ";;;"} {
		_, err := ParseString(sql)
		require.Error(t, err, "input %q", sql)

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	}
}

func TestParseString_SelectClauses(t *testing.T) {
	sql := `SELECT DISTINCT d.name, count(*) AS total
FROM employees e
JOIN departments d ON e.dept_id = d.id
WHERE e.salary > 50000
GROUP BY d.name
HAVING count(*) > 5
ORDER BY total DESC NULLS LAST
LIMIT 10 OFFSET 20`

	script, err := ParseString(sql)
	require.NoError(t, err)
	require.Len(t, script.Statements, 1)

	q := script.Statements[0].(*SimpleSelectQuery)
	require.True(t, q.Distinct)
	require.Len(t, q.Items, 2)
	require.Equal(t, "total", q.Items[1].Alias.Name)

	require.Len(t, q.From.Joins, 1)
	require.Equal(t, "JOIN", q.From.Joins[0].Type)
	require.NotNil(t, q.From.Joins[0].On)

	require.NotNil(t, q.Where)
	require.Len(t, q.GroupBy.Items, 1)
	require.NotNil(t, q.Having)

	require.Len(t, q.OrderBy.Items, 1)
	require.Equal(t, "DESC", q.OrderBy.Items[0].Direction)
	require.Equal(t, "LAST", q.OrderBy.Items[0].Nulls)

	require.Equal(t, "10", q.Limit.(*Literal).Text)
	require.Equal(t, "20", q.Offset.(*Literal).Text)
}

func TestParseString_JoinVariants(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM a JOIN b ON a.id = b.id", "JOIN"},
		{"SELECT * FROM a INNER JOIN b ON a.id = b.id", "INNER JOIN"},
		{"SELECT * FROM a LEFT JOIN b ON a.id = b.id", "LEFT JOIN"},
		{"SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.id", "LEFT OUTER JOIN"},
		{"SELECT * FROM a RIGHT JOIN b USING (id)", "RIGHT JOIN"},
		{"SELECT * FROM a FULL OUTER JOIN b ON a.id = b.id", "FULL OUTER JOIN"},
		{"SELECT * FROM a CROSS JOIN b", "CROSS JOIN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			script, err := ParseString(tt.sql)
			require.NoError(t, err)

			q := script.Statements[0].(*SimpleSelectQuery)
			require.Len(t, q.From.Joins, 1)
			require.Equal(t, tt.want, q.From.Joins[0].Type)
		})
	}
}

func TestParseString_SetOperationsLeftAssociative(t *testing.T) {
	script, err := ParseString("SELECT a FROM t1 UNION ALL SELECT a FROM t2 EXCEPT SELECT a FROM t3")
	require.NoError(t, err)

	outer := script.Statements[0].(*BinarySelectQuery)
	require.Equal(t, "EXCEPT", outer.Operator)

	inner, ok := outer.Left.(*BinarySelectQuery)
	require.True(t, ok)
	require.Equal(t, "UNION ALL", inner.Operator)
	require.IsType(t, &SimpleSelectQuery{}, inner.Left)
	require.IsType(t, &SimpleSelectQuery{}, outer.Right)
}

func TestParseString_WithClause(t *testing.T) {
	sql := `WITH RECURSIVE tree (id, parent) AS (
	SELECT id, parent_id FROM nodes WHERE parent_id IS NULL
	UNION ALL
	SELECT n.id, n.parent_id FROM nodes n JOIN tree t ON n.parent_id = t.id
)
SELECT * FROM tree`

	script, err := ParseString(sql)
	require.NoError(t, err)

	q := script.Statements[0].(*SimpleSelectQuery)
	require.NotNil(t, q.With)
	require.True(t, q.With.Recursive)
	require.Len(t, q.With.CTEs, 1)

	cte := q.With.CTEs[0]
	require.Equal(t, "tree", cte.Name.Name)
	require.Len(t, cte.Columns, 2)
	require.IsType(t, &BinarySelectQuery{}, cte.Query)
}

func TestParseString_Values(t *testing.T) {
	script, err := ParseString("VALUES (1, 'a'), (2, 'b')")
	require.NoError(t, err)

	q := script.Statements[0].(*ValuesQuery)
	require.Len(t, q.Rows, 2)
	require.Len(t, q.Rows[0], 2)
	require.Equal(t, "'a'", q.Rows[0][1].(*Literal).Text)
}

func TestParseString_Insert(t *testing.T) {
	script, err := ParseString(
		"INSERT INTO users (name, email) SELECT name, email FROM staging RETURNING id")
	require.NoError(t, err)

	ins := script.Statements[0].(*InsertQuery)
	require.Equal(t, "users", ins.Table.String())
	require.Len(t, ins.Columns, 2)
	require.IsType(t, &SimpleSelectQuery{}, ins.Source)
	require.Len(t, ins.Returning, 1)
}

func TestParseString_InsertDefaultValues(t *testing.T) {
	script, err := ParseString("INSERT INTO counters (name, value) VALUES ('hits', DEFAULT)")
	require.NoError(t, err)

	ins := script.Statements[0].(*InsertQuery)
	rows := ins.Source.(*ValuesQuery).Rows
	require.Len(t, rows, 1)

	def := rows[0][1].(*Literal)
	require.Equal(t, LiteralDefault, def.Kind)
}

func TestParseString_Update(t *testing.T) {
	sql := `UPDATE users u
SET name = 'bob', updated_at = now()
FROM sessions s
WHERE u.id = s.user_id AND s.active
RETURNING u.id`

	script, err := ParseString(sql)
	require.NoError(t, err)

	upd := script.Statements[0].(*UpdateQuery)
	require.Equal(t, "users", upd.Table.Name.String())
	require.Equal(t, "u", upd.Table.Alias.Name)
	require.Len(t, upd.Set, 2)
	require.Equal(t, "name", upd.Set[0].Column.String())
	require.NotNil(t, upd.From)
	require.NotNil(t, upd.Where)
	require.Len(t, upd.Returning, 1)
}

func TestParseString_Delete(t *testing.T) {
	script, err := ParseString(
		"DELETE FROM sessions s USING users u WHERE s.user_id = u.id RETURNING s.id")
	require.NoError(t, err)

	del := script.Statements[0].(*DeleteQuery)
	require.Equal(t, "sessions", del.Table.Name.String())
	require.Len(t, del.Using, 1)
	require.Equal(t, "users", del.Using[0].Name.String())
	require.NotNil(t, del.Where)
	require.Len(t, del.Returning, 1)
}

func TestParseString_CreateTable(t *testing.T) {
	sql := `CREATE TABLE IF NOT EXISTS users (
	id bigint PRIMARY KEY,
	email varchar(255) NOT NULL,
	created_at timestamp DEFAULT now()
)`

	script, err := ParseString(sql)
	require.NoError(t, err)

	ct := script.Statements[0].(*CreateTableQuery)
	require.True(t, ct.IfNotExists)
	require.Equal(t, "users", ct.Name.String())
	require.Len(t, ct.Columns, 3)

	require.True(t, ct.Columns[0].PrimaryKey)
	require.True(t, ct.Columns[1].NotNull)
	require.Equal(t, "varchar", ct.Columns[1].Type.Name)
	require.Len(t, ct.Columns[1].Type.Args, 1)
	require.NotNil(t, ct.Columns[2].Default)
}

func TestParseString_CreateTableAs(t *testing.T) {
	script, err := ParseString("CREATE TEMPORARY TABLE recent AS SELECT * FROM events WHERE ts > :cutoff")
	require.NoError(t, err)

	ct := script.Statements[0].(*CreateTableQuery)
	require.True(t, ct.Temporary)
	require.Empty(t, ct.Columns)
	require.IsType(t, &SimpleSelectQuery{}, ct.AsQuery)
}

func TestParseString_AlterTable(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check func(t *testing.T, stmt *AlterTableStatement)
	}{
		{
			name: "add column",
			sql:  "ALTER TABLE users ADD COLUMN age int NOT NULL",
			check: func(t *testing.T, stmt *AlterTableStatement) {
				require.NotNil(t, stmt.AddColumn)
				require.Equal(t, "age", stmt.AddColumn.Name.Name)
				require.True(t, stmt.AddColumn.NotNull)
			},
		},
		{
			name: "drop column if exists",
			sql:  "ALTER TABLE users DROP COLUMN IF EXISTS age",
			check: func(t *testing.T, stmt *AlterTableStatement) {
				require.NotNil(t, stmt.DropColumn)
				require.True(t, stmt.DropIfExists)
			},
		},
		{
			name: "rename column",
			sql:  "ALTER TABLE users RENAME COLUMN fullname TO name",
			check: func(t *testing.T, stmt *AlterTableStatement) {
				require.Equal(t, "fullname", stmt.RenameFrom.Name)
				require.Equal(t, "name", stmt.RenameTo.Name)
			},
		},
		{
			name: "rename table",
			sql:  "ALTER TABLE users RENAME TO members",
			check: func(t *testing.T, stmt *AlterTableStatement) {
				require.Equal(t, "members", stmt.RenameTable.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := ParseString(tt.sql)
			require.NoError(t, err)

			stmt := script.Statements[0].(*AlterTableStatement)
			require.Equal(t, "users", stmt.Table.String())
			tt.check(t, stmt)
		})
	}
}

func TestParseString_DropAndIndex(t *testing.T) {
	script, err := ParseString(`DROP TABLE IF EXISTS old_users;
CREATE UNIQUE INDEX idx_users_email ON users (email, created_at DESC)`)
	require.NoError(t, err)
	require.Len(t, script.Statements, 2)

	drop := script.Statements[0].(*DropStatement)
	require.Equal(t, "TABLE", drop.Kind)
	require.True(t, drop.IfExists)
	require.Equal(t, "old_users", drop.Name.String())

	idx := script.Statements[1].(*CreateIndexStatement)
	require.True(t, idx.Unique)
	require.Equal(t, "idx_users_email", idx.Name.String())
	require.Equal(t, "users", idx.Table.String())
	require.Len(t, idx.Columns, 2)
	require.Equal(t, "DESC", idx.Columns[1].Direction)
}

func TestParseString_ExplainAnalyze(t *testing.T) {
	script, err := ParseString("EXPLAIN ANALYZE SELECT * FROM users; ANALYZE users")
	require.NoError(t, err)
	require.Len(t, script.Statements, 2)

	exp := script.Statements[0].(*ExplainStatement)
	require.True(t, exp.Analyze)
	require.IsType(t, &SimpleSelectQuery{}, exp.Target)

	an := script.Statements[1].(*AnalyzeStatement)
	require.Equal(t, "users", an.Target.String())
}

func TestParseString_QuotedIdentifiers(t *testing.T) {
	script, err := ParseString(`SELECT "user ""x""", ` + "`col`" + `, [bracketed] FROM "my table"`)
	require.NoError(t, err)

	q := script.Statements[0].(*SimpleSelectQuery)
	require.Len(t, q.Items, 3)

	first := q.Items[0].Expr.(*ColumnReference).Name.Last()
	require.Equal(t, `user "x"`, first.Name)
	require.True(t, first.Quoted)

	table := q.From.Source.(*TableName)
	require.Equal(t, "my table", table.Name.String())
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		line int
		col  int
	}{
		{"bad statement keyword", "FOO BAR", 1, 1},
		{"missing from table", "SELECT * FROM", 1, 14},
		{"unbalanced paren", "SELECT (1 + 2", 1, 14},
		{"dangling operator", "SELECT a +", 1, 11},
		{"missing then", "SELECT CASE WHEN a = 1 'x' END", 1, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.sql)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tt.line, perr.Pos.Line)
			require.Equal(t, tt.col, perr.Pos.Column)
		})
	}
}

func TestParseString_NestingTooDeep(t *testing.T) {
	sql := "SELECT " + strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)

	_, err := ParseString(sql)
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Contains(t, perr.Error(), "nesting too deep")
}

func TestParseString_SubqueryInFrom(t *testing.T) {
	script, err := ParseString("SELECT t.n FROM (SELECT count(*) AS n FROM events) AS t")
	require.NoError(t, err)

	q := script.Statements[0].(*SimpleSelectQuery)
	sub := q.From.Source.(*SubqueryTable)
	require.Equal(t, "t", sub.Alias.Name)
	require.IsType(t, &SimpleSelectQuery{}, sub.Query)
}

func TestParseString_GroupingSets(t *testing.T) {
	script, err := ParseString(
		"SELECT region, product, sum(sales) FROM orders GROUP BY GROUPING SETS ((region, product), (region), ())")
	require.NoError(t, err)

	q := script.Statements[0].(*SimpleSelectQuery)
	require.Len(t, q.GroupBy.Items, 1)

	elem := q.GroupBy.Items[0]
	require.Equal(t, "GROUPING SETS", elem.Kind)
	require.Len(t, elem.Sets, 3)
	require.Len(t, elem.Sets[0], 2)
	require.Empty(t, elem.Sets[2])
}

func TestParseString_TupleExpression(t *testing.T) {
	script, err := ParseString("SELECT * FROM t WHERE (a, b) IN (SELECT x, y FROM u)")
	require.NoError(t, err)

	q := script.Statements[0].(*SimpleSelectQuery)
	in := q.Where.(*InExpression)

	tuple := in.Expr.(*TupleExpression)
	require.Len(t, tuple.Exprs, 2)
	require.Equal(t, "a", tuple.Exprs[0].(*ColumnReference).Name.String())
	require.Equal(t, "b", tuple.Exprs[1].(*ColumnReference).Name.String())
	require.NotNil(t, in.Subquery)
}

func TestParseString_SoftKeywordIdentifiers(t *testing.T) {
	script, err := ParseString("SELECT e.key, first AS label FROM events e ORDER BY first NULLS LAST")
	require.NoError(t, err)

	q := script.Statements[0].(*SimpleSelectQuery)
	col := q.Items[0].Expr.(*ColumnReference)
	require.Equal(t, "e.key", col.Name.String())

	require.Equal(t, "first", q.Items[1].Expr.(*ColumnReference).Name.String())
	require.Equal(t, "label", q.Items[1].Alias.Name)

	require.Equal(t, "first", q.OrderBy.Items[0].Expr.(*ColumnReference).Name.String())
	require.Equal(t, "LAST", q.OrderBy.Items[0].Nulls)
}

func TestParseString_SoftKeywordColumnNames(t *testing.T) {
	script, err := ParseString("CREATE TABLE audit (key text NOT NULL, index int)")
	require.NoError(t, err)

	q := script.Statements[0].(*CreateTableQuery)
	require.Equal(t, "key", q.Columns[0].Name.Name)
	require.True(t, q.Columns[0].NotNull)
	require.Equal(t, "index", q.Columns[1].Name.Name)
}
