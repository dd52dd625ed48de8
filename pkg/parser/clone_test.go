package parser_test

import (
	"testing"

	. "github.com/pseudomuto/sqlkit/pkg/parser"
	"github.com/stretchr/testify/require"
)

func TestCloneStatement_Select(t *testing.T) {
	script, err := ParseString(`-- monthly rollup
WITH totals AS (SELECT region, sum(amount) AS amount FROM orders GROUP BY region)
SELECT region, amount FROM totals WHERE amount > 100 ORDER BY amount DESC`)
	require.NoError(t, err)

	original := script.Statements[0].(*SimpleSelectQuery)
	clone := CloneStatement(original).(*SimpleSelectQuery)

	require.Equal(t, original, clone)
	require.NotSame(t, original, clone)
	require.NotSame(t, original.With, clone.With)
	require.NotSame(t, original.Items[0], clone.Items[0])
	require.NotSame(t, original.Where, clone.Where)
}

func TestCloneStatement_MutationDoesNotLeak(t *testing.T) {
	script, err := ParseString("SELECT id FROM users WHERE active AND verified")
	require.NoError(t, err)

	original := script.Statements[0].(*SimpleSelectQuery)
	clone := CloneStatement(original).(*SimpleSelectQuery)

	clone.Items[0].Alias = &Identifier{Name: "user_id"}
	clone.Where.(*NaryExpression).Operands[0] = &Literal{Kind: LiteralBool, Text: "true"}
	clone.AddComment(PositionedComment{Text: "-- injected", Anchor: CommentHeader})

	require.Nil(t, original.Items[0].Alias)
	require.IsType(t, &ColumnReference{}, original.Where.(*NaryExpression).Operands[0])
	require.Empty(t, original.PositionedComments())
}

func TestCloneStatement_AllStatementKinds(t *testing.T) {
	sql := `SELECT a FROM t UNION SELECT b FROM u;
VALUES (1), (2);
INSERT INTO t (a) VALUES (1) RETURNING a;
UPDATE t SET a = 1 WHERE b = 2;
DELETE FROM t USING u WHERE t.id = u.id;
CREATE TABLE t2 (id bigint PRIMARY KEY, name varchar(64) NOT NULL DEFAULT 'x');
CREATE UNIQUE INDEX i ON t (a DESC);
ALTER TABLE t ADD COLUMN c int;
DROP TABLE IF EXISTS t;
EXPLAIN ANALYZE SELECT * FROM t;
ANALYZE t`

	script, err := ParseString(sql)
	require.NoError(t, err)
	require.Len(t, script.Statements, 11)

	for _, stmt := range script.Statements {
		clone := CloneStatement(stmt)
		require.Equal(t, stmt, clone)
		require.NotSame(t, stmt, clone)
	}
}

func TestCloneExpression(t *testing.T) {
	script, err := ParseString(`SELECT CASE WHEN a BETWEEN 1 AND 10 THEN 'low' ELSE 'high' END,
	count(*) OVER (PARTITION BY region ORDER BY ts DESC),
	x::numeric(10, 2),
	EXISTS (SELECT 1 FROM t),
	a NOT IN (1, 2, 3)
FROM data`)
	require.NoError(t, err)

	q := script.Statements[0].(*SimpleSelectQuery)
	for _, item := range q.Items {
		clone := CloneExpression(item.Expr)
		require.Equal(t, item.Expr, clone)
		require.NotSame(t, item.Expr, clone)
	}
}

func TestCloneStatement_CommentsCopied(t *testing.T) {
	script, err := ParseString(`-- header
SELECT id -- trailing
FROM users`)
	require.NoError(t, err)

	original := script.Statements[0].(*SimpleSelectQuery)
	clone := CloneStatement(original).(*SimpleSelectQuery)

	require.Equal(t, original.PositionedComments(), clone.PositionedComments())

	clone.AddComment(PositionedComment{Text: "-- extra"})
	require.NotEqual(t, len(original.PositionedComments()), len(clone.PositionedComments()))
}

func TestConjoinAnd(t *testing.T) {
	a := &ColumnReference{Name: &QualifiedName{Parts: []*Identifier{{Name: "a"}}}}
	b := &ColumnReference{Name: &QualifiedName{Parts: []*Identifier{{Name: "b"}}}}
	c := &ColumnReference{Name: &QualifiedName{Parts: []*Identifier{{Name: "c"}}}}

	require.Nil(t, ConjoinAnd())
	require.Nil(t, ConjoinAnd(nil, nil))
	require.Same(t, Expression(a), ConjoinAnd(a))

	joined := ConjoinAnd(a, b).(*NaryExpression)
	require.Equal(t, "AND", joined.Operator)
	require.Len(t, joined.Operands, 2)

	// Nested AND chains flatten instead of nesting.
	flattened := ConjoinAnd(joined, c).(*NaryExpression)
	require.Len(t, flattened.Operands, 3)
}
