package format_test

import (
	"bytes"
	"testing"

	. "github.com/pseudomuto/sqlkit/pkg/format"
	"github.com/pseudomuto/sqlkit/pkg/parser"
	"github.com/stretchr/testify/require"
)

func mustFormat(t *testing.T, f *Formatter, sql string) string {
	t.Helper()

	script, err := parser.ParseString(sql)
	require.NoError(t, err)

	result, err := f.FormatScript(script)
	require.NoError(t, err)
	return result.SQL
}

func formatter(t *testing.T, opts *Options) *Formatter {
	t.Helper()

	f, err := New(opts)
	require.NoError(t, err)
	return f
}

func TestFormat_Defaults(t *testing.T) {
	f := NewDefault()

	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			"select",
			"select id, name from users where active = true and age >= 18",
			"SELECT id, name FROM users WHERE active = TRUE AND age >= 18",
		},
		{
			"select distinct with alias",
			"select distinct name as n from users u",
			"SELECT DISTINCT name AS n FROM users u",
		},
		{
			"join using",
			"select * from a join b using (id, tenant_id)",
			"SELECT * FROM a JOIN b USING (id, tenant_id)",
		},
		{
			"case",
			"select case when score >= 90 then 'a' else 'b' end from results",
			"SELECT CASE WHEN score >= 90 THEN 'a' ELSE 'b' END FROM results",
		},
		{
			"window function",
			"select rank() over (partition by team order by score desc) from results",
			"SELECT rank() OVER (PARTITION BY team ORDER BY score DESC) FROM results",
		},
		{
			"insert values",
			"insert into t (a, b) values (1, default), (2, null)",
			"INSERT INTO t (a, b) VALUES (1, DEFAULT), (2, NULL)",
		},
		{
			"update",
			"update users set name = 'x', age = age + 1 where id = 7 returning id",
			"UPDATE users SET name = 'x', age = age + 1 WHERE id = 7 RETURNING id",
		},
		{
			"delete using",
			"delete from s using u where s.uid = u.id",
			"DELETE FROM s USING u WHERE s.uid = u.id",
		},
		{
			"create table",
			"create table t (id bigint primary key, label varchar(64) not null default 'x')",
			"CREATE TABLE t (id bigint PRIMARY KEY, label varchar(64) NOT NULL DEFAULT 'x')",
		},
		{
			"alter table",
			"alter table t rename column a to b",
			"ALTER TABLE t RENAME COLUMN a TO b",
		},
		{
			"union chain",
			"select a from t union all select b from u except select c from v",
			"SELECT a FROM t UNION ALL SELECT b FROM u EXCEPT SELECT c FROM v",
		},
		{
			"between and in",
			"select * from t where a between 1 and 10 or b in (1, 2) or c is not null",
			"SELECT * FROM t WHERE a BETWEEN 1 AND 10 OR b IN (1, 2) OR c IS NOT NULL",
		},
		{
			"casts",
			"select cast(a as int), b::numeric(10, 2) from t",
			"SELECT CAST(a AS int), b::numeric(10, 2) FROM t",
		},
		{
			"tuple membership",
			"select * from t where (a, b) in (select x, y from u)",
			"SELECT * FROM t WHERE (a, b) IN (SELECT x, y FROM u)",
		},
		{
			"exists subquery",
			"select * from t where exists (select 1 from u where u.tid = t.id)",
			"SELECT * FROM t WHERE EXISTS (SELECT 1 FROM u WHERE u.tid = t.id)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, mustFormat(t, f, tt.sql))
		})
	}
}

func TestFormat_LowercaseQuoted(t *testing.T) {
	f := formatter(t, &Options{
		KeywordCase:      "lower",
		IdentifierEscape: Escape(EscapeQuote),
	})

	got := mustFormat(t, f, "SELECT id, name FROM users WHERE active = true")
	require.Equal(t, `select "id", "name" from "users" where "active" = true`, got)
}

func TestFormat_CommaBreakMultiline(t *testing.T) {
	f := formatter(t, &Options{CommaBreak: "after"})

	got := mustFormat(t, f, "select id, name from users where active and verified order by id")
	require.Equal(t, "SELECT\n    id,\n    name\nFROM users\nWHERE active AND verified\nORDER BY\n    id", got)
}

func TestFormat_AndBreakBefore(t *testing.T) {
	f := formatter(t, &Options{CommaBreak: "after", AndBreak: "before"})

	got := mustFormat(t, f, "select * from t where a and b")
	require.Equal(t, "SELECT\n    *\nFROM t\nWHERE a\n    AND b", got)
}

func TestFormat_CommaBreakWithTrailingComment(t *testing.T) {
	sql := "select\n\tid, -- key\n\tname,\n\temail\nfrom users"

	tests := []struct {
		commaBreak string
		want       string
	}{
		{
			"before",
			"SELECT\n    id -- key\n    , name\n    , email\nFROM users",
		},
		{
			"after",
			"SELECT\n    id, -- key\n    name,\n    email\nFROM users",
		},
		{
			"none",
			"SELECT id, -- key\nname, email FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.commaBreak, func(t *testing.T) {
			f := formatter(t, &Options{CommaBreak: tt.commaBreak})
			require.Equal(t, tt.want, mustFormat(t, f, sql))
		})
	}
}

func TestFormat_CTECommaBreakIndependent(t *testing.T) {
	f := formatter(t, &Options{CommaBreak: "after", CTECommaBreak: "before"})

	got := mustFormat(t, f, "WITH a AS (SELECT 1), b AS (SELECT 2) SELECT 1")
	want := "WITH a AS (\n" +
		"    SELECT\n" +
		"        1\n" +
		")\n" +
		", b AS (\n" +
		"    SELECT\n" +
		"        2\n" +
		")\n" +
		"SELECT\n" +
		"    1"
	require.Equal(t, want, got)
}

func TestFormat_WithCommentSingleEmission(t *testing.T) {
	sql := "WITH -- note\na AS (SELECT 1) SELECT * FROM a"

	for _, mode := range []string{"full", "header-only", "smart"} {
		t.Run(mode, func(t *testing.T) {
			f := formatter(t, &Options{CommentStyle: mode})
			got := mustFormat(t, f, sql)
			require.Equal(t, "WITH -- note\na AS (SELECT 1) SELECT * FROM a", got)
		})
	}
}

func TestFormat_CommentModes(t *testing.T) {
	sql := "-- header\nSELECT id -- inline\nFROM users"

	tests := []struct {
		mode string
		want string
	}{
		{"full", "-- header\nSELECT id -- inline\nFROM users"},
		{"none", "SELECT id FROM users"},
		{"header-only", "-- header\nSELECT id FROM users"},
		{"top-header-only", "-- header\nSELECT id FROM users"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			f := formatter(t, &Options{CommentStyle: tt.mode})
			require.Equal(t, tt.want, mustFormat(t, f, sql))
		})
	}
}

func TestFormat_TopHeaderOnlySuppressesNested(t *testing.T) {
	f := formatter(t, &Options{CommentStyle: CommentsTopHeaderOnly})

	sql := "-- outer\nWITH a AS (-- inner\nSELECT 1) SELECT * FROM a"
	got := mustFormat(t, f, sql)
	require.Equal(t, "-- outer\nWITH a AS (SELECT 1) SELECT * FROM a", got)
}

func TestFormat_NamedParameters(t *testing.T) {
	f := formatter(t, &Options{ParameterSymbol: ":", ParameterStyle: "named"})

	got := mustFormat(t, f, "select * from t where id = :id and region = @region and n > ?")
	require.Equal(t, "SELECT * FROM t WHERE id = :id AND region = :region AND n > :p1", got)
}

func TestFormat_IndexedParameters(t *testing.T) {
	f := formatter(t, &Options{ParameterSymbol: "$", ParameterStyle: "indexed"})

	got := mustFormat(t, f, "select * from t where id = :id and n > ?")
	require.Equal(t, "SELECT * FROM t WHERE id = $1 AND n > $2", got)
}

func TestFormat_ParameterValues(t *testing.T) {
	script, err := parser.ParseString("select * from t where id = :id")
	require.NoError(t, err)

	parser.Walk(script.Statements[0], func(n parser.Node) bool {
		if p, ok := n.(*parser.Parameter); ok {
			p.Value = 42
		}
		return true
	})

	result, err := NewDefault().FormatScript(script)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"id": 42}, result.Params)
}

func TestFormat_MultiStatement(t *testing.T) {
	f := NewDefault()

	got := mustFormat(t, f, "select 1; select 2 -- two\n; select 3")
	require.Equal(t, "SELECT 1;\nSELECT 2; -- two\nSELECT 3", got)
}

func TestFormat_WriterAPI(t *testing.T) {
	script, err := parser.ParseString("select 1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, Defaults, script.Statements...))
	require.Equal(t, "SELECT 1", buf.String())
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"select id, name from users where active and age > 18 order by name desc",
		"-- header\nselect id, -- key\n name from users",
		"with a as (select 1), b as (select 2) select * from a join b using (x)",
		"insert into t (a) select a from s returning a",
		"create table t (id bigint primary key)",
	}
	styles := []*Options{
		nil,
		{CommaBreak: "after", AndBreak: "before", KeywordCase: "lower"},
		{CommaBreak: "before", IdentifierEscape: Escape(EscapeBacktick)},
	}

	for _, opts := range styles {
		f := formatter(t, opts)
		for _, sql := range inputs {
			once := mustFormat(t, f, sql)
			twice := mustFormat(t, f, once)
			require.Equal(t, once, twice, "input %q", sql)
		}
	}
}

func TestFormat_RoundTripCloses(t *testing.T) {
	inputs := []string{
		"select a from t union all select b from u",
		"select * from (select id from t) as s where exists (select 1 from u)",
		"update t set a = case when b then 1 else 2 end where c between 1 and 10",
		"explain analyze select count(*) from t group by rollup (a, b)",
		"values (1, 'a'), (2, 'b')",
	}

	for _, opts := range []*Options{nil, {CommaBreak: "after"}} {
		f := formatter(t, opts)
		for _, sql := range inputs {
			formatted := mustFormat(t, f, sql)
			_, err := parser.ParseString(formatted)
			require.NoError(t, err, "formatted output %q does not re-parse", formatted)
		}
	}
}

func TestFormat_CommentCountPreserved(t *testing.T) {
	sql := "-- h\nselect id, -- k\n/* wide */ name from users -- t"

	f := NewDefault()
	formatted := mustFormat(t, f, sql)

	script, err := parser.ParseString(formatted)
	require.NoError(t, err)

	count := 0
	for _, lx := range script.Index.Lexemes() {
		if lx.Kind() == "comment" {
			count++
		}
	}
	require.Equal(t, 4, count)
}

func TestFormatError_Message(t *testing.T) {
	err := &FormatError{Node: struct{}{}}
	require.Contains(t, err.Error(), "no formatting rule")
}

func TestFormat_SetOperationGrouping(t *testing.T) {
	sql := "select a from t union all (select b from u except select c from v)"

	got := mustFormat(t, NewDefault(), sql)
	require.Equal(t, "SELECT a FROM t UNION ALL (SELECT b FROM u EXCEPT SELECT c FROM v)", got)

	// The grouped right operand must survive a re-parse instead of
	// rebalancing into a left-associated chain.
	script, err := parser.ParseString(got)
	require.NoError(t, err)

	top := script.Statements[0].(*parser.BinarySelectQuery)
	require.Equal(t, "UNION ALL", top.Operator)

	right, ok := top.Right.(*parser.BinarySelectQuery)
	require.True(t, ok)
	require.Equal(t, "EXCEPT", right.Operator)
}

func TestFormat_SetOperationGroupingMultiline(t *testing.T) {
	f := formatter(t, &Options{CommaBreak: "after"})

	got := mustFormat(t, f, "select a from t union all (select b from u except select c from v)")
	want := "SELECT\n" +
		"    a\n" +
		"FROM t\n" +
		"UNION ALL\n" +
		"(\n" +
		"    SELECT\n" +
		"        b\n" +
		"    FROM u\n" +
		"    EXCEPT\n" +
		"    SELECT\n" +
		"        c\n" +
		"    FROM v\n" +
		")"
	require.Equal(t, want, got)
}

func TestFormat_PreserveKeywordCase(t *testing.T) {
	f := formatter(t, &Options{KeywordCase: "preserve"})

	got := mustFormat(t, f, "Select id, name From users Where active and verified Order By name")
	require.Equal(t, "Select id, name From users Where active and verified Order By name", got)
}

func TestFormat_PreserveSynthesizedKeywords(t *testing.T) {
	f := formatter(t, &Options{KeywordCase: "preserve"})

	// The author omitted AS, so it has no source spelling and renders
	// canonical uppercase; everything else keeps its casing.
	got := mustFormat(t, f, "select v.id key from vendors v")
	require.Equal(t, "select v.id AS key from vendors v", got)
}

func TestFormat_PreserveWithoutLexemes(t *testing.T) {
	script, err := parser.ParseString("select 1")
	require.NoError(t, err)

	f := formatter(t, &Options{KeywordCase: "preserve"})
	result, err := f.FormatStatements(script.Statements...)
	require.NoError(t, err)
	require.Equal(t, "SELECT 1", result.SQL)
}
