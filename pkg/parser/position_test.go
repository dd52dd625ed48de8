package parser_test

import (
	"testing"

	. "github.com/pseudomuto/sqlkit/pkg/parser"
	"github.com/stretchr/testify/require"
)

func TestPositionIndex_At(t *testing.T) {
	script, err := ParseString(`WITH active AS (SELECT * FROM users WHERE verified)
SELECT id AS key FROM active`)
	require.NoError(t, err)

	tests := []struct {
		name   string
		line   int
		column int
		value  string
		kind   string
		cte    string
	}{
		{"with keyword", 1, 1, "WITH", "keyword", ""},
		{"cte definition", 1, 6, "active", "cte", "active"},
		{"table in cte body", 1, 31, "users", "identifier", ""},
		{"select keyword", 2, 1, "SELECT", "keyword", ""},
		{"column", 2, 8, "id", "identifier", ""},
		{"alias", 2, 14, "key", "alias", ""},
		{"cte reference", 2, 23, "active", "cte", "active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, role, ok := script.Index.At(tt.line, tt.column)
			require.True(t, ok)
			require.Equal(t, tt.value, lx.Value)
			require.Equal(t, tt.kind, role.Kind)
			require.Equal(t, tt.cte, role.CTE)
		})
	}
}

func TestPositionIndex_At_SharedCTEIdentity(t *testing.T) {
	script, err := ParseString(`WITH totals AS (SELECT sum(n) FROM counts)
SELECT * FROM totals t JOIN totals u ON t.x = u.x`)
	require.NoError(t, err)

	_, def, ok := script.Index.At(1, 6)
	require.True(t, ok)

	_, ref1, ok := script.Index.At(2, 15)
	require.True(t, ok)

	_, ref2, ok := script.Index.At(2, 29)
	require.True(t, ok)

	require.Equal(t, "cte", def.Kind)
	require.Equal(t, def.CTE, ref1.CTE)
	require.Equal(t, def.CTE, ref2.CTE)
}

func TestPositionIndex_At_Misses(t *testing.T) {
	script, err := ParseString("SELECT id  FROM users")
	require.NoError(t, err)

	// Whitespace between tokens.
	_, _, ok := script.Index.At(1, 10)
	require.False(t, ok)

	// Past the end of the line.
	_, _, ok = script.Index.At(1, 99)
	require.False(t, ok)

	// Nonexistent line.
	_, _, ok = script.Index.At(5, 1)
	require.False(t, ok)
}

func TestPositionIndex_At_MultiLineComment(t *testing.T) {
	script, err := ParseString(`SELECT /* spans
two lines */ id FROM users`)
	require.NoError(t, err)

	lx, role, ok := script.Index.At(2, 3)
	require.True(t, ok)
	require.Equal(t, "comment", role.Kind)
	require.Equal(t, 1, lx.Pos.Line)
	require.Equal(t, 2, lx.End.Line)
}

func TestPositionIndex_Lexemes(t *testing.T) {
	script, err := ParseString("SELECT 1 -- one")
	require.NoError(t, err)

	lexemes := script.Index.Lexemes()
	values := make([]string, 0, len(lexemes))
	for _, lx := range lexemes {
		if !lx.EOF() {
			values = append(values, lx.Value)
		}
	}
	require.Equal(t, []string{"SELECT", "1", "-- one"}, values)
}
