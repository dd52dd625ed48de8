package format_test

import (
	"strings"
	"testing"

	. "github.com/pseudomuto/sqlkit/pkg/format"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, f)
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		opts   *Options
		option string
	}{
		{"keyword case", &Options{KeywordCase: "shouty"}, "keywordCase"},
		{"newline", &Options{Newline: "vertical-tab"}, "newline"},
		{"comma break", &Options{CommaBreak: "sometimes"}, "commaBreak"},
		{"cte comma break", &Options{CTECommaBreak: "sometimes"}, "cteCommaBreak"},
		{"and break", &Options{AndBreak: "maybe"}, "andBreak"},
		{"or break", &Options{OrBreak: "maybe"}, "orBreak"},
		{"identifier escape", &Options{IdentifierEscape: Escape("fancy")}, "identifierEscape"},
		{"comment style", &Options{CommentStyle: "terse"}, "commentStyle"},
		{"with clause style", &Options{WithClauseStyle: "compact"}, "withClauseStyle"},
		{"parameter style", &Options{ParameterStyle: "positional"}, "parameterStyle"},
		{"indent char", &Options{IndentChar: "=>"}, "indentChar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err)

			var cerr *ConfigurationError
			require.ErrorAs(t, err, &cerr)
			require.Equal(t, tt.option, cerr.Option)
			require.Contains(t, cerr.Error(), tt.option)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	yaml := `
keywordCase: lower
indentChar: space
indentSize: 2
commaBreak: after
identifierEscape: quote
commentStyle: header-only
`
	opts, err := LoadOptions(strings.NewReader(yaml))
	require.NoError(t, err)

	require.Equal(t, "lower", opts.KeywordCase)
	require.Equal(t, 2, opts.IndentSize)
	require.Equal(t, "after", opts.CommaBreak)
	require.Equal(t, "quote", opts.IdentifierEscape.Name)
	require.Equal(t, "header-only", opts.CommentStyle)

	// Unset fields keep defaults.
	require.Equal(t, "lf", opts.Newline)

	_, err = New(opts)
	require.NoError(t, err)
}

func TestLoadOptions_ExplicitEscapePair(t *testing.T) {
	yaml := `
identifierEscape:
  start: "<"
  end: ">"
`
	opts, err := LoadOptions(strings.NewReader(yaml))
	require.NoError(t, err)
	require.Empty(t, opts.IdentifierEscape.Name)
	require.Equal(t, "<", opts.IdentifierEscape.Start)
	require.Equal(t, ">", opts.IdentifierEscape.End)

	f, err := New(opts)
	require.NoError(t, err)

	result := mustFormat(t, f, "SELECT id FROM users")
	require.Equal(t, "SELECT <id> FROM <users>", result)
}

func TestLoadOptions_LegacyExportComment(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader("exportComment: false\ncommentStyle: \"\""))
	require.NoError(t, err)
	require.NotNil(t, opts.ExportComment)
	require.False(t, *opts.ExportComment)

	f, err := New(opts)
	require.NoError(t, err)

	result := mustFormat(t, f, "-- header\nSELECT 1")
	require.Equal(t, "SELECT 1", result)
}

func TestLoadOptions_Empty(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultOptions(), opts)
}
