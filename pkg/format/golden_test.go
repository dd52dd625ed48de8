package format_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/pseudomuto/sqlkit/pkg/format"
	"github.com/pseudomuto/sqlkit/pkg/parser"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

// Golden inputs opt into a style by filename prefix; everything else formats
// with Defaults.
var goldenStyles = map[string]*Options{
	"pretty_": {CommaBreak: "after", AndBreak: "before", KeywordCase: "lower"},
	"quoted_": {KeywordCase: "lower", IdentifierEscape: Escape(EscapeQuote)},
}

func TestGoldenFiles(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("testdata", "*.in.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no *.in.sql files found in testdata")

	for _, inputFile := range matches {
		// Derive output filename: "example.in.sql" -> "example.sql"
		basename := filepath.Base(inputFile)
		outputName := strings.TrimSuffix(basename, ".in.sql") + ".sql"

		t.Run(outputName, func(t *testing.T) {
			inputSQL, err := os.ReadFile(inputFile)
			require.NoError(t, err, "failed to read input file %s", inputFile)

			script, err := parser.ParseString(string(inputSQL))
			require.NoError(t, err, "failed to parse SQL from %s", inputFile)

			opts := Defaults
			for prefix, styled := range goldenStyles {
				if strings.HasPrefix(basename, prefix) {
					opts = styled
				}
			}

			var buf bytes.Buffer
			require.NoError(t, Format(&buf, opts, script.Statements...))
			result := buf.String()

			// Add final newline for proper file ending
			if result != "" {
				result += "\n"
			}

			golden.Assert(t, result, outputName)
		})
	}
}
