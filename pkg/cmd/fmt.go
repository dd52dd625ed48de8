package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlkit/pkg/format"
	"github.com/pseudomuto/sqlkit/pkg/parser"
	"github.com/urfave/cli/v3"
)

// fmtCmd creates the CLI command for formatting SQL. It parses each input
// into the comment-preserving syntax tree and prints it back under the
// configured style, so output is always a valid, canonical rendering rather
// than a textual reflow.
//
// With no arguments the command formats standard input to standard output.
// File arguments are formatted individually; directory arguments are walked
// recursively for .sql files. The -w flag writes results back in place
// instead of printing them.
//
// Examples:
//
//	# Format stdin
//	sqlkit fmt < query.sql
//
//	# Format a file in place with a style config
//	sqlkit fmt -w -c style.yaml schema.sql
//
//	# Format every SQL file under db/
//	sqlkit fmt db/
func fmtCmd() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Format SQL files",
		ArgsUsage: "[path ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write result to source files instead of stdout",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Style configuration file (YAML)",
				Sources: cli.EnvVars("SQLKIT_STYLE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := loadStyle(cmd.String("config"))
			if err != nil {
				return err
			}

			formatter, err := format.New(opts)
			if err != nil {
				return err
			}

			if cmd.Args().Len() == 0 {
				if cmd.Bool("write") {
					return errors.New("cannot use -w when reading from stdin")
				}
				return formatStream(formatter, cmd.Reader, cmd.Writer)
			}

			files, err := expandPaths(cmd.Args().Slice())
			if err != nil {
				return err
			}

			for _, file := range files {
				if err := formatFile(formatter, file, cmd.Bool("write"), cmd.Writer); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// formatStream formats SQL from r and prints the result to w.
func formatStream(formatter *format.Formatter, r io.Reader, w io.Writer) error {
	script, err := parser.Parse(r)
	if err != nil {
		return err
	}

	formatted, err := render(formatter, script)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, formatted)
	return errors.Wrap(err, "failed to write formatted SQL")
}

// formatFile formats a single SQL file, either printing it or writing it back
// in place.
func formatFile(formatter *format.Formatter, path string, writeBack bool, w io.Writer) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read file: %s", path)
	}

	script, err := parser.ParseString(string(content))
	if err != nil {
		return errors.Wrapf(err, "failed to parse SQL in file: %s", path)
	}

	formatted, err := render(formatter, script)
	if err != nil {
		return errors.Wrapf(err, "failed to format SQL in file: %s", path)
	}

	if writeBack {
		return errors.Wrapf(os.WriteFile(path, []byte(formatted), fileMode), "failed to write file: %s", path)
	}

	_, err = fmt.Fprint(w, formatted)
	return errors.Wrap(err, "failed to write formatted SQL")
}

// render formats a script and terminates it with a newline.
func render(formatter *format.Formatter, script *parser.Script) (string, error) {
	result, err := formatter.FormatScript(script)
	if err != nil {
		return "", err
	}

	formatted := result.SQL
	if formatted != "" {
		formatted += "\n"
	}
	return formatted, nil
}
