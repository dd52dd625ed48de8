package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlkit/pkg/parser"
	"github.com/urfave/cli/v3"
)

// checkCmd creates the CLI command for validating SQL. Each input is parsed
// and the first syntax error is reported with its source position; the
// command fails when any input is invalid, so it slots into CI pipelines.
//
// Examples:
//
//	# Check stdin
//	sqlkit check < query.sql
//
//	# Check files and directories
//	sqlkit check schema.sql db/
func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check SQL files for syntax errors",
		ArgsUsage: "[path ...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return checkStream(cmd.Reader, cmd.Writer)
			}

			files, err := expandPaths(cmd.Args().Slice())
			if err != nil {
				return err
			}

			failed := 0
			for _, file := range files {
				content, err := os.ReadFile(file)
				if err != nil {
					return errors.Wrapf(err, "failed to read file: %s", file)
				}

				if result := parser.Analyze(string(content)); !result.Valid {
					fmt.Fprintf(cmd.Writer, "%s:%s\n", file, result.Err)
					failed++
				}
			}

			if failed > 0 {
				return errors.Errorf("%d of %d files contain errors", failed, len(files))
			}
			return nil
		},
	}
}

// checkStream validates SQL read from r, reporting the first error to w.
func checkStream(r io.Reader, w io.Writer) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}

	if result := parser.Analyze(string(content)); !result.Valid {
		fmt.Fprintf(w, "%s\n", result.Err)
		return errors.New("input contains errors")
	}
	return nil
}
