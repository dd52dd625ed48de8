package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Run builds and executes the sqlkit CLI application.
func Run(ctx context.Context, version string, args []string) error {
	app := &cli.Command{
		Name:  "sqlkit",
		Usage: "Parse, check, and format SQL",
		Description: `sqlkit parses SQL into a comment-preserving syntax tree and prints it
back under a configurable style. The fmt command formats files or stdin;
the check command reports syntax errors with their source positions.`,
		Version: version,
		Commands: []*cli.Command{
			fmtCmd(),
			checkCmd(),
		},
	}

	return app.Run(ctx, args)
}
