// Package cmd provides the CLI commands for the sqlkit tool.
//
// Each command is implemented as a function returning a *cli.Command,
// following the urfave/cli/v3 pattern, and registered by Run:
//   - fmt: parse SQL files (or stdin) and print them back formatted,
//     optionally writing the result in place
//   - check: parse SQL files (or stdin) and report the first syntax error
//     in each with its source position
//
// Commands operate on explicit file arguments or recursively on directory
// arguments (every .sql file beneath them); with no arguments they read
// standard input.
package cmd
