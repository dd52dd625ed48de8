package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runCommand(t *testing.T, command *cli.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:   "test",
		Flags:  command.Flags,
		Action: command.Action,
		Reader: strings.NewReader(stdin),
		Writer: &buf,
	}

	err := app.Run(context.Background(), append([]string{"test"}, args...))
	return buf.String(), err
}

func TestFmtCommand_Stdin(t *testing.T) {
	out, err := runCommand(t, fmtCmd(), "select id,name from users where active=true")
	require.NoError(t, err)
	require.Equal(t, "SELECT id, name FROM users WHERE active = TRUE\n", out)
}

func TestFmtCommand_StdinRejectsWrite(t *testing.T) {
	_, err := runCommand(t, fmtCmd(), "select 1", "-w")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot use -w when reading from stdin")
}

func TestFmtCommand_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()

	sqlFile := filepath.Join(tmpDir, "test.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("select 1;select 2"), fileMode))

	out, err := runCommand(t, fmtCmd(), "", sqlFile)
	require.NoError(t, err)
	require.Equal(t, "SELECT 1;\nSELECT 2\n", out)
}

func TestFmtCommand_WriteBack(t *testing.T) {
	tmpDir := t.TempDir()

	sqlFile := filepath.Join(tmpDir, "test.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("select   1"), fileMode))

	out, err := runCommand(t, fmtCmd(), "", "-w", sqlFile)
	require.NoError(t, err)
	require.Empty(t, out)

	content, err := os.ReadFile(sqlFile)
	require.NoError(t, err)
	require.Equal(t, "SELECT 1\n", string(content))
}

func TestFmtCommand_Directory(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.sql"), []byte("select 1"), fileMode))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "b.sql"), []byte("select 2"), fileMode))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not sql"), fileMode))

	out, err := runCommand(t, fmtCmd(), "", tmpDir)
	require.NoError(t, err)
	require.Equal(t, "SELECT 1\nSELECT 2\n", out)
}

func TestFmtCommand_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configFile := filepath.Join(tmpDir, "style.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("keywordCase: lower\nidentifierEscape: quote\n"), fileMode))

	out, err := runCommand(t, fmtCmd(), "SELECT id FROM users", "-c", configFile)
	require.NoError(t, err)
	require.Equal(t, "select \"id\" from \"users\"\n", out)
}

func TestFmtCommand_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configFile := filepath.Join(tmpDir, "style.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("keywordCase: shouty\n"), fileMode))

	_, err := runCommand(t, fmtCmd(), "select 1", "-c", configFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "keywordCase")
}

func TestFmtCommand_ParseFailure(t *testing.T) {
	tmpDir := t.TempDir()

	sqlFile := filepath.Join(tmpDir, "bad.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("select from"), fileMode))

	_, err := runCommand(t, fmtCmd(), "", sqlFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.sql")
}

func TestFmtCommand_MissingPath(t *testing.T) {
	_, err := runCommand(t, fmtCmd(), "", filepath.Join(t.TempDir(), "nope.sql"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to access path")
}
