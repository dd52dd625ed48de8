package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlkit/pkg/format"
)

const fileMode = os.FileMode(0o644)

// expandPaths resolves command arguments to a flat list of SQL files.
// Directory arguments are walked recursively for .sql files, in
// lexicographical order so behavior is consistent across platforms.
func expandPaths(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to access path: %s", arg)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk directory: %s", arg)
		}
	}

	if len(args) > 0 && len(files) == 0 {
		return nil, errors.New("no SQL files found")
	}
	return files, nil
}

// loadStyle reads formatting options from a YAML config file, or returns the
// defaults when no path is given.
func loadStyle(path string) (*format.Options, error) {
	if path == "" {
		return format.DefaultOptions(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer f.Close()

	opts, err := format.LoadOptions(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config file: %s", path)
	}
	return opts, nil
}
