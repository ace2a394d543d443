package typegen

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// rename is os.Rename; tests replace it to fail part-way through a commit.
var rename = os.Rename

// replaced is one destination swapped in by WriteFiles. backup holds the
// previous contents, or is empty when dest did not exist.
type replaced struct {
	dest   string
	backup string
}

// WriteFiles writes every file into dir. Each file is first written to a
// temporary file next to its destination; destinations are only replaced once
// all temporary files were written. Existing destinations are moved aside
// while replacing and moved back if a later replacement fails, so a failed
// write leaves dir as it was.
func WriteFiles(dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range temps {
			os.Remove(t)
		}
	}

	for _, f := range files {
		dest := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "failed to create directory for %s", f.Name)
		}
		tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
		if err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "failed to create temp file for %s", f.Name)
		}
		temps = append(temps, tmp.Name())
		if _, err := tmp.WriteString(f.Content); err != nil {
			tmp.Close()
			cleanup()
			return nil, errors.Wrapf(err, "failed to write %s", f.Name)
		}
		if err := tmp.Close(); err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "failed to write %s", f.Name)
		}
		if err := os.Chmod(tmp.Name(), 0644); err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "failed to set permissions on %s", f.Name)
		}
	}

	var done []replaced
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			r := done[i]
			if r.backup == "" {
				os.Remove(r.dest)
			} else {
				rename(r.backup, r.dest)
			}
		}
		cleanup()
	}

	written := make([]string, len(files))
	for i, f := range files {
		r := replaced{dest: filepath.Join(dir, f.Name)}
		if _, err := os.Lstat(r.dest); err == nil {
			r.backup = temps[i] + ".bak"
			if err := rename(r.dest, r.backup); err != nil {
				rollback()
				return nil, errors.Wrapf(err, "failed to move %s aside", f.Name)
			}
		}
		if err := rename(temps[i], r.dest); err != nil {
			if r.backup != "" {
				rename(r.backup, r.dest)
			}
			rollback()
			return nil, errors.Wrapf(err, "failed to move %s into place", f.Name)
		}
		done = append(done, r)
		written[i] = r.dest
	}

	for _, r := range done {
		if r.backup != "" {
			os.Remove(r.backup)
		}
	}
	return written, nil
}

// FormatFiles runs a formatter command line on the given paths. The command is
// split with shell quoting rules and the paths are appended as arguments, e.g.
// "dart format --line-length 120".
func FormatFiles(ctx context.Context, command string, paths []string) error {
	if command == "" || len(paths) == 0 {
		return nil
	}
	args, err := shellquote.Split(command)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid format command %q", command), errors.ErrInvalidConfig)
	}
	if len(args) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], paths...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WithDetail(errors.Wrapf(err, "format command %s failed", args[0]), string(out))
	}
	logger.ComponentLogger("typegen").Debugw("formatted files",
		logger.FieldCount, len(paths),
		logger.FieldSource, args[0])
	return nil
}
