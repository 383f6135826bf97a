package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/josephlewis42/mysh/core/shell"
	"github.com/josephlewis42/mysh/core/vos"
	"github.com/spf13/afero"
)

// Validator checks that a resolved line can run before anything is started.
type Validator struct {
	Fs     afero.Fs
	Access vos.AccessChecker
}

// NewValidator creates a validator over the given filesystem view.
func NewValidator(fsys afero.Fs, access vos.AccessChecker) *Validator {
	return &Validator{Fs: fsys, Access: access}
}

// Validate checks that every path is executable, that the input target
// exists and is readable, and that an existing output target is writable.
// Errors are *fs.PathError values wrapping fs.ErrPermission or
// fs.ErrNotExist.
func (v *Validator) Validate(line *shell.Line, paths Paths) error {
	if len(paths) != len(line.Clauses) {
		return fmt.Errorf("have %d paths for %d clauses", len(paths), len(line.Clauses))
	}

	for _, path := range paths {
		if err := v.Access.Access(path, vos.AccessExec); err != nil {
			return &fs.PathError{Op: "exec", Path: path, Err: denied(err)}
		}
	}

	if in := line.InputFile; in != "" {
		if !v.exists(in) {
			return &fs.PathError{Op: "open", Path: in, Err: fs.ErrNotExist}
		}
		if err := v.Access.Access(in, vos.AccessRead); err != nil {
			return &fs.PathError{Op: "open", Path: in, Err: denied(err)}
		}
	}

	if out := line.OutputFile; out != "" && v.exists(out) {
		if err := v.Access.Access(out, vos.AccessWrite); err != nil {
			return &fs.PathError{Op: "open", Path: out, Err: denied(err)}
		}
	}

	return nil
}

func (v *Validator) exists(name string) bool {
	_, err := v.Fs.Stat(name)
	return err == nil
}

// denied collapses access failures into fs.ErrPermission unless the file
// vanished.
func denied(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fs.ErrNotExist
	}
	return fs.ErrPermission
}
