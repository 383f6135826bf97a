package vos

import (
	"io/fs"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// AccessMode is a set of permissions to check, its values match access(2).
type AccessMode uint32

const (
	AccessExec  AccessMode = unix.X_OK
	AccessWrite AccessMode = unix.W_OK
	AccessRead  AccessMode = unix.R_OK
)

// AccessChecker reports whether the shell may use a file in the given mode.
// Errors satisfy errors.Is with fs.ErrNotExist or fs.ErrPermission.
type AccessChecker interface {
	Access(path string, mode AccessMode) error
}

// OSAccess checks access with the real user's credentials.
type OSAccess struct{}

var _ AccessChecker = OSAccess{}

// Access implements AccessChecker.
func (OSAccess) Access(path string, mode AccessMode) error {
	return unix.Access(path, uint32(mode))
}

// FsAccess checks access using only the permission bits reported by an
// afero filesystem. A mode is granted if any of user, group or other has it.
type FsAccess struct {
	Fs afero.Fs
}

var _ AccessChecker = FsAccess{}

// Access implements AccessChecker.
func (a FsAccess) Access(path string, mode AccessMode) error {
	info, err := a.Fs.Stat(path)
	if err != nil {
		return err
	}

	perm := info.Mode().Perm()
	for _, bit := range []struct {
		mode AccessMode
		mask fs.FileMode
	}{
		{AccessExec, 0111},
		{AccessWrite, 0222},
		{AccessRead, 0444},
	} {
		if mode&bit.mode != 0 && perm&bit.mask == 0 {
			return fs.ErrPermission
		}
	}
	return nil
}
