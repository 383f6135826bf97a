package vos

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// EnvPath names the variable holding the command search list.
const EnvPath = "PATH"

// ErrNotFound is the error resulting if a path search failed to find a file.
var ErrNotFound = exec.ErrNotFound

// SearchPath returns the directories to search for commands, taken from PATH
// or from fallback when PATH is unset. An empty element means the current
// directory.
func SearchPath(env VEnv, fallback string) []string {
	list, ok := env.LookupEnv(EnvPath)
	if !ok {
		list = fallback
	}

	dirs := filepath.SplitList(list)
	for i, dir := range dirs {
		if dir == "" {
			dirs[i] = "."
		}
	}
	return dirs
}

// LookPath finds the file used to run the program name.
//
// A name that exists as given is returned unchanged. Otherwise names that
// don't begin with "/" or "." are joined with each directory of dirs in turn
// and the first one that exists wins. Existence is all that's checked here,
// permissions are the caller's concern.
func LookPath(fsys afero.Fs, dirs []string, name string) (string, error) {
	if name == "" {
		return "", &exec.Error{Name: name, Err: ErrNotFound}
	}
	if exists(fsys, name) {
		return name, nil
	}

	if !strings.HasPrefix(name, "/") && !strings.HasPrefix(name, ".") {
		for _, dir := range dirs {
			candidate := filepath.Join(dir, name)
			if exists(fsys, candidate) {
				return candidate, nil
			}
		}
	}

	return "", &exec.Error{Name: name, Err: ErrNotFound}
}

func exists(fsys afero.Fs, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
