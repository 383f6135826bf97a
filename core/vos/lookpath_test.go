package vos

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T, files map[string]os.FileMode) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, mode := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte("#!/bin/sh\n"), mode))
		require.NoError(t, fsys.Chmod(name, mode))
	}
	return fsys
}

func TestSearchPath(t *testing.T) {
	env := NewMapEnv()
	assert.Equal(t, []string{"/usr/bin", "/bin"}, SearchPath(env, "/usr/bin:/bin"))

	env.Setenv(EnvPath, "/opt/bin::/usr/bin")
	assert.Equal(t, []string{"/opt/bin", ".", "/usr/bin"}, SearchPath(env, "/bin"))

	env.Setenv(EnvPath, "")
	assert.Empty(t, SearchPath(env, "/bin"))
}

func TestLookPath(t *testing.T) {
	fsys := newTestFs(t, map[string]os.FileMode{
		"/usr/local/bin/tool": 0755,
		"/usr/bin/tool":       0755,
		"/bin/ls":             0755,
		"/home/user/script":   0644,
		"relative/prog":       0755,
	})
	dirs := []string{"/usr/local/bin", "/usr/bin", "/bin"}

	cases := map[string]struct {
		name     string
		expected string
	}{
		"absolute":             {"/bin/ls", "/bin/ls"},
		"absolute no exec bit": {"/home/user/script", "/home/user/script"},
		"bare name":            {"ls", "/bin/ls"},
		"first match wins":     {"tool", "/usr/local/bin/tool"},
		"existing relative":    {"relative/prog", "relative/prog"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := LookPath(fsys, dirs, tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}

	for _, missing := range []string{"nope", "/bin/nope", "./ls", "../ls", ""} {
		t.Run("missing "+missing, func(t *testing.T) {
			_, err := LookPath(fsys, dirs, missing)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))

			var execErr *exec.Error
			require.True(t, errors.As(err, &execErr))
			assert.Equal(t, missing, execErr.Name)
		})
	}
}

func TestLookPathSingleDirectory(t *testing.T) {
	fsys := newTestFs(t, map[string]os.FileMode{"/opt/tools/frob": 0755})
	dirs := []string{"/usr/bin", "/opt/tools", "/bin"}

	actual, err := LookPath(fsys, dirs, "frob")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/tools", "frob"), actual)
}

func TestFsAccess(t *testing.T) {
	fsys := newTestFs(t, map[string]os.FileMode{
		"/bin/prog":     0755,
		"/data/private": 0200,
		"/data/ro":      0444,
	})
	access := FsAccess{Fs: fsys}

	assert.NoError(t, access.Access("/bin/prog", AccessExec))
	assert.NoError(t, access.Access("/bin/prog", AccessRead|AccessExec))
	assert.NoError(t, access.Access("/data/private", AccessWrite))
	assert.NoError(t, access.Access("/data/ro", AccessRead))

	assert.True(t, errors.Is(access.Access("/data/private", AccessRead), fs.ErrPermission))
	assert.True(t, errors.Is(access.Access("/data/ro", AccessWrite), fs.ErrPermission))
	assert.True(t, errors.Is(access.Access("/data/ro", AccessExec), fs.ErrPermission))
	assert.True(t, errors.Is(access.Access("/data/missing", AccessRead), fs.ErrNotExist))
}

func TestOSAccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	access := OSAccess{}
	assert.NoError(t, access.Access(path, AccessRead|AccessWrite))
	assert.True(t, errors.Is(access.Access(filepath.Join(dir, "missing"), AccessRead), fs.ErrNotExist))

	if os.Geteuid() != 0 {
		assert.True(t, errors.Is(access.Access(path, AccessExec), fs.ErrPermission))
	}
}
