package vos

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// VEnv is the environment the shell reads and updates.
type VEnv interface {
	// UserHomeDir returns the current user's home directory.
	UserHomeDir() (string, error)

	// Unsetenv unsets a single environment variable.
	Unsetenv(key string) error

	// Setenv sets the value of the environment variable named by the key.
	Setenv(key, value string) error

	// LookupEnv retrieves the value of the environment variable named by the
	// key and reports whether it was present.
	LookupEnv(key string) (string, bool)

	// Getenv retrieves the value of the environment variable named by the key.
	// It returns the value, which will be empty if the variable is not present.
	Getenv(key string) string

	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}

// OSEnv is the environment of the running process.
type OSEnv struct{}

var _ VEnv = OSEnv{}

func (OSEnv) UserHomeDir() (string, error)        { return os.UserHomeDir() }
func (OSEnv) Unsetenv(key string) error           { return os.Unsetenv(key) }
func (OSEnv) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (OSEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnv) Getenv(key string) string            { return os.Getenv(key) }
func (OSEnv) Environ() []string                   { return os.Environ() }

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates an environment from "key=value" pairs. Entries
// without an "=" are set to the empty string.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}

	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		// Ignore error, it will never be set for MapEnv.
		_ = out.Setenv(key, value)
	}

	return out
}

// MapEnv implements an in-memory VEnv.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// UserHomeDir implements VEnv.UserHomeDir.
func (m *MapEnv) UserHomeDir() (string, error) {
	home, ok := m.LookupEnv("HOME")
	if !ok {
		return "", fmt.Errorf("$HOME is not defined")
	}
	return home, nil
}

// Unsetenv implements VEnv.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.rw.Lock()
	defer m.rw.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
	return nil
}

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv implements VEnv.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ implements VEnv.Environ, entries are sorted by key.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}
