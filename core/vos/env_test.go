package vos

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleNewMapEnvFromEnvList() {
	env := NewMapEnvFromEnvList([]string{"A=B", "C=D", "E", "F=G=H"})

	fmt.Printf("Environ(): %q\n", env.Environ())
	fmt.Printf("Getenv(\"F\"): %q\n", env.Getenv("F"))

	// Output: Environ(): ["A=B" "C=D" "E=" "F=G=H"]
	// Getenv("F"): "G=H"
}

func ExampleMapEnv_Unsetenv() {
	env := NewMapEnv()
	env.Setenv("A", "B")
	env.Setenv("C", "D")

	fmt.Println("Before:", env.Environ())
	env.Unsetenv("A")
	fmt.Println("After:", env.Environ())

	// Output: Before: [A=B C=D]
	// After: [C=D]
}

func ExampleMapEnv_LookupEnv() {
	env := NewMapEnv()
	env.Setenv("A", "B")

	val, ok := env.LookupEnv("A")
	fmt.Println("Existing", "val:", val, "ok:", ok)
	val, ok = env.LookupEnv("B")
	fmt.Println("Missing", "val:", val, "ok:", ok)

	// Output: Existing val: B ok: true
	// Missing val:  ok: false
}

func TestMapEnvUserHomeDir(t *testing.T) {
	env := NewMapEnv()
	_, err := env.UserHomeDir()
	assert.Error(t, err)

	env.Setenv("HOME", "/home/user")
	home, err := env.UserHomeDir()
	assert.NoError(t, err)
	assert.Equal(t, "/home/user", home)
}

func TestOSEnv(t *testing.T) {
	t.Setenv("MYSH_TEST_VAR", "value")

	env := OSEnv{}
	assert.Equal(t, "value", env.Getenv("MYSH_TEST_VAR"))
	assert.Contains(t, env.Environ(), "MYSH_TEST_VAR=value")

	assert.NoError(t, env.Setenv("MYSH_TEST_VAR", "other"))
	val, ok := env.LookupEnv("MYSH_TEST_VAR")
	assert.True(t, ok)
	assert.Equal(t, "other", val)

	assert.NoError(t, env.Unsetenv("MYSH_TEST_VAR"))
	_, ok = env.LookupEnv("MYSH_TEST_VAR")
	assert.False(t, ok)
}
