package pipeline

import (
	"fmt"

	"github.com/josephlewis42/mysh/core/vos"
)

// ErrCommandNotFound matches resolution failures; the error is an *exec.Error
// naming the program.
var ErrCommandNotFound = vos.ErrNotFound

// SpawnError reports a clause whose process could not be started.
type SpawnError struct {
	Clause int
	Path   string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: cannot start clause %d: %v", e.Path, e.Clause, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
