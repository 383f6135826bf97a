package pipeline

import (
	"fmt"

	"github.com/josephlewis42/mysh/core/shell"
	"github.com/josephlewis42/mysh/core/vos"
	"github.com/spf13/afero"
)

// Paths holds the executable for each clause of a line, by clause index.
type Paths []string

// Resolver maps program names to executable paths.
type Resolver struct {
	Fs   afero.Fs
	Dirs []string
}

// NewResolver creates a resolver searching dirs in order.
func NewResolver(fsys afero.Fs, dirs []string) *Resolver {
	return &Resolver{Fs: fsys, Dirs: dirs}
}

// Resolve finds the executable for every clause. The first program that
// can't be found aborts resolution of the whole line.
func (r *Resolver) Resolve(line *shell.Line) (Paths, error) {
	paths := make(Paths, 0, len(line.Clauses))
	for i, clause := range line.Clauses {
		if len(clause) == 0 {
			return nil, fmt.Errorf("clause %d has no program", i)
		}
		path, err := vos.LookPath(r.Fs, r.Dirs, clause[0])
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
