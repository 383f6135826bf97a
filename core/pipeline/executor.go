package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/mysh/core/shell"
)

// SpawnFailurePolicy decides what happens to processes that were already
// started when a later clause of the same line fails to start.
type SpawnFailurePolicy string

const (
	// KillSiblings kills and reaps the started processes.
	KillSiblings SpawnFailurePolicy = "kill"
	// OrphanSiblings leaves the started processes running, unwaited.
	OrphanSiblings SpawnFailurePolicy = "orphan"
)

// Executor starts one process per clause and connects them with pipes.
type Executor struct {
	// Stdin, Stdout and Stderr are the open ends of the pipeline. Nil means
	// the shell's own descriptors.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Env is passed to every process. Nil means the shell's environment.
	Env []string

	// TruncateOutput truncates the output redirection target on open.
	// Otherwise writes start at offset zero over the existing contents.
	TruncateOutput bool

	OnSpawnFailure SpawnFailurePolicy
}

// Result describes a started line.
type Result struct {
	Pids       []int
	Background bool
	// ExitCodes holds one status per clause for foreground lines, -1 where
	// the status couldn't be collected.
	ExitCodes []int
}

// Execute runs a validated line. Foreground lines return once every process
// has exited; background lines return as soon as the last one has started.
func (e *Executor) Execute(line *shell.Line, paths Paths) (*Result, error) {
	n := len(line.Clauses)
	if n == 0 || len(paths) != n {
		return nil, fmt.Errorf("have %d paths for %d clauses", len(paths), n)
	}

	result := &Result{Background: line.Background}
	procs := make([]*os.Process, 0, n)

	// upstream is the read end of the pipe fed by the previous clause, the
	// only descriptor the parent carries between iterations.
	var upstream *os.File
	for i, clause := range line.Clauses {
		stdio, parentEnds, next, err := e.wire(line, i, upstream)
		if err != nil {
			return result, e.abort(procs, &SpawnError{Clause: i, Path: paths[i], Err: err})
		}

		proc, err := os.StartProcess(paths[i], clause, &os.ProcAttr{
			Env:   e.Env,
			Files: stdio,
		})

		// The child has its own copies now. A write end left open here keeps
		// the next reader from ever seeing EOF.
		_ = parentEnds.Close()
		upstream = next

		if err != nil {
			closeFile(upstream)
			return result, e.abort(procs, &SpawnError{Clause: i, Path: paths[i], Err: err})
		}

		procs = append(procs, proc)
		result.Pids = append(result.Pids, proc.Pid)
	}

	if line.Background {
		for _, proc := range procs {
			_ = proc.Release()
		}
		return result, nil
	}

	for _, proc := range procs {
		code := -1
		if state, err := proc.Wait(); err == nil {
			code = state.ExitCode()
		}
		result.ExitCodes = append(result.ExitCodes, code)
	}
	return result, nil
}

// wire builds the standard descriptors for clause i. It takes ownership of
// upstream: the returned parentEnds include it, and on error everything wire
// holds is already closed. next is the read end for clause i+1.
func (e *Executor) wire(line *shell.Line, i int, upstream *os.File) (stdio []*os.File, parentEnds listCloser, next *os.File, err error) {
	first, last := i == 0, i == len(line.Clauses)-1
	stdin, stdout := orDefault(e.Stdin, os.Stdin), orDefault(e.Stdout, os.Stdout)

	switch {
	case !first:
		stdin = upstream
		parentEnds = append(parentEnds, upstream)
	case line.InputFile != "":
		f, err := os.Open(line.InputFile)
		if err != nil {
			return nil, nil, nil, err
		}
		stdin = f
		parentEnds = append(parentEnds, f)
	}

	switch {
	case !last:
		r, w, err := os.Pipe()
		if err != nil {
			_ = parentEnds.Close()
			return nil, nil, nil, err
		}
		stdout = w
		parentEnds = append(parentEnds, w)
		next = r
	case line.OutputFile != "":
		f, err := os.OpenFile(line.OutputFile, e.outputFlags(), 0666)
		if err != nil {
			_ = parentEnds.Close()
			return nil, nil, nil, err
		}
		stdout = f
		parentEnds = append(parentEnds, f)
	}

	return []*os.File{stdin, stdout, orDefault(e.Stderr, os.Stderr)}, parentEnds, next, nil
}

func (e *Executor) outputFlags() int {
	flags := os.O_WRONLY | os.O_CREATE
	if e.TruncateOutput {
		flags |= os.O_TRUNC
	}
	return flags
}

// abort applies the spawn failure policy to procs and returns err.
func (e *Executor) abort(procs []*os.Process, err error) error {
	for _, proc := range procs {
		if e.OnSpawnFailure == OrphanSiblings {
			_ = proc.Release()
			continue
		}
		_ = proc.Kill()
		_, _ = proc.Wait()
	}
	return err
}

func orDefault(f, fallback *os.File) *os.File {
	if f == nil {
		return fallback
	}
	return f
}

func closeFile(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
