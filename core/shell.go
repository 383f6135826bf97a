package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/mysh/core/config"
	"github.com/josephlewis42/mysh/core/logger"
	"github.com/josephlewis42/mysh/core/pipeline"
	"github.com/josephlewis42/mysh/core/shell"
	"github.com/josephlewis42/mysh/core/vos"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
)

const (
	EnvHome = "HOME"
	EnvPWD  = "PWD"
	EnvUser = "USER"

	// ShellName prefixes every message the shell prints about a line.
	ShellName = "-mysh"
)

// Exit statuses for lines that never started a process.
const (
	StatusSyntaxError     = 2
	StatusNotExecutable   = 126
	StatusCommandNotFound = 127
)

type Shell struct {
	Config *config.Configuration
	Env    vos.VEnv
	Fs     afero.Fs
	Access vos.AccessChecker
	Log    *logger.SessionLogger

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Hostname is shown in the prompt.
	Hostname string

	// Readline is set for interactive sessions.
	Readline *readline.Instance

	parser  *shell.Parser
	colors  *ColorPrinter
	history []string
	lastRet int

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a shell over the host OS.
func NewShell(configuration *config.Configuration, eventLog *logger.SessionLogger) *Shell {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	return &Shell{
		Config:   configuration,
		Env:      vos.OSEnv{},
		Fs:       afero.NewOsFs(),
		Access:   vos.OSAccess{},
		Log:      eventLog,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Hostname: hostname,
	}
}

func (s *Shell) init() {
	if s.parser == nil {
		s.parser = shell.NewParser(s.Config.Limits.Parser())
	}
	if s.colors == nil {
		s.colors = &ColorPrinter{Mode: s.Config.Color, Out: s.Stderr}
	}
	if s.Log == nil {
		s.Log = logger.NewDiscardLogger().Sessionless()
	}
}

// InitReadline sets up line editing for an interactive session. History is
// kept in memory only and carried over from earlier editors.
func (s *Shell) InitReadline() error {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(s.Stdin),
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	}

	if err := cfg.Init(); err != nil {
		return err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	for _, line := range s.history {
		_ = rl.SaveHistory(line)
	}
	s.Readline = rl
	return nil
}

// Close releases the line editor.
func (s *Shell) Close() error {
	if s.Readline == nil {
		return nil
	}
	err := s.Readline.Close()
	s.Readline = nil
	return err
}

// Login behaves like a login shell: it moves to / and prints the motd.
func (s *Shell) Login() {
	s.init()
	s.chdir("/")
	if motd := s.Config.Motd; motd != "" {
		fmt.Fprintln(s.Stdout, motd)
	}
}

func (s *Shell) stderr() io.Writer {
	if s.Readline != nil {
		return s.Readline.Stderr()
	}
	return s.Stderr
}

// errorf prints a message about the current line, context is usually the
// command or path at fault.
func (s *Shell) errorf(context string, format string, a ...interface{}) {
	prefix := ShellName + ": "
	if context != "" {
		prefix += context + ": "
	}
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(s.stderr(), s.colors.Sprintf(ColorBoldRed, "%s", prefix)+msg)
}

func (s *Shell) prompt() string {
	cwd := s.Env.Getenv(EnvPWD)
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	return RenderPrompt(s.Config.Prompt, PromptInfo{
		User: s.Env.Getenv(EnvUser),
		Host: s.Hostname,
		Cwd:  cwd,
		Home: s.Env.Getenv(EnvHome),
		Root: os.Getuid() == 0,
	}, s.colors)
}

// Run reads and executes lines until the input ends or a builtin quits the
// shell. It returns the shell's exit status.
func (s *Shell) Run() int {
	s.init()
	interactive := s.stdinIsTerminal()

	for !s.Quit {
		line, err := s.readInput(interactive)

		switch {
		case err == io.EOF:
			return s.lastRet // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue
		case errors.Is(err, errNoLineEditor):
			s.errorf("", "%v", err)
			return 1
		case err != nil:
			log.Printf("Error reading input: %v", err)
			return 1

		case strings.TrimSpace(line) == "":
			continue // empty line

		default:
			s.history = append(s.history, line)
			s.RunLine(line)
		}
	}
	return s.lastRet
}

var errNoLineEditor = errors.New("can't start line editor")

func (s *Shell) stdinIsTerminal() bool {
	if s.Stdin == nil {
		return false
	}
	fd := s.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// readInput returns the next line. The line editor reads ahead of the line it
// returns, so it only runs while a line is edited and never while a program
// shares stdin with the shell. Other input is read a byte at a time.
func (s *Shell) readInput(interactive bool) (string, error) {
	if !interactive {
		return readLine(s.Stdin)
	}

	if err := s.InitReadline(); err != nil {
		return "", fmt.Errorf("%w: %v", errNoLineEditor, err)
	}
	defer s.Close()

	s.Readline.SetPrompt(s.prompt())
	return s.Readline.Readline()
}

// readLine reads up to the next newline without consuming anything past it.
// A final line without a newline is still returned.
func readLine(r io.Reader) (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				return string(line), nil
			}
			line = append(line, buf[0])
		}
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return string(line), nil
			}
			return "", err
		}
	}
}

// RunLine executes one input line and returns its exit status. Failures are
// reported on the shell's error stream and never stop the shell.
func (s *Shell) RunLine(input string) int {
	s.init()
	s.lastRet = s.runLine(s.Config.Limits.TruncateLine(input))
	return s.lastRet
}

func (s *Shell) runLine(input string) int {
	tokens, err := shell.Tokenize(input)
	if err != nil {
		return s.reportSyntaxError(input, err)
	}
	if len(tokens) == 0 {
		return s.lastRet
	}

	// Builtins see the plain words of the line before it's parsed.
	args := make([]string, len(tokens))
	for i, tok := range tokens {
		args[i] = tok.Text
	}
	if builtin, ok := AllBuiltins[args[0]]; ok {
		status := builtin.Main(s, args)
		s.Log.Record(&logger.Builtin{Command: args, Status: status})
		return status
	}

	line, err := s.parser.Parse(tokens)
	if err != nil {
		return s.reportSyntaxError(input, err)
	}

	dirs := vos.SearchPath(s.Env, s.Config.DefaultPath)
	paths, err := pipeline.NewResolver(s.Fs, dirs).Resolve(line)
	if err != nil {
		return s.reportError(input, err)
	}

	if err := pipeline.NewValidator(s.Fs, s.Access).Validate(line, paths); err != nil {
		return s.reportError(input, err)
	}

	executor := &pipeline.Executor{
		Stdin:          s.Stdin,
		Stdout:         s.Stdout,
		Stderr:         s.Stderr,
		Env:            s.Env.Environ(),
		TruncateOutput: s.Config.Redirect.TruncateOutput,
		OnSpawnFailure: s.Config.SpawnFailure,
	}

	start := time.Now()
	result, err := executor.Execute(line, paths)
	if err != nil {
		return s.reportError(input, err)
	}

	clauses := make([][]string, len(line.Clauses))
	for i, clause := range line.Clauses {
		clauses[i] = clause
	}
	s.Log.Record(&logger.LineExecuted{
		Line:           input,
		Clauses:        clauses,
		ResolvedPaths:  paths,
		Background:     result.Background,
		Pids:           result.Pids,
		ExitCodes:      result.ExitCodes,
		DurationMicros: time.Since(start).Microseconds(),
	})

	if result.Background || len(result.ExitCodes) == 0 {
		return 0
	}
	return result.ExitCodes[len(result.ExitCodes)-1]
}

func (s *Shell) reportSyntaxError(input string, err error) int {
	event := &logger.SyntaxError{Line: input, Error: err.Error()}
	var syntaxErr *shell.SyntaxError
	if errors.As(err, &syntaxErr) {
		event.Token = syntaxErr.Token
		event.Pos = syntaxErr.Pos
		event.Error = syntaxErr.Reason.Error()
	}
	s.Log.Record(event)

	s.errorf("", "%v", err)
	return StatusSyntaxError
}

func (s *Shell) reportError(input string, err error) int {
	var (
		execErr  *exec.Error
		pathErr  *fs.PathError
		spawnErr *pipeline.SpawnError
	)

	switch {
	case errors.As(err, &execErr) && errors.Is(err, pipeline.ErrCommandNotFound):
		s.Log.Record(&logger.CommandNotFound{Line: input, Command: execErr.Name})
		s.errorf(execErr.Name, "command not found")
		return StatusCommandNotFound

	case errors.As(err, &spawnErr):
		s.Log.Record(&logger.SpawnFailed{
			Line:   input,
			Clause: spawnErr.Clause,
			Path:   spawnErr.Path,
			Error:  spawnErr.Err.Error(),
		})
		context := spawnErr.Path
		if errors.As(spawnErr.Err, &pathErr) {
			context = pathErr.Path
		}
		s.errorf(context, "%s", errorText(spawnErr.Err))
		return StatusNotExecutable

	case errors.As(err, &pathErr):
		s.Log.Record(&logger.AccessDenied{
			Line:  input,
			Op:    pathErr.Op,
			Path:  pathErr.Path,
			Error: pathErr.Err.Error(),
		})
		s.errorf(pathErr.Path, "%s", errorText(pathErr.Err))
		if pathErr.Op == "exec" {
			return StatusNotExecutable
		}
		return 1

	default:
		s.errorf("", "%v", err)
		return 1
	}
}

// errorText renders common errors the way a shell user expects to read them.
func errorText(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied"
	case errors.Is(err, fs.ErrNotExist):
		return "No such file or directory"
	default:
		return err.Error()
	}
}

// chdir changes the working directory and keeps PWD current.
func (s *Shell) chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}
	if cwd, err := os.Getwd(); err == nil {
		dir = cwd
	}
	return s.Env.Setenv(EnvPWD, dir)
}
