package core

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

// ShellBuiltin is a command run by the shell itself. args[0] is the name the
// builtin was invoked as.
type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames returns the sorted names of the builtins.
func BuiltinNames() []string {
	var names []string
	for k := range AllBuiltins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		home := s.Env.Getenv(EnvHome)
		if home == "" {
			s.errorf(args[0], "HOME not set")
			return 1
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := s.chdir(args[1]); err != nil {
			s.errorf(args[0], "%s", errorText(err))
			return 1
		}
	default:
		s.errorf(args[0], "too many arguments")
		return 1
	}
	return 0
}

// Exit quits the shell with an optional status.
func Exit(s *Shell, args []string) int {
	status := 0
	switch len(args) {
	case 1:
	case 2:
		n, err := strconv.Atoi(args[1])
		if err != nil {
			s.errorf(args[0], "%s: numeric argument required", args[1])
			n = StatusSyntaxError
		}
		status = n
	default:
		s.errorf(args[0], "too many arguments")
		return 1
	}

	s.Quit = true
	return status
}

func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display or manipulate the history list")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 1
	}

	if *clear {
		if s.Readline != nil {
			s.Readline.Operation.ResetHistory()
		}
		s.history = nil
		return 0
	}

	for i, line := range s.history {
		fmt.Fprintf(s.Stdout, "% 5d  %s\n", i+1, line)
	}
	return 0
}

func Help(s *Shell, args []string) int {
	opts := getopt.New()
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")
	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		fmt.Fprintln(s.stderr(), "usage: help")
		return 1
	}

	w := s.Stdout
	fmt.Fprintln(w, "mysh, a small pipeline shell")
	fmt.Fprintln(w, "These shell commands are defined internally.  Type `help' to see this list.")
	fmt.Fprintln(w, "Lines take the form: cmd [args] [< in] [| cmd [args]]... [> out] [&]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")
	fmt.Fprintln(w)

	for _, name := range BuiltinNames() {
		fmt.Fprintln(w, name)
	}

	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["logout"] = ShellBuiltinFunc(Exit)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
