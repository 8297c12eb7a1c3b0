package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// ListBuiltins returns the sorted builtin names.
func ListBuiltins() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Exit quits the shell unless background jobs are still running.
func Exit(s *Shell, args []string) int {
	if err := s.RequestExit(); err != nil {
		if errors.Is(err, ErrPendingJobs) {
			s.printer.Warnf(s.Err(), msgPendingJobs)
		}
		return 1
	}
	return 0
}

// History lists the retained command lines, oldest first.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	opts.SetParameters("[N]")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Err()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [N]")
		fmt.Fprintln(w, "Display the history list with line numbers, or only the last N lines.")
		fmt.Fprintln(w, "Run entry N again with !N.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	show := s.History.Len()
	switch rest := opts.Args(); len(rest) {
	case 0:
	case 1:
		n, err := strconv.Atoi(rest[0])
		if err != nil || n < 0 {
			fmt.Fprintf(s.Err(), "%s: %s: numeric argument required\n", args[0], rest[0])
			return 1
		}
		if n < show {
			show = n
		}
	default:
		fmt.Fprintf(s.Err(), "%s: too many arguments\n", args[0])
		return 1
	}

	skip := s.History.Len() - show
	for i, line := range s.History.All() {
		if i < skip {
			continue
		}
		fmt.Fprintf(s.Out(), "%d %s\n", i, line)
	}
	return 0
}

func init() {
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
