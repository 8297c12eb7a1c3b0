package proc

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Launcher starts external programs.
type Launcher struct {
	// Standard streams inherited by children without a redirection. Stdin is
	// only handed down if it is an *os.File, anything else would have its
	// input consumed by exec's copying goroutine.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Resolver Resolver

	// Getenv looks up the program search list, os.Getenv if nil.
	Getenv func(string) string

	Logger *log.Logger
}

func (l *Launcher) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

func (l *Launcher) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}

func (l *Launcher) streams(b *Bindings) (stdin io.Reader, stdout, stderr io.Writer) {
	stdin, stdout, stderr = b.Stdin, b.Stdout, b.Stderr
	if stdin == nil {
		if f, ok := l.Stdin.(*os.File); ok {
			stdin = f
		}
	}
	if stdout == nil {
		stdout = l.Stdout
	}
	if stderr == nil {
		stderr = l.Stderr
	}
	return
}

// Launch resolves redirections in argv and starts the first PATH candidate
// for argv[0] that can be executed. A nil Job and nil error mean argv held
// only redirections, whose files were still created.
//
// If no candidate can be executed, "Command not found" is written to the
// command's own error stream and a *CommandNotFoundError is returned. If the
// OS can't create a process at all a *ProcessCreationError is returned.
func (l *Launcher) Launch(argv []string, mode Mode) (*Job, error) {
	args, bindings, err := l.Resolver.Resolve(argv)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		bindings.Close()
		return nil, nil
	}

	stdin, stdout, stderr := l.streams(bindings)

	for _, candidate := range Candidates(l.getenv(EnvPath), args[0]) {
		cmd := &exec.Cmd{
			Path:        candidate,
			Args:        args,
			Stdin:       stdin,
			Stdout:      stdout,
			Stderr:      stderr,
			SysProcAttr: sysProcAttr(mode),
		}

		err := cmd.Start()
		switch {
		case err == nil:
			bindings.releaseStarted()
			l.logger().Debug("started", "path", candidate, "pid", cmd.Process.Pid, "mode", mode)
			return &Job{
				Pid:      cmd.Process.Pid,
				Path:     candidate,
				Args:     args,
				Mode:     mode,
				cmd:      cmd,
				bindings: bindings,
			}, nil

		case isExecFailure(err):
			l.logger().Debug("candidate failed", "path", candidate, "err", err)
			continue

		default:
			bindings.Close()
			return nil, &ProcessCreationError{Path: candidate, Err: err}
		}
	}

	notFound := &CommandNotFoundError{Name: args[0]}
	if stderr != nil {
		fmt.Fprintln(stderr, notFound)
	}
	bindings.Close()
	return nil, notFound
}
