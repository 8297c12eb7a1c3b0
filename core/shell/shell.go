package shell

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/logger"
	"github.com/josephlewis42/myshell/core/proc"
	"github.com/spf13/afero"
)

// DefaultPrompt is printed before every line is read.
const DefaultPrompt = "myshell: "

var (
	// ErrInputIO is returned by Run when reading input fails.
	ErrInputIO = errors.New("error reading command")
	// ErrPendingJobs is returned when exiting with unreaped background jobs.
	ErrPendingJobs = errors.New("background processes still running")
)

const (
	msgInvalidHistoryIndex = "Invalid history index."
	msgPendingJobs         = "There are still background processes running."
)

// Env is what the shell takes from its surroundings.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Getenv reads the program search list, os.Getenv if nil.
	Getenv func(string) string
	// Fs holds redirection targets, the OS filesystem if nil.
	Fs afero.Fs
	// Events records what the shell does, nothing is recorded if nil.
	Events *logger.SessionLogger
	// Logger receives diagnostics, they're discarded if nil.
	Logger *log.Logger
}

// Shell is an interactive command interpreter session.
type Shell struct {
	Stdout io.Writer
	Stderr io.Writer

	Reader  LineReader
	Parser  Parser
	History *History
	Jobs    *proc.Controller

	resolver proc.Resolver
	printer  *Printer
	events   *logger.SessionLogger
	log      *log.Logger

	// Streams of the running builtin.
	out    io.Writer
	errOut io.Writer

	lastRet int

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a session configured by cfg.
func NewShell(cfg *config.Configuration, env Env) (*Shell, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if env.Events == nil {
		env.Events = logger.NewNopLogger().Sessionless()
	}
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}

	var reader LineReader
	if cfg.LineEditing && IsTerminal(env.Stdin) {
		var err error
		reader, err = NewReadlineReader(env.Stdin, env.Stdout, env.Stderr, cfg.Prompt, cfg.MaxLine)
		if err != nil {
			return nil, err
		}
	} else {
		reader = NewRawReader(env.Stdin, env.Stdout, cfg.Prompt, cfg.MaxLine)
	}

	resolver := proc.Resolver{Fs: env.Fs}
	launcher := &proc.Launcher{
		Stdin:    env.Stdin,
		Stdout:   env.Stdout,
		Stderr:   env.Stderr,
		Resolver: resolver,
		Getenv:   env.Getenv,
		Logger:   env.Logger,
	}

	return &Shell{
		Stdout:   env.Stdout,
		Stderr:   env.Stderr,
		Reader:   reader,
		Parser:   Parser{MaxArgs: cfg.MaxArgs},
		History:  NewHistory(cfg.HistorySize, cfg.MaxLine),
		Jobs:     proc.NewController(launcher, env.Stdout, env.Events, env.Logger),
		resolver: resolver,
		printer:  NewPrinter(cfg.Color),
		events:   env.Events,
		log:      env.Logger,
	}, nil
}

// Run reads and executes lines until exit or end of input. A non-nil error
// means the interpreter can't continue.
func (s *Shell) Run() error {
	for !s.Quit {
		raw, err := s.Reader.ReadLine()
		switch {
		case err == io.EOF:
			return nil
		case errors.Is(err, syscall.EINTR):
			continue
		case err != nil:
			return fmt.Errorf("%w: %v", ErrInputIO, err)
		}

		if err := s.Execute(raw); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the input reader.
func (s *Shell) Close() error {
	return s.Reader.Close()
}

// Out is the standard output of the running builtin.
func (s *Shell) Out() io.Writer {
	if s.out != nil {
		return s.out
	}
	return s.Stdout
}

// Err is the standard error of the running builtin.
func (s *Shell) Err() io.Writer {
	if s.errOut != nil {
		return s.errOut
	}
	return s.Stderr
}

func (s *Shell) record(event logger.Event, fields logger.Fields) {
	if err := s.events.Record(event, fields); err != nil {
		s.log.Warn("couldn't record event", "event", event, "err", err)
	}
}

// Execute runs one raw input line. Accepted lines are added to the history
// once they've run, so a line never lists itself. Only errors that end the
// interpreter are returned.
func (s *Shell) Execute(raw string) error {
	if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
		raw = raw[:nl]
	}

	line, err := s.Parser.Parse(raw)
	if err != nil {
		s.printer.Errorf(s.Stderr, "myshell: %v", err)
		return nil
	}
	if line.Empty() {
		return nil
	}

	if index, ok := replayIndex(line); ok {
		return s.replay(index)
	}

	err = s.dispatch(line)
	s.History.Record(raw)
	return err
}

// replayIndex recognizes a bare "!N".
func replayIndex(line Line) (int, bool) {
	if len(line.Args) != 1 || line.Background {
		return 0, false
	}
	tok := line.Args[0]
	if len(tok) < 2 || tok[0] != '!' {
		return 0, false
	}
	index, err := strconv.Atoi(tok[1:])
	if err != nil || tok[1] == '+' || tok[1] == '-' {
		return 0, false
	}
	return index, true
}

// replay runs a history entry again. Neither the replay request nor the
// replayed line is recorded.
func (s *Shell) replay(index int) error {
	text, err := s.History.Replay(index)
	if err != nil {
		s.record(logger.EventInvalidHistoryIndex, logger.Fields{"index": index})
		s.printer.Errorf(s.Stderr, msgInvalidHistoryIndex)
		return nil
	}
	s.record(logger.EventHistoryReplay, logger.Fields{"index": index, "line": text})

	line, err := s.Parser.Parse(text)
	if err != nil {
		s.printer.Errorf(s.Stderr, "myshell: %v", err)
		return nil
	}
	if line.Empty() {
		return nil
	}
	return s.dispatch(line)
}

func (s *Shell) dispatch(line Line) error {
	s.record(logger.EventCommand, logger.Fields{
		"argv":       logger.StringList(line.Args),
		"background": line.Background,
	})

	if builtin, ok := AllBuiltins[line.Args[0]]; ok {
		s.runBuiltin(builtin, line.Args)
		return nil
	}

	err := s.Jobs.Run(line.Args, line.Background)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, proc.ErrProcessCreation):
		return err
	case errors.Is(err, proc.ErrCommandNotFound):
		// Already reported on the command's own error stream.
		return nil
	default:
		s.printer.Errorf(s.Stderr, "%s: %v", line.Args[0], err)
		return nil
	}
}

// runBuiltin runs a builtin in the interpreter with its redirections applied.
func (s *Shell) runBuiltin(builtin ShellBuiltin, argv []string) {
	args, bindings, err := s.resolver.Resolve(argv)
	if err != nil {
		s.printer.Errorf(s.Stderr, "%s: %v", argv[0], err)
		return
	}
	defer bindings.Close()

	s.out, s.errOut = bindings.Stdout, bindings.Stderr
	defer func() {
		s.out, s.errOut = nil, nil
	}()

	s.lastRet = builtin.Main(s, args)
}

// RequestExit ends the session unless background jobs are still running.
func (s *Shell) RequestExit() error {
	if s.Jobs.Pending() > 0 {
		return ErrPendingJobs
	}
	s.Quit = true
	return nil
}
