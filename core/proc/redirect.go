package proc

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// Operator is a redirection operator token.
type Operator string

const (
	RedirectIn     Operator = "<"
	RedirectOut    Operator = ">"
	RedirectAppend Operator = ">>"
	RedirectErr    Operator = "2>"
)

type stream int

const (
	streamStdin stream = iota
	streamStdout
	streamStderr
)

type redirection struct {
	stream stream
	flag   int
	kind   string
}

var redirections = map[Operator]redirection{
	RedirectIn:     {streamStdin, os.O_RDONLY, "input"},
	RedirectOut:    {streamStdout, os.O_WRONLY | os.O_CREATE | os.O_TRUNC, "output"},
	RedirectAppend: {streamStdout, os.O_WRONLY | os.O_CREATE | os.O_APPEND, "append"},
	RedirectErr:    {streamStderr, os.O_WRONLY | os.O_CREATE | os.O_TRUNC, "error"},
}

// Kind names the operator for diagnostics.
func (o Operator) Kind() string {
	return redirections[o].kind
}

// IsRedirect reports whether tok is a redirection operator.
func IsRedirect(tok string) bool {
	_, ok := redirections[Operator(tok)]
	return ok
}

// Bindings are the standard streams of a child. A nil stream means the
// interpreter's own stream is inherited.
type Bindings struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	files [3]afero.File
}

func (b *Bindings) bind(s stream, f afero.File) {
	if old := b.files[s]; old != nil {
		old.Close()
	}
	b.files[s] = f

	switch s {
	case streamStdin:
		b.Stdin = f
	case streamStdout:
		b.Stdout = f
	case streamStderr:
		b.Stderr = f
	}
}

// releaseStarted closes the OS files a started child now holds its own
// descriptors for. Other files are still read or written by exec's copying
// goroutines and are kept until Close.
func (b *Bindings) releaseStarted() {
	for i, f := range b.files {
		if _, ok := f.(*os.File); ok {
			f.Close()
			b.files[i] = nil
		}
	}
}

// Close releases every file still held by the parent.
func (b *Bindings) Close() error {
	var lastErr error
	for i, f := range b.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil {
			lastErr = err
		}
		b.files[i] = nil
	}
	return lastErr
}

// Resolver turns redirection operators into stream bindings.
type Resolver struct {
	// Fs is the filesystem redirection targets are opened on.
	Fs afero.Fs
}

// Resolve opens the target of every redirection operator in argv and returns
// the remaining arguments. The operator and its filename never reach the
// program. Later redirections of the same stream win; all targets are still
// opened in order so their create and truncate side effects happen.
func (r Resolver) Resolve(argv []string) ([]string, *Bindings, error) {
	fsys := r.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	bindings := &Bindings{}
	args := make([]string, 0, len(argv))

	for i := 0; i < len(argv); i++ {
		op := Operator(argv[i])
		redir, ok := redirections[op]
		if !ok {
			args = append(args, argv[i])
			continue
		}

		if i+1 >= len(argv) {
			bindings.Close()
			return nil, nil, &RedirectError{Op: op, Err: ErrMissingRedirectTarget}
		}
		i++
		name := argv[i]

		f, err := fsys.OpenFile(name, redir.flag, 0644)
		if err != nil {
			bindings.Close()
			return nil, nil, &RedirectError{Op: op, Path: name, Err: err}
		}
		bindings.bind(redir.stream, f)
	}

	return args, bindings, nil
}
