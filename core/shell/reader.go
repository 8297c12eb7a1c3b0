package shell

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/abiosoft/readline"
)

// LineReader supplies raw input lines without their terminator. It returns
// io.EOF once input is exhausted.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return readline.IsTerminal(int(f.Fd()))
}

type rawReader struct {
	in      *bufio.Reader
	out     io.Writer
	prompt  string
	maxLine int
}

var _ LineReader = (*rawReader)(nil)

// NewRawReader reads lines straight from in, printing prompt to out before
// each read. Lines are truncated to maxLine-1 bytes; the rest of a long line
// is discarded.
func NewRawReader(in io.Reader, out io.Writer, prompt string, maxLine int) LineReader {
	if maxLine <= 1 {
		maxLine = DefaultMaxLine
	}
	return &rawReader{
		in:      bufio.NewReader(in),
		out:     out,
		prompt:  prompt,
		maxLine: maxLine,
	}
}

func (r *rawReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, r.prompt)

	var line []byte
	for {
		chunk, err := r.in.ReadSlice('\n')
		chunk = bytes.TrimSuffix(chunk, []byte{'\n'})
		if room := r.maxLine - 1 - len(line); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			line = append(line, chunk...)
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(line) > 0:
			// Run the unterminated last line, EOF is seen on the next read.
			return string(line), nil
		case err != nil:
			return "", err
		}
		return string(line), nil
	}
}

func (r *rawReader) Close() error {
	return nil
}

type readlineReader struct {
	rl      *readline.Instance
	maxLine int
}

var _ LineReader = (*readlineReader)(nil)

// NewReadlineReader reads lines with an interactive line editor. The editor's
// own history is disabled, History is the only record of past lines.
func NewReadlineReader(in io.Reader, out, errw io.Writer, prompt string, maxLine int) (LineReader, error) {
	if maxLine <= 1 {
		maxLine = DefaultMaxLine
	}

	cfg := &readline.Config{
		Prompt:                 prompt,
		Stdin:                  readline.NewCancelableStdin(in),
		Stdout:                 out,
		Stderr:                 errw,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &readlineReader{rl: rl, maxLine: maxLine}, nil
}

func (r *readlineReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	switch {
	case err == readline.ErrInterrupt:
		// Ctrl-C while editing discards the line.
		return "", nil
	case err != nil:
		return "", err
	}

	if len(line) > r.maxLine-1 {
		line = line[:r.maxLine-1]
	}
	return line, nil
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}
