package shell

import (
	"errors"
	"fmt"
	"strings"
)

// A deliberately small subset of
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
//
// The input is broken into words on blanks only. There is no quoting,
// expansion or compound command; an '&' anywhere on the line requests
// background execution and separates words.

const (
	// DefaultMaxLine is the longest line accepted, in bytes.
	DefaultMaxLine = 128
	// DefaultMaxArgs is the argument vector capacity, including the
	// terminating slot.
	DefaultMaxArgs = 32
)

// ErrTooManyArguments is returned when a line holds more words than the
// argument vector can store.
var ErrTooManyArguments = errors.New("too many arguments")

// Line is a parsed command line. Args are owned copies, never slices of a
// buffer that may be reused.
type Line struct {
	Args       []string
	Background bool
}

// Empty reports whether the line holds no command.
func (l Line) Empty() bool {
	return len(l.Args) == 0
}

// Parser splits raw input lines into argument vectors.
type Parser struct {
	// MaxArgs bounds the vector, one slot is reserved as a terminator.
	MaxArgs int
}

// Parse tokenizes one raw line. Parsing stops at the first newline.
func (p Parser) Parse(raw string) (Line, error) {
	var (
		line  Line
		start = -1
	)

	limit := p.MaxArgs - 1
	if p.MaxArgs <= 0 {
		limit = DefaultMaxArgs - 1
	}

	closeToken := func(end int) error {
		if start == -1 {
			return nil
		}
		if len(line.Args) >= limit {
			return fmt.Errorf("%w (max %d)", ErrTooManyArguments, limit)
		}
		line.Args = append(line.Args, strings.Clone(raw[start:end]))
		start = -1
		return nil
	}

scan:
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t':
			if err := closeToken(i); err != nil {
				return Line{}, err
			}
		case '\n':
			break scan
		case '&':
			line.Background = true
			if err := closeToken(i); err != nil {
				return Line{}, err
			}
		default:
			if start == -1 {
				start = i
			}
		}
	}

	end := len(raw)
	if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
		end = nl
	}
	if err := closeToken(end); err != nil {
		return Line{}, err
	}

	return line, nil
}
