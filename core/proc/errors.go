package proc

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandNotFound is returned when no PATH candidate could be started.
	ErrCommandNotFound = errors.New("command not found")
	// ErrProcessCreation is returned when the OS refuses to create a process
	// at all. The interpreter can't dispatch any more work after it.
	ErrProcessCreation = errors.New("process creation failed")
	// ErrRedirect is the sentinel wrapped by RedirectError.
	ErrRedirect = errors.New("redirection error")
	// ErrMissingRedirectTarget is returned for an operator without a filename.
	ErrMissingRedirectTarget = errors.New("missing file name")
)

// CommandNotFoundError is returned by Launch when every candidate failed.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("Command not found: %s", e.Name)
}

// Unwrap returns ErrCommandNotFound so callers can use errors.Is.
func (e *CommandNotFoundError) Unwrap() error { return ErrCommandNotFound }

// ProcessCreationError holds the failed start of a program.
type ProcessCreationError struct {
	Path string
	Err  error
}

func (e *ProcessCreationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrProcessCreation, e.Path, e.Err)
}

func (e *ProcessCreationError) Unwrap() []error { return []error{ErrProcessCreation, e.Err} }

// RedirectError is returned when a redirection target can't be opened.
type RedirectError struct {
	Op   Operator
	Path string
	Err  error
}

func (e *RedirectError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s redirection error: %s: %v", e.Op.Kind(), e.Op, e.Err)
	}
	return fmt.Sprintf("%s redirection error: %v", e.Op.Kind(), e.Err)
}

func (e *RedirectError) Unwrap() []error { return []error{ErrRedirect, e.Err} }
