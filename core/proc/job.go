package proc

import (
	"errors"
	"os/exec"
	"sync/atomic"
)

// Mode is how the interpreter treats a running job.
type Mode int

const (
	// Foreground jobs block the interpreter until they finish.
	Foreground Mode = iota
	// Background jobs run unsupervised.
	Background
)

func (m Mode) String() string {
	switch m {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// Job is a started program.
type Job struct {
	Pid  int
	Path string
	Args []string
	Mode Mode

	cmd         *exec.Cmd
	bindings    *Bindings
	interrupted atomic.Bool
}

// Wait blocks until the program exits and returns its exit status. Killed
// programs report 128 plus the signal number.
func (j *Job) Wait() (int, error) {
	err := j.cmd.Wait()
	j.bindings.Close()

	if status, ok := exitStatus(j.cmd.ProcessState); ok {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = nil
		}
		return status, err
	}
	return -1, err
}

// Kill terminates the program unconditionally and marks the job interrupted.
func (j *Job) Kill() error {
	j.interrupted.Store(true)
	return j.cmd.Process.Kill()
}

// Interrupted reports whether Kill was called.
func (j *Job) Interrupted() bool {
	return j.interrupted.Load()
}
