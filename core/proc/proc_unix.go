//go:build unix

package proc

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// isExecFailure reports whether a start error means the candidate can't be
// executed, as opposed to the OS being unable to create a process.
func isExecFailure(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}

	switch errno {
	case unix.ENOENT, unix.EACCES, unix.EPERM, unix.ENOEXEC, unix.ENOTDIR,
		unix.EISDIR, unix.ELOOP, unix.ENAMETOOLONG, unix.ETXTBSY, unix.E2BIG:
		return true
	}
	return false
}

// sysProcAttr puts background jobs in their own process group so a terminal
// interrupt only reaches the foreground.
func sysProcAttr(mode Mode) *syscall.SysProcAttr {
	if mode == Background {
		return &syscall.SysProcAttr{Setpgid: true}
	}
	return nil
}

func exitStatus(state *os.ProcessState) (int, bool) {
	if state == nil {
		return 0, false
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), true
	}
	return state.ExitCode(), true
}
