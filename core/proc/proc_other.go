//go:build !unix

package proc

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
)

func isExecFailure(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, exec.ErrNotFound)
}

func sysProcAttr(Mode) *syscall.SysProcAttr {
	return nil
}

func exitStatus(state *os.ProcessState) (int, bool) {
	if state == nil {
		return 0, false
	}
	return state.ExitCode(), true
}
