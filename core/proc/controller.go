package proc

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/myshell/core/logger"
)

const (
	msgBackground  = "Process running in background: %d\n"
	msgInterrupted = "Foreground process terminated."
)

// Controller runs commands as foreground or background jobs. It owns the
// foreground slot, which is empty whenever no foreground job is running.
type Controller struct {
	launcher *Launcher
	stdout   io.Writer
	events   *logger.SessionLogger
	log      *log.Logger

	foreground atomic.Pointer[Job]
	pending    atomic.Int64
	reapers    sync.WaitGroup
}

// NewController creates a controller printing job notices to stdout.
func NewController(launcher *Launcher, stdout io.Writer, events *logger.SessionLogger, logger *log.Logger) *Controller {
	return &Controller{
		launcher: launcher,
		stdout:   stdout,
		events:   events,
		log:      logger,
	}
}

func (c *Controller) record(event logger.Event, fields logger.Fields) {
	if err := c.events.Record(event, fields); err != nil {
		c.log.Warn("couldn't record event", "event", event, "err", err)
	}
}

// Run launches argv. Foreground jobs are waited for, background jobs return
// as soon as they're started. Errors confined to the command are returned
// wrapping ErrCommandNotFound or ErrRedirect; only ErrProcessCreation means
// the interpreter can't go on.
func (c *Controller) Run(argv []string, background bool) error {
	mode := Foreground
	if background {
		mode = Background
	}

	job, err := c.launcher.Launch(argv, mode)
	var redirErr *RedirectError
	switch {
	case errors.Is(err, ErrCommandNotFound):
		c.record(logger.EventCommandNotFound, logger.Fields{"argv": logger.StringList(argv)})
		return err
	case errors.As(err, &redirErr):
		c.record(logger.EventRedirectError, logger.Fields{
			"argv":     logger.StringList(argv),
			"operator": string(redirErr.Op),
			"path":     redirErr.Path,
			"error":    redirErr.Err.Error(),
		})
		return err
	case err != nil:
		return err
	case job == nil:
		return nil
	}

	c.record(logger.EventSpawn, logger.Fields{
		"argv": logger.StringList(job.Args),
		"path": job.Path,
		"pid":  job.Pid,
		"mode": mode.String(),
	})

	if mode == Background {
		c.pending.Add(1)
		c.reapers.Add(1)
		fmt.Fprintf(c.stdout, msgBackground, job.Pid)
		c.record(logger.EventBackground, logger.Fields{"pid": job.Pid})
		go c.reap(job)
		return nil
	}

	c.foreground.Store(job)
	status, err := job.Wait()
	c.foreground.CompareAndSwap(job, nil)

	if job.Interrupted() {
		fmt.Fprintln(c.stdout, msgInterrupted)
		c.record(logger.EventInterrupt, logger.Fields{"pid": job.Pid})
	}
	c.finished(job, status, err)
	return nil
}

func (c *Controller) reap(job *Job) {
	defer c.reapers.Done()
	defer c.pending.Add(-1)

	status, err := job.Wait()
	c.finished(job, status, err)
}

func (c *Controller) finished(job *Job, status int, err error) {
	if err != nil {
		c.log.Warn("wait failed", "pid", job.Pid, "err", err)
	}
	c.log.Debug("exited", "pid", job.Pid, "status", status, "mode", job.Mode)
	c.record(logger.EventExit, logger.Fields{"pid": job.Pid, "status": status})
}

// Foreground returns the running foreground job, or nil.
func (c *Controller) Foreground() *Job {
	return c.foreground.Load()
}

// Pending returns the number of background jobs that haven't been reaped.
func (c *Controller) Pending() int {
	return int(c.pending.Load())
}

// WaitBackground blocks until every background job has been reaped.
func (c *Controller) WaitBackground() {
	c.reapers.Wait()
}

// Interrupt kills the foreground job, if any, and empties the slot. It is
// safe to call from any goroutine at any time.
func (c *Controller) Interrupt() bool {
	job := c.foreground.Swap(nil)
	if job == nil {
		return false
	}

	if err := job.Kill(); err != nil {
		c.log.Debug("kill failed", "pid", job.Pid, "err", err)
	}
	return true
}
