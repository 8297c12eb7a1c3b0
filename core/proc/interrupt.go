package proc

import (
	"os"
	"os/signal"
	"sync"

	"github.com/charmbracelet/log"
)

// Interrupter is anything holding a foreground job that can be killed.
type Interrupter interface {
	Interrupt() bool
}

// InterruptBridge turns interactive interrupt signals into foreground job
// kills. The interpreter itself is never stopped by them.
type InterruptBridge struct {
	target Interrupter
	log    *log.Logger

	sigs chan os.Signal
	done chan struct{}
	stop sync.Once
}

// NewInterruptBridge creates a bridge that interrupts target.
func NewInterruptBridge(target Interrupter, logger *log.Logger) *InterruptBridge {
	return &InterruptBridge{
		target: target,
		log:    logger,
		sigs:   make(chan os.Signal, 1),
		done:   make(chan struct{}),
	}
}

// Start installs the signal handler. It stays installed until Stop.
func (b *InterruptBridge) Start() {
	signal.Notify(b.sigs, os.Interrupt)

	go func() {
		for {
			select {
			case <-b.done:
				return
			case sig := <-b.sigs:
				b.log.Debug("got signal", "signal", sig)
				b.Interrupt()
			}
		}
	}()
}

// Interrupt kills the foreground job, doing nothing if there is none.
func (b *InterruptBridge) Interrupt() bool {
	killed := b.target.Interrupt()
	if !killed {
		b.log.Debug("interrupt with no foreground job")
	}
	return killed
}

// Stop uninstalls the handler.
func (b *InterruptBridge) Stop() {
	b.stop.Do(func() {
		signal.Stop(b.sigs)
		close(b.done)
	})
}
