package fetch

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/glorpus-work/repofetch/pkg/errors"
)

// guardActive enforces a single process-wide interrupt guard. The guard is
// not reentrant; nested installation is rejected at install time.
var guardActive atomic.Bool

// interruptGuard scopes a SIGINT handler to one batch call. The first signal
// records interrupted-state and resets the default signal disposition, so a
// second SIGINT terminates the process instead of being caught again.
type interruptGuard struct {
	ch          chan os.Signal
	done        chan struct{}
	exited      chan struct{}
	interrupted atomic.Bool
	cancel      context.CancelFunc
}

// installInterruptGuard installs the guard. cancel is invoked on the first
// SIGINT so that the transfer engine can wind down cooperatively; the
// cancellation is advisory, the authoritative outcome comes from Interrupted
// at reconciliation time.
func installInterruptGuard(cancel context.CancelFunc) (*interruptGuard, error) {
	if !guardActive.CompareAndSwap(false, true) {
		return nil, errors.Wrap(errors.ErrSignalHandler, "interrupt guard already installed")
	}
	g := &interruptGuard{
		ch:     make(chan os.Signal, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		cancel: cancel,
	}
	signal.Notify(g.ch, os.Interrupt)
	go g.watch()
	return g, nil
}

func (g *interruptGuard) watch() {
	defer close(g.exited)
	select {
	case <-g.ch:
		g.interrupted.Store(true)
		// Restore the default disposition so a repeat SIGINT takes the
		// default terminating action.
		signal.Reset(os.Interrupt)
		if g.cancel != nil {
			g.cancel()
		}
	case <-g.done:
	}
}

// Release restores the previous signal handling. It must run on every exit
// path of the guarded region and exactly once. A signal that was delivered
// inside the guarded window but not yet consumed by the watcher still counts
// as an interruption.
func (g *interruptGuard) Release() {
	signal.Stop(g.ch)
	close(g.done)
	<-g.exited
	select {
	case <-g.ch:
		g.interrupted.Store(true)
	default:
	}
	guardActive.Store(false)
}

// Interrupted reports whether a SIGINT was observed while the guard was
// installed.
func (g *interruptGuard) Interrupted() bool {
	return g.interrupted.Load()
}
