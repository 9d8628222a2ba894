// Package interrupt provides the process-wide cancellation flag and the
// cancellable wait primitives every blocking operation polls it through.
//
// Child processes are not guaranteed to react to the interrupt the host
// receives, so instead of blocking indefinitely callers wait in short
// PollInterval slices and check the Flag between them.
package interrupt

import (
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"time"
)

// PollInterval bounds how long any wait may go without observing the Flag.
const PollInterval = 50 * time.Millisecond

// ErrInterrupted is returned by every wait that observed a set Flag.
var ErrInterrupted = errors.New("interrupted")

// Flag is a set-once cancellation flag. The zero value is ready to use.
type Flag struct {
	set atomic.Bool
}

// New returns an unset Flag.
func New() *Flag {
	return &Flag{}
}

// Signal sets the flag. Calling it again has no effect.
func (f *Flag) Signal() {
	f.set.Store(true)
}

// IsSet reports whether Signal has been called.
func (f *Flag) IsSet() bool {
	if f == nil {
		return false
	}
	return f.set.Load()
}

// Check returns ErrInterrupted once the flag is set.
func (f *Flag) Check() error {
	if f.IsSet() {
		return ErrInterrupted
	}
	return nil
}

// Notify sets the flag when any of the given signals (default os.Interrupt)
// arrives. The returned func stops delivery.
func (f *Flag) Notify(sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, sigs...)
	go func() {
		select {
		case <-ch:
			f.Signal()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// IsInterrupted reports whether err stems from a set Flag.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
