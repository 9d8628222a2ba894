package interrupt

import "time"

// Recv receives from ch while polling f every PollInterval.
// ok is false when ch was closed; that is not an error.
func Recv[T any](f *Flag, ch <-chan T) (v T, ok bool, err error) {
	timer := time.NewTimer(PollInterval)
	defer timer.Stop()

	for {
		if err := f.Check(); err != nil {
			return v, false, err
		}
		select {
		case v, ok = <-ch:
			return v, ok, nil
		case <-timer.C:
			timer.Reset(PollInterval)
		}
	}
}

// Poll calls step up to attempts times, sleeping interval between calls,
// until step reports done. It returns false without error when the budget
// runs out. The flag is checked before every attempt.
func Poll(f *Flag, interval time.Duration, attempts int, step func() (done bool, err error)) (bool, error) {
	for i := 0; i < attempts; i++ {
		if err := f.Check(); err != nil {
			return false, err
		}
		done, err := step()
		if err != nil || done {
			return done, err
		}
		time.Sleep(interval)
	}
	return false, f.Check()
}
