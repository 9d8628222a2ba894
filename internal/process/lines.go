package process

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
)

// lineBuffer bounds how far the stream readers may run ahead of the consumer.
const lineBuffer = 64

// Lines merges two output streams into one sequence of lines, ordered by
// the time each line's newline arrived. Lines keep their raw bytes,
// including the trailing newline, and every line handed out is retained for
// a later replay.
//
// Lines has exactly one consumer; Collected must be called from it.
type Lines struct {
	flag      *interrupt.Flag
	ch        chan []byte
	done      chan struct{}
	closeOnce sync.Once
	collected [][]byte
}

// NewLines starts one reader per stream. Reads are cancellable through flag.
func NewLines(flag *interrupt.Flag, stdout, stderr io.Reader) *Lines {
	l := &Lines{
		flag: flag,
		ch:   make(chan []byte, lineBuffer),
		done: make(chan struct{}),
	}

	var wg sync.WaitGroup
	for _, r := range []io.Reader{stdout, stderr} {
		if r == nil {
			continue
		}
		wg.Add(1)
		go l.pump(r, &wg)
	}
	go func() {
		wg.Wait()
		close(l.ch)
	}()
	return l
}

func (l *Lines) pump(r io.Reader, wg *sync.WaitGroup) {
	defer wg.Done()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			select {
			case l.ch <- line:
			case <-l.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				slog.Debug("Subprocess stream read failed", "error", err)
			}
			return
		}
	}
}

// ReadLine returns the next line. ok is false once both streams are
// exhausted. An interrupted wait returns interrupt.ErrInterrupted.
func (l *Lines) ReadLine() ([]byte, bool, error) {
	line, ok, err := interrupt.Recv(l.flag, l.ch)
	if err != nil || !ok {
		return nil, false, err
	}
	l.collected = append(l.collected, line)
	return line, true, nil
}

// Collected returns every line read so far, in order.
func (l *Lines) Collected() [][]byte {
	return l.collected
}

// Close stops the readers without draining the streams.
func (l *Lines) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
