// Package spinner shows a terminal progress indicator while a pipeline phase runs.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameDelay = 80 * time.Millisecond

// Spinner animates a phase label followed by its running time.
type Spinner struct {
	ctx     context.Context
	writer  io.Writer
	message string

	mu      sync.Mutex
	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

// New creates a stopped spinner writing to writer.
// Cancelling ctx halts the animation but Stop must still be called.
func New(ctx context.Context, writer io.Writer, message string) *Spinner {
	return &Spinner{ctx: ctx, writer: writer, message: message}
}

// Start begins the animation. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}

	s.started = time.Now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.animate(s.stop, s.done)
}

// Stop halts the animation, clears the line and returns the time since Start.
// Stopping a spinner that is not running returns 0.
func (s *Spinner) Stop() time.Duration {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return 0
	}
	close(s.stop)
	done := s.done
	elapsed := time.Since(s.started)
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	<-done

	if IsTerminal(s.writer) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
	return elapsed
}

// IsActive reports whether the spinner is running.
func (s *Spinner) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Spinner) animate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(frameDelay)
	defer ticker.Stop()

	started := time.Now()
	for i := 0; ; i++ {
		select {
		case <-stop:
			return
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(started).Truncate(100 * time.Millisecond)
			fmt.Fprintf(s.writer, "\r%s %s %s", frames[i%len(frames)], s.message, elapsed)
		}
	}
}

// Phase runs fn while a spinner shows message on w, then prints the message with its
// duration when fn succeeds. With enabled false, fn runs without any output.
func Phase(ctx context.Context, w io.Writer, enabled bool, message string, fn func() error) error {
	if !enabled {
		return fn()
	}

	s := New(ctx, w, message)
	s.Start()
	err := fn()
	elapsed := s.Stop()

	if err == nil {
		fmt.Fprintf(w, "✓ %s (%s)\n", message, elapsed.Round(time.Millisecond))
	}
	return err
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
