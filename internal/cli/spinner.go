package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

var errSpinnerStopped = errors.New("spinner stopped")

// spinner animates a status line on w until stopped or until its context
// is cancelled. Once the operation has run for a second the elapsed time is
// appended to the message.
type spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelCauseFunc
	start   time.Time
	stopped chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	mu        sync.Mutex
	width     int
}

func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancelCause(ctx)
	return &spinner{
		w:       w,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. Calling it more than once has no effect.
func (s *spinner) Start() {
	s.startOnce.Do(func() {
		s.start = time.Now()
		go s.run()
	})
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	line := s.message
	if elapsed := time.Since(s.start); elapsed >= time.Second {
		line = fmt.Sprintf("%s (%s)", s.message, elapsed.Round(time.Second))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
	s.width = max(s.width, len(line)+2)
}

// Stop halts the animation and clears the line. It is safe to call Stop
// repeatedly, and on a spinner that was never started.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.startOnce.Do(func() { close(s.stopped) })
		s.cancel(errSpinnerStopped)
		<-s.stopped
		s.clearLine()
	})
}

// Cancelled reports whether the parent context ended the spinner.
func (s *spinner) Cancelled() bool {
	return s.ctx.Err() != nil && context.Cause(s.ctx) != errSpinnerStopped
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
