package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinnerFrames cycle at spinnerInterval while a long export runs.
var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerInterval = 100 * time.Millisecond

// Spinner shows a progress indicator on stderr until stopped or until its
// context is cancelled.
type Spinner struct {
	out     io.Writer
	message string

	ctx    context.Context
	cancel context.CancelFunc

	once    sync.Once
	stopped chan struct{}
	mu      sync.Mutex
	width   int
}

// newSpinner creates a spinner writing to stderr.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
			s.mu.Lock()
			s.width = max(s.width, lipgloss.Width(line))
			fmt.Fprint(s.out, "\r"+line)
			s.mu.Unlock()
		}
	}
}

// Stop halts the animation and clears the line. It is safe to call more
// than once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		select {
		case <-s.stopped:
		case <-time.After(2 * spinnerInterval):
			// Start was never called.
		}
		s.clear()
	})
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%*s\r", s.width, "")
		s.width = 0
	}
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context has ended, either by Stop
// or by cancellation of the parent context.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
