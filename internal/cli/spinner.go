package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a slow step (Graphviz, rsvg,
// a remote store) runs. It stops on Stop, Fail or when ctx is done.
type spinner struct {
	w     io.Writer
	label string
	start time.Time

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	exited chan struct{}

	mu    sync.Mutex
	width int
}

func newSpinner(parent context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	return &spinner{
		w:      w,
		label:  label,
		parent: parent,
		ctx:    ctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}
}

// Start draws the first frame and animates until stopped.
func (s *spinner) Start() {
	s.start = time.Now()
	s.draw(0)
	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for frame := 1; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(frame)
			}
		}
	}()
}

func (s *spinner) draw(frame int) {
	elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s %s",
		styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]),
		StyleDim.Render(s.label),
		StyleNumber.Render(elapsed.String()))

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s", line)
	s.width = max(s.width, len(line))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// Stop ends the animation and erases the status line. Safe to call more than
// once and before Start.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if !s.start.IsZero() {
			<-s.exited
		}
		s.clear()
	})
}

// Fail stops the spinner and reports msg as an error.
func (s *spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
