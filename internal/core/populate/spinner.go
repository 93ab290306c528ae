package populate

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner shows a spinning animation while waiting on svn
type Spinner struct {
	writer  io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewSpinner creates a new spinner with a message
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		writer:  w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation in a goroutine
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i = (i + 1) % len(frames) {
			fmt.Fprintf(s.writer, "\r%s %s", frames[i], s.message)
			select {
			case <-s.stop:
				// Clear the line
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and waits until its line is cleared. Safe to call
// more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}
