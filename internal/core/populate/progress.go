package populate

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressReporter draws a progress bar while revisions are resolved
type ProgressReporter struct {
	writer    io.Writer
	startTime time.Time
	total     int
	current   int
	reused    int
	spinner   *Spinner
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		startTime: time.Now(),
	}
}

// Wait shows a spinner with message until the first Update, Finish or Stop
func (p *ProgressReporter) Wait(message string) {
	p.Stop()
	p.spinner = NewSpinner(p.writer, message)
	p.spinner.Start()
}

// Stop removes a running spinner
func (p *ProgressReporter) Stop() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}

// Update redraws the bar for the revision that was just resolved
func (p *ProgressReporter) Update(done, total int, rev int64, reused bool) {
	p.Stop()
	p.current = done
	p.total = total
	if reused {
		p.reused++
	}
	if total == 0 {
		return
	}

	pct := float64(done) / float64(total) * 100

	// Draw progress bar (50 chars wide)
	barWidth := 50
	filled := int(float64(barWidth) * float64(done) / float64(total))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	source := "fetched"
	if reused {
		source = "cached"
	}

	// Calculate ETA
	elapsed := time.Since(p.startTime)
	eta := time.Duration(0)
	if rate := float64(done) / elapsed.Seconds(); rate > 0 {
		eta = time.Duration(float64(total-done)/rate) * time.Second
	}

	_, _ = fmt.Fprintf(p.writer, "\r[%s] %3.0f%% (%d/%d) ETA: %s | r%d %s   ",
		bar, pct, done, total, eta.Round(time.Second), rev, source)
}

// Finish completes the progress display
func (p *ProgressReporter) Finish() {
	p.Stop()
	elapsed := time.Since(p.startTime)
	if p.total > 0 {
		_, _ = fmt.Fprintln(p.writer)
	}
	_, _ = fmt.Fprintf(p.writer, "Completed: %d revisions (%d cached, %d fetched) in %s\n",
		p.total, p.reused, p.total-p.reused, elapsed.Round(time.Millisecond))
}
