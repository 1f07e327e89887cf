package db

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressCallback receives one Update per archived session
type ProgressCallback interface {
	Update(title string)
	Finish()
}

// ProgressReporter draws a progress bar for an archive run
type ProgressReporter struct {
	writer    io.Writer
	total     int
	current   int
	startTime time.Time
}

// NewProgressReporter creates a reporter expecting total updates
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		total:     total,
		startTime: time.Now(),
	}
}

// Update advances the bar and shows the session being written
func (p *ProgressReporter) Update(title string) {
	p.current++
	if p.total <= 0 {
		return
	}

	pct := float64(p.current) / float64(p.total) * 100

	barWidth := 30
	filled := barWidth * p.current / p.total
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	display := []rune(title)
	if len(display) > 40 {
		display = append(display[:37], []rune("...")...)
	}

	_, _ = fmt.Fprintf(p.writer, "\r\033[K[%s] %3.0f%% (%d/%d) %s",
		bar, pct, p.current, p.total, string(display))
}

// Finish ends the progress line
func (p *ProgressReporter) Finish() {
	elapsed := time.Since(p.startTime)
	_, _ = fmt.Fprintf(p.writer, "\r\033[KArchived %d session(s) in %s\n", p.current, elapsed.Round(time.Millisecond))
}
