package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	progressBar   = "█"
	progressEmpty = "░"
	progressWidth = 20
)

// ProgressPrinter renders a single updating line while a batch runs:
//
//	[████████░░░░░░░░░░░░] 40/100 5097886238307811 ok
//
// Failures break onto their own line so they stay visible after the
// progress line moves on.
type ProgressPrinter struct {
	out       io.Writer
	enabled   bool
	startTime time.Time
	lineOpen  bool
}

// NewProgressPrinter creates a printer writing to stderr. A disabled
// printer swallows every update, for quiet or non-TTY runs.
func NewProgressPrinter(enabled bool) *ProgressPrinter {
	return &ProgressPrinter{
		out:       os.Stderr,
		enabled:   enabled,
		startTime: time.Now(),
	}
}

// Update redraws the progress line for one processed post
func (p *ProgressPrinter) Update(index, total int, postID string, err error, dryRun bool) {
	if !p.enabled {
		return
	}

	if err != nil {
		p.breakLine()
		fmt.Fprintf(p.out, "%s %s: %v\n", Red("[FAILED]"), postID, err)
	}

	status := "ok"
	if dryRun {
		status = "dry run"
	}
	if err != nil {
		status = "failed"
	}

	fmt.Fprintf(p.out, "\r[%s] %d/%d %s %s", bar(index, total), index, total, postID, status)
	p.lineOpen = true
}

// Finish terminates the progress line and reports the elapsed time
func (p *ProgressPrinter) Finish() {
	if !p.enabled {
		return
	}
	p.breakLine()
	fmt.Fprintf(p.out, "%s\n", Dim(fmt.Sprintf("elapsed: %s", time.Since(p.startTime).Round(time.Second))))
}

func (p *ProgressPrinter) breakLine() {
	if p.lineOpen {
		fmt.Fprintln(p.out)
		p.lineOpen = false
	}
}

func bar(current, total int) string {
	if total <= 0 {
		total = 1
	}
	filled := current * progressWidth / total
	if filled > progressWidth {
		filled = progressWidth
	}
	return strings.Repeat(progressBar, filled) + strings.Repeat(progressEmpty, progressWidth-filled)
}
