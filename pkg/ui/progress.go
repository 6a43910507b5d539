package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"instaviewer/internal/downloader"
)

const (
	progressFilled = "━"
	progressEmpty  = "─"
	progressWidth  = 20
)

// ProgressDisplay renders a single updating line while a tab downloads
type ProgressDisplay struct {
	mu         sync.Mutex
	out        io.Writer
	label      string
	total      int
	done       int
	skipped    int
	failed     int
	bytes      int64
	startTime  time.Time
	verbose    bool
	lastLength int
}

// NewProgressDisplay creates a display for total items. In verbose mode
// every result gets its own line instead.
func NewProgressDisplay(out io.Writer, label string, total int, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:       out,
		label:     label,
		total:     total,
		startTime: time.Now(),
		verbose:   verbose,
	}
}

// Update records r and redraws
func (p *ProgressDisplay) Update(r downloader.DownloadResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	switch {
	case r.Error != nil:
		p.failed++
	case r.Skipped:
		p.skipped++
	default:
		p.bytes += r.Size
	}

	if p.verbose {
		p.printResult(r)
		return
	}
	p.printLine()
}

// Finish ends the progress line
func (p *ProgressDisplay) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.verbose {
		fmt.Fprintln(p.out)
	}
}

// Line returns the current progress line without colours
func (p *ProgressDisplay) Line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line(func(s string) string { return s })
}

func (p *ProgressDisplay) line(errColor func(string) string) string {
	ratio := 1.0
	if p.total > 0 {
		ratio = float64(p.done) / float64(p.total)
	}
	filled := int(ratio * progressWidth)
	if filled > progressWidth {
		filled = progressWidth
	}
	bar := strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, progressWidth-filled)

	line := fmt.Sprintf("%s [%s] %d/%d • %s", p.label, bar, p.done, p.total, humanize.Bytes(uint64(p.bytes)))
	if p.skipped > 0 {
		line += fmt.Sprintf(" • %d skipped", p.skipped)
	}
	if p.failed > 0 {
		line += " • " + errColor(fmt.Sprintf("%d errors", p.failed))
	}
	return line
}

func (p *ProgressDisplay) printLine() {
	line := p.line(Red)
	pad := ""
	if n := p.lastLength - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	p.lastLength = len(line)
	fmt.Fprintf(p.out, "\r%s%s", line, pad)
}

func (p *ProgressDisplay) printResult(r downloader.DownloadResult) {
	switch {
	case r.Error != nil:
		fmt.Fprintf(p.out, "%s %s • %v\n", Red("✗"), r.Job.Filename, r.Error)
	case r.Skipped:
		fmt.Fprintf(p.out, "%s %s • already saved\n", Dim("•"), r.Job.Filename)
	default:
		fmt.Fprintf(p.out, "%s %s • %s • %s\n", Green("✓"), r.Path, humanize.Bytes(uint64(r.Size)), r.Duration.Round(time.Millisecond))
	}
}

// Elapsed returns the time since the display was created
func (p *ProgressDisplay) Elapsed() time.Duration {
	return time.Since(p.startTime)
}
