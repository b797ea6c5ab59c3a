package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes a running "processed/total" line while chunks are embedded.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of chunks to process
// reportInterval: report progress every N chunks
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.lastReported = 0
}

// Update sets the current progress to the specified value.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	if current > p.total {
		current = p.total
	}
	p.current = current

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish marks the operation as complete and prints final progress.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
	p.started = false
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProcessed %d/%d chunks (%.1f%%) - %.1f chunks/s",
		p.current, p.total, percentage, rate)
}
