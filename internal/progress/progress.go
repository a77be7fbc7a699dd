package progress

import (
	"sync"
	"time"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseCounting Phase = "counting"
	PhaseHashing  Phase = "hashing"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress is a snapshot of scan progress
type ScanProgress struct {
	Phase       Phase
	CurrentPath string
	FilesHashed int
	FilesTotal  int // 0 until the counting pass finishes
	BytesHashed int64
	Skipped     int
	StartTime   time.Time
	Error       error
}

// ProgressReporter provides thread-safe progress reporting with fan-out to
// any number of listeners. Sends never block: a listener that falls behind
// misses intermediate snapshots, not the stream.
type ProgressReporter struct {
	mu        sync.RWMutex
	last      ScanProgress
	listeners []chan ScanProgress
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{}
}

// Update records a new snapshot and fans it out to listeners
func (p *ProgressReporter) Update(sp ScanProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = sp
	for _, ch := range p.listeners {
		select {
		case ch <- sp:
		default:
		}
	}
}

// Subscribe registers a listener channel for progress snapshots
func (p *ProgressReporter) Subscribe() <-chan ScanProgress {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan ScanProgress, 16)
	p.listeners = append(p.listeners, ch)
	return ch
}

// Last returns the most recent snapshot
func (p *ProgressReporter) Last() ScanProgress {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Close closes all listener channels. Call only after the final Update.
func (p *ProgressReporter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.listeners {
		close(ch)
	}
	p.listeners = nil
}
