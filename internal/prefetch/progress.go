package prefetch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress tracks a prefetch run. It is safe for concurrent use.
type Progress struct {
	mu sync.RWMutex

	total        int
	fetched      int
	failed       int
	skipped      int
	discarded    int
	totalBatches int
	doneBatches  int
	start        time.Time
	last         time.Time
}

// NewProgress creates a tracker for total entries in totalBatches batches.
func NewProgress(total, totalBatches int) *Progress {
	now := time.Now()
	return &Progress{total: total, totalBatches: totalBatches, start: now, last: now}
}

func (p *Progress) addFetched() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetched++
	p.last = time.Now()
}

func (p *Progress) addFailed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
	p.last = time.Now()
}

func (p *Progress) addSkipped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skipped++
}

func (p *Progress) addDiscarded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discarded++
	p.last = time.Now()
}

func (p *Progress) batchDone() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doneBatches++
}

// Snapshot returns a copy of the current counters.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	done := p.fetched + p.failed + p.skipped + p.discarded
	var pct float64
	if p.total > 0 {
		pct = float64(done) / float64(p.total) * percentMultiplier
	}
	return Snapshot{
		Total:            p.total,
		Fetched:          p.fetched,
		Failed:           p.failed,
		Skipped:          p.skipped,
		Discarded:        p.discarded,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.doneBatches,
		PercentComplete:  pct,
		Elapsed:          p.last.Sub(p.start),
	}
}

// Snapshot is an immutable view of a Progress.
type Snapshot struct {
	Total            int
	Fetched          int
	Failed           int
	Skipped          int
	Discarded        int
	TotalBatches     int
	ProcessedBatches int
	PercentComplete  float64
	Elapsed          time.Duration
}

// Done returns the number of entries handled in any way.
func (s Snapshot) Done() int {
	return s.Fetched + s.Failed + s.Skipped + s.Discarded
}

// IsComplete reports whether every entry has been handled.
func (s Snapshot) IsComplete() bool {
	return s.Done() >= s.Total
}

// Fraction returns progress in [0, 1].
func (s Snapshot) Fraction() float64 {
	return s.PercentComplete / percentMultiplier
}
