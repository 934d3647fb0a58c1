package debug

import (
	"fmt"
	"sync"
	"time"
)

// RenderProfiler tracks how long render callbacks take relative to their
// real-time deadline. A 64 frame block at 48 kHz gives 1.33 ms per call;
// load is measured against that budget.
type RenderProfiler struct {
	mu       sync.Mutex
	budget   time.Duration
	count    uint64
	total    time.Duration
	min      time.Duration
	max      time.Duration
	last     time.Duration
	overruns uint64
}

// NewRenderProfiler creates a profiler for the given block size and sample
// rate.
func NewRenderProfiler(sampleRate float64, blockSize int) *RenderProfiler {
	return &RenderProfiler{
		budget: time.Duration(float64(blockSize) / sampleRate * float64(time.Second)),
	}
}

// Measure times one render call. Use as: defer p.Measure()().
func (p *RenderProfiler) Measure() func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		p.mu.Lock()
		p.count++
		p.total += elapsed
		p.last = elapsed
		if p.min == 0 || elapsed < p.min {
			p.min = elapsed
		}
		if elapsed > p.max {
			p.max = elapsed
		}
		if elapsed > p.budget {
			p.overruns++
		}
		p.mu.Unlock()
	}
}

// Load returns the average render time as a fraction of the real-time
// budget. Values above 1.0 mean the engine cannot keep up.
func (p *RenderProfiler) Load() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count == 0 || p.budget == 0 {
		return 0
	}
	avg := p.total / time.Duration(p.count)
	return float64(avg) / float64(p.budget)
}

// Overruns returns how many render calls missed the deadline.
func (p *RenderProfiler) Overruns() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overruns
}

// Reset clears all measurements.
func (p *RenderProfiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count = 0
	p.total = 0
	p.min = 0
	p.max = 0
	p.last = 0
	p.overruns = 0
}

// Report formats a one-line summary.
func (p *RenderProfiler) Report() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count == 0 {
		return "no render calls measured"
	}
	avg := p.total / time.Duration(p.count)
	return fmt.Sprintf("renders=%d avg=%v min=%v max=%v load=%.1f%% overruns=%d",
		p.count, avg, p.min, p.max,
		float64(avg)/float64(p.budget)*100, p.overruns)
}
