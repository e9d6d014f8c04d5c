package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler collects named per-frame timing scopes and counters. The frame
// loop feeds it; log sinks format it. It is single-goroutine by design — only
// the frame loop touches it, never the render workers.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = time.Now()
	found := false
	for _, n := range p.Order {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
	}
}

// SetScope records an externally measured duration, e.g. the dispatcher's
// frame render time.
func (p *Profiler) SetScope(name string, d time.Duration) {
	found := false
	for _, n := range p.Order {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		p.Order = append(p.Order, name)
	}
	p.Scopes[name] = d
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) Reset() {
	// Keep Order, reset times
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		dur := p.Scopes[name]
		ms := float64(dur.Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms\n", name, ms))
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}

	return sb.String()
}
