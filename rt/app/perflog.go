package app

import (
	"fmt"
	"os"
	"time"
)

// PerfLog writes one CSV row per frame: Frame,FPS,RenderTimeMs. A nil PerfLog
// is a valid no-op, so the frame loop never branches on whether logging is
// enabled.
type PerfLog struct {
	f     *os.File
	frame int
}

func NewPerfLog(path string) (*PerfLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create perf log: %w", err)
	}
	if _, err := fmt.Fprintln(f, "Frame,FPS,RenderTimeMs"); err != nil {
		f.Close()
		return nil, err
	}
	return &PerfLog{f: f}, nil
}

func (p *PerfLog) Record(fps float64, renderTime time.Duration) {
	if p == nil {
		return
	}
	fmt.Fprintf(p.f, "%d,%.0f,%d\n", p.frame, fps, renderTime.Milliseconds())
	p.frame++
}

func (p *PerfLog) Close() error {
	if p == nil {
		return nil
	}
	return p.f.Close()
}
