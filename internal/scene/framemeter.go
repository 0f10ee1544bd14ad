package scene

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// frameWindow is the number of frame intervals averaged.
const frameWindow = 10

// FrameMeter measures the redraw rate over the last few frames.
type FrameMeter struct {
	last      time.Time
	intervals []float64 // seconds, oldest first
}

func NewFrameMeter() *FrameMeter {
	return &FrameMeter{intervals: make([]float64, 0, frameWindow)}
}

// Frame records a frame drawn at now.
func (m *FrameMeter) Frame(now time.Time) {
	if !m.last.IsZero() {
		dt := now.Sub(m.last).Seconds()
		if dt > 0 {
			if len(m.intervals) == frameWindow {
				m.intervals = append(m.intervals[:0], m.intervals[1:]...)
			}
			m.intervals = append(m.intervals, dt)
		}
	}
	m.last = now
}

// FPS returns frames per second, or 0 before two frames were seen.
func (m *FrameMeter) FPS() float64 {
	if len(m.intervals) == 0 {
		return 0
	}
	mean := stat.Mean(m.intervals, nil)
	if mean <= 0 {
		return 0
	}
	return 1 / mean
}

// Reset forgets all frames, so a paused period does not count.
func (m *FrameMeter) Reset() {
	m.last = time.Time{}
	m.intervals = m.intervals[:0]
}
