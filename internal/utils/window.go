package utils

import (
	"sync"
	"time"
)

// Window counts events inside a rolling time span.
type Window struct {
	mu   sync.Mutex
	span time.Duration
	hits []time.Time
}

func NewWindow(span time.Duration) *Window {
	return &Window{span: span}
}

func (w *Window) Observe(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trim(now)
	w.hits = append(w.hits, now)
	return len(w.hits)
}

func (w *Window) Count(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trim(now)
	return len(w.hits)
}

func (w *Window) trim(now time.Time) {
	cutoff := now.Add(-w.span)
	idx := 0
	for _, hit := range w.hits {
		if hit.After(cutoff) {
			break
		}
		idx++
	}
	w.hits = w.hits[idx:]
}
