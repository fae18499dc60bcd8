package utils

import (
	"testing"
	"time"
)

func TestWindowExpiry(t *testing.T) {
	w := NewWindow(5 * time.Second)
	base := time.Unix(0, 0)

	if got := w.Observe(base); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := w.Observe(base.Add(2 * time.Second)); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := w.Count(base.Add(10 * time.Second)); got != 0 {
		t.Fatalf("expected 0 after expiry, got %d", got)
	}
}
