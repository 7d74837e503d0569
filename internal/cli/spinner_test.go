package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinner_StartStop(t *testing.T) {
	s := newSpinner("ranking nodes...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "computing betweenness...")
	s.Start()
	cancel()

	// Give the goroutine time to notice.
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context cancellation")
	}
}

func TestSpinner_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "decoding snapshot...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context timeout")
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := newSpinner("ranking nodes...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinner_StopWithStatus(t *testing.T) {
	s := newSpinner("ranking nodes...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("ranked 4 nodes")

	s = newSpinner("ranking nodes...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("decode failed")
}
