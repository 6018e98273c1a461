package chat

import (
	"testing"
	"time"
)

// TestReaperStartStop verifies the reaper's lifecycle: it starts, runs in the
// background, and Stop returns promptly.
func TestReaperStartStop(t *testing.T) {
	reaper := NewReaper(NewStore(10), 30*time.Minute)

	reaper.Start()

	done := make(chan struct{})
	go func() {
		reaper.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Reaper.Stop did not return")
	}
}

// TestReaperDisabled verifies that a zero TTL disables the sweep loop and
// Stop remains safe to call.
func TestReaperDisabled(t *testing.T) {
	reaper := NewReaper(NewStore(10), 0)

	reaper.Start()
	reaper.Stop()
	reaper.Stop()
}
