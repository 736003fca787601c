package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Resolving...")
	if s.animate {
		t.Fatal("spinner should not animate on a buffer")
	}
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q off a terminal", buf.String())
	}
}

func TestSpinnerAnimates(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Resolving...")
	s.animate = true
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Resolving...") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q should end by clearing the line", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not report cancellation")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "Resolving...")
	s.animate = true
	s.Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, &bytes.Buffer{}, "Resolving...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Resolving...")
	s.animate = true
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Resolving...")
	s.animate = true
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}

func TestSpinnerStopWithStatus(t *testing.T) {
	var out bytes.Buffer
	old := statusOut
	statusOut = &out
	defer func() { statusOut = old }()

	s := newSpinner(context.Background(), &bytes.Buffer{}, "Resolving...")
	s.Start()
	s.StopWithSuccess("Resolved %d packages", 3)
	s.StopWithError("failed")

	got := out.String()
	if !strings.Contains(got, "Resolved 3 packages") || !strings.Contains(got, "failed") {
		t.Errorf("status output = %q", got)
	}
}
