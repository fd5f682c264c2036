package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func stubAfter(t *testing.T, fire bool) *[]time.Duration {
	t.Helper()
	var requested []time.Duration
	original := after
	after = func(d time.Duration) <-chan time.Time {
		requested = append(requested, d)
		ch := make(chan time.Time, 1)
		if fire {
			ch <- time.Time{}
		}
		return ch
	}
	t.Cleanup(func() { after = original })
	return &requested
}

func TestWaitForReturnsAfterDelay(t *testing.T) {
	requested := stubAfter(t, true)

	if err := WaitFor(context.Background(), 500*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*requested) != 1 || (*requested)[0] != 500*time.Millisecond {
		t.Fatalf("expected a single 500ms wait, got %v", *requested)
	}
}

func TestWaitForHonoursCancelledContext(t *testing.T) {
	stubAfter(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForRealTimer(t *testing.T) {
	start := time.Now()
	if err := WaitFor(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("returned after %s, before the delay", elapsed)
	}
}

func TestWaitForZeroDuration(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    time.Duration
		attempt int
		expect  time.Duration
	}{
		{name: "first attempt uses base", base: time.Second, attempt: 0, expect: time.Second},
		{name: "doubles per attempt", base: time.Second, attempt: 2, expect: 4 * time.Second},
		{name: "capped", base: time.Second, attempt: 10, expect: maxBackoff},
		{name: "zero base", base: 0, attempt: 3, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Backoff(tt.base, tt.attempt); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}
