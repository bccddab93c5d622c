package ratelimit

import (
	"errors"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewWithClock(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if err := l.Allow("1.2.3.4"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}
}

func TestFourthRequestRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewWithClock(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if err := l.Allow("1.2.3.4"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}
	if err := l.Allow("1.2.3.4"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	// Subsequent attempts stay rejected inside the same window.
	if err := l.Allow("1.2.3.4"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited on 5th attempt, got %v", err)
	}
}

func TestWindowResetsAfterExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewWithClock(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 4; i++ {
		l.Allow("1.2.3.4")
	}
	if err := l.Allow("1.2.3.4"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// Exactly at expiry the window has not yet reset.
	now = now.Add(time.Minute)
	if err := l.Allow("1.2.3.4"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited at window boundary, got %v", err)
	}

	// One tick past expiry opens a fresh window.
	now = now.Add(time.Nanosecond)
	if err := l.Allow("1.2.3.4"); err != nil {
		t.Fatalf("expected fresh window, got %v", err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewWithClock(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 4; i++ {
		l.Allow("1.2.3.4")
	}
	if err := l.Allow("5.6.7.8"); err != nil {
		t.Fatalf("other key should not be limited: %v", err)
	}
}

func TestRejectedAttemptCountsTowardWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewWithClock(1, time.Minute, func() time.Time { return now })

	if err := l.Allow("k"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := l.Allow("k"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	// The rejected attempt bumped the counter; still limited.
	if err := l.Allow("k"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}
