package sitemaps

import (
	"testing"
	"time"
)

func newTestLimiter(max int, window time.Duration, clock *time.Time) *LoginLimiter {
	l := NewLoginLimiter(max, window)
	l.now = func() time.Time { return *clock }
	return l
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	now := time.Now()
	limiter := newTestLimiter(2, time.Minute, &now)
	defer limiter.Stop()
	ip := "203.0.113.10"

	for i := 0; i < 2; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
		limiter.Record(ip)
	}
	if limiter.Check(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterCheckDoesNotCount(t *testing.T) {
	now := time.Now()
	limiter := newTestLimiter(1, time.Minute, &now)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if !limiter.Check("203.0.113.11") {
			t.Fatalf("Check alone must not use up attempts (call %d)", i+1)
		}
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	now := time.Now()
	limiter := newTestLimiter(1, time.Minute, &now)
	defer limiter.Stop()
	ip := "203.0.113.20"

	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Check(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	now := time.Now()
	limiter := newTestLimiter(1, time.Minute, &now)
	defer limiter.Stop()

	limiter.Record("203.0.113.30")
	if !limiter.Check("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Check("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestLoginLimiterStopIsIdempotent(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Millisecond)
	limiter.Stop()
	limiter.Stop()
}
