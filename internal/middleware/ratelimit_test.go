package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// newTestLimiter returns a limiter driven by the returned clock
func newTestLimiter(t *testing.T, cfg RateLimitConfig) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	if rl.rate != 100 || rl.window != time.Minute || rl.burst != 0 || rl.cleanup != 5*time.Minute {
		t.Errorf("unexpected defaults: rate=%d window=%s burst=%d cleanup=%s", rl.rate, rl.window, rl.burst, rl.cleanup)
	}
	rl.Stop() // idempotent
}

func TestAllow_CapacityIsRatePlusBurst(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 3, Window: time.Minute, Burst: 2})

	for i := 0; i < 5; i++ {
		allowed, remaining, _ := rl.Allow("player-1")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if remaining != 4-i {
			t.Errorf("request %d: expected %d remaining, got %d", i+1, 4-i, remaining)
		}
	}
	if allowed, _, _ := rl.Allow("player-1"); allowed {
		t.Error("sixth request should be denied")
	}
	if allowed, _, _ := rl.Allow("player-2"); !allowed {
		t.Error("other keys have their own bucket")
	}
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()

	rl, now := newTestLimiter(t, RateLimitConfig{Rate: 6, Window: time.Minute, Burst: 0})

	for i := 0; i < 6; i++ {
		rl.Allow("k")
	}
	if allowed, _, _ := rl.Allow("k"); allowed {
		t.Fatal("bucket should be empty")
	}

	// one token every 10s
	*now = now.Add(10 * time.Second)
	if allowed, _, _ := rl.Allow("k"); !allowed {
		t.Error("expected one token after 10s")
	}
	if allowed, _, _ := rl.Allow("k"); allowed {
		t.Error("expected only one token after 10s")
	}

	*now = now.Add(time.Hour)
	_, remaining, reset := rl.Allow("k")
	if remaining != 5 {
		t.Errorf("expected refill capped at capacity, got %d remaining", remaining)
	}
	if want := now.Add(10 * time.Second); !reset.Equal(want) {
		t.Errorf("expected reset %s, got %s", want, reset)
	}
}

func TestSweep_DropsIdleBuckets(t *testing.T) {
	t.Parallel()

	rl, now := newTestLimiter(t, RateLimitConfig{Rate: 10, Window: time.Minute})
	rl.Allow("old")
	*now = now.Add(90 * time.Second)
	rl.Allow("fresh")
	*now = now.Add(45 * time.Second)

	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["old"]; ok {
		t.Error("expected idle bucket to be removed")
	}
	if _, ok := rl.buckets["fresh"]; !ok {
		t.Error("expected fresh bucket to be kept")
	}
}

func TestAllow_Concurrent(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 50, Window: time.Minute})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := rl.Allow("shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly 50 allowed, got %d", allowed)
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 1, Window: time.Minute})
	h := RateLimit(rl)(&captureHandler{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithOwnerID(req.Context(), "player-1"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected first request through, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") != "1" || rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("unexpected headers: %v", rr.Header())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", rr.Header().Get("Retry-After"))
	}

	// a different client address without an owner is limited separately
	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.RemoteAddr = "10.0.0.9:5555"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, anon)
	if rr.Code != http.StatusOK {
		t.Errorf("expected anonymous client through, got %d", rr.Code)
	}
}
