package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(time.Second, 3)

	// First 3 requests should succeed
	for i := 0; i < 3; i++ {
		if !limiter.Allow("test-key") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 4th request should be blocked
	if limiter.Allow("test-key") {
		t.Error("4th request should be blocked")
	}

	// Wait for window to expire
	time.Sleep(1100 * time.Millisecond)

	// Should be allowed again
	if !limiter.Allow("test-key") {
		t.Error("Request after window expiry should be allowed")
	}
}

func TestLimiter_GetRemaining(t *testing.T) {
	limiter := NewLimiter(time.Second, 5)

	if remaining := limiter.GetRemaining("test-key"); remaining != 5 {
		t.Errorf("Expected 5 remaining, got %d", remaining)
	}

	limiter.Allow("test-key")
	limiter.Allow("test-key")

	if remaining := limiter.GetRemaining("test-key"); remaining != 3 {
		t.Errorf("Expected 3 remaining, got %d", remaining)
	}
}

func TestReportLimiter_CheckActor(t *testing.T) {
	limiter := NewReportLimiter(time.Hour, 2)

	if err := limiter.CheckActor("admin@agrimarket.test"); err != nil {
		t.Errorf("First report should succeed: %v", err)
	}
	if err := limiter.CheckActor("admin@agrimarket.test"); err != nil {
		t.Errorf("Second report should succeed: %v", err)
	}

	// 3rd report from same actor should fail
	if err := limiter.CheckActor("admin@agrimarket.test"); err == nil {
		t.Error("3rd report from same actor should be blocked")
	}

	// Report from a different actor should succeed
	if err := limiter.CheckActor("other@agrimarket.test"); err != nil {
		t.Errorf("Report from different actor should succeed: %v", err)
	}
}

func TestReportLimiter_Remaining(t *testing.T) {
	limiter := NewReportLimiter(time.Hour, 5)

	_ = limiter.CheckActor("admin@agrimarket.test")
	_ = limiter.CheckActor("admin@agrimarket.test")

	if remaining := limiter.Remaining("admin@agrimarket.test"); remaining != 3 {
		t.Errorf("Expected 3 remaining, got %d", remaining)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter := NewLimiter(100*time.Millisecond, 5)

	// Create some entries
	limiter.Allow("key1")
	limiter.Allow("key2")
	limiter.Allow("key3")

	// Wait for expiration + cleanup cycle (cleanup runs every minute, so we test expiration instead)
	time.Sleep(150 * time.Millisecond)

	// After expiration, new requests should be allowed (proving cleanup works)
	if !limiter.Allow("key1") {
		t.Error("Request should be allowed after expiration")
	}
	if !limiter.Allow("key2") {
		t.Error("Request should be allowed after expiration")
	}
	if !limiter.Allow("key3") {
		t.Error("Request should be allowed after expiration")
	}
}
