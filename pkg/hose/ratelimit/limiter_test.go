package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestFirstRequestIsAdmittedImmediately(t *testing.T) {
	limiter := NewTokenBucket(30)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first request should not block: %v", err)
	}
}

func TestSecondRequestBlocksUntilRefill(t *testing.T) {
	limiter := NewTokenBucket(30) // one token every 2s

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("second request admitted before the bucket refilled")
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	limiter := NewTokenBucket(1) // one token per minute

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected an error from the cancelled context")
	}
}

func TestNonPositiveBudgetFallsBackToDefault(t *testing.T) {
	limiter := NewTokenBucket(0)
	if limiter == nil {
		t.Fatal("expected a usable limiter")
	}

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}
}

func TestDefaultIsSharedProcessWide(t *testing.T) {
	if Default() != Default() {
		t.Error("expected one shared limiter instance")
	}
}
