// Package ratelimit provides the token-bucket admission control shared
// by the collaborator clients.
//
// The search endpoint allows 30 requests per minute per account, so
// the default limiter is process-wide: every search client in the
// process shares it unless a caller injects its own.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute is the shared search-endpoint budget.
const DefaultRequestsPerMinute = 30

// Limiter is the admission-control contract collaborator clients
// depend on. Wait blocks until the caller may send one request, or
// until the context is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// TokenBucket is a Limiter backed by golang.org/x/time/rate.
type TokenBucket struct {
	limiter *rate.Limiter
}

// Verify interface compliance at compile time.
var _ Limiter = (*TokenBucket)(nil)

// NewTokenBucket creates a limiter admitting perMinute requests per
// minute, one at a time.
func NewTokenBucket(perMinute int) *TokenBucket {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}

	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// Wait blocks until a token is available or ctx is done.
func (t *TokenBucket) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

var (
	defaultOnce    sync.Once
	defaultLimiter *TokenBucket
)

// Default returns the process-wide shared limiter, created on first
// use with the default budget.
func Default() *TokenBucket {
	defaultOnce.Do(func() {
		defaultLimiter = NewTokenBucket(DefaultRequestsPerMinute)
	})

	return defaultLimiter
}
