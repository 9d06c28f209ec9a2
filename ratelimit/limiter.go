// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package ratelimit guards the predict entry point with an optional
// token-bucket admission limiter. Unlike an HTTP-facing per-IP limiter,
// batching has no per-caller identity by the time a request reaches the
// host, so a single shared bucket throttles total admission instead of
// any one caller.
package ratelimit

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"github.com/batchhost/batchhost/config"
)

// ErrRejected describes a request refused because the bucket has no tokens
// left. Neither Allow (which reports that case as false) nor Wait returns it.
var ErrRejected = errors.New("ratelimit: request rejected, bucket exhausted")

// Limiter wraps a token bucket. A nil *Limiter is valid and admits every
// request, so callers can embed it unconditionally when disabled.
type Limiter struct {
	bucket *rate.Limiter
}

// New builds a Limiter from cfg. It returns nil when cfg.Enabled is
// false, signalling "no limiting" to callers.
func New(cfg config.RateLimitConfig) *Limiter {
	if !cfg.Enabled {
		return nil
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)}
}

// Allow reports whether a request may proceed immediately without
// consuming a wait. A nil Limiter always allows.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.bucket.Allow()
}

// Wait blocks until a token is available or ctx is done. A nil Limiter
// returns immediately.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.bucket.Wait(ctx)
}
