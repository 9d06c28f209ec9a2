// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package ratelimit

import "context"

// Guard wraps predict with admission limiting: it blocks on Wait before
// forwarding the call, failing fast with ctx's error if the caller gives
// up first. predict is typically (*host.Host[I,B,C,R,O]).Predict.
func Guard[I, O any](lim *Limiter, predict func(ctx context.Context, args I) (O, error)) func(ctx context.Context, args I) (O, error) {
	return func(ctx context.Context, args I) (O, error) {
		var zero O
		if err := lim.Wait(ctx); err != nil {
			return zero, err
		}
		return predict(ctx, args)
	}
}
