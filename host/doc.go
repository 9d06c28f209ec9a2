// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package host implements a dynamic request-batching runtime: many concurrent
callers submit single-item prediction requests, the host coalesces them
into batches, invokes a batch-capable predictor once per batch, and routes
results (or a shared batch error) back to each waiting caller.

# Core types

  - Host[I, B, C, R, O] is the engine: I is the per-item argument type, B
    the batched argument type, C the opaque batch context threaded from
    merge to split, R the predictor's batched result type, and O the
    per-item output type.
  - Batcher[I, B, C, R, O] is the user-supplied pair of pure functions that
    merge per-item arguments into a batch and split a batched result back
    apart. IdentityBatcher covers predictors whose predict_batch already
    accepts and returns slices.
  - Handle[O] is the one-shot, cross-goroutine result cell a caller waits
    on; it is created and owned internally by Predict.

# Usage

	predict := func(ctx context.Context, batch []int) ([]int, error) {
	    out := make([]int, len(batch))
	    for i, v := range batch {
	        out[i] = v * 2
	    }
	    return out, nil
	}
	h := host.New[int, []int, struct{}, []int, int](predict, host.IdentityBatcher[int, int]{}, 8)
	if err := h.Start(); err != nil {
	    log.Fatal(err)
	}
	defer h.Stop(context.Background())

	result, err := h.Predict(context.Background(), 21)

A batch contains between 1 and maxBatchSize items — whatever the queue
holds when the worker claims it — never waiting for a full batch under low
load, since that would stall in-flight callers indefinitely.
*/
package host
