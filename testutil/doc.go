// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil provides shared test helpers used across the batchhost
test suites, so individual packages don't reimplement the same scaffolding.

# Core helpers

  - Context helpers: TestContext / TestContextWithTimeout / CancelledContext,
    registering Cleanup automatically so contexts never leak past a test.
  - Assertions: AssertJSONEqual / AssertNoError / AssertError.
  - Async assertions: AssertEventuallyTrue / AssertEventuallyEqual, polling
    with a timeout for conditions settled on another goroutine — the shape
    most host and queue tests need.
  - Data helpers: MustJSON / MustParseJSON.
  - Benchmark helper: BenchmarkHelper wraps common testing.B bookkeeping.
*/
package testutil
