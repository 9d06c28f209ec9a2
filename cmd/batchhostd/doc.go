// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Command batchhostd runs a model-agnostic batching daemon: it accepts
// opaque per-item byte payloads over gRPC or HTTP, coalesces concurrently
// pending requests, and forwards each resulting batch to an HTTP model
// backend in one call.
//
// Usage:
//
//	batchhostd serve                       # start the daemon
//	batchhostd serve --config config.yaml  # specify a config file
//	batchhostd version                     # show version information
//	batchhostd health                      # check daemon health
package main
