// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package livestats streams host.Stats snapshots to connected browsers
// over a plain WebSocket, for dashboards that want to watch queue depth
// and throughput move in real time without polling.
package livestats

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/batchhost/batchhost/host"
)

// Hub serves /ws/stats, pushing a Stats() snapshot to every connected
// client on a fixed interval until the client disconnects.
type Hub struct {
	stats    func() host.Stats
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	clients int
}

// NewHub builds a Hub that samples statsFn every interval.
func NewHub(statsFn func() host.Stats, interval time.Duration, logger *zap.Logger) *Hub {
	if interval <= 0 {
		interval = time.Second
	}
	return &Hub{stats: statsFn, interval: interval, logger: logger}
}

// ServeHTTP upgrades the connection and streams snapshots until the
// client disconnects or the request context is cancelled.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	h.mu.Lock()
	h.clients++
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.clients--
		h.mu.Unlock()
	}()

	ctx := r.Context()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "done")
			return
		case <-ticker.C:
			if err := h.writeSnapshot(ctx, conn); err != nil {
				h.logger.Debug("websocket write failed, closing", zap.Error(err))
				_ = conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

func (h *Hub) writeSnapshot(ctx context.Context, conn *websocket.Conn) error {
	payload, err := json.Marshal(h.stats())
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, payload)
}

// Clients reports the number of currently connected WebSocket clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}
