package livestats

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/batchhost/batchhost/host"
)

func TestHub_StreamsSnapshots(t *testing.T) {
	statsFn := func() host.Stats {
		return host.Stats{Submitted: 5, Batched: 2, Completed: 4, Failed: 0, Queued: 1}
	}
	hub := NewHub(statsFn, 10*time.Millisecond, zaptest.NewLogger(t))

	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "test done")

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var got host.Stats
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, int64(5), got.Submitted)
	assert.Equal(t, 1, got.Queued)
}

func TestHub_TracksClientCount(t *testing.T) {
	statsFn := func() host.Stats { return host.Stats{} }
	hub := NewHub(statsFn, 50*time.Millisecond, zaptest.NewLogger(t))

	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close(websocket.StatusNormalClosure, "done")
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}
