package fleet

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/batchhost/batchhost/config"
	"github.com/batchhost/batchhost/host"
)

func TestPublisher_PublishesSnapshots(t *testing.T) {
	mr := miniredis.RunT(t)

	sub, err := NewSubscriber(mr.Addr(), "", 0, "batchhost:stats")
	require.NoError(t, err)
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snapshots := sub.Snapshots(ctx)

	// give the subscriber goroutine time to register before publishing
	time.Sleep(50 * time.Millisecond)

	cfg := config.RedisConfig{
		Addr:         mr.Addr(),
		Channel:      "batchhost:stats",
		PublishEvery: 20 * time.Millisecond,
	}

	pub, err := NewPublisher(cfg, "host-1", func() host.Stats {
		return host.Stats{Submitted: 10, Batched: 3, Completed: 9, Failed: 1}
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer pub.Stop()

	pub.Start(context.Background())

	select {
	case snap := <-snapshots:
		assert.Equal(t, "host-1", snap.HostID)
		assert.Equal(t, int64(10), snap.Stats.Submitted)
	case <-ctx.Done():
		t.Fatal("timed out waiting for published snapshot")
	}
}

func TestPublisher_StartTwice_Panics(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.RedisConfig{Addr: mr.Addr(), Channel: "x", PublishEvery: time.Second}
	pub, err := NewPublisher(cfg, "host-1", func() host.Stats { return host.Stats{} }, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer pub.Stop()

	pub.Start(context.Background())
	assert.Panics(t, func() { pub.Start(context.Background()) })
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	snap := Snapshot{
		HostID:    "host-1",
		Stats:     host.Stats{Submitted: 5},
		Timestamp: time.Now().Truncate(time.Second),
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snap.HostID, decoded.HostID)
	assert.Equal(t, snap.Stats, decoded.Stats)
}
