package fleet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Subscriber receives Snapshot messages published by Publisher instances
// across a fleet of host processes. Typical users are a dashboard
// aggregator or a test harness; the batching path never depends on it.
type Subscriber struct {
	client *redis.Client
	pubsub *redis.PubSub
}

// NewSubscriber connects to addr and subscribes to channel.
func NewSubscriber(addr, password string, db int, channel string) (*Subscriber, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("fleet: connect to redis: %w", err)
	}

	return &Subscriber{
		client: client,
		pubsub: client.Subscribe(context.Background(), channel),
	}, nil
}

// Snapshots returns a channel of decoded Snapshot messages. Malformed
// payloads are dropped silently — a stray publisher speaking a different
// schema must not crash every subscriber on the channel.
func (s *Subscriber) Snapshots(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot)
	msgs := s.pubsub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var snap Snapshot
				if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// Close unsubscribes and closes the underlying Redis connection.
func (s *Subscriber) Close() error {
	_ = s.pubsub.Close()
	return s.client.Close()
}
