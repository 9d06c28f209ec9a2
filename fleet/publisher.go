// Package fleet publishes periodic Stats snapshots from a single batching
// host process to a Redis pub/sub channel, so a fleet of independently
// batching hosts can be observed from one dashboard. No work ever crosses
// a process boundary here — only metrics — so this is not a form of
// cross-process batching.
package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/batchhost/batchhost/config"
	"github.com/batchhost/batchhost/host"
)

// Snapshot is the payload published to the fleet stats channel, one
// message per publish tick.
type Snapshot struct {
	HostID    string     `json:"host_id"`
	Stats     host.Stats `json:"stats"`
	Timestamp time.Time  `json:"timestamp"`
}

// Publisher periodically samples a Stats source and publishes it to Redis.
type Publisher struct {
	client  *redis.Client
	channel string
	hostID  string
	every   time.Duration
	sample  func() host.Stats
	logger  *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPublisher connects to cfg.Addr and returns a Publisher that, once
// Start is called, samples fn every cfg.PublishEvery and publishes the
// result on cfg.Channel tagged with hostID.
func NewPublisher(cfg config.RedisConfig, hostID string, fn func() host.Stats, logger *zap.Logger) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("fleet: connect to redis: %w", err)
	}

	every := cfg.PublishEvery
	if every <= 0 {
		every = 5 * time.Second
	}

	return &Publisher{
		client:  client,
		channel: cfg.Channel,
		hostID:  hostID,
		every:   every,
		sample:  fn,
		logger:  logger.With(zap.String("component", "fleet_publisher")),
	}, nil
}

// Start begins the publish loop in a background goroutine. Calling Start
// a second time panics, whether or not Stop ran in between: Stop does not
// reset the publisher and closes its Redis client, so a Publisher is
// single-use.
func (p *Publisher) Start(ctx context.Context) {
	if p.cancel != nil {
		panic("fleet: publisher already started")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(loopCtx)
}

func (p *Publisher) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.publishOnce(ctx)
		}
	}
}

func (p *Publisher) publishOnce(ctx context.Context) {
	snap := Snapshot{
		HostID:    p.hostID,
		Stats:     p.sample(),
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		p.logger.Warn("fleet: marshal snapshot failed", zap.Error(err))
		return
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("fleet: publish failed", zap.Error(err))
	}
}

// Stop halts the publish loop and waits for it to exit, then closes the
// Redis client.
func (p *Publisher) Stop() error {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
	return p.client.Close()
}
