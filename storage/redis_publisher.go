package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"emlak-scraper/models"
)

// RedisPublisher pushes each listing as JSON onto a Redis stream so that
// downstream consumers can pick up new listings as runs finish.
type RedisPublisher struct {
	client    *redis.Client
	stream    string
	maxLength int64
	runID     string
}

var _ ListingWriter = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new Redis stream publisher and checks the
// connection.
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, maxLength int, runID string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}

	return &RedisPublisher{
		client:    client,
		stream:    stream,
		maxLength: int64(maxLength),
		runID:     runID,
	}, nil
}

// Write adds one stream entry per listing, in order, trimming the stream to
// its configured maximum length.
func (p *RedisPublisher) Write(ctx context.Context, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, l := range listings {
		args, err := p.entry(l)
		if err != nil {
			return err
		}
		pipe.XAdd(ctx, args)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: publish %d listings: %w", len(listings), err)
	}
	return nil
}

func (p *RedisPublisher) entry(l *models.Listing) (*redis.XAddArgs, error) {
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("redis: encode listing %s: %w", l.URL, err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"url":     l.URL,
			"run_id":  p.runID,
			"listing": string(payload),
		},
	}
	if p.maxLength > 0 {
		args.MaxLen = p.maxLength
		args.Approx = true
	}
	return args, nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
