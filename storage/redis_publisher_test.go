package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emlak-scraper/models"
)

func TestRedisEntry(t *testing.T) {
	p := &RedisPublisher{stream: "emlak:listings", maxLength: 100, runID: "run-1"}

	args, err := p.entry(testListing("1"))
	require.NoError(t, err)

	assert.Equal(t, "emlak:listings", args.Stream)
	assert.Equal(t, int64(100), args.MaxLen)
	assert.True(t, args.Approx)

	values := args.Values.(map[string]interface{})
	assert.Equal(t, "https://emlak.test/ilan/1", values["url"])
	assert.Equal(t, "run-1", values["run_id"])

	var decoded models.Listing
	require.NoError(t, json.Unmarshal([]byte(values["listing"].(string)), &decoded))
	assert.Equal(t, "1", decoded.Name)
}

func TestRedisEntryUnbounded(t *testing.T) {
	p := &RedisPublisher{stream: "s"}

	args, err := p.entry(testListing("1"))
	require.NoError(t, err)

	assert.Zero(t, args.MaxLen)
	assert.False(t, args.Approx)
}

// This test requires a running Redis instance on localhost:6379.
// If Redis is not available, the test will be skipped.
func TestRedisPublisherWrite(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream := "emlak_test:" + uuid.NewString()
	p, err := NewRedisPublisher(ctx, "localhost:6379", 0, stream, 0, "run-1")
	if err != nil {
		t.Skip("Redis is not available, skipping test")
	}
	defer p.Close()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	defer client.Del(context.Background(), stream)

	require.NoError(t, p.Write(ctx, []*models.Listing{testListing("1"), testListing("2")}))

	msgs, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "https://emlak.test/ilan/1", msgs[0].Values["url"])
	assert.Equal(t, "https://emlak.test/ilan/2", msgs[1].Values["url"])
}
