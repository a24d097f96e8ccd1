package stats

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRecorder aggregates lookup events into Redis: a running totals
// hash per outcome, per-minute buckets that expire after the configured
// retention, and optionally a per-address counter hash.
type RedisRecorder struct {
	client         *redis.Client
	prefix         string
	ttl            time.Duration
	trackAddresses bool
}

// RedisOptions configures a RedisRecorder.
type RedisOptions struct {
	Addr           string
	Password       string
	DB             int
	Prefix         string
	TTL            time.Duration
	TrackAddresses bool
}

// NewRedisRecorder connects a recorder to the given Redis instance.
func NewRedisRecorder(opts RedisOptions) *RedisRecorder {
	return &RedisRecorder{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		prefix:         opts.Prefix,
		ttl:            opts.TTL,
		trackAddresses: opts.TrackAddresses,
	}
}

// Record implements Recorder. All writes for one event share a single
// pipeline round trip.
func (r *RedisRecorder) Record(ctx context.Context, ev Event) error {
	bucket := bucketKey(r.prefix, ev.At)

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, r.prefix+":totals", ev.Outcome, 1)
	pipe.HIncrBy(ctx, bucket, ev.Outcome, 1)
	if ev.CacheHit {
		pipe.HIncrBy(ctx, r.prefix+":totals", "cache_hit", 1)
		pipe.HIncrBy(ctx, bucket, "cache_hit", 1)
	}
	if r.trackAddresses && ev.Address != "" {
		pipe.HIncrBy(ctx, r.prefix+":addresses", ev.Address, 1)
	}
	pipe.Expire(ctx, bucket, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// bucketKey names the per-minute hash an event falls into.
func bucketKey(prefix string, at time.Time) string {
	return prefix + ":m:" + strconv.FormatInt(at.Truncate(time.Minute).Unix(), 10)
}

// Totals returns the accumulated per-outcome counts.
func (r *RedisRecorder) Totals(ctx context.Context) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, r.prefix+":totals").Result()
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		totals[field] = n
	}
	return totals, nil
}

// Ping verifies connectivity to Redis.
func (r *RedisRecorder) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
