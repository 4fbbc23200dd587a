package sortedstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix   = "sweeper"
	defaultCapacity = 100
	boardKeyFmt     = "%s:leaderboard:%s"
)

// RedisLeaderboard keeps the fastest winning time of each player per preset
// in a Redis sorted set, scored by milliseconds.
type RedisLeaderboard struct {
	client   *redis.Client
	locker   *redsync.Redsync
	ttl      time.Duration
	prefix   string
	capacity int64
}

var _ i.Leaderboard = &RedisLeaderboard{}

// Option customizes a RedisLeaderboard.
type Option func(*RedisLeaderboard)

// WithPrefix namespaces the keys.
func WithPrefix(prefix string) Option {
	return func(l *RedisLeaderboard) { l.prefix = prefix }
}

// WithCapacity bounds the number of entries kept per preset.
func WithCapacity(n int64) Option {
	return func(l *RedisLeaderboard) { l.capacity = n }
}

// NewRedisLeaderboard initializes a RedisLeaderboard. A zero ttl keeps the
// boards forever.
func NewRedisLeaderboard(client *redis.Client, ttlSeconds int, opts ...Option) (*RedisLeaderboard, error) {
	if client == nil {
		return nil, errors.New("leaderboard needs a redis client")
	}
	l := &RedisLeaderboard{
		client:   client,
		ttl:      time.Duration(ttlSeconds) * time.Second,
		prefix:   defaultPrefix,
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(l)
	}
	pool := goredis.NewPool(client)
	l.locker = redsync.New(pool)
	return l, nil
}

func (l *RedisLeaderboard) key(preset string) string {
	return fmt.Sprintf(boardKeyFmt, l.prefix, preset)
}

// Record stores durationMs unless the player already has a faster time.
func (l *RedisLeaderboard) Record(ctx context.Context, preset string, playerID uuid.UUID, durationMs int64) error {
	key := l.key(preset)
	mutex := l.locker.NewMutex(key + ":lock")
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	member := playerID.String()
	score := float64(durationMs)
	best, err := l.client.ZScore(ctx, key, member).Result()
	switch {
	case err == nil && best <= score:
		return nil
	case err != nil && !errors.Is(err, redis.Nil):
		return err
	}

	if err := l.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return err
	}
	if err := l.client.ZRemRangeByRank(ctx, key, l.capacity, -1).Err(); err != nil {
		return err
	}

	// Set expiration only if it's not already set
	if l.ttl > 0 {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err == nil && ttl == -1 {
			_ = l.client.Expire(ctx, key, l.ttl).Err()
		}
	}
	return nil
}

// Top returns up to n entries, fastest first.
func (l *RedisLeaderboard) Top(ctx context.Context, preset string, n int64) ([]i.LeaderboardEntry, error) {
	if n <= 0 {
		return []i.LeaderboardEntry{}, nil
	}
	zs, err := l.client.ZRangeWithScores(ctx, l.key(preset), 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]i.LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		entries = append(entries, i.LeaderboardEntry{PlayerID: id, DurationMs: int64(z.Score)})
	}
	return entries, nil
}
