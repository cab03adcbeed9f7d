package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/stockly/internal/config"
	"github.com/rogerio-castellano/stockly/internal/errx"
)

const (
	revokedPrefix = "session:revoked:"
	strikesPrefix = "ratelimit:strikes:"
	bannedPrefix  = "ratelimit:banned:"
	// BanLogKey holds one JSON entry per ban.
	BanLogKey = "ratelimit:banlog"
)

// Store is the small key/value surface used for sessions and abuse control.
type Store interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Strike(ctx context.Context, key string, window time.Duration) (int64, error)
	Ban(ctx context.Context, key string, d time.Duration) error
	IsBanned(ctx context.Context, key string) (bool, error)
	AppendLog(ctx context.Context, entry []byte) error
	// DrainLog returns the ban log and clears it.
	DrainLog(ctx context.Context) ([][]byte, error)
	Ping(ctx context.Context) error
}

// NewClient builds a Redis client from cfg and checks the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.DialTimeout = cfg.DialTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errx.WrapRedis(err)
	}
	return client, nil
}

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

func (s *RedisService) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return errx.WrapRedis(s.rdb.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err())
}

func (s *RedisService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, errx.WrapRedis(err)
	}
	return n > 0, nil
}

// Strike increments the strike counter for key. The window starts with the
// first strike and is not extended by later ones.
func (s *RedisService) Strike(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, strikesPrefix+key)
	pipe.ExpireNX(ctx, strikesPrefix+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errx.WrapRedis(err)
	}
	return incr.Val(), nil
}

func (s *RedisService) Ban(ctx context.Context, key string, d time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, bannedPrefix+key, 1, d)
	pipe.Del(ctx, strikesPrefix+key)
	_, err := pipe.Exec(ctx)
	return errx.WrapRedis(err)
}

func (s *RedisService) IsBanned(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, bannedPrefix+key).Result()
	if err != nil {
		return false, errx.WrapRedis(err)
	}
	return n > 0, nil
}

func (s *RedisService) AppendLog(ctx context.Context, entry []byte) error {
	return errx.WrapRedis(s.rdb.RPush(ctx, BanLogKey, entry).Err())
}

func (s *RedisService) DrainLog(ctx context.Context) ([][]byte, error) {
	pipe := s.rdb.TxPipeline()
	items := pipe.LRange(ctx, BanLogKey, 0, -1)
	pipe.Del(ctx, BanLogKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errx.WrapRedis(err)
	}
	out := make([][]byte, 0, len(items.Val()))
	for _, item := range items.Val() {
		out = append(out, []byte(item))
	}
	return out, nil
}

func (s *RedisService) Ping(ctx context.Context) error {
	return errx.WrapRedis(s.rdb.Ping(ctx).Err())
}
