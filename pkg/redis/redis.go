package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"teamhub/backend/config"
)

// ErrCacheMiss 캐시에 값이 없음
var ErrCacheMiss = errors.New("cache miss")

// Client Redis 클라이언트 래퍼
// 토큰 블랙리스트, 요청 빈도 제한, 랭킹 캐시에 사용한다
type Client struct {
	rdb    goredis.UniversalClient
	logger *zap.Logger
}

// NewClient Redis 에 연결하고 Ping 으로 상태를 확인한다
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis 연결 실패: %w", err)
	}

	logger.Info("Redis 연결 성공", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 토큰 블랙리스트 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken JWT ID 를 남은 유효 기간 동안 블랙리스트에 등록한다
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted JWT ID 가 블랙리스트에 있는지 확인한다
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 요청 빈도 제한 ──

// CheckRateLimit 슬라이딩 윈도우 방식으로 요청 허용 여부를 판단한다
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
		card = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return card.Val() <= int64(limit), nil
}

// ── msgpack 캐시 ──

// GetCached 키에 저장된 msgpack 값을 dest 로 디코딩한다. 값이 없으면 ErrCacheMiss.
func (c *Client) GetCached(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return msgpack.Unmarshal(raw, dest)
}

// SetCached 값을 msgpack 으로 인코딩해 TTL 과 함께 저장한다
func (c *Client) SetCached(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("캐시 인코딩 실패: %w", err)
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// Invalidate 캐시 키 삭제
func (c *Client) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close 연결 종료
func (c *Client) Close() error {
	return c.rdb.Close()
}
