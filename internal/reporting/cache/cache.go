// Package cache stores built system-wide reports in redis for a short TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang/snappy"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/lodgely/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyPrefix = "lodgely:report"

const defaultTTL = time.Minute

// ReportCache is safe to use as a nil pointer; every call then misses.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *ReportCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// NewReportCache connects to redis when an address is configured and returns nil otherwise.
func NewReportCache(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *ReportCache {
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		log.Info("report cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})
	c := New(client, cfg.Redis.CacheTTL)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("report cache unreachable", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})
	return c
}

func (c *ReportCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the cached value into dest and reports whether it was present.
func (c *ReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := decode(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, value any) error {
	if !c.Enabled() {
		return nil
	}
	payload, err := encode(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Key builds "lodgely:report:<report>[:<part>...]", skipping blank parts.
func Key(report string, parts ...string) string {
	segments := []string{keyPrefix, strings.TrimSpace(report)}
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return strings.Join(segments, ":")
}

func encode(value any) ([]byte, error) {
	body, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, body), nil
}

func decode(raw []byte, dest any) error {
	body, err := snappy.Decode(nil, raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}
