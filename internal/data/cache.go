package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// CachedSource puts a Redis read-through cache in front of a Source.
// Daily bars change at most once per session, so even a short TTL cuts
// nearly all repeat provider calls during a batch scan. Cache failures
// are logged and ignored: the source of truth is always the upstream.
type CachedSource struct {
	next Source
	rdb  redis.Cmdable
	ttl  time.Duration
	log  zerolog.Logger
}

func NewCachedSource(next Source, rdb redis.Cmdable, ttl time.Duration, log zerolog.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedSource{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "history_cache").Logger(),
	}
}

func historyKey(ticker, period string, autoAdjust bool) string {
	return fmt.Sprintf("aibox:history:%s:%s:%t", ticker, period, autoAdjust)
}

func (c *CachedSource) History(ctx context.Context, ticker, period string, autoAdjust bool) (Series, error) {
	key := historyKey(ticker, period, autoAdjust)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached Series
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached, nil
		}
		c.log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	series, err := c.next.History(ctx, ticker, period, autoAdjust)
	if err != nil {
		return nil, err
	}

	if raw, jerr := json.Marshal(series); jerr == nil {
		if serr := c.rdb.Set(ctx, key, raw, c.ttl).Err(); serr != nil {
			c.log.Warn().Err(serr).Str("key", key).Msg("cache write failed")
		}
	}
	return series, nil
}

// Quote is never cached: the whole point of the live quote is freshness.
func (c *CachedSource) Quote(ctx context.Context, ticker string) (float64, error) {
	return c.next.Quote(ctx, ticker)
}
