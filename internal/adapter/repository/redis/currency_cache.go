package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// DefaultCurrencyTTL bounds how long a cached currency may be served after a change
// made by another process.
const DefaultCurrencyTTL = 10 * time.Minute

// CurrencyCache is a read-through cache in front of a usecase.CurrencyRepository.
// Writes go to the wrapped repository and then evict the cached code. Redis
// failures fall back to the repository.
type CurrencyCache struct {
	client *redis.Client
	next   usecase.CurrencyRepository
	prefix string
	ttl    time.Duration
}

// NewCurrencyCache wraps next.
func NewCurrencyCache(client *redis.Client, next usecase.CurrencyRepository, ttl time.Duration) *CurrencyCache {
	if ttl <= 0 {
		ttl = DefaultCurrencyTTL
	}

	return &CurrencyCache{
		client: client,
		next:   next,
		prefix: "ledger:currency:",
		ttl:    ttl,
	}
}

// Get returns a currency from the cache or the repository.
func (c *CurrencyCache) Get(ctx context.Context, code string) (*domain.Currency, error) {
	raw, err := c.client.Get(ctx, c.prefix+code).Bytes()
	if err == nil {
		var cur domain.Currency
		if err := json.Unmarshal(raw, &cur); err == nil {
			return &cur, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("currency cache read failed")
	}

	cur, err := c.next.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	c.store(ctx, *cur)

	return cur, nil
}

// GetMany resolves cached codes with one MGET and loads the rest from the repository.
func (c *CurrencyCache) GetMany(ctx context.Context, codes []string) (map[string]domain.Currency, error) {
	out := make(map[string]domain.Currency, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = c.prefix + code
	}

	var missing []string

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("currency cache read failed")
		missing = codes
	} else {
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				missing = append(missing, codes[i])
				continue
			}

			var cur domain.Currency
			if err := json.Unmarshal([]byte(s), &cur); err != nil {
				missing = append(missing, codes[i])
				continue
			}

			out[cur.Code] = cur
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.next.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}

	for code, cur := range loaded {
		out[code] = cur
		c.store(ctx, cur)
	}

	return out, nil
}

// List always reads the repository.
func (c *CurrencyCache) List(ctx context.Context) ([]domain.Currency, error) {
	return c.next.List(ctx)
}

// Create adds a currency and evicts any stale entry.
func (c *CurrencyCache) Create(ctx context.Context, cur domain.Currency) error {
	if err := c.next.Create(ctx, cur); err != nil {
		return err
	}

	c.evict(ctx, cur.Code)

	return nil
}

// Upsert writes a currency and evicts the cached copy.
func (c *CurrencyCache) Upsert(ctx context.Context, cur domain.Currency) error {
	if err := c.next.Upsert(ctx, cur); err != nil {
		return err
	}

	c.evict(ctx, cur.Code)

	return nil
}

// Delete removes a currency and evicts the cached copy.
func (c *CurrencyCache) Delete(ctx context.Context, code string) error {
	if err := c.next.Delete(ctx, code); err != nil {
		return err
	}

	c.evict(ctx, code)

	return nil
}

func (c *CurrencyCache) store(ctx context.Context, cur domain.Currency) {
	raw, err := json.Marshal(cur)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.prefix+cur.Code, raw, c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("code", cur.Code).Msg("currency cache write failed")
	}
}

func (c *CurrencyCache) evict(ctx context.Context, code string) {
	if err := c.client.Del(ctx, c.prefix+code).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("currency cache evict failed")
	}
}
