package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pricebench/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	customerKeyPrefix = "catalog:customer:"
	productKeyPrefix  = "catalog:product:"
)

// cachedLookup is a read-through Redis cache in front of another Lookup.
// Redis failures degrade to the underlying lookup. Misses are not cached.
type cachedLookup struct {
	next   Lookup
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedLookup wraps next with a Redis cache whose entries expire after ttl.
func NewCachedLookup(next Lookup, client *redis.Client, ttl time.Duration, logger zerolog.Logger) Lookup {
	return &cachedLookup{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog-cache").Logger(),
	}
}

func customerKey(id int64) string { return fmt.Sprintf("%s%d", customerKeyPrefix, id) }
func productKey(id int64) string  { return fmt.Sprintf("%s%d", productKeyPrefix, id) }

func (c *cachedLookup) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	key := customerKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var customer model.Customer
		if jsonErr := json.Unmarshal(data, &customer); jsonErr == nil {
			return customer, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	customer, err := c.next.GetCustomer(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}

	c.store(ctx, map[string]any{key: customer})
	return customer, nil
}

func (c *cachedLookup) GetProducts(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	if len(ids) == 0 {
		return map[int64]model.Product{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	products := make(map[int64]model.Product, len(ids))

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn().Err(err).Int("count", len(keys)).Msg("cache read failed")
		values = nil
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var p model.Product
		if jsonErr := json.Unmarshal([]byte(s), &p); jsonErr == nil {
			products[p.ID] = p
		}
	}

	var misses []int64
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := products[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return products, nil
	}

	c.logger.Debug().
		Int("hits", len(products)).
		Int("misses", len(misses)).
		Msg("product cache lookup")

	fetched, err := c.next.GetProducts(ctx, misses)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]any, len(fetched))
	for id, p := range fetched {
		products[id] = p
		entries[productKey(id)] = p
	}
	c.store(ctx, entries)

	return products, nil
}

// store writes entries as JSON in one pipeline.
func (c *cachedLookup) store(ctx context.Context, entries map[string]any) {
	if len(entries) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for key, v := range entries {
		data, err := json.Marshal(v)
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
			continue
		}
		pipe.Set(ctx, key, data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Int("count", len(entries)).Msg("cache write failed")
	}
}
