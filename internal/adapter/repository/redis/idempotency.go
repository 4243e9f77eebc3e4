package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zeroedbooks/ledger/internal/usecase"
)

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "ledger:idempotency:",
	}
}

var pendingMarker = mustMarshal(usecase.IdempotentResponse{Pending: true})

// Reserve claims key with a pending marker using SET NX.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, error) {
	fullKey := s.prefix + key

	set, err := s.client.SetNX(ctx, fullKey, pendingMarker, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve idempotency key: %w", err)
	}

	if set {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; try once more.
		set, err = s.client.SetNX(ctx, fullKey, pendingMarker, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}

		if set {
			return nil, nil
		}

		return &usecase.IdempotentResponse{Pending: true}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}

	var stored usecase.IdempotentResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode idempotency key: %w", err)
	}

	return &stored, nil
}

// Complete overwrites the pending marker with the final response.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, response usecase.IdempotentResponse, ttl time.Duration) error {
	response.Pending = false

	raw, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}

// Release deletes the key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func mustMarshal(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return raw
}
