package viewref

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const viewRefKeyPrefix = "viewref:"

// ErrRefNotFound is returned when no reference is stored for a view
var ErrRefNotFound = errors.New("view reference not found")

// Config holds configuration for the Redis viewref repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed viewref repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetRef returns the stored message ID for a view
func (r *redisRepository) GetRef(ctx context.Context, input *GetRefInput) (string, error) {
	if input == nil || input.View == "" {
		return "", errors.New("input and view cannot be empty")
	}

	id, err := r.client.Get(ctx, viewRefKeyPrefix+input.View).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrRefNotFound
		}
		return "", fmt.Errorf("failed to get view reference: %w", err)
	}
	return id, nil
}

// SetRef stores the message ID for a view
func (r *redisRepository) SetRef(ctx context.Context, input *SetRefInput) error {
	if input == nil || input.View == "" || input.MessageID == "" {
		return errors.New("input, view and message ID cannot be empty")
	}

	if err := r.client.Set(ctx, viewRefKeyPrefix+input.View, input.MessageID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set view reference: %w", err)
	}
	return nil
}

// ClearRef drops a stored reference
func (r *redisRepository) ClearRef(ctx context.Context, input *ClearRefInput) error {
	if input == nil || input.View == "" {
		return errors.New("input and view cannot be empty")
	}

	if err := r.client.Del(ctx, viewRefKeyPrefix+input.View).Err(); err != nil {
		return fmt.Errorf("failed to clear view reference: %w", err)
	}
	return nil
}
