package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/volare-va/crewbot/internal/models"
)

const (
	// Key prefixes for Redis. Disjoint namespaces: a Roblox name starting
	// with "discord:" must not land in the Discord-ID index.
	memberKeyPrefix  = "member:name:"    // keyed by lowercased roblox name
	discordKeyPrefix = "member:discord:" // discord ID -> lowercased roblox name
)

// ErrMemberNotFound is returned when a member is not found
var ErrMemberNotFound = errors.New("member not found")

// Config holds configuration for the Redis member repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed member repository
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

// SaveMember persists a member to Redis
func (r *redisRepository) SaveMember(ctx context.Context, input *SaveMemberInput) error {
	if input == nil || input.Member == nil {
		return errors.New("input and member cannot be nil")
	}

	m := input.Member
	if m.RobloxName == "" {
		return errors.New("member roblox name cannot be empty")
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}

	nameKey := memberKey(m.RobloxName)

	// Look up the previous record so a changed link can drop its old index
	prev, err := r.GetMemberByRobloxName(ctx, &GetMemberByRobloxNameInput{RobloxName: m.RobloxName})
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, nameKey, payload, 0)
	if prev != nil && prev.DiscordID != "" && prev.DiscordID != m.DiscordID {
		pipe.Del(ctx, discordKeyPrefix+prev.DiscordID)
	}
	if m.DiscordID != "" {
		pipe.Set(ctx, discordKeyPrefix+m.DiscordID, strings.ToLower(m.RobloxName), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}

	return nil
}

// GetMemberByRobloxName retrieves a member by Roblox username
func (r *redisRepository) GetMemberByRobloxName(ctx context.Context, input *GetMemberByRobloxNameInput) (*models.Member, error) {
	if input == nil || input.RobloxName == "" {
		return nil, errors.New("input and roblox name cannot be empty")
	}

	payload, err := r.client.Get(ctx, memberKey(input.RobloxName)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	var m models.Member
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member: %w", err)
	}

	return &m, nil
}

// GetMemberByDiscordID retrieves a member by linked Discord user ID
func (r *redisRepository) GetMemberByDiscordID(ctx context.Context, input *GetMemberByDiscordIDInput) (*models.Member, error) {
	if input == nil || input.DiscordID == "" {
		return nil, errors.New("input and discord ID cannot be empty")
	}

	name, err := r.client.Get(ctx, discordKeyPrefix+input.DiscordID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to resolve discord link: %w", err)
	}

	return r.GetMemberByRobloxName(ctx, &GetMemberByRobloxNameInput{RobloxName: name})
}

func memberKey(robloxName string) string {
	return memberKeyPrefix + strings.ToLower(robloxName)
}
