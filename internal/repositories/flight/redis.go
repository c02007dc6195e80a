package flight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/volare-va/crewbot/internal/models"
)

const (
	// Key prefixes for Redis
	flightKeyPrefix    = "flight:"
	flightNumKeyPrefix = "flightnum:" // scheduled-only uniqueness index
	scheduledFlightsKey = "scheduled_flights"

	// maxUpdateRetries bounds the optimistic-locking retry loop
	maxUpdateRetries = 5
)

// ErrFlightNotFound is returned when a flight is not found
var ErrFlightNotFound = errors.New("flight not found")

// ErrDuplicateFlightNumber is returned when a scheduled flight with the
// same number already exists
var ErrDuplicateFlightNumber = errors.New("flight number already scheduled")

// ErrUpdateConflict is returned when an update keeps losing the
// optimistic-locking race
var ErrUpdateConflict = errors.New("flight update conflict")

// Config holds configuration for the Redis flight repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed flight repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// CreateFlight persists a new flight to Redis. The flight number index is
// claimed first with SETNX, which is the uniqueness constraint of record:
// the workflow's earlier check only narrows the race window, this one
// closes it.
func (r *redisRepository) CreateFlight(ctx context.Context, input *CreateFlightInput) error {
	if input == nil || input.Flight == nil {
		return errors.New("input and flight cannot be nil")
	}

	f := input.Flight
	if f.Status != models.FlightStatusScheduled {
		return errors.New("new flights must be scheduled")
	}

	numKey := flightNumKey(f.FlightNumber)
	claimed, err := r.client.SetNX(ctx, numKey, f.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim flight number: %w", err)
	}
	if !claimed {
		return ErrDuplicateFlightNumber
	}

	payload, err := json.Marshal(f)
	if err != nil {
		r.client.Del(ctx, numKey)
		return fmt.Errorf("failed to marshal flight: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, flightKeyPrefix+f.ID, payload, 0)
	pipe.ZAdd(ctx, scheduledFlightsKey, redis.Z{
		Score:  float64(f.ServerOpenTime),
		Member: f.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		r.client.Del(ctx, numKey)
		return fmt.Errorf("failed to save flight: %w", err)
	}

	return nil
}

// GetFlight retrieves a flight by ID from Redis
func (r *redisRepository) GetFlight(ctx context.Context, input *GetFlightInput) (*models.Flight, error) {
	if input == nil || input.FlightID == "" {
		return nil, errors.New("input and flight ID cannot be empty")
	}

	payload, err := r.client.Get(ctx, flightKeyPrefix+input.FlightID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	var f models.Flight
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flight: %w", err)
	}

	return &f, nil
}

// GetScheduledFlightByNumber retrieves a scheduled flight by flight number
func (r *redisRepository) GetScheduledFlightByNumber(ctx context.Context, input *GetScheduledFlightByNumberInput) (*models.Flight, error) {
	if input == nil || input.FlightNumber == "" {
		return nil, errors.New("input and flight number cannot be empty")
	}

	flightID, err := r.client.Get(ctx, flightNumKey(input.FlightNumber)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to resolve flight number: %w", err)
	}

	return r.GetFlight(ctx, &GetFlightInput{FlightID: flightID})
}

// ListScheduledFlights retrieves all scheduled flights ordered by server
// open time
func (r *redisRepository) ListScheduledFlights(ctx context.Context, input *ListScheduledFlightsInput) (*ListScheduledFlightsOutput, error) {
	ids, err := r.client.ZRange(ctx, scheduledFlightsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled flights: %w", err)
	}

	flights := make([]*models.Flight, 0, len(ids))
	for _, id := range ids {
		f, err := r.GetFlight(ctx, &GetFlightInput{FlightID: id})
		if err != nil {
			if errors.Is(err, ErrFlightNotFound) {
				// Stale index entry, skip it
				continue
			}
			return nil, err
		}
		flights = append(flights, f)
	}

	return &ListScheduledFlightsOutput{Flights: flights}, nil
}

// UpdateFlight applies a mutation under WATCH-based optimistic locking.
// Concurrent writers force a retry of the whole read-validate-write cycle,
// so validation inside the update function always runs against the record
// that will actually be written.
func (r *redisRepository) UpdateFlight(ctx context.Context, input *UpdateFlightInput) (*models.Flight, error) {
	if input == nil || input.FlightID == "" || input.Update == nil {
		return nil, errors.New("input, flight ID and update cannot be empty")
	}

	key := flightKeyPrefix + input.FlightID
	var updated *models.Flight

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrFlightNotFound
			}
			return fmt.Errorf("failed to get flight: %w", err)
		}

		var f models.Flight
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return fmt.Errorf("failed to unmarshal flight: %w", err)
		}

		wasScheduled := f.Status == models.FlightStatusScheduled

		if err := input.Update(&f); err != nil {
			return err
		}

		newPayload, err := json.Marshal(&f)
		if err != nil {
			return fmt.Errorf("failed to marshal flight: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newPayload, 0)
			if f.Status == models.FlightStatusScheduled {
				// Keep the schedule ordering current, open time may change
				pipe.ZAdd(ctx, scheduledFlightsKey, redis.Z{
					Score:  float64(f.ServerOpenTime),
					Member: f.ID,
				})
			} else if wasScheduled {
				// Leaving scheduled status frees the flight number for reuse
				pipe.ZRem(ctx, scheduledFlightsKey, f.ID)
				pipe.Del(ctx, flightNumKey(f.FlightNumber))
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = &f
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrUpdateConflict
}

func flightNumKey(flightNumber string) string {
	return flightNumKeyPrefix + flightNumber
}
