package flight

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/volare-va/crewbot/internal/repositories/flight Repository

import (
	"context"

	"github.com/volare-va/crewbot/internal/models"
)

// Repository defines the interface for flight data persistence
type Repository interface {
	// CreateFlight persists a new flight, enforcing flight number
	// uniqueness among scheduled flights
	CreateFlight(ctx context.Context, input *CreateFlightInput) error

	// GetFlight retrieves a flight by ID
	GetFlight(ctx context.Context, input *GetFlightInput) (*models.Flight, error)

	// GetScheduledFlightByNumber retrieves a scheduled flight by its
	// flight number
	GetScheduledFlightByNumber(ctx context.Context, input *GetScheduledFlightByNumberInput) (*models.Flight, error)

	// ListScheduledFlights retrieves all scheduled flights ordered by
	// server open time
	ListScheduledFlights(ctx context.Context, input *ListScheduledFlightsInput) (*ListScheduledFlightsOutput, error)

	// UpdateFlight applies a mutation to a flight atomically. The update
	// function runs against a freshly read record and the write only
	// succeeds if the record was not modified concurrently; the whole
	// read-validate-write cycle is retried a bounded number of times.
	UpdateFlight(ctx context.Context, input *UpdateFlightInput) (*models.Flight, error)
}
