package scheduling

import "context"

// Service defines the interface for flight scheduling and crew allocation
type Service interface {
	// CreateFlight creates a new scheduled flight
	CreateFlight(ctx context.Context, input *CreateFlightInput) (*CreateFlightOutput, error)

	// EditFlight updates a scheduled flight's route or timing fields
	EditFlight(ctx context.Context, input *EditFlightInput) (*EditFlightOutput, error)

	// CompleteFlight marks a flight as completed
	CompleteFlight(ctx context.Context, input *CompleteFlightInput) (*CompleteFlightOutput, error)

	// CancelFlight marks a flight as cancelled
	CancelFlight(ctx context.Context, input *CancelFlightInput) (*CancelFlightOutput, error)

	// Allocate claims a crew position on a flight for a user
	Allocate(ctx context.Context, input *AllocateInput) (*AllocateOutput, error)

	// Unallocate releases a user's crew position on a flight
	Unallocate(ctx context.Context, input *UnallocateInput) (*UnallocateOutput, error)

	// ListOpenPositions returns the per-department fill state of a flight
	ListOpenPositions(ctx context.Context, input *ListOpenPositionsInput) (*ListOpenPositionsOutput, error)

	// GetFlight retrieves a flight by ID
	GetFlight(ctx context.Context, input *GetFlightInput) (*GetFlightOutput, error)

	// GetScheduledFlightByNumber retrieves a scheduled flight by number
	GetScheduledFlightByNumber(ctx context.Context, input *GetScheduledFlightByNumberInput) (*GetScheduledFlightByNumberOutput, error)

	// ListScheduledFlights returns scheduled flights ordered by server
	// open time, optionally filtered
	ListScheduledFlights(ctx context.Context, input *ListScheduledFlightsInput) (*ListScheduledFlightsOutput, error)
}
