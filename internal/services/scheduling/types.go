package scheduling

import (
	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/common/uuid"
	"github.com/volare-va/crewbot/internal/models"
	flightRepo "github.com/volare-va/crewbot/internal/repositories/flight"
)

// Config holds configuration for the scheduling service
type Config struct {
	// Repository dependencies
	FlightRepo flightRepo.Repository

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Logger, optional; a no-op logger is used when nil
	Logger *zap.SugaredLogger
}

// CreateFlightInput contains parameters for creating a flight
type CreateFlightInput struct {
	// FlightNumber is the human flight number, e.g. "UA 1234"
	FlightNumber string

	// Departure is the 3-letter IATA departure code
	Departure string

	// Destination is the 3-letter IATA destination code
	Destination string

	// Aircraft is the fleet key
	Aircraft string

	// EmployeeJoinTime is the staff join time, unix seconds
	EmployeeJoinTime int64

	// ServerOpenTime is the server open time, unix seconds
	ServerOpenTime int64

	// Type categorizes the flight; defaults to regular
	Type models.FlightType

	// DispatcherID is the creating user's Discord ID
	DispatcherID string

	// DispatcherName is the creating user's username
	DispatcherName string
}

// CreateFlightOutput contains the created flight
type CreateFlightOutput struct {
	Flight *models.Flight
}

// EditFlightInput contains parameters for editing a flight. Empty or zero
// fields are left unchanged.
type EditFlightInput struct {
	FlightID string

	Departure        string
	Destination      string
	EmployeeJoinTime int64
	ServerOpenTime   int64
}

// EditFlightOutput contains the updated flight and a human-readable change
// list for the acknowledgement message
type EditFlightOutput struct {
	Flight  *models.Flight
	Changes []string
}

// CompleteFlightInput contains parameters for completing a flight
type CompleteFlightInput struct {
	FlightID string

	// RequestedBy restricts completion to the flight's dispatcher when set
	RequestedBy string
}

// CompleteFlightOutput contains the completed flight
type CompleteFlightOutput struct {
	Flight *models.Flight
}

// CancelFlightInput contains parameters for cancelling a flight
type CancelFlightInput struct {
	FlightID string
}

// CancelFlightOutput contains the cancelled flight
type CancelFlightOutput struct {
	Flight *models.Flight
}

// AllocateInput contains parameters for claiming a position
type AllocateInput struct {
	FlightID string
	UserID   string
	Username string
	Position string
}

// AllocateOutput contains the new allocation and the updated flight
type AllocateOutput struct {
	Allocation *models.Allocation
	Flight     *models.Flight
}

// UnallocateInput contains parameters for releasing a position
type UnallocateInput struct {
	FlightID string
	UserID   string
}

// UnallocateOutput contains the released allocation and the updated flight
type UnallocateOutput struct {
	Removed *models.Allocation
	Flight  *models.Flight
}

// PositionCount is the fill state of one position
type PositionCount struct {
	// Name is the position name
	Name string

	// Department is the position's department
	Department string

	// Filled is the current allocation count
	Filled int

	// Max is the position capacity on this flight's aircraft
	Max int

	// Selectable is false once the position is full; full positions stay
	// in the list for display but must not be offered for selection
	Selectable bool
}

// DepartmentPositions groups position counts by department in display order
type DepartmentPositions struct {
	Department string
	Positions  []PositionCount
}

// ListOpenPositionsInput contains parameters for listing positions
type ListOpenPositionsInput struct {
	FlightID string
}

// ListOpenPositionsOutput contains the per-department fill state
type ListOpenPositionsOutput struct {
	Departments []DepartmentPositions
}

// GetFlightInput contains parameters for retrieving a flight
type GetFlightInput struct {
	FlightID string
}

// GetFlightOutput contains the retrieved flight
type GetFlightOutput struct {
	Flight *models.Flight
}

// GetScheduledFlightByNumberInput contains parameters for a number lookup
type GetScheduledFlightByNumberInput struct {
	FlightNumber string
}

// GetScheduledFlightByNumberOutput contains the retrieved flight
type GetScheduledFlightByNumberOutput struct {
	Flight *models.Flight
}

// ListScheduledFlightsInput contains optional filters
type ListScheduledFlightsInput struct {
	// DispatcherID keeps only flights dispatched by this user when set
	DispatcherID string

	// OccupantID keeps only flights where this user holds an allocation
	// when set
	OccupantID string
}

// ListScheduledFlightsOutput contains the matching flights ordered by
// server open time
type ListScheduledFlightsOutput struct {
	Flights []*models.Flight
}
