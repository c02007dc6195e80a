package scheduling

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/aircraft"
	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/common/uuid"
	"github.com/volare-va/crewbot/internal/models"
	flightRepo "github.com/volare-va/crewbot/internal/repositories/flight"
)

var iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// service implements the Service interface
type service struct {
	flightRepo flightRepo.Repository
	clock      clock.Clock
	uuids      uuid.UUID
	log        *zap.SugaredLogger
}

// New creates a new scheduling service
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.FlightRepo == nil {
		return nil, ErrNilFlightRepo
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &service{
		flightRepo: cfg.FlightRepo,
		clock:      cfg.Clock,
		uuids:      cfg.UUIDGenerator,
		log:        log,
	}, nil
}

// CreateFlight creates a new scheduled flight after validating the aircraft
// and route. Flight number uniqueness is enforced by the repository at
// write time.
func (s *service) CreateFlight(ctx context.Context, input *CreateFlightInput) (*CreateFlightOutput, error) {
	flightNumber := strings.ToUpper(strings.TrimSpace(input.FlightNumber))
	departure := strings.ToUpper(strings.TrimSpace(input.Departure))
	destination := strings.ToUpper(strings.TrimSpace(input.Destination))

	if flightNumber == "" {
		return nil, ErrInvalidFlightNumber
	}
	if !iataPattern.MatchString(departure) || !iataPattern.MatchString(destination) {
		return nil, ErrInvalidIATACode
	}
	if aircraft.PositionsFor(input.Aircraft) == nil {
		return nil, ErrUnknownAircraft
	}

	flightType := input.Type
	if flightType == "" {
		flightType = models.FlightTypeRegular
	}

	now := s.clock.Now()
	f := &models.Flight{
		ID:               s.uuids.NewUUID(),
		FlightNumber:     flightNumber,
		Departure:        departure,
		Destination:      destination,
		Aircraft:         input.Aircraft,
		EmployeeJoinTime: input.EmployeeJoinTime,
		ServerOpenTime:   input.ServerOpenTime,
		Type:             flightType,
		DispatcherID:     input.DispatcherID,
		DispatcherName:   input.DispatcherName,
		Status:           models.FlightStatusScheduled,
		Allocations:      []models.Allocation{},
		CreatedAt:        now,
	}

	if err := s.flightRepo.CreateFlight(ctx, &flightRepo.CreateFlightInput{Flight: f}); err != nil {
		if errors.Is(err, flightRepo.ErrDuplicateFlightNumber) {
			return nil, ErrDuplicateFlightNumber
		}
		return nil, err
	}

	s.log.Infow("flight created",
		"flight_id", f.ID,
		"flight_number", f.FlightNumber,
		"dispatcher", f.DispatcherID,
		"type", f.Type,
	)

	return &CreateFlightOutput{Flight: f}, nil
}

// EditFlight applies route and timing changes to a scheduled flight.
// Concurrent edits are last-write-wins; the later write survives.
func (s *service) EditFlight(ctx context.Context, input *EditFlightInput) (*EditFlightOutput, error) {
	departure := strings.ToUpper(strings.TrimSpace(input.Departure))
	destination := strings.ToUpper(strings.TrimSpace(input.Destination))

	if departure != "" && !iataPattern.MatchString(departure) {
		return nil, ErrInvalidIATACode
	}
	if destination != "" && !iataPattern.MatchString(destination) {
		return nil, ErrInvalidIATACode
	}

	var changes []string
	updated, err := s.updateScheduled(ctx, input.FlightID, func(f *models.Flight) error {
		changes = changes[:0]
		if departure != "" && departure != f.Departure {
			f.Departure = departure
			changes = append(changes, fmt.Sprintf("Departure → %s", departure))
		}
		if destination != "" && destination != f.Destination {
			f.Destination = destination
			changes = append(changes, fmt.Sprintf("Destination → %s", destination))
		}
		if input.EmployeeJoinTime != 0 && input.EmployeeJoinTime != f.EmployeeJoinTime {
			f.EmployeeJoinTime = input.EmployeeJoinTime
			changes = append(changes, fmt.Sprintf("Staff Join → <t:%d:F>", input.EmployeeJoinTime))
		}
		if input.ServerOpenTime != 0 && input.ServerOpenTime != f.ServerOpenTime {
			f.ServerOpenTime = input.ServerOpenTime
			changes = append(changes, fmt.Sprintf("Server Open → <t:%d:F>", input.ServerOpenTime))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &EditFlightOutput{Flight: updated, Changes: changes}, nil
}

// CompleteFlight marks a flight as completed. When RequestedBy is set only
// the flight's dispatcher may complete it.
func (s *service) CompleteFlight(ctx context.Context, input *CompleteFlightInput) (*CompleteFlightOutput, error) {
	now := s.clock.Now()
	updated, err := s.updateScheduled(ctx, input.FlightID, func(f *models.Flight) error {
		if input.RequestedBy != "" && f.DispatcherID != input.RequestedBy {
			return ErrNotDispatcher
		}
		f.Status = models.FlightStatusCompleted
		f.CompletedAt = now
		f.ArchivedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("flight completed", "flight_id", updated.ID, "flight_number", updated.FlightNumber)
	return &CompleteFlightOutput{Flight: updated}, nil
}

// CancelFlight marks a flight as cancelled. The record is kept for audit,
// never physically deleted.
func (s *service) CancelFlight(ctx context.Context, input *CancelFlightInput) (*CancelFlightOutput, error) {
	now := s.clock.Now()
	updated, err := s.updateScheduled(ctx, input.FlightID, func(f *models.Flight) error {
		f.Status = models.FlightStatusCancelled
		f.ArchivedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("flight cancelled", "flight_id", updated.ID, "flight_number", updated.FlightNumber)
	return &CancelFlightOutput{Flight: updated}, nil
}

// Allocate claims a position on a flight. Validation runs inside the
// repository's atomic update, so two concurrent claims on the last open
// slot cannot both succeed.
func (s *service) Allocate(ctx context.Context, input *AllocateInput) (*AllocateOutput, error) {
	now := s.clock.Now()
	var alloc models.Allocation

	updated, err := s.updateScheduled(ctx, input.FlightID, func(f *models.Flight) error {
		if f.AllocationFor(input.UserID) != nil {
			return ErrAlreadyAllocated
		}

		if aircraft.PositionsFor(f.Aircraft) == nil {
			return ErrUnknownAircraft
		}
		pos, ok := aircraft.PositionFor(f.Aircraft, input.Position)
		if !ok {
			return ErrInvalidPosition
		}
		if f.CountForPosition(input.Position) >= pos.Max {
			return ErrPositionFull
		}

		alloc = models.Allocation{
			UserID:      input.UserID,
			Username:    input.Username,
			Position:    input.Position,
			AllocatedAt: now,
		}
		f.Allocations = append(f.Allocations, alloc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("crew allocated",
		"flight_id", updated.ID,
		"flight_number", updated.FlightNumber,
		"user", input.UserID,
		"position", input.Position,
	)

	return &AllocateOutput{Allocation: &alloc, Flight: updated}, nil
}

// Unallocate releases a user's position on a flight
func (s *service) Unallocate(ctx context.Context, input *UnallocateInput) (*UnallocateOutput, error) {
	var removed models.Allocation

	updated, err := s.updateScheduled(ctx, input.FlightID, func(f *models.Flight) error {
		idx := -1
		for i := range f.Allocations {
			if f.Allocations[i].UserID == input.UserID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return ErrNotAllocated
		}

		removed = f.Allocations[idx]
		f.Allocations = append(f.Allocations[:idx], f.Allocations[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("crew unallocated",
		"flight_id", updated.ID,
		"flight_number", updated.FlightNumber,
		"user", input.UserID,
		"position", removed.Position,
	)

	return &UnallocateOutput{Removed: &removed, Flight: updated}, nil
}

// ListOpenPositions returns every position of a flight grouped by
// department in stable display order. Full positions are flagged
// unselectable rather than omitted, so callers can both render the full
// sheet and build a pick list.
func (s *service) ListOpenPositions(ctx context.Context, input *ListOpenPositionsInput) (*ListOpenPositionsOutput, error) {
	f, err := s.getFlight(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	positions := aircraft.PositionsFor(f.Aircraft)
	if positions == nil {
		return nil, ErrUnknownAircraft
	}

	byDept := make(map[string][]PositionCount)
	for _, p := range positions {
		filled := f.CountForPosition(p.Name)
		byDept[p.Department] = append(byDept[p.Department], PositionCount{
			Name:       p.Name,
			Department: p.Department,
			Filled:     filled,
			Max:        p.Max,
			Selectable: filled < p.Max,
		})
	}

	out := &ListOpenPositionsOutput{}
	for _, dept := range aircraft.Departments {
		out.Departments = append(out.Departments, DepartmentPositions{
			Department: dept,
			Positions:  byDept[dept],
		})
	}
	return out, nil
}

// GetFlight retrieves a flight by ID
func (s *service) GetFlight(ctx context.Context, input *GetFlightInput) (*GetFlightOutput, error) {
	f, err := s.getFlight(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	return &GetFlightOutput{Flight: f}, nil
}

// GetScheduledFlightByNumber retrieves a scheduled flight by number
func (s *service) GetScheduledFlightByNumber(ctx context.Context, input *GetScheduledFlightByNumberInput) (*GetScheduledFlightByNumberOutput, error) {
	flightNumber := strings.ToUpper(strings.TrimSpace(input.FlightNumber))
	f, err := s.flightRepo.GetScheduledFlightByNumber(ctx, &flightRepo.GetScheduledFlightByNumberInput{
		FlightNumber: flightNumber,
	})
	if err != nil {
		if errors.Is(err, flightRepo.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &GetScheduledFlightByNumberOutput{Flight: f}, nil
}

// ListScheduledFlights returns scheduled flights, optionally filtered by
// dispatcher or occupant
func (s *service) ListScheduledFlights(ctx context.Context, input *ListScheduledFlightsInput) (*ListScheduledFlightsOutput, error) {
	out, err := s.flightRepo.ListScheduledFlights(ctx, &flightRepo.ListScheduledFlightsInput{})
	if err != nil {
		return nil, err
	}

	flights := make([]*models.Flight, 0, len(out.Flights))
	for _, f := range out.Flights {
		if input.DispatcherID != "" && f.DispatcherID != input.DispatcherID {
			continue
		}
		if input.OccupantID != "" && f.AllocationFor(input.OccupantID) == nil {
			continue
		}
		flights = append(flights, f)
	}

	return &ListScheduledFlightsOutput{Flights: flights}, nil
}

// updateScheduled wraps the repository's atomic update with the shared
// "must still be scheduled" precondition
func (s *service) updateScheduled(ctx context.Context, flightID string, update func(*models.Flight) error) (*models.Flight, error) {
	updated, err := s.flightRepo.UpdateFlight(ctx, &flightRepo.UpdateFlightInput{
		FlightID: flightID,
		Update: func(f *models.Flight) error {
			if f.Status != models.FlightStatusScheduled {
				return ErrFlightNotScheduled
			}
			return update(f)
		},
	})
	if err != nil {
		if errors.Is(err, flightRepo.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *service) getFlight(ctx context.Context, flightID string) (*models.Flight, error) {
	f, err := s.flightRepo.GetFlight(ctx, &flightRepo.GetFlightInput{FlightID: flightID})
	if err != nil {
		if errors.Is(err, flightRepo.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return f, nil
}
