package models

import (
	"time"
)

// FlightStatus represents the lifecycle state of a flight
type FlightStatus string

const (
	// FlightStatusScheduled indicates a flight is open for crew allocation
	FlightStatusScheduled FlightStatus = "scheduled"

	// FlightStatusCompleted indicates a flight has been flown and ended
	FlightStatusCompleted FlightStatus = "completed"

	// FlightStatusCancelled indicates a flight was deleted before departure
	FlightStatusCancelled FlightStatus = "cancelled"
)

// FlightType categorizes a flight, which controls which calendars list it
type FlightType string

const (
	// FlightTypeRegular is a normal public flight
	FlightTypeRegular FlightType = "regular"

	// FlightTypePremium is a premium public flight
	FlightTypePremium FlightType = "premium"

	// FlightTypeTest is a staff-only test flight
	FlightTypeTest FlightType = "test"
)

// Allocation is one crew member's claim on one position of one flight
type Allocation struct {
	// UserID is the Discord user ID of the allocated crew member
	UserID string

	// Username is the display name captured at allocation time
	Username string

	// Position is the crew position name, e.g. "Captain"
	Position string

	// AllocatedAt is when the allocation was made
	AllocatedAt time.Time
}

// Flight is the authoritative record for one scheduled flight
type Flight struct {
	// ID is the unique identifier for the flight, stable across edits
	ID string

	// FlightNumber is the human flight number, e.g. "UA 1234".
	// Unique only among flights with status scheduled.
	FlightNumber string

	// Departure is the 3-letter IATA departure code
	Departure string

	// Destination is the 3-letter IATA destination code
	Destination string

	// Aircraft is the fleet key, e.g. "737-800 NEXT"
	Aircraft string

	// EmployeeJoinTime is when staff should join, unix seconds
	EmployeeJoinTime int64

	// ServerOpenTime is when the server opens to passengers, unix seconds
	ServerOpenTime int64

	// Type controls which calendars and events the flight appears on
	Type FlightType

	// DispatcherID is the Discord user ID of the flight's dispatcher
	DispatcherID string

	// DispatcherName is the dispatcher's username
	DispatcherName string

	// Status is the lifecycle state of the flight
	Status FlightStatus

	// Allocations is the owned list of crew allocations
	Allocations []Allocation

	// ForumThreadID references the crew sign-up thread, if posted
	ForumThreadID string

	// ForumMessageID references the allocation sheet message in the thread
	ForumMessageID string

	// EventID references the scheduled event on the calendar server
	EventID string

	// CreatedAt is when the flight was created
	CreatedAt time.Time

	// CompletedAt is when the flight was ended, if it was
	CompletedAt time.Time

	// ArchivedAt is when the flight left scheduled status
	ArchivedAt time.Time
}

// AllocationFor returns the allocation held by the given user, if any
func (f *Flight) AllocationFor(userID string) *Allocation {
	for i := range f.Allocations {
		if f.Allocations[i].UserID == userID {
			return &f.Allocations[i]
		}
	}
	return nil
}

// CountForPosition returns how many allocations exist for a position
func (f *Flight) CountForPosition(position string) int {
	count := 0
	for i := range f.Allocations {
		if f.Allocations[i].Position == position {
			count++
		}
	}
	return count
}

// Route returns the "DEP ➜ DST" route string
func (f *Flight) Route() string {
	return f.Departure + " ➜ " + f.Destination
}
