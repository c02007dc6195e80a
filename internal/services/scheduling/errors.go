package scheduling

// SchedulingError is a custom error type for scheduling-related errors
type SchedulingError string

// Error implements the error interface
func (e SchedulingError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrFlightNotFound        SchedulingError = "flight not found"
	ErrFlightNotScheduled    SchedulingError = "flight is no longer scheduled"
	ErrDuplicateFlightNumber SchedulingError = "a scheduled flight with this number already exists"
	ErrUnknownAircraft       SchedulingError = "unknown aircraft type"
	ErrInvalidPosition       SchedulingError = "position does not exist on this aircraft"
	ErrPositionFull          SchedulingError = "position is at maximum capacity"
	ErrAlreadyAllocated      SchedulingError = "user already holds an allocation on this flight"
	ErrNotAllocated          SchedulingError = "user holds no allocation on this flight"
	ErrNotDispatcher         SchedulingError = "only the flight's dispatcher may do this"
	ErrInvalidIATACode       SchedulingError = "IATA codes must be exactly 3 letters"
	ErrInvalidFlightNumber   SchedulingError = "flight number cannot be empty"
	ErrNilConfig             SchedulingError = "config cannot be nil"
	ErrNilFlightRepo         SchedulingError = "flight repository cannot be nil"
	ErrNilClock              SchedulingError = "clock cannot be nil"
	ErrNilUUIDGenerator      SchedulingError = "UUID generator cannot be nil"
)
