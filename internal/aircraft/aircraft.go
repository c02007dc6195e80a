// Package aircraft holds the fleet definitions and crew capacity model.
// Only the flight attendant count varies per aircraft type; every other
// position has the same capacity across the fleet.
package aircraft

// Aircraft describes one fleet type
type Aircraft struct {
	// Name is the full display name, e.g. "Boeing 737-800 NEXT"
	Name string

	// ShortName is the compact name used in embeds
	ShortName string

	// FlightAttendants is the cabin crew capacity for this type
	FlightAttendants int
}

// Position describes one crew position and its capacity on a given aircraft
type Position struct {
	// Name is the position name, e.g. "Captain"
	Name string

	// Department is the department the position belongs to
	Department string

	// Max is the maximum number of occupants for the position
	Max int
}

// Choice is a label/value pair for the aircraft select menu
type Choice struct {
	Name  string
	Value string
}

// fleet is keyed by the aircraft key stored on flights
var fleet = map[string]Aircraft{
	"737-800 NEXT": {
		Name:             "Boeing 737-800 NEXT",
		ShortName:        "737-800 NEXT",
		FlightAttendants: 4,
	},
	// Add future aircraft here and in fleetOrder:
	// "777-300ER": {Name: "Boeing 777-300ER", ShortName: "777-300ER", FlightAttendants: 10},
}

// fleetOrder fixes the dropdown order; map iteration would shuffle it
var fleetOrder = []string{
	"737-800 NEXT",
}

const (
	// DepartmentCustomerService is the customer facing department
	DepartmentCustomerService = "Customer Service"

	// DepartmentRampService is the ground handling department
	DepartmentRampService = "Ramp Service Agents"

	// DepartmentFlightOperations is the flight deck department
	DepartmentFlightOperations = "Flight Operations"
)

// Departments is the display order for allocation sheets and dropdowns
var Departments = []string{
	DepartmentCustomerService,
	DepartmentRampService,
	DepartmentFlightOperations,
}

// PositionFlightAttendant is the one position whose capacity is set per
// aircraft type
const PositionFlightAttendant = "Flight Attendant"

// fixedPositions lists every crew position in declaration order. A Max of
// zero means the capacity comes from the aircraft type.
var fixedPositions = []Position{
	{Name: "Customer Service Supervisor", Department: DepartmentCustomerService, Max: 1},
	{Name: "Gate Agent", Department: DepartmentCustomerService, Max: 2},
	{Name: "Lounge Attendant", Department: DepartmentCustomerService, Max: 2},
	{Name: "Customer Service Representative", Department: DepartmentCustomerService, Max: 4},
	{Name: "Purser", Department: DepartmentCustomerService, Max: 1},
	{Name: PositionFlightAttendant, Department: DepartmentCustomerService, Max: 0},
	{Name: "Ramp Service Supervisor", Department: DepartmentRampService, Max: 1},
	{Name: "Ramp Service Agent", Department: DepartmentRampService, Max: 4},
	{Name: "Captain", Department: DepartmentFlightOperations, Max: 1},
	{Name: "First Officer", Department: DepartmentFlightOperations, Max: 1},
}

// Get returns the aircraft for a fleet key, or false if unknown
func Get(key string) (Aircraft, bool) {
	ac, ok := fleet[key]
	return ac, ok
}

// DisplayName returns the full name for a fleet key, falling back to the
// key itself for unknown types
func DisplayName(key string) string {
	if ac, ok := fleet[key]; ok {
		return ac.Name
	}
	return key
}

// PositionsFor returns every crew position for an aircraft type with the
// correct capacities, in stable display order. Returns nil for an unknown
// aircraft; callers must treat that as a terminal validation failure.
func PositionsFor(key string) []Position {
	ac, ok := fleet[key]
	if !ok {
		return nil
	}

	positions := make([]Position, 0, len(fixedPositions))
	for _, p := range fixedPositions {
		if p.Name == PositionFlightAttendant {
			p.Max = ac.FlightAttendants
		}
		positions = append(positions, p)
	}
	return positions
}

// PositionFor returns a single position for an aircraft type, or false if
// either the aircraft or the position is unknown
func PositionFor(key, position string) (Position, bool) {
	for _, p := range PositionsFor(key) {
		if p.Name == position {
			return p, true
		}
	}
	return Position{}, false
}

// Choices returns the aircraft options for the create/test dropdowns, in
// declared fleet order
func Choices() []Choice {
	choices := make([]Choice, 0, len(fleetOrder))
	for _, key := range fleetOrder {
		if ac, ok := fleet[key]; ok {
			choices = append(choices, Choice{Name: ac.Name, Value: key})
		}
	}
	return choices
}
