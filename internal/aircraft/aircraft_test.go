package aircraft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionsForKnownAircraft(t *testing.T) {
	positions := PositionsFor("737-800 NEXT")
	require.NotNil(t, positions)
	assert.Len(t, positions, 10)

	byName := make(map[string]Position)
	for _, p := range positions {
		byName[p.Name] = p
	}

	// Flight attendant capacity comes from the aircraft type
	assert.Equal(t, 4, byName[PositionFlightAttendant].Max)
	assert.Equal(t, DepartmentCustomerService, byName[PositionFlightAttendant].Department)

	// Fixed positions keep their fleet-wide capacities
	assert.Equal(t, 1, byName["Captain"].Max)
	assert.Equal(t, 1, byName["First Officer"].Max)
	assert.Equal(t, 4, byName["Ramp Service Agent"].Max)
	assert.Equal(t, 1, byName["Purser"].Max)
}

func TestPositionsForUnknownAircraft(t *testing.T) {
	assert.Nil(t, PositionsFor("A380"))
}

func TestPositionsForStableDepartmentOrder(t *testing.T) {
	positions := PositionsFor("737-800 NEXT")
	require.NotNil(t, positions)

	// Departments must appear grouped in declared order
	seen := map[string]int{}
	order := []string{}
	for _, p := range positions {
		if _, ok := seen[p.Department]; !ok {
			seen[p.Department] = len(order)
			order = append(order, p.Department)
		}
	}
	assert.Equal(t, Departments, order)
}

func TestPositionFor(t *testing.T) {
	p, ok := PositionFor("737-800 NEXT", "Gate Agent")
	require.True(t, ok)
	assert.Equal(t, 2, p.Max)

	_, ok = PositionFor("737-800 NEXT", "Navigator")
	assert.False(t, ok)

	_, ok = PositionFor("A380", "Captain")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Boeing 737-800 NEXT", DisplayName("737-800 NEXT"))
	assert.Equal(t, "A380", DisplayName("A380"))
}

func TestChoices(t *testing.T) {
	choices := Choices()
	require.NotEmpty(t, choices)
	assert.Contains(t, choices, Choice{Name: "Boeing 737-800 NEXT", Value: "737-800 NEXT"})
}

func TestChoicesFollowDeclaredFleetOrder(t *testing.T) {
	choices := Choices()
	require.Len(t, choices, len(fleetOrder))

	// Dropdown order is the declared order, run after run
	for i, key := range fleetOrder {
		assert.Equal(t, key, choices[i].Value)
	}
	assert.Equal(t, Choices(), choices)
}
