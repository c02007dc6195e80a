package flight

import "github.com/volare-va/crewbot/internal/models"

type CreateFlightInput struct {
	Flight *models.Flight
}

type GetFlightInput struct {
	FlightID string
}

type GetScheduledFlightByNumberInput struct {
	FlightNumber string
}

type ListScheduledFlightsInput struct {
}

type ListScheduledFlightsOutput struct {
	Flights []*models.Flight
}

type UpdateFlightInput struct {
	FlightID string

	// Update mutates the freshly read flight in place. Returning an error
	// aborts the write and surfaces the error unchanged.
	Update func(*models.Flight) error
}
