package viewsync

import "context"

// Service keeps the Discord-facing views of the schedule in step with the
// store. The store is the source of truth: every operation here re-renders
// from stored state, is safe to repeat, and treats individual view
// failures as log-and-continue rather than propagating them.
type Service interface {
	// PublishFlight runs the ordered propagation tasks for a new flight:
	// forum thread, calendar digests, announcement, scheduled event.
	// Task failures are isolated; the flight itself is already committed.
	PublishFlight(ctx context.Context, input *PublishFlightInput) error

	// SyncFlight re-renders the forum allocation sheet from stored state
	SyncFlight(ctx context.Context, input *SyncFlightInput) error

	// RetireFlight archives the forum thread, posts the archive embed for
	// cancelled flights, deletes the scheduled event and refreshes the
	// calendars
	RetireFlight(ctx context.Context, input *RetireFlightInput) error

	// SyncCalendars rebuilds every calendar digest from the schedule.
	// Also run at boot and on a timer to repair drift.
	SyncCalendars(ctx context.Context) error
}
