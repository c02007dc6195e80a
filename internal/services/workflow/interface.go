package workflow

import "context"

// Service drives the multi-step command workflows. Every step validates
// that the actor's session exists and is in the expected state; anything
// else is ErrSessionExpired.
type Service interface {
	// StartCreate begins a create-flight session, superseding any prior
	// session for the actor
	StartCreate(ctx context.Context, input *StartCreateInput) (*StartCreateOutput, error)

	// SelectAircraft records the aircraft and advances to details
	SelectAircraft(ctx context.Context, input *SelectAircraftInput) (*SelectAircraftOutput, error)

	// SubmitDetails validates and merges the modal fields. On a
	// validation failure the session stays in the details state.
	SubmitDetails(ctx context.Context, input *SubmitDetailsInput) (*SubmitDetailsOutput, error)

	// ConfirmCreate commits the session as a new flight
	ConfirmCreate(ctx context.Context, input *ConfirmCreateInput) (*ConfirmCreateOutput, error)

	// StartDelete begins a delete confirmation session
	StartDelete(ctx context.Context, input *StartDeleteInput) (*StartDeleteOutput, error)

	// ConfirmDelete commits a delete session, cancelling the flight
	ConfirmDelete(ctx context.Context, input *ConfirmDeleteInput) (*ConfirmDeleteOutput, error)

	// StartEnd begins an end confirmation session
	StartEnd(ctx context.Context, input *StartEndInput) (*StartEndOutput, error)

	// ConfirmEnd commits an end session, completing the flight
	ConfirmEnd(ctx context.Context, input *ConfirmEndInput) (*ConfirmEndOutput, error)

	// Cancel abandons the actor's session
	Cancel(ctx context.Context, input *CancelInput) error
}
