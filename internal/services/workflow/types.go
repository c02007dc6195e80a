package workflow

import (
	"time"

	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/models"
	"github.com/volare-va/crewbot/internal/services/scheduling"
)

// SessionKind identifies which multi-step command a session belongs to
type SessionKind string

const (
	// KindCreate is the create-flight workflow (regular, premium or test)
	KindCreate SessionKind = "create"

	// KindDelete is the delete-flight confirmation workflow
	KindDelete SessionKind = "delete"

	// KindEnd is the end-flight confirmation workflow
	KindEnd SessionKind = "end"
)

// SessionState is the position of a session in its workflow
type SessionState string

const (
	// StateAwaitingAircraft waits for the aircraft selection
	StateAwaitingAircraft SessionState = "awaiting_aircraft"

	// StateAwaitingDetails waits for the flight details modal
	StateAwaitingDetails SessionState = "awaiting_details"

	// StateAwaitingConfirmation waits for the confirm/cancel buttons
	StateAwaitingConfirmation SessionState = "awaiting_confirmation"
)

// Session is one actor's in-progress multi-step command. Sessions live in
// process memory only: a restart abandons every in-flight session, and a
// new session start silently supersedes the actor's previous one.
type Session struct {
	// ActorID is the Discord user who owns the session
	ActorID string

	// Kind is the workflow the session belongs to
	Kind SessionKind

	// State is the expected next step
	State SessionState

	// FlightType is the category for create sessions
	FlightType models.FlightType

	// Collected create fields
	Aircraft         string
	FlightNumber     string
	Departure        string
	Destination      string
	EmployeeJoinTime int64
	ServerOpenTime   int64

	// FlightID is the target for delete/end sessions
	FlightID string

	// StartedAt is when the session was started
	StartedAt time.Time
}

// Config holds configuration for the workflow service
type Config struct {
	// Service dependencies
	Scheduler scheduling.Service
	Clock     clock.Clock

	// Logger, optional
	Logger *zap.SugaredLogger
}

// StartCreateInput begins a create session
type StartCreateInput struct {
	ActorID    string
	FlightType models.FlightType
}

// StartCreateOutput contains the new session
type StartCreateOutput struct {
	Session *Session
}

// SelectAircraftInput records the aircraft choice
type SelectAircraftInput struct {
	ActorID  string
	Aircraft string
}

// SelectAircraftOutput contains the advanced session
type SelectAircraftOutput struct {
	Session *Session
}

// SubmitDetailsInput carries the raw modal fields. Timestamps accept unix
// seconds or a Discord <t:...:F> token.
type SubmitDetailsInput struct {
	ActorID             string
	FlightNumber        string
	Departure           string
	Destination         string
	EmployeeJoinTimeRaw string
	ServerOpenTimeRaw   string
}

// SubmitDetailsOutput contains the session ready for confirmation
type SubmitDetailsOutput struct {
	Session *Session
}

// ConfirmCreateInput commits a create session
type ConfirmCreateInput struct {
	ActorID        string
	DispatcherName string
}

// ConfirmCreateOutput contains the created flight
type ConfirmCreateOutput struct {
	Flight *models.Flight
}

// StartDeleteInput begins a delete confirmation session
type StartDeleteInput struct {
	ActorID  string
	FlightID string
}

// StartDeleteOutput contains the new session
type StartDeleteOutput struct {
	Session *Session
}

// ConfirmDeleteInput commits a delete session
type ConfirmDeleteInput struct {
	ActorID string
}

// ConfirmDeleteOutput contains the cancelled flight
type ConfirmDeleteOutput struct {
	Flight *models.Flight
}

// StartEndInput begins an end confirmation session
type StartEndInput struct {
	ActorID  string
	FlightID string
}

// StartEndOutput contains the new session
type StartEndOutput struct {
	Session *Session
}

// ConfirmEndInput commits an end session
type ConfirmEndInput struct {
	ActorID string
}

// ConfirmEndOutput contains the completed flight
type ConfirmEndOutput struct {
	Flight *models.Flight
}

// CancelInput abandons the actor's session, whatever its kind
type CancelInput struct {
	ActorID string
}
