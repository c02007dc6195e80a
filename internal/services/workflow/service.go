package workflow

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/models"
	"github.com/volare-va/crewbot/internal/services/scheduling"
)

// discordTimestampPattern matches tokens like <t:1723298400:F>
var discordTimestampPattern = regexp.MustCompile(`^<t:(\d+)(?::[a-zA-Z])?>$`)

// service implements the Service interface. The session store is a plain
// in-process map: sessions are defined as volatile and never survive a
// restart.
type service struct {
	scheduler scheduling.Service
	clock     clock.Clock
	log       *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates a new workflow service
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &service{
		scheduler: cfg.Scheduler,
		clock:     cfg.Clock,
		log:       log,
		sessions:  make(map[string]*Session),
	}, nil
}

// StartCreate begins a create-flight session. Any prior session for the
// actor is silently discarded.
func (s *service) StartCreate(ctx context.Context, input *StartCreateInput) (*StartCreateOutput, error) {
	flightType := input.FlightType
	if flightType == "" {
		flightType = models.FlightTypeRegular
	}

	session := &Session{
		ActorID:    input.ActorID,
		Kind:       KindCreate,
		State:      StateAwaitingAircraft,
		FlightType: flightType,
		StartedAt:  s.clock.Now(),
	}
	s.put(session)

	return &StartCreateOutput{Session: session}, nil
}

// SelectAircraft records the aircraft choice and advances the session
func (s *service) SelectAircraft(ctx context.Context, input *SelectAircraftInput) (*SelectAircraftOutput, error) {
	session, err := s.take(input.ActorID, KindCreate, StateAwaitingAircraft)
	if err != nil {
		return nil, err
	}

	session.Aircraft = input.Aircraft
	session.State = StateAwaitingDetails
	s.put(session)

	return &SelectAircraftOutput{Session: session}, nil
}

// SubmitDetails validates the modal fields and advances the session to
// confirmation. A validation failure leaves the session in the details
// state so the actor can resubmit.
func (s *service) SubmitDetails(ctx context.Context, input *SubmitDetailsInput) (*SubmitDetailsOutput, error) {
	session, err := s.take(input.ActorID, KindCreate, StateAwaitingDetails)
	if err != nil {
		return nil, err
	}

	flightNumber := strings.ToUpper(strings.TrimSpace(input.FlightNumber))
	departure := strings.ToUpper(strings.TrimSpace(input.Departure))
	destination := strings.ToUpper(strings.TrimSpace(input.Destination))

	if flightNumber == "" {
		return nil, scheduling.ErrInvalidFlightNumber
	}
	if !isIATACode(departure) || !isIATACode(destination) {
		return nil, scheduling.ErrInvalidIATACode
	}

	joinTime, err := parseFlexTimestamp(input.EmployeeJoinTimeRaw)
	if err != nil {
		return nil, err
	}
	openTime, err := parseFlexTimestamp(input.ServerOpenTimeRaw)
	if err != nil {
		return nil, err
	}

	// Early uniqueness check. A racing creation can still slip between
	// here and commit; the store's own constraint catches that at
	// ConfirmCreate.
	_, err = s.scheduler.GetScheduledFlightByNumber(ctx, &scheduling.GetScheduledFlightByNumberInput{
		FlightNumber: flightNumber,
	})
	if err == nil {
		return nil, scheduling.ErrDuplicateFlightNumber
	}
	if !errors.Is(err, scheduling.ErrFlightNotFound) {
		return nil, err
	}

	session.FlightNumber = flightNumber
	session.Departure = departure
	session.Destination = destination
	session.EmployeeJoinTime = joinTime
	session.ServerOpenTime = openTime
	session.State = StateAwaitingConfirmation
	s.put(session)

	return &SubmitDetailsOutput{Session: session}, nil
}

// ConfirmCreate commits the session as a new flight and drops the session.
// A duplicate flight number here is an expected race outcome, surfaced to
// the actor, not a bug.
func (s *service) ConfirmCreate(ctx context.Context, input *ConfirmCreateInput) (*ConfirmCreateOutput, error) {
	session, err := s.take(input.ActorID, KindCreate, StateAwaitingConfirmation)
	if err != nil {
		return nil, err
	}

	out, err := s.scheduler.CreateFlight(ctx, &scheduling.CreateFlightInput{
		FlightNumber:     session.FlightNumber,
		Departure:        session.Departure,
		Destination:      session.Destination,
		Aircraft:         session.Aircraft,
		EmployeeJoinTime: session.EmployeeJoinTime,
		ServerOpenTime:   session.ServerOpenTime,
		Type:             session.FlightType,
		DispatcherID:     session.ActorID,
		DispatcherName:   input.DispatcherName,
	})
	if err != nil {
		s.drop(input.ActorID)
		return nil, err
	}

	s.drop(input.ActorID)
	return &ConfirmCreateOutput{Flight: out.Flight}, nil
}

// StartDelete begins a delete confirmation session
func (s *service) StartDelete(ctx context.Context, input *StartDeleteInput) (*StartDeleteOutput, error) {
	session := &Session{
		ActorID:   input.ActorID,
		Kind:      KindDelete,
		State:     StateAwaitingConfirmation,
		FlightID:  input.FlightID,
		StartedAt: s.clock.Now(),
	}
	s.put(session)

	return &StartDeleteOutput{Session: session}, nil
}

// ConfirmDelete cancels the session's flight and drops the session
func (s *service) ConfirmDelete(ctx context.Context, input *ConfirmDeleteInput) (*ConfirmDeleteOutput, error) {
	session, err := s.take(input.ActorID, KindDelete, StateAwaitingConfirmation)
	if err != nil {
		return nil, err
	}

	out, err := s.scheduler.CancelFlight(ctx, &scheduling.CancelFlightInput{FlightID: session.FlightID})
	if err != nil {
		s.drop(input.ActorID)
		return nil, err
	}

	s.drop(input.ActorID)
	return &ConfirmDeleteOutput{Flight: out.Flight}, nil
}

// StartEnd begins an end confirmation session
func (s *service) StartEnd(ctx context.Context, input *StartEndInput) (*StartEndOutput, error) {
	session := &Session{
		ActorID:   input.ActorID,
		Kind:      KindEnd,
		State:     StateAwaitingConfirmation,
		FlightID:  input.FlightID,
		StartedAt: s.clock.Now(),
	}
	s.put(session)

	return &StartEndOutput{Session: session}, nil
}

// ConfirmEnd completes the session's flight and drops the session. Only
// the flight's dispatcher may complete it.
func (s *service) ConfirmEnd(ctx context.Context, input *ConfirmEndInput) (*ConfirmEndOutput, error) {
	session, err := s.take(input.ActorID, KindEnd, StateAwaitingConfirmation)
	if err != nil {
		return nil, err
	}

	out, err := s.scheduler.CompleteFlight(ctx, &scheduling.CompleteFlightInput{
		FlightID:    session.FlightID,
		RequestedBy: input.ActorID,
	})
	if err != nil {
		s.drop(input.ActorID)
		return nil, err
	}

	s.drop(input.ActorID)
	return &ConfirmEndOutput{Flight: out.Flight}, nil
}

// Cancel abandons the actor's session
func (s *service) Cancel(ctx context.Context, input *CancelInput) error {
	s.drop(input.ActorID)
	return nil
}

// put stores its own copy so no caller-held pointer aliases the map entry
func (s *service) put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ActorID] = &cp
}

// take returns a copy of the actor's session when it matches the expected
// kind and state; anything else is ErrSessionExpired. Returning a copy
// keeps the map entry private to the lock: callers mutate their copy and
// put it back, so concurrent interactions from the same actor never write
// the same Session.
func (s *service) take(actorID string, kind SessionKind, state SessionState) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[actorID]
	if !ok || session.Kind != kind || session.State != state {
		return nil, ErrSessionExpired
	}
	cp := *session
	return &cp, nil
}

func (s *service) drop(actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, actorID)
}

func isIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// parseFlexTimestamp accepts raw unix seconds or a Discord timestamp token
func parseFlexTimestamp(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)

	if m := discordTimestampPattern.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ts <= 0 {
		return 0, ErrInvalidTimestamp
	}
	return ts, nil
}
