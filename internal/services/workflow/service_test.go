package workflow

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/common/uuid"
	"github.com/volare-va/crewbot/internal/models"
	flightRepo "github.com/volare-va/crewbot/internal/repositories/flight"
	"github.com/volare-va/crewbot/internal/services/scheduling"
)

const testActor = "actor-1"

func newTestService(t *testing.T) (Service, scheduling.Service) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo, err := flightRepo.NewRedis(&flightRepo.Config{RedisClient: client})
	require.NoError(t, err)

	scheduler, err := scheduling.New(&scheduling.Config{
		FlightRepo:    repo,
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuid.New(),
	})
	require.NoError(t, err)

	svc, err := New(&Config{
		Scheduler: scheduler,
		Clock:     &clock.DefaultClock{},
	})
	require.NoError(t, err)

	return svc, scheduler
}

func timestamps() (string, string) {
	now := time.Now().Unix()
	return fmt.Sprintf("%d", now+1800), fmt.Sprintf("%d", now+3600)
}

func runCreateToDetails(t *testing.T, svc Service) {
	t.Helper()

	_, err := svc.StartCreate(context.Background(), &StartCreateInput{ActorID: testActor})
	require.NoError(t, err)

	_, err = svc.SelectAircraft(context.Background(), &SelectAircraftInput{
		ActorID:  testActor,
		Aircraft: "737-800 NEXT",
	})
	require.NoError(t, err)
}

func TestNew_ValidatesConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = New(&Config{Clock: &clock.DefaultClock{}})
	assert.ErrorIs(t, err, ErrNilScheduler)
}

func TestCreateWorkflow_HappyPath(t *testing.T) {
	svc, scheduler := newTestService(t)
	ctx := context.Background()

	out, err := svc.StartCreate(ctx, &StartCreateInput{ActorID: testActor})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingAircraft, out.Session.State)
	assert.Equal(t, models.FlightTypeRegular, out.Session.FlightType)

	selOut, err := svc.SelectAircraft(ctx, &SelectAircraftInput{
		ActorID:  testActor,
		Aircraft: "737-800 NEXT",
	})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingDetails, selOut.Session.State)

	join, open := timestamps()
	detOut, err := svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "ua 1234",
		Departure:           "ewr",
		Destination:         "lax",
		EmployeeJoinTimeRaw: join,
		ServerOpenTimeRaw:   open,
	})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, detOut.Session.State)
	assert.Equal(t, "UA 1234", detOut.Session.FlightNumber)
	assert.Equal(t, "EWR", detOut.Session.Departure)

	confOut, err := svc.ConfirmCreate(ctx, &ConfirmCreateInput{
		ActorID:        testActor,
		DispatcherName: "dispatcher",
	})
	require.NoError(t, err)
	require.NotNil(t, confOut.Flight)
	assert.Equal(t, "UA 1234", confOut.Flight.FlightNumber)
	assert.Equal(t, testActor, confOut.Flight.DispatcherID)

	// Session is consumed
	_, err = svc.ConfirmCreate(ctx, &ConfirmCreateInput{ActorID: testActor})
	assert.ErrorIs(t, err, ErrSessionExpired)

	// And the flight really exists
	got, err := scheduler.GetScheduledFlightByNumber(ctx, &scheduling.GetScheduledFlightByNumberInput{
		FlightNumber: "UA 1234",
	})
	require.NoError(t, err)
	assert.Equal(t, confOut.Flight.ID, got.Flight.ID)
}

func TestStartCreate_SupersedesPriorSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	runCreateToDetails(t, svc)

	// Starting over puts the actor back at aircraft selection
	_, err := svc.StartCreate(ctx, &StartCreateInput{
		ActorID:    testActor,
		FlightType: models.FlightTypeTest,
	})
	require.NoError(t, err)

	join, open := timestamps()
	_, err = svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "UA 1",
		Departure:           "EWR",
		Destination:         "LAX",
		EmployeeJoinTimeRaw: join,
		ServerOpenTimeRaw:   open,
	})
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSelectAircraft_ConcurrentSameActor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartCreate(ctx, &StartCreateInput{ActorID: testActor})
	require.NoError(t, err)

	// discordgo runs every interaction handler in its own goroutine, so a
	// double-clicked select fires the same step concurrently. Each call
	// must either advance the session or report it expired; run under
	// -race this also proves no goroutine writes a session another reads.
	start := make(chan struct{})
	var wg sync.WaitGroup
	var advanced atomic.Int32
	for n := 0; n < 4; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.SelectAircraft(ctx, &SelectAircraftInput{
				ActorID:  testActor,
				Aircraft: "737-800 NEXT",
			})
			if err == nil {
				advanced.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrSessionExpired)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.GreaterOrEqual(t, advanced.Load(), int32(1))

	// The session landed in the details state exactly once
	join, open := timestamps()
	out, err := svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "UA 77",
		Departure:           "EWR",
		Destination:         "SFO",
		EmployeeJoinTimeRaw: join,
		ServerOpenTimeRaw:   open,
	})
	require.NoError(t, err)
	assert.Equal(t, "737-800 NEXT", out.Session.Aircraft)
}

func TestSubmitDetails_RejectsBadIATACode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	runCreateToDetails(t, svc)

	join, open := timestamps()
	_, err := svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "UA 1234",
		Departure:           "NEWARK",
		Destination:         "LAX",
		EmployeeJoinTimeRaw: join,
		ServerOpenTimeRaw:   open,
	})
	assert.ErrorIs(t, err, scheduling.ErrInvalidIATACode)

	// The session stays in the details state so the actor can resubmit
	out, err := svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "UA 1234",
		Departure:           "EWR",
		Destination:         "LAX",
		EmployeeJoinTimeRaw: join,
		ServerOpenTimeRaw:   open,
	})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, out.Session.State)
}

func TestSubmitDetails_RejectsBadTimestamp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	runCreateToDetails(t, svc)

	_, open := timestamps()
	for _, raw := range []string{"", "tomorrow", "-5", "<t:abc:F>"} {
		_, err := svc.SubmitDetails(ctx, &SubmitDetailsInput{
			ActorID:             testActor,
			FlightNumber:        "UA 1234",
			Departure:           "EWR",
			Destination:         "LAX",
			EmployeeJoinTimeRaw: raw,
			ServerOpenTimeRaw:   open,
		})
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "raw=%q", raw)
	}
}

func TestSubmitDetails_AcceptsDiscordTimestampToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	runCreateToDetails(t, svc)

	out, err := svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "UA 1234",
		Departure:           "EWR",
		Destination:         "LAX",
		EmployeeJoinTimeRaw: "<t:1723298400:F>",
		ServerOpenTimeRaw:   "<t:1723302000>",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1723298400), out.Session.EmployeeJoinTime)
	assert.Equal(t, int64(1723302000), out.Session.ServerOpenTime)
}

func TestSubmitDetails_RejectsDuplicateFlightNumber(t *testing.T) {
	svc, scheduler := newTestService(t)
	ctx := context.Background()

	now := time.Now().Unix()
	_, err := scheduler.CreateFlight(ctx, &scheduling.CreateFlightInput{
		FlightNumber:     "UA 1234",
		Departure:        "EWR",
		Destination:      "LAX",
		Aircraft:         "737-800 NEXT",
		EmployeeJoinTime: now + 1800,
		ServerOpenTime:   now + 3600,
		DispatcherID:     "someone-else",
	})
	require.NoError(t, err)

	runCreateToDetails(t, svc)

	join, open := timestamps()
	_, err = svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "UA 1234",
		Departure:           "EWR",
		Destination:         "LAX",
		EmployeeJoinTimeRaw: join,
		ServerOpenTimeRaw:   open,
	})
	assert.ErrorIs(t, err, scheduling.ErrDuplicateFlightNumber)
}

func TestSteps_WithoutSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SelectAircraft(ctx, &SelectAircraftInput{ActorID: testActor, Aircraft: "737-800 NEXT"})
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.SubmitDetails(ctx, &SubmitDetailsInput{ActorID: testActor})
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.ConfirmCreate(ctx, &ConfirmCreateInput{ActorID: testActor})
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.ConfirmDelete(ctx, &ConfirmDeleteInput{ActorID: testActor})
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.ConfirmEnd(ctx, &ConfirmEndInput{ActorID: testActor})
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCancel_DropsSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	runCreateToDetails(t, svc)

	require.NoError(t, svc.Cancel(ctx, &CancelInput{ActorID: testActor}))

	join, open := timestamps()
	_, err := svc.SubmitDetails(ctx, &SubmitDetailsInput{
		ActorID:             testActor,
		FlightNumber:        "UA 1234",
		Departure:           "EWR",
		Destination:         "LAX",
		EmployeeJoinTimeRaw: join,
		ServerOpenTimeRaw:   open,
	})
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestDeleteWorkflow(t *testing.T) {
	svc, scheduler := newTestService(t)
	ctx := context.Background()

	now := time.Now().Unix()
	created, err := scheduler.CreateFlight(ctx, &scheduling.CreateFlightInput{
		FlightNumber:     "UA 42",
		Departure:        "EWR",
		Destination:      "SFO",
		Aircraft:         "737-800 NEXT",
		EmployeeJoinTime: now + 1800,
		ServerOpenTime:   now + 3600,
		DispatcherID:     testActor,
	})
	require.NoError(t, err)

	_, err = svc.StartDelete(ctx, &StartDeleteInput{ActorID: testActor, FlightID: created.Flight.ID})
	require.NoError(t, err)

	out, err := svc.ConfirmDelete(ctx, &ConfirmDeleteInput{ActorID: testActor})
	require.NoError(t, err)
	assert.Equal(t, models.FlightStatusCancelled, out.Flight.Status)

	// Consumed
	_, err = svc.ConfirmDelete(ctx, &ConfirmDeleteInput{ActorID: testActor})
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestEndWorkflow_DispatcherOnly(t *testing.T) {
	svc, scheduler := newTestService(t)
	ctx := context.Background()

	now := time.Now().Unix()
	created, err := scheduler.CreateFlight(ctx, &scheduling.CreateFlightInput{
		FlightNumber:     "UA 42",
		Departure:        "EWR",
		Destination:      "SFO",
		Aircraft:         "737-800 NEXT",
		EmployeeJoinTime: now + 1800,
		ServerOpenTime:   now + 3600,
		DispatcherID:     "the-dispatcher",
	})
	require.NoError(t, err)

	_, err = svc.StartEnd(ctx, &StartEndInput{ActorID: testActor, FlightID: created.Flight.ID})
	require.NoError(t, err)

	_, err = svc.ConfirmEnd(ctx, &ConfirmEndInput{ActorID: testActor})
	assert.ErrorIs(t, err, scheduling.ErrNotDispatcher)

	// The failed confirm consumed the session
	_, err = svc.ConfirmEnd(ctx, &ConfirmEndInput{ActorID: testActor})
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestEndWorkflow_HappyPath(t *testing.T) {
	svc, scheduler := newTestService(t)
	ctx := context.Background()

	now := time.Now().Unix()
	created, err := scheduler.CreateFlight(ctx, &scheduling.CreateFlightInput{
		FlightNumber:     "UA 42",
		Departure:        "EWR",
		Destination:      "SFO",
		Aircraft:         "737-800 NEXT",
		EmployeeJoinTime: now + 1800,
		ServerOpenTime:   now + 3600,
		DispatcherID:     testActor,
	})
	require.NoError(t, err)

	_, err = svc.StartEnd(ctx, &StartEndInput{ActorID: testActor, FlightID: created.Flight.ID})
	require.NoError(t, err)

	out, err := svc.ConfirmEnd(ctx, &ConfirmEndInput{ActorID: testActor})
	require.NoError(t, err)
	assert.Equal(t, models.FlightStatusCompleted, out.Flight.Status)
}
