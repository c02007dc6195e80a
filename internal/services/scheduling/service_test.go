package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/volare-va/crewbot/internal/common/clock/mocks"
	uuidMocks "github.com/volare-va/crewbot/internal/common/uuid/mocks"
	"github.com/volare-va/crewbot/internal/models"
	flightRepo "github.com/volare-va/crewbot/internal/repositories/flight"
	flightMocks "github.com/volare-va/crewbot/internal/repositories/flight/mocks"
)

type SchedulingServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockFlightRepo *flightMocks.MockRepository
	mockClock      *clockMocks.MockClock
	mockUUID       *uuidMocks.MockUUID
	svc            Service
	ctx            context.Context

	testTime     time.Time
	testFlightID string

	baseFlight *models.Flight
}

func (s *SchedulingServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockFlightRepo = flightMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 8, 10, 14, 0, 0, 0, time.UTC)
	s.testFlightID = "test-flight-id"

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	s.baseFlight = &models.Flight{
		ID:               s.testFlightID,
		FlightNumber:     "UA 1234",
		Departure:        "EWR",
		Destination:      "LAX",
		Aircraft:         "737-800 NEXT",
		EmployeeJoinTime: s.testTime.Unix(),
		ServerOpenTime:   s.testTime.Unix() + 1800,
		Type:             models.FlightTypeRegular,
		DispatcherID:     "dispatcher-id",
		DispatcherName:   "dispatcher",
		Status:           models.FlightStatusScheduled,
		Allocations:      []models.Allocation{},
		CreatedAt:        s.testTime,
	}

	svc, err := New(&Config{
		FlightRepo:    s.mockFlightRepo,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *SchedulingServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSchedulingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulingServiceTestSuite))
}

// expectUpdate wires the mock repository to run the update function against
// a copy of the given flight, the way the real repository does.
func (s *SchedulingServiceTestSuite) expectUpdate(fixture *models.Flight) {
	s.mockFlightRepo.EXPECT().
		UpdateFlight(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *flightRepo.UpdateFlightInput) (*models.Flight, error) {
			f := *fixture
			f.Allocations = append([]models.Allocation{}, fixture.Allocations...)
			if err := input.Update(&f); err != nil {
				return nil, err
			}
			return &f, nil
		})
}

func (s *SchedulingServiceTestSuite) TestCreateFlight() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testFlightID)
	s.mockFlightRepo.EXPECT().
		CreateFlight(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *flightRepo.CreateFlightInput) error {
			s.Equal("UA 1234", input.Flight.FlightNumber)
			s.Equal("EWR", input.Flight.Departure)
			s.Equal(models.FlightStatusScheduled, input.Flight.Status)
			s.Equal(models.FlightTypeRegular, input.Flight.Type)
			return nil
		})

	out, err := s.svc.CreateFlight(s.ctx, &CreateFlightInput{
		FlightNumber:     "ua 1234",
		Departure:        "ewr",
		Destination:      "lax",
		Aircraft:         "737-800 NEXT",
		EmployeeJoinTime: s.testTime.Unix(),
		ServerOpenTime:   s.testTime.Unix() + 1800,
		DispatcherID:     "dispatcher-id",
		DispatcherName:   "dispatcher",
	})
	s.Require().NoError(err)
	s.Equal(s.testFlightID, out.Flight.ID)
	s.Equal("UA 1234", out.Flight.FlightNumber)
}

func (s *SchedulingServiceTestSuite) TestCreateFlightInvalidIATA() {
	_, err := s.svc.CreateFlight(s.ctx, &CreateFlightInput{
		FlightNumber: "UA 1",
		Departure:    "NYC4", // not 3 letters
		Destination:  "LAX",
		Aircraft:     "737-800 NEXT",
	})
	s.ErrorIs(err, ErrInvalidIATACode)
}

func (s *SchedulingServiceTestSuite) TestCreateFlightUnknownAircraft() {
	_, err := s.svc.CreateFlight(s.ctx, &CreateFlightInput{
		FlightNumber: "UA 1",
		Departure:    "EWR",
		Destination:  "LAX",
		Aircraft:     "A380",
	})
	s.ErrorIs(err, ErrUnknownAircraft)
}

func (s *SchedulingServiceTestSuite) TestCreateFlightDuplicateNumber() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testFlightID)
	s.mockFlightRepo.EXPECT().
		CreateFlight(gomock.Any(), gomock.Any()).
		Return(flightRepo.ErrDuplicateFlightNumber)

	_, err := s.svc.CreateFlight(s.ctx, &CreateFlightInput{
		FlightNumber: "UA 1234",
		Departure:    "EWR",
		Destination:  "LAX",
		Aircraft:     "737-800 NEXT",
	})
	s.ErrorIs(err, ErrDuplicateFlightNumber)
}

func (s *SchedulingServiceTestSuite) TestAllocateSuccess() {
	s.expectUpdate(s.baseFlight)

	out, err := s.svc.Allocate(s.ctx, &AllocateInput{
		FlightID: s.testFlightID,
		UserID:   "user-1",
		Username: "crew",
		Position: "Captain",
	})
	s.Require().NoError(err)
	s.Equal("Captain", out.Allocation.Position)
	s.Equal(s.testTime, out.Allocation.AllocatedAt)
	s.Len(out.Flight.Allocations, 1)
}

func (s *SchedulingServiceTestSuite) TestAllocateAlreadyAllocated() {
	fixture := *s.baseFlight
	fixture.Allocations = []models.Allocation{
		{UserID: "user-1", Username: "crew", Position: "Gate Agent", AllocatedAt: s.testTime},
	}
	s.expectUpdate(&fixture)

	_, err := s.svc.Allocate(s.ctx, &AllocateInput{
		FlightID: s.testFlightID,
		UserID:   "user-1",
		Username: "crew",
		Position: "Captain",
	})
	s.ErrorIs(err, ErrAlreadyAllocated)
}

func (s *SchedulingServiceTestSuite) TestAllocateInvalidPosition() {
	s.expectUpdate(s.baseFlight)

	_, err := s.svc.Allocate(s.ctx, &AllocateInput{
		FlightID: s.testFlightID,
		UserID:   "user-1",
		Username: "crew",
		Position: "Navigator",
	})
	s.ErrorIs(err, ErrInvalidPosition)
}

// Captain has fixed capacity 1 regardless of aircraft, so a second claim
// must fail even though cabin crew slots remain open.
func (s *SchedulingServiceTestSuite) TestAllocatePositionFull() {
	fixture := *s.baseFlight
	fixture.Allocations = []models.Allocation{
		{UserID: "user-1", Username: "crew", Position: "Captain", AllocatedAt: s.testTime},
	}
	s.expectUpdate(&fixture)

	_, err := s.svc.Allocate(s.ctx, &AllocateInput{
		FlightID: s.testFlightID,
		UserID:   "user-2",
		Username: "other",
		Position: "Captain",
	})
	s.ErrorIs(err, ErrPositionFull)
}

func (s *SchedulingServiceTestSuite) TestAllocateFlightNotScheduled() {
	fixture := *s.baseFlight
	fixture.Status = models.FlightStatusCompleted
	s.expectUpdate(&fixture)

	_, err := s.svc.Allocate(s.ctx, &AllocateInput{
		FlightID: s.testFlightID,
		UserID:   "user-1",
		Username: "crew",
		Position: "Captain",
	})
	s.ErrorIs(err, ErrFlightNotScheduled)
}

func (s *SchedulingServiceTestSuite) TestAllocateFlightNotFound() {
	s.mockFlightRepo.EXPECT().
		UpdateFlight(gomock.Any(), gomock.Any()).
		Return(nil, flightRepo.ErrFlightNotFound)

	_, err := s.svc.Allocate(s.ctx, &AllocateInput{
		FlightID: "missing",
		UserID:   "user-1",
		Username: "crew",
		Position: "Captain",
	})
	s.ErrorIs(err, ErrFlightNotFound)
}

func (s *SchedulingServiceTestSuite) TestUnallocateSuccess() {
	fixture := *s.baseFlight
	fixture.Allocations = []models.Allocation{
		{UserID: "user-1", Username: "crew", Position: "Captain", AllocatedAt: s.testTime},
		{UserID: "user-2", Username: "other", Position: "Gate Agent", AllocatedAt: s.testTime},
	}
	s.expectUpdate(&fixture)

	out, err := s.svc.Unallocate(s.ctx, &UnallocateInput{
		FlightID: s.testFlightID,
		UserID:   "user-1",
	})
	s.Require().NoError(err)
	s.Equal("Captain", out.Removed.Position)
	s.Len(out.Flight.Allocations, 1)
	s.Equal("user-2", out.Flight.Allocations[0].UserID)
}

func (s *SchedulingServiceTestSuite) TestUnallocateNotAllocated() {
	s.expectUpdate(s.baseFlight)

	_, err := s.svc.Unallocate(s.ctx, &UnallocateInput{
		FlightID: s.testFlightID,
		UserID:   "user-1",
	})
	s.ErrorIs(err, ErrNotAllocated)
}

func (s *SchedulingServiceTestSuite) TestEditFlight() {
	s.expectUpdate(s.baseFlight)

	out, err := s.svc.EditFlight(s.ctx, &EditFlightInput{
		FlightID:       s.testFlightID,
		Departure:      "sfo",
		ServerOpenTime: s.testTime.Unix() + 7200,
	})
	s.Require().NoError(err)
	s.Equal("SFO", out.Flight.Departure)
	s.Equal("LAX", out.Flight.Destination)
	s.Len(out.Changes, 2)
}

func (s *SchedulingServiceTestSuite) TestEditFlightInvalidIATA() {
	_, err := s.svc.EditFlight(s.ctx, &EditFlightInput{
		FlightID:  s.testFlightID,
		Departure: "NYC1",
	})
	s.ErrorIs(err, ErrInvalidIATACode)
}

func (s *SchedulingServiceTestSuite) TestCompleteFlight() {
	s.expectUpdate(s.baseFlight)

	out, err := s.svc.CompleteFlight(s.ctx, &CompleteFlightInput{
		FlightID:    s.testFlightID,
		RequestedBy: "dispatcher-id",
	})
	s.Require().NoError(err)
	s.Equal(models.FlightStatusCompleted, out.Flight.Status)
	s.Equal(s.testTime, out.Flight.CompletedAt)
}

func (s *SchedulingServiceTestSuite) TestCompleteFlightNotDispatcher() {
	s.expectUpdate(s.baseFlight)

	_, err := s.svc.CompleteFlight(s.ctx, &CompleteFlightInput{
		FlightID:    s.testFlightID,
		RequestedBy: "someone-else",
	})
	s.ErrorIs(err, ErrNotDispatcher)
}

func (s *SchedulingServiceTestSuite) TestCancelFlight() {
	s.expectUpdate(s.baseFlight)

	out, err := s.svc.CancelFlight(s.ctx, &CancelFlightInput{FlightID: s.testFlightID})
	s.Require().NoError(err)
	s.Equal(models.FlightStatusCancelled, out.Flight.Status)
	s.Equal(s.testTime, out.Flight.ArchivedAt)
}

func (s *SchedulingServiceTestSuite) TestListOpenPositions() {
	fixture := *s.baseFlight
	fixture.Allocations = []models.Allocation{
		{UserID: "user-1", Username: "crew", Position: "Captain", AllocatedAt: s.testTime},
	}
	s.mockFlightRepo.EXPECT().
		GetFlight(gomock.Any(), &flightRepo.GetFlightInput{FlightID: s.testFlightID}).
		Return(&fixture, nil)

	out, err := s.svc.ListOpenPositions(s.ctx, &ListOpenPositionsInput{FlightID: s.testFlightID})
	s.Require().NoError(err)
	s.Require().Len(out.Departments, 3)
	s.Equal("Customer Service", out.Departments[0].Department)
	s.Equal("Ramp Service Agents", out.Departments[1].Department)
	s.Equal("Flight Operations", out.Departments[2].Department)

	var captain *PositionCount
	for i := range out.Departments[2].Positions {
		if out.Departments[2].Positions[i].Name == "Captain" {
			captain = &out.Departments[2].Positions[i]
		}
	}
	s.Require().NotNil(captain)
	s.Equal(1, captain.Filled)
	s.Equal(1, captain.Max)
	// Full positions stay in the display list but are not selectable
	s.False(captain.Selectable)
}

func (s *SchedulingServiceTestSuite) TestListScheduledFlightsFilters() {
	other := *s.baseFlight
	other.ID = "other-flight"
	other.FlightNumber = "UA 2"
	other.DispatcherID = "someone-else"
	other.Allocations = []models.Allocation{
		{UserID: "user-1", Username: "crew", Position: "Captain", AllocatedAt: s.testTime},
	}

	s.mockFlightRepo.EXPECT().
		ListScheduledFlights(gomock.Any(), gomock.Any()).
		Return(&flightRepo.ListScheduledFlightsOutput{
			Flights: []*models.Flight{s.baseFlight, &other},
		}, nil).
		Times(2)

	out, err := s.svc.ListScheduledFlights(s.ctx, &ListScheduledFlightsInput{DispatcherID: "dispatcher-id"})
	s.Require().NoError(err)
	s.Require().Len(out.Flights, 1)
	s.Equal(s.testFlightID, out.Flights[0].ID)

	out, err = s.svc.ListScheduledFlights(s.ctx, &ListScheduledFlightsInput{OccupantID: "user-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Flights, 1)
	s.Equal("other-flight", out.Flights[0].ID)
}
