package viewsync

import (
	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/models"
	flightRepo "github.com/volare-va/crewbot/internal/repositories/flight"
	"github.com/volare-va/crewbot/internal/repositories/viewref"
)

// View names used as keys in the viewref repository
const (
	ViewPublicCalendar = "calendar:public"
	ViewStaffCalendar  = "calendar:staff"
)

// calendarSearchLimit bounds the channel search tier of the repair chain
const calendarSearchLimit = 20

// Settings carries the Discord identifiers and presentation knobs the
// synchronizer needs
type Settings struct {
	// StaffGuildID is the guild holding the forum and archive channels
	StaffGuildID string

	// CalendarGuildID is the public guild holding the calendar channel
	// and the scheduled events
	CalendarGuildID string

	// ForumChannelID is the forum for crew allocation threads
	ForumChannelID string

	// CmdsChannelID is mentioned in the flight info embed as the place
	// to run /allocate
	CmdsChannelID string

	// PublicCalendarChannelID hosts the public digest and announcements
	PublicCalendarChannelID string

	// StaffCalendarChannelID hosts the staff digest
	StaffCalendarChannelID string

	// ArchiveChannelID receives archived allocation sheets
	ArchiveChannelID string

	// TailEmoji decorates calendar lines
	TailEmoji string

	// EmbedColor is the default embed color
	EmbedColor int

	// EventLocation is attached to scheduled events
	EventLocation string
}

// Config holds configuration for the view synchronizer
type Config struct {
	// Service dependencies
	Surface     Surface
	FlightRepo  flightRepo.Repository
	ViewRefRepo viewref.Repository
	Clock       clock.Clock

	// Settings, required
	Settings Settings

	// Logger, optional
	Logger *zap.SugaredLogger
}

// PublishFlightInput fans a freshly created flight out to its views
type PublishFlightInput struct {
	Flight *models.Flight
}

// SyncFlightInput re-renders a flight's forum allocation sheet
type SyncFlightInput struct {
	FlightID string
}

// RetireFlightInput tears down the views of a completed or cancelled
// flight. The flight must already carry its terminal status.
type RetireFlightInput struct {
	Flight *models.Flight
}
