package viewsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/models"
	flightRepo "github.com/volare-va/crewbot/internal/repositories/flight"
	"github.com/volare-va/crewbot/internal/repositories/viewref"
)

// eventDuration is the scheduled event length; the original server session
// runs about an hour
const eventDuration = time.Hour

// calendarView is one registered digest: where it lives and which flight
// types it shows
type calendarView struct {
	name         string
	channelID    string
	includes     func(models.FlightType) bool
	skipPreamble bool
}

type service struct {
	surface  Surface
	flights  flightRepo.Repository
	viewRefs viewref.Repository
	clock    clock.Clock
	settings Settings
	log      *zap.SugaredLogger

	views []calendarView

	// handles is the process-local tier of the repair chain: last known
	// message ID per view
	mu      sync.Mutex
	handles map[string]string
}

// New creates a new view synchronizer
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Surface == nil {
		return nil, ErrNilSurface
	}
	if cfg.FlightRepo == nil {
		return nil, ErrNilFlightRepo
	}
	if cfg.ViewRefRepo == nil {
		return nil, ErrNilViewRefRepo
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &service{
		surface:  cfg.Surface,
		flights:  cfg.FlightRepo,
		viewRefs: cfg.ViewRefRepo,
		clock:    cfg.Clock,
		settings: cfg.Settings,
		log:      log,
		handles:  make(map[string]string),
	}

	// The staff digest shows everything and drops the public preamble;
	// the public one hides test flights.
	if cfg.Settings.StaffCalendarChannelID != "" {
		s.views = append(s.views, calendarView{
			name:         ViewStaffCalendar,
			channelID:    cfg.Settings.StaffCalendarChannelID,
			includes:     func(models.FlightType) bool { return true },
			skipPreamble: true,
		})
	}
	if cfg.Settings.PublicCalendarChannelID != "" {
		s.views = append(s.views, calendarView{
			name:      ViewPublicCalendar,
			channelID: cfg.Settings.PublicCalendarChannelID,
			includes:  func(t models.FlightType) bool { return t != models.FlightTypeTest },
		})
	}

	return s, nil
}

// PublishFlight runs the propagation tasks in order. Each task failure is
// logged and swallowed so one broken view never blocks the rest; the store
// already holds the flight, and the periodic resync repairs the calendars.
func (s *service) PublishFlight(ctx context.Context, input *PublishFlightInput) error {
	f := input.Flight

	if err := s.publishForumThread(ctx, f); err != nil {
		s.log.Warnw("forum thread creation failed", "flight", f.FlightNumber, "error", err)
	}

	if err := s.SyncCalendars(ctx); err != nil {
		s.log.Warnw("calendar sync failed", "flight", f.FlightNumber, "error", err)
	}

	if f.Type != models.FlightTypeTest {
		if err := s.announce(f); err != nil {
			s.log.Warnw("announcement failed", "flight", f.FlightNumber, "error", err)
		}
		if err := s.publishEvent(ctx, f); err != nil {
			s.log.Warnw("scheduled event creation failed", "flight", f.FlightNumber, "error", err)
		}
	}

	return nil
}

// SyncFlight re-renders the forum allocation sheet from stored state
func (s *service) SyncFlight(ctx context.Context, input *SyncFlightInput) error {
	f, err := s.flights.GetFlight(ctx, &flightRepo.GetFlightInput{FlightID: input.FlightID})
	if err != nil {
		return err
	}
	if f.ForumThreadID == "" || f.ForumMessageID == "" {
		return nil
	}

	embeds := []*discordgo.MessageEmbed{
		flightInfoEmbed(f, s.settings.CmdsChannelID, s.settings.EmbedColor, s.clock.Now()),
		allocationEmbed(f, s.settings.EmbedColor, s.clock.Now()),
	}
	if err := s.surface.EditMessage(f.ForumThreadID, f.ForumMessageID, embeds); err != nil {
		s.log.Warnw("allocation sheet edit failed", "flight", f.FlightNumber, "error", err)
	}
	return nil
}

// RetireFlight tears down the views of a flight that just left the
// schedule. Cancelled flights get an archive embed; completed ones do not.
func (s *service) RetireFlight(ctx context.Context, input *RetireFlightInput) error {
	f := input.Flight

	if f.Status == models.FlightStatusCancelled && s.settings.ArchiveChannelID != "" {
		embeds := []*discordgo.MessageEmbed{
			archiveEmbed(f, s.clock.Now()),
			allocationEmbed(f, s.settings.EmbedColor, s.clock.Now()),
		}
		if _, err := s.surface.SendMessage(s.settings.ArchiveChannelID, "", embeds); err != nil {
			s.log.Warnw("archive post failed", "flight", f.FlightNumber, "error", err)
		}
	}

	if f.ForumThreadID != "" {
		if err := s.surface.ArchiveThread(f.ForumThreadID); err != nil {
			s.log.Warnw("thread archive failed", "flight", f.FlightNumber, "error", err)
		}
	}

	if f.EventID != "" {
		s.deleteEvent(f)
	}

	if err := s.SyncCalendars(ctx); err != nil {
		s.log.Warnw("calendar sync failed", "flight", f.FlightNumber, "error", err)
	}

	return nil
}

// SyncCalendars rebuilds every registered digest from the schedule
func (s *service) SyncCalendars(ctx context.Context) error {
	out, err := s.flights.ListScheduledFlights(ctx, &flightRepo.ListScheduledFlightsInput{})
	if err != nil {
		return err
	}

	for _, view := range s.views {
		flights := make([]*models.Flight, 0, len(out.Flights))
		for _, f := range out.Flights {
			if view.includes(f.Type) {
				flights = append(flights, f)
			}
		}

		embed := calendarEmbed(flights, s.settings.TailEmoji, s.settings.EmbedColor, s.clock.Now(), view.skipPreamble)
		if err := s.repairView(ctx, view, embed); err != nil {
			s.log.Warnw("calendar view update failed", "view", view.name, "error", err)
		}
	}

	return nil
}

// repairView lands the digest embed on the view's single message, walking
// the fallback chain: cached handle, stored reference, bounded channel
// search, create fresh. Each successful tier refreshes the tiers above it.
func (s *service) repairView(ctx context.Context, view calendarView, embed *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{embed}

	// Tier 1: process-local handle
	if id := s.handle(view.name); id != "" {
		if err := s.surface.EditMessage(view.channelID, id, embeds); err == nil {
			return nil
		}
		s.setHandle(view.name, "")
	}

	// Tier 2: stored reference
	if id, err := s.viewRefs.GetRef(ctx, &viewref.GetRefInput{View: view.name}); err == nil {
		if editErr := s.surface.EditMessage(view.channelID, id, embeds); editErr == nil {
			s.setHandle(view.name, id)
			return nil
		}
		// Stale: the message was deleted out from under us
		if clearErr := s.viewRefs.ClearRef(ctx, &viewref.ClearRefInput{View: view.name}); clearErr != nil {
			s.log.Warnw("stale view reference not cleared", "view", view.name, "error", clearErr)
		}
	} else if !errors.Is(err, viewref.ErrRefNotFound) {
		s.log.Warnw("view reference lookup failed", "view", view.name, "error", err)
	}

	// Tier 3: search recent channel messages for our digest
	if recent, err := s.surface.RecentMessages(view.channelID, calendarSearchLimit); err == nil {
		for _, m := range recent {
			if m.Author == nil || m.Author.ID != s.surface.BotUserID() || len(m.Embeds) == 0 {
				continue
			}
			if m.Embeds[0].Title != calendarTitle {
				continue
			}
			if editErr := s.surface.EditMessage(view.channelID, m.ID, embeds); editErr != nil {
				return editErr
			}
			s.adopt(ctx, view.name, m.ID)
			return nil
		}
	}

	// Tier 4: create fresh
	id, err := s.surface.SendMessage(view.channelID, "", embeds)
	if err != nil {
		return err
	}
	s.adopt(ctx, view.name, id)
	return nil
}

func (s *service) publishForumThread(ctx context.Context, f *models.Flight) error {
	if s.settings.ForumChannelID == "" {
		return nil
	}

	embeds := []*discordgo.MessageEmbed{
		flightInfoEmbed(f, s.settings.CmdsChannelID, s.settings.EmbedColor, s.clock.Now()),
		allocationEmbed(f, s.settings.EmbedColor, s.clock.Now()),
	}
	threadID, messageID, err := s.surface.CreateForumThread(
		s.settings.ForumChannelID, f.FlightNumber+" - Crew Allocation", "@everyone", embeds)
	if err != nil {
		return err
	}

	f.ForumThreadID = threadID
	f.ForumMessageID = messageID
	_, err = s.flights.UpdateFlight(ctx, &flightRepo.UpdateFlightInput{
		FlightID: f.ID,
		Update: func(stored *models.Flight) error {
			stored.ForumThreadID = threadID
			stored.ForumMessageID = messageID
			return nil
		},
	})
	return err
}

func (s *service) publishEvent(ctx context.Context, f *models.Flight) error {
	if s.settings.CalendarGuildID == "" {
		return nil
	}

	start := time.Unix(f.ServerOpenTime, 0)
	eventID, err := s.surface.CreateScheduledEvent(s.settings.CalendarGuildID, &ScheduledEventParams{
		Name:        eventName(f),
		Description: eventDescription(f),
		Location:    s.settings.EventLocation,
		StartTime:   start,
		EndTime:     start.Add(eventDuration),
	})
	if err != nil {
		return err
	}

	f.EventID = eventID
	_, err = s.flights.UpdateFlight(ctx, &flightRepo.UpdateFlightInput{
		FlightID: f.ID,
		Update: func(stored *models.Flight) error {
			stored.EventID = eventID
			return nil
		},
	})
	return err
}

func (s *service) announce(f *models.Flight) error {
	if s.settings.PublicCalendarChannelID == "" {
		return nil
	}
	_, err := s.surface.SendMessage(s.settings.PublicCalendarChannelID, "@everyone",
		[]*discordgo.MessageEmbed{announcementEmbed(f, s.settings.EmbedColor)})
	return err
}

// deleteEvent tries the calendar guild first, then the staff guild; the
// event lives in exactly one of them
func (s *service) deleteEvent(f *models.Flight) {
	for _, guildID := range []string{s.settings.CalendarGuildID, s.settings.StaffGuildID} {
		if guildID == "" {
			continue
		}
		if err := s.surface.DeleteScheduledEvent(guildID, f.EventID); err != nil {
			s.log.Warnw("scheduled event delete failed", "flight", f.FlightNumber, "guild", guildID, "error", err)
		}
	}
}

// adopt records a message as the view's single digest in both upper tiers
func (s *service) adopt(ctx context.Context, view, messageID string) {
	s.setHandle(view, messageID)
	if err := s.viewRefs.SetRef(ctx, &viewref.SetRefInput{View: view, MessageID: messageID}); err != nil {
		s.log.Warnw("view reference not stored", "view", view, "error", err)
	}
}

func (s *service) handle(view string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles[view]
}

func (s *service) setHandle(view, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		delete(s.handles, view)
		return
	}
	s.handles[view] = id
}
