package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/models"
	"github.com/volare-va/crewbot/internal/repositories/member"
	"github.com/volare-va/crewbot/internal/services/scheduling"
	"github.com/volare-va/crewbot/internal/services/viewsync"
	"github.com/volare-va/crewbot/internal/services/workflow"
)

// genericApology is the one message users see when something unexpected
// breaks; the real error only goes to the log
const genericApology = "❌ Something went wrong. Please try again."

// Component and modal custom IDs. The create flow is shared by /create and
// /test; the workflow session carries the flight type.
const (
	SelectCreateAircraft = "create_aircraft"
	ModalCreateFlight    = "create_modal"
	ButtonCreateConfirm  = "create_confirm"
	ButtonCreateCancel   = "create_cancel"

	ButtonDeleteConfirm = "delete_confirm"
	ButtonDeleteCancel  = "delete_cancel"

	SelectEndFlight  = "end_flight"
	ButtonEndConfirm = "end_confirm"
	ButtonEndCancel  = "end_cancel"

	SelectAllocateFlight   = "allocate_flight"
	SelectAllocatePosition = "allocate_position"
	SelectUnallocateFlight = "unallocate_flight"

	// ModalEditPrefix is followed by the flight number being edited
	ModalEditPrefix = "edit_modal_"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	config     *Config
	log        *zap.SugaredLogger

	scheduler scheduling.Service
	workflow  workflow.Service
	views     viewsync.Service
	members   member.Repository

	// componentRoutes maps exact component/modal custom IDs to handlers
	componentRoutes map[string]interactionFunc
}

type interactionFunc func(s *discordgo.Session, i *discordgo.InteractionCreate) error

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// GuildID scopes command registration to the staff guild
	GuildID string

	// DispatcherRoleID gates create/test/edit/delete
	DispatcherRoleID string

	// EmbedColor is the default embed color
	EmbedColor int

	// Services. The view synchronizer is attached after construction via
	// SetViewSync because it shares the bot's Discord session.
	SchedulingService scheduling.Service
	WorkflowService   workflow.Service
	MemberRepo        member.Repository

	// Logger, optional
	Logger *zap.SugaredLogger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}
	if cfg.SchedulingService == nil {
		return nil, errors.New("scheduling service cannot be nil")
	}
	if cfg.WorkflowService == nil {
		return nil, errors.New("workflow service cannot be nil")
	}
	if cfg.MemberRepo == nil {
		return nil, errors.New("member repository cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		config:     cfg,
		log:        log,
		scheduler:  cfg.SchedulingService,
		workflow:   cfg.WorkflowService,
		members:    cfg.MemberRepo,
	}

	bot.componentRoutes = map[string]interactionFunc{
		SelectCreateAircraft:   bot.handleCreateAircraftSelect,
		ModalCreateFlight:      bot.handleCreateModalSubmit,
		ButtonCreateConfirm:    bot.handleCreateConfirm,
		ButtonCreateCancel:     bot.handleCreateCancel,
		ButtonDeleteConfirm:    bot.handleDeleteConfirm,
		ButtonDeleteCancel:     bot.handleDeleteCancel,
		SelectEndFlight:        bot.handleEndFlightSelect,
		ButtonEndConfirm:       bot.handleEndConfirm,
		ButtonEndCancel:        bot.handleEndCancel,
		SelectAllocateFlight:   bot.handleAllocateFlightSelect,
		SelectAllocatePosition: bot.handleAllocatePositionSelect,
		SelectUnallocateFlight: bot.handleUnallocateFlightSelect,
	}

	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Session exposes the underlying Discord session so the view synchronizer
// can share it
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// SetViewSync attaches the view synchronizer. Must be called before Start.
func (b *Bot) SetViewSync(views viewsync.Service) {
	b.views = views
}

// syncFlightView refreshes a flight's rendered views after the actor has
// already been acknowledged. The mutation committed; a view failure is
// logged and never surfaced as a failure of the command.
func (b *Bot) syncFlightView(ctx context.Context, flightID string) {
	if err := b.views.SyncFlight(ctx, &viewsync.SyncFlightInput{FlightID: flightID}); err != nil {
		b.log.Warnw("flight view sync failed", "flight_id", flightID, "error", err)
	}
}

// syncCalendarViews rebuilds the calendar digests under the same policy
func (b *Bot) syncCalendarViews(ctx context.Context) {
	if err := b.views.SyncCalendars(ctx); err != nil {
		b.log.Warnw("calendar sync failed", "error", err)
	}
}

func (b *Bot) publishFlightViews(ctx context.Context, f *models.Flight) {
	if err := b.views.PublishFlight(ctx, &viewsync.PublishFlightInput{Flight: f}); err != nil {
		b.log.Warnw("flight publish failed", "flight", f.FlightNumber, "error", err)
	}
}

func (b *Bot) retireFlightViews(ctx context.Context, f *models.Flight) {
	if err := b.views.RetireFlight(ctx, &viewsync.RetireFlightInput{Flight: f}); err != nil {
		b.log.Warnw("flight retire failed", "flight", f.FlightNumber, "error", err)
	}
}

// Start opens the Discord connection and registers every command
func (b *Bot) Start() error {
	if b.views == nil {
		return errors.New("view sync service cannot be nil")
	}
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	handlers := []CommandHandler{
		NewCreateCommand(b),
		NewTestCommand(b),
		NewEditCommand(b),
		NewDeleteCommand(b),
		NewEndCommand(b),
		NewAllocateCommand(b),
		NewUnallocateCommand(b),
		NewLinkCommand(b),
		NewUnlinkCommand(b),
		NewStatusCommand(b),
	}
	for _, h := range handlers {
		if err := b.RegisterCommand(h); err != nil {
			return fmt.Errorf("failed to register %s command: %w", h.GetName(), err)
		}
	}

	b.log.Infow("bot running", "commands", len(handlers))
	return nil
}

// Stop deletes the registered commands and closes the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.log.Warnw("failed to delete command", "command", cmdName, "error", err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.log.Infow("registered command", "command", cmd.GetName(), "id", createdCmd.ID)

	return nil
}

// handleInteraction is the single entry point for every interaction. It
// routes to the right handler and guarantees the user always gets exactly
// one acknowledgement, even when a handler fails or panics.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if h, ok := b.commands[name]; ok {
			b.dispatch(s, i, "command "+name, h.Handle)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if h, ok := b.componentRoutes[customID]; ok {
			b.dispatch(s, i, "component "+customID, h)
		} else {
			b.log.Warnw("unknown component", "custom_id", customID)
			b.apologize(s, i)
		}
	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		switch {
		case strings.HasPrefix(customID, ModalEditPrefix):
			b.dispatch(s, i, "modal "+customID, b.handleEditModalSubmit)
		default:
			if h, ok := b.componentRoutes[customID]; ok {
				b.dispatch(s, i, "modal "+customID, h)
			} else {
				b.log.Warnw("unknown modal", "custom_id", customID)
				b.apologize(s, i)
			}
		}
	}
}

// dispatch runs a handler under the central recovery: unexpected errors
// and panics are logged in full and surfaced as one generic apology
func (b *Bot) dispatch(s *discordgo.Session, i *discordgo.InteractionCreate, what string, fn interactionFunc) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorw("panic in interaction handler", "handler", what, "panic", r)
			b.apologize(s, i)
		}
	}()

	if err := fn(s, i); err != nil {
		b.log.Errorw("interaction handler failed", "handler", what, "error", err)
		b.apologize(s, i)
	}
}

// apologize delivers the generic failure message. If the interaction was
// already acknowledged the ephemeral response fails; fall back to a
// followup so the user still hears back exactly once.
func (b *Bot) apologize(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := RespondWithEphemeralMessage(s, i, genericApology); err == nil {
		return
	}
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: genericApology,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		b.log.Warnw("failed to deliver apology", "error", err)
	}
}
