package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/aircraft"
	"github.com/volare-va/crewbot/internal/models"
	"github.com/volare-va/crewbot/internal/services/scheduling"
	"github.com/volare-va/crewbot/internal/services/workflow"
)

// CreateCommand handles /create and /test: the same three-step flight
// creation flow, differing only in the flight type the session starts with
type CreateCommand struct {
	BaseCommand
	bot        *Bot
	flightType models.FlightType
}

// NewCreateCommand creates the /create command handler
func NewCreateCommand(bot *Bot) *CreateCommand {
	return &CreateCommand{
		BaseCommand: BaseCommand{
			Name:        "create",
			Description: "Create a new flight and allocation sheet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "Flight type",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Regular", Value: string(models.FlightTypeRegular)},
						{Name: "Premium", Value: string(models.FlightTypePremium)},
					},
				},
			},
		},
		bot:        bot,
		flightType: models.FlightTypeRegular,
	}
}

// NewTestCommand creates the /test command handler. Test flights stay off
// the public calendar and never get a scheduled event.
func NewTestCommand(bot *Bot) *CreateCommand {
	return &CreateCommand{
		BaseCommand: BaseCommand{
			Name:        "test",
			Description: "Create a test flight, visible to staff only",
		},
		bot:        bot,
		flightType: models.FlightTypeTest,
	}
}

// Handle starts a create session and asks for the aircraft
func (c *CreateCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !memberHasRole(i, c.bot.config.DispatcherRoleID) {
		return RespondWithError(s, i, "You need the Flight Host role to create flights.")
	}

	userID, _ := interactionUser(i)
	flightType := c.flightType
	if c.Name == "create" {
		for _, opt := range i.ApplicationCommandData().Options {
			if opt.Name == "type" {
				flightType = models.FlightType(opt.StringValue())
			}
		}
	}

	_, err := c.bot.workflow.StartCreate(context.Background(), &workflow.StartCreateInput{
		ActorID:    userID,
		FlightType: flightType,
	})
	if err != nil {
		return err
	}

	choices := aircraft.Choices()
	options := make([]discordgo.SelectMenuOption, 0, len(choices))
	for _, ch := range choices {
		options = append(options, discordgo.SelectMenuOption{Label: ch.Name, Value: ch.Value})
	}

	return RespondWithEphemeralComponents(s, i, "**Step 1/3** — Select the aircraft for this flight:", nil, selectRow(discordgo.SelectMenu{
		CustomID:    SelectCreateAircraft,
		Placeholder: "Select an aircraft",
		Options:     options,
	}))
}

// handleCreateAircraftSelect records the aircraft and opens the details modal
func (b *Bot) handleCreateAircraftSelect(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, _ := interactionUser(i)

	_, err := b.workflow.SelectAircraft(context.Background(), &workflow.SelectAircraftInput{
		ActorID:  userID,
		Aircraft: i.MessageComponentData().Values[0],
	})
	if errors.Is(err, workflow.ErrSessionExpired) {
		return UpdateWithMessage(s, i, "❌ Session expired. Use `/create` again.")
	}
	if err != nil {
		return err
	}

	return RespondWithModal(s, i, ModalCreateFlight, "Create Flight", []discordgo.MessageComponent{
		textInputRow(discordgo.TextInput{
			CustomID: "flight_number", Label: "Flight Number (e.g. UA 1234)",
			Style: discordgo.TextInputShort, Required: true, MaxLength: 10,
		}),
		textInputRow(discordgo.TextInput{
			CustomID: "departure", Label: "IATA Departure (e.g. EWR)",
			Style: discordgo.TextInputShort, Required: true, MaxLength: 4,
		}),
		textInputRow(discordgo.TextInput{
			CustomID: "destination", Label: "IATA Destination (e.g. LAX)",
			Style: discordgo.TextInputShort, Required: true, MaxLength: 4,
		}),
		textInputRow(discordgo.TextInput{
			CustomID: "employee_join_time", Label: "Employee Join Time (Unix timestamp)",
			Style: discordgo.TextInputShort, Required: true,
			Placeholder: "Use discordtimestamp.com to generate",
		}),
		textInputRow(discordgo.TextInput{
			CustomID: "server_open_time", Label: "Server Open Time (Unix timestamp)",
			Style: discordgo.TextInputShort, Required: true,
			Placeholder: "Use discordtimestamp.com to generate",
		}),
	})
}

// handleCreateModalSubmit validates the details and asks for confirmation
func (b *Bot) handleCreateModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, _ := interactionUser(i)
	data := i.ModalSubmitData()

	out, err := b.workflow.SubmitDetails(context.Background(), &workflow.SubmitDetailsInput{
		ActorID:             userID,
		FlightNumber:        modalValue(data, "flight_number"),
		Departure:           modalValue(data, "departure"),
		Destination:         modalValue(data, "destination"),
		EmployeeJoinTimeRaw: modalValue(data, "employee_join_time"),
		ServerOpenTimeRaw:   modalValue(data, "server_open_time"),
	})
	switch {
	case errors.Is(err, workflow.ErrSessionExpired):
		return RespondWithError(s, i, "Session expired. Use `/create` again.")
	case errors.Is(err, scheduling.ErrInvalidFlightNumber):
		return RespondWithError(s, i, "Flight number is required.")
	case errors.Is(err, scheduling.ErrInvalidIATACode):
		return RespondWithError(s, i, "IATA codes must be exactly 3 letters.")
	case errors.Is(err, workflow.ErrInvalidTimestamp):
		return RespondWithError(s, i, "Invalid timestamps. Use Unix timestamps (numbers). Try [discordtimestamp.com](https://discordtimestamp.com).")
	case errors.Is(err, scheduling.ErrDuplicateFlightNumber):
		return RespondWithError(s, i, fmt.Sprintf("Flight **%s** already exists.", modalValue(data, "flight_number")))
	case err != nil:
		return err
	}

	embed := confirmCreateEmbed(out.Session, b.config.EmbedColor)
	buttons := buttonRow(
		discordgo.Button{Label: "Confirm & Create", Style: discordgo.SuccessButton, CustomID: ButtonCreateConfirm, Emoji: &discordgo.ComponentEmoji{Name: "✅"}},
		discordgo.Button{Label: "Cancel", Style: discordgo.DangerButton, CustomID: ButtonCreateCancel, Emoji: &discordgo.ComponentEmoji{Name: "❌"}},
	)

	return RespondWithEphemeralComponents(s, i, "**Step 3/3** — Review and confirm:", []*discordgo.MessageEmbed{embed}, buttons)
}

// handleCreateConfirm commits the session and fans the flight out to its
// views
func (b *Bot) handleCreateConfirm(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, username := interactionUser(i)

	out, err := b.workflow.ConfirmCreate(ctx, &workflow.ConfirmCreateInput{
		ActorID:        userID,
		DispatcherName: username,
	})
	switch {
	case errors.Is(err, workflow.ErrSessionExpired):
		return UpdateWithMessage(s, i, "❌ Session expired. Use `/create` again.")
	case errors.Is(err, scheduling.ErrDuplicateFlightNumber):
		return UpdateWithMessage(s, i, "❌ That flight number was just taken. Use `/create` again.")
	case err != nil:
		return err
	}

	f := out.Flight
	if err := UpdateWithMessage(s, i, fmt.Sprintf("✅ Flight **%s** (%s) created and posted!", f.FlightNumber, f.Route())); err != nil {
		b.log.Warnw("create acknowledgement failed", "error", err)
	}

	// The flight is committed; view propagation failures repair themselves
	// on the next resync
	b.publishFlightViews(ctx, f)
	return nil
}

// handleCreateCancel abandons the create session
func (b *Bot) handleCreateCancel(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, _ := interactionUser(i)
	if err := b.workflow.Cancel(context.Background(), &workflow.CancelInput{ActorID: userID}); err != nil {
		return err
	}
	return UpdateWithMessage(s, i, "❌ Cancelled.")
}
