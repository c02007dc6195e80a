package viewsync

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Surface abstracts the Discord calls the synchronizer makes so the repair
// and propagation logic can be tested against a fake.
type Surface interface {
	// BotUserID identifies the bot's own messages during channel search
	BotUserID() string

	// SendMessage posts content and embeds to a channel and returns the
	// new message ID
	SendMessage(channelID, content string, embeds []*discordgo.MessageEmbed) (string, error)

	// EditMessage replaces the embeds of an existing message
	EditMessage(channelID, messageID string, embeds []*discordgo.MessageEmbed) error

	// RecentMessages returns up to limit of the channel's newest messages
	RecentMessages(channelID string, limit int) ([]*discordgo.Message, error)

	// CreateForumThread opens a forum post and returns the thread ID and
	// the starter message ID
	CreateForumThread(forumChannelID, name, content string, embeds []*discordgo.MessageEmbed) (threadID, messageID string, err error)

	// ArchiveThread locks and archives a forum thread
	ArchiveThread(threadID string) error

	// CreateScheduledEvent creates a guild scheduled event and returns
	// its ID
	CreateScheduledEvent(guildID string, params *ScheduledEventParams) (string, error)

	// DeleteScheduledEvent removes a guild scheduled event; deleting an
	// event that is already gone is not an error
	DeleteScheduledEvent(guildID, eventID string) error
}

// ScheduledEventParams describes an external guild event
type ScheduledEventParams struct {
	Name        string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

// discordSurface is the production Surface backed by a discordgo session
type discordSurface struct {
	session *discordgo.Session
}

// NewDiscordSurface wraps a discordgo session as a Surface
func NewDiscordSurface(session *discordgo.Session) Surface {
	return &discordSurface{session: session}
}

func (d *discordSurface) BotUserID() string {
	if d.session.State != nil && d.session.State.User != nil {
		return d.session.State.User.ID
	}
	return ""
}

func (d *discordSurface) SendMessage(channelID, content string, embeds []*discordgo.MessageEmbed) (string, error) {
	msg, err := d.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  embeds,
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (d *discordSurface) EditMessage(channelID, messageID string, embeds []*discordgo.MessageEmbed) error {
	_, err := d.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
		Embeds:  &embeds,
	})
	return err
}

func (d *discordSurface) RecentMessages(channelID string, limit int) ([]*discordgo.Message, error) {
	return d.session.ChannelMessages(channelID, limit, "", "", "")
}

func (d *discordSurface) CreateForumThread(forumChannelID, name, content string, embeds []*discordgo.MessageEmbed) (string, string, error) {
	thread, err := d.session.ForumThreadStartComplex(forumChannelID, &discordgo.ThreadStart{
		Name: name,
	}, &discordgo.MessageSend{
		Content: content,
		Embeds:  embeds,
	})
	if err != nil {
		return "", "", err
	}
	// The forum starter message shares the thread's ID
	return thread.ID, thread.ID, nil
}

func (d *discordSurface) ArchiveThread(threadID string) error {
	locked := true
	archived := true
	_, err := d.session.ChannelEditComplex(threadID, &discordgo.ChannelEdit{
		Locked:   &locked,
		Archived: &archived,
	})
	return err
}

func (d *discordSurface) CreateScheduledEvent(guildID string, params *ScheduledEventParams) (string, error) {
	event, err := d.session.GuildScheduledEventCreate(guildID, &discordgo.GuildScheduledEventParams{
		Name:               params.Name,
		Description:        params.Description,
		ScheduledStartTime: &params.StartTime,
		ScheduledEndTime:   &params.EndTime,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		EntityMetadata: &discordgo.GuildScheduledEventEntityMetadata{
			Location: params.Location,
		},
	})
	if err != nil {
		return "", err
	}
	return event.ID, nil
}

func (d *discordSurface) DeleteScheduledEvent(guildID, eventID string) error {
	err := d.session.GuildScheduledEventDelete(guildID, eventID)
	if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil && restErr.Response.StatusCode == 404 {
		return nil
	}
	return err
}
