// Package config loads every Discord and infrastructure identifier the bot
// needs from the environment. A .env file is honored when present.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the bot
type Config struct {
	// BotToken is the Discord bot token
	BotToken string

	// ApplicationID is the Discord application ID, optional
	ApplicationID string

	// RedisAddr is the Redis host:port
	RedisAddr string

	// RedisPassword is the Redis password, empty for none
	RedisPassword string

	// StaffServerID is the staff guild where crew allocation happens
	StaffServerID string

	// CalendarServerID is the public guild hosting the calendar and events
	CalendarServerID string

	// ForumChannelID is the staff forum for allocation threads
	ForumChannelID string

	// CmdsChannelID is the channel members use for /allocate
	CmdsChannelID string

	// CalendarChannelID is the public calendar digest channel
	CalendarChannelID string

	// StaffCalendarChannelID is the staff calendar digest channel
	StaffCalendarChannelID string

	// ArchiveChannelID receives archived allocation sheets
	ArchiveChannelID string

	// DispatcherRoleID is the role allowed to manage flights
	DispatcherRoleID string

	// TailEmoji decorates calendar lines
	TailEmoji string

	// EmbedColor is the default embed color
	EmbedColor int

	// EventLocation is the location URL attached to scheduled events
	EventLocation string

	// CalendarResyncSpec is the cron spec for the periodic calendar repair
	// pass, empty to disable
	CalendarResyncSpec string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; a missing bot token is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:               os.Getenv("BOT_TOKEN"),
		ApplicationID:          os.Getenv("APPLICATION_ID"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		StaffServerID:          os.Getenv("STAFF_SERVER_ID"),
		CalendarServerID:       os.Getenv("CALENDAR_SERVER_ID"),
		ForumChannelID:         os.Getenv("FORUM_CHANNEL_ID"),
		CmdsChannelID:          os.Getenv("CMDS_CHANNEL_ID"),
		CalendarChannelID:      os.Getenv("CALENDAR_CHANNEL_ID"),
		StaffCalendarChannelID: os.Getenv("STAFF_CALENDAR_CHANNEL_ID"),
		ArchiveChannelID:       os.Getenv("ARCHIVE_CHANNEL_ID"),
		DispatcherRoleID:       os.Getenv("FLIGHT_HOST_ROLE_ID"),
		TailEmoji:              getEnv("UNITED_TAIL_EMOJI", "✈️"),
		EventLocation:          getEnv("EVENT_LOCATION", "https://www.roblox.com/games/95918419045248/Terminal-A-Newark-Liberty-Intl-Airport"),
		CalendarResyncSpec:     getEnv("CALENDAR_RESYNC_SPEC", "@every 15m"),
	}

	color, err := strconv.ParseInt(getEnv("EMBED_COLOR", "2596be"), 16, 32)
	if err != nil {
		return nil, errors.New("EMBED_COLOR must be a hex color")
	}
	cfg.EmbedColor = int(color)

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
