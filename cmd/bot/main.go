package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/volare-va/crewbot/internal/common/clock"
	"github.com/volare-va/crewbot/internal/common/uuid"
	"github.com/volare-va/crewbot/internal/config"
	"github.com/volare-va/crewbot/internal/handlers/discord"
	flightRepo "github.com/volare-va/crewbot/internal/repositories/flight"
	memberRepo "github.com/volare-va/crewbot/internal/repositories/member"
	viewrefRepo "github.com/volare-va/crewbot/internal/repositories/viewref"
	"github.com/volare-va/crewbot/internal/services/scheduling"
	"github.com/volare-va/crewbot/internal/services/viewsync"
	"github.com/volare-va/crewbot/internal/services/workflow"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("failed to load configuration", "error", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		sugar.Fatalw("failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
	}

	// Initialize repositories
	flights, err := flightRepo.NewRedis(&flightRepo.Config{RedisClient: redisClient})
	if err != nil {
		sugar.Fatalw("failed to create flight repository", "error", err)
	}

	viewRefs, err := viewrefRepo.NewRedis(&viewrefRepo.Config{RedisClient: redisClient})
	if err != nil {
		sugar.Fatalw("failed to create view reference repository", "error", err)
	}

	members, err := memberRepo.NewRedis(&memberRepo.Config{RedisClient: redisClient})
	if err != nil {
		sugar.Fatalw("failed to create member repository", "error", err)
	}

	// Initialize services
	scheduler, err := scheduling.New(&scheduling.Config{
		FlightRepo:    flights,
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuid.New(),
		Logger:        sugar,
	})
	if err != nil {
		sugar.Fatalw("failed to create scheduling service", "error", err)
	}

	workflows, err := workflow.New(&workflow.Config{
		Scheduler: scheduler,
		Clock:     &clock.DefaultClock{},
		Logger:    sugar,
	})
	if err != nil {
		sugar.Fatalw("failed to create workflow service", "error", err)
	}

	// Initialize the Discord bot first so the view synchronizer can share
	// its session
	bot, err := discord.New(&discord.Config{
		Token:             cfg.BotToken,
		ApplicationID:     cfg.ApplicationID,
		GuildID:           cfg.StaffServerID,
		DispatcherRoleID:  cfg.DispatcherRoleID,
		EmbedColor:        cfg.EmbedColor,
		SchedulingService: scheduler,
		WorkflowService:   workflows,
		MemberRepo:        members,
		Logger:            sugar,
	})
	if err != nil {
		sugar.Fatalw("failed to create Discord bot", "error", err)
	}

	views, err := viewsync.New(&viewsync.Config{
		Surface:     viewsync.NewDiscordSurface(bot.Session()),
		FlightRepo:  flights,
		ViewRefRepo: viewRefs,
		Clock:       &clock.DefaultClock{},
		Logger:      sugar,
		Settings: viewsync.Settings{
			StaffGuildID:            cfg.StaffServerID,
			CalendarGuildID:         cfg.CalendarServerID,
			ForumChannelID:          cfg.ForumChannelID,
			CmdsChannelID:           cfg.CmdsChannelID,
			PublicCalendarChannelID: cfg.CalendarChannelID,
			StaffCalendarChannelID:  cfg.StaffCalendarChannelID,
			ArchiveChannelID:        cfg.ArchiveChannelID,
			TailEmoji:               cfg.TailEmoji,
			EmbedColor:              cfg.EmbedColor,
			EventLocation:           cfg.EventLocation,
		},
	})
	if err != nil {
		sugar.Fatalw("failed to create view synchronizer", "error", err)
	}
	bot.SetViewSync(views)

	if err := bot.Start(); err != nil {
		sugar.Fatalw("failed to start Discord bot", "error", err)
	}

	// Repair the calendars at boot: the digests may have drifted or been
	// deleted while the bot was down
	if err := views.SyncCalendars(context.Background()); err != nil {
		sugar.Warnw("boot calendar sync failed", "error", err)
	}

	// Periodic calendar repair
	var cronRunner *cron.Cron
	if cfg.CalendarResyncSpec != "" {
		cronRunner = cron.New()
		_, err := cronRunner.AddFunc(cfg.CalendarResyncSpec, func() {
			if err := views.SyncCalendars(context.Background()); err != nil {
				sugar.Warnw("periodic calendar sync failed", "error", err)
			}
		})
		if err != nil {
			sugar.Fatalw("invalid calendar resync spec", "spec", cfg.CalendarResyncSpec, "error", err)
		}
		cronRunner.Start()
	}

	sugar.Infow("bot is now running, press CTRL-C to exit")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if cronRunner != nil {
		cronRunner.Stop()
	}
	if err := bot.Stop(); err != nil {
		sugar.Errorw("error stopping bot", "error", err)
	}

	sugar.Infow("bot has been shut down")
}
