package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/volare-va/crewbot/internal/models"
	"github.com/volare-va/crewbot/internal/services/viewsync"
)

var errViewsDown = errors.New("views unavailable")

// brokenViews fails every call, standing in for a view layer whose Discord
// or Redis backend is down
type brokenViews struct{}

func (brokenViews) PublishFlight(context.Context, *viewsync.PublishFlightInput) error {
	return errViewsDown
}

func (brokenViews) SyncFlight(context.Context, *viewsync.SyncFlightInput) error {
	return errViewsDown
}

func (brokenViews) RetireFlight(context.Context, *viewsync.RetireFlightInput) error {
	return errViewsDown
}

func (brokenViews) SyncCalendars(context.Context) error {
	return errViewsDown
}

// Once a mutation commits and the actor has been acknowledged, a failing
// view refresh must only warn. Returning the error would make dispatch send
// a second, contradictory apology for a command that succeeded.
func TestViewHelpers_LogAndSwallowFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := &Bot{
		views: brokenViews{},
		log:   zap.New(core).Sugar(),
	}

	ctx := context.Background()
	f := &models.Flight{FlightNumber: "UA 1"}

	b.syncFlightView(ctx, "flight-1")
	b.syncCalendarViews(ctx)
	b.publishFlightViews(ctx, f)
	b.retireFlightViews(ctx, f)

	// Every failure was logged, none escaped
	assert.Equal(t, 4, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, zap.WarnLevel, entry.Level)
	}
}
