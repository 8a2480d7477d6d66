package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionPurger removes expired sessions
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeRecorder receives the number of purged sessions
type PurgeRecorder interface {
	AddSessionsPurged(n int64)
}

const purgeTimeout = 30 * time.Second

// StartSessionPurge schedules the expired-session purge on a cron spec
// (e.g. "@every 1h" or "0 3 * * *"). The caller stops the returned scheduler on shutdown.
func StartSessionPurge(schedule string, purger SessionPurger, recorder PurgeRecorder, logger zerolog.Logger) (*cron.Cron, error) {
	log := logger.With().Str("job", "session_purge").Logger()

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		purgeSessions(context.Background(), purger, recorder, log)
	}); err != nil {
		return nil, fmt.Errorf("invalid session purge schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info().Str("schedule", schedule).Msg("Session purge scheduled")
	return c, nil
}

func purgeSessions(ctx context.Context, purger SessionPurger, recorder PurgeRecorder, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	purged, err := purger.PurgeExpired(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to purge expired sessions")
		return
	}

	if recorder != nil {
		recorder.AddSessionsPurged(purged)
	}

	if purged > 0 {
		logger.Info().Int64("purged", purged).Msg("Expired sessions purged")
	} else {
		logger.Debug().Msg("No expired sessions")
	}
}
