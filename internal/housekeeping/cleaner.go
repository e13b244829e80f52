package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"authgate/internal/jobs"
)

// ExpiredDeleter removes rows whose expires_at is at or before now and
// reports how many went. Both repositories satisfy it.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Cleaner executes housekeeping tasks against the stores. It is the only
// code that deletes expired rows; the api treats expiry as a read-time check.
type Cleaner struct {
	codes    ExpiredDeleter
	sessions ExpiredDeleter
	log      zerolog.Logger
	now      func() time.Time
}

func NewCleaner(codes ExpiredDeleter, sessions ExpiredDeleter, log zerolog.Logger) *Cleaner {
	return &Cleaner{
		codes:    codes,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

func (c *Cleaner) Run(ctx context.Context, task string) error {
	switch task {
	case jobs.TaskPurgeVerificationCodes:
		return c.purgeVerificationCodes(ctx)
	case jobs.TaskPurgeSessions:
		return c.purgeSessions(ctx)
	default:
		return fmt.Errorf("unknown housekeeping task %q", task)
	}
}

func (c *Cleaner) purgeVerificationCodes(ctx context.Context) error {
	removed, err := c.codes.DeleteExpired(ctx, c.now())
	if err != nil {
		return fmt.Errorf("purge verification codes: %w", err)
	}
	c.log.Info().Int64("removed", removed).Msg("expired verification codes purged")
	return nil
}

func (c *Cleaner) purgeSessions(ctx context.Context) error {
	removed, err := c.sessions.DeleteExpired(ctx, c.now())
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	c.log.Info().Int64("removed", removed).Msg("expired sessions purged")
	return nil
}
