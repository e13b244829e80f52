package housekeeping

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/jobs"
	"authgate/internal/models"
)

// fakeSessionPurge mirrors the repository's expires_at <= now predicate over
// an in-memory map, reusing the model's own expiry check.
type fakeSessionPurge struct {
	sessions map[string]models.Session
}

func (f *fakeSessionPurge) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for id, session := range f.sessions {
		if session.Expired(now) {
			delete(f.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type fakeCodePurge struct {
	codes map[string]models.VerificationCode
}

func (f *fakeCodePurge) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for id, code := range f.codes {
		if !now.Before(code.ExpiresAt) {
			delete(f.codes, id)
			removed++
		}
	}
	return removed, nil
}

func TestPurgeSessionsBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sessions := &fakeSessionPurge{sessions: map[string]models.Session{
		"past":    {ID: "past", ExpiresAt: now.Add(-time.Hour)},
		"at-now":  {ID: "at-now", ExpiresAt: now},
		"live":    {ID: "live", ExpiresAt: now.Add(time.Second)},
		"distant": {ID: "distant", ExpiresAt: now.Add(7 * 24 * time.Hour)},
	}}

	c := NewCleaner(&fakeCodePurge{codes: map[string]models.VerificationCode{}}, sessions, zerolog.Nop())
	c.now = func() time.Time { return now }

	require.NoError(t, c.Run(context.Background(), jobs.TaskPurgeSessions))

	// A session expiring exactly now is already invalid and gets purged;
	// anything still in the future survives.
	assert.NotContains(t, sessions.sessions, "past")
	assert.NotContains(t, sessions.sessions, "at-now")
	assert.Contains(t, sessions.sessions, "live")
	assert.Contains(t, sessions.sessions, "distant")
}

func TestPurgeVerificationCodesBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codes := &fakeCodePurge{codes: map[string]models.VerificationCode{
		"stale":  {ID: "stale", ExpiresAt: now.Add(-45 * time.Minute)},
		"at-now": {ID: "at-now", ExpiresAt: now},
		"fresh":  {ID: "fresh", ExpiresAt: now.Add(45 * time.Minute)},
	}}

	c := NewCleaner(codes, &fakeSessionPurge{sessions: map[string]models.Session{}}, zerolog.Nop())
	c.now = func() time.Time { return now }

	require.NoError(t, c.Run(context.Background(), jobs.TaskPurgeVerificationCodes))

	assert.NotContains(t, codes.codes, "stale")
	assert.NotContains(t, codes.codes, "at-now")
	assert.Contains(t, codes.codes, "fresh")
}

func TestCleanerRejectsUnknownTask(t *testing.T) {
	c := NewCleaner(&fakeCodePurge{}, &fakeSessionPurge{}, zerolog.Nop())

	err := c.Run(context.Background(), "defragment_everything")
	assert.ErrorContains(t, err, "unknown housekeeping task")
}
