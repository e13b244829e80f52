package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Stream carries housekeeping tasks from the api scheduler to the
// housekeeper process.
const Stream = "auth:housekeeping"

const (
	TaskPurgeVerificationCodes = "purge_verification_codes"
	TaskPurgeSessions          = "purge_sessions"
)

// Scheduler enqueues periodic housekeeping work. The api core never purges
// expired rows itself; validity is always an expiry check at read time.
type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", func() {
		s.enqueue(TaskPurgeVerificationCodes)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 30 3 * * *", func() {
		s.enqueue(TaskPurgeSessions)
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits briefly for a running job to finish.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueue(task string) {
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: Stream,
		Values: map[string]any{"task": task},
	}).Result()
	if err != nil {
		s.log.Error().Err(err).Str("task", task).Msg("enqueue housekeeping task failed")
		return
	}
	s.log.Debug().Str("task", task).Msg("housekeeping task enqueued")
}
