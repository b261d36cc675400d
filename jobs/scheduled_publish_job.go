// File: /jobs/scheduled_publish_job.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ballpark-api/logging"
)

// Publisher is the sweep the job runs.
type Publisher interface {
	PublishDuePosts(ctx context.Context, now time.Time) (int64, error)
}

// ScheduledPublishJob publishes due scheduled posts on a cron schedule.
type ScheduledPublishJob struct {
	publisher Publisher
	cron      *cron.Cron
	timeout   time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewScheduledPublishJob creates the job. spec accepts standard five-field
// cron expressions and descriptors such as "@every 1m".
func NewScheduledPublishJob(publisher Publisher, spec string) (*ScheduledPublishJob, error) {
	log := logging.With("scheduler")
	j := &ScheduledPublishJob{
		publisher: publisher,
		timeout:   time.Minute,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}

	cronLog := cronLogger{log: log}
	j.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, fmt.Errorf("invalid publish schedule %q: %w", spec, err)
	}
	return j, nil
}

// Start begins the publish job
func (j *ScheduledPublishJob) Start() {
	j.log.Info().Msg("scheduled publish job started")
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish, or for
// ctx to end.
func (j *ScheduledPublishJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		j.log.Info().Msg("scheduled publish job stopped")
	case <-ctx.Done():
		j.log.Warn().Msg("scheduled publish job still running at shutdown")
	}
}

// RunNow performs one sweep immediately.
func (j *ScheduledPublishJob) RunNow(ctx context.Context) (int64, error) {
	return j.publisher.PublishDuePosts(ctx, j.now())
}

func (j *ScheduledPublishJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	published, err := j.RunNow(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("scheduled publish sweep failed")
		return
	}
	j.log.Debug().Int64("published", published).Dur("took", time.Since(start)).Msg("scheduled publish sweep completed")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
