package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// Publisher is the job each trigger runs.
type Publisher interface {
	Publish(ctx context.Context, runID string) error
}

// Options configures the triggers.
type Options struct {
	Location   *time.Location
	CronSpecs  []string
	Interval   time.Duration
	RunOnStart bool
	RunTimeout time.Duration
}

// Scheduler runs the publisher on cron and/or interval triggers.
type Scheduler struct {
	scheduler *gocron.Scheduler
	publisher Publisher
	opts      Options
}

// New creates a new Scheduler.
func New(publisher Publisher, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(opts.Location),
		publisher: publisher,
		opts:      opts,
	}
}

// Start registers the configured triggers and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.opts.CronSpecs) == 0 && s.opts.Interval <= 0 {
		return errors.New("scheduler: no triggers configured")
	}

	for _, spec := range s.opts.CronSpecs {
		if _, err := s.scheduler.Cron(spec).Do(s.runJob); err != nil {
			return err
		}
		log.Printf("scheduler: registered cron trigger %q (%s)", spec, s.opts.Location)
	}

	if s.opts.Interval > 0 {
		if _, err := s.scheduler.Every(s.opts.Interval).WaitForSchedule().Do(s.runJob); err != nil {
			return err
		}
		log.Printf("scheduler: registered interval trigger every %s", s.opts.Interval)
	}

	s.scheduler.StartAsync()

	if s.opts.RunOnStart {
		go s.runJob()
	}
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// JobCount reports how many triggers are registered.
func (s *Scheduler) JobCount() int {
	return len(s.scheduler.Jobs())
}

// runJob performs one independent publishing run. Failures are logged and
// never stop the scheduler.
func (s *Scheduler) runJob() {
	runID := uuid.NewString()
	started := time.Now()
	log.Printf("scheduler: run %s started", runID)

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RunTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, runID); err != nil {
		log.Printf("ERROR: scheduler: run %s failed after %s: %v", runID, time.Since(started).Round(time.Millisecond), err)
		return
	}
	log.Printf("scheduler: run %s completed in %s", runID, time.Since(started).Round(time.Millisecond))
}
