package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"FakeNewsDetector/internal/ports"
)

// CronScheduler runs a job on a standard 5-field cron expression.
type CronScheduler struct {
	spec     string
	location *time.Location

	mu   sync.Mutex
	cron *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler configured via cron expression string.
func NewCronScheduler(spec string, location *time.Location) *CronScheduler {
	if location == nil {
		location = time.UTC
	}
	return &CronScheduler{spec: spec, location: location}
}

// ParseSpec validates a 5-field cron expression.
func ParseSpec(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", spec, err)
	}
	return sched, nil
}

// Start registers job and starts the cron loop. Runs never overlap; a run that
// is still going when the next tick fires causes that tick to be skipped.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	sched, err := ParseSpec(c.spec)
	if err != nil {
		return err
	}

	runner := cron.New(
		cron.WithLocation(c.location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	runner.Schedule(sched, cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		job(time.Now().In(c.location))
	}))
	runner.Start()
	c.cron = runner

	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()

	return nil
}

// Next reports when the job fires next after t.
func (c *CronScheduler) Next(t time.Time) (time.Time, error) {
	sched, err := ParseSpec(c.spec)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(t.In(c.location)), nil
}

// Stop halts the cron loop and waits for a running job or ctx, whichever comes first.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.cron
	c.cron = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}
	done := runner.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
