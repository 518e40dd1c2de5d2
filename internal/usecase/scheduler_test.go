package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/logging"
	"FakeNewsDetector/internal/usecase"
	"FakeNewsDetector/internal/usecase/usecasetest"
)

// immediateDriver fires the job once per Start call.
type immediateDriver struct {
	stopped bool
}

func (d *immediateDriver) Start(_ context.Context, job func(time.Time)) error {
	job(time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC))
	return nil
}

func (d *immediateDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRetrainsOnTick(t *testing.T) {
	env := newServiceEnv(&staticCorpus{articles: usecasetest.Corpus(10)})
	driver := &immediateDriver{}
	s := usecase.NewScheduler(driver, env.service, logging.Discard())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, env.handle.Ready())
	assert.Equal(t, "schedule", env.service.Status().Trigger)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerWithoutDriver(t *testing.T) {
	s := usecase.NewScheduler(nil, nil, logging.Discard())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}
