package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	runs []string
	err  error
	done chan struct{}
}

func newRecorder(err error) *recorder {
	return &recorder{err: err, done: make(chan struct{}, 8)}
}

func (r *recorder) Publish(ctx context.Context, runID string) error {
	r.mu.Lock()
	r.runs = append(r.runs, runID)
	r.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		panic("run context has no deadline")
	}
	r.done <- struct{}{}
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func waitRun(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher was not invoked")
	}
}

func TestStartRequiresTrigger(t *testing.T) {
	s := New(newRecorder(nil), Options{})
	assert.Error(t, s.Start())
}

func TestStartRegistersTriggers(t *testing.T) {
	s := New(newRecorder(nil), Options{
		CronSpecs: []string{"0 7 * * *", "0 19 * * *"},
		Interval:  time.Hour,
	})
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 3, s.JobCount())
}

func TestStartRejectsBadCron(t *testing.T) {
	s := New(newRecorder(nil), Options{CronSpecs: []string{"not a cron"}})
	assert.Error(t, s.Start())
}

func TestRunOnStart(t *testing.T) {
	r := newRecorder(nil)
	s := New(r, Options{Interval: time.Hour, RunOnStart: true})
	require.NoError(t, s.Start())
	defer s.Stop()

	waitRun(t, r)
	assert.Equal(t, 1, r.count())
}

func TestFailedRunsDoNotStopScheduling(t *testing.T) {
	r := newRecorder(errors.New("fetch failed"))
	s := New(r, Options{Interval: time.Hour})

	s.runJob()
	s.runJob()

	require.Equal(t, 2, r.count())
	assert.NotEqual(t, r.runs[0], r.runs[1], "each run gets its own id")
}
