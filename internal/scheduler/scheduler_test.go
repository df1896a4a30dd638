package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etfdca/trader/pkg/logger"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestAddJob_RejectsBadSchedule(t *testing.T) {
	s := New(logger.New(logger.Config{Level: "error"}))

	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
}

func TestAddJob_AcceptsSixFieldSchedule(t *testing.T) {
	s := New(logger.New(logger.Config{Level: "error"}))

	assert.NoError(t, s.AddJob("0 35 9 * * MON-FRI", &countingJob{}))
}

func TestRunNow(t *testing.T) {
	s := New(logger.New(logger.Config{Level: "error"}))

	job := &countingJob{}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)

	job.err = errors.New("boom")
	assert.Error(t, s.RunNow(job))
	assert.Equal(t, 2, job.runs)
}
