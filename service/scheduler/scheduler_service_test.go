/*
 * @module service/scheduler/scheduler_service_test
 * @description Scheduler tests: single active run guard, cron registration
 * @architecture Unit tests - no cron ticks, direct method calls
 * @stateFlow Build scheduler -> exercise guard -> verify exclusivity
 * @rules Overlapping triggers must be skipped, never queued
 * @dependencies testing, testify
 * @refs scheduler_service.go
 */

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gus-analytics-service/service/config"
)

func TestSchedulerService_SingleActiveRun(t *testing.T) {
	s := NewSchedulerService(config.SchedulerConfig{}, nil, nil, nil, nil, nil, nil, nil)

	require.True(t, s.tryAcquire())
	assert.False(t, s.tryAcquire(), "second acquisition must be refused")

	s.release()
	assert.True(t, s.tryAcquire(), "released guard can be reacquired")
}

func TestSchedulerService_StartRejectsBadCron(t *testing.T) {
	s := NewSchedulerService(config.SchedulerConfig{
		DailyCheckCron: "not a cron spec",
		WeeklyJobCron:  "0 8 * * 1",
	}, nil, nil, nil, nil, nil, nil, nil)

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily check")
}

func TestSchedulerService_StartAndStop(t *testing.T) {
	s := NewSchedulerService(config.SchedulerConfig{
		DailyCheckCron: "0 6 * * *",
		WeeklyJobCron:  "0 8 * * 1",
	}, nil, nil, nil, nil, nil, nil, nil)

	require.NoError(t, s.Start())
	s.Stop()
}
