/*
 * @module service/scheduler/scheduler_service
 * @description Cron-driven jobs: daily source change detection and the
 *              weekly import/analysis/report cycle
 * @architecture Goroutine and timer based scheduler pattern
 * @stateFlow Start registers cron entries -> jobs run in cron goroutines ->
 *            Stop cancels the context and drains the cron
 * @rules At most one pipeline run at a time; an overlapping trigger is
 *        skipped, not queued
 * @dependencies github.com/robfig/cron/v3, gus-analytics-service/service/etl
 * @refs service/etl/pipeline.go, service/monitoring/notifier.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"gus-analytics-service/client"
	"gus-analytics-service/service/analysis"
	"gus-analytics-service/service/config"
	"gus-analytics-service/service/etl"
	"gus-analytics-service/service/monitoring"
	"gus-analytics-service/service/report"
)

// SchedulerService owns the periodic jobs of the system.
type SchedulerService struct {
	cfg      config.SchedulerConfig
	bdl      *client.BDLClient
	cache    *client.DatasetCache
	pipeline *etl.Pipeline
	analysis *analysis.Service
	htmlGen  *report.HTMLGenerator
	xlsxGen  *report.XLSXGenerator
	notifier *monitoring.Notifier

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
}

// NewSchedulerService wires the scheduler over its collaborators.
func NewSchedulerService(
	cfg config.SchedulerConfig,
	bdl *client.BDLClient,
	cache *client.DatasetCache,
	pipeline *etl.Pipeline,
	analysisService *analysis.Service,
	htmlGen *report.HTMLGenerator,
	xlsxGen *report.XLSXGenerator,
	notifier *monitoring.Notifier,
) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerService{
		cfg:      cfg,
		bdl:      bdl,
		cache:    cache,
		pipeline: pipeline,
		analysis: analysisService,
		htmlGen:  htmlGen,
		xlsxGen:  xlsxGen,
		notifier: notifier,
		cron:     cron.New(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the cron entries and launches the scheduler.
func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.DailyCheckCron, s.RunDailyCheck); err != nil {
		return fmt.Errorf("registering daily check: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.WeeklyJobCron, s.RunWeeklyJob); err != nil {
		return fmt.Errorf("registering weekly job: %w", err)
	}
	s.cron.Start()
	slog.Info("scheduler started",
		"daily_check", s.cfg.DailyCheckCron, "weekly_job", s.cfg.WeeklyJobCron)
	return nil
}

// Stop cancels in-flight work and halts the cron.
func (s *SchedulerService) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// tryAcquire marks a pipeline run active, reporting false when one already is.
func (s *SchedulerService) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *SchedulerService) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// RunDailyCheck fetches the source dataset and, when its content hash
// differs from the cached snapshot, notifies and starts an import.
func (s *SchedulerService) RunDailyCheck() {
	if !s.tryAcquire() {
		slog.Warn("daily check skipped, another run is active")
		return
	}
	defer s.release()

	slog.Info("daily source check started")
	dataset, err := s.bdl.FetchMaintenanceCosts(s.ctx, nil, 2)
	if err != nil {
		slog.Error("daily check fetch failed", "error", err)
		return
	}

	changed, err := s.cache.HasChanged(dataset.SubjectID, dataset.Hash)
	if err != nil {
		slog.Error("daily check cache comparison failed", "error", err)
		return
	}
	if !changed {
		slog.Info("daily check complete, no new data")
		return
	}

	if err := s.notifier.NotifyNewData(dataset.SubjectID, dataset.Hash); err != nil {
		slog.Error("new data notification failed", "error", err)
	}
	if _, err := s.cache.Save(dataset); err != nil {
		slog.Error("saving dataset snapshot failed", "error", err)
	}

	outcome, err := s.pipeline.Run(s.ctx, nil, 2)
	if err != nil {
		slog.Error("triggered import failed to start", "error", err)
		return
	}
	if !outcome.Success {
		if err := s.notifier.NotifyEtlFailure(outcome); err != nil {
			slog.Error("failure notification failed", "error", err)
		}
	}
}

// RunWeeklyJob runs a full import, analyses the warehouse, generates both
// report artifacts, and mails the summary.
func (s *SchedulerService) RunWeeklyJob() {
	if !s.tryAcquire() {
		slog.Warn("weekly job skipped, another run is active")
		return
	}
	defer s.release()

	slog.Info("weekly job started")
	outcome, err := s.pipeline.Run(s.ctx, nil, 2)
	if err != nil {
		slog.Error("weekly import failed to start", "error", err)
		return
	}
	if !outcome.Success {
		if err := s.notifier.NotifyEtlFailure(outcome); err != nil {
			slog.Error("failure notification failed", "error", err)
		}
		return
	}

	fullReport, err := s.analysis.FullReport()
	if err != nil {
		slog.Error("weekly analysis failed", "error", err)
		return
	}

	var paths []string
	if path, err := s.htmlGen.Generate(fullReport); err != nil {
		slog.Error("html report generation failed", "error", err)
	} else {
		paths = append(paths, path)
	}
	if path, err := s.xlsxGen.Generate(fullReport); err != nil {
		slog.Error("xlsx report generation failed", "error", err)
	} else {
		paths = append(paths, path)
	}

	if err := s.notifier.NotifyWeeklyReport(outcome, fullReport.Insights, paths); err != nil {
		slog.Error("weekly report notification failed", "error", err)
	}
	slog.Info("weekly job finished", "reports", len(paths))
}
