/*
 * @module service/init
 * @description Service bootstrap: configuration load, database connection,
 *              schema and view migration, global service wiring
 * @architecture Layered architecture - service layer
 * @stateFlow Config -> database -> migrations -> services -> scheduler start
 * @rules The process exits when the database or migrations are unavailable;
 *        API routing must only begin after init completes
 * @dependencies gorm.io/driver/postgres, gus-analytics-service/service/config
 * @refs main.go, api/routes.go
 */

package service

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gus-analytics-service/client"
	"gus-analytics-service/service/analysis"
	"gus-analytics-service/service/config"
	"gus-analytics-service/service/database"
	"gus-analytics-service/service/etl"
	"gus-analytics-service/service/monitoring"
	"gus-analytics-service/service/report"
	"gus-analytics-service/service/scheduler"
)

var (
	Cfg config.Config
	DB  *gorm.DB

	GlobalBDLClient        *client.BDLClient
	GlobalDatasetCache     *client.DatasetCache
	GlobalPipeline         *etl.Pipeline
	GlobalAnalysisService  *analysis.Service
	GlobalHTMLGenerator    *report.HTMLGenerator
	GlobalXLSXGenerator    *report.XLSXGenerator
	GlobalNotifier         *monitoring.Notifier
	GlobalSchedulerService *scheduler.SchedulerService
)

func init() {
	Cfg = config.Load()
	initDatabase()
	runMigrations()
	initServices()
}

func initDatabase() {
	var err error
	DB, err = gorm.Open(postgres.Open(Cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected", "host", Cfg.Database.Host, "name", Cfg.Database.Name)
}

func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		slog.Error("schema migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrateView(DB); err != nil {
		slog.Error("view migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations complete")
}

func initServices() {
	GlobalBDLClient = client.NewBDLClient(Cfg.BDL)

	var err error
	GlobalDatasetCache, err = client.NewDatasetCache(Cfg.DataDir)
	if err != nil {
		slog.Error("dataset cache init failed", "error", err)
		os.Exit(1)
	}

	GlobalPipeline = etl.NewPipeline(DB, GlobalBDLClient)
	GlobalAnalysisService = analysis.NewService(DB)

	GlobalHTMLGenerator, err = report.NewHTMLGenerator(Cfg.OutputDir)
	if err != nil {
		slog.Error("html generator init failed", "error", err)
		os.Exit(1)
	}
	GlobalXLSXGenerator, err = report.NewXLSXGenerator(Cfg.OutputDir)
	if err != nil {
		slog.Error("xlsx generator init failed", "error", err)
		os.Exit(1)
	}

	GlobalNotifier = monitoring.NewNotifier(
		monitoring.NewEmailChannel(Cfg.SMTP),
		monitoring.NewLogChannel(),
	)

	GlobalSchedulerService = scheduler.NewSchedulerService(
		Cfg.Scheduler,
		GlobalBDLClient,
		GlobalDatasetCache,
		GlobalPipeline,
		GlobalAnalysisService,
		GlobalHTMLGenerator,
		GlobalXLSXGenerator,
		GlobalNotifier,
	)
	if err := GlobalSchedulerService.Start(); err != nil {
		slog.Error("scheduler start failed", "error", err)
	}

	slog.Info("services initialized")
}
