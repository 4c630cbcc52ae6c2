/*
 * @module service/etl/pipeline
 * @description Run orchestrator: fetch -> transform -> validate -> load ->
 *              quality report, bracketed by an import run row
 * @architecture Service layer - sequences the ETL components
 * @stateFlow Running import run created first; every exit path moves it to
 *            exactly one terminal state (SUCCESS or FAILED)
 * @rules An import run is never left RUNNING; a panic during a step is
 *        recovered and recorded as a failure; loads use per-statement
 *        transactions, so facts committed before a failure stay committed
 * @dependencies gorm.io/gorm, gus-analytics-service/client
 * @refs service/etl/loader.go, service/etl/quality.go, service/scheduler
 */

package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"gus-analytics-service/client"
	"gus-analytics-service/service/models"
)

// SourceFetcher supplies the raw dataset for a run. Implemented by the BDL
// client; tests substitute fakes.
type SourceFetcher interface {
	FetchMaintenanceCosts(ctx context.Context, years []int, unitLevel int) (*client.Dataset, error)
}

// ValidationSummary condenses a run's validation outcome for callers.
type ValidationSummary struct {
	TotalInput  int     `json:"total_input"`
	ValidCount  int     `json:"valid_count"`
	ErrorCount  int     `json:"error_count"`
	SuccessRate float64 `json:"success_rate"`
}

// PipelineOutcome is the single result object of one run.
type PipelineOutcome struct {
	Success          bool              `json:"success"`
	RunID            uint              `json:"run_id"`
	RunUID           string            `json:"run_uid"`
	RecordsProcessed int               `json:"records_processed"`
	RecordsInserted  int               `json:"records_inserted"`
	RecordsFailed    int               `json:"records_failed"`
	RecordsDropped   int               `json:"records_dropped"`
	RecordsSkipped   int               `json:"records_skipped"`
	Validation       ValidationSummary `json:"validation"`
	DurationSeconds  float64           `json:"duration_seconds"`
	ErrorMessage     string            `json:"error_message,omitempty"`
}

// Pipeline wires the ETL components into one orchestrated run.
type Pipeline struct {
	db        *gorm.DB
	fetcher   SourceFetcher
	transform *Transformer
	validate  *Validator
	dims      *DimensionLoader
	facts     *FactLoader
	errors    *ErrorRepository
	quality   *QualityRecorder
}

// NewPipeline builds a pipeline over the shared database handle.
func NewPipeline(db *gorm.DB, fetcher SourceFetcher) *Pipeline {
	return &Pipeline{
		db:        db,
		fetcher:   fetcher,
		transform: NewTransformer(NewClassifier()),
		validate:  NewValidator(),
		dims:      NewDimensionLoader(db),
		facts:     NewFactLoader(db),
		errors:    NewErrorRepository(db),
		quality:   NewQualityRecorder(db),
	}
}

// Run executes one full ETL pass. years selects the observation years to
// fetch (nil for the client default), unitLevel the BDL granularity. The
// returned outcome is non-nil whenever the import run row was created; only
// a failure to create that row returns an error with no outcome.
func (p *Pipeline) Run(ctx context.Context, years []int, unitLevel int) (outcome *PipelineOutcome, err error) {
	started := time.Now()

	run := models.ImportRun{
		Source:    "GUS_BDL",
		Status:    models.ImportStatusRunning,
		StartedAt: started,
	}
	if err := p.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("creating import run: %w", err)
	}

	outcome = &PipelineOutcome{RunID: run.ID, RunUID: run.RunUID}
	slog.Info("etl run started", "run_id", run.ID, "run_uid", run.RunUID,
		"years", years, "unit_level", unitLevel)

	// The named result makes a recovered panic surface as a failed outcome
	// instead of a nil one.
	defer func() {
		if r := recover(); r != nil {
			p.finalize(&run, outcome, started, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := p.execute(ctx, &run, outcome, unitLevel, years); err != nil {
		p.finalize(&run, outcome, started, err)
		return outcome, nil
	}

	p.finalize(&run, outcome, started, nil)
	return outcome, nil
}

func (p *Pipeline) execute(ctx context.Context, run *models.ImportRun, outcome *PipelineOutcome, unitLevel int, years []int) error {
	dataset, err := p.fetcher.FetchMaintenanceCosts(ctx, years, unitLevel)
	if err != nil {
		return fmt.Errorf("fetching source data: %w", err)
	}
	if dataset == nil || len(dataset.Records) == 0 {
		return fmt.Errorf("source returned no records")
	}
	run.SourceHash = dataset.Hash

	candidates, stats := p.transform.Transform(dataset.Records, unitLevel)
	outcome.RecordsDropped = stats.UnmappedDropped
	slog.Info("transform complete", "run_id", run.ID, "raw", stats.RawRecords,
		"candidates", stats.Candidates, "unmapped_dropped", stats.UnmappedDropped,
		"null_observations", stats.NullObservations)

	result := p.validate.ValidateBatch(candidates)
	outcome.RecordsProcessed = result.TotalInput()
	outcome.RecordsFailed = result.ErrorCount()
	outcome.Validation = ValidationSummary{
		TotalInput:  result.TotalInput(),
		ValidCount:  result.ValidCount(),
		ErrorCount:  result.ErrorCount(),
		SuccessRate: result.SuccessRate(),
	}
	slog.Info("validation complete", "run_id", run.ID,
		"valid", result.ValidCount(), "errors", result.ErrorCount(),
		"success_rate", result.SuccessRate())

	if err := p.errors.SaveErrors(run.ID, result.Errors); err != nil {
		return err
	}

	if err := p.dims.Load(result.ValidRecords); err != nil {
		return fmt.Errorf("loading dimensions: %w", err)
	}

	factStats, err := p.facts.Load(result.ValidRecords, run.ID)
	outcome.RecordsInserted = factStats.Inserted
	outcome.RecordsSkipped = factStats.SkippedDimensions
	if err != nil {
		return fmt.Errorf("loading facts: %w", err)
	}

	if _, err := p.quality.Record(run.ID, candidates, result); err != nil {
		return err
	}
	return nil
}

// finalize moves the run to its terminal state and stamps the outcome.
// Persisting the terminal state itself may fail; that is logged but does not
// change the outcome already computed.
func (p *Pipeline) finalize(run *models.ImportRun, outcome *PipelineOutcome, started time.Time, runErr error) {
	finished := time.Now()
	outcome.DurationSeconds = finished.Sub(started).Seconds()

	run.FinishedAt = &finished
	run.RowsProcessed = outcome.RecordsProcessed
	run.RowsInserted = outcome.RecordsInserted
	run.RowsFailed = outcome.RecordsFailed
	run.RowsDropped = outcome.RecordsDropped
	run.RowsSkipped = outcome.RecordsSkipped

	if runErr != nil {
		outcome.Success = false
		outcome.ErrorMessage = runErr.Error()
		run.Status = models.ImportStatusFailed
		run.ErrorMessage = runErr.Error()
		slog.Error("etl run failed", "run_id", run.ID, "error", runErr,
			"duration_s", outcome.DurationSeconds)
	} else {
		outcome.Success = true
		run.Status = models.ImportStatusSuccess
		slog.Info("etl run finished", "run_id", run.ID,
			"processed", run.RowsProcessed, "inserted", run.RowsInserted,
			"failed", run.RowsFailed, "duration_s", outcome.DurationSeconds)
	}

	if err := p.db.Save(run).Error; err != nil {
		slog.Error("persisting import run terminal state", "run_id", run.ID, "error", err)
	}
	observeRun(outcome)
}
