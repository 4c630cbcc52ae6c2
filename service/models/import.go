/*
 * @module service/models/import
 * @description Import bookkeeping: pipeline run log, rejected-record store
 *              and per-run data quality report
 * @architecture Data warehouse - audit/provenance tables
 * @stateFlow ImportRun created RUNNING -> exactly one terminal state (SUCCESS or FAILED)
 * @rules ValidationError rows are append-only; one DataQualityReport per run
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/etl/pipeline.go, service/etl/quality.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRun statuses.
const (
	ImportStatusRunning = "RUNNING"
	ImportStatusSuccess = "SUCCESS"
	ImportStatusFailed  = "FAILED"
)

// Validation error kinds.
const (
	ErrorNullValue       = "NULL_VALUE"
	ErrorInvalidUnitCode = "INVALID_KOD_GUS"
	ErrorInvalidDataType = "INVALID_DATA_TYPE"
	ErrorInvalidLevel    = "INVALID_POZIOM"
	ErrorInvalidCategory = "INVALID_KATEGORIA"
	ErrorInvalidYear     = "INVALID_ROK"
)

// ImportRun records one pipeline invocation. It is created in RUNNING state
// and always finalized to SUCCESS or FAILED, never left running.
type ImportRun struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	RunUID        string     `json:"run_uid" gorm:"not null;uniqueIndex;type:varchar(36)"`
	Source        string     `json:"source" gorm:"not null;size:255"`
	Status        string     `json:"status" gorm:"not null;size:20;index"`
	StartedAt     time.Time  `json:"started_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	RowsProcessed int        `json:"rows_processed" gorm:"not null;default:0"`
	RowsInserted  int        `json:"rows_inserted" gorm:"not null;default:0"`
	RowsFailed    int        `json:"rows_failed" gorm:"not null;default:0"`
	RowsDropped   int        `json:"rows_dropped" gorm:"not null;default:0"`
	RowsSkipped   int        `json:"rows_skipped" gorm:"not null;default:0"`
	SourceHash    string     `json:"source_hash" gorm:"size:64"`
	ErrorMessage  string     `json:"error_message" gorm:"type:text"`
}

func (ImportRun) TableName() string { return "import_run" }

// BeforeCreate assigns the run UID.
func (r *ImportRun) BeforeCreate(tx *gorm.DB) error {
	if r.RunUID == "" {
		r.RunUID = uuid.New().String()
	}
	return nil
}

// ValidationError persists one rejected candidate record: the offending
// field, error kind, raw value and the full record payload for inspection.
type ValidationError struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ImportID     uint      `json:"import_id" gorm:"not null;index"`
	RecordData   JSONB     `json:"record_data" gorm:"type:jsonb"`
	ErrorType    string    `json:"error_type" gorm:"not null;size:30"`
	ErrorField   string    `json:"error_field" gorm:"not null;size:50"`
	ErrorMessage string    `json:"error_message" gorm:"not null;size:500"`
	RawValue     *string   `json:"raw_value,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ValidationError) TableName() string { return "validation_error" }

// DataQualityReport aggregates value statistics and a bounded sample of
// validation issues for one import run.
type DataQualityReport struct {
	ID               string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ImportID         uint       `json:"import_id" gorm:"not null;uniqueIndex"`
	TotalRows        int        `json:"total_rows" gorm:"not null"`
	NullCount        int        `json:"null_count" gorm:"not null"`
	NullPercentage   float64    `json:"null_percentage" gorm:"not null"`
	ValidationPassed bool       `json:"validation_passed" gorm:"not null"`
	Issues           JSONBArray `json:"issues" gorm:"type:jsonb"`
	MinValue         *float64   `json:"min_value,omitempty"`
	MaxValue         *float64   `json:"max_value,omitempty"`
	AvgValue         *float64   `json:"avg_value,omitempty"`
	MedianValue      *float64   `json:"median_value,omitempty"`
	StddevValue      *float64   `json:"stddev_value,omitempty"`
	GeneratedAt      time.Time  `json:"generated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DataQualityReport) TableName() string { return "data_quality_report" }

// BeforeCreate assigns the report ID.
func (r *DataQualityReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
