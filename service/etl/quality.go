/*
 * @module service/etl/quality
 * @description Persists per-run validation errors and the aggregated data
 *              quality report (value distribution, null rate, issue sample)
 * @architecture Data access layer - import bookkeeping
 * @stateFlow Validation result -> error rows -> distribution stats -> one report per run
 * @rules Exactly one quality report per import run; issue sample bounded at 100
 * @dependencies gorm.io/gorm, gus-analytics-service/service/models
 * @refs service/etl/validator.go, service/etl/pipeline.go
 */

package etl

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gorm.io/gorm"

	"gus-analytics-service/service/models"
)

// maxIssueSample bounds the number of validation issues stored per report.
const maxIssueSample = 100

// ErrorRepository persists rejected candidate records for later inspection.
type ErrorRepository struct {
	db *gorm.DB
}

// NewErrorRepository builds an error repository.
func NewErrorRepository(db *gorm.DB) *ErrorRepository {
	return &ErrorRepository{db: db}
}

// SaveErrors writes one row per rejection, tagged with the import run. The
// full candidate record is kept as an opaque JSON payload.
func (r *ErrorRepository) SaveErrors(importID uint, errs []RecordError) error {
	for _, e := range errs {
		row := models.ValidationError{
			ImportID:     importID,
			RecordData:   recordPayload(e.Record),
			ErrorType:    e.Type,
			ErrorField:   e.Field,
			ErrorMessage: e.Message,
			RawValue:     e.RawValue,
		}
		if err := r.db.Create(&row).Error; err != nil {
			return fmt.Errorf("saving validation error: %w", err)
		}
	}
	return nil
}

// recordPayload converts a candidate record to a JSONB map through a JSON
// round trip so the stored shape matches the record's wire form.
func recordPayload(rec CandidateRecord) models.JSONB {
	raw, err := json.Marshal(rec)
	if err != nil {
		return models.JSONB{}
	}
	var payload models.JSONB
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.JSONB{}
	}
	return payload
}

// QualityRecorder aggregates a run's validation outcome into one report row.
type QualityRecorder struct {
	db *gorm.DB
}

// NewQualityRecorder builds a quality recorder.
func NewQualityRecorder(db *gorm.DB) *QualityRecorder {
	return &QualityRecorder{db: db}
}

// Record computes value distribution statistics over every transformed row
// (valid and invalid alike) and persists the report for the run. The issue
// sample is capped at maxIssueSample entries.
func (q *QualityRecorder) Record(importID uint, candidates []CandidateRecord, result ValidationResult) (*models.DataQualityReport, error) {
	values := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		if c.Value != nil {
			values = append(values, *c.Value)
		}
	}

	// An empty batch has a success rate of 0, so its null percentage is 100.
	report := models.DataQualityReport{
		ImportID:         importID,
		TotalRows:        result.TotalInput(),
		NullCount:        result.ErrorCount(),
		NullPercentage:   round2(100 - result.SuccessRate()),
		ValidationPassed: result.ErrorCount() == 0,
		Issues:           issueSample(result.Errors),
	}

	if len(values) > 0 {
		minV, maxV, mean := distribution(values)
		median := medianOf(values)
		stddev := sampleStddev(values, mean)
		report.MinValue = &minV
		report.MaxValue = &maxV
		report.AvgValue = &mean
		report.MedianValue = &median
		report.StddevValue = &stddev
	}

	if err := q.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("saving quality report: %w", err)
	}
	return &report, nil
}

func issueSample(errs []RecordError) models.JSONBArray {
	limit := len(errs)
	if limit > maxIssueSample {
		limit = maxIssueSample
	}
	sample := make(models.JSONBArray, 0, limit)
	for _, e := range errs[:limit] {
		issue := models.JSONB{
			"type":    e.Type,
			"field":   e.Field,
			"message": e.Message,
		}
		if e.RawValue != nil {
			issue["raw_value"] = *e.RawValue
		}
		sample = append(sample, issue)
	}
	return sample
}

func distribution(values []float64) (minV, maxV, mean float64) {
	minV, maxV = values[0], values[0]
	var sum float64
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}
	return minV, maxV, sum / float64(len(values))
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleStddev is the n-1 standard deviation, 0 for fewer than two values.
func sampleStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
