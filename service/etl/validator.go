/*
 * @module service/etl/validator
 * @description Batch validator for candidate fact rows: required fields, unit
 *              code format, year range and type, value presence
 * @architecture Layered - pure domain logic, no I/O
 * @stateFlow Candidate batch -> per-record rule chain (first failure wins) -> result bundle
 * @rules Every invalid record is reported exactly once; valid records keep input order
 * @dependencies github.com/spf13/cast, gus-analytics-service/service/models
 * @refs service/etl/transformer.go, service/etl/quality.go
 */

package etl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"gus-analytics-service/service/models"
)

// Year bounds accepted by the validator.
const (
	MinYear = 2000
	MaxYear = 2100
)

var unitCodePattern = regexp.MustCompile(`^\d{7}$`)

// RecordError describes one rejected candidate record.
type RecordError struct {
	Record   CandidateRecord `json:"record"`
	Type     string          `json:"type"`
	Field    string          `json:"field"`
	Message  string          `json:"message"`
	RawValue *string         `json:"raw_value,omitempty"`
}

// ValidationResult bundles the order-preserving valid records with every
// rejection from the same batch.
type ValidationResult struct {
	ValidRecords []CandidateRecord `json:"valid_records"`
	Errors       []RecordError     `json:"errors"`
}

// TotalInput is the number of records examined.
func (r ValidationResult) TotalInput() int { return len(r.ValidRecords) + len(r.Errors) }

// ValidCount is the number of accepted records.
func (r ValidationResult) ValidCount() int { return len(r.ValidRecords) }

// ErrorCount is the number of rejected records.
func (r ValidationResult) ErrorCount() int { return len(r.Errors) }

// SuccessRate is the accepted percentage, 0 for an empty batch.
func (r ValidationResult) SuccessRate() float64 {
	total := r.TotalInput()
	if total == 0 {
		return 0
	}
	return float64(r.ValidCount()) / float64(total) * 100
}

// Validator applies the record-level rules. It is stateless and safe for
// concurrent use.
type Validator struct{}

// NewValidator builds a validator.
func NewValidator() *Validator { return &Validator{} }

// ValidateBatch classifies every record as valid or invalid. The first
// failing rule short-circuits further checks on that record.
func (v *Validator) ValidateBatch(records []CandidateRecord) ValidationResult {
	result := ValidationResult{
		ValidRecords: make([]CandidateRecord, 0, len(records)),
	}

	for _, rec := range records {
		if err := v.validateRecord(rec); err != nil {
			result.Errors = append(result.Errors, *err)
			continue
		}
		result.ValidRecords = append(result.ValidRecords, rec)
	}
	return result
}

func (v *Validator) validateRecord(rec CandidateRecord) *RecordError {
	if err := v.checkUnitCode(rec); err != nil {
		return err
	}
	if err := v.checkUnitName(rec); err != nil {
		return err
	}
	if err := v.checkYear(rec); err != nil {
		return err
	}
	if err := v.checkValue(rec); err != nil {
		return err
	}
	return nil
}

func (v *Validator) checkUnitCode(rec CandidateRecord) *RecordError {
	padded := PadUnitCode(rec.UnitCode)
	if !unitCodePattern.MatchString(padded) {
		return newRecordError(rec, models.ErrorInvalidUnitCode, "unit_code",
			"unit code must be 7 digits", rec.UnitCode)
	}
	return nil
}

func (v *Validator) checkUnitName(rec CandidateRecord) *RecordError {
	if strings.TrimSpace(rec.UnitName) == "" {
		return newRecordError(rec, models.ErrorNullValue, "unit_name",
			"unit name is empty", rec.UnitName)
	}
	return nil
}

func (v *Validator) checkYear(rec CandidateRecord) *RecordError {
	year, err := cast.ToIntE(rec.Year)
	if err != nil || rec.Year == nil {
		return newRecordError(rec, models.ErrorInvalidDataType, "year",
			"year must be an integer", rec.Year)
	}
	if year < MinYear || year > MaxYear {
		return newRecordError(rec, models.ErrorInvalidYear, "year",
			fmt.Sprintf("year outside range %d-%d", MinYear, MaxYear), rec.Year)
	}
	return nil
}

func (v *Validator) checkValue(rec CandidateRecord) *RecordError {
	if rec.Value == nil {
		return newRecordError(rec, models.ErrorNullValue, "value",
			"value is missing", nil)
	}
	return nil
}

func newRecordError(rec CandidateRecord, errType, field, message string, raw interface{}) *RecordError {
	var rawValue *string
	if raw != nil {
		s := cast.ToString(raw)
		rawValue = &s
	}
	return &RecordError{
		Record:   rec,
		Type:     errType,
		Field:    field,
		Message:  message,
		RawValue: rawValue,
	}
}
