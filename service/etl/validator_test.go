/*
 * @module service/etl/validator_test
 * @description Validator unit tests: rule chain, error kinds, batch accounting
 * @architecture Unit tests - pure logic, no database
 * @stateFlow Build candidate batches -> validate -> verify counts and error kinds
 * @rules Year type errors and year range errors are distinct kinds
 * @dependencies testing, testify
 * @refs validator.go
 */

package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gus-analytics-service/service/models"
	"gus-analytics-service/testutil"
)

func validCandidate() CandidateRecord {
	return CandidateRecord{
		UnitCode:     "0200000",
		UnitName:     "DOLNOŚLĄSKIE",
		Level:        models.LevelRegion,
		CostTypeCode: "ZASOBY_GMINNE",
		CostTypeName: "zasoby gminne (komunalne)",
		Category:     models.CategoryPublic,
		Year:         2022,
		Value:        testutil.FloatPtr(1000.0),
	}
}

func TestValidator_SingleRecordRules(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name      string
		mutate    func(*CandidateRecord)
		wantType  string
		wantField string
	}{
		{
			name:      "malformed unit code",
			mutate:    func(r *CandidateRecord) { r.UnitCode = "02X0000" },
			wantType:  models.ErrorInvalidUnitCode,
			wantField: "unit_code",
		},
		{
			name:      "blank unit name",
			mutate:    func(r *CandidateRecord) { r.UnitName = "   " },
			wantType:  models.ErrorNullValue,
			wantField: "unit_name",
		},
		{
			name:      "non numeric year",
			mutate:    func(r *CandidateRecord) { r.Year = "dwa tysiące" },
			wantType:  models.ErrorInvalidDataType,
			wantField: "year",
		},
		{
			name:      "nil year",
			mutate:    func(r *CandidateRecord) { r.Year = nil },
			wantType:  models.ErrorInvalidDataType,
			wantField: "year",
		},
		{
			name:      "year below range",
			mutate:    func(r *CandidateRecord) { r.Year = 1999 },
			wantType:  models.ErrorInvalidYear,
			wantField: "year",
		},
		{
			name:      "year above range",
			mutate:    func(r *CandidateRecord) { r.Year = 2101 },
			wantType:  models.ErrorInvalidYear,
			wantField: "year",
		},
		{
			name:      "missing value",
			mutate:    func(r *CandidateRecord) { r.Value = nil },
			wantType:  models.ErrorNullValue,
			wantField: "value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validCandidate()
			tt.mutate(&rec)

			result := validator.ValidateBatch([]CandidateRecord{rec})

			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.wantType, result.Errors[0].Type)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.Empty(t, result.ValidRecords)
		})
	}
}

func TestValidator_StringYearAccepted(t *testing.T) {
	validator := NewValidator()

	rec := validCandidate()
	rec.Year = "2022"

	result := validator.ValidateBatch([]CandidateRecord{rec})

	assert.Len(t, result.ValidRecords, 1)
	assert.Empty(t, result.Errors)
}

func TestValidator_ShortCodePadsAndPasses(t *testing.T) {
	validator := NewValidator()

	rec := validCandidate()
	rec.UnitCode = "23"

	result := validator.ValidateBatch([]CandidateRecord{rec})

	assert.Len(t, result.ValidRecords, 1)
}

func TestValidator_YearBoundsInclusive(t *testing.T) {
	validator := NewValidator()

	for _, year := range []int{2000, 2100} {
		rec := validCandidate()
		rec.Year = year

		result := validator.ValidateBatch([]CandidateRecord{rec})

		assert.Len(t, result.ValidRecords, 1, "year %d is within bounds", year)
	}
}

func TestValidator_BatchAccounting(t *testing.T) {
	validator := NewValidator()

	records := make([]CandidateRecord, 0, 100)
	for i := 0; i < 100; i++ {
		rec := validCandidate()
		if i < 5 {
			rec.Value = nil
		}
		records = append(records, rec)
	}

	result := validator.ValidateBatch(records)

	assert.Equal(t, 100, result.TotalInput())
	assert.Equal(t, 95, result.ValidCount())
	assert.Equal(t, 5, result.ErrorCount())
	assert.InDelta(t, 95.0, result.SuccessRate(), 0.001)
}

func TestValidator_EmptyBatch(t *testing.T) {
	validator := NewValidator()

	result := validator.ValidateBatch(nil)

	assert.Zero(t, result.TotalInput())
	assert.Zero(t, result.SuccessRate())
}

func TestValidator_PreservesInputOrder(t *testing.T) {
	validator := NewValidator()

	var records []CandidateRecord
	for _, year := range []int{2018, 2020, 2022, 2024} {
		rec := validCandidate()
		rec.Year = year
		records = append(records, rec)
	}

	result := validator.ValidateBatch(records)

	require.Len(t, result.ValidRecords, 4)
	for i, year := range []int{2018, 2020, 2022, 2024} {
		assert.Equal(t, year, result.ValidRecords[i].Year)
	}
}
