/*
 * @module service/etl/quality_test
 * @description Quality recorder tests: distribution statistics, issue
 *              sampling, error persistence
 * @architecture Integration tests - real gorm operations on sqlite
 * @stateFlow Build validation results -> record -> verify persisted report
 * @rules Statistics cover every transformed row, not only the valid ones
 * @dependencies testing, testify, testutil
 * @refs quality.go
 */

package etl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gus-analytics-service/service/models"
	"gus-analytics-service/testutil"
)

func TestQualityRecorder_Statistics(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	recorder := NewQualityRecorder(tdb.DB)

	var candidates []CandidateRecord
	for _, v := range []float64{100, 200, 300, 400} {
		rec := validCandidate()
		rec.Value = testutil.FloatPtr(v)
		candidates = append(candidates, rec)
	}
	nullRec := validCandidate()
	nullRec.Value = nil
	candidates = append(candidates, nullRec)

	result := NewValidator().ValidateBatch(candidates)
	report, err := recorder.Record(1, candidates, result)
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 1, report.NullCount)
	assert.InDelta(t, 20.0, report.NullPercentage, 0.001)
	assert.False(t, report.ValidationPassed)

	require.NotNil(t, report.MinValue)
	require.NotNil(t, report.MaxValue)
	require.NotNil(t, report.AvgValue)
	require.NotNil(t, report.MedianValue)
	require.NotNil(t, report.StddevValue)
	assert.Equal(t, 100.0, *report.MinValue)
	assert.Equal(t, 400.0, *report.MaxValue)
	assert.Equal(t, 250.0, *report.AvgValue)
	assert.Equal(t, 250.0, *report.MedianValue)
	assert.InDelta(t, 129.099, *report.StddevValue, 0.001)
}

func TestQualityRecorder_CleanBatchPasses(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	recorder := NewQualityRecorder(tdb.DB)

	candidates := []CandidateRecord{validCandidate()}
	result := NewValidator().ValidateBatch(candidates)

	report, err := recorder.Record(2, candidates, result)
	require.NoError(t, err)

	assert.True(t, report.ValidationPassed)
	assert.Zero(t, report.NullCount)
	assert.Zero(t, report.NullPercentage)
	assert.Empty(t, report.Issues)
}

func TestQualityRecorder_SingleValueStddevZero(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	recorder := NewQualityRecorder(tdb.DB)

	candidates := []CandidateRecord{validCandidate()}
	result := NewValidator().ValidateBatch(candidates)

	report, err := recorder.Record(3, candidates, result)
	require.NoError(t, err)

	require.NotNil(t, report.StddevValue)
	assert.Zero(t, *report.StddevValue)
}

func TestQualityRecorder_IssueSampleBounded(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	recorder := NewQualityRecorder(tdb.DB)

	var candidates []CandidateRecord
	for i := 0; i < 150; i++ {
		rec := validCandidate()
		rec.Value = nil
		candidates = append(candidates, rec)
	}
	result := NewValidator().ValidateBatch(candidates)

	report, err := recorder.Record(4, candidates, result)
	require.NoError(t, err)

	assert.Len(t, report.Issues, 100)
	assert.Equal(t, 150, report.NullCount)
}

func TestQualityRecorder_EmptyBatch(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	recorder := NewQualityRecorder(tdb.DB)

	result := NewValidator().ValidateBatch(nil)
	report, err := recorder.Record(5, nil, result)
	require.NoError(t, err)

	assert.Zero(t, report.TotalRows)
	assert.InDelta(t, 100.0, report.NullPercentage, 0.001)
	assert.True(t, report.ValidationPassed)
	assert.Nil(t, report.MinValue)
}

func TestErrorRepository_PersistsRejections(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	repo := NewErrorRepository(tdb.DB)

	var candidates []CandidateRecord
	for i := 0; i < 3; i++ {
		rec := validCandidate()
		rec.UnitCode = fmt.Sprintf("02X%04d", i)
		candidates = append(candidates, rec)
	}
	result := NewValidator().ValidateBatch(candidates)
	require.Len(t, result.Errors, 3)

	require.NoError(t, repo.SaveErrors(42, result.Errors))

	var rows []models.ValidationError
	require.NoError(t, tdb.DB.Where("import_id = ?", 42).Find(&rows).Error)
	require.Len(t, rows, 3)

	assert.Equal(t, models.ErrorInvalidUnitCode, rows[0].ErrorType)
	assert.Equal(t, "unit_code", rows[0].ErrorField)
	require.NotNil(t, rows[0].RawValue)
	assert.Contains(t, *rows[0].RawValue, "02X")
	assert.Equal(t, "DOLNOŚLĄSKIE", rows[0].RecordData["unit_name"])
}
