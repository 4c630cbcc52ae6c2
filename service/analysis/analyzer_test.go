/*
 * @module service/analysis/analyzer_test
 * @description Analysis service tests over a seeded in-memory warehouse
 * @architecture Integration tests - real gorm aggregation on sqlite
 * @stateFlow Seed star schema -> run analyses -> verify derived metrics
 * @rules Seeded values are chosen so expected aggregates are exact
 * @dependencies testing, testify, testutil
 * @refs analyzer.go
 */

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gus-analytics-service/service/models"
	"gus-analytics-service/testutil"
)

// seedWarehouse loads two regions and one cost type across two years.
// Region 02: 100 (2020) -> 200 (2022). Region 04: 110 (2020) -> 110 (2022).
func seedWarehouse(t *testing.T, tdb *testutil.TestDB) {
	t.Helper()
	factory := testutil.NewTestDataFactory(tdb.DB)

	run := factory.CreateImportRun()
	unit02 := factory.CreateUnit()
	unit04 := factory.CreateUnit(func(u *models.DimUnit) {
		u.Code = "0400000"
		u.Name = "KUJAWSKO-POMORSKIE"
	})
	public := factory.CreateCostType()
	private := factory.CreateCostType(func(ct *models.DimCostType) {
		ct.Code = "ZASOBY_WSPOLNOTY"
		ct.Name = "zasoby wspólnot"
		ct.Category = models.CategoryPrivate
	})
	y2020 := factory.CreatePeriod(2020)
	y2022 := factory.CreatePeriod(2022)

	factory.CreateFact(unit02.ID, public.ID, y2020.ID, run.ID, 100)
	factory.CreateFact(unit02.ID, public.ID, y2022.ID, run.ID, 200)
	factory.CreateFact(unit04.ID, public.ID, y2020.ID, run.ID, 110)
	factory.CreateFact(unit04.ID, public.ID, y2022.ID, run.ID, 110)
	factory.CreateFact(unit02.ID, private.ID, y2022.ID, run.ID, 50)
}

func TestService_Summary(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	seedWarehouse(t, tdb)

	stats, err := NewService(tdb.DB).Summary()
	require.NoError(t, err)

	assert.EqualValues(t, 5, stats.Facts)
	assert.EqualValues(t, 2, stats.Units)
	assert.EqualValues(t, 2, stats.Years)
	assert.Equal(t, 50.0, stats.MinValue)
	assert.Equal(t, 200.0, stats.MaxValue)
	assert.InDelta(t, 114.0, stats.AvgValue, 0.001)
}

func TestService_SummaryEmptyWarehouse(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	stats, err := NewService(tdb.DB).Summary()
	require.NoError(t, err)
	assert.Zero(t, stats.Facts)
}

func TestService_YearlyTrends(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	seedWarehouse(t, tdb)

	trends, err := NewService(tdb.DB).YearlyTrends()
	require.NoError(t, err)
	require.Len(t, trends, 2)

	assert.Equal(t, 2020, trends[0].Year)
	assert.InDelta(t, 105.0, trends[0].AvgValue, 0.001)
	assert.Equal(t, 2, trends[0].Facts)

	assert.Equal(t, 2022, trends[1].Year)
	assert.InDelta(t, 120.0, trends[1].AvgValue, 0.001)
	assert.Equal(t, 3, trends[1].Facts)
}

func TestService_RegionRanking(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	seedWarehouse(t, tdb)

	ranking, err := NewService(tdb.DB).RegionRanking()
	require.NoError(t, err)
	require.NotNil(t, ranking)

	assert.Equal(t, 2022, ranking.Year)
	require.NotEmpty(t, ranking.Top)
	// Region 02 averages (200+50)/2=125 in 2022, region 04 averages 110.
	assert.Equal(t, "0200000", ranking.Top[0].UnitCode)
	assert.InDelta(t, 125.0, ranking.Top[0].AvgValue, 0.001)
	assert.Equal(t, "0400000", ranking.Bottom[len(ranking.Bottom)-1].UnitCode)
}

func TestService_CostStructure(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	seedWarehouse(t, tdb)

	structure, err := NewService(tdb.DB).CostStructure()
	require.NoError(t, err)
	require.NotNil(t, structure)

	assert.Equal(t, 2022, structure.Year)
	assert.Equal(t, models.CategoryPublic, structure.Dominant)

	require.Len(t, structure.Shares, 2)
	// 2022 totals: PUBLICZNE 310, PRYWATNE 50.
	assert.InDelta(t, 86.11, structure.Shares[0].Share, 0.01)
	assert.InDelta(t, 13.89, structure.Shares[1].Share, 0.01)
}

func TestService_Dynamics(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	seedWarehouse(t, tdb)

	dynamics, err := NewService(tdb.DB).Dynamics()
	require.NoError(t, err)
	require.Len(t, dynamics, 1)

	assert.Equal(t, 2020, dynamics[0].FromYear)
	assert.Equal(t, 2022, dynamics[0].ToYear)
	// 105 -> 120 is +14.29%.
	assert.InDelta(t, 14.29, dynamics[0].ChangePct, 0.01)
}

func TestService_AnomaliesExtremeChange(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	seedWarehouse(t, tdb)

	anomalies, err := NewService(tdb.DB).Anomalies()
	require.NoError(t, err)

	// Per-unit yearly averages: 02 moved 100 -> 125 (25%), 04 stayed at
	// 110. Neither crosses the 50% extreme-change threshold.
	for _, a := range anomalies {
		assert.NotEqual(t, "extreme_change", a.Kind)
	}
}

func TestService_FullReport(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	seedWarehouse(t, tdb)

	report, err := NewService(tdb.DB).FullReport()
	require.NoError(t, err)

	assert.EqualValues(t, 5, report.Summary.Facts)
	assert.Len(t, report.Trends, 2)
	assert.NotNil(t, report.Ranking)
	assert.NotNil(t, report.Structure)
	assert.NotEmpty(t, report.Insights)
}

func TestService_FullReportEmptyWarehouse(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	report, err := NewService(tdb.DB).FullReport()
	require.NoError(t, err)

	assert.Zero(t, report.Summary.Facts)
	assert.Len(t, report.Insights, 1)
}
