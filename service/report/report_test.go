/*
 * @module service/report/report_test
 * @description Report generator tests: files exist and carry expected content
 * @architecture Integration tests - real file output into t.TempDir
 * @stateFlow Build analysis report -> generate -> inspect written files
 * @rules Generators must produce valid artifacts for both full and empty reports
 * @dependencies testing, testify, excelize
 * @refs html.go, xlsx.go
 */

package report

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gus-analytics-service/service/analysis"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary: analysis.SummaryStats{
			Facts: 10, Units: 2, Years: 2,
			MinValue: 50, MaxValue: 200, AvgValue: 114,
		},
		Trends: []analysis.YearlyTrend{
			{Year: 2020, AvgValue: 105, MinValue: 100, MaxValue: 110, Facts: 2},
			{Year: 2022, AvgValue: 120, MinValue: 50, MaxValue: 200, Facts: 3},
		},
		Ranking: &analysis.RegionRanking{
			Year: 2022,
			Regions: []analysis.RegionCost{
				{UnitCode: "0200000", UnitName: "DOLNOŚLĄSKIE", AvgValue: 125},
				{UnitCode: "0400000", UnitName: "KUJAWSKO-POMORSKIE", AvgValue: 110},
			},
			Top:    []analysis.RegionCost{{UnitCode: "0200000", UnitName: "DOLNOŚLĄSKIE", AvgValue: 125}},
			Bottom: []analysis.RegionCost{{UnitCode: "0400000", UnitName: "KUJAWSKO-POMORSKIE", AvgValue: 110}},
		},
		Structure: &analysis.CostStructure{
			Year:     2022,
			Dominant: "PUBLICZNE",
			Shares: []analysis.CategoryShare{
				{Category: "PUBLICZNE", Total: 310, Share: 86.11},
				{Category: "PRYWATNE", Total: 50, Share: 13.89},
			},
		},
		Dynamics: []analysis.YearOverYear{{FromYear: 2020, ToYear: 2022, ChangePct: 14.29}},
		Insights: []string{"Average maintenance cost rose 14.3% between 2020 and 2022."},
	}
}

func TestHTMLGenerator_Generate(t *testing.T) {
	gen, err := NewHTMLGenerator(t.TempDir())
	require.NoError(t, err)

	path, err := gen.Generate(sampleReport())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "Koszty utrzymania zasobów mieszkaniowych")
	assert.Contains(t, html, "DOLNOŚLĄSKIE")
	assert.Contains(t, html, "PUBLICZNE")
	assert.Contains(t, html, "14.29")
	assert.Contains(t, html, "Average maintenance cost rose")
}

func TestHTMLGenerator_EmptyReport(t *testing.T) {
	gen, err := NewHTMLGenerator(t.TempDir())
	require.NoError(t, err)

	path, err := gen.Generate(&analysis.Report{GeneratedAt: time.Now()})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Podsumowanie")
	assert.NotContains(t, string(content), "Anomalie")
}

func TestXLSXGenerator_Generate(t *testing.T) {
	gen, err := NewXLSXGenerator(t.TempDir())
	require.NoError(t, err)

	path, err := gen.Generate(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Podsumowanie")
	assert.Contains(t, sheets, "Trendy roczne")
	assert.Contains(t, sheets, "Ranking 2022")
	assert.Contains(t, sheets, "Struktura 2022")
	assert.Contains(t, sheets, "Anomalie")
	assert.NotContains(t, sheets, "Sheet1")

	year, err := f.GetCellValue("Trendy roczne", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2020", year)

	region, err := f.GetCellValue("Ranking 2022", "C2")
	require.NoError(t, err)
	assert.Equal(t, "DOLNOŚLĄSKIE", region)
}
