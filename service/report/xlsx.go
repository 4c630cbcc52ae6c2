/*
 * @module service/report/xlsx
 * @description Excel workbook generator for analysis results: one sheet per
 *              analysis dimension
 * @architecture Service layer - output artifact generation
 * @stateFlow Analysis report -> sheets (trends, ranking, structure, anomalies) -> file
 * @rules Output files are timestamped and never overwritten
 * @dependencies github.com/xuri/excelize/v2
 * @refs service/analysis/analyzer.go, service/report/html.go
 */

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"gus-analytics-service/service/analysis"
)

// XLSXGenerator writes analysis workbooks into the output directory.
type XLSXGenerator struct {
	outputDir string
}

// NewXLSXGenerator creates the output directory if needed.
func NewXLSXGenerator(outputDir string) (*XLSXGenerator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	return &XLSXGenerator{outputDir: outputDir}, nil
}

// Generate writes one workbook for the report and returns its path.
func (g *XLSXGenerator) Generate(report *analysis.Report) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("creating header style: %w", err)
	}

	if err := g.writeSummarySheet(f, headerStyle, report); err != nil {
		return "", err
	}
	if err := g.writeTrendsSheet(f, headerStyle, report.Trends); err != nil {
		return "", err
	}
	if report.Ranking != nil {
		if err := g.writeRankingSheet(f, headerStyle, report.Ranking); err != nil {
			return "", err
		}
	}
	if report.Structure != nil {
		if err := g.writeStructureSheet(f, headerStyle, report.Structure); err != nil {
			return "", err
		}
	}
	if err := g.writeAnomaliesSheet(f, headerStyle, report.Anomalies); err != nil {
		return "", err
	}
	f.DeleteSheet("Sheet1")

	path := filepath.Join(g.outputDir,
		fmt.Sprintf("raport_%s.xlsx", report.GeneratedAt.Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}
	return path, nil
}

func writeHeaders(f *excelize.File, sheet string, style int, headers []string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 22)
	}
	return nil
}

func (g *XLSXGenerator) writeSummarySheet(f *excelize.File, style int, report *analysis.Report) error {
	const sheet = "Podsumowanie"
	if err := writeHeaders(f, sheet, style, []string{"Metryka", "Wartość"}); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Wygenerowano", report.GeneratedAt.Format(time.RFC3339)},
		{"Liczba faktów", report.Summary.Facts},
		{"Liczba jednostek", report.Summary.Units},
		{"Liczba lat", report.Summary.Years},
		{"Wartość minimalna", report.Summary.MinValue},
		{"Wartość maksymalna", report.Summary.MaxValue},
		{"Wartość średnia", report.Summary.AvgValue},
	}
	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row[1])
	}

	for i, insight := range report.Insights {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", len(rows)+3+i), insight)
	}
	return nil
}

func (g *XLSXGenerator) writeTrendsSheet(f *excelize.File, style int, trends []analysis.YearlyTrend) error {
	const sheet = "Trendy roczne"
	if err := writeHeaders(f, sheet, style, []string{"Rok", "Średnia", "Minimum", "Maksimum", "Liczba obserwacji"}); err != nil {
		return err
	}
	for i, tr := range trends {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), tr.Year)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), tr.AvgValue)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), tr.MinValue)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), tr.MaxValue)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), tr.Facts)
	}
	return nil
}

func (g *XLSXGenerator) writeRankingSheet(f *excelize.File, style int, ranking *analysis.RegionRanking) error {
	sheet := fmt.Sprintf("Ranking %d", ranking.Year)
	if err := writeHeaders(f, sheet, style, []string{"Pozycja", "Kod", "Województwo", "Średni koszt"}); err != nil {
		return err
	}
	for i, region := range ranking.Regions {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), region.UnitCode)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), region.UnitName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), region.AvgValue)
	}
	return nil
}

func (g *XLSXGenerator) writeStructureSheet(f *excelize.File, style int, structure *analysis.CostStructure) error {
	sheet := fmt.Sprintf("Struktura %d", structure.Year)
	if err := writeHeaders(f, sheet, style, []string{"Kategoria", "Suma", "Udział %"}); err != nil {
		return err
	}
	for i, share := range structure.Shares {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), share.Category)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), share.Total)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), share.Share)
	}
	return nil
}

func (g *XLSXGenerator) writeAnomaliesSheet(f *excelize.File, style int, anomalies []analysis.Anomaly) error {
	const sheet = "Anomalie"
	if err := writeHeaders(f, sheet, style, []string{"Kod", "Jednostka", "Rodzaj", "Wartość", "Odniesienie", "Opis"}); err != nil {
		return err
	}
	for i, a := range anomalies {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a.UnitCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), a.UnitName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), a.Kind)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), a.Value)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), a.Reference)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), a.Detail)
	}
	return nil
}
