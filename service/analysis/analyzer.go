/*
 * @module service/analysis/analyzer
 * @description Warehouse analytics: yearly trends, regional rankings, cost
 *              structure shares, year-over-year dynamics, anomaly detection
 * @architecture Service layer - read-only aggregation over the star schema
 * @stateFlow Aggregate queries -> derived metrics -> insight strings
 * @rules Analysis never mutates the warehouse; empty warehouse yields an
 *        empty report, not an error
 * @dependencies gorm.io/gorm, gus-analytics-service/service/models
 * @refs service/report, api/controllers/analysis_controller.go
 */

package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"gus-analytics-service/service/models"
)

// YearlyTrend is the aggregate cost profile of one year.
type YearlyTrend struct {
	Year     int     `json:"year"`
	AvgValue float64 `json:"avg_value"`
	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
	Facts    int     `json:"facts"`
}

// RegionCost is one region's average cost for a year.
type RegionCost struct {
	UnitCode string  `json:"unit_code"`
	UnitName string  `json:"unit_name"`
	AvgValue float64 `json:"avg_value"`
}

// RegionRanking orders regions by average cost for the latest year.
type RegionRanking struct {
	Year    int          `json:"year"`
	Top     []RegionCost `json:"top"`
	Bottom  []RegionCost `json:"bottom"`
	Regions []RegionCost `json:"regions"`
}

// CategoryShare is one ownership category's share of total observed cost.
type CategoryShare struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Share    float64 `json:"share_pct"`
}

// CostStructure breaks the latest year down by ownership category.
type CostStructure struct {
	Year     int             `json:"year"`
	Shares   []CategoryShare `json:"shares"`
	Dominant string          `json:"dominant_category"`
}

// YearOverYear is the relative change between two consecutive data years.
type YearOverYear struct {
	FromYear  int     `json:"from_year"`
	ToYear    int     `json:"to_year"`
	ChangePct float64 `json:"change_pct"`
}

// Anomaly flags a unit whose cost moved far outside the population.
type Anomaly struct {
	UnitCode  string  `json:"unit_code"`
	UnitName  string  `json:"unit_name"`
	Kind      string  `json:"kind"`
	Value     float64 `json:"value"`
	Reference float64 `json:"reference"`
	Detail    string  `json:"detail"`
}

// SummaryStats is the overall value distribution of the warehouse.
type SummaryStats struct {
	Facts    int64   `json:"facts"`
	Units    int64   `json:"units"`
	Years    int64   `json:"years"`
	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
	AvgValue float64 `json:"avg_value"`
}

// Report bundles every analysis for one reporting pass.
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     SummaryStats   `json:"summary"`
	Trends      []YearlyTrend  `json:"trends"`
	Ranking     *RegionRanking `json:"ranking,omitempty"`
	Structure   *CostStructure `json:"structure,omitempty"`
	Dynamics    []YearOverYear `json:"dynamics"`
	Anomalies   []Anomaly      `json:"anomalies"`
	Insights    []string       `json:"insights"`
}

// Service runs read-only analyses over the warehouse.
type Service struct {
	db *gorm.DB
}

// NewService builds an analysis service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Summary returns overall warehouse statistics.
func (s *Service) Summary() (SummaryStats, error) {
	var stats SummaryStats

	if err := s.db.Table("fact_cost").Count(&stats.Facts).Error; err != nil {
		return stats, fmt.Errorf("counting facts: %w", err)
	}
	if stats.Facts == 0 {
		return stats, nil
	}
	if err := s.db.Table("dim_unit").Count(&stats.Units).Error; err != nil {
		return stats, err
	}
	if err := s.db.Table("dim_period").Count(&stats.Years).Error; err != nil {
		return stats, err
	}

	row := s.db.Table("fact_cost").
		Select("MIN(value) AS min_value, MAX(value) AS max_value, AVG(value) AS avg_value").
		Row()
	if err := row.Scan(&stats.MinValue, &stats.MaxValue, &stats.AvgValue); err != nil {
		return stats, fmt.Errorf("scanning value summary: %w", err)
	}
	return stats, nil
}

// YearlyTrends returns per-year aggregates in ascending year order.
func (s *Service) YearlyTrends() ([]YearlyTrend, error) {
	var trends []YearlyTrend
	err := s.db.Table("fact_cost f").
		Select("p.year AS year, AVG(f.value) AS avg_value, MIN(f.value) AS min_value, MAX(f.value) AS max_value, COUNT(*) AS facts").
		Joins("JOIN dim_period p ON p.id = f.period_id").
		Group("p.year").
		Order("p.year").
		Scan(&trends).Error
	if err != nil {
		return nil, fmt.Errorf("querying yearly trends: %w", err)
	}
	return trends, nil
}

// RegionRanking ranks regional units by average cost for the latest data
// year. Returns nil when no regional facts exist.
func (s *Service) RegionRanking() (*RegionRanking, error) {
	year, err := s.latestYear()
	if err != nil || year == 0 {
		return nil, err
	}

	var regions []RegionCost
	err = s.db.Table("fact_cost f").
		Select("u.code AS unit_code, u.name AS unit_name, AVG(f.value) AS avg_value").
		Joins("JOIN dim_unit u ON u.id = f.unit_id").
		Joins("JOIN dim_period p ON p.id = f.period_id").
		Where("u.level = ? AND p.year = ?", models.LevelRegion, year).
		Group("u.code, u.name").
		Order("avg_value DESC").
		Scan(&regions).Error
	if err != nil {
		return nil, fmt.Errorf("querying region ranking: %w", err)
	}
	if len(regions) == 0 {
		return nil, nil
	}

	ranking := &RegionRanking{Year: year, Regions: regions}
	ranking.Top = headOf(regions, 3)
	ranking.Bottom = tailOf(regions, 3)
	return ranking, nil
}

// CostStructure returns ownership category shares for the latest data year.
func (s *Service) CostStructure() (*CostStructure, error) {
	year, err := s.latestYear()
	if err != nil || year == 0 {
		return nil, err
	}

	var rows []CategoryShare
	err = s.db.Table("fact_cost f").
		Select("t.category AS category, SUM(f.value) AS total").
		Joins("JOIN dim_cost_type t ON t.id = f.cost_type_id").
		Joins("JOIN dim_period p ON p.id = f.period_id").
		Where("p.year = ?", year).
		Group("t.category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying cost structure: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var grand float64
	for _, r := range rows {
		grand += r.Total
	}
	for i := range rows {
		if grand > 0 {
			rows[i].Share = math.Round(rows[i].Total/grand*10000) / 100
		}
	}
	return &CostStructure{Year: year, Shares: rows, Dominant: rows[0].Category}, nil
}

// Dynamics returns year-over-year average cost changes between consecutive
// data years.
func (s *Service) Dynamics() ([]YearOverYear, error) {
	trends, err := s.YearlyTrends()
	if err != nil {
		return nil, err
	}

	var dynamics []YearOverYear
	for i := 1; i < len(trends); i++ {
		prev, cur := trends[i-1], trends[i]
		if prev.AvgValue == 0 {
			continue
		}
		change := (cur.AvgValue - prev.AvgValue) / prev.AvgValue * 100
		dynamics = append(dynamics, YearOverYear{
			FromYear:  prev.Year,
			ToYear:    cur.Year,
			ChangePct: math.Round(change*100) / 100,
		})
	}
	return dynamics, nil
}

// Anomalies flags units with extreme growth between their first and last
// observed year, plus latest-year statistical outliers beyond two standard
// deviations from the population mean.
func (s *Service) Anomalies() ([]Anomaly, error) {
	var anomalies []Anomaly

	type unitSpan struct {
		UnitCode   string
		UnitName   string
		FirstYear  int
		LastYear   int
		FirstValue float64
		LastValue  float64
	}

	var rows []struct {
		UnitCode string
		UnitName string
		Year     int
		AvgValue float64
	}
	err := s.db.Table("fact_cost f").
		Select("u.code AS unit_code, u.name AS unit_name, p.year AS year, AVG(f.value) AS avg_value").
		Joins("JOIN dim_unit u ON u.id = f.unit_id").
		Joins("JOIN dim_period p ON p.id = f.period_id").
		Group("u.code, u.name, p.year").
		Order("u.code, p.year").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying unit series: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	spans := make(map[string]*unitSpan)
	var codes []string
	for _, r := range rows {
		span, ok := spans[r.UnitCode]
		if !ok {
			spans[r.UnitCode] = &unitSpan{
				UnitCode: r.UnitCode, UnitName: r.UnitName,
				FirstYear: r.Year, LastYear: r.Year,
				FirstValue: r.AvgValue, LastValue: r.AvgValue,
			}
			codes = append(codes, r.UnitCode)
			continue
		}
		span.LastYear = r.Year
		span.LastValue = r.AvgValue
	}
	sort.Strings(codes)

	for _, code := range codes {
		span := spans[code]
		if span.FirstYear == span.LastYear || span.FirstValue == 0 {
			continue
		}
		change := (span.LastValue - span.FirstValue) / span.FirstValue * 100
		if math.Abs(change) >= 50 {
			anomalies = append(anomalies, Anomaly{
				UnitCode:  span.UnitCode,
				UnitName:  span.UnitName,
				Kind:      "extreme_change",
				Value:     span.LastValue,
				Reference: span.FirstValue,
				Detail: fmt.Sprintf("%.1f%% change between %d and %d",
					change, span.FirstYear, span.LastYear),
			})
		}
	}

	outliers, err := s.latestYearOutliers()
	if err != nil {
		return nil, err
	}
	return append(anomalies, outliers...), nil
}

func (s *Service) latestYearOutliers() ([]Anomaly, error) {
	year, err := s.latestYear()
	if err != nil || year == 0 {
		return nil, err
	}

	var rows []struct {
		UnitCode string
		UnitName string
		AvgValue float64
	}
	err = s.db.Table("fact_cost f").
		Select("u.code AS unit_code, u.name AS unit_name, AVG(f.value) AS avg_value").
		Joins("JOIN dim_unit u ON u.id = f.unit_id").
		Joins("JOIN dim_period p ON p.id = f.period_id").
		Where("p.year = ?", year).
		Group("u.code, u.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying latest year values: %w", err)
	}
	if len(rows) < 3 {
		return nil, nil
	}

	var sum float64
	for _, r := range rows {
		sum += r.AvgValue
	}
	mean := sum / float64(len(rows))
	var sumSq float64
	for _, r := range rows {
		d := r.AvgValue - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(rows)-1))
	if stddev == 0 {
		return nil, nil
	}

	var anomalies []Anomaly
	for _, r := range rows {
		if math.Abs(r.AvgValue-mean) > 2*stddev {
			anomalies = append(anomalies, Anomaly{
				UnitCode:  r.UnitCode,
				UnitName:  r.UnitName,
				Kind:      "statistical_outlier",
				Value:     r.AvgValue,
				Reference: mean,
				Detail: fmt.Sprintf("more than two standard deviations from the %d mean %.2f",
					year, mean),
			})
		}
	}
	return anomalies, nil
}

// FullReport runs every analysis and derives insight strings.
func (s *Service) FullReport() (*Report, error) {
	summary, err := s.Summary()
	if err != nil {
		return nil, err
	}

	report := &Report{GeneratedAt: time.Now(), Summary: summary}
	if summary.Facts == 0 {
		report.Insights = []string{"No fact data available yet; run an import first."}
		return report, nil
	}

	if report.Trends, err = s.YearlyTrends(); err != nil {
		return nil, err
	}
	if report.Ranking, err = s.RegionRanking(); err != nil {
		return nil, err
	}
	if report.Structure, err = s.CostStructure(); err != nil {
		return nil, err
	}
	if report.Dynamics, err = s.Dynamics(); err != nil {
		return nil, err
	}
	if report.Anomalies, err = s.Anomalies(); err != nil {
		return nil, err
	}
	report.Insights = buildInsights(report)
	return report, nil
}

func buildInsights(r *Report) []string {
	var insights []string

	if n := len(r.Trends); n >= 2 {
		first, last := r.Trends[0], r.Trends[n-1]
		if first.AvgValue > 0 {
			change := (last.AvgValue - first.AvgValue) / first.AvgValue * 100
			direction := "rose"
			if change < 0 {
				direction = "fell"
			}
			insights = append(insights, fmt.Sprintf(
				"Average maintenance cost %s %.1f%% between %d and %d.",
				direction, math.Abs(change), first.Year, last.Year))
		}
	}
	if r.Ranking != nil && len(r.Ranking.Top) > 0 {
		top := r.Ranking.Top[0]
		insights = append(insights, fmt.Sprintf(
			"%s had the highest average cost in %d (%.2f).",
			top.UnitName, r.Ranking.Year, top.AvgValue))
	}
	if r.Structure != nil {
		insights = append(insights, fmt.Sprintf(
			"Category %s dominates the %d cost structure.",
			r.Structure.Dominant, r.Structure.Year))
	}
	if n := len(r.Anomalies); n > 0 {
		insights = append(insights, fmt.Sprintf("%d anomalous unit(s) flagged for review.", n))
	}
	return insights
}

func (s *Service) latestYear() (int, error) {
	var year *int
	err := s.db.Table("fact_cost f").
		Select("MAX(p.year)").
		Joins("JOIN dim_period p ON p.id = f.period_id").
		Row().Scan(&year)
	if err != nil {
		return 0, fmt.Errorf("querying latest year: %w", err)
	}
	if year == nil {
		return 0, nil
	}
	return *year, nil
}

func headOf(rows []RegionCost, n int) []RegionCost {
	if len(rows) < n {
		n = len(rows)
	}
	return rows[:n]
}

func tailOf(rows []RegionCost, n int) []RegionCost {
	if len(rows) < n {
		n = len(rows)
	}
	return rows[len(rows)-n:]
}
