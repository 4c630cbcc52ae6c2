/*
 * @module service/etl/loader
 * @description Dimension and fact loaders: batch dedupe, idempotent
 *              upsert-by-natural-key, composite-key fact upserts
 * @architecture Data access layer - warehouse loading
 * @stateFlow Valid candidates -> dimension dedupe + upsert -> fact key resolution -> fact upsert
 * @rules Dimensions are never deleted; facts are last-write-wins per (unit, cost type, period);
 *        a fact whose dimensions cannot be resolved is skipped and counted, never fatal
 * @dependencies gorm.io/gorm, gus-analytics-service/service/models
 * @refs service/etl/pipeline.go, service/models/warehouse.go
 */

package etl

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cast"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gus-analytics-service/service/database"
	"gus-analytics-service/service/models"
)

// upsertByNaturalKey inserts a row, resolving natural-key conflicts by
// updating only the listed mutable columns (or doing nothing when none are
// given). All three dimension get-or-create paths share this shape.
func upsertByNaturalKey[T any](db *gorm.DB, row *T, keyColumn string, updateColumns []string) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: keyColumn}},
	}
	if len(updateColumns) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	} else {
		onConflict.DoNothing = true
	}
	return database.TranslateError(db.Clauses(onConflict).Create(row).Error)
}

// DimensionLoader materializes the distinct dimension values of a batch.
type DimensionLoader struct {
	db *gorm.DB
}

// NewDimensionLoader builds a dimension loader.
func NewDimensionLoader(db *gorm.DB) *DimensionLoader {
	return &DimensionLoader{db: db}
}

// Load deduplicates the batch per dimension and ensures a persisted row per
// natural key. Within the batch the last-seen attributes win before
// persistence; on conflict only display names are refreshed.
func (l *DimensionLoader) Load(records []CandidateRecord) error {
	units := make(map[string]models.DimUnit)
	costTypes := make(map[string]models.DimCostType)
	years := make(map[int]struct{})

	for _, r := range records {
		units[r.UnitCode] = models.DimUnit{
			Code:       r.UnitCode,
			Name:       r.UnitName,
			Level:      r.Level,
			RegionCode: r.RegionCode,
		}
		costTypes[r.CostTypeCode] = models.DimCostType{
			Code:     r.CostTypeCode,
			Name:     r.CostTypeName,
			Category: r.Category,
		}
		years[cast.ToInt(r.Year)] = struct{}{}
	}

	for _, unit := range units {
		unit := unit
		if err := upsertByNaturalKey(l.db, &unit, "code", []string{"name", "updated_at"}); err != nil {
			return fmt.Errorf("upserting unit %s: %w", unit.Code, err)
		}
	}
	for _, costType := range costTypes {
		costType := costType
		if err := upsertByNaturalKey(l.db, &costType, "code", []string{"name", "updated_at"}); err != nil {
			return fmt.Errorf("upserting cost type %s: %w", costType.Code, err)
		}
	}
	for year := range years {
		period := models.DimPeriod{Year: year}
		if err := upsertByNaturalKey(l.db, &period, "year", nil); err != nil {
			return fmt.Errorf("upserting period %d: %w", year, err)
		}
	}
	return nil
}

// FactLoadStats reports what the fact loader did with a batch.
type FactLoadStats struct {
	Inserted          int `json:"inserted"`
	SkippedDimensions int `json:"skipped_dimensions"`
}

// FactLoader upserts fact rows against already-materialized dimensions.
type FactLoader struct {
	db *gorm.DB
}

// NewFactLoader builds a fact loader.
func NewFactLoader(db *gorm.DB) *FactLoader {
	return &FactLoader{db: db}
}

// Load resolves each candidate's dimension identities by natural key and
// upserts one fact per (unit, cost type, period), overwriting the value on
// conflict. Inserted counts attempted upserts, not changed rows.
func (l *FactLoader) Load(records []CandidateRecord, importID uint) (FactLoadStats, error) {
	var stats FactLoadStats

	unitIDs := make(map[string]uint)
	costTypeIDs := make(map[string]uint)
	periodIDs := make(map[int]uint)

	for _, r := range records {
		year := cast.ToInt(r.Year)

		unitID, err := l.resolveUnit(unitIDs, r.UnitCode)
		if err != nil {
			return stats, err
		}
		costTypeID, err := l.resolveCostType(costTypeIDs, r.CostTypeCode)
		if err != nil {
			return stats, err
		}
		periodID, err := l.resolvePeriod(periodIDs, year)
		if err != nil {
			return stats, err
		}

		// Should not happen after a dimension load, but never fatal.
		if unitID == 0 || costTypeID == 0 || periodID == 0 {
			stats.SkippedDimensions++
			slog.Warn("skipping fact with unresolved dimensions",
				"unit_code", r.UnitCode, "cost_type", r.CostTypeCode, "year", year)
			continue
		}

		fact := models.FactCost{
			UnitID:     unitID,
			CostTypeID: costTypeID,
			PeriodID:   periodID,
			Value:      *r.Value,
			ImportID:   importID,
		}
		err = l.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "unit_id"}, {Name: "cost_type_id"}, {Name: "period_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      fact.Value,
				"updated_at": time.Now(),
			}),
		}).Create(&fact).Error
		if err != nil {
			return stats, database.TranslateError(fmt.Errorf("upserting fact (%s, %s, %d): %w",
				r.UnitCode, r.CostTypeCode, year, err))
		}
		stats.Inserted++
	}
	return stats, nil
}

func (l *FactLoader) resolveUnit(cache map[string]uint, code string) (uint, error) {
	if id, ok := cache[code]; ok {
		return id, nil
	}
	var unit models.DimUnit
	err := l.db.Where("code = ?", code).First(&unit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			cache[code] = 0
			return 0, nil
		}
		return 0, err
	}
	cache[code] = unit.ID
	return unit.ID, nil
}

func (l *FactLoader) resolveCostType(cache map[string]uint, code string) (uint, error) {
	if id, ok := cache[code]; ok {
		return id, nil
	}
	var costType models.DimCostType
	err := l.db.Where("code = ?", code).First(&costType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			cache[code] = 0
			return 0, nil
		}
		return 0, err
	}
	cache[code] = costType.ID
	return costType.ID, nil
}

func (l *FactLoader) resolvePeriod(cache map[int]uint, year int) (uint, error) {
	if id, ok := cache[year]; ok {
		return id, nil
	}
	var period models.DimPeriod
	err := l.db.Where("year = ?", year).First(&period).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			cache[year] = 0
			return 0, nil
		}
		return 0, err
	}
	cache[year] = period.ID
	return period.ID, nil
}
