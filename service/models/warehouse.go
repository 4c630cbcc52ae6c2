/*
 * @module service/models/warehouse
 * @description Star schema for housing maintenance cost statistics: unit,
 *              cost type and period dimensions plus the cost fact table
 * @architecture Data warehouse - dimensional model
 * @stateFlow Dimensions created on first sighting during a load, facts upserted per run
 * @rules Natural keys are unique and immutable; only display names are mutable
 * @dependencies gorm.io/gorm
 * @refs service/etl/loader.go, service/database/migrate.go
 */

package models

import (
	"time"
)

// Administrative levels recognized for a unit. Values follow the GUS BDL
// terminology so they can be compared against the API responses directly.
const (
	LevelNational  = "POLSKA"
	LevelRegion    = "WOJEWODZTWO"
	LevelSubregion = "PODREGION"
	LevelCounty    = "POWIAT"
	LevelCommune   = "GMINA"
)

// Cost categories form a small closed set over the source cost types.
const (
	CategoryPublic      = "PUBLICZNE"
	CategoryCooperative = "SPOLDZIELCZE"
	CategorySocial      = "SPOLECZNE"
	CategoryPrivate     = "PRYWATNE"
)

// NationalUnitCode is the reserved all-zero code of the country-level unit.
const NationalUnitCode = "0000000"

// ValidCategories enumerates every recognized cost category.
var ValidCategories = map[string]bool{
	CategoryPublic:      true,
	CategoryCooperative: true,
	CategorySocial:      true,
	CategoryPrivate:     true,
}

// ValidLevels enumerates every recognized administrative level.
var ValidLevels = map[string]bool{
	LevelNational:  true,
	LevelRegion:    true,
	LevelSubregion: true,
	LevelCounty:    true,
	LevelCommune:   true,
}

// DimUnit is the administrative unit dimension. Code is the 7-digit
// zero-padded GUS code; RegionCode denormalizes the owning region for
// query convenience and is nil for the national unit.
type DimUnit struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code       string    `json:"code" gorm:"not null;uniqueIndex;size:7"`
	Name       string    `json:"name" gorm:"not null;size:255"`
	Level      string    `json:"level" gorm:"not null;size:20;index"`
	RegionCode *string   `json:"region_code,omitempty" gorm:"size:7"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DimUnit) TableName() string { return "dim_unit" }

// DimCostType is the cost type dimension at source granularity, with the
// coarser category attached.
type DimCostType struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"not null;uniqueIndex;size:50"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Category  string    `json:"category" gorm:"not null;size:20;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DimCostType) TableName() string { return "dim_cost_type" }

// DimPeriod is the period dimension, keyed by year. Immutable once created.
type DimPeriod struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Year      int       `json:"year" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DimPeriod) TableName() string { return "dim_period" }

// FactCost holds one observation per (unit, cost type, period). Later loads
// for the same key overwrite Value rather than producing duplicates.
type FactCost struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UnitID     uint      `json:"unit_id" gorm:"not null;uniqueIndex:idx_fact_cost_key,priority:1"`
	CostTypeID uint      `json:"cost_type_id" gorm:"not null;uniqueIndex:idx_fact_cost_key,priority:2"`
	PeriodID   uint      `json:"period_id" gorm:"not null;uniqueIndex:idx_fact_cost_key,priority:3"`
	Value      float64   `json:"value" gorm:"not null"`
	ImportID   uint      `json:"import_id" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Unit     DimUnit     `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	CostType DimCostType `json:"cost_type,omitempty" gorm:"foreignKey:CostTypeID"`
	Period   DimPeriod   `json:"period,omitempty" gorm:"foreignKey:PeriodID"`
}

func (FactCost) TableName() string { return "fact_cost" }
