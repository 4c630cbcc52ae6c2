/*
 * @module testutil/test_helper
 * @description Shared test infrastructure: in-memory database and data factory
 * @architecture Test infrastructure - reusable helpers and data factories
 * @stateFlow Test database init -> test data creation -> test execution -> cleanup
 * @rules Each test owns its own in-memory database; no shared state across tests
 * @dependencies gorm, sqlite, time
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gus-analytics-service/service/models"
)

// TestDB wraps an isolated in-memory database.
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB opens an in-memory database with all warehouse and import
// bookkeeping tables migrated.
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	err = db.AutoMigrate(
		&models.DimUnit{},
		&models.DimCostType{},
		&models.DimPeriod{},
		&models.FactCost{},
		&models.ImportRun{},
		&models.ValidationError{},
		&models.DataQualityReport{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB empties every table between test cases.
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"fact_cost",
		"dim_unit",
		"dim_cost_type",
		"dim_period",
		"validation_error",
		"data_quality_report",
		"import_run",
	}
	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close releases the underlying connection.
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory creates persisted model rows for tests.
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory builds a factory over the test database.
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// UnitOption mutates a unit before persistence.
type UnitOption func(*models.DimUnit)

// CreateUnit persists a regional unit with sensible defaults.
func (f *TestDataFactory) CreateUnit(opts ...UnitOption) *models.DimUnit {
	unit := &models.DimUnit{
		Code:  "0200000",
		Name:  "DOLNOŚLĄSKIE",
		Level: models.LevelRegion,
	}
	for _, opt := range opts {
		opt(unit)
	}
	if err := f.DB.Create(unit).Error; err != nil {
		panic(fmt.Sprintf("failed to create test unit: %v", err))
	}
	return unit
}

// CostTypeOption mutates a cost type before persistence.
type CostTypeOption func(*models.DimCostType)

// CreateCostType persists a cost type with sensible defaults.
func (f *TestDataFactory) CreateCostType(opts ...CostTypeOption) *models.DimCostType {
	costType := &models.DimCostType{
		Code:     "ZASOBY_GMINNE",
		Name:     "zasoby gminne (komunalne)",
		Category: models.CategoryPublic,
	}
	for _, opt := range opts {
		opt(costType)
	}
	if err := f.DB.Create(costType).Error; err != nil {
		panic(fmt.Sprintf("failed to create test cost type: %v", err))
	}
	return costType
}

// CreatePeriod persists a period for the given year.
func (f *TestDataFactory) CreatePeriod(year int) *models.DimPeriod {
	period := &models.DimPeriod{Year: year}
	if err := f.DB.Create(period).Error; err != nil {
		panic(fmt.Sprintf("failed to create test period: %v", err))
	}
	return period
}

// ImportRunOption mutates an import run before persistence.
type ImportRunOption func(*models.ImportRun)

// CreateImportRun persists a running import with sensible defaults.
func (f *TestDataFactory) CreateImportRun(opts ...ImportRunOption) *models.ImportRun {
	run := &models.ImportRun{
		Status:    models.ImportStatusRunning,
		StartedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(run)
	}
	if err := f.DB.Create(run).Error; err != nil {
		panic(fmt.Sprintf("failed to create test import run: %v", err))
	}
	return run
}

// CreateFact persists a fact for the given dimension identities.
func (f *TestDataFactory) CreateFact(unitID, costTypeID, periodID, importID uint, value float64) *models.FactCost {
	fact := &models.FactCost{
		UnitID:     unitID,
		CostTypeID: costTypeID,
		PeriodID:   periodID,
		Value:      value,
		ImportID:   importID,
	}
	if err := f.DB.Create(fact).Error; err != nil {
		panic(fmt.Sprintf("failed to create test fact: %v", err))
	}
	return fact
}

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
