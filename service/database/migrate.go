/*
 * @module service/database/migrate
 * @description Database migration: creates and updates the warehouse tables
 * @architecture Data access layer - migration management
 * @stateFlow Executed once at application start, before services initialize
 * @rules Table structure follows the model definitions; views are recreated idempotently
 * @dependencies gus-analytics-service/service/models, gorm.io/gorm
 * @refs service/models/warehouse.go, service/database/views
 */

package database

import (
	"log/slog"

	"gus-analytics-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the warehouse table structure.
func AutoMigrate(db *gorm.DB) error {
	slog.Info("running database migration")

	// Dimensions first, then the fact table that references them.
	err := db.AutoMigrate(
		&models.DimUnit{},
		&models.DimCostType{},
		&models.DimPeriod{},
		&models.FactCost{},
	)
	if err != nil {
		return err
	}

	// Import bookkeeping tables.
	err = db.AutoMigrate(
		&models.ImportRun{},
		&models.ValidationError{},
		&models.DataQualityReport{},
	)
	if err != nil {
		return err
	}

	slog.Info("database migration finished")
	return nil
}
