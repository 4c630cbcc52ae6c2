package database

import (
	"fmt"
	"log/slog"

	"gus-analytics-service/service/database/views"

	"gorm.io/gorm"
)

// AutoMigrateView recreates the analytical views.
func AutoMigrateView(db *gorm.DB) error {
	for name, viewSQL := range views.WarehouseViews {
		if err := db.Exec(viewSQL).Error; err != nil {
			return fmt.Errorf("creating view %s: %w", name, err)
		}
		slog.Info("view created", "view", name)
	}
	return nil
}
