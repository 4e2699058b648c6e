package migration

import (
	"watchfleet/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ProjectModel{},
		&models.DeviceModel{},
		&models.ProjectSettingModel{},
		&models.CacheEntryModel{},
	}
}
