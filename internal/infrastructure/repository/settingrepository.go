package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"watchfleet/internal/domain/setting"
	"watchfleet/internal/infrastructure/persistence/mappers"
	"watchfleet/internal/infrastructure/persistence/models"
	"watchfleet/internal/shared/logger"
)

// SettingRepository implements setting.Repository
type SettingRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.SettingMapper
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db *gorm.DB, logger logger.Interface) setting.Repository {
	return &SettingRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewSettingMapper(),
	}
}

func (r *SettingRepository) GetByField(ctx context.Context, projectName, field string) (*setting.ProjectSetting, error) {
	var model models.ProjectSettingModel

	err := r.db.WithContext(ctx).
		Where("project_name = ? AND field = ?", projectName, field).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setting.ErrSettingNotFound
		}
		r.logger.Error("failed to get setting", "project", projectName, "field", field, "error", err)
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

func (r *SettingRepository) GetByProject(ctx context.Context, projectName string) ([]*setting.ProjectSetting, error) {
	var modelList []*models.ProjectSettingModel

	err := r.db.WithContext(ctx).
		Where("project_name = ?", projectName).
		Order("field ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Error("failed to get settings by project", "project", projectName, "error", err)
		return nil, fmt.Errorf("failed to get settings by project: %w", err)
	}

	return r.mapper.ToDomainList(modelList), nil
}

// Upsert creates or updates a setting on (project_name, field)
func (r *SettingRepository) Upsert(ctx context.Context, s *setting.ProjectSetting) error {
	model := r.mapper.ToModel(s)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_name"}, {Name: "field"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Error("failed to upsert setting", "project", s.ProjectName(), "field", s.Field(), "error", err)
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	if s.ID() == 0 {
		s.SetID(model.ID)
	}

	return nil
}

func (r *SettingRepository) Delete(ctx context.Context, projectName, field string) error {
	result := r.db.WithContext(ctx).
		Where("project_name = ? AND field = ?", projectName, field).
		Delete(&models.ProjectSettingModel{})
	if result.Error != nil {
		r.logger.Error("failed to delete setting", "project", projectName, "field", field, "error", result.Error)
		return fmt.Errorf("failed to delete setting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return setting.ErrSettingNotFound
	}

	return nil
}
