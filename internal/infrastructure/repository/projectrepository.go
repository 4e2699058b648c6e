package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"watchfleet/internal/domain/project"
	"watchfleet/internal/infrastructure/persistence/mappers"
	"watchfleet/internal/infrastructure/persistence/models"
	"watchfleet/internal/shared/logger"
)

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.ProjectMapper
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB, logger logger.Interface) project.Repository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewProjectMapper(),
	}
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	var model models.ProjectModel

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.ErrProjectNotFound
		}
		r.logger.Error("failed to get project by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get project by name: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	var modelList []*models.ProjectModel

	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Error("failed to list projects", "error", err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return r.mapper.ToDomainList(modelList), nil
}

// Save upserts the project on its unique name.
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := r.mapper.ToModel(p)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "miwi_group_id"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Error("failed to save project", "name", p.Name(), "error", err)
		return fmt.Errorf("failed to save project: %w", err)
	}

	if p.ID() == 0 {
		p.SetID(model.ID)
	}

	return nil
}

func (r *ProjectRepository) DeleteByName(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&models.ProjectModel{})
	if result.Error != nil {
		r.logger.Error("failed to delete project", "name", name, "error", result.Error)
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}
