package setting

import (
	"context"
	"fmt"

	"watchfleet/internal/domain/setting"
	"watchfleet/internal/shared/logger"
)

// Service manages per-project command settings. Saving an empty value
// deletes the row so absent and cleared settings behave identically.
type Service struct {
	settings setting.Repository
	logger   logger.Interface
}

// NewService creates a settings service.
func NewService(settings setting.Repository, log logger.Interface) *Service {
	return &Service{settings: settings, logger: log.Named("setting-service")}
}

// ListByProject returns all settings of a project.
func (s *Service) ListByProject(ctx context.Context, projectName string) ([]*setting.ProjectSetting, error) {
	if projectName == "" {
		return nil, fmt.Errorf("project name is required")
	}
	return s.settings.GetByProject(ctx, projectName)
}

// Save upserts one setting field, or deletes it when the value is empty.
func (s *Service) Save(ctx context.Context, projectName, field, value string) error {
	if value == "" {
		if err := s.settings.Delete(ctx, projectName, field); err != nil {
			return err
		}
		s.logger.Infow("setting cleared", "project", projectName, "field", field)
		return nil
	}

	row, err := setting.NewProjectSetting(projectName, field, value)
	if err != nil {
		return err
	}
	if err := s.settings.Upsert(ctx, row); err != nil {
		return err
	}
	s.logger.Infow("setting saved", "project", projectName, "field", field)
	return nil
}

// SaveAll applies a map of field updates; empty values delete. Applied
// field by field, a failure stops the rest.
func (s *Service) SaveAll(ctx context.Context, projectName string, fields map[string]string) error {
	if projectName == "" {
		return fmt.Errorf("project name is required")
	}
	for field, value := range fields {
		if err := s.Save(ctx, projectName, field, value); err != nil {
			return fmt.Errorf("failed to save %s: %w", field, err)
		}
	}
	return nil
}
