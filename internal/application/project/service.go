package project

import (
	"context"
	"errors"
	"fmt"

	"watchfleet/internal/domain/project"
	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/shared/logger"
)

// GroupManager is the slice of the vendor client used for group management.
type GroupManager interface {
	ListGroups(ctx context.Context) ([]miwi.GroupInfo, error)
	CreateGroup(ctx context.Context, name, description string) (int, error)
	DeleteGroup(ctx context.Context, groupID int) error
}

// SaveInput is a project create or edit.
type SaveInput struct {
	Name    string
	URL     string
	GroupID int
}

// Service manages projects and their upstream device groups.
type Service struct {
	projects project.Repository
	vendor   GroupManager
	logger   logger.Interface
}

// NewService creates a project service.
func NewService(projects project.Repository, vendor GroupManager, log logger.Interface) *Service {
	return &Service{
		projects: projects,
		vendor:   vendor,
		logger:   log.Named("project-service"),
	}
}

// List returns all projects.
func (s *Service) List(ctx context.Context) ([]*project.Project, error) {
	return s.projects.List(ctx)
}

// Get returns one project by name.
func (s *Service) Get(ctx context.Context, name string) (*project.Project, error) {
	return s.projects.GetByName(ctx, name)
}

// Save creates a project or updates an existing one in place.
func (s *Service) Save(ctx context.Context, input SaveInput) (*project.Project, error) {
	existing, err := s.projects.GetByName(ctx, input.Name)
	if err != nil && !errors.Is(err, project.ErrProjectNotFound) {
		return nil, err
	}

	var p *project.Project
	if existing != nil {
		p = existing
		p.SetURL(input.URL)
		if input.GroupID != 0 {
			if err := p.LinkGroup(input.GroupID); err != nil {
				return nil, err
			}
		}
	} else {
		p, err = project.NewProject(input.Name, input.URL)
		if err != nil {
			return nil, err
		}
		if input.GroupID != 0 {
			if err := p.LinkGroup(input.GroupID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project row. Devices keep their rows; reconciliation of a
// deleted project simply stops.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.projects.DeleteByName(ctx, name)
}

// ListGroups returns the upstream device groups.
func (s *Service) ListGroups(ctx context.Context) ([]miwi.GroupInfo, error) {
	return s.vendor.ListGroups(ctx)
}

// CreateGroup creates an upstream device group.
func (s *Service) CreateGroup(ctx context.Context, name, description string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("group name is required")
	}
	return s.vendor.CreateGroup(ctx, name, description)
}

// DeleteGroup removes an upstream group and clears the link on any project
// that referenced it.
func (s *Service) DeleteGroup(ctx context.Context, groupID int) error {
	if err := s.vendor.DeleteGroup(ctx, groupID); err != nil {
		return err
	}

	all, err := s.projects.List(ctx)
	if err != nil {
		return fmt.Errorf("group deleted upstream but local scan failed: %w", err)
	}
	for _, p := range all {
		if p.GroupID() != groupID {
			continue
		}
		p.UnlinkGroup()
		if err := s.projects.Save(ctx, p); err != nil {
			s.logger.Warnw("failed to clear group link", "project", p.Name(), "error", err)
		}
	}
	return nil
}
