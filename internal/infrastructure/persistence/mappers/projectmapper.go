package mappers

import (
	"watchfleet/internal/domain/project"
	"watchfleet/internal/infrastructure/persistence/models"
)

// ProjectMapper provides methods for converting between domain and model
type ProjectMapper interface {
	ToDomain(model *models.ProjectModel) *project.Project
	ToModel(domain *project.Project) *models.ProjectModel
	ToDomainList(modelList []*models.ProjectModel) []*project.Project
}

type ProjectMapperImpl struct{}

func NewProjectMapper() ProjectMapper {
	return &ProjectMapperImpl{}
}

func (m *ProjectMapperImpl) ToDomain(model *models.ProjectModel) *project.Project {
	if model == nil {
		return nil
	}
	return project.ReconstructProject(model.ID, model.Name, model.URL, model.MiwiGroupID)
}

func (m *ProjectMapperImpl) ToModel(domain *project.Project) *models.ProjectModel {
	if domain == nil {
		return nil
	}
	return &models.ProjectModel{
		ID:          domain.ID(),
		Name:        domain.Name(),
		URL:         domain.URL(),
		MiwiGroupID: domain.GroupID(),
	}
}

func (m *ProjectMapperImpl) ToDomainList(modelList []*models.ProjectModel) []*project.Project {
	if modelList == nil {
		return nil
	}
	result := make([]*project.Project, 0, len(modelList))
	for _, model := range modelList {
		result = append(result, m.ToDomain(model))
	}
	return result
}
