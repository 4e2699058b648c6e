package mappers

import (
	"watchfleet/internal/domain/setting"
	"watchfleet/internal/infrastructure/persistence/models"
)

// SettingMapper provides methods for converting between domain and model
type SettingMapper interface {
	ToDomain(model *models.ProjectSettingModel) *setting.ProjectSetting
	ToModel(domain *setting.ProjectSetting) *models.ProjectSettingModel
	ToDomainList(modelList []*models.ProjectSettingModel) []*setting.ProjectSetting
}

type SettingMapperImpl struct{}

func NewSettingMapper() SettingMapper {
	return &SettingMapperImpl{}
}

func (m *SettingMapperImpl) ToDomain(model *models.ProjectSettingModel) *setting.ProjectSetting {
	if model == nil {
		return nil
	}
	return setting.ReconstructProjectSetting(model.ID, model.ProjectName, model.Field, model.Value)
}

func (m *SettingMapperImpl) ToModel(domain *setting.ProjectSetting) *models.ProjectSettingModel {
	if domain == nil {
		return nil
	}
	return &models.ProjectSettingModel{
		ID:          domain.ID(),
		ProjectName: domain.ProjectName(),
		Field:       domain.Field(),
		Value:       domain.Value(),
	}
}

func (m *SettingMapperImpl) ToDomainList(modelList []*models.ProjectSettingModel) []*setting.ProjectSetting {
	if modelList == nil {
		return nil
	}
	result := make([]*setting.ProjectSetting, 0, len(modelList))
	for _, model := range modelList {
		result = append(result, m.ToDomain(model))
	}
	return result
}
