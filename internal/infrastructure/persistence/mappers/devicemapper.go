package mappers

import (
	"time"

	"watchfleet/internal/domain/device"
	"watchfleet/internal/infrastructure/persistence/models"
)

// DeviceMapper provides methods for converting between domain and model
type DeviceMapper interface {
	ToDomain(model *models.DeviceModel) *device.Device
	ToModel(domain *device.Device) *models.DeviceModel
	ToDomainList(modelList []*models.DeviceModel) []*device.Device
}

type DeviceMapperImpl struct{}

func NewDeviceMapper() DeviceMapper {
	return &DeviceMapperImpl{}
}

func (m *DeviceMapperImpl) ToDomain(model *models.DeviceModel) *device.Device {
	if model == nil {
		return nil
	}

	var updated time.Time
	if model.Updated != nil {
		updated = *model.Updated
	}

	return device.ReconstructDevice(
		model.ID,
		model.IMEI,
		model.Project,
		model.ICCID,
		model.FirmwareVersion,
		model.MiwiGroupID,
		model.PhoneNumber,
		model.Created,
		updated,
	)
}

func (m *DeviceMapperImpl) ToModel(domain *device.Device) *models.DeviceModel {
	if domain == nil {
		return nil
	}

	var updated *time.Time
	if !domain.Updated().IsZero() {
		u := domain.Updated()
		updated = &u
	}

	return &models.DeviceModel{
		ID:              domain.ID(),
		IMEI:            domain.IMEI(),
		Project:         domain.Project(),
		ICCID:           domain.ICCID(),
		FirmwareVersion: domain.FirmwareVersion(),
		MiwiGroupID:     domain.GroupID(),
		PhoneNumber:     domain.PhoneNumber(),
		Created:         domain.Created(),
		Updated:         updated,
	}
}

func (m *DeviceMapperImpl) ToDomainList(modelList []*models.DeviceModel) []*device.Device {
	if modelList == nil {
		return nil
	}
	result := make([]*device.Device, 0, len(modelList))
	for _, model := range modelList {
		result = append(result, m.ToDomain(model))
	}
	return result
}
