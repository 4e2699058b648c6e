package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"watchfleet/internal/domain/device"
	"watchfleet/internal/infrastructure/persistence/mappers"
	"watchfleet/internal/infrastructure/persistence/models"
	"watchfleet/internal/shared/biztime"
	"watchfleet/internal/shared/logger"
)

// DeviceRepository implements device.Repository
type DeviceRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.DeviceMapper
}

// NewDeviceRepository creates a new DeviceRepository
func NewDeviceRepository(db *gorm.DB, logger logger.Interface) device.Repository {
	return &DeviceRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewDeviceMapper(),
	}
}

func (r *DeviceRepository) GetByIMEI(ctx context.Context, imei string) (*device.Device, error) {
	var model models.DeviceModel

	err := r.db.WithContext(ctx).
		Where("imei = ?", imei).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, device.ErrDeviceNotFound
		}
		r.logger.Error("failed to get device by imei", "imei", imei, "error", err)
		return nil, fmt.Errorf("failed to get device by imei: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

func (r *DeviceRepository) ListByProject(ctx context.Context, project string) ([]*device.Device, error) {
	var modelList []*models.DeviceModel

	err := r.db.WithContext(ctx).
		Where("project = ?", project).
		Order("imei ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Error("failed to list devices by project", "project", project, "error", err)
		return nil, fmt.Errorf("failed to list devices by project: %w", err)
	}

	return r.mapper.ToDomainList(modelList), nil
}

func (r *DeviceRepository) List(ctx context.Context, project string, filter device.ListFilter) ([]*device.Device, error) {
	query := r.db.WithContext(ctx).Model(&models.DeviceModel{})

	switch {
	case filter.IMEI != "":
		query = query.Where("imei = ?", filter.IMEI)
	case len(filter.IMEIs) > 0:
		query = query.Where("imei IN ?", filter.IMEIs)
	default:
		query = query.Where("project = ?", project)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("imei LIKE ? OR iccid LIKE ?", pattern, pattern)
	}

	var modelList []*models.DeviceModel
	if err := query.Order("imei ASC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list devices", "project", project, "error", err)
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	return r.mapper.ToDomainList(modelList), nil
}

func (r *DeviceRepository) Save(ctx context.Context, d *device.Device) error {
	model := r.mapper.ToModel(d)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("failed to save device", "imei", d.IMEI(), "error", err)
		return fmt.Errorf("failed to save device: %w", err)
	}

	if d.ID() == 0 {
		d.SetID(model.ID)
	}

	return nil
}

func (r *DeviceRepository) Update(ctx context.Context, d *device.Device) error {
	model := r.mapper.ToModel(d)

	result := r.db.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("imei = ?", d.IMEI()).
		Updates(map[string]interface{}{
			"project":          model.Project,
			"iccid":            model.ICCID,
			"firmware_version": model.FirmwareVersion,
			"miwi_group_id":    model.MiwiGroupID,
			"phone_number":     model.PhoneNumber,
			"updated":          model.Updated,
		})
	if result.Error != nil {
		r.logger.Error("failed to update device", "imei", d.IMEI(), "error", result.Error)
		return fmt.Errorf("failed to update device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) Touch(ctx context.Context, imei string) error {
	result := r.db.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("imei = ?", imei).
		Update("updated", biztime.NowUTC())
	if result.Error != nil {
		r.logger.Error("failed to touch device", "imei", imei, "error", result.Error)
		return fmt.Errorf("failed to touch device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) DeleteByIMEI(ctx context.Context, imei string) error {
	result := r.db.WithContext(ctx).
		Where("imei = ?", imei).
		Delete(&models.DeviceModel{})
	if result.Error != nil {
		r.logger.Error("failed to delete device", "imei", imei, "error", result.Error)
		return fmt.Errorf("failed to delete device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}
