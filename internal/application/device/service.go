package device

import (
	"context"
	"errors"
	"fmt"

	"watchfleet/internal/domain/device"
	"watchfleet/internal/shared/logger"
)

// SaveInput is a manual device registration or edit.
type SaveInput struct {
	IMEI            string
	ICCID           string
	PhoneNumber     string
	FirmwareVersion string
}

// Service covers device listing and manual registration; the upstream-driven
// lifecycle lives in Reconciler.
type Service struct {
	devices device.Repository
	logger  logger.Interface
}

// NewService creates a device service.
func NewService(devices device.Repository, log logger.Interface) *Service {
	return &Service{devices: devices, logger: log.Named("device-service")}
}

// List returns a project's devices, narrowed by the filter.
func (s *Service) List(ctx context.Context, projectName string, filter device.ListFilter) ([]*device.Device, error) {
	return s.devices.List(ctx, projectName, filter)
}

// Get returns a single device by IMEI.
func (s *Service) Get(ctx context.Context, imei string) (*device.Device, error) {
	return s.devices.GetByIMEI(ctx, imei)
}

// Save registers a device manually or updates an existing row in place. The
// IMEI is the identity; project moves are not supported here.
func (s *Service) Save(ctx context.Context, projectName string, input SaveInput) (*device.Device, error) {
	if input.IMEI == "" {
		return nil, fmt.Errorf("imei is required")
	}

	existing, err := s.devices.GetByIMEI(ctx, input.IMEI)
	if err != nil && !errors.Is(err, device.ErrDeviceNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.SetICCID(input.ICCID)
		if input.PhoneNumber != "" {
			existing.SetPhoneNumber(input.PhoneNumber)
		}
		if input.FirmwareVersion != "" {
			existing.SetFirmwareVersion(input.FirmwareVersion)
		}
		if err := s.devices.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	d, err := device.NewDevice(input.IMEI, projectName)
	if err != nil {
		return nil, err
	}
	d.SetICCID(input.ICCID)
	d.SetPhoneNumber(input.PhoneNumber)
	d.SetFirmwareVersion(input.FirmwareVersion)

	if err := s.devices.Save(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Infow("device registered", "imei", input.IMEI, "project", projectName)
	return d, nil
}

// Delete removes a device row.
func (s *Service) Delete(ctx context.Context, imei string) error {
	return s.devices.DeleteByIMEI(ctx, imei)
}
