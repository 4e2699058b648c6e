package device

import (
	"context"
	"errors"
)

// ErrDeviceNotFound is returned when no device matches the lookup key.
var ErrDeviceNotFound = errors.New("device not found")

// ListFilter narrows device listings. Zero value lists a whole project.
type ListFilter struct {
	IMEI   string
	IMEIs  []string
	Search string // matched against imei and iccid
}

// Repository is the persistence port for devices. Rows are addressed by IMEI.
type Repository interface {
	GetByIMEI(ctx context.Context, imei string) (*Device, error)
	ListByProject(ctx context.Context, project string) ([]*Device, error)
	List(ctx context.Context, project string, filter ListFilter) ([]*Device, error)
	Save(ctx context.Context, d *Device) error
	Update(ctx context.Context, d *Device) error
	// Touch bumps the updated timestamp of a device row after a successful
	// command without loading the full entity.
	Touch(ctx context.Context, imei string) error
	DeleteByIMEI(ctx context.Context, imei string) error
}
