package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchfleet/internal/shared/logger"
)

func TestServiceSaveRegistersNewDevice(t *testing.T) {
	devices := newMemoryDeviceRepo()
	service := NewService(devices, logger.NewLogger())

	d, err := service.Save(context.Background(), "careline", SaveInput{
		IMEI:        "860000000000001",
		ICCID:       "sim-1",
		PhoneNumber: "61234567",
	})

	require.NoError(t, err)
	assert.Equal(t, "careline", d.Project())
	assert.Equal(t, "sim-1", d.ICCID())
	assert.Equal(t, "61234567", d.PhoneNumber())
	assert.Equal(t, []string{"860000000000001"}, devices.imeis())
}

func TestServiceSaveUpdatesExistingDevice(t *testing.T) {
	devices := newMemoryDeviceRepo(seededDevice("860000000000001", "careline", "old-sim", 7))
	service := NewService(devices, logger.NewLogger())

	d, err := service.Save(context.Background(), "careline", SaveInput{
		IMEI:  "860000000000001",
		ICCID: "new-sim",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-sim", d.ICCID())
	assert.Equal(t, 7, d.GroupID(), "manual edits keep the group assignment")
	assert.Equal(t, 1, devices.updates)
	assert.Equal(t, 0, devices.saves)
}

func TestServiceSaveRequiresIMEI(t *testing.T) {
	service := NewService(newMemoryDeviceRepo(), logger.NewLogger())

	_, err := service.Save(context.Background(), "careline", SaveInput{})

	assert.Error(t, err)
}
