package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"watchfleet/internal/domain/project"
	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/shared/logger"
)

func newTestReconciler(devices *memoryDeviceRepo, projects *memoryProjectRepo, vendor VendorAPI) *Reconciler {
	return NewReconciler(devices, projects, vendor, nil, logger.NewLogger())
}

func carelineProject(groupID int) *project.Project {
	return project.ReconstructProject(1, "careline", "", groupID)
}

func TestReconcileDiffsUpstreamAgainstLocal(t *testing.T) {
	devices := newMemoryDeviceRepo(
		seededDevice("A", "careline", "", 7),
		seededDevice("B", "careline", "sim-b", 7),
		seededDevice("C", "careline", "sim-c", 7),
	)
	projects := newMemoryProjectRepo(carelineProject(7))

	vendor := new(mockVendorAPI)
	vendor.On("ListDevices", mock.Anything, 7).Return([]miwi.DeviceInfo{
		{IMEI: "B", Status: 1, IMSI: "sim-b"},
		{IMEI: "C", Status: 0, IMSI: "sim-c"},
		{IMEI: "D", Status: 1, IMSI: "sim-d"},
	}, nil)

	report, err := newTestReconciler(devices, projects, vendor).Reconcile(context.Background(), "careline")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, []string{"B", "C", "D"}, devices.imeis())

	added, err := devices.GetByIMEI(context.Background(), "D")
	require.NoError(t, err)
	assert.Equal(t, "sim-d", added.ICCID(), "iccid comes from the upstream Imsi")
	assert.Equal(t, 7, added.GroupID())
}

func TestReconcileIsIdempotent(t *testing.T) {
	devices := newMemoryDeviceRepo()
	projects := newMemoryProjectRepo(carelineProject(7))

	vendor := new(mockVendorAPI)
	vendor.On("ListDevices", mock.Anything, 7).Return([]miwi.DeviceInfo{
		{IMEI: "A", Status: 1, IMSI: "sim-a"},
		{IMEI: "B", Status: 1, IMSI: "sim-b"},
	}, nil)

	reconciler := newTestReconciler(devices, projects, vendor)
	ctx := context.Background()

	first, err := reconciler.Reconcile(ctx, "careline")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)
	writesAfterFirst := devices.writeCount()

	second, err := reconciler.Reconcile(ctx, "careline")
	require.NoError(t, err)
	assert.Equal(t, &Report{Project: "careline"}, second)
	assert.Equal(t, writesAfterFirst, devices.writeCount(), "unchanged upstream must perform zero writes")
}

func TestReconcileUpdatesChangedFields(t *testing.T) {
	devices := newMemoryDeviceRepo(seededDevice("A", "careline", "old-sim", 0))
	projects := newMemoryProjectRepo(carelineProject(7))

	vendor := new(mockVendorAPI)
	vendor.On("ListDevices", mock.Anything, 7).Return([]miwi.DeviceInfo{
		{IMEI: "A", Status: 1, IMSI: "new-sim"},
	}, nil)

	report, err := newTestReconciler(devices, projects, vendor).Reconcile(context.Background(), "careline")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	updated, err := devices.GetByIMEI(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "new-sim", updated.ICCID())
	assert.Equal(t, 7, updated.GroupID())
}

func TestReconcileUnknownProject(t *testing.T) {
	reconciler := newTestReconciler(newMemoryDeviceRepo(), newMemoryProjectRepo(), new(mockVendorAPI))

	_, err := reconciler.Reconcile(context.Background(), "ghost")

	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestReconcileAbortsOnFetchFailure(t *testing.T) {
	devices := newMemoryDeviceRepo(seededDevice("A", "careline", "", 7))
	projects := newMemoryProjectRepo(carelineProject(7))

	vendor := new(mockVendorAPI)
	vendor.On("ListDevices", mock.Anything, 7).
		Return(nil, &miwi.TransportError{Op: "get_devicelist", Err: errors.New("timeout")})

	_, err := newTestReconciler(devices, projects, vendor).Reconcile(context.Background(), "careline")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, devices.writeCount(), "a failed fetch must not touch local rows")
}

func TestSyncGroupCreatesAndLinksGroup(t *testing.T) {
	devices := newMemoryDeviceRepo(
		seededDevice("A", "careline", "", 0),
		seededDevice("B", "careline", "", 0),
	)
	projects := newMemoryProjectRepo(carelineProject(0))

	vendor := new(mockVendorAPI)
	vendor.On("CreateGroup", mock.Anything, "careline", "").Return(55, nil)
	vendor.On("MoveDevicesToGroup", mock.Anything, 55, []string{"A", "B"}).Return(nil)

	report, err := newTestReconciler(devices, projects, vendor).SyncGroup(context.Background(), "careline")

	require.NoError(t, err)
	assert.True(t, report.Created)
	assert.Equal(t, 55, report.GroupID)
	assert.Equal(t, 2, report.Moved)
	vendor.AssertExpectations(t)

	proj, err := projects.GetByName(context.Background(), "careline")
	require.NoError(t, err)
	assert.Equal(t, 55, proj.GroupID())

	moved, err := devices.GetByIMEI(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 55, moved.GroupID())
}

func TestSyncGroupNoopWhenAligned(t *testing.T) {
	devices := newMemoryDeviceRepo(seededDevice("A", "careline", "", 7))
	projects := newMemoryProjectRepo(carelineProject(7))
	vendor := new(mockVendorAPI)

	report, err := newTestReconciler(devices, projects, vendor).SyncGroup(context.Background(), "careline")

	require.NoError(t, err)
	assert.False(t, report.Created)
	assert.Equal(t, 0, report.Moved)
	vendor.AssertNotCalled(t, "MoveDevicesToGroup", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateICCID(t *testing.T) {
	devices := newMemoryDeviceRepo(
		seededDevice("A", "careline", "old", 0),
		seededDevice("B", "careline", "same", 0),
	)
	projects := newMemoryProjectRepo()

	vendor := new(mockVendorAPI)
	vendor.On("ListDevices", mock.Anything, 0).Return([]miwi.DeviceInfo{
		{IMEI: "A", IMSI: "fresh"},
		{IMEI: "B", IMSI: "same"},
		{IMEI: "untracked", IMSI: "whatever"},
		{IMEI: "C", IMSI: ""},
	}, nil)

	updated, err := newTestReconciler(devices, projects, vendor).UpdateICCID(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	d, err := devices.GetByIMEI(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "fresh", d.ICCID())
}

func TestCheckOnlineWithoutCache(t *testing.T) {
	vendor := new(mockVendorAPI)
	vendor.On("CheckOnline", mock.Anything, []string{"A", "B"}, 0).
		Return(map[string]bool{"A": true, "B": false}, nil)

	reconciler := newTestReconciler(newMemoryDeviceRepo(), newMemoryProjectRepo(), vendor)

	online, err := reconciler.CheckOnline(context.Background(), []string{"A", "B"})

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"A": true, "B": false}, online)
}
