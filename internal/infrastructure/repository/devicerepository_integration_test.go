package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"watchfleet/internal/domain/device"
	"watchfleet/internal/infrastructure/persistence/models"
	"watchfleet/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ProjectModel{},
		&models.DeviceModel{},
		&models.ProjectSettingModel{},
		&models.CacheEntryModel{},
	)
	require.NoError(t, err)

	return db
}

func createTestDevice(t *testing.T, imei, project string) *device.Device {
	d, err := device.NewDevice(imei, project)
	require.NoError(t, err)
	return d
}

func TestDeviceRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("save new device successfully", func(t *testing.T) {
		d := createTestDevice(t, "860000000000001", "careline")
		d.SetICCID("8985200012340001")

		err := repo.Save(ctx, d)
		assert.NoError(t, err)
		assert.NotZero(t, d.ID())
	})

	t.Run("duplicate imei should fail", func(t *testing.T) {
		d1 := createTestDevice(t, "860000000000002", "careline")
		require.NoError(t, repo.Save(ctx, d1))

		d2 := createTestDevice(t, "860000000000002", "other")
		err := repo.Save(ctx, d2)
		assert.Error(t, err)
	})
}

func TestDeviceRepository_GetByIMEI(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("get existing device", func(t *testing.T) {
		d := createTestDevice(t, "860000000000010", "careline")
		d.SetICCID("8985200012340010")
		d.AssignGroup(7)
		require.NoError(t, repo.Save(ctx, d))

		found, err := repo.GetByIMEI(ctx, "860000000000010")
		assert.NoError(t, err)
		assert.Equal(t, "860000000000010", found.IMEI())
		assert.Equal(t, "careline", found.Project())
		assert.Equal(t, "8985200012340010", found.ICCID())
		assert.Equal(t, 7, found.GroupID())
	})

	t.Run("get non-existent device", func(t *testing.T) {
		found, err := repo.GetByIMEI(ctx, "nonexistent")
		assert.ErrorIs(t, err, device.ErrDeviceNotFound)
		assert.Nil(t, found)
	})
}

func TestDeviceRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("update existing device", func(t *testing.T) {
		d := createTestDevice(t, "860000000000020", "careline")
		d.SetICCID("8985200012340020")
		require.NoError(t, repo.Save(ctx, d))

		d.SetICCID("8985200012349999")
		d.AssignGroup(12)
		err := repo.Update(ctx, d)
		assert.NoError(t, err)

		found, err := repo.GetByIMEI(ctx, "860000000000020")
		require.NoError(t, err)
		assert.Equal(t, "8985200012349999", found.ICCID())
		assert.Equal(t, 12, found.GroupID())
		assert.False(t, found.Updated().IsZero())
	})

	t.Run("update non-existent device", func(t *testing.T) {
		d := createTestDevice(t, "860000000000099", "careline")
		err := repo.Update(ctx, d)
		assert.ErrorIs(t, err, device.ErrDeviceNotFound)
	})
}

func TestDeviceRepository_Touch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db, logger.NewLogger())
	ctx := context.Background()

	d := createTestDevice(t, "860000000000030", "careline")
	require.NoError(t, repo.Save(ctx, d))

	t.Run("touch sets updated timestamp", func(t *testing.T) {
		err := repo.Touch(ctx, "860000000000030")
		assert.NoError(t, err)

		found, err := repo.GetByIMEI(ctx, "860000000000030")
		require.NoError(t, err)
		assert.False(t, found.Updated().IsZero())
	})

	t.Run("touch non-existent device", func(t *testing.T) {
		err := repo.Touch(ctx, "nonexistent")
		assert.ErrorIs(t, err, device.ErrDeviceNotFound)
	})
}

func TestDeviceRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db, logger.NewLogger())
	ctx := context.Background()

	seed := []struct {
		imei    string
		project string
		iccid   string
	}{
		{"860000000000101", "careline", "8985200012340101"},
		{"860000000000102", "careline", "8985200012340102"},
		{"860000000000103", "other", "8985200012340103"},
	}
	for _, s := range seed {
		d := createTestDevice(t, s.imei, s.project)
		d.SetICCID(s.iccid)
		require.NoError(t, repo.Save(ctx, d))
	}

	t.Run("list by project", func(t *testing.T) {
		found, err := repo.List(ctx, "careline", device.ListFilter{})
		assert.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, "860000000000101", found[0].IMEI())
		assert.Equal(t, "860000000000102", found[1].IMEI())
	})

	t.Run("filter by single imei", func(t *testing.T) {
		found, err := repo.List(ctx, "careline", device.ListFilter{IMEI: "860000000000103"})
		assert.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "other", found[0].Project())
	})

	t.Run("filter by imei list", func(t *testing.T) {
		filter := device.ListFilter{IMEIs: []string{"860000000000101", "860000000000103"}}
		found, err := repo.List(ctx, "careline", filter)
		assert.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("search matches iccid substring", func(t *testing.T) {
		found, err := repo.List(ctx, "careline", device.ListFilter{Search: "40102"})
		assert.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "860000000000102", found[0].IMEI())
	})

	t.Run("empty project yields nothing", func(t *testing.T) {
		found, err := repo.List(ctx, "ghost", device.ListFilter{})
		assert.NoError(t, err)
		assert.Len(t, found, 0)
	})
}

func TestDeviceRepository_DeleteByIMEI(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("delete existing device", func(t *testing.T) {
		d := createTestDevice(t, "860000000000040", "careline")
		require.NoError(t, repo.Save(ctx, d))

		err := repo.DeleteByIMEI(ctx, "860000000000040")
		assert.NoError(t, err)

		_, err = repo.GetByIMEI(ctx, "860000000000040")
		assert.ErrorIs(t, err, device.ErrDeviceNotFound)
	})

	t.Run("delete non-existent device", func(t *testing.T) {
		err := repo.DeleteByIMEI(ctx, "nonexistent")
		assert.ErrorIs(t, err, device.ErrDeviceNotFound)
	})
}
