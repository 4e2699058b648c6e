package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"watchfleet/internal/domain/setting"
)

func settingRow(t *testing.T, project, field, value string) *setting.ProjectSetting {
	t.Helper()
	return setting.ReconstructProjectSetting(1, project, field, value)
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("locate")
	require.NoError(t, err)
	assert.Equal(t, OpLocate, op)

	_, err = ParseOperation("explode")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestPlanSimpleOperations(t *testing.T) {
	catalog := NewCatalog(new(mockSettingsReader))
	ctx := context.Background()

	tests := []struct {
		op      Operation
		code    string
		value   string
		timeout time.Duration
	}{
		{OpLocate, "0039", "", 10 * time.Second},
		{OpReboot, "0010", "", 0},
		{OpPowerOff, "0048", "", 0},
		{OpBlockPhone, "9601", "1", 0},
		{OpUnblockPhone, "9601", "0", 0},
		{OpFallAlertOff, "9203", "0,0", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			plan, err := catalog.Plan(ctx, tt.op, "", "")
			require.NoError(t, err)
			require.Len(t, plan.Steps, 1)
			assert.Equal(t, tt.code, plan.Steps[0].Code)
			assert.Equal(t, tt.value, plan.Steps[0].Value)
			assert.Equal(t, tt.timeout, plan.Steps[0].Timeout)
			assert.False(t, plan.Independent)
		})
	}
}

func TestPlanSetSOSFansOutPerNumber(t *testing.T) {
	settings := new(mockSettingsReader)
	settings.On("GetByField", mock.Anything, "careline", FieldSOSNumbers).
		Return(settingRow(t, "careline", FieldSOSNumbers, `["111","222"]`), nil)

	plan, err := NewCatalog(settings).Plan(context.Background(), OpSetSOS, "careline", "")

	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, Step{Code: "0001", Value: "111"}, plan.Steps[0])
	assert.Equal(t, Step{Code: "0001", Value: "222"}, plan.Steps[1])
}

func TestPlanSetCallCenterMissingSetting(t *testing.T) {
	settings := new(mockSettingsReader)
	settings.On("GetByField", mock.Anything, "careline", FieldCallCenterNumber).
		Return(nil, setting.ErrSettingNotFound)

	_, err := NewCatalog(settings).Plan(context.Background(), OpSetCallCenter, "careline", "")

	require.Error(t, err)
	assert.True(t, setting.IsMissing(err))

	var missing *setting.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "careline", missing.Project)
	assert.Equal(t, FieldCallCenterNumber, missing.Field)
}

func TestPlanSettingsOperationWithoutProject(t *testing.T) {
	catalog := NewCatalog(new(mockSettingsReader))

	_, err := catalog.Plan(context.Background(), OpSetSOS, "", "")

	assert.True(t, setting.IsMissing(err))
}

func TestPlanEmptySettingIsMissing(t *testing.T) {
	settings := new(mockSettingsReader)
	settings.On("GetByField", mock.Anything, "careline", FieldSOSNumbers).
		Return(settingRow(t, "careline", FieldSOSNumbers, "[]"), nil)

	_, err := NewCatalog(settings).Plan(context.Background(), OpSetSOS, "careline", "")

	assert.True(t, setting.IsMissing(err))
}

func TestPlanPhonebook(t *testing.T) {
	settings := new(mockSettingsReader)
	settings.On("GetByField", mock.Anything, "careline", FieldPhoneBook).
		Return(settingRow(t, "careline", FieldPhoneBook,
			`[{"Name":"Mum","Number":"111"},{"Name":"Dad","Number":"222"}]`), nil)

	plan, err := NewCatalog(settings).Plan(context.Background(), OpSetPhonebook, "careline", "")

	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "1106", plan.Steps[0].Code)
	assert.JSONEq(t, `[{"Name":"Mum","Number":"111"},{"Name":"Dad","Number":"222"}]`, plan.Steps[0].Value)
}

func TestPlanFallAlertOnUsesProjectLevel(t *testing.T) {
	settings := new(mockSettingsReader)
	settings.On("GetByField", mock.Anything, "careline", FieldFallLevel).
		Return(settingRow(t, "careline", FieldFallLevel, "5"), nil)

	plan, err := NewCatalog(settings).Plan(context.Background(), OpFallAlertOn, "careline", "")

	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, Step{Code: "9203", Value: "1,1"}, plan.Steps[0])
	assert.Equal(t, Step{Code: "9722", Value: "5"}, plan.Steps[1])
	assert.False(t, plan.Independent)
}

func TestPlanFallAlertOnDefaultLevel(t *testing.T) {
	settings := new(mockSettingsReader)
	settings.On("GetByField", mock.Anything, "careline", FieldFallLevel).
		Return(nil, setting.ErrSettingNotFound)

	plan, err := NewCatalog(settings).Plan(context.Background(), OpFallAlertOn, "careline", "")

	require.NoError(t, err)
	assert.Equal(t, "8", plan.Steps[1].Value)
}

func TestPlanSetHealthIsIndependent(t *testing.T) {
	plan, err := NewCatalog(new(mockSettingsReader)).Plan(context.Background(), OpSetHealth, "", "")

	require.NoError(t, err)
	assert.True(t, plan.Independent)
	require.Len(t, plan.Steps, 3)
	assert.Equal(t, "2815", plan.Steps[0].Code)
	assert.JSONEq(t, `[{"TimeInterval":"300","Switch":"1"}]`, plan.Steps[0].Value)
	assert.Equal(t, Step{Code: "9113", Value: "1,1"}, plan.Steps[1])
	assert.Equal(t, Step{Code: "0305", Value: "10"}, plan.Steps[2])
}

func TestPlanSendMessage(t *testing.T) {
	catalog := NewCatalog(new(mockSettingsReader))
	catalog.now = func() time.Time {
		return time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC)
	}

	plan, err := catalog.Plan(context.Background(), OpSendMessage, "", "medication time")

	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "1516", plan.Steps[0].Code)
	// 04:30 UTC is 12:30 in the business timezone.
	assert.Equal(t, "2025-03-01 12:30:00\n medication time", plan.Steps[0].Value)

	_, err = catalog.Plan(context.Background(), OpSendMessage, "", "")
	assert.Error(t, err)
}

func TestPlanBareSettingValueFansOutAsSingle(t *testing.T) {
	settings := new(mockSettingsReader)
	settings.On("GetByField", mock.Anything, "careline", FieldCallCenterNumber).
		Return(settingRow(t, "careline", FieldCallCenterNumber, "29998888"), nil)

	plan, err := NewCatalog(settings).Plan(context.Background(), OpSetCallCenter, "careline", "")

	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, Step{Code: "0009", Value: "29998888"}, plan.Steps[0])
}

func TestRequiresProject(t *testing.T) {
	assert.True(t, OpSetSOS.RequiresProject())
	assert.True(t, OpSetPhonebook.RequiresProject())
	assert.False(t, OpLocate.RequiresProject())
	assert.False(t, OpSetHealth.RequiresProject())
}

func TestAffectsPower(t *testing.T) {
	assert.True(t, OpReboot.AffectsPower())
	assert.True(t, OpPowerOff.AffectsPower())
	assert.False(t, OpLocate.AffectsPower())
	assert.False(t, OpBlockPhone.AffectsPower())
}
