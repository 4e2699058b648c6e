package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"watchfleet/internal/domain/setting"
	"watchfleet/internal/shared/biztime"
)

// Operation identifies one device command exposed by the API.
type Operation string

const (
	OpLocate        Operation = "locate"
	OpReboot        Operation = "reboot"
	OpPowerOff      Operation = "power_off"
	OpBlockPhone    Operation = "block_phone"
	OpUnblockPhone  Operation = "unblock_phone"
	OpSetSOS        Operation = "set_sos"
	OpSetCallCenter Operation = "set_call_center"
	OpSetPhonebook  Operation = "set_phonebook"
	OpFallAlertOn   Operation = "fall_alert_on"
	OpFallAlertOff  Operation = "fall_alert_off"
	OpSetHealth     Operation = "set_health"
	OpSendMessage   Operation = "send_message"
	OpCallDevice    Operation = "call_device"
	OpStandStill    Operation = "stand_still"
)

// Vendor command codes.
const (
	codeLocate         = "0039"
	codeReboot         = "0010"
	codePowerOff       = "0048"
	codeBlockPhone     = "9601"
	codeSOS            = "0001"
	codeCallCenter     = "0009"
	codePhonebook      = "1106"
	codeFallSwitch     = "9203"
	codeFallLevel      = "9722"
	codeHeartRate      = "2815"
	codeHealthSwitch   = "9113"
	codeReportInterval = "0305"
	codeMessage        = "1516"
	codeCall           = "0315"
	codeStandStill     = "4262"
)

// Settings fields consumed by commands.
const (
	FieldSOSNumbers       = "sos_phone_number"
	FieldCallCenterNumber = "call_center_number"
	FieldFallLevel        = "fall_sensitivity_level"
	FieldPhoneBook        = "phone_book"
	FieldCallValue        = "call_value"
	FieldStandStill       = "stand_still"
)

// defaultFallLevel is the sensitivity applied when the project has none set.
const defaultFallLevel = 8

// locateTimeout caps the quick interactive commands; the rest use the
// configured default.
const locateTimeout = 10 * time.Second

// ErrUnknownOperation is returned for an operation name the catalog does not
// recognize.
var ErrUnknownOperation = errors.New("unknown operation")

// ParseOperation validates an operation name from the API.
func ParseOperation(name string) (Operation, error) {
	op := Operation(name)
	switch op {
	case OpLocate, OpReboot, OpPowerOff, OpBlockPhone, OpUnblockPhone,
		OpSetSOS, OpSetCallCenter, OpSetPhonebook, OpFallAlertOn,
		OpFallAlertOff, OpSetHealth, OpSendMessage, OpCallDevice,
		OpStandStill:
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Step is one vendor sendcommand call.
type Step struct {
	Code    string
	Value   string
	Timeout time.Duration
}

// Plan is the ordered list of steps realizing an operation. Sequential plans
// short-circuit on the first failed step; independent plans attempt every
// step and report each failure.
type Plan struct {
	Operation   Operation
	Steps       []Step
	Independent bool
}

// PhonebookEntry is one contact pushed to a device.
type PhonebookEntry struct {
	Name   string `json:"Name"`
	Number string `json:"Number"`
}

// SettingsReader is the settings lookup the catalog needs.
type SettingsReader interface {
	GetByField(ctx context.Context, projectName, field string) (*setting.ProjectSetting, error)
}

// Catalog resolves operations into concrete command plans, reading project
// settings for the commands whose payload is per-project configuration.
// Settings are resolved once per plan, before any vendor call is made.
type Catalog struct {
	settings SettingsReader
	now      func() time.Time
}

// NewCatalog creates a catalog backed by the given settings reader.
func NewCatalog(settings SettingsReader) *Catalog {
	return &Catalog{settings: settings, now: biztime.NowUTC}
}

// Plan builds the step list for an operation. projectName is required for
// settings-backed operations; arg carries the free-form payload of
// send_message. A missing or empty required setting yields a
// setting.MissingError without contacting the vendor.
func (c *Catalog) Plan(ctx context.Context, op Operation, projectName, arg string) (*Plan, error) {
	switch op {
	case OpLocate:
		return plan(op, Step{Code: codeLocate, Timeout: locateTimeout}), nil
	case OpReboot:
		return plan(op, Step{Code: codeReboot}), nil
	case OpPowerOff:
		return plan(op, Step{Code: codePowerOff}), nil
	case OpBlockPhone:
		return plan(op, Step{Code: codeBlockPhone, Value: "1"}), nil
	case OpUnblockPhone:
		return plan(op, Step{Code: codeBlockPhone, Value: "0"}), nil
	case OpSetSOS:
		return c.fanOutPlan(ctx, op, projectName, FieldSOSNumbers, codeSOS)
	case OpSetCallCenter:
		return c.fanOutPlan(ctx, op, projectName, FieldCallCenterNumber, codeCallCenter)
	case OpSetPhonebook:
		return c.phonebookPlan(ctx, projectName)
	case OpFallAlertOn:
		return c.fallAlertOnPlan(ctx, projectName)
	case OpFallAlertOff:
		return plan(op, Step{Code: codeFallSwitch, Value: "0,0"}), nil
	case OpSetHealth:
		return &Plan{
			Operation:   op,
			Independent: true,
			Steps: []Step{
				{Code: codeHeartRate, Value: `[{"TimeInterval":"300","Switch":"1"}]`},
				{Code: codeHealthSwitch, Value: "1,1"},
				{Code: codeReportInterval, Value: "10"},
			},
		}, nil
	case OpSendMessage:
		return c.messagePlan(arg)
	case OpCallDevice:
		return c.settingValuePlan(ctx, op, projectName, FieldCallValue, codeCall, locateTimeout)
	case OpStandStill:
		return c.settingValuePlan(ctx, op, projectName, FieldStandStill, codeStandStill, 0)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

// AffectsPower reports whether the operation can change device reachability,
// in which case cached online flags must be dropped.
func (op Operation) AffectsPower() bool {
	switch op {
	case OpReboot, OpPowerOff:
		return true
	}
	return false
}

// RequiresProject reports whether the operation reads project settings.
func (op Operation) RequiresProject() bool {
	switch op {
	case OpSetSOS, OpSetCallCenter, OpSetPhonebook, OpFallAlertOn,
		OpCallDevice, OpStandStill:
		return true
	}
	return false
}

func plan(op Operation, steps ...Step) *Plan {
	return &Plan{Operation: op, Steps: steps}
}

// requireSetting fetches a setting and normalizes absence and emptiness into
// setting.MissingError.
func (c *Catalog) requireSetting(ctx context.Context, projectName, field string) (*setting.ProjectSetting, error) {
	if projectName == "" {
		return nil, setting.NewMissingError(projectName, field)
	}
	s, err := c.settings.GetByField(ctx, projectName, field)
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return nil, setting.NewMissingError(projectName, field)
		}
		return nil, fmt.Errorf("failed to load setting %s/%s: %w", projectName, field, err)
	}
	if !s.HasValue() {
		return nil, setting.NewMissingError(projectName, field)
	}
	return s, nil
}

// fanOutPlan turns a multi-valued setting into one step per value.
func (c *Catalog) fanOutPlan(ctx context.Context, op Operation, projectName, field, code string) (*Plan, error) {
	s, err := c.requireSetting(ctx, projectName, field)
	if err != nil {
		return nil, err
	}

	values, err := s.StringList()
	if err != nil {
		return nil, fmt.Errorf("invalid %s setting for %s: %w", field, projectName, err)
	}
	if len(values) == 0 {
		return nil, setting.NewMissingError(projectName, field)
	}

	p := &Plan{Operation: op}
	for _, value := range values {
		p.Steps = append(p.Steps, Step{Code: code, Value: value})
	}
	return p, nil
}

func (c *Catalog) phonebookPlan(ctx context.Context, projectName string) (*Plan, error) {
	s, err := c.requireSetting(ctx, projectName, FieldPhoneBook)
	if err != nil {
		return nil, err
	}

	var entries []PhonebookEntry
	if err := s.JSON(&entries); err != nil {
		return nil, fmt.Errorf("invalid %s setting for %s: %w", FieldPhoneBook, projectName, err)
	}
	if len(entries) == 0 {
		return nil, setting.NewMissingError(projectName, FieldPhoneBook)
	}

	value, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode phonebook: %w", err)
	}
	return plan(OpSetPhonebook, Step{Code: codePhonebook, Value: string(value)}), nil
}

// fallAlertOnPlan enables the fall switch and then applies the project's
// sensitivity level, defaulting when the project has none configured.
func (c *Catalog) fallAlertOnPlan(ctx context.Context, projectName string) (*Plan, error) {
	level := defaultFallLevel
	if projectName != "" {
		s, err := c.settings.GetByField(ctx, projectName, FieldFallLevel)
		if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
			return nil, fmt.Errorf("failed to load setting %s/%s: %w", projectName, FieldFallLevel, err)
		}
		if err == nil && s.HasValue() {
			parsed, err := s.Int()
			if err != nil {
				return nil, fmt.Errorf("invalid %s setting for %s: %w", FieldFallLevel, projectName, err)
			}
			level = parsed
		}
	}

	return plan(OpFallAlertOn,
		Step{Code: codeFallSwitch, Value: "1,1"},
		Step{Code: codeFallLevel, Value: strconv.Itoa(level)},
	), nil
}

func (c *Catalog) settingValuePlan(ctx context.Context, op Operation, projectName, field, code string, timeout time.Duration) (*Plan, error) {
	s, err := c.requireSetting(ctx, projectName, field)
	if err != nil {
		return nil, err
	}
	return plan(op, Step{Code: code, Value: s.Value(), Timeout: timeout}), nil
}

func (c *Catalog) messagePlan(msg string) (*Plan, error) {
	if msg == "" {
		return nil, fmt.Errorf("message text is required")
	}
	stamp := c.now().In(biztime.Location()).Format("2006-01-02 15:04:05")
	return plan(OpSendMessage, Step{
		Code:    codeMessage,
		Value:   stamp + "\n " + msg,
		Timeout: locateTimeout,
	}), nil
}
