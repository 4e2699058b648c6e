package device

import (
	"fmt"
	"time"

	"watchfleet/internal/shared/biztime"
)

// Device represents a tracked wearable. The IMEI is the business key and is
// unique across all projects; a device belongs to exactly one project.
type Device struct {
	id              uint
	imei            string
	project         string
	iccid           string
	firmwareVersion string
	groupID         int // upstream group id, 0 = unassigned
	phoneNumber     string
	created         time.Time
	updated         time.Time // zero = never updated
}

// NewDevice creates a device first observed from upstream or a manual add.
func NewDevice(imei, project string) (*Device, error) {
	if imei == "" {
		return nil, fmt.Errorf("imei is required")
	}
	if project == "" {
		return nil, fmt.Errorf("project is required")
	}

	return &Device{
		imei:    imei,
		project: project,
		created: biztime.NowUTC(),
	}, nil
}

// ReconstructDevice reconstructs a Device from the persistence layer.
func ReconstructDevice(
	id uint,
	imei string,
	project string,
	iccid string,
	firmwareVersion string,
	groupID int,
	phoneNumber string,
	created time.Time,
	updated time.Time,
) *Device {
	return &Device{
		id:              id,
		imei:            imei,
		project:         project,
		iccid:           iccid,
		firmwareVersion: firmwareVersion,
		groupID:         groupID,
		phoneNumber:     phoneNumber,
		created:         created,
		updated:         updated,
	}
}

func (d *Device) ID() uint                 { return d.id }
func (d *Device) IMEI() string             { return d.imei }
func (d *Device) Project() string          { return d.project }
func (d *Device) ICCID() string            { return d.iccid }
func (d *Device) FirmwareVersion() string  { return d.firmwareVersion }
func (d *Device) GroupID() int             { return d.groupID }
func (d *Device) PhoneNumber() string      { return d.phoneNumber }
func (d *Device) Created() time.Time       { return d.created }
func (d *Device) Updated() time.Time       { return d.updated }

// SetID sets the device ID (only for persistence layer use)
func (d *Device) SetID(id uint) {
	d.id = id
}

// SetICCID updates the SIM identifier. Returns true when the value changed.
func (d *Device) SetICCID(iccid string) bool {
	if iccid == "" || d.iccid == iccid {
		return false
	}
	d.iccid = iccid
	d.Touch()
	return true
}

// AssignGroup records the upstream group id. Returns true when it changed.
func (d *Device) AssignGroup(groupID int) bool {
	if groupID == 0 || d.groupID == groupID {
		return false
	}
	d.groupID = groupID
	d.Touch()
	return true
}

func (d *Device) SetPhoneNumber(number string) {
	d.phoneNumber = number
	d.Touch()
}

func (d *Device) SetFirmwareVersion(version string) {
	d.firmwareVersion = version
	d.Touch()
}

// Touch bumps the updated timestamp, recorded after every successful
// command or reconciliation pass.
func (d *Device) Touch() {
	d.updated = biztime.NowUTC()
}
