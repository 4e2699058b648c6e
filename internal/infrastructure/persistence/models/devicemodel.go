package models

import (
	"time"
)

// DeviceModel is the GORM model for the devices table
type DeviceModel struct {
	ID              uint       `gorm:"primaryKey;autoIncrement"`
	IMEI            string     `gorm:"column:imei;type:varchar(32);not null;uniqueIndex"`
	Project         string     `gorm:"column:project;type:varchar(100);not null;index"`
	ICCID           string     `gorm:"column:iccid;type:varchar(32)"`
	FirmwareVersion string     `gorm:"column:firmware_version;type:varchar(64)"`
	MiwiGroupID     int        `gorm:"column:miwi_group_id"`
	PhoneNumber     string     `gorm:"column:phone_number;type:varchar(32)"`
	Created         time.Time  `gorm:"column:created;not null"`
	Updated         *time.Time `gorm:"column:updated"`
}

// TableName returns the table name for GORM
func (DeviceModel) TableName() string {
	return "devices"
}
