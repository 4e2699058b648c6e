package models

import (
	"time"
)

// CacheEntryModel is the GORM model for the caches table, a generic
// key/value store. The vendor access token lives here.
type CacheEntryModel struct {
	Key         string    `gorm:"column:key;type:varchar(100);primaryKey"`
	Value       string    `gorm:"column:value;type:text"`
	LastUpdated time.Time `gorm:"column:last_updated;not null"`
}

// TableName returns the table name for GORM
func (CacheEntryModel) TableName() string {
	return "caches"
}
