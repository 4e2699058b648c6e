// Package biztime centralizes time handling. All storage and transport use
// UTC; implicit use of the process-local timezone is prohibited.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is the business timezone used for scheduling boundaries.
const DefaultTimezone = "Asia/Hong_Kong"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone, initializing the default lazily.
func Location() *time.Location {
	bizLocationOnce.Do(func() {
		bizLocation, initErr = time.LoadLocation(DefaultTimezone)
	})
	if initErr != nil {
		return time.UTC
	}
	return bizLocation
}

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}
