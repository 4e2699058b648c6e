package setting

import (
	"errors"
	"fmt"
)

// ErrSettingNotFound is returned when no row matches (project, field).
var ErrSettingNotFound = errors.New("setting not found")

// MissingError reports a command that requires a project setting which is
// absent or empty. Surfaced to API clients as a correctable condition.
type MissingError struct {
	Project string
	Field   string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("project %q has no %q setting", e.Project, e.Field)
}

// NewMissingError creates a MissingError for the given project and field.
func NewMissingError(project, field string) *MissingError {
	return &MissingError{Project: project, Field: field}
}

// IsMissing reports whether err is a MissingError.
func IsMissing(err error) bool {
	var me *MissingError
	return errors.As(err, &me)
}
