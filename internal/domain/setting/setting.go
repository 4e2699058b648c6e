package setting

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ProjectSetting is one per-project command parameter, keyed by
// (project, field). Values are opaque strings, often JSON-encoded lists.
type ProjectSetting struct {
	id          uint
	projectName string
	field       string
	value       string
}

func NewProjectSetting(projectName, field, value string) (*ProjectSetting, error) {
	if projectName == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if field == "" {
		return nil, fmt.Errorf("field is required")
	}
	return &ProjectSetting{
		projectName: projectName,
		field:       field,
		value:       value,
	}, nil
}

// ReconstructProjectSetting reconstructs a ProjectSetting from persistence.
func ReconstructProjectSetting(id uint, projectName, field, value string) *ProjectSetting {
	return &ProjectSetting{
		id:          id,
		projectName: projectName,
		field:       field,
		value:       value,
	}
}

func (s *ProjectSetting) ID() uint            { return s.id }
func (s *ProjectSetting) ProjectName() string { return s.projectName }
func (s *ProjectSetting) Field() string       { return s.field }
func (s *ProjectSetting) Value() string       { return s.value }

// SetID sets the setting ID (only for persistence layer use)
func (s *ProjectSetting) SetID(id uint) {
	s.id = id
}

func (s *ProjectSetting) HasValue() bool {
	return s.value != ""
}

// StringList parses the value as a JSON string array. A bare non-JSON value
// is returned as a single-element list so hand-entered settings still work.
func (s *ProjectSetting) StringList() ([]string, error) {
	if s.value == "" || s.value == "[]" {
		return []string{}, nil
	}
	var result []string
	if err := json.Unmarshal([]byte(s.value), &result); err != nil {
		if s.value[0] == '[' {
			return nil, fmt.Errorf("failed to unmarshal string list for %s: %w", s.field, err)
		}
		return []string{s.value}, nil
	}
	return result, nil
}

// Int parses the value as an integer.
func (s *ProjectSetting) Int() (int, error) {
	if s.value == "" {
		return 0, nil
	}
	return strconv.Atoi(s.value)
}

// JSON unmarshals the value into the provided target.
func (s *ProjectSetting) JSON(target interface{}) error {
	if s.value == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.value), target)
}
