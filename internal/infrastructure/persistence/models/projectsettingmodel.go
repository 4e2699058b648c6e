package models

// ProjectSettingModel is the GORM model for the project_settings table
type ProjectSettingModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	ProjectName string `gorm:"column:project_name;type:varchar(100);not null;uniqueIndex:idx_project_field"`
	Field       string `gorm:"column:field;type:varchar(100);not null;uniqueIndex:idx_project_field"`
	Value       string `gorm:"column:value;type:text"`
}

// TableName returns the table name for GORM
func (ProjectSettingModel) TableName() string {
	return "project_settings"
}
