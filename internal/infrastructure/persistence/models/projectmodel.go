package models

// ProjectModel is the GORM model for the projects table
type ProjectModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
	URL         string `gorm:"column:url;type:varchar(255)"`
	MiwiGroupID int    `gorm:"column:miwi_group_id"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}
