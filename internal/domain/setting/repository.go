package setting

import "context"

// Repository is the persistence port for project settings. Writing an empty
// value deletes the row; otherwise the row is upserted on (project, field).
type Repository interface {
	GetByField(ctx context.Context, projectName, field string) (*ProjectSetting, error)
	GetByProject(ctx context.Context, projectName string) ([]*ProjectSetting, error)
	Upsert(ctx context.Context, s *ProjectSetting) error
	Delete(ctx context.Context, projectName, field string) error
}
