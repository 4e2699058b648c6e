package project

import (
	"context"
	"errors"
)

// ErrProjectNotFound is returned when no project matches the lookup key.
var ErrProjectNotFound = errors.New("project not found")

// Repository is the persistence port for projects.
type Repository interface {
	GetByName(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	// Save upserts by name.
	Save(ctx context.Context, p *Project) error
	DeleteByName(ctx context.Context, name string) error
}
