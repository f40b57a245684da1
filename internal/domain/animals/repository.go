package animals

import (
	"context"
	"time"
)

type ListFilter struct {
	ProductionStatus ProductionStatus
	HealthStatus     HealthStatus
	Sex              Sex
	Lifecycle        Lifecycle
	// Q busca en caravana y nombre (case-insensitive).
	Q string
}

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	List(ctx context.Context, farmID string, filter ListFilter) ([]Animal, error)

	TagExists(ctx context.Context, farmID, tag string) (bool, error)
	// ListTags devuelve las caravanas de la granja que empiezan con prefix.
	ListTags(ctx context.Context, farmID, prefix string) ([]string, error)

	SetHealthStatus(ctx context.Context, id string, status HealthStatus, at time.Time) error

	CreateRelease(ctx context.Context, r Release) error
	ListReleases(ctx context.Context, farmID string) ([]Release, error)
}
