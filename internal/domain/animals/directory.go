package animals

import (
	"context"
	"errors"
	"time"

	"dairy-herd-manager/internal/domain/healthrecords"
)

// HealthDirectory expone el repositorio de animales al módulo de registros sanitarios.
type HealthDirectory struct {
	repo Repository
	now  func() time.Time
}

func NewHealthDirectory(repo Repository) *HealthDirectory {
	return &HealthDirectory{repo: repo, now: time.Now}
}

func (d *HealthDirectory) Lookup(ctx context.Context, animalID string) (healthrecords.AnimalRef, error) {
	a, err := d.repo.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return healthrecords.AnimalRef{}, healthrecords.ErrAnimalNotFound
		}
		return healthrecords.AnimalRef{}, err
	}
	return healthrecords.AnimalRef{
		ID:        a.ID,
		FarmID:    a.FarmID,
		TagNumber: a.TagNumber,
		Name:      a.Name,
	}, nil
}

func (d *HealthDirectory) SetHealthStatus(ctx context.Context, animalID string, status healthrecords.HealthStatus) error {
	return d.repo.SetHealthStatus(ctx, animalID, status, d.now())
}
