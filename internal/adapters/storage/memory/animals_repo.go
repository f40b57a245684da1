package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dairy-herd-manager/internal/domain/animals"
)

type AnimalsRepo struct {
	mu       sync.RWMutex
	byID     map[string]animals.Animal
	releases []animals.Release
}

func NewAnimalsRepo() *AnimalsRepo {
	return &AnimalsRepo{
		byID: make(map[string]animals.Animal),
	}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	// Misma restricción que el índice único (farm_id, upper(tag_number)).
	for _, other := range r.byID {
		if other.FarmID == a.FarmID && strings.EqualFold(other.TagNumber, a.TagNumber) {
			return animals.ErrConflict
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return animals.ErrNotFound
	}
	for _, other := range r.byID {
		if other.ID != a.ID && other.FarmID == a.FarmID && strings.EqualFold(other.TagNumber, a.TagNumber) {
			return animals.ErrConflict
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *AnimalsRepo) List(ctx context.Context, farmID string, filter animals.ListFilter) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(filter.Q)
	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.FarmID != farmID {
			continue
		}
		if filter.ProductionStatus != "" && a.ProductionStatus != filter.ProductionStatus {
			continue
		}
		if filter.HealthStatus != "" && a.HealthStatus != filter.HealthStatus {
			continue
		}
		if filter.Sex != "" && a.Sex != filter.Sex {
			continue
		}
		if filter.Lifecycle != "" && a.Lifecycle != filter.Lifecycle {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.TagNumber), q) && !strings.Contains(strings.ToLower(a.Name), q) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TagNumber < out[j].TagNumber })
	return out, nil
}

func (r *AnimalsRepo) TagExists(ctx context.Context, farmID, tag string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.FarmID == farmID && strings.EqualFold(a.TagNumber, tag) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AnimalsRepo) ListTags(ctx context.Context, farmID, prefix string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix = strings.ToUpper(prefix)
	out := make([]string, 0)
	for _, a := range r.byID {
		if a.FarmID == farmID && strings.HasPrefix(strings.ToUpper(a.TagNumber), prefix) {
			out = append(out, a.TagNumber)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *AnimalsRepo) SetHealthStatus(ctx context.Context, id string, status animals.HealthStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.ErrNotFound
	}
	a.HealthStatus = status
	a.UpdatedAt = at
	r.byID[id] = a
	return nil
}

func (r *AnimalsRepo) CreateRelease(ctx context.Context, rel animals.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releases = append(r.releases, rel)
	return nil
}

func (r *AnimalsRepo) ListReleases(ctx context.Context, farmID string) ([]animals.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Release, 0)
	for _, rel := range r.releases {
		if rel.FarmID == farmID {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReleaseDate.After(out[j].ReleaseDate) })
	return out, nil
}
