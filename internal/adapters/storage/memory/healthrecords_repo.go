package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dairy-herd-manager/internal/domain/healthrecords"
)

// HealthRecordsRepo guarda registros y relaciones de seguimiento. También implementa
// healthrecords.StatusDeterminer con la misma regla que la función SQL.
type HealthRecordsRepo struct {
	mu        sync.RWMutex
	byID      map[string]healthrecords.HealthRecord
	followUps map[string]healthrecords.FollowUp
}

func NewHealthRecordsRepo() *HealthRecordsRepo {
	return &HealthRecordsRepo{
		byID:      make(map[string]healthrecords.HealthRecord),
		followUps: make(map[string]healthrecords.FollowUp),
	}
}

func (r *HealthRecordsRepo) Create(ctx context.Context, rec healthrecords.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("health record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("health record already exists")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *HealthRecordsRepo) Update(ctx context.Context, rec healthrecords.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rec.ID]; !exists {
		return healthrecords.ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *HealthRecordsRepo) GetByID(ctx context.Context, id string) (healthrecords.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return healthrecords.HealthRecord{}, healthrecords.ErrNotFound
	}
	return rec, nil
}

func (r *HealthRecordsRepo) ListByAnimal(ctx context.Context, animalID string) ([]healthrecords.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]healthrecords.HealthRecord, 0)
	for _, rec := range r.byID {
		if rec.AnimalID == animalID {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *HealthRecordsRepo) ListByFarm(ctx context.Context, farmID string, filter healthrecords.ListFilter) ([]healthrecords.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]healthrecords.HealthRecord, 0)
	for _, rec := range r.byID {
		if rec.FarmID != farmID {
			continue
		}
		if filter.AnimalID != "" && rec.AnimalID != filter.AnimalID {
			continue
		}
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.Resolved != nil && rec.IsResolved != *filter.Resolved {
			continue
		}
		out = append(out, rec)
	}
	sortRecords(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *HealthRecordsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return healthrecords.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *HealthRecordsRepo) MarkResolved(ctx context.Context, id string, resolvedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return healthrecords.ErrNotFound
	}
	rec.IsResolved = true
	rec.ResolvedDate = &resolvedAt
	rec.UpdatedAt = resolvedAt
	r.byID[id] = rec
	return nil
}

func (r *HealthRecordsRepo) SetNextDueDate(ctx context.Context, id string, due time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return healthrecords.ErrNotFound
	}
	rec.NextDueDate = &due
	r.byID[id] = rec
	return nil
}

func (r *HealthRecordsRepo) CreateFollowUp(ctx context.Context, f healthrecords.FollowUp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[f.OriginalRecordID]; !ok {
		return healthrecords.ErrNotFound
	}
	if _, ok := r.byID[f.FollowUpRecordID]; !ok {
		return healthrecords.ErrNotFound
	}
	r.followUps[f.ID] = f
	return nil
}

func (r *HealthRecordsRepo) ListFollowUps(ctx context.Context, originalRecordID string) ([]healthrecords.FollowUp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]healthrecords.FollowUp, 0)
	for _, f := range r.followUps {
		if f.OriginalRecordID == originalRecordID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *HealthRecordsRepo) DeleteFollowUpsByOriginal(ctx context.Context, originalRecordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.followUps {
		if f.OriginalRecordID == originalRecordID {
			delete(r.followUps, id)
		}
	}
	return nil
}

func (r *HealthRecordsRepo) DeleteFollowUpByRecord(ctx context.Context, followUpRecordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.followUps {
		if f.FollowUpRecordID == followUpRecordID {
			delete(r.followUps, id)
		}
	}
	return nil
}

func (r *HealthRecordsRepo) Determine(ctx context.Context, animalID string) (healthrecords.HealthStatus, error) {
	recs, err := r.ListByAnimal(ctx, animalID)
	if err != nil {
		return "", err
	}
	return healthrecords.DetermineFromRecords(recs), nil
}

// Más reciente primero, como el ORDER BY de Postgres.
func sortRecords(out []healthrecords.HealthRecord) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordDate.Equal(out[j].RecordDate) {
			return out[i].RecordDate.After(out[j].RecordDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}
