package memory

import (
	"context"
	"sync"

	"dairy-herd-manager/internal/domain/settings"
)

type SettingsRepo struct {
	mu     sync.RWMutex
	byFarm map[string]settings.FarmSettings
}

func NewSettingsRepo() *SettingsRepo {
	return &SettingsRepo{byFarm: make(map[string]settings.FarmSettings)}
}

func (r *SettingsRepo) Get(ctx context.Context, farmID string) (settings.FarmSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byFarm[farmID]
	if !ok {
		return settings.FarmSettings{}, settings.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *SettingsRepo) Save(ctx context.Context, s settings.FarmSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byFarm[s.FarmID] = s.Clone()
	return nil
}
