package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dairy-herd-manager/internal/domain/settings"
)

// SettingsRepo guarda la configuración de cada granja como un documento JSONB.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(ctx context.Context, farmID string) (settings.FarmSettings, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT settings FROM farm_settings WHERE farm_id = $1
	`, farmID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.FarmSettings{}, settings.ErrNotFound
		}
		return settings.FarmSettings{}, err
	}

	var s settings.FarmSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return settings.FarmSettings{}, fmt.Errorf("decode farm settings %s: %w", farmID, err)
	}
	s.FarmID = farmID
	return s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s settings.FarmSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO farm_settings (farm_id, settings, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (farm_id) DO UPDATE
		SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at
	`, s.FarmID, raw, s.UpdatedAt)
	return err
}
