package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// validID evita que un id mal formado llegue a una columna UUID (sería un 500 en vez de 404).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Columnas DATE/TIMESTAMPTZ opcionales.
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// toNullString guarda "" como NULL (enums opcionales y FKs UUID).
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
