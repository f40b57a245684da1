package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dairy-herd-manager/internal/domain/healthrecords"
)

// HealthRecordsRepo implementa healthrecords.Repository y, vía la función SQL
// determine_animal_health_status, healthrecords.StatusDeterminer.
type HealthRecordsRepo struct {
	db *sql.DB
}

func NewHealthRecordsRepo(db *sql.DB) *HealthRecordsRepo {
	return &HealthRecordsRepo{db: db}
}

const healthRecordColumns = `
	id, farm_id, animal_id,
	record_type, record_date, description, severity,
	symptoms, diagnosis, treatment, medication, dosage, veterinarian, cost,
	next_due_date, is_resolved, resolved_date,
	root_checkup_id, original_record_id, is_follow_up,
	is_auto_generated, completion_status,
	created_at, updated_at`

func (r *HealthRecordsRepo) Create(ctx context.Context, rec healthrecords.HealthRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animal_health_records (`+healthRecordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`,
		rec.ID,
		rec.FarmID,
		rec.AnimalID,
		rec.Type,
		rec.RecordDate,
		rec.Description,
		toNullString(string(rec.Severity)),
		rec.Symptoms,
		rec.Diagnosis,
		rec.Treatment,
		rec.Medication,
		rec.Dosage,
		rec.Veterinarian,
		toNullFloat(rec.Cost),
		toNullTime(rec.NextDueDate),
		rec.IsResolved,
		toNullTime(rec.ResolvedDate),
		toNullString(rec.RootCheckupID),
		toNullString(rec.OriginalRecordID),
		rec.IsFollowUp,
		rec.IsAutoGenerated,
		toNullString(string(rec.CompletionStatus)),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *HealthRecordsRepo) Update(ctx context.Context, rec healthrecords.HealthRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animal_health_records
		SET
			record_type = $2,
			record_date = $3,
			description = $4,
			severity = $5,
			symptoms = $6,
			diagnosis = $7,
			treatment = $8,
			medication = $9,
			dosage = $10,
			veterinarian = $11,
			cost = $12,
			next_due_date = $13,
			is_resolved = $14,
			resolved_date = $15,
			root_checkup_id = $16,
			completion_status = $17,
			updated_at = $18
		WHERE id = $1
	`,
		rec.ID,
		rec.Type,
		rec.RecordDate,
		rec.Description,
		toNullString(string(rec.Severity)),
		rec.Symptoms,
		rec.Diagnosis,
		rec.Treatment,
		rec.Medication,
		rec.Dosage,
		rec.Veterinarian,
		toNullFloat(rec.Cost),
		toNullTime(rec.NextDueDate),
		rec.IsResolved,
		toNullTime(rec.ResolvedDate),
		toNullString(rec.RootCheckupID),
		toNullString(string(rec.CompletionStatus)),
		rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return healthrecords.ErrNotFound
	}
	return nil
}

func (r *HealthRecordsRepo) GetByID(ctx context.Context, id string) (healthrecords.HealthRecord, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return healthrecords.HealthRecord{}, healthrecords.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+healthRecordColumns+` FROM animal_health_records WHERE id = $1`, id)
	rec, err := scanHealthRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return healthrecords.HealthRecord{}, healthrecords.ErrNotFound
		}
		return healthrecords.HealthRecord{}, err
	}
	return rec, nil
}

func (r *HealthRecordsRepo) ListByAnimal(ctx context.Context, animalID string) ([]healthrecords.HealthRecord, error) {
	if !validID(animalID) {
		return []healthrecords.HealthRecord{}, nil
	}
	return r.query(ctx, `
		SELECT `+healthRecordColumns+`
		FROM animal_health_records
		WHERE animal_id = $1
		ORDER BY record_date DESC, created_at DESC
	`, animalID)
}

func (r *HealthRecordsRepo) ListByFarm(ctx context.Context, farmID string, filter healthrecords.ListFilter) ([]healthrecords.HealthRecord, error) {
	where := []string{"farm_id = $1"}
	args := []any{farmID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.AnimalID != "" {
		if !validID(filter.AnimalID) {
			return []healthrecords.HealthRecord{}, nil
		}
		add("animal_id = $%d", filter.AnimalID)
	}
	if filter.Type != "" {
		add("record_type = $%d", filter.Type)
	}
	if filter.Resolved != nil {
		add("is_resolved = $%d", *filter.Resolved)
	}

	q := `
		SELECT ` + healthRecordColumns + `
		FROM animal_health_records
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY record_date DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.query(ctx, q, args...)
}

func (r *HealthRecordsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return healthrecords.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM animal_health_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return healthrecords.ErrNotFound
	}
	return nil
}

func (r *HealthRecordsRepo) MarkResolved(ctx context.Context, id string, resolvedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animal_health_records
		SET is_resolved = TRUE, resolved_date = $2, updated_at = $2
		WHERE id = $1
	`, id, resolvedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return healthrecords.ErrNotFound
	}
	return nil
}

func (r *HealthRecordsRepo) SetNextDueDate(ctx context.Context, id string, due time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animal_health_records SET next_due_date = $2 WHERE id = $1
	`, id, due)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return healthrecords.ErrNotFound
	}
	return nil
}

func (r *HealthRecordsRepo) CreateFollowUp(ctx context.Context, f healthrecords.FollowUp) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_record_follow_ups (
			id, original_record_id, follow_up_record_id,
			status, effectiveness, is_resolved,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		f.ID,
		f.OriginalRecordID,
		f.FollowUpRecordID,
		f.Status,
		toNullString(string(f.Effectiveness)),
		f.IsResolved,
		f.CreatedAt,
	)
	return err
}

func (r *HealthRecordsRepo) ListFollowUps(ctx context.Context, originalRecordID string) ([]healthrecords.FollowUp, error) {
	if !validID(originalRecordID) {
		return []healthrecords.FollowUp{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, original_record_id, follow_up_record_id,
			status, effectiveness, is_resolved,
			created_at
		FROM health_record_follow_ups
		WHERE original_record_id = $1
		ORDER BY created_at ASC
	`, originalRecordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]healthrecords.FollowUp, 0)
	for rows.Next() {
		var f healthrecords.FollowUp
		var eff sql.NullString
		if err := rows.Scan(
			&f.ID,
			&f.OriginalRecordID,
			&f.FollowUpRecordID,
			&f.Status,
			&eff,
			&f.IsResolved,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		f.Effectiveness = healthrecords.Effectiveness(eff.String)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *HealthRecordsRepo) DeleteFollowUpsByOriginal(ctx context.Context, originalRecordID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM health_record_follow_ups WHERE original_record_id = $1`, originalRecordID)
	return err
}

func (r *HealthRecordsRepo) DeleteFollowUpByRecord(ctx context.Context, followUpRecordID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM health_record_follow_ups WHERE follow_up_record_id = $1`, followUpRecordID)
	return err
}

// Determine delega en determine_animal_health_status(uuid) (db/schema.sql).
func (r *HealthRecordsRepo) Determine(ctx context.Context, animalID string) (healthrecords.HealthStatus, error) {
	var raw string
	if err := r.db.QueryRowContext(ctx, `SELECT determine_animal_health_status($1)`, animalID).Scan(&raw); err != nil {
		return "", err
	}
	st, ok := healthrecords.ParseHealthStatus(raw)
	if !ok {
		return "", fmt.Errorf("determine_animal_health_status returned %q", raw)
	}
	return st, nil
}

func (r *HealthRecordsRepo) query(ctx context.Context, q string, args ...any) ([]healthrecords.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]healthrecords.HealthRecord, 0)
	for rows.Next() {
		rec, err := scanHealthRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanHealthRecord(s rowScanner) (healthrecords.HealthRecord, error) {
	var (
		rec                   healthrecords.HealthRecord
		severity, completion  sql.NullString
		rootID, originalID    sql.NullString
		cost                  sql.NullFloat64
		nextDue, resolvedDate sql.NullTime
	)
	if err := s.Scan(
		&rec.ID,
		&rec.FarmID,
		&rec.AnimalID,
		&rec.Type,
		&rec.RecordDate,
		&rec.Description,
		&severity,
		&rec.Symptoms,
		&rec.Diagnosis,
		&rec.Treatment,
		&rec.Medication,
		&rec.Dosage,
		&rec.Veterinarian,
		&cost,
		&nextDue,
		&rec.IsResolved,
		&resolvedDate,
		&rootID,
		&originalID,
		&rec.IsFollowUp,
		&rec.IsAutoGenerated,
		&completion,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return healthrecords.HealthRecord{}, err
	}

	rec.Severity = healthrecords.Severity(severity.String)
	rec.CompletionStatus = healthrecords.CompletionStatus(completion.String)
	rec.RootCheckupID = rootID.String
	rec.OriginalRecordID = originalID.String
	rec.Cost = fromNullFloat(cost)
	rec.NextDueDate = fromNullTime(nextDue)
	rec.ResolvedDate = fromNullTime(resolvedDate)
	return rec, nil
}
