package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dairy-herd-manager/internal/domain/animals"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, farm_id,
	tag_number, name, sex, breed, birth_date, source,
	production_status, health_status, status_overridden,
	expected_calving_date, last_service_date, last_calving_date,
	dam_id, sire_id,
	purchase_date, purchase_price, weight_kg,
	notes, lifecycle,
	created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`,
		a.ID,
		a.FarmID,
		a.TagNumber,
		a.Name,
		a.Sex,
		a.Breed,
		toNullTime(a.BirthDate),
		a.Source,
		a.ProductionStatus,
		a.HealthStatus,
		a.StatusOverridden,
		toNullTime(a.ExpectedCalvingDate),
		toNullTime(a.LastServiceDate),
		toNullTime(a.LastCalvingDate),
		toNullString(a.DamID),
		toNullString(a.SireID),
		toNullTime(a.PurchaseDate),
		toNullFloat(a.PurchasePrice),
		toNullFloat(a.WeightKg),
		a.Notes,
		a.Lifecycle,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return mapAnimalWriteErr(err)
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			tag_number = $2,
			name = $3,
			sex = $4,
			breed = $5,
			birth_date = $6,
			production_status = $7,
			health_status = $8,
			status_overridden = $9,
			expected_calving_date = $10,
			last_service_date = $11,
			last_calving_date = $12,
			dam_id = $13,
			sire_id = $14,
			purchase_date = $15,
			purchase_price = $16,
			weight_kg = $17,
			notes = $18,
			lifecycle = $19,
			updated_at = $20
		WHERE id = $1
	`,
		a.ID,
		a.TagNumber,
		a.Name,
		a.Sex,
		a.Breed,
		toNullTime(a.BirthDate),
		a.ProductionStatus,
		a.HealthStatus,
		a.StatusOverridden,
		toNullTime(a.ExpectedCalvingDate),
		toNullTime(a.LastServiceDate),
		toNullTime(a.LastCalvingDate),
		toNullString(a.DamID),
		toNullString(a.SireID),
		toNullTime(a.PurchaseDate),
		toNullFloat(a.PurchasePrice),
		toNullFloat(a.WeightKg),
		a.Notes,
		a.Lifecycle,
		a.UpdatedAt,
	)
	if err != nil {
		return mapAnimalWriteErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	a, err := scanAnimal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) List(ctx context.Context, farmID string, filter animals.ListFilter) ([]animals.Animal, error) {
	where := []string{"farm_id = $1"}
	args := []any{farmID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.ProductionStatus != "" {
		add("production_status = $%d", filter.ProductionStatus)
	}
	if filter.HealthStatus != "" {
		add("health_status = $%d", filter.HealthStatus)
	}
	if filter.Sex != "" {
		add("sex = $%d", filter.Sex)
	}
	if filter.Lifecycle != "" {
		add("lifecycle = $%d", filter.Lifecycle)
	}
	if filter.Q != "" {
		args = append(args, "%"+filter.Q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(tag_number ILIKE $%d OR name ILIKE $%d)", n, n))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY tag_number ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) TagExists(ctx context.Context, farmID, tag string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animals WHERE farm_id = $1 AND upper(tag_number) = upper($2))
	`, farmID, tag).Scan(&exists)
	return exists, err
}

func (r *AnimalsRepo) ListTags(ctx context.Context, farmID, prefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tag_number
		FROM animals
		WHERE farm_id = $1 AND upper(tag_number) LIKE upper($2) || '%'
		ORDER BY tag_number ASC
	`, farmID, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) SetHealthStatus(ctx context.Context, id string, status animals.HealthStatus, at time.Time) error {
	if !validID(id) {
		return animals.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals SET health_status = $2, updated_at = $3 WHERE id = $1
	`, id, status, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) CreateRelease(ctx context.Context, rel animals.Release) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animal_releases (
			id, farm_id, animal_id,
			reason, release_date, sale_price, buyer_name, notes,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		rel.ID,
		rel.FarmID,
		rel.AnimalID,
		rel.Reason,
		rel.ReleaseDate,
		toNullFloat(rel.SalePrice),
		rel.BuyerName,
		rel.Notes,
		rel.CreatedAt,
	)
	return err
}

func (r *AnimalsRepo) ListReleases(ctx context.Context, farmID string) ([]animals.Release, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, farm_id, animal_id,
			reason, release_date, sale_price, buyer_name, notes,
			created_at
		FROM animal_releases
		WHERE farm_id = $1
		ORDER BY release_date DESC, created_at DESC
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Release, 0)
	for rows.Next() {
		var rel animals.Release
		var price sql.NullFloat64
		if err := rows.Scan(
			&rel.ID,
			&rel.FarmID,
			&rel.AnimalID,
			&rel.Reason,
			&rel.ReleaseDate,
			&price,
			&rel.BuyerName,
			&rel.Notes,
			&rel.CreatedAt,
		); err != nil {
			return nil, err
		}
		rel.SalePrice = fromNullFloat(price)
		out = append(out, rel)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s rowScanner) (animals.Animal, error) {
	var (
		a                                         animals.Animal
		birth, expected, lastService, lastCalving sql.NullTime
		purchase                                  sql.NullTime
		dam, sire                                 sql.NullString
		price, weight                             sql.NullFloat64
	)
	if err := s.Scan(
		&a.ID,
		&a.FarmID,
		&a.TagNumber,
		&a.Name,
		&a.Sex,
		&a.Breed,
		&birth,
		&a.Source,
		&a.ProductionStatus,
		&a.HealthStatus,
		&a.StatusOverridden,
		&expected,
		&lastService,
		&lastCalving,
		&dam,
		&sire,
		&purchase,
		&price,
		&weight,
		&a.Notes,
		&a.Lifecycle,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}

	a.BirthDate = fromNullTime(birth)
	a.ExpectedCalvingDate = fromNullTime(expected)
	a.LastServiceDate = fromNullTime(lastService)
	a.LastCalvingDate = fromNullTime(lastCalving)
	a.DamID = dam.String
	a.SireID = sire.String
	a.PurchaseDate = fromNullTime(purchase)
	a.PurchasePrice = fromNullFloat(price)
	a.WeightKg = fromNullFloat(weight)
	return a, nil
}

// La carrera entre TagExists e INSERT la resuelve el índice único.
func mapAnimalWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: tag number already in use", animals.ErrConflict)
	}
	return err
}
