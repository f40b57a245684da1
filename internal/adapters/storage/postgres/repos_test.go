package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	schema "dairy-herd-manager/db"
	"dairy-herd-manager/internal/domain/animals"
	"dairy-herd-manager/internal/domain/healthrecords"
	"dairy-herd-manager/internal/domain/inventory"
	"dairy-herd-manager/internal/domain/lifecycle"
	"dairy-herd-manager/internal/domain/settings"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var animalCols = []string{
	"id", "farm_id",
	"tag_number", "name", "sex", "breed", "birth_date", "source",
	"production_status", "health_status", "status_overridden",
	"expected_calving_date", "last_service_date", "last_calving_date",
	"dam_id", "sire_id",
	"purchase_date", "purchase_price", "weight_kg",
	"notes", "lifecycle",
	"created_at", "updated_at",
}

func TestAnimalsRepo_GetByID(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAnimalsRepo(db)
	ctx := context.Background()

	id := uuid.NewString()
	birth := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(animalCols).AddRow(
		id, "farm-a",
		"COW-2026-0001", "Luna", "female", "Holstein", birth, "purchased_animal",
		"lactating", "healthy", false,
		nil, nil, nil,
		nil, nil,
		nil, 1500.0, nil,
		"", "active",
		now, now,
	)
	mock.ExpectQuery(`SELECT .* FROM animals WHERE id = \$1`).WithArgs(id).WillReturnRows(rows)

	a, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.SexFemale, a.Sex)
	assert.Equal(t, lifecycle.StatusLactating, a.ProductionStatus)
	require.NotNil(t, a.BirthDate)
	assert.True(t, a.BirthDate.Equal(birth))
	require.NotNil(t, a.PurchasePrice)
	assert.Equal(t, 1500.0, *a.PurchasePrice)
	assert.Nil(t, a.WeightKg)
	assert.Empty(t, a.DamID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnimalsRepo_GetByID_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAnimalsRepo(db)
	ctx := context.Background()

	// Un id que no es UUID ni llega a la base.
	_, err := repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, animals.ErrNotFound)

	id := uuid.NewString()
	mock.ExpectQuery(`SELECT .* FROM animals`).WithArgs(id).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, animals.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnimalsRepo_Create_DuplicateTagIsConflict(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAnimalsRepo(db)

	mock.ExpectExec(`INSERT INTO animals`).WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Create(context.Background(), animals.Animal{ID: uuid.NewString(), FarmID: "farm-a", TagNumber: "COW-1"})
	assert.ErrorIs(t, err, animals.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnimalsRepo_List_BuildsFilters(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAnimalsRepo(db)

	mock.ExpectQuery(`WHERE farm_id = \$1 AND sex = \$2 AND lifecycle = \$3 AND \(tag_number ILIKE \$4 OR name ILIKE \$4\)`).
		WithArgs("farm-a", "female", "active", "%luna%").
		WillReturnRows(sqlmock.NewRows(animalCols))

	out, err := repo.List(context.Background(), "farm-a", animals.ListFilter{
		Sex:       lifecycle.SexFemale,
		Lifecycle: animals.LifecycleActive,
		Q:         "luna",
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnimalsRepo_SetHealthStatus(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAnimalsRepo(db)
	id := uuid.NewString()
	at := time.Now()

	mock.ExpectExec(`UPDATE animals SET health_status`).
		WithArgs(id, "sick", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetHealthStatus(context.Background(), id, healthrecords.HealthSick, at))

	mock.ExpectExec(`UPDATE animals SET health_status`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SetHealthStatus(context.Background(), id, healthrecords.HealthSick, at)
	assert.ErrorIs(t, err, animals.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthRecordsRepo_Determine(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewHealthRecordsRepo(db)
	id := uuid.NewString()

	mock.ExpectQuery(`SELECT determine_animal_health_status`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("requires_attention"))

	st, err := repo.Determine(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, healthrecords.HealthRequiresAttention, st)

	mock.ExpectQuery(`SELECT determine_animal_health_status`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("zombie"))
	_, err = repo.Determine(context.Background(), id)
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

// La función SQL tiene que reconocer el registro que genera el alta en cuarentena.
func TestSchema_HighIllnessIsQuarantine(t *testing.T) {
	assert.Contains(t, schema.Schema, "severity = 'critical' OR (record_type = 'illness' AND severity = 'high')")
}

func TestHealthRecordsRepo_MarkResolved_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewHealthRecordsRepo(db)

	mock.ExpectExec(`UPDATE animal_health_records`).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.MarkResolved(context.Background(), uuid.NewString(), time.Now())
	assert.ErrorIs(t, err, healthrecords.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthRecordsRepo_ListByFarm_Limit(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewHealthRecordsRepo(db)
	open := false

	mock.ExpectQuery(`WHERE farm_id = \$1 AND record_type = \$2 AND is_resolved = \$3\s+ORDER BY record_date DESC, created_at DESC LIMIT \$4`).
		WithArgs("farm-a", "illness", false, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, err := repo.ListByFarm(context.Background(), "farm-a", healthrecords.ListFilter{
		Type:     healthrecords.TypeIllness,
		Resolved: &open,
		Limit:    50,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepo(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT settings FROM farm_settings`).WithArgs("farm-a").WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(ctx, "farm-a")
	assert.ErrorIs(t, err, settings.ErrNotFound)

	doc := `{"breeding":{"gestation_days":280,"age_categories":[]},"tagging":{"prefix":"VAC","include_year":false,"padding":3}}`
	mock.ExpectQuery(`SELECT settings FROM farm_settings`).WithArgs("farm-a").
		WillReturnRows(sqlmock.NewRows([]string{"settings"}).AddRow([]byte(doc)))
	s, err := repo.Get(ctx, "farm-a")
	require.NoError(t, err)
	assert.Equal(t, "farm-a", s.FarmID)
	assert.Equal(t, 280, s.Breeding.GestationDays)
	assert.Equal(t, "VAC", s.Tagging.Prefix)

	mock.ExpectExec(`INSERT INTO farm_settings .* ON CONFLICT \(farm_id\) DO UPDATE`).
		WithArgs("farm-a", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(ctx, settings.Defaults("farm-a")))

	require.NoError(t, mock.ExpectationsWereMet())
}

var itemCols = []string{
	"id", "farm_id",
	"name", "category", "unit",
	"quantity", "reorder_level", "unit_cost",
	"supplier", "expiry_date", "notes",
	"created_at", "updated_at",
}

func TestInventoryRepo_ApplyMovement(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewInventoryRepo(db)
	now := time.Now().UTC()
	itemID := uuid.NewString()

	m := inventory.Movement{
		ID:         uuid.NewString(),
		ItemID:     itemID,
		FarmID:     "farm-a",
		Kind:       inventory.MovementOut,
		Quantity:   5,
		Delta:      -5,
		OccurredAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE inventory_items\s+SET quantity = quantity \+ \$2`).
		WithArgs(itemID, -5.0, now).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(
			itemID, "farm-a",
			"Ivermectina", "medicine", "ml",
			15.0, 10.0, nil,
			"", nil, "",
			now, now,
		))
	mock.ExpectExec(`INSERT INTO inventory_movements`).
		WithArgs(m.ID, itemID, "farm-a", "out", 5.0, -5.0, "", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	it, err := repo.ApplyMovement(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 15.0, it.Quantity)
	assert.Equal(t, inventory.CategoryMedicine, it.Category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepo_ApplyMovement_InsufficientStock(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewInventoryRepo(db)
	itemID := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE inventory_items`).WillReturnRows(sqlmock.NewRows(itemCols))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(itemID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.ApplyMovement(context.Background(), inventory.Movement{ItemID: itemID, Delta: -100, OccurredAt: time.Now()})
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepo_ApplyMovement_MissingItem(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewInventoryRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE inventory_items`).WillReturnRows(sqlmock.NewRows(itemCols))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.ApplyMovement(context.Background(), inventory.Movement{ItemID: uuid.NewString(), Delta: 1, OccurredAt: time.Now()})
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
