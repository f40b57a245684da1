package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dairy-herd-manager/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

const itemColumns = `
	id, farm_id,
	name, category, unit,
	quantity, reorder_level, unit_cost,
	supplier, expiry_date, notes,
	created_at, updated_at`

func (r *InventoryRepo) Create(ctx context.Context, it inventory.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (`+itemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		it.ID,
		it.FarmID,
		it.Name,
		it.Category,
		it.Unit,
		it.Quantity,
		it.ReorderLevel,
		toNullFloat(it.UnitCost),
		it.Supplier,
		toNullTime(it.ExpiryDate),
		it.Notes,
		it.CreatedAt,
		it.UpdatedAt,
	)
	return err
}

// Update no toca quantity: solo cambia por ApplyMovement.
func (r *InventoryRepo) Update(ctx context.Context, it inventory.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET
			name = $2,
			category = $3,
			unit = $4,
			reorder_level = $5,
			unit_cost = $6,
			supplier = $7,
			expiry_date = $8,
			notes = $9,
			updated_at = $10
		WHERE id = $1
	`,
		it.ID,
		it.Name,
		it.Category,
		it.Unit,
		it.ReorderLevel,
		toNullFloat(it.UnitCost),
		it.Supplier,
		toNullTime(it.ExpiryDate),
		it.Notes,
		it.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return inventory.Item{}, inventory.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.Item{}, inventory.ErrNotFound
		}
		return inventory.Item{}, err
	}
	return it, nil
}

func (r *InventoryRepo) List(ctx context.Context, farmID string, filter inventory.ListFilter) ([]inventory.Item, error) {
	where := []string{"farm_id = $1"}
	args := []any{farmID}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Q != "" {
		args = append(args, "%"+filter.Q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR supplier ILIKE $%d)", n, n))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY lower(name) ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Delete: los movimientos caen por ON DELETE CASCADE.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return inventory.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

// ApplyMovement actualiza el stock y registra el movimiento en una transacción.
// La condición quantity + delta >= 0 se evalúa en el UPDATE, así dos salidas
// concurrentes no pueden dejar el stock negativo.
func (r *InventoryRepo) ApplyMovement(ctx context.Context, m inventory.Movement) (inventory.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.Item{}, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		UPDATE inventory_items
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING `+itemColumns, m.ItemID, m.Delta, m.OccurredAt)
	it, err := scanItem(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return inventory.Item{}, err
		}
		// Sin filas: el item no existe o no alcanza el stock.
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)`, m.ItemID).Scan(&exists); err != nil {
			return inventory.Item{}, err
		}
		if !exists {
			return inventory.Item{}, inventory.ErrNotFound
		}
		return inventory.Item{}, inventory.ErrInsufficientStock
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_movements (
			id, item_id, farm_id,
			kind, quantity, delta, reason,
			occurred_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		m.ID,
		m.ItemID,
		m.FarmID,
		m.Kind,
		m.Quantity,
		m.Delta,
		m.Reason,
		m.OccurredAt,
	); err != nil {
		return inventory.Item{}, err
	}

	if err := tx.Commit(); err != nil {
		return inventory.Item{}, err
	}
	return it, nil
}

func (r *InventoryRepo) ListMovements(ctx context.Context, itemID string) ([]inventory.Movement, error) {
	if !validID(itemID) {
		return []inventory.Movement{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, item_id, farm_id,
			kind, quantity, delta, reason,
			occurred_at
		FROM inventory_movements
		WHERE item_id = $1
		ORDER BY occurred_at DESC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Movement, 0)
	for rows.Next() {
		var m inventory.Movement
		if err := rows.Scan(
			&m.ID,
			&m.ItemID,
			&m.FarmID,
			&m.Kind,
			&m.Quantity,
			&m.Delta,
			&m.Reason,
			&m.OccurredAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanItem(s rowScanner) (inventory.Item, error) {
	var (
		it     inventory.Item
		cost   sql.NullFloat64
		expiry sql.NullTime
	)
	if err := s.Scan(
		&it.ID,
		&it.FarmID,
		&it.Name,
		&it.Category,
		&it.Unit,
		&it.Quantity,
		&it.ReorderLevel,
		&cost,
		&it.Supplier,
		&expiry,
		&it.Notes,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return inventory.Item{}, err
	}
	it.UnitCost = fromNullFloat(cost)
	it.ExpiryDate = fromNullTime(expiry)
	return it, nil
}
