package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("inventory item not found")
	ErrConflict     = errors.New("conflict")

	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateItemInput struct {
	Name         string
	Category     string
	Unit         string
	Quantity     float64
	ReorderLevel float64
	UnitCost     *float64
	Supplier     string
	ExpiryDate   *time.Time
	Notes        string
}

func (s *Service) CreateItem(ctx context.Context, farmID string, in CreateItemInput) (Item, error) {
	if strings.TrimSpace(farmID) == "" {
		return Item{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Item{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	cat := Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if cat == "" {
		cat = CategoryOther
	}
	if !cat.Valid() {
		return Item{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		return Item{}, fmt.Errorf("%w: unit is required", ErrInvalidInput)
	}
	if in.Quantity < 0 || in.ReorderLevel < 0 || (in.UnitCost != nil && *in.UnitCost < 0) {
		return Item{}, fmt.Errorf("%w: quantities and costs must be >= 0", ErrInvalidInput)
	}

	now := s.now()
	it := Item{
		ID:           uuid.NewString(),
		FarmID:       farmID,
		Name:         name,
		Category:     cat,
		Unit:         unit,
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		UnitCost:     in.UnitCost,
		Supplier:     strings.TrimSpace(in.Supplier),
		ExpiryDate:   in.ExpiryDate,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) GetItem(ctx context.Context, farmID, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrNotFound
	}
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if it.FarmID != farmID {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (s *Service) ListItems(ctx context.Context, farmID string, filter ListFilter) ([]Item, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, filter.Category)
	}
	filter.Q = strings.TrimSpace(filter.Q)
	return s.repo.List(ctx, farmID, filter)
}

// UpdateItemInput no toca la cantidad: el stock solo cambia con movimientos.
type UpdateItemInput struct {
	Name         *string
	Category     *string
	Unit         *string
	ReorderLevel *float64
	UnitCost     *float64
	Supplier     *string
	ExpiryDate   *time.Time
	Notes        *string
}

func (s *Service) UpdateItem(ctx context.Context, farmID, id string, in UpdateItemInput) (Item, error) {
	it, err := s.GetItem(ctx, farmID, id)
	if err != nil {
		return Item{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Item{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		it.Name = name
	}
	if in.Category != nil {
		cat := Category(strings.ToLower(strings.TrimSpace(*in.Category)))
		if !cat.Valid() {
			return Item{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *in.Category)
		}
		it.Category = cat
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if unit == "" {
			return Item{}, fmt.Errorf("%w: unit cannot be empty", ErrInvalidInput)
		}
		it.Unit = unit
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return Item{}, fmt.Errorf("%w: reorder_level must be >= 0", ErrInvalidInput)
		}
		it.ReorderLevel = *in.ReorderLevel
	}
	if in.UnitCost != nil {
		if *in.UnitCost < 0 {
			return Item{}, fmt.Errorf("%w: unit_cost must be >= 0", ErrInvalidInput)
		}
		it.UnitCost = in.UnitCost
	}
	if in.Supplier != nil {
		it.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.ExpiryDate != nil {
		it.ExpiryDate = in.ExpiryDate
	}
	if in.Notes != nil {
		it.Notes = strings.TrimSpace(*in.Notes)
	}

	it.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) DeleteItem(ctx context.Context, farmID, id string) error {
	it, err := s.GetItem(ctx, farmID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, it.ID)
}

type AdjustInput struct {
	Kind       string
	Quantity   float64
	Reason     string
	OccurredAt time.Time
}

// AdjustStock registra un movimiento. El stock nunca queda negativo: una salida mayor
// al disponible devuelve ErrInsufficientStock y no se registra nada.
func (s *Service) AdjustStock(ctx context.Context, farmID, itemID string, in AdjustInput) (Item, Movement, error) {
	it, err := s.GetItem(ctx, farmID, itemID)
	if err != nil {
		return Item{}, Movement{}, err
	}

	kind := MovementKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	var delta float64
	switch kind {
	case MovementIn, MovementOut:
		if in.Quantity <= 0 {
			return Item{}, Movement{}, fmt.Errorf("%w: quantity must be > 0", ErrInvalidInput)
		}
		delta = in.Quantity
		if kind == MovementOut {
			delta = -in.Quantity
		}
	case MovementAdjust:
		if in.Quantity < 0 {
			return Item{}, Movement{}, fmt.Errorf("%w: counted quantity must be >= 0", ErrInvalidInput)
		}
		delta = in.Quantity - it.Quantity
	default:
		return Item{}, Movement{}, fmt.Errorf("%w: kind must be in, out or adjust", ErrInvalidInput)
	}

	if it.Quantity+delta < 0 {
		return Item{}, Movement{}, ErrInsufficientStock
	}

	at := in.OccurredAt
	if at.IsZero() {
		at = s.now()
	}
	m := Movement{
		ID:         uuid.NewString(),
		ItemID:     it.ID,
		FarmID:     it.FarmID,
		Kind:       kind,
		Quantity:   in.Quantity,
		Delta:      delta,
		Reason:     strings.TrimSpace(in.Reason),
		OccurredAt: at,
	}
	updated, err := s.repo.ApplyMovement(ctx, m)
	if err != nil {
		return Item{}, Movement{}, err
	}
	return updated, m, nil
}

func (s *Service) ListMovements(ctx context.Context, farmID, itemID string) ([]Movement, error) {
	it, err := s.GetItem(ctx, farmID, itemID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMovements(ctx, it.ID)
}

// LowStock devuelve los items en o por debajo del punto de reposición, más críticos primero.
func (s *Service) LowStock(ctx context.Context, farmID string) ([]Item, error) {
	items, err := s.repo.List(ctx, farmID, ListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0)
	for _, it := range items {
		if it.Low() {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity/out[i].ReorderLevel < out[j].Quantity/out[j].ReorderLevel
	})
	return out, nil
}
