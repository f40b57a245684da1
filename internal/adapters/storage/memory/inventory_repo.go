package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dairy-herd-manager/internal/domain/inventory"
)

type InventoryRepo struct {
	mu        sync.RWMutex
	items     map[string]inventory.Item
	movements map[string][]inventory.Movement // por item
}

func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{
		items:     make(map[string]inventory.Item),
		movements: make(map[string][]inventory.Movement),
	}
}

func (r *InventoryRepo) Create(ctx context.Context, it inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(it.ID) == "" {
		return errors.New("item id required")
	}
	if _, exists := r.items[it.ID]; exists {
		return errors.New("item already exists")
	}
	r.items[it.ID] = it
	return nil
}

func (r *InventoryRepo) Update(ctx context.Context, it inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[it.ID]
	if !ok {
		return inventory.ErrNotFound
	}
	// La cantidad solo cambia por ApplyMovement.
	it.Quantity = cur.Quantity
	r.items[it.ID] = it
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return inventory.Item{}, inventory.ErrNotFound
	}
	return it, nil
}

func (r *InventoryRepo) List(ctx context.Context, farmID string, filter inventory.ListFilter) ([]inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(filter.Q)
	out := make([]inventory.Item, 0)
	for _, it := range r.items {
		if it.FarmID != farmID {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) && !strings.Contains(strings.ToLower(it.Supplier), q) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return inventory.ErrNotFound
	}
	delete(r.items, id)
	delete(r.movements, id)
	return nil
}

func (r *InventoryRepo) ApplyMovement(ctx context.Context, m inventory.Movement) (inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[m.ItemID]
	if !ok {
		return inventory.Item{}, inventory.ErrNotFound
	}
	if it.Quantity+m.Delta < 0 {
		return inventory.Item{}, inventory.ErrInsufficientStock
	}
	it.Quantity += m.Delta
	it.UpdatedAt = m.OccurredAt
	r.items[it.ID] = it
	r.movements[it.ID] = append(r.movements[it.ID], m)
	return it, nil
}

func (r *InventoryRepo) ListMovements(ctx context.Context, itemID string) ([]inventory.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.movements[itemID]
	out := make([]inventory.Movement, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}
