package inventory

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items     map[string]Item
	movements []Movement
}

func newTestRepo() *testRepo {
	return &testRepo{items: map[string]Item{}}
}

func (r *testRepo) Create(ctx context.Context, it Item) error {
	r.items[it.ID] = it
	return nil
}

func (r *testRepo) Update(ctx context.Context, it Item) error {
	if _, ok := r.items[it.ID]; !ok {
		return ErrNotFound
	}
	r.items[it.ID] = it
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Item, error) {
	it, ok := r.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *testRepo) List(ctx context.Context, farmID string, filter ListFilter) ([]Item, error) {
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.FarmID == farmID && (filter.Category == "" || it.Category == filter.Category) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.ItemID != id {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

func (r *testRepo) ApplyMovement(ctx context.Context, m Movement) (Item, error) {
	it, ok := r.items[m.ItemID]
	if !ok {
		return Item{}, ErrNotFound
	}
	if it.Quantity+m.Delta < 0 {
		return Item{}, ErrInsufficientStock
	}
	it.Quantity += m.Delta
	it.UpdatedAt = m.OccurredAt
	r.items[it.ID] = it
	r.movements = append(r.movements, m)
	return it, nil
}

func (r *testRepo) ListMovements(ctx context.Context, itemID string) ([]Movement, error) {
	out := make([]Movement, 0)
	for _, m := range r.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

const farmA = "farm-a"

func newTestService(t *testing.T) (*Service, *testRepo) {
	t.Helper()
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateItem_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, farmA, CreateItemInput{Unit: "kg"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateItem(ctx, farmA, CreateItemInput{Name: "Silo", Unit: "kg", Category: "toys"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateItem(ctx, farmA, CreateItemInput{Name: "Silo", Unit: "kg", Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	it, err := svc.CreateItem(ctx, farmA, CreateItemInput{Name: " Silo de maíz ", Unit: "kg", Quantity: 500})
	require.NoError(t, err)
	assert.Equal(t, "Silo de maíz", it.Name)
	assert.Equal(t, CategoryOther, it.Category)
}

func TestAdjustStock_NeverBelowZero(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	it, err := svc.CreateItem(ctx, farmA, CreateItemInput{Name: "Oxitetraciclina", Category: "medicine", Unit: "ml", Quantity: 100})
	require.NoError(t, err)

	it, m, err := svc.AdjustStock(ctx, farmA, it.ID, AdjustInput{Kind: "out", Quantity: 30, Reason: "treatment"})
	require.NoError(t, err)
	assert.Equal(t, 70.0, it.Quantity)
	assert.Equal(t, -30.0, m.Delta)

	_, _, err = svc.AdjustStock(ctx, farmA, it.ID, AdjustInput{Kind: "out", Quantity: 71})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 70.0, repo.items[it.ID].Quantity)

	it, _, err = svc.AdjustStock(ctx, farmA, it.ID, AdjustInput{Kind: "IN", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 80.0, it.Quantity)

	// adjust fija el conteo físico.
	it, m, err = svc.AdjustStock(ctx, farmA, it.ID, AdjustInput{Kind: "adjust", Quantity: 75, Reason: "stock take"})
	require.NoError(t, err)
	assert.Equal(t, 75.0, it.Quantity)
	assert.Equal(t, -5.0, m.Delta)

	moves, err := svc.ListMovements(ctx, farmA, it.ID)
	require.NoError(t, err)
	assert.Len(t, moves, 3)
}

func TestAdjustStock_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	it, err := svc.CreateItem(ctx, farmA, CreateItemInput{Name: "Balanceado", Category: "feed", Unit: "kg", Quantity: 10})
	require.NoError(t, err)

	cases := []AdjustInput{
		{Kind: "in", Quantity: 0},
		{Kind: "out", Quantity: -2},
		{Kind: "adjust", Quantity: -1},
		{Kind: "lost", Quantity: 1},
	}
	for _, in := range cases {
		_, _, err := svc.AdjustStock(ctx, farmA, it.ID, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "kind=%s qty=%v", in.Kind, in.Quantity)
	}
}

func TestOtherFarmIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	it, err := svc.CreateItem(ctx, farmA, CreateItemInput{Name: "Jeringas", Category: "supplies", Unit: "u"})
	require.NoError(t, err)

	_, err = svc.GetItem(ctx, "farm-b", it.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.AdjustStock(ctx, "farm-b", it.ID, AdjustInput{Kind: "in", Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteItem(ctx, "farm-b", it.ID), ErrNotFound)
}

func TestUpdateItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	it, err := svc.CreateItem(ctx, farmA, CreateItemInput{Name: "Ivermectina", Category: "medicine", Unit: "ml", Quantity: 20})
	require.NoError(t, err)

	level := 25.0
	supplier := "Agro SRL"
	it, err = svc.UpdateItem(ctx, farmA, it.ID, UpdateItemInput{ReorderLevel: &level, Supplier: &supplier})
	require.NoError(t, err)
	assert.Equal(t, 20.0, it.Quantity)
	assert.Equal(t, "Agro SRL", it.Supplier)
	assert.True(t, it.Low())

	bad := "weapons"
	_, err = svc.UpdateItem(ctx, farmA, it.ID, UpdateItemInput{Category: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLowStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mk := func(name string, qty, level float64) {
		_, err := svc.CreateItem(ctx, farmA, CreateItemInput{Name: name, Unit: "u", Quantity: qty, ReorderLevel: level})
		require.NoError(t, err)
	}
	mk("a-ok", 50, 10)
	mk("b-half", 5, 10)
	mk("c-empty", 0, 4)
	mk("d-no-alert", 0, 0)

	low, err := svc.LowStock(ctx, farmA)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "c-empty", low[0].Name)
	assert.Equal(t, "b-half", low[1].Name)
}

func TestDeleteItem_RemovesMovements(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	it, err := svc.CreateItem(ctx, farmA, CreateItemInput{Name: "Heno", Category: "feed", Unit: "fardos", Quantity: 3})
	require.NoError(t, err)
	_, _, err = svc.AdjustStock(ctx, farmA, it.ID, AdjustInput{Kind: "in", Quantity: 10})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, farmA, it.ID))
	assert.Empty(t, repo.movements)
	_, err = svc.GetItem(ctx, farmA, it.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
