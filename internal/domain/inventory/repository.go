package inventory

import "context"

type ListFilter struct {
	Category Category
	// Q busca por nombre o proveedor (case-insensitive).
	Q string
}

type Repository interface {
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id string) (Item, error)
	List(ctx context.Context, farmID string, filter ListFilter) ([]Item, error)
	// Delete borra el item y su historial de movimientos.
	Delete(ctx context.Context, id string) error

	// ApplyMovement suma m.Delta al stock y registra el movimiento en una sola operación.
	// Devuelve ErrInsufficientStock si el resultado quedaría negativo.
	ApplyMovement(ctx context.Context, m Movement) (Item, error)
	ListMovements(ctx context.Context, itemID string) ([]Movement, error)
}
