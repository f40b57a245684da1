package inventory

import "time"

// Category agrupa los insumos del campo.
// @Enum feed, medicine, equipment, supplies, other
type Category string

const (
	CategoryFeed      Category = "feed"
	CategoryMedicine  Category = "medicine"
	CategoryEquipment Category = "equipment"
	CategorySupplies  Category = "supplies"
	CategoryOther     Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFeed, CategoryMedicine, CategoryEquipment, CategorySupplies, CategoryOther:
		return true
	}
	return false
}

// MovementKind: in suma, out resta, adjust fija el stock contado.
// @Enum in, out, adjust
type MovementKind string

const (
	MovementIn     MovementKind = "in"
	MovementOut    MovementKind = "out"
	MovementAdjust MovementKind = "adjust"
)

type Item struct {
	ID     string
	FarmID string

	Name     string
	Category Category
	Unit     string // kg, l, dosis, unidades...

	Quantity     float64
	ReorderLevel float64
	UnitCost     *float64
	Supplier     string
	ExpiryDate   *time.Time
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Low indica stock en o por debajo del punto de reposición (0 = sin alerta).
func (it Item) Low() bool {
	return it.ReorderLevel > 0 && it.Quantity <= it.ReorderLevel
}

// Movement es el historial de stock de un item.
// Para adjust, Quantity es el stock contado; Delta es siempre el cambio aplicado.
type Movement struct {
	ID     string
	ItemID string
	FarmID string

	Kind     MovementKind
	Quantity float64
	Delta    float64
	Reason   string

	OccurredAt time.Time
}
