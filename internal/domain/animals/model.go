package animals

import (
	"time"

	"dairy-herd-manager/internal/domain/healthrecords"
	"dairy-herd-manager/internal/domain/lifecycle"
)

type (
	Sex              = lifecycle.Sex
	ProductionStatus = lifecycle.Status
	HealthStatus     = healthrecords.HealthStatus
)

// Source indica cómo ingresó el animal al rodeo.
// @Enum newborn_calf, purchased_animal
type Source string

const (
	SourceNewbornCalf Source = "newborn_calf"
	SourcePurchased   Source = "purchased_animal"
)

// Lifecycle: los animales no se borran, se dan de baja con un registro de release.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleReleased Lifecycle = "released"
)

// Animal representa un animal del rodeo de una granja.
type Animal struct {
	ID     string
	FarmID string

	TagNumber string
	Name      string
	Sex       Sex
	Breed     string
	BirthDate *time.Time
	Source    Source

	ProductionStatus ProductionStatus
	HealthStatus     HealthStatus
	StatusOverridden bool

	ExpectedCalvingDate *time.Time
	LastServiceDate     *time.Time
	LastCalvingDate     *time.Time

	DamID  string
	SireID string

	PurchaseDate  *time.Time
	PurchasePrice *float64
	WeightKg      *float64

	Notes     string
	Lifecycle Lifecycle

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReleaseReason es el motivo de baja.
// @Enum sold, died, culled, donated, transferred, other
type ReleaseReason string

const (
	ReleaseSold        ReleaseReason = "sold"
	ReleaseDied        ReleaseReason = "died"
	ReleaseCulled      ReleaseReason = "culled"
	ReleaseDonated     ReleaseReason = "donated"
	ReleaseTransferred ReleaseReason = "transferred"
	ReleaseOther       ReleaseReason = "other"
)

type Release struct {
	ID       string
	FarmID   string
	AnimalID string

	Reason      ReleaseReason
	ReleaseDate time.Time
	SalePrice   *float64
	BuyerName   string
	Notes       string

	CreatedAt time.Time
}
