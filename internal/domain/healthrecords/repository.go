package healthrecords

import (
	"context"
	"time"
)

type ListFilter struct {
	AnimalID string
	Type     RecordType
	Resolved *bool
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, r HealthRecord) error
	Update(ctx context.Context, r HealthRecord) error
	GetByID(ctx context.Context, id string) (HealthRecord, error)
	ListByAnimal(ctx context.Context, animalID string) ([]HealthRecord, error)
	ListByFarm(ctx context.Context, farmID string, filter ListFilter) ([]HealthRecord, error)
	Delete(ctx context.Context, id string) error

	// Escrituras puntuales de la cascada: sentencias independientes, sin transacción.
	MarkResolved(ctx context.Context, id string, resolvedAt time.Time) error
	SetNextDueDate(ctx context.Context, id string, due time.Time) error

	CreateFollowUp(ctx context.Context, f FollowUp) error
	ListFollowUps(ctx context.Context, originalRecordID string) ([]FollowUp, error)
	DeleteFollowUpsByOriginal(ctx context.Context, originalRecordID string) error
	DeleteFollowUpByRecord(ctx context.Context, followUpRecordID string) error
}

// AnimalRef es lo mínimo que este módulo necesita saber de un animal.
type AnimalRef struct {
	ID        string
	FarmID    string
	TagNumber string
	Name      string
}

// AnimalDirectory lo implementa el módulo de animales.
type AnimalDirectory interface {
	Lookup(ctx context.Context, animalID string) (AnimalRef, error)
	SetHealthStatus(ctx context.Context, animalID string, status HealthStatus) error
}

// StatusDeterminer calcula el estado sanitario agregado desde los registros abiertos.
// En Postgres es la función determine_animal_health_status(uuid).
type StatusDeterminer interface {
	Determine(ctx context.Context, animalID string) (HealthStatus, error)
}

// DetermineFromRecords es la regla que aplica la función SQL, para stores sin procedimientos:
// registros abiertos de tipo illness/injury/treatment; algún critical o enfermedad high => quarantined
// (es lo que genera el alta en cuarentena); alguna enfermedad o lesión => sick;
// solo tratamientos => requires_attention; nada => healthy.
func DetermineFromRecords(records []HealthRecord) HealthStatus {
	var (
		sick      bool
		treatment bool
	)
	for _, r := range records {
		if r.IsResolved || !r.Type.Concerning() {
			continue
		}
		if r.Severity == SeverityCritical || (r.Type == TypeIllness && r.Severity == SeverityHigh) {
			return HealthQuarantined
		}
		if r.Type == TypeTreatment {
			treatment = true
		} else {
			sick = true
		}
	}
	switch {
	case sick:
		return HealthSick
	case treatment:
		return HealthRequiresAttention
	default:
		return HealthHealthy
	}
}
