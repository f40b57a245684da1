package healthrecords

import "time"

// RecordType define el tipo de registro sanitario.
// @Enum vaccination, treatment, checkup, injury, illness, reproductive, deworming
type RecordType string

const (
	TypeVaccination  RecordType = "vaccination"
	TypeTreatment    RecordType = "treatment"
	TypeCheckup      RecordType = "checkup"
	TypeInjury       RecordType = "injury"
	TypeIllness      RecordType = "illness"
	TypeReproductive RecordType = "reproductive"
	TypeDeworming    RecordType = "deworming"
)

// Severity es opcional en el registro ("" = sin severidad).
// @Enum low, medium, high, critical
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// HealthStatus es el estado sanitario agregado del animal.
// @Enum healthy, sick, requires_attention, quarantined
type HealthStatus string

const (
	HealthHealthy           HealthStatus = "healthy"
	HealthSick              HealthStatus = "sick"
	HealthRequiresAttention HealthStatus = "requires_attention"
	HealthQuarantined       HealthStatus = "quarantined"
)

type CompletionStatus string

const (
	CompletionPending   CompletionStatus = "pending"
	CompletionCompleted CompletionStatus = "completed"
)

// FollowUpStatus es el resultado clínico informado en el seguimiento.
// @Enum improving, stable, worsening, recovered, requires_attention
type FollowUpStatus string

const (
	FollowUpImproving         FollowUpStatus = "improving"
	FollowUpStable            FollowUpStatus = "stable"
	FollowUpWorsening         FollowUpStatus = "worsening"
	FollowUpRecovered         FollowUpStatus = "recovered"
	FollowUpRequiresAttention FollowUpStatus = "requires_attention"
)

// Effectiveness califica el tratamiento (opcional).
// @Enum very_effective, effective, somewhat_effective, not_effective
type Effectiveness string

const (
	VeryEffective     Effectiveness = "very_effective"
	Effective         Effectiveness = "effective"
	SomewhatEffective Effectiveness = "somewhat_effective"
	NotEffective      Effectiveness = "not_effective"
)

// HealthRecord pertenece a un animal y a una granja.
//
// RootCheckupID y OriginalRecordID son las referencias explícitas a los ancestros:
// el chequeo del que se derivó el registro y, en un seguimiento, el registro original.
type HealthRecord struct {
	ID       string
	FarmID   string
	AnimalID string

	Type        RecordType
	RecordDate  time.Time
	Description string
	Severity    Severity

	Symptoms     string
	Diagnosis    string
	Treatment    string
	Medication   string
	Dosage       string
	Veterinarian string
	Cost         *float64

	NextDueDate *time.Time

	IsResolved   bool
	ResolvedDate *time.Time

	RootCheckupID    string
	OriginalRecordID string
	IsFollowUp       bool

	IsAutoGenerated  bool
	CompletionStatus CompletionStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FollowUp es la relación original -> seguimiento (tabla health_record_follow_ups).
// Solo IsResolved cambia después de creada.
type FollowUp struct {
	ID               string
	OriginalRecordID string
	FollowUpRecordID string
	Status           FollowUpStatus
	Effectiveness    Effectiveness
	IsResolved       bool
	CreatedAt        time.Time
}
