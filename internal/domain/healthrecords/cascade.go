package healthrecords

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dairy-herd-manager/internal/platform/metrics"

	"github.com/google/uuid"
)

// FollowUpOutcome es lo que el usuario informa al registrar un seguimiento.
type FollowUpOutcome struct {
	RecordDate    time.Time
	Status        string
	Effectiveness string
	Resolved      bool

	Description  string
	Treatment    string
	Medication   string
	Dosage       string
	Veterinarian string
	Cost         *float64

	// Solo se usa si Resolved == false.
	NextFollowUpDate *time.Time
}

type FollowUpResult struct {
	FollowUpRecordID      string
	FollowUpRecord        HealthRecord
	ResolvedRecordIDs     []string
	NewAnimalHealthStatus HealthStatus

	// Pasos best-effort que fallaron (el seguimiento queda creado igual).
	Warnings []string
}

// CreateFollowUp registra un seguimiento sobre un registro y, si el resultado es
// resuelto, propaga la resolución al original y a sus ancestros.
//
// Política: falla dura si no se puede crear la relación (se borra el registro de
// seguimiento recién creado); la actualización de ancestros y del estado sanitario
// es best-effort y sus fallos vuelven como warnings.
func (s *Service) CreateFollowUp(ctx context.Context, farmID, originalID string, in FollowUpOutcome) (FollowUpResult, error) {
	original, err := s.Get(ctx, farmID, originalID)
	if err != nil {
		return FollowUpResult{}, err
	}

	status, ok := ParseFollowUpStatus(in.Status)
	if !ok {
		return FollowUpResult{}, fmt.Errorf("%w: unknown follow-up status %q", ErrInvalidInput, in.Status)
	}
	eff, ok := ParseEffectiveness(in.Effectiveness)
	if !ok {
		return FollowUpResult{}, fmt.Errorf("%w: unknown treatment effectiveness %q", ErrInvalidInput, in.Effectiveness)
	}
	if in.Cost != nil && *in.Cost < 0 {
		return FollowUpResult{}, fmt.Errorf("%w: cost must be >= 0", ErrInvalidInput)
	}

	// La cadena de ancestros se valida antes de escribir nada.
	if _, err := s.ancestors(ctx, original); err != nil {
		return FollowUpResult{}, err
	}

	now := s.now()
	date := in.RecordDate
	if date.IsZero() {
		date = now
	}

	log := s.log.With(map[string]any{
		"original_record_id": original.ID,
		"animal_id":          original.AnimalID,
	})

	// 1) registro de seguimiento (siempre tratamiento)
	fu := HealthRecord{
		ID:               uuid.NewString(),
		FarmID:           original.FarmID,
		AnimalID:         original.AnimalID,
		Type:             TypeTreatment,
		RecordDate:       date,
		Description:      followUpDescription(in.Description, status),
		Treatment:        strings.TrimSpace(in.Treatment),
		Medication:       strings.TrimSpace(in.Medication),
		Dosage:           strings.TrimSpace(in.Dosage),
		Veterinarian:     strings.TrimSpace(in.Veterinarian),
		Cost:             in.Cost,
		OriginalRecordID: original.ID,
		IsFollowUp:       true,
		CompletionStatus: CompletionCompleted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	// Nace resuelto; no figura en resolved_record_ids (solo original y ancestros).
	if in.Resolved {
		fu.IsResolved = true
		fu.ResolvedDate = &date
	}
	if err := s.repo.Create(ctx, fu); err != nil {
		return FollowUpResult{}, err
	}

	// 2) relación; si falla se compensa borrando el seguimiento
	rel := FollowUp{
		ID:               uuid.NewString(),
		OriginalRecordID: original.ID,
		FollowUpRecordID: fu.ID,
		Status:           status,
		Effectiveness:    eff,
		IsResolved:       in.Resolved,
		CreatedAt:        now,
	}
	if err := s.repo.CreateFollowUp(ctx, rel); err != nil {
		if derr := s.repo.Delete(ctx, fu.ID); derr != nil {
			log.Error("follow-up compensation failed", map[string]any{
				"follow_up_record_id": fu.ID,
				"err":                 derr,
			})
		}
		s.metrics.ObserveCascade(metrics.OutcomeRolledBack, 0)
		return FollowUpResult{}, fmt.Errorf("create follow-up relation: %w", err)
	}

	res := FollowUpResult{
		FollowUpRecordID:  fu.ID,
		FollowUpRecord:    fu,
		ResolvedRecordIDs: []string{},
	}

	warn := func(step string, id string, err error) {
		log.Warn("follow-up cascade step failed", map[string]any{
			"step":      step,
			"record_id": id,
			"err":       err,
		})
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s: %v", step, id, err))
	}

	if in.Resolved {
		// 3) original, 4) chequeo raíz, 5) ancestro anidado
		for _, id := range resolutionTargets(original) {
			if err := s.repo.MarkResolved(ctx, id, date); err != nil {
				warn("mark resolved", id, err)
				continue
			}
			res.ResolvedRecordIDs = append(res.ResolvedRecordIDs, id)
		}
	} else if in.NextFollowUpDate != nil {
		if err := s.repo.SetNextDueDate(ctx, original.ID, *in.NextFollowUpDate); err != nil {
			warn("set next due date", original.ID, err)
		}
	}

	// 6) estado sanitario agregado
	st, err := s.refreshAnimalStatus(ctx, original.AnimalID)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("refresh animal health status: %v", err))
	}
	res.NewAnimalHealthStatus = st

	outcome := metrics.OutcomeUnresolved
	switch {
	case len(res.Warnings) > 0:
		outcome = metrics.OutcomePartial
	case in.Resolved:
		outcome = metrics.OutcomeResolved
	}
	s.metrics.ObserveCascade(outcome, len(res.ResolvedRecordIDs))

	return res, nil
}

// resolutionTargets: original, su chequeo raíz y, si es seguimiento, su original. Sin repetidos.
func resolutionTargets(original HealthRecord) []string {
	out := []string{original.ID}
	for _, id := range parentIDs(original) {
		if id != original.ID {
			out = append(out, id)
		}
	}
	return out
}

func followUpDescription(desc string, status FollowUpStatus) string {
	if d := strings.TrimSpace(desc); d != "" {
		return d
	}
	return "Follow-up: " + strings.ReplaceAll(string(status), "_", " ")
}

type AutoInput struct {
	FarmID       string
	AnimalID     string
	AnimalName   string
	TagNumber    string
	HealthStatus HealthStatus
	RecordDate   time.Time
}

// CreateAutoGenerated sintetiza el registro pendiente cuando un animal se registra con
// un estado sanitario preocupante. Devuelve ok=false si el estado no lo requiere.
// No recalcula el estado del animal: el usuario lo acaba de declarar.
func (s *Service) CreateAutoGenerated(ctx context.Context, in AutoInput) (HealthRecord, bool, error) {
	m, ok := autoRecordMapping[in.HealthStatus]
	if !ok {
		return HealthRecord{}, false, nil
	}
	if strings.TrimSpace(in.FarmID) == "" || strings.TrimSpace(in.AnimalID) == "" {
		return HealthRecord{}, false, ErrInvalidInput
	}

	now := s.now()
	date := in.RecordDate
	if date.IsZero() {
		date = now
	}

	rec := HealthRecord{
		ID:               uuid.NewString(),
		FarmID:           in.FarmID,
		AnimalID:         in.AnimalID,
		Type:             m.Type,
		RecordDate:       date,
		Description:      autoDescription(in),
		Severity:         m.Severity,
		IsAutoGenerated:  true,
		CompletionStatus: CompletionPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return HealthRecord{}, false, err
	}

	s.metrics.ObserveAutoHealthRecord()
	s.log.Info("auto-generated health record", map[string]any{
		"record_id": rec.ID,
		"animal_id": rec.AnimalID,
		"status":    string(in.HealthStatus),
	})
	return rec, true, nil
}

func autoDescription(in AutoInput) string {
	who := strings.TrimSpace(in.AnimalName)
	if who == "" {
		who = strings.TrimSpace(in.TagNumber)
	}
	return fmt.Sprintf("Auto-generated: %s registered as %s", who, strings.ReplaceAll(string(in.HealthStatus), "_", " "))
}

type CompleteInput struct {
	Description  *string
	Severity     *string
	Symptoms     string
	Diagnosis    string
	Treatment    string
	Medication   string
	Dosage       string
	Veterinarian string
	Cost         *float64
	NextDueDate  *time.Time
}

// CompleteAutoGenerated completa con datos del usuario un registro auto-generado pendiente.
func (s *Service) CompleteAutoGenerated(ctx context.Context, farmID, id string, in CompleteInput) (HealthRecord, error) {
	rec, err := s.Get(ctx, farmID, id)
	if err != nil {
		return HealthRecord{}, err
	}
	if !rec.IsAutoGenerated {
		return HealthRecord{}, fmt.Errorf("%w: record is not auto-generated", ErrInvalidInput)
	}
	if rec.CompletionStatus == CompletionCompleted {
		return HealthRecord{}, fmt.Errorf("%w: record already completed", ErrConflict)
	}

	if in.Severity != nil {
		sev, ok := ParseSeverity(*in.Severity)
		if !ok {
			return HealthRecord{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, *in.Severity)
		}
		rec.Severity = sev
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return HealthRecord{}, fmt.Errorf("%w: cost must be >= 0", ErrInvalidInput)
		}
		rec.Cost = in.Cost
	}
	setString(&rec.Description, in.Description)
	rec.Symptoms = strings.TrimSpace(in.Symptoms)
	rec.Diagnosis = strings.TrimSpace(in.Diagnosis)
	rec.Treatment = strings.TrimSpace(in.Treatment)
	rec.Medication = strings.TrimSpace(in.Medication)
	rec.Dosage = strings.TrimSpace(in.Dosage)
	rec.Veterinarian = strings.TrimSpace(in.Veterinarian)
	if in.NextDueDate != nil {
		rec.NextDueDate = in.NextDueDate
	}

	rec.CompletionStatus = CompletionCompleted
	rec.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rec); err != nil {
		return HealthRecord{}, err
	}
	return rec, nil
}
