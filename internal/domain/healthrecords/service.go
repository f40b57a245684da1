package healthrecords

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("health record not found")
	ErrAnimalNotFound = errors.New("animal not found")
	ErrCycle          = errors.New("health record ancestry contains a cycle")
	ErrConflict       = errors.New("conflict")
)

type Deps struct {
	Animals    AnimalDirectory
	Determiner StatusDeterminer
	Logger     logger.Logger
	Metrics    *metrics.Metrics
}

type Service struct {
	repo       Repository
	animals    AnimalDirectory
	determiner StatusDeterminer
	log        logger.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewService(repo Repository, deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:       repo,
		animals:    deps.Animals,
		determiner: deps.Determiner,
		log:        log,
		metrics:    deps.Metrics,
		now:        time.Now,
	}
}

type CreateInput struct {
	Type         string
	RecordDate   time.Time
	Description  string
	Severity     string
	Symptoms     string
	Diagnosis    string
	Treatment    string
	Medication   string
	Dosage       string
	Veterinarian string
	Cost         *float64
	NextDueDate  *time.Time

	RootCheckupID string
}

func (s *Service) Create(ctx context.Context, farmID, animalID string, in CreateInput) (HealthRecord, error) {
	animal, err := s.lookupAnimal(ctx, farmID, animalID)
	if err != nil {
		return HealthRecord{}, err
	}

	t, ok := ParseRecordType(in.Type)
	if !ok {
		return HealthRecord{}, fmt.Errorf("%w: unknown record type %q", ErrInvalidInput, in.Type)
	}
	sev, ok := ParseSeverity(in.Severity)
	if !ok {
		return HealthRecord{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, in.Severity)
	}
	if in.Cost != nil && *in.Cost < 0 {
		return HealthRecord{}, fmt.Errorf("%w: cost must be >= 0", ErrInvalidInput)
	}

	now := s.now()
	date := in.RecordDate
	if date.IsZero() {
		date = now
	}

	rec := HealthRecord{
		ID:               uuid.NewString(),
		FarmID:           farmID,
		AnimalID:         animal.ID,
		Type:             t,
		RecordDate:       date,
		Description:      strings.TrimSpace(in.Description),
		Severity:         sev,
		Symptoms:         strings.TrimSpace(in.Symptoms),
		Diagnosis:        strings.TrimSpace(in.Diagnosis),
		Treatment:        strings.TrimSpace(in.Treatment),
		Medication:       strings.TrimSpace(in.Medication),
		Dosage:           strings.TrimSpace(in.Dosage),
		Veterinarian:     strings.TrimSpace(in.Veterinarian),
		Cost:             in.Cost,
		NextDueDate:      in.NextDueDate,
		RootCheckupID:    strings.TrimSpace(in.RootCheckupID),
		CompletionStatus: CompletionCompleted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.checkRootCheckup(ctx, rec); err != nil {
		return HealthRecord{}, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return HealthRecord{}, err
	}

	s.refreshAnimalStatusBestEffort(ctx, rec.AnimalID)
	return rec, nil
}

func (s *Service) Get(ctx context.Context, farmID, id string) (HealthRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return HealthRecord{}, ErrNotFound
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return HealthRecord{}, err
	}
	// Otra granja: 404, no se revela existencia.
	if rec.FarmID != farmID {
		return HealthRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *Service) ListByAnimal(ctx context.Context, farmID, animalID string) ([]HealthRecord, error) {
	if _, err := s.lookupAnimal(ctx, farmID, animalID); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

func (s *Service) ListByFarm(ctx context.Context, farmID string, filter ListFilter) ([]HealthRecord, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.ListByFarm(ctx, farmID, filter)
}

func (s *Service) ListFollowUps(ctx context.Context, farmID, recordID string) ([]FollowUp, error) {
	if _, err := s.Get(ctx, farmID, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListFollowUps(ctx, recordID)
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Type         *string
	RecordDate   *time.Time
	Description  *string
	Severity     *string
	Symptoms     *string
	Diagnosis    *string
	Treatment    *string
	Medication   *string
	Dosage       *string
	Veterinarian *string
	Cost         *float64
	NextDueDate  *time.Time
	IsResolved   *bool

	RootCheckupID *string
}

func (s *Service) Update(ctx context.Context, farmID, id string, in UpdateInput) (HealthRecord, error) {
	rec, err := s.Get(ctx, farmID, id)
	if err != nil {
		return HealthRecord{}, err
	}

	if in.Type != nil {
		t, ok := ParseRecordType(*in.Type)
		if !ok {
			return HealthRecord{}, fmt.Errorf("%w: unknown record type %q", ErrInvalidInput, *in.Type)
		}
		rec.Type = t
	}
	if in.Severity != nil {
		sev, ok := ParseSeverity(*in.Severity)
		if !ok {
			return HealthRecord{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, *in.Severity)
		}
		rec.Severity = sev
	}
	if in.RecordDate != nil && !in.RecordDate.IsZero() {
		rec.RecordDate = *in.RecordDate
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return HealthRecord{}, fmt.Errorf("%w: cost must be >= 0", ErrInvalidInput)
		}
		rec.Cost = in.Cost
	}
	if in.NextDueDate != nil {
		rec.NextDueDate = in.NextDueDate
	}

	setString(&rec.Description, in.Description)
	setString(&rec.Symptoms, in.Symptoms)
	setString(&rec.Diagnosis, in.Diagnosis)
	setString(&rec.Treatment, in.Treatment)
	setString(&rec.Medication, in.Medication)
	setString(&rec.Dosage, in.Dosage)
	setString(&rec.Veterinarian, in.Veterinarian)

	now := s.now()

	if in.IsResolved != nil && *in.IsResolved != rec.IsResolved {
		rec.IsResolved = *in.IsResolved
		if rec.IsResolved {
			rec.ResolvedDate = &now
		} else {
			rec.ResolvedDate = nil
		}
	}

	if in.RootCheckupID != nil {
		rec.RootCheckupID = strings.TrimSpace(*in.RootCheckupID)
		if err := s.checkRootCheckup(ctx, rec); err != nil {
			return HealthRecord{}, err
		}
	}

	rec.UpdatedAt = now
	if err := s.repo.Update(ctx, rec); err != nil {
		return HealthRecord{}, err
	}

	s.refreshAnimalStatusBestEffort(ctx, rec.AnimalID)
	return rec, nil
}

// Delete borra el registro, sus seguimientos (recursivo) y las relaciones.
// El orden es explícito: no se asume ON DELETE CASCADE en la tabla de relaciones.
func (s *Service) Delete(ctx context.Context, farmID, id string) error {
	rec, err := s.Get(ctx, farmID, id)
	if err != nil {
		return err
	}

	if err := s.deleteTree(ctx, rec.ID, map[string]struct{}{}); err != nil {
		return err
	}

	// Si el propio registro era seguimiento de otro, su relación también se va.
	if err := s.repo.DeleteFollowUpByRecord(ctx, rec.ID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rec.ID); err != nil {
		return err
	}

	s.refreshAnimalStatusBestEffort(ctx, rec.AnimalID)
	return nil
}

func (s *Service) deleteTree(ctx context.Context, originalID string, visited map[string]struct{}) error {
	if _, seen := visited[originalID]; seen {
		return ErrCycle
	}
	visited[originalID] = struct{}{}

	// 1) juntar ids de seguimientos antes de borrar nada
	fus, err := s.repo.ListFollowUps(ctx, originalID)
	if err != nil {
		return err
	}

	// 2) relaciones
	if err := s.repo.DeleteFollowUpsByOriginal(ctx, originalID); err != nil {
		return err
	}

	// 3) registros de seguimiento (y sus propios seguimientos)
	for _, fu := range fus {
		if err := s.deleteTree(ctx, fu.FollowUpRecordID, visited); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, fu.FollowUpRecordID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// checkRootCheckup: el chequeo raíz debe ser un checkup del mismo animal y granja,
// distinto del propio registro, y la cadena de ancestros no puede cerrar un ciclo.
func (s *Service) checkRootCheckup(ctx context.Context, rec HealthRecord) error {
	if rec.RootCheckupID == "" {
		return nil
	}
	if rec.RootCheckupID == rec.ID {
		return fmt.Errorf("%w: record cannot be its own root checkup", ErrInvalidInput)
	}

	root, err := s.repo.GetByID(ctx, rec.RootCheckupID)
	if err != nil || root.FarmID != rec.FarmID {
		return fmt.Errorf("%w: root checkup not found", ErrInvalidInput)
	}
	if root.Type != TypeCheckup {
		return fmt.Errorf("%w: root checkup must be a checkup record", ErrInvalidInput)
	}
	if root.AnimalID != rec.AnimalID {
		return fmt.Errorf("%w: root checkup belongs to another animal", ErrInvalidInput)
	}

	_, err = s.ancestors(ctx, rec)
	return err
}

// ancestors recorre RootCheckupID / OriginalRecordID en profundidad. Un ancestro
// compartido (chequeo raíz del original y del seguimiento) es válido; volver a un id
// del camino actual es un ciclo.
func (s *Service) ancestors(ctx context.Context, rec HealthRecord) ([]HealthRecord, error) {
	out := make([]HealthRecord, 0, 2)
	done := map[string]bool{}
	onPath := map[string]bool{rec.ID: true}

	var walk func(r HealthRecord) error
	walk = func(r HealthRecord) error {
		for _, id := range parentIDs(r) {
			if onPath[id] {
				return ErrCycle
			}
			if done[id] {
				continue
			}
			parent, err := s.repo.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					done[id] = true
					continue
				}
				return err
			}
			onPath[id] = true
			if err := walk(parent); err != nil {
				return err
			}
			onPath[id] = false
			done[id] = true
			out = append(out, parent)
		}
		return nil
	}

	if err := walk(rec); err != nil {
		return nil, err
	}
	return out, nil
}

func parentIDs(r HealthRecord) []string {
	ids := make([]string, 0, 2)
	if r.RootCheckupID != "" {
		ids = append(ids, r.RootCheckupID)
	}
	if r.OriginalRecordID != "" && r.OriginalRecordID != r.RootCheckupID {
		ids = append(ids, r.OriginalRecordID)
	}
	return ids
}

func (s *Service) lookupAnimal(ctx context.Context, farmID, animalID string) (AnimalRef, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" || s.animals == nil {
		return AnimalRef{}, ErrAnimalNotFound
	}
	a, err := s.animals.Lookup(ctx, animalID)
	if err != nil {
		return AnimalRef{}, err
	}
	if a.FarmID != farmID {
		return AnimalRef{}, ErrAnimalNotFound
	}
	return a, nil
}

// refreshAnimalStatus recalcula y persiste el estado sanitario; los fallos solo se loguean.
func (s *Service) refreshAnimalStatus(ctx context.Context, animalID string) (HealthStatus, error) {
	if s.determiner == nil || s.animals == nil {
		return "", nil
	}
	st, err := s.determiner.Determine(ctx, animalID)
	if err == nil {
		err = s.animals.SetHealthStatus(ctx, animalID, st)
	}
	if err != nil {
		s.log.Warn("animal health status refresh failed", map[string]any{
			"animal_id": animalID,
			"err":       err,
		})
		return "", err
	}
	return st, nil
}

// refreshAnimalStatusBestEffort: la escritura del registro ya quedó hecha; el fallo
// del recálculo queda logueado en refreshAnimalStatus y no se propaga.
func (s *Service) refreshAnimalStatusBestEffort(ctx context.Context, animalID string) {
	_, _ = s.refreshAnimalStatus(ctx, animalID)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
