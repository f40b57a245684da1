package animals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dairy-herd-manager/internal/domain/healthrecords"
	"dairy-herd-manager/internal/domain/lifecycle"
	"dairy-herd-manager/internal/domain/settings"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/ports/auth"
	"dairy-herd-manager/internal/ports/capabilities"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// SettingsProvider entrega el snapshot de configuración de la granja.
type SettingsProvider interface {
	Get(ctx context.Context, farmID string) (settings.FarmSettings, error)
}

// AutoRecorder crea el registro sanitario pendiente al registrar un animal con estado preocupante.
type AutoRecorder interface {
	CreateAutoGenerated(ctx context.Context, in healthrecords.AutoInput) (healthrecords.HealthRecord, bool, error)
}

type Deps struct {
	Settings     SettingsProvider
	Capabilities capabilities.CapabilitiesResolver
	AutoRecords  AutoRecorder
	Logger       logger.Logger
}

type Service struct {
	repo     Repository
	settings SettingsProvider
	caps     capabilities.CapabilitiesResolver
	auto     AutoRecorder
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		settings: deps.Settings,
		caps:     deps.Capabilities,
		auto:     deps.AutoRecords,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	TagNumber string
	Name      string
	Sex       string
	Breed     string
	BirthDate *time.Time
	Source    string

	ProductionStatus string
	// StatusOverride pide conservar un estado fuera del conjunto permitido (requiere capability).
	StatusOverride bool
	HealthStatus   string

	ExpectedCalvingDate *time.Time
	LastServiceDate     *time.Time
	LastCalvingDate     *time.Time

	DamID  string
	SireID string

	PurchaseDate  *time.Time
	PurchasePrice *float64
	WeightKg      *float64

	Notes string
}

type CreateResult struct {
	Animal           Animal
	Derived          *lifecycle.Result
	AutoHealthRecord *healthrecords.HealthRecord
	Warnings         []string
}

func (s *Service) Create(ctx context.Context, actor auth.Claims, in CreateInput) (CreateResult, error) {
	farmID := strings.TrimSpace(actor.FarmID)
	if farmID == "" {
		return CreateResult{}, ErrInvalidInput
	}

	sex, ok := lifecycle.ParseSex(in.Sex)
	if !ok {
		return CreateResult{}, fmt.Errorf("%w: sex must be male or female", ErrInvalidInput)
	}
	src := Source(strings.ToLower(strings.TrimSpace(in.Source)))
	if src != SourceNewbornCalf && src != SourcePurchased {
		return CreateResult{}, fmt.Errorf("%w: source must be newborn_calf or purchased_animal", ErrInvalidInput)
	}

	now := s.now()
	if err := checkNotFuture(in.BirthDate, now, "birth_date"); err != nil {
		return CreateResult{}, err
	}
	if src == SourceNewbornCalf && in.BirthDate == nil {
		return CreateResult{}, fmt.Errorf("%w: newborn calves require birth_date", ErrInvalidInput)
	}
	if err := checkNonNegative(in.PurchasePrice, "purchase_price"); err != nil {
		return CreateResult{}, err
	}
	if err := checkNonNegative(in.WeightKg, "weight_kg"); err != nil {
		return CreateResult{}, err
	}

	health := healthrecords.HealthHealthy
	if strings.TrimSpace(in.HealthStatus) != "" {
		h, ok := healthrecords.ParseHealthStatus(in.HealthStatus)
		if !ok {
			return CreateResult{}, fmt.Errorf("%w: unknown health status %q", ErrInvalidInput, in.HealthStatus)
		}
		health = h
	}

	// Un solo snapshot de configuración por request.
	fs, err := s.farmSettings(ctx, farmID)
	if err != nil {
		return CreateResult{}, err
	}

	status, overridden, derived, err := s.resolveStatus(ctx, actor, statusInput{
		Sex:        sex,
		BirthDate:  in.BirthDate,
		Requested:  in.ProductionStatus,
		Override:   in.StatusOverride,
		Categories: fs.Breeding.AgeCategories,
		AsOf:       now,
	})
	if err != nil {
		return CreateResult{}, err
	}

	a := Animal{
		ID:                  uuid.NewString(),
		FarmID:              farmID,
		Name:                strings.TrimSpace(in.Name),
		Sex:                 sex,
		Breed:               strings.TrimSpace(in.Breed),
		BirthDate:           in.BirthDate,
		Source:              src,
		ProductionStatus:    status,
		HealthStatus:        health,
		StatusOverridden:    overridden,
		ExpectedCalvingDate: in.ExpectedCalvingDate,
		LastServiceDate:     in.LastServiceDate,
		LastCalvingDate:     in.LastCalvingDate,
		DamID:               strings.TrimSpace(in.DamID),
		SireID:              strings.TrimSpace(in.SireID),
		PurchaseDate:        in.PurchaseDate,
		PurchasePrice:       in.PurchasePrice,
		WeightKg:            in.WeightKg,
		Notes:               strings.TrimSpace(in.Notes),
		Lifecycle:           LifecycleActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	// Servida con fecha de servicio conocida: el parto esperado sale de la gestación configurada.
	if a.ProductionStatus == lifecycle.StatusServed && a.ExpectedCalvingDate == nil && a.LastServiceDate != nil {
		ec := lifecycle.ExpectedCalving(*a.LastServiceDate, fs.Breeding.GestationDays)
		a.ExpectedCalvingDate = &ec
	}
	if err := checkBreedingFields(a); err != nil {
		return CreateResult{}, err
	}
	if err := s.checkParents(ctx, a); err != nil {
		return CreateResult{}, err
	}

	tag := normalizeTag(in.TagNumber)
	if tag == "" {
		tag, err = s.generateTag(ctx, farmID, fs.Tagging)
		if err != nil {
			return CreateResult{}, err
		}
	} else {
		exists, err := s.repo.TagExists(ctx, farmID, tag)
		if err != nil {
			return CreateResult{}, err
		}
		if exists {
			return CreateResult{}, fmt.Errorf("%w: tag %s already in use", ErrConflict, tag)
		}
	}
	a.TagNumber = tag

	if err := s.repo.Create(ctx, a); err != nil {
		return CreateResult{}, err
	}

	res := CreateResult{Animal: a, Derived: derived}

	if health.Concerning() && s.auto != nil {
		rec, created, err := s.auto.CreateAutoGenerated(ctx, healthrecords.AutoInput{
			FarmID:       a.FarmID,
			AnimalID:     a.ID,
			AnimalName:   a.Name,
			TagNumber:    a.TagNumber,
			HealthStatus: health,
			RecordDate:   now,
		})
		switch {
		case err != nil:
			// El animal ya está creado: se informa, no se revierte.
			s.log.Error("auto health record failed", map[string]any{"animal_id": a.ID, "err": err})
			res.Warnings = append(res.Warnings, "auto-generated health record could not be created")
		case created:
			res.AutoHealthRecord = &rec
		}
	}

	return res, nil
}

func (s *Service) Get(ctx context.Context, farmID, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.FarmID != farmID {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, farmID string, filter ListFilter) ([]Animal, error) {
	filter.Q = strings.TrimSpace(filter.Q)
	return s.repo.List(ctx, farmID, filter)
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	TagNumber *string
	Name      *string
	Sex       *string
	Breed     *string
	BirthDate *time.Time

	ProductionStatus *string
	StatusOverride   bool
	HealthStatus     *string

	ExpectedCalvingDate *time.Time
	DamID               *string
	SireID              *string
	PurchaseDate        *time.Time
	PurchasePrice       *float64
	WeightKg            *float64
	Notes               *string
}

// Update aplica cambios parciales. Si cambia la fecha de nacimiento o el sexo el estado
// productivo se vuelve a derivar y se reconcilia contra el nuevo conjunto permitido.
func (s *Service) Update(ctx context.Context, actor auth.Claims, id string, in UpdateInput) (Animal, *lifecycle.Result, error) {
	a, err := s.Get(ctx, actor.FarmID, id)
	if err != nil {
		return Animal{}, nil, err
	}
	if a.Lifecycle == LifecycleReleased {
		return Animal{}, nil, fmt.Errorf("%w: animal was released", ErrConflict)
	}

	now := s.now()
	rederive := false

	if in.Sex != nil {
		sex, ok := lifecycle.ParseSex(*in.Sex)
		if !ok {
			return Animal{}, nil, fmt.Errorf("%w: sex must be male or female", ErrInvalidInput)
		}
		rederive = rederive || sex != a.Sex
		a.Sex = sex
	}
	if in.BirthDate != nil {
		if err := checkNotFuture(in.BirthDate, now, "birth_date"); err != nil {
			return Animal{}, nil, err
		}
		rederive = rederive || a.BirthDate == nil || !a.BirthDate.Equal(*in.BirthDate)
		a.BirthDate = in.BirthDate
	}
	if in.HealthStatus != nil {
		h, ok := healthrecords.ParseHealthStatus(*in.HealthStatus)
		if !ok {
			return Animal{}, nil, fmt.Errorf("%w: unknown health status %q", ErrInvalidInput, *in.HealthStatus)
		}
		a.HealthStatus = h
	}
	if err := checkNonNegative(in.PurchasePrice, "purchase_price"); err != nil {
		return Animal{}, nil, err
	}
	if err := checkNonNegative(in.WeightKg, "weight_kg"); err != nil {
		return Animal{}, nil, err
	}

	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil {
		a.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.ExpectedCalvingDate != nil {
		a.ExpectedCalvingDate = in.ExpectedCalvingDate
	}
	if in.PurchaseDate != nil {
		a.PurchaseDate = in.PurchaseDate
	}
	if in.PurchasePrice != nil {
		a.PurchasePrice = in.PurchasePrice
	}
	if in.WeightKg != nil {
		a.WeightKg = in.WeightKg
	}
	if in.DamID != nil {
		a.DamID = strings.TrimSpace(*in.DamID)
	}
	if in.SireID != nil {
		a.SireID = strings.TrimSpace(*in.SireID)
	}

	var derived *lifecycle.Result
	if rederive || in.ProductionStatus != nil {
		fs, err := s.farmSettings(ctx, a.FarmID)
		if err != nil {
			return Animal{}, nil, err
		}
		requested := ""
		if in.ProductionStatus != nil {
			requested = *in.ProductionStatus
		}
		status, overridden, res, err := s.resolveStatus(ctx, actor, statusInput{
			Sex:        a.Sex,
			BirthDate:  a.BirthDate,
			Requested:  requested,
			Override:   in.StatusOverride,
			Current:    a.ProductionStatus,
			Categories: fs.Breeding.AgeCategories,
			AsOf:       now,
		})
		if err != nil {
			return Animal{}, nil, err
		}
		a.ProductionStatus = status
		a.StatusOverridden = overridden
		derived = res
	}

	if err := checkBreedingFields(a); err != nil {
		return Animal{}, nil, err
	}
	if err := s.checkParents(ctx, a); err != nil {
		return Animal{}, nil, err
	}

	if in.TagNumber != nil {
		tag := normalizeTag(*in.TagNumber)
		if tag == "" {
			return Animal{}, nil, fmt.Errorf("%w: tag_number cannot be empty", ErrInvalidInput)
		}
		if tag != a.TagNumber {
			exists, err := s.repo.TagExists(ctx, a.FarmID, tag)
			if err != nil {
				return Animal{}, nil, err
			}
			if exists {
				return Animal{}, nil, fmt.Errorf("%w: tag %s already in use", ErrConflict, tag)
			}
			a.TagNumber = tag
		}
	}

	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, nil, err
	}
	return a, derived, nil
}

type ReleaseInput struct {
	Reason      string
	ReleaseDate time.Time
	SalePrice   *float64
	BuyerName   string
	Notes       string
}

// Release da de baja al animal (sin borrarlo) y deja el registro de release.
func (s *Service) Release(ctx context.Context, actor auth.Claims, id string, in ReleaseInput) (Release, error) {
	if err := s.require(ctx, actor, capabilities.ReleaseAnimals); err != nil {
		return Release{}, err
	}

	a, err := s.Get(ctx, actor.FarmID, id)
	if err != nil {
		return Release{}, err
	}
	if a.Lifecycle == LifecycleReleased {
		return Release{}, fmt.Errorf("%w: animal already released", ErrConflict)
	}

	reason := ReleaseReason(strings.ToLower(strings.TrimSpace(in.Reason)))
	switch reason {
	case ReleaseSold, ReleaseDied, ReleaseCulled, ReleaseDonated, ReleaseTransferred, ReleaseOther:
	default:
		return Release{}, fmt.Errorf("%w: unknown release reason %q", ErrInvalidInput, in.Reason)
	}
	if err := checkNonNegative(in.SalePrice, "sale_price"); err != nil {
		return Release{}, err
	}
	if reason != ReleaseSold && in.SalePrice != nil {
		return Release{}, fmt.Errorf("%w: sale_price only applies to sold animals", ErrInvalidInput)
	}

	now := s.now()
	date := in.ReleaseDate
	if date.IsZero() {
		date = now
	}
	if err := checkNotFuture(&date, now, "release_date"); err != nil {
		return Release{}, err
	}

	rel := Release{
		ID:          uuid.NewString(),
		FarmID:      a.FarmID,
		AnimalID:    a.ID,
		Reason:      reason,
		ReleaseDate: date,
		SalePrice:   in.SalePrice,
		BuyerName:   strings.TrimSpace(in.BuyerName),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
	}
	if err := s.repo.CreateRelease(ctx, rel); err != nil {
		return Release{}, err
	}

	a.Lifecycle = LifecycleReleased
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Release{}, err
	}
	return rel, nil
}

func (s *Service) ListReleases(ctx context.Context, farmID string) ([]Release, error) {
	return s.repo.ListReleases(ctx, farmID)
}

// CalculateStatus expone el deriver (con las categorías de la granja) sin persistir nada.
func (s *Service) CalculateStatus(ctx context.Context, farmID string, birthDate time.Time, rawSex string) (lifecycle.Result, error) {
	sex, ok := lifecycle.ParseSex(rawSex)
	if !ok {
		return lifecycle.Result{}, fmt.Errorf("%w: sex must be male or female", ErrInvalidInput)
	}
	now := s.now()
	if birthDate.IsZero() {
		return lifecycle.Result{}, fmt.Errorf("%w: birth_date is required", ErrInvalidInput)
	}
	if err := checkNotFuture(&birthDate, now, "birth_date"); err != nil {
		return lifecycle.Result{}, err
	}
	fs, err := s.farmSettings(ctx, farmID)
	if err != nil {
		return lifecycle.Result{}, err
	}
	return lifecycle.Derive(birthDate, sex, now, fs.Breeding.AgeCategories), nil
}

type statusInput struct {
	Sex        lifecycle.Sex
	BirthDate  *time.Time
	Requested  string
	Override   bool
	Current    lifecycle.Status
	Categories []lifecycle.AgeCategory
	AsOf       time.Time
}

// resolveStatus decide el estado productivo a persistir.
//   - Sin fecha de nacimiento no hay derivación: el estado es obligatorio y explícito.
//   - Con fecha: un estado pedido dentro del conjunto permitido se respeta; fuera de él
//     se reemplaza por el derivado salvo override autorizado.
func (s *Service) resolveStatus(ctx context.Context, actor auth.Claims, in statusInput) (lifecycle.Status, bool, *lifecycle.Result, error) {
	var requested lifecycle.Status
	if strings.TrimSpace(in.Requested) != "" {
		st, ok := lifecycle.ParseStatus(in.Requested)
		if !ok {
			return "", false, nil, fmt.Errorf("%w: unknown production status %q", ErrInvalidInput, in.Requested)
		}
		requested = st
	}

	if in.BirthDate == nil {
		st := requested
		if st == "" {
			st = in.Current
		}
		if st == "" {
			return "", false, nil, fmt.Errorf("%w: production_status is required when birth_date is unknown", ErrInvalidInput)
		}
		if !compatibleWithSex(st, in.Sex) {
			return "", false, nil, fmt.Errorf("%w: status %s is not valid for a %s animal", ErrInvalidInput, st, in.Sex)
		}
		return st, false, nil, nil
	}

	res := lifecycle.Derive(*in.BirthDate, in.Sex, in.AsOf, in.Categories)

	switch {
	case requested == "":
		return lifecycle.Reconcile(in.Current, res), false, &res, nil
	case res.Allowed.Has(requested):
		return requested, false, &res, nil
	case in.Override:
		if !compatibleWithSex(requested, in.Sex) {
			return "", false, nil, fmt.Errorf("%w: status %s is not valid for a %s animal", ErrInvalidInput, requested, in.Sex)
		}
		if err := s.require(ctx, actor, capabilities.OverrideProductionStatus); err != nil {
			return "", false, nil, err
		}
		return requested, true, &res, nil
	default:
		return res.Status, false, &res, nil
	}
}

func (s *Service) require(ctx context.Context, actor auth.Claims, c capabilities.Capability) error {
	if s.caps == nil {
		return ErrForbidden
	}
	ok, err := s.caps.Has(ctx, actor, c)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: missing capability %s", ErrForbidden, c)
	}
	return nil
}

func (s *Service) farmSettings(ctx context.Context, farmID string) (settings.FarmSettings, error) {
	if s.settings == nil {
		return settings.Defaults(farmID), nil
	}
	return s.settings.Get(ctx, farmID)
}

func (s *Service) checkParents(ctx context.Context, a Animal) error {
	if a.DamID != "" {
		dam, err := s.Get(ctx, a.FarmID, a.DamID)
		if err != nil || dam.Sex != lifecycle.SexFemale || dam.ID == a.ID {
			return fmt.Errorf("%w: dam must be a female animal of the farm", ErrInvalidInput)
		}
	}
	if a.SireID != "" {
		sire, err := s.Get(ctx, a.FarmID, a.SireID)
		if err != nil || sire.Sex != lifecycle.SexMale || sire.ID == a.ID {
			return fmt.Errorf("%w: sire must be a male animal of the farm", ErrInvalidInput)
		}
	}
	return nil
}

// checkBreedingFields: dry exige fecha de parto esperada.
func checkBreedingFields(a Animal) error {
	if a.ProductionStatus == lifecycle.StatusDry && a.ExpectedCalvingDate == nil {
		return fmt.Errorf("%w: dry status requires expected_calving_date", ErrInvalidInput)
	}
	return nil
}

func compatibleWithSex(st lifecycle.Status, sex lifecycle.Sex) bool {
	if sex == lifecycle.SexMale {
		return st == lifecycle.StatusCalf || st == lifecycle.StatusBull
	}
	return st != lifecycle.StatusBull
}

func checkNotFuture(t *time.Time, now time.Time, field string) error {
	if t == nil {
		return nil
	}
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.UTC().After(today.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
		return fmt.Errorf("%w: %s cannot be in the future", ErrInvalidInput, field)
	}
	return nil
}

func checkNonNegative(v *float64, field string) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%w: %s must be >= 0", ErrInvalidInput, field)
	}
	return nil
}

func normalizeTag(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
