package animals

import (
	"context"
	"fmt"
	"time"

	"dairy-herd-manager/internal/domain/lifecycle"
	"dairy-herd-manager/internal/domain/settings"
)

// RecordService registra un servicio (inseminación/monta): pasa a served y calcula
// el parto esperado con la gestación configurada.
func (s *Service) RecordService(ctx context.Context, farmID, id string, date time.Time) (Animal, error) {
	return s.breedingEvent(ctx, farmID, id, date, func(a *Animal, fs settings.FarmSettings, date time.Time) error {
		if a.ProductionStatus == lifecycle.StatusCalf {
			return fmt.Errorf("%w: calves cannot be served", ErrInvalidInput)
		}
		ec := lifecycle.ExpectedCalving(date, fs.Breeding.GestationDays)
		a.ProductionStatus = lifecycle.StatusServed
		a.LastServiceDate = &date
		a.ExpectedCalvingDate = &ec
		return nil
	})
}

// RecordCalving registra un parto: pasa a lactating y limpia el parto esperado.
func (s *Service) RecordCalving(ctx context.Context, farmID, id string, date time.Time) (Animal, error) {
	return s.breedingEvent(ctx, farmID, id, date, func(a *Animal, _ settings.FarmSettings, date time.Time) error {
		a.ProductionStatus = lifecycle.StatusLactating
		a.LastCalvingDate = &date
		a.ExpectedCalvingDate = nil
		return nil
	})
}

// DryOff seca a la vaca. Exige parto esperado.
func (s *Service) DryOff(ctx context.Context, farmID, id string, date time.Time) (Animal, error) {
	return s.breedingEvent(ctx, farmID, id, date, func(a *Animal, _ settings.FarmSettings, _ time.Time) error {
		if a.ExpectedCalvingDate == nil {
			return fmt.Errorf("%w: dry status requires expected_calving_date", ErrInvalidInput)
		}
		a.ProductionStatus = lifecycle.StatusDry
		return nil
	})
}

func (s *Service) breedingEvent(ctx context.Context, farmID, id string, date time.Time, apply func(*Animal, settings.FarmSettings, time.Time) error) (Animal, error) {
	a, err := s.Get(ctx, farmID, id)
	if err != nil {
		return Animal{}, err
	}
	if a.Lifecycle == LifecycleReleased {
		return Animal{}, fmt.Errorf("%w: animal was released", ErrConflict)
	}
	if a.Sex != lifecycle.SexFemale {
		return Animal{}, fmt.Errorf("%w: breeding events only apply to females", ErrInvalidInput)
	}

	now := s.now()
	if date.IsZero() {
		date = now
	}
	if err := checkNotFuture(&date, now, "date"); err != nil {
		return Animal{}, err
	}

	fs, err := s.farmSettings(ctx, farmID)
	if err != nil {
		return Animal{}, err
	}

	// El estado guardado puede haber quedado viejo (ternera que ya creció): se
	// reconcilia con la edad actual antes de aplicar el evento.
	derived := a.BirthDate != nil && !a.StatusOverridden
	var res lifecycle.Result
	if derived {
		res = lifecycle.Derive(*a.BirthDate, a.Sex, now, fs.Breeding.AgeCategories)
		a.ProductionStatus = lifecycle.Reconcile(a.ProductionStatus, res)
	}
	if err := apply(&a, fs, date); err != nil {
		return Animal{}, err
	}

	// El evento no puede dejar al animal fuera de su conjunto permitido.
	if derived {
		if !res.Allowed.Has(a.ProductionStatus) {
			return Animal{}, fmt.Errorf("%w: status %s not allowed at %d months", ErrInvalidInput, a.ProductionStatus, res.AgeMonths)
		}
	}

	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// BreedingSchedule resume fechas reproductivas a hoy con la configuración de la granja.
func (s *Service) BreedingSchedule(ctx context.Context, farmID, id string) (lifecycle.Schedule, error) {
	a, err := s.Get(ctx, farmID, id)
	if err != nil {
		return lifecycle.Schedule{}, err
	}
	if a.Sex != lifecycle.SexFemale {
		return lifecycle.Schedule{}, fmt.Errorf("%w: breeding schedule only applies to females", ErrInvalidInput)
	}
	fs, err := s.farmSettings(ctx, farmID)
	if err != nil {
		return lifecycle.Schedule{}, err
	}
	return lifecycle.BuildSchedule(lifecycle.ScheduleInput{
		ExpectedCalvingDate: a.ExpectedCalvingDate,
		LastCalvingDate:     a.LastCalvingDate,
		DryPeriodDays:       fs.Breeding.DryPeriodDays,
		WaitingDays:         fs.Breeding.VoluntaryWaitingDays,
	}, s.now()), nil
}
