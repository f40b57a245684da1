package settings

import (
	"fmt"
	"sort"
	"strings"

	"dairy-herd-manager/internal/domain/lifecycle"
)

func validateBreeding(b Breeding) error {
	if b.GestationDays <= 0 || b.GestationDays > 400 {
		return fmt.Errorf("%w: gestation_days must be between 1 and 400", ErrInvalidInput)
	}
	if b.DryPeriodDays <= 0 || b.DryPeriodDays >= b.GestationDays {
		return fmt.Errorf("%w: dry_period_days must be positive and shorter than gestation", ErrInvalidInput)
	}
	if b.VoluntaryWaitingDays < 0 {
		return fmt.Errorf("%w: voluntary_waiting_days must be >= 0", ErrInvalidInput)
	}
	if b.HeatCycleDays <= 0 {
		return fmt.Errorf("%w: heat_cycle_days must be positive", ErrInvalidInput)
	}
	return validateCategories(b.AgeCategories)
}

// validateCategories: rangos no negativos, min <= max, estados válidos de hembra
// y sin solapamientos (el deriver toma la primera que contiene la edad).
func validateCategories(cats []lifecycle.AgeCategory) error {
	sorted := make([]lifecycle.AgeCategory, len(cats))
	copy(sorted, cats)

	for _, c := range sorted {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: age category name is required", ErrInvalidInput)
		}
		if c.MinMonths < 0 || c.MaxMonths < c.MinMonths {
			return fmt.Errorf("%w: age category %q has an invalid range", ErrInvalidInput, c.Name)
		}
		if !c.Status.Valid() || c.Status == lifecycle.StatusBull {
			return fmt.Errorf("%w: age category %q has an invalid status %q", ErrInvalidInput, c.Name, c.Status)
		}
		for _, s := range c.AllowedStatuses {
			if !s.Valid() || s == lifecycle.StatusBull {
				return fmt.Errorf("%w: age category %q allows invalid status %q", ErrInvalidInput, c.Name, s)
			}
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinMonths < sorted[j].MinMonths })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.MinMonths <= prev.MaxMonths {
			return fmt.Errorf("%w: age categories %q and %q overlap", ErrInvalidInput, prev.Name, cur.Name)
		}
	}
	return nil
}

func validateHealth(h Health) error {
	if h.VaccinationIntervalDays < 0 || h.DewormingIntervalDays < 0 || h.FollowUpIntervalDays < 0 {
		return fmt.Errorf("%w: intervals must be >= 0", ErrInvalidInput)
	}
	return nil
}

func validateFinancial(f Financial) error {
	if len(f.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}
	if f.DefaultMilkPricePerLiter < 0 {
		return fmt.Errorf("%w: default_milk_price_per_liter must be >= 0", ErrInvalidInput)
	}
	for _, b := range f.Buyers {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("%w: buyer name is required", ErrInvalidInput)
		}
		if b.PricePerLiter < 0 {
			return fmt.Errorf("%w: buyer %q price_per_liter must be >= 0", ErrInvalidInput, b.Name)
		}
	}
	return nil
}

func validateTagging(t Tagging) error {
	if t.Prefix == "" {
		return fmt.Errorf("%w: tag prefix is required", ErrInvalidInput)
	}
	for _, r := range t.Prefix {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("%w: tag prefix must be alphanumeric", ErrInvalidInput)
		}
	}
	if t.Padding < 1 || t.Padding > 8 {
		return fmt.Errorf("%w: padding must be between 1 and 8", ErrInvalidInput)
	}
	return nil
}
