package settings

import (
	"time"

	"dairy-herd-manager/internal/domain/lifecycle"
)

// Section es cada bloque de configuración; se sobrescribe completo.
// @Enum breeding, health, financial, tagging
type Section string

const (
	SectionBreeding  Section = "breeding"
	SectionHealth    Section = "health"
	SectionFinancial Section = "financial"
	SectionTagging   Section = "tagging"
)

type Breeding struct {
	GestationDays        int                     `json:"gestation_days"`
	DryPeriodDays        int                     `json:"dry_period_days"`
	VoluntaryWaitingDays int                     `json:"voluntary_waiting_days"`
	HeatCycleDays        int                     `json:"heat_cycle_days"`
	AgeCategories        []lifecycle.AgeCategory `json:"age_categories"`
}

type Health struct {
	VaccinationIntervalDays int    `json:"vaccination_interval_days"`
	DewormingIntervalDays   int    `json:"deworming_interval_days"`
	FollowUpIntervalDays    int    `json:"follow_up_interval_days"`
	DefaultVeterinarian     string `json:"default_veterinarian"`
	VeterinarianPhone       string `json:"veterinarian_phone"`
}

type Buyer struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	PricePerLiter float64 `json:"price_per_liter"`
	PaymentTerms  string  `json:"payment_terms"`
}

type Financial struct {
	Currency                 string  `json:"currency"`
	DefaultMilkPricePerLiter float64 `json:"default_milk_price_per_liter"`
	Buyers                   []Buyer `json:"buyers"`
}

// Tagging define el formato de caravana: PREFIX-YYYY-0001 o PREFIX-0001.
type Tagging struct {
	Prefix      string `json:"prefix"`
	IncludeYear bool   `json:"include_year"`
	Padding     int    `json:"padding"`
}

// FarmSettings es un snapshot inmutable por request: los servicios lo cargan una vez
// y lo pasan explícito (deriver, calendario reproductivo, caravanas).
type FarmSettings struct {
	FarmID    string    `json:"farm_id"`
	Breeding  Breeding  `json:"breeding"`
	Health    Health    `json:"health"`
	Financial Financial `json:"financial"`
	Tagging   Tagging   `json:"tagging"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Defaults(farmID string) FarmSettings {
	return FarmSettings{
		FarmID: farmID,
		Breeding: Breeding{
			GestationDays:        lifecycle.DefaultGestationDays,
			DryPeriodDays:        lifecycle.DefaultDryPeriodDays,
			VoluntaryWaitingDays: lifecycle.DefaultWaitingDays,
			HeatCycleDays:        lifecycle.DefaultHeatCycleDays,
			AgeCategories:        []lifecycle.AgeCategory{},
		},
		Health: Health{
			VaccinationIntervalDays: 180,
			DewormingIntervalDays:   90,
			FollowUpIntervalDays:    7,
		},
		Financial: Financial{
			Currency: "USD",
			Buyers:   []Buyer{},
		},
		Tagging: Tagging{
			Prefix:      "COW",
			IncludeYear: true,
			Padding:     4,
		},
	}
}

// Clone copia los slices para que nadie mute el snapshot compartido (p.ej. el del cache).
func (s FarmSettings) Clone() FarmSettings {
	out := s
	out.Breeding.AgeCategories = make([]lifecycle.AgeCategory, 0, len(s.Breeding.AgeCategories))
	for _, c := range s.Breeding.AgeCategories {
		c.AllowedStatuses = append([]lifecycle.Status(nil), c.AllowedStatuses...)
		out.Breeding.AgeCategories = append(out.Breeding.AgeCategories, c)
	}
	out.Financial.Buyers = append([]Buyer{}, s.Financial.Buyers...)
	return out
}
