package lifecycle

import "time"

const (
	DefaultGestationDays = 283
	DefaultDryPeriodDays = 60
	DefaultWaitingDays   = 45
	DefaultHeatCycleDays = 21
)

// ExpectedCalving = fecha de servicio + días de gestación.
func ExpectedCalving(serviceDate time.Time, gestationDays int) time.Time {
	if gestationDays <= 0 {
		gestationDays = DefaultGestationDays
	}
	return truncateDay(serviceDate).AddDate(0, 0, gestationDays)
}

// DryOffDate = parto esperado - período seco.
func DryOffDate(expectedCalving time.Time, dryPeriodDays int) time.Time {
	if dryPeriodDays <= 0 {
		dryPeriodDays = DefaultDryPeriodDays
	}
	return truncateDay(expectedCalving).AddDate(0, 0, -dryPeriodDays)
}

// Schedule resume el calendario reproductivo de una hembra a una fecha dada.
type Schedule struct {
	ExpectedCalvingDate *time.Time `json:"expected_calving_date,omitempty"`
	DryOffDate          *time.Time `json:"dry_off_date,omitempty"`
	DaysToCalving       *int       `json:"days_to_calving,omitempty"`
	ShouldBeDry         bool       `json:"should_be_dry"`

	// NextServiceFrom: primer día elegible para servicio tras el último parto.
	NextServiceFrom *time.Time `json:"next_service_from,omitempty"`
}

type ScheduleInput struct {
	ExpectedCalvingDate *time.Time
	LastCalvingDate     *time.Time
	DryPeriodDays       int
	WaitingDays         int
}

func BuildSchedule(in ScheduleInput, asOf time.Time) Schedule {
	var out Schedule

	if in.ExpectedCalvingDate != nil {
		ec := truncateDay(*in.ExpectedCalvingDate)
		dry := DryOffDate(ec, in.DryPeriodDays)
		days := daysBetween(asOf, ec)

		out.ExpectedCalvingDate = &ec
		out.DryOffDate = &dry
		out.DaysToCalving = &days
		out.ShouldBeDry = !truncateDay(asOf).Before(dry) && days >= 0
	}

	if in.LastCalvingDate != nil {
		waiting := in.WaitingDays
		if waiting <= 0 {
			waiting = DefaultWaitingDays
		}
		next := truncateDay(*in.LastCalvingDate).AddDate(0, 0, waiting)
		out.NextServiceFrom = &next
	}

	return out
}
