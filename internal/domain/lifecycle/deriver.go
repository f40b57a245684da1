package lifecycle

import "time"

const (
	// Aproximación de 30 días por mes. No es exacta en calendario y así se acepta.
	daysPerMonth = 30

	heiferFromMonths = 6
	adultFromMonths  = 15
)

// Result es la salida del derivador de estado productivo.
type Result struct {
	Status      Status
	Allowed     StatusSet
	Overridable bool
	AgeMonths   int

	// Category es el nombre de la categoría de granja aplicada (vacío = política por defecto).
	Category string
}

// AgeInMonths = floor(días / 30). Ambas fechas se truncan al día calendario UTC;
// una fecha de nacimiento futura cuenta como edad 0.
func AgeInMonths(birthDate, asOf time.Time) int {
	days := daysBetween(birthDate, asOf)
	if days < 0 {
		return 0
	}
	return days / daysPerMonth
}

func daysBetween(from, to time.Time) int {
	f := truncateDay(from)
	t := truncateDay(to)
	return int(t.Sub(f).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Derive calcula el estado productivo por defecto y el conjunto de estados permitidos
// para un animal a partir de su edad y sexo.
//
// Las categorías de la granja solo aplican a hembras. La primera categoría cuyo rango
// contiene la edad define el estado; los permitidos son la unión de la política por
// defecto, los declarados por la categoría y el propio estado de la categoría.
func Derive(birthDate time.Time, sex Sex, asOf time.Time, categories []AgeCategory) Result {
	age := AgeInMonths(birthDate, asOf)
	res := defaultPolicy(age, sex)

	if sex != SexFemale {
		return res
	}

	for _, c := range categories {
		if !c.Contains(age) || !c.Status.Valid() || c.Status == StatusBull {
			continue
		}
		extra := NewStatusSet(c.Status)
		for _, s := range c.AllowedStatuses {
			if s.Valid() && s != StatusBull {
				extra[s] = struct{}{}
			}
		}
		res.Status = c.Status
		res.Allowed = res.Allowed.Union(extra)
		res.Overridable = true
		res.Category = c.Name
		return res
	}

	return res
}

func defaultPolicy(age int, sex Sex) Result {
	if age < heiferFromMonths {
		return Result{
			Status:    StatusCalf,
			Allowed:   NewStatusSet(StatusCalf),
			AgeMonths: age,
		}
	}

	if sex == SexMale {
		return Result{
			Status:    StatusBull,
			Allowed:   NewStatusSet(StatusBull),
			AgeMonths: age,
		}
	}

	if age < adultFromMonths {
		return Result{
			Status:      StatusHeifer,
			Allowed:     NewStatusSet(StatusHeifer, StatusServed),
			Overridable: true,
			AgeMonths:   age,
		}
	}

	return Result{
		Status:      StatusHeifer,
		Allowed:     NewStatusSet(StatusHeifer, StatusServed, StatusLactating, StatusDry),
		Overridable: true,
		AgeMonths:   age,
	}
}

// Reconcile conserva el estado actual si sigue siendo válido; si no, lo reemplaza
// por el estado derivado. Nunca deja un estado fuera del conjunto permitido.
func Reconcile(current Status, res Result) Status {
	if current != "" && res.Allowed.Has(current) {
		return current
	}
	return res.Status
}
