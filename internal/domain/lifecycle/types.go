package lifecycle

import "strings"

// Sex del animal. Solo dos valores: el registro de ganado no admite "unknown".
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// ParseSex normaliza el valor que llega desde la UI ("Female", " male ").
func ParseSex(raw string) (Sex, bool) {
	s := Sex(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Status es la etapa productiva / reproductiva del animal.
type Status string

const (
	StatusCalf      Status = "calf"
	StatusHeifer    Status = "heifer"
	StatusServed    Status = "served"
	StatusLactating Status = "lactating"
	StatusDry       Status = "dry"
	StatusBull      Status = "bull"
)

var allStatuses = []Status{
	StatusCalf,
	StatusHeifer,
	StatusServed,
	StatusLactating,
	StatusDry,
	StatusBull,
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// FemaleOnly indica estados que solo tienen sentido en hembras.
func (s Status) FemaleOnly() bool {
	switch s {
	case StatusHeifer, StatusServed, StatusLactating, StatusDry:
		return true
	}
	return false
}

// StatusSet es un conjunto ordenado (orden canónico de allStatuses) de estados.
type StatusSet map[Status]struct{}

func NewStatusSet(values ...Status) StatusSet {
	set := make(StatusSet, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func (s StatusSet) Has(v Status) bool {
	_, ok := s[v]
	return ok
}

func (s StatusSet) Union(other StatusSet) StatusSet {
	out := make(StatusSet, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Slice devuelve los estados en orden canónico (salida estable para JSON y tests).
func (s StatusSet) Slice() []Status {
	out := make([]Status, 0, len(s))
	for _, v := range allStatuses {
		if _, ok := s[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// AgeCategory es una categoría de edad definida por la granja.
// El rango es inclusivo en ambos extremos: [MinMonths, MaxMonths].
type AgeCategory struct {
	Name            string   `json:"name"`
	MinMonths       int      `json:"min_months"`
	MaxMonths       int      `json:"max_months"`
	Status          Status   `json:"status"`
	AllowedStatuses []Status `json:"allowed_statuses"`
}

func (c AgeCategory) Contains(ageMonths int) bool {
	return ageMonths >= c.MinMonths && ageMonths <= c.MaxMonths
}
