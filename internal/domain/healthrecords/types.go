package healthrecords

import "strings"

var recordTypes = []RecordType{
	TypeVaccination,
	TypeTreatment,
	TypeCheckup,
	TypeInjury,
	TypeIllness,
	TypeReproductive,
	TypeDeworming,
}

func ParseRecordType(raw string) (RecordType, bool) {
	t := RecordType(strings.ToLower(strings.TrimSpace(raw)))
	for _, v := range recordTypes {
		if v == t {
			return t, true
		}
	}
	return "", false
}

// Concerning indica los tipos que cuentan para el estado sanitario agregado.
func (t RecordType) Concerning() bool {
	return t == TypeIllness || t == TypeInjury || t == TypeTreatment
}

func ParseSeverity(raw string) (Severity, bool) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "", SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return s, true
	}
	return "", false
}

func ParseHealthStatus(raw string) (HealthStatus, bool) {
	s := HealthStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case HealthHealthy, HealthSick, HealthRequiresAttention, HealthQuarantined:
		return s, true
	}
	return "", false
}

// Concerning: estados que disparan el registro auto-generado al dar de alta un animal.
func (s HealthStatus) Concerning() bool {
	return s == HealthSick || s == HealthRequiresAttention || s == HealthQuarantined
}

func ParseFollowUpStatus(raw string) (FollowUpStatus, bool) {
	s := FollowUpStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case FollowUpImproving, FollowUpStable, FollowUpWorsening, FollowUpRecovered, FollowUpRequiresAttention:
		return s, true
	}
	return "", false
}

func ParseEffectiveness(raw string) (Effectiveness, bool) {
	e := Effectiveness(strings.ToLower(strings.TrimSpace(raw)))
	switch e {
	case "", VeryEffective, Effective, SomewhatEffective, NotEffective:
		return e, true
	}
	return "", false
}

// autoRecordMapping: estado sanitario al registrar -> (tipo, severidad) del registro auto-generado.
var autoRecordMapping = map[HealthStatus]struct {
	Type     RecordType
	Severity Severity
}{
	HealthSick:              {TypeIllness, SeverityMedium},
	HealthRequiresAttention: {TypeCheckup, SeverityLow},
	HealthQuarantined:       {TypeIllness, SeverityHigh},
}
