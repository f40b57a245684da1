package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCascade(t *testing.T) {
	m := New()

	m.ObserveCascade(OutcomeResolved, 3)
	m.ObserveCascade(OutcomeRolledBack, 0)

	if got := testutil.ToFloat64(m.CascadeOutcomes.WithLabelValues(OutcomeResolved)); got != 1 {
		t.Fatalf("expected 1 resolved cascade, got %v", got)
	}
	if got := testutil.ToFloat64(m.ResolvedRecords); got != 3 {
		t.Fatalf("expected 3 resolved records, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCascade(OutcomePartial, 1)
	m.ObserveAutoHealthRecord()
}
