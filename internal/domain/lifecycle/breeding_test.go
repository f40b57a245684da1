package lifecycle

import (
	"testing"
	"time"
)

func TestExpectedCalvingAndDryOff(t *testing.T) {
	service := time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)

	ec := ExpectedCalving(service, 283)
	want := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	if !ec.Equal(want) {
		t.Fatalf("expected %s, got %s", want, ec)
	}

	dry := DryOffDate(ec, 60)
	wantDry := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	if !dry.Equal(wantDry) {
		t.Fatalf("expected %s, got %s", wantDry, dry)
	}

	if got := ExpectedCalving(service, 0); !got.Equal(ec) {
		t.Fatalf("zero gestation must fall back to default, got %s", got)
	}
}

func TestBuildSchedule(t *testing.T) {
	ec := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	before := BuildSchedule(ScheduleInput{ExpectedCalvingDate: &ec, DryPeriodDays: 60}, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	if before.ShouldBeDry {
		t.Fatalf("should not be dry before dry-off date")
	}
	if before.DaysToCalving == nil || *before.DaysToCalving != 80 {
		t.Fatalf("expected 80 days to calving, got %v", before.DaysToCalving)
	}

	after := BuildSchedule(ScheduleInput{ExpectedCalvingDate: &ec, DryPeriodDays: 60}, time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC))
	if !after.ShouldBeDry {
		t.Fatalf("expected should_be_dry on dry-off date")
	}

	calved := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s := BuildSchedule(ScheduleInput{LastCalvingDate: &calved}, calved)
	if s.NextServiceFrom == nil || !s.NextServiceFrom.Equal(calved.AddDate(0, 0, DefaultWaitingDays)) {
		t.Fatalf("unexpected next service date %v", s.NextServiceFrom)
	}
	if s.ExpectedCalvingDate != nil {
		t.Fatalf("no expected calving date without service")
	}
}
