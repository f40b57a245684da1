package animals

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"dairy-herd-manager/internal/domain/healthrecords"
	"dairy-herd-manager/internal/domain/lifecycle"
	"dairy-herd-manager/internal/domain/settings"
	"dairy-herd-manager/internal/ports/auth"
	"dairy-herd-manager/internal/ports/capabilities"
)

// -------------------------
// Test doubles (in-memory)
// -------------------------

type testRepo struct {
	byID     map[string]Animal
	releases []Release
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) List(ctx context.Context, farmID string, filter ListFilter) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.FarmID != farmID {
			continue
		}
		if filter.Lifecycle != "" && a.Lifecycle != filter.Lifecycle {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TagNumber < out[j].TagNumber })
	return out, nil
}

func (r *testRepo) TagExists(ctx context.Context, farmID, tag string) (bool, error) {
	for _, a := range r.byID {
		if a.FarmID == farmID && strings.EqualFold(a.TagNumber, tag) {
			return true, nil
		}
	}
	return false, nil
}

func (r *testRepo) ListTags(ctx context.Context, farmID, prefix string) ([]string, error) {
	out := make([]string, 0)
	for _, a := range r.byID {
		if a.FarmID == farmID && strings.HasPrefix(a.TagNumber, prefix) {
			out = append(out, a.TagNumber)
		}
	}
	return out, nil
}

func (r *testRepo) SetHealthStatus(ctx context.Context, id string, status HealthStatus, at time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.HealthStatus = status
	a.UpdatedAt = at
	r.byID[id] = a
	return nil
}

func (r *testRepo) CreateRelease(ctx context.Context, rel Release) error {
	r.releases = append(r.releases, rel)
	return nil
}

func (r *testRepo) ListReleases(ctx context.Context, farmID string) ([]Release, error) {
	out := make([]Release, 0)
	for _, rel := range r.releases {
		if rel.FarmID == farmID {
			out = append(out, rel)
		}
	}
	return out, nil
}

type allowCaps map[capabilities.Capability]bool

func (c allowCaps) Has(ctx context.Context, claims auth.Claims, capability capabilities.Capability) (bool, error) {
	return c[capability], nil
}

type testAuto struct {
	calls []healthrecords.AutoInput
	fail  bool
}

func (a *testAuto) CreateAutoGenerated(ctx context.Context, in healthrecords.AutoInput) (healthrecords.HealthRecord, bool, error) {
	a.calls = append(a.calls, in)
	if a.fail {
		return healthrecords.HealthRecord{}, false, errors.New("auto: write failed")
	}
	return healthrecords.HealthRecord{
		ID:              "auto-1",
		FarmID:          in.FarmID,
		AnimalID:        in.AnimalID,
		Type:            healthrecords.TypeIllness,
		Severity:        healthrecords.SeverityHigh,
		IsAutoGenerated: true,
	}, true, nil
}

type staticSettings struct{ fs settings.FarmSettings }

func (s staticSettings) Get(ctx context.Context, farmID string) (settings.FarmSettings, error) {
	out := s.fs.Clone()
	out.FarmID = farmID
	return out, nil
}

const farmA = "farm-a"

var (
	testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	owner   = auth.Claims{UserID: "u-1", FarmID: farmA, Role: "owner"}
)

func newTestService(t *testing.T, deps Deps) (*Service, *testRepo) {
	t.Helper()
	repo := newTestRepo()
	svc := NewService(repo, deps)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) Animal {
	t.Helper()
	res, err := svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return res.Animal
}

func adultCow() CreateInput {
	return CreateInput{
		Sex:       "female",
		Breed:     "Holstein",
		BirthDate: date(2023, 6, 1),
		Source:    "purchased_animal",
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DerivesStatusFromAge(t *testing.T) {
	svc, _ := newTestService(t, Deps{})

	res, err := svc.Create(context.Background(), owner, CreateInput{
		Sex:       "Female",
		BirthDate: date(2025, 5, 1), // 304 días => 10 meses
		Source:    "newborn_calf",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if res.Animal.ProductionStatus != lifecycle.StatusHeifer {
		t.Fatalf("expected heifer, got %s", res.Animal.ProductionStatus)
	}
	if res.Derived == nil || res.Derived.AgeMonths != 10 {
		t.Fatalf("expected derived age 10, got %+v", res.Derived)
	}
	if got := res.Derived.Allowed.Slice(); len(got) != 2 || got[0] != lifecycle.StatusHeifer || got[1] != lifecycle.StatusServed {
		t.Fatalf("unexpected allowed set: %v", got)
	}
	if res.Animal.HealthStatus != healthrecords.HealthHealthy {
		t.Fatalf("expected default healthy, got %s", res.Animal.HealthStatus)
	}
}

func TestCreate_StatusOutsideAllowedSetIsReplaced(t *testing.T) {
	svc, _ := newTestService(t, Deps{})

	in := CreateInput{
		Sex:              "female",
		BirthDate:        date(2026, 1, 1),
		Source:           "newborn_calf",
		ProductionStatus: "lactating",
	}
	a := mustCreate(t, svc, in)

	if a.ProductionStatus != lifecycle.StatusCalf {
		t.Fatalf("expected calf, got %s", a.ProductionStatus)
	}
	if a.StatusOverridden {
		t.Fatalf("status must not be flagged as overridden")
	}
}

func TestCreate_OverrideRequiresCapability(t *testing.T) {
	in := CreateInput{
		Sex:              "female",
		BirthDate:        date(2026, 1, 1),
		Source:           "newborn_calf",
		ProductionStatus: "lactating",
		StatusOverride:   true,
	}

	svc, _ := newTestService(t, Deps{Capabilities: allowCaps{}})
	if _, err := svc.Create(context.Background(), owner, in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	svc, _ = newTestService(t, Deps{Capabilities: allowCaps{capabilities.OverrideProductionStatus: true}})
	a := mustCreate(t, svc, in)
	if a.ProductionStatus != lifecycle.StatusLactating || !a.StatusOverridden {
		t.Fatalf("expected overridden lactating, got %s overridden=%v", a.ProductionStatus, a.StatusOverridden)
	}
}

func TestCreate_OverrideCannotMakeABullOfAFemale(t *testing.T) {
	svc, _ := newTestService(t, Deps{Capabilities: allowCaps{capabilities.OverrideProductionStatus: true}})

	in := adultCow()
	in.ProductionStatus = "bull"
	in.StatusOverride = true
	if _, err := svc.Create(context.Background(), owner, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreate_DryRequiresExpectedCalving(t *testing.T) {
	svc, _ := newTestService(t, Deps{})

	in := adultCow()
	in.ProductionStatus = "dry"
	if _, err := svc.Create(context.Background(), owner, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	in.ExpectedCalvingDate = date(2026, 4, 15)
	a := mustCreate(t, svc, in)
	if a.ProductionStatus != lifecycle.StatusDry {
		t.Fatalf("expected dry, got %s", a.ProductionStatus)
	}
}

func TestCreate_ServedComputesExpectedCalving(t *testing.T) {
	svc, _ := newTestService(t, Deps{})

	in := adultCow()
	in.ProductionStatus = "served"
	in.LastServiceDate = date(2026, 2, 1)
	a := mustCreate(t, svc, in)

	want := date(2026, 2, 1).AddDate(0, 0, lifecycle.DefaultGestationDays)
	if a.ExpectedCalvingDate == nil || !a.ExpectedCalvingDate.Equal(want) {
		t.Fatalf("expected calving %v, got %v", want, a.ExpectedCalvingDate)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t, Deps{})

	cases := map[string]CreateInput{
		"unknown sex":              {Sex: "unknown", Source: "purchased_animal", ProductionStatus: "heifer"},
		"unknown source":           {Sex: "female", Source: "gift", BirthDate: date(2024, 1, 1)},
		"newborn without birth":    {Sex: "female", Source: "newborn_calf", ProductionStatus: "calf"},
		"birth date in the future": {Sex: "female", Source: "newborn_calf", BirthDate: date(2026, 3, 2)},
		"no birth date no status":  {Sex: "female", Source: "purchased_animal"},
		"negative weight":          {Sex: "female", Source: "purchased_animal", ProductionStatus: "heifer", WeightKg: ptrFloat(-1)},
		"unknown health status":    {Sex: "female", Source: "purchased_animal", ProductionStatus: "heifer", HealthStatus: "dying"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), owner, in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreate_FarmCategoryApplies(t *testing.T) {
	fs := settings.Defaults(farmA)
	fs.Breeding.AgeCategories = []lifecycle.AgeCategory{
		{Name: "early breeders", MinMonths: 10, MaxMonths: 14, Status: lifecycle.StatusServed, AllowedStatuses: []lifecycle.Status{lifecycle.StatusLactating}},
	}
	svc, _ := newTestService(t, Deps{Settings: staticSettings{fs: fs}})

	res, err := svc.Create(context.Background(), owner, CreateInput{
		Sex:              "female",
		BirthDate:        date(2025, 5, 1),
		Source:           "newborn_calf",
		ProductionStatus: "lactating",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Derived.Category != "early breeders" {
		t.Fatalf("expected category to apply, got %q", res.Derived.Category)
	}
	if res.Animal.ProductionStatus != lifecycle.StatusLactating {
		t.Fatalf("expected lactating allowed by category, got %s", res.Animal.ProductionStatus)
	}
}

func TestCreate_ConcerningHealthCreatesAutoRecord(t *testing.T) {
	auto := &testAuto{}
	svc, _ := newTestService(t, Deps{AutoRecords: auto})

	in := adultCow()
	in.Name = "Luna"
	in.HealthStatus = "quarantined"
	res, err := svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(auto.calls) != 1 {
		t.Fatalf("expected 1 auto record call, got %d", len(auto.calls))
	}
	call := auto.calls[0]
	if call.HealthStatus != healthrecords.HealthQuarantined || call.AnimalID != res.Animal.ID || call.AnimalName != "Luna" {
		t.Fatalf("unexpected auto input: %+v", call)
	}
	if res.AutoHealthRecord == nil || res.AutoHealthRecord.Severity != healthrecords.SeverityHigh {
		t.Fatalf("expected auto record in result, got %+v", res.AutoHealthRecord)
	}

	// Sano: no se crea nada.
	mustCreate(t, svc, adultCow())
	if len(auto.calls) != 1 {
		t.Fatalf("healthy animal must not create auto records")
	}
}

func TestCreate_AutoRecordFailureIsAWarning(t *testing.T) {
	svc, repo := newTestService(t, Deps{AutoRecords: &testAuto{fail: true}})

	in := adultCow()
	in.HealthStatus = "sick"
	res, err := svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create must not fail: %v", err)
	}
	if len(res.Warnings) != 1 || res.AutoHealthRecord != nil {
		t.Fatalf("expected one warning and no record, got %+v", res)
	}
	if _, ok := repo.byID[res.Animal.ID]; !ok {
		t.Fatalf("animal must stay persisted")
	}
}

func TestCreate_Tags(t *testing.T) {
	svc, _ := newTestService(t, Deps{})
	ctx := context.Background()

	preview, err := svc.PreviewTag(ctx, farmA)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview != "COW-2026-0001" {
		t.Fatalf("unexpected preview %s", preview)
	}

	first := mustCreate(t, svc, adultCow())
	second := mustCreate(t, svc, adultCow())
	if first.TagNumber != "COW-2026-0001" || second.TagNumber != "COW-2026-0002" {
		t.Fatalf("unexpected generated tags %s, %s", first.TagNumber, second.TagNumber)
	}

	in := adultCow()
	in.TagNumber = " cow-2026-0002 "
	if _, err := svc.Create(ctx, owner, in); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate tag, got %v", err)
	}

	// Una caravana manual fuera de secuencia no rompe la generación.
	in.TagNumber = "COW-2026-0010"
	mustCreate(t, svc, in)
	next, err := svc.GenerateTag(ctx, farmA)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if next != "COW-2026-0011" {
		t.Fatalf("expected COW-2026-0011, got %s", next)
	}
}

func TestCreate_ParentsMustBelongToFarm(t *testing.T) {
	svc, repo := newTestService(t, Deps{})

	dam := mustCreate(t, svc, adultCow())
	repo.byID["bull-other"] = Animal{ID: "bull-other", FarmID: "farm-b", Sex: lifecycle.SexMale}

	calf := CreateInput{Sex: "male", Source: "newborn_calf", BirthDate: date(2026, 2, 20), DamID: dam.ID}
	a := mustCreate(t, svc, calf)
	if a.DamID != dam.ID || a.ProductionStatus != lifecycle.StatusCalf {
		t.Fatalf("unexpected calf: %+v", a)
	}

	calf.SireID = "bull-other"
	if _, err := svc.Create(context.Background(), owner, calf); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for foreign sire, got %v", err)
	}
}

func TestGet_OtherFarmIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, Deps{})
	a := mustCreate(t, svc, adultCow())

	if _, err := svc.Get(context.Background(), "farm-b", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_BirthDateChangeRederives(t *testing.T) {
	svc, _ := newTestService(t, Deps{})
	ctx := context.Background()

	in := adultCow()
	in.ProductionStatus = "lactating"
	a := mustCreate(t, svc, in)

	updated, derived, err := svc.Update(ctx, owner, a.ID, UpdateInput{BirthDate: date(2025, 12, 1)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if derived == nil || updated.ProductionStatus != lifecycle.StatusCalf {
		t.Fatalf("expected rederived calf, got %s (%+v)", updated.ProductionStatus, derived)
	}

	// Sin cambios de edad/sexo el estado se conserva.
	name := "Estrella"
	updated, derived, err = svc.Update(ctx, owner, a.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if derived != nil || updated.ProductionStatus != lifecycle.StatusCalf || updated.Name != "Estrella" {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestBreedingEvents(t *testing.T) {
	svc, _ := newTestService(t, Deps{})
	ctx := context.Background()
	cow := mustCreate(t, svc, adultCow())

	if _, err := svc.DryOff(ctx, farmA, cow.ID, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("dry-off without expected calving must fail, got %v", err)
	}

	served, err := svc.RecordService(ctx, farmA, cow.ID, *date(2026, 2, 1))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	want := date(2026, 2, 1).AddDate(0, 0, lifecycle.DefaultGestationDays)
	if served.ProductionStatus != lifecycle.StatusServed || !served.ExpectedCalvingDate.Equal(want) {
		t.Fatalf("unexpected served animal: %s %v", served.ProductionStatus, served.ExpectedCalvingDate)
	}

	dry, err := svc.DryOff(ctx, farmA, cow.ID, time.Time{})
	if err != nil {
		t.Fatalf("dry-off: %v", err)
	}
	if dry.ProductionStatus != lifecycle.StatusDry {
		t.Fatalf("expected dry, got %s", dry.ProductionStatus)
	}

	calved, err := svc.RecordCalving(ctx, farmA, cow.ID, time.Time{})
	if err != nil {
		t.Fatalf("calving: %v", err)
	}
	if calved.ProductionStatus != lifecycle.StatusLactating || calved.ExpectedCalvingDate != nil || calved.LastCalvingDate == nil {
		t.Fatalf("unexpected calved animal: %+v", calved)
	}

	if _, err := svc.RecordService(ctx, farmA, cow.ID, *date(2026, 4, 1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("future service date must fail, got %v", err)
	}
}

func TestBreedingEvents_RejectMalesAndCalves(t *testing.T) {
	svc, _ := newTestService(t, Deps{})
	ctx := context.Background()

	bull := mustCreate(t, svc, CreateInput{Sex: "male", Source: "purchased_animal", BirthDate: date(2023, 1, 1)})
	if _, err := svc.RecordService(ctx, farmA, bull.ID, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for male, got %v", err)
	}

	calf := mustCreate(t, svc, CreateInput{Sex: "female", Source: "newborn_calf", BirthDate: date(2026, 1, 10)})
	if _, err := svc.RecordService(ctx, farmA, calf.ID, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for calf, got %v", err)
	}
}

func TestRecordService_CalfThatGrewUp(t *testing.T) {
	svc, repo := newTestService(t, Deps{})
	ctx := context.Background()

	calf := mustCreate(t, svc, CreateInput{Sex: "female", Source: "newborn_calf", BirthDate: date(2026, 1, 10)})
	if calf.ProductionStatus != lifecycle.StatusCalf {
		t.Fatalf("expected calf at creation, got %s", calf.ProductionStatus)
	}

	// Nueve meses después el estado guardado sigue siendo calf.
	later := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	served, err := svc.RecordService(ctx, farmA, calf.ID, time.Time{})
	if err != nil {
		t.Fatalf("service on grown heifer: %v", err)
	}
	if served.ProductionStatus != lifecycle.StatusServed || served.ExpectedCalvingDate == nil {
		t.Fatalf("unexpected served animal: %s %v", served.ProductionStatus, served.ExpectedCalvingDate)
	}
	stored, _ := repo.GetByID(ctx, calf.ID)
	if stored.ProductionStatus != lifecycle.StatusServed {
		t.Fatalf("expected stored status served, got %s", stored.ProductionStatus)
	}
}

func TestRelease(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(t, Deps{})
	a := mustCreate(t, svc, adultCow())
	if _, err := svc.Release(ctx, owner, a.ID, ReleaseInput{Reason: "sold"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden without resolver, got %v", err)
	}

	svc, repo := newTestService(t, Deps{Capabilities: allowCaps{capabilities.ReleaseAnimals: true}})
	a = mustCreate(t, svc, adultCow())

	if _, err := svc.Release(ctx, owner, a.ID, ReleaseInput{Reason: "died", SalePrice: ptrFloat(100)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("sale price on a death must fail, got %v", err)
	}

	rel, err := svc.Release(ctx, owner, a.ID, ReleaseInput{Reason: "Sold", SalePrice: ptrFloat(1500), BuyerName: "Coop"})
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if rel.Reason != ReleaseSold || !rel.ReleaseDate.Equal(testNow) {
		t.Fatalf("unexpected release: %+v", rel)
	}
	if repo.byID[a.ID].Lifecycle != LifecycleReleased {
		t.Fatalf("animal must be released")
	}

	if _, err := svc.Release(ctx, owner, a.ID, ReleaseInput{Reason: "sold"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second release, got %v", err)
	}
	if _, _, err := svc.Update(ctx, owner, a.ID, UpdateInput{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("released animals are read-only, got %v", err)
	}

	releases, _ := svc.ListReleases(ctx, farmA)
	if len(releases) != 1 {
		t.Fatalf("expected 1 release, got %d", len(releases))
	}
}

func TestCalculateStatus(t *testing.T) {
	svc, _ := newTestService(t, Deps{})

	res, err := svc.CalculateStatus(context.Background(), farmA, *date(2024, 1, 1), "male")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if res.Status != lifecycle.StatusBull || res.Overridable {
		t.Fatalf("unexpected result %+v", res)
	}

	if _, err := svc.CalculateStatus(context.Background(), farmA, *date(2027, 1, 1), "female"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for future birth date, got %v", err)
	}
}

func TestHealthDirectory(t *testing.T) {
	svc, repo := newTestService(t, Deps{})
	a := mustCreate(t, svc, adultCow())
	dir := NewHealthDirectory(repo)

	ref, err := dir.Lookup(context.Background(), a.ID)
	if err != nil || ref.FarmID != farmA || ref.TagNumber != a.TagNumber {
		t.Fatalf("unexpected lookup %+v, %v", ref, err)
	}
	if _, err := dir.Lookup(context.Background(), "missing"); !errors.Is(err, healthrecords.ErrAnimalNotFound) {
		t.Fatalf("expected ErrAnimalNotFound, got %v", err)
	}

	if err := dir.SetHealthStatus(context.Background(), a.ID, healthrecords.HealthSick); err != nil {
		t.Fatalf("set health: %v", err)
	}
	if repo.byID[a.ID].HealthStatus != healthrecords.HealthSick {
		t.Fatalf("health status not updated")
	}
}

func ptrFloat(v float64) *float64 { return &v }
