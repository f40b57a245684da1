package animals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dairy-herd-manager/internal/domain/healthrecords"
	"dairy-herd-manager/internal/domain/lifecycle"
	"dairy-herd-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/export", exportAnimalsHandler(svc))

		// Caravanas
		ar.Get("/tags/preview", previewTagHandler(svc))
		ar.Post("/tags/generate", generateTagHandler(svc))

		// Deriver expuesto a la UI (sin persistir)
		ar.Post("/production-status", calculateStatusHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
		ar.Post("/{animalID}/release", releaseAnimalHandler(svc))

		// Eventos reproductivos
		ar.Get("/{animalID}/breeding-schedule", breedingScheduleHandler(svc))
		ar.Post("/{animalID}/breeding/service", breedingEventHandler(svc, svc.RecordService))
		ar.Post("/{animalID}/breeding/calving", breedingEventHandler(svc, svc.RecordCalving))
		ar.Post("/{animalID}/breeding/dry-off", breedingEventHandler(svc, svc.DryOff))
	})

	r.Get("/releases", listReleasesHandler(svc))
}

// createAnimalRequest es el cuerpo del alta de un animal. Fechas en YYYY-MM-DD.
type createAnimalRequest struct {
	TagNumber           string   `json:"tag_number"` // vacío => se genera
	Name                string   `json:"name"`
	Sex                 string   `json:"sex" enums:"male,female"`
	Breed               string   `json:"breed"`
	BirthDate           string   `json:"birth_date"`
	Source              string   `json:"source" enums:"newborn_calf,purchased_animal"`
	ProductionStatus    string   `json:"production_status" enums:"calf,heifer,served,lactating,dry,bull"`
	StatusOverride      bool     `json:"status_override"`
	HealthStatus        string   `json:"health_status" enums:"healthy,sick,requires_attention,quarantined"`
	ExpectedCalvingDate string   `json:"expected_calving_date"`
	LastServiceDate     string   `json:"last_service_date"`
	LastCalvingDate     string   `json:"last_calving_date"`
	DamID               string   `json:"dam_id"`
	SireID              string   `json:"sire_id"`
	PurchaseDate        string   `json:"purchase_date"`
	PurchasePrice       *float64 `json:"purchase_price"`
	WeightKg            *float64 `json:"weight_kg"`
	Notes               string   `json:"notes"`
}

type updateAnimalRequest struct {
	TagNumber           *string  `json:"tag_number"`
	Name                *string  `json:"name"`
	Sex                 *string  `json:"sex"`
	Breed               *string  `json:"breed"`
	BirthDate           *string  `json:"birth_date"`
	ProductionStatus    *string  `json:"production_status"`
	StatusOverride      bool     `json:"status_override"`
	HealthStatus        *string  `json:"health_status"`
	ExpectedCalvingDate *string  `json:"expected_calving_date"`
	DamID               *string  `json:"dam_id"`
	SireID              *string  `json:"sire_id"`
	PurchaseDate        *string  `json:"purchase_date"`
	PurchasePrice       *float64 `json:"purchase_price"`
	WeightKg            *float64 `json:"weight_kg"`
	Notes               *string  `json:"notes"`
}

type releaseRequest struct {
	Reason      string   `json:"reason" enums:"sold,died,culled,donated,transferred,other"`
	ReleaseDate string   `json:"release_date"`
	SalePrice   *float64 `json:"sale_price"`
	BuyerName   string   `json:"buyer_name"`
	Notes       string   `json:"notes"`
}

type calculateStatusRequest struct {
	BirthDate string `json:"birth_date"`
	Sex       string `json:"sex"`
}

type breedingEventRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, opcional (hoy)
}

// AnimalResponse representa un animal devuelto por la API.
type AnimalResponse struct {
	ID                  string           `json:"id"`
	TagNumber           string           `json:"tag_number"`
	Name                string           `json:"name,omitempty"`
	Sex                 Sex              `json:"sex"`
	Breed               string           `json:"breed"`
	BirthDate           *time.Time       `json:"birth_date,omitempty"`
	Source              Source           `json:"source"`
	ProductionStatus    ProductionStatus `json:"production_status"`
	HealthStatus        HealthStatus     `json:"health_status"`
	StatusOverridden    bool             `json:"status_overridden"`
	ExpectedCalvingDate *time.Time       `json:"expected_calving_date,omitempty"`
	LastServiceDate     *time.Time       `json:"last_service_date,omitempty"`
	LastCalvingDate     *time.Time       `json:"last_calving_date,omitempty"`
	DamID               string           `json:"dam_id,omitempty"`
	SireID              string           `json:"sire_id,omitempty"`
	PurchaseDate        *time.Time       `json:"purchase_date,omitempty"`
	PurchasePrice       *float64         `json:"purchase_price,omitempty"`
	WeightKg            *float64         `json:"weight_kg,omitempty"`
	Notes               string           `json:"notes"`
	Lifecycle           Lifecycle        `json:"lifecycle"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// statusResponse es la salida del deriver.
type statusResponse struct {
	Status          lifecycle.Status   `json:"status"`
	AllowedStatuses []lifecycle.Status `json:"allowed_statuses"`
	Overridable     bool               `json:"overridable"`
	AgeMonths       int                `json:"age_months"`
	Category        string             `json:"category,omitempty"`
}

type createAnimalResponse struct {
	Animal           AnimalResponse                `json:"animal"`
	Lifecycle        *statusResponse               `json:"lifecycle,omitempty"`
	AutoHealthRecord *healthrecords.RecordResponse `json:"auto_health_record,omitempty"`
	Warnings         []string                      `json:"warnings,omitempty"`
}

type updateAnimalResponse struct {
	Animal    AnimalResponse  `json:"animal"`
	Lifecycle *statusResponse `json:"lifecycle,omitempty"`
}

type releaseResponse struct {
	ID          string        `json:"id"`
	AnimalID    string        `json:"animal_id"`
	Reason      ReleaseReason `json:"reason"`
	ReleaseDate time.Time     `json:"release_date"`
	SalePrice   *float64      `json:"sale_price,omitempty"`
	BuyerName   string        `json:"buyer_name,omitempty"`
	Notes       string        `json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
}

type tagResponse struct {
	TagNumber string `json:"tag_number"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Alta de un animal. Con fecha de nacimiento el estado productivo se deriva por edad/sexo (y categorías de la granja); un estado fuera del conjunto permitido se reemplaza por el derivado salvo `status_override=true` con la capability `animals:override_status`. `dry` exige `expected_calving_date`. Un estado sanitario preocupante genera un registro sanitario pendiente (`auto_health_record`).
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param X-Debug-Farm-ID header string false "Solo en modo dev"
// @Param X-Debug-Role header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createAnimalRequest true "Datos del animal"
// @Success 201 {object} createAnimalResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 409 {object} errorResponse "caravana en uso"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		dates, err := parseDates(map[string]string{
			"birth_date":            req.BirthDate,
			"expected_calving_date": req.ExpectedCalvingDate,
			"last_service_date":     req.LastServiceDate,
			"last_calving_date":     req.LastCalvingDate,
			"purchase_date":         req.PurchaseDate,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := svc.Create(r.Context(), claims, CreateInput{
			TagNumber:           req.TagNumber,
			Name:                req.Name,
			Sex:                 req.Sex,
			Breed:               req.Breed,
			BirthDate:           dates["birth_date"],
			Source:              req.Source,
			ProductionStatus:    req.ProductionStatus,
			StatusOverride:      req.StatusOverride,
			HealthStatus:        req.HealthStatus,
			ExpectedCalvingDate: dates["expected_calving_date"],
			LastServiceDate:     dates["last_service_date"],
			LastCalvingDate:     dates["last_calving_date"],
			DamID:               req.DamID,
			SireID:              req.SireID,
			PurchaseDate:        dates["purchase_date"],
			PurchasePrice:       req.PurchasePrice,
			WeightKg:            req.WeightKg,
			Notes:               req.Notes,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := createAnimalResponse{
			Animal:    toAnimalResponse(res.Animal),
			Lifecycle: toStatusResponse(res.Derived),
			Warnings:  res.Warnings,
		}
		if res.AutoHealthRecord != nil {
			rec := healthrecords.ToResponse(*res.AutoHealthRecord)
			out.AutoHealthRecord = &rec
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales de la granja
// @Tags animals
// @Produce json
// @Param production_status query string false "Filtro por estado productivo"
// @Param health_status query string false "Filtro por estado sanitario"
// @Param sex query string false "male | female"
// @Param lifecycle query string false "active | released (por defecto active)"
// @Param q query string false "Búsqueda por caravana o nombre"
// @Success 200 {array} AnimalResponse
// @Failure 401 {object} errorResponse
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		filter := ListFilter{
			ProductionStatus: ProductionStatus(strings.ToLower(strings.TrimSpace(q.Get("production_status")))),
			HealthStatus:     HealthStatus(strings.ToLower(strings.TrimSpace(q.Get("health_status")))),
			Sex:              Sex(strings.ToLower(strings.TrimSpace(q.Get("sex")))),
			Lifecycle:        Lifecycle(strings.ToLower(strings.TrimSpace(q.Get("lifecycle")))),
			Q:                q.Get("q"),
		}
		if filter.Lifecycle == "" {
			filter.Lifecycle = LifecycleActive
		}

		items, err := svc.List(r.Context(), claims.FarmID, filter)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]AnimalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// exportAnimalsHandler godoc
// @Summary Exportar rodeo a Excel
// @Tags animals
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} errorResponse
// @Router /animals/export [get]
func exportAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		b, err := svc.ExportXLSX(r.Context(), claims.FarmID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		name := "herd-" + time.Now().UTC().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

// previewTagHandler godoc
// @Summary Próxima caravana (sin reservar)
// @Tags animals
// @Produce json
// @Success 200 {object} tagResponse
// @Failure 401 {object} errorResponse
// @Router /animals/tags/preview [get]
func previewTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		tag, err := svc.PreviewTag(r.Context(), claims.FarmID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tagResponse{TagNumber: tag})
	}
}

// generateTagHandler godoc
// @Summary Generar caravana libre
// @Tags animals
// @Produce json
// @Success 200 {object} tagResponse
// @Failure 401 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /animals/tags/generate [post]
func generateTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		tag, err := svc.GenerateTag(r.Context(), claims.FarmID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tagResponse{TagNumber: tag})
	}
}

// calculateStatusHandler godoc
// @Summary Calcular estado productivo
// @Description Deriva estado, estados permitidos y si es modificable a partir de fecha de nacimiento y sexo. Meses de 30 días.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body calculateStatusRequest true "birth_date (YYYY-MM-DD) y sex"
// @Success 200 {object} statusResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /animals/production-status [post]
func calculateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req calculateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		bd, err := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate))
		if err != nil {
			writeError(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
			return
		}

		res, err := svc.CalculateStatus(r.Context(), claims.FarmID, bd, req.Sex)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toStatusResponse(&res))
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} AnimalResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		a, err := svc.Get(r.Context(), claims.FarmID, chi.URLParam(r, "animalID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Actualizar animal (PATCH)
// @Description Solo se modifican los campos enviados. Un cambio de fecha de nacimiento o sexo vuelve a derivar el estado productivo.
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body updateAnimalRequest true "Campos a modificar"
// @Success 200 {object} updateAnimalResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /animals/{animalID} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		raw := map[string]string{}
		for field, v := range map[string]*string{
			"birth_date":            req.BirthDate,
			"expected_calving_date": req.ExpectedCalvingDate,
			"purchase_date":         req.PurchaseDate,
		} {
			if v != nil {
				raw[field] = *v
			}
		}
		dates, err := parseDates(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		a, derived, err := svc.Update(r.Context(), claims, chi.URLParam(r, "animalID"), UpdateInput{
			TagNumber:           req.TagNumber,
			Name:                req.Name,
			Sex:                 req.Sex,
			Breed:               req.Breed,
			BirthDate:           dates["birth_date"],
			ProductionStatus:    req.ProductionStatus,
			StatusOverride:      req.StatusOverride,
			HealthStatus:        req.HealthStatus,
			ExpectedCalvingDate: dates["expected_calving_date"],
			DamID:               req.DamID,
			SireID:              req.SireID,
			PurchaseDate:        dates["purchase_date"],
			PurchasePrice:       req.PurchasePrice,
			WeightKg:            req.WeightKg,
			Notes:               req.Notes,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updateAnimalResponse{
			Animal:    toAnimalResponse(a),
			Lifecycle: toStatusResponse(derived),
		})
	}
}

// releaseAnimalHandler godoc
// @Summary Dar de baja un animal
// @Description Baja lógica (venta, muerte, descarte...). Requiere la capability `animals:release`.
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body releaseRequest true "Motivo y datos de la baja"
// @Success 201 {object} releaseResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /animals/{animalID}/release [post]
func releaseAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req releaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		dates, err := parseDates(map[string]string{"release_date": req.ReleaseDate})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		in := ReleaseInput{
			Reason:    req.Reason,
			SalePrice: req.SalePrice,
			BuyerName: req.BuyerName,
			Notes:     req.Notes,
		}
		if d := dates["release_date"]; d != nil {
			in.ReleaseDate = *d
		}

		rel, err := svc.Release(r.Context(), claims, chi.URLParam(r, "animalID"), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toReleaseResponse(rel))
	}
}

// listReleasesHandler godoc
// @Summary Listar bajas de la granja
// @Tags animals
// @Produce json
// @Success 200 {array} releaseResponse
// @Failure 401 {object} errorResponse
// @Router /releases [get]
func listReleasesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListReleases(r.Context(), claims.FarmID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]releaseResponse, 0, len(items))
		for _, rel := range items {
			out = append(out, toReleaseResponse(rel))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// breedingScheduleHandler godoc
// @Summary Calendario reproductivo
// @Description Parto esperado, fecha de secado, días al parto y próximo servicio según la configuración de la granja.
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} lifecycle.Schedule
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /animals/{animalID}/breeding-schedule [get]
func breedingScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		sch, err := svc.BreedingSchedule(r.Context(), claims.FarmID, chi.URLParam(r, "animalID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sch)
	}
}

type breedingEventFunc func(ctx context.Context, farmID, id string, date time.Time) (Animal, error)

// breedingEventHandler godoc
// @Summary Registrar evento reproductivo
// @Description `service` => served (+ parto esperado), `calving` => lactating, `dry-off` => dry (exige parto esperado).
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body breedingEventRequest false "Fecha del evento"
// @Success 200 {object} AnimalResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /animals/{animalID}/breeding/service [post]
// @Router /animals/{animalID}/breeding/calving [post]
// @Router /animals/{animalID}/breeding/dry-off [post]
func breedingEventHandler(svc *Service, event breedingEventFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req breedingEventRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}
		dates, err := parseDates(map[string]string{"date": req.Date})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var date time.Time
		if d := dates["date"]; d != nil {
			date = *d
		}

		a, err := event(r.Context(), claims.FarmID, chi.URLParam(r, "animalID"), date)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func toAnimalResponse(a Animal) AnimalResponse {
	return AnimalResponse{
		ID:                  a.ID,
		TagNumber:           a.TagNumber,
		Name:                a.Name,
		Sex:                 a.Sex,
		Breed:               a.Breed,
		BirthDate:           a.BirthDate,
		Source:              a.Source,
		ProductionStatus:    a.ProductionStatus,
		HealthStatus:        a.HealthStatus,
		StatusOverridden:    a.StatusOverridden,
		ExpectedCalvingDate: a.ExpectedCalvingDate,
		LastServiceDate:     a.LastServiceDate,
		LastCalvingDate:     a.LastCalvingDate,
		DamID:               a.DamID,
		SireID:              a.SireID,
		PurchaseDate:        a.PurchaseDate,
		PurchasePrice:       a.PurchasePrice,
		WeightKg:            a.WeightKg,
		Notes:               a.Notes,
		Lifecycle:           a.Lifecycle,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func toStatusResponse(res *lifecycle.Result) *statusResponse {
	if res == nil {
		return nil
	}
	return &statusResponse{
		Status:          res.Status,
		AllowedStatuses: res.Allowed.Slice(),
		Overridable:     res.Overridable,
		AgeMonths:       res.AgeMonths,
		Category:        res.Category,
	}
}

func toReleaseResponse(rel Release) releaseResponse {
	return releaseResponse{
		ID:          rel.ID,
		AnimalID:    rel.AnimalID,
		Reason:      rel.Reason,
		ReleaseDate: rel.ReleaseDate,
		SalePrice:   rel.SalePrice,
		BuyerName:   rel.BuyerName,
		Notes:       rel.Notes,
		CreatedAt:   rel.CreatedAt,
	}
}

// parseDates valida campos YYYY-MM-DD; los vacíos quedan en nil.
func parseDates(fields map[string]string) (map[string]*time.Time, error) {
	out := make(map[string]*time.Time, len(fields))
	for field, raw := range fields {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.New(field + " must be YYYY-MM-DD")
		}
		out[field] = &t
	}
	return out, nil
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		middleware.LoggerFrom(r.Context()).Error("animals request failed", map[string]any{"err": err})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
