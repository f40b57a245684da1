package healthrecords

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dairy-herd-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals/{animalID}/health-records", func(ar chi.Router) {
		ar.Post("/", createRecordHandler(svc))
		ar.Get("/", listAnimalRecordsHandler(svc))
	})

	r.Route("/health-records", func(hr chi.Router) {
		hr.Get("/", listFarmRecordsHandler(svc))
		hr.Get("/{recordID}", getRecordHandler(svc))
		hr.Patch("/{recordID}", updateRecordHandler(svc))
		hr.Delete("/{recordID}", deleteRecordHandler(svc))

		// Seguimientos + cascada de resolución
		hr.Post("/{recordID}/follow-ups", createFollowUpHandler(svc))
		hr.Get("/{recordID}/follow-ups", listFollowUpsHandler(svc))

		// Completar registro auto-generado
		hr.Post("/{recordID}/complete", completeRecordHandler(svc))
	})
}

// createRecordRequest es el cuerpo para registrar un evento sanitario.
type createRecordRequest struct {
	RecordType    string   `json:"record_type" enums:"vaccination,treatment,checkup,injury,illness,reproductive,deworming"`
	RecordDate    string   `json:"record_date"` // YYYY-MM-DD, opcional (hoy)
	Description   string   `json:"description"`
	Severity      string   `json:"severity" enums:"low,medium,high,critical"`
	Symptoms      string   `json:"symptoms"`
	Diagnosis     string   `json:"diagnosis"`
	Treatment     string   `json:"treatment"`
	Medication    string   `json:"medication"`
	Dosage        string   `json:"dosage"`
	Veterinarian  string   `json:"veterinarian"`
	Cost          *float64 `json:"cost"`
	NextDueDate   string   `json:"next_due_date"`
	RootCheckupID string   `json:"root_checkup_id"`
}

type updateRecordRequest struct {
	RecordType    *string  `json:"record_type"`
	RecordDate    *string  `json:"record_date"`
	Description   *string  `json:"description"`
	Severity      *string  `json:"severity"`
	Symptoms      *string  `json:"symptoms"`
	Diagnosis     *string  `json:"diagnosis"`
	Treatment     *string  `json:"treatment"`
	Medication    *string  `json:"medication"`
	Dosage        *string  `json:"dosage"`
	Veterinarian  *string  `json:"veterinarian"`
	Cost          *float64 `json:"cost"`
	NextDueDate   *string  `json:"next_due_date"`
	IsResolved    *bool    `json:"is_resolved"`
	RootCheckupID *string  `json:"root_checkup_id"`
}

// followUpRequest es el resultado del seguimiento informado por el usuario.
type followUpRequest struct {
	RecordDate             string   `json:"record_date"`
	Status                 string   `json:"status" enums:"improving,stable,worsening,recovered,requires_attention"`
	TreatmentEffectiveness string   `json:"treatment_effectiveness" enums:"very_effective,effective,somewhat_effective,not_effective"`
	IsResolved             bool     `json:"is_resolved"`
	Description            string   `json:"description"`
	Treatment              string   `json:"treatment"`
	Medication             string   `json:"medication"`
	Dosage                 string   `json:"dosage"`
	Veterinarian           string   `json:"veterinarian"`
	Cost                   *float64 `json:"cost"`
	NextFollowUpDate       string   `json:"next_follow_up_date"`
}

type completeRecordRequest struct {
	Description  *string  `json:"description"`
	Severity     *string  `json:"severity"`
	Symptoms     string   `json:"symptoms"`
	Diagnosis    string   `json:"diagnosis"`
	Treatment    string   `json:"treatment"`
	Medication   string   `json:"medication"`
	Dosage       string   `json:"dosage"`
	Veterinarian string   `json:"veterinarian"`
	Cost         *float64 `json:"cost"`
	NextDueDate  string   `json:"next_due_date"`
}

// RecordResponse representa un registro sanitario devuelto por la API.
type RecordResponse struct {
	ID               string           `json:"id"`
	AnimalID         string           `json:"animal_id"`
	RecordType       RecordType       `json:"record_type"`
	RecordDate       time.Time        `json:"record_date"`
	Description      string           `json:"description"`
	Severity         Severity         `json:"severity,omitempty"`
	Symptoms         string           `json:"symptoms"`
	Diagnosis        string           `json:"diagnosis"`
	Treatment        string           `json:"treatment"`
	Medication       string           `json:"medication"`
	Dosage           string           `json:"dosage"`
	Veterinarian     string           `json:"veterinarian"`
	Cost             *float64         `json:"cost,omitempty"`
	NextDueDate      *time.Time       `json:"next_due_date,omitempty"`
	IsResolved       bool             `json:"is_resolved"`
	ResolvedDate     *time.Time       `json:"resolved_date,omitempty"`
	RootCheckupID    string           `json:"root_checkup_id,omitempty"`
	OriginalRecordID string           `json:"original_record_id,omitempty"`
	IsFollowUp       bool             `json:"is_follow_up"`
	IsAutoGenerated  bool             `json:"is_auto_generated"`
	CompletionStatus CompletionStatus `json:"completion_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type followUpResponse struct {
	ID                     string         `json:"id"`
	OriginalRecordID       string         `json:"original_record_id"`
	FollowUpRecordID       string         `json:"follow_up_record_id"`
	Status                 FollowUpStatus `json:"status"`
	TreatmentEffectiveness Effectiveness  `json:"treatment_effectiveness,omitempty"`
	IsResolved             bool           `json:"is_resolved"`
	CreatedAt              time.Time      `json:"created_at"`
}

type followUpResultResponse struct {
	FollowUpRecordID      string         `json:"follow_up_record_id"`
	FollowUpRecord        RecordResponse `json:"follow_up_record"`
	ResolvedRecordIDs     []string       `json:"resolved_record_ids"`
	NewAnimalHealthStatus HealthStatus   `json:"new_animal_health_status,omitempty"`
	Warnings              []string       `json:"warnings,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// createRecordHandler godoc
// @Summary Crear registro sanitario
// @Description Registra un evento sanitario para un animal de la granja. Si se indica `root_checkup_id`, debe ser un checkup del mismo animal. Autenticación: `X-Debug-User-ID` + `X-Debug-Farm-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags health-records
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body createRecordRequest true "Datos del registro; fechas YYYY-MM-DD"
// @Success 201 {object} RecordResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /animals/{animalID}/health-records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		date, err := parseDate(req.RecordDate, "record_date")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		due, err := parseDate(req.NextDueDate, "next_due_date")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		in := CreateInput{
			Type:          req.RecordType,
			Description:   req.Description,
			Severity:      req.Severity,
			Symptoms:      req.Symptoms,
			Diagnosis:     req.Diagnosis,
			Treatment:     req.Treatment,
			Medication:    req.Medication,
			Dosage:        req.Dosage,
			Veterinarian:  req.Veterinarian,
			Cost:          req.Cost,
			NextDueDate:   due,
			RootCheckupID: req.RootCheckupID,
		}
		if date != nil {
			in.RecordDate = *date
		}

		rec, err := svc.Create(r.Context(), claims.FarmID, chi.URLParam(r, "animalID"), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(rec))
	}
}

// listAnimalRecordsHandler godoc
// @Summary Listar registros sanitarios de un animal
// @Tags health-records
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {array} RecordResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /animals/{animalID}/health-records [get]
func listAnimalRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByAnimal(r.Context(), claims.FarmID, chi.URLParam(r, "animalID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// listFarmRecordsHandler godoc
// @Summary Listar registros sanitarios de la granja
// @Description Filtros opcionales por tipo, estado de resolución y animal.
// @Tags health-records
// @Produce json
// @Param type query string false "Tipo de registro"
// @Param resolved query bool false "true/false"
// @Param animal_id query string false "ID del animal"
// @Param limit query int false "Máximo (1-500). Por defecto 100"
// @Success 200 {array} RecordResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /health-records [get]
func listFarmRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		filter := ListFilter{AnimalID: strings.TrimSpace(q.Get("animal_id"))}

		if v := strings.TrimSpace(q.Get("type")); v != "" {
			t, ok := ParseRecordType(v)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown record type")
				return
			}
			filter.Type = t
		}
		if v := strings.TrimSpace(q.Get("resolved")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "resolved must be true or false")
				return
			}
			filter.Resolved = &b
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		items, err := svc.ListByFarm(r.Context(), claims.FarmID, filter)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// getRecordHandler godoc
// @Summary Obtener registro sanitario
// @Tags health-records
// @Produce json
// @Param recordID path string true "ID del registro"
// @Success 200 {object} RecordResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /health-records/{recordID} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		rec, err := svc.Get(r.Context(), claims.FarmID, chi.URLParam(r, "recordID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ToResponse(rec))
	}
}

// updateRecordHandler godoc
// @Summary Actualizar registro sanitario (PATCH)
// @Description Solo se modifican los campos enviados. Recalcula el estado sanitario del animal.
// @Tags health-records
// @Accept json
// @Produce json
// @Param recordID path string true "ID del registro"
// @Param payload body updateRecordRequest true "Campos a modificar"
// @Success 200 {object} RecordResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /health-records/{recordID} [patch]
func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := UpdateInput{
			Type:          req.RecordType,
			Description:   req.Description,
			Severity:      req.Severity,
			Symptoms:      req.Symptoms,
			Diagnosis:     req.Diagnosis,
			Treatment:     req.Treatment,
			Medication:    req.Medication,
			Dosage:        req.Dosage,
			Veterinarian:  req.Veterinarian,
			Cost:          req.Cost,
			IsResolved:    req.IsResolved,
			RootCheckupID: req.RootCheckupID,
		}
		if req.RecordDate != nil {
			d, err := parseDate(*req.RecordDate, "record_date")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			in.RecordDate = d
		}
		if req.NextDueDate != nil {
			d, err := parseDate(*req.NextDueDate, "next_due_date")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			in.NextDueDate = d
		}

		rec, err := svc.Update(r.Context(), claims.FarmID, chi.URLParam(r, "recordID"), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ToResponse(rec))
	}
}

// deleteRecordHandler godoc
// @Summary Borrar registro sanitario
// @Description Borra el registro junto con sus seguimientos y relaciones.
// @Tags health-records
// @Param recordID path string true "ID del registro"
// @Success 204
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /health-records/{recordID} [delete]
func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), claims.FarmID, chi.URLParam(r, "recordID")); err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// createFollowUpHandler godoc
// @Summary Registrar seguimiento
// @Description Crea el registro de seguimiento y su relación. Con `is_resolved=true` marca resueltos el original, su chequeo raíz y el registro del que es seguimiento, y recalcula el estado sanitario del animal. Con `is_resolved=false` solo actualiza `next_due_date` del original si se envía `next_follow_up_date`.
// @Tags health-records
// @Accept json
// @Produce json
// @Param recordID path string true "ID del registro original"
// @Param payload body followUpRequest true "Resultado del seguimiento"
// @Success 201 {object} followUpResultResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /health-records/{recordID}/follow-ups [post]
func createFollowUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req followUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		date, err := parseDate(req.RecordDate, "record_date")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		next, err := parseDate(req.NextFollowUpDate, "next_follow_up_date")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		in := FollowUpOutcome{
			Status:           req.Status,
			Effectiveness:    req.TreatmentEffectiveness,
			Resolved:         req.IsResolved,
			Description:      req.Description,
			Treatment:        req.Treatment,
			Medication:       req.Medication,
			Dosage:           req.Dosage,
			Veterinarian:     req.Veterinarian,
			Cost:             req.Cost,
			NextFollowUpDate: next,
		}
		if date != nil {
			in.RecordDate = *date
		}

		res, err := svc.CreateFollowUp(r.Context(), claims.FarmID, chi.URLParam(r, "recordID"), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, followUpResultResponse{
			FollowUpRecordID:      res.FollowUpRecordID,
			FollowUpRecord:        ToResponse(res.FollowUpRecord),
			ResolvedRecordIDs:     res.ResolvedRecordIDs,
			NewAnimalHealthStatus: res.NewAnimalHealthStatus,
			Warnings:              res.Warnings,
		})
	}
}

// listFollowUpsHandler godoc
// @Summary Listar relaciones de seguimiento de un registro
// @Tags health-records
// @Produce json
// @Param recordID path string true "ID del registro original"
// @Success 200 {array} followUpResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /health-records/{recordID}/follow-ups [get]
func listFollowUpsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListFollowUps(r.Context(), claims.FarmID, chi.URLParam(r, "recordID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]followUpResponse, 0, len(items))
		for _, f := range items {
			out = append(out, followUpResponse{
				ID:                     f.ID,
				OriginalRecordID:       f.OriginalRecordID,
				FollowUpRecordID:       f.FollowUpRecordID,
				Status:                 f.Status,
				TreatmentEffectiveness: f.Effectiveness,
				IsResolved:             f.IsResolved,
				CreatedAt:              f.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// completeRecordHandler godoc
// @Summary Completar registro auto-generado
// @Description Completa con diagnóstico/tratamiento un registro creado automáticamente al registrar el animal.
// @Tags health-records
// @Accept json
// @Produce json
// @Param recordID path string true "ID del registro"
// @Param payload body completeRecordRequest true "Detalles"
// @Success 200 {object} RecordResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /health-records/{recordID}/complete [post]
func completeRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req completeRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		due, err := parseDate(req.NextDueDate, "next_due_date")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rec, err := svc.CompleteAutoGenerated(r.Context(), claims.FarmID, chi.URLParam(r, "recordID"), CompleteInput{
			Description:  req.Description,
			Severity:     req.Severity,
			Symptoms:     req.Symptoms,
			Diagnosis:    req.Diagnosis,
			Treatment:    req.Treatment,
			Medication:   req.Medication,
			Dosage:       req.Dosage,
			Veterinarian: req.Veterinarian,
			Cost:         req.Cost,
			NextDueDate:  due,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ToResponse(rec))
	}
}

// ToResponse lo usa también el módulo de animales para devolver el registro auto-generado.
func ToResponse(rec HealthRecord) RecordResponse {
	return RecordResponse{
		ID:               rec.ID,
		AnimalID:         rec.AnimalID,
		RecordType:       rec.Type,
		RecordDate:       rec.RecordDate,
		Description:      rec.Description,
		Severity:         rec.Severity,
		Symptoms:         rec.Symptoms,
		Diagnosis:        rec.Diagnosis,
		Treatment:        rec.Treatment,
		Medication:       rec.Medication,
		Dosage:           rec.Dosage,
		Veterinarian:     rec.Veterinarian,
		Cost:             rec.Cost,
		NextDueDate:      rec.NextDueDate,
		IsResolved:       rec.IsResolved,
		ResolvedDate:     rec.ResolvedDate,
		RootCheckupID:    rec.RootCheckupID,
		OriginalRecordID: rec.OriginalRecordID,
		IsFollowUp:       rec.IsFollowUp,
		IsAutoGenerated:  rec.IsAutoGenerated,
		CompletionStatus: rec.CompletionStatus,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func toResponses(items []HealthRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(items))
	for _, rec := range items {
		out = append(out, ToResponse(rec))
	}
	return out
}

func parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New(field + " must be YYYY-MM-DD")
	}
	return &t, nil
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrCycle):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAnimalNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		middleware.LoggerFrom(r.Context()).Error("health records request failed", map[string]any{"err": err})
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
