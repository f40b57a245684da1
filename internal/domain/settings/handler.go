package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"dairy-herd-manager/internal/middleware"
	"dairy-herd-manager/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.CapabilitiesResolver) {
	r.Route("/farm/settings", func(sr chi.Router) {
		sr.Get("/", getSettingsHandler(svc))
		sr.Put("/{section}", saveSectionHandler(svc, caps))
	})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// getSettingsHandler godoc
// @Summary Obtener configuración de la granja
// @Description Devuelve las cuatro secciones (breeding, health, financial, tagging). Una granja sin configuración recibe los valores por defecto.
// @Tags settings
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param X-Debug-Farm-ID header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} FarmSettings
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /farm/settings [get]
func getSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		fs, err := svc.Get(r.Context(), claims.FarmID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fs)
	}
}

// saveSectionHandler godoc
// @Summary Guardar una sección de configuración
// @Description Sobrescribe completa la sección indicada. Requiere la capability `farm:manage_settings`. Las categorías de edad no pueden solaparse.
// @Tags settings
// @Accept json
// @Produce json
// @Param section path string true "breeding | health | financial | tagging"
// @Param payload body object true "Contenido de la sección"
// @Success 200 {object} FarmSettings
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /farm/settings/{section} [put]
func saveSectionHandler(svc *Service, caps capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if caps != nil {
			allowed, err := caps.Has(r.Context(), claims, capabilities.ManageSettings)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			if !allowed {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
		}

		dec := json.NewDecoder(r.Body)
		var (
			fs  FarmSettings
			err error
		)
		switch Section(chi.URLParam(r, "section")) {
		case SectionBreeding:
			var b Breeding
			if err := dec.Decode(&b); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
			fs, err = svc.SaveBreeding(r.Context(), claims.FarmID, b)
		case SectionHealth:
			var h Health
			if err := dec.Decode(&h); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
			fs, err = svc.SaveHealth(r.Context(), claims.FarmID, h)
		case SectionFinancial:
			var f Financial
			if err := dec.Decode(&f); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
			fs, err = svc.SaveFinancial(r.Context(), claims.FarmID, f)
		case SectionTagging:
			var t Tagging
			if err := dec.Decode(&t); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
			fs, err = svc.SaveTagging(r.Context(), claims.FarmID, t)
		default:
			writeError(w, http.StatusNotFound, "unknown settings section")
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, fs)
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.LoggerFrom(r.Context()).Error("settings request failed", map[string]any{"err": err})
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
