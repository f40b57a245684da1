package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dairy-herd-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.Get("/low-stock", lowStockHandler(svc))

		ir.Post("/items", createItemHandler(svc))
		ir.Get("/items", listItemsHandler(svc))
		ir.Get("/items/{itemID}", getItemHandler(svc))
		ir.Patch("/items/{itemID}", updateItemHandler(svc))
		ir.Delete("/items/{itemID}", deleteItemHandler(svc))

		ir.Post("/items/{itemID}/movements", createMovementHandler(svc))
		ir.Get("/items/{itemID}/movements", listMovementsHandler(svc))
	})
}

type createItemRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category" enums:"feed,medicine,equipment,supplies,other"`
	Unit         string   `json:"unit"`
	Quantity     float64  `json:"quantity"`
	ReorderLevel float64  `json:"reorder_level"`
	UnitCost     *float64 `json:"unit_cost"`
	Supplier     string   `json:"supplier"`
	ExpiryDate   string   `json:"expiry_date"` // YYYY-MM-DD
	Notes        string   `json:"notes"`
}

type updateItemRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Unit         *string  `json:"unit"`
	ReorderLevel *float64 `json:"reorder_level"`
	UnitCost     *float64 `json:"unit_cost"`
	Supplier     *string  `json:"supplier"`
	ExpiryDate   *string  `json:"expiry_date"`
	Notes        *string  `json:"notes"`
}

type movementRequest struct {
	Kind       string  `json:"kind" enums:"in,out,adjust"`
	Quantity   float64 `json:"quantity"`
	Reason     string  `json:"reason"`
	OccurredAt string  `json:"occurred_at"` // RFC3339 o YYYY-MM-DD, opcional
}

type itemResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     Category   `json:"category"`
	Unit         string     `json:"unit"`
	Quantity     float64    `json:"quantity"`
	ReorderLevel float64    `json:"reorder_level"`
	LowStock     bool       `json:"low_stock"`
	UnitCost     *float64   `json:"unit_cost,omitempty"`
	Supplier     string     `json:"supplier,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type movementResponse struct {
	ID         string       `json:"id"`
	ItemID     string       `json:"item_id"`
	Kind       MovementKind `json:"kind"`
	Quantity   float64      `json:"quantity"`
	Delta      float64      `json:"delta"`
	Reason     string       `json:"reason,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type adjustResponse struct {
	Item     itemResponse     `json:"item"`
	Movement movementResponse `json:"movement"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// createItemHandler godoc
// @Summary Crear item de inventario
// @Tags inventory
// @Accept json
// @Produce json
// @Param payload body createItemRequest true "Datos del item"
// @Success 201 {object} itemResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /inventory/items [post]
func createItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		expiry, err := parseOptionalDate(req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
			return
		}

		it, err := svc.CreateItem(r.Context(), claims.FarmID, CreateItemInput{
			Name:         req.Name,
			Category:     req.Category,
			Unit:         req.Unit,
			Quantity:     req.Quantity,
			ReorderLevel: req.ReorderLevel,
			UnitCost:     req.UnitCost,
			Supplier:     req.Supplier,
			ExpiryDate:   expiry,
			Notes:        req.Notes,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

// listItemsHandler godoc
// @Summary Listar inventario
// @Tags inventory
// @Produce json
// @Param category query string false "feed | medicine | equipment | supplies | other"
// @Param q query string false "Búsqueda por nombre o proveedor"
// @Success 200 {array} itemResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /inventory/items [get]
func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		items, err := svc.ListItems(r.Context(), claims.FarmID, ListFilter{
			Category: Category(strings.ToLower(strings.TrimSpace(q.Get("category")))),
			Q:        q.Get("q"),
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
	}
}

// lowStockHandler godoc
// @Summary Items con stock bajo
// @Description Items en o por debajo de su punto de reposición, más críticos primero.
// @Tags inventory
// @Produce json
// @Success 200 {array} itemResponse
// @Failure 401 {object} errorResponse
// @Router /inventory/low-stock [get]
func lowStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.LowStock(r.Context(), claims.FarmID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
	}
}

// getItemHandler godoc
// @Summary Obtener item
// @Tags inventory
// @Produce json
// @Param itemID path string true "ID del item"
// @Success 200 {object} itemResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /inventory/items/{itemID} [get]
func getItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		it, err := svc.GetItem(r.Context(), claims.FarmID, chi.URLParam(r, "itemID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

// updateItemHandler godoc
// @Summary Actualizar item (PATCH)
// @Description La cantidad no se edita acá: usar movimientos.
// @Tags inventory
// @Accept json
// @Produce json
// @Param itemID path string true "ID del item"
// @Param payload body updateItemRequest true "Campos a modificar"
// @Success 200 {object} itemResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /inventory/items/{itemID} [patch]
func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		var expiry *time.Time
		if req.ExpiryDate != nil {
			d, err := parseOptionalDate(*req.ExpiryDate)
			if err != nil || d == nil {
				writeError(w, http.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
				return
			}
			expiry = d
		}

		it, err := svc.UpdateItem(r.Context(), claims.FarmID, chi.URLParam(r, "itemID"), UpdateItemInput{
			Name:         req.Name,
			Category:     req.Category,
			Unit:         req.Unit,
			ReorderLevel: req.ReorderLevel,
			UnitCost:     req.UnitCost,
			Supplier:     req.Supplier,
			ExpiryDate:   expiry,
			Notes:        req.Notes,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

// deleteItemHandler godoc
// @Summary Eliminar item
// @Tags inventory
// @Param itemID path string true "ID del item"
// @Success 204
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /inventory/items/{itemID} [delete]
func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.DeleteItem(r.Context(), claims.FarmID, chi.URLParam(r, "itemID")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// createMovementHandler godoc
// @Summary Registrar movimiento de stock
// @Description `in` suma, `out` resta, `adjust` fija el stock contado. El stock nunca queda negativo (409).
// @Tags inventory
// @Accept json
// @Produce json
// @Param itemID path string true "ID del item"
// @Param payload body movementRequest true "Movimiento"
// @Success 201 {object} adjustResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "stock insuficiente"
// @Router /inventory/items/{itemID}/movements [post]
func createMovementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req movementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		var at time.Time
		if s := strings.TrimSpace(req.OccurredAt); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				t, err = time.Parse("2006-01-02", s)
			}
			if err != nil {
				writeError(w, http.StatusBadRequest, "occurred_at must be RFC3339 or YYYY-MM-DD")
				return
			}
			at = t
		}

		it, m, err := svc.AdjustStock(r.Context(), claims.FarmID, chi.URLParam(r, "itemID"), AdjustInput{
			Kind:       req.Kind,
			Quantity:   req.Quantity,
			Reason:     req.Reason,
			OccurredAt: at,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, adjustResponse{
			Item:     toItemResponse(it),
			Movement: toMovementResponse(m),
		})
	}
}

// listMovementsHandler godoc
// @Summary Historial de movimientos de un item
// @Tags inventory
// @Produce json
// @Param itemID path string true "ID del item"
// @Success 200 {array} movementResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /inventory/items/{itemID}/movements [get]
func listMovementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.FarmClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListMovements(r.Context(), claims.FarmID, chi.URLParam(r, "itemID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]movementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMovementResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		Unit:         it.Unit,
		Quantity:     it.Quantity,
		ReorderLevel: it.ReorderLevel,
		LowStock:     it.Low(),
		UnitCost:     it.UnitCost,
		Supplier:     it.Supplier,
		ExpiryDate:   it.ExpiryDate,
		Notes:        it.Notes,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toItemResponses(items []Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toMovementResponse(m Movement) movementResponse {
	return movementResponse{
		ID:         m.ID,
		ItemID:     m.ItemID,
		Kind:       m.Kind,
		Quantity:   m.Quantity,
		Delta:      m.Delta,
		Reason:     m.Reason,
		OccurredAt: m.OccurredAt,
	}
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		middleware.LoggerFrom(r.Context()).Error("inventory request failed", map[string]any{"err": err})
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
