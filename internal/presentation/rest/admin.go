package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/loansi/scoring-engine/internal/application/usecase"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
)

// AdminHandler serves the configuration management endpoints. Writes are
// versioned: the caller sends the config version it read and a stale
// version gets 409 back.
type AdminHandler struct {
	logger *slog.Logger
	config *usecase.ManageConfigurationUseCase
}

// NewAdminHandler creates the configuration admin HTTP handler.
func NewAdminHandler(logger *slog.Logger, config *usecase.ManageConfigurationUseCase) *AdminHandler {
	return &AdminHandler{logger: logger, config: config}
}

// RegisterRoutes attaches the admin routes to the given mux.
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/products", h.seedProduct)
	mux.HandleFunc("PUT /admin/products/{id}/criteria", h.updateCriteria)
	mux.HandleFunc("PUT /admin/products/{id}/tiers", h.updateTiers)
	mux.HandleFunc("PUT /admin/products/{id}/rejection-factors", h.updateRejectionFactors)
}

type updateCriteriaRequest struct {
	Version int64         `json:"version"`
	Catalog model.Catalog `json:"catalog"`
}

type updateTiersRequest struct {
	Version int64            `json:"version"`
	Tiers   []model.RiskTier `json:"tiers"`
}

type updateFactorsRequest struct {
	Version int64                   `json:"version"`
	Factors []model.RejectionFactor `json:"factors"`
}

func (h *AdminHandler) seedProduct(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if !h.decode(w, r, &product) {
		return
	}
	if err := h.config.SeedProduct(r.Context(), product); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"product_id": product.ID, "config_version": 1})
}

func (h *AdminHandler) updateCriteria(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	var req updateCriteriaRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Catalog.ProductID = productID
	if err := h.config.UpdateCriteria(r.Context(), productID, req.Catalog, req.Version); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "config_version": req.Version + 1})
}

func (h *AdminHandler) updateTiers(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	var req updateTiersRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.config.UpdateTiers(r.Context(), productID, req.Tiers, req.Version); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "config_version": req.Version + 1})
}

func (h *AdminHandler) updateRejectionFactors(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	var req updateFactorsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.config.UpdateRejectionFactors(r.Context(), productID, req.Factors, req.Version); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "config_version": req.Version + 1})
}

func (h *AdminHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *AdminHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var cfgErr *model.ConfigurationError
	var ruleErr *model.BusinessRuleViolation

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, port.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, port.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.As(err, &cfgErr), errors.As(err, &ruleErr):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.ErrorContext(r.Context(), "configuration write failed", "error", err)
		err = errors.New("internal error")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
