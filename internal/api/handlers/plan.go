package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/rebalance"
	"github.com/wonny/talos/backend/pkg/logger"
)

// PlanHandler serves persisted rebalance plans and holdings
type PlanHandler struct {
	repo   *rebalance.Repository
	logger *logger.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(repo *rebalance.Repository, log *logger.Logger) *PlanHandler {
	return &PlanHandler{repo: repo, logger: log}
}

// GetPlan returns the rebalance plan for a date.
// GET /api/plan/{date}
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(w, mux.Vars(r)["date"])
	if !ok {
		return
	}

	plan, err := h.repo.PlanByDate(r.Context(), date)
	if errors.Is(err, contracts.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to query plan")
		respondError(w, http.StatusInternalServerError, "Failed to query plan")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    plan,
	})
}

// GetHoldings returns the recorded positions.
// GET /api/holdings
func (h *PlanHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.repo.Holdings(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to query holdings")
		respondError(w, http.StatusInternalServerError, "Failed to query holdings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"count":    len(holdings),
			"holdings": holdings,
		},
	})
}
