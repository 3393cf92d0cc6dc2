package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/screening"
	"github.com/wonny/talos/backend/pkg/logger"
)

// ScoreHandler serves persisted factor scores and portfolio targets
// ⭐ SSOT: 스코어링 조회 API는 이 구조체에서만
type ScoreHandler struct {
	repo   *screening.Repository
	logger *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(repo *screening.Repository, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{repo: repo, logger: log}
}

// GetScores returns factor scores for a date, rank ascending.
// GET /api/scores/{date}?limit=50
func (h *ScoreHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := parseDate(w, mux.Vars(r)["date"])
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit (positive integer expected)")
			return
		}
		limit = n
	}

	var scores []contracts.FactorScore
	var err error
	if limit > 0 {
		scores, err = h.repo.TopScores(ctx, date, limit)
	} else {
		scores, err = h.repo.ScoresByDate(ctx, date)
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to query scores")
		respondError(w, http.StatusInternalServerError, "Failed to query scores")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"date":   date.Format("2006-01-02"),
			"count":  len(scores),
			"scores": scores,
		},
	})
}

// GetTarget returns the portfolio target computed on a date.
// GET /api/target/{date}
func (h *ScoreHandler) GetTarget(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(w, mux.Vars(r)["date"])
	if !ok {
		return
	}

	target, err := h.repo.TargetByDate(r.Context(), date)
	h.respondTarget(w, target, err)
}

// GetLatestTarget returns the most recent target on or before as_of (기본: 오늘).
// GET /api/target/latest?as_of=2025-07-01
func (h *ScoreHandler) GetLatestTarget(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, ok := parseDate(w, raw)
		if !ok {
			return
		}
		asOf = parsed
	}

	target, err := h.repo.LatestTarget(r.Context(), asOf)
	h.respondTarget(w, target, err)
}

func (h *ScoreHandler) respondTarget(w http.ResponseWriter, target *contracts.PortfolioTarget, err error) {
	if errors.Is(err, contracts.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Target not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to query target")
		respondError(w, http.StatusInternalServerError, "Failed to query target")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    target,
	})
}
