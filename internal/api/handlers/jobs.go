package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/talos/backend/internal/scheduler"
	"github.com/wonny/talos/backend/pkg/logger"
)

// JobHandler exposes scheduler state
type JobHandler struct {
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(sched *scheduler.Scheduler, log *logger.Logger) *JobHandler {
	return &JobHandler{scheduler: sched, logger: log}
}

// GetStats returns execution statistics for all jobs.
// GET /api/jobs/stats
func (h *JobHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.scheduler.GetJobStats(),
	})
}

// TriggerJob runs a job immediately, outside its schedule.
// POST /api/jobs/{name}/run
func (h *JobHandler) TriggerJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.WithField("job", name).Info("Job triggered via API")
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"message": "Job started: " + name,
	})
}
