package api

import (
	"net/http"
	"time"

	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/retention"
)

// CronHandler exposes the purge for an external scheduler.
type CronHandler struct {
	Service   *inventory.Service
	Retention retention.Policy
}

type cleanupResponse struct {
	DeletedCount int       `json:"deleted_count"`
	Remaining    int       `json:"remaining,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Error        string    `json:"error,omitempty"`
}

// Cleanup handles POST /api/cron/cleanup. On failure the response still
// carries how many items were purged so the caller can retry the rest.
func (h *CronHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.PurgeExpired(r.Context(), h.Retention)
	resp := cleanupResponse{
		DeletedCount: res.Purged,
		Remaining:    res.Remaining,
		Timestamp:    time.Now().UTC(),
	}
	if err != nil {
		resp.Error = err.Error()
		jsonResponse(w, http.StatusInternalServerError, resp)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}
