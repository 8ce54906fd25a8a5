// Package handler exposes the JSON API: discovery runs, session editing,
// artifact export, tracker browsing and issue submission.
package handler

import (
	"encoding/json"
	"net/http"

	"storyforge/internal/gateway/config"
	"storyforge/internal/gateway/service/publish"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// StatusHandler reports what the deployment can do so the frontend can
// gray out the disabled parts.
type StatusHandler struct {
	cfg     *config.Config
	publish *publish.Service
}

func NewStatusHandler(cfg *config.Config, publishSvc *publish.Service) *StatusHandler {
	return &StatusHandler{cfg: cfg, publish: publishSvc}
}

func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	opts := h.publish.Options(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"pipeline_enabled": h.cfg.PipelineEnabled(),
		"tracker_enabled":  h.cfg.TrackerEnabled(),
		"publish_state":    h.publish.State(),
		"project_count":    len(opts.Projects),
	})
}
