package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storyforge/internal/gateway/service/publish"
	"storyforge/internal/tracker"
)

// TrackerHandler serves tracker browsing and issue submission.
type TrackerHandler struct {
	svc *publish.Service
}

func NewTrackerHandler(svc *publish.Service) *TrackerHandler {
	return &TrackerHandler{svc: svc}
}

func (h *TrackerHandler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": h.svc.Options(r.Context()).Projects})
}

func (h *TrackerHandler) HandlePriorities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"priorities": h.svc.Options(r.Context()).Priorities})
}

// HandleFields returns the custom-field metadata for one project so the
// form can decide which extra inputs to show.
func (h *TrackerHandler) HandleFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	project := strings.TrimSpace(r.URL.Query().Get("project"))
	if project == "" {
		writeError(w, http.StatusBadRequest, "project is required")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.FieldMeta(r.Context(), project))
}

// HandleCreateIssue submits the story. Validation problems come back as
// 422 with the missing field list; tracker failures as 502.
func (h *TrackerHandler) HandleCreateIssue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req publish.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.Publish(r.Context(), req)
	var verr *publish.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "missing required fields",
			"missing": verr.Missing,
		})
		return
	case errors.Is(err, publish.ErrBlocked):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, tracker.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "tracker is not configured")
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
