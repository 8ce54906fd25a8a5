package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"storyforge/internal/gateway/service/discovery"
)

// maxUploadBytes bounds the multipart form kept in memory per run.
const maxUploadBytes = 32 << 20

// DiscoveryHandler runs the agent pipeline on uploaded material.
type DiscoveryHandler struct {
	svc *discovery.Service
}

func NewDiscoveryHandler(svc *discovery.Service) *DiscoveryHandler {
	return &DiscoveryHandler{svc: svc}
}

// HandleRun accepts a multipart form with an optional "file" part, a
// "text" field and an optional client-chosen "run_id" for websocket
// watching, runs the pipeline synchronously and returns the session.
func (h *DiscoveryHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !h.svc.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "pipeline is not configured")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := discovery.Input{
		RunID: strings.TrimSpace(r.FormValue("run_id")),
		Notes: r.FormValue("text"),
	}
	if file, header, err := r.FormFile("file"); err == nil {
		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		file.Close()
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file")
			return
		}
		in.FileName = header.Filename
		in.FileData = data
	}

	sess, err := h.svc.Run(r.Context(), in)
	switch {
	case errors.Is(err, discovery.ErrInputTooShort):
		writeError(w, http.StatusBadRequest, "combined input is too short")
		return
	case errors.Is(err, discovery.ErrPipelineDisabled):
		writeError(w, http.StatusServiceUnavailable, "pipeline is not configured")
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"run_id":     in.RunID,
		"analysis":   sess.Analysis,
		"draft":      sess.Draft,
		"story":      sess.Story,
		"title":      sess.Title,
	})
}
