package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storyforge/internal/gateway/session"
	"storyforge/internal/render"
)

// SessionHandler serves the editable story of a session and its export
// artifacts.
type SessionHandler struct {
	sessions *session.Store
}

func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// HandleStory reads (GET) or replaces (PUT) the session's story text.
func (h *SessionHandler) HandleStory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		sess, err := h.sessions.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeJSON(w, http.StatusOK, sess)
	case http.MethodPut:
		var in struct {
			Story string `json:"story"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		sess, err := h.sessions.UpdateStory(id, in.Story)
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeJSON(w, http.StatusOK, sess)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// HandleExport renders the story as docx, pdf, txt or md and serves it
// as a download named historia.<ext>.
func (h *SessionHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil || strings.TrimSpace(sess.Story) == "" {
		writeError(w, http.StatusNotFound, "no story to export")
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	var (
		data []byte
		mime string
	)
	switch format {
	case "docx":
		data, err = render.DOCX(sess.Story)
		mime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		data, err = render.PDF(sess.Story)
		mime = "application/pdf"
	case "txt":
		data = []byte(sess.Story)
		mime = "text/plain; charset=utf-8"
	case "md":
		data = []byte(sess.Story)
		mime = "text/markdown; charset=utf-8"
	default:
		writeError(w, http.StatusBadRequest, "unsupported format: "+format)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=historia.%s", format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
