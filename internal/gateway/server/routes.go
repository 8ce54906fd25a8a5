package server

import (
	"net/http"

	"storyforge/internal/gateway/handler"
	"storyforge/internal/gateway/middleware"
)

func NewMux(
	statusHandler *handler.StatusHandler,
	discoveryHandler *handler.DiscoveryHandler,
	sessionHandler *handler.SessionHandler,
	trackerHandler *handler.TrackerHandler,
	watchHandler *handler.WatchHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", statusHandler.HandleStatus)
	mux.HandleFunc("/api/discovery/run", discoveryHandler.HandleRun)
	mux.HandleFunc("/api/sessions/{id}/story", sessionHandler.HandleStory)
	mux.HandleFunc("/api/sessions/{id}/export", sessionHandler.HandleExport)

	mux.HandleFunc("/api/tracker/projects", trackerHandler.HandleProjects)
	mux.HandleFunc("/api/tracker/priorities", trackerHandler.HandlePriorities)
	mux.HandleFunc("/api/tracker/fields", trackerHandler.HandleFields)
	mux.HandleFunc("/api/tracker/issue", trackerHandler.HandleCreateIssue)

	mux.HandleFunc("/api/runs/watch", watchHandler.HandleWatch)

	return middleware.CORS(mux)
}
