package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"storyforge/internal/gateway/service/runevents"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// WatchHandler streams pipeline progress of one run over a websocket.
type WatchHandler struct {
	hub *runevents.Hub
}

func NewWatchHandler(hub *runevents.Hub) *WatchHandler {
	return &WatchHandler{hub: hub}
}

type watchWSOutbound struct {
	Type    string `json:"type"`
	RunID   string `json:"runId,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// HandleWatch upgrades the connection and relays hub events for the run
// until the run finishes or the client goes away. Subscribing to an
// unknown run yields an error frame, then the socket closes.
func (h *WatchHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	// reader drains control frames and detects the client closing
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	writeJSONFrame := func(out watchWSOutbound) bool {
		if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
			return false
		}
		return conn.WriteJSON(out) == nil
	}

	events, subErr := h.hub.Subscribe(ctx, runID)
	if subErr != nil {
		writeJSONFrame(watchWSOutbound{
			Type:    "error",
			Code:    "invalid_argument",
			Message: subErr.Error(),
		})
		return
	}
	if !writeJSONFrame(watchWSOutbound{Type: "subscribed", RunID: runID}) {
		return
	}

	ticker := time.NewTicker(watchWSPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if !writeJSONFrame(watchWSOutbound{
				Type:    evt.Type,
				RunID:   runID,
				Stage:   evt.Stage,
				Message: evt.Message,
			}) {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
