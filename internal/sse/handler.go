package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/casevault/backend/internal/logger"
)

// Handler serves the live feed. Clients may narrow the stream with
// ?types=draw.resolved,battle.completed; an empty filter gets everything.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		client := hub.Register(parseTypeFilter(r))
		log := logger.FromContext(r.Context())
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"total_clients", hub.ClientCount())

		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected,
				"client_id", client.ID,
				"total_clients", hub.ClientCount())
		}()

		// Greeting frame confirms the subscription before any event fires.
		hello := Event{
			ID:        client.ID,
			Type:      "connected",
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID},
		}
		if !writeFrame(w, flusher, log, hello) {
			return
		}

		keepalive := time.NewTicker(KeepaliveInterval)
		defer keepalive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case evt, open := <-client.EventChannel:
				if !open {
					return
				}
				if !writeFrame(w, flusher, log, evt) {
					return
				}

			case <-keepalive.C:
				ping := Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}
				if !writeFrame(w, flusher, log, ping) {
					return
				}
			}
		}
	}
}

// writeFrame sends one SSE frame, reporting whether the connection is
// still usable.
func writeFrame(w http.ResponseWriter, flusher http.Flusher, log *slog.Logger, evt Event) bool {
	msg, err := FormatSSEMessage(evt)
	if err != nil {
		log.Error(LogMsgWriteError, "error", err)
		return true
	}
	if _, err := w.Write(msg); err != nil {
		log.Warn(LogMsgWriteError, "error", err)
		return false
	}
	flusher.Flush()
	return true
}

func parseTypeFilter(r *http.Request) []string {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		return nil
	}
	var types []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}
