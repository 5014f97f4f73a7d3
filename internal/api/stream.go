package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julianstephens/dosely/internal/logger"
)

// keepAliveInterval spaces comment frames that keep idle proxies from closing the stream.
var keepAliveInterval = 30 * time.Second

// StreamToday sends a "view" event for every published snapshot until the client leaves.
func (h *Handler) StreamToday(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	views, cancel := h.Resolver.Subscribe()
	defer cancel()

	if _, ok := h.Resolver.Last(); !ok {
		if _, err := h.Resolver.ResolveToday(r.Context(), nil); err != nil {
			logger.Warn("Initial resolve for stream failed", "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case v, open := <-views:
			if !open {
				return
			}
			data, err := json.Marshal(toTodayResponse(v))
			if err != nil {
				logger.Warn("Failed to encode view", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: view\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
