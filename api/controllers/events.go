package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matrknhash/marketplace-backend/api/middleware"
	"github.com/matrknhash/marketplace-backend/api/responses"
	"github.com/matrknhash/marketplace-backend/internal/notifications"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

const sseHeartbeatInterval = 25 * time.Second

// StreamEvents holds the connection open and pushes order notifications to
// the caller as server-sent events. Admin subscribers also receive the
// new-order broadcast stream.
func StreamEvents(hub *notifications.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported by the connection"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		channel, err := hub.Register(userID, middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer hub.Unregister(channel)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(sseHeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case event, open := <-channel.Events():
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					logg.Error(logg.WithUserID(r.Context(), userID.String()), "marshal notification event", err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
				flusher.Flush()
			}
		}
	}
}
