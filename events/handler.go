package events

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/auth"
)

// DefaultHeartbeat is how often an idle stream gets a comment line so proxies
// keep the connection open.
const DefaultHeartbeat = 25 * time.Second

// Handler streams a Broadcaster over SSE.
type Handler struct {
	broadcaster *Broadcaster
	heartbeat   time.Duration
}

// NewHandler creates a Handler. A non-positive heartbeat means
// DefaultHeartbeat.
func NewHandler(b *Broadcaster, heartbeat time.Duration) *Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Handler{broadcaster: b, heartbeat: heartbeat}
}

// HandleStream godoc
// @Summary Stream product events
// @Description Server-Sent Events stream of product.created, product.updated, product.sold, product.rented and product.deleted.
// @Tags Products
// @Produce text/event-stream
// @Success 200 {object} events.Event
// @Failure 500 {object} apperror.ErrorResponse "Streaming unsupported"
// @Router /product/events [get]
func (h *Handler) HandleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			auth.WriteError(w, r, apperror.NewInternalError("streaming unsupported", nil))
			return
		}

		// The server write timeout would otherwise cut the stream.
		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

		id, ch := h.broadcaster.Subscribe()
		defer h.broadcaster.Unsubscribe(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, ": connected %s\n\n", id)
		flusher.Flush()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case ev, open := <-ch:
				if !open {
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					log.Printf("events: encode %s: %v", ev.Type, err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
				flusher.Flush()
			}
		}
	}
}
