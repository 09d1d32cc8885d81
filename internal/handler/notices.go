package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/forgo/habitquest/internal/middleware"
	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/service"
)

// NoticeHandler streams transient notices over SSE
type NoticeHandler struct {
	hub *service.NoticeHub
}

// NewNoticeHandler creates a new notice handler
func NewNoticeHandler(hub *service.NoticeHub) *NoticeHandler {
	return &NoticeHandler{hub: hub}
}

// Stream handles GET /v1/notices/stream
func (h *NoticeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.New().String()
	sub := h.hub.Subscribe(ownerID, subscriberID)
	defer h.hub.Unsubscribe(ownerID, subscriberID)

	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":%q}\n\n", subscriberID)
	flusher.Flush()

	for {
		select {
		case notice, ok := <-sub.Notices:
			if !ok {
				return
			}
			fmt.Fprint(w, notice.Format())
			flusher.Flush()
		case <-sub.Done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
