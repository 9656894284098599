package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/hearing-scheduler/internal/application"
)

type slotService interface {
	ReserveSlot(ctx context.Context, params application.SlotParams) error
	ReleaseSlot(ctx context.Context, params application.SlotParams) error
}

// SlotHandler maintains booking slot reservations.
type SlotHandler struct {
	service   slotService
	responder responder
}

func NewSlotHandler(service slotService, logger *slog.Logger) *SlotHandler {
	return &SlotHandler{service: service, responder: newResponder(logger)}
}

// Reserve handles PUT /booking-slots/{reference}/{scheduleID}.
func (h *SlotHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(ctx context.Context, params application.SlotParams) error {
		return h.service.ReserveSlot(ctx, params)
	})
}

// Release handles DELETE /booking-slots/{reference}/{scheduleID}.
func (h *SlotHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(ctx context.Context, params application.SlotParams) error {
		return h.service.ReleaseSlot(ctx, params)
	})
}

func (h *SlotHandler) apply(w http.ResponseWriter, r *http.Request, op func(context.Context, application.SlotParams) error) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params := application.SlotParams{
		BookingReference: strings.TrimSpace(chi.URLParam(r, "reference")),
		CourtScheduleID:  strings.TrimSpace(chi.URLParam(r, "scheduleID")),
	}
	if params.BookingReference == "" || params.CourtScheduleID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingSlotParts)
		return
	}

	if err := op(r.Context(), params); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
