package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/hearing-scheduler/internal/application"
)

type listingService interface {
	AssembleListingNeeds(ctx context.Context, params application.AssembleParams) (application.AssembleResult, error)
	SaveBatch(ctx context.Context, params application.SaveBatchParams) error
	DeleteBatch(ctx context.Context, batchID string) error
	EarliestHearingDate(ctx context.Context, params application.EarliestDateParams) (time.Time, error)
}

// ListingHandler serves listing assembly, candidate batches and the earliest
// hearing date calculator.
type ListingHandler struct {
	service   listingService
	responder responder
	logger    *slog.Logger
}

// NewListingHandler builds a handler around the listing service.
func NewListingHandler(service listingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type assembleRequest struct {
	BatchID    string                          `json:"batch_id"`
	Candidates []application.CandidateDocument `json:"candidates"`
}

type assembleResponse struct {
	ListingNeeds []application.ListingNeedDocument `json:"listing_needs"`
}

type batchRequest struct {
	Candidates []application.CandidateDocument `json:"candidates"`
}

type batchResponse struct {
	BatchID    string `json:"batch_id"`
	Candidates int    `json:"candidates"`
}

type earliestDateResponse struct {
	NoticeDate          string `json:"notice_date"`
	ReferralDate        string `json:"referral_date"`
	EarliestHearingDate string `json:"earliest_hearing_date"`
}

// Assemble handles POST /listing-needs.
func (h *ListingHandler) Assemble(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req assembleRequest
	if err := h.responder.decode(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	candidates, err := application.DecodeCandidates(req.Candidates)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	result, err := h.service.AssembleListingNeeds(r.Context(), application.AssembleParams{
		BatchID:    strings.TrimSpace(req.BatchID),
		Candidates: candidates,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "ListingHandler", "Assemble").
		DebugContext(r.Context(), "listing needs rendered", "listing_needs", len(result.Needs))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, assembleResponse{
		ListingNeeds: application.NewListingNeedDocuments(result.Needs),
	})
}

// PutBatch handles PUT /candidate-batches/{batchID}.
func (h *ListingHandler) PutBatch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	batchID := strings.TrimSpace(chi.URLParam(r, "batchID"))
	if batchID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingBatchID)
		return
	}

	var req batchRequest
	if err := h.responder.decode(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	candidates, err := application.DecodeCandidates(req.Candidates)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if err := h.service.SaveBatch(r.Context(), application.SaveBatchParams{BatchID: batchID, Candidates: candidates}); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, batchResponse{BatchID: batchID, Candidates: len(candidates)})
}

// DeleteBatch handles DELETE /candidate-batches/{batchID}.
func (h *ListingHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	batchID := strings.TrimSpace(chi.URLParam(r, "batchID"))
	if batchID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingBatchID)
		return
	}

	if err := h.service.DeleteBatch(r.Context(), batchID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// EarliestDate handles GET /earliest-hearing-date.
func (h *ListingHandler) EarliestDate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	fieldErrors := make(map[string]string)
	notice := parseQueryDate(query.Get("notice_date"), "notice_date", fieldErrors)
	referral := parseQueryDate(query.Get("referral_date"), "referral_date", fieldErrors)
	if len(fieldErrors) > 0 {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{FieldErrors: fieldErrors})
		return
	}

	earliest, err := h.service.EarliestHearingDate(r.Context(), application.EarliestDateParams{
		NoticeDate:   notice,
		ReferralDate: referral,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, earliestDateResponse{
		NoticeDate:          notice.Format(application.DateLayout),
		ReferralDate:        referral.Format(application.DateLayout),
		EarliestHearingDate: earliest.Format(application.DateLayout),
	})
}

func parseQueryDate(value, field string, fieldErrors map[string]string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		fieldErrors[field] = "is required"
		return time.Time{}
	}
	t, err := time.Parse(application.DateLayout, value)
	if err != nil {
		fieldErrors[field] = "must use layout " + application.DateLayout
		return time.Time{}
	}
	return t
}
