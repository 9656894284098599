package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hearing-scheduler/internal/application"
	"github.com/example/hearing-scheduler/internal/listing"
	"github.com/example/hearing-scheduler/internal/metrics"
	tf "github.com/example/hearing-scheduler/internal/testfixtures"
)

// faultyRegistry serves stored reservations unless the fixture registry has
// been told to fail.
type faultyRegistry struct {
	primary listing.SlotRegistry
	faults  *tf.SlotRegistry
}

func (r *faultyRegistry) GetSlots(ctx context.Context, refs []listing.BookingReference) (listing.SlotMap, error) {
	if _, err := r.faults.GetSlots(ctx, refs); err != nil {
		return nil, err
	}
	return r.primary.GetSlots(ctx, refs)
}

type testServer struct {
	handler  http.Handler
	harness  *tf.SQLiteHarness
	registry *tf.SlotRegistry
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	harness := tf.NewSQLiteHarness(t)
	m := metrics.New()

	registry := tf.NewSlotRegistry(nil)
	stored := application.NewRepositorySlotRegistry(harness.Slots)

	listings := application.NewListingService(harness.Candidates, &faultyRegistry{primary: stored, faults: registry},
		application.WithIDGenerator(tf.NewIDGenerator("need").Next),
		application.WithMetrics(m),
		application.WithLogger(logger),
	)
	slots := application.NewSlotService(harness.Slots, nil, logger)

	handler := NewRouter(RouterConfig{
		Listings: NewListingHandler(listings, logger),
		Slots:    NewSlotHandler(slots, logger),
		Metrics:  m.Handler(),
		Health:   harness.Storage.Ping,
		Middleware: []func(http.Handler) http.Handler{
			RequestLogger(logger),
			RequestMetrics(m),
		},
	})
	return &testServer{handler: handler, harness: harness, registry: registry, metrics: m}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

const mergedCandidates = `{"candidates":[
	{"kind":"prosecution_case","source_id":"case-1",
	 "next_hearing":{"hearing_type_id":"trial","booking_reference":"REF-2","estimated_minutes":30},
	 "referral":{"notice_date":"2018-01-01","referral_date":"2018-01-20"},
	 "prosecution_case":{"id":"case-1","urn":"URN1","defendants":[{"id":"d-1","name":"A","offences":[{"id":"o-1","code":"TH68001"}]}]}},
	{"kind":"court_application","source_id":"app-1",
	 "next_hearing":{"hearing_type_id":"trial","booking_reference":"REF-1"},
	 "court_application":{"id":"app-1","application_type":"bail"}},
	{"kind":"prosecution_case","source_id":"case-2",
	 "next_hearing":{"hearing_type_id":"sentence"},
	 "prosecution_case":{"id":"case-2"}}
]}`

func TestAssembleInlineCandidates(t *testing.T) {
	srv := newTestServer(t)
	srv.harness.Reserve(t, map[string][]string{"REF-1": {"S1"}, "REF-2": {"S1"}})

	rec := srv.do(t, http.MethodPost, "/listing-needs", mergedCandidates)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp assembleResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.ListingNeeds, 2)

	first := resp.ListingNeeds[0]
	assert.Equal(t, "need-1", first.ID)
	assert.Equal(t, []string{"case-1", "app-1"}, first.SourceIDs)
	assert.Equal(t, "REF-1", *first.BookingReference)
	assert.Equal(t, "2018-02-03", *first.EarliestHearingDate)
	assert.Equal(t, 30, first.EstimatedMinutes)
	require.Len(t, first.ProsecutionCases, 1)
	assert.Equal(t, "o-1", first.ProsecutionCases[0].Defendants[0].Offences[0].ID)
	require.Len(t, first.CourtApplications, 1)

	assert.Equal(t, []string{"case-2"}, resp.ListingNeeds[1].SourceIDs)
	assert.Nil(t, resp.ListingNeeds[1].BookingReference)
}

func TestAssembleEmptyReturnsEmptyList(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/listing-needs", `{"candidates":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"listing_needs":[]}`, rec.Body.String())
}

func TestAssembleStoredBatch(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/candidate-batches/batch-1", mergedCandidates)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"batch_id":"batch-1","candidates":3}`, rec.Body.String())

	rec = srv.do(t, http.MethodPut, "/candidate-batches/batch-1", mergedCandidates)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/listing-needs", `{"batch_id":"batch-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp assembleResponse
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.ListingNeeds, 3, "without reservations REF-1 and REF-2 stay apart")

	rec = srv.do(t, http.MethodDelete, "/candidate-batches/batch-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodPost, "/listing-needs", `{"batch_id":"batch-1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssembleErrors(t *testing.T) {
	tests := map[string]struct {
		body       string
		wantStatus int
		wantField  string
	}{
		"malformed json":   {`{"candidates":`, http.StatusBadRequest, ""},
		"unknown field":    {`{"candidatez":[]}`, http.StatusBadRequest, ""},
		"trailing brace":   {`{"batch_id":"x"}}`, http.StatusBadRequest, ""},
		"trailing value":   {`{"batch_id":"x"} {"batch_id":"y"}`, http.StatusBadRequest, ""},
		"bad date":         {`{"candidates":[{"kind":"prosecution_case","source_id":"a","next_hearing":{"week_commencing_date":"June"},"prosecution_case":{"id":"a"}}]}`, http.StatusUnprocessableEntity, "candidates[0].next_hearing.week_commencing_date"},
		"unknown kind":     {`{"candidates":[{"kind":"appeal","source_id":"a"}]}`, http.StatusUnprocessableEntity, "candidates[0]"},
		"batch and inline": {`{"batch_id":"b","candidates":[{"kind":"court_application","source_id":"a","court_application":{"id":"a"}}]}`, http.StatusUnprocessableEntity, "batch_id"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := srv.do(t, http.MethodPost, "/listing-needs", tc.body)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			var resp errorResponse
			decodeBody(t, rec, &resp)
			if tc.wantField != "" {
				assert.Contains(t, resp.Errors, tc.wantField)
			}
		})
	}
}

func TestAssembleRegistryUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.registry.FailWith(errors.New("registry offline"))

	rec := srv.do(t, http.MethodPost, "/listing-needs", mergedCandidates)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))

	var resp errorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "SLOT_REGISTRY_UNAVAILABLE", resp.ErrorCode)
}

func TestEarliestHearingDateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/earliest-hearing-date?notice_date=2018-01-01&referral_date=2018-01-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"notice_date":"2018-01-01","referral_date":"2018-01-10","earliest_hearing_date":"2018-01-29"}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/earliest-hearing-date?notice_date=01/01/2018", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "must use layout 2006-01-02", resp.Errors["notice_date"])
	assert.Equal(t, "is required", resp.Errors["referral_date"])
}

func TestBookingSlotEndpoints(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodPut, "/booking-slots/REF-1/S1", "").Code)
	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodPut, "/booking-slots/REF-2/S1", "").Code)

	rec := srv.do(t, http.MethodPost, "/listing-needs", mergedCandidates)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp assembleResponse
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.ListingNeeds, 2, "shared schedule merges the booking references")

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/booking-slots/REF-2/S1", "").Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/booking-slots/REF-2/S1", "").Code)
}

func TestRouterFallbacksAndOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, srv.do(t, http.MethodGet, "/listing-needs", "").Code)

	rec := srv.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	srv.do(t, http.MethodPost, "/listing-needs", `{"candidates":[]}`)
	rec = srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `listing_assemblies_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/listing-needs"`)
}
