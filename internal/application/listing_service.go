package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/hearing-scheduler/internal/listing"
	"github.com/example/hearing-scheduler/internal/persistence"
)

// Metrics receives assembly observations. internal/metrics provides the
// Prometheus implementation.
type Metrics interface {
	ObserveAssembly(outcome string, needs int)
	ObserveSlotLookup(duration time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) ObserveAssembly(string, int)            {}
func (noopMetrics) ObserveSlotLookup(time.Duration, error) {}

// ListingService assembles hearing candidates into listing needs.
type ListingService struct {
	candidates  persistence.CandidateRepository
	registry    listing.SlotRegistry
	courts      listing.CommittingCourtLookup
	metrics     Metrics
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// ListingServiceOption customises a ListingService.
type ListingServiceOption func(*ListingService)

// WithCommittingCourts enables committing court enrichment of assembled needs.
func WithCommittingCourts(lookup listing.CommittingCourtLookup) ListingServiceOption {
	return func(s *ListingService) { s.courts = lookup }
}

// WithMetrics records assembly outcomes and slot lookup latency.
func WithMetrics(metrics Metrics) ListingServiceOption {
	return func(s *ListingService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithIDGenerator overrides the listing need id source.
func WithIDGenerator(next func() string) ListingServiceOption {
	return func(s *ListingService) {
		if next != nil {
			s.idGenerator = next
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ListingServiceOption {
	return func(s *ListingService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the base logger used when the context carries none.
func WithLogger(logger *slog.Logger) ListingServiceOption {
	return func(s *ListingService) { s.logger = defaultLogger(logger) }
}

// NewListingService wires dependencies for listing operations. candidates may
// be nil when only inline candidates are assembled.
func NewListingService(candidates persistence.CandidateRepository, registry listing.SlotRegistry, opts ...ListingServiceOption) *ListingService {
	s := &ListingService{
		candidates:  candidates,
		registry:    registry,
		metrics:     noopMetrics{},
		idGenerator: uuid.NewString,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssembleListingNeeds groups the selected candidates into listing needs,
// enriches committing courts and assigns need ids. An empty selection yields
// an empty result without consulting the slot registry.
func (s *ListingService) AssembleListingNeeds(ctx context.Context, params AssembleParams) (result AssembleResult, err error) {
	if s == nil {
		return AssembleResult{}, fmt.Errorf("ListingService is nil")
	}

	logger := serviceLogger(ctx, s.logger, "ListingService", "AssembleListingNeeds")
	if params.BatchID != "" {
		logger = logger.With("batch_id", params.BatchID)
	}
	started := s.now()
	var candidates []listing.HearingCandidate
	defer func() {
		if err != nil {
			s.metrics.ObserveAssembly(ErrorKind(err), 0)
			level := slog.LevelError
			var vErr *ValidationError
			if errors.As(err, &vErr) || errors.Is(err, ErrNotFound) {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "listing assembly failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.metrics.ObserveAssembly("success", len(result.Needs))
		logger.InfoContext(ctx, "listing needs assembled",
			"candidates", len(candidates),
			"listing_needs", len(result.Needs),
			"duration", s.now().Sub(started),
		)
	}()

	candidates, err = s.selectCandidates(ctx, params)
	if err != nil {
		return AssembleResult{}, err
	}

	needs, err := listing.Group(ctx, s.timedRegistry(), candidates)
	if err != nil {
		return AssembleResult{}, mapListingError(err)
	}

	if enriched := listing.EnrichCommittingCourts(needs, s.courts); enriched > 0 {
		logger.DebugContext(ctx, "committing courts enriched", "offences", enriched)
	}

	result.Needs = make([]ListingNeed, 0, len(needs))
	for _, need := range needs {
		result.Needs = append(result.Needs, ListingNeed{ID: s.idGenerator(), ListingNeed: need})
	}
	return result, nil
}

func (s *ListingService) selectCandidates(ctx context.Context, params AssembleParams) ([]listing.HearingCandidate, error) {
	batchID := strings.TrimSpace(params.BatchID)
	if batchID != "" && len(params.Candidates) > 0 {
		vErr := &ValidationError{}
		vErr.add("batch_id", "must not be combined with inline candidates")
		return nil, vErr
	}
	if batchID == "" {
		return params.Candidates, nil
	}
	if s.candidates == nil {
		return nil, fmt.Errorf("candidate repository not configured")
	}

	records, err := s.candidates.ListBatch(ctx, batchID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	candidates := make([]listing.HearingCandidate, 0, len(records))
	for _, record := range records {
		candidate, err := fromCandidateRecord(record)
		if err != nil {
			return nil, fmt.Errorf("load batch %s: %w", batchID, err)
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// SaveBatch validates and stores candidates under a batch id for later assembly.
func (s *ListingService) SaveBatch(ctx context.Context, params SaveBatchParams) (err error) {
	if s == nil || s.candidates == nil {
		return fmt.Errorf("candidate repository not configured")
	}
	batchID := strings.TrimSpace(params.BatchID)
	logger := serviceLogger(ctx, s.logger, "ListingService", "SaveBatch", "batch_id", batchID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "batch save failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "batch saved", "candidates", len(params.Candidates))
	}()

	vErr := &ValidationError{}
	if batchID == "" {
		vErr.add("batch_id", "is required")
	}
	if len(params.Candidates) == 0 {
		vErr.add("candidates", "at least one candidate is required")
	}
	if vErr.HasErrors() {
		return vErr
	}
	if err := listing.ValidateCandidates(params.Candidates); err != nil {
		return mapListingError(err)
	}

	createdAt := s.now()
	records := make([]persistence.CandidateRecord, 0, len(params.Candidates))
	for i, candidate := range params.Candidates {
		record, err := toCandidateRecord(batchID, i, candidate)
		if err != nil {
			return err
		}
		record.CreatedAt = createdAt
		records = append(records, record)
	}

	return mapRepoError(s.candidates.SaveBatch(ctx, batchID, records))
}

// DeleteBatch removes a stored batch.
func (s *ListingService) DeleteBatch(ctx context.Context, batchID string) (err error) {
	if s == nil || s.candidates == nil {
		return fmt.Errorf("candidate repository not configured")
	}
	batchID = strings.TrimSpace(batchID)
	logger := serviceLogger(ctx, s.logger, "ListingService", "DeleteBatch", "batch_id", batchID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "batch delete failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "batch deleted")
	}()

	if batchID == "" {
		vErr := &ValidationError{}
		vErr.add("batch_id", "is required")
		return vErr
	}
	return mapRepoError(s.candidates.DeleteBatch(ctx, batchID))
}

// EarliestHearingDate returns the first date a referred case may be heard.
func (s *ListingService) EarliestHearingDate(ctx context.Context, params EarliestDateParams) (time.Time, error) {
	vErr := &ValidationError{}
	if params.NoticeDate.IsZero() {
		vErr.add("notice_date", "is required")
	}
	if params.ReferralDate.IsZero() {
		vErr.add("referral_date", "is required")
	}
	if vErr.HasErrors() {
		return time.Time{}, vErr
	}

	earliest, err := listing.EarliestHearingDate(params.NoticeDate, params.ReferralDate)
	if err != nil {
		return time.Time{}, err
	}

	if s != nil {
		serviceLogger(ctx, s.logger, "ListingService", "EarliestHearingDate").DebugContext(ctx, "earliest hearing date computed",
			"notice_date", params.NoticeDate.Format(DateLayout),
			"referral_date", params.ReferralDate.Format(DateLayout),
			"earliest_hearing_date", earliest.Format(DateLayout),
		)
	}
	return earliest, nil
}

// timedRegistry reports lookup latency for the configured registry. A nil
// registry stays nil so the grouping engine can report it as unavailable.
func (s *ListingService) timedRegistry() listing.SlotRegistry {
	if s.registry == nil {
		return nil
	}
	return listing.SlotRegistryFunc(func(ctx context.Context, refs []listing.BookingReference) (listing.SlotMap, error) {
		started := s.now()
		slots, err := s.registry.GetSlots(ctx, refs)
		s.metrics.ObserveSlotLookup(s.now().Sub(started), err)
		return slots, err
	})
}

func mapListingError(err error) error {
	if err == nil {
		return nil
	}
	var cErr *listing.CandidateError
	if errors.As(err, &cErr) {
		vErr := &ValidationError{}
		vErr.add(fmt.Sprintf("candidates[%d]", cErr.Index), cErr.Reason)
		return vErr
	}
	if errors.Is(err, listing.ErrSlotRegistryUnavailable) {
		return fmt.Errorf("%w: %w", ErrSlotRegistryUnavailable, err)
	}
	return err
}
