package persistence

import "context"

// CandidateRepository stores ordered batches of hearing candidates.
type CandidateRepository interface {
	SaveBatch(ctx context.Context, batchID string, records []CandidateRecord) error
	ListBatch(ctx context.Context, batchID string) ([]CandidateRecord, error)
	DeleteBatch(ctx context.Context, batchID string) error
}

// SlotRepository stores booking slot reservations and answers batched lookups.
type SlotRepository interface {
	ReserveSlot(ctx context.Context, slot BookingSlot) error
	ReleaseSlot(ctx context.Context, bookingReference, courtScheduleID string) error
	GetSlots(ctx context.Context, bookingReferences []string) (map[string][]string, error)
}
