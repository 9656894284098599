package application

import (
	"time"

	"github.com/example/hearing-scheduler/internal/listing"
)

// ListingNeed is an assembled listing need with its generated identifier.
type ListingNeed struct {
	ID string
	listing.ListingNeed
}

// AssembleParams selects the candidates to assemble. Exactly one of BatchID
// and Candidates must be set.
type AssembleParams struct {
	BatchID    string
	Candidates []listing.HearingCandidate
}

// AssembleResult holds the listing needs in emission order.
type AssembleResult struct {
	Needs []ListingNeed
}

// SaveBatchParams wraps a batch of candidates to store for later assembly.
type SaveBatchParams struct {
	BatchID    string
	Candidates []listing.HearingCandidate
}

// EarliestDateParams carries the dates of a referral.
type EarliestDateParams struct {
	NoticeDate   time.Time
	ReferralDate time.Time
}

// SlotParams identifies one booking slot reservation.
type SlotParams struct {
	BookingReference string
	CourtScheduleID  string
}
