package listing

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotRegistryUnavailable wraps any failure of the booking slot registry lookup.
	ErrSlotRegistryUnavailable = errors.New("listing: slot registry unavailable")
	// ErrUnresolvedBookingReference is returned when a booking reference was not part of the resolved batch.
	ErrUnresolvedBookingReference = errors.New("listing: booking reference not resolved")
	// ErrInvalidCandidate is wrapped by every CandidateError.
	ErrInvalidCandidate = errors.New("listing: invalid hearing candidate")
	// ErrMissingDate is returned when a required date is the zero value.
	ErrMissingDate = errors.New("listing: date is required")
)

// CandidateError reports a candidate rejected before grouping.
type CandidateError struct {
	Index    int
	SourceID string
	Reason   string
}

// Error implements the error interface.
func (e *CandidateError) Error() string {
	if e == nil {
		return ""
	}
	if e.SourceID == "" {
		return fmt.Sprintf("hearing candidate %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("hearing candidate %d (%s): %s", e.Index, e.SourceID, e.Reason)
}

// Unwrap lets callers match ErrInvalidCandidate.
func (e *CandidateError) Unwrap() error {
	return ErrInvalidCandidate
}
