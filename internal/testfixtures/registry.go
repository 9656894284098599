package testfixtures

import (
	"context"
	"slices"
	"sync"

	"github.com/example/hearing-scheduler/internal/listing"
)

// SlotRegistry is an in-memory listing.SlotRegistry that records every call.
type SlotRegistry struct {
	mu    sync.Mutex
	slots listing.SlotMap
	err   error
	calls [][]listing.BookingReference
}

// NewSlotRegistry returns a registry serving the given reservations.
func NewSlotRegistry(slots map[string][]string) *SlotRegistry {
	r := &SlotRegistry{slots: make(listing.SlotMap, len(slots))}
	for ref, schedules := range slots {
		for _, schedule := range schedules {
			r.slots[listing.BookingReference(ref)] = append(r.slots[listing.BookingReference(ref)], listing.CourtScheduleID(schedule))
		}
	}
	return r
}

// FailWith makes every subsequent lookup return err.
func (r *SlotRegistry) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// GetSlots returns the reservations for the requested references only.
func (r *SlotRegistry) GetSlots(_ context.Context, refs []listing.BookingReference) (listing.SlotMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, slices.Clone(refs))
	if r.err != nil {
		return nil, r.err
	}

	out := make(listing.SlotMap, len(refs))
	for _, ref := range refs {
		if schedules, ok := r.slots[ref]; ok {
			out[ref] = slices.Clone(schedules)
		}
	}
	return out, nil
}

// Calls returns the number of lookups served.
func (r *SlotRegistry) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// LastRequest returns the references passed to the most recent lookup.
func (r *SlotRegistry) LastRequest() []listing.BookingReference {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return slices.Clone(r.calls[len(r.calls)-1])
}
