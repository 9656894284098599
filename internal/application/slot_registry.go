package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/example/hearing-scheduler/internal/listing"
	"github.com/example/hearing-scheduler/internal/persistence"
)

// RepositorySlotRegistry serves slot lookups from stored reservations.
type RepositorySlotRegistry struct {
	slots persistence.SlotRepository
}

// NewRepositorySlotRegistry adapts a slot repository to listing.SlotRegistry.
func NewRepositorySlotRegistry(slots persistence.SlotRepository) *RepositorySlotRegistry {
	return &RepositorySlotRegistry{slots: slots}
}

// GetSlots issues one repository lookup for the whole batch.
func (r *RepositorySlotRegistry) GetSlots(ctx context.Context, refs []listing.BookingReference) (listing.SlotMap, error) {
	if r == nil || r.slots == nil {
		return nil, fmt.Errorf("slot repository not configured")
	}
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = string(ref)
	}
	stored, err := r.slots.GetSlots(ctx, keys)
	if err != nil {
		return nil, err
	}
	return toSlotMap(stored), nil
}

// NewStaticSlotRegistry serves a fixed reservation table, such as one read
// from a file.
func NewStaticSlotRegistry(slots map[string][]string) listing.SlotRegistry {
	table := toSlotMap(slots)
	return listing.SlotRegistryFunc(func(_ context.Context, refs []listing.BookingReference) (listing.SlotMap, error) {
		out := make(listing.SlotMap, len(refs))
		for _, ref := range refs {
			if schedules, ok := table[ref]; ok {
				out[ref] = append([]listing.CourtScheduleID(nil), schedules...)
			}
		}
		return out, nil
	})
}

func toSlotMap(slots map[string][]string) listing.SlotMap {
	out := make(listing.SlotMap, len(slots))
	for ref, schedules := range slots {
		ids := make([]listing.CourtScheduleID, len(schedules))
		for i, schedule := range schedules {
			ids[i] = listing.CourtScheduleID(schedule)
		}
		out[listing.BookingReference(ref)] = ids
	}
	return out
}

// RetryPolicy bounds the attempts made by RetryingSlotRegistry.
type RetryPolicy struct {
	AttemptTimeout  time.Duration
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		AttemptTimeout:  5 * time.Second,
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// RetryingSlotRegistry retries a registry with exponential backoff and a
// timeout per attempt. Cancellation of the caller's context stops retries.
type RetryingSlotRegistry struct {
	next   listing.SlotRegistry
	policy RetryPolicy
	logger *slog.Logger
}

// NewRetryingSlotRegistry wraps next. Zero policy fields take their defaults.
func NewRetryingSlotRegistry(next listing.SlotRegistry, policy RetryPolicy, logger *slog.Logger) *RetryingSlotRegistry {
	defaults := DefaultRetryPolicy()
	if policy.AttemptTimeout <= 0 {
		policy.AttemptTimeout = defaults.AttemptTimeout
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaults.MaxAttempts
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = defaults.InitialInterval
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = defaults.MaxInterval
	}
	return &RetryingSlotRegistry{next: next, policy: policy, logger: defaultLogger(logger)}
}

// GetSlots calls the wrapped registry until it succeeds or the attempts run out.
func (r *RetryingSlotRegistry) GetSlots(ctx context.Context, refs []listing.BookingReference) (listing.SlotMap, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = r.policy.InitialInterval
	expo.MaxInterval = r.policy.MaxInterval
	expo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(r.policy.MaxAttempts-1)), ctx)

	attempt := 0
	operation := func() (listing.SlotMap, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, r.policy.AttemptTimeout)
		defer cancel()

		slots, err := r.next.GetSlots(attemptCtx, refs)
		if err != nil && ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return slots, err
	}
	notify := func(err error, wait time.Duration) {
		r.logger.WarnContext(ctx, "slot lookup failed, retrying",
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
			"references", len(refs),
			"retry_in", wait,
			"error", err,
		)
	}

	slots, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		return nil, fmt.Errorf("slot lookup failed after %d attempt(s): %w", attempt, err)
	}
	return slots, nil
}
