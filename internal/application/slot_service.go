package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/hearing-scheduler/internal/persistence"
)

// SlotService maintains booking slot reservations consulted during assembly.
type SlotService struct {
	slots  persistence.SlotRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewSlotService wires dependencies for reservation operations.
func NewSlotService(slots persistence.SlotRepository, now func() time.Time, logger *slog.Logger) *SlotService {
	if now == nil {
		now = time.Now
	}
	return &SlotService{slots: slots, now: now, logger: defaultLogger(logger)}
}

// ReserveSlot records a court schedule under a booking reference.
func (s *SlotService) ReserveSlot(ctx context.Context, params SlotParams) (err error) {
	if s == nil || s.slots == nil {
		return fmt.Errorf("SlotService is not configured")
	}
	logger := serviceLogger(ctx, s.logger, "SlotService", "ReserveSlot",
		"booking_reference", params.BookingReference,
		"court_schedule_id", params.CourtScheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "slot reservation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "slot reserved")
	}()

	if vErr := validateSlotParams(params); vErr.HasErrors() {
		return vErr
	}

	err = s.slots.ReserveSlot(ctx, persistence.BookingSlot{
		BookingReference: strings.TrimSpace(params.BookingReference),
		CourtScheduleID:  strings.TrimSpace(params.CourtScheduleID),
		ReservedAt:       s.now(),
	})
	return mapRepoError(err)
}

// ReleaseSlot removes a reservation.
func (s *SlotService) ReleaseSlot(ctx context.Context, params SlotParams) (err error) {
	if s == nil || s.slots == nil {
		return fmt.Errorf("SlotService is not configured")
	}
	logger := serviceLogger(ctx, s.logger, "SlotService", "ReleaseSlot",
		"booking_reference", params.BookingReference,
		"court_schedule_id", params.CourtScheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "slot release failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "slot released")
	}()

	if vErr := validateSlotParams(params); vErr.HasErrors() {
		return vErr
	}

	err = s.slots.ReleaseSlot(ctx, strings.TrimSpace(params.BookingReference), strings.TrimSpace(params.CourtScheduleID))
	return mapRepoError(err)
}

func validateSlotParams(params SlotParams) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(params.BookingReference) == "" {
		vErr.add("booking_reference", "is required")
	}
	if strings.TrimSpace(params.CourtScheduleID) == "" {
		vErr.add("court_schedule_id", "is required")
	}
	return vErr
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("record", "violates a storage constraint")
		return vErr
	}
	return err
}
