package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/example/hearing-scheduler/internal/persistence"
)

const tableBookingSlots = "booking_slots"

type slotRow struct {
	BookingReference string `db:"booking_reference"`
	CourtScheduleID  string `db:"court_schedule_id"`
}

// ReserveSlot records that slot.CourtScheduleID is held under
// slot.BookingReference. Reserving the same pair twice is a no-op.
func (s *Storage) ReserveSlot(ctx context.Context, slot persistence.BookingSlot) error {
	reservedAt := slot.ReservedAt
	if reservedAt.IsZero() {
		reservedAt = time.Now()
	}

	query, args, err := goqu.Dialect(dialectSQLite3).
		Insert(tableBookingSlots).
		Rows(goqu.Record{
			"booking_reference": slot.BookingReference,
			"court_schedule_id": slot.CourtScheduleID,
			"reserved_at":       reservedAt.UTC().Format(time.RFC3339Nano),
		}).
		OnConflict(goqu.DoNothing()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite: build slot insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: reserve slot %s/%s: %w", slot.BookingReference, slot.CourtScheduleID, mapError(err))
	}
	return nil
}

// ReleaseSlot removes one reservation, or returns persistence.ErrNotFound.
func (s *Storage) ReleaseSlot(ctx context.Context, bookingReference, courtScheduleID string) error {
	query, args, err := goqu.Dialect(dialectSQLite3).
		Delete(tableBookingSlots).
		Where(goqu.Ex{
			"booking_reference": bookingReference,
			"court_schedule_id": courtScheduleID,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite: build slot delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: release slot %s/%s: %w", bookingReference, courtScheduleID, mapError(err))
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetSlots answers a batched lookup with a single IN query. References
// without reservations are absent from the result.
func (s *Storage) GetSlots(ctx context.Context, bookingReferences []string) (map[string][]string, error) {
	slots := make(map[string][]string, len(bookingReferences))
	if len(bookingReferences) == 0 {
		return slots, nil
	}

	query, args, err := goqu.Dialect(dialectSQLite3).
		From(tableBookingSlots).
		Select("booking_reference", "court_schedule_id").
		Where(goqu.Ex{"booking_reference": bookingReferences}).
		Order(goqu.I("booking_reference").Asc(), goqu.I("court_schedule_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: build slot lookup: %w", err)
	}

	var rows []slotRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: lookup %d booking references: %w", len(bookingReferences), mapError(err))
	}
	for _, row := range rows {
		slots[row.BookingReference] = append(slots[row.BookingReference], row.CourtScheduleID)
	}
	return slots, nil
}
