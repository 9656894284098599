package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tf "github.com/example/hearing-scheduler/internal/testfixtures"
)

func TestSlotService(t *testing.T) {
	ctx := context.Background()
	harness := tf.NewSQLiteHarness(t)
	svc := NewSlotService(harness.Slots, tf.NewClock(tf.ReferenceTime()).Now, nil)

	require.NoError(t, svc.ReserveSlot(ctx, SlotParams{BookingReference: " REF-1 ", CourtScheduleID: "S1"}))

	slots, err := harness.Slots.GetSlots(ctx, []string{"REF-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, slots["REF-1"], "references are trimmed")

	require.NoError(t, svc.ReleaseSlot(ctx, SlotParams{BookingReference: "REF-1", CourtScheduleID: "S1"}))
	assert.ErrorIs(t, svc.ReleaseSlot(ctx, SlotParams{BookingReference: "REF-1", CourtScheduleID: "S1"}), ErrNotFound)
}

func TestSlotServiceValidation(t *testing.T) {
	svc := NewSlotService(tf.NewSQLiteHarness(t).Slots, nil, nil)

	err := svc.ReserveSlot(context.Background(), SlotParams{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "booking_reference")
	assert.Contains(t, vErr.FieldErrors, "court_schedule_id")

	var unconfigured *SlotService
	assert.Error(t, unconfigured.ReleaseSlot(context.Background(), SlotParams{BookingReference: "a", CourtScheduleID: "b"}))
}
