package testfixtures

import (
	"context"
	"testing"

	"github.com/example/hearing-scheduler/internal/listing"
)

func TestSlotRegistryServesRequestedReferencesOnly(t *testing.T) {
	registry := NewSlotRegistry(map[string][]string{
		"R1": {"S1"},
		"R2": {"S2"},
	})

	slots, err := registry.GetSlots(context.Background(), []listing.BookingReference{"R1", "R3"})
	if err != nil {
		t.Fatalf("GetSlots returned error: %v", err)
	}
	if len(slots) != 1 || len(slots["R1"]) != 1 || slots["R1"][0] != "S1" {
		t.Fatalf("unexpected slots: %v", slots)
	}
	if registry.Calls() != 1 {
		t.Fatalf("expected one call, got %d", registry.Calls())
	}
	if last := registry.LastRequest(); len(last) != 2 {
		t.Fatalf("expected last request to hold two references, got %v", last)
	}
}
