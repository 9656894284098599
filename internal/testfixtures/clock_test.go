package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockAdvance(t *testing.T) {
	start := time.Date(2018, time.January, 1, 9, 30, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}
	if !clock.Now().Equal(updated) {
		t.Fatalf("expected Now to reflect the advance, got %v", clock.Now())
	}
}

func TestClockStep(t *testing.T) {
	clock := NewClock(time.Time{})
	clock.SetStep(250 * time.Millisecond)

	first := clock.Now()
	second := clock.Now()
	if got := second.Sub(first); got != 250*time.Millisecond {
		t.Fatalf("expected consecutive reads 250ms apart, got %s", got)
	}
}
