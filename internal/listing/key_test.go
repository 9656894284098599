package listing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/hearing-scheduler/internal/listing"
)

func TestEquivalenceKey_AbsentNeverCollidesWithValue(t *testing.T) {
	dash := "-"
	absent := listing.NewEquivalenceKey(listing.NextHearing{}, nil)
	present := listing.NewEquivalenceKey(listing.NextHearing{HearingTypeID: &dash}, nil)

	assert.NotEqual(t, absent, present)
	assert.NotEqual(t, absent.String(), present.String())
	assert.NotEqual(t, absent.Digest(), present.Digest())
}

func TestEquivalenceKey_Accessors(t *testing.T) {
	hearingType := "H1"
	location := "Lavender Hill"
	start := time.Date(2018, time.June, 1, 11, 0, 0, 0, time.FixedZone("BST", 3600))
	ref := listing.BookingReference("R1")

	key := listing.NewEquivalenceKey(listing.NextHearing{
		HearingTypeID:       &hearingType,
		CourtLocation:       &location,
		ListedStartDateTime: &start,
	}, &ref)

	assert.Equal(t, "H1", *key.HearingTypeID())
	assert.Equal(t, "Lavender Hill", *key.CourtLocation())
	assert.Nil(t, key.WeekCommencingDate())
	assert.True(t, start.Equal(*key.ListedStartDateTime()))
	assert.Equal(t, time.UTC, key.ListedStartDateTime().Location())
	assert.Equal(t, ref, *key.BookingReference())
	assert.Equal(t, `"H1"|"Lavender Hill"|-|2018-06-01T10:00:00Z|"R1"`, key.String())
}
