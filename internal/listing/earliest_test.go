package listing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hearing-scheduler/internal/listing"
	tf "github.com/example/hearing-scheduler/internal/testfixtures"
)

func TestEarliestHearingDate(t *testing.T) {
	tests := []struct {
		name     string
		notice   time.Time
		referral time.Time
		expected time.Time
	}{
		{
			name:     "same_day_notice_period_dominates",
			notice:   tf.Date(2018, time.January, 1),
			referral: tf.Date(2018, time.January, 1),
			expected: tf.Date(2018, time.January, 29),
		},
		{
			name:     "late_referral_dominates",
			notice:   tf.Date(2018, time.January, 1),
			referral: tf.Date(2018, time.January, 20),
			expected: tf.Date(2018, time.February, 3),
		},
		{
			name:     "slightly_later_referral_notice_still_dominates",
			notice:   tf.Date(2018, time.January, 1),
			referral: tf.Date(2018, time.January, 10),
			expected: tf.Date(2018, time.January, 29),
		},
		{
			name:     "tie_between_rules",
			notice:   tf.Date(2018, time.January, 1),
			referral: tf.Date(2018, time.January, 15),
			expected: tf.Date(2018, time.January, 29),
		},
		{
			name:     "time_of_day_is_ignored",
			notice:   time.Date(2018, time.January, 1, 23, 30, 0, 0, time.UTC),
			referral: time.Date(2018, time.January, 1, 8, 0, 0, 0, time.UTC),
			expected: tf.Date(2018, time.January, 29),
		},
		{
			name:     "crosses_leap_day",
			notice:   tf.Date(2020, time.February, 10),
			referral: tf.Date(2020, time.February, 10),
			expected: tf.Date(2020, time.March, 9),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := listing.EarliestHearingDate(tc.notice, tc.referral)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEarliestHearingDate_RequiresBothDates(t *testing.T) {
	_, err := listing.EarliestHearingDate(time.Time{}, tf.Date(2018, time.January, 1))
	assert.ErrorIs(t, err, listing.ErrMissingDate)

	_, err = listing.EarliestHearingDate(tf.Date(2018, time.January, 1), time.Time{})
	assert.ErrorIs(t, err, listing.ErrMissingDate)
}
