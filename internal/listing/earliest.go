package listing

import (
	"fmt"
	"time"
)

const (
	// NoticePeriodDays is the minimum wait after the defendant was notified.
	NoticePeriodDays = 28
	// ReferralPeriodDays is the minimum wait after the case was referred for listing.
	ReferralPeriodDays = 14
)

// EarliestHearingDate returns the first calendar date a referred case may be
// listed: the later of noticeDate plus the notice period and referralDate plus
// the referral period. Only the calendar date of each input is used and the
// result is midnight UTC.
func EarliestHearingDate(noticeDate, referralDate time.Time) (time.Time, error) {
	if noticeDate.IsZero() {
		return time.Time{}, fmt.Errorf("%w: notice date", ErrMissingDate)
	}
	if referralDate.IsZero() {
		return time.Time{}, fmt.Errorf("%w: referral date", ErrMissingDate)
	}

	byNotice := calendarDate(noticeDate).AddDate(0, 0, NoticePeriodDays)
	byReferral := calendarDate(referralDate).AddDate(0, 0, ReferralPeriodDays)
	if byReferral.After(byNotice) {
		return byReferral, nil
	}
	return byNotice, nil
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
