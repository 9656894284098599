package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/hearing-scheduler/internal/listing"
)

var candidateCounter uint64

var referenceTime = time.Date(2018, time.January, 1, 10, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// CandidateOption configures a generated hearing candidate.
type CandidateOption func(*listing.HearingCandidate)

// NewCaseCandidate returns a prosecution case candidate with one defendant
// and one offence. Every field of the hearing descriptor is absent unless
// overridden.
func NewCaseCandidate(opts ...CandidateOption) listing.HearingCandidate {
	idx := atomic.AddUint64(&candidateCounter, 1)
	id := fmt.Sprintf("case-%03d", idx)
	candidate := listing.HearingCandidate{
		Kind:     listing.KindProsecutionCase,
		SourceID: id,
		ProsecutionCase: &listing.ProsecutionCase{
			ID:  id,
			URN: fmt.Sprintf("URN%06d", idx),
			Defendants: []listing.Defendant{{
				ID:   fmt.Sprintf("defendant-%03d", idx),
				Name: fmt.Sprintf("Defendant %03d", idx),
				Offences: []listing.Offence{{
					ID:    fmt.Sprintf("offence-%03d", idx),
					Code:  "TH68001",
					Title: "Theft from a shop",
				}},
			}},
		},
	}
	for _, opt := range opts {
		opt(&candidate)
	}
	return candidate
}

// NewApplicationCandidate returns a court application candidate.
func NewApplicationCandidate(opts ...CandidateOption) listing.HearingCandidate {
	idx := atomic.AddUint64(&candidateCounter, 1)
	id := fmt.Sprintf("application-%03d", idx)
	candidate := listing.HearingCandidate{
		Kind:     listing.KindCourtApplication,
		SourceID: id,
		CourtApplication: &listing.CourtApplication{
			ID:              id,
			ApplicationType: "Application to vary bail",
		},
	}
	for _, opt := range opts {
		opt(&candidate)
	}
	return candidate
}

// WithSourceID overrides the source id and the id of the nested payload.
func WithSourceID(id string) CandidateOption {
	return func(c *listing.HearingCandidate) {
		c.SourceID = id
		if c.ProsecutionCase != nil {
			c.ProsecutionCase.ID = id
		}
		if c.CourtApplication != nil {
			c.CourtApplication.ID = id
		}
	}
}

// WithHearingType sets the hearing type id.
func WithHearingType(id string) CandidateOption {
	return func(c *listing.HearingCandidate) {
		c.NextHearing.HearingTypeID = &id
	}
}

// WithCourtLocation sets the court location.
func WithCourtLocation(location string) CandidateOption {
	return func(c *listing.HearingCandidate) {
		c.NextHearing.CourtLocation = &location
	}
}

// WithWeekCommencing sets the week commencing date.
func WithWeekCommencing(date time.Time) CandidateOption {
	return func(c *listing.HearingCandidate) {
		c.NextHearing.WeekCommencingDate = &date
	}
}

// WithListedStart sets the exact listed start.
func WithListedStart(start time.Time) CandidateOption {
	return func(c *listing.HearingCandidate) {
		c.NextHearing.ListedStartDateTime = &start
	}
}

// WithBookingReference sets the booking reference.
func WithBookingReference(ref string) CandidateOption {
	return func(c *listing.HearingCandidate) {
		r := listing.BookingReference(ref)
		c.NextHearing.BookingReference = &r
	}
}

// WithEstimatedMinutes sets the estimated hearing duration.
func WithEstimatedMinutes(minutes int) CandidateOption {
	return func(c *listing.HearingCandidate) {
		c.NextHearing.EstimatedMinutes = minutes
	}
}

// WithReferral attaches notice and referral dates.
func WithReferral(notice, referral time.Time) CandidateOption {
	return func(c *listing.HearingCandidate) {
		c.Referral = &listing.Referral{NoticeDate: notice, ReferralDate: referral}
	}
}

// Date is shorthand for midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
