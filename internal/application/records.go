package application

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/example/hearing-scheduler/internal/listing"
	"github.com/example/hearing-scheduler/internal/persistence"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// candidatePayload is the JSON column holding the nested case or application.
type candidatePayload struct {
	ProsecutionCase  *ProsecutionCaseDocument  `json:"prosecution_case,omitempty"`
	CourtApplication *CourtApplicationDocument `json:"court_application,omitempty"`
}

func toCandidateRecord(batchID string, position int, c listing.HearingCandidate) (persistence.CandidateRecord, error) {
	doc := NewCandidateDocument(c)
	payload, err := json.Marshal(candidatePayload{
		ProsecutionCase:  doc.ProsecutionCase,
		CourtApplication: doc.CourtApplication,
	})
	if err != nil {
		return persistence.CandidateRecord{}, fmt.Errorf("encode payload of %s: %w", c.SourceID, err)
	}

	record := persistence.CandidateRecord{
		BatchID:             batchID,
		Position:            position,
		Kind:                string(c.Kind),
		SourceID:            c.SourceID,
		HearingTypeID:       c.NextHearing.HearingTypeID,
		CourtLocation:       c.NextHearing.CourtLocation,
		WeekCommencingDate:  c.NextHearing.WeekCommencingDate,
		ListedStartDateTime: c.NextHearing.ListedStartDateTime,
		EstimatedMinutes:    c.NextHearing.EstimatedMinutes,
		Payload:             payload,
	}
	if ref := c.NextHearing.BookingReference; ref != nil {
		s := string(*ref)
		record.BookingReference = &s
	}
	if c.Referral != nil {
		notice, referral := c.Referral.NoticeDate, c.Referral.ReferralDate
		record.NoticeDate = &notice
		record.ReferralDate = &referral
	}
	return record, nil
}

func fromCandidateRecord(record persistence.CandidateRecord) (listing.HearingCandidate, error) {
	var payload candidatePayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return listing.HearingCandidate{}, fmt.Errorf("decode payload of %s: %w", record.SourceID, err)
	}

	c := listing.HearingCandidate{
		Kind:     listing.CandidateKind(record.Kind),
		SourceID: record.SourceID,
		NextHearing: listing.NextHearing{
			HearingTypeID:       record.HearingTypeID,
			CourtLocation:       record.CourtLocation,
			WeekCommencingDate:  record.WeekCommencingDate,
			ListedStartDateTime: record.ListedStartDateTime,
			EstimatedMinutes:    record.EstimatedMinutes,
		},
	}
	if record.BookingReference != nil {
		ref := listing.BookingReference(*record.BookingReference)
		c.NextHearing.BookingReference = &ref
	}
	if record.NoticeDate != nil && record.ReferralDate != nil {
		c.Referral = &listing.Referral{NoticeDate: *record.NoticeDate, ReferralDate: *record.ReferralDate}
	}
	if payload.ProsecutionCase != nil {
		pc := payload.ProsecutionCase.toModel()
		c.ProsecutionCase = &pc
	}
	if payload.CourtApplication != nil {
		app := payload.CourtApplication.toModel()
		c.CourtApplication = &app
	}
	return c, nil
}
