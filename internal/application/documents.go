package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/hearing-scheduler/internal/listing"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CandidateDocument is the wire and file representation of a hearing
// candidate. It is shared by the HTTP API, the CLI and stored payloads.
type CandidateDocument struct {
	Kind             string                    `json:"kind" yaml:"kind"`
	SourceID         string                    `json:"source_id" yaml:"source_id"`
	NextHearing      HearingDocument           `json:"next_hearing" yaml:"next_hearing"`
	Referral         *ReferralDocument         `json:"referral,omitempty" yaml:"referral,omitempty"`
	ProsecutionCase  *ProsecutionCaseDocument  `json:"prosecution_case,omitempty" yaml:"prosecution_case,omitempty"`
	CourtApplication *CourtApplicationDocument `json:"court_application,omitempty" yaml:"court_application,omitempty"`
}

// HearingDocument describes the requested next hearing.
type HearingDocument struct {
	HearingTypeID       *string `json:"hearing_type_id,omitempty" yaml:"hearing_type_id,omitempty"`
	CourtLocation       *string `json:"court_location,omitempty" yaml:"court_location,omitempty"`
	WeekCommencingDate  *string `json:"week_commencing_date,omitempty" yaml:"week_commencing_date,omitempty"`
	ListedStartDateTime *string `json:"listed_start_date_time,omitempty" yaml:"listed_start_date_time,omitempty"`
	BookingReference    *string `json:"booking_reference,omitempty" yaml:"booking_reference,omitempty"`
	EstimatedMinutes    int     `json:"estimated_minutes,omitempty" yaml:"estimated_minutes,omitempty"`
}

// ReferralDocument carries referral dates as YYYY-MM-DD.
type ReferralDocument struct {
	NoticeDate   string `json:"notice_date" yaml:"notice_date"`
	ReferralDate string `json:"referral_date" yaml:"referral_date"`
}

// ProsecutionCaseDocument is the case payload carried by a prosecution case candidate.
type ProsecutionCaseDocument struct {
	ID         string              `json:"id" yaml:"id"`
	URN        string              `json:"urn,omitempty" yaml:"urn,omitempty"`
	Defendants []DefendantDocument `json:"defendants,omitempty" yaml:"defendants,omitempty"`
}

// DefendantDocument is a defendant within a prosecution case.
type DefendantDocument struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Offences []OffenceDocument `json:"offences,omitempty" yaml:"offences,omitempty"`
}

// OffenceDocument is an offence charged against a defendant.
type OffenceDocument struct {
	ID              string                   `json:"id" yaml:"id"`
	Code            string                   `json:"code,omitempty" yaml:"code,omitempty"`
	Title           string                   `json:"title,omitempty" yaml:"title,omitempty"`
	CommittingCourt *CommittingCourtDocument `json:"committing_court,omitempty" yaml:"committing_court,omitempty"`
}

// CommittingCourtDocument identifies the court an offence was committed from.
type CommittingCourtDocument struct {
	CourtHouseCode string `json:"court_house_code" yaml:"court_house_code"`
	CourtHouseName string `json:"court_house_name,omitempty" yaml:"court_house_name,omitempty"`
	CourtHouseType string `json:"court_house_type,omitempty" yaml:"court_house_type,omitempty"`
}

// CourtApplicationDocument is the application payload carried by a court
// application candidate.
type CourtApplicationDocument struct {
	ID              string   `json:"id" yaml:"id"`
	ApplicationType string   `json:"application_type,omitempty" yaml:"application_type,omitempty"`
	LinkedCaseIDs   []string `json:"linked_case_ids,omitempty" yaml:"linked_case_ids,omitempty"`
}

// ListingNeedDocument is the wire representation of an assembled listing need.
type ListingNeedDocument struct {
	ID                  string                     `json:"id"`
	KeyDigest           string                     `json:"key_digest"`
	HearingTypeID       *string                    `json:"hearing_type_id,omitempty"`
	CourtLocation       *string                    `json:"court_location,omitempty"`
	WeekCommencingDate  *string                    `json:"week_commencing_date,omitempty"`
	ListedStartDateTime *string                    `json:"listed_start_date_time,omitempty"`
	BookingReference    *string                    `json:"booking_reference,omitempty"`
	EstimatedMinutes    int                        `json:"estimated_minutes,omitempty"`
	EarliestHearingDate *string                    `json:"earliest_hearing_date,omitempty"`
	SourceIDs           []string                   `json:"source_ids"`
	ProsecutionCases    []ProsecutionCaseDocument  `json:"prosecution_cases,omitempty"`
	CourtApplications   []CourtApplicationDocument `json:"court_applications,omitempty"`
}

// DecodeCandidates converts documents into hearing candidates. Every
// malformed field is reported in a single *ValidationError keyed by
// "candidates[i].<field>".
func DecodeCandidates(docs []CandidateDocument) ([]listing.HearingCandidate, error) {
	vErr := &ValidationError{}
	candidates := make([]listing.HearingCandidate, 0, len(docs))
	for i, doc := range docs {
		candidates = append(candidates, doc.toCandidate(fmt.Sprintf("candidates[%d]", i), vErr))
	}
	if vErr.HasErrors() {
		return nil, vErr
	}
	return candidates, nil
}

func (d CandidateDocument) toCandidate(prefix string, vErr *ValidationError) listing.HearingCandidate {
	candidate := listing.HearingCandidate{
		Kind:     listing.CandidateKind(strings.TrimSpace(d.Kind)),
		SourceID: strings.TrimSpace(d.SourceID),
		NextHearing: listing.NextHearing{
			HearingTypeID:    d.NextHearing.HearingTypeID,
			CourtLocation:    d.NextHearing.CourtLocation,
			EstimatedMinutes: d.NextHearing.EstimatedMinutes,
		},
	}

	hearing := d.NextHearing
	if hearing.WeekCommencingDate != nil {
		if t, ok := parseField(*hearing.WeekCommencingDate, DateLayout, prefix+".next_hearing.week_commencing_date", vErr); ok {
			candidate.NextHearing.WeekCommencingDate = &t
		}
	}
	if hearing.ListedStartDateTime != nil {
		if t, ok := parseField(*hearing.ListedStartDateTime, time.RFC3339, prefix+".next_hearing.listed_start_date_time", vErr); ok {
			candidate.NextHearing.ListedStartDateTime = &t
		}
	}
	if hearing.BookingReference != nil {
		ref := listing.BookingReference(*hearing.BookingReference)
		candidate.NextHearing.BookingReference = &ref
	}

	if d.Referral != nil {
		notice, okNotice := parseField(d.Referral.NoticeDate, DateLayout, prefix+".referral.notice_date", vErr)
		referral, okReferral := parseField(d.Referral.ReferralDate, DateLayout, prefix+".referral.referral_date", vErr)
		if okNotice && okReferral {
			candidate.Referral = &listing.Referral{NoticeDate: notice, ReferralDate: referral}
		}
	}

	if d.ProsecutionCase != nil {
		pc := d.ProsecutionCase.toModel()
		candidate.ProsecutionCase = &pc
	}
	if d.CourtApplication != nil {
		app := d.CourtApplication.toModel()
		candidate.CourtApplication = &app
	}
	return candidate
}

func parseField(value, layout, field string, vErr *ValidationError) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		vErr.add(field, "is required")
		return time.Time{}, false
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		vErr.add(field, fmt.Sprintf("must use layout %s", layout))
		return time.Time{}, false
	}
	return t, true
}

func (d ProsecutionCaseDocument) toModel() listing.ProsecutionCase {
	pc := listing.ProsecutionCase{ID: d.ID, URN: d.URN}
	for _, def := range d.Defendants {
		defendant := listing.Defendant{ID: def.ID, Name: def.Name}
		for _, off := range def.Offences {
			offence := listing.Offence{ID: off.ID, Code: off.Code, Title: off.Title}
			if off.CommittingCourt != nil {
				offence.CommittingCourt = &listing.CommittingCourt{
					CourtHouseCode: off.CommittingCourt.CourtHouseCode,
					CourtHouseName: off.CommittingCourt.CourtHouseName,
					CourtHouseType: off.CommittingCourt.CourtHouseType,
				}
			}
			defendant.Offences = append(defendant.Offences, offence)
		}
		pc.Defendants = append(pc.Defendants, defendant)
	}
	return pc
}

func (d CourtApplicationDocument) toModel() listing.CourtApplication {
	return listing.CourtApplication{
		ID:              d.ID,
		ApplicationType: d.ApplicationType,
		LinkedCaseIDs:   append([]string(nil), d.LinkedCaseIDs...),
	}
}

// NewCandidateDocument renders a hearing candidate back into its document form.
func NewCandidateDocument(c listing.HearingCandidate) CandidateDocument {
	doc := CandidateDocument{
		Kind:     string(c.Kind),
		SourceID: c.SourceID,
		NextHearing: HearingDocument{
			HearingTypeID:       c.NextHearing.HearingTypeID,
			CourtLocation:       c.NextHearing.CourtLocation,
			WeekCommencingDate:  formatDate(c.NextHearing.WeekCommencingDate),
			ListedStartDateTime: formatInstant(c.NextHearing.ListedStartDateTime),
			EstimatedMinutes:    c.NextHearing.EstimatedMinutes,
		},
	}
	if ref := c.NextHearing.BookingReference; ref != nil {
		s := string(*ref)
		doc.NextHearing.BookingReference = &s
	}
	if c.Referral != nil {
		doc.Referral = &ReferralDocument{
			NoticeDate:   c.Referral.NoticeDate.Format(DateLayout),
			ReferralDate: c.Referral.ReferralDate.Format(DateLayout),
		}
	}
	if c.ProsecutionCase != nil {
		pc := newProsecutionCaseDocument(*c.ProsecutionCase)
		doc.ProsecutionCase = &pc
	}
	if c.CourtApplication != nil {
		app := newCourtApplicationDocument(*c.CourtApplication)
		doc.CourtApplication = &app
	}
	return doc
}

func newProsecutionCaseDocument(pc listing.ProsecutionCase) ProsecutionCaseDocument {
	doc := ProsecutionCaseDocument{ID: pc.ID, URN: pc.URN}
	for _, def := range pc.Defendants {
		defendant := DefendantDocument{ID: def.ID, Name: def.Name}
		for _, off := range def.Offences {
			offence := OffenceDocument{ID: off.ID, Code: off.Code, Title: off.Title}
			if off.CommittingCourt != nil {
				offence.CommittingCourt = &CommittingCourtDocument{
					CourtHouseCode: off.CommittingCourt.CourtHouseCode,
					CourtHouseName: off.CommittingCourt.CourtHouseName,
					CourtHouseType: off.CommittingCourt.CourtHouseType,
				}
			}
			defendant.Offences = append(defendant.Offences, offence)
		}
		doc.Defendants = append(doc.Defendants, defendant)
	}
	return doc
}

func newCourtApplicationDocument(app listing.CourtApplication) CourtApplicationDocument {
	return CourtApplicationDocument{
		ID:              app.ID,
		ApplicationType: app.ApplicationType,
		LinkedCaseIDs:   append([]string(nil), app.LinkedCaseIDs...),
	}
}

// NewListingNeedDocument renders an assembled need for output.
func NewListingNeedDocument(need ListingNeed) ListingNeedDocument {
	key := need.Key
	doc := ListingNeedDocument{
		ID:                  need.ID,
		KeyDigest:           need.KeyDigest,
		HearingTypeID:       key.HearingTypeID(),
		CourtLocation:       key.CourtLocation(),
		WeekCommencingDate:  formatDate(key.WeekCommencingDate()),
		ListedStartDateTime: formatInstant(key.ListedStartDateTime()),
		EstimatedMinutes:    need.EstimatedMinutes,
		EarliestHearingDate: formatDate(need.EarliestHearingDate),
		SourceIDs:           append([]string{}, need.SourceIDs...),
	}
	if ref := key.BookingReference(); ref != nil {
		s := string(*ref)
		doc.BookingReference = &s
	}
	for _, pc := range need.ProsecutionCases {
		doc.ProsecutionCases = append(doc.ProsecutionCases, newProsecutionCaseDocument(pc))
	}
	for _, app := range need.CourtApplications {
		doc.CourtApplications = append(doc.CourtApplications, newCourtApplicationDocument(app))
	}
	return doc
}

// NewListingNeedDocuments renders needs in order. It never returns nil.
func NewListingNeedDocuments(needs []ListingNeed) []ListingNeedDocument {
	docs := make([]ListingNeedDocument, 0, len(needs))
	for _, need := range needs {
		docs = append(docs, NewListingNeedDocument(need))
	}
	return docs
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}
