package listing

import "time"

// BookingReference identifies a provisional reservation held in the slot registry.
type BookingReference string

// CourtScheduleID identifies a concrete bookable court room session.
type CourtScheduleID string

// CandidateKind tags the variant carried by a HearingCandidate.
type CandidateKind string

const (
	// KindProsecutionCase marks a candidate backed by a prosecution case.
	KindProsecutionCase CandidateKind = "prosecution_case"
	// KindCourtApplication marks a candidate backed by a court application.
	KindCourtApplication CandidateKind = "court_application"
)

// NextHearing is the normalized hearing descriptor shared by every candidate variant.
type NextHearing struct {
	HearingTypeID       *string
	CourtLocation       *string
	WeekCommencingDate  *time.Time
	ListedStartDateTime *time.Time
	BookingReference    *BookingReference
	EstimatedMinutes    int
}

// Referral carries the dates used to compute the earliest lawful hearing date.
type Referral struct {
	NoticeDate   time.Time
	ReferralDate time.Time
}

// HearingCandidate is one case or application competing for a listing slot.
type HearingCandidate struct {
	Kind        CandidateKind
	SourceID    string
	NextHearing NextHearing
	Referral    *Referral

	ProsecutionCase  *ProsecutionCase
	CourtApplication *CourtApplication
}

// ProsecutionCase is the nested payload of a case candidate.
type ProsecutionCase struct {
	ID         string
	URN        string
	Defendants []Defendant
}

// Defendant belongs to a prosecution case.
type Defendant struct {
	ID       string
	Name     string
	Offences []Offence
}

// Offence is charged against a defendant.
type Offence struct {
	ID              string
	Code            string
	Title           string
	CommittingCourt *CommittingCourt
}

// CommittingCourt decorates an offence sent up from a lower court.
type CommittingCourt struct {
	CourtHouseCode string
	CourtHouseName string
	CourtHouseType string
}

// CourtApplication is the nested payload of an application candidate.
type CourtApplication struct {
	ID              string
	ApplicationType string
	LinkedCaseIDs   []string
}

// ListingNeed is one hearing occurrence serving every member candidate.
type ListingNeed struct {
	Key       EquivalenceKey
	KeyDigest string
	SourceIDs []string

	ProsecutionCases  []ProsecutionCase
	CourtApplications []CourtApplication

	EstimatedMinutes    int
	EarliestHearingDate *time.Time
}
