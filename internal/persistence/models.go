package persistence

import "time"

// CandidateRecord is a hearing candidate stored as part of a listing batch.
// Descriptor fields are columns; the nested case or application is kept as
// an opaque JSON payload.
type CandidateRecord struct {
	BatchID             string
	Position            int
	Kind                string
	SourceID            string
	HearingTypeID       *string
	CourtLocation       *string
	WeekCommencingDate  *time.Time
	ListedStartDateTime *time.Time
	BookingReference    *string
	EstimatedMinutes    int
	NoticeDate          *time.Time
	ReferralDate        *time.Time
	Payload             []byte
	CreatedAt           time.Time
}

// BookingSlot is a court schedule reserved under a booking reference.
type BookingSlot struct {
	BookingReference string
	CourtScheduleID  string
	ReservedAt       time.Time
}
