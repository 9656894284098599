package listing

import (
	"context"
	"strings"
)

// Group partitions candidates into listing needs. Candidates whose
// equivalence keys match share one need; needs are emitted in the order
// their keys first appear and members keep their input order.
//
// The registry is queried at most once. Any invalid candidate aborts the
// whole run before the registry is called.
func Group(ctx context.Context, registry SlotRegistry, candidates []HearingCandidate) ([]ListingNeed, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	if err := ValidateCandidates(candidates); err != nil {
		return nil, err
	}

	refs := make([]BookingReference, 0, len(candidates))
	for _, candidate := range candidates {
		if ref := candidate.NextHearing.BookingReference; ref != nil {
			refs = append(refs, *ref)
		}
	}

	canon, err := ResolveSlotEquivalence(ctx, registry, refs)
	if err != nil {
		return nil, err
	}

	index := make(map[EquivalenceKey]int)
	needs := make([]ListingNeed, 0)
	for _, candidate := range candidates {
		canonical, err := canon.Canonical(candidate.NextHearing.BookingReference)
		if err != nil {
			return nil, err
		}
		key := NewEquivalenceKey(candidate.NextHearing, canonical)

		pos, ok := index[key]
		if !ok {
			pos = len(needs)
			index[key] = pos
			needs = append(needs, ListingNeed{Key: key, KeyDigest: key.Digest()})
		}
		needs[pos].absorb(candidate)
	}

	return needs, nil
}

// absorb appends the candidate and its nested payload to the need.
func (n *ListingNeed) absorb(candidate HearingCandidate) {
	n.SourceIDs = append(n.SourceIDs, candidate.SourceID)

	switch candidate.Kind {
	case KindProsecutionCase:
		n.ProsecutionCases = append(n.ProsecutionCases, cloneProsecutionCase(*candidate.ProsecutionCase))
	case KindCourtApplication:
		n.CourtApplications = append(n.CourtApplications, cloneCourtApplication(*candidate.CourtApplication))
	}

	if candidate.NextHearing.EstimatedMinutes > n.EstimatedMinutes {
		n.EstimatedMinutes = candidate.NextHearing.EstimatedMinutes
	}

	if candidate.Referral != nil {
		earliest, err := EarliestHearingDate(candidate.Referral.NoticeDate, candidate.Referral.ReferralDate)
		if err == nil && (n.EarliestHearingDate == nil || earliest.After(*n.EarliestHearingDate)) {
			n.EarliestHearingDate = &earliest
		}
	}
}

// ValidateCandidates checks every candidate and returns the first
// *CandidateError found.
func ValidateCandidates(candidates []HearingCandidate) error {
	for i, candidate := range candidates {
		if err := validateCandidate(i, candidate); err != nil {
			return err
		}
	}
	return nil
}

func validateCandidate(index int, candidate HearingCandidate) error {
	fail := func(reason string) error {
		return &CandidateError{Index: index, SourceID: candidate.SourceID, Reason: reason}
	}

	if strings.TrimSpace(candidate.SourceID) == "" {
		return fail("source id is required")
	}

	switch candidate.Kind {
	case KindProsecutionCase:
		if candidate.ProsecutionCase == nil {
			return fail("prosecution case payload is required")
		}
		if candidate.CourtApplication != nil {
			return fail("prosecution case candidate must not carry a court application")
		}
	case KindCourtApplication:
		if candidate.CourtApplication == nil {
			return fail("court application payload is required")
		}
		if candidate.ProsecutionCase != nil {
			return fail("court application candidate must not carry a prosecution case")
		}
	default:
		return fail("unknown candidate kind " + string(candidate.Kind))
	}

	hearing := candidate.NextHearing
	if hearing.WeekCommencingDate != nil && hearing.ListedStartDateTime != nil {
		return fail("week commencing date and listed start date time are mutually exclusive")
	}
	if hearing.WeekCommencingDate != nil && hearing.WeekCommencingDate.IsZero() {
		return fail("week commencing date is empty")
	}
	if hearing.ListedStartDateTime != nil && hearing.ListedStartDateTime.IsZero() {
		return fail("listed start date time is empty")
	}
	if hearing.BookingReference != nil && *hearing.BookingReference == "" {
		return fail("booking reference is empty")
	}
	if hearing.EstimatedMinutes < 0 {
		return fail("estimated minutes must not be negative")
	}

	if candidate.Referral != nil {
		if candidate.Referral.NoticeDate.IsZero() || candidate.Referral.ReferralDate.IsZero() {
			return fail("referral requires both notice date and referral date")
		}
	}

	return nil
}

func cloneProsecutionCase(pc ProsecutionCase) ProsecutionCase {
	out := pc
	if pc.Defendants != nil {
		out.Defendants = make([]Defendant, len(pc.Defendants))
		for i, d := range pc.Defendants {
			out.Defendants[i] = d
			if d.Offences != nil {
				out.Defendants[i].Offences = make([]Offence, len(d.Offences))
				for j, o := range d.Offences {
					out.Defendants[i].Offences[j] = o
					if o.CommittingCourt != nil {
						court := *o.CommittingCourt
						out.Defendants[i].Offences[j].CommittingCourt = &court
					}
				}
			}
		}
	}
	return out
}

func cloneCourtApplication(app CourtApplication) CourtApplication {
	out := app
	if app.LinkedCaseIDs != nil {
		out.LinkedCaseIDs = append([]string(nil), app.LinkedCaseIDs...)
	}
	return out
}
