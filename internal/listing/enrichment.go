package listing

// CommittingCourtLookup returns committing court metadata for an offence.
type CommittingCourtLookup func(offenceID string) (CommittingCourt, bool)

// EnrichCommittingCourts decorates offences that carry no committing court
// with the result of lookup. It returns the number of offences decorated.
// Grouping is unaffected; the needs are modified in place.
func EnrichCommittingCourts(needs []ListingNeed, lookup CommittingCourtLookup) int {
	if lookup == nil {
		return 0
	}
	enriched := 0
	for n := range needs {
		for c := range needs[n].ProsecutionCases {
			defendants := needs[n].ProsecutionCases[c].Defendants
			for d := range defendants {
				for o := range defendants[d].Offences {
					offence := &defendants[d].Offences[o]
					if offence.CommittingCourt != nil {
						continue
					}
					if court, ok := lookup(offence.ID); ok {
						offence.CommittingCourt = &court
						enriched++
					}
				}
			}
		}
	}
	return enriched
}
