// Package listing consolidates hearing candidates into listing needs.
//
// Candidates destined for the same physical hearing share a listing need
// when their hearing type, court location, week commencing date, listed
// start and canonical booking reference all match. Booking references are
// canonicalized through the slot registry: references whose reserved court
// schedules overlap, directly or transitively, collapse onto the smallest
// reference of their group.
//
// The package also computes the earliest date a referred case may be listed.
package listing
