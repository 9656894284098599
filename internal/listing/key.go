package listing

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// EquivalenceKey is the composite key that decides which candidates share a
// listing need. The zero value of each field means "absent", which only
// equals another absent field. EquivalenceKey is comparable and safe to use
// as a map key.
type EquivalenceKey struct {
	hearingType      optString
	courtLocation    optString
	weekCommencing   optDate
	listedStart      optInstant
	bookingReference optString
}

type optString struct {
	set   bool
	value string
}

func someString(v *string) optString {
	if v == nil {
		return optString{}
	}
	return optString{set: true, value: *v}
}

func (o optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// optDate holds a calendar date; the time of day and zone of the source value are discarded.
type optDate struct {
	set   bool
	year  int
	month time.Month
	day   int
}

func someDate(v *time.Time) optDate {
	if v == nil {
		return optDate{}
	}
	y, m, d := v.Date()
	return optDate{set: true, year: y, month: m, day: d}
}

func (o optDate) ptr() *time.Time {
	if !o.set {
		return nil
	}
	v := time.Date(o.year, o.month, o.day, 0, 0, 0, 0, time.UTC)
	return &v
}

// optInstant holds an exact point in time independent of its zone. Seconds
// and nanoseconds are kept apart so every year a time.Time can carry fits.
type optInstant struct {
	set  bool
	sec  int64
	nsec int32
}

func someInstant(v *time.Time) optInstant {
	if v == nil {
		return optInstant{}
	}
	return optInstant{set: true, sec: v.Unix(), nsec: int32(v.Nanosecond())}
}

func (o optInstant) ptr() *time.Time {
	if !o.set {
		return nil
	}
	v := time.Unix(o.sec, int64(o.nsec)).UTC()
	return &v
}

// NewEquivalenceKey builds a key from a hearing descriptor and an already
// canonicalized booking reference.
func NewEquivalenceKey(hearing NextHearing, canonical *BookingReference) EquivalenceKey {
	var ref optString
	if canonical != nil {
		ref = optString{set: true, value: string(*canonical)}
	}
	return EquivalenceKey{
		hearingType:      someString(hearing.HearingTypeID),
		courtLocation:    someString(hearing.CourtLocation),
		weekCommencing:   someDate(hearing.WeekCommencingDate),
		listedStart:      someInstant(hearing.ListedStartDateTime),
		bookingReference: ref,
	}
}

// HearingTypeID returns the hearing type, or nil when absent.
func (k EquivalenceKey) HearingTypeID() *string { return k.hearingType.ptr() }

// CourtLocation returns the court location, or nil when absent.
func (k EquivalenceKey) CourtLocation() *string { return k.courtLocation.ptr() }

// WeekCommencingDate returns the week commencing date at midnight UTC, or nil when absent.
func (k EquivalenceKey) WeekCommencingDate() *time.Time { return k.weekCommencing.ptr() }

// ListedStartDateTime returns the listed start in UTC, or nil when absent.
func (k EquivalenceKey) ListedStartDateTime() *time.Time { return k.listedStart.ptr() }

// BookingReference returns the canonical booking reference, or nil when absent.
func (k EquivalenceKey) BookingReference() *BookingReference {
	if !k.bookingReference.set {
		return nil
	}
	ref := BookingReference(k.bookingReference.value)
	return &ref
}

// String renders the key in a stable, unambiguous form. Absent fields render as "-"
// and present fields are quoted so an absent field never collides with a value.
func (k EquivalenceKey) String() string {
	var b strings.Builder
	writeOpt := func(o optString) {
		if !o.set {
			b.WriteString("-")
			return
		}
		b.WriteString(strconv.Quote(o.value))
	}

	writeOpt(k.hearingType)
	b.WriteString("|")
	writeOpt(k.courtLocation)
	b.WriteString("|")
	if k.weekCommencing.set {
		b.WriteString(k.weekCommencing.ptr().Format(time.DateOnly))
	} else {
		b.WriteString("-")
	}
	b.WriteString("|")
	if k.listedStart.set {
		b.WriteString(k.listedStart.ptr().Format(time.RFC3339Nano))
	} else {
		b.WriteString("-")
	}
	b.WriteString("|")
	writeOpt(k.bookingReference)
	return b.String()
}

// Digest returns a hex encoded BLAKE2b-256 digest of String.
func (k EquivalenceKey) Digest() string {
	sum := blake2b.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:])
}
