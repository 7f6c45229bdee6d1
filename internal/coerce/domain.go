package coerce

import (
	"fmt"
	"time"
)

// DomainValue is a sealed interface over the temporal value variants this
// layer coerces. Only OffsetDateTime, UTCDateTime, CalendarDate,
// WallClockTime, and NaiveDateTime implement it.
//
// Domain values are transient: created per field resolution or per
// argument binding, discarded after use. They carry no shared state.
type DomainValue interface {
	domainValue() // Sealed - only these types implement it
}

// OffsetDateTime is an instant paired with a fixed UTC offset.
// Sub-second precision is retained and round-trips through the wire.
type OffsetDateTime struct {
	t time.Time
}

func (OffsetDateTime) domainValue() {}

// NewOffsetDateTime wraps t, keeping its location's fixed offset.
func NewOffsetDateTime(t time.Time) OffsetDateTime {
	return OffsetDateTime{t: t}
}

// Time returns the underlying instant, located in its fixed offset.
func (o OffsetDateTime) Time() time.Time {
	return o.t
}

// Offset returns the UTC offset in seconds east.
func (o OffsetDateTime) Offset() int {
	_, off := o.t.Zone()
	return off
}

// Equal reports whether both the instant and the offset match.
// Two values denoting the same instant at different offsets are not equal.
func (o OffsetDateTime) Equal(other OffsetDateTime) bool {
	return o.t.Equal(other.t) && o.Offset() == other.Offset()
}

func (o OffsetDateTime) String() string {
	return formatRFC3339(o.t)
}

// UTCDateTime is an instant normalized to UTC.
// Sub-second precision is retained and round-trips through the wire.
type UTCDateTime struct {
	t time.Time
}

func (UTCDateTime) domainValue() {}

// NewUTCDateTime wraps t, converting it to UTC.
func NewUTCDateTime(t time.Time) UTCDateTime {
	return UTCDateTime{t: t.UTC()}
}

// Time returns the underlying instant in UTC.
func (u UTCDateTime) Time() time.Time {
	return u.t
}

// Equal reports whether both values denote the same instant.
func (u UTCDateTime) Equal(other UTCDateTime) bool {
	return u.t.Equal(other.t)
}

func (u UTCDateTime) String() string {
	return formatRFC3339(u.t)
}

// CalendarDate is a proleptic Gregorian calendar date with no time
// component and no offset.
type CalendarDate struct {
	Year  int
	Month time.Month // 1-12
	Day   int        // 1-31
}

func (CalendarDate) domainValue() {}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// WallClockTime is a time of day with no date, no offset, and no
// sub-second component.
type WallClockTime struct {
	Hour   int // 0-23
	Minute int // 0-59
	Second int // 0-59
}

func (WallClockTime) domainValue() {}

func (w WallClockTime) String() string {
	return fmt.Sprintf("%d:%02d:%02d", w.Hour, w.Minute, w.Second)
}

// NaiveDateTime is a calendar date plus wall-clock time with no
// associated offset. Sub-second precision is retained internally but is
// NOT round-trippable: the wire format is a whole-second Unix timestamp.
type NaiveDateTime struct {
	t time.Time
}

func (NaiveDateTime) domainValue() {}

// NewNaiveDateTime captures t's calendar and clock fields, discarding its
// offset. The fields are reinterpreted in UTC so that Unix() reads them
// as-if-UTC, which is what the numeric wire format encodes.
func NewNaiveDateTime(t time.Time) NaiveDateTime {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return NaiveDateTime{t: time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)}
}

// Time returns the underlying fields as a UTC-located time.Time.
func (n NaiveDateTime) Time() time.Time {
	return n.t
}

// Equal reports whether both values have identical fields, including any
// sub-second component.
func (n NaiveDateTime) Equal(other NaiveDateTime) bool {
	return n.t.Equal(other.t)
}

func (n NaiveDateTime) String() string {
	return n.t.Format("2006-01-02T15:04:05.999999999")
}

// VariantName returns the stable variant name used by schema declarations
// and diagnostics.
func VariantName(v DomainValue) string {
	switch v.(type) {
	case OffsetDateTime:
		return "OffsetDateTime"
	case UTCDateTime:
		return "UTCDateTime"
	case CalendarDate:
		return "CalendarDate"
	case WallClockTime:
		return "WallClockTime"
	case NaiveDateTime:
		return "NaiveDateTime"
	default:
		return fmt.Sprintf("%T", v)
	}
}
