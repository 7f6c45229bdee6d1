package coerce

import (
	"fmt"
	"math"
	"time"

	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

// The rule table. One immutable, stateless Rule per domain variant.
var (
	OffsetDateTimeRule Rule = offsetDateTimeRule{}
	UTCDateTimeRule    Rule = utcDateTimeRule{}
	CalendarDateRule   Rule = calendarDateRule{}
	WallClockTimeRule  Rule = wallClockTimeRule{}
	NaiveDateTimeRule  Rule = naiveDateTimeRule{}
)

// RuleFor returns the rule for a variant name ("OffsetDateTime",
// "UTCDateTime", "CalendarDate", "WallClockTime", "NaiveDateTime").
// Returns absence for unknown names.
func RuleFor(variant string) (Rule, bool) {
	switch variant {
	case "OffsetDateTime":
		return OffsetDateTimeRule, true
	case "UTCDateTime":
		return UTCDateTimeRule, true
	case "CalendarDate":
		return CalendarDateRule, true
	case "WallClockTime":
		return WallClockTimeRule, true
	case "NaiveDateTime":
		return NaiveDateTimeRule, true
	default:
		return nil, false
	}
}

// mustVariant converts a serialize argument to the rule's variant.
// A mismatch is a wiring bug in schema registration, not a data-path
// failure, so it panics rather than returning an error.
func mustVariant[T DomainValue](v DomainValue) T {
	tv, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("coerce: %s rule applied to %s value", VariantName(tv), VariantName(v)))
	}
	return tv
}

// offsetDateTimeRule coerces OffsetDateTime values. Wire format: RFC 3339
// string with the original offset preserved.
type offsetDateTimeRule struct{}

func (offsetDateTimeRule) Serialize(v DomainValue) wire.Value {
	return wire.String(formatRFC3339(mustVariant[OffsetDateTime](v).Time()))
}

func (offsetDateTimeRule) ParseLiteral(t token.Token) (wire.Value, error) {
	return parseStringLiteral(t)
}

func (offsetDateTimeRule) Decode(v wire.Value) (DomainValue, bool) {
	s, ok := wire.AsString(v)
	if !ok {
		return nil, false
	}
	t, err := time.Parse(RFC3339Layout, s)
	if err != nil {
		return nil, false
	}
	return NewOffsetDateTime(t), true
}

// utcDateTimeRule coerces UTCDateTime values. Wire format: RFC 3339
// string; any parsed offset is normalized to UTC, serialization always
// carries +00:00.
type utcDateTimeRule struct{}

func (utcDateTimeRule) Serialize(v DomainValue) wire.Value {
	return wire.String(formatRFC3339(mustVariant[UTCDateTime](v).Time()))
}

func (utcDateTimeRule) ParseLiteral(t token.Token) (wire.Value, error) {
	return parseStringLiteral(t)
}

func (utcDateTimeRule) Decode(v wire.Value) (DomainValue, bool) {
	s, ok := wire.AsString(v)
	if !ok {
		return nil, false
	}
	t, err := time.Parse(RFC3339Layout, s)
	if err != nil {
		return nil, false
	}
	return NewUTCDateTime(t), true
}

// calendarDateRule coerces CalendarDate values. Wire format: YYYY-MM-DD,
// zero-padded, four-digit year. Any other separator, width, or ordering
// is rejected.
type calendarDateRule struct{}

func (calendarDateRule) Serialize(v DomainValue) wire.Value {
	return wire.String(mustVariant[CalendarDate](v).String())
}

func (calendarDateRule) ParseLiteral(t token.Token) (wire.Value, error) {
	return parseStringLiteral(t)
}

func (calendarDateRule) Decode(v wire.Value) (DomainValue, bool) {
	s, ok := wire.AsString(v)
	if !ok {
		return nil, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, false
	}
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}

// wallClockTimeRule coerces WallClockTime values. Wire format: H:M:S with
// the hour unpadded - a deliberate wire-format quirk, not a general time
// format. Parsing tolerates a padded hour but nothing else.
type wallClockTimeRule struct{}

func (wallClockTimeRule) Serialize(v DomainValue) wire.Value {
	return wire.String(mustVariant[WallClockTime](v).String())
}

func (wallClockTimeRule) ParseLiteral(t token.Token) (wire.Value, error) {
	return parseStringLiteral(t)
}

func (wallClockTimeRule) Decode(v wire.Value) (DomainValue, bool) {
	s, ok := wire.AsString(v)
	if !ok {
		return nil, false
	}
	w, ok := parseWallClock(s)
	if !ok {
		return nil, false
	}
	return w, true
}

// naiveDateTimeRule coerces NaiveDateTime values. Wire format: a float
// holding the Unix timestamp in whole seconds.
//
// The encode path truncates to whole seconds: any sub-second component of
// the domain value is discarded, so NaiveDateTime does NOT round-trip at
// sub-second precision. This lossy behavior is the wire contract.
type naiveDateTimeRule struct{}

func (naiveDateTimeRule) Serialize(v DomainValue) wire.Value {
	return wire.Float(float64(mustVariant[NaiveDateTime](v).Time().Unix()))
}

func (naiveDateTimeRule) ParseLiteral(t token.Token) (wire.Value, error) {
	return parseNumberLiteral(t)
}

func (naiveDateTimeRule) Decode(v wire.Value) (DomainValue, bool) {
	f, ok := wire.AsFloat(v)
	if !ok {
		return nil, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	// Bounds-check before converting: float-to-int conversion of an
	// out-of-range value is implementation-specific in Go. The bound is
	// applied to the truncated value, so 253402300799.5 still decodes.
	if f <= minNaiveUnix-1 || f >= maxNaiveUnix+1 {
		return nil, false
	}
	// Fractional seconds in the input are discarded, not rounded.
	sec := int64(f)
	return NaiveDateTime{t: time.Unix(sec, 0).UTC()}, true
}
