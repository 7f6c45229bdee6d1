package coerce

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

func decodeOffset(t *testing.T, raw string) OffsetDateTime {
	t.Helper()
	dv, ok := OffsetDateTimeRule.Decode(wire.String(raw))
	require.True(t, ok, "decode %q", raw)
	return dv.(OffsetDateTime)
}

func TestOffsetDateTimeDecode(t *testing.T) {
	tests := []struct {
		raw    string
		offset int // seconds east
	}{
		{"2014-11-28T21:00:09+09:00", 9 * 3600},
		{"2014-11-28T21:00:09Z", 0},
		{"2014-11-28T21:00:09.05+09:00", 9 * 3600},
		{"1996-12-19T16:39:57-08:00", -8 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := decodeOffset(t, tt.raw)
			want, err := time.Parse(time.RFC3339Nano, tt.raw)
			require.NoError(t, err)

			assert.True(t, got.Time().Equal(want))
			assert.Equal(t, tt.offset, got.Offset())
		})
	}
}

func TestOffsetDateTimeRoundTrip(t *testing.T) {
	tests := []struct {
		raw  string
		wire string // expected re-serialized form (Z normalizes to +00:00)
	}{
		{"2014-11-28T21:00:09+09:00", "2014-11-28T21:00:09+09:00"},
		{"2014-11-28T21:00:09Z", "2014-11-28T21:00:09+00:00"},
		{"2014-11-28T21:00:09.05+09:00", "2014-11-28T21:00:09.050+09:00"},
		{"2014-11-28T21:00:09.000000005-03:30", "2014-11-28T21:00:09.000000005-03:30"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			first := decodeOffset(t, tt.raw)

			out := OffsetDateTimeRule.Serialize(first)
			s, ok := wire.AsString(out)
			require.True(t, ok)
			assert.Equal(t, tt.wire, s)

			// Re-decoding the serialized form preserves instant and offset.
			second := decodeOffset(t, s)
			assert.True(t, first.Equal(second))
		})
	}
}

func TestOffsetDateTimeDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		v    wire.Value
	}{
		{"empty string", wire.String("")},
		{"missing offset", wire.String("2014-11-28T21:00:09")},
		{"date only", wire.String("2014-11-28")},
		{"space separator", wire.String("2014-11-28 21:00:09Z")},
		{"out of range month", wire.String("2014-13-28T21:00:09Z")},
		{"out of range day", wire.String("2014-02-30T21:00:09Z")},
		{"trailing garbage", wire.String("2014-11-28T21:00:09Zx")},
		{"float wire value", wire.Float(42)},
		{"bool wire value", wire.Bool(true)},
		{"null wire value", wire.Null{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := OffsetDateTimeRule.Decode(tt.v)
			assert.False(t, ok)
		})
	}
}

func TestUTCDateTimeNormalizes(t *testing.T) {
	for _, raw := range []string{
		"2014-11-28T21:00:09+09:00",
		"2014-11-28T21:00:09Z",
		"2014-11-28T21:00:09.005+09:00",
	} {
		t.Run(raw, func(t *testing.T) {
			dv, ok := UTCDateTimeRule.Decode(wire.String(raw))
			require.True(t, ok)
			utc := dv.(UTCDateTime)

			// Equal to the offset decode of the same string, viewed in UTC.
			off := decodeOffset(t, raw)
			assert.True(t, utc.Time().Equal(off.Time()))

			// Serialization always carries the +00:00 offset.
			s, ok := wire.AsString(UTCDateTimeRule.Serialize(utc))
			require.True(t, ok)
			assert.Regexp(t, `\+00:00$`, s)

			// Round-trip preserves the instant.
			again, ok := UTCDateTimeRule.Decode(wire.String(s))
			require.True(t, ok)
			assert.True(t, utc.Equal(again.(UTCDateTime)))
		})
	}
}

func TestUTCDateTimeSerializeEpoch(t *testing.T) {
	utc := NewUTCDateTime(time.Unix(61, 0))
	s, ok := wire.AsString(UTCDateTimeRule.Serialize(utc))
	require.True(t, ok)
	assert.Equal(t, "1970-01-01T00:01:01+00:00", s)
}

func TestCalendarDateDecode(t *testing.T) {
	dv, ok := CalendarDateRule.Decode(wire.String("1996-12-19"))
	require.True(t, ok)

	date := dv.(CalendarDate)
	assert.Equal(t, 1996, date.Year)
	assert.Equal(t, time.December, date.Month)
	assert.Equal(t, 19, date.Day)

	s, ok := wire.AsString(CalendarDateRule.Serialize(date))
	require.True(t, ok)
	assert.Equal(t, "1996-12-19", s)
}

func TestCalendarDateStrictGrammar(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"canonical", "1996-12-19", true},
		{"padded single digits", "2015-03-04", true},
		{"two digit year", "96-1-1", false},
		{"unpadded month", "1996-1-19", false},
		{"unpadded day", "1996-12-9", false},
		{"slash separator", "1996/12/19", false},
		{"reordered", "19-12-1996", false},
		{"no separator", "19961219", false},
		{"trailing time", "1996-12-19T00:00:00Z", false},
		{"out of range day", "1996-02-30", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CalendarDateRule.Decode(wire.String(tt.raw))
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestWallClockTimeDecode(t *testing.T) {
	dv, ok := WallClockTimeRule.Decode(wire.String("21:12:19"))
	require.True(t, ok)

	w := dv.(WallClockTime)
	assert.Equal(t, 21, w.Hour)
	assert.Equal(t, 12, w.Minute)
	assert.Equal(t, 19, w.Second)
}

func TestWallClockTimeGrammar(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"canonical", "21:12:19", true},
		{"unpadded hour", "9:05:07", true},
		{"padded hour", "09:05:07", true},
		{"midnight", "0:00:00", true},
		{"last second", "23:59:59", true},
		{"unpadded minute", "9:5:07", false},
		{"unpadded second", "9:05:7", false},
		{"hour out of range", "24:00:00", false},
		{"minute out of range", "12:60:00", false},
		{"second out of range", "12:00:60", false},
		{"missing second", "21:12", false},
		{"extra field", "21:12:19:00", false},
		{"fractional second", "21:12:19.5", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := WallClockTimeRule.Decode(wire.String(tt.raw))
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestWallClockTimeSerializeUnpaddedHour(t *testing.T) {
	tests := []struct {
		w    WallClockTime
		wire string
	}{
		{WallClockTime{Hour: 21, Minute: 12, Second: 19}, "21:12:19"},
		{WallClockTime{Hour: 9, Minute: 5, Second: 7}, "9:05:07"},
		{WallClockTime{Hour: 0, Minute: 0, Second: 0}, "0:00:00"},
		{WallClockTime{Hour: 16, Minute: 7, Second: 8}, "16:07:08"},
	}

	for _, tt := range tests {
		s, ok := wire.AsString(WallClockTimeRule.Serialize(tt.w))
		require.True(t, ok)
		assert.Equal(t, tt.wire, s)
	}
}

func TestNaiveDateTimeDecode(t *testing.T) {
	dv, ok := NaiveDateTimeRule.Decode(wire.Float(1_000_000_000))
	require.True(t, ok)

	n := dv.(NaiveDateTime)
	assert.True(t, n.Time().Equal(time.Unix(1_000_000_000, 0).UTC()))

	// Re-serialize returns exactly the whole-second input.
	f, ok := wire.AsFloat(NaiveDateTimeRule.Serialize(n))
	require.True(t, ok)
	assert.Equal(t, 1_000_000_000.0, f)
}

func TestNaiveDateTimeTruncation(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		out  float64
	}{
		{"whole", 1_000_000_000, 1_000_000_000},
		{"fractional", 1_000_000_000.75, 1_000_000_000},
		{"just below whole", 1_467_969_011.999, 1_467_969_011},
		{"small fraction", 0.9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv, ok := NaiveDateTimeRule.Decode(wire.Float(tt.in))
			require.True(t, ok)

			f, ok := wire.AsFloat(NaiveDateTimeRule.Serialize(dv))
			require.True(t, ok)
			assert.Equal(t, tt.out, f)
		})
	}
}

func TestNaiveDateTimeSerializeDropsSubseconds(t *testing.T) {
	n := NewNaiveDateTime(time.Date(2016, 7, 8, 9, 10, 11, 500_000_000, time.UTC))
	f, ok := wire.AsFloat(NaiveDateTimeRule.Serialize(n))
	require.True(t, ok)
	assert.Equal(t, 1_467_969_011.0, f)
}

func TestNaiveDateTimeDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		v    wire.Value
	}{
		{"string wire value", wire.String("1000000000")},
		{"bool wire value", wire.Bool(false)},
		{"null wire value", wire.Null{}},
		{"NaN", wire.Float(math.NaN())},
		{"positive infinity", wire.Float(math.Inf(1))},
		{"negative infinity", wire.Float(math.Inf(-1))},
		{"beyond year 9999", wire.Float(253402300800)},
		{"before year 0", wire.Float(-62167219201)},
		{"huge", wire.Float(1e30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NaiveDateTimeRule.Decode(tt.v)
			assert.False(t, ok)
		})
	}
}

func TestNaiveDateTimeDecodeBounds(t *testing.T) {
	dv, ok := NaiveDateTimeRule.Decode(wire.Float(253402300799))
	require.True(t, ok)
	assert.Equal(t, 9999, dv.(NaiveDateTime).Time().Year())

	dv, ok = NaiveDateTimeRule.Decode(wire.Float(-62167219200))
	require.True(t, ok)
	assert.Equal(t, 0, dv.(NaiveDateTime).Time().Year())
}

func TestParseLiteralKindCheck(t *testing.T) {
	stringTok := token.StringToken("2014-11-28T21:00:09Z")
	numberTok := token.FloatToken(1_000_000_000)
	intTok := token.IntToken(1_000_000_000)
	nameTok := token.Token{Kind: token.Name, Text: "true"}

	stringRules := map[string]Rule{
		"OffsetDateTime": OffsetDateTimeRule,
		"UTCDateTime":    UTCDateTimeRule,
		"CalendarDate":   CalendarDateRule,
		"WallClockTime":  WallClockTimeRule,
	}

	for name, rule := range stringRules {
		t.Run(name, func(t *testing.T) {
			wv, err := rule.ParseLiteral(stringTok)
			require.NoError(t, err)
			assert.Equal(t, wire.String("2014-11-28T21:00:09Z"), wv)

			_, err = rule.ParseLiteral(numberTok)
			assert.True(t, IsUnexpectedToken(err))

			_, err = rule.ParseLiteral(nameTok)
			assert.True(t, IsUnexpectedToken(err))
		})
	}

	t.Run("NaiveDateTime", func(t *testing.T) {
		wv, err := NaiveDateTimeRule.ParseLiteral(numberTok)
		require.NoError(t, err)
		assert.Equal(t, wire.Float(1_000_000_000), wv)

		// Int literals qualify as numbers too.
		wv, err = NaiveDateTimeRule.ParseLiteral(intTok)
		require.NoError(t, err)
		assert.Equal(t, wire.Float(1_000_000_000), wv)

		_, err = NaiveDateTimeRule.ParseLiteral(stringTok)
		assert.True(t, IsUnexpectedToken(err))
	})
}

func TestParseLiteralBoxesPayloadUninterpreted(t *testing.T) {
	// ParseLiteral must not validate content - garbage strings box fine
	// and only fail later in Decode.
	wv, err := CalendarDateRule.ParseLiteral(token.StringToken("not a date"))
	require.NoError(t, err)
	assert.Equal(t, wire.String("not a date"), wv)

	_, ok := CalendarDateRule.Decode(wv)
	assert.False(t, ok)
}

func TestRuleFor(t *testing.T) {
	for _, variant := range []string{
		"OffsetDateTime", "UTCDateTime", "CalendarDate", "WallClockTime", "NaiveDateTime",
	} {
		_, ok := RuleFor(variant)
		assert.True(t, ok, variant)
	}

	_, ok := RuleFor("Duration")
	assert.False(t, ok)
}

func TestRulesAreReferentiallyTransparent(t *testing.T) {
	raw := wire.String("2014-11-28T21:00:09.05+09:00")
	first, ok := OffsetDateTimeRule.Decode(raw)
	require.True(t, ok)

	for i := 0; i < 100; i++ {
		again, ok := OffsetDateTimeRule.Decode(raw)
		require.True(t, ok)
		assert.True(t, first.(OffsetDateTime).Equal(again.(OffsetDateTime)))
		assert.Equal(t, OffsetDateTimeRule.Serialize(first), OffsetDateTimeRule.Serialize(again))
	}
}
