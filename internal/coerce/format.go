package coerce

import (
	"strconv"
	"strings"
	"time"
)

// Wire format layouts. These are the canonical patterns for the
// string-kind scalars; they are read-only and owned by this package.
const (
	// RFC3339Layout parses RFC 3339 date-times: fractional seconds
	// optional, offset mandatory (Z is a valid zero offset).
	RFC3339Layout = "2006-01-02T15:04:05.999999999Z07:00"

	// DateLayout parses calendar dates. Fixed-width fields: four-digit
	// year, zero-padded month and day, dash separators only.
	DateLayout = "2006-01-02"
)

// NaiveDateTime decode bounds: Unix seconds for 0000-01-01T00:00:00Z and
// 9999-12-31T23:59:59Z. Instants outside the four-digit-year calendar are
// not representable in the other wire formats and are rejected here too.
const (
	minNaiveUnix = -62167219200
	maxNaiveUnix = 253402300799
)

// formatRFC3339 renders t as an RFC 3339 string with the offset always in
// +hh:mm form (UTC prints as +00:00, not Z) and fractional seconds
// emitted only when non-zero, at millisecond, microsecond, or nanosecond
// width - whichever is the shortest exact form.
func formatRFC3339(t time.Time) string {
	var b strings.Builder
	b.Grow(35)
	b.WriteString(t.Format("2006-01-02T15:04:05"))

	if nsec := t.Nanosecond(); nsec != 0 {
		frac := strconv.Itoa(nsec + 1e9)[1:] // nine digits, zero-padded
		switch {
		case strings.HasSuffix(frac, "000000"):
			frac = frac[:3]
		case strings.HasSuffix(frac, "000"):
			frac = frac[:6]
		}
		b.WriteByte('.')
		b.WriteString(frac)
	}

	_, offset := t.Zone()
	b.WriteString(formatOffset(offset))
	return b.String()
}

// formatOffset renders a UTC offset in seconds east as [+-]hh:mm.
func formatOffset(seconds int) string {
	sign := byte('+')
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	return string([]byte{
		sign,
		byte('0' + h/10), byte('0' + h%10),
		':',
		byte('0' + m/10), byte('0' + m%10),
	})
}

// parseWallClock parses H:M:S strictly: hour one or two digits (the only
// padding tolerance in the format), minute and second exactly two digits,
// colon separators only. Go layout strings cannot express an
// unpadded-tolerant hour next to strictly padded fields, hence the manual
// parse.
func parseWallClock(s string) (WallClockTime, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return WallClockTime{}, false
	}

	hour, ok := parseClockField(parts[0], 1, 2, 23)
	if !ok {
		return WallClockTime{}, false
	}
	minute, ok := parseClockField(parts[1], 2, 2, 59)
	if !ok {
		return WallClockTime{}, false
	}
	second, ok := parseClockField(parts[2], 2, 2, 59)
	if !ok {
		return WallClockTime{}, false
	}

	return WallClockTime{Hour: hour, Minute: minute, Second: second}, true
}

// parseClockField parses a decimal clock field of minWidth to maxWidth
// digits with an inclusive upper bound.
func parseClockField(s string, minWidth, maxWidth, max int) (int, bool) {
	if len(s) < minWidth || len(s) > maxWidth {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n > max {
		return 0, false
	}
	return n, true
}
