package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoql/tempoql/internal/coerce"
	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{
		"DateTimeFixedOffset", "DateTimeUtc", "NaiveDate", "NaiveTime", "NaiveDateTime",
	}, r.Names())
	assert.Equal(t, 5, r.Len())

	e, ok := r.Lookup("NaiveDate")
	require.True(t, ok)
	assert.Equal(t, "NaiveDate", e.Name)
	assert.Equal(t, "CalendarDate", e.Variant)

	_, ok = r.Lookup("Duration")
	assert.False(t, ok)
}

func TestFromLiteralComposesParseAndDecode(t *testing.T) {
	r := Default()
	e, ok := r.Lookup("DateTimeFixedOffset")
	require.True(t, ok)

	dv, err := e.FromLiteral(token.StringToken("2014-11-28T21:00:09+09:00"))
	require.NoError(t, err)

	odt := dv.(coerce.OffsetDateTime)
	assert.Equal(t, 9*3600, odt.Offset())

	// Resolve returns the same string the literal carried.
	s, ok := wire.AsString(e.Resolve(odt))
	require.True(t, ok)
	assert.Equal(t, "2014-11-28T21:00:09+09:00", s)
}

func TestFromLiteralWrongKindFailsBeforeDecode(t *testing.T) {
	r := Default()
	e, ok := r.Lookup("DateTimeFixedOffset")
	require.True(t, ok)

	// A numeric literal against a string-kind scalar fails with the
	// token error, not a decode error.
	tok := token.FloatToken(1_000_000_000)
	tok.Pos = token.Position{Line: 3, Column: 14}

	_, err := e.FromLiteral(tok)
	require.Error(t, err)
	assert.True(t, coerce.IsUnexpectedToken(err))

	var de *DecodeError
	assert.False(t, errors.As(err, &de))
	assert.Contains(t, err.Error(), "3:14")
}

func TestFromLiteralDecodeFailureCarriesToken(t *testing.T) {
	r := Default()
	e, ok := r.Lookup("NaiveDate")
	require.True(t, ok)

	tok := token.StringToken("96-1-1")
	tok.Pos = token.Position{Line: 7, Column: 2}

	_, err := e.FromLiteral(tok)
	require.Error(t, err)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "NaiveDate", de.Scalar)
	assert.Equal(t, tok, de.Token)
	assert.Contains(t, de.Error(), `"96-1-1"`)
}

func TestFromVariable(t *testing.T) {
	r := Default()

	e, ok := r.Lookup("NaiveDateTime")
	require.True(t, ok)

	dv, ok := e.FromVariable(wire.Float(1_000_000_000))
	require.True(t, ok)
	assert.IsType(t, coerce.NaiveDateTime{}, dv)

	// Wrong wire kind is absence, not error.
	_, ok = e.FromVariable(wire.String("1000000000"))
	assert.False(t, ok)
}

func TestBuilderRejectsDuplicates(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("Date", "a date", "CalendarDate", coerce.CalendarDateRule))

	err := b.Register("Date", "another date", "CalendarDate", coerce.CalendarDateRule)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestBuilderRejectsEmptyNameAndNilRule(t *testing.T) {
	b := NewBuilder()
	assert.Error(t, b.Register("", "desc", "CalendarDate", coerce.CalendarDateRule))
	assert.Error(t, b.Register("Date", "desc", "CalendarDate", nil))
}

func TestRegisterVariantUnknown(t *testing.T) {
	b := NewBuilder()
	err := b.RegisterVariant("Duration", "", "Duration")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variant")
}

func TestRegistryImmutableAfterBuild(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.RegisterVariant("Date", "", "CalendarDate"))
	r := b.Build()

	// Registering after build does not leak into the built registry.
	require.NoError(t, b.RegisterVariant("Time", "", "WallClockTime"))
	_, ok := r.Lookup("Time")
	assert.False(t, ok)
	assert.Equal(t, []string{"Date"}, r.Names())
}

func TestConcurrentCoercionsShareEntries(t *testing.T) {
	r := Default()
	e, ok := r.Lookup("DateTimeUtc")
	require.True(t, ok)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				dv, err := e.FromLiteral(token.StringToken("2014-11-28T21:00:09+09:00"))
				if err != nil {
					t.Error(err)
					return
				}
				if _, ok := wire.AsString(e.Resolve(dv)); !ok {
					t.Error("resolve did not return a string")
					return
				}
			}
		}()
	}
	wg.Wait()
}
