package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoql/tempoql/internal/registry"
)

func TestReplayCleanCorpus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{
			Seq: 0, Scalar: "DateTimeFixedOffset", Surface: "literal",
			InputKind: "string", Input: "2014-11-28T21:00:09+09:00",
			Outcome: "ok", Wire: `"2014-11-28T21:00:09+09:00"`,
		},
		{
			Seq: 1, Scalar: "DateTimeUtc", Surface: "literal",
			InputKind: "string", Input: "2014-11-28T21:00:09+09:00",
			Outcome: "ok", Wire: `"2014-11-28T12:00:09+00:00"`,
		},
		{
			Seq: 2, Scalar: "NaiveDateTime", Surface: "variable",
			InputKind: "json", Input: "1000000000.75",
			Outcome: "ok", Wire: "1000000000",
		},
		{
			Seq: 3, Scalar: "NaiveDate", Surface: "literal",
			InputKind: "string", Input: "96-1-1",
			Outcome: "decode_error", Error: `invalid NaiveDate literal "96-1-1"`,
		},
		{
			Seq: 4, Scalar: "NaiveTime", Surface: "literal",
			InputKind: "float", Input: "1.5",
			Outcome: "unexpected_token", Error: "unexpected token 1.5",
		},
		{
			Seq: 5, Scalar: "NaiveTime", Surface: "resolve",
			Input: "21:12:19", Outcome: "ok", Wire: `"21:12:19"`,
		},
	}
	require.NoError(t, s.Record(ctx, "run-1", "fixtures", entries))

	drifts, err := s.Replay(ctx, registry.Default())
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestReplayDetectsOutcomeDrift(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Recorded as ok, but the current rules reject two-digit years.
	require.NoError(t, s.Record(ctx, "run-1", "doctored", []Entry{
		{
			Seq: 0, Scalar: "NaiveDate", Surface: "literal",
			InputKind: "string", Input: "96-1-1",
			Outcome: "ok", Wire: `"96-1-1"`,
		},
	}))

	drifts, err := s.Replay(ctx, registry.Default())
	require.NoError(t, err)
	require.Len(t, drifts, 1)

	assert.Equal(t, "outcome", drifts[0].Field)
	assert.Equal(t, "ok", drifts[0].Stored)
	assert.Equal(t, "decode_error", drifts[0].Current)
	assert.Contains(t, drifts[0].String(), "run-1/0")
}

func TestReplayDetectsWireDrift(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Recorded before UTC scalars normalized offsets away.
	require.NoError(t, s.Record(ctx, "run-1", "doctored", []Entry{
		{
			Seq: 0, Scalar: "DateTimeUtc", Surface: "literal",
			InputKind: "string", Input: "2014-11-28T21:00:09+09:00",
			Outcome: "ok", Wire: `"2014-11-28T21:00:09+09:00"`,
		},
	}))

	drifts, err := s.Replay(ctx, registry.Default())
	require.NoError(t, err)
	require.Len(t, drifts, 1)

	assert.Equal(t, "wire", drifts[0].Field)
	assert.Equal(t, `"2014-11-28T12:00:09+00:00"`, drifts[0].Current)
}

func TestReplayUnknownScalarIsError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "run-1", "stale", []Entry{
		{
			Seq: 0, Scalar: "Duration", Surface: "literal",
			InputKind: "string", Input: "1h", Outcome: "ok", Wire: `"1h"`,
		},
	}))

	_, err := s.Replay(ctx, registry.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scalar "Duration"`)
}
