package corpus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tempoql/tempoql/internal/coerce"
	"github.com/tempoql/tempoql/internal/registry"
	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

// Drift reports a stored entry whose replay against the current rules
// produced a different result.
type Drift struct {
	RunToken string
	Seq      int
	Scalar   string
	Field    string // "outcome" or "wire"
	Stored   string
	Current  string
}

func (d Drift) String() string {
	return fmt.Sprintf("%s/%d (%s): %s was %q, now %q",
		d.RunToken, d.Seq, d.Scalar, d.Field, d.Stored, d.Current)
}

// Replay re-coerces every stored entry against reg and returns the
// entries that drifted. An empty slice means the corpus still matches
// the current rules. The returned error covers corpus defects (unknown
// scalars, unreadable inputs), not drift.
func (s *Store) Replay(ctx context.Context, reg *registry.Registry) ([]Drift, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, e := range entries {
		outcome, wireJSON, err := replayEntry(reg, &e)
		if err != nil {
			return nil, fmt.Errorf("replay %s/%d: %w", e.RunToken, e.Seq, err)
		}

		if outcome != e.Outcome {
			drifts = append(drifts, Drift{
				RunToken: e.RunToken, Seq: e.Seq, Scalar: e.Scalar,
				Field: "outcome", Stored: e.Outcome, Current: outcome,
			})
			continue
		}
		if outcome == "ok" && wireJSON != e.Wire {
			drifts = append(drifts, Drift{
				RunToken: e.RunToken, Seq: e.Seq, Scalar: e.Scalar,
				Field: "wire", Stored: e.Wire, Current: wireJSON,
			})
		}
	}

	return drifts, nil
}

// replayEntry re-runs one entry's coercion and returns the outcome and,
// for successes, the canonical wire form.
func replayEntry(reg *registry.Registry, e *StoredEntry) (string, string, error) {
	entry, ok := reg.Lookup(e.Scalar)
	if !ok {
		return "", "", fmt.Errorf("unknown scalar %q", e.Scalar)
	}

	switch e.Surface {
	case "literal":
		tok, err := storedToken(e.InputKind, e.Input)
		if err != nil {
			return "", "", err
		}
		dv, err := entry.FromLiteral(tok)
		if err != nil {
			if coerce.IsUnexpectedToken(err) {
				return "unexpected_token", "", nil
			}
			return "decode_error", "", nil
		}
		return serializeReplay(entry, dv)

	case "variable":
		wv, err := wire.ParseJSON([]byte(e.Input))
		if err != nil {
			return "", "", fmt.Errorf("stored variable is not JSON: %w", err)
		}
		dv, ok := entry.FromVariable(wv)
		if !ok {
			return "decode_error", "", nil
		}
		return serializeReplay(entry, dv)

	case "resolve":
		// Resolve entries replay as a wire round-trip: decode the stored
		// wire form and re-serialize it.
		wv, err := wire.ParseJSON([]byte(e.Wire))
		if err != nil {
			return "", "", fmt.Errorf("stored wire is not JSON: %w", err)
		}
		dv, ok := entry.FromVariable(wv)
		if !ok {
			return "decode_error", "", nil
		}
		return serializeReplay(entry, dv)
	}

	return "", "", fmt.Errorf("unknown surface %q", e.Surface)
}

// storedToken rebuilds a parser token from its stored kind and text.
func storedToken(kind, text string) (token.Token, error) {
	switch kind {
	case "string":
		return token.StringToken(text), nil
	case "int":
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return token.Token{}, fmt.Errorf("stored int literal %q: %w", text, err)
		}
		return token.IntToken(n), nil
	case "float":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{}, fmt.Errorf("stored float literal %q: %w", text, err)
		}
		return token.FloatToken(f), nil
	}
	return token.Token{}, fmt.Errorf("unknown literal kind %q", kind)
}

func serializeReplay(entry *registry.Entry, dv coerce.DomainValue) (string, string, error) {
	data, err := wire.MarshalCanonical(entry.Resolve(dv))
	if err != nil {
		return "", "", err
	}
	return "ok", string(data), nil
}
