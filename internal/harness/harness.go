package harness

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tempoql/tempoql/internal/coerce"
	"github.com/tempoql/tempoql/internal/registry"
	"github.com/tempoql/tempoql/internal/schemadef"
	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

// Run executes a scenario against its scalar set and returns the result.
// The returned error covers setup failures (bad schema files, malformed
// inputs); expectation mismatches are reported via Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	reg, err := buildScalarSet(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, check := range scenario.Checks {
		event, err := runCheck(reg, i, &check)
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		result.Transcript = append(result.Transcript, *event)

		if event.Outcome != check.Expect.Outcome {
			result.AddError(fmt.Sprintf("checks[%d] (%s): expected outcome %s, got %s",
				i, check.Scalar, check.Expect.Outcome, event.Outcome))
			continue
		}
		if check.Expect.Wire != "" && event.Wire != check.Expect.Wire {
			result.AddError(fmt.Sprintf("checks[%d] (%s): expected wire %s, got %s",
				i, check.Scalar, check.Expect.Wire, event.Wire))
		}
	}

	return result, nil
}

// buildScalarSet builds the registry the scenario runs against.
func buildScalarSet(scenario *Scenario) (*registry.Registry, error) {
	if len(scenario.Specs) == 0 {
		return registry.Default(), nil
	}

	loaded, errs := schemadef.LoadFiles(scenario.Specs, schemadef.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("loading scalar declarations: %w", errs[0])
	}
	return schemadef.BuildRegistry(loaded.Scalars)
}

// runCheck executes one check and records its outcome. Errors are setup
// problems; coercion failures land in the event's Outcome field.
func runCheck(reg *registry.Registry, seq int, check *Check) (*CheckEvent, error) {
	entry, ok := reg.Lookup(check.Scalar)
	if !ok {
		return nil, fmt.Errorf("unknown scalar %q", check.Scalar)
	}

	event := &CheckEvent{Seq: seq, Scalar: check.Scalar}

	switch {
	case check.Literal != nil:
		event.Surface = "literal"
		event.Input = check.Literal.Text

		tok, err := literalToken(check.Literal)
		if err != nil {
			return nil, err
		}

		dv, err := entry.FromLiteral(tok)
		if err != nil {
			recordCoercionError(event, err)
			return event, nil
		}
		return event, recordWire(event, entry, dv)

	case check.Variable != nil:
		event.Surface = "variable"
		event.Input = *check.Variable

		wv, err := wire.ParseJSON([]byte(*check.Variable))
		if err != nil {
			return nil, fmt.Errorf("parsing variable as JSON: %w", err)
		}

		dv, ok := entry.FromVariable(wv)
		if !ok {
			event.Outcome = OutcomeDecodeError
			event.Error = fmt.Sprintf("%s does not accept %s input", check.Scalar, wire.Kind(wv))
			return event, nil
		}
		return event, recordWire(event, entry, dv)

	case check.Resolve != nil:
		event.Surface = "resolve"

		dv, err := resolveDomainValue(entry.Variant, check.Resolve)
		if err != nil {
			return nil, err
		}
		event.Input = fmt.Sprint(dv)
		return event, recordWire(event, entry, dv)
	}

	return nil, fmt.Errorf("check has no input")
}

// literalToken builds a parser token from a literal input.
func literalToken(in *LiteralInput) (token.Token, error) {
	switch in.Kind {
	case LiteralString:
		return token.StringToken(in.Text), nil
	case LiteralInt:
		n, err := strconv.ParseInt(in.Text, 10, 64)
		if err != nil {
			return token.Token{}, fmt.Errorf("literal %q is not an int: %w", in.Text, err)
		}
		return token.IntToken(n), nil
	case LiteralFloat:
		f, err := strconv.ParseFloat(in.Text, 64)
		if err != nil {
			return token.Token{}, fmt.Errorf("literal %q is not a float: %w", in.Text, err)
		}
		return token.FloatToken(f), nil
	}
	return token.Token{}, fmt.Errorf("unknown literal kind %q", in.Kind)
}

// recordCoercionError classifies a FromLiteral failure into an outcome.
func recordCoercionError(event *CheckEvent, err error) {
	if coerce.IsUnexpectedToken(err) {
		event.Outcome = OutcomeUnexpectedToken
	} else {
		event.Outcome = OutcomeDecodeError
	}
	event.Error = err.Error()
}

// recordWire serializes the domain value back to canonical wire JSON.
func recordWire(event *CheckEvent, entry *registry.Entry, dv coerce.DomainValue) error {
	data, err := wire.MarshalCanonical(entry.Resolve(dv))
	if err != nil {
		return fmt.Errorf("serializing %s: %w", event.Scalar, err)
	}
	event.Outcome = OutcomeOK
	event.Wire = string(data)
	return nil
}

// resolveDomainValue constructs a domain value from a resolve input,
// dispatching on the scalar's variant.
func resolveDomainValue(variant string, in *ResolveInput) (coerce.DomainValue, error) {
	switch variant {
	case "OffsetDateTime":
		t, err := parseResolveRFC3339(in)
		if err != nil {
			return nil, err
		}
		return coerce.NewOffsetDateTime(t), nil

	case "UTCDateTime":
		t, err := parseResolveRFC3339(in)
		if err != nil {
			return nil, err
		}
		return coerce.NewUTCDateTime(t), nil

	case "CalendarDate":
		if in.Year == nil || in.Month == nil || in.Day == nil {
			return nil, fmt.Errorf("resolve for CalendarDate needs year, month, day")
		}
		return coerce.CalendarDate{Year: *in.Year, Month: time.Month(*in.Month), Day: *in.Day}, nil

	case "WallClockTime":
		if in.Hour == nil || in.Minute == nil || in.Second == nil {
			return nil, fmt.Errorf("resolve for WallClockTime needs hour, minute, second")
		}
		return coerce.WallClockTime{Hour: *in.Hour, Minute: *in.Minute, Second: *in.Second}, nil

	case "NaiveDateTime":
		if in.Unix == nil {
			return nil, fmt.Errorf("resolve for NaiveDateTime needs unix")
		}
		return coerce.NewNaiveDateTime(time.Unix(*in.Unix, 0).UTC()), nil
	}

	return nil, fmt.Errorf("unknown variant %q", variant)
}

func parseResolveRFC3339(in *ResolveInput) (time.Time, error) {
	if in.RFC3339 == "" {
		return time.Time{}, fmt.Errorf("resolve for a datetime scalar needs rfc3339")
	}
	t, err := time.Parse(time.RFC3339Nano, in.RFC3339)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve rfc3339: %w", err)
	}
	return t, nil
}
