package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios validate coercion rules by running a list of checks against
// a scalar set and asserting on the resulting transcript.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists paths to CUE schema files declaring the scalar set.
	// Paths are relative to the scenario file location.
	// If empty, the built-in scalar set is used.
	Specs []string `yaml:"specs,omitempty"`

	// Checks contains the coercion checks to run, in order.
	Checks []Check `yaml:"checks"`
}

// Check represents a single coercion check. Exactly one of Literal,
// Variable, or Resolve must be set.
type Check struct {
	// Scalar is the schema-visible scalar name to coerce against.
	Scalar string `yaml:"scalar"`

	// Literal coerces a parser token.
	Literal *LiteralInput `yaml:"literal,omitempty"`

	// Variable coerces a wire value given as JSON text.
	Variable *string `yaml:"variable,omitempty"`

	// Resolve constructs a domain value directly and serializes it.
	Resolve *ResolveInput `yaml:"resolve,omitempty"`

	// Expect specifies the expected outcome.
	Expect ExpectClause `yaml:"expect"`
}

// LiteralInput describes a parser token.
type LiteralInput struct {
	// Kind is the token kind: "string", "int", or "float".
	Kind string `yaml:"kind"`

	// Text is the token payload. For int and float kinds it is parsed
	// as a number.
	Text string `yaml:"text"`
}

// ResolveInput describes a domain value to construct. Which fields are
// required depends on the scalar's kind:
//
//   - OffsetDateTime, UTCDateTime: rfc3339
//   - CalendarDate: year, month, day
//   - WallClockTime: hour, minute, second
//   - NaiveDateTime: unix
type ResolveInput struct {
	RFC3339 string `yaml:"rfc3339,omitempty"`
	Year    *int   `yaml:"year,omitempty"`
	Month   *int   `yaml:"month,omitempty"`
	Day     *int   `yaml:"day,omitempty"`
	Hour    *int   `yaml:"hour,omitempty"`
	Minute  *int   `yaml:"minute,omitempty"`
	Second  *int   `yaml:"second,omitempty"`
	Unix    *int64 `yaml:"unix,omitempty"`
}

// ExpectClause specifies the expected check result.
type ExpectClause struct {
	// Outcome is one of "ok", "decode_error", "unexpected_token".
	Outcome string `yaml:"outcome"`

	// Wire is the expected canonical JSON of the re-serialized wire
	// value. Only meaningful when Outcome is "ok"; optional even then.
	Wire string `yaml:"wire,omitempty"`
}

// Outcome constants.
const (
	OutcomeOK              = "ok"
	OutcomeDecodeError     = "decode_error"
	OutcomeUnexpectedToken = "unexpected_token"
)

// Token kind names accepted in LiteralInput.Kind.
const (
	LiteralString = "string"
	LiteralInt    = "int"
	LiteralFloat  = "float"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to the provided base path.
// This is useful when scenario files reference schemas using relative
// paths.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "check:" vs "checks:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve spec paths relative to base path BEFORE validation.
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("schema file not found: %s", specPath)
		}
	}

	for i, check := range s.Checks {
		if err := validateCheck(i, &check); err != nil {
			return err
		}
	}

	return nil
}

// validateCheck validates a single check.
func validateCheck(index int, c *Check) error {
	if c.Scalar == "" {
		return fmt.Errorf("checks[%d]: scalar is required", index)
	}

	inputs := 0
	if c.Literal != nil {
		inputs++
	}
	if c.Variable != nil {
		inputs++
	}
	if c.Resolve != nil {
		inputs++
	}
	if inputs != 1 {
		return fmt.Errorf("checks[%d]: exactly one of literal, variable, resolve is required", index)
	}

	if c.Literal != nil {
		switch c.Literal.Kind {
		case LiteralString, LiteralInt, LiteralFloat:
		case "":
			return fmt.Errorf("checks[%d].literal: kind is required", index)
		default:
			return fmt.Errorf("checks[%d].literal: unknown kind %q", index, c.Literal.Kind)
		}
	}

	switch c.Expect.Outcome {
	case OutcomeOK, OutcomeDecodeError, OutcomeUnexpectedToken:
	case "":
		return fmt.Errorf("checks[%d].expect: outcome is required", index)
	default:
		return fmt.Errorf("checks[%d].expect: unknown outcome %q", index, c.Expect.Outcome)
	}

	if c.Expect.Outcome != OutcomeOK && c.Expect.Wire != "" {
		return fmt.Errorf("checks[%d].expect: wire is only valid with outcome ok", index)
	}

	if c.Resolve != nil && c.Expect.Outcome != OutcomeOK {
		return fmt.Errorf("checks[%d]: resolve checks always serialize; outcome must be ok", index)
	}

	return nil
}
