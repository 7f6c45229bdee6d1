package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tempoql/tempoql/internal/wire"
)

// TranscriptSnapshot captures the complete transcript for a scenario
// execution. All fields use canonical JSON serialization for
// deterministic comparison.
type TranscriptSnapshot struct {
	ScenarioName string
	Transcript   []CheckEvent
}

// toCanonicalMap converts the snapshot to a map[string]any, the shape
// wire.MarshalCanonical accepts.
func (s *TranscriptSnapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Transcript))
	for i, event := range s.Transcript {
		eventMap := map[string]any{
			"seq":     event.Seq,
			"scalar":  event.Scalar,
			"surface": event.Surface,
			"input":   event.Input,
			"outcome": event.Outcome,
		}
		if event.Wire != "" {
			eventMap["wire"] = event.Wire
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		events[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"transcript":    events,
	}
}

// RunWithGolden executes a scenario and compares the transcript against
// a golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the transcript doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's transcript against a golden
// file. Useful when a scenario has already been run and the result
// should be compared without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TranscriptSnapshot{
		ScenarioName: scenarioName,
		Transcript:   result.Transcript,
	}

	data, err := wire.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
