// Package harness provides conformance testing for temporal scalar
// coercion rules.
//
// The harness loads a scalar set (from CUE schema files or the built-in
// registry), runs a list of coercion checks against it, and compares the
// resulting transcript against golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	specs:
//	  - path/to/scalars.cue   # omit to use the built-in scalar set
//	checks:
//	  - scalar: DateTimeUtc
//	    literal: { kind: string, text: "2014-11-28T21:00:09+09:00" }
//	    expect:
//	      outcome: ok
//	      wire: '"2014-11-28T12:00:09+00:00"'
//	  - scalar: NaiveDateTime
//	    variable: "1000000000.75"
//	    expect:
//	      outcome: ok
//	      wire: "1000000000"
//	  - scalar: NaiveTime
//	    resolve: { hour: 21, minute: 12, second: 19 }
//	    expect:
//	      outcome: ok
//	      wire: '"21:12:19"'
//
// Each check exercises exactly one of the three coercion surfaces:
//
//   - literal: classify a parser token and coerce it
//   - variable: coerce a wire value given as JSON text
//   - resolve: construct a domain value and serialize it
//
// Expected outcomes are "ok", "unexpected_token" (literal of the wrong
// token kind), and "decode_error" (well-kinded input the rule rejects;
// for variable checks this covers wire values of the wrong kind). For
// "ok" checks, "wire" gives the expected canonical JSON of the
// re-serialized wire value.
//
// # Deterministic Testing
//
// Transcripts serialize through canonical JSON, so a scenario produces
// byte-identical output across runs and golden files act as the source
// of truth for coercion behavior.
package harness
