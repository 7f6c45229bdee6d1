// Package coerce implements the per-scalar codec between typed temporal
// domain values and their wire-level representation.
//
// The package sits at a trust boundary: serialization outward is total
// and lossless (with one deliberate exception, see NaiveDateTime), while
// decoding inbound text and numbers is strict - malformed input yields a
// typed failure or a value-level absence, never a panic.
//
// Each domain variant has exactly one Rule. Rules are stateless and
// referentially transparent: the same input always produces the same
// output, so a rule table built once at schema assembly is safe for
// concurrent use without synchronization.
package coerce
