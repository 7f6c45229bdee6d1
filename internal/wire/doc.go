// Package wire defines the engine-level value representation exchanged
// between the scalar coercion layer and the execution engine.
//
// This package contains type definitions and serialization only. All other
// internal packages import wire; wire imports nothing internal. This keeps
// the wire model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Value is a sealed interface; the variant set is closed
//   - No implicit cross-kind coercion: accessors return absence on mismatch
//   - Canonical JSON (RFC 8785 key order, NFC strings) is the only
//     serialization used for golden files and corpus hashing
package wire
