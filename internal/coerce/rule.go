package coerce

import (
	"errors"
	"fmt"

	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

// Rule is the immutable coercion capability for one domain variant. A
// rule pairs the three operations the execution engine needs:
//
//   - Serialize: domain value -> wire value, used during result
//     serialization. Total; never fails on a value of the rule's variant.
//   - ParseLiteral: lexical token -> wire value, used during
//     literal-argument binding. Checks the token's lexical kind only and
//     boxes the raw payload uninterpreted; interpretation happens in
//     Decode.
//   - Decode: wire value -> domain value, used during both literal and
//     variable binding. Strict: grammar or range violations yield
//     absence, never an error value and never a panic.
//
// Rules are constructed once at schema assembly and are read-only for the
// schema's lifetime. They hold no state, so concurrent resolutions may
// share them without synchronization.
type Rule interface {
	Serialize(v DomainValue) wire.Value
	ParseLiteral(t token.Token) (wire.Value, error)
	Decode(v wire.Value) (DomainValue, bool)
}

// UnexpectedTokenError reports a literal token whose lexical kind does
// not match the scalar's wire kind (e.g. a number literal where a string
// is required). The offending token is attached so the engine can report
// the literal's position to the query caller.
type UnexpectedTokenError struct {
	Token token.Token
}

// Error implements the error interface.
func (e *UnexpectedTokenError) Error() string {
	if e.Token.Pos.IsValid() {
		return fmt.Sprintf("unexpected token %s at %d:%d", e.Token, e.Token.Pos.Line, e.Token.Pos.Column)
	}
	return fmt.Sprintf("unexpected token %s", e.Token)
}

// IsUnexpectedToken returns true if the error is an UnexpectedTokenError.
// Uses errors.As to handle wrapped errors.
func IsUnexpectedToken(err error) bool {
	var ute *UnexpectedTokenError
	return errors.As(err, &ute)
}

// parseStringLiteral boxes a string-literal token's payload into a
// string-kind wire value. Any other token kind is rejected.
func parseStringLiteral(t token.Token) (wire.Value, error) {
	if token.Classify(t) != token.ClassString {
		return nil, &UnexpectedTokenError{Token: t}
	}
	return wire.String(t.Text), nil
}

// parseNumberLiteral boxes a numeric-literal token's value into a
// number-kind wire value. Int and float literals both qualify; any other
// token kind is rejected.
func parseNumberLiteral(t token.Token) (wire.Value, error) {
	if token.Classify(t) != token.ClassNumber {
		return nil, &UnexpectedTokenError{Token: t}
	}
	return wire.Float(t.Value), nil
}
