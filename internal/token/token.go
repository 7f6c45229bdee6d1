// Package token defines the lexical literal tokens handed to the scalar
// coercion layer by the query parser, and the classifier that sorts them
// into the wire kinds a scalar can accept.
//
// The parser itself is an external collaborator; this package only models
// the slice of its output that scalar coercion consumes.
package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical shape of a token.
type Kind int

// Token kinds.
const (
	Illegal Kind = iota // unrecognized input
	EOF                 // end of source

	Name   // bare identifiers (field names, enum values)
	String // quoted string literals
	Int    // integer literals
	Float  // decimal / exponent literals
	Punct  // punctuators ({ } [ ] ( ) : , $ ! =)
)

var kindNames = map[Kind]string{
	Illegal: "Illegal",
	EOF:     "EOF",
	Name:    "Name",
	String:  "String",
	Int:     "Int",
	Float:   "Float",
	Punct:   "Punct",
}

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position locates a token in query source. The zero value means
// "position unknown" (tokens built programmatically, e.g. in tests).
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// IsValid returns true if the position is known.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Token is a single lexical unit from query source text.
//
// Text holds the raw payload for String, Name, and Punct tokens (string
// literals arrive with quotes already stripped and escapes resolved by
// the lexer). Value holds the numeric value for Int and Float tokens.
type Token struct {
	Kind  Kind
	Text  string
	Value float64
	Pos   Position
}

// StringToken builds a string-literal token. Test and CLI convenience.
func StringToken(text string) Token {
	return Token{Kind: String, Text: text}
}

// FloatToken builds a numeric-literal token. Test and CLI convenience.
func FloatToken(v float64) Token {
	return Token{Kind: Float, Value: v}
}

// IntToken builds an integer-literal token. Test and CLI convenience.
func IntToken(v int64) Token {
	return Token{Kind: Int, Value: float64(v), Text: strconv.FormatInt(v, 10)}
}

// String renders the token for error messages, quoting string payloads so
// a string literal "42" is distinguishable from the number 42.
func (t Token) String() string {
	switch t.Kind {
	case String:
		return strconv.Quote(t.Text)
	case Int, Float:
		return strconv.FormatFloat(t.Value, 'g', -1, 64)
	case EOF:
		return "<EOF>"
	default:
		return t.Text
	}
}

// Class is the three-way classification of a literal token as seen by
// scalar coercion: either it can carry a string-kind wire value, a
// number-kind wire value, or it cannot carry a scalar at all.
type Class int

// Classification results.
const (
	ClassOther  Class = iota // not a scalar literal (names, punctuation, EOF)
	ClassString              // string literal
	ClassNumber              // int or float literal
)

// String returns the class name for diagnostics.
func (c Class) String() string {
	switch c {
	case ClassString:
		return "String"
	case ClassNumber:
		return "Number"
	default:
		return "Other"
	}
}

// Classify reports which wire kind a literal token is syntactically
// capable of carrying. Pure function; classification itself never fails,
// rejection of an unwanted class is the caller's responsibility.
func Classify(t Token) Class {
	switch t.Kind {
	case String:
		return ClassString
	case Int, Float:
		return ClassNumber
	default:
		return ClassOther
	}
}
