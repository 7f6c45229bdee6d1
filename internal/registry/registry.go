// Package registry binds coercion rules to schema-visible scalar names.
//
// A Registry is assembled once by the schema builder and is immutable
// afterward; entries are safe to share across concurrent resolutions
// without synchronization. Registration-time violations (duplicate or
// empty names) are programmer errors surfaced by the builder, never by
// the data path.
package registry

import (
	"fmt"

	"github.com/tempoql/tempoql/internal/coerce"
	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

// Entry exposes one domain type as a named, described scalar. The
// execution engine consumes its three entry points during result
// serialization (Resolve), literal-argument binding (FromLiteral), and
// variable-argument binding (FromVariable).
type Entry struct {
	Name        string
	Description string
	Variant     string // domain variant name, for introspection

	rule coerce.Rule
}

// Resolve serializes a domain value to its wire form. Total; never fails
// for values of the entry's variant.
func (e *Entry) Resolve(v coerce.DomainValue) wire.Value {
	return e.rule.Serialize(v)
}

// FromLiteral coerces a lexical literal token into a domain value. A
// token of the wrong lexical kind fails with *coerce.UnexpectedTokenError
// before any decode is attempted; a token of the right kind whose payload
// does not parse fails with *DecodeError carrying the rejected token.
func (e *Entry) FromLiteral(t token.Token) (coerce.DomainValue, error) {
	wv, err := e.rule.ParseLiteral(t)
	if err != nil {
		return nil, err
	}
	dv, ok := e.rule.Decode(wv)
	if !ok {
		return nil, &DecodeError{Scalar: e.Name, Token: t}
	}
	return dv, nil
}

// FromVariable coerces an already-decoded wire value into a domain value.
// Absence means the wire value's kind or content does not fit the scalar;
// the argument binder is responsible for attaching field-path context.
func (e *Entry) FromVariable(v wire.Value) (coerce.DomainValue, bool) {
	return e.rule.Decode(v)
}

// DecodeError reports a literal whose lexical kind matched the scalar but
// whose content does not parse into the domain type.
type DecodeError struct {
	Scalar string
	Token  token.Token
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Token.Pos.IsValid() {
		return fmt.Sprintf("invalid %s literal %s at %d:%d", e.Scalar, e.Token, e.Token.Pos.Line, e.Token.Pos.Column)
	}
	return fmt.Sprintf("invalid %s literal %s", e.Scalar, e.Token)
}

// Registry is the immutable scalar name table.
type Registry struct {
	entries map[string]*Entry
	names   []string // registration order
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns scalar names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered scalars.
func (r *Registry) Len() int {
	return len(r.names)
}

// Builder assembles a Registry. Not safe for concurrent use; build on one
// goroutine during schema assembly, then share the Registry freely.
type Builder struct {
	entries map[string]*Entry
	names   []string
}

// NewBuilder creates an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]*Entry)}
}

// Register attaches a rule to a scalar name. Empty names and duplicate
// registrations are rejected.
func (b *Builder) Register(name, description, variant string, rule coerce.Rule) error {
	if name == "" {
		return fmt.Errorf("scalar name must not be empty")
	}
	if rule == nil {
		return fmt.Errorf("scalar %q: rule must not be nil", name)
	}
	if _, exists := b.entries[name]; exists {
		return fmt.Errorf("scalar %q already registered", name)
	}
	b.entries[name] = &Entry{Name: name, Description: description, Variant: variant, rule: rule}
	b.names = append(b.names, name)
	return nil
}

// RegisterVariant attaches the built-in rule for a domain variant name.
func (b *Builder) RegisterVariant(name, description, variant string) error {
	rule, ok := coerce.RuleFor(variant)
	if !ok {
		return fmt.Errorf("scalar %q: unknown variant %q", name, variant)
	}
	return b.Register(name, description, variant, rule)
}

// Build finalizes the registry.
func (b *Builder) Build() *Registry {
	entries := make(map[string]*Entry, len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	names := make([]string, len(b.names))
	copy(names, b.names)
	return &Registry{entries: entries, names: names}
}

// defaultScalars lists the built-in temporal scalars under their
// canonical schema names.
var defaultScalars = []struct {
	name        string
	description string
	variant     string
}{
	{"DateTimeFixedOffset", "DateTime", "OffsetDateTime"},
	{"DateTimeUtc", "DateTime", "UTCDateTime"},
	{"NaiveDate", "NaiveDate", "CalendarDate"},
	{"NaiveTime", "NaiveTime", "WallClockTime"},
	{"NaiveDateTime", "NaiveDateTime", "NaiveDateTime"},
}

// Default builds the registry of built-in temporal scalars.
func Default() *Registry {
	b := NewBuilder()
	for _, s := range defaultScalars {
		if err := b.RegisterVariant(s.name, s.description, s.variant); err != nil {
			// The built-in table is static; a failure here is a
			// programming error.
			panic(err)
		}
	}
	return b.Build()
}
