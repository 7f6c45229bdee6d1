// Package schemadef loads scalar declarations from CUE files and builds
// the scalar registry from them.
//
// A schema package declares which temporal scalars it exposes:
//
//	scalar: DateTimeUtc: {
//		description: "DateTime"
//		kind:        "UTCDateTime"
//	}
//
// The struct label is the schema-visible scalar name; kind selects the
// coercion rule by domain variant name. This is the explicit registration
// surface the execution engine calls during schema assembly.
package schemadef

import (
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/tempoql/tempoql/internal/coerce"
	"github.com/tempoql/tempoql/internal/registry"
)

// ScalarSpec is one compiled scalar declaration.
type ScalarSpec struct {
	Name        string // schema-visible scalar name (struct label)
	Description string // optional human-readable description
	Kind        string // domain variant name, e.g. "CalendarDate"
}

// CompileScalar parses a CUE value into a ScalarSpec. The value should be
// the scalar struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`scalar: Date: {kind: "CalendarDate"}`)
//	spec, err := CompileScalar(v.LookupPath(cue.ParsePath("scalar.Date")))
func CompileScalar(v cue.Value) (*ScalarSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ScalarSpec{}

	// Scalar name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}
	// An explicit name field overrides the label, for schemas that want a
	// wire name that is not a valid CUE identifier.
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Name = name
	}
	if spec.Name == "" {
		return nil, &CompileError{
			Field:   "scalar",
			Message: "scalar declaration has no name label",
			Pos:     v.Pos(),
		}
	}

	// kind is required and must name a known domain variant.
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{
			Field:   "kind",
			Message: "kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if _, ok := coerce.RuleFor(kind); !ok {
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown kind %q", kind),
			Pos:     kindVal.Pos(),
		}
	}
	spec.Kind = kind

	// description is optional.
	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Description = desc
	}

	return spec, nil
}

// BuildRegistry assembles a registry from compiled scalar specs.
// Duplicate names surface as registration errors.
func BuildRegistry(specs []ScalarSpec) (*registry.Registry, error) {
	b := registry.NewBuilder()
	for _, s := range specs {
		if err := b.RegisterVariant(s.Name, s.Description, s.Kind); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// CompileError represents a declaration error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
