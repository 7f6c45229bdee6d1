package cli

import (
	"fmt"

	"github.com/tempoql/tempoql/internal/registry"
	"github.com/tempoql/tempoql/internal/schemadef"
)

// Error codes for coercion commands. Schema loading codes (E001-E008)
// come from the schemadef package.
const (
	ErrCodeUnknownScalar   = "E101" // scalar not in the registry
	ErrCodeUnexpectedToken = "E102" // literal token of the wrong kind
	ErrCodeDecode          = "E103" // well-kinded input the rule rejects
	ErrCodeBadInput        = "E104" // input not parseable at all
	ErrCodeScenario        = "E105" // scenario failed
	ErrCodeDrift           = "E106" // corpus drift detected
)

// loadRegistry builds the scalar registry for a command. With an empty
// specsDir the built-in scalar set is used; otherwise the CUE
// declarations in specsDir define it.
func loadRegistry(specsDir string, formatter *OutputFormatter) (*registry.Registry, error) {
	if specsDir == "" {
		return registry.Default(), nil
	}

	loaded, errs := schemadef.LoadDir(specsDir, schemadef.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError,
			fmt.Sprintf("loading scalar declarations from %s", specsDir), errs[0])
	}
	formatter.VerboseLog("Loaded %d scalar declaration(s) from %d CUE file(s)",
		len(loaded.Scalars), loaded.FileCount)

	reg, err := schemadef.BuildRegistry(loaded.Scalars)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "building scalar registry", err)
	}
	return reg, nil
}
