package schemadef

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadMode controls how errors are handled during declaration loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading scalar declarations.
type LoadResult struct {
	Scalars   []ScalarSpec
	CUEValue  cue.Value // the raw CUE value for additional processing
	FileCount int       // number of CUE files found
}

// LoadError represents an error that occurred during declaration loading,
// before any individual scalar could be compiled.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants, shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeScanError   = "E002" // directory scan error
	ErrCodeNoFiles     = "E003" // no CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeBadScalar   = "E007" // scalar declaration invalid
	ErrCodeDuplicate   = "E008" // duplicate scalar name
)

// LoadDir loads scalar declarations from every .cue file in dir.
// If mode is LoadModeFailFast, returns on the first error; otherwise all
// errors are collected.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	return loadInstances([]string{"."}, &load.Config{Dir: dir}, len(cueFiles), mode)
}

// LoadFiles loads scalar declarations from explicit CUE file paths.
// Scenario files reference their schema files this way.
func LoadFiles(paths []string, mode LoadMode) (*LoadResult, []error) {
	if len(paths) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: "no CUE files given"}}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema file not found: %s", p)}}
		}
	}
	return loadInstances(paths, &load.Config{}, len(paths), mode)
}

func loadInstances(args []string, cfg *load.Config, fileCount int, mode LoadMode) (*LoadResult, []error) {
	ctx := cuecontext.New()
	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: fileCount,
	}

	var errs []error
	scalarsVal := value.LookupPath(cue.ParsePath("scalar"))
	if scalarsVal.Exists() {
		iter, iterErr := scalarsVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating scalars: %v", iterErr)})
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			for iter.Next() {
				spec, compileErr := CompileScalar(iter.Value())
				if compileErr != nil {
					errs = append(errs, compileErr)
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				result.Scalars = append(result.Scalars, *spec)
			}
		}
	}

	if len(result.Scalars) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no scalar declarations found"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
