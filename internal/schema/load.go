package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/rdfmap/internal/resource"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Error codes for loading.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeNoClasses   = "E007" // No classes declared
	ErrCodeClass       = "E101" // Class declaration rejected
	ErrCodePrefix      = "E102" // Prefix table rejected
)

// LoadError is an error that occurred while loading a schema.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Schema is a compiled set of class declarations.
type Schema struct {
	Prefixes  map[string]string
	Classes   []*ClassDecl
	FileCount int
}

// Load compiles the CUE package in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func Load(dir string, mode LoadMode) (*Schema, []error) {
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

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
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

	s, errs := compileValue(value, mode)
	if s != nil {
		s.FileCount = len(files)
	}
	return s, errs
}

// CompileString compiles schema source held in memory, failing fast.
func CompileString(src string) (*Schema, error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	s, errs := compileValue(value, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return s, nil
}

func compileValue(value cue.Value, mode LoadMode) (*Schema, []error) {
	var errs []error
	s := &Schema{Prefixes: make(map[string]string)}

	if prefixesVal := value.LookupPath(cue.ParsePath("prefixes")); prefixesVal.Exists() {
		if err := prefixesVal.Decode(&s.Prefixes); err != nil {
			errs = append(errs, &LoadError{Code: ErrCodePrefix, Message: fmt.Sprintf("prefixes: %v", err), Pos: prefixesVal.Pos()})
			if mode == LoadModeFailFast {
				return s, errs
			}
		}
	}

	classesVal := value.LookupPath(cue.ParsePath("class"))
	if classesVal.Exists() {
		iter, err := classesVal.Fields()
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating classes: %v", err)})
			return s, errs
		}
		for iter.Next() {
			decl, err := CompileClass(iter.Value(), s.Prefixes)
			if err != nil {
				errs = append(errs, convertCompileError(err, "class."+iter.Label()))
				if mode == LoadModeFailFast {
					return s, errs
				}
				continue
			}
			s.Classes = append(s.Classes, decl)
		}
	}

	if len(s.Classes) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoClasses, Message: "no classes declared"})
	}
	return s, errs
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

func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeClass,
			Message: fmt.Sprintf("%s: %s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Class returns the named declaration.
func (s *Schema) Class(name string) (*ClassDecl, bool) {
	for _, c := range s.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Names returns the declared class names, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Declare builds every class and declares them on m in one call, so
// classes may refer to each other in any order.
func (s *Schema) Declare(m *resource.Mapper) error {
	classes := make([]*resource.Class, 0, len(s.Classes))
	for _, c := range s.Classes {
		classes = append(classes, c.Class())
	}
	if err := m.Declare(classes...); err != nil {
		return fmt.Errorf("declare schema: %w", err)
	}
	return nil
}
