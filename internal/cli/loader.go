package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/envlit/internal/directive"
	"github.com/roach88/envlit/internal/manifest"
	"github.com/roach88/envlit/internal/resolver"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan or parse error
	ErrCodeNoInvocations = "E003" // No directives or manifest entries found
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeFormatFailed  = "E008" // Generated source failed gofmt

	// Verify errors
	ErrCodeStaleFile   = "E301" // Generated file does not match the environment
	ErrCodeMissingFile = "E302" // Generated file absent
)

// LoadMode controls how errors are handled during invocation loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the invocations gathered from a package directory or
// a manifest.
type LoadResult struct {
	Package     string // package clause for the generated file
	Invocations []resolver.Invocation
	FileCount   int    // number of Go files scanned (1 for manifests)
	Output      string // manifest output override, "" otherwise
}

// LoadError represents a loader-level failure with a stable code.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadInvocations gathers invocations from the manifest when manifestPath is
// set, otherwise by scanning dir for directives. A nil result means a
// command-level failure; a non-nil result with errors means diagnostics.
func LoadInvocations(dir, manifestPath string, mode LoadMode) (*LoadResult, []error) {
	if manifestPath != "" {
		return loadFromManifest(manifestPath, mode)
	}
	return loadFromDirectives(dir, mode)
}

func loadFromManifest(path string, mode LoadMode) (*LoadResult, []error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("manifest not found: %s", path)}}
	}

	m, errs := manifest.Load(path)
	if m == nil {
		return nil, truncate(errs, mode)
	}

	result := &LoadResult{
		Package:     m.Package,
		Invocations: m.Invocations(path),
		FileCount:   1,
		Output:      m.Output,
	}
	return result, truncate(errs, mode)
}

func loadFromDirectives(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("package directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing package directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	scan, scanErrs := directive.Scan(dir)
	if scan == nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: scanErrs[0].Error()}}
	}

	var errs []error
	for _, err := range scanErrs {
		var scanErr *directive.ScanError
		if errors.As(err, &scanErr) {
			errs = append(errs, err)
		} else {
			errs = append(errs, &LoadError{Code: ErrCodeScanError, Message: err.Error()})
		}
	}

	result := &LoadResult{
		Package:     scan.Package,
		Invocations: scan.Invocations,
		FileCount:   scan.FileCount,
	}

	// A package with no directives at all is a command error, not a
	// diagnostic: there is nothing to resolve or report on.
	if len(result.Invocations) == 0 && len(errs) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoInvocations, Message: fmt.Sprintf("no envlit directives found in %s", dir)}}
	}

	return result, truncate(errs, mode)
}

// truncate applies the load mode to a collected error list.
func truncate(errs []error, mode LoadMode) []error {
	if mode == LoadModeFailFast && len(errs) > 1 {
		return errs[:1]
	}
	return errs
}
