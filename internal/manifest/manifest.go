// Package manifest loads invocations from an envlit.yaml file, for projects
// that prefer declaring constants in configuration over source directives.
//
// Example manifest:
//
//	package: config
//	output: env_literals.go
//	constants:
//	  - name: Port
//	    from: PORT
//	    default: 8080
//	  - name: Version
//	    from: VERSION
package manifest

import (
	"bytes"
	"fmt"
	"go/token"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/envlit/internal/directive"
	"github.com/roach88/envlit/internal/resolver"
)

// ErrCodeMalformedManifest is reported when the YAML itself cannot be
// decoded. Entry-level problems reuse the directive scanner's codes.
const ErrCodeMalformedManifest = "E106"

// Manifest is the decoded envlit.yaml document.
type Manifest struct {
	// Package is the package clause of the generated file.
	Package string `yaml:"package"`

	// Output overrides the generated file name. Optional.
	Output string `yaml:"output,omitempty"`

	// Constants are the declared invocations, in document order.
	Constants []Entry `yaml:"constants"`
}

// Entry is one declared constant.
type Entry struct {
	Name    string  `yaml:"name"`
	From    string  `yaml:"from"`
	Default *uint64 `yaml:"default,omitempty"`
}

// ManifestError is a manifest diagnostic carrying the entry's site.
type ManifestError struct {
	Code    string
	Message string
	Site    string // "<path>#constants[i]" or just "<path>"
}

// Error implements the error interface.
func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Site, e.Code, e.Message)
}

// Load reads and validates a manifest. Entry validation collects all errors
// rather than failing fast; decode failures are terminal since nothing can
// be validated afterwards.
func Load(path string) (*Manifest, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&ManifestError{
			Code:    ErrCodeMalformedManifest,
			Message: fmt.Sprintf("reading manifest: %v", err),
			Site:    path,
		}}
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, []error{&ManifestError{
			Code:    ErrCodeMalformedManifest,
			Message: fmt.Sprintf("decoding manifest: %v", err),
			Site:    path,
		}}
	}

	var errs []error
	if !token.IsIdentifier(m.Package) {
		errs = append(errs, &ManifestError{
			Code:    ErrCodeMalformedManifest,
			Message: fmt.Sprintf("package %q is not a valid Go identifier", m.Package),
			Site:    path,
		})
	}
	if len(m.Constants) == 0 {
		errs = append(errs, &ManifestError{
			Code:    ErrCodeMalformedManifest,
			Message: "manifest declares no constants",
			Site:    path,
		})
	}

	seen := make(map[string]int) // const name -> first entry index
	for i, entry := range m.Constants {
		site := fmt.Sprintf("%s#constants[%d]", path, i)
		switch {
		case entry.Name == "":
			errs = append(errs, &ManifestError{
				Code:    directive.ErrCodeMalformedDirective,
				Message: "entry requires a constant name",
				Site:    site,
			})
			continue
		case !token.IsIdentifier(entry.Name):
			errs = append(errs, &ManifestError{
				Code:    directive.ErrCodeInvalidIdentifier,
				Message: fmt.Sprintf("constant name %q is not a valid Go identifier", entry.Name),
				Site:    site,
			})
			continue
		case entry.From == "":
			errs = append(errs, &ManifestError{
				Code:    directive.ErrCodeMissingVarName,
				Message: fmt.Sprintf("entry for %s requires from: <VAR>", entry.Name),
				Site:    site,
			})
			continue
		}
		if first, dup := seen[entry.Name]; dup {
			errs = append(errs, &ManifestError{
				Code:    directive.ErrCodeDuplicateConst,
				Message: fmt.Sprintf("constant %s already declared at constants[%d]", entry.Name, first),
				Site:    site,
			})
			continue
		}
		seen[entry.Name] = i
	}

	return &m, errs
}

// Invocations converts manifest entries to resolver invocations.
func (m *Manifest) Invocations(path string) []resolver.Invocation {
	invs := make([]resolver.Invocation, len(m.Constants))
	for i, entry := range m.Constants {
		invs[i] = resolver.Invocation{
			ConstName: entry.Name,
			VarName:   entry.From,
			Default:   entry.Default,
			Site:      fmt.Sprintf("%s#constants[%d]", path, i),
		}
	}
	return invs
}
