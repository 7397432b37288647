package resolver

import "fmt"

// Invocation is a single use site requesting a literal. It is immutable once
// constructed; the directive scanner and the manifest loader both produce
// this shape.
type Invocation struct {
	// ConstName is the Go constant the literal is emitted as.
	ConstName string `json:"const_name"`

	// VarName is the environment variable read at generation time.
	VarName string `json:"var_name"`

	// Default is the fallback literal used when VarName is absent from the
	// environment. Nil means no fallback: absence is fatal.
	Default *uint64 `json:"default,omitempty"`

	// Site identifies where the invocation was declared, e.g.
	// "config.go:12:1" or "envlit.yaml#constants[2]". Used only in
	// diagnostics.
	Site string `json:"site,omitempty"`
}

// Source records where a resolved value came from.
type Source string

const (
	// SourceEnvironment means the variable was present and its content was
	// parsed.
	SourceEnvironment Source = "environment"

	// SourceDefault means the variable was absent and the declared default
	// was used.
	SourceDefault Source = "default"
)

// Resolution pairs an invocation with the value that will be emitted for it.
// It exists only in memory and as text in the generated file.
type Resolution struct {
	Invocation Invocation `json:"invocation"`
	Value      uint64     `json:"value"`
	Source     Source     `json:"source"`
}

// Resolution error codes (E200-E299).
const (
	// ErrCodeMissingVariable: variable absent and no default declared.
	ErrCodeMissingVariable = "E201"

	// ErrCodeInvalidNumericFormat: variable present but its content is not
	// an unsigned base-10 decimal.
	ErrCodeInvalidNumericFormat = "E202"
)

// ResolveError is a fatal resolution diagnostic. Both kinds abort the run
// before any output is written.
type ResolveError struct {
	Code    string // ErrCodeMissingVariable or ErrCodeInvalidNumericFormat
	VarName string // environment variable being resolved
	Content string // offending content, set only for ErrCodeInvalidNumericFormat
	Site    string // declaration site of the invocation
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	msg := e.Message()
	if e.Site != "" {
		return fmt.Sprintf("%s: %s: %s", e.Site, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Message returns the human-readable diagnostic without site or code prefix.
func (e *ResolveError) Message() string {
	if e.Code == ErrCodeInvalidNumericFormat {
		return fmt.Sprintf("environment variable %s has non-numeric content %q", e.VarName, e.Content)
	}
	return fmt.Sprintf("environment variable %s is not set and no default was declared", e.VarName)
}
