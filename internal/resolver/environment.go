package resolver

import (
	"os"
	"strings"
)

// Environment is a read-only view of environment variables. The resolver
// never mutates it and performs exactly one lookup per invocation.
type Environment interface {
	// Lookup returns the variable's raw content and whether it is present.
	// An empty value with present=true is still "present": empty content
	// fails numeric parsing rather than falling back to a default.
	Lookup(name string) (value string, present bool)
}

// MapEnvironment is an Environment backed by a plain map. Used for the
// process snapshot and for tests.
type MapEnvironment map[string]string

// Lookup implements Environment.
func (m MapEnvironment) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Snapshot captures the process environment into an immutable
// MapEnvironment. Taken once per run so every invocation, whatever order it
// is resolved in, observes the same values.
func Snapshot() MapEnvironment {
	environ := os.Environ()
	m := make(MapEnvironment, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[name] = value
	}
	return m
}
