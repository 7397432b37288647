package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint64) *uint64 {
	return &v
}

func TestResolvePresentVariable(t *testing.T) {
	env := MapEnvironment{"VERSION": "3"}

	res, err := Resolve(Invocation{ConstName: "Version", VarName: "VERSION"}, env)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Value)
	assert.Equal(t, SourceEnvironment, res.Source)
}

func TestResolvePresentVariableIgnoresDefault(t *testing.T) {
	// A present variable always wins over the declared default.
	env := MapEnvironment{"PORT": "9090"}

	res, err := Resolve(Invocation{ConstName: "Port", VarName: "PORT", Default: uintPtr(8080)}, env)
	require.NoError(t, err)
	assert.Equal(t, uint64(9090), res.Value)
	assert.Equal(t, SourceEnvironment, res.Source)
}

func TestResolveAbsentVariableUsesDefault(t *testing.T) {
	env := MapEnvironment{}

	res, err := Resolve(Invocation{ConstName: "Port", VarName: "PORT", Default: uintPtr(8080)}, env)
	require.NoError(t, err)
	assert.Equal(t, uint64(8080), res.Value)
	assert.Equal(t, SourceDefault, res.Source)
}

func TestResolveAbsentVariableNoDefault(t *testing.T) {
	env := MapEnvironment{}

	_, err := Resolve(Invocation{ConstName: "Port", VarName: "PORT", Site: "config.go:4:1"}, env)
	require.Error(t, err)

	var resolveErr *ResolveError
	require.True(t, errors.As(err, &resolveErr))
	assert.Equal(t, ErrCodeMissingVariable, resolveErr.Code)
	assert.Equal(t, "PORT", resolveErr.VarName)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "config.go:4:1")
}

func TestResolveNonNumericContent(t *testing.T) {
	env := MapEnvironment{"FLAG": "abc"}

	_, err := Resolve(Invocation{ConstName: "Flag", VarName: "FLAG"}, env)
	require.Error(t, err)

	var resolveErr *ResolveError
	require.True(t, errors.As(err, &resolveErr))
	assert.Equal(t, ErrCodeInvalidNumericFormat, resolveErr.Code)
	assert.Equal(t, "FLAG", resolveErr.VarName)
	assert.Equal(t, "abc", resolveErr.Content)
	assert.Contains(t, err.Error(), "FLAG")
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestResolveNonNumericContentWithDefault(t *testing.T) {
	// Invalid content is fatal even when a default exists: the default
	// covers absence, never malformed content.
	env := MapEnvironment{"FLAG": "abc"}

	_, err := Resolve(Invocation{ConstName: "Flag", VarName: "FLAG", Default: uintPtr(1)}, env)
	require.Error(t, err)

	var resolveErr *ResolveError
	require.True(t, errors.As(err, &resolveErr))
	assert.Equal(t, ErrCodeInvalidNumericFormat, resolveErr.Code)
}

func TestResolveRejectsNonCanonicalNumerics(t *testing.T) {
	// Only unsigned base-10 decimals are accepted.
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"negative", "-1"},
		{"explicit_plus", "+1"},
		{"leading_space", " 1"},
		{"trailing_space", "1 "},
		{"hex", "0x10"},
		{"float", "1.5"},
		{"underscore_separator", "1_000"},
		{"overflow", "18446744073709551616"}, // MaxUint64 + 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := MapEnvironment{"V": tt.content}
			_, err := Resolve(Invocation{ConstName: "V", VarName: "V"}, env)
			require.Error(t, err)

			var resolveErr *ResolveError
			require.True(t, errors.As(err, &resolveErr))
			assert.Equal(t, ErrCodeInvalidNumericFormat, resolveErr.Code)
		})
	}
}

func TestResolveBoundaryValues(t *testing.T) {
	env := MapEnvironment{
		"ZERO": "0",
		"MAX":  "18446744073709551615", // MaxUint64
	}

	res, err := Resolve(Invocation{ConstName: "Zero", VarName: "ZERO"}, env)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res.Value)

	res, err = Resolve(Invocation{ConstName: "Max", VarName: "MAX"}, env)
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), res.Value)
}

func TestResolveAllCollectsErrors(t *testing.T) {
	env := MapEnvironment{"GOOD": "1", "BAD": "abc"}

	invs := []Invocation{
		{ConstName: "Good", VarName: "GOOD"},
		{ConstName: "Bad", VarName: "BAD"},
		{ConstName: "Missing", VarName: "MISSING"},
	}

	resolutions, errs := ResolveAll(invs, env)
	assert.Nil(t, resolutions)
	require.Len(t, errs, 2)

	var first, second *ResolveError
	require.True(t, errors.As(errs[0], &first))
	require.True(t, errors.As(errs[1], &second))
	assert.Equal(t, ErrCodeInvalidNumericFormat, first.Code)
	assert.Equal(t, ErrCodeMissingVariable, second.Code)
}

func TestResolveAllPreservesOrder(t *testing.T) {
	env := MapEnvironment{"A": "1", "B": "2"}

	invs := []Invocation{
		{ConstName: "B", VarName: "B"},
		{ConstName: "A", VarName: "A"},
	}

	resolutions, errs := ResolveAll(invs, env)
	require.Empty(t, errs)
	require.Len(t, resolutions, 2)
	assert.Equal(t, "B", resolutions[0].Invocation.ConstName)
	assert.Equal(t, "A", resolutions[1].Invocation.ConstName)
}

func TestResolveIdempotent(t *testing.T) {
	// Same invocation, same environment, same literal every time.
	env := MapEnvironment{"VERSION": "3"}
	inv := Invocation{ConstName: "Version", VarName: "VERSION"}

	first, err := Resolve(inv, env)
	require.NoError(t, err)
	second, err := Resolve(inv, env)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSnapshotCapturesProcessEnvironment(t *testing.T) {
	t.Setenv("ENVLIT_SNAPSHOT_TEST", "42")

	env := Snapshot()
	v, ok := env.Lookup("ENVLIT_SNAPSHOT_TEST")
	require.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestSnapshotIsImmutable(t *testing.T) {
	t.Setenv("ENVLIT_SNAPSHOT_MUT", "before")

	env := Snapshot()
	t.Setenv("ENVLIT_SNAPSHOT_MUT", "after")

	v, ok := env.Lookup("ENVLIT_SNAPSHOT_MUT")
	require.True(t, ok)
	assert.Equal(t, "before", v)
}
