package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVerifyCmd(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewVerifyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestVerifyUpToDate(t *testing.T) {
	t.Setenv("ENVLIT_VERIFY_V", "3")
	dir := writePackage(t, `package config

//envlit:const Version from=ENVLIT_VERIFY_V
`)

	_, err := runGenerateCmd(t, "text", dir)
	require.NoError(t, err)

	buf, err := runVerifyCmd(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "up to date")
}

func TestVerifyStaleAfterEnvChange(t *testing.T) {
	t.Setenv("ENVLIT_VERIFY_STALE", "3")
	dir := writePackage(t, `package config

//envlit:const Version from=ENVLIT_VERIFY_STALE
`)

	_, err := runGenerateCmd(t, "text", dir)
	require.NoError(t, err)

	t.Setenv("ENVLIT_VERIFY_STALE", "4")

	buf, err := runVerifyCmd(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "E301")
	assert.Contains(t, buf.String(), "stale")
	assert.Contains(t, buf.String(), "expected digest")
}

func TestVerifyMissingFile(t *testing.T) {
	t.Setenv("ENVLIT_VERIFY_MISSING", "3")
	dir := writePackage(t, `package config

//envlit:const Version from=ENVLIT_VERIFY_MISSING
`)

	buf, err := runVerifyCmd(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "E302")
	assert.Contains(t, buf.String(), "does not exist")
}

func TestVerifyStaleJSON(t *testing.T) {
	t.Setenv("ENVLIT_VERIFY_JSON", "3")
	dir := writePackage(t, `package config

//envlit:const Version from=ENVLIT_VERIFY_JSON
`)

	_, err := runGenerateCmd(t, "text", dir)
	require.NoError(t, err)

	t.Setenv("ENVLIT_VERIFY_JSON", "4")

	buf, err := runVerifyCmd(t, "json", dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E301", resp.Error.Code)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["up_to_date"])
	assert.NotEmpty(t, data["expected_digest"])
	assert.NotEmpty(t, data["actual_digest"])
	assert.NotEqual(t, data["expected_digest"], data["actual_digest"])
}

func TestVerifyResolutionFailureBeforeComparison(t *testing.T) {
	// A missing variable fails verify with the resolution diagnostic, not
	// with a stale-file report.
	dir := writePackage(t, `package config

//envlit:const Version from=ENVLIT_VERIFY_SURELY_ABSENT
`)

	buf, err := runVerifyCmd(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E201")
}

func TestVerifyManualEditDetected(t *testing.T) {
	// Hand-editing the generated file makes verify fail even though the
	// environment is unchanged.
	t.Setenv("ENVLIT_VERIFY_EDIT", "3")
	dir := writePackage(t, `package config

//envlit:const Version from=ENVLIT_VERIFY_EDIT
`)

	_, err := runGenerateCmd(t, "text", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "env_literals.go")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := bytes.Replace(content, []byte("= 3"), []byte("= 4"), 1)
	require.NoError(t, os.WriteFile(path, edited, 0644))

	_, err = runVerifyCmd(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E301")
}
