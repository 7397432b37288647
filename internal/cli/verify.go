package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/envlit/internal/gen"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Output   string
	Manifest string
}

// VerifyResult is the JSON payload of a verify run.
type VerifyResult struct {
	Output         string `json:"output"`
	UpToDate       bool   `json:"up_to_date"`
	ExpectedDigest string `json:"expected_digest"`
	ActualDigest   string `json:"actual_digest,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <package-dir>",
		Short: "Check that the generated file matches the environment",
		Long: `Re-resolve every invocation and compare the result with the existing
generated file, byte for byte. Exits non-zero if the file is missing or
stale.

Intended for CI: an unchanged environment must reproduce the generated
file exactly, so a verify failure means the file was not regenerated after
an environment or directive change.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "generated file name (default env_literals.go)")
	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "load invocations from a YAML manifest instead of directives")

	return cmd
}

func runVerify(opts *VerifyOptions, dir string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd)

	// Fail fast on scan errors: verify only needs a yes/no answer.
	result, err := resolveInvocations(formatter, dir, opts.Manifest, opts.Output, LoadModeFailFast)
	if err != nil {
		return err
	}

	expected, renderErr := gen.Render(gen.File{
		Package:     result.Package,
		Digest:      result.Digest,
		Resolutions: result.Resolutions,
	})
	if renderErr != nil {
		return outputCommandError(formatter, ErrCodeFormatFailed, renderErr.Error())
	}

	path := result.outputPath(dir)
	actual, readErr := os.ReadFile(path)
	if os.IsNotExist(readErr) {
		return outputVerifyFailure(formatter, result, path, "", ErrCodeMissingFile,
			fmt.Sprintf("generated file %s does not exist; run envlit generate", path))
	}
	if readErr != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("reading %s: %v", path, readErr))
	}

	if !bytes.Equal(expected, actual) {
		actualDigest, _ := gen.ParseDigest(actual)
		return outputVerifyFailure(formatter, result, path, actualDigest, ErrCodeStaleFile,
			fmt.Sprintf("generated file %s is stale; run envlit generate", path))
	}

	return outputVerifySuccess(formatter, result, path)
}

// outputVerifySuccess reports an up-to-date generated file.
func outputVerifySuccess(formatter *OutputFormatter, result *resolveResult, path string) error {
	if formatter.Format == "json" {
		enc := json.NewEncoder(formatter.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "ok",
			Data: VerifyResult{
				Output:         path,
				UpToDate:       true,
				ExpectedDigest: result.Digest,
				ActualDigest:   result.Digest,
			},
			TraceID: formatter.TraceID,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is up to date (%d constant(s))\n", path, len(result.Resolutions))
	return nil
}

// outputVerifyFailure reports a missing or stale generated file.
// Verification failures are diagnostic failures (exit code 1).
func outputVerifyFailure(formatter *OutputFormatter, result *resolveResult, path, actualDigest, code, message string) error {
	if formatter.Format == "json" {
		enc := json.NewEncoder(formatter.Writer)
		enc.SetIndent("", "  ")
		response := CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message},
			Data: VerifyResult{
				Output:         path,
				UpToDate:       false,
				ExpectedDigest: result.Digest,
				ActualDigest:   actualDigest,
			},
			TraceID: formatter.TraceID,
		}
		if err := enc.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, message))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s\n", message)
	fmt.Fprintf(formatter.Writer, "  expected digest: sha256:%s\n", result.Digest)
	if actualDigest != "" {
		fmt.Fprintf(formatter.Writer, "  actual digest:   sha256:%s\n", actualDigest)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, message))
}
