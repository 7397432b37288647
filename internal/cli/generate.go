package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/envlit/internal/gen"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output   string // generated file name, overrides manifest and default
	Manifest string // manifest path; directives are scanned when empty
}

// GenerateResult is the JSON payload of a successful generate run.
type GenerateResult struct {
	Package   string           `json:"package"`
	Output    string           `json:"output"`
	Digest    string           `json:"digest"`
	Constants []ConstantResult `json:"constants"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <package-dir>",
		Short: "Resolve invocations and write the generated file",
		Long: `Resolve every envlit invocation against the current environment and
write the generated constants file into the package directory.

Invocations come from //envlit:const directives in the package's Go files,
or from a YAML manifest when --manifest is given. Any missing variable or
non-numeric content aborts the run before anything is written.

Typical use is a go:generate line in the target package:

	//go:generate envlit generate .`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "generated file name (default env_literals.go)")
	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "load invocations from a YAML manifest instead of directives")

	return cmd
}

func runGenerate(opts *GenerateOptions, dir string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd)

	result, err := resolveInvocations(formatter, dir, opts.Manifest, opts.Output, LoadModeCollectAll)
	if err != nil {
		return err
	}

	content, renderErr := gen.Render(gen.File{
		Package:     result.Package,
		Digest:      result.Digest,
		Resolutions: result.Resolutions,
	})
	if renderErr != nil {
		return outputCommandError(formatter, ErrCodeFormatFailed, renderErr.Error())
	}

	path := result.outputPath(dir)
	if writeErr := os.WriteFile(path, content, 0644); writeErr != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", path, writeErr))
	}

	formatter.VerboseLog("Wrote %d byte(s) to %s", len(content), path)

	return outputGenerateSuccess(formatter, result, path)
}

// outputGenerateSuccess outputs the result of a successful generation.
func outputGenerateSuccess(formatter *OutputFormatter, result *resolveResult, path string) error {
	if formatter.Format == "json" {
		enc := json.NewEncoder(formatter.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "ok",
			Data: GenerateResult{
				Package:   result.Package,
				Output:    path,
				Digest:    result.Digest,
				Constants: result.constants(),
			},
			TraceID: formatter.TraceID,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Generated %s (%d constant(s))\n\n", path, len(result.Resolutions))

	if len(result.Resolutions) > 0 {
		fmt.Fprintln(formatter.Writer, "Constants:")
		for _, c := range result.constants() {
			fmt.Fprintf(formatter.Writer, "  %s = %d (%s, %s)\n", c.Name, c.Value, c.Var, c.Source)
		}
		fmt.Fprintln(formatter.Writer)
	}

	return nil
}
