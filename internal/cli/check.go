package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Manifest string
}

// CheckResult is the JSON payload of a successful check run.
type CheckResult struct {
	Package   string           `json:"package"`
	Digest    string           `json:"digest"`
	Constants []ConstantResult `json:"constants"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <package-dir>",
		Short: "Resolve invocations without writing the generated file",
		Long: `Resolve every envlit invocation against the current environment and
report what would be generated, without writing anything.

Faster feedback than generate during development: the same directive and
resolution diagnostics are produced, but the package directory is left
untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "load invocations from a YAML manifest instead of directives")

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd)

	result, err := resolveInvocations(formatter, dir, opts.Manifest, "", LoadModeCollectAll)
	if err != nil {
		return err
	}

	if formatter.Format == "json" {
		enc := json.NewEncoder(formatter.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "ok",
			Data: CheckResult{
				Package:   result.Package,
				Digest:    result.Digest,
				Constants: result.constants(),
			},
			TraceID: formatter.TraceID,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Resolved %d constant(s)\n\n", len(result.Resolutions))

	if len(result.Resolutions) > 0 {
		fmt.Fprintln(formatter.Writer, "Constants:")
		for _, c := range result.constants() {
			fmt.Fprintf(formatter.Writer, "  %s = %d (%s, %s)\n", c.Name, c.Value, c.Var, c.Source)
		}
		fmt.Fprintln(formatter.Writer)
	}

	return nil
}
