package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/envlit/internal/gen"
)

// VersionResult is the JSON payload of the version command.
type VersionResult struct {
	Version       string `json:"version"`
	FormatVersion string `json:"format_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the envlit version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := NewFormatter(rootOpts, cmd)
			if formatter.Format == "json" {
				return formatter.Success(VersionResult{
					Version:       gen.ToolVersion,
					FormatVersion: gen.FormatVersion,
				})
			}
			fmt.Fprintf(formatter.Writer, "envlit version %s (format %s)\n", gen.ToolVersion, gen.FormatVersion)
			return nil
		},
	}
}
