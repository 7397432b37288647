package gen

// Version constants for the tool and the generated-file format.
const (
	// FormatVersion is the generated-file format version, included in the
	// digest input so a format change invalidates stale files.
	FormatVersion = "1"

	// ToolVersion is the envlit tool version.
	ToolVersion = "0.1.0"
)
