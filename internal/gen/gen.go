// Package gen renders resolved invocations into a generated Go source file.
//
// The output is deterministic: constants are sorted by name, the content is
// gofmt-formatted, and the header carries a digest of the canonical
// resolution set. Re-running against an unchanged environment reproduces
// the file byte for byte, which is what `envlit verify` checks.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"regexp"
	"sort"

	"github.com/roach88/envlit/internal/canon"
	"github.com/roach88/envlit/internal/resolver"
)

// Header is the first line of every generated file. The directive scanner
// recognizes it and skips the file on subsequent runs.
const Header = "// Code generated by envlit; DO NOT EDIT."

// File describes one generated file.
type File struct {
	// Package is the package clause of the generated file.
	Package string

	// Digest is the resolution-set digest embedded in the header,
	// normally computed by ResolutionDigest.
	Digest string

	// Resolutions are the constants to emit. Render sorts them by
	// constant name; callers need not.
	Resolutions []resolver.Resolution
}

// digestRx extracts the digest line from a generated file.
var digestRx = regexp.MustCompile(`(?m)^// envlit:digest sha256:([0-9a-f]{64})$`)

// ResolutionDigest computes the canonical digest of a resolution set.
// The digest covers constant names, variable names, values and sources, so
// any change in the environment that affects the output changes the digest.
func ResolutionDigest(resolutions []resolver.Resolution) (string, error) {
	constants := make([]any, len(resolutions))
	for i, res := range sorted(resolutions) {
		constants[i] = map[string]any{
			"name":   res.Invocation.ConstName,
			"var":    res.Invocation.VarName,
			"value":  res.Value,
			"source": string(res.Source),
		}
	}

	canonical, err := canon.Marshal(map[string]any{
		"version":   FormatVersion,
		"constants": constants,
	})
	if err != nil {
		return "", fmt.Errorf("ResolutionDigest: failed to marshal: %w", err)
	}

	return canon.Digest(canon.DomainResolution, canonical), nil
}

// Render produces the generated file content. The result is already
// gofmt-formatted; a formatting failure indicates a bug in the renderer and
// is returned as an error rather than producing unparsable output.
func Render(f File) ([]byte, error) {
	if f.Package == "" {
		return nil, fmt.Errorf("render: package name is required")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", Header)
	fmt.Fprintf(&buf, "//\n")
	fmt.Fprintf(&buf, "// envlit:digest sha256:%s\n", f.Digest)
	fmt.Fprintf(&buf, "\n")
	fmt.Fprintf(&buf, "package %s\n", f.Package)
	fmt.Fprintf(&buf, "\n")

	for _, res := range sorted(f.Resolutions) {
		fmt.Fprintf(&buf, "const %s uint64 = %d\n", res.Invocation.ConstName, res.Value)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return formatted, nil
}

// ParseDigest extracts the digest from previously generated content.
func ParseDigest(content []byte) (string, bool) {
	m := digestRx.FindSubmatch(content)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// sorted returns the resolutions ordered by constant name. The input slice
// is not modified.
func sorted(resolutions []resolver.Resolution) []resolver.Resolution {
	out := make([]resolver.Resolution, len(resolutions))
	copy(out, resolutions)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Invocation.ConstName < out[j].Invocation.ConstName
	})
	return out
}
