package cli

import (
	"fmt"
	"path/filepath"

	"github.com/roach88/envlit/internal/gen"
	"github.com/roach88/envlit/internal/resolver"
)

// DefaultOutputFile is the generated file name when neither the --output
// flag nor the manifest overrides it.
const DefaultOutputFile = "env_literals.go"

// resolveResult is the outcome of a full load+resolve pass, shared by the
// generate, check and verify commands.
type resolveResult struct {
	Package     string
	Output      string // generated file name
	Resolutions []resolver.Resolution
	Digest      string
	FileCount   int
}

// ConstantResult is the per-constant JSON payload.
type ConstantResult struct {
	Name   string `json:"name"`
	Var    string `json:"var"`
	Value  uint64 `json:"value"`
	Source string `json:"source"`
}

// resolveInvocations loads invocations, snapshots the environment and
// resolves everything. On failure the diagnostics have already been written
// through the formatter and the returned error carries the exit code.
func resolveInvocations(formatter *OutputFormatter, dir, manifestPath, outputFlag string, mode LoadMode) (*resolveResult, error) {
	loadResult, loadErrs := LoadInvocations(dir, manifestPath, mode)

	// Handle load errors with no result (directory not found, unreadable
	// manifest, etc.)
	if loadResult == nil && len(loadErrs) > 0 {
		return nil, commandErrorFromLoad(formatter, loadErrs)
	}

	formatter.VerboseLog("Found %d invocation(s) across %d file(s)", len(loadResult.Invocations), loadResult.FileCount)

	if len(loadErrs) > 0 {
		return nil, outputDiagnostics(formatter, "Scan failed", loadErrs)
	}

	for _, inv := range loadResult.Invocations {
		formatter.VerboseLog("Resolving %s from %s", inv.ConstName, inv.VarName)
	}

	// One snapshot per run: every invocation sees the same environment.
	env := resolver.Snapshot()
	resolutions, resolveErrs := resolver.ResolveAll(loadResult.Invocations, env)
	if len(resolveErrs) > 0 {
		return nil, outputDiagnostics(formatter, "Resolution failed", resolveErrs)
	}

	digest, err := gen.ResolutionDigest(resolutions)
	if err != nil {
		return nil, outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("computing resolution digest: %v", err))
	}

	output := outputFlag
	if output == "" {
		output = loadResult.Output
	}
	if output == "" {
		output = DefaultOutputFile
	}

	return &resolveResult{
		Package:     loadResult.Package,
		Output:      output,
		Resolutions: resolutions,
		Digest:      digest,
		FileCount:   loadResult.FileCount,
	}, nil
}

// outputPath joins the generated file name to the package directory unless
// an absolute path was given.
func (r *resolveResult) outputPath(dir string) string {
	if filepath.IsAbs(r.Output) {
		return r.Output
	}
	return filepath.Join(dir, r.Output)
}

// constants converts resolutions to their JSON payload form.
func (r *resolveResult) constants() []ConstantResult {
	out := make([]ConstantResult, len(r.Resolutions))
	for i, res := range r.Resolutions {
		out[i] = ConstantResult{
			Name:   res.Invocation.ConstName,
			Var:    res.Invocation.VarName,
			Value:  res.Value,
			Source: string(res.Source),
		}
	}
	return out
}
