package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/envlit/internal/directive"
	"github.com/roach88/envlit/internal/manifest"
	"github.com/roach88/envlit/internal/resolver"
)

// diagnosticParts extracts site, code and message from any of the typed
// errors produced by the loader, scanner, manifest and resolver layers.
func diagnosticParts(err error) (site, code, message string) {
	var scanErr *directive.ScanError
	if errors.As(err, &scanErr) {
		if scanErr.Pos.IsValid() {
			site = scanErr.Pos.String()
		}
		return site, scanErr.Code, scanErr.Message
	}

	var manifestErr *manifest.ManifestError
	if errors.As(err, &manifestErr) {
		return manifestErr.Site, manifestErr.Code, manifestErr.Message
	}

	var resolveErr *resolver.ResolveError
	if errors.As(err, &resolveErr) {
		return resolveErr.Site, resolveErr.Code, resolveErr.Message()
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return "", loadErr.Code, loadErr.Message
	}

	return "", ErrCodeGeneric, err.Error()
}

// outputDiagnostics reports a set of diagnostics and returns the
// ExitFailure error for the command. headline is the display form, e.g.
// "Resolution failed".
func outputDiagnostics(formatter *OutputFormatter, headline string, errs []error) error {
	exitMessage := fmt.Sprintf("%s with %d error(s)", strings.ToLower(headline[:1])+headline[1:], len(errs))

	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			site, code, message := diagnosticParts(err)
			cliErrors[i] = CLIError{Code: code, Site: site, Message: message}
		}

		response := CLIResponse{
			Status:  "error",
			Error:   &cliErrors[0],
			Data:    cliErrors, // all diagnostics, first also in error
			TraceID: formatter.TraceID,
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, exitMessage)
	}

	fmt.Fprintf(formatter.Writer, "✗ %s\n", headline)
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		site, code, message := diagnosticParts(err)
		if site != "" {
			fmt.Fprintf(formatter.Writer, "%s\n", site)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitFailure, exitMessage)
}

// outputCommandError reports a command-level failure (bad path, write
// error) and returns the ExitCommandError for the command.
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// commandErrorFromLoad maps the first loader error to a command-level
// failure, used when loading produced no result at all.
func commandErrorFromLoad(formatter *OutputFormatter, errs []error) error {
	_, code, message := diagnosticParts(errs[0])
	return outputCommandError(formatter, code, message)
}
