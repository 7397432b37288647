// Package directive scans Go source for envlit directives.
//
// A directive is a magic comment declaring one invocation:
//
//	//envlit:const Port from=PORT default=8080
//	//envlit:const Version from=VERSION
//
// The constant name must be a valid Go identifier, from= names the
// environment variable, and default= (optional) is an unsigned base-10
// decimal. Directives may appear anywhere in a file's comments. Test files
// and generated files are skipped, so the scanner never picks up envlit's
// own output.
package directive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/envlit/internal/resolver"
)

// Prefix marks an envlit directive comment.
const Prefix = "//envlit:"

// Directive syntax error codes (E100-E199).
const (
	ErrCodeMalformedDirective = "E101" // unknown verb or missing constant name
	ErrCodeInvalidIdentifier  = "E102" // constant name is not a Go identifier
	ErrCodeMissingVarName     = "E103" // from= argument absent or empty
	ErrCodeMalformedArgument  = "E104" // bad default= value or unknown argument
	ErrCodeDuplicateConst     = "E105" // constant declared twice in the package
	ErrCodePackageMismatch    = "E107" // scanned files disagree on package name
)

// ScanError is a positioned directive diagnostic.
type ScanError struct {
	Code    string
	Message string
	Pos     token.Position
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ScanResult contains the invocations collected from a package directory.
type ScanResult struct {
	Package     string // package name from the scanned files' package clauses
	Invocations []resolver.Invocation
	FileCount   int // number of Go files scanned
}

// generatedRx matches the conventional generated-file marker, per
// https://go.dev/s/generatedcode.
var generatedRx = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// Scan parses every non-test, non-generated Go file in dir and collects
// envlit directives. All syntax errors are collected rather than failing
// fast; a non-empty error slice means generation must not proceed.
func Scan(dir string) (*ScanResult, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("reading directory %s: %w", dir, err)}
	}

	fset := token.NewFileSet()
	result := &ScanResult{}
	seen := make(map[string]token.Position) // const name -> first declaration
	var errs []error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}

		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			errs = append(errs, fmt.Errorf("parsing %s: %w", path, err))
			continue
		}
		if isGenerated(file) {
			continue
		}
		result.FileCount++

		pkg := file.Name.Name
		if result.Package == "" {
			result.Package = pkg
		} else if result.Package != pkg {
			errs = append(errs, &ScanError{
				Code:    ErrCodePackageMismatch,
				Message: fmt.Sprintf("package %s conflicts with package %s seen earlier in %s", pkg, result.Package, dir),
				Pos:     fset.Position(file.Name.Pos()),
			})
			continue
		}

		for _, group := range file.Comments {
			for _, comment := range group.List {
				if !strings.HasPrefix(comment.Text, Prefix) {
					continue
				}
				pos := fset.Position(comment.Slash)
				inv, err := parseDirective(comment.Text, pos)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if first, dup := seen[inv.ConstName]; dup {
					errs = append(errs, &ScanError{
						Code:    ErrCodeDuplicateConst,
						Message: fmt.Sprintf("constant %s already declared at %s", inv.ConstName, first),
						Pos:     pos,
					})
					continue
				}
				seen[inv.ConstName] = pos
				result.Invocations = append(result.Invocations, inv)
			}
		}
	}

	return result, errs
}

// parseDirective parses a single directive comment into an invocation.
func parseDirective(text string, pos token.Position) (resolver.Invocation, error) {
	rest := strings.TrimPrefix(text, Prefix)

	verb, args, _ := strings.Cut(rest, " ")
	if verb != "const" {
		return resolver.Invocation{}, &ScanError{
			Code:    ErrCodeMalformedDirective,
			Message: fmt.Sprintf("unknown directive %q: only %sconst is supported", Prefix+verb, Prefix),
			Pos:     pos,
		}
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		return resolver.Invocation{}, &ScanError{
			Code:    ErrCodeMalformedDirective,
			Message: "directive requires a constant name",
			Pos:     pos,
		}
	}

	constName := fields[0]
	if !token.IsIdentifier(constName) {
		return resolver.Invocation{}, &ScanError{
			Code:    ErrCodeInvalidIdentifier,
			Message: fmt.Sprintf("constant name %q is not a valid Go identifier", constName),
			Pos:     pos,
		}
	}

	inv := resolver.Invocation{ConstName: constName, Site: pos.String()}
	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return resolver.Invocation{}, &ScanError{
				Code:    ErrCodeMalformedArgument,
				Message: fmt.Sprintf("argument %q is not of the form key=value", field),
				Pos:     pos,
			}
		}
		switch key {
		case "from":
			inv.VarName = value
		case "default":
			def, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return resolver.Invocation{}, &ScanError{
					Code:    ErrCodeMalformedArgument,
					Message: fmt.Sprintf("default %q is not an unsigned base-10 decimal", value),
					Pos:     pos,
				}
			}
			inv.Default = &def
		default:
			return resolver.Invocation{}, &ScanError{
				Code:    ErrCodeMalformedArgument,
				Message: fmt.Sprintf("unknown argument %q", key),
				Pos:     pos,
			}
		}
	}

	if inv.VarName == "" {
		return resolver.Invocation{}, &ScanError{
			Code:    ErrCodeMissingVarName,
			Message: fmt.Sprintf("directive for %s requires from=<VAR>", constName),
			Pos:     pos,
		}
	}

	return inv, nil
}

// isGenerated reports whether the file carries the conventional generated
// marker before its package clause.
func isGenerated(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, comment := range group.List {
			if generatedRx.MatchString(comment.Text) {
				return true
			}
		}
	}
	return false
}
