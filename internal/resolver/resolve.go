package resolver

import "strconv"

// Resolve resolves a single invocation against the given environment.
//
// Exactly one of {lookup succeeds, default is present} must hold:
//   - variable present: its content is parsed as uint64; parse failure is
//     ErrCodeInvalidNumericFormat even when a default was declared
//   - variable absent, default declared: the default is used
//   - variable absent, no default: ErrCodeMissingVariable
func Resolve(inv Invocation, env Environment) (Resolution, error) {
	content, present := env.Lookup(inv.VarName)
	if present {
		value, err := parseLiteral(content)
		if err != nil {
			return Resolution{}, &ResolveError{
				Code:    ErrCodeInvalidNumericFormat,
				VarName: inv.VarName,
				Content: content,
				Site:    inv.Site,
			}
		}
		return Resolution{Invocation: inv, Value: value, Source: SourceEnvironment}, nil
	}

	if inv.Default != nil {
		return Resolution{Invocation: inv, Value: *inv.Default, Source: SourceDefault}, nil
	}

	return Resolution{}, &ResolveError{
		Code:    ErrCodeMissingVariable,
		VarName: inv.VarName,
		Site:    inv.Site,
	}
}

// ResolveAll resolves every invocation, collecting all errors rather than
// failing fast. Resolutions are returned in invocation order; a non-empty
// error slice means no output may be produced.
func ResolveAll(invs []Invocation, env Environment) ([]Resolution, []error) {
	var errs []error
	resolutions := make([]Resolution, 0, len(invs))

	for _, inv := range invs {
		res, err := Resolve(inv, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolutions = append(resolutions, res)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return resolutions, nil
}

// parseLiteral parses environment content as the target numeric type.
// strconv.ParseUint with base 10 rejects signs, whitespace, radix prefixes
// and digit separators, which is exactly the accepted grammar.
func parseLiteral(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
