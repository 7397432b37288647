// Package resolver resolves environment-variable invocations to numeric
// literal values during generation.
//
// This package contains the core resolution contract. All other internal
// packages import resolver; resolver imports nothing internal. This keeps
// it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Target numeric type is uint64, parsed as base-10 unsigned decimal.
//     No sign, no whitespace, no radix prefix.
//   - The environment is read through an immutable Snapshot taken once per
//     run, so independent invocations can be resolved in any order and
//     still observe the same values.
//   - Resolution is pure: (invocation, environment) -> value or error.
//     No side effects, no state carried between invocations.
package resolver
