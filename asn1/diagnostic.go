package asn1

import (
	"fmt"
	"slices"
	"strings"
)

// Diagnostic represents an issue found during parsing, linking, or
// validation.
type Diagnostic struct {
	Severity    Severity
	Code        string // e.g., "unresolved-reference", "invalid-constraints"
	Message     string
	Module      string // source module name, "" if unknown
	Declaration string // affected top-level declaration, "" if not applicable
	Line        int    // 1-based line number, 0 if not applicable
	Column      int    // 1-based column, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] module:line:col: message". Parse-stage
// diagnostics carry line and column; link and validation diagnostics
// name the affected declaration instead.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteByte(']')
	b.WriteByte(' ')
	if d.Module != "" {
		b.WriteString(d.Module)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&b, ":%d", d.Column)
			}
		} else if d.Declaration != "" {
			b.WriteByte('/')
			b.WriteString(d.Declaration)
		}
		b.WriteString(": ")
	} else if d.Declaration != "" {
		b.WriteString(d.Declaration)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig struct {
	// Level sets the base strictness level.
	// Diagnostics with severity > Level are suppressed.
	Level StrictnessLevel

	// FailAt sets the severity threshold for failure.
	// If any diagnostic has severity <= FailAt, compilation fails.
	FailAt Severity

	// Overrides change severity for specific diagnostic codes.
	// Use to upgrade/downgrade specific checks.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "missing-*").
	Ignore []string
}

// DefaultConfig returns the default diagnostic configuration (Normal
// strictness).
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessNormal,
		FailAt: SeveritySevere,
	}
}

// StrictConfig returns a strict configuration for standard compliance
// checking. Unresolved references fail the run instead of degrading to
// warnings.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessStrict,
		FailAt: SeveritySevere,
		Overrides: map[string]Severity{
			DiagUnresolvedReference: SeveritySevere,
		},
	}
}

// PermissiveConfig returns a permissive configuration for legacy or
// vendor specification text.
//
// Ignored codes:
//   - unresolved-reference: specification extracts routinely reference
//     values declared in pages that were not transcribed
//   - missing-class-link: same, for information object classes
func PermissiveConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessPermissive,
		FailAt: SeverityFatal,
		Ignore: []string{
			DiagUnresolvedReference,
			DiagMissingClassLink,
		},
	}
}

// ShouldReport returns true if a diagnostic with the given code and
// severity should be reported under this configuration.
//
// The Level controls reporting threshold:
//   - Level 0 (Strict): Report all diagnostics (Info and above)
//   - Level 3 (Normal): Report Minor and above (0-3)
//   - Level 5 (Permissive): Report Warning and above (0-5)
//   - Level 6 (Silent): Report nothing
//
// Lower severity numbers are more severe (Fatal=0, Info=6).
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return MatchGlob(pattern, code)
	}) {
		return false
	}

	if override, ok := c.Overrides[code]; ok {
		sev = override
	}

	if c.Level >= StrictnessSilent {
		return false
	}

	if c.Level == StrictnessStrict {
		return true
	}

	return int(sev) <= int(c.Level)
}

// EffectiveSeverity returns the severity after applying overrides.
func (c DiagnosticConfig) EffectiveSeverity(code string, sev Severity) Severity {
	if override, ok := c.Overrides[code]; ok {
		return override
	}
	return sev
}

// ShouldFail returns true if a diagnostic with the given severity
// should cause compilation to fail.
func (c DiagnosticConfig) ShouldFail(sev Severity) bool {
	return sev <= c.FailAt
}

// IsStrict returns true if strict standard compliance is required.
// In strict mode, no fallback resolution strategies are used.
func (c DiagnosticConfig) IsStrict() bool {
	return c.Level < StrictnessNormal
}

// AllowFallbacks returns true if heuristic fallback strategies should
// be used, such as resolving a value reference through the
// distinguished values or enumeration members of declared types.
// Enabled at normal strictness and above; strict mode resolves only
// direct top-level references.
func (c DiagnosticConfig) AllowFallbacks() bool {
	return c.Level >= StrictnessNormal
}

// MatchGlob performs simple glob matching with * wildcard.
func MatchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}
