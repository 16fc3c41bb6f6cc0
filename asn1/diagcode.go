package asn1

// Diagnostic codes emitted by the parser, linker, and validator.
// Centralizing these prevents silent breakage from typos in string
// literals.

// Parser diagnostic codes.
const (
	DiagParseError = "parse-error"
)

// Linker diagnostic codes.
const (
	DiagMissingClassLink    = "missing-class-link"
	DiagMissingClassKey     = "missing-class-key"
	DiagMissingCustomSyntax = "missing-custom-syntax"
	DiagSyntaxMismatch      = "syntax-mismatch"
	DiagUnresolvedReference = "unresolved-reference"
)

// Validator diagnostic codes.
const (
	DiagTypeMismatch       = "type-mismatch"
	DiagEmptyChoice        = "empty-choice"
	DiagInvalidConstraints = "invalid-constraints"
	DiagAliasCycle         = "alias-cycle"
	DiagUnpacking          = "unpacking-error"
)

// AllDiagnosticCodes returns all known diagnostic codes grouped by the
// phase that emits them.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Parser
		{Code: DiagParseError, Phase: "parser"},
		// Linker
		{Code: DiagMissingClassLink, Phase: "linker"},
		{Code: DiagMissingClassKey, Phase: "linker"},
		{Code: DiagMissingCustomSyntax, Phase: "linker"},
		{Code: DiagSyntaxMismatch, Phase: "linker"},
		{Code: DiagUnresolvedReference, Phase: "linker"},
		// Validator
		{Code: DiagTypeMismatch, Phase: "validator"},
		{Code: DiagEmptyChoice, Phase: "validator"},
		{Code: DiagInvalidConstraints, Phase: "validator"},
		{Code: DiagAliasCycle, Phase: "validator"},
		{Code: DiagUnpacking, Phase: "validator"},
	}
}

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}
