// Package asnr compiles ASN.1 notation: parsing module text into a
// declaration model, linking references across the merged declaration
// list, and validating the result for generator backends.
package asnr

import "github.com/6d7a/asnr-sub000/asn1"

// Type aliases for the public API - all types come from the asn1 subpackage.

// Module is the result of one compilation run.
type Module = asn1.Module

// ModuleHeader describes one DEFINITIONS envelope.
type ModuleHeader = asn1.ModuleHeader

// Import is one clause of an IMPORTS statement.
type Import = asn1.Import

// TopLevelDeclaration is one named ::= statement.
type TopLevelDeclaration = asn1.TopLevelDeclaration

// TypeDeclaration is a named type assignment.
type TypeDeclaration = asn1.TypeDeclaration

// ValueDeclaration is a named value assignment.
type ValueDeclaration = asn1.ValueDeclaration

// InformationDeclaration is a named information-object construct.
type InformationDeclaration = asn1.InformationDeclaration

// Type is the union over modeled ASN.1 types.
type Type = asn1.Type

// Value is the union over modeled ASN.1 values.
type Value = asn1.Value

// Constraint is one parenthesized constraint attached to a type.
type Constraint = asn1.Constraint

// Information is the union over information-object constructs.
type Information = asn1.Information

// Diagnostic represents an issue found during compilation.
type Diagnostic = asn1.Diagnostic

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig = asn1.DiagnosticConfig

// Severity for diagnostics.
type Severity = asn1.Severity

// StrictnessLevel defines preset strictness configurations.
type StrictnessLevel = asn1.StrictnessLevel

// PerVisibleBounds is the canonical reduction of a constraint set.
type PerVisibleBounds = asn1.PerVisibleBounds

// Backend renders linked declarations into a target language.
type Backend = asn1.Backend

// ConfigurableBackend is a Backend that receives the passthrough
// options before rendering.
type ConfigurableBackend = asn1.ConfigurableBackend

// GenerateOptions is passthrough configuration for backends.
type GenerateOptions = asn1.GenerateOptions

// Severity constants (lower = more severe).
const (
	SeverityFatal   = asn1.SeverityFatal   // 0: Cannot continue compiling
	SeveritySevere  = asn1.SeveritySevere  // 1: Semantics changed to continue
	SeverityError   = asn1.SeverityError   // 2: Should correct
	SeverityMinor   = asn1.SeverityMinor   // 3: Minor issue
	SeverityStyle   = asn1.SeverityStyle   // 4: Style recommendation
	SeverityWarning = asn1.SeverityWarning // 5: Might be correct
	SeverityInfo    = asn1.SeverityInfo    // 6: Informational
)

// StrictnessLevel constants.
const (
	StrictnessStrict     = asn1.StrictnessStrict
	StrictnessNormal     = asn1.StrictnessNormal
	StrictnessPermissive = asn1.StrictnessPermissive
	StrictnessSilent     = asn1.StrictnessSilent
)

// Config constructors.
var (
	DefaultConfig    = asn1.DefaultConfig
	StrictConfig     = asn1.StrictConfig
	PermissiveConfig = asn1.PermissiveConfig
)

// DeclarationName returns the name a declaration binds.
var DeclarationName = asn1.DeclarationName

// AllDiagnosticCodes returns all known diagnostic codes by phase.
var AllDiagnosticCodes = asn1.AllDiagnosticCodes

// Constraint folding over compiled declarations.
var (
	Fold     = asn1.Fold
	FoldType = asn1.FoldType
)

// Generate renders every declaration of a compiled module through a
// backend.
var Generate = asn1.Generate
