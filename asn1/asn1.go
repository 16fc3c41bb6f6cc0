// Package asn1 defines the grammar model for ASN.1 notation modules:
// top-level declarations, types, values, constraints, and the
// information object class sub-language, together with the diagnostics
// shared by every compilation stage.
//
// Values of this model are produced by the parser, rewritten in place
// by the linker, and consumed read-only by validators and generator
// backends. Every node can render itself back into a Go constructor
// expression via Declare, so parsed declarations can be embedded
// directly in generated output.
package asn1

import (
	"fmt"
	"strings"
)

// ModuleHeader describes one DEFINITIONS ... BEGIN ... END envelope.
// Built once by the parser, read-only after.
type ModuleHeader struct {
	Name                 string
	ModuleIdentifier     []ObjectIdentifierArc
	Tagging              TaggingEnvironment
	ExtensibilityImplied bool

	// Imports are recorded as written. A single merged module is
	// assumed, so imported symbols are resolved against the merged
	// declaration list rather than per IMPORTS clause.
	Imports []Import
}

// ObjectIdentifierArc is one component of a module's object identifier,
// e.g. `itu-t (0)` or a bare number.
type ObjectIdentifierArc struct {
	Name   string // "" if the arc is numeric only
	Number *int64 // nil if the arc is named only
}

// Import is one clause of an IMPORTS statement.
type Import struct {
	Symbols []string
	Module  string
}

// TopLevelDeclaration is one named `::=` statement: a type, a value, or
// an information-object construct. Implementations are pointer types so
// the linker can rewrite payloads in place.
type TopLevelDeclaration interface {
	topLevel()

	// Declare renders the declaration as a Go constructor expression.
	Declare() string
}

// TypeDeclaration is a named type assignment, e.g.
// `My-Int ::= INTEGER (0..24)`.
type TypeDeclaration struct {
	Comments string
	Name     string
	Type     Type
}

// ValueDeclaration is a named value assignment, e.g.
// `maxSpeed INTEGER ::= 255`. Type is the governing type as written,
// typically an *ElsewhereDeclaredType reference.
type ValueDeclaration struct {
	Comments string
	Name     string
	Type     Type
	Value    Value
}

// InformationDeclaration is a named information-object construct: a
// CLASS declaration, an object instance, or an object set. ClassName
// names the governing class for objects and object sets and is empty
// for class declarations themselves.
type InformationDeclaration struct {
	Comments  string
	Name      string
	ClassName string
	Value     Information
}

func (*TypeDeclaration) topLevel()        {}
func (*ValueDeclaration) topLevel()       {}
func (*InformationDeclaration) topLevel() {}

// DeclarationName returns the name a declaration binds. Names are
// unique within a merged module.
func DeclarationName(d TopLevelDeclaration) string {
	switch d := d.(type) {
	case *TypeDeclaration:
		return d.Name
	case *ValueDeclaration:
		return d.Name
	case *InformationDeclaration:
		return d.Name
	default:
		return ""
	}
}

// Ptr returns a pointer to v. Declare output uses it to express
// optional scalar fields, e.g. `Extensible: asn1.Ptr(2)`.
func Ptr[T any](v T) *T { return &v }

func declareStringSlice(s []string) string {
	if len(s) == 0 {
		return "nil"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
