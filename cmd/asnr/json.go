package main

import (
	"encoding/json"
	"strconv"
	"strings"

	asnr "github.com/6d7a/asnr-sub000"
	"github.com/6d7a/asnr-sub000/asn1"
)

// DumpOutput is the top-level JSON output for the compile command.
type DumpOutput struct {
	Modules      []ModuleJSON         `json:"modules,omitempty"`
	Declarations map[string]*DeclNode `json:"declarations,omitempty"`
	Values       map[string]ValueJSON `json:"values,omitempty"`
	Information  map[string]string    `json:"information,omitempty"`
	Diagnostics  []DiagnosticJSON     `json:"diagnostics,omitempty"`
}

// ModuleJSON holds the JSON-serializable form of one DEFINITIONS
// envelope header.
type ModuleJSON struct {
	Name                 string       `json:"name,omitempty"`
	OID                  string       `json:"oid,omitempty"`
	Tagging              string       `json:"tagging"`
	ExtensibilityImplied bool         `json:"extensibilityImplied,omitempty"`
	Imports              []ImportJSON `json:"imports,omitempty"`
}

// ImportJSON holds one IMPORTS clause.
type ImportJSON struct {
	Module  string   `json:"module"`
	Symbols []string `json:"symbols,omitempty"`
}

// DeclNode holds the normalized form of one type declaration. The
// field names match the expectation files under testdata/, so compile
// dumps can serve as fixtures directly.
type DeclNode struct {
	Kind           string   `json:"Kind"`
	Min            *int64   `json:"Min,omitempty"`
	Max            *int64   `json:"Max,omitempty"`
	Extensible     bool     `json:"Extensible,omitempty"`
	BitLength      *int     `json:"BitLength,omitempty"`
	Members        []string `json:"Members,omitempty"`
	ExtensionIndex *int     `json:"ExtensionIndex,omitempty"`
}

// ValueJSON holds the JSON-serializable form of a value declaration.
type ValueJSON struct {
	Type  string `json:"type,omitempty"`
	Value any    `json:"value,omitempty"`
}

// DiagnosticJSON holds one compilation diagnostic.
type DiagnosticJSON struct {
	Severity    string `json:"severity"`
	Code        string `json:"code,omitempty"`
	Module      string `json:"module,omitempty"`
	Declaration string `json:"declaration,omitempty"`
	Line        int    `json:"line,omitempty"`
	Column      int    `json:"column,omitempty"`
	Message     string `json:"message"`
}

func marshalJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func buildDumpOutput(m *asnr.Module) *DumpOutput {
	out := &DumpOutput{}

	for _, h := range m.Headers {
		out.Modules = append(out.Modules, buildModuleJSON(h))
	}

	for _, d := range m.Declarations {
		switch d := d.(type) {
		case *asn1.TypeDeclaration:
			if out.Declarations == nil {
				out.Declarations = make(map[string]*DeclNode)
			}
			out.Declarations[d.Name] = buildDeclNode(d.Type)
		case *asn1.ValueDeclaration:
			if out.Values == nil {
				out.Values = make(map[string]ValueJSON)
			}
			out.Values[d.Name] = ValueJSON{
				Type:  valueTypeName(d.Type),
				Value: renderValue(d.Value),
			}
		case *asn1.InformationDeclaration:
			if out.Information == nil {
				out.Information = make(map[string]string)
			}
			out.Information[d.Name] = informationKind(d.Value)
		}
	}

	for _, d := range m.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity:    d.Severity.String(),
			Code:        d.Code,
			Module:      d.Module,
			Declaration: d.Declaration,
			Line:        d.Line,
			Column:      d.Column,
			Message:     d.Message,
		})
	}

	return out
}

func buildModuleJSON(h *asnr.ModuleHeader) ModuleJSON {
	mj := ModuleJSON{
		Name:                 h.Name,
		OID:                  formatModuleOID(h.ModuleIdentifier),
		Tagging:              h.Tagging.String(),
		ExtensibilityImplied: h.ExtensibilityImplied,
	}
	for _, imp := range h.Imports {
		mj.Imports = append(mj.Imports, ImportJSON{
			Module:  imp.Module,
			Symbols: imp.Symbols,
		})
	}
	return mj
}

// formatModuleOID renders a module identifier as dotted arcs. Arcs
// without a number keep their name.
func formatModuleOID(arcs []asn1.ObjectIdentifierArc) string {
	if len(arcs) == 0 {
		return ""
	}
	parts := make([]string, len(arcs))
	for i, arc := range arcs {
		if arc.Number != nil {
			parts[i] = strconv.FormatInt(*arc.Number, 10)
		} else {
			parts[i] = arc.Name
		}
	}
	return strings.Join(parts, ".")
}

// buildDeclNode normalizes one type declaration: the kind string, the
// member names of composite types, and the folded constraint bounds.
func buildDeclNode(t asn1.Type) *DeclNode {
	node := &DeclNode{
		Kind:           declKind(t),
		Members:        declMembers(t),
		ExtensionIndex: declExtensionIndex(t),
	}
	if bounds, err := asn1.FoldType(t); err == nil && bounds != nil {
		node.Min = bounds.Min
		node.Max = bounds.Max
		node.Extensible = bounds.Extensible
		if width, ok := bounds.BitLength(); ok {
			node.BitLength = &width
		}
	}
	return node
}

func declKind(t asn1.Type) string {
	switch t.(type) {
	case *asn1.Null:
		return "null"
	case *asn1.Boolean:
		return "boolean"
	case *asn1.Integer:
		return "integer"
	case *asn1.BitString:
		return "bit-string"
	case *asn1.OctetString:
		return "octet-string"
	case *asn1.CharacterString:
		return "character-string"
	case *asn1.Enumerated:
		return "enumerated"
	case *asn1.Choice:
		return "choice"
	case *asn1.Sequence:
		return "sequence"
	case *asn1.SequenceOf:
		return "sequence-of"
	case *asn1.ElsewhereDeclaredType:
		return "type-alias"
	case *asn1.InformationObjectFieldReference:
		return "field-reference"
	default:
		return ""
	}
}

func declMembers(t asn1.Type) []string {
	switch v := t.(type) {
	case *asn1.Sequence:
		names := make([]string, len(v.Members))
		for i, m := range v.Members {
			names[i] = m.Name
		}
		return names
	case *asn1.Choice:
		names := make([]string, len(v.Options))
		for i, o := range v.Options {
			names[i] = o.Name
		}
		return names
	case *asn1.Enumerated:
		names := make([]string, len(v.Members))
		for i, e := range v.Members {
			names[i] = e.Name
		}
		return names
	default:
		return nil
	}
}

func declExtensionIndex(t asn1.Type) *int {
	switch v := t.(type) {
	case *asn1.Sequence:
		return v.Extensible
	case *asn1.Choice:
		return v.Extensible
	case *asn1.Enumerated:
		return v.Extensible
	default:
		return nil
	}
}

// valueTypeName names the governing type of a value declaration: the
// referenced declaration name when written as a reference, otherwise
// the builtin kind.
func valueTypeName(t asn1.Type) string {
	if ref, ok := t.(*asn1.ElsewhereDeclaredType); ok {
		return ref.Identifier
	}
	return declKind(t)
}

// renderValue converts a modeled value into its JSON representation.
func renderValue(v asn1.Value) any {
	switch v := v.(type) {
	case *asn1.IntegerValue:
		return v.Value
	case *asn1.BooleanValue:
		return v.Value
	case *asn1.StringValue:
		return v.Value
	case *asn1.BitStringValue:
		return formatBits(v.Bits)
	case *asn1.EnumeratedValue:
		return v.Name
	case *asn1.ElsewhereDeclaredValue:
		return v.Identifier
	case *asn1.AllValue:
		return "ALL"
	default:
		// NullValue and anything unmodeled serialize as JSON null.
		return nil
	}
}

// formatBits renders a bit string value in bstring notation, '0101'B.
func formatBits(bits []bool) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteString("'B")
	return sb.String()
}

func informationKind(info asn1.Information) string {
	switch info.(type) {
	case *asn1.ObjectClass:
		return "class"
	case *asn1.InformationObject:
		return "object"
	case *asn1.ObjectSet:
		return "object-set"
	default:
		return ""
	}
}
