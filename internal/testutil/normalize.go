package testutil

import (
	"fmt"
	"slices"
	"strings"

	"github.com/6d7a/asnr-sub000/asn1"
)

// NormalizeKind converts an asn1 Type to the kind string used in fixtures.
func NormalizeKind(t asn1.Type) string {
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
	case nil:
		return ""
	default:
		return fmt.Sprintf("%T", t)
	}
}

// NormalizeMembers returns the member names of a composite type in
// declaration order, or nil for scalar types.
func NormalizeMembers(t asn1.Type) []string {
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

// NormalizeDecl converts a compiled type declaration to the normalized
// fixture node used by expectation files.
func NormalizeDecl(d *asn1.TypeDeclaration) *FixtureDecl {
	fd := &FixtureDecl{
		Kind:           NormalizeKind(d.Type),
		Members:        NormalizeMembers(d.Type),
		ExtensionIndex: extensionIndex(d.Type),
	}
	if bounds, err := asn1.FoldType(d.Type); err == nil && bounds != nil {
		fd.Min = bounds.Min
		fd.Max = bounds.Max
		fd.Extensible = bounds.Extensible
		if width, ok := bounds.BitLength(); ok {
			fd.BitLength = &width
		}
	}
	return fd
}

func extensionIndex(t asn1.Type) *int {
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

// NormalizeEnums converts enumerated members to the map[int64]string format
// used in fixtures.
func NormalizeEnums(members []asn1.Enumeral) map[int64]string {
	if len(members) == 0 {
		return nil
	}
	m := make(map[int64]string, len(members))
	for _, e := range members {
		m[e.Index] = e.Name
	}
	return m
}

// NormalizeDistinguished converts distinguished values to the
// map[int64]string format used in fixtures.
func NormalizeDistinguished(dvs []asn1.DistinguishedValue) map[int64]string {
	if len(dvs) == 0 {
		return nil
	}
	m := make(map[int64]string, len(dvs))
	for _, dv := range dvs {
		m[dv.Value] = dv.Name
	}
	return m
}

// FormatEnums formats an enum map as a human-readable string for error messages.
func FormatEnums(enums map[int64]string) string {
	if len(enums) == 0 {
		return "{}"
	}
	var keys []int64
	for k := range enums {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s(%d)", enums[k], k))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// FormatBounds formats folded bounds as a human-readable string for error
// messages. Open sides render as MIN and MAX.
func FormatBounds(b *asn1.PerVisibleBounds) string {
	if b == nil {
		return "(not visible)"
	}
	low, high := "MIN", "MAX"
	if b.Min != nil {
		low = fmt.Sprintf("%d", *b.Min)
	}
	if b.Max != nil {
		high = fmt.Sprintf("%d", *b.Max)
	}
	if b.Extensible {
		return fmt.Sprintf("(%s..%s, ...)", low, high)
	}
	return fmt.Sprintf("(%s..%s)", low, high)
}
