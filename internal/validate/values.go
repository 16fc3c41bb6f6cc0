package validate

import (
	"fmt"

	"github.com/6d7a/asnr-sub000/asn1"
)

// maxAliasDepth caps governor alias chasing. Chains this deep are
// either pathological input or a cycle the alias check reports anyway.
const maxAliasDepth = 16

// checkValue judges whether v can be carried by declared type t. Only
// scalar governors are judged: structured types carry brace-listed
// values the parser does not model, and a reference value that the
// linker left unresolved has no shape to judge.
func (c *checker) checkValue(t asn1.Type, v asn1.Value) []problem {
	switch v.(type) {
	case nil, *asn1.ElsewhereDeclaredValue, *asn1.AllValue:
		return nil
	}
	g := c.resolveGovernor(t)
	if g == nil || categoryMatches(g, v) {
		return nil
	}
	return []problem{{asn1.DiagTypeMismatch,
		fmt.Sprintf("declared type %s cannot carry a %s value", typeKind(g), valueKind(v))}}
}

// resolveGovernor chases alias references until it reaches a concrete
// type. Returns nil when the chain leaves the declaration list or runs
// too deep; the linker reports broken references, so an unresolvable
// governor is not this check's finding.
func (c *checker) resolveGovernor(t asn1.Type) asn1.Type {
	for i := 0; i < maxAliasDepth; i++ {
		ref, ok := t.(*asn1.ElsewhereDeclaredType)
		if !ok {
			return t
		}
		td, ok := c.byName[ref.Identifier].(*asn1.TypeDeclaration)
		if !ok {
			return nil
		}
		t = td.Type
	}
	return nil
}

func categoryMatches(g asn1.Type, v asn1.Value) bool {
	switch g.(type) {
	case *asn1.Boolean:
		_, ok := v.(*asn1.BooleanValue)
		return ok
	case *asn1.Integer:
		_, ok := v.(*asn1.IntegerValue)
		return ok
	case *asn1.BitString, *asn1.OctetString:
		_, ok := v.(*asn1.BitStringValue)
		return ok
	case *asn1.CharacterString:
		_, ok := v.(*asn1.StringValue)
		return ok
	case *asn1.Null:
		_, ok := v.(*asn1.NullValue)
		return ok
	case *asn1.Enumerated:
		_, ok := v.(*asn1.EnumeratedValue)
		return ok
	default:
		return true
	}
}

func typeKind(t asn1.Type) string {
	switch t := t.(type) {
	case *asn1.Null:
		return "NULL"
	case *asn1.Boolean:
		return "BOOLEAN"
	case *asn1.Integer:
		return "INTEGER"
	case *asn1.BitString:
		return "BIT STRING"
	case *asn1.OctetString:
		return "OCTET STRING"
	case *asn1.CharacterString:
		return t.Variant.String()
	case *asn1.Enumerated:
		return "ENUMERATED"
	case *asn1.Choice:
		return "CHOICE"
	case *asn1.Sequence:
		return "SEQUENCE"
	case *asn1.SequenceOf:
		return "SEQUENCE OF"
	default:
		return "unknown"
	}
}

func valueKind(v asn1.Value) string {
	switch v.(type) {
	case *asn1.NullValue:
		return "NULL"
	case *asn1.BooleanValue:
		return "boolean"
	case *asn1.IntegerValue:
		return "number"
	case *asn1.StringValue:
		return "character string"
	case *asn1.BitStringValue:
		return "bit string"
	case *asn1.EnumeratedValue:
		return "enumeration member"
	default:
		return "unknown"
	}
}
