package parser

import (
	"testing"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/testutil"
)

// parseBody wraps a declaration body in a minimal module envelope and
// fails the test on any diagnostic.
func parseBody(t *testing.T, body string) *ModuleUnit {
	t.Helper()
	source := []byte("Test-Module DEFINITIONS AUTOMATIC TAGS ::= BEGIN\n" + body + "\nEND\n")
	p := New(source, nil)
	units, diags := p.Parse()
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %s", d.Message)
	}
	testutil.Len(t, units, 1, "module count")
	return units[0]
}

func typeDecl(t *testing.T, unit *ModuleUnit, index int) *asn1.TypeDeclaration {
	t.Helper()
	if index >= len(unit.Declarations) {
		t.Fatalf("no declaration at index %d, have %d", index, len(unit.Declarations))
	}
	decl, ok := unit.Declarations[index].(*asn1.TypeDeclaration)
	if !ok {
		t.Fatalf("expected *asn1.TypeDeclaration at index %d, got %T", index, unit.Declarations[index])
	}
	return decl
}

func valueDecl(t *testing.T, unit *ModuleUnit, index int) *asn1.ValueDeclaration {
	t.Helper()
	decl, ok := unit.Declarations[index].(*asn1.ValueDeclaration)
	if !ok {
		t.Fatalf("expected *asn1.ValueDeclaration at index %d, got %T", index, unit.Declarations[index])
	}
	return decl
}

func informationDecl(t *testing.T, unit *ModuleUnit, index int) *asn1.InformationDeclaration {
	t.Helper()
	decl, ok := unit.Declarations[index].(*asn1.InformationDeclaration)
	if !ok {
		t.Fatalf("expected *asn1.InformationDeclaration at index %d, got %T", index, unit.Declarations[index])
	}
	return decl
}

func subtypeSet(t *testing.T, c asn1.Constraint) asn1.ElementSetTerm {
	t.Helper()
	sc, ok := c.(*asn1.SubtypeConstraint)
	if !ok {
		t.Fatalf("expected *asn1.SubtypeConstraint, got %T", c)
	}
	return sc.Set
}

func valueRange(t *testing.T, c asn1.Constraint) *asn1.ValueRange {
	t.Helper()
	vr, ok := subtypeSet(t, c).(*asn1.ValueRange)
	if !ok {
		t.Fatalf("expected *asn1.ValueRange, got %T", subtypeSet(t, c))
	}
	return vr
}

func intValue(t *testing.T, v asn1.Value) int64 {
	t.Helper()
	iv, ok := v.(*asn1.IntegerValue)
	if !ok {
		t.Fatalf("expected *asn1.IntegerValue, got %T", v)
	}
	return iv.Value
}

func TestParseMinimalModule(t *testing.T) {
	source := []byte("My-Module DEFINITIONS AUTOMATIC TAGS ::= BEGIN\nEND\n")
	p := New(source, nil)
	units, diags := p.Parse()

	testutil.Len(t, diags, 0, "diagnostics")
	testutil.Len(t, units, 1, "module count")
	testutil.Equal(t, "My-Module", units[0].Header.Name, "module name")
	testutil.Equal(t, asn1.TaggingAutomatic, units[0].Header.Tagging, "tagging")
	testutil.Len(t, units[0].Declarations, 0, "declarations")
}

func TestParseModuleHeaderVariants(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		tagging asn1.TaggingEnvironment
		implied bool
	}{
		{"default", "M DEFINITIONS ::= BEGIN END", asn1.TaggingExplicit, false},
		{"explicit", "M DEFINITIONS EXPLICIT TAGS ::= BEGIN END", asn1.TaggingExplicit, false},
		{"implicit", "M DEFINITIONS IMPLICIT TAGS ::= BEGIN END", asn1.TaggingImplicit, false},
		{"automatic", "M DEFINITIONS AUTOMATIC TAGS ::= BEGIN END", asn1.TaggingAutomatic, false},
		{"implied", "M DEFINITIONS AUTOMATIC TAGS EXTENSIBILITY IMPLIED ::= BEGIN END", asn1.TaggingAutomatic, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New([]byte(tc.header), nil)
			units, diags := p.Parse()
			testutil.Len(t, diags, 0, "diagnostics")
			testutil.Len(t, units, 1, "module count")
			testutil.Equal(t, tc.tagging, units[0].Header.Tagging, "tagging")
			testutil.Equal(t, tc.implied, units[0].Header.ExtensibilityImplied, "extensibility implied")
		})
	}
}

func TestParseModuleObjectIdentifier(t *testing.T) {
	source := []byte("My-Module { iso (1) standard (0) 42 } DEFINITIONS ::= BEGIN\nEND\n")
	p := New(source, nil)
	units, diags := p.Parse()

	testutil.Len(t, diags, 0, "diagnostics")
	arcs := units[0].Header.ModuleIdentifier
	testutil.Len(t, arcs, 3, "arc count")
	testutil.Equal(t, "iso", arcs[0].Name, "first arc name")
	testutil.NotNil(t, arcs[0].Number, "first arc number")
	testutil.Equal(t, int64(1), *arcs[0].Number, "first arc value")
	testutil.Equal(t, "", arcs[2].Name, "bare numeric arc has no name")
	testutil.Equal(t, int64(42), *arcs[2].Number, "bare numeric arc value")
}

func TestParseImportsAndExports(t *testing.T) {
	source := []byte(`My-Module DEFINITIONS AUTOMATIC TAGS ::= BEGIN
EXPORTS Speed, Heading;
IMPORTS Latitude, Longitude FROM Common-Types { itu-t (0) test (1) }
    Altitude FROM Vertical-Types;
Speed ::= INTEGER
END
`)
	p := New(source, nil)
	units, diags := p.Parse()

	testutil.Len(t, diags, 0, "diagnostics")
	imports := units[0].Header.Imports
	testutil.Len(t, imports, 2, "import clause count")
	testutil.SliceEqual(t, []string{"Latitude", "Longitude"}, imports[0].Symbols, "first clause symbols")
	testutil.Equal(t, "Common-Types", imports[0].Module, "first clause module")
	testutil.SliceEqual(t, []string{"Altitude"}, imports[1].Symbols, "second clause symbols")
	testutil.Equal(t, "Vertical-Types", imports[1].Module, "second clause module")
	testutil.Len(t, units[0].Declarations, 1, "declarations after imports")
}

func TestParseIntegerRange(t *testing.T) {
	unit := parseBody(t, "My-Int ::= INTEGER (0..24)")
	decl := typeDecl(t, unit, 0)
	testutil.Equal(t, "My-Int", decl.Name, "declaration name")

	integer, ok := decl.Type.(*asn1.Integer)
	if !ok {
		t.Fatalf("expected *asn1.Integer, got %T", decl.Type)
	}
	testutil.Len(t, integer.Constraints, 1, "constraint count")
	vr := valueRange(t, integer.Constraints[0])
	testutil.Equal(t, int64(0), intValue(t, vr.Min), "range min")
	testutil.Equal(t, int64(24), intValue(t, vr.Max), "range max")
	testutil.False(t, vr.Extensible, "range extensibility")
}

func TestParseIntegerDistinguishedValues(t *testing.T) {
	unit := parseBody(t, "SpeedValue ::= INTEGER {unavailable(161)} (0..161, ...)")
	decl := typeDecl(t, unit, 0)

	integer, ok := decl.Type.(*asn1.Integer)
	if !ok {
		t.Fatalf("expected *asn1.Integer, got %T", decl.Type)
	}
	testutil.Len(t, integer.DistinguishedValues, 1, "distinguished value count")
	testutil.Equal(t, "unavailable", integer.DistinguishedValues[0].Name, "distinguished name")
	testutil.Equal(t, int64(161), integer.DistinguishedValues[0].Value, "distinguished value")

	sc, ok := integer.Constraints[0].(*asn1.SubtypeConstraint)
	if !ok {
		t.Fatalf("expected *asn1.SubtypeConstraint, got %T", integer.Constraints[0])
	}
	testutil.True(t, sc.Extensible, "constraint extensibility")
	vr, ok := sc.Set.(*asn1.ValueRange)
	if !ok {
		t.Fatalf("expected *asn1.ValueRange, got %T", sc.Set)
	}
	testutil.Equal(t, int64(161), intValue(t, vr.Max), "range max")
}

func TestParseBooleanAndNull(t *testing.T) {
	unit := parseBody(t, "Active ::= BOOLEAN\nNothing ::= NULL")

	if _, ok := typeDecl(t, unit, 0).Type.(*asn1.Boolean); !ok {
		t.Fatalf("expected *asn1.Boolean, got %T", typeDecl(t, unit, 0).Type)
	}
	if _, ok := typeDecl(t, unit, 1).Type.(*asn1.Null); !ok {
		t.Fatalf("expected *asn1.Null, got %T", typeDecl(t, unit, 1).Type)
	}
}

func TestParseBitString(t *testing.T) {
	unit := parseBody(t, "Flags ::= BIT STRING { low(0), high(7) } (SIZE (8))")
	decl := typeDecl(t, unit, 0)

	bits, ok := decl.Type.(*asn1.BitString)
	if !ok {
		t.Fatalf("expected *asn1.BitString, got %T", decl.Type)
	}
	testutil.Len(t, bits.DistinguishedValues, 2, "named bit count")
	testutil.Equal(t, "high", bits.DistinguishedValues[1].Name, "named bit name")
	testutil.Equal(t, int64(7), bits.DistinguishedValues[1].Value, "named bit position")

	size, ok := subtypeSet(t, bits.Constraints[0]).(*asn1.SizeConstraint)
	if !ok {
		t.Fatalf("expected *asn1.SizeConstraint, got %T", subtypeSet(t, bits.Constraints[0]))
	}
	single, ok := size.Inner.(*asn1.SingleValue)
	if !ok {
		t.Fatalf("expected *asn1.SingleValue, got %T", size.Inner)
	}
	testutil.Equal(t, int64(8), intValue(t, single.Value), "size value")
}

func TestParseOctetStringSize(t *testing.T) {
	unit := parseBody(t, "Blob ::= OCTET STRING (SIZE (0..1023))")
	decl := typeDecl(t, unit, 0)

	octets, ok := decl.Type.(*asn1.OctetString)
	if !ok {
		t.Fatalf("expected *asn1.OctetString, got %T", decl.Type)
	}
	size, ok := subtypeSet(t, octets.Constraints[0]).(*asn1.SizeConstraint)
	if !ok {
		t.Fatalf("expected *asn1.SizeConstraint, got %T", subtypeSet(t, octets.Constraints[0]))
	}
	vr, ok := size.Inner.(*asn1.ValueRange)
	if !ok {
		t.Fatalf("expected *asn1.ValueRange, got %T", size.Inner)
	}
	testutil.Equal(t, int64(1023), intValue(t, vr.Max), "size upper bound")
}

func TestParseCharacterStrings(t *testing.T) {
	unit := parseBody(t, "Callsign ::= IA5String (SIZE (1..8))\nFreeText ::= UTF8String")

	callsign, ok := typeDecl(t, unit, 0).Type.(*asn1.CharacterString)
	if !ok {
		t.Fatalf("expected *asn1.CharacterString, got %T", typeDecl(t, unit, 0).Type)
	}
	testutil.Equal(t, asn1.IA5String, callsign.Variant, "callsign variant")
	testutil.Len(t, callsign.Constraints, 1, "callsign constraints")

	text, ok := typeDecl(t, unit, 1).Type.(*asn1.CharacterString)
	if !ok {
		t.Fatalf("expected *asn1.CharacterString, got %T", typeDecl(t, unit, 1).Type)
	}
	testutil.Equal(t, asn1.UTF8String, text.Variant, "free text variant")
	testutil.Len(t, text.Constraints, 0, "free text constraints")
}

func TestParseEnumerated(t *testing.T) {
	unit := parseBody(t, "Gear ::= ENUMERATED { neutral, first, second, reverse(-1), ..., autopark }")
	decl := typeDecl(t, unit, 0)

	enum, ok := decl.Type.(*asn1.Enumerated)
	if !ok {
		t.Fatalf("expected *asn1.Enumerated, got %T", decl.Type)
	}
	testutil.Len(t, enum.Members, 5, "member count")
	testutil.Equal(t, int64(0), enum.Members[0].Index, "positional index")
	testutil.Equal(t, int64(2), enum.Members[2].Index, "positional index after gap-free run")
	testutil.Equal(t, int64(-1), enum.Members[3].Index, "explicit index")
	testutil.Equal(t, "autopark", enum.Members[4].Name, "extension member name")
	testutil.Equal(t, int64(4), enum.Members[4].Index, "extension member position index")
	testutil.NotNil(t, enum.Extensible, "extension marker")
	testutil.Equal(t, 4, *enum.Extensible, "extension marker index")
}

func TestParseEnumeratedDescriptions(t *testing.T) {
	unit := parseBody(t, `TrafficLight ::= ENUMERATED {
    red,    -- stop --
    green   -- proceed
}`)
	decl := typeDecl(t, unit, 0)

	enum, ok := decl.Type.(*asn1.Enumerated)
	if !ok {
		t.Fatalf("expected *asn1.Enumerated, got %T", decl.Type)
	}
	testutil.Equal(t, "stop", enum.Members[0].Description, "first description")
	testutil.Equal(t, "proceed", enum.Members[1].Description, "second description")
}

func TestParseChoiceExtensible(t *testing.T) {
	unit := parseBody(t, `Alternatives ::= CHOICE {
    first INTEGER,
    second BOOLEAN,
    ...,
    third NULL
}`)
	decl := typeDecl(t, unit, 0)

	choice, ok := decl.Type.(*asn1.Choice)
	if !ok {
		t.Fatalf("expected *asn1.Choice, got %T", decl.Type)
	}
	testutil.Len(t, choice.Options, 3, "option count")
	testutil.Equal(t, "third", choice.Options[2].Name, "post-marker option")
	testutil.NotNil(t, choice.Extensible, "extension marker")
	testutil.Equal(t, 2, *choice.Extensible, "extension marker index")
}

func TestParseChoiceVersionBrackets(t *testing.T) {
	unit := parseBody(t, `Extended ::= CHOICE {
    base NULL,
    ...,
    [[ 2: added INTEGER, extra BOOLEAN ]]
}`)
	decl := typeDecl(t, unit, 0)

	choice, ok := decl.Type.(*asn1.Choice)
	if !ok {
		t.Fatalf("expected *asn1.Choice, got %T", decl.Type)
	}
	testutil.Len(t, choice.Options, 3, "flattened option count")
	testutil.Equal(t, "added", choice.Options[1].Name, "first bracketed option")
	testutil.Equal(t, "extra", choice.Options[2].Name, "second bracketed option")
	testutil.Equal(t, 1, *choice.Extensible, "extension marker index")
}

func TestParseSequenceMembers(t *testing.T) {
	unit := parseBody(t, `Config ::= SEQUENCE {
    speed INTEGER (0..255),
    active BOOLEAN OPTIONAL,
    retries INTEGER DEFAULT 3
}`)
	decl := typeDecl(t, unit, 0)

	seq, ok := decl.Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", decl.Type)
	}
	testutil.Len(t, seq.Members, 3, "member count")
	testutil.False(t, seq.Members[0].Optional, "constrained member optionality")
	testutil.True(t, seq.Members[1].Optional, "OPTIONAL member")
	testutil.Nil(t, seq.Members[1].Default, "OPTIONAL member default")
	testutil.False(t, seq.Members[2].Optional, "DEFAULT member optionality")
	testutil.Equal(t, int64(3), intValue(t, seq.Members[2].Default), "default value")
	testutil.Nil(t, seq.Extensible, "extension marker")
}

func TestParseSequenceExtensionMarker(t *testing.T) {
	unit := parseBody(t, `Msg ::= SEQUENCE {
    head INTEGER,
    ...,
    tail OCTET STRING
}`)
	decl := typeDecl(t, unit, 0)

	seq, ok := decl.Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", decl.Type)
	}
	testutil.Len(t, seq.Members, 2, "member count")
	testutil.Equal(t, 1, *seq.Extensible, "extension marker index")
}

func TestParseSequenceVersionBrackets(t *testing.T) {
	unit := parseBody(t, `Payload ::= SEQUENCE {
    head INTEGER,
    ...,
    [[ tail OCTET STRING, checksum INTEGER ]]
}`)
	decl := typeDecl(t, unit, 0)

	seq, ok := decl.Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", decl.Type)
	}
	testutil.Len(t, seq.Members, 3, "flattened member count")
	testutil.Equal(t, "checksum", seq.Members[2].Name, "second bracketed member")
}

func TestParseNestedAnonymousTypes(t *testing.T) {
	unit := parseBody(t, `Outer ::= SEQUENCE {
    inner SEQUENCE {
        flag BOOLEAN
    },
    mode CHOICE {
        off NULL,
        on NULL
    }
}`)
	decl := typeDecl(t, unit, 0)

	seq, ok := decl.Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", decl.Type)
	}
	inner, ok := seq.Members[0].Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected nested *asn1.Sequence, got %T", seq.Members[0].Type)
	}
	testutil.Equal(t, "flag", inner.Members[0].Name, "nested member name")

	mode, ok := seq.Members[1].Type.(*asn1.Choice)
	if !ok {
		t.Fatalf("expected nested *asn1.Choice, got %T", seq.Members[1].Type)
	}
	testutil.Len(t, mode.Options, 2, "nested option count")
}

func TestParseSequenceOfForms(t *testing.T) {
	unit := parseBody(t, `Plain ::= SEQUENCE OF INTEGER
Sized ::= SEQUENCE (SIZE (1..8)) OF INTEGER
Direct ::= SEQUENCE SIZE (1..4) OF BOOLEAN`)

	plain, ok := typeDecl(t, unit, 0).Type.(*asn1.SequenceOf)
	if !ok {
		t.Fatalf("expected *asn1.SequenceOf, got %T", typeDecl(t, unit, 0).Type)
	}
	testutil.Len(t, plain.Constraints, 0, "plain constraints")
	if _, ok := plain.Element.(*asn1.Integer); !ok {
		t.Fatalf("expected *asn1.Integer element, got %T", plain.Element)
	}

	for i, name := range []string{"Sized", "Direct"} {
		decl := typeDecl(t, unit, i+1)
		testutil.Equal(t, name, decl.Name, "declaration name")
		seqOf, ok := decl.Type.(*asn1.SequenceOf)
		if !ok {
			t.Fatalf("expected *asn1.SequenceOf, got %T", decl.Type)
		}
		testutil.Len(t, seqOf.Constraints, 1, "size constraint count")
		size, ok := subtypeSet(t, seqOf.Constraints[0]).(*asn1.SizeConstraint)
		if !ok {
			t.Fatalf("expected *asn1.SizeConstraint, got %T", subtypeSet(t, seqOf.Constraints[0]))
		}
		if _, ok := size.Inner.(*asn1.ValueRange); !ok {
			t.Fatalf("expected *asn1.ValueRange, got %T", size.Inner)
		}
	}
}

func TestParseTypeReference(t *testing.T) {
	unit := parseBody(t, "Limited ::= SpeedValue (0..100)\nOid ::= OBJECT IDENTIFIER")

	ref, ok := typeDecl(t, unit, 0).Type.(*asn1.ElsewhereDeclaredType)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredType, got %T", typeDecl(t, unit, 0).Type)
	}
	testutil.Equal(t, "SpeedValue", ref.Identifier, "reference identifier")
	testutil.Len(t, ref.Constraints, 1, "reference constraints")

	oid, ok := typeDecl(t, unit, 1).Type.(*asn1.ElsewhereDeclaredType)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredType, got %T", typeDecl(t, unit, 1).Type)
	}
	testutil.Equal(t, "OBJECT IDENTIFIER", oid.Identifier, "object identifier reference")
}

func TestParseTagPrefixesIgnored(t *testing.T) {
	unit := parseBody(t, `Tagged ::= SEQUENCE {
    one [0] INTEGER,
    two [1] EXPLICIT BOOLEAN,
    three [APPLICATION 2] IMPLICIT INTEGER
}`)
	decl := typeDecl(t, unit, 0)

	seq, ok := decl.Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", decl.Type)
	}
	if _, ok := seq.Members[0].Type.(*asn1.Integer); !ok {
		t.Fatalf("expected *asn1.Integer, got %T", seq.Members[0].Type)
	}
	if _, ok := seq.Members[1].Type.(*asn1.Boolean); !ok {
		t.Fatalf("expected *asn1.Boolean, got %T", seq.Members[1].Type)
	}
	if _, ok := seq.Members[2].Type.(*asn1.Integer); !ok {
		t.Fatalf("expected *asn1.Integer, got %T", seq.Members[2].Type)
	}
}

func TestParseValueDeclarations(t *testing.T) {
	unit := parseBody(t, `maxSpeed INTEGER ::= 255
lowest INTEGER ::= -40
enabled BOOLEAN ::= TRUE
label IA5String ::= "release ""x"""
mask BIT STRING ::= '1010'B
pattern OCTET STRING ::= 'C2'H
fallback INTEGER ::= maxSpeed`)

	testutil.Equal(t, int64(255), intValue(t, valueDecl(t, unit, 0).Value), "integer value")
	testutil.Equal(t, int64(-40), intValue(t, valueDecl(t, unit, 1).Value), "negative value")

	enabled, ok := valueDecl(t, unit, 2).Value.(*asn1.BooleanValue)
	if !ok {
		t.Fatalf("expected *asn1.BooleanValue, got %T", valueDecl(t, unit, 2).Value)
	}
	testutil.True(t, enabled.Value, "boolean value")

	label, ok := valueDecl(t, unit, 3).Value.(*asn1.StringValue)
	if !ok {
		t.Fatalf("expected *asn1.StringValue, got %T", valueDecl(t, unit, 3).Value)
	}
	testutil.Equal(t, `release "x"`, label.Value, "unquoted string")

	mask, ok := valueDecl(t, unit, 4).Value.(*asn1.BitStringValue)
	if !ok {
		t.Fatalf("expected *asn1.BitStringValue, got %T", valueDecl(t, unit, 4).Value)
	}
	testutil.SliceEqual(t, []bool{true, false, true, false}, mask.Bits, "binary bits")

	pattern, ok := valueDecl(t, unit, 5).Value.(*asn1.BitStringValue)
	if !ok {
		t.Fatalf("expected *asn1.BitStringValue, got %T", valueDecl(t, unit, 5).Value)
	}
	testutil.SliceEqual(t, []bool{true, true, false, false, false, false, true, false}, pattern.Bits, "hex bits")

	fallback, ok := valueDecl(t, unit, 6).Value.(*asn1.ElsewhereDeclaredValue)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredValue, got %T", valueDecl(t, unit, 6).Value)
	}
	testutil.Equal(t, "maxSpeed", fallback.Identifier, "value reference")
}

func TestParseMinMaxRange(t *testing.T) {
	unit := parseBody(t, "Any ::= INTEGER (MIN..MAX)\nCold ::= INTEGER (MIN..0)\nNamed ::= INTEGER (min-val..max-val)")

	full := valueRange(t, typeDecl(t, unit, 0).Type.(*asn1.Integer).Constraints[0])
	testutil.Nil(t, full.Min, "MIN endpoint")
	testutil.Nil(t, full.Max, "MAX endpoint")

	cold := valueRange(t, typeDecl(t, unit, 1).Type.(*asn1.Integer).Constraints[0])
	testutil.Nil(t, cold.Min, "MIN endpoint")
	testutil.Equal(t, int64(0), intValue(t, cold.Max), "numeric upper bound")

	named := valueRange(t, typeDecl(t, unit, 2).Type.(*asn1.Integer).Constraints[0])
	minRef, ok := named.Min.(*asn1.ElsewhereDeclaredValue)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredValue, got %T", named.Min)
	}
	testutil.Equal(t, "min-val", minRef.Identifier, "referenced lower bound")
}

func TestParseUnionChain(t *testing.T) {
	unit := parseBody(t, "Flags ::= INTEGER (1 | 2 | 4)")
	integer := typeDecl(t, unit, 0).Type.(*asn1.Integer)

	op, ok := subtypeSet(t, integer.Constraints[0]).(*asn1.SetOperation)
	if !ok {
		t.Fatalf("expected *asn1.SetOperation, got %T", subtypeSet(t, integer.Constraints[0]))
	}
	testutil.Equal(t, asn1.Union, op.Operator, "outer operator")
	base, ok := op.Base.(*asn1.SingleValue)
	if !ok {
		t.Fatalf("expected *asn1.SingleValue base, got %T", op.Base)
	}
	testutil.Equal(t, int64(1), intValue(t, base.Value), "base value")

	nested, ok := op.Operand.(*asn1.SetOperation)
	if !ok {
		t.Fatalf("expected nested *asn1.SetOperation, got %T", op.Operand)
	}
	testutil.Equal(t, asn1.Union, nested.Operator, "nested operator")
	last, ok := nested.Operand.(*asn1.SingleValue)
	if !ok {
		t.Fatalf("expected *asn1.SingleValue, got %T", nested.Operand)
	}
	testutil.Equal(t, int64(4), intValue(t, last.Value), "last value")
}

func TestParseIntersectionAndExcept(t *testing.T) {
	unit := parseBody(t, `Window ::= INTEGER ((0..10) ^ (5..15))
Spelled ::= INTEGER (0..10 INTERSECTION 5..15)
Holes ::= INTEGER ((0..10) EXCEPT 5)`)

	window, ok := subtypeSet(t, typeDecl(t, unit, 0).Type.(*asn1.Integer).Constraints[0]).(*asn1.SetOperation)
	if !ok {
		t.Fatalf("expected *asn1.SetOperation for caret form")
	}
	testutil.Equal(t, asn1.Intersection, window.Operator, "caret operator")
	if _, ok := window.Base.(*asn1.ValueRange); !ok {
		t.Fatalf("expected *asn1.ValueRange base, got %T", window.Base)
	}

	spelled, ok := subtypeSet(t, typeDecl(t, unit, 1).Type.(*asn1.Integer).Constraints[0]).(*asn1.SetOperation)
	if !ok {
		t.Fatalf("expected *asn1.SetOperation for keyword form")
	}
	testutil.Equal(t, asn1.Intersection, spelled.Operator, "keyword operator")

	holes, ok := subtypeSet(t, typeDecl(t, unit, 2).Type.(*asn1.Integer).Constraints[0]).(*asn1.SetOperation)
	if !ok {
		t.Fatalf("expected *asn1.SetOperation for except form")
	}
	testutil.Equal(t, asn1.Except, holes.Operator, "except operator")
}

func TestParseSerialConstraints(t *testing.T) {
	unit := parseBody(t, "Narrow ::= INTEGER (0..100) (10..20)")
	integer := typeDecl(t, unit, 0).Type.(*asn1.Integer)

	testutil.Len(t, integer.Constraints, 2, "serial constraint count")
	testutil.Equal(t, int64(100), intValue(t, valueRange(t, integer.Constraints[0]).Max), "first group max")
	testutil.Equal(t, int64(10), intValue(t, valueRange(t, integer.Constraints[1]).Min), "second group min")
}

func TestParseExtensionAdditionsDiscarded(t *testing.T) {
	unit := parseBody(t, "G ::= INTEGER (0..7, ..., 8..15)")
	integer := typeDecl(t, unit, 0).Type.(*asn1.Integer)

	testutil.Len(t, integer.Constraints, 1, "constraint count")
	sc, ok := integer.Constraints[0].(*asn1.SubtypeConstraint)
	if !ok {
		t.Fatalf("expected *asn1.SubtypeConstraint, got %T", integer.Constraints[0])
	}
	testutil.True(t, sc.Extensible, "extensibility recorded")
	vr, ok := sc.Set.(*asn1.ValueRange)
	if !ok {
		t.Fatalf("expected *asn1.ValueRange, got %T", sc.Set)
	}
	testutil.Equal(t, int64(7), intValue(t, vr.Max), "root set max survives")
}

func TestParseContainedSubtype(t *testing.T) {
	unit := parseBody(t, "Strict ::= INTEGER (INCLUDES Base)\nLoose ::= INTEGER (Base)")

	for i := 0; i < 2; i++ {
		contained, ok := subtypeSet(t, typeDecl(t, unit, i).Type.(*asn1.Integer).Constraints[0]).(*asn1.ContainedSubtype)
		if !ok {
			t.Fatalf("expected *asn1.ContainedSubtype at index %d", i)
		}
		parent, ok := contained.Parent.(*asn1.ElsewhereDeclaredType)
		if !ok {
			t.Fatalf("expected *asn1.ElsewhereDeclaredType parent, got %T", contained.Parent)
		}
		testutil.Equal(t, "Base", parent.Identifier, "parent reference")
	}
}

func TestParseWithComponents(t *testing.T) {
	unit := parseBody(t, "Filtered ::= Position (WITH COMPONENTS {..., latitude (0..100) PRESENT, longitude ABSENT})")
	ref, ok := typeDecl(t, unit, 0).Type.(*asn1.ElsewhereDeclaredType)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredType, got %T", typeDecl(t, unit, 0).Type)
	}

	mtc, ok := subtypeSet(t, ref.Constraints[0]).(*asn1.MultipleTypeConstraints)
	if !ok {
		t.Fatalf("expected *asn1.MultipleTypeConstraints, got %T", subtypeSet(t, ref.Constraints[0]))
	}
	testutil.True(t, mtc.Partial, "partial specification")
	testutil.Len(t, mtc.Components, 2, "component count")
	testutil.Equal(t, "latitude", mtc.Components[0].Name, "first component name")
	testutil.Len(t, mtc.Components[0].Constraints, 1, "first component constraints")
	testutil.Equal(t, asn1.PresencePresent, mtc.Components[0].Presence, "first component presence")
	testutil.Equal(t, asn1.PresenceAbsent, mtc.Components[1].Presence, "second component presence")
	testutil.Len(t, mtc.Components[1].Constraints, 0, "second component constraints")
}

func TestParseWithComponent(t *testing.T) {
	unit := parseBody(t, "Rows ::= SEQUENCE (WITH COMPONENT (0..5)) OF INTEGER")
	seqOf, ok := typeDecl(t, unit, 0).Type.(*asn1.SequenceOf)
	if !ok {
		t.Fatalf("expected *asn1.SequenceOf, got %T", typeDecl(t, unit, 0).Type)
	}

	single, ok := subtypeSet(t, seqOf.Constraints[0]).(*asn1.SingleTypeConstraint)
	if !ok {
		t.Fatalf("expected *asn1.SingleTypeConstraint, got %T", subtypeSet(t, seqOf.Constraints[0]))
	}
	testutil.Len(t, single.Constraints, 1, "element constraint count")
}

func TestParseClassDeclaration(t *testing.T) {
	unit := parseBody(t, `ERROR-CLASS ::= CLASS {
    &category PrintableString (SIZE (1)),
    &code INTEGER UNIQUE,
    &Type OPTIONAL
} WITH SYNTAX {
    CATEGORY &category [CODE &code]
}`)
	decl := informationDecl(t, unit, 0)
	testutil.Equal(t, "ERROR-CLASS", decl.Name, "class name")
	testutil.Equal(t, "", decl.ClassName, "class declarations carry no class reference")

	class, ok := decl.Value.(*asn1.ObjectClass)
	if !ok {
		t.Fatalf("expected *asn1.ObjectClass, got %T", decl.Value)
	}
	testutil.Len(t, class.Fields, 3, "field count")
	testutil.Equal(t, "category", class.Fields[0].Identifier.Name, "first field name")
	testutil.False(t, class.Fields[0].Identifier.TypeField, "value field kind")
	testutil.True(t, class.Fields[1].Unique, "UNIQUE field")
	testutil.True(t, class.Fields[2].Identifier.TypeField, "type field kind")
	testutil.Nil(t, class.Fields[2].Type, "open type field has no governing type")
	testutil.True(t, class.Fields[2].Optional, "OPTIONAL field")

	testutil.Len(t, class.Syntax, 3, "syntax expression count")
	required, ok := class.Syntax[0].(*asn1.RequiredToken)
	if !ok {
		t.Fatalf("expected *asn1.RequiredToken, got %T", class.Syntax[0])
	}
	literal, ok := required.Token.(*asn1.LiteralToken)
	if !ok {
		t.Fatalf("expected *asn1.LiteralToken, got %T", required.Token)
	}
	testutil.Equal(t, "CATEGORY", literal.Literal, "literal token")

	group, ok := class.Syntax[2].(*asn1.OptionalGroup)
	if !ok {
		t.Fatalf("expected *asn1.OptionalGroup, got %T", class.Syntax[2])
	}
	testutil.Len(t, group.Expressions, 2, "optional group length")
}

func TestParseInformationObjectDefaultSyntax(t *testing.T) {
	unit := parseBody(t, `err-unavailable ERROR-CLASS ::= {
    &category "U",
    &code 161
}`)
	decl := informationDecl(t, unit, 0)
	testutil.Equal(t, "err-unavailable", decl.Name, "object name")
	testutil.Equal(t, "ERROR-CLASS", decl.ClassName, "governing class")

	object, ok := decl.Value.(*asn1.InformationObject)
	if !ok {
		t.Fatalf("expected *asn1.InformationObject, got %T", decl.Value)
	}
	fields, ok := object.Fields.(*asn1.DefaultSyntaxFields)
	if !ok {
		t.Fatalf("expected *asn1.DefaultSyntaxFields, got %T", object.Fields)
	}
	testutil.Len(t, fields.Settings, 2, "setting count")

	category, ok := fields.Settings[0].(*asn1.ValueFieldSetting)
	if !ok {
		t.Fatalf("expected *asn1.ValueFieldSetting, got %T", fields.Settings[0])
	}
	testutil.Equal(t, "category", category.Identifier.Name, "first setting field")

	code, ok := fields.Settings[1].(*asn1.ValueFieldSetting)
	if !ok {
		t.Fatalf("expected *asn1.ValueFieldSetting, got %T", fields.Settings[1])
	}
	testutil.Equal(t, int64(161), intValue(t, code.Value), "second setting value")
}

func TestParseInformationObjectCustomSyntax(t *testing.T) {
	unit := parseBody(t, `err-busy ERROR-CLASS ::= { CATEGORY "B" CODE 5 }`)
	decl := informationDecl(t, unit, 0)

	object, ok := decl.Value.(*asn1.InformationObject)
	if !ok {
		t.Fatalf("expected *asn1.InformationObject, got %T", decl.Value)
	}
	fields, ok := object.Fields.(*asn1.CustomSyntaxFields)
	if !ok {
		t.Fatalf("expected *asn1.CustomSyntaxFields, got %T", object.Fields)
	}
	testutil.Len(t, fields.Applications, 4, "application count")

	first, ok := fields.Applications[0].(*asn1.LiteralApplication)
	if !ok {
		t.Fatalf("expected *asn1.LiteralApplication, got %T", fields.Applications[0])
	}
	testutil.Equal(t, "CATEGORY", first.Literal, "first literal")

	if _, ok := fields.Applications[1].(*asn1.ValueApplication); !ok {
		t.Fatalf("expected *asn1.ValueApplication, got %T", fields.Applications[1])
	}
	last, ok := fields.Applications[3].(*asn1.ValueApplication)
	if !ok {
		t.Fatalf("expected *asn1.ValueApplication, got %T", fields.Applications[3])
	}
	testutil.Equal(t, int64(5), intValue(t, last.Value), "code value")
}

func TestParseObjectSetDeclaration(t *testing.T) {
	unit := parseBody(t, "SupportedErrors ERROR-CLASS ::= { err-busy | err-unavailable, ... }")
	decl := informationDecl(t, unit, 0)
	testutil.Equal(t, "ERROR-CLASS", decl.ClassName, "governing class")

	set, ok := decl.Value.(*asn1.ObjectSet)
	if !ok {
		t.Fatalf("expected *asn1.ObjectSet, got %T", decl.Value)
	}
	testutil.Len(t, set.Values, 2, "element count")
	ref, ok := set.Values[0].(*asn1.ObjectSetReference)
	if !ok {
		t.Fatalf("expected *asn1.ObjectSetReference, got %T", set.Values[0])
	}
	testutil.Equal(t, "err-busy", ref.Name, "first reference")
	testutil.NotNil(t, set.Extensible, "extension marker")
	testutil.Equal(t, 2, *set.Extensible, "extension marker index")
}

func TestParseObjectSetInlineObject(t *testing.T) {
	unit := parseBody(t, "Errors ERROR-CLASS ::= { {&code 1} | {&code 2} }")
	decl := informationDecl(t, unit, 0)

	set, ok := decl.Value.(*asn1.ObjectSet)
	if !ok {
		t.Fatalf("expected *asn1.ObjectSet, got %T", decl.Value)
	}
	testutil.Len(t, set.Values, 2, "element count")
	inline, ok := set.Values[0].(*asn1.InlineObject)
	if !ok {
		t.Fatalf("expected *asn1.InlineObject, got %T", set.Values[0])
	}
	fields, ok := inline.Fields.(*asn1.DefaultSyntaxFields)
	if !ok {
		t.Fatalf("expected *asn1.DefaultSyntaxFields, got %T", inline.Fields)
	}
	testutil.Len(t, fields.Settings, 1, "inline setting count")
}

func TestParseFieldReferenceType(t *testing.T) {
	unit := parseBody(t, "ErrorCode ::= ERROR-CLASS.&code\nErrorPayload ::= ERROR-CLASS.&Type")

	code, ok := typeDecl(t, unit, 0).Type.(*asn1.InformationObjectFieldReference)
	if !ok {
		t.Fatalf("expected *asn1.InformationObjectFieldReference, got %T", typeDecl(t, unit, 0).Type)
	}
	testutil.Equal(t, "ERROR-CLASS", code.Class, "referenced class")
	testutil.Len(t, code.FieldPath, 1, "field path length")
	testutil.Equal(t, "code", code.FieldPath[0].Name, "field name")
	testutil.False(t, code.FieldPath[0].TypeField, "value field reference")

	payload, ok := typeDecl(t, unit, 1).Type.(*asn1.InformationObjectFieldReference)
	if !ok {
		t.Fatalf("expected *asn1.InformationObjectFieldReference, got %T", typeDecl(t, unit, 1).Type)
	}
	testutil.True(t, payload.FieldPath[0].TypeField, "type field reference")
}

func TestParseTableConstraint(t *testing.T) {
	unit := parseBody(t, `Container ::= SEQUENCE {
    kind INTEGER ({Supported}),
    payload ERROR-CLASS.&Type ({Supported}{@kind, @.nested})
}`)
	seq, ok := typeDecl(t, unit, 0).Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", typeDecl(t, unit, 0).Type)
	}

	kind, ok := seq.Members[0].Type.(*asn1.Integer)
	if !ok {
		t.Fatalf("expected *asn1.Integer, got %T", seq.Members[0].Type)
	}
	plain, ok := kind.Constraints[0].(*asn1.TableConstraint)
	if !ok {
		t.Fatalf("expected *asn1.TableConstraint, got %T", kind.Constraints[0])
	}
	testutil.Len(t, plain.ObjectSet.Values, 1, "object set size")
	testutil.Len(t, plain.LinkedFields, 0, "plain table has no at-notation")

	fieldRef, ok := seq.Members[1].Type.(*asn1.InformationObjectFieldReference)
	if !ok {
		t.Fatalf("expected *asn1.InformationObjectFieldReference, got %T", seq.Members[1].Type)
	}
	linked, ok := fieldRef.Constraints[0].(*asn1.TableConstraint)
	if !ok {
		t.Fatalf("expected *asn1.TableConstraint, got %T", fieldRef.Constraints[0])
	}
	testutil.Len(t, linked.LinkedFields, 2, "linked field count")
	testutil.Equal(t, "kind", linked.LinkedFields[0].FieldName, "first linked field")
	testutil.Equal(t, 0, linked.LinkedFields[0].Level, "absolute reference level")
	testutil.Equal(t, "nested", linked.LinkedFields[1].FieldName, "second linked field")
	testutil.Equal(t, 1, linked.LinkedFields[1].Level, "relative reference level")
}

func TestParseDeclarationComments(t *testing.T) {
	source := []byte(`-- Banner for the whole file.
My-Module DEFINITIONS AUTOMATIC TAGS ::= BEGIN
-- Speed in km/h.
-- Second line.
Speed ::= INTEGER (0..255) -- trailing remark
Heading ::= INTEGER (0..359)
END
`)
	p := New(source, nil)
	units, diags := p.Parse()
	testutil.Len(t, diags, 0, "diagnostics")

	speed := typeDecl(t, units[0], 0)
	testutil.Equal(t, "Speed in km/h.\nSecond line.", speed.Comments, "doc comment attachment")

	heading := typeDecl(t, units[0], 1)
	testutil.Equal(t, "", heading.Comments, "trailing remark stays with previous declaration")
}

func TestParseCommentInsideConstraint(t *testing.T) {
	unit := parseBody(t, "My-Int ::= INTEGER (0 -- lower bound -- .. 24)")
	integer, ok := typeDecl(t, unit, 0).Type.(*asn1.Integer)
	if !ok {
		t.Fatalf("expected *asn1.Integer, got %T", typeDecl(t, unit, 0).Type)
	}

	vr := valueRange(t, integer.Constraints[0])
	testutil.Equal(t, int64(0), intValue(t, vr.Min), "range min")
	testutil.Equal(t, int64(24), intValue(t, vr.Max), "range max")
}

func TestParseBareDeclarations(t *testing.T) {
	source := []byte("My-Int ::= INTEGER (0..24)\n")
	p := New(source, nil)
	units, diags := p.Parse()

	testutil.Len(t, diags, 0, "diagnostics")
	testutil.Len(t, units, 1, "unit count")
	testutil.Equal(t, "", units[0].Header.Name, "synthetic header name")
	testutil.Equal(t, asn1.TaggingAutomatic, units[0].Header.Tagging, "bare extract tagging")
	testutil.Len(t, units[0].Declarations, 1, "declaration count")
	testutil.Equal(t, "My-Int", typeDecl(t, units[0], 0).Name, "declaration name")
}

func TestParseMultipleModules(t *testing.T) {
	source := []byte(`First-Module DEFINITIONS AUTOMATIC TAGS ::= BEGIN
A ::= INTEGER
END
Second-Module DEFINITIONS ::= BEGIN
B ::= BOOLEAN
END
`)
	p := New(source, nil)
	units, diags := p.Parse()

	testutil.Len(t, diags, 0, "diagnostics")
	testutil.Len(t, units, 2, "unit count")
	testutil.Equal(t, "First-Module", units[0].Header.Name, "first module name")
	testutil.Equal(t, "Second-Module", units[1].Header.Name, "second module name")
	testutil.Len(t, units[0].Declarations, 1, "first module declarations")
	testutil.Len(t, units[1].Declarations, 1, "second module declarations")
}

func TestParseErrorRecovery(t *testing.T) {
	source := []byte(`My-Module DEFINITIONS AUTOMATIC TAGS ::= BEGIN
Good-One ::= INTEGER (0..5)
Broken ::= SEQUENCE { missing
Good-Two ::= BOOLEAN
END
`)
	p := New(source, nil)
	units, diags := p.Parse()

	testutil.NotEmpty(t, diags, "diagnostics for broken declaration")
	testutil.Len(t, units, 1, "unit count")
	testutil.Len(t, units[0].Declarations, 2, "surviving declarations")
	testutil.Equal(t, "Good-One", typeDecl(t, units[0], 0).Name, "declaration before error")
	testutil.Equal(t, "Good-Two", typeDecl(t, units[0], 1).Name, "declaration after recovery")
}

func TestParseMissingEnd(t *testing.T) {
	source := []byte("My-Module DEFINITIONS ::= BEGIN\nA ::= INTEGER\n")
	p := New(source, nil)
	units, diags := p.Parse()

	testutil.Len(t, units, 1, "unit count")
	testutil.Len(t, units[0].Declarations, 1, "declarations still parsed")
	testutil.NotEmpty(t, diags, "missing END diagnostic")
	testutil.Contains(t, diags[0].Message, "END", "diagnostic names the missing keyword")
}

func TestParseDeterministic(t *testing.T) {
	source := []byte(`My-Module DEFINITIONS AUTOMATIC TAGS ::= BEGIN
Speed ::= INTEGER {unavailable(161)} (0..161, ...)
Position ::= SEQUENCE {
    latitude INTEGER (-900000000..900000001),
    longitude INTEGER (-1800000000..1800000001) OPTIONAL
}
Errors ERROR-CLASS ::= { err-busy, ... }
END
`)
	first, firstDiags := New(source, nil).Parse()
	second, secondDiags := New(source, nil).Parse()

	testutil.DeepEqual(t, first, second, "repeated parse output")
	testutil.DeepEqual(t, firstDiags, secondDiags, "repeated parse diagnostics")
}
