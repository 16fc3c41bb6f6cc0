package linker

import (
	"testing"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/testutil"
)

func TestHoistAnonymousMembers(t *testing.T) {
	decls, diags := linkSource(t, `Outer ::= SEQUENCE {
    inner SEQUENCE {
        flag BOOLEAN
    },
    mode CHOICE {
        off NULL,
        on NULL
    }
}`, asn1.DefaultConfig())
	testutil.Len(t, diags, 0, "diagnostic count")
	testutil.Len(t, decls, 3, "parent plus two hoisted declarations")
	testutil.Equal(t, "Outer", asn1.DeclarationName(decls[0]), "parent first")
	testutil.Equal(t, "Outer-inner", asn1.DeclarationName(decls[1]), "first hoist")
	testutil.Equal(t, "Outer-mode", asn1.DeclarationName(decls[2]), "second hoist")

	outer, ok := typeByName(t, decls, "Outer").Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", typeByName(t, decls, "Outer").Type)
	}
	for i, want := range []string{"Outer-inner", "Outer-mode"} {
		ref, ok := outer.Members[i].Type.(*asn1.ElsewhereDeclaredType)
		if !ok {
			t.Fatalf("member %d: expected *asn1.ElsewhereDeclaredType, got %T", i, outer.Members[i].Type)
		}
		testutil.Equal(t, want, ref.Identifier, "member re-pointed")
	}

	inner, ok := typeByName(t, decls, "Outer-inner").Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", typeByName(t, decls, "Outer-inner").Type)
	}
	testutil.Len(t, inner.Members, 1, "hoisted sequence keeps its members")

	mode, ok := typeByName(t, decls, "Outer-mode").Type.(*asn1.Choice)
	if !ok {
		t.Fatalf("expected *asn1.Choice, got %T", typeByName(t, decls, "Outer-mode").Type)
	}
	testutil.Len(t, mode.Options, 2, "hoisted choice keeps its options")
}

func TestHoistNestedDepth(t *testing.T) {
	decls, diags := linkSource(t, `Outer ::= SEQUENCE {
    a SEQUENCE {
        b SEQUENCE {
            flag BOOLEAN
        }
    }
}`, asn1.DefaultConfig())
	testutil.Len(t, diags, 0, "diagnostic count")
	testutil.Len(t, decls, 3, "declaration count")
	testutil.Equal(t, "Outer", asn1.DeclarationName(decls[0]), "parent first")
	testutil.Equal(t, "Outer-a", asn1.DeclarationName(decls[1]), "child before grandchild")
	testutil.Equal(t, "Outer-a-b", asn1.DeclarationName(decls[2]), "grandchild name composes")

	middle, ok := typeByName(t, decls, "Outer-a").Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", typeByName(t, decls, "Outer-a").Type)
	}
	ref, ok := middle.Members[0].Type.(*asn1.ElsewhereDeclaredType)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredType, got %T", middle.Members[0].Type)
	}
	testutil.Equal(t, "Outer-a-b", ref.Identifier, "nested member re-pointed")
}

func TestHoistSequenceOfMember(t *testing.T) {
	decls, diags := linkSource(t, `Trips ::= SEQUENCE {
    legs SEQUENCE OF SEQUENCE {
        distance INTEGER
    }
}`, asn1.DefaultConfig())
	testutil.Len(t, diags, 0, "diagnostic count")
	testutil.Len(t, decls, 2, "declaration count")

	trips, ok := typeByName(t, decls, "Trips").Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", typeByName(t, decls, "Trips").Type)
	}
	seqOf, ok := trips.Members[0].Type.(*asn1.SequenceOf)
	if !ok {
		t.Fatalf("expected the collection to stay in place, got %T", trips.Members[0].Type)
	}
	ref, ok := seqOf.Element.(*asn1.ElsewhereDeclaredType)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredType, got %T", seqOf.Element)
	}
	testutil.Equal(t, "Trips-legs", ref.Identifier, "element hoisted under the member name")

	element, ok := typeByName(t, decls, "Trips-legs").Type.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected *asn1.Sequence, got %T", typeByName(t, decls, "Trips-legs").Type)
	}
	testutil.Len(t, element.Members, 1, "hoisted element keeps its members")
}

func TestHoistInsideTopLevelSequenceOf(t *testing.T) {
	decls, diags := linkSource(t, `Routes ::= SEQUENCE OF SEQUENCE {
    id INTEGER,
    waypoints SEQUENCE {
        lat INTEGER
    }
}`, asn1.DefaultConfig())
	testutil.Len(t, diags, 0, "diagnostic count")
	testutil.Len(t, decls, 2, "declaration count")

	seqOf, ok := typeByName(t, decls, "Routes").Type.(*asn1.SequenceOf)
	if !ok {
		t.Fatalf("expected *asn1.SequenceOf, got %T", typeByName(t, decls, "Routes").Type)
	}
	element, ok := seqOf.Element.(*asn1.Sequence)
	if !ok {
		t.Fatalf("expected the element to stay in place, got %T", seqOf.Element)
	}
	ref, ok := element.Members[1].Type.(*asn1.ElsewhereDeclaredType)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredType, got %T", element.Members[1].Type)
	}
	testutil.Equal(t, "Routes-waypoints", ref.Identifier, "member hoists against the declaration")
}

func TestHoistEnumeratedMember(t *testing.T) {
	decls, diags := linkSource(t, `Telemetry ::= SEQUENCE {
    state ENUMERATED {off, on}
}`, asn1.DefaultConfig())
	testutil.Len(t, diags, 0, "diagnostic count")
	testutil.Len(t, decls, 2, "declaration count")

	hoisted, ok := typeByName(t, decls, "Telemetry-state").Type.(*asn1.Enumerated)
	if !ok {
		t.Fatalf("expected *asn1.Enumerated, got %T", typeByName(t, decls, "Telemetry-state").Type)
	}
	testutil.Len(t, hoisted.Members, 2, "hoisted enumeration keeps its members")
}

func TestHoistChoiceOption(t *testing.T) {
	decls, diags := linkSource(t, `Event ::= CHOICE {
    simple NULL,
    detail SEQUENCE {
        code INTEGER
    }
}`, asn1.DefaultConfig())
	testutil.Len(t, diags, 0, "diagnostic count")
	testutil.Len(t, decls, 2, "declaration count")

	event, ok := typeByName(t, decls, "Event").Type.(*asn1.Choice)
	if !ok {
		t.Fatalf("expected *asn1.Choice, got %T", typeByName(t, decls, "Event").Type)
	}
	ref, ok := event.Options[1].Type.(*asn1.ElsewhereDeclaredType)
	if !ok {
		t.Fatalf("expected *asn1.ElsewhereDeclaredType, got %T", event.Options[1].Type)
	}
	testutil.Equal(t, "Event-detail", ref.Identifier, "option re-pointed")
}

func TestHoistLeavesNamedTypes(t *testing.T) {
	decls, diags := linkSource(t, `Plain ::= SEQUENCE {
    speed INTEGER (0..255),
    gear Gear
}
Gear ::= ENUMERATED {neutral, drive}`, asn1.DefaultConfig())
	testutil.Len(t, diags, 0, "diagnostic count")
	testutil.Len(t, decls, 2, "nothing to hoist")
}
