package linker

import (
	"github.com/6d7a/asnr-sub000/asn1"
)

// hoistDeclarations lifts anonymous SEQUENCE, CHOICE, and ENUMERATED
// member types into top-level declarations of their own. The member
// slot is rewritten to reference the hoisted declaration, which is
// named after the enclosing declaration and the member, so the same
// input always produces the same names. Hoisted declarations follow
// their parent in the output list, depth first.
func hoistDeclarations(decls []asn1.TopLevelDeclaration) ([]asn1.TopLevelDeclaration, int) {
	out := make([]asn1.TopLevelDeclaration, 0, len(decls))
	total := 0
	for _, d := range decls {
		out = append(out, d)
		if td, ok := d.(*asn1.TypeDeclaration); ok {
			hoisted := hoistNested(td.Name, td.Type)
			total += len(hoisted)
			out = append(out, hoisted...)
		}
	}
	return out, total
}

// hoistNested walks the members of t and returns the declarations
// hoisted out of them, each parent before its own nested hoists.
func hoistNested(parent string, t asn1.Type) []asn1.TopLevelDeclaration {
	var out []asn1.TopLevelDeclaration
	switch t := t.(type) {
	case *asn1.Sequence:
		for i := range t.Members {
			out = append(out, hoistSlot(parent, t.Members[i].Name, &t.Members[i].Type)...)
		}
	case *asn1.Choice:
		for i := range t.Options {
			out = append(out, hoistSlot(parent, t.Options[i].Name, &t.Options[i].Type)...)
		}
	case *asn1.SequenceOf:
		// The element position has no name of its own; members nested
		// inside it hoist against the enclosing declaration.
		out = append(out, hoistNested(parent, t.Element)...)
	}
	return out
}

// hoistSlot replaces the type in slot with a reference when it is an
// anonymous structured type, returning the hoisted declaration
// followed by any hoists from the hoisted type's own members. A
// SEQUENCE OF in a named member position stays in place, but an
// anonymous element type hoists under the member's name.
func hoistSlot(parent, member string, slot *asn1.Type) []asn1.TopLevelDeclaration {
	switch inner := (*slot).(type) {
	case *asn1.Sequence, *asn1.Choice, *asn1.Enumerated:
		name := parent + "-" + member
		*slot = &asn1.ElsewhereDeclaredType{Identifier: name}
		decl := &asn1.TypeDeclaration{Name: name, Type: inner}
		return append([]asn1.TopLevelDeclaration{decl}, hoistNested(name, inner)...)
	case *asn1.SequenceOf:
		return hoistSlot(parent, member, &inner.Element)
	}
	return nil
}
