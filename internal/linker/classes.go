package linker

import (
	"fmt"

	"github.com/6d7a/asnr-sub000/asn1"
)

// classFieldItem rewrites a type written as a class field reference
// with the governing type of the referenced field.
type classFieldItem struct {
	decl string
	slot *asn1.Type
}

func (it *classFieldItem) declaration() string { return it.decl }

func (it *classFieldItem) attempt(ctx *linkContext) itemOutcome {
	ref, ok := (*it.slot).(*asn1.InformationObjectFieldReference)
	if !ok {
		return resolvedOutcome()
	}
	className := ref.Class
	class, ok := ctx.lookupClass(className)
	if !ok {
		return failedOutcome(asn1.DiagMissingClassLink,
			fmt.Sprintf("reference to field of unknown information object class %s", className))
	}
	for i, seg := range ref.FieldPath {
		field := class.FindField(seg)
		if field == nil {
			return failedOutcome(asn1.DiagMissingClassKey,
				fmt.Sprintf("class %s has no field &%s", className, seg.Name))
		}
		if i == len(ref.FieldPath)-1 {
			if field.Type == nil {
				return failedOutcome(asn1.DiagMissingClassKey,
					fmt.Sprintf("field &%s of class %s is an open type field and declares no governing type", seg.Name, className))
			}
			if _, chained := field.Type.(*asn1.InformationObjectFieldReference); chained {
				return retryOutcome(asn1.DiagMissingClassKey,
					fmt.Sprintf("field &%s of class %s is not linked yet", seg.Name, className))
			}
			*it.slot = cloneTypeWithConstraints(field.Type, ref.Constraints)
			return resolvedOutcome()
		}
		// Interior path segments step into the class the field's type
		// names.
		typeRef, ok := field.Type.(*asn1.ElsewhereDeclaredType)
		if !ok {
			return failedOutcome(asn1.DiagMissingClassKey,
				fmt.Sprintf("field &%s of class %s does not reference an information object class", seg.Name, className))
		}
		next, ok := ctx.lookupClass(typeRef.Identifier)
		if !ok {
			return failedOutcome(asn1.DiagMissingClassLink,
				fmt.Sprintf("field &%s of class %s references unknown information object class %s", seg.Name, className, typeRef.Identifier))
		}
		className = typeRef.Identifier
		class = next
	}
	return failedOutcome(asn1.DiagMissingClassKey, "class field reference has an empty field path")
}

// cloneTypeWithConstraints returns t with extra appended to its own
// constraints. The copy is shallow but fresh, so appending never
// contaminates the class field shared by other references. With no
// extra constraints the field's type is grafted as is.
func cloneTypeWithConstraints(t asn1.Type, extra []asn1.Constraint) asn1.Type {
	if len(extra) == 0 {
		return t
	}
	merge := func(own []asn1.Constraint) []asn1.Constraint {
		out := make([]asn1.Constraint, 0, len(own)+len(extra))
		out = append(out, own...)
		return append(out, extra...)
	}
	switch t := t.(type) {
	case *asn1.Boolean:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.Integer:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.BitString:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.OctetString:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.CharacterString:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.Enumerated:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.Choice:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.Sequence:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.SequenceOf:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	case *asn1.ElsewhereDeclaredType:
		c := *t
		c.Constraints = merge(t.Constraints)
		return &c
	default:
		return t
	}
}
