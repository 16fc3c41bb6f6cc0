package linker

import (
	"fmt"

	"github.com/6d7a/asnr-sub000/asn1"
)

// valueRefItem rewrites one unresolved value slot: a constraint bound,
// a value declaration payload, a member default, or an object field
// setting.
type valueRefItem struct {
	decl string
	// what distinguishes constraint bounds from plain values in
	// diagnostics.
	what string
	// typeName is the declared name of the governing type, or "" when
	// the slot sits under an anonymous type.
	typeName string
	slot     *asn1.Value
}

func (it *valueRefItem) declaration() string { return it.decl }

func (it *valueRefItem) attempt(ctx *linkContext) itemOutcome {
	ref, ok := (*it.slot).(*asn1.ElsewhereDeclaredValue)
	if !ok {
		return resolvedOutcome()
	}
	value, status := resolveValueReference(ctx, ref.Identifier, it.typeName)
	switch status {
	case itemResolved:
		*it.slot = value
		return resolvedOutcome()
	case itemRetry:
		return retryOutcome(asn1.DiagUnresolvedReference,
			fmt.Sprintf("%s %s is not linked yet", it.what, ref.Identifier))
	default:
		return failedOutcome(asn1.DiagUnresolvedReference,
			fmt.Sprintf("%s references undeclared value %s", it.what, ref.Identifier))
	}
}

// resolveValueReference resolves id against the declaration list.
// Three strategies run in order: a top-level value declaration of that
// name, a distinguished value or enumeration member of the governing
// type, and finally the same member search across every type
// declaration. The member searches are best-effort guesses and run
// only when the configuration allows fallbacks; the last one exists
// because a slot under an anonymous type has no governing name to
// search.
func resolveValueReference(ctx *linkContext, id, typeName string) (asn1.Value, itemStatus) {
	if vd, ok := ctx.lookupValue(id); ok {
		if _, unresolved := vd.Value.(*asn1.ElsewhereDeclaredValue); unresolved {
			return nil, itemRetry
		}
		return vd.Value, itemResolved
	}
	if !ctx.cfg.AllowFallbacks() {
		return nil, itemFailed
	}
	if typeName != "" {
		if v, ok := memberValue(ctx.byName[typeName], id); ok {
			return v, itemResolved
		}
	}
	for _, d := range ctx.decls {
		if v, ok := memberValue(d, id); ok {
			return v, itemResolved
		}
	}
	return nil, itemFailed
}

// memberValue searches one declaration's type for a distinguished
// value, named bit, or enumeration member called id.
func memberValue(d asn1.TopLevelDeclaration, id string) (asn1.Value, bool) {
	td, ok := d.(*asn1.TypeDeclaration)
	if !ok {
		return nil, false
	}
	switch t := td.Type.(type) {
	case *asn1.Integer:
		for _, dv := range t.DistinguishedValues {
			if dv.Name == id {
				return &asn1.IntegerValue{Value: dv.Value}, true
			}
		}
	case *asn1.BitString:
		for _, dv := range t.DistinguishedValues {
			if dv.Name == id {
				return &asn1.IntegerValue{Value: dv.Value}, true
			}
		}
	case *asn1.Enumerated:
		for _, m := range t.Members {
			if m.Name == id {
				return &asn1.EnumeratedValue{Name: m.Name}, true
			}
		}
	}
	return nil, false
}
