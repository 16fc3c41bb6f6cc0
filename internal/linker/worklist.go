package linker

import (
	"log/slog"

	"github.com/6d7a/asnr-sub000/asn1"
)

// Worklist bounds. Reference chains deeper than maxPasses declarations
// are pathological; the no-progress rule usually stops the loop much
// earlier.
const (
	maxPasses      = 20
	maxItemRetries = 10
)

// workItem is one unresolved reference in the declaration list. An
// attempt either rewrites the referenced slot, reports why it can
// never resolve, or asks to be retried once more of the model has
// been linked.
type workItem interface {
	attempt(ctx *linkContext) itemOutcome
	// declaration names the declaration the item belongs to, for
	// diagnostic attribution.
	declaration() string
}

type itemStatus int

const (
	itemResolved itemStatus = iota
	itemRetry
	itemFailed
)

type itemOutcome struct {
	status  itemStatus
	code    string
	message string
	// followups holds items uncovered by this resolution, such as
	// value references inside a freshly decoded object body.
	followups []workItem
}

func resolvedOutcome(followups ...workItem) itemOutcome {
	return itemOutcome{status: itemResolved, followups: followups}
}

func retryOutcome(code, message string) itemOutcome {
	return itemOutcome{status: itemRetry, code: code, message: message}
}

func failedOutcome(code, message string) itemOutcome {
	return itemOutcome{status: itemFailed, code: code, message: message}
}

type queuedItem struct {
	item    workItem
	retries int
	// last is the most recent retry outcome, reused as the diagnostic
	// when the item is abandoned.
	last itemOutcome
}

func (c *linkContext) emitAbandoned(q queuedItem) {
	code, msg := q.last.code, q.last.message
	if code == "" {
		code = asn1.DiagUnresolvedReference
		msg = "reference not resolved"
	}
	c.emit(code, q.item.declaration(), msg)
}

// runWorklist drives reference resolution to a fixpoint. Items are
// attempted in collection order each pass. A pass that resolves
// nothing proves the remainder unresolvable, and each item also
// carries its own retry bound so one stuck declaration cannot pin the
// queue across an otherwise productive run.
func runWorklist(ctx *linkContext) (resolved, abandoned int) {
	var pending []queuedItem
	for _, it := range collectItems(ctx) {
		pending = append(pending, queuedItem{item: it})
	}

	for pass := 0; pass < maxPasses && len(pending) > 0; pass++ {
		var still []queuedItem
		progress := 0

		for _, q := range pending {
			outcome := q.item.attempt(ctx)
			switch outcome.status {
			case itemResolved:
				progress++
				resolved++
				for _, f := range outcome.followups {
					still = append(still, queuedItem{item: f})
				}
			case itemRetry:
				q.retries++
				q.last = outcome
				if q.retries > maxItemRetries {
					ctx.emitAbandoned(q)
					abandoned++
					continue
				}
				still = append(still, q)
			case itemFailed:
				ctx.emit(outcome.code, q.item.declaration(), outcome.message)
				abandoned++
			}
		}

		if ctx.TraceEnabled() {
			ctx.Trace("link pass",
				slog.Int("pass", pass+1),
				slog.Int("resolved", progress),
				slog.Int("still_pending", len(still)))
		}

		if progress == 0 {
			for _, q := range still {
				ctx.emitAbandoned(q)
			}
			return resolved, abandoned + len(still)
		}
		pending = still
	}

	for _, q := range pending {
		ctx.emitAbandoned(q)
	}
	return resolved, abandoned + len(pending)
}

// collector gathers unresolved slots from the declaration list,
// bucketed so that class field references resolve before object
// bodies, and those before constraint bounds and values. Within a
// bucket, items keep declaration order.
type collector struct {
	classItems  []workItem
	syntaxItems []workItem
	boundItems  []workItem
	valueItems  []workItem
}

func (col *collector) items() []workItem {
	items := make([]workItem, 0, len(col.classItems)+len(col.syntaxItems)+len(col.boundItems)+len(col.valueItems))
	items = append(items, col.classItems...)
	items = append(items, col.syntaxItems...)
	items = append(items, col.boundItems...)
	items = append(items, col.valueItems...)
	return items
}

func collectItems(ctx *linkContext) []workItem {
	var col collector
	for _, d := range ctx.decls {
		switch d := d.(type) {
		case *asn1.TypeDeclaration:
			col.walkType(d.Name, d.Name, &d.Type)
		case *asn1.ValueDeclaration:
			col.valueSlot(d.Name, typeNameOf(d.Type), &d.Value)
			col.walkType(d.Name, "", &d.Type)
		case *asn1.InformationDeclaration:
			col.collectInformation(d)
		}
	}
	return col.items()
}

// typeNameOf reports the declared name a type refers to, or "" when
// the type is anonymous. The name scopes the member search during
// value resolution.
func typeNameOf(t asn1.Type) string {
	if ref, ok := t.(*asn1.ElsewhereDeclaredType); ok {
		return ref.Identifier
	}
	return ""
}

func (col *collector) walkType(decl, typeName string, slot *asn1.Type) {
	switch t := (*slot).(type) {
	case *asn1.InformationObjectFieldReference:
		col.classItems = append(col.classItems, &classFieldItem{decl: decl, slot: slot})
		col.walkConstraints(decl, "", t.Constraints)
	case *asn1.ElsewhereDeclaredType:
		col.walkConstraints(decl, t.Identifier, t.Constraints)
	case *asn1.Boolean:
		col.walkConstraints(decl, typeName, t.Constraints)
	case *asn1.Integer:
		col.walkConstraints(decl, typeName, t.Constraints)
	case *asn1.BitString:
		col.walkConstraints(decl, typeName, t.Constraints)
	case *asn1.OctetString:
		col.walkConstraints(decl, typeName, t.Constraints)
	case *asn1.CharacterString:
		col.walkConstraints(decl, typeName, t.Constraints)
	case *asn1.Enumerated:
		col.walkConstraints(decl, typeName, t.Constraints)
	case *asn1.Choice:
		col.walkConstraints(decl, typeName, t.Constraints)
		for i := range t.Options {
			opt := &t.Options[i]
			col.walkConstraints(decl, "", opt.Constraints)
			col.walkType(decl, "", &opt.Type)
		}
	case *asn1.Sequence:
		col.walkConstraints(decl, typeName, t.Constraints)
		for i := range t.Members {
			m := &t.Members[i]
			col.walkConstraints(decl, "", m.Constraints)
			col.valueSlot(decl, typeNameOf(m.Type), &m.Default)
			col.walkType(decl, "", &m.Type)
		}
	case *asn1.SequenceOf:
		col.walkConstraints(decl, typeName, t.Constraints)
		col.walkType(decl, "", &t.Element)
	}
}

func (col *collector) walkConstraints(decl, typeName string, cs []asn1.Constraint) {
	for _, c := range cs {
		switch c := c.(type) {
		case *asn1.SubtypeConstraint:
			col.walkTerm(decl, typeName, c.Set)
		case *asn1.TableConstraint:
			// The object set itself is left for the generator; inline
			// objects inside it still carry resolvable settings.
			col.objectSet(decl, "", &c.ObjectSet)
		}
	}
}

func (col *collector) walkTerm(decl, typeName string, term asn1.ElementSetTerm) {
	switch term := term.(type) {
	case *asn1.SetOperation:
		col.walkTerm(decl, typeName, term.Base)
		col.walkTerm(decl, typeName, term.Operand)
	case *asn1.SingleValue:
		col.boundSlot(decl, typeName, &term.Value)
	case *asn1.ValueRange:
		col.boundSlot(decl, typeName, &term.Min)
		col.boundSlot(decl, typeName, &term.Max)
	case *asn1.ContainedSubtype:
		col.walkType(decl, "", &term.Parent)
	case *asn1.SizeConstraint:
		col.walkTerm(decl, typeName, term.Inner)
	case *asn1.SingleTypeConstraint:
		col.walkConstraints(decl, "", term.Constraints)
	case *asn1.MultipleTypeConstraints:
		for i := range term.Components {
			col.walkConstraints(decl, "", term.Components[i].Constraints)
		}
	}
}

func (col *collector) collectInformation(d *asn1.InformationDeclaration) {
	switch v := d.Value.(type) {
	case *asn1.ObjectClass:
		for i := range v.Fields {
			f := &v.Fields[i]
			col.valueSlot(d.Name, typeNameOf(f.Type), &f.Default)
			if f.Type != nil {
				col.walkType(d.Name, "", &f.Type)
			}
		}
	case *asn1.InformationObject:
		col.objectFields(d.Name, d.ClassName, &v.Fields)
	case *asn1.ObjectSet:
		col.objectSet(d.Name, d.ClassName, v)
	}
}

func (col *collector) objectFields(decl, className string, slot *asn1.InformationObjectFields) {
	switch f := (*slot).(type) {
	case *asn1.CustomSyntaxFields:
		// Without a governing class there is no syntax to decode
		// against; the body stays in its raw form.
		if className != "" {
			col.syntaxItems = append(col.syntaxItems, &syntaxItem{decl: decl, class: className, slot: slot})
		}
	case *asn1.DefaultSyntaxFields:
		col.walkSettings(decl, f.Settings)
	}
}

func (col *collector) walkSettings(decl string, settings []asn1.ObjectFieldSetting) {
	for _, s := range settings {
		switch s := s.(type) {
		case *asn1.TypeFieldSetting:
			col.walkType(decl, "", &s.Type)
		case *asn1.ValueFieldSetting:
			col.valueSlot(decl, "", &s.Value)
		case *asn1.ObjectSetFieldSetting:
			col.objectSet(decl, "", &s.Set)
		}
	}
}

func (col *collector) objectSet(decl, className string, set *asn1.ObjectSet) {
	for _, v := range set.Values {
		if obj, ok := v.(*asn1.InlineObject); ok {
			col.objectFields(decl, className, &obj.Fields)
		}
	}
}

func (col *collector) boundSlot(decl, typeName string, slot *asn1.Value) {
	if _, ok := (*slot).(*asn1.ElsewhereDeclaredValue); ok {
		col.boundItems = append(col.boundItems, &valueRefItem{decl: decl, what: "constraint bound", typeName: typeName, slot: slot})
	}
}

func (col *collector) valueSlot(decl, typeName string, slot *asn1.Value) {
	if _, ok := (*slot).(*asn1.ElsewhereDeclaredValue); ok {
		col.valueItems = append(col.valueItems, &valueRefItem{decl: decl, what: "value", typeName: typeName, slot: slot})
	}
}
