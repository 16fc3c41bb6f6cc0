package asn1

import (
	"fmt"
	"math/bits"
)

// PerVisibleBounds is the canonical reduction of a PER-visible
// constraint set on an integer-like type: a closed numeric range plus
// an extensibility flag. A nil Min or Max is an open bound.
type PerVisibleBounds struct {
	Min        *int64
	Max        *int64
	Extensible bool
}

// Bounded returns true if both bounds are present.
func (b *PerVisibleBounds) Bounded() bool {
	return b != nil && b.Min != nil && b.Max != nil
}

// BitLength returns the number of bits needed to encode a value of
// the bounded range, the smallest k with 2^k >= max-min+1. Returns
// false when either bound is open; unbounded values take an
// indefinite-length encoding path instead.
func (b *PerVisibleBounds) BitLength() (int, bool) {
	if !b.Bounded() || *b.Max < *b.Min {
		return 0, false
	}
	// Unsigned subtraction keeps the distance exact across the full
	// int64 range.
	return bits.Len64(uint64(*b.Max) - uint64(*b.Min)), true
}

// Fold reduces a constraint list governing an integer-like type to
// canonical bounds. Constraints applied in series intersect. Returns
// nil when no constraint is PER-visible, so the list contributes no
// bound. Returns an error when a bound is still an unresolved
// reference, which the linker should have rewritten or warned about.
func Fold(constraints []Constraint) (*PerVisibleBounds, error) {
	var acc *folded
	for _, c := range constraints {
		sc, ok := c.(*SubtypeConstraint)
		if !ok {
			// Table constraints are never PER-visible.
			continue
		}
		f, err := foldTerm(sc.Set)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		if sc.Extensible {
			f.extensible = true
		}
		if acc == nil {
			acc = f
		} else {
			acc = intersect(acc, f)
		}
	}
	if acc == nil {
		return nil, nil
	}
	return &PerVisibleBounds{Min: acc.min, Max: acc.max, Extensible: acc.extensible}, nil
}

// FoldType reduces the constraints attached directly to a type.
// Enumerated types fold to the synthetic range [0, len(members)-1]
// with the enumeration's own extensibility, since enumerations encode
// as a member-list index.
func FoldType(t Type) (*PerVisibleBounds, error) {
	if e, ok := t.(*Enumerated); ok {
		min := int64(0)
		max := int64(len(e.Members) - 1)
		return &PerVisibleBounds{Min: &min, Max: &max, Extensible: e.Extensible != nil}, nil
	}
	return Fold(TypeConstraints(t))
}

// folded is the working state of one folded subtree. single marks a
// result known to be exactly one value, which the set operators treat
// specially.
type folded struct {
	min, max   *int64
	single     bool
	extensible bool
}

func foldTerm(term ElementSetTerm) (*folded, error) {
	switch term := term.(type) {
	case *SetOperation:
		// Operand first, then combine.
		operand, err := foldTerm(term.Operand)
		if err != nil {
			return nil, err
		}
		base, err := foldElement(term.Base)
		if err != nil {
			return nil, err
		}
		switch term.Operator {
		case Intersection:
			return intersect(base, operand), nil
		case Union:
			return unite(base, operand), nil
		default:
			// EXCEPT discards the operand unconditionally.
			return base, nil
		}
	case SubtypeElement:
		return foldElement(term)
	default:
		return nil, nil
	}
}

func foldElement(e SubtypeElement) (*folded, error) {
	switch e := e.(type) {
	case *SingleValue:
		v, numeric, err := numericValue(e.Value)
		if err != nil {
			return nil, err
		}
		if !numeric {
			return nil, nil
		}
		return &folded{min: &v, max: &v, single: true, extensible: e.Extensible}, nil
	case *ValueRange:
		f := &folded{extensible: e.Extensible}
		if e.Min != nil {
			v, numeric, err := numericValue(e.Min)
			if err != nil {
				return nil, err
			}
			if !numeric {
				return nil, nil
			}
			f.min = &v
		}
		if e.Max != nil {
			v, numeric, err := numericValue(e.Max)
			if err != nil {
				return nil, err
			}
			if !numeric {
				return nil, nil
			}
			f.max = &v
		}
		return f, nil
	case *ContainedSubtype:
		// Visible with open bounds. The parent's own constraints
		// apply to values of the parent type and are not imported
		// here.
		return &folded{extensible: e.Extensible}, nil
	case *SizeConstraint:
		return foldTerm(e.Inner)
	default:
		// WITH COMPONENT(S) never contributes bounds.
		return nil, nil
	}
}

// numericValue extracts an integer from a constraint bound. The
// second result is false for concrete but non-numeric values, which
// make the surrounding element invisible rather than invalid.
func numericValue(v Value) (int64, bool, error) {
	switch v := v.(type) {
	case *IntegerValue:
		return v.Value, true, nil
	case *ElsewhereDeclaredValue:
		return 0, false, fmt.Errorf("unresolved value reference %q in constraint bound", v.Identifier)
	default:
		return 0, false, nil
	}
}

// intersect combines two folded subtrees for INTERSECTION. A nil base
// makes the whole result invisible; a nil operand is dropped in favor
// of the base. A single value on either side wins outright, base
// first.
func intersect(base, operand *folded) *folded {
	if base == nil {
		return nil
	}
	if operand == nil {
		return base
	}
	if base.single {
		return &folded{min: base.min, max: base.max, single: true, extensible: base.extensible || operand.extensible}
	}
	if operand.single {
		return &folded{min: operand.min, max: operand.max, single: true, extensible: base.extensible || operand.extensible}
	}
	return &folded{
		min:        tighterMin(base.min, operand.min),
		max:        tighterMax(base.max, operand.max),
		extensible: base.extensible || operand.extensible,
	}
}

// unite combines two folded subtrees for UNION. Either side invisible
// makes the whole result invisible.
//
// A single value against a range keeps the historical folding
// direction: the value replaces the nearer bound, so a value strictly
// inside the range narrows it toward the value instead of leaving it
// unchanged. Callers depend on the resulting bounds; do not correct
// the direction without revisiting them.
func unite(base, operand *folded) *folded {
	if base == nil || operand == nil {
		return nil
	}
	extensible := base.extensible || operand.extensible
	if base.single && operand.single {
		a, b := *base.min, *operand.min
		if a == b {
			return &folded{min: base.min, max: base.max, single: true, extensible: extensible}
		}
		lo, hi := min(a, b), max(a, b)
		return &folded{min: &lo, max: &hi, extensible: extensible}
	}
	if base.single || operand.single {
		single, rng := base, operand
		if operand.single {
			single, rng = operand, base
		}
		v := *single.min
		out := &folded{min: rng.min, max: rng.max, extensible: extensible}
		if out.min != nil && v <= *out.min {
			out.min = &v
		} else {
			out.max = &v
		}
		return out
	}
	return &folded{
		min:        widerMin(base.min, operand.min),
		max:        widerMax(base.max, operand.max),
		extensible: extensible,
	}
}

// tighterMin picks the larger of two lower bounds; nil is open and
// loses to any present bound.
func tighterMin(a, b *int64) *int64 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *a >= *b {
		return a
	}
	return b
}

// tighterMax picks the smaller of two upper bounds.
func tighterMax(a, b *int64) *int64 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *a <= *b {
		return a
	}
	return b
}

// widerMin picks the smaller of two lower bounds; nil is open and
// dominates.
func widerMin(a, b *int64) *int64 {
	if a == nil || b == nil {
		return nil
	}
	if *a <= *b {
		return a
	}
	return b
}

// widerMax picks the larger of two upper bounds.
func widerMax(a, b *int64) *int64 {
	if a == nil || b == nil {
		return nil
	}
	if *a >= *b {
		return a
	}
	return b
}
