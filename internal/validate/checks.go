package validate

import (
	"fmt"

	"github.com/6d7a/asnr-sub000/asn1"
)

// problem is one validation finding, pending conversion to a
// diagnostic attributed to the declaration it was found in.
type problem struct {
	code    string
	message string
}

// checker walks one declaration at a time. byName is used to chase
// alias references when judging whether a value fits its declared
// type; it may be empty, in which case aliased governors are skipped.
type checker struct {
	byName map[string]asn1.TopLevelDeclaration
}

func newChecker(decls []asn1.TopLevelDeclaration) *checker {
	c := &checker{byName: make(map[string]asn1.TopLevelDeclaration, len(decls))}
	for _, d := range decls {
		name := asn1.DeclarationName(d)
		if _, ok := c.byName[name]; !ok {
			c.byName[name] = d
		}
	}
	return c
}

func (c *checker) check(d asn1.TopLevelDeclaration) []problem {
	switch d := d.(type) {
	case *asn1.TypeDeclaration:
		return c.checkType(d.Type)
	case *asn1.ValueDeclaration:
		probs := c.checkType(d.Type)
		return append(probs, c.checkValue(d.Type, d.Value)...)
	case *asn1.InformationDeclaration:
		return c.checkInformation(d.Value)
	default:
		return nil
	}
}

func (c *checker) checkType(t asn1.Type) []problem {
	if t == nil {
		return nil
	}
	probs := c.checkConstraints(asn1.TypeConstraints(t))
	switch t := t.(type) {
	case *asn1.Choice:
		if len(t.Options) == 0 {
			probs = append(probs, problem{asn1.DiagEmptyChoice,
				"CHOICE declares no alternatives"})
		}
		for _, opt := range t.Options {
			probs = append(probs, c.checkType(opt.Type)...)
			probs = append(probs, c.checkConstraints(opt.Constraints)...)
		}
	case *asn1.Sequence:
		for _, m := range t.Members {
			probs = append(probs, c.checkType(m.Type)...)
			probs = append(probs, c.checkConstraints(m.Constraints)...)
			if m.Default != nil {
				probs = append(probs, c.checkValue(m.Type, m.Default)...)
			}
		}
	case *asn1.SequenceOf:
		probs = append(probs, c.checkType(t.Element)...)
	}
	return probs
}

// checkConstraints walks subtype constraints. Table constraints are
// not checked: their object sets are the generator's input, not a
// shape the model restricts.
func (c *checker) checkConstraints(cs []asn1.Constraint) []problem {
	var probs []problem
	for _, con := range cs {
		if sc, ok := con.(*asn1.SubtypeConstraint); ok {
			probs = append(probs, c.checkTerm(sc.Set)...)
		}
	}
	return probs
}

func (c *checker) checkTerm(term asn1.ElementSetTerm) []problem {
	switch term := term.(type) {
	case *asn1.SetOperation:
		probs := c.checkTerm(term.Base)
		return append(probs, c.checkTerm(term.Operand)...)
	case *asn1.ValueRange:
		return c.checkRange(term)
	case *asn1.SizeConstraint:
		return c.checkTerm(term.Inner)
	case *asn1.ContainedSubtype:
		return c.checkType(term.Parent)
	case *asn1.SingleTypeConstraint:
		return c.checkConstraints(term.Constraints)
	case *asn1.MultipleTypeConstraints:
		var probs []problem
		for _, comp := range term.Components {
			probs = append(probs, c.checkConstraints(comp.Constraints)...)
		}
		return probs
	default:
		return nil
	}
}

func (c *checker) checkRange(r *asn1.ValueRange) []problem {
	var probs []problem
	lo, loOK, p := numericBound(r.Min, "lower")
	if p != nil {
		probs = append(probs, *p)
	}
	hi, hiOK, p := numericBound(r.Max, "upper")
	if p != nil {
		probs = append(probs, *p)
	}
	if loOK && hiOK && lo > hi {
		probs = append(probs, problem{asn1.DiagInvalidConstraints,
			fmt.Sprintf("range lower bound %d exceeds upper bound %d", lo, hi)})
	}
	return probs
}

// numericBound reads one bound of a value range. A nil bound is the
// MIN or MAX keyword; an unresolved reference was already reported by
// the linker; an enumeration member orders in enumeration space, which
// the model does not rank. All three are skipped, not flagged. Only a
// bound that can never act as a number is a problem.
func numericBound(v asn1.Value, side string) (int64, bool, *problem) {
	switch v := v.(type) {
	case nil:
		return 0, false, nil
	case *asn1.IntegerValue:
		return v.Value, true, nil
	case *asn1.ElsewhereDeclaredValue, *asn1.EnumeratedValue, *asn1.AllValue:
		return 0, false, nil
	default:
		return 0, false, &problem{asn1.DiagUnpacking,
			fmt.Sprintf("cannot read the %s bound of a value range as a number", side)}
	}
}

func (c *checker) checkInformation(info asn1.Information) []problem {
	switch info := info.(type) {
	case *asn1.ObjectClass:
		var probs []problem
		for _, f := range info.Fields {
			probs = append(probs, c.checkType(f.Type)...)
			if f.Default != nil {
				probs = append(probs, c.checkValue(f.Type, f.Default)...)
			}
		}
		return probs
	case *asn1.InformationObject:
		return c.checkObjectFields(info.Fields)
	case *asn1.ObjectSet:
		return c.checkObjectSet(info)
	default:
		return nil
	}
}

// checkObjectFields checks decoded field settings. Custom syntax the
// linker could not decode stays raw and was already reported there.
func (c *checker) checkObjectFields(fields asn1.InformationObjectFields) []problem {
	dsf, ok := fields.(*asn1.DefaultSyntaxFields)
	if !ok {
		return nil
	}
	var probs []problem
	for _, s := range dsf.Settings {
		switch s := s.(type) {
		case *asn1.TypeFieldSetting:
			probs = append(probs, c.checkType(s.Type)...)
		case *asn1.ObjectSetFieldSetting:
			probs = append(probs, c.checkObjectSet(&s.Set)...)
		}
	}
	return probs
}

func (c *checker) checkObjectSet(set *asn1.ObjectSet) []problem {
	var probs []problem
	for _, v := range set.Values {
		if inline, ok := v.(*asn1.InlineObject); ok {
			probs = append(probs, c.checkObjectFields(inline.Fields)...)
		}
	}
	return probs
}
