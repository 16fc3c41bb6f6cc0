package asn1

// Constraint is one parenthesized constraint attached to a type.
type Constraint interface {
	constraint()

	// Declare renders the constraint as a Go constructor expression.
	Declare() string
}

// SubtypeConstraint is an element set: a tree of subtype elements
// combined by set operators. Extensible records a trailing `, ...`
// marker on the whole set.
type SubtypeConstraint struct {
	Set        ElementSetTerm
	Extensible bool
}

// TableConstraint constrains an open type through an object set,
// optionally tied to sibling components by relational constraints
// (`{ObjectSet}{@field}`). Table constraints are never PER-visible.
type TableConstraint struct {
	ObjectSet    ObjectSet
	LinkedFields []RelationalConstraint
}

// RelationalConstraint is one `@field` or `@.field` component of a
// table constraint. Level counts the leading dots, encoding how many
// nesting levels up the referenced component lives.
type RelationalConstraint struct {
	FieldName string
	Level     int
}

func (*SubtypeConstraint) constraint() {}
func (*TableConstraint) constraint()   {}

// ElementSetTerm is a node of an element set tree: either a leaf
// SubtypeElement or a *SetOperation combining a base element with a
// nested operand. Chains like `(a | b ^ c)` parse left-to-right into
// operand-nested operations.
type ElementSetTerm interface {
	elementSetTerm()

	// Declare renders the term as a Go constructor expression.
	Declare() string
}

// SetOperation combines a base element with a recursively nested
// operand term.
type SetOperation struct {
	Base     SubtypeElement
	Operator SetOperator
	Operand  ElementSetTerm
}

func (*SetOperation) elementSetTerm() {}

// SubtypeElement is a leaf of an element set tree.
type SubtypeElement interface {
	ElementSetTerm
	subtypeElement()
}

// SingleValue constrains to exactly one value.
type SingleValue struct {
	Value      Value
	Extensible bool
}

// ContainedSubtype imports the constraints of another type, written
// `INCLUDES Parent` or as a bare parenthesized type reference.
type ContainedSubtype struct {
	Parent     Type
	Extensible bool
}

// ValueRange constrains to a closed range. A nil Min or Max stands for
// the MIN or MAX keyword.
type ValueRange struct {
	Min        Value
	Max        Value
	Extensible bool
}

// SizeConstraint wraps an element set constraining the size of a
// collection or string type.
type SizeConstraint struct {
	Inner ElementSetTerm
}

// SingleTypeConstraint applies constraints to the element type of a
// SEQUENCE OF, written `WITH COMPONENT (...)`.
type SingleTypeConstraint struct {
	Constraints []Constraint
}

// MultipleTypeConstraints constrains individual components of a
// SEQUENCE or CHOICE, written `WITH COMPONENTS {...}`. Partial is true
// for the `{..., a (...)}` form that leaves unlisted components
// unconstrained.
type MultipleTypeConstraints struct {
	Partial    bool
	Components []ComponentConstraint
}

// ComponentConstraint is one entry of a WITH COMPONENTS clause.
type ComponentConstraint struct {
	Name        string
	Constraints []Constraint
	Presence    Presence
}

func (*SingleValue) elementSetTerm()             {}
func (*ContainedSubtype) elementSetTerm()        {}
func (*ValueRange) elementSetTerm()              {}
func (*SizeConstraint) elementSetTerm()          {}
func (*SingleTypeConstraint) elementSetTerm()    {}
func (*MultipleTypeConstraints) elementSetTerm() {}

func (*SingleValue) subtypeElement()             {}
func (*ContainedSubtype) subtypeElement()        {}
func (*ValueRange) subtypeElement()              {}
func (*SizeConstraint) subtypeElement()          {}
func (*SingleTypeConstraint) subtypeElement()    {}
func (*MultipleTypeConstraints) subtypeElement() {}
