package asn1

// Type is the tagged union over all modeled ASN.1 types. Recursive
// members (Sequence, Choice, SequenceOf) own nested Type values by
// value. Named references use *ElsewhereDeclaredType, a name-based
// back-reference, so the tree itself is acyclic.
type Type interface {
	asn1Type()

	// Declare renders the type as a Go constructor expression.
	Declare() string
}

// Null models the NULL type.
type Null struct{}

// Boolean models BOOLEAN.
type Boolean struct {
	Constraints []Constraint
}

// Integer models INTEGER, including brace-listed distinguished values.
type Integer struct {
	Constraints         []Constraint
	DistinguishedValues []DistinguishedValue
}

// BitString models BIT STRING. DistinguishedValues carries the named
// bit positions, when declared.
type BitString struct {
	Constraints         []Constraint
	DistinguishedValues []DistinguishedValue
}

// OctetString models OCTET STRING.
type OctetString struct {
	Constraints []Constraint
}

// CharacterString models the restricted character string family
// (IA5String, UTF8String, ...).
type CharacterString struct {
	Constraints []Constraint
	Variant     CharacterStringVariant
}

// Enumerated models ENUMERATED. Extensible holds the index of the
// first member after the extension marker, nil when the enumeration is
// not extensible. Extension members encode differently from core
// members, so the index matters, not just the fact of extensibility.
type Enumerated struct {
	Members     []Enumeral
	Extensible  *int
	Constraints []Constraint
}

// Enumeral is one member of an ENUMERATED type.
type Enumeral struct {
	Name        string
	Index       int64
	Description string
}

// Choice models CHOICE. Extensible follows the same index convention
// as Enumerated.
type Choice struct {
	Options     []ChoiceOption
	Extensible  *int
	Constraints []Constraint
}

// ChoiceOption is one alternative of a CHOICE type.
type ChoiceOption struct {
	Name        string
	Type        Type
	Constraints []Constraint
}

// Sequence models SEQUENCE. Extensible follows the same index
// convention as Enumerated.
type Sequence struct {
	Members     []SequenceMember
	Extensible  *int
	Constraints []Constraint
}

// SequenceMember is one component of a SEQUENCE type.
type SequenceMember struct {
	Name        string
	Type        Type
	Optional    bool
	Default     Value // nil when no DEFAULT is declared
	Constraints []Constraint
}

// SequenceOf models SEQUENCE OF. Constraints apply to the collection
// itself (typically SIZE), not the element type.
type SequenceOf struct {
	Constraints []Constraint
	Element     Type
}

// ElsewhereDeclaredType is a reference to a type declared under
// another top-level name.
type ElsewhereDeclaredType struct {
	Identifier  string
	Constraints []Constraint
}

// InformationObjectFieldReference is a type given as a class field
// reference, e.g. `MY-CLASS.&Type`. The linker replaces it with the
// concrete type held in the referenced field.
type InformationObjectFieldReference struct {
	Class       string
	FieldPath   []ObjectFieldIdentifier
	Constraints []Constraint
}

// ObjectFieldIdentifier names one field of an information object
// class. TypeField is true for `&Uppercase` references (type fields)
// and false for `&lowercase` references (value or object-set fields).
type ObjectFieldIdentifier struct {
	Name      string
	TypeField bool
}

// DistinguishedValue is a named constant tied to a numeric value
// (INTEGER) or bit position (BIT STRING).
type DistinguishedValue struct {
	Name  string
	Value int64
}

func (*Null) asn1Type()                            {}
func (*Boolean) asn1Type()                         {}
func (*Integer) asn1Type()                         {}
func (*BitString) asn1Type()                       {}
func (*OctetString) asn1Type()                     {}
func (*CharacterString) asn1Type()                 {}
func (*Enumerated) asn1Type()                      {}
func (*Choice) asn1Type()                          {}
func (*Sequence) asn1Type()                        {}
func (*SequenceOf) asn1Type()                      {}
func (*ElsewhereDeclaredType) asn1Type()           {}
func (*InformationObjectFieldReference) asn1Type() {}

// TypeConstraints returns the constraint list attached directly to t,
// nil for types that cannot carry one.
func TypeConstraints(t Type) []Constraint {
	switch t := t.(type) {
	case *Boolean:
		return t.Constraints
	case *Integer:
		return t.Constraints
	case *BitString:
		return t.Constraints
	case *OctetString:
		return t.Constraints
	case *CharacterString:
		return t.Constraints
	case *Enumerated:
		return t.Constraints
	case *Choice:
		return t.Constraints
	case *Sequence:
		return t.Constraints
	case *SequenceOf:
		return t.Constraints
	case *ElsewhereDeclaredType:
		return t.Constraints
	case *InformationObjectFieldReference:
		return t.Constraints
	default:
		return nil
	}
}

// SetTypeConstraints replaces the constraint list attached directly to
// t. It is a no-op for types that cannot carry one.
func SetTypeConstraints(t Type, cs []Constraint) {
	switch t := t.(type) {
	case *Boolean:
		t.Constraints = cs
	case *Integer:
		t.Constraints = cs
	case *BitString:
		t.Constraints = cs
	case *OctetString:
		t.Constraints = cs
	case *CharacterString:
		t.Constraints = cs
	case *Enumerated:
		t.Constraints = cs
	case *Choice:
		t.Constraints = cs
	case *Sequence:
		t.Constraints = cs
	case *SequenceOf:
		t.Constraints = cs
	case *ElsewhereDeclaredType:
		t.Constraints = cs
	case *InformationObjectFieldReference:
		t.Constraints = cs
	}
}
