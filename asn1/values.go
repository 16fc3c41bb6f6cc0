package asn1

// Value is the tagged union over all modeled ASN.1 values.
//
// *ElsewhereDeclaredValue is an unresolved reference placeholder. The
// linker replaces it with the referenced concrete value, or with an
// *EnumeratedValue once the identifier is confirmed to name a member
// of the governing enumeration.
type Value interface {
	asn1Value()

	// Declare renders the value as a Go constructor expression.
	Declare() string
}

// AllValue models the ALL keyword, e.g. in `ALL EXCEPT ...`.
type AllValue struct{}

// NullValue is the NULL value.
type NullValue struct{}

// BooleanValue is TRUE or FALSE.
type BooleanValue struct {
	Value bool
}

// IntegerValue is a number literal.
type IntegerValue struct {
	Value int64
}

// StringValue is a quoted character string literal.
type StringValue struct {
	Value string
}

// BitStringValue is a binary or hexadecimal string literal, stored as
// individual bits.
type BitStringValue struct {
	Bits []bool
}

// EnumeratedValue names a member of the governing ENUMERATED type.
// Produced by the linker; the parser cannot distinguish enumeration
// members from other identifier references.
type EnumeratedValue struct {
	Name string
}

// ElsewhereDeclaredValue is an identifier reference to a value
// declared under another top-level name, or to a distinguished value
// or enumeration member of some type.
type ElsewhereDeclaredValue struct {
	Identifier string
}

func (*AllValue) asn1Value()               {}
func (*NullValue) asn1Value()              {}
func (*BooleanValue) asn1Value()           {}
func (*IntegerValue) asn1Value()           {}
func (*StringValue) asn1Value()            {}
func (*BitStringValue) asn1Value()         {}
func (*EnumeratedValue) asn1Value()        {}
func (*ElsewhereDeclaredValue) asn1Value() {}
