package asn1

// Information is the tagged union over information-object constructs:
// class declarations, object instances, and object sets.
type Information interface {
	information()

	// Declare renders the construct as a Go constructor expression.
	Declare() string
}

// ObjectClass is a CLASS declaration: named fields plus an optional
// custom concrete syntax for writing object instances.
type ObjectClass struct {
	Fields []ClassField
	Syntax []SyntaxExpression // WITH SYNTAX specification, nil if none
}

// ClassField declares one field of an information object class. Type
// is nil for open type fields (`&Type` with no governing type).
type ClassField struct {
	Identifier ObjectFieldIdentifier
	Type       Type
	Unique     bool
	Optional   bool
	Default    Value // nil when no DEFAULT is declared
}

// InformationObject is one instance of a class, its field settings
// written in either the default `{&field value, ...}` syntax or the
// class's custom syntax.
type InformationObject struct {
	Fields InformationObjectFields
}

// ObjectSet is an extensible collection of information objects.
// Extensible follows the same index convention as Enumerated.
type ObjectSet struct {
	Values     []ObjectSetValue
	Extensible *int
}

func (*ObjectClass) information()       {}
func (*InformationObject) information() {}
func (*ObjectSet) information()         {}

// ObjectSetValue is one element of an object set: a reference to an
// object declared elsewhere or an inline object.
type ObjectSetValue interface {
	objectSetValue()
	Declare() string
}

// ObjectSetReference names an information object or a nested object
// set declared under another top-level name.
type ObjectSetReference struct {
	Name string
}

// InlineObject is an object instance written directly inside an object
// set.
type InlineObject struct {
	Fields InformationObjectFields
}

func (*ObjectSetReference) objectSetValue() {}
func (*InlineObject) objectSetValue()       {}

// InformationObjectFields carries the field settings of one object.
// *CustomSyntaxFields holds the raw token stream of a custom-syntax
// instance; the linker decodes it into *DefaultSyntaxFields against
// the class's WITH SYNTAX specification.
type InformationObjectFields interface {
	objectFields()
	Declare() string
}

// DefaultSyntaxFields is the canonical `{&field value, ...}` form.
type DefaultSyntaxFields struct {
	Settings []ObjectFieldSetting
}

// CustomSyntaxFields is an undecoded custom-syntax instance.
type CustomSyntaxFields struct {
	Applications []SyntaxApplication
}

func (*DefaultSyntaxFields) objectFields() {}
func (*CustomSyntaxFields) objectFields()  {}

// ObjectFieldSetting assigns one class field within an object.
type ObjectFieldSetting interface {
	objectFieldSetting()
	Declare() string
}

// TypeFieldSetting sets a type field, e.g. `&Type INTEGER`.
type TypeFieldSetting struct {
	Identifier ObjectFieldIdentifier
	Type       Type
}

// ValueFieldSetting sets a fixed value field, e.g. `&id 42`.
type ValueFieldSetting struct {
	Identifier ObjectFieldIdentifier
	Value      Value
}

// ObjectSetFieldSetting sets an object-set field.
type ObjectSetFieldSetting struct {
	Identifier ObjectFieldIdentifier
	Set        ObjectSet
}

func (*TypeFieldSetting) objectFieldSetting()      {}
func (*ValueFieldSetting) objectFieldSetting()     {}
func (*ObjectSetFieldSetting) objectFieldSetting() {}

// SyntaxExpression is one element of a WITH SYNTAX specification:
// either a required token or a bracketed optional group.
type SyntaxExpression interface {
	syntaxExpression()
	Declare() string
}

// RequiredToken is a mandatory token in a syntax specification.
type RequiredToken struct {
	Token SyntaxToken
}

// OptionalGroup is a `[ ... ]` group in a syntax specification.
type OptionalGroup struct {
	Expressions []SyntaxExpression
}

func (*RequiredToken) syntaxExpression() {}
func (*OptionalGroup) syntaxExpression() {}

// SyntaxToken is one token of a WITH SYNTAX specification.
type SyntaxToken interface {
	syntaxToken()
	Declare() string
}

// LiteralToken is an uppercase literal word.
type LiteralToken struct {
	Literal string
}

// CommaToken is a literal comma.
type CommaToken struct{}

// FieldToken is a field placeholder, e.g. `&Type`.
type FieldToken struct {
	Field ObjectFieldIdentifier
}

func (*LiteralToken) syntaxToken() {}
func (*CommaToken) syntaxToken()   {}
func (*FieldToken) syntaxToken()   {}

// SyntaxApplication is one token of an object instance written in
// custom syntax, before decoding against the class specification.
type SyntaxApplication interface {
	syntaxApplication()
	Declare() string
}

// LiteralApplication is an uppercase word matching a literal token.
type LiteralApplication struct {
	Literal string
}

// CommaApplication is a literal comma.
type CommaApplication struct{}

// TypeApplication is a type written where the class syntax expects a
// type field.
type TypeApplication struct {
	Type Type
}

// ValueApplication is a value written where the class syntax expects
// a value field.
type ValueApplication struct {
	Value Value
}

// ObjectSetApplication is a braces group written where the
// specification expects an object-set field.
type ObjectSetApplication struct {
	Set ObjectSet
}

func (*LiteralApplication) syntaxApplication()   {}
func (*CommaApplication) syntaxApplication()     {}
func (*TypeApplication) syntaxApplication()      {}
func (*ValueApplication) syntaxApplication()     {}
func (*ObjectSetApplication) syntaxApplication() {}

// FindField returns the class field named by id, or nil.
func (c *ObjectClass) FindField(id ObjectFieldIdentifier) *ClassField {
	for i := range c.Fields {
		if c.Fields[i].Identifier == id {
			return &c.Fields[i]
		}
	}
	return nil
}
