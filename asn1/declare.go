package asn1

import (
	"fmt"
	"strings"
)

// Declare methods render model nodes as Go constructor expressions,
// qualified with the asn1 package name so the output can be pasted
// into (or emitted as) code that imports this package. Rendering is
// total and deterministic. Zero-valued fields are omitted.

type declFields struct {
	parts []string
}

func (f *declFields) add(name, value string) {
	f.parts = append(f.parts, name+": "+value)
}

func (f *declFields) wrap(ctor string) string {
	if len(f.parts) == 0 {
		return ctor + "{}"
	}
	return ctor + "{" + strings.Join(f.parts, ", ") + "}"
}

func declareSlice[T any](elemType string, items []T, render func(T) string) string {
	if len(items) == 0 {
		return "nil"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = render(item)
	}
	return "[]asn1." + elemType + "{" + strings.Join(parts, ", ") + "}"
}

func declareConstraints(cs []Constraint) string {
	return declareSlice("Constraint", cs, Constraint.Declare)
}

func declareIntPtr(p *int) string {
	return fmt.Sprintf("asn1.Ptr(%d)", *p)
}

// Declarations.

func (d *TypeDeclaration) Declare() string {
	var f declFields
	if d.Comments != "" {
		f.add("Comments", fmt.Sprintf("%q", d.Comments))
	}
	f.add("Name", fmt.Sprintf("%q", d.Name))
	f.add("Type", d.Type.Declare())
	return f.wrap("&asn1.TypeDeclaration")
}

func (d *ValueDeclaration) Declare() string {
	var f declFields
	if d.Comments != "" {
		f.add("Comments", fmt.Sprintf("%q", d.Comments))
	}
	f.add("Name", fmt.Sprintf("%q", d.Name))
	if d.Type != nil {
		f.add("Type", d.Type.Declare())
	}
	f.add("Value", d.Value.Declare())
	return f.wrap("&asn1.ValueDeclaration")
}

func (d *InformationDeclaration) Declare() string {
	var f declFields
	if d.Comments != "" {
		f.add("Comments", fmt.Sprintf("%q", d.Comments))
	}
	f.add("Name", fmt.Sprintf("%q", d.Name))
	if d.ClassName != "" {
		f.add("ClassName", fmt.Sprintf("%q", d.ClassName))
	}
	f.add("Value", d.Value.Declare())
	return f.wrap("&asn1.InformationDeclaration")
}

// Header.

func (h *ModuleHeader) Declare() string {
	var f declFields
	f.add("Name", fmt.Sprintf("%q", h.Name))
	if len(h.ModuleIdentifier) > 0 {
		f.add("ModuleIdentifier", declareSlice("ObjectIdentifierArc", h.ModuleIdentifier, ObjectIdentifierArc.Declare))
	}
	if h.Tagging != TaggingExplicit {
		f.add("Tagging", "asn1.Tagging"+titleCase(h.Tagging.String()))
	}
	if h.ExtensibilityImplied {
		f.add("ExtensibilityImplied", "true")
	}
	if len(h.Imports) > 0 {
		f.add("Imports", declareSlice("Import", h.Imports, Import.Declare))
	}
	return f.wrap("&asn1.ModuleHeader")
}

func (a ObjectIdentifierArc) Declare() string {
	var f declFields
	if a.Name != "" {
		f.add("Name", fmt.Sprintf("%q", a.Name))
	}
	if a.Number != nil {
		f.add("Number", fmt.Sprintf("asn1.Ptr(int64(%d))", *a.Number))
	}
	return f.wrap("asn1.ObjectIdentifierArc")
}

func (i Import) Declare() string {
	var f declFields
	f.add("Symbols", declareStringSlice(i.Symbols))
	f.add("Module", fmt.Sprintf("%q", i.Module))
	return f.wrap("asn1.Import")
}

func titleCase(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Types.

func (*Null) Declare() string { return "&asn1.Null{}" }

func (t *Boolean) Declare() string {
	var f declFields
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	return f.wrap("&asn1.Boolean")
}

func (t *Integer) Declare() string {
	var f declFields
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	if len(t.DistinguishedValues) > 0 {
		f.add("DistinguishedValues", declareSlice("DistinguishedValue", t.DistinguishedValues, DistinguishedValue.Declare))
	}
	return f.wrap("&asn1.Integer")
}

func (t *BitString) Declare() string {
	var f declFields
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	if len(t.DistinguishedValues) > 0 {
		f.add("DistinguishedValues", declareSlice("DistinguishedValue", t.DistinguishedValues, DistinguishedValue.Declare))
	}
	return f.wrap("&asn1.BitString")
}

func (t *OctetString) Declare() string {
	var f declFields
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	return f.wrap("&asn1.OctetString")
}

func (t *CharacterString) Declare() string {
	var f declFields
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	f.add("Variant", "asn1."+t.Variant.String())
	return f.wrap("&asn1.CharacterString")
}

func (t *Enumerated) Declare() string {
	var f declFields
	if len(t.Members) > 0 {
		f.add("Members", declareSlice("Enumeral", t.Members, Enumeral.Declare))
	}
	if t.Extensible != nil {
		f.add("Extensible", declareIntPtr(t.Extensible))
	}
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	return f.wrap("&asn1.Enumerated")
}

func (e Enumeral) Declare() string {
	var f declFields
	f.add("Name", fmt.Sprintf("%q", e.Name))
	f.add("Index", fmt.Sprintf("%d", e.Index))
	if e.Description != "" {
		f.add("Description", fmt.Sprintf("%q", e.Description))
	}
	return f.wrap("asn1.Enumeral")
}

func (t *Choice) Declare() string {
	var f declFields
	if len(t.Options) > 0 {
		f.add("Options", declareSlice("ChoiceOption", t.Options, ChoiceOption.Declare))
	}
	if t.Extensible != nil {
		f.add("Extensible", declareIntPtr(t.Extensible))
	}
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	return f.wrap("&asn1.Choice")
}

func (o ChoiceOption) Declare() string {
	var f declFields
	f.add("Name", fmt.Sprintf("%q", o.Name))
	f.add("Type", o.Type.Declare())
	if len(o.Constraints) > 0 {
		f.add("Constraints", declareConstraints(o.Constraints))
	}
	return f.wrap("asn1.ChoiceOption")
}

func (t *Sequence) Declare() string {
	var f declFields
	if len(t.Members) > 0 {
		f.add("Members", declareSlice("SequenceMember", t.Members, SequenceMember.Declare))
	}
	if t.Extensible != nil {
		f.add("Extensible", declareIntPtr(t.Extensible))
	}
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	return f.wrap("&asn1.Sequence")
}

func (m SequenceMember) Declare() string {
	var f declFields
	f.add("Name", fmt.Sprintf("%q", m.Name))
	f.add("Type", m.Type.Declare())
	if m.Optional {
		f.add("Optional", "true")
	}
	if m.Default != nil {
		f.add("Default", m.Default.Declare())
	}
	if len(m.Constraints) > 0 {
		f.add("Constraints", declareConstraints(m.Constraints))
	}
	return f.wrap("asn1.SequenceMember")
}

func (t *SequenceOf) Declare() string {
	var f declFields
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	f.add("Element", t.Element.Declare())
	return f.wrap("&asn1.SequenceOf")
}

func (t *ElsewhereDeclaredType) Declare() string {
	var f declFields
	f.add("Identifier", fmt.Sprintf("%q", t.Identifier))
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	return f.wrap("&asn1.ElsewhereDeclaredType")
}

func (t *InformationObjectFieldReference) Declare() string {
	var f declFields
	f.add("Class", fmt.Sprintf("%q", t.Class))
	f.add("FieldPath", declareSlice("ObjectFieldIdentifier", t.FieldPath, ObjectFieldIdentifier.Declare))
	if len(t.Constraints) > 0 {
		f.add("Constraints", declareConstraints(t.Constraints))
	}
	return f.wrap("&asn1.InformationObjectFieldReference")
}

func (id ObjectFieldIdentifier) Declare() string {
	var f declFields
	f.add("Name", fmt.Sprintf("%q", id.Name))
	if id.TypeField {
		f.add("TypeField", "true")
	}
	return f.wrap("asn1.ObjectFieldIdentifier")
}

func (d DistinguishedValue) Declare() string {
	var f declFields
	f.add("Name", fmt.Sprintf("%q", d.Name))
	f.add("Value", fmt.Sprintf("%d", d.Value))
	return f.wrap("asn1.DistinguishedValue")
}

// Values.

func (*AllValue) Declare() string  { return "&asn1.AllValue{}" }
func (*NullValue) Declare() string { return "&asn1.NullValue{}" }

func (v *BooleanValue) Declare() string {
	if v.Value {
		return "&asn1.BooleanValue{Value: true}"
	}
	return "&asn1.BooleanValue{}"
}

func (v *IntegerValue) Declare() string {
	if v.Value == 0 {
		return "&asn1.IntegerValue{}"
	}
	return fmt.Sprintf("&asn1.IntegerValue{Value: %d}", v.Value)
}

func (v *StringValue) Declare() string {
	return fmt.Sprintf("&asn1.StringValue{Value: %q}", v.Value)
}

func (v *BitStringValue) Declare() string {
	if len(v.Bits) == 0 {
		return "&asn1.BitStringValue{}"
	}
	parts := make([]string, len(v.Bits))
	for i, b := range v.Bits {
		parts[i] = fmt.Sprintf("%t", b)
	}
	return "&asn1.BitStringValue{Bits: []bool{" + strings.Join(parts, ", ") + "}}"
}

func (v *EnumeratedValue) Declare() string {
	return fmt.Sprintf("&asn1.EnumeratedValue{Name: %q}", v.Name)
}

func (v *ElsewhereDeclaredValue) Declare() string {
	return fmt.Sprintf("&asn1.ElsewhereDeclaredValue{Identifier: %q}", v.Identifier)
}

// Constraints.

func (c *SubtypeConstraint) Declare() string {
	var f declFields
	f.add("Set", c.Set.Declare())
	if c.Extensible {
		f.add("Extensible", "true")
	}
	return f.wrap("&asn1.SubtypeConstraint")
}

func (c *TableConstraint) Declare() string {
	var f declFields
	f.add("ObjectSet", c.ObjectSet.declareValue())
	if len(c.LinkedFields) > 0 {
		f.add("LinkedFields", declareSlice("RelationalConstraint", c.LinkedFields, RelationalConstraint.Declare))
	}
	return f.wrap("&asn1.TableConstraint")
}

func (r RelationalConstraint) Declare() string {
	var f declFields
	f.add("FieldName", fmt.Sprintf("%q", r.FieldName))
	if r.Level > 0 {
		f.add("Level", fmt.Sprintf("%d", r.Level))
	}
	return f.wrap("asn1.RelationalConstraint")
}

func (op *SetOperation) Declare() string {
	var f declFields
	f.add("Base", op.Base.Declare())
	f.add("Operator", "asn1."+titleCase(op.Operator.String()))
	f.add("Operand", op.Operand.Declare())
	return f.wrap("&asn1.SetOperation")
}

func (e *SingleValue) Declare() string {
	var f declFields
	f.add("Value", e.Value.Declare())
	if e.Extensible {
		f.add("Extensible", "true")
	}
	return f.wrap("&asn1.SingleValue")
}

func (e *ContainedSubtype) Declare() string {
	var f declFields
	f.add("Parent", e.Parent.Declare())
	if e.Extensible {
		f.add("Extensible", "true")
	}
	return f.wrap("&asn1.ContainedSubtype")
}

func (e *ValueRange) Declare() string {
	var f declFields
	if e.Min != nil {
		f.add("Min", e.Min.Declare())
	}
	if e.Max != nil {
		f.add("Max", e.Max.Declare())
	}
	if e.Extensible {
		f.add("Extensible", "true")
	}
	return f.wrap("&asn1.ValueRange")
}

func (e *SizeConstraint) Declare() string {
	var f declFields
	f.add("Inner", e.Inner.Declare())
	return f.wrap("&asn1.SizeConstraint")
}

func (e *SingleTypeConstraint) Declare() string {
	var f declFields
	f.add("Constraints", declareConstraints(e.Constraints))
	return f.wrap("&asn1.SingleTypeConstraint")
}

func (e *MultipleTypeConstraints) Declare() string {
	var f declFields
	if e.Partial {
		f.add("Partial", "true")
	}
	f.add("Components", declareSlice("ComponentConstraint", e.Components, ComponentConstraint.Declare))
	return f.wrap("&asn1.MultipleTypeConstraints")
}

func (c ComponentConstraint) Declare() string {
	var f declFields
	f.add("Name", fmt.Sprintf("%q", c.Name))
	if len(c.Constraints) > 0 {
		f.add("Constraints", declareConstraints(c.Constraints))
	}
	if c.Presence != PresenceUnspecified {
		switch c.Presence {
		case PresencePresent:
			f.add("Presence", "asn1.PresencePresent")
		case PresenceAbsent:
			f.add("Presence", "asn1.PresenceAbsent")
		}
	}
	return f.wrap("asn1.ComponentConstraint")
}

// Information objects.

func (c *ObjectClass) Declare() string {
	var f declFields
	f.add("Fields", declareSlice("ClassField", c.Fields, ClassField.Declare))
	if len(c.Syntax) > 0 {
		f.add("Syntax", declareSlice("SyntaxExpression", c.Syntax, SyntaxExpression.Declare))
	}
	return f.wrap("&asn1.ObjectClass")
}

func (c ClassField) Declare() string {
	var f declFields
	f.add("Identifier", c.Identifier.Declare())
	if c.Type != nil {
		f.add("Type", c.Type.Declare())
	}
	if c.Unique {
		f.add("Unique", "true")
	}
	if c.Optional {
		f.add("Optional", "true")
	}
	if c.Default != nil {
		f.add("Default", c.Default.Declare())
	}
	return f.wrap("asn1.ClassField")
}

func (o *InformationObject) Declare() string {
	var f declFields
	f.add("Fields", o.Fields.Declare())
	return f.wrap("&asn1.InformationObject")
}

func (s *ObjectSet) Declare() string {
	return "&" + s.declareValue()
}

// declareValue renders the set as a value literal for fields that
// embed an ObjectSet by value.
func (s *ObjectSet) declareValue() string {
	var f declFields
	if len(s.Values) > 0 {
		f.add("Values", declareSlice("ObjectSetValue", s.Values, ObjectSetValue.Declare))
	}
	if s.Extensible != nil {
		f.add("Extensible", declareIntPtr(s.Extensible))
	}
	return f.wrap("asn1.ObjectSet")
}

func (r *ObjectSetReference) Declare() string {
	return fmt.Sprintf("&asn1.ObjectSetReference{Name: %q}", r.Name)
}

func (o *InlineObject) Declare() string {
	var f declFields
	f.add("Fields", o.Fields.Declare())
	return f.wrap("&asn1.InlineObject")
}

func (d *DefaultSyntaxFields) Declare() string {
	var f declFields
	f.add("Settings", declareSlice("ObjectFieldSetting", d.Settings, ObjectFieldSetting.Declare))
	return f.wrap("&asn1.DefaultSyntaxFields")
}

func (c *CustomSyntaxFields) Declare() string {
	var f declFields
	f.add("Applications", declareSlice("SyntaxApplication", c.Applications, SyntaxApplication.Declare))
	return f.wrap("&asn1.CustomSyntaxFields")
}

func (s *TypeFieldSetting) Declare() string {
	var f declFields
	f.add("Identifier", s.Identifier.Declare())
	f.add("Type", s.Type.Declare())
	return f.wrap("&asn1.TypeFieldSetting")
}

func (s *ValueFieldSetting) Declare() string {
	var f declFields
	f.add("Identifier", s.Identifier.Declare())
	f.add("Value", s.Value.Declare())
	return f.wrap("&asn1.ValueFieldSetting")
}

func (s *ObjectSetFieldSetting) Declare() string {
	var f declFields
	f.add("Identifier", s.Identifier.Declare())
	f.add("Set", s.Set.declareValue())
	return f.wrap("&asn1.ObjectSetFieldSetting")
}

func (e *RequiredToken) Declare() string {
	var f declFields
	f.add("Token", e.Token.Declare())
	return f.wrap("&asn1.RequiredToken")
}

func (e *OptionalGroup) Declare() string {
	var f declFields
	f.add("Expressions", declareSlice("SyntaxExpression", e.Expressions, SyntaxExpression.Declare))
	return f.wrap("&asn1.OptionalGroup")
}

func (t *LiteralToken) Declare() string {
	return fmt.Sprintf("&asn1.LiteralToken{Literal: %q}", t.Literal)
}

func (*CommaToken) Declare() string { return "&asn1.CommaToken{}" }

func (t *FieldToken) Declare() string {
	var f declFields
	f.add("Field", t.Field.Declare())
	return f.wrap("&asn1.FieldToken")
}

func (a *LiteralApplication) Declare() string {
	return fmt.Sprintf("&asn1.LiteralApplication{Literal: %q}", a.Literal)
}

func (*CommaApplication) Declare() string { return "&asn1.CommaApplication{}" }

func (a *TypeApplication) Declare() string {
	var f declFields
	f.add("Type", a.Type.Declare())
	return f.wrap("&asn1.TypeApplication")
}

func (a *ValueApplication) Declare() string {
	var f declFields
	f.add("Value", a.Value.Declare())
	return f.wrap("&asn1.ValueApplication")
}

func (a *ObjectSetApplication) Declare() string {
	var f declFields
	f.add("Set", a.Set.declareValue())
	return f.wrap("&asn1.ObjectSetApplication")
}
