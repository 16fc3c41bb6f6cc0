package linker

import (
	"errors"
	"fmt"

	"github.com/6d7a/asnr-sub000/asn1"
)

// syntaxItem decodes an object body written in a class's custom syntax
// into canonical field settings.
type syntaxItem struct {
	decl  string
	class string
	slot  *asn1.InformationObjectFields
}

func (it *syntaxItem) declaration() string { return it.decl }

func (it *syntaxItem) attempt(ctx *linkContext) itemOutcome {
	custom, ok := (*it.slot).(*asn1.CustomSyntaxFields)
	if !ok {
		return resolvedOutcome()
	}
	class, ok := ctx.lookupClass(it.class)
	if !ok {
		return failedOutcome(asn1.DiagMissingClassLink,
			fmt.Sprintf("object of unknown information object class %s", it.class))
	}
	if len(class.Syntax) == 0 {
		return failedOutcome(asn1.DiagMissingCustomSyntax,
			fmt.Sprintf("object body uses custom syntax but class %s declares none", it.class))
	}
	settings, err := decodeSyntax(class.Syntax, custom.Applications)
	if err != nil {
		return failedOutcome(asn1.DiagSyntaxMismatch,
			fmt.Sprintf("object body does not match the syntax of class %s: %v", it.class, err))
	}
	fields := &asn1.DefaultSyntaxFields{Settings: settings}
	*it.slot = fields

	// The decoded settings may carry unresolved references of their
	// own; hand them back to the worklist.
	var col collector
	col.walkSettings(it.decl, fields.Settings)
	return resolvedOutcome(col.items()...)
}

var errSkipGroup = errors.New("optional group does not apply")

// decodeSyntax matches the applications of an object body against the
// class's syntax specification, producing one field setting per field
// token consumed.
func decodeSyntax(spec []asn1.SyntaxExpression, apps []asn1.SyntaxApplication) ([]asn1.ObjectFieldSetting, error) {
	m := &syntaxMatcher{apps: apps}
	settings, err := m.matchExpressions(spec, false)
	if err != nil {
		return nil, err
	}
	if m.pos < len(m.apps) {
		return nil, fmt.Errorf("%d trailing tokens after the last syntax element", len(m.apps)-m.pos)
	}
	return settings, nil
}

type syntaxMatcher struct {
	apps []asn1.SyntaxApplication
	pos  int
}

func (m *syntaxMatcher) peek() asn1.SyntaxApplication {
	if m.pos >= len(m.apps) {
		return nil
	}
	return m.apps[m.pos]
}

// matchExpressions matches a run of syntax expressions. In optional
// mode the first token decides: if it does not match, the whole group
// is skipped without error. Nothing is consumed on a failed match, so
// the decision is safe to take.
func (m *syntaxMatcher) matchExpressions(exprs []asn1.SyntaxExpression, optional bool) ([]asn1.ObjectFieldSetting, error) {
	var settings []asn1.ObjectFieldSetting
	for i, expr := range exprs {
		switch expr := expr.(type) {
		case *asn1.RequiredToken:
			setting, err := m.matchToken(expr.Token)
			if err != nil {
				if optional && i == 0 {
					return nil, errSkipGroup
				}
				return nil, err
			}
			if setting != nil {
				settings = append(settings, setting)
			}
		case *asn1.OptionalGroup:
			inner, err := m.matchExpressions(expr.Expressions, true)
			if errors.Is(err, errSkipGroup) {
				continue
			}
			if err != nil {
				return nil, err
			}
			settings = append(settings, inner...)
		}
	}
	return settings, nil
}

func (m *syntaxMatcher) matchToken(tok asn1.SyntaxToken) (asn1.ObjectFieldSetting, error) {
	switch tok := tok.(type) {
	case *asn1.LiteralToken:
		app, ok := m.peek().(*asn1.LiteralApplication)
		if !ok || app.Literal != tok.Literal {
			return nil, fmt.Errorf("expected literal %s", tok.Literal)
		}
		m.pos++
		return nil, nil
	case *asn1.CommaToken:
		if _, ok := m.peek().(*asn1.CommaApplication); !ok {
			return nil, errors.New("expected a comma")
		}
		m.pos++
		return nil, nil
	case *asn1.FieldToken:
		return m.matchField(tok.Field)
	default:
		return nil, errors.New("unsupported syntax token")
	}
}

func (m *syntaxMatcher) matchField(field asn1.ObjectFieldIdentifier) (asn1.ObjectFieldSetting, error) {
	switch app := m.peek().(type) {
	case *asn1.TypeApplication:
		if !field.TypeField {
			return nil, fmt.Errorf("field &%s takes a value, found a type", field.Name)
		}
		m.pos++
		return &asn1.TypeFieldSetting{Identifier: field, Type: app.Type}, nil
	case *asn1.ValueApplication:
		if field.TypeField {
			return nil, fmt.Errorf("field &%s takes a type, found a value", field.Name)
		}
		m.pos++
		return &asn1.ValueFieldSetting{Identifier: field, Value: app.Value}, nil
	case *asn1.ObjectSetApplication:
		m.pos++
		return &asn1.ObjectSetFieldSetting{Identifier: field, Set: app.Set}, nil
	case *asn1.LiteralApplication:
		// A bare type reference in an object body lexes as a literal
		// when it contains no lowercase letter; accept it for type
		// fields.
		if field.TypeField {
			m.pos++
			return &asn1.TypeFieldSetting{Identifier: field, Type: &asn1.ElsewhereDeclaredType{Identifier: app.Literal}}, nil
		}
		return nil, fmt.Errorf("field &%s takes a value, found literal %s", field.Name, app.Literal)
	default:
		return nil, fmt.Errorf("object body ends before field &%s", field.Name)
	}
}
