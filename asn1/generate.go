package asn1

import "strings"

// Backend renders linked declarations into a target language. One
// method per modeled variant; the Generate driver performs the
// dispatch once per declaration, so backends never need their own
// variant switches. The core does not assume which backend runs.
type Backend interface {
	Null(d *TypeDeclaration, t *Null) (string, error)
	Boolean(d *TypeDeclaration, t *Boolean) (string, error)
	Integer(d *TypeDeclaration, t *Integer) (string, error)
	BitString(d *TypeDeclaration, t *BitString) (string, error)
	OctetString(d *TypeDeclaration, t *OctetString) (string, error)
	CharacterString(d *TypeDeclaration, t *CharacterString) (string, error)
	Enumerated(d *TypeDeclaration, t *Enumerated) (string, error)
	Choice(d *TypeDeclaration, t *Choice) (string, error)
	Sequence(d *TypeDeclaration, t *Sequence) (string, error)
	SequenceOf(d *TypeDeclaration, t *SequenceOf) (string, error)
	TypeAlias(d *TypeDeclaration, t *ElsewhereDeclaredType) (string, error)
	Value(d *ValueDeclaration) (string, error)
	Class(d *InformationDeclaration, c *ObjectClass) (string, error)
	ObjectSet(d *InformationDeclaration, s *ObjectSet) (string, error)
}

// ConfigurableBackend is implemented by backends that want the
// passthrough options. Generate hands them over once, before any
// declaration is rendered.
type ConfigurableBackend interface {
	Backend
	Configure(GenerateOptions)
}

// GenerateOptions is passthrough configuration for backends. The core
// threads it through opaquely: Annotations is prepended to each
// rendered item by the driver, everything else is interpreted by the
// backend alone.
type GenerateOptions struct {
	// NoStdLib asks the backend to avoid its target's standard
	// library where it has a choice.
	NoStdLib bool

	// Annotations is an optional backend-specific annotation string
	// prepended to generated items.
	Annotations string
}

// Generate renders every declaration of a compiled module through the
// backend, in source order. Declarations the backend rejects are
// skipped and reported, matching the fail-soft batch behavior of the
// rest of the pipeline.
func Generate(b Backend, m *Module, opts GenerateOptions) (string, []Diagnostic) {
	if cb, ok := b.(ConfigurableBackend); ok {
		cb.Configure(opts)
	}

	var sb strings.Builder
	var diags []Diagnostic
	for _, d := range m.Declarations {
		out, err := generateDeclaration(b, d)
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity:    SeverityError,
				Code:        DiagUnpacking,
				Message:     err.Error(),
				Declaration: DeclarationName(d),
			})
			continue
		}
		if out == "" {
			continue
		}
		if opts.Annotations != "" {
			sb.WriteString(opts.Annotations)
			sb.WriteByte('\n')
		}
		sb.WriteString(out)
		sb.WriteByte('\n')
	}
	return sb.String(), diags
}

func generateDeclaration(b Backend, d TopLevelDeclaration) (string, error) {
	switch d := d.(type) {
	case *TypeDeclaration:
		switch t := d.Type.(type) {
		case *Null:
			return b.Null(d, t)
		case *Boolean:
			return b.Boolean(d, t)
		case *Integer:
			return b.Integer(d, t)
		case *BitString:
			return b.BitString(d, t)
		case *OctetString:
			return b.OctetString(d, t)
		case *CharacterString:
			return b.CharacterString(d, t)
		case *Enumerated:
			return b.Enumerated(d, t)
		case *Choice:
			return b.Choice(d, t)
		case *Sequence:
			return b.Sequence(d, t)
		case *SequenceOf:
			return b.SequenceOf(d, t)
		case *ElsewhereDeclaredType:
			return b.TypeAlias(d, t)
		default:
			// InformationObjectFieldReference types should have been
			// replaced by the linker; leaving one here means its
			// class could not be resolved.
			return "", nil
		}
	case *ValueDeclaration:
		return b.Value(d)
	case *InformationDeclaration:
		switch v := d.Value.(type) {
		case *ObjectClass:
			return b.Class(d, v)
		case *ObjectSet:
			return b.ObjectSet(d, v)
		default:
			// Single object instances inform linking only.
			return "", nil
		}
	default:
		return "", nil
	}
}
