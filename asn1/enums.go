package asn1

import "fmt"

// Severity levels for diagnostics. Lower values are more severe.
type Severity int

const (
	SeverityFatal   Severity = 0 // Cannot continue compiling
	SeveritySevere  Severity = 1 // Semantics changed to continue, must correct
	SeverityError   Severity = 2 // Able to continue, should correct
	SeverityMinor   Severity = 3 // Minor issue, should correct
	SeverityStyle   Severity = 4 // Style recommendation
	SeverityWarning Severity = 5 // Might be correct under some circumstances
	SeverityInfo    Severity = 6 // Informational notice
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityStyle:
		return "style"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// StrictnessLevel defines preset strictness configurations.
type StrictnessLevel int

const (
	StrictnessStrict     StrictnessLevel = 0 // Standard-only, reject suspect notation
	StrictnessNormal     StrictnessLevel = 3 // Default, warn on issues
	StrictnessPermissive StrictnessLevel = 5 // Accept most real-world specification text
	StrictnessSilent     StrictnessLevel = 6 // Accept everything, minimal output
)

func (l StrictnessLevel) String() string {
	switch l {
	case StrictnessStrict:
		return "strict"
	case StrictnessNormal:
		return "normal"
	case StrictnessPermissive:
		return "permissive"
	case StrictnessSilent:
		return "silent"
	default:
		return fmt.Sprintf("StrictnessLevel(%d)", l)
	}
}

// TaggingEnvironment is the default tagging declared in a module header.
type TaggingEnvironment int

const (
	TaggingExplicit TaggingEnvironment = iota
	TaggingImplicit
	TaggingAutomatic
)

func (t TaggingEnvironment) String() string {
	switch t {
	case TaggingExplicit:
		return "EXPLICIT"
	case TaggingImplicit:
		return "IMPLICIT"
	case TaggingAutomatic:
		return "AUTOMATIC"
	default:
		return fmt.Sprintf("TaggingEnvironment(%d)", t)
	}
}

// CharacterStringVariant identifies which restricted character string
// type a CharacterString models.
type CharacterStringVariant int

const (
	UTF8String CharacterStringVariant = iota
	IA5String
	NumericString
	PrintableString
	VisibleString
	BMPString
	GeneralString
	GraphicString
	TeletexString
	VideotexString
	UniversalString
)

func (v CharacterStringVariant) String() string {
	switch v {
	case UTF8String:
		return "UTF8String"
	case IA5String:
		return "IA5String"
	case NumericString:
		return "NumericString"
	case PrintableString:
		return "PrintableString"
	case VisibleString:
		return "VisibleString"
	case BMPString:
		return "BMPString"
	case GeneralString:
		return "GeneralString"
	case GraphicString:
		return "GraphicString"
	case TeletexString:
		return "TeletexString"
	case VideotexString:
		return "VideotexString"
	case UniversalString:
		return "UniversalString"
	default:
		return fmt.Sprintf("CharacterStringVariant(%d)", v)
	}
}

// SetOperator combines constraint elements in an element set.
type SetOperator int

const (
	Intersection SetOperator = iota // ^ or INTERSECTION
	Union                           // | or UNION
	Except                          // EXCEPT
)

func (o SetOperator) String() string {
	switch o {
	case Intersection:
		return "INTERSECTION"
	case Union:
		return "UNION"
	case Except:
		return "EXCEPT"
	default:
		return fmt.Sprintf("SetOperator(%d)", o)
	}
}

// Presence constrains a component in a WITH COMPONENTS clause.
type Presence int

const (
	PresenceUnspecified Presence = iota
	PresencePresent
	PresenceAbsent
)

func (p Presence) String() string {
	switch p {
	case PresenceUnspecified:
		return "unspecified"
	case PresencePresent:
		return "PRESENT"
	case PresenceAbsent:
		return "ABSENT"
	default:
		return fmt.Sprintf("Presence(%d)", p)
	}
}
