// Package lexer provides tokenization for ASN.1 module text.
package lexer

import (
	"github.com/6d7a/asnr-sub000/internal/types"
)

// Token is a token with kind and source span.
type Token struct {
	Kind TokenKind
	Span types.Span
}

// NewToken creates a new token.
func NewToken(kind TokenKind, span types.Span) Token {
	return Token{Kind: kind, Span: span}
}

// TokenKind identifies a token type.
//
//go:generate stringer -type=TokenKind
type TokenKind int

const (
	// === Special ===

	// TokError is a lexical error.
	TokError TokenKind = iota
	// TokEOF is end of input.
	TokEOF

	// === Identifiers ===

	// TokUppercaseIdent is a typereference (module names, type names, class names).
	TokUppercaseIdent
	// TokLowercaseIdent is an identifier (value names, member names, enumeral labels).
	TokLowercaseIdent
	// TokAmpUppercaseIdent is a type field reference ('&Type').
	TokAmpUppercaseIdent
	// TokAmpLowercaseIdent is a value or object field reference ('&id').
	TokAmpLowercaseIdent

	// === Literals ===

	// TokNumber is an unsigned decimal number.
	TokNumber
	// TokNegativeNumber is a signed decimal number (negative).
	TokNegativeNumber
	// TokQuotedString is a quoted string literal (cstring).
	TokQuotedString
	// TokHexString is a hex string literal ('...'H).
	TokHexString
	// TokBinString is a binary string literal ('...'B).
	TokBinString

	// === Single-character punctuation ===

	// TokLBracket is '['.
	TokLBracket
	// TokRBracket is ']'.
	TokRBracket
	// TokLBrace is '{'.
	TokLBrace
	// TokRBrace is '}'.
	TokRBrace
	// TokLParen is '('.
	TokLParen
	// TokRParen is ')'.
	TokRParen
	// TokColon is ':'.
	TokColon
	// TokSemicolon is ';'.
	TokSemicolon
	// TokComma is ','.
	TokComma
	// TokDot is '.'.
	TokDot
	// TokPipe is '|' (union).
	TokPipe
	// TokCaret is '^' (intersection).
	TokCaret
	// TokAt is '@' (component relation in table constraints).
	TokAt
	// TokExclamation is '!' (exception spec).
	TokExclamation
	// TokMinus is '-'.
	TokMinus

	// === Multi-character operators ===

	// TokDotDot is '..'.
	TokDotDot
	// TokEllipsis is '...' (extension marker).
	TokEllipsis
	// TokColonColonEqual is '::='.
	TokColonColonEqual
	// TokLDoubleBracket is '[[' (version bracket).
	TokLDoubleBracket
	// TokRDoubleBracket is ']]' (version bracket).
	TokRDoubleBracket

	// === Structural keywords ===

	// TokKwDefinitions is 'DEFINITIONS'.
	TokKwDefinitions
	// TokKwBegin is 'BEGIN'.
	TokKwBegin
	// TokKwEnd is 'END'.
	TokKwEnd
	// TokKwImports is 'IMPORTS'.
	TokKwImports
	// TokKwExports is 'EXPORTS'.
	TokKwExports
	// TokKwFrom is 'FROM'.
	TokKwFrom
	// TokKwAutomatic is 'AUTOMATIC'.
	TokKwAutomatic
	// TokKwExplicit is 'EXPLICIT'.
	TokKwExplicit
	// TokKwImplicit is 'IMPLICIT'.
	TokKwImplicit
	// TokKwTags is 'TAGS'.
	TokKwTags
	// TokKwExtensibility is 'EXTENSIBILITY'.
	TokKwExtensibility
	// TokKwImplied is 'IMPLIED'.
	TokKwImplied
	// TokKwObject is 'OBJECT'.
	TokKwObject
	// TokKwIdentifier is 'IDENTIFIER'.
	TokKwIdentifier

	// === Type keywords ===

	// TokKwBoolean is 'BOOLEAN'.
	TokKwBoolean
	// TokKwInteger is 'INTEGER'.
	TokKwInteger
	// TokKwBit is 'BIT'.
	TokKwBit
	// TokKwOctet is 'OCTET'.
	TokKwOctet
	// TokKwString is 'STRING'.
	TokKwString
	// TokKwNull is 'NULL'.
	TokKwNull
	// TokKwSequence is 'SEQUENCE'.
	TokKwSequence
	// TokKwOf is 'OF'.
	TokKwOf
	// TokKwChoice is 'CHOICE'.
	TokKwChoice
	// TokKwEnumerated is 'ENUMERATED'.
	TokKwEnumerated
	// TokKwClass is 'CLASS'.
	TokKwClass

	// === Character string type keywords ===

	// TokKwBMPString is 'BMPString'.
	TokKwBMPString
	// TokKwGeneralString is 'GeneralString'.
	TokKwGeneralString
	// TokKwGraphicString is 'GraphicString'.
	TokKwGraphicString
	// TokKwIA5String is 'IA5String'.
	TokKwIA5String
	// TokKwNumericString is 'NumericString'.
	TokKwNumericString
	// TokKwPrintableString is 'PrintableString'.
	TokKwPrintableString
	// TokKwTeletexString is 'TeletexString'.
	TokKwTeletexString
	// TokKwUTF8String is 'UTF8String'.
	TokKwUTF8String
	// TokKwUniversalString is 'UniversalString'.
	TokKwUniversalString
	// TokKwVideotexString is 'VideotexString'.
	TokKwVideotexString
	// TokKwVisibleString is 'VisibleString'.
	TokKwVisibleString

	// === Constraint keywords ===

	// TokKwSize is 'SIZE'.
	TokKwSize
	// TokKwIncludes is 'INCLUDES'.
	TokKwIncludes
	// TokKwMin is 'MIN'.
	TokKwMin
	// TokKwMax is 'MAX'.
	TokKwMax
	// TokKwUnion is 'UNION'.
	TokKwUnion
	// TokKwIntersection is 'INTERSECTION'.
	TokKwIntersection
	// TokKwExcept is 'EXCEPT'.
	TokKwExcept
	// TokKwWith is 'WITH'.
	TokKwWith
	// TokKwComponent is 'COMPONENT'.
	TokKwComponent
	// TokKwComponents is 'COMPONENTS'.
	TokKwComponents
	// TokKwPresent is 'PRESENT'.
	TokKwPresent
	// TokKwAbsent is 'ABSENT'.
	TokKwAbsent
	// TokKwOptional is 'OPTIONAL'.
	TokKwOptional
	// TokKwDefault is 'DEFAULT'.
	TokKwDefault

	// === Information object class keywords ===

	// TokKwUnique is 'UNIQUE'.
	TokKwUnique
	// TokKwSyntax is 'SYNTAX'.
	TokKwSyntax

	// === Value keywords ===

	// TokKwTrue is 'TRUE'.
	TokKwTrue
	// TokKwFalse is 'FALSE'.
	TokKwFalse
	// TokKwAll is 'ALL'.
	TokKwAll
)

// Name returns a human-readable name for this token kind,
// used in parse error messages.
func (k TokenKind) Name() string {
	switch k {
	case TokError:
		return "invalid token"
	case TokEOF:
		return "end of input"
	case TokUppercaseIdent:
		return "typereference"
	case TokLowercaseIdent:
		return "identifier"
	case TokAmpUppercaseIdent:
		return "type field reference"
	case TokAmpLowercaseIdent:
		return "value field reference"
	case TokNumber:
		return "number"
	case TokNegativeNumber:
		return "negative number"
	case TokQuotedString:
		return "cstring"
	case TokHexString:
		return "hstring"
	case TokBinString:
		return "bstring"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokColon:
		return "':'"
	case TokSemicolon:
		return "';'"
	case TokComma:
		return "','"
	case TokDot:
		return "'.'"
	case TokPipe:
		return "'|'"
	case TokCaret:
		return "'^'"
	case TokAt:
		return "'@'"
	case TokExclamation:
		return "'!'"
	case TokMinus:
		return "'-'"
	case TokDotDot:
		return "'..'"
	case TokEllipsis:
		return "'...'"
	case TokColonColonEqual:
		return "'::='"
	case TokLDoubleBracket:
		return "'[['"
	case TokRDoubleBracket:
		return "']]'"
	case TokKwDefinitions:
		return "DEFINITIONS"
	case TokKwBegin:
		return "BEGIN"
	case TokKwEnd:
		return "END"
	case TokKwImports:
		return "IMPORTS"
	case TokKwExports:
		return "EXPORTS"
	case TokKwFrom:
		return "FROM"
	case TokKwAutomatic:
		return "AUTOMATIC"
	case TokKwExplicit:
		return "EXPLICIT"
	case TokKwImplicit:
		return "IMPLICIT"
	case TokKwTags:
		return "TAGS"
	case TokKwExtensibility:
		return "EXTENSIBILITY"
	case TokKwImplied:
		return "IMPLIED"
	case TokKwObject:
		return "OBJECT"
	case TokKwIdentifier:
		return "IDENTIFIER"
	case TokKwBoolean:
		return "BOOLEAN"
	case TokKwInteger:
		return "INTEGER"
	case TokKwBit:
		return "BIT"
	case TokKwOctet:
		return "OCTET"
	case TokKwString:
		return "STRING"
	case TokKwNull:
		return "NULL"
	case TokKwSequence:
		return "SEQUENCE"
	case TokKwOf:
		return "OF"
	case TokKwChoice:
		return "CHOICE"
	case TokKwEnumerated:
		return "ENUMERATED"
	case TokKwClass:
		return "CLASS"
	case TokKwBMPString:
		return "BMPString"
	case TokKwGeneralString:
		return "GeneralString"
	case TokKwGraphicString:
		return "GraphicString"
	case TokKwIA5String:
		return "IA5String"
	case TokKwNumericString:
		return "NumericString"
	case TokKwPrintableString:
		return "PrintableString"
	case TokKwTeletexString:
		return "TeletexString"
	case TokKwUTF8String:
		return "UTF8String"
	case TokKwUniversalString:
		return "UniversalString"
	case TokKwVideotexString:
		return "VideotexString"
	case TokKwVisibleString:
		return "VisibleString"
	case TokKwSize:
		return "SIZE"
	case TokKwIncludes:
		return "INCLUDES"
	case TokKwMin:
		return "MIN"
	case TokKwMax:
		return "MAX"
	case TokKwUnion:
		return "UNION"
	case TokKwIntersection:
		return "INTERSECTION"
	case TokKwExcept:
		return "EXCEPT"
	case TokKwWith:
		return "WITH"
	case TokKwComponent:
		return "COMPONENT"
	case TokKwComponents:
		return "COMPONENTS"
	case TokKwPresent:
		return "PRESENT"
	case TokKwAbsent:
		return "ABSENT"
	case TokKwOptional:
		return "OPTIONAL"
	case TokKwDefault:
		return "DEFAULT"
	case TokKwUnique:
		return "UNIQUE"
	case TokKwSyntax:
		return "SYNTAX"
	case TokKwTrue:
		return "TRUE"
	case TokKwFalse:
		return "FALSE"
	case TokKwAll:
		return "ALL"
	default:
		return "unknown"
	}
}

// IsKeyword returns true if this token is a keyword.
func (k TokenKind) IsKeyword() bool {
	return k >= TokKwDefinitions && k <= TokKwAll
}

// IsTypeKeyword returns true if this token can begin a built-in type.
func (k TokenKind) IsTypeKeyword() bool {
	switch k {
	case TokKwBoolean, TokKwInteger, TokKwBit, TokKwOctet, TokKwNull,
		TokKwSequence, TokKwChoice, TokKwEnumerated, TokKwClass, TokKwObject:
		return true
	default:
		return k.IsCharacterStringKeyword()
	}
}

// IsCharacterStringKeyword returns true if this token is a restricted
// character string type keyword.
func (k TokenKind) IsCharacterStringKeyword() bool {
	switch k {
	case TokKwBMPString, TokKwGeneralString, TokKwGraphicString,
		TokKwIA5String, TokKwNumericString, TokKwPrintableString,
		TokKwTeletexString, TokKwUTF8String, TokKwUniversalString,
		TokKwVideotexString, TokKwVisibleString:
		return true
	default:
		return false
	}
}
