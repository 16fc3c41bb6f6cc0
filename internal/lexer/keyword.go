package lexer

import "sort"

// keywords is the sorted keyword table for binary search.
// IMPORTANT: This slice MUST remain sorted alphabetically by text.
// ASCII byte order: uppercase letters (A-Z: 65-90) come before
// lowercase letters (a-z: 97-122), so 'NULL' sorts before 'NumericString'
// and 'UTF8String' before 'UniversalString'.
var keywords = []struct {
	text string
	kind TokenKind
}{
	{"ABSENT", TokKwAbsent},
	{"ALL", TokKwAll},
	{"AUTOMATIC", TokKwAutomatic},
	{"BEGIN", TokKwBegin},
	{"BIT", TokKwBit},
	{"BMPString", TokKwBMPString},
	{"BOOLEAN", TokKwBoolean},
	{"CHOICE", TokKwChoice},
	{"CLASS", TokKwClass},
	{"COMPONENT", TokKwComponent},
	{"COMPONENTS", TokKwComponents},
	{"DEFAULT", TokKwDefault},
	{"DEFINITIONS", TokKwDefinitions},
	{"END", TokKwEnd},
	{"ENUMERATED", TokKwEnumerated},
	{"EXCEPT", TokKwExcept},
	{"EXPLICIT", TokKwExplicit},
	{"EXPORTS", TokKwExports},
	{"EXTENSIBILITY", TokKwExtensibility},
	{"FALSE", TokKwFalse},
	{"FROM", TokKwFrom},
	{"GeneralString", TokKwGeneralString},
	{"GraphicString", TokKwGraphicString},
	{"IA5String", TokKwIA5String},
	{"IDENTIFIER", TokKwIdentifier},
	{"IMPLICIT", TokKwImplicit},
	{"IMPLIED", TokKwImplied},
	{"IMPORTS", TokKwImports},
	{"INCLUDES", TokKwIncludes},
	{"INTEGER", TokKwInteger},
	{"INTERSECTION", TokKwIntersection},
	{"MAX", TokKwMax},
	{"MIN", TokKwMin},
	{"NULL", TokKwNull},
	{"NumericString", TokKwNumericString},
	{"OBJECT", TokKwObject},
	{"OCTET", TokKwOctet},
	{"OF", TokKwOf},
	{"OPTIONAL", TokKwOptional},
	{"PRESENT", TokKwPresent},
	{"PrintableString", TokKwPrintableString},
	{"SEQUENCE", TokKwSequence},
	{"SIZE", TokKwSize},
	{"STRING", TokKwString},
	{"SYNTAX", TokKwSyntax},
	{"TAGS", TokKwTags},
	{"TRUE", TokKwTrue},
	{"TeletexString", TokKwTeletexString},
	{"UNION", TokKwUnion},
	{"UNIQUE", TokKwUnique},
	{"UTF8String", TokKwUTF8String},
	{"UniversalString", TokKwUniversalString},
	{"VideotexString", TokKwVideotexString},
	{"VisibleString", TokKwVisibleString},
	{"WITH", TokKwWith},
}

// LookupKeyword returns the TokenKind for a keyword, or (TokError, false) if not found.
func LookupKeyword(text string) (TokenKind, bool) {
	idx := sort.Search(len(keywords), func(i int) bool {
		return keywords[i].text >= text
	})
	if idx < len(keywords) && keywords[idx].text == text {
		return keywords[idx].kind, true
	}
	return TokError, false
}
