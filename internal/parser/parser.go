// Package parser turns ASN.1 module text into asn1 model declarations.
//
// The parser tokenizes its input up front and dispatches on fixed
// lookahead. Where the grammar is ambiguous at the top level, the
// interpretations are tried in a fixed order (type assignment,
// information assignment, value assignment) and a failed
// interpretation consumes no input. Parse errors are collected as
// diagnostics rather than causing immediate failure; recovery skips to
// the next declaration or module.
//
// Comments are consumed by the lexer and may appear anywhere between
// tokens, including inside constraint expressions. Comments between
// declarations attach to the following declaration; a trailing comment
// on a declaration's final line belongs to that declaration.
package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/lexer"
	"github.com/6d7a/asnr-sub000/internal/types"
)

// ModuleUnit is the parse result for one DEFINITIONS envelope: its
// header, its top-level declarations in source order, and the byte
// span it covers. Sources transcribed without an envelope produce a
// unit with a synthetic header.
type ModuleUnit struct {
	Header       *asn1.ModuleHeader
	Declarations []asn1.TopLevelDeclaration
	Span         types.Span
}

// Parser converts ASN.1 source text into asn1 model declarations.
type Parser struct {
	source         []byte
	tokens         []lexer.Token
	pos            int
	comments       []types.Span
	nextComment    int
	lexDiagnostics []types.Diagnostic
	diagnostics    []types.Diagnostic
	eofToken       lexer.Token
	types.Logger
}

// New returns a Parser over the given source. Pass nil for logger to
// disable logging. The source is tokenized up front: a failed
// interpretation must leave the token cursor where it found it, and a
// fixed lookahead window cannot be rewound.
func New(source []byte, logger *slog.Logger) *Parser {
	var lexLogger *slog.Logger
	if logger != nil {
		lexLogger = logger.With(slog.String("component", "lexer"))
	}
	lex := lexer.New(source, lexLogger)
	tokens, lexDiags := lex.Tokenize()
	eofSpan := types.NewSpan(types.ByteOffset(len(source)), types.ByteOffset(len(source)))
	p := &Parser{
		source:         source,
		tokens:         tokens,
		comments:       lex.Comments(),
		lexDiagnostics: lexDiags,
		eofToken:       lexer.NewToken(lexer.TokEOF, eofSpan),
		Logger:         types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized", slog.Int("tokens", len(tokens)))
	return p
}

// Parse parses the source: every DEFINITIONS envelope it contains, or
// a bare declaration list when no envelope is present. Specification
// extracts are routinely transcribed without their module header.
func (p *Parser) Parse() ([]*ModuleUnit, []types.Diagnostic) {
	var units []*ModuleUnit
	for !p.isEOF() {
		var unit *ModuleUnit
		if p.atModuleHeader() {
			unit = p.parseEnvelopedModule()
		} else {
			unit = p.parseBareDeclarations()
		}
		if unit != nil {
			units = append(units, unit)
		}
	}

	diags := append(slices.Clone(p.lexDiagnostics), p.diagnostics...)
	p.Log(slog.LevelDebug, "parsing complete",
		slog.Int("modules", len(units)),
		slog.Int("diagnostics", len(diags)))
	return units, diags
}

// atModuleHeader reports whether the cursor sits at a DEFINITIONS
// envelope: a module name followed by DEFINITIONS or by the opening
// brace of its object identifier.
func (p *Parser) atModuleHeader() bool {
	if !p.check(lexer.TokUppercaseIdent) {
		return false
	}
	next := p.peekNth(1).Kind
	return next == lexer.TokKwDefinitions || next == lexer.TokLBrace
}

func (p *Parser) parseEnvelopedModule() *ModuleUnit {
	start := p.currentSpan().Start

	header, err := p.parseModuleHeader()
	if err != nil {
		p.recordParseError(*err)
		p.Log(slog.LevelDebug, "failed to parse module header")
		p.recoverToModuleHeader()
		return nil
	}

	p.Log(slog.LevelDebug, "parsing module", slog.String("module", header.Name))

	unit := &ModuleUnit{Header: header}
	for !p.check(lexer.TokKwEnd) && !p.isEOF() {
		decl, err := p.parseDeclaration()
		if err != nil {
			p.recordParseError(*err)
			p.advance() // move off the declaration that failed
			p.recoverToDeclaration()
		} else {
			unit.Declarations = append(unit.Declarations, decl)
		}
		p.finishDeclaration(p.previousEnd())
	}

	if p.check(lexer.TokKwEnd) {
		endToken := p.advance()
		unit.Span = types.NewSpan(start, endToken.Span.End)
	} else {
		p.recordParseError(p.makeError("expected END"))
		unit.Span = types.NewSpan(start, p.currentSpan().End)
	}

	p.Log(slog.LevelDebug, "module parsed",
		slog.String("module", header.Name),
		slog.Int("declarations", len(unit.Declarations)))
	return unit
}

// parseBareDeclarations parses declarations up to the next module
// header or end of input. Bare extracts default to automatic tagging.
func (p *Parser) parseBareDeclarations() *ModuleUnit {
	start := p.currentSpan().Start
	unit := &ModuleUnit{Header: &asn1.ModuleHeader{Tagging: asn1.TaggingAutomatic}}

	for !p.isEOF() && !p.atModuleHeader() {
		decl, err := p.parseDeclaration()
		if err != nil {
			p.recordParseError(*err)
			p.advance()
			p.recoverToDeclaration()
		} else {
			unit.Declarations = append(unit.Declarations, decl)
		}
		p.finishDeclaration(p.previousEnd())
	}

	unit.Span = types.NewSpan(start, p.previousEnd())
	p.Log(slog.LevelDebug, "bare declarations parsed",
		slog.Int("declarations", len(unit.Declarations)))
	return unit
}

func (p *Parser) isEOF() bool {
	return p.peek().Kind == lexer.TokEOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.eofToken
}

func (p *Parser) peekNth(n int) lexer.Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.eofToken
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

// mark and reset implement backtracking. A sub-parse that fails resets
// the cursor to its mark, so the caller sees no tokens consumed.
func (p *Parser) mark() int {
	return p.pos
}

func (p *Parser) reset(mark int) {
	p.pos = mark
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, *types.Diagnostic) {
	if p.check(kind) {
		return p.advance(), nil
	}
	diag := p.makeError(fmt.Sprintf("expected %s", kind.Name()))
	return lexer.Token{}, &diag
}

func (p *Parser) currentSpan() types.Span {
	return p.peek().Span
}

// previousEnd returns the end offset of the last consumed token.
func (p *Parser) previousEnd() types.ByteOffset {
	if p.pos == 0 {
		return 0
	}
	return p.tokens[p.pos-1].Span.End
}

func (p *Parser) text(span types.Span) string {
	return string(p.source[span.Start:span.End])
}

// recordParseError appends a structural parse error unconditionally.
// Parse errors bypass strictness filtering because they indicate a
// syntax problem that must be reported at any level.
func (p *Parser) recordParseError(diag types.Diagnostic) {
	p.diagnostics = append(p.diagnostics, diag)
}

func (p *Parser) makeError(message string) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SeverityError,
		Span:     p.currentSpan(),
		Message:  fmt.Sprintf("%s, found %s", message, p.describeCurrent()),
	}
}

func errorAt(span types.Span, message string) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SeverityError,
		Span:     span,
		Message:  message,
	}
}

// describeCurrent renders the current token for error messages.
func (p *Parser) describeCurrent() string {
	tok := p.peek()
	if tok.Kind == lexer.TokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", p.text(tok.Span))
}

func (p *Parser) parseI64(span types.Span) (int64, *types.Diagnostic) {
	v, err := strconv.ParseInt(p.text(span), 10, 64)
	if err != nil {
		diag := errorAt(span, fmt.Sprintf("number %q does not fit in 64 bits", p.text(span)))
		return 0, &diag
	}
	return v, nil
}

// takeComments returns the text of all pending comments that end at or
// before offset. Delimiters are stripped and multiple comments joined
// by newlines.
func (p *Parser) takeComments(offset types.ByteOffset) string {
	var parts []string
	for p.nextComment < len(p.comments) && p.comments[p.nextComment].End <= offset {
		parts = append(parts, p.commentText(p.comments[p.nextComment]))
		p.nextComment++
	}
	return strings.Join(parts, "\n")
}

func (p *Parser) commentText(span types.Span) string {
	text := p.text(span)
	switch {
	case strings.HasPrefix(text, "--"):
		text = strings.TrimPrefix(text, "--")
		text = strings.TrimSuffix(text, "--")
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	}
	return strings.TrimSpace(text)
}

// finishDeclaration drops comments the declaration ending at end has
// consumed: comments inside its span and trailing remarks on its final
// line. Comments on later lines stay pending and attach to the next
// declaration.
func (p *Parser) finishDeclaration(end types.ByteOffset) {
	for p.nextComment < len(p.comments) {
		span := p.comments[p.nextComment]
		if span.Start < end {
			p.nextComment++
			continue
		}
		if bytes.IndexByte(p.source[end:span.Start], '\n') >= 0 {
			return
		}
		p.nextComment++
		end = span.End
	}
}

// memberDescription claims trailing comments on the same line as a
// member that ended at end, returning their text.
func (p *Parser) memberDescription(end types.ByteOffset) string {
	var parts []string
	for p.nextComment < len(p.comments) {
		span := p.comments[p.nextComment]
		if span.Start < end {
			p.nextComment++
			continue
		}
		if bytes.IndexByte(p.source[end:span.Start], '\n') >= 0 {
			break
		}
		parts = append(parts, p.commentText(span))
		p.nextComment++
		end = span.End
	}
	return strings.Join(parts, " ")
}

// recoverToModuleHeader skips tokens until the start of a plausible
// module header, so later modules in the same source still parse.
func (p *Parser) recoverToModuleHeader() {
	for !p.isEOF() {
		if p.atModuleHeader() {
			return
		}
		p.advance()
	}
}

// recoverToDeclaration skips tokens until a plausible declaration
// start: a name followed within two tokens by '::='. Stops at END or a
// module header so the enclosing structure still closes.
func (p *Parser) recoverToDeclaration() {
	for !p.isEOF() && !p.check(lexer.TokKwEnd) && !p.atModuleHeader() {
		kind := p.peek().Kind
		if kind == lexer.TokUppercaseIdent || kind == lexer.TokLowercaseIdent {
			next := p.peekNth(1).Kind
			if next == lexer.TokColonColonEqual {
				return
			}
			if (next == lexer.TokUppercaseIdent || next.IsTypeKeyword()) &&
				p.peekNth(2).Kind == lexer.TokColonColonEqual {
				return
			}
		}
		p.advance()
	}
}

// parseModuleHeader parses one DEFINITIONS envelope header:
//
//	ModuleName [{ arc... }] DEFINITIONS [AUTOMATIC|EXPLICIT|IMPLICIT TAGS]
//	    [EXTENSIBILITY IMPLIED] ::= BEGIN [EXPORTS ...;] [IMPORTS ...;]
//
// Without a TAGS clause the tagging environment is explicit.
func (p *Parser) parseModuleHeader() (*asn1.ModuleHeader, *types.Diagnostic) {
	nameToken, err := p.expect(lexer.TokUppercaseIdent)
	if err != nil {
		return nil, err
	}
	// file banner comments are not declaration comments
	p.takeComments(nameToken.Span.Start)

	header := &asn1.ModuleHeader{Name: p.text(nameToken.Span)}

	if p.check(lexer.TokLBrace) {
		arcs, err := p.parseObjectIdentifierArcs()
		if err != nil {
			return nil, err
		}
		header.ModuleIdentifier = arcs
	}

	if _, err := p.expect(lexer.TokKwDefinitions); err != nil {
		return nil, err
	}

	switch p.peek().Kind {
	case lexer.TokKwAutomatic:
		p.advance()
		header.Tagging = asn1.TaggingAutomatic
		if _, err := p.expect(lexer.TokKwTags); err != nil {
			return nil, err
		}
	case lexer.TokKwExplicit:
		p.advance()
		header.Tagging = asn1.TaggingExplicit
		if _, err := p.expect(lexer.TokKwTags); err != nil {
			return nil, err
		}
	case lexer.TokKwImplicit:
		p.advance()
		header.Tagging = asn1.TaggingImplicit
		if _, err := p.expect(lexer.TokKwTags); err != nil {
			return nil, err
		}
	}

	if p.check(lexer.TokKwExtensibility) {
		p.advance()
		if _, err := p.expect(lexer.TokKwImplied); err != nil {
			return nil, err
		}
		header.ExtensibilityImplied = true
	}

	if _, err := p.expect(lexer.TokColonColonEqual); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokKwBegin); err != nil {
		return nil, err
	}

	if p.check(lexer.TokKwExports) {
		p.skipExports()
	}

	if p.check(lexer.TokKwImports) {
		imports, err := p.parseImports()
		if err != nil {
			return nil, err
		}
		header.Imports = imports
	}

	return header, nil
}

// parseObjectIdentifierArcs parses a `{ name(number) ... }` object
// identifier value, as written after a module name.
func (p *Parser) parseObjectIdentifierArcs() ([]asn1.ObjectIdentifierArc, *types.Diagnostic) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}

	var arcs []asn1.ObjectIdentifierArc
	for !p.check(lexer.TokRBrace) {
		switch p.peek().Kind {
		case lexer.TokLowercaseIdent, lexer.TokUppercaseIdent:
			tok := p.advance()
			arc := asn1.ObjectIdentifierArc{Name: p.text(tok.Span)}
			if p.check(lexer.TokLParen) {
				p.advance()
				numToken, err := p.expect(lexer.TokNumber)
				if err != nil {
					return nil, err
				}
				n, err := p.parseI64(numToken.Span)
				if err != nil {
					return nil, err
				}
				arc.Number = asn1.Ptr(n)
				if _, err := p.expect(lexer.TokRParen); err != nil {
					return nil, err
				}
			}
			arcs = append(arcs, arc)
		case lexer.TokNumber:
			tok := p.advance()
			n, err := p.parseI64(tok.Span)
			if err != nil {
				return nil, err
			}
			arcs = append(arcs, asn1.ObjectIdentifierArc{Number: asn1.Ptr(n)})
		default:
			diag := p.makeError("expected object identifier arc")
			return nil, &diag
		}
	}
	p.advance() // }
	return arcs, nil
}

// skipExports consumes an EXPORTS clause through its semicolon. The
// merged-module model exports everything, so the symbol list is not
// recorded.
func (p *Parser) skipExports() {
	for !p.isEOF() {
		if p.advance().Kind == lexer.TokSemicolon {
			return
		}
	}
}

// skipBraces consumes a balanced `{ ... }` group.
func (p *Parser) skipBraces() {
	depth := 1
	p.advance() // {
	for depth > 0 && !p.isEOF() {
		switch p.advance().Kind {
		case lexer.TokLBrace:
			depth++
		case lexer.TokRBrace:
			depth--
		}
	}
}

// parseImports parses `IMPORTS sym, sym FROM Mod { oid } ... ;`.
// Symbols are recorded as written; resolution happens against the
// merged declaration list, not per clause.
func (p *Parser) parseImports() ([]asn1.Import, *types.Diagnostic) {
	if _, err := p.expect(lexer.TokKwImports); err != nil {
		return nil, err
	}

	var imports []asn1.Import
	var symbols []string
	for !p.check(lexer.TokSemicolon) && !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokUppercaseIdent, lexer.TokLowercaseIdent:
			tok := p.advance()
			symbols = append(symbols, p.text(tok.Span))
			// parameterized symbols import by base name
			if p.check(lexer.TokLBrace) {
				p.skipBraces()
			}
			if p.check(lexer.TokComma) {
				p.advance()
			}
		case lexer.TokKwFrom:
			p.advance()
			modToken, err := p.expect(lexer.TokUppercaseIdent)
			if err != nil {
				return nil, err
			}
			imports = append(imports, asn1.Import{Symbols: symbols, Module: p.text(modToken.Span)})
			symbols = nil
			if p.check(lexer.TokLBrace) {
				p.skipBraces()
			}
		default:
			diag := p.makeError("expected imported symbol or FROM")
			return nil, &diag
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return imports, nil
}

// parseDeclaration parses one top-level declaration. Interpretations
// are tried in fixed order: type assignment, information assignment,
// value assignment. A failed interpretation consumes no tokens, and
// the error reported is the one that got furthest into the input.
func (p *Parser) parseDeclaration() (asn1.TopLevelDeclaration, *types.Diagnostic) {
	comments := p.takeComments(p.currentSpan().Start)

	decl, typeErr := p.parseTypeDeclaration(comments)
	if typeErr == nil {
		return decl, nil
	}
	infoDecl, infoErr := p.parseInformationDeclaration(comments)
	if infoErr == nil {
		return infoDecl, nil
	}
	valueDecl, valueErr := p.parseValueDeclaration(comments)
	if valueErr == nil {
		return valueDecl, nil
	}

	return nil, furthestError(typeErr, infoErr, valueErr)
}

// furthestError picks the diagnostic whose span reaches deepest into
// the input. The interpretation that consumed the most before failing
// is the one the author most plausibly intended.
func furthestError(diags ...*types.Diagnostic) *types.Diagnostic {
	best := diags[0]
	for _, d := range diags[1:] {
		if d.Span.Start > best.Span.Start {
			best = d
		}
	}
	return best
}

// parseTypeDeclaration parses `Name ::= Type`.
func (p *Parser) parseTypeDeclaration(comments string) (*asn1.TypeDeclaration, *types.Diagnostic) {
	m := p.mark()

	nameToken, err := p.expect(lexer.TokUppercaseIdent)
	if err != nil {
		p.reset(m)
		return nil, err
	}
	if _, err := p.expect(lexer.TokColonColonEqual); err != nil {
		p.reset(m)
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		p.reset(m)
		return nil, err
	}

	return &asn1.TypeDeclaration{
		Comments: comments,
		Name:     p.text(nameToken.Span),
		Type:     typ,
	}, nil
}

// parseInformationDeclaration parses the three information assignment
// forms: `NAME ::= CLASS {...}`, `Set CLASS-REF ::= {...}` for object
// sets, and `obj CLASS-REF ::= {...}` for object instances. Set names
// are uppercase, object names lowercase.
func (p *Parser) parseInformationDeclaration(comments string) (*asn1.InformationDeclaration, *types.Diagnostic) {
	m := p.mark()

	if p.check(lexer.TokUppercaseIdent) &&
		p.peekNth(1).Kind == lexer.TokColonColonEqual &&
		p.peekNth(2).Kind == lexer.TokKwClass {
		nameToken := p.advance()
		p.advance() // ::=
		class, err := p.parseObjectClass()
		if err != nil {
			p.reset(m)
			return nil, err
		}
		return &asn1.InformationDeclaration{
			Comments: comments,
			Name:     p.text(nameToken.Span),
			Value:    class,
		}, nil
	}

	if !p.check(lexer.TokUppercaseIdent) && !p.check(lexer.TokLowercaseIdent) {
		diag := p.makeError("expected declaration name")
		return nil, &diag
	}
	nameToken := p.advance()
	isSet := nameToken.Kind == lexer.TokUppercaseIdent

	classToken, err := p.expect(lexer.TokUppercaseIdent)
	if err != nil {
		p.reset(m)
		return nil, err
	}
	if _, err := p.expect(lexer.TokColonColonEqual); err != nil {
		p.reset(m)
		return nil, err
	}

	if isSet {
		set, err := p.parseObjectSet()
		if err != nil {
			p.reset(m)
			return nil, err
		}
		return &asn1.InformationDeclaration{
			Comments:  comments,
			Name:      p.text(nameToken.Span),
			ClassName: p.text(classToken.Span),
			Value:     set,
		}, nil
	}

	fields, err := p.parseObjectFields()
	if err != nil {
		p.reset(m)
		return nil, err
	}
	return &asn1.InformationDeclaration{
		Comments:  comments,
		Name:      p.text(nameToken.Span),
		ClassName: p.text(classToken.Span),
		Value:     &asn1.InformationObject{Fields: fields},
	}, nil
}

// parseValueDeclaration parses `name Type ::= value`.
func (p *Parser) parseValueDeclaration(comments string) (*asn1.ValueDeclaration, *types.Diagnostic) {
	m := p.mark()

	nameToken, err := p.expect(lexer.TokLowercaseIdent)
	if err != nil {
		p.reset(m)
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		p.reset(m)
		return nil, err
	}
	if _, err := p.expect(lexer.TokColonColonEqual); err != nil {
		p.reset(m)
		return nil, err
	}
	value, err := p.parseValue()
	if err != nil {
		p.reset(m)
		return nil, err
	}

	return &asn1.ValueDeclaration{
		Comments: comments,
		Name:     p.text(nameToken.Span),
		Type:     typ,
		Value:    value,
	}, nil
}

// parseType parses a type expression with its trailing constraints.
// Keyword-introduced types dispatch first; a bare uppercase name is a
// reference to a type declared elsewhere.
func (p *Parser) parseType() (asn1.Type, *types.Diagnostic) {
	if p.check(lexer.TokLBracket) {
		p.skipTag()
	}

	switch p.peek().Kind {
	case lexer.TokKwNull:
		p.advance()
		return &asn1.Null{}, nil
	case lexer.TokKwBoolean:
		p.advance()
		constraints, err := p.parseConstraints()
		if err != nil {
			return nil, err
		}
		return &asn1.Boolean{Constraints: constraints}, nil
	case lexer.TokKwInteger:
		return p.parseIntegerType()
	case lexer.TokKwBit:
		return p.parseBitStringType()
	case lexer.TokKwOctet:
		return p.parseOctetStringType()
	case lexer.TokKwEnumerated:
		return p.parseEnumeratedType()
	case lexer.TokKwChoice:
		return p.parseChoiceType()
	case lexer.TokKwSequence:
		return p.parseSequenceType()
	case lexer.TokKwObject:
		return p.parseObjectIdentifierType()
	case lexer.TokUppercaseIdent:
		return p.parseReferencedType()
	default:
		if p.peek().Kind.IsCharacterStringKeyword() {
			return p.parseCharacterStringType()
		}
		diag := p.makeError("expected a type")
		return nil, &diag
	}
}

// skipTag consumes a `[class number]` tag prefix and any following
// IMPLICIT or EXPLICIT keyword. Tags do not affect the model; encoding
// concerns stay with generator backends.
func (p *Parser) skipTag() {
	p.advance() // [
	for !p.check(lexer.TokRBracket) && !p.isEOF() {
		p.advance()
	}
	if p.check(lexer.TokRBracket) {
		p.advance()
	}
	if p.check(lexer.TokKwImplicit) || p.check(lexer.TokKwExplicit) {
		p.advance()
	}
}

func (p *Parser) parseIntegerType() (asn1.Type, *types.Diagnostic) {
	p.advance() // INTEGER

	var distinguished []asn1.DistinguishedValue
	if p.check(lexer.TokLBrace) {
		var diag *types.Diagnostic
		distinguished, diag = p.parseDistinguishedValues()
		if diag != nil {
			return nil, diag
		}
	}

	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	return &asn1.Integer{Constraints: constraints, DistinguishedValues: distinguished}, nil
}

func (p *Parser) parseBitStringType() (asn1.Type, *types.Diagnostic) {
	p.advance() // BIT
	if _, err := p.expect(lexer.TokKwString); err != nil {
		return nil, err
	}

	var distinguished []asn1.DistinguishedValue
	if p.check(lexer.TokLBrace) {
		var diag *types.Diagnostic
		distinguished, diag = p.parseDistinguishedValues()
		if diag != nil {
			return nil, diag
		}
	}

	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	return &asn1.BitString{Constraints: constraints, DistinguishedValues: distinguished}, nil
}

func (p *Parser) parseOctetStringType() (asn1.Type, *types.Diagnostic) {
	p.advance() // OCTET
	if _, err := p.expect(lexer.TokKwString); err != nil {
		return nil, err
	}
	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	return &asn1.OctetString{Constraints: constraints}, nil
}

func (p *Parser) parseCharacterStringType() (asn1.Type, *types.Diagnostic) {
	tok := p.advance()
	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	return &asn1.CharacterString{
		Constraints: constraints,
		Variant:     characterStringVariant(tok.Kind),
	}, nil
}

func characterStringVariant(kind lexer.TokenKind) asn1.CharacterStringVariant {
	switch kind {
	case lexer.TokKwBMPString:
		return asn1.BMPString
	case lexer.TokKwGeneralString:
		return asn1.GeneralString
	case lexer.TokKwGraphicString:
		return asn1.GraphicString
	case lexer.TokKwIA5String:
		return asn1.IA5String
	case lexer.TokKwNumericString:
		return asn1.NumericString
	case lexer.TokKwPrintableString:
		return asn1.PrintableString
	case lexer.TokKwTeletexString:
		return asn1.TeletexString
	case lexer.TokKwUniversalString:
		return asn1.UniversalString
	case lexer.TokKwVideotexString:
		return asn1.VideotexString
	case lexer.TokKwVisibleString:
		return asn1.VisibleString
	default:
		return asn1.UTF8String
	}
}

// parseDistinguishedValues parses `{ name(number), ... }` after
// INTEGER or BIT STRING.
func (p *Parser) parseDistinguishedValues() ([]asn1.DistinguishedValue, *types.Diagnostic) {
	p.advance() // {

	var values []asn1.DistinguishedValue
	for {
		nameToken, err := p.expect(lexer.TokLowercaseIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokLParen); err != nil {
			return nil, err
		}
		value, diag := p.parseSignedNumber()
		if diag != nil {
			return nil, diag
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		values = append(values, asn1.DistinguishedValue{
			Name:  p.text(nameToken.Span),
			Value: value,
		})
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}

	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return values, nil
}

func (p *Parser) parseSignedNumber() (int64, *types.Diagnostic) {
	switch p.peek().Kind {
	case lexer.TokNumber, lexer.TokNegativeNumber:
		tok := p.advance()
		return p.parseI64(tok.Span)
	default:
		diag := p.makeError("expected a number")
		return 0, &diag
	}
}

// parseEnumeratedType parses `ENUMERATED { a, b(5), ..., c }`. Members
// without an explicit number take their position index. Extensible
// records the position of the first member after the `...` marker, and
// a trailing same-line comment becomes the member's description.
func (p *Parser) parseEnumeratedType() (asn1.Type, *types.Diagnostic) {
	p.advance() // ENUMERATED
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}

	enum := &asn1.Enumerated{}
	for !p.check(lexer.TokRBrace) {
		if p.check(lexer.TokEllipsis) {
			tok := p.advance()
			if enum.Extensible != nil {
				diag := errorAt(tok.Span, "duplicate extension marker")
				return nil, &diag
			}
			enum.Extensible = asn1.Ptr(len(enum.Members))
		} else {
			nameToken, err := p.expect(lexer.TokLowercaseIdent)
			if err != nil {
				return nil, err
			}
			member := asn1.Enumeral{
				Name:  p.text(nameToken.Span),
				Index: int64(len(enum.Members)),
			}
			if p.check(lexer.TokLParen) {
				p.advance()
				value, diag := p.parseSignedNumber()
				if diag != nil {
					return nil, diag
				}
				member.Index = value
				if _, err := p.expect(lexer.TokRParen); err != nil {
					return nil, err
				}
			}
			member.Description = p.memberDescription(p.previousEnd())
			enum.Members = append(enum.Members, member)
		}
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}

	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}

	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	enum.Constraints = constraints
	return enum, nil
}

func (p *Parser) parseChoiceType() (asn1.Type, *types.Diagnostic) {
	p.advance() // CHOICE
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}

	choice := &asn1.Choice{}
	if diag := p.parseChoiceBody(choice, lexer.TokRBrace); diag != nil {
		return nil, diag
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}

	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	choice.Constraints = constraints
	return choice, nil
}

// parseChoiceBody parses alternatives up to terminator. Version
// brackets recurse with the `]]` terminator so their alternatives
// flatten into the same option list.
func (p *Parser) parseChoiceBody(choice *asn1.Choice, terminator lexer.TokenKind) *types.Diagnostic {
	for !p.check(terminator) {
		switch {
		case p.check(lexer.TokEllipsis):
			tok := p.advance()
			if choice.Extensible != nil {
				diag := errorAt(tok.Span, "duplicate extension marker")
				return &diag
			}
			choice.Extensible = asn1.Ptr(len(choice.Options))
		case p.check(lexer.TokLDoubleBracket):
			p.advance()
			p.skipVersionNumber()
			if diag := p.parseChoiceBody(choice, lexer.TokRDoubleBracket); diag != nil {
				return diag
			}
			if _, err := p.expect(lexer.TokRDoubleBracket); err != nil {
				return err
			}
		default:
			nameToken, err := p.expect(lexer.TokLowercaseIdent)
			if err != nil {
				return err
			}
			typ, err := p.parseType()
			if err != nil {
				return err
			}
			choice.Options = append(choice.Options, asn1.ChoiceOption{
				Name: p.text(nameToken.Span),
				Type: typ,
			})
		}
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	return nil
}

// skipVersionNumber consumes the `n :` version prefix inside version
// brackets, when present. Version numbers do not affect the model.
func (p *Parser) skipVersionNumber() {
	if p.check(lexer.TokNumber) && p.peekNth(1).Kind == lexer.TokColon {
		p.advance()
		p.advance()
	}
}

// parseSequenceType parses SEQUENCE, SEQUENCE OF, and the two forms
// that put a size constraint before OF.
func (p *Parser) parseSequenceType() (asn1.Type, *types.Diagnostic) {
	p.advance() // SEQUENCE

	if p.check(lexer.TokLParen) {
		constraints, err := p.parseConstraints()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokKwOf); err != nil {
			return nil, err
		}
		element, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &asn1.SequenceOf{Constraints: constraints, Element: element}, nil
	}

	if p.check(lexer.TokKwSize) {
		size, diag := p.parseSizeElement()
		if diag != nil {
			return nil, diag
		}
		if _, err := p.expect(lexer.TokKwOf); err != nil {
			return nil, err
		}
		element, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &asn1.SequenceOf{
			Constraints: []asn1.Constraint{&asn1.SubtypeConstraint{Set: size}},
			Element:     element,
		}, nil
	}

	if p.check(lexer.TokKwOf) {
		p.advance()
		element, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &asn1.SequenceOf{Element: element}, nil
	}

	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	seq := &asn1.Sequence{}
	if diag := p.parseSequenceBody(seq, lexer.TokRBrace); diag != nil {
		return nil, diag
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}

	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	seq.Constraints = constraints
	return seq, nil
}

func (p *Parser) parseSequenceBody(seq *asn1.Sequence, terminator lexer.TokenKind) *types.Diagnostic {
	for !p.check(terminator) {
		switch {
		case p.check(lexer.TokEllipsis):
			tok := p.advance()
			if seq.Extensible != nil {
				diag := errorAt(tok.Span, "duplicate extension marker")
				return &diag
			}
			seq.Extensible = asn1.Ptr(len(seq.Members))
		case p.check(lexer.TokLDoubleBracket):
			p.advance()
			p.skipVersionNumber()
			if diag := p.parseSequenceBody(seq, lexer.TokRDoubleBracket); diag != nil {
				return diag
			}
			if _, err := p.expect(lexer.TokRDoubleBracket); err != nil {
				return err
			}
		default:
			member, diag := p.parseSequenceMember()
			if diag != nil {
				return diag
			}
			seq.Members = append(seq.Members, *member)
		}
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	return nil
}

// parseSequenceMember parses `name Type [OPTIONAL | DEFAULT value]`.
func (p *Parser) parseSequenceMember() (*asn1.SequenceMember, *types.Diagnostic) {
	nameToken, err := p.expect(lexer.TokLowercaseIdent)
	if err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	member := &asn1.SequenceMember{
		Name: p.text(nameToken.Span),
		Type: typ,
	}

	switch p.peek().Kind {
	case lexer.TokKwOptional:
		p.advance()
		member.Optional = true
	case lexer.TokKwDefault:
		p.advance()
		value, diag := p.parseValue()
		if diag != nil {
			return nil, diag
		}
		member.Default = value
	}
	return member, nil
}

// parseObjectIdentifierType accepts OBJECT IDENTIFIER as a reference
// to an elsewhere declared type. Identifier values are not modeled, so
// the name degrades to a reference the linker cannot resolve; the
// resulting diagnostic is informational, not fatal.
func (p *Parser) parseObjectIdentifierType() (asn1.Type, *types.Diagnostic) {
	p.advance() // OBJECT
	if _, err := p.expect(lexer.TokKwIdentifier); err != nil {
		return nil, err
	}
	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	return &asn1.ElsewhereDeclaredType{
		Identifier:  "OBJECT IDENTIFIER",
		Constraints: constraints,
	}, nil
}

// parseReferencedType parses an uppercase type reference, including
// `CLASS-NAME.&field` information object field references.
func (p *Parser) parseReferencedType() (asn1.Type, *types.Diagnostic) {
	nameToken := p.advance()

	if p.check(lexer.TokDot) {
		var path []asn1.ObjectFieldIdentifier
		for p.check(lexer.TokDot) {
			p.advance()
			field, diag := p.parseFieldIdentifier()
			if diag != nil {
				return nil, diag
			}
			path = append(path, field)
		}
		constraints, err := p.parseConstraints()
		if err != nil {
			return nil, err
		}
		return &asn1.InformationObjectFieldReference{
			Class:       p.text(nameToken.Span),
			FieldPath:   path,
			Constraints: constraints,
		}, nil
	}

	constraints, err := p.parseConstraints()
	if err != nil {
		return nil, err
	}
	return &asn1.ElsewhereDeclaredType{
		Identifier:  p.text(nameToken.Span),
		Constraints: constraints,
	}, nil
}

// parseFieldIdentifier parses one `&name` field reference token.
func (p *Parser) parseFieldIdentifier() (asn1.ObjectFieldIdentifier, *types.Diagnostic) {
	switch p.peek().Kind {
	case lexer.TokAmpUppercaseIdent:
		tok := p.advance()
		return asn1.ObjectFieldIdentifier{Name: p.fieldName(tok), TypeField: true}, nil
	case lexer.TokAmpLowercaseIdent:
		tok := p.advance()
		return asn1.ObjectFieldIdentifier{Name: p.fieldName(tok), TypeField: false}, nil
	default:
		diag := p.makeError("expected a field reference")
		return asn1.ObjectFieldIdentifier{}, &diag
	}
}

// fieldName strips the leading '&' from a field reference token.
func (p *Parser) fieldName(tok lexer.Token) string {
	return strings.TrimPrefix(p.text(tok.Span), "&")
}

// parseConstraints parses zero or more parenthesized constraints
// following a type. Serial constraints `(A)(B)` produce one Constraint
// each; folding intersects them later.
func (p *Parser) parseConstraints() ([]asn1.Constraint, *types.Diagnostic) {
	var constraints []asn1.Constraint
	for p.check(lexer.TokLParen) {
		c, diag := p.parseConstraint()
		if diag != nil {
			return nil, diag
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

// parseConstraint parses one parenthesized constraint: a table
// constraint when the parentheses open on a brace, an element set
// otherwise.
func (p *Parser) parseConstraint() (asn1.Constraint, *types.Diagnostic) {
	p.advance() // (

	if p.check(lexer.TokLBrace) {
		table, diag := p.parseTableConstraint()
		if diag != nil {
			return nil, diag
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		return table, nil
	}

	subtype, diag := p.parseSubtypeConstraint()
	if diag != nil {
		return nil, diag
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return subtype, nil
}

// parseSubtypeConstraint parses an element set with an optional
// extension marker. Extension additions after the marker are parsed
// and discarded: bounds carrying an extension marker are advisory, so
// only the root set contributes to folding.
func (p *Parser) parseSubtypeConstraint() (*asn1.SubtypeConstraint, *types.Diagnostic) {
	set, diag := p.parseElementSet()
	if diag != nil {
		return nil, diag
	}
	constraint := &asn1.SubtypeConstraint{Set: set}

	if p.check(lexer.TokComma) && p.peekNth(1).Kind == lexer.TokEllipsis {
		p.advance()
		p.advance()
		constraint.Extensible = true
		if p.check(lexer.TokComma) {
			p.advance()
			if _, diag := p.parseElementSet(); diag != nil {
				return nil, diag
			}
		}
	}
	return constraint, nil
}

// parseElementSet parses a chain of subtype elements joined by set
// operators. Chains fold operand-nested: `a | b | c` becomes
// op(a, union, op(b, union, c)).
func (p *Parser) parseElementSet() (asn1.ElementSetTerm, *types.Diagnostic) {
	base, diag := p.parseSubtypeElement()
	if diag != nil {
		return nil, diag
	}

	op, ok := p.setOperator()
	if !ok {
		return base, nil
	}
	operand, diag := p.parseElementSet()
	if diag != nil {
		return nil, diag
	}
	return &asn1.SetOperation{Base: base, Operator: op, Operand: operand}, nil
}

// setOperator consumes a set operator token when one is next.
func (p *Parser) setOperator() (asn1.SetOperator, bool) {
	switch p.peek().Kind {
	case lexer.TokPipe, lexer.TokKwUnion:
		p.advance()
		return asn1.Union, true
	case lexer.TokCaret, lexer.TokKwIntersection:
		p.advance()
		return asn1.Intersection, true
	case lexer.TokKwExcept:
		p.advance()
		return asn1.Except, true
	default:
		return 0, false
	}
}

// parseSubtypeElement parses one leaf element. Alternatives, in order:
// SIZE, WITH COMPONENT(S), INCLUDES, a bare contained subtype
// reference, a parenthesized group, and finally a value or range.
func (p *Parser) parseSubtypeElement() (asn1.SubtypeElement, *types.Diagnostic) {
	switch p.peek().Kind {
	case lexer.TokKwSize:
		return p.parseSizeElement()
	case lexer.TokKwWith:
		return p.parseWithConstraint()
	case lexer.TokKwIncludes:
		p.advance()
		parent, diag := p.parseType()
		if diag != nil {
			return nil, diag
		}
		return &asn1.ContainedSubtype{Parent: parent}, nil
	case lexer.TokUppercaseIdent:
		// a bare type reference in a constraint imports that type's
		// constraints, same as INCLUDES
		parent, diag := p.parseType()
		if diag != nil {
			return nil, diag
		}
		return &asn1.ContainedSubtype{Parent: parent}, nil
	case lexer.TokKwFrom:
		diag := p.makeError("permitted alphabet constraints are not supported")
		return nil, &diag
	case lexer.TokLParen:
		openToken := p.advance()
		inner, diag := p.parseElementSet()
		if diag != nil {
			return nil, diag
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		leaf, ok := inner.(asn1.SubtypeElement)
		if !ok {
			innerDiag := errorAt(openToken.Span, "grouped set operations are not supported here")
			return nil, &innerDiag
		}
		return leaf, nil
	default:
		return p.parseValueOrRange()
	}
}

// parseSizeElement parses `SIZE (elements [, ...])`. An inner
// extension marker lands on the element carrying the extensibility
// flag.
func (p *Parser) parseSizeElement() (*asn1.SizeConstraint, *types.Diagnostic) {
	p.advance() // SIZE
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	inner, diag := p.parseElementSet()
	if diag != nil {
		return nil, diag
	}
	if p.check(lexer.TokComma) && p.peekNth(1).Kind == lexer.TokEllipsis {
		p.advance()
		p.advance()
		markExtensible(inner)
		if p.check(lexer.TokComma) {
			p.advance()
			if _, diag := p.parseElementSet(); diag != nil {
				return nil, diag
			}
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return &asn1.SizeConstraint{Inner: inner}, nil
}

// markExtensible records an inner extension marker on the element that
// carries the extensibility flag.
func markExtensible(term asn1.ElementSetTerm) {
	switch term := term.(type) {
	case *asn1.SingleValue:
		term.Extensible = true
	case *asn1.ValueRange:
		term.Extensible = true
	case *asn1.ContainedSubtype:
		term.Extensible = true
	case *asn1.SetOperation:
		markExtensible(term.Base)
	}
}

// parseWithConstraint parses `WITH COMPONENT (...)` and
// `WITH COMPONENTS { ... }`.
func (p *Parser) parseWithConstraint() (asn1.SubtypeElement, *types.Diagnostic) {
	p.advance() // WITH
	switch p.peek().Kind {
	case lexer.TokKwComponent:
		p.advance()
		constraints, diag := p.parseConstraints()
		if diag != nil {
			return nil, diag
		}
		return &asn1.SingleTypeConstraint{Constraints: constraints}, nil
	case lexer.TokKwComponents:
		p.advance()
		return p.parseMultipleTypeConstraints()
	default:
		diag := p.makeError("expected COMPONENT or COMPONENTS after WITH")
		return nil, &diag
	}
}

// parseMultipleTypeConstraints parses the brace body of a
// WITH COMPONENTS clause. A leading `...,` marks partial
// specification. An OPTIONAL presence keeps the component's declared
// presence, so it maps to unspecified.
func (p *Parser) parseMultipleTypeConstraints() (*asn1.MultipleTypeConstraints, *types.Diagnostic) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}

	mtc := &asn1.MultipleTypeConstraints{}
	if p.check(lexer.TokEllipsis) {
		p.advance()
		mtc.Partial = true
		if p.check(lexer.TokComma) {
			p.advance()
		}
	}

	for !p.check(lexer.TokRBrace) {
		nameToken, err := p.expect(lexer.TokLowercaseIdent)
		if err != nil {
			return nil, err
		}
		component := asn1.ComponentConstraint{Name: p.text(nameToken.Span)}
		if p.check(lexer.TokLParen) {
			constraints, diag := p.parseConstraints()
			if diag != nil {
				return nil, diag
			}
			component.Constraints = constraints
		}
		switch p.peek().Kind {
		case lexer.TokKwPresent:
			p.advance()
			component.Presence = asn1.PresencePresent
		case lexer.TokKwAbsent:
			p.advance()
			component.Presence = asn1.PresenceAbsent
		case lexer.TokKwOptional:
			p.advance()
		}
		mtc.Components = append(mtc.Components, component)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}

	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return mtc, nil
}

// parseValueOrRange parses a single value or a `lo..hi` range. MIN and
// MAX endpoints map to nil bounds.
func (p *Parser) parseValueOrRange() (asn1.SubtypeElement, *types.Diagnostic) {
	var low asn1.Value
	if p.check(lexer.TokKwMin) {
		p.advance()
	} else {
		v, diag := p.parseValue()
		if diag != nil {
			return nil, diag
		}
		low = v
	}

	if !p.check(lexer.TokDotDot) {
		if low == nil {
			diag := p.makeError("expected '..' after MIN")
			return nil, &diag
		}
		return &asn1.SingleValue{Value: low}, nil
	}
	p.advance() // ..

	var high asn1.Value
	if p.check(lexer.TokKwMax) {
		p.advance()
	} else {
		v, diag := p.parseValue()
		if diag != nil {
			return nil, diag
		}
		high = v
	}

	return &asn1.ValueRange{Min: low, Max: high}, nil
}

// parseTableConstraint parses `{ObjectSet}{@field, @.field}`. Leading
// dots in the at-notation count nesting levels.
func (p *Parser) parseTableConstraint() (*asn1.TableConstraint, *types.Diagnostic) {
	set, diag := p.parseObjectSet()
	if diag != nil {
		return nil, diag
	}
	table := &asn1.TableConstraint{ObjectSet: *set}

	if p.check(lexer.TokLBrace) {
		p.advance()
		for {
			if _, err := p.expect(lexer.TokAt); err != nil {
				return nil, err
			}
			level := 0
			for p.check(lexer.TokDot) {
				p.advance()
				level++
			}
			nameToken, err := p.expect(lexer.TokLowercaseIdent)
			if err != nil {
				return nil, err
			}
			parts := []string{p.text(nameToken.Span)}
			for p.check(lexer.TokDot) {
				p.advance()
				tok, err := p.expect(lexer.TokLowercaseIdent)
				if err != nil {
					return nil, err
				}
				parts = append(parts, p.text(tok.Span))
			}
			table.LinkedFields = append(table.LinkedFields, asn1.RelationalConstraint{
				FieldName: strings.Join(parts, "."),
				Level:     level,
			})
			if !p.check(lexer.TokComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(lexer.TokRBrace); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// parseObjectSet parses `{ A | B, ... }`. Elements separate with `|`
// or commas; both forms appear in published modules.
func (p *Parser) parseObjectSet() (*asn1.ObjectSet, *types.Diagnostic) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}

	set := &asn1.ObjectSet{}
	for !p.check(lexer.TokRBrace) {
		switch p.peek().Kind {
		case lexer.TokEllipsis:
			tok := p.advance()
			if set.Extensible != nil {
				diag := errorAt(tok.Span, "duplicate extension marker")
				return nil, &diag
			}
			set.Extensible = asn1.Ptr(len(set.Values))
		case lexer.TokUppercaseIdent, lexer.TokLowercaseIdent:
			tok := p.advance()
			set.Values = append(set.Values, &asn1.ObjectSetReference{Name: p.text(tok.Span)})
		case lexer.TokLBrace:
			fields, diag := p.parseObjectFields()
			if diag != nil {
				return nil, diag
			}
			set.Values = append(set.Values, &asn1.InlineObject{Fields: fields})
		default:
			diag := p.makeError("expected an object set element")
			return nil, &diag
		}
		if p.check(lexer.TokPipe) || p.check(lexer.TokComma) {
			p.advance()
		} else {
			break
		}
	}

	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return set, nil
}

// parseObjectClass parses `CLASS { fields } [WITH SYNTAX { ... }]`.
func (p *Parser) parseObjectClass() (*asn1.ObjectClass, *types.Diagnostic) {
	if _, err := p.expect(lexer.TokKwClass); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}

	class := &asn1.ObjectClass{}
	for {
		field, diag := p.parseClassField()
		if diag != nil {
			return nil, diag
		}
		class.Fields = append(class.Fields, *field)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}

	if p.check(lexer.TokKwWith) {
		p.advance()
		if _, err := p.expect(lexer.TokKwSyntax); err != nil {
			return nil, err
		}
		syntax, diag := p.parseSyntaxSpecification()
		if diag != nil {
			return nil, diag
		}
		class.Syntax = syntax
	}
	return class, nil
}

// parseClassField parses one `&name [Type] [UNIQUE] [OPTIONAL|DEFAULT
// value]` field declaration. Type stays nil for open type fields.
func (p *Parser) parseClassField() (*asn1.ClassField, *types.Diagnostic) {
	identifier, diag := p.parseFieldIdentifier()
	if diag != nil {
		return nil, diag
	}
	field := &asn1.ClassField{Identifier: identifier}

	switch p.peek().Kind {
	case lexer.TokComma, lexer.TokRBrace, lexer.TokKwUnique, lexer.TokKwOptional, lexer.TokKwDefault:
	default:
		typ, diag := p.parseType()
		if diag != nil {
			return nil, diag
		}
		field.Type = typ
	}

	if p.check(lexer.TokKwUnique) {
		p.advance()
		field.Unique = true
	}
	switch p.peek().Kind {
	case lexer.TokKwOptional:
		p.advance()
		field.Optional = true
	case lexer.TokKwDefault:
		p.advance()
		value, diag := p.parseValue()
		if diag != nil {
			return nil, diag
		}
		field.Default = value
	}
	return field, nil
}

// parseSyntaxSpecification parses the `{ ... }` template after
// WITH SYNTAX. Square brackets nest optional groups.
func (p *Parser) parseSyntaxSpecification() ([]asn1.SyntaxExpression, *types.Diagnostic) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	exprs, diag := p.parseSyntaxExpressions(lexer.TokRBrace)
	if diag != nil {
		return nil, diag
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return exprs, nil
}

func (p *Parser) parseSyntaxExpressions(terminator lexer.TokenKind) ([]asn1.SyntaxExpression, *types.Diagnostic) {
	var exprs []asn1.SyntaxExpression
	for !p.check(terminator) {
		switch p.peek().Kind {
		case lexer.TokLBracket:
			p.advance()
			inner, diag := p.parseSyntaxExpressions(lexer.TokRBracket)
			if diag != nil {
				return nil, diag
			}
			if _, err := p.expect(lexer.TokRBracket); err != nil {
				return nil, err
			}
			exprs = append(exprs, &asn1.OptionalGroup{Expressions: inner})
		case lexer.TokComma:
			p.advance()
			exprs = append(exprs, &asn1.RequiredToken{Token: &asn1.CommaToken{}})
		case lexer.TokAmpUppercaseIdent, lexer.TokAmpLowercaseIdent:
			field, diag := p.parseFieldIdentifier()
			if diag != nil {
				return nil, diag
			}
			exprs = append(exprs, &asn1.RequiredToken{Token: &asn1.FieldToken{Field: field}})
		case lexer.TokUppercaseIdent:
			tok := p.advance()
			exprs = append(exprs, &asn1.RequiredToken{Token: &asn1.LiteralToken{Literal: p.text(tok.Span)}})
		default:
			// reserved words are legal literals inside a template
			if !p.peek().Kind.IsKeyword() {
				diag := p.makeError("expected a syntax element")
				return nil, &diag
			}
			tok := p.advance()
			exprs = append(exprs, &asn1.RequiredToken{Token: &asn1.LiteralToken{Literal: p.text(tok.Span)}})
		}
	}
	return exprs, nil
}

// parseObjectFields parses the brace body of an information object.
// Bodies whose first element is a field reference use the default
// `{&field value, ...}` syntax; anything else is captured as custom
// syntax for the linker to decode against the class specification.
func (p *Parser) parseObjectFields() (asn1.InformationObjectFields, *types.Diagnostic) {
	openToken, err := p.expect(lexer.TokLBrace)
	if err != nil {
		return nil, err
	}

	if p.check(lexer.TokRBrace) {
		p.advance()
		return &asn1.DefaultSyntaxFields{}, nil
	}
	if p.check(lexer.TokAmpUppercaseIdent) || p.check(lexer.TokAmpLowercaseIdent) {
		return p.parseDefaultSyntaxFields()
	}
	return p.parseCustomSyntaxFields(openToken)
}

func (p *Parser) parseDefaultSyntaxFields() (*asn1.DefaultSyntaxFields, *types.Diagnostic) {
	fields := &asn1.DefaultSyntaxFields{}
	for {
		field, diag := p.parseFieldIdentifier()
		if diag != nil {
			return nil, diag
		}
		setting, diag := p.parseFieldSetting(field)
		if diag != nil {
			return nil, diag
		}
		fields.Settings = append(fields.Settings, setting)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseFieldSetting parses the setting after a field name. Type fields
// take types, value fields take values, and a braced group is an
// object set for either field case.
func (p *Parser) parseFieldSetting(field asn1.ObjectFieldIdentifier) (asn1.ObjectFieldSetting, *types.Diagnostic) {
	if p.check(lexer.TokLBrace) {
		set, diag := p.parseObjectSet()
		if diag != nil {
			return nil, diag
		}
		return &asn1.ObjectSetFieldSetting{Identifier: field, Set: *set}, nil
	}
	if field.TypeField {
		typ, diag := p.parseType()
		if diag != nil {
			return nil, diag
		}
		return &asn1.TypeFieldSetting{Identifier: field, Type: typ}, nil
	}
	value, diag := p.parseValue()
	if diag != nil {
		return nil, diag
	}
	return &asn1.ValueFieldSetting{Identifier: field, Value: value}, nil
}

// parseCustomSyntaxFields captures a custom-syntax object body as raw
// applications, terminated by the closing brace.
func (p *Parser) parseCustomSyntaxFields(openToken lexer.Token) (*asn1.CustomSyntaxFields, *types.Diagnostic) {
	fields := &asn1.CustomSyntaxFields{}
	for !p.check(lexer.TokRBrace) {
		if p.isEOF() {
			diag := errorAt(openToken.Span, "unterminated object body")
			return nil, &diag
		}
		app, diag := p.parseSyntaxApplication()
		if diag != nil {
			return nil, diag
		}
		fields.Applications = append(fields.Applications, app)
	}
	p.advance() // }
	return fields, nil
}

// parseSyntaxApplication parses one token of a custom-syntax body.
// Words in full caps are literals; everything else parses as the
// value, type, or object set it looks like.
func (p *Parser) parseSyntaxApplication() (asn1.SyntaxApplication, *types.Diagnostic) {
	switch p.peek().Kind {
	case lexer.TokComma:
		p.advance()
		return &asn1.CommaApplication{}, nil
	case lexer.TokLBrace:
		set, diag := p.parseObjectSet()
		if diag != nil {
			return nil, diag
		}
		return &asn1.ObjectSetApplication{Set: *set}, nil
	case lexer.TokUppercaseIdent:
		if isSyntaxLiteral(p.text(p.currentSpan())) {
			tok := p.advance()
			return &asn1.LiteralApplication{Literal: p.text(tok.Span)}, nil
		}
		typ, diag := p.parseType()
		if diag != nil {
			return nil, diag
		}
		return &asn1.TypeApplication{Type: typ}, nil
	default:
		if p.peek().Kind.IsTypeKeyword() {
			typ, diag := p.parseType()
			if diag != nil {
				return nil, diag
			}
			return &asn1.TypeApplication{Type: typ}, nil
		}
		value, diag := p.parseValue()
		if diag != nil {
			return nil, diag
		}
		return &asn1.ValueApplication{Value: value}, nil
	}
}

// isSyntaxLiteral reports whether a word can only be a syntax literal:
// no lowercase letters, the way class syntax literals are written.
// Mixed-case words are type references.
func isSyntaxLiteral(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] >= 'a' && word[i] <= 'z' {
			return false
		}
	}
	return true
}

// parseValue parses a value literal or reference. Identifier
// references stay unresolved; the linker decides whether they name a
// declared value, a distinguished value, or an enumeration member.
func (p *Parser) parseValue() (asn1.Value, *types.Diagnostic) {
	switch p.peek().Kind {
	case lexer.TokKwNull:
		p.advance()
		return &asn1.NullValue{}, nil
	case lexer.TokKwTrue:
		p.advance()
		return &asn1.BooleanValue{Value: true}, nil
	case lexer.TokKwFalse:
		p.advance()
		return &asn1.BooleanValue{Value: false}, nil
	case lexer.TokKwAll:
		p.advance()
		return &asn1.AllValue{}, nil
	case lexer.TokNumber, lexer.TokNegativeNumber:
		tok := p.advance()
		n, diag := p.parseI64(tok.Span)
		if diag != nil {
			return nil, diag
		}
		return &asn1.IntegerValue{Value: n}, nil
	case lexer.TokQuotedString:
		tok := p.advance()
		return &asn1.StringValue{Value: unquote(p.text(tok.Span))}, nil
	case lexer.TokBinString:
		tok := p.advance()
		return &asn1.BitStringValue{Bits: binStringBits(p.text(tok.Span))}, nil
	case lexer.TokHexString:
		tok := p.advance()
		return &asn1.BitStringValue{Bits: hexStringBits(p.text(tok.Span))}, nil
	case lexer.TokLowercaseIdent:
		tok := p.advance()
		return &asn1.ElsewhereDeclaredValue{Identifier: p.text(tok.Span)}, nil
	default:
		diag := p.makeError("expected a value")
		return nil, &diag
	}
}

// unquote strips the surrounding quotes from a cstring token and
// collapses doubled quotes.
func unquote(text string) string {
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)
	return strings.ReplaceAll(text, `""`, `"`)
}

// binStringBits converts the digits of a `'0101'B` literal.
func binStringBits(text string) []bool {
	var bits []bool
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		}
	}
	return bits
}

// hexStringBits converts the digits of a `'C2'H` literal, four bits
// per digit, most significant first. The trailing H is not a hex
// digit, so only the quoted digits contribute.
func hexStringBits(text string) []bool {
	text = strings.TrimSuffix(strings.TrimSuffix(text, "H"), "h")
	var bits []bool
	for i := 0; i < len(text); i++ {
		c := text[i]
		var v byte
		switch {
		case c >= '0' && c <= '9':
			v = c - '0'
		case c >= 'A' && c <= 'F':
			v = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		default:
			continue
		}
		for shift := 3; shift >= 0; shift-- {
			bits = append(bits, v>>shift&1 == 1)
		}
	}
	return bits
}
