package lexer

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/6d7a/asnr-sub000/internal/types"
)

type lexerState int

const (
	stateNormal lexerState = iota
	stateInLineComment
	stateInBlockComment
)

// Lexer tokenizes ASN.1 module text.
type Lexer struct {
	source       []byte
	pos          int
	state        lexerState
	commentStart int
	commentDepth int
	comments     []types.Span
	diagnostics  []types.Diagnostic
	types.Logger
}

// New returns a Lexer that tokenizes the given source bytes.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		pos:    0,
		state:  stateNormal,
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

// Diagnostics returns a copy of all collected diagnostics.
func (l *Lexer) Diagnostics() []types.Diagnostic {
	return slices.Clone(l.diagnostics)
}

// Comments returns the spans of all comments consumed so far, in source
// order. Spans include the comment delimiters.
func (l *Lexer) Comments() []types.Span {
	return slices.Clone(l.comments)
}

func (l *Lexer) traceToken(tok Token) {
	if l.TraceEnabled() {
		l.Trace("token",
			slog.Int("kind", int(tok.Kind)),
			slog.Int("start", int(tok.Span.Start)),
			slog.Int("end", int(tok.Span.End)))
	}
}

// Tokenize consumes all source text and returns the token stream
// along with any diagnostics generated during lexing.
func (l *Lexer) Tokenize() ([]Token, []types.Diagnostic) {
	estimatedTokens := max(len(l.source)/6, 64)
	tokens := make([]Token, 0, estimatedTokens)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	l.Log(slog.LevelDebug, "tokenization complete",
		slog.Int("tokens", len(tokens)),
		slog.Int("diagnostics", len(l.diagnostics)))
	return tokens, l.diagnostics
}

// NextToken advances the lexer and returns the next token.
// Returns TokEOF when all input is consumed.
func (l *Lexer) NextToken() Token {
	for {
		switch l.state {
		case stateInLineComment:
			l.consumeLineComment()
			continue
		case stateInBlockComment:
			l.consumeBlockComment()
			continue
		default:
			tok, retry := l.nextNormalToken()
			if retry {
				continue
			}
			return tok
		}
	}
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	return b, true
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			l.advance()
		} else {
			return
		}
	}
}

func (l *Lexer) skipLineEnding() {
	b, ok := l.advance()
	if !ok {
		return
	}
	if b == '\r' {
		if next, ok := l.peek(); ok && next == '\n' {
			l.advance()
		}
	}
}

func (l *Lexer) skipToEOL() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		if b == '\n' || b == '\r' {
			l.skipLineEnding()
			return
		}
		l.advance()
	}
}

func (l *Lexer) error(span types.Span, message string) {
	l.diagnostics = append(l.diagnostics, types.Diagnostic{
		Severity: types.SeverityError,
		Span:     span,
		Message:  message,
	})
}

func (l *Lexer) spanFrom(start int) types.Span {
	return types.Span{
		Start: types.ByteOffset(start),
		End:   types.ByteOffset(l.pos),
	}
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	tok := Token{
		Kind: kind,
		Span: l.spanFrom(start),
	}
	l.traceToken(tok)
	return tok
}

// nextNormalToken scans the next token in normal state. Returns (token, retry)
// where retry=true means the caller should loop (e.g. after skipping junk or
// entering comment state).
func (l *Lexer) nextNormalToken() (Token, bool) {
	l.skipWhitespace()

	start := l.pos

	b, ok := l.peek()
	if !ok {
		return l.token(TokEOF, start), false
	}

	if b == '-' {
		if next, ok := l.peekAt(1); ok && next == '-' {
			l.advance()
			l.advance()
			l.state = stateInLineComment
			l.commentStart = start
			return Token{}, true
		}
	}

	if b == '/' {
		if next, ok := l.peekAt(1); ok && next == '*' {
			l.advance()
			l.advance()
			l.state = stateInBlockComment
			l.commentStart = start
			l.commentDepth = 1
			return Token{}, true
		}
	}

	switch b {
	case '[':
		l.advance()
		if next, ok := l.peek(); ok && next == '[' {
			l.advance()
			return l.token(TokLDoubleBracket, start), false
		}
		return l.token(TokLBracket, start), false
	case ']':
		l.advance()
		if next, ok := l.peek(); ok && next == ']' {
			l.advance()
			return l.token(TokRDoubleBracket, start), false
		}
		return l.token(TokRBracket, start), false
	case '{':
		l.advance()
		return l.token(TokLBrace, start), false
	case '}':
		l.advance()
		return l.token(TokRBrace, start), false
	case '(':
		l.advance()
		return l.token(TokLParen, start), false
	case ')':
		l.advance()
		return l.token(TokRParen, start), false
	case ';':
		l.advance()
		return l.token(TokSemicolon, start), false
	case ',':
		l.advance()
		return l.token(TokComma, start), false
	case '|':
		l.advance()
		return l.token(TokPipe, start), false
	case '^':
		l.advance()
		return l.token(TokCaret, start), false
	case '@':
		l.advance()
		return l.token(TokAt, start), false
	case '!':
		l.advance()
		return l.token(TokExclamation, start), false
	}

	if b == '.' {
		l.advance()
		if next, ok := l.peek(); ok && next == '.' {
			l.advance()
			if after, ok := l.peek(); ok && after == '.' {
				l.advance()
				return l.token(TokEllipsis, start), false
			}
			return l.token(TokDotDot, start), false
		}
		return l.token(TokDot, start), false
	}

	if b == ':' {
		l.advance()
		if next, ok := l.peek(); ok && next == ':' {
			if after, ok := l.peekAt(1); ok && after == '=' {
				l.advance()
				l.advance()
				return l.token(TokColonColonEqual, start), false
			}
		}
		return l.token(TokColon, start), false
	}

	if b == '-' {
		if next, ok := l.peekAt(1); ok && isDigit(next) {
			return l.scanNegativeNumber(), false
		}
		l.advance()
		return l.token(TokMinus, start), false
	}

	if b == '&' {
		if next, ok := l.peekAt(1); ok && isAlpha(next) {
			return l.scanFieldReference(), false
		}
		l.advance()
		span := l.spanFrom(start)
		l.error(span, "expected field name after '&'")
		return Token{}, true
	}

	if isDigit(b) {
		return l.scanNumber(), false
	}

	if b == '"' {
		return l.scanQuotedString(), false
	}

	if b == '\'' {
		return l.scanHexOrBinString(), false
	}

	if isAlpha(b) {
		return l.scanIdentifierOrKeyword(), false
	}

	l.advance()
	span := l.spanFrom(start)
	l.error(span, fmt.Sprintf("unexpected character: 0x%02x", b))
	l.skipToEOL()
	return Token{}, true
}

// consumeLineComment skips over comment text and sets state back to normal.
// A line comment ends at the line ending or at a second '--'.
func (l *Lexer) consumeLineComment() {
	for {
		b, ok := l.peek()
		if !ok {
			l.endComment(l.pos)
			return
		}

		if b == '\n' || b == '\r' {
			l.endComment(l.pos)
			l.skipLineEnding()
			return
		}

		if b == '-' {
			if next, ok := l.peekAt(1); ok && next == '-' {
				l.advance()
				l.advance()
				l.endComment(l.pos)
				return
			}
		}

		l.advance()
	}
}

// endComment records the span of the comment that just closed and
// returns to normal state.
func (l *Lexer) endComment(end int) {
	l.comments = append(l.comments, types.Span{
		Start: types.ByteOffset(l.commentStart),
		End:   types.ByteOffset(end),
	})
	l.state = stateNormal
}

// consumeBlockComment skips over '/* ... */' comment text, honoring nesting,
// and sets state back to normal. An unterminated comment is a lexical error.
func (l *Lexer) consumeBlockComment() {
	for l.commentDepth > 0 {
		b, ok := l.peek()
		if !ok {
			l.error(l.spanFrom(l.commentStart), "unterminated block comment")
			l.commentDepth = 0
			break
		}

		if b == '/' {
			if next, ok := l.peekAt(1); ok && next == '*' {
				l.advance()
				l.advance()
				l.commentDepth++
				continue
			}
		}

		if b == '*' {
			if next, ok := l.peekAt(1); ok && next == '/' {
				l.advance()
				l.advance()
				l.commentDepth--
				continue
			}
		}

		l.advance()
	}
	l.endComment(l.pos)
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	start := l.pos
	firstChar, _ := l.advance()
	isUppercase := isUpperAlpha(firstChar)

	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		if isAlphanumeric(b) || b == '_' {
			l.advance()
		} else if b == '-' {
			if next, ok := l.peekAt(1); ok && next == '-' {
				break
			}
			l.advance()
		} else {
			break
		}
	}

	text := string(l.source[start:l.pos])

	if kind, ok := LookupKeyword(text); ok {
		return l.token(kind, start)
	}

	kind := TokLowercaseIdent
	if isUppercase {
		kind = TokUppercaseIdent
	}
	return l.token(kind, start)
}

// scanFieldReference scans a '&'-prefixed field reference (&Type, &id).
// The span includes the leading ampersand.
func (l *Lexer) scanFieldReference() Token {
	start := l.pos
	l.advance() // consume &
	firstChar, _ := l.advance()
	isUppercase := isUpperAlpha(firstChar)

	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		if isAlphanumeric(b) || b == '_' {
			l.advance()
		} else if b == '-' {
			if next, ok := l.peekAt(1); ok && next == '-' {
				break
			}
			l.advance()
		} else {
			break
		}
	}

	kind := TokAmpLowercaseIdent
	if isUppercase {
		kind = TokAmpUppercaseIdent
	}
	return l.token(kind, start)
}

func (l *Lexer) scanNumber() Token {
	start := l.pos

	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	return l.token(TokNumber, start)
}

func (l *Lexer) scanNegativeNumber() Token {
	start := l.pos
	l.advance() // consume -

	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	return l.token(TokNegativeNumber, start)
}

func (l *Lexer) scanQuotedString() Token {
	start := l.pos
	l.advance() // consume opening quote

	for {
		b, ok := l.peek()
		if !ok {
			span := l.spanFrom(start)
			l.error(span, "unterminated string literal")
			return l.token(TokQuotedString, start)
		}
		if b == '"' {
			l.advance()
			// a doubled quote is an escaped quote, not the terminator
			if next, ok := l.peek(); ok && next == '"' {
				l.advance()
				continue
			}
			return l.token(TokQuotedString, start)
		}
		l.advance()
	}
}

func (l *Lexer) scanHexOrBinString() Token {
	start := l.pos
	l.advance() // consume opening quote

	for {
		b, ok := l.peek()
		if !ok || b == '\'' {
			break
		}
		l.advance()
	}

	if b, ok := l.peek(); !ok || b != '\'' {
		span := l.spanFrom(start)
		l.error(span, "unterminated hex/binary string")
		return l.token(TokError, start)
	}
	l.advance() // consume closing quote

	suffix, ok := l.peek()
	if !ok {
		span := l.spanFrom(start)
		l.error(span, "expected 'H' or 'B' suffix for hex/binary string")
		return l.token(TokError, start)
	}

	var kind TokenKind
	switch suffix {
	case 'H', 'h':
		l.advance()
		kind = TokHexString

	case 'B', 'b':
		l.advance()
		kind = TokBinString

	default:
		span := l.spanFrom(start)
		l.error(span, "expected 'H' or 'B' suffix for hex/binary string")
		kind = TokError
	}

	return l.token(kind, start)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isUpperAlpha(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isAlphanumeric(b byte) bool {
	return isAlpha(b) || isDigit(b)
}
