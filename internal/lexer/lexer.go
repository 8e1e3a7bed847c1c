package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sigil-lang/sigilc/internal/diag"
)

// Lexer scans normalized Sigil source into a token stream. It is
// Unicode-aware: it operates on codepoints, not bytes, while tracking
// (line, column, byteOffset) for every position (§4.3).
type Lexer struct {
	input        string
	file         string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

// New creates a Lexer over already surface-validated, normalized source.
func New(input, filename string) *Lexer {
	l := &Lexer{input: input, file: filename, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	ch, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += size
	l.column++
	if l.ch == '\n' {
		l.line++
		l.column = 1
	}
	l.ch = ch
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return ch
}

func (l *Lexer) pos() Pos {
	return Pos{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) loc(p Pos) diag.Location {
	return diag.Location{File: l.file, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// Tokenize scans the full input, returning tokens up to and including EOF.
// The first lexical error short-circuits the scan (§4.1 propagation
// policy): no partial token list is returned alongside an error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) next() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	start := l.pos()

	if l.ch == 0 {
		return l.tok(EOF, "", start), nil
	}

	switch {
	case l.ch == '"':
		return l.readString(start)
	case l.ch == '\'':
		return l.readChar_(start)
	case unicode.IsDigit(l.ch):
		return l.readNumber(start)
	case l.ch == '_' && !isIdentCont(l.peekChar()):
		l.readChar()
		return l.tok(UNDERSCORE, "_", start), nil
	case (l.ch >= 'a' && l.ch <= 'z') || l.ch == '_':
		return l.readLowerIdent(start)
	case l.ch >= 'A' && l.ch <= 'Z':
		return l.readUpperIdent(start)
	}

	if tt, width, ok := matchGlyphOrPunct(l); ok {
		text := l.input[l.position : l.position+width]
		for i := 0; i < runeCountWidth(text); i++ {
			l.readChar()
		}
		return l.tok(tt, text, start), nil
	}

	bad := l.ch
	l.readChar()
	return Token{}, diag.Wrap(diag.New(diag.LexUnknownCodepoint, diag.PhaseLex,
		"unknown codepoint "+quoteRune(bad)).WithLocation(l.loc(start)))
}

func (l *Lexer) tok(tt TokenType, text string, start Pos) Token {
	return Token{Type: tt, Text: text, Start: start, End: l.pos()}
}

func isIdentCont(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func runeCountWidth(s string) int { return utf8.RuneCountInString(s) }

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '⟦' {
			if err := l.skipComment(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// skipComment strips a possibly-nested ⟦ ... ⟧ comment entirely (§4.3).
func (l *Lexer) skipComment() error {
	start := l.pos()
	depth := 0
	for {
		if l.ch == 0 {
			return diag.Wrap(diag.New(diag.LexUnterminatedComment, diag.PhaseLex,
				"unterminated ⟦ ⟧ comment").WithLocation(l.loc(start)))
		}
		if l.ch == '⟦' {
			depth++
			l.readChar()
			continue
		}
		if l.ch == '⟧' {
			depth--
			l.readChar()
			if depth == 0 {
				return nil
			}
			continue
		}
		l.readChar()
	}
}

func (l *Lexer) readString(start Pos) (Token, error) {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for {
		if l.ch == 0 || l.ch == '\n' {
			return Token{}, diag.Wrap(diag.New(diag.LexUnterminatedString, diag.PhaseLex,
				"unterminated string literal").WithLocation(l.loc(start)))
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			esc, err := l.readEscape(start)
			if err != nil {
				return Token{}, err
			}
			sb.WriteRune(esc)
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return l.tok(STRING, sb.String(), start), nil
}

func (l *Lexer) readChar_(start Pos) (Token, error) {
	l.readChar() // consume opening quote
	if l.ch == '\'' {
		return Token{}, diag.Wrap(diag.New(diag.LexEmptyChar, diag.PhaseLex,
			"empty char literal").WithLocation(l.loc(start)))
	}

	var value rune
	if l.ch == '\\' {
		l.readChar()
		esc, err := l.readEscape(start)
		if err != nil {
			return Token{}, err
		}
		value = esc
	} else {
		value = l.ch
		l.readChar()
	}

	if l.ch != '\'' {
		return Token{}, diag.Wrap(diag.New(diag.LexMultiCodepointChar, diag.PhaseLex,
			"char literal must contain exactly one codepoint").WithLocation(l.loc(start)))
	}
	l.readChar() // consume closing quote
	return l.tok(CHAR, string(value), start), nil
}

func (l *Lexer) readEscape(start Pos) (rune, error) {
	switch l.ch {
	case 'n':
		l.readChar()
		return '\n', nil
	case 't':
		l.readChar()
		return '\t', nil
	case 'r':
		l.readChar()
		return '\r', nil
	case '\\':
		l.readChar()
		return '\\', nil
	case '"':
		l.readChar()
		return '"', nil
	case '\'':
		l.readChar()
		return '\'', nil
	default:
		bad := l.ch
		return 0, diag.Wrap(diag.New(diag.LexUnknownEscape, diag.PhaseLex,
			"unknown escape sequence \\"+string(bad)).WithLocation(l.loc(start)))
	}
}

func (l *Lexer) readNumber(start Pos) (Token, error) {
	var sb strings.Builder
	for unicode.IsDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		sb.WriteRune(l.ch)
		l.readChar()
		for unicode.IsDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return l.tok(FLOAT, sb.String(), start), nil
	}
	return l.tok(INT, sb.String(), start), nil
}

func (l *Lexer) readLowerIdent(start Pos) (Token, error) {
	var sb strings.Builder
	for isIdentCont(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	word := sb.String()
	switch word {
	case "true":
		return l.tok(TRUE, word, start), nil
	case "false":
		return l.tok(FALSE, word, start), nil
	}
	return l.tok(LookupIdent(word), word, start), nil
}

func (l *Lexer) readUpperIdent(start Pos) (Token, error) {
	var sb strings.Builder
	for isIdentCont(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return l.tok(IDENT_UPPER, sb.String(), start), nil
}

// matchGlyphOrPunct tries every remaining fixed-alphabet token (glyphs,
// type glyphs, ASCII punctuation/operators, two-char pipelines) starting at
// the lexer's current rune. It reports the matched token kind and the
// matched text's byte width without consuming input; the caller advances.
func matchGlyphOrPunct(l *Lexer) (TokenType, int, bool) {
	ch := l.ch
	two := string(ch) + string(l.peekChar())

	switch two {
	case "|>":
		return PIPE_FWD, len(two), true
	case ">>":
		return COMPOSE, len(two), true
	case "<<":
		return COMPOSE_REV, len(two), true
	case "==":
		return EQ, len(two), true
	case "..":
		return DOTDOT, len(two), true
	}

	switch ch {
	case 'λ':
		return LAMBDA, len(string(ch)), true
	case '→':
		return ARROW, len(string(ch)), true
	case '≡':
		return EQUIV, len(string(ch)), true
	case '↦':
		return MAPSTO, len(string(ch)), true
	case '⊳':
		return FILTER, len(string(ch)), true
	case '⊕':
		return FOLD, len(string(ch)), true
	case '⋅':
		return NSDOT, len(string(ch)), true
	case '∧':
		return AND, len(string(ch)), true
	case '∨':
		return OR, len(string(ch)), true
	case '¬':
		return NOT, len(string(ch)), true
	case '≠':
		return NEQ, len(string(ch)), true
	case '≤':
		return LTE, len(string(ch)), true
	case '≥':
		return GTE, len(string(ch)), true
	case '⧺':
		return CONCAT, len(string(ch)), true
	case '⊤':
		return TOPLIT, len(string(ch)), true
	case '⊥':
		return BOTLIT, len(string(ch)), true
	case 'ℤ':
		return TY_INT, len(string(ch)), true
	case 'ℝ':
		return TY_REAL, len(string(ch)), true
	case '𝔹':
		return TY_BOOL, len(string(ch)), true
	case '𝕊':
		return TY_STRING, len(string(ch)), true
	case 'ℂ':
		return TY_CHAR, len(string(ch)), true
	case '𝕌':
		return TY_UNIT, len(string(ch)), true
	case '∅':
		return TY_EMPTY, len(string(ch)), true
	case '+':
		return PLUS, 1, true
	case '-':
		return MINUS, 1, true
	case '*':
		return STAR, 1, true
	case '/':
		return SLASH, 1, true
	case '%':
		return PERCENT, 1, true
	case '=':
		return ASSIGN, 1, true
	case '<':
		return LT, 1, true
	case '>':
		return GT, 1, true
	case '(':
		return LPAREN, 1, true
	case ')':
		return RPAREN, 1, true
	case '[':
		return LBRACKET, 1, true
	case ']':
		return RBRACKET, 1, true
	case '{':
		return LBRACE, 1, true
	case '}':
		return RBRACE, 1, true
	case ':':
		return COLON, 1, true
	case ';':
		return SEMICOLON, 1, true
	case ',':
		return COMMA, 1, true
	case '.':
		return DOT, 1, true
	case '|':
		return PIPE, 1, true
	case '!':
		return BANG, 1, true
	case '&':
		return AMP, 1, true
	case '#':
		return HASH, 1, true
	}
	return ILLEGAL, 0, false
}
