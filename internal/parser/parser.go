// Package parser implements the recursive-descent parser (C4): it consumes
// a token stream from internal/lexer and produces an internal/ast.Program,
// one token of lookahead at a time, never reordering declarations.
package parser

import (
	"strconv"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

// Precedence levels, lowest to highest. Map/filter/fold are not generic
// binary operators (§4.4) and are parsed at a dedicated level just above
// pipelines so their arity laws (fold needs fn *and* init) stay intact.
const (
	LOWEST int = iota
	PIPELINE
	TRANSFORM // ↦ ⊳ ⊕
	LOGICAL_OR
	LOGICAL_AND
	EQUALITY
	COMPARISON
	CONCAT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX // call, field, index, namespace member
)

var precedences = map[lexer.TokenType]int{
	lexer.PIPE_FWD:    PIPELINE,
	lexer.COMPOSE:     PIPELINE,
	lexer.COMPOSE_REV: PIPELINE,
	lexer.MAPSTO:      TRANSFORM,
	lexer.FILTER:      TRANSFORM,
	lexer.FOLD:        TRANSFORM,
	lexer.OR:          LOGICAL_OR,
	lexer.AND:         LOGICAL_AND,
	lexer.EQ:          EQUALITY,
	lexer.NEQ:         EQUALITY,
	lexer.LT:          COMPARISON,
	lexer.GT:          COMPARISON,
	lexer.LTE:         COMPARISON,
	lexer.GTE:         COMPARISON,
	lexer.CONCAT:      CONCAT,
	lexer.PLUS:        ADDITIVE,
	lexer.MINUS:       ADDITIVE,
	lexer.STAR:        MULTIPLICATIVE,
	lexer.SLASH:       MULTIPLICATIVE,
	lexer.PERCENT:     MULTIPLICATIVE,
	lexer.LPAREN:      POSTFIX,
	lexer.LBRACKET:    POSTFIX,
	lexer.DOT:         POSTFIX,
	lexer.NSDOT:       POSTFIX,
}

type (
	prefixParseFn func() (ast.Expr, error)
	infixParseFn  func(ast.Expr) (ast.Expr, error)
)

// Parser turns a token stream into an ast.Program. It stops at the first
// syntax error (§4.1, §7): there is no error-recovery list, matching the
// pipeline's short-circuit propagation policy.
type Parser struct {
	toks   []lexer.Token
	pos    int
	file   string
	prefix map[lexer.TokenType]prefixParseFn
	infix  map[lexer.TokenType]infixParseFn
}

// New builds a Parser over a complete token stream (as produced by
// lexer.Lexer.Tokenize), ending in an EOF token.
func New(toks []lexer.Token, filename string) *Parser {
	p := &Parser{toks: toks, file: filename}

	p.prefix = map[lexer.TokenType]prefixParseFn{
		lexer.INT:         p.parseIntLit,
		lexer.FLOAT:       p.parseFloatLit,
		lexer.STRING:      p.parseStringLit,
		lexer.CHAR:        p.parseCharLit,
		lexer.TRUE:        p.parseBoolLit,
		lexer.FALSE:       p.parseBoolLit,
		lexer.TOPLIT:      p.parseBoolLit,
		lexer.BOTLIT:      p.parseBoolLit,
		lexer.IDENT_LOWER: p.parseIdentOrMember,
		lexer.IDENT_UPPER: p.parseIdentOrMember,
		lexer.LAMBDA:      p.parseLambda,
		lexer.EQUIV:       p.parseMatch,
		lexer.KW_LET:      p.parseLet,
		lexer.KW_WHEN:     p.parseIf,
		lexer.LPAREN:      p.parseParenOrTuple,
		lexer.LBRACKET:    p.parseListLit,
		lexer.LBRACE:      p.parseRecordLit,
		lexer.NOT:         p.parseUnary,
		lexer.MINUS:       p.parseUnary,
		lexer.HASH:        p.parseUnary,
		lexer.KW_WITH_MOCK: p.parseWithMock,
	}

	p.infix = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:        p.parseBinary,
		lexer.MINUS:       p.parseBinary,
		lexer.STAR:        p.parseBinary,
		lexer.SLASH:       p.parseBinary,
		lexer.PERCENT:     p.parseBinary,
		lexer.EQ:          p.parseBinary,
		lexer.NEQ:         p.parseBinary,
		lexer.LT:          p.parseBinary,
		lexer.GT:          p.parseBinary,
		lexer.LTE:         p.parseBinary,
		lexer.GTE:         p.parseBinary,
		lexer.AND:         p.parseBinary,
		lexer.OR:          p.parseBinary,
		lexer.CONCAT:      p.parseBinary,
		lexer.PIPE_FWD:    p.parsePipeline,
		lexer.COMPOSE:     p.parsePipeline,
		lexer.COMPOSE_REV: p.parsePipeline,
		lexer.MAPSTO:      p.parseMap,
		lexer.FILTER:      p.parseFilter,
		lexer.FOLD:        p.parseFold,
		lexer.LPAREN:      p.parseCall,
		lexer.LBRACKET:    p.parseIndex,
		lexer.DOT:         p.parseFieldAccess,
	}

	return p
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}
func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) loc(tok lexer.Token) diag.Location {
	return diag.Location{File: p.file, Line: tok.Start.Line, Column: tok.Start.Column, Offset: tok.Start.Offset}
}

func (p *Parser) errUnexpected(want string) error {
	tok := p.cur()
	return diag.Wrap(diag.New(diag.ParseUnexpectedToken, diag.PhaseParse,
		"unexpected token "+tok.Type.String()).
		WithLocation(p.loc(tok)).
		WithFoundExpected(tok.Text, want))
}

func (p *Parser) expect(tt lexer.TokenType, code, want string) (lexer.Token, error) {
	if !p.at(tt) {
		tok := p.cur()
		return tok, diag.Wrap(diag.New(code, diag.PhaseParse, "expected "+want).
			WithLocation(p.loc(tok)).
			WithFoundExpected(tok.Text, want))
	}
	return p.advance(), nil
}

func (p *Parser) span(start lexer.Token) ast.Span {
	end := p.toks[p.pos]
	if p.pos > 0 {
		end = p.toks[p.pos-1]
	}
	return ast.Span{
		Start: ast.Pos{Line: start.Start.Line, Column: start.Start.Column, Offset: start.Start.Offset, File: p.file},
		End:   ast.Pos{Line: end.End.Line, Column: end.End.Column, Offset: end.End.Offset, File: p.file},
	}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.cur().Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a Program. Declarations
// parse in source order; the parser never reorders them (§4.4).
func (p *Parser) ParseProgram() (*ast.Program, error) {
	start := p.cur()
	var decls []ast.Decl
	for !p.at(lexer.EOF) {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return &ast.Program{Decls: decls, SpanVal: p.span(start), FilePath: p.file}, nil
}

func intOfText(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}

func floatOfText(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}
