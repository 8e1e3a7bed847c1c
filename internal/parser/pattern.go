package parser

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

func (p *Parser) parsePattern() (ast.Pattern, error) {
	start := p.cur()
	switch p.cur().Type {
	case lexer.UNDERSCORE:
		p.advance()
		return &ast.WildcardPattern{SpanVal: p.span(start)}, nil
	case lexer.INT:
		v, err := intOfText(p.advance().Text)
		if err != nil {
			return nil, diag.Wrap(diag.New(diag.LexInvalidNumber, diag.PhaseLex, "invalid integer literal").WithLocation(p.loc(start)))
		}
		return &ast.LitPattern{Kind: ast.LitInt, Value: v, SpanVal: p.span(start)}, nil
	case lexer.FLOAT:
		v, err := floatOfText(p.advance().Text)
		if err != nil {
			return nil, diag.Wrap(diag.New(diag.LexInvalidNumber, diag.PhaseLex, "invalid float literal").WithLocation(p.loc(start)))
		}
		return &ast.LitPattern{Kind: ast.LitFloat, Value: v, SpanVal: p.span(start)}, nil
	case lexer.STRING:
		return &ast.LitPattern{Kind: ast.LitString, Value: p.advance().Text, SpanVal: p.span(start)}, nil
	case lexer.CHAR:
		return &ast.LitPattern{Kind: ast.LitChar, Value: p.advance().Text, SpanVal: p.span(start)}, nil
	case lexer.TRUE, lexer.TOPLIT:
		p.advance()
		return &ast.LitPattern{Kind: ast.LitBool, Value: true, SpanVal: p.span(start)}, nil
	case lexer.FALSE, lexer.BOTLIT:
		p.advance()
		return &ast.LitPattern{Kind: ast.LitBool, Value: false, SpanVal: p.span(start)}, nil
	case lexer.IDENT_LOWER:
		p.advance()
		return &ast.IdentPattern{Name: start.Text, SpanVal: p.span(start)}, nil
	case lexer.IDENT_UPPER:
		return p.parseCtorPattern(start)
	case lexer.LBRACKET:
		return p.parseListPattern(start)
	case lexer.LBRACE:
		return p.parseRecordPattern(start)
	case lexer.LPAREN:
		return p.parseTuplePattern(start)
	default:
		return nil, p.errUnexpected("a pattern")
	}
}

func (p *Parser) parseCtorPattern(start lexer.Token) (*ast.CtorPattern, error) {
	name := p.advance()
	var args []ast.Pattern
	if p.at(lexer.LPAREN) {
		p.advance()
		if !p.at(lexer.RPAREN) {
			for {
				arg, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.at(lexer.COMMA) {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'"); err != nil {
			return nil, err
		}
	}
	return &ast.CtorPattern{Name: name.Text, Args: args, SpanVal: p.span(start)}, nil
}

// parseListPattern parses `[]`, `[x, y]`, or `[x ⧺ rest]`. A canonical rest
// pattern always uses `⧺`; consecutive wildcards (e.g. `[_, _]` used to mean
// "any two elements, ignore both") are rejected at the canonical-form layer,
// not here (§4.5).
func (p *Parser) parseListPattern(start lexer.Token) (*ast.ListPattern, error) {
	p.advance() // '['
	var elems []ast.Pattern
	var rest ast.Pattern
	if !p.at(lexer.RBRACKET) {
		for {
			el, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if p.at(lexer.CONCAT) {
				p.advance()
				r, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				rest = r
				break
			}
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBRACKET, diag.ParseMissingBrace, "']'"); err != nil {
		return nil, err
	}
	return &ast.ListPattern{Elems: elems, Rest: rest, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseRecordPattern(start lexer.Token) (*ast.RecordPattern, error) {
	p.advance() // '{'
	var fields []ast.RecordFieldPattern
	if !p.at(lexer.RBRACE) {
		for {
			name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "record field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, diag.ParseMissingColon, "':'"); err != nil {
				return nil, err
			}
			val, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordFieldPattern{Name: name.Text, Pattern: val})
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.RecordPattern{Fields: fields, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseTuplePattern(start lexer.Token) (*ast.TuplePattern, error) {
	p.advance() // '('
	var elems []ast.Pattern
	for {
		el, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'"); err != nil {
		return nil, err
	}
	return &ast.TuplePattern{Elems: elems, SpanVal: p.span(start)}, nil
}
