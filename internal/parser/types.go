package parser

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

func (p *Parser) parseType() (ast.Type, error) {
	start := p.cur()
	switch p.cur().Type {
	case lexer.TY_INT:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimInt, SpanVal: p.span(start)}, nil
	case lexer.TY_REAL:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimFloat, SpanVal: p.span(start)}, nil
	case lexer.TY_BOOL:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimBool, SpanVal: p.span(start)}, nil
	case lexer.TY_STRING:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimString, SpanVal: p.span(start)}, nil
	case lexer.TY_CHAR:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimChar, SpanVal: p.span(start)}, nil
	case lexer.TY_UNIT:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimUnit, SpanVal: p.span(start)}, nil
	case lexer.LBRACKET:
		return p.parseListType(start)
	case lexer.LBRACE:
		return p.parseMapType(start)
	case lexer.LAMBDA:
		return p.parseFuncType(start)
	case lexer.LPAREN:
		return p.parseTupleType(start)
	case lexer.IDENT_UPPER:
		return p.parseNamedType(start)
	case lexer.IDENT_LOWER:
		return p.parseTypeVarOrQualified(start)
	default:
		return nil, p.errUnexpected("a type")
	}
}

func (p *Parser) parseListType(start lexer.Token) (*ast.ListType, error) {
	p.advance() // '['
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACKET, diag.ParseMissingBrace, "']'"); err != nil {
		return nil, err
	}
	return &ast.ListType{Elem: elem, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseMapType(start lexer.Token) (*ast.MapType, error) {
	p.advance() // '{'
	key, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, diag.ParseMissingColon, "':'"); err != nil {
		return nil, err
	}
	val, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.MapType{Key: key, Value: val, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseFuncType(start lexer.Token) (*ast.FuncType, error) {
	p.advance() // 'λ'
	if _, err := p.expect(lexer.LPAREN, diag.ParseMissingParen, "'('"); err != nil {
		return nil, err
	}
	var params []ast.Type
	if !p.at(lexer.RPAREN) {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, t)
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
	effects, err := p.parseOptionalEffects()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ARROW, diag.ParseMissingArrow, "'→'"); err != nil {
		return nil, err
	}
	result, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.FuncType{Params: params, Effects: effects, Result: result, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseTupleType(start lexer.Token) (ast.Type, error) {
	p.advance() // '('
	var elems []ast.Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'"); err != nil {
		return nil, err
	}
	return &ast.TupleType{Elems: elems, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseNamedType(start lexer.Token) (*ast.NamedType, error) {
	name := p.advance()
	var args []ast.Type
	if p.at(lexer.LBRACKET) {
		p.advance()
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RBRACKET, diag.ParseMissingBrace, "']'"); err != nil {
			return nil, err
		}
	}
	return &ast.NamedType{Name: name.Text, Args: args, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseTypeVarOrQualified(start lexer.Token) (ast.Type, error) {
	first := p.advance()
	if !p.at(lexer.NSDOT) {
		return &ast.TypeVar{Name: first.Text, SpanVal: p.span(start)}, nil
	}
	p.advance() // '⋅'
	name, err := p.expect(lexer.IDENT_UPPER, diag.ParseUnexpectedToken, "qualified type name")
	if err != nil {
		return nil, err
	}
	var args []ast.Type
	if p.at(lexer.LBRACKET) {
		p.advance()
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RBRACKET, diag.ParseMissingBrace, "']'"); err != nil {
			return nil, err
		}
	}
	return &ast.QualifiedType{Module: first.Text, Name: name.Text, Args: args, SpanVal: p.span(start)}, nil
}
