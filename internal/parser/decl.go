package parser

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

func (p *Parser) parseDecl() (ast.Decl, error) {
	start := p.cur()
	exported := false
	if p.at(lexer.KW_EXPORT) {
		p.advance()
		exported = true
	}

	switch p.cur().Type {
	case lexer.KW_TYPE:
		return p.parseTypeDecl(start, exported)
	case lexer.KW_EXTERN:
		return p.parseExternDecl(start)
	case lexer.KW_IMPORT:
		return p.parseImportDecl(start)
	case lexer.KW_CONST:
		return p.parseConstDecl(start, exported)
	case lexer.LAMBDA:
		return p.parseFunctionDecl(start, exported)
	case lexer.KW_MOCKABLE:
		p.advance()
		return p.parseFunctionDecl(start, exported, withMockable())
	case lexer.KW_TEST:
		return p.parseTestDecl(start)
	default:
		return nil, p.errUnexpected("a declaration (type, extern, import, const, function, or test)")
	}
}

func (p *Parser) parseTypeDecl(start lexer.Token, exported bool) (*ast.TypeDecl, error) {
	p.advance() // 't'
	name, err := p.expect(lexer.IDENT_UPPER, diag.ParseUnexpectedToken, "type name")
	if err != nil {
		return nil, err
	}

	var params []string
	if p.at(lexer.LBRACKET) {
		p.advance()
		for {
			tp, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "type parameter")
			if err != nil {
				return nil, err
			}
			params = append(params, tp.Text)
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

	if _, err := p.expect(lexer.EQUIV, diag.ParseUnexpectedToken, "'≡'"); err != nil {
		return nil, err
	}

	def, err := p.parseTypeDef()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.SEMICOLON, diag.ParseUnexpectedToken, "';'"); err != nil {
		return nil, err
	}

	return &ast.TypeDecl{Name: name.Text, Exported: exported, TypeParams: params, Def: def, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseTypeDef() (ast.TypeDef, error) {
	start := p.cur()
	if !p.at(lexer.LBRACE) {
		// Alias: a bare type reference.
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.TypeAlias{Aliased: t, SpanVal: p.span(start)}, nil
	}

	// Disambiguate sum vs. product by looking at what follows the first
	// identifier inside the braces: a product field is `name : Type`, a
	// sum variant is `Name` or `Name(Type, ...)`.
	if p.peek().Type == lexer.IDENT_LOWER || (p.peek().Type == lexer.COLON) {
		return p.parseProductType(start)
	}
	return p.parseSumType(start)
}

func (p *Parser) parseSumType(start lexer.Token) (*ast.SumType, error) {
	p.advance() // '{'
	var variants []ast.Variant
	for {
		name, err := p.expect(lexer.IDENT_UPPER, diag.ParseUnexpectedToken, "variant name")
		if err != nil {
			return nil, err
		}
		var types []ast.Type
		if p.at(lexer.LPAREN) {
			p.advance()
			if !p.at(lexer.RPAREN) {
				for {
					t, err := p.parseType()
					if err != nil {
						return nil, err
					}
					types = append(types, t)
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
		variants = append(variants, ast.Variant{Name: name.Text, Types: types})
		if p.at(lexer.PIPE) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.SumType{Variants: variants, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseProductType(start lexer.Token) (*ast.ProductType, error) {
	p.advance() // '{'
	var fields []ast.Field
	for {
		name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, diag.ParseMissingColon, "':'"); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Field{Name: name.Text, Type: t})
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.ProductType{Fields: fields, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseNamespacePath() ([]string, error) {
	var segs []string
	first, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "namespace segment")
	if err != nil {
		return nil, err
	}
	segs = append(segs, first.Text)
	for p.at(lexer.NSDOT) {
		p.advance()
		seg, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "namespace segment")
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg.Text)
	}
	// A stray '.' or '/' where '⋅' was expected is a dedicated diagnostic
	// with a fix hint (§4.4).
	if p.at(lexer.DOT) || p.at(lexer.SLASH) {
		tok := p.cur()
		return nil, diag.Wrap(diag.New(diag.ParseBadNamespaceSep, diag.PhaseParse,
			"namespace path must use '⋅'").
			WithLocation(p.loc(tok)).
			WithFixits(diag.Fixit{File: p.file, Offset: tok.Start.Offset, EndOffset: tok.End.Offset, Replacement: "⋅"}))
	}
	return segs, nil
}

func (p *Parser) parseImportDecl(start lexer.Token) (*ast.ImportDecl, error) {
	p.advance() // 'i'
	segs, err := p.parseNamespacePath()
	if err != nil {
		return nil, err
	}
	if segs[0] != "src" && segs[0] != "stdlib" {
		return nil, diag.Wrap(diag.New(diag.ParseBadImportKeyword, diag.PhaseParse,
			"import path must begin with 'src' or 'stdlib'").
			WithLocation(p.loc(start)).WithFoundExpected(segs[0], "src|stdlib"))
	}
	if _, err := p.expect(lexer.SEMICOLON, diag.ParseUnexpectedToken, "';'"); err != nil {
		return nil, err
	}
	return &ast.ImportDecl{Segments: segs, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseExternDecl(start lexer.Token) (*ast.ExternDecl, error) {
	p.advance() // 'e'
	segs, err := p.parseNamespacePath()
	if err != nil {
		return nil, err
	}
	var members []ast.ExternMember
	if p.at(lexer.LBRACE) {
		p.advance()
		if !p.at(lexer.RBRACE) {
			for {
				name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "extern member name")
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(lexer.COLON, diag.ParseMissingColon, "':'"); err != nil {
					return nil, err
				}
				t, err := p.parseType()
				if err != nil {
					return nil, err
				}
				members = append(members, ast.ExternMember{Name: name.Text, Type: t})
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
	}
	if _, err := p.expect(lexer.SEMICOLON, diag.ParseUnexpectedToken, "';'"); err != nil {
		return nil, err
	}
	return &ast.ExternDecl{Segments: segs, Members: members, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseConstDecl(start lexer.Token, exported bool) (*ast.ConstDecl, error) {
	p.advance() // 'c'
	name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "const name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN, diag.ParseUnexpectedToken, "'='"); err != nil {
		return nil, err
	}
	if !p.at(lexer.LPAREN) {
		return nil, diag.Wrap(diag.New(diag.ParseBadConstSyntax, diag.PhaseParse,
			"const declaration missing type ascription; use c "+name.Text+"=(value : T)").
			WithLocation(p.loc(p.cur())))
	}
	p.advance() // '('
	value, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, diag.ParseMissingColon, "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON, diag.ParseUnexpectedToken, "';'"); err != nil {
		return nil, err
	}
	return &ast.ConstDecl{Name: name.Text, Exported: exported, TypeAnn: typ, Value: value, SpanVal: p.span(start)}, nil
}

type funcOpt func(*funcOpts)
type funcOpts struct{ mockable bool }

func withMockable() funcOpt { return func(o *funcOpts) { o.mockable = true } }

func (p *Parser) parseFunctionDecl(start lexer.Token, exported bool, opts ...funcOpt) (*ast.FunctionDecl, error) {
	var o funcOpts
	for _, f := range opts {
		f(&o)
	}
	p.advance() // 'λ'
	name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	effects, err := p.parseOptionalEffects()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ARROW, diag.ParseMissingArrow, "'→'"); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{
		Name: name.Text, Exported: exported, Mockable: o.mockable,
		Params: params, Effects: effects, ReturnType: retType, Body: body,
		SpanVal: p.span(start),
	}, nil
}

// parseFunctionBody accepts either `=expr` or a bare match expression
// (which itself starts with '≡'), matching the two forms shown in spec.md
// §8's worked examples.
func (p *Parser) parseFunctionBody() (ast.Expr, error) {
	if p.at(lexer.ASSIGN) {
		p.advance()
		return p.parseExpr(LOWEST)
	}
	if p.at(lexer.EQUIV) {
		return p.parseMatch()
	}
	return nil, p.errUnexpected("'=' or '≡'")
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.expect(lexer.LPAREN, diag.ParseMissingParen, "'('"); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.at(lexer.RPAREN) {
		for {
			mut := false
			if p.at(lexer.KW_MUT) {
				p.advance()
				mut = true
			}
			name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, diag.ParseMissingColon, "':'"); err != nil {
				return nil, err
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: name.Text, Type: t, Mut: mut})
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
	return params, nil
}

func (p *Parser) parseOptionalEffects() ([]string, error) {
	if !p.at(lexer.BANG) {
		return nil, nil
	}
	p.advance()
	var effects []string
	for {
		e, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "effect label")
		if err != nil {
			return nil, err
		}
		effects = append(effects, e.Text)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return effects, nil
}

func (p *Parser) parseTestDecl(start lexer.Token) (*ast.TestDecl, error) {
	p.advance() // 'test'
	desc, err := p.expect(lexer.STRING, diag.ParseUnexpectedToken, "test description string")
	if err != nil {
		return nil, err
	}
	effects, err := p.parseOptionalEffects()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN, diag.ParseUnexpectedToken, "'='"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON, diag.ParseUnexpectedToken, "';'"); err != nil {
		return nil, err
	}
	return &ast.TestDecl{Description: desc.Text, Effects: effects, Body: body, SpanVal: p.span(start)}, nil
}
