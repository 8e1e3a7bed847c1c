package parser

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

func (p *Parser) parseExpr(precedence int) (ast.Expr, error) {
	prefix, ok := p.prefix[p.cur().Type]
	if !ok {
		return nil, p.errUnexpected("an expression")
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for precedence < p.peekPrecedence() {
		infix, ok := p.infix[p.cur().Type]
		if !ok {
			return left, nil
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseIntLit() (ast.Expr, error) {
	tok := p.advance()
	v, err := intOfText(tok.Text)
	if err != nil {
		return nil, diag.Wrap(diag.New(diag.LexInvalidNumber, diag.PhaseLex, "invalid integer literal").WithLocation(p.loc(tok)))
	}
	return &ast.Literal{Kind: ast.LitInt, Value: v, SpanVal: ast.Span{Start: p.posOf(tok.Start), End: p.posOf(tok.End)}}, nil
}

func (p *Parser) parseFloatLit() (ast.Expr, error) {
	tok := p.advance()
	v, err := floatOfText(tok.Text)
	if err != nil {
		return nil, diag.Wrap(diag.New(diag.LexInvalidNumber, diag.PhaseLex, "invalid float literal").WithLocation(p.loc(tok)))
	}
	return &ast.Literal{Kind: ast.LitFloat, Value: v, SpanVal: ast.Span{Start: p.posOf(tok.Start), End: p.posOf(tok.End)}}, nil
}

func (p *Parser) parseStringLit() (ast.Expr, error) {
	tok := p.advance()
	return &ast.Literal{Kind: ast.LitString, Value: tok.Text, SpanVal: ast.Span{Start: p.posOf(tok.Start), End: p.posOf(tok.End)}}, nil
}

func (p *Parser) parseCharLit() (ast.Expr, error) {
	tok := p.advance()
	return &ast.Literal{Kind: ast.LitChar, Value: tok.Text, SpanVal: ast.Span{Start: p.posOf(tok.Start), End: p.posOf(tok.End)}}, nil
}

func (p *Parser) parseBoolLit() (ast.Expr, error) {
	tok := p.advance()
	v := tok.Type == lexer.TRUE || tok.Type == lexer.TOPLIT
	return &ast.Literal{Kind: ast.LitBool, Value: v, SpanVal: ast.Span{Start: p.posOf(tok.Start), End: p.posOf(tok.End)}}, nil
}

func (p *Parser) posOf(pos lexer.Pos) ast.Pos {
	return ast.Pos{Line: pos.Line, Column: pos.Column, Offset: pos.Offset, File: p.file}
}

// parseIdentOrMember parses a bare identifier, or, when followed by '⋅', a
// namespace member access `m⋅name` (§4.6 member access rule).
func (p *Parser) parseIdentOrMember() (ast.Expr, error) {
	start := p.cur()
	name := p.advance()
	if p.at(lexer.NSDOT) {
		p.advance()
		member, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "member name")
		if err != nil {
			return nil, err
		}
		return &ast.MemberAccess{Namespace: name.Text, Name: member.Text, SpanVal: p.span(start)}, nil
	}
	return &ast.Ident{Name: name.Text, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	start := p.cur()
	p.advance() // 'λ'
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
	return &ast.Lambda{Params: params, Effects: effects, ReturnType: retType, Body: body, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseMatch() (ast.Expr, error) {
	start := p.cur()
	p.advance() // '≡'
	scrutinee, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, diag.ParseMissingBrace, "'{'"); err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	for {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard ast.Expr
		if p.at(lexer.KW_WHEN) {
			p.advance()
			guard, err = p.parseExpr(LOWEST)
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.ARROW, diag.ParseMissingArrow, "'→'"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr(LOWEST)
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.at(lexer.PIPE) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.Match{Scrutinee: scrutinee, Arms: arms, SpanVal: p.span(start)}, nil
}

// parseLet parses `l name=(value : T); body` (§4.4).
func (p *Parser) parseLet() (ast.Expr, error) {
	start := p.cur()
	p.advance() // 'l'
	name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "let-bound name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN, diag.ParseUnexpectedToken, "'='"); err != nil {
		return nil, err
	}
	if !p.at(lexer.LPAREN) {
		return nil, diag.Wrap(diag.New(diag.ParseBadLetSyntax, diag.PhaseParse,
			"let binding missing type ascription; use l "+name.Text+"=(value : T); body").
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
	body, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.Let{
		Pattern: &ast.IdentPattern{Name: name.Text, SpanVal: p.span(start)},
		TypeAnn: typ, Value: value, Body: body, SpanVal: p.span(start),
	}, nil
}

// parseIf parses `when cond { then } | { else }`; the else clause is
// optional only when the then-branch synthesises 𝕌 (checked by C6, not
// here; §4.6).
func (p *Parser) parseIf() (ast.Expr, error) {
	start := p.cur()
	p.advance() // 'when'
	cond, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, diag.ParseMissingBrace, "'{'"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
		return nil, err
	}
	var elseExpr ast.Expr
	if p.at(lexer.PIPE) {
		p.advance()
		if _, err := p.expect(lexer.LBRACE, diag.ParseMissingBrace, "'{'"); err != nil {
			return nil, err
		}
		elseExpr, err = p.parseExpr(LOWEST)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: then, Else: elseExpr, SpanVal: p.span(start)}, nil
}

// parseParenOrTuple disambiguates a grouped expression `(e)` from a tuple
// literal `(e1, e2, ...)` by the presence of a comma.
func (p *Parser) parseParenOrTuple() (ast.Expr, error) {
	start := p.cur()
	p.advance() // '('
	if p.at(lexer.RPAREN) {
		end := p.advance()
		return &ast.Literal{Kind: ast.LitUnit, Value: nil, SpanVal: ast.Span{Start: p.posOf(start.Start), End: p.posOf(end.End)}}, nil
	}
	first, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if p.at(lexer.COMMA) {
		elems := []ast.Expr{first}
		for p.at(lexer.COMMA) {
			p.advance()
			e, err := p.parseExpr(LOWEST)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if _, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'"); err != nil {
			return nil, err
		}
		return &ast.TupleLit{Elems: elems, SpanVal: p.span(start)}, nil
	}
	if _, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'"); err != nil {
		return nil, err
	}
	return first, nil
}

func (p *Parser) parseListLit() (ast.Expr, error) {
	start := p.cur()
	p.advance() // '['
	var elems []ast.Expr
	if !p.at(lexer.RBRACKET) {
		for {
			e, err := p.parseExpr(LOWEST)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
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
	return &ast.ListLit{Elems: elems, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseRecordLit() (ast.Expr, error) {
	start := p.cur()
	p.advance() // '{'
	var fields []ast.RecordField
	if !p.at(lexer.RBRACE) {
		for {
			name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "record field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.ASSIGN, diag.ParseUnexpectedToken, "'='"); err != nil {
				return nil, err
			}
			val, err := p.parseExpr(LOWEST)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordField{Name: name.Text, Value: val})
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
	return &ast.RecordLit{Fields: fields, SpanVal: p.span(start)}, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	start := p.cur()
	tok := p.advance()
	var op ast.UnOp
	switch tok.Type {
	case lexer.NOT:
		op = ast.OpNot
	case lexer.MINUS:
		op = ast.OpNeg
	case lexer.HASH:
		op = ast.OpLen
	}
	operand, err := p.parseExpr(UNARY)
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Op: op, Operand: operand, SpanVal: p.span(start)}, nil
}

var binOps = map[lexer.TokenType]ast.BinOp{
	lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub, lexer.STAR: ast.OpMul,
	lexer.SLASH: ast.OpDiv, lexer.PERCENT: ast.OpMod,
	lexer.EQ: ast.OpEq, lexer.NEQ: ast.OpNeq,
	lexer.LT: ast.OpLt, lexer.LTE: ast.OpLte, lexer.GT: ast.OpGt, lexer.GTE: ast.OpGte,
	lexer.AND: ast.OpAnd, lexer.OR: ast.OpOr, lexer.CONCAT: ast.OpConcat,
}

func (p *Parser) parseBinary(left ast.Expr) (ast.Expr, error) {
	tok := p.advance()
	prec := precedences[tok.Type]
	right, err := p.parseExpr(prec)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: binOps[tok.Type], Left: left, Right: right, SpanVal: combinedSpan(left, right)}, nil
}

func combinedSpan(left, right ast.Node) ast.Span {
	return ast.Span{Start: left.Span().Start, End: right.Span().End}
}

func (p *Parser) parsePipeline(left ast.Expr) (ast.Expr, error) {
	tok := p.advance()
	var kind ast.PipeKind
	switch tok.Type {
	case lexer.PIPE_FWD:
		kind = ast.PipeForward
	case lexer.COMPOSE:
		kind = ast.PipeCompose
	case lexer.COMPOSE_REV:
		kind = ast.PipeComposeRev
	}
	right, err := p.parseExpr(PIPELINE)
	if err != nil {
		return nil, err
	}
	return &ast.Pipeline{Kind: kind, Left: left, Right: right, SpanVal: combinedSpan(left, right)}, nil
}

func (p *Parser) parseMap(left ast.Expr) (ast.Expr, error) {
	p.advance() // '↦'
	fn, err := p.parseExpr(TRANSFORM)
	if err != nil {
		return nil, err
	}
	return &ast.MapExpr{List: left, Fn: fn, SpanVal: combinedSpan(left, fn)}, nil
}

func (p *Parser) parseFilter(left ast.Expr) (ast.Expr, error) {
	p.advance() // '⊳'
	pred, err := p.parseExpr(TRANSFORM)
	if err != nil {
		return nil, err
	}
	return &ast.FilterExpr{List: left, Pred: pred, SpanVal: combinedSpan(left, pred)}, nil
}

// parseFold parses `xs ⊕ fn ⊕ init`: fold's arity requires both the
// function and initial accumulator, separated by a second `⊕` (§4.4).
func (p *Parser) parseFold(left ast.Expr) (ast.Expr, error) {
	p.advance() // first '⊕'
	fn, err := p.parseExpr(TRANSFORM + 1)
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.FOLD) {
		return nil, diag.Wrap(diag.New(diag.ParseBadFoldArity, diag.PhaseParse,
			"fold requires fn and init separated by '⊕'").WithLocation(p.loc(p.cur())))
	}
	p.advance() // second '⊕'
	init, err := p.parseExpr(TRANSFORM)
	if err != nil {
		return nil, err
	}
	return &ast.FoldExpr{List: left, Fn: fn, Init: init, SpanVal: combinedSpan(left, init)}, nil
}

func (p *Parser) parseCall(fn ast.Expr) (ast.Expr, error) {
	p.advance() // '('
	var args []ast.Expr
	if !p.at(lexer.RPAREN) {
		for {
			a, err := p.parseExpr(LOWEST)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	end, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'")
	if err != nil {
		return nil, err
	}
	return &ast.App{Fn: fn, Args: args, SpanVal: ast.Span{Start: fn.Span().Start, End: p.posOf(end.End)}}, nil
}

func (p *Parser) parseIndex(receiver ast.Expr) (ast.Expr, error) {
	p.advance() // '['
	idx, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(lexer.RBRACKET, diag.ParseMissingBrace, "']'")
	if err != nil {
		return nil, err
	}
	return &ast.IndexAccess{Receiver: receiver, Index: idx, SpanVal: ast.Span{Start: receiver.Span().Start, End: p.posOf(end.End)}}, nil
}

func (p *Parser) parseFieldAccess(receiver ast.Expr) (ast.Expr, error) {
	p.advance() // '.'
	name, err := p.expect(lexer.IDENT_LOWER, diag.ParseUnexpectedToken, "field name")
	if err != nil {
		return nil, err
	}
	return &ast.FieldAccess{Receiver: receiver, Field: name.Text, SpanVal: ast.Span{Start: receiver.Span().Start, End: p.posOf(name.End)}}, nil
}

// parseWithMock parses `with_mock(key, replacement) { body }`.
func (p *Parser) parseWithMock() (ast.Expr, error) {
	start := p.cur()
	p.advance() // 'with_mock'
	if _, err := p.expect(lexer.LPAREN, diag.ParseMissingParen, "'('"); err != nil {
		return nil, err
	}
	key, err := p.expect(lexer.STRING, diag.ParseUnexpectedToken, "mock key string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA, diag.ParseUnexpectedToken, "','"); err != nil {
		return nil, err
	}
	replacement, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, diag.ParseMissingParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, diag.ParseMissingBrace, "'{'"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE, diag.ParseMissingBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.WithMock{Key: key.Text, Replacement: replacement, Body: body, SpanVal: p.span(start)}, nil
}
