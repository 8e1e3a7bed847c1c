package types

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// Checker carries the module-local and cross-module context needed to
// synthesize and check types over a single file's declarations (§4.6).
type Checker struct {
	Types *TypeRegistry

	// ImportedNamespaces maps an import's alias (the last segment of its
	// path, the name used in `m⋅name`) to the exported value surface of
	// that module, populated by the loader once dependency modules have
	// themselves been checked (§4.6.2, C8).
	ImportedNamespaces map[string]Namespace

	// ImportedTypeRegistries maps an import's alias to that module's type
	// registry, used to resolve QualifiedType references.
	ImportedTypeRegistries map[string]*TypeRegistry

	// Externs maps an extern member's dotted path (e.g.
	// "stdlib/io.read") to its declared signature, and also backs the
	// direct-name bindings extern members receive in Env (§6.3).
	Externs map[string]*ast.FuncType
}

// NewChecker builds a Checker over a single module's locally-declared types.
func NewChecker(reg *TypeRegistry) *Checker {
	return &Checker{
		Types:                  reg,
		ImportedNamespaces:     map[string]Namespace{},
		ImportedTypeRegistries: map[string]*TypeRegistry{},
		Externs:                map[string]*ast.FuncType{},
	}
}

func mismatch(loc diag.Location, found, expected ast.Type) error {
	return diag.Wrap(diag.New(diag.TypeMismatch, diag.PhaseType, "type mismatch").
		WithLocation(loc).
		WithFoundExpected(String(found), String(expected)))
}

func locOf(s ast.Span) diag.Location {
	return diag.Location{
		File: s.Start.File, Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset,
		EndLine: s.End.Line, EndColumn: s.End.Column, EndOffset: s.End.Offset,
	}
}

// Check verifies that e has type expected in env, the ⇐ direction of §4.6.
// Most shapes fall back to Synth plus an equality check; empty list
// literals and record literals are handled specially because Synth alone
// cannot determine their type without the context expected supplies.
func (c *Checker) Check(env *Env, e ast.Expr, expected ast.Type) error {
	switch n := e.(type) {
	case *ast.ListLit:
		if len(n.Elems) == 0 {
			if _, ok := expected.(*ast.ListType); ok {
				return nil
			}
			return mismatch(locOf(n.SpanVal), nil, expected)
		}
	case *ast.RecordLit:
		return c.checkRecordLit(env, n, expected)
	}

	got, err := c.Synth(env, e)
	if err != nil {
		return err
	}
	if !Equal(c.Types, got, expected) {
		return mismatch(locOf(e.Span()), got, expected)
	}
	return nil
}

var (
	boolType = &ast.PrimitiveType{Kind: ast.PrimBool}
	intType  = &ast.PrimitiveType{Kind: ast.PrimInt}
	unitType = &ast.PrimitiveType{Kind: ast.PrimUnit}
)

func isUnit(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PrimUnit
}

func (c *Checker) checkRecordLit(env *Env, lit *ast.RecordLit, expected ast.Type) error {
	named, ok := resolveAlias(c.Types, expected).(*ast.NamedType)
	if !ok {
		return mismatch(locOf(lit.SpanVal), nil, expected)
	}
	decl, ok := c.Types.Lookup(named.Name)
	if !ok {
		return diag.Wrap(diag.New(diag.TypeUnknownCrossModule, diag.PhaseType,
			"unknown type "+named.Name).WithLocation(locOf(lit.SpanVal)))
	}
	prod, ok := decl.Def.(*ast.ProductType)
	if !ok {
		return mismatch(locOf(lit.SpanVal), nil, expected)
	}
	fieldType := map[string]ast.Type{}
	for _, f := range prod.Fields {
		fieldType[f.Name] = f.Type
	}
	seen := map[string]bool{}
	for _, rf := range lit.Fields {
		ft, ok := fieldType[rf.Name]
		if !ok {
			return diag.Wrap(diag.New(diag.TypeFieldUnknown, diag.PhaseType,
				"unknown field "+rf.Name+" on "+named.Name).WithLocation(locOf(lit.SpanVal)))
		}
		if err := c.Check(env, rf.Value, ft); err != nil {
			return err
		}
		seen[rf.Name] = true
	}
	for _, f := range prod.Fields {
		if !seen[f.Name] {
			return diag.Wrap(diag.New(diag.TypeFieldUnknown, diag.PhaseType,
				"missing field "+f.Name+" on "+named.Name).WithLocation(locOf(lit.SpanVal)))
		}
	}
	return nil
}

// Synth infers e's type in env, the ⇒ direction of §4.6.
func (c *Checker) Synth(env *Env, e ast.Expr) (ast.Type, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return c.synthLiteral(n), nil

	case *ast.Ident:
		t, ok := env.Lookup(n.Name)
		if !ok {
			return nil, diag.Wrap(diag.New(diag.TypeUnboundName, diag.PhaseType,
				"unbound name "+n.Name).WithLocation(locOf(n.SpanVal)))
		}
		return t, nil

	case *ast.Lambda:
		return c.synthLambda(env, n)

	case *ast.App:
		return c.synthApp(env, n)

	case *ast.Binary:
		return c.synthBinary(env, n)

	case *ast.Unary:
		return c.synthUnary(env, n)

	case *ast.Match:
		return c.synthMatch(env, n)

	case *ast.Let:
		if err := c.Check(env, n.Value, n.TypeAnn); err != nil {
			return nil, err
		}
		bodyEnv, err := c.bindPattern(env, n.Pattern, n.TypeAnn)
		if err != nil {
			return nil, err
		}
		return c.Synth(bodyEnv, n.Body)

	case *ast.If:
		return c.synthIf(env, n)

	case *ast.ListLit:
		return c.synthListLit(env, n)

	case *ast.RecordLit:
		return nil, diag.Wrap(diag.New(diag.TypeMismatch, diag.PhaseType,
			"record literal needs a known target type; use it where one is expected").
			WithLocation(locOf(n.SpanVal)))

	case *ast.TupleLit:
		elems := make([]ast.Type, len(n.Elems))
		for i, el := range n.Elems {
			t, err := c.Synth(env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return &ast.TupleType{Elems: elems, SpanVal: n.SpanVal}, nil

	case *ast.FieldAccess:
		return c.synthFieldAccess(env, n)

	case *ast.IndexAccess:
		return c.synthIndexAccess(env, n)

	case *ast.Pipeline:
		return c.synthPipeline(env, n)

	case *ast.MapExpr:
		return c.synthMapExpr(env, n)

	case *ast.FilterExpr:
		return c.synthFilterExpr(env, n)

	case *ast.FoldExpr:
		return c.synthFoldExpr(env, n)

	case *ast.MemberAccess:
		return c.synthMemberAccess(n)

	case *ast.WithMock:
		return c.synthWithMock(env, n)

	default:
		return nil, diag.Wrap(diag.New(diag.TypeMismatch, diag.PhaseType,
			"unsupported expression shape").WithLocation(locOf(e.Span())))
	}
}

func (c *Checker) synthLiteral(n *ast.Literal) ast.Type {
	switch n.Kind {
	case ast.LitInt:
		return &ast.PrimitiveType{Kind: ast.PrimInt, SpanVal: n.SpanVal}
	case ast.LitFloat:
		return &ast.PrimitiveType{Kind: ast.PrimFloat, SpanVal: n.SpanVal}
	case ast.LitString:
		return &ast.PrimitiveType{Kind: ast.PrimString, SpanVal: n.SpanVal}
	case ast.LitChar:
		return &ast.PrimitiveType{Kind: ast.PrimChar, SpanVal: n.SpanVal}
	case ast.LitBool:
		return &ast.PrimitiveType{Kind: ast.PrimBool, SpanVal: n.SpanVal}
	default:
		return &ast.PrimitiveType{Kind: ast.PrimUnit, SpanVal: n.SpanVal}
	}
}

func (c *Checker) synthLambda(env *Env, n *ast.Lambda) (ast.Type, error) {
	bodyEnv := env
	params := make([]ast.Type, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Type
		bodyEnv = bodyEnv.Extend(p.Name, p.Type)
	}
	if err := c.Check(bodyEnv, n.Body, n.ReturnType); err != nil {
		return nil, err
	}
	return &ast.FuncType{Params: params, Effects: n.Effects, Result: n.ReturnType, SpanVal: n.SpanVal}, nil
}

func (c *Checker) synthApp(env *Env, n *ast.App) (ast.Type, error) {
	fnType, err := c.Synth(env, n.Fn)
	if err != nil {
		return nil, err
	}
	ft, ok := resolveAlias(c.Types, fnType).(*ast.FuncType)
	if !ok {
		return nil, mismatch(locOf(n.SpanVal), fnType, &ast.FuncType{})
	}
	if len(n.Args) != len(ft.Params) {
		return nil, diag.Wrap(diag.New(diag.TypeArityMismatch, diag.PhaseType,
			"call has the wrong number of arguments").WithLocation(locOf(n.SpanVal)))
	}
	for i, arg := range n.Args {
		if err := c.Check(env, arg, ft.Params[i]); err != nil {
			return nil, err
		}
	}
	return ft.Result, nil
}

func (c *Checker) synthBinary(env *Env, n *ast.Binary) (ast.Type, error) {
	switch n.Op {
	case ast.OpAnd, ast.OpOr:
		if err := c.Check(env, n.Left, boolType); err != nil {
			return nil, err
		}
		if err := c.Check(env, n.Right, boolType); err != nil {
			return nil, err
		}
		return boolType, nil

	case ast.OpEq, ast.OpNeq:
		lt, err := c.Synth(env, n.Left)
		if err != nil {
			return nil, err
		}
		rt, err := c.Synth(env, n.Right)
		if err != nil {
			return nil, err
		}
		if !Equal(c.Types, lt, rt) {
			return nil, diag.Wrap(diag.New(diag.TypeNoEquality, diag.PhaseType,
				"operands have no common equality").WithLocation(locOf(n.SpanVal)).
				WithFoundExpected(String(lt), String(rt)))
		}
		return boolType, nil

	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		lt, err := c.Synth(env, n.Left)
		if err != nil {
			return nil, err
		}
		rt, err := c.Synth(env, n.Right)
		if err != nil {
			return nil, err
		}
		if !Equal(c.Types, lt, rt) || !HasOrder(lt) {
			return nil, diag.Wrap(diag.New(diag.TypeNoEquality, diag.PhaseType,
				"operands have no defined order").WithLocation(locOf(n.SpanVal)).
				WithFoundExpected(String(lt), String(rt)))
		}
		return boolType, nil

	case ast.OpConcat:
		lt, err := c.Synth(env, n.Left)
		if err != nil {
			return nil, err
		}
		ll, ok := resolveAlias(c.Types, lt).(*ast.ListType)
		if !ok {
			return nil, mismatch(locOf(n.SpanVal), lt, &ast.ListType{})
		}
		if err := c.Check(env, n.Right, ll); err != nil {
			return nil, err
		}
		return ll, nil

	case ast.OpAdd:
		return c.synthAdd(env, n)

	default: // Sub, Mul, Div, Mod
		lt, err := c.Synth(env, n.Left)
		if err != nil {
			return nil, err
		}
		if !IsNumeric(lt) {
			return nil, mismatch(locOf(n.SpanVal), lt, intType)
		}
		if err := c.Check(env, n.Right, lt); err != nil {
			return nil, err
		}
		return lt, nil
	}
}

// synthAdd implements §4.6's single coercion rule: ℤ/ℝ + ℤ/ℝ is numeric
// addition; 𝕊 + (ℤ|ℝ|𝕊) or (ℤ|ℝ) + 𝕊 coerces the numeric side to its
// string form and concatenates.
func (c *Checker) synthAdd(env *Env, n *ast.Binary) (ast.Type, error) {
	lt, err := c.Synth(env, n.Left)
	if err != nil {
		return nil, err
	}
	rt, err := c.Synth(env, n.Right)
	if err != nil {
		return nil, err
	}
	switch {
	case IsString(lt) && (IsString(rt) || IsNumeric(rt)):
		return &ast.PrimitiveType{Kind: ast.PrimString}, nil
	case IsString(rt) && IsNumeric(lt):
		return &ast.PrimitiveType{Kind: ast.PrimString}, nil
	case IsNumeric(lt) && Equal(c.Types, lt, rt):
		return lt, nil
	default:
		return nil, diag.Wrap(diag.New(diag.TypeBadCoercion, diag.PhaseType,
			"operands are not eligible for '+' coercion").WithLocation(locOf(n.SpanVal)).
			WithFoundExpected(String(lt), String(rt)))
	}
}

func (c *Checker) synthUnary(env *Env, n *ast.Unary) (ast.Type, error) {
	switch n.Op {
	case ast.OpNot:
		if err := c.Check(env, n.Operand, boolType); err != nil {
			return nil, err
		}
		return boolType, nil
	case ast.OpNeg:
		t, err := c.Synth(env, n.Operand)
		if err != nil {
			return nil, err
		}
		if !IsNumeric(t) {
			return nil, mismatch(locOf(n.SpanVal), t, intType)
		}
		return t, nil
	default: // OpLen
		t, err := c.Synth(env, n.Operand)
		if err != nil {
			return nil, err
		}
		if _, ok := resolveAlias(c.Types, t).(*ast.ListType); !ok {
			return nil, diag.Wrap(diag.New(diag.TypeIndexNotList, diag.PhaseType,
				"'#' requires a list operand").WithLocation(locOf(n.SpanVal)).
				WithFoundExpected(String(t), "[α]"))
		}
		return intType, nil
	}
}

func (c *Checker) synthIf(env *Env, n *ast.If) (ast.Type, error) {
	if err := c.Check(env, n.Cond, boolType); err != nil {
		return nil, err
	}
	thenType, err := c.Synth(env, n.Then)
	if err != nil {
		return nil, err
	}
	if n.Else == nil {
		if !isUnit(thenType) {
			return nil, diag.Wrap(diag.New(diag.TypeIfBranchMismatch, diag.PhaseType,
				"if without else requires a unit-typed then-branch").WithLocation(locOf(n.SpanVal)))
		}
		return unitType, nil
	}
	if err := c.Check(env, n.Else, thenType); err != nil {
		return nil, diag.Wrap(diag.New(diag.TypeIfBranchMismatch, diag.PhaseType,
			"if branches have different types").WithLocation(locOf(n.SpanVal)))
	}
	return thenType, nil
}

func (c *Checker) synthListLit(env *Env, n *ast.ListLit) (ast.Type, error) {
	if len(n.Elems) == 0 {
		return nil, diag.Wrap(diag.New(diag.TypeEmptyListUnresolved, diag.PhaseType,
			"empty list's element type cannot be resolved without a known target type").
			WithLocation(locOf(n.SpanVal)))
	}
	elemType, err := c.Synth(env, n.Elems[0])
	if err != nil {
		return nil, err
	}
	for _, el := range n.Elems[1:] {
		if err := c.Check(env, el, elemType); err != nil {
			return nil, err
		}
	}
	return &ast.ListType{Elem: elemType, SpanVal: n.SpanVal}, nil
}

func (c *Checker) synthFieldAccess(env *Env, n *ast.FieldAccess) (ast.Type, error) {
	rt, err := c.Synth(env, n.Receiver)
	if err != nil {
		return nil, err
	}
	named, ok := resolveAlias(c.Types, rt).(*ast.NamedType)
	if !ok {
		return nil, diag.Wrap(diag.New(diag.TypeFieldUnknown, diag.PhaseType,
			"field access requires a record type").WithLocation(locOf(n.SpanVal)))
	}
	decl, ok := c.Types.Lookup(named.Name)
	if !ok {
		return nil, diag.Wrap(diag.New(diag.TypeUnknownCrossModule, diag.PhaseType,
			"unknown type "+named.Name).WithLocation(locOf(n.SpanVal)))
	}
	prod, ok := decl.Def.(*ast.ProductType)
	if !ok {
		return nil, diag.Wrap(diag.New(diag.TypeFieldUnknown, diag.PhaseType,
			"field access requires a record type").WithLocation(locOf(n.SpanVal)))
	}
	for _, f := range prod.Fields {
		if f.Name == n.Field {
			return f.Type, nil
		}
	}
	return nil, diag.Wrap(diag.New(diag.TypeFieldUnknown, diag.PhaseType,
		"unknown field "+n.Field+" on "+named.Name).WithLocation(locOf(n.SpanVal)))
}

func (c *Checker) synthIndexAccess(env *Env, n *ast.IndexAccess) (ast.Type, error) {
	rt, err := c.Synth(env, n.Receiver)
	if err != nil {
		return nil, err
	}
	lt, ok := resolveAlias(c.Types, rt).(*ast.ListType)
	if !ok {
		return nil, diag.Wrap(diag.New(diag.TypeIndexNotList, diag.PhaseType,
			"index access requires a list").WithLocation(locOf(n.SpanVal)).
			WithFoundExpected(String(rt), "[α]"))
	}
	if err := c.Check(env, n.Index, intType); err != nil {
		return nil, err
	}
	return lt.Elem, nil
}

func (c *Checker) synthPipeline(env *Env, n *ast.Pipeline) (ast.Type, error) {
	switch n.Kind {
	case ast.PipeForward:
		fnType, err := c.Synth(env, n.Right)
		if err != nil {
			return nil, err
		}
		ft, ok := resolveAlias(c.Types, fnType).(*ast.FuncType)
		if !ok || len(ft.Params) != 1 {
			return nil, mismatch(locOf(n.SpanVal), fnType, &ast.FuncType{})
		}
		if err := c.Check(env, n.Left, ft.Params[0]); err != nil {
			return nil, err
		}
		return ft.Result, nil

	case ast.PipeCompose:
		ft, err := c.synthFuncType(env, n.Left)
		if err != nil {
			return nil, err
		}
		gt, err := c.synthFuncType(env, n.Right)
		if err != nil {
			return nil, err
		}
		if len(gt.Params) != 1 || !Equal(c.Types, ft.Result, gt.Params[0]) {
			return nil, mismatch(locOf(n.SpanVal), ft.Result, gt.Params[0])
		}
		return &ast.FuncType{Params: ft.Params, Effects: unionEffects(ft.Effects, gt.Effects), Result: gt.Result}, nil

	default: // PipeComposeRev: f << g means apply g then f
		ft, err := c.synthFuncType(env, n.Left)
		if err != nil {
			return nil, err
		}
		gt, err := c.synthFuncType(env, n.Right)
		if err != nil {
			return nil, err
		}
		if len(ft.Params) != 1 || !Equal(c.Types, gt.Result, ft.Params[0]) {
			return nil, mismatch(locOf(n.SpanVal), gt.Result, ft.Params[0])
		}
		return &ast.FuncType{Params: gt.Params, Effects: unionEffects(ft.Effects, gt.Effects), Result: ft.Result}, nil
	}
}

func (c *Checker) synthFuncType(env *Env, e ast.Expr) (*ast.FuncType, error) {
	t, err := c.Synth(env, e)
	if err != nil {
		return nil, err
	}
	ft, ok := resolveAlias(c.Types, t).(*ast.FuncType)
	if !ok {
		return nil, mismatch(locOf(e.Span()), t, &ast.FuncType{})
	}
	return ft, nil
}

func unionEffects(a, b []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (c *Checker) synthMapExpr(env *Env, n *ast.MapExpr) (ast.Type, error) {
	lt, err := c.Synth(env, n.List)
	if err != nil {
		return nil, err
	}
	lst, ok := resolveAlias(c.Types, lt).(*ast.ListType)
	if !ok {
		return nil, mismatch(locOf(n.SpanVal), lt, &ast.ListType{})
	}
	ft, err := c.synthFuncType(env, n.Fn)
	if err != nil {
		return nil, err
	}
	if len(ft.Params) != 1 || !Equal(c.Types, ft.Params[0], lst.Elem) {
		return nil, mismatch(locOf(n.SpanVal), lst.Elem, ft.Result)
	}
	return &ast.ListType{Elem: ft.Result, SpanVal: n.SpanVal}, nil
}

func (c *Checker) synthFilterExpr(env *Env, n *ast.FilterExpr) (ast.Type, error) {
	lt, err := c.Synth(env, n.List)
	if err != nil {
		return nil, err
	}
	lst, ok := resolveAlias(c.Types, lt).(*ast.ListType)
	if !ok {
		return nil, mismatch(locOf(n.SpanVal), lt, &ast.ListType{})
	}
	if err := c.Check(env, n.Pred, &ast.FuncType{Params: []ast.Type{lst.Elem}, Result: boolType}); err != nil {
		return nil, err
	}
	return lst, nil
}

func (c *Checker) synthFoldExpr(env *Env, n *ast.FoldExpr) (ast.Type, error) {
	accType, err := c.Synth(env, n.Init)
	if err != nil {
		return nil, err
	}
	lt, err := c.Synth(env, n.List)
	if err != nil {
		return nil, err
	}
	lst, ok := resolveAlias(c.Types, lt).(*ast.ListType)
	if !ok {
		return nil, mismatch(locOf(n.SpanVal), lt, &ast.ListType{})
	}
	want := &ast.FuncType{Params: []ast.Type{accType, lst.Elem}, Result: accType}
	if err := c.Check(env, n.Fn, want); err != nil {
		return nil, err
	}
	return accType, nil
}

func (c *Checker) synthMemberAccess(n *ast.MemberAccess) (ast.Type, error) {
	ns, ok := c.ImportedNamespaces[n.Namespace]
	if !ok {
		return nil, diag.Wrap(diag.New(diag.TypeUnboundName, diag.PhaseType,
			"unknown namespace "+n.Namespace).WithLocation(locOf(n.SpanVal)))
	}
	t, ok := ns[n.Name]
	if !ok {
		return nil, diag.Wrap(diag.New(diag.TypeNotExported, diag.PhaseType,
			n.Namespace+"⋅"+n.Name+" is not exported").WithLocation(locOf(n.SpanVal)))
	}
	return t, nil
}

func (c *Checker) synthWithMock(env *Env, n *ast.WithMock) (ast.Type, error) {
	ft, ok := c.Externs[n.Key]
	if !ok {
		return nil, diag.Wrap(diag.New(diag.ExternUnknownMember, diag.PhaseExtern,
			"mock key "+n.Key+" does not name a known extern member").WithLocation(locOf(n.SpanVal)))
	}
	replType, err := c.Synth(env, n.Replacement)
	if err != nil {
		return nil, err
	}
	replFn, ok := resolveAlias(c.Types, replType).(*ast.FuncType)
	if !ok || len(replFn.Params) != len(ft.Params) {
		return nil, diag.Wrap(diag.New(diag.ExternArityMismatch, diag.PhaseExtern,
			"mock replacement arity does not match "+n.Key).WithLocation(locOf(n.SpanVal)))
	}
	return c.Synth(env, n.Body)
}
