package types

import "github.com/sigil-lang/sigilc/internal/ast"

func funcTypeOf(fn *ast.FunctionDecl) *ast.FuncType {
	params := make([]ast.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type
	}
	return &ast.FuncType{Params: params, Effects: fn.Effects, Result: fn.ReturnType, SpanVal: fn.SpanVal}
}

// CheckProgram type-checks every const, function, and test declaration in
// prog (§4.6). A first pass binds every top-level function/const/extern
// name so forward and mutually-recursive references resolve; a second pass
// checks each declaration's body in turn, short-circuiting on the first
// diagnostic (§4.1, §7) rather than accumulating a list.
func (c *Checker) CheckProgram(prog *ast.Program) error {
	env := NewEnv()
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			env = env.Extend(decl.Name, funcTypeOf(decl))
		case *ast.ConstDecl:
			env = env.Extend(decl.Name, decl.TypeAnn)
		case *ast.ExternDecl:
			for _, m := range decl.Members {
				if ft, ok := m.Type.(*ast.FuncType); ok {
					c.Externs[decl.Path()+"."+m.Name] = ft
				}
				env = env.Extend(m.Name, m.Type)
			}
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			fnEnv := env
			for _, p := range decl.Params {
				fnEnv = fnEnv.Extend(p.Name, p.Type)
			}
			if err := c.Check(fnEnv, decl.Body, decl.ReturnType); err != nil {
				return err
			}
		case *ast.ConstDecl:
			if err := c.Check(env, decl.Value, decl.TypeAnn); err != nil {
				return err
			}
		case *ast.TestDecl:
			if _, err := c.Synth(env, decl.Body); err != nil {
				return err
			}
		}
	}
	return nil
}
