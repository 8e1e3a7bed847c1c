package ast

import (
	"encoding/json"
	"fmt"
)

// PrintProgram produces a deterministic JSON representation of a Program,
// used as the `ast` payload of the parse command (§4.10). Spans, byte
// offsets, and the file path are not included in the output.
func PrintProgram(prog *Program) string {
	if prog == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(prog), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// simplify converts AST nodes into plain maps so every node carries a
// uniform "node" discriminator field in the emitted JSON, regardless of Go
// struct field names.
func simplify(node interface{}) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		decls := make([]interface{}, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = simplify(d)
		}
		return map[string]interface{}{"node": "Program", "decls": decls}

	case *TypeDecl:
		return map[string]interface{}{
			"node": "TypeDecl", "name": n.Name, "exported": n.Exported,
			"typeParams": n.TypeParams, "def": simplify(n.Def),
		}
	case *ImportDecl:
		return map[string]interface{}{"node": "ImportDecl", "path": n.Path()}
	case *ExternDecl:
		members := make([]interface{}, len(n.Members))
		for i, m := range n.Members {
			members[i] = map[string]interface{}{"name": m.Name, "type": simplify(m.Type)}
		}
		return map[string]interface{}{"node": "ExternDecl", "path": n.Path(), "members": members}
	case *ConstDecl:
		return map[string]interface{}{
			"node": "ConstDecl", "name": n.Name, "exported": n.Exported,
			"type": simplify(n.TypeAnn), "value": simplify(n.Value),
		}
	case *FunctionDecl:
		return map[string]interface{}{
			"node": "FunctionDecl", "name": n.Name, "exported": n.Exported,
			"mockable": n.Mockable, "params": simplifyParams(n.Params),
			"effects": n.Effects, "returnType": simplify(n.ReturnType),
			"body": simplify(n.Body),
		}
	case *TestDecl:
		return map[string]interface{}{
			"node": "TestDecl", "description": n.Description,
			"effects": n.Effects, "body": simplify(n.Body),
		}

	case *SumType:
		variants := make([]interface{}, len(n.Variants))
		for i, v := range n.Variants {
			variants[i] = map[string]interface{}{"name": v.Name, "types": simplifySlice(v.Types)}
		}
		return map[string]interface{}{"node": "SumType", "variants": variants}
	case *ProductType:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "type": simplify(f.Type)}
		}
		return map[string]interface{}{"node": "ProductType", "fields": fields}
	case *TypeAlias:
		return map[string]interface{}{"node": "TypeAlias", "type": simplify(n.Aliased)}

	case *PrimitiveType:
		return map[string]interface{}{"node": "PrimitiveType", "kind": n.Kind.String()}
	case *ListType:
		return map[string]interface{}{"node": "ListType", "elem": simplify(n.Elem)}
	case *TupleType:
		return map[string]interface{}{"node": "TupleType", "elems": simplifySlice(n.Elems)}
	case *MapType:
		return map[string]interface{}{"node": "MapType", "key": simplify(n.Key), "value": simplify(n.Value)}
	case *FuncType:
		return map[string]interface{}{
			"node": "FuncType", "params": simplifySlice(n.Params),
			"effects": n.Effects, "result": simplify(n.Result),
		}
	case *NamedType:
		return map[string]interface{}{"node": "NamedType", "name": n.Name, "args": simplifySlice(n.Args)}
	case *TypeVar:
		return map[string]interface{}{"node": "TypeVar", "name": n.Name}
	case *QualifiedType:
		return map[string]interface{}{
			"node": "QualifiedType", "module": n.Module, "name": n.Name, "args": simplifySlice(n.Args),
		}

	case *Literal:
		return map[string]interface{}{"node": "Literal", "value": n.Value}
	case *Ident:
		return map[string]interface{}{"node": "Ident", "name": n.Name}
	case *Lambda:
		return map[string]interface{}{
			"node": "Lambda", "params": simplifyParams(n.Params), "effects": n.Effects,
			"returnType": simplify(n.ReturnType), "body": simplify(n.Body),
		}
	case *App:
		return map[string]interface{}{"node": "App", "fn": simplify(n.Fn), "args": simplifyExprs(n.Args)}
	case *Binary:
		return map[string]interface{}{"node": "Binary", "op": int(n.Op), "left": simplify(n.Left), "right": simplify(n.Right)}
	case *Unary:
		return map[string]interface{}{"node": "Unary", "op": int(n.Op), "operand": simplify(n.Operand)}
	case *Match:
		arms := make([]interface{}, len(n.Arms))
		for i, a := range n.Arms {
			arms[i] = map[string]interface{}{
				"pattern": simplify(a.Pattern), "guard": simplify(a.Guard), "body": simplify(a.Body),
			}
		}
		return map[string]interface{}{"node": "Match", "scrutinee": simplify(n.Scrutinee), "arms": arms}
	case *Let:
		return map[string]interface{}{
			"node": "Let", "pattern": simplify(n.Pattern), "type": simplify(n.TypeAnn),
			"value": simplify(n.Value), "body": simplify(n.Body),
		}
	case *If:
		return map[string]interface{}{"node": "If", "cond": simplify(n.Cond), "then": simplify(n.Then), "else": simplify(n.Else)}
	case *ListLit:
		return map[string]interface{}{"node": "ListLit", "elems": simplifyExprs(n.Elems)}
	case *RecordLit:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "value": simplify(f.Value)}
		}
		return map[string]interface{}{"node": "RecordLit", "fields": fields}
	case *TupleLit:
		return map[string]interface{}{"node": "TupleLit", "elems": simplifyExprs(n.Elems)}
	case *FieldAccess:
		return map[string]interface{}{"node": "FieldAccess", "receiver": simplify(n.Receiver), "field": n.Field}
	case *IndexAccess:
		return map[string]interface{}{"node": "IndexAccess", "receiver": simplify(n.Receiver), "index": simplify(n.Index)}
	case *Pipeline:
		return map[string]interface{}{"node": "Pipeline", "kind": int(n.Kind), "left": simplify(n.Left), "right": simplify(n.Right)}
	case *MapExpr:
		return map[string]interface{}{"node": "MapExpr", "list": simplify(n.List), "fn": simplify(n.Fn)}
	case *FilterExpr:
		return map[string]interface{}{"node": "FilterExpr", "list": simplify(n.List), "pred": simplify(n.Pred)}
	case *FoldExpr:
		return map[string]interface{}{"node": "FoldExpr", "list": simplify(n.List), "fn": simplify(n.Fn), "init": simplify(n.Init)}
	case *MemberAccess:
		return map[string]interface{}{"node": "MemberAccess", "namespace": n.Namespace, "name": n.Name}
	case *WithMock:
		return map[string]interface{}{
			"node": "WithMock", "key": n.Key, "replacement": simplify(n.Replacement), "body": simplify(n.Body),
		}

	case *LitPattern:
		return map[string]interface{}{"node": "LitPattern", "value": n.Value}
	case *IdentPattern:
		return map[string]interface{}{"node": "IdentPattern", "name": n.Name}
	case *WildcardPattern:
		return map[string]interface{}{"node": "WildcardPattern"}
	case *CtorPattern:
		args := make([]interface{}, len(n.Args))
		for i, a := range n.Args {
			args[i] = simplify(a)
		}
		return map[string]interface{}{"node": "CtorPattern", "name": n.Name, "args": args}
	case *ListPattern:
		elems := make([]interface{}, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = simplify(e)
		}
		return map[string]interface{}{"node": "ListPattern", "elems": elems, "rest": simplify(n.Rest)}
	case *RecordPattern:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "pattern": simplify(f.Pattern)}
		}
		return map[string]interface{}{"node": "RecordPattern", "fields": fields}
	case *TuplePattern:
		elems := make([]interface{}, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = simplify(e)
		}
		return map[string]interface{}{"node": "TuplePattern", "elems": elems}

	default:
		return fmt.Sprintf("%v", n)
	}
}

func simplifySlice(types []Type) []interface{} {
	out := make([]interface{}, len(types))
	for i, t := range types {
		out[i] = simplify(t)
	}
	return out
}

func simplifyExprs(exprs []Expr) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = simplify(e)
	}
	return out
}

func simplifyParams(params []Param) []interface{} {
	out := make([]interface{}, len(params))
	for i, p := range params {
		out[i] = map[string]interface{}{"name": p.Name, "type": simplify(p.Type), "mut": p.Mut}
	}
	return out
}
