package command

import (
	"encoding/json"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/parser"
)

// Parse runs C2/C3/C4 over one file: `{file, summary:{tokens,
// declarations}, ast}`. It does not run canonical-form validation or type
// checking — those belong to Compile — so a file with valid grammar but
// illegal ordering still parses successfully here.
func Parse(file string) diag.Envelope {
	toks, err := lexFile(file)
	if err != nil {
		return errEnvelope("parse", err)
	}
	prog, err := parser.New(toks, file).ParseProgram()
	if err != nil {
		return errEnvelope("parse", err)
	}

	var astValue interface{}
	if err := json.Unmarshal([]byte(ast.PrintProgram(prog)), &astValue); err != nil {
		return errEnvelope("parse", err)
	}

	return diag.OKEnvelope("parse", map[string]interface{}{
		"file": file,
		"summary": map[string]interface{}{
			"tokens":       len(toks),
			"declarations": len(prog.Decls),
		},
		"ast": astValue,
	})
}
