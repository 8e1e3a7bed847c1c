package command

import (
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

// Tokenize runs C2/C3 over one file: `{file, summary:{tokens}, tokens:[...]}`.
func Tokenize(file string) diag.Envelope {
	toks, err := lexFile(file)
	if err != nil {
		return errEnvelope("tokenize", err)
	}
	return diag.OKEnvelope("tokenize", map[string]interface{}{
		"file":    file,
		"summary": map[string]interface{}{"tokens": len(toks)},
		"tokens":  tokensJSON(toks),
	})
}

func tokensJSON(toks []lexer.Token) []interface{} {
	out := make([]interface{}, len(toks))
	for i, t := range toks {
		out[i] = map[string]interface{}{
			"type": t.Type.String(),
			"text": t.Text,
			"start": map[string]interface{}{"line": t.Start.Line, "column": t.Start.Column, "offset": t.Start.Offset},
			"end":   map[string]interface{}{"line": t.End.Line, "column": t.End.Column, "offset": t.End.Offset},
		}
	}
	return out
}
