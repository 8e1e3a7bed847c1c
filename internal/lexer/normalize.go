package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
//  1. Strips a UTF-8 BOM if present.
//  2. Applies Unicode NFC normalization.
//
// Sigil source is dense with combining-capable glyphs (λ, →, ≡, ⊕, …); NFC
// normalization ensures two byte-different-but-canonically-equal encodings
// of the same glyph lex identically.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
