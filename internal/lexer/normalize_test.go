package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("l x:ℤ = 1;")...)
	got := Normalize(src)
	assert.Less(t, len(got), len(src), "expected BOM to be stripped")
	assert.NotEqual(t, byte(0xEF), got[0], "BOM byte still present")
}

func TestNormalizeNFC(t *testing.T) {
	// "é" as NFD (e + combining acute) should normalize to NFC (single rune).
	nfd := []byte("é")
	got := Normalize(nfd)
	nfc := []byte("é")
	assert.Equal(t, string(nfc), string(got))
}

func TestNormalizeIdempotent(t *testing.T) {
	src := []byte("λx:ℤ→ℤ↦x*2")
	once := Normalize(src)
	twice := Normalize(once)
	assert.Equal(t, string(once), string(twice), "normalize is not idempotent")
}
