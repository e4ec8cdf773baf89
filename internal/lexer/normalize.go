package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 byte-order mark the reference compiler's driver
// silently strips before handing source to its tokenizer.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a leading UTF-8 BOM and applies Unicode NFC
// normalization, so lexically identical source in different Unicode
// normal forms produces a byte-identical token stream (spec §8 property 1,
// SPEC_FULL.md §B.5). IsNormal is checked first since it is allocation-free
// for the already-normalized common case.
func normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
