// Package cache implements an on-disk, token-hash-keyed build cache: Key
// hashes a file's token stream and Manager maps that hash to the artifacts
// recorded for it. The build pipeline in cmd/spicec does not open, look up
// or store into this cache; every build runs every stage for every file.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/spice-lang/spicec/internal/lexer"
)

// Key hashes the normalized token stream of one source file into the
// hex digest spec §6 keys the cache by, grounded on the reference
// compiler's stable-ID hashing (hash of joined, ordered parts).
func Key(tokens []lexer.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, tok.Kind.String()+":"+tok.Text)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
