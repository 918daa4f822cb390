// Package hashutil collects the digest primitives shared across the
// pipeline: SHA-256 for proof hashes, Merkle nodes and audit chaining,
// Keccak-256 for the Ethereum-compatible notary protocol.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HashSize is the digest length shared by both hash families.
const HashSize = 32

// Sha256 returns the SHA-256 digest of data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Sha256Hex returns the lowercase hex encoding of the SHA-256 digest.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Keccak256 returns the legacy (pre-NIST) Keccak-256 digest of the
// concatenation of all inputs. This is the Ethereum hash, not SHA3-256.
func Keccak256(data ...[]byte) [32]byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, d := range data {
		hasher.Write(d)
	}
	var out [32]byte
	hasher.Sum(out[:0])
	return out
}

// ParseHex32 decodes a 64-char hex string into a 32-byte digest.
func ParseHex32(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("decode hex: %w", err)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
