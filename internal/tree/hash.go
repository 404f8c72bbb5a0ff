package tree

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTree prefixes tree hashes.
// Version suffix enables future algorithm migration.
const DomainTree = "parity/tree/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content hash of a tree.
// Equal trees hash identically regardless of map iteration order.
func Hash(v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("hash tree: %w", err)
	}
	return hashWithDomain(DomainTree, canonical), nil
}
