package canon

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainResolution is the domain prefix for resolution-set digests. The
// version suffix enables future algorithm migration.
const DomainResolution = "envlit/resolution/v1"

// Digest computes a SHA-256 digest with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func Digest(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
