package journal

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainText separates lead text hashes from any other digest.
const DomainText = "leadreview/text/v1"

// TextHash returns the SHA-256 of a lead text with domain separation:
// SHA256(domain + 0x00 + text). Entries sharing a hash were recorded against
// byte-identical text and so share one export slot.
func TextHash(text string) string {
	h := sha256.New()
	h.Write([]byte(DomainText))
	h.Write([]byte{0x00})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
