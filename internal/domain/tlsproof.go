package domain

import "fmt"

// RecordedTlsProof is a signed record that specific response bytes and
// certificate-chain bytes were observed from a domain at a point in time.
// It is created once by a notary at capture time and never mutated; any
// holder of the proof plus the original bytes can verify it.
type RecordedTlsProof struct {
	// Domain that served the response (e.g. "example.com").
	Domain string `json:"domain"`

	// Unix seconds when the session was recorded.
	Timestamp uint64 `json:"timestamp"`

	// Hex SHA-256 of the HTTP response body.
	ResponseHash string `json:"response_hash"`

	// Hex SHA-256 of the PEM certificate-chain bytes.
	CertChainHash string `json:"cert_chain_hash"`

	// Hex ed25519 public key of the recording notary (32 bytes).
	NotaryPubkey string `json:"notary_pubkey"`

	// Hex ed25519 signature over CanonicalMessage (64 bytes).
	Signature string `json:"signature"`
}

// CanonicalMessage is the exact byte string the notary signs. It is built
// from the proof's own fields, never from caller-supplied inputs.
func (p RecordedTlsProof) CanonicalMessage() []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:%s", p.Domain, p.Timestamp, p.ResponseHash, p.CertChainHash))
}
