// Package capture produces and persists recorded TLS proofs as the
// fixture triple (metadata.json, cert_chain.pem, response_body.json)
// used by tests and demo flows. The session plays the notary role
// locally with an ed25519 key; a production notary would sit inside the
// TLS session instead.
package capture

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

// Session signs recorded responses with a local notary key.
type Session struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	now  func() time.Time
}

// NewSession generates a fresh notary keypair.
func NewSession() (*Session, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate notary key: %w", err)
	}
	return &Session{priv: priv, pub: pub, now: time.Now}, nil
}

// NewSessionFromSeed builds a session from a 32-byte ed25519 seed, for
// reproducible fixtures.
func NewSessionFromSeed(seed []byte) (*Session, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Session{
		priv: priv,
		pub:  priv.Public().(ed25519.PublicKey),
		now:  time.Now,
	}, nil
}

func (s *Session) NotaryPubkeyHex() string {
	return hex.EncodeToString(s.pub)
}

// Record hashes the response and cert chain, stamps the current time and
// signs the canonical message.
func (s *Session) Record(domainName string, responseBody, certChain []byte) domain.RecordedTlsProof {
	return s.RecordAt(domainName, responseBody, certChain, uint64(s.now().Unix()))
}

// RecordAt is Record with an explicit timestamp, for deterministic
// fixtures.
func (s *Session) RecordAt(domainName string, responseBody, certChain []byte, timestamp uint64) domain.RecordedTlsProof {
	proof := domain.RecordedTlsProof{
		Domain:        domainName,
		Timestamp:     timestamp,
		ResponseHash:  hashutil.Sha256Hex(responseBody),
		CertChainHash: hashutil.Sha256Hex(certChain),
		NotaryPubkey:  s.NotaryPubkeyHex(),
	}
	sig := ed25519.Sign(s.priv, proof.CanonicalMessage())
	proof.Signature = hex.EncodeToString(sig)
	return proof
}
