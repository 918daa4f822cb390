package usecase

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

// FutureSkewSeconds bounds how far ahead of the verifier's clock a proof
// timestamp may sit before it is rejected as implausible.
const FutureSkewSeconds = 300

// VerifyRecordedTLSProof checks a recorded TLS proof against the caller's
// expectations. The checks run in a fixed order so that the same error
// surfaces regardless of how many conditions are violated at once:
// domain, freshness, future skew, cert chain hash, response hash,
// signature. Purely a validation function; nothing is retried.
func VerifyRecordedTLSProof(
	proof domain.RecordedTlsProof,
	expectedDomain string,
	certChainBytes []byte,
	responseBodyBytes []byte,
	currentTime uint64,
	maxAgeSeconds uint64,
) error {
	if proof.Domain != expectedDomain {
		return &domain.DomainMismatchError{Expected: expectedDomain, Got: proof.Domain}
	}

	if currentTime > proof.Timestamp+maxAgeSeconds {
		return &domain.ReplayDetectedError{Timestamp: proof.Timestamp, MaxAge: maxAgeSeconds}
	}

	if proof.Timestamp > currentTime+FutureSkewSeconds {
		return &domain.FutureTimestampError{Timestamp: proof.Timestamp, CurrentTime: currentTime}
	}

	if hashutil.Sha256Hex(certChainBytes) != proof.CertChainHash {
		return domain.ErrCertChainMismatch
	}

	if hashutil.Sha256Hex(responseBodyBytes) != proof.ResponseHash {
		return domain.ErrResponseTampered
	}

	return verifyProofSignature(proof)
}

// verifyProofSignature rebuilds the canonical message from the proof's own
// fields and checks the ed25519 signature. Caller inputs never enter the
// signed message; only the proof binds itself.
func verifyProofSignature(proof domain.RecordedTlsProof) error {
	pubkey, err := hex.DecodeString(proof.NotaryPubkey)
	if err != nil {
		return &domain.SignatureInvalidError{Reason: fmt.Sprintf("decode notary pubkey: %v", err)}
	}
	if len(pubkey) != ed25519.PublicKeySize {
		return &domain.SignatureInvalidError{Reason: fmt.Sprintf("notary pubkey must be %d bytes, got %d", ed25519.PublicKeySize, len(pubkey))}
	}

	sig, err := hex.DecodeString(proof.Signature)
	if err != nil {
		return &domain.SignatureInvalidError{Reason: fmt.Sprintf("decode signature: %v", err)}
	}
	if len(sig) != ed25519.SignatureSize {
		return &domain.SignatureInvalidError{Reason: fmt.Sprintf("signature must be %d bytes, got %d", ed25519.SignatureSize, len(sig))}
	}

	if !ed25519.Verify(ed25519.PublicKey(pubkey), proof.CanonicalMessage(), sig) {
		return &domain.SignatureInvalidError{Reason: "ed25519 verification failed"}
	}
	return nil
}
