// Package notary implements the Ethereum-compatible attestation signer.
//
// The signed message commits an employee address together with a salary
// and an attestation timestamp:
//
//	keccak256(address[20] || salary[32 BE] || timestamp[32 BE])
//
// The digest is then wrapped with the personal-message prefix
// ("\x19Ethereum Signed Message:\n32") before ECDSA signing, so wallets
// and on-chain ecrecover verifiers accept the result. Signatures are 65
// bytes with the recovery id mapped to v in {27, 28}.
package notary

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

const personalMessagePrefix = "\x19Ethereum Signed Message:\n32"

// Signer holds the notary's ECDSA key and produces salary attestations.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	now     func() time.Time
}

// NewSigner parses a hex-encoded secp256k1 private key, with or without
// a 0x prefix.
func NewSigner(privateKeyHex string) (*Signer, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPrivateKey, err)
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		now:     time.Now,
	}, nil
}

// Address returns the notary's EIP-55 checksummed address.
func (s *Signer) Address() string {
	return s.address.Hex()
}

// MessageHash computes the attestation digest for an employee address,
// salary and unix timestamp.
func MessageHash(employee common.Address, salary uint64, timestamp uint64) [32]byte {
	payload := make([]byte, 0, 20+32+32)
	payload = append(payload, employee.Bytes()...)
	payload = append(payload, bigEndian32(salary)...)
	payload = append(payload, bigEndian32(timestamp)...)
	return hashutil.Keccak256(payload)
}

func bigEndian32(v uint64) []byte {
	return new(big.Int).SetUint64(v).FillBytes(make([]byte, 32))
}

// SignAttestation signs the prefixed attestation digest and returns the
// completed proof.
func (s *Signer) SignAttestation(employee common.Address, salary uint64, timestamp uint64) (domain.STLOPProof, error) {
	msgHash := MessageHash(employee, salary, timestamp)
	digest := prefixedDigest(msgHash)

	sig, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return domain.STLOPProof{}, fmt.Errorf("%w: %v", domain.ErrSigningFailed, err)
	}
	// crypto.Sign yields v in {0, 1}; on-chain verifiers expect 27/28.
	sig[64] += 27

	pub := crypto.FromECDSAPub(&s.key.PublicKey)
	return domain.STLOPProof{
		Salary:       salary,
		Timestamp:    timestamp,
		Signature:    "0x" + hex.EncodeToString(sig),
		NotaryPubkey: "0x" + hex.EncodeToString(pub),
	}, nil
}

// GenerateProof attests the placeholder salary for an employee address at
// the current time. The address must be a 0x-prefixed 40-hex-digit string.
func (s *Signer) GenerateProof(employeeAddress string) (domain.STLOPProof, error) {
	addr, err := ParseAddress(employeeAddress)
	if err != nil {
		return domain.STLOPProof{}, err
	}
	return s.SignAttestation(addr, PlaceholderSalary, uint64(s.now().Unix()))
}

// PlaceholderSalary is attested until a payroll data source is wired in.
const PlaceholderSalary uint64 = 75000

// ParseAddress validates the 0x-prefixed 40-hex-digit address form.
func ParseAddress(addr string) (common.Address, error) {
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		return common.Address{}, domain.ErrInvalidAddress
	}
	if _, err := hex.DecodeString(addr[2:]); err != nil {
		return common.Address{}, domain.ErrInvalidAddress
	}
	return common.HexToAddress(addr), nil
}

// RecoverSigner recovers the address that signed an attestation over the
// given employee, salary and timestamp. The signature must be the
// 0x-prefixed 65-byte form produced by SignAttestation.
func RecoverSigner(sigHex string, employee common.Address, salary uint64, timestamp uint64) (common.Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) != 65 {
		return common.Address{}, fmt.Errorf("expected 65-byte signature, got %d", len(raw))
	}
	sig := make([]byte, 65)
	copy(sig, raw)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	msgHash := MessageHash(employee, salary, timestamp)
	digest := prefixedDigest(msgHash)
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func prefixedDigest(msgHash [32]byte) [32]byte {
	return hashutil.Keccak256([]byte(personalMessagePrefix), msgHash[:])
}
