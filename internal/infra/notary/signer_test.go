package notary

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

const testPrivateKey = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testPrivateKey)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return s
}

func TestSignerAddressDerivation(t *testing.T) {
	s := newTestSigner(t)
	want := "0xFCAd0B19bB29D4674531d6f115237E16AfCE377c"
	if !strings.EqualFold(s.Address(), want) {
		t.Fatalf("address %s, want %s", s.Address(), want)
	}
}

func TestNewSignerAcceptsBarePrefix(t *testing.T) {
	bare, err := NewSigner(strings.TrimPrefix(testPrivateKey, "0x"))
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	if bare.Address() != newTestSigner(t).Address() {
		t.Fatal("0x prefix must not change the derived address")
	}
}

func TestNewSignerRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "0x", "nothex", "0x1234"} {
		if _, err := NewSigner(in); !errors.Is(err, domain.ErrInvalidPrivateKey) {
			t.Fatalf("%q: expected ErrInvalidPrivateKey, got %v", in, err)
		}
	}
}

func TestSignAttestationRecoversToNotary(t *testing.T) {
	s := newTestSigner(t)
	employee, err := ParseAddress("0x000000000000000000000000000000000000dEaD")
	if err != nil {
		t.Fatalf("parse address: %v", err)
	}

	proof, err := s.SignAttestation(employee, 75000, 1735128000)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if proof.Salary != 75000 || proof.Timestamp != 1735128000 {
		t.Fatalf("unexpected proof fields: %+v", proof)
	}
	if !strings.HasPrefix(proof.Signature, "0x") || len(proof.Signature) != 2+130 {
		t.Fatalf("unexpected signature form %q", proof.Signature)
	}
	v := proof.Signature[len(proof.Signature)-2:]
	if v != "1b" && v != "1c" {
		t.Fatalf("recovery byte %s, want 1b or 1c", v)
	}

	recovered, err := RecoverSigner(proof.Signature, employee, proof.Salary, proof.Timestamp)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if !strings.EqualFold(recovered.Hex(), s.Address()) {
		t.Fatalf("recovered %s, want %s", recovered.Hex(), s.Address())
	}
}

func TestRecoverRejectsTamperedSalary(t *testing.T) {
	s := newTestSigner(t)
	employee, _ := ParseAddress("0x000000000000000000000000000000000000dEaD")
	proof, err := s.SignAttestation(employee, 75000, 1735128000)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	recovered, err := RecoverSigner(proof.Signature, employee, proof.Salary+1, proof.Timestamp)
	if err == nil && strings.EqualFold(recovered.Hex(), s.Address()) {
		t.Fatal("tampered salary must not recover to the notary")
	}
}

func TestMessageHashIsDeterministic(t *testing.T) {
	employee, _ := ParseAddress("0x000000000000000000000000000000000000dEaD")
	h1 := MessageHash(employee, 75000, 1735128000)
	h2 := MessageHash(employee, 75000, 1735128000)
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if h1 == MessageHash(employee, 75001, 1735128000) {
		t.Fatal("salary must bind into the hash")
	}
	if h1 == MessageHash(employee, 75000, 1735128001) {
		t.Fatal("timestamp must bind into the hash")
	}
}

func TestGenerateProofValidatesAddress(t *testing.T) {
	s := newTestSigner(t)
	s.now = func() time.Time { return time.Unix(1735128000, 0) }

	for _, in := range []string{
		"",
		"dEaD",
		"0x123",
		"0x000000000000000000000000000000000000dexy",
		"0x000000000000000000000000000000000000dEaD00",
	} {
		if _, err := s.GenerateProof(in); !errors.Is(err, domain.ErrInvalidAddress) {
			t.Fatalf("%q: expected ErrInvalidAddress, got %v", in, err)
		}
	}

	proof, err := s.GenerateProof("0x000000000000000000000000000000000000dEaD")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if proof.Salary != PlaceholderSalary {
		t.Fatalf("salary %d, want placeholder %d", proof.Salary, PlaceholderSalary)
	}
	if proof.Timestamp != 1735128000 {
		t.Fatalf("timestamp %d, want pinned clock", proof.Timestamp)
	}
}
