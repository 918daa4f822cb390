package capture

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/usecase"
)

var testSeed = bytes.Repeat([]byte{0x42}, 32)

const (
	testDomain    = "example.com"
	testTimestamp = uint64(1735128000)
)

var (
	testBody = []byte(`{"data":"test"}`)
	testCert = []byte("MOCK_CERT")
)

func TestRecordProducesVerifiableProof(t *testing.T) {
	sess, err := NewSessionFromSeed(testSeed)
	if err != nil {
		t.Fatalf("NewSessionFromSeed: %v", err)
	}
	proof := sess.RecordAt(testDomain, testBody, testCert, testTimestamp)

	if err := usecase.VerifyRecordedTLSProof(proof, testDomain, testCert, testBody, testTimestamp+100, 3600); err != nil {
		t.Fatalf("verify fresh proof: %v", err)
	}

	err = usecase.VerifyRecordedTLSProof(proof, testDomain, testCert, testBody, testTimestamp+3700, 3600)
	var replay *domain.ReplayDetectedError
	if !errors.As(err, &replay) {
		t.Fatalf("expected ReplayDetectedError for stale proof, got %v", err)
	}
}

func TestRecordIsDeterministicForSeed(t *testing.T) {
	a, err := NewSessionFromSeed(testSeed)
	if err != nil {
		t.Fatalf("NewSessionFromSeed: %v", err)
	}
	b, err := NewSessionFromSeed(testSeed)
	if err != nil {
		t.Fatalf("NewSessionFromSeed: %v", err)
	}
	pa := a.RecordAt(testDomain, testBody, testCert, testTimestamp)
	pb := b.RecordAt(testDomain, testBody, testCert, testTimestamp)
	if pa != pb {
		t.Fatalf("same seed and inputs produced different proofs:\n%+v\n%+v", pa, pb)
	}
	if pa.NotaryPubkey != a.NotaryPubkeyHex() {
		t.Fatalf("proof pubkey %s does not match session pubkey %s", pa.NotaryPubkey, a.NotaryPubkeyHex())
	}
}

func TestNewSessionFromSeedRejectsBadLength(t *testing.T) {
	if _, err := NewSessionFromSeed(make([]byte, 16)); err == nil {
		t.Fatal("expected error for 16-byte seed")
	}
}

func TestFixtureRoundTrip(t *testing.T) {
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	proof := sess.RecordAt(testDomain, testBody, testCert, testTimestamp)

	dir := filepath.Join(t.TempDir(), "fixture")
	if err := WriteFixture(dir, Fixture{Proof: proof, CertChain: testCert, Body: testBody}); err != nil {
		t.Fatalf("WriteFixture: %v", err)
	}

	fx, err := LoadFixture(dir)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if fx.Proof != proof {
		t.Fatalf("loaded proof differs:\nwant %+v\ngot  %+v", proof, fx.Proof)
	}
	if !bytes.Equal(fx.CertChain, testCert) {
		t.Fatalf("loaded cert chain differs: %q", fx.CertChain)
	}
	if !bytes.Equal(fx.Body, testBody) {
		t.Fatalf("loaded body differs: %q", fx.Body)
	}

	if err := usecase.VerifyRecordedTLSProof(fx.Proof, testDomain, fx.CertChain, fx.Body, testTimestamp+100, 3600); err != nil {
		t.Fatalf("verify loaded fixture: %v", err)
	}
}

func TestLoadFixtureMissingDir(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing fixture dir")
	}
}
