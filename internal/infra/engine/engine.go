// Package engine provides the proving backends selectable at process
// start. Neither backend performs real SNARK work: the mock engine
// simulates the guest program faithfully enough to exercise the whole
// pipeline, and the TEE engine stands in for an attestation-based prover.
package engine

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

type Kind string

const (
	KindMock Kind = "mock"
	KindTee  Kind = "tee"
)

// New constructs the backend for the given kind.
func New(kind Kind) (domain.PrivacyEngine, error) {
	switch kind {
	case KindMock, "":
		return &MockEngine{}, nil
	case KindTee:
		return &TeeEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown engine kind %q", kind)
	}
}

// MockEngine simulates the guest program: it parses the assembled input,
// enforces the compliance predicate over the private claim, and commits
// only the public values. Its "proof" is a digest binding the public
// values, so Verify can detect substitution without any cryptography.
type MockEngine struct{}

type claimWitness struct {
	Balance   uint64 `json:"balance"`
	Threshold uint64 `json:"threshold"`
}

func (e *MockEngine) Prove(ctx context.Context, input []byte) (domain.ProofReceipt, error) {
	public, secrets, err := parseInput(input)
	if err != nil {
		return domain.ProofReceipt{}, fmt.Errorf("proving failed: %w", err)
	}
	if len(public) == 0 || len(secrets) == 0 {
		return domain.ProofReceipt{}, fmt.Errorf("proving failed: input must carry public values and a claim witness")
	}

	var witness claimWitness
	if err := json.Unmarshal(secrets[0], &witness); err != nil {
		return domain.ProofReceipt{}, fmt.Errorf("proving failed: decode claim witness: %w", err)
	}
	if witness.Balance < witness.Threshold {
		return domain.ProofReceipt{}, fmt.Errorf("proving failed: compliance predicate does not hold")
	}

	return domain.ProofReceipt{
		Proof:        mockProofBytes(public[0]),
		PublicValues: public[0],
		Metadata:     []byte(`{"backend":"mock","version":"1.0"}`),
	}, nil
}

func (e *MockEngine) Verify(ctx context.Context, receipt domain.ProofReceipt) (bool, error) {
	return bytes.Equal(receipt.Proof, mockProofBytes(receipt.PublicValues)), nil
}

func (e *MockEngine) ExportVerifier(ctx context.Context, chain domain.ChainType) ([]byte, error) {
	if !chain.Valid() {
		return nil, fmt.Errorf("unknown chain %q", chain)
	}
	return []byte("mock-verifier:" + string(chain)), nil
}

func mockProofBytes(publicValues []byte) []byte {
	sum := hashutil.Sha256(append([]byte("mock-proof:"), publicValues...))
	return sum[:]
}

// TeeEngine mirrors an attestation-based prover: the receipt carries a
// fake enclave quote in its metadata and the input echoed as the proof
// body. It never inspects the witness.
type TeeEngine struct{}

func (e *TeeEngine) Prove(ctx context.Context, input []byte) (domain.ProofReceipt, error) {
	quote := hashutil.Sha256(append([]byte("tee-quote:"), input...))
	public, _, err := parseInput(input)
	if err != nil {
		return domain.ProofReceipt{}, fmt.Errorf("proving failed: %w", err)
	}
	var publicValues []byte
	if len(public) > 0 {
		publicValues = public[0]
	}

	return domain.ProofReceipt{
		Proof:        quote[:],
		PublicValues: publicValues,
		Metadata:     []byte(`{"backend":"tee","attestation":"simulated"}`),
	}, nil
}

func (e *TeeEngine) Verify(ctx context.Context, receipt domain.ProofReceipt) (bool, error) {
	return len(receipt.Proof) == hashutil.HashSize, nil
}

func (e *TeeEngine) ExportVerifier(ctx context.Context, chain domain.ChainType) ([]byte, error) {
	if !chain.Valid() {
		return nil, fmt.Errorf("unknown chain %q", chain)
	}
	return []byte("tee-verifier:" + string(chain)), nil
}

// parseInput decodes the assembler framing: little-endian u64 blob count
// followed by length-prefixed blobs, public list then secret list.
func parseInput(input []byte) (public, secrets [][]byte, err error) {
	r := bytes.NewReader(input)
	public, err = readBlobList(r)
	if err != nil {
		return nil, nil, fmt.Errorf("public blobs: %w", err)
	}
	secrets, err = readBlobList(r)
	if err != nil {
		return nil, nil, fmt.Errorf("secret blobs: %w", err)
	}
	if r.Len() != 0 {
		return nil, nil, fmt.Errorf("%d trailing bytes", r.Len())
	}
	return public, secrets, nil
}

func readBlobList(r *bytes.Reader) ([][]byte, error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count > uint64(r.Len()) {
		return nil, fmt.Errorf("blob count %d exceeds remaining input", count)
	}
	out := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		var size uint64
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, err
		}
		if size > uint64(r.Len()) {
			return nil, fmt.Errorf("blob %d length %d exceeds remaining input", i, size)
		}
		blob := make([]byte, size)
		if _, err := r.Read(blob); err != nil {
			return nil, err
		}
		out = append(out, blob)
	}
	return out, nil
}
