package domain

import "context"

// ChainType identifies a settlement target for proof receipts.
type ChainType string

const (
	ChainSolana  ChainType = "solana"
	ChainStellar ChainType = "stellar"
	ChainEvm     ChainType = "evm"
)

func (c ChainType) Valid() bool {
	switch c {
	case ChainSolana, ChainStellar, ChainEvm:
		return true
	}
	return false
}

// ProofReceipt is the backend-opaque result of a proving run. PublicValues
// carries the committed public claim data; Metadata is backend specific
// (verifying key identifiers, program digests).
type ProofReceipt struct {
	Proof        []byte `json:"proof"`
	PublicValues []byte `json:"public_values"`
	Metadata     []byte `json:"metadata,omitempty"`
}

// PrivacyEngine abstracts the proving backend. Implementations receive
// the serialized prover input produced by zkinput.Builder and must not
// retain it after the call returns.
type PrivacyEngine interface {
	// Prove runs the proving program over the serialized input.
	Prove(ctx context.Context, input []byte) (ProofReceipt, error)

	// Verify checks a receipt against its committed public values.
	Verify(ctx context.Context, receipt ProofReceipt) (bool, error)

	// ExportVerifier emits on-chain verifier material for the target chain.
	ExportVerifier(ctx context.Context, chain ChainType) ([]byte, error)
}
