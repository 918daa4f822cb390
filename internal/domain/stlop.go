package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// STLOPProof (Signed TLS-Originated Proof) is a notary-signed salary
// assertion whose hash construction matches the on-chain verifier's
// ecrecover check. It is created per request by the notary service and
// verified entirely outside this core.
type STLOPProof struct {
	// Salary in whole currency units, as committed into the signed hash.
	// On the wire it travels as a decimal string: consumers without u64
	// number support would otherwise round it away from the signed value.
	Salary uint64 `json:"-"`

	// Unix seconds when the proof was generated.
	Timestamp uint64 `json:"timestamp"`

	// 65-byte ECDSA signature (r || s || v), 0x-prefixed hex.
	Signature string `json:"signature"`

	// Checksummed address of the signing notary.
	NotaryPubkey string `json:"notary_pubkey"`
}

type stlopProofWire struct {
	Salary       string `json:"salary"`
	Timestamp    uint64 `json:"timestamp"`
	Signature    string `json:"signature"`
	NotaryPubkey string `json:"notary_pubkey"`
}

func (p STLOPProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(stlopProofWire{
		Salary:       strconv.FormatUint(p.Salary, 10),
		Timestamp:    p.Timestamp,
		Signature:    p.Signature,
		NotaryPubkey: p.NotaryPubkey,
	})
}

func (p *STLOPProof) UnmarshalJSON(data []byte) error {
	var wire stlopProofWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	salary, err := strconv.ParseUint(wire.Salary, 10, 64)
	if err != nil {
		return fmt.Errorf("parse salary: %w", err)
	}
	*p = STLOPProof{
		Salary:       salary,
		Timestamp:    wire.Timestamp,
		Signature:    wire.Signature,
		NotaryPubkey: wire.NotaryPubkey,
	}
	return nil
}

type GenerateProofRequest struct {
	EmployeeAddress string `json:"employee_address"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	NotaryAddress string `json:"notary_address"`
}
