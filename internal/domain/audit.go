package domain

// AuditAction is the closed set of pipeline stages recorded on the audit
// trail. Unknown actions are rejected at the point of logging.
type AuditAction string

const (
	ActionExtractClaim   AuditAction = "extract_claim"
	ActionGenerateProof  AuditAction = "generate_proof"
	ActionSubmitToChain  AuditAction = "submit_to_chain"
	ActionVerifyProof    AuditAction = "verify_proof"
	ActionExportVerifier AuditAction = "export_verifier"
)

func (a AuditAction) Valid() bool {
	switch a {
	case ActionExtractClaim, ActionGenerateProof, ActionSubmitToChain,
		ActionVerifyProof, ActionExportVerifier:
		return true
	}
	return false
}

// AuditEntry is one link of the hash-chained audit trail. Input, output
// and decision-logic material are committed as digests only, so the trail
// can be published without leaking the data it describes.
type AuditEntry struct {
	Timestamp         uint64      `json:"timestamp"`
	Action            AuditAction `json:"action"`
	InputHash         [32]byte    `json:"input_hash"`
	OutputHash        [32]byte    `json:"output_hash"`
	DecisionLogicHash [32]byte    `json:"decision_logic_hash"`

	// Confidence of the extraction or decision in [0,1].
	Confidence float64 `json:"confidence"`

	// Hash of the serialized previous entry; the genesis sentinel for
	// the first entry.
	PreviousHash [32]byte `json:"previous_hash"`

	// Position of this entry on the trail, starting at 0.
	Nonce uint64 `json:"nonce"`
}
