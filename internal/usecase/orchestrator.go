package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/zkinput"
)

// SubmissionResult reports a proof submission to a settlement chain.
type SubmissionResult struct {
	TransactionHash    string  `json:"transaction_hash"`
	VerificationStatus bool    `json:"verification_status"`
	ExplorerURL        string  `json:"explorer_url"`
	GasUsed            *uint64 `json:"gas_used,omitempty"`
}

// ChainSubmitter submits a proof receipt to one settlement chain.
type ChainSubmitter interface {
	Submit(ctx context.Context, receipt domain.ProofReceipt, chain domain.ChainType) (SubmissionResult, error)
}

// ChainOrchestrator routes receipts to per-chain submitters. The current
// submitters are placeholders pending real chain SDK integrations; they
// return fixed transaction metadata so the surrounding flow is testable.
type ChainOrchestrator struct{}

func NewChainOrchestrator() *ChainOrchestrator {
	return &ChainOrchestrator{}
}

func (o *ChainOrchestrator) Submit(ctx context.Context, receipt domain.ProofReceipt, chain domain.ChainType) (SubmissionResult, error) {
	if len(receipt.Proof) == 0 {
		return SubmissionResult{}, fmt.Errorf("submission failed: empty proof")
	}
	switch chain {
	case domain.ChainSolana:
		return placeholderSubmission("solana_tx_placeholder", "https://explorer.solana.com/tx/placeholder", 250000), nil
	case domain.ChainStellar:
		return placeholderSubmission("stellar_tx_placeholder", "https://stellar.expert/explorer/testnet/tx/placeholder", 100000), nil
	case domain.ChainEvm:
		return placeholderSubmission("0xplaceholder", "https://explorer.mantra.zone/tx/0xplaceholder", 500000), nil
	default:
		return SubmissionResult{}, fmt.Errorf("chain not supported: %s", chain)
	}
}

func placeholderSubmission(txHash, explorerURL string, gas uint64) SubmissionResult {
	return SubmissionResult{
		TransactionHash:    txHash,
		VerificationStatus: true,
		ExplorerURL:        explorerURL,
		GasUsed:            &gas,
	}
}

// AuditEntrySink mirrors audit entries to durable storage. Persistence is
// best-effort; a sink failure never aborts the pipeline.
type AuditEntrySink interface {
	AppendEntry(ctx context.Context, trailID string, entry domain.AuditEntry) error
}

// ComplianceOrchestrator runs the end-to-end flow: extract a claim,
// validate it, assemble the prover input, prove, and optionally submit.
// It exclusively owns its audit trail; every step lands there.
type ComplianceOrchestrator struct {
	extractor *ClaimExtractor
	validator *ClaimValidator
	engine    domain.PrivacyEngine
	submitter ChainSubmitter
	trail     *AuditTrail
	sink      AuditEntrySink
	trailID   string
}

// ComplianceRun is the outcome of one orchestrated flow.
type ComplianceRun struct {
	Extraction ExtractionResult
	Validation ValidationResult
	Receipt    domain.ProofReceipt
	Submission *SubmissionResult
}

func NewComplianceOrchestrator(
	extractor *ClaimExtractor,
	validator *ClaimValidator,
	engine domain.PrivacyEngine,
	submitter ChainSubmitter,
	sink AuditEntrySink,
	trailID string,
) *ComplianceOrchestrator {
	return &ComplianceOrchestrator{
		extractor: extractor,
		validator: validator,
		engine:    engine,
		submitter: submitter,
		trail:     NewAuditTrail(),
		sink:      sink,
		trailID:   trailID,
	}
}

// Trail exposes the orchestrator's audit trail for export and inspection.
func (o *ComplianceOrchestrator) Trail() *AuditTrail {
	return o.trail
}

// Run executes the full pipeline for one data source. A nil chain skips
// submission. Validation errors abort before any proving happens.
func (o *ComplianceOrchestrator) Run(ctx context.Context, source DataSource, chain domain.ChainType) (ComplianceRun, error) {
	extraction, err := o.extractor.Extract(source)
	if err != nil {
		return ComplianceRun{}, fmt.Errorf("extract claim: %w", err)
	}
	claimJSON, err := json.Marshal(extraction.Claim)
	if err != nil {
		return ComplianceRun{}, fmt.Errorf("marshal claim: %w", err)
	}
	o.record(ctx, domain.ActionExtractClaim, extraction.SourceHash[:], claimJSON, []byte("regex-extraction-v1"), extraction.Confidence)

	validation := o.validator.Validate(ctx, extraction.Claim)
	if !validation.IsValid {
		return ComplianceRun{Extraction: extraction, Validation: validation},
			fmt.Errorf("claim validation failed: %v", validation.Errors)
	}

	input, err := assembleClaimInput(extraction.Claim)
	if err != nil {
		return ComplianceRun{Extraction: extraction, Validation: validation}, fmt.Errorf("assemble prover input: %w", err)
	}

	receipt, err := o.engine.Prove(ctx, input)
	if err != nil {
		return ComplianceRun{Extraction: extraction, Validation: validation}, fmt.Errorf("prove: %w", err)
	}
	o.record(ctx, domain.ActionGenerateProof, input, receipt.Proof, []byte("privacy-engine"), 1.0)

	ok, err := o.engine.Verify(ctx, receipt)
	if err != nil {
		return ComplianceRun{Extraction: extraction, Validation: validation, Receipt: receipt}, fmt.Errorf("verify proof: %w", err)
	}
	if !ok {
		return ComplianceRun{Extraction: extraction, Validation: validation, Receipt: receipt}, fmt.Errorf("proof did not verify")
	}
	o.record(ctx, domain.ActionVerifyProof, receipt.Proof, receipt.PublicValues, []byte("privacy-engine"), 1.0)

	run := ComplianceRun{Extraction: extraction, Validation: validation, Receipt: receipt}

	if chain != "" {
		if !chain.Valid() {
			return run, fmt.Errorf("chain not supported: %s", chain)
		}
		submission, err := o.submitter.Submit(ctx, receipt, chain)
		if err != nil {
			return run, fmt.Errorf("submit to %s: %w", chain, err)
		}
		submissionJSON, err := json.Marshal(submission)
		if err != nil {
			return run, fmt.Errorf("marshal submission: %w", err)
		}
		o.record(ctx, domain.ActionSubmitToChain, receipt.Proof, submissionJSON, []byte(string(chain)), 1.0)
		run.Submission = &submission
	}

	return run, nil
}

// ExportVerifier emits verifier material for a chain and records the
// export on the trail.
func (o *ComplianceOrchestrator) ExportVerifier(ctx context.Context, chain domain.ChainType) ([]byte, error) {
	if !chain.Valid() {
		return nil, fmt.Errorf("chain not supported: %s", chain)
	}
	bytecode, err := o.engine.ExportVerifier(ctx, chain)
	if err != nil {
		return nil, fmt.Errorf("export verifier: %w", err)
	}
	o.record(ctx, domain.ActionExportVerifier, []byte(string(chain)), bytecode, []byte("privacy-engine"), 1.0)
	return bytecode, nil
}

func (o *ComplianceOrchestrator) record(ctx context.Context, action domain.AuditAction, input, output, decisionLogic []byte, confidence float64) {
	entry, err := o.trail.AddEntry(action, input, output, decisionLogic, confidence)
	if err != nil {
		log.Printf("audit trail append failed for %s: %v", action, err)
		return
	}
	if o.sink != nil {
		if err := o.sink.AppendEntry(ctx, o.trailID, entry); err != nil {
			log.Printf("audit sink append failed for %s: %v", action, err)
		}
	}
}

// assembleClaimInput packs the claim for the prover: public values in the
// public list, the full claim in the secret list. The balance and
// signature only ever travel in the private portion.
func assembleClaimInput(claim domain.RwaClaim) ([]byte, error) {
	publicJSON, err := json.Marshal(domain.PublicValuesFromClaim(claim))
	if err != nil {
		return nil, err
	}
	claimJSON, err := json.Marshal(claim)
	if err != nil {
		return nil, err
	}

	builder := zkinput.NewBuilder()
	defer builder.Clear()
	builder.AddPublicData(publicJSON)
	if err := builder.AddSecret(claimJSON); err != nil {
		return nil, err
	}
	return builder.Build()
}
