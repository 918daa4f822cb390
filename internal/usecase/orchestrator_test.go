package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/engine"
)

type recordingSink struct {
	trailIDs []string
	entries  []domain.AuditEntry
	err      error
}

func (s *recordingSink) AppendEntry(ctx context.Context, trailID string, entry domain.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.trailIDs = append(s.trailIDs, trailID)
	s.entries = append(s.entries, entry)
	return nil
}

func newTestOrchestrator(t *testing.T, sink AuditEntrySink) *ComplianceOrchestrator {
	t.Helper()
	eng, err := engine.New(engine.KindMock)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewComplianceOrchestrator(
		NewClaimExtractor(),
		NewClaimValidator(nil),
		eng,
		NewChainOrchestrator(),
		sink,
		"trail-1",
	)
}

const statementText = "Chase Bank\nAccount Balance: $50,000.00\nDate: 2024-01-15"

func TestComplianceRunWithoutSubmission(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	run, err := o.Run(context.Background(), DataSource{Kind: SourceText, Raw: statementText}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if run.Submission != nil {
		t.Fatal("no chain requested, no submission expected")
	}
	if len(run.Receipt.Proof) == 0 {
		t.Fatal("expected a proof receipt")
	}

	// extract, prove, verify.
	if o.Trail().Len() != 3 {
		t.Fatalf("trail has %d entries, want 3", o.Trail().Len())
	}
	if !o.Trail().VerifyIntegrity() {
		t.Fatal("trail must verify after a run")
	}

	actions := []domain.AuditAction{}
	for _, e := range o.Trail().Snapshot() {
		actions = append(actions, e.Action)
	}
	want := []domain.AuditAction{domain.ActionExtractClaim, domain.ActionGenerateProof, domain.ActionVerifyProof}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("actions %v, want %v", actions, want)
		}
	}
}

func TestComplianceRunWithSubmission(t *testing.T) {
	sink := &recordingSink{}
	o := newTestOrchestrator(t, sink)

	run, err := o.Run(context.Background(), DataSource{Kind: SourceText, Raw: statementText}, domain.ChainEvm)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if run.Submission == nil {
		t.Fatal("expected a submission result")
	}
	if !run.Submission.VerificationStatus {
		t.Fatal("placeholder submission must report verified")
	}
	if run.Submission.TransactionHash == "" || run.Submission.ExplorerURL == "" {
		t.Fatalf("submission missing fields: %+v", run.Submission)
	}

	if o.Trail().Len() != 4 {
		t.Fatalf("trail has %d entries, want 4", o.Trail().Len())
	}
	if len(sink.entries) != 4 {
		t.Fatalf("sink saw %d entries, want 4", len(sink.entries))
	}
	for _, id := range sink.trailIDs {
		if id != "trail-1" {
			t.Fatalf("sink trail id %q", id)
		}
	}
}

func TestComplianceRunAbortsOnInvalidClaim(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	// The extractor sets threshold to half the balance, so force failure
	// through a balance of zero dollars.
	_, err := o.Run(context.Background(), DataSource{Kind: SourceText, Raw: "Balance: $0.00"}, "")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	// Only the extraction landed on the trail; no proof was attempted.
	if o.Trail().Len() != 1 {
		t.Fatalf("trail has %d entries, want 1", o.Trail().Len())
	}
}

func TestComplianceRunSinkFailureDoesNotAbort(t *testing.T) {
	sink := &recordingSink{err: errors.New("postgres down")}
	o := newTestOrchestrator(t, sink)

	if _, err := o.Run(context.Background(), DataSource{Kind: SourceText, Raw: statementText}, ""); err != nil {
		t.Fatalf("run must survive sink failure: %v", err)
	}
	if o.Trail().Len() != 3 {
		t.Fatalf("trail has %d entries, want 3", o.Trail().Len())
	}
}

func TestComplianceRunRejectsUnknownChain(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	if _, err := o.Run(context.Background(), DataSource{Kind: SourceText, Raw: statementText}, "near"); err == nil {
		t.Fatal("expected unknown chain to fail")
	}
}

func TestExportVerifierRecordsOnTrail(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	code, err := o.ExportVerifier(context.Background(), domain.ChainStellar)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("expected verifier bytes")
	}
	snapshot := o.Trail().Snapshot()
	if len(snapshot) != 1 || snapshot[0].Action != domain.ActionExportVerifier {
		t.Fatalf("trail %v, want single export_verifier entry", snapshot)
	}
}

func TestChainOrchestratorPerChainMetadata(t *testing.T) {
	o := NewChainOrchestrator()
	receipt := domain.ProofReceipt{Proof: []byte{1}}

	solana, err := o.Submit(context.Background(), receipt, domain.ChainSolana)
	if err != nil {
		t.Fatalf("solana: %v", err)
	}
	if *solana.GasUsed != 250000 {
		t.Fatalf("solana gas %d", *solana.GasUsed)
	}

	if _, err := o.Submit(context.Background(), domain.ProofReceipt{}, domain.ChainEvm); err == nil {
		t.Fatal("empty proof must fail submission")
	}
}
