package usecase

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

func TestEmptyTrailVerifies(t *testing.T) {
	trail := NewAuditTrail()
	if !trail.VerifyIntegrity() {
		t.Fatal("a freshly created trail must verify")
	}
	if trail.TrailHash() != trailHashOf(nil) {
		t.Fatal("empty trail hash must be the digest of the empty sequence")
	}
}

func TestAuditTrailChainLinkage(t *testing.T) {
	trail := NewAuditTrail()

	first, err := trail.AddEntry(domain.ActionExtractClaim, []byte("in"), []byte("out"), []byte("logic"), 0.9)
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	if first.Nonce != 0 {
		t.Fatalf("first nonce %d, want 0", first.Nonce)
	}
	if first.PreviousHash != [32]byte{} {
		t.Fatal("genesis entry must link to the zero hash")
	}

	second, err := trail.AddEntry(domain.ActionGenerateProof, []byte("in2"), []byte("out2"), []byte("logic"), 1.0)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.Nonce != 1 {
		t.Fatalf("second nonce %d, want 1", second.Nonce)
	}
	if second.PreviousHash != entryHash(first) {
		t.Fatal("second entry must link to hash of first")
	}

	if !trail.VerifyIntegrity() {
		t.Fatal("untouched trail must verify")
	}
}

func TestAuditTrailRejectsBadInput(t *testing.T) {
	trail := NewAuditTrail()
	if _, err := trail.AddEntry("made_up_action", nil, nil, nil, 0.5); err == nil {
		t.Fatal("unknown action must be rejected")
	}
	if _, err := trail.AddEntry(domain.ActionVerifyProof, nil, nil, nil, 1.5); err == nil {
		t.Fatal("confidence above 1 must be rejected")
	}
	if _, err := trail.AddEntry(domain.ActionVerifyProof, nil, nil, nil, -0.1); err == nil {
		t.Fatal("negative confidence must be rejected")
	}
	if trail.Len() != 0 {
		t.Fatal("rejected entries must not land on the trail")
	}
}

func TestAuditTrailDetectsTampering(t *testing.T) {
	trail := NewAuditTrail()
	for i := 0; i < 3; i++ {
		if _, err := trail.AddEntry(domain.ActionExtractClaim, []byte{byte(i)}, nil, nil, 1.0); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	trail.entries[1].Confidence = 0.1
	if trail.VerifyIntegrity() {
		t.Fatal("edited entry must break integrity")
	}
}

func TestAuditTrailDetectsReorderedEntries(t *testing.T) {
	trail := NewAuditTrail()
	for i := 0; i < 3; i++ {
		if _, err := trail.AddEntry(domain.ActionExtractClaim, []byte{byte(i)}, nil, nil, 1.0); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	trail.entries[0], trail.entries[1] = trail.entries[1], trail.entries[0]
	if trail.VerifyIntegrity() {
		t.Fatal("reordered entries must break integrity")
	}
}

func TestAuditTrailDetectsTruncation(t *testing.T) {
	trail := NewAuditTrail()
	for i := 0; i < 3; i++ {
		if _, err := trail.AddEntry(domain.ActionExtractClaim, []byte{byte(i)}, nil, nil, 1.0); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	trail.entries = trail.entries[:2]
	if trail.VerifyIntegrity() {
		t.Fatal("truncated trail must break integrity against the stored trail hash")
	}
}

func TestAuditTrailConcurrentAppends(t *testing.T) {
	trail := NewAuditTrail()
	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := trail.AddEntry(domain.ActionGenerateProof, []byte{byte(w), byte(i)}, nil, nil, 1.0); err != nil {
					t.Errorf("writer %d: %v", w, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if trail.Len() != writers*perWriter {
		t.Fatalf("trail length %d, want %d", trail.Len(), writers*perWriter)
	}
	if !trail.VerifyIntegrity() {
		t.Fatal("concurrently built trail must still verify")
	}

	snapshot := trail.Snapshot()
	for i, entry := range snapshot {
		if entry.Nonce != uint64(i) {
			t.Fatalf("entry %d has nonce %d", i, entry.Nonce)
		}
	}
}

func TestAuditTrailSnapshotIsACopy(t *testing.T) {
	trail := NewAuditTrail()
	if _, err := trail.AddEntry(domain.ActionExtractClaim, []byte("in"), nil, nil, 1.0); err != nil {
		t.Fatalf("add: %v", err)
	}

	snapshot := trail.Snapshot()
	snapshot[0].Confidence = 0
	if !trail.VerifyIntegrity() {
		t.Fatal("mutating a snapshot must not affect the trail")
	}
}

func TestAuditTrailExportJSON(t *testing.T) {
	trail := NewAuditTrail()
	if _, err := trail.AddEntry(domain.ActionExtractClaim, []byte("raw statement"), []byte("claim"), []byte("logic"), 0.72); err != nil {
		t.Fatalf("add: %v", err)
	}

	raw, err := trail.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var decoded struct {
		TrailHash string `json:"trail_hash"`
		Entries   []struct {
			Action       string  `json:"action"`
			InputHash    string  `json:"input_hash"`
			PreviousHash string  `json:"previous_hash"`
			Confidence   float64 `json:"confidence"`
			Nonce        uint64  `json:"nonce"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded.Entries) != 1 {
		t.Fatalf("exported %d entries, want 1", len(decoded.Entries))
	}
	if decoded.Entries[0].Action != "extract_claim" {
		t.Fatalf("action %q", decoded.Entries[0].Action)
	}
	if len(decoded.Entries[0].InputHash) != 64 {
		t.Fatal("input hash must be 32 bytes of hex")
	}
	if len(decoded.TrailHash) != 64 {
		t.Fatal("trail hash must be 32 bytes of hex")
	}
}

func TestEntryHashIsStableAcrossRuns(t *testing.T) {
	entry := domain.AuditEntry{
		Timestamp:  1735128000,
		Action:     domain.ActionExtractClaim,
		Confidence: 0.5,
		Nonce:      3,
	}
	if entryHash(entry) != entryHash(entry) {
		t.Fatal("entry hash must be deterministic")
	}

	encoded := string(encodeEntry(entry))
	want := `{"action":"extract_claim","confidence":0.5,` +
		`"decision_logic_hash":"0000000000000000000000000000000000000000000000000000000000000000",` +
		`"input_hash":"0000000000000000000000000000000000000000000000000000000000000000",` +
		`"nonce":3,` +
		`"output_hash":"0000000000000000000000000000000000000000000000000000000000000000",` +
		`"previous_hash":"0000000000000000000000000000000000000000000000000000000000000000",` +
		`"timestamp":1735128000}`
	if encoded != want {
		t.Fatalf("canonical encoding drifted:\n got %s\nwant %s", encoded, want)
	}
}
