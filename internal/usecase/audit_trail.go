package usecase

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/canonical"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

// AuditTrail is the append-only, hash-chained action log owned by the
// orchestrator. AddEntry is the single critical section; reads go through
// Snapshot so concurrent readers never observe a half-linked chain.
type AuditTrail struct {
	mu        sync.Mutex
	entries   []domain.AuditEntry
	trailHash [32]byte
	createdAt uint64
	now       func() time.Time
}

func NewAuditTrail() *AuditTrail {
	t := &AuditTrail{now: time.Now}
	t.createdAt = uint64(t.now().Unix())
	// The empty trail hashes to the digest of the empty sequence, so a
	// freshly created trail already verifies.
	t.trailHash = trailHashOf(nil)
	return t
}

// AddEntry digests the inputs, links the new entry to its predecessor and
// recomputes the trail hash. The action must belong to the closed action
// set and confidence must sit in [0, 1].
func (t *AuditTrail) AddEntry(action domain.AuditAction, input, output, decisionLogic []byte, confidence float64) (domain.AuditEntry, error) {
	if !action.Valid() {
		return domain.AuditEntry{}, fmt.Errorf("unknown audit action %q", action)
	}
	if confidence < 0 || confidence > 1 {
		return domain.AuditEntry{}, fmt.Errorf("confidence %v out of range [0,1]", confidence)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry := domain.AuditEntry{
		Timestamp:         uint64(t.now().Unix()),
		Action:            action,
		InputHash:         hashutil.Sha256(input),
		OutputHash:        hashutil.Sha256(output),
		DecisionLogicHash: hashutil.Sha256(decisionLogic),
		Confidence:        confidence,
		PreviousHash:      t.lastEntryHashLocked(),
		Nonce:             uint64(len(t.entries)),
	}

	t.entries = append(t.entries, entry)
	t.trailHash = trailHashOf(t.entries)
	return entry, nil
}

func (t *AuditTrail) lastEntryHashLocked() [32]byte {
	if len(t.entries) == 0 {
		return [32]byte{}
	}
	return entryHash(t.entries[len(t.entries)-1])
}

// VerifyIntegrity recomputes every chain link and the trail hash. A single
// mismatch anywhere makes the whole trail invalid.
func (t *AuditTrail) VerifyIntegrity() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := [32]byte{}
	for i, entry := range t.entries {
		if entry.Nonce != uint64(i) {
			return false
		}
		if entry.PreviousHash != prev {
			return false
		}
		prev = entryHash(entry)
	}
	return t.trailHash == trailHashOf(t.entries)
}

// Snapshot returns a copy of the entries for unsynchronized reading.
func (t *AuditTrail) Snapshot() []domain.AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.AuditEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *AuditTrail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *AuditTrail) TrailHash() [32]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trailHash
}

func (t *AuditTrail) CreatedAt() uint64 {
	return t.createdAt
}

// ExportJSON renders the trail for publication. Only digests leave the
// process; none of the hashed material is recoverable from the export.
func (t *AuditTrail) ExportJSON() ([]byte, error) {
	t.mu.Lock()
	entries := make([]domain.AuditEntry, len(t.entries))
	copy(entries, t.entries)
	trailHash := t.trailHash
	t.mu.Unlock()

	export := struct {
		CreatedAt uint64          `json:"created_at"`
		TrailHash string          `json:"trail_hash"`
		Entries   []exportedEntry `json:"entries"`
	}{
		CreatedAt: t.createdAt,
		TrailHash: hex.EncodeToString(trailHash[:]),
		Entries:   make([]exportedEntry, len(entries)),
	}
	for i, e := range entries {
		export.Entries[i] = exportedEntry{
			Timestamp:         e.Timestamp,
			Action:            string(e.Action),
			InputHash:         hex.EncodeToString(e.InputHash[:]),
			OutputHash:        hex.EncodeToString(e.OutputHash[:]),
			DecisionLogicHash: hex.EncodeToString(e.DecisionLogicHash[:]),
			Confidence:        e.Confidence,
			PreviousHash:      hex.EncodeToString(e.PreviousHash[:]),
			Nonce:             e.Nonce,
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

type exportedEntry struct {
	Timestamp         uint64  `json:"timestamp"`
	Action            string  `json:"action"`
	InputHash         string  `json:"input_hash"`
	OutputHash        string  `json:"output_hash"`
	DecisionLogicHash string  `json:"decision_logic_hash"`
	Confidence        float64 `json:"confidence"`
	PreviousHash      string  `json:"previous_hash"`
	Nonce             uint64  `json:"nonce"`
}

// entryHash digests the canonical fixed-key encoding of a single entry.
// The encoding is hand-built so the byte layout never depends on struct
// field order or encoder defaults.
func entryHash(e domain.AuditEntry) [32]byte {
	return hashutil.Sha256(encodeEntry(e))
}

// trailHashOf digests the canonical encoding of the whole sequence.
func trailHashOf(entries []domain.AuditEntry) [32]byte {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeEntry(e))
	}
	buf.WriteByte(']')
	return hashutil.Sha256(buf.Bytes())
}

func encodeEntry(e domain.AuditEntry) []byte {
	// Keys in byte order, digests as lowercase hex, confidence in the
	// canonical JSON number spelling.
	conf, err := canonical.Any(e.Confidence)
	if err != nil {
		conf = []byte("0")
	}
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	writeHashKV(buf, "action", string(e.Action))
	buf.WriteString(`"confidence":`)
	buf.Write(conf)
	buf.WriteByte(',')
	writeHashKV(buf, "decision_logic_hash", hex.EncodeToString(e.DecisionLogicHash[:]))
	writeHashKV(buf, "input_hash", hex.EncodeToString(e.InputHash[:]))
	buf.WriteString(`"nonce":`)
	buf.WriteString(strconv.FormatUint(e.Nonce, 10))
	buf.WriteByte(',')
	writeHashKV(buf, "output_hash", hex.EncodeToString(e.OutputHash[:]))
	writeHashKV(buf, "previous_hash", hex.EncodeToString(e.PreviousHash[:]))
	buf.WriteString(`"timestamp":`)
	buf.WriteString(strconv.FormatUint(e.Timestamp, 10))
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeHashKV(buf *bytes.Buffer, key, value string) {
	buf.WriteByte('"')
	buf.WriteString(key)
	buf.WriteString(`":"`)
	buf.WriteString(value)
	buf.WriteString(`",`)
}
