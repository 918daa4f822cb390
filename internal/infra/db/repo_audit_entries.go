package db

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

var errDBUnavailable = errors.New("db unavailable")

// AuditEntryRepository persists trail entries append-only. The chain
// linkage computed in memory is stored verbatim; the repository enforces
// only that nonces arrive in order per trail.
type AuditEntryRepository struct {
	db *gorm.DB
}

func NewAuditEntryRepository(db *gorm.DB) *AuditEntryRepository {
	return &AuditEntryRepository{db: db}
}

func (r *AuditEntryRepository) AppendEntry(ctx context.Context, trailID string, entry domain.AuditEntry) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if trailID == "" {
		return errors.New("trail_id is required")
	}
	if !entry.Action.Valid() {
		return fmt.Errorf("unknown audit action %q", entry.Action)
	}

	id, err := newUUID()
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Raw(
			"SELECT COUNT(*) FROM audit_entries WHERE trail_id = ? FOR UPDATE",
			trailID,
		).Scan(&count).Error; err != nil {
			return err
		}
		if entry.Nonce != uint64(count) {
			return fmt.Errorf("nonce %d out of order for trail %s (have %d entries)", entry.Nonce, trailID, count)
		}

		model := AuditEntryModel{
			ID:                id,
			TrailID:           trailID,
			Nonce:             int64(entry.Nonce),
			Action:            string(entry.Action),
			Timestamp:         int64(entry.Timestamp),
			InputHash:         hex.EncodeToString(entry.InputHash[:]),
			OutputHash:        hex.EncodeToString(entry.OutputHash[:]),
			DecisionLogicHash: hex.EncodeToString(entry.DecisionLogicHash[:]),
			Confidence:        entry.Confidence,
			PreviousHash:      hex.EncodeToString(entry.PreviousHash[:]),
			CreatedAt:         time.Now().UTC(),
		}
		return tx.Create(&model).Error
	})
}

func (r *AuditEntryRepository) ListByTrail(ctx context.Context, trailID string) ([]domain.AuditEntry, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []AuditEntryModel
	if err := r.db.WithContext(ctx).
		Where("trail_id = ?", trailID).
		Order("nonce ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.AuditEntry, 0, len(models))
	for _, model := range models {
		entry, err := entryFromModel(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func entryFromModel(model AuditEntryModel) (domain.AuditEntry, error) {
	entry := domain.AuditEntry{
		Timestamp:  uint64(model.Timestamp),
		Action:     domain.AuditAction(model.Action),
		Confidence: model.Confidence,
		Nonce:      uint64(model.Nonce),
	}
	for _, field := range []struct {
		dst *[32]byte
		src string
	}{
		{&entry.InputHash, model.InputHash},
		{&entry.OutputHash, model.OutputHash},
		{&entry.DecisionLogicHash, model.DecisionLogicHash},
		{&entry.PreviousHash, model.PreviousHash},
	} {
		raw, err := hex.DecodeString(field.src)
		if err != nil || len(raw) != 32 {
			return domain.AuditEntry{}, fmt.Errorf("corrupt digest column for entry %s", model.ID)
		}
		copy(field.dst[:], raw)
	}
	return entry, nil
}

func newUUID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	bytes[6] = (bytes[6] & 0x0f) | 0x40
	bytes[8] = (bytes[8] & 0x3f) | 0x80
	hexStr := hex.EncodeToString(bytes)
	return hexStr[0:8] + "-" + hexStr[8:12] + "-" + hexStr[12:16] + "-" + hexStr[16:20] + "-" + hexStr[20:32], nil
}
