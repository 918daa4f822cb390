package db

import "time"

// AuditEntryModel mirrors one hash-chained trail entry. Rows are only
// ever inserted; the nonce and previous-hash columns carry the chain
// linkage so a reader can re-verify integrity straight from the table.
type AuditEntryModel struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	TrailID           string    `gorm:"index:idx_trail_nonce,unique;not null"`
	Nonce             int64     `gorm:"index:idx_trail_nonce,unique;not null"`
	Action            string    `gorm:"not null"`
	Timestamp         int64     `gorm:"not null"`
	InputHash         string    `gorm:"type:char(64);not null"`
	OutputHash        string    `gorm:"type:char(64);not null"`
	DecisionLogicHash string    `gorm:"type:char(64);not null"`
	Confidence        float64   `gorm:"not null"`
	PreviousHash      string    `gorm:"type:char(64);not null"`
	CreatedAt         time.Time `gorm:"not null"`
}

func (AuditEntryModel) TableName() string {
	return "audit_entries"
}
