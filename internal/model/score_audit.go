package model

import "github.com/google/uuid"

// ScoreAudit is an append-only record of one spam score mutation. Every
// path that touches User.SpamScore writes one of these, so the running
// total can always be reconstructed and attributed.
type ScoreAudit struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Reason     string `gorm:"type:text;not null" json:"reason"`
	Delta      int    `gorm:"not null" json:"delta"`
	TotalAfter int    `gorm:"not null" json:"total_after"`

	// ActorID is nil for automatic detection paths, set for admin overrides.
	ActorID *uuid.UUID `gorm:"type:uuid" json:"actor_id"`

	CreatedAt int64 `gorm:"autoCreateTime;->" json:"created_at"`
}
