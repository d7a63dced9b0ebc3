package model

import (
	"time"

	"github.com/google/uuid"
)

// QASession is an alumni-hosted question and answer session
type QASession struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	HostID uuid.UUID `gorm:"type:uuid;not null;index" json:"host_id"`
	Host   User      `gorm:"foreignKey:HostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	ScheduledAt time.Time `gorm:"type:timestamp" json:"scheduled_at"`

	Questions []QAQuestion `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"questions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// QAQuestion is a student question in a session, answered by the host
type QAQuestion struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	AskerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"asker_id"`
	Asker     User      `gorm:"foreignKey:AskerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text" json:"answer"`

	AskedAt time.Time `gorm:"autoCreateTime" json:"asked_at"`
}
