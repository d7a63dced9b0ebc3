package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two connected users
type Message struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender      User      `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   User      `gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Body   string `gorm:"type:text;not null" json:"body"`
	IsRead bool   `gorm:"default:false" json:"is_read"`

	SentAt time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

// ConversationPreview is one row of the inbox view: the latest message per
// conversation partner plus the unread count. Filled by a raw aggregation
// query in the message controller.
type ConversationPreview struct {
	PartnerID   uuid.UUID `json:"partner_id"`
	PartnerName string    `json:"partner_name"`
	LastBody    string    `json:"last_body"`
	LastSentAt  time.Time `json:"last_sent_at"`
	UnreadCount int       `json:"unread_count"`
}
