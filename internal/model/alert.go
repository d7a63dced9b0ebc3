package model

import (
	"time"

	"github.com/google/uuid"
)

// JobAlert is a per-user keyword/location subscription. New job postings
// that match append AlertNotification rows.
type JobAlert struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Keyword  string `gorm:"type:text;not null" json:"keyword"`
	Location string `gorm:"type:text" json:"location"`

	Notifications []AlertNotification `gorm:"foreignKey:AlertID;constraint:OnDelete:CASCADE" json:"notifications"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AlertNotification records one job matching one alert
type AlertNotification struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	AlertID uint `gorm:"not null;index" json:"alert_id"`
	JobID   uint `gorm:"not null;index" json:"job_id"`
	Job     Job  `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
