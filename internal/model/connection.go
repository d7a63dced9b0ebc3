package model

import (
	"time"

	"github.com/google/uuid"

	"BracOut-backend/internal/workflow"
)

// Connection status constants
var (
	ConnectionStatusPending  = "pending"
	ConnectionStatusApproved = "approved"
	ConnectionStatusRejected = "rejected"
)

// Connection actions
const (
	ConnectionActionApprove workflow.Action = "approve"
	ConnectionActionReject  workflow.Action = "reject"
)

var connectionFlow = workflow.New("connection", map[string]map[workflow.Action]string{
	ConnectionStatusPending: {
		ConnectionActionApprove: ConnectionStatusApproved,
		ConnectionActionReject:  ConnectionStatusRejected,
	},
})

// Connection is a mutual-acknowledgement link between two users.
// The unique index covers the ordered pair; the controller additionally
// checks the mirrored direction before creating one, so at most one row
// exists per unordered pair.
type Connection struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	RequesterID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_connection_pair" json:"requester_id"`
	Requester   User      `gorm:"foreignKey:RequesterID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	TargetID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_connection_pair" json:"target_id"`
	Target      User      `gorm:"foreignKey:TargetID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Status    string    `gorm:"type:text;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Apply transitions the connection status. Only the target may act on a
// pending request; the caller enforces that with actor.
func (c *Connection) Apply(action workflow.Action, actor uuid.UUID) error {
	if actor != c.TargetID {
		return ErrNotActionTarget
	}
	next, err := connectionFlow.Next(c.Status, action)
	if err != nil {
		return err
	}
	c.Status = next
	return nil
}
