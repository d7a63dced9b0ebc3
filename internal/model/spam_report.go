package model

import (
	"time"

	"github.com/google/uuid"

	"BracOut-backend/internal/workflow"
)

// Spam report status constants
var (
	SpamReportStatusPending       = "pending"
	SpamReportStatusInvestigating = "investigating"
	SpamReportStatusResolved      = "resolved"
	SpamReportStatusDismissed     = "dismissed"
)

// Spam report actions
const (
	SpamReportActionInvestigate workflow.Action = "investigate"
	SpamReportActionResolve     workflow.Action = "resolve"
	SpamReportActionDismiss     workflow.Action = "dismiss"
)

// Resolved and dismissed are terminal: no outgoing transitions.
var spamReportFlow = workflow.New("spam report", map[string]map[workflow.Action]string{
	SpamReportStatusPending: {
		SpamReportActionInvestigate: SpamReportStatusInvestigating,
		SpamReportActionResolve:     SpamReportStatusResolved,
		SpamReportActionDismiss:     SpamReportStatusDismissed,
	},
	SpamReportStatusInvestigating: {
		SpamReportActionResolve: SpamReportStatusResolved,
		SpamReportActionDismiss: SpamReportStatusDismissed,
	},
})

// SpamReport represents a report made against a user.
type SpamReport struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	ReporterID     uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reporter       User      `gorm:"foreignKey:ReporterID;references:ID" json:"-"`
	ReportedUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"reported_user_id"`
	ReportedUser   User      `gorm:"foreignKey:ReportedUserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Reason      string `gorm:"type:text;not null" json:"reason"`
	Description string `gorm:"type:text" json:"description"`

	Status     string     `gorm:"type:text;default:'pending'" json:"status"`
	ResolvedBy *uuid.UUID `gorm:"type:uuid" json:"resolved_by"`
	ResolvedAt *time.Time `gorm:"type:timestamp" json:"resolved_at"`
	AdminNotes string     `gorm:"type:text" json:"admin_notes"`

	ReportTime int64 `gorm:"autoCreateTime;->" json:"report_time"`
}

// Apply transitions the report status with the acting admin's notes.
func (r *SpamReport) Apply(action workflow.Action, adminID uuid.UUID, notes string) error {
	next, err := spamReportFlow.Next(r.Status, action)
	if err != nil {
		return err
	}
	r.Status = next
	r.AdminNotes = notes
	if next == SpamReportStatusResolved || next == SpamReportStatusDismissed {
		now := time.Now()
		r.ResolvedBy = &adminID
		r.ResolvedAt = &now
	}
	return nil
}
