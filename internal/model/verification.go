package model

import (
	"time"

	"github.com/google/uuid"

	"BracOut-backend/internal/workflow"
)

// Verification status constants
var (
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// Verification review actions
const (
	VerificationActionApprove  workflow.Action = "approve"
	VerificationActionReject   workflow.Action = "reject"
	VerificationActionResubmit workflow.Action = "resubmit"
)

// A rejected record is distinct from a pending one, and re-uploading a
// document moves it back to pending for another review round.
var verificationFlow = workflow.New("verification", map[string]map[workflow.Action]string{
	VerificationStatusPending: {
		VerificationActionApprove: VerificationStatusApproved,
		VerificationActionReject:  VerificationStatusRejected,
	},
	VerificationStatusRejected: {
		VerificationActionResubmit: VerificationStatusPending,
	},
})

// VerificationRecord tracks admin review of a role identity document.
// Student, Alumni and Recruiter accounts each carry exactly one.
type VerificationRecord struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	DocumentID *int `json:"document_id"`
	Document   File `gorm:"foreignKey:DocumentID;references:ID" json:"-"`

	Status     string     `gorm:"type:text;default:'pending'" json:"status"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt *time.Time `gorm:"type:timestamp" json:"reviewed_at"`
	Notes      string     `gorm:"type:text" json:"notes"`
}

// Review applies an admin approve/reject decision with notes.
func (v *VerificationRecord) Review(action workflow.Action, adminID uuid.UUID, notes string) error {
	next, err := verificationFlow.Next(v.Status, action)
	if err != nil {
		return err
	}
	now := time.Now()
	v.Status = next
	v.ReviewedBy = &adminID
	v.ReviewedAt = &now
	v.Notes = notes
	return nil
}

// Resubmit records a fresh document upload after a rejection.
func (v *VerificationRecord) Resubmit(documentID int) error {
	if v.Status == VerificationStatusRejected {
		next, err := verificationFlow.Next(v.Status, VerificationActionResubmit)
		if err != nil {
			return err
		}
		v.Status = next
	}
	v.DocumentID = &documentID
	v.ReviewedBy = nil
	v.ReviewedAt = nil
	return nil
}

// IsVerified reports whether the record has been approved.
func (v *VerificationRecord) IsVerified() bool {
	return v != nil && v.Status == VerificationStatusApproved
}
