package model

import (
	"time"

	"github.com/google/uuid"

	"BracOut-backend/internal/workflow"
)

// Referral status constants
var (
	ReferralStatusPending  = "pending"
	ReferralStatusApproved = "approved"
	ReferralStatusRejected = "rejected"
)

// Referral actions
const (
	ReferralActionApprove workflow.Action = "approve"
	ReferralActionReject  workflow.Action = "reject"
)

var referralFlow = workflow.New("referral", map[string]map[workflow.Action]string{
	ReferralStatusPending: {
		ReferralActionApprove: ReferralStatusApproved,
		ReferralActionReject:  ReferralStatusRejected,
	},
})

// Referral is a student request that a specific alumni endorse them for a
// specific job. Scoped per (job, student, alumni) triple, so a student may
// hold simultaneous requests with different alumni or for different jobs.
type Referral struct {
	ID    uint    `gorm:"primaryKey;autoIncrement;->" json:"id"`
	JobID uint    `gorm:"not null;index;uniqueIndex:idx_referral_triple" json:"job_id"`
	Job   Job     `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_referral_triple" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	AlumniID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_referral_triple" json:"alumni_id"`
	Alumni    User      `gorm:"foreignKey:AlumniID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Status         string `gorm:"type:text;default:'pending'" json:"status"`
	StudentMessage string `gorm:"type:text" json:"student_message"`
	AlumniResponse string `gorm:"type:text" json:"alumni_response"`

	IsReadByStudent bool `gorm:"default:false" json:"is_read_by_student"`
	IsReadByAlumni  bool `gorm:"default:false" json:"is_read_by_alumni"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Respond applies the named alumni's approve/reject decision.
func (r *Referral) Respond(action workflow.Action, actor uuid.UUID, response string) error {
	if actor != r.AlumniID {
		return ErrNotActionTarget
	}
	next, err := referralFlow.Next(r.Status, action)
	if err != nil {
		return err
	}
	r.Status = next
	r.AlumniResponse = response
	r.IsReadByStudent = false
	return nil
}
