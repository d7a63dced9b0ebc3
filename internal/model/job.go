package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Application status constants. The owning recruiter may set any status
// from any other; there is deliberately no transition graph here.
var (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusHired       = "hired"

	applicationStatuses = []string{
		ApplicationStatusApplied,
		ApplicationStatusShortlisted,
		ApplicationStatusRejected,
		ApplicationStatusHired,
	}
)

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	return slices.Contains(applicationStatuses, s)
}

// EditableJobInfo is part of a job posting that can be edited
type EditableJobInfo struct {
	Title        string         `gorm:"type:text" json:"title"`
	Desc         string         `gorm:"type:text" json:"desc"`
	Req          string         `gorm:"type:text" json:"req"`
	Location     string         `gorm:"type:text" json:"location"`
	Type         string         `gorm:"type:text" json:"type"`
	Salary       string         `gorm:"type:text" json:"salary"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	Deadline     *time.Time     `gorm:"type:timestamp" json:"deadline,omitempty"`
}

// Job is gorm model for store job posting data in DB
type Job struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	RecruiterID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"recruiter_id"`
	Recruiter   User      `gorm:"foreignKey:RecruiterID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	EditableJobInfo
	PostTime     time.Time     `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"post_time"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications"`
	FAQs         []JobFAQ      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"faqs"`
}

// Application represents a student's application to a job
type Application struct {
	ID    uint `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID uint `gorm:"not null;index;uniqueIndex:idx_application_pair" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_application_pair" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Status      string    `gorm:"type:text;default:'applied'" json:"status"`
	AppliedAt   time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"applied_at"`
	CoverLetter string    `gorm:"type:text" json:"cover_letter"`

	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`
}

// JobFAQ is a per-job question/answer entry managed by the job's recruiter
type JobFAQ struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;->" json:"id"`
	JobID    uint   `gorm:"not null;index" json:"job_id"`
	Question string `gorm:"type:text" json:"question"`
	Answer   string `gorm:"type:text" json:"answer"`
}
