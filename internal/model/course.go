package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Course is a learning resource created by an alumni or admin
type Course struct {
	ID           uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	InstructorID uuid.UUID `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Instructor   User      `gorm:"foreignKey:InstructorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Title       string         `gorm:"type:text;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`

	Enrollments []Enrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"enrollments"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Enrollment links a student to a course. The compound unique index makes
// enrolling twice a no-op at the database level as well.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint      `gorm:"not null;index;uniqueIndex:idx_enrollment_pair" json:"course_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_enrollment_pair" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
}
