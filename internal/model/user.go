// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role constants for User.Role
var (
	RoleStudent   = "student"
	RoleAlumni    = "alumni"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// EditableUserInfo is part of the user record that the owner may edit directly
type EditableUserInfo struct {
	Tel         *string        `json:"tel"`
	About       string         `gorm:"type:text" json:"about"`
	LinkedinURL string         `gorm:"type:text" json:"linkedin_url"`
	GithubURL   string         `gorm:"type:text" json:"github_url"`
	Links       pq.StringArray `gorm:"type:text[]" json:"links"`
}

// User is the identity record shared by every role
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string   `gorm:"uniqueIndex" json:"email"`
	Password string    `gorm:"type:text" json:"-"`
	GoogleID string    `gorm:"index" json:"-"`
	Role     string    `gorm:"type:text;not null;index" json:"role"`

	ProfilePictureID *int `json:"profile_picture_id"`
	ProfilePicture   File `gorm:"foreignKey:ProfilePictureID;references:ID" json:"-"`

	EditableUserInfo

	// SpamScore is only ever mutated through moderation.ScoreKeeper,
	// which clamps it into [0, 100].
	SpamScore int  `gorm:"default:0" json:"spam_score"`
	IsBlocked bool `gorm:"default:false" json:"is_blocked"`

	Verification *VerificationRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"verification,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EditableStudentInfo is part of a student profile that can be edited
type EditableStudentInfo struct {
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Department *string        `json:"department"`
	Year       *string        `check:"year IN ('1', '2', '3', '4', 'Graduated')" json:"year"`
	CGPA       *string        `json:"cgpa"`
	Skills     pq.StringArray `gorm:"type:text[]" json:"skills"`
}

// StudentProfile holds resume-like fields for a student user
type StudentProfile struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
	EditableStudentInfo
	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`
}

// EditableAlumniInfo is part of an alumni profile that can be edited
type EditableAlumniInfo struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	GraduationYear *string `json:"graduation_year"`
	CurrentCompany string  `json:"current_company"`
	Designation    string  `json:"designation"`
}

// AlumniProfile holds profile fields for an alumni user
type AlumniProfile struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
	EditableAlumniInfo
}

// EditableRecruiterInfo is part of a recruiter profile that can be edited
type EditableRecruiterInfo struct {
	CompanyName    string  `json:"company_name"`
	CompanyWebsite string  `json:"company_website"`
	Designation    string  `json:"designation"`
	CompanySize    *string `check:"company_size IN ('XS', 'S', 'M', 'L', 'XL')" json:"company_size"`
}

// RecruiterProfile holds profile fields for a recruiter user
type RecruiterProfile struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
	EditableRecruiterInfo
}

// GoogleUserInfo is the decoded userinfo payload from Google's OAuth endpoint
type GoogleUserInfo struct {
	GID     string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
