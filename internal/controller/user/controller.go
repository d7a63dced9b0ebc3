// Package user provides HTTP handlers for profiles, the member directory,
// verification uploads and spam reports.
package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"BracOut-backend/internal/controller/file"
	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/moderation"
	"BracOut-backend/internal/utilities"
)

// UserController handles user profile endpoints
type UserController struct {
	DB     *database.DBinstanceStruct
	Files  *file.FileController
	Scorer *moderation.ScoreKeeper
}

// NewUserController creates a new instance of UserController
func NewUserController(db *database.DBinstanceStruct, files *file.FileController) *UserController {
	return &UserController{
		DB:     db,
		Files:  files,
		Scorer: moderation.NewScoreKeeper(db.DB),
	}
}

// profilePayload bundles the shared user record with the role profile.
type profilePayload struct {
	User    model.User  `json:"user"`
	Profile interface{} `json:"profile,omitempty"`
}

func (uc *UserController) loadProfile(user model.User) (profilePayload, error) {
	payload := profilePayload{User: user}
	var err error
	switch user.Role {
	case model.RoleStudent:
		var p model.StudentProfile
		err = uc.DB.Where("user_id = ?", user.ID).First(&p).Error
		payload.Profile = p
	case model.RoleAlumni:
		var p model.AlumniProfile
		err = uc.DB.Where("user_id = ?", user.ID).First(&p).Error
		payload.Profile = p
	case model.RoleRecruiter:
		var p model.RecruiterProfile
		err = uc.DB.Where("user_id = ?", user.ID).First(&p).Error
		payload.Profile = p
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		payload.Profile = nil
		err = nil
	}
	return payload, err
}

// GetMe returns the caller's user record and role profile.
// @Summary Get my profile
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me [get]
func (uc *UserController) GetMe(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	payload, err := uc.loadProfile(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(payload))
}

// GetUserByID returns another member's user record and role profile.
// @Summary Get a user's profile
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid user ID"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/{id} [get]
func (uc *UserController) GetUserByID(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid user ID format"))
		return
	}

	var target model.User
	if err := uc.DB.Preload("Verification").Where("id = ?", userUUID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	payload, err := uc.loadProfile(target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(payload))
}

// Directory lists members, paginated, optionally filtered by role and a
// keyword on username.
// @Summary Browse the member directory
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param role query string false "Filter by role"
// @Param keyword query string false "Keyword filter on username"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users [get]
func (uc *UserController) Directory(c *gin.Context) {
	pq := utilities.ParsePage(c)

	query := uc.DB.Model(&model.User{}).Where("is_blocked = false")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if keyword := c.Query("keyword"); keyword != "" {
		query = query.Where("username ILIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var users []model.User
	if err := query.Order("username ASC").Offset(pq.Offset()).Limit(pq.Limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusOK, utilities.Data(gin.H{
		"users":      users,
		"pagination": utilities.NewPageMeta(pq, total),
	}))
}

// EditMe updates the caller's shared editable fields. Non-empty fields in
// the body overwrite; empty fields are ignored. Touching links or URLs
// re-runs the profile heuristics.
// @Summary Edit my shared profile fields
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param info body model.EditableUserInfo true "Fields to update"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me [put]
func (uc *UserController) EditMe(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req model.EditableUserInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	utilities.MergeNonEmpty(&user.EditableUserInfo, &req)
	if err := uc.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if len(req.Links) > 0 || req.LinkedinURL != "" || req.GithubURL != "" {
		uc.Scorer.ScanProfile(user)
	}
	if req.About != "" {
		uc.Scorer.ScanText(&user.ID, req.About)
	}

	c.JSON(http.StatusOK, utilities.Data(user))
}

// EditStudentProfile updates the caller's student profile fields.
// @Summary Edit my student profile
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param info body model.EditableStudentInfo true "Fields to update"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me/student [put]
func (uc *UserController) EditStudentProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req model.EditableStudentInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	var profile model.StudentProfile
	if err := uc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Student profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	utilities.MergeNonEmpty(&profile.EditableStudentInfo, &req)
	if err := uc.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(profile))
}

// EditAlumniProfile updates the caller's alumni profile fields.
// @Summary Edit my alumni profile
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param info body model.EditableAlumniInfo true "Fields to update"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me/alumni [put]
func (uc *UserController) EditAlumniProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req model.EditableAlumniInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	var profile model.AlumniProfile
	if err := uc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Alumni profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	utilities.MergeNonEmpty(&profile.EditableAlumniInfo, &req)
	if err := uc.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(profile))
}

// EditRecruiterProfile updates the caller's recruiter profile fields.
// @Summary Edit my recruiter profile
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param info body model.EditableRecruiterInfo true "Fields to update"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me/recruiter [put]
func (uc *UserController) EditRecruiterProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req model.EditableRecruiterInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	var profile model.RecruiterProfile
	if err := uc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Recruiter profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	utilities.MergeNonEmpty(&profile.EditableRecruiterInfo, &req)
	if err := uc.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(profile))
}

// UploadProfilePicture stores a new avatar for the caller.
// @Summary Upload my profile picture
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param picture formData file true "Image file (.png .jpg .jpeg)"
// @Success 200 {object} utilities.DataResponse
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 415 {object} utilities.ErrorResponse "Extension not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me/picture [put]
func (uc *UserController) UploadProfilePicture(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	fileID, err := uc.Files.SaveUpload(c, "picture", "profile-pictures", ".png", ".jpg", ".jpeg")
	if err != nil {
		return
	}

	user.ProfilePictureID = &fileID
	if err := uc.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(gin.H{"profile_picture_id": fileID}))
}

// UploadResume stores a resume PDF on the caller's student profile.
// @Summary Upload my resume
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "Resume file (.pdf)"
// @Success 200 {object} utilities.DataResponse
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 415 {object} utilities.ErrorResponse "Extension not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me/resume [put]
func (uc *UserController) UploadResume(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var profile model.StudentProfile
	if err := uc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Student profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	fileID, err := uc.Files.SaveUpload(c, "resume", "resumes", ".pdf")
	if err != nil {
		return
	}

	profile.ResumeID = &fileID
	if err := uc.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(gin.H{"resume_id": fileID}))
}

// UploadVerificationDocument attaches an identity document to the caller's
// verification record. After a rejection this moves the record back to
// pending for another review round.
// @Summary Upload a verification document
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param document formData file true "Identity document (.pdf .png .jpg .jpeg)"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Already approved"
// @Failure 404 {object} utilities.ErrorResponse "No verification record"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 415 {object} utilities.ErrorResponse "Extension not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me/verification [put]
func (uc *UserController) UploadVerificationDocument(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var record model.VerificationRecord
	if err := uc.DB.Where("user_id = ?", user.ID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("No verification record for this account"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	if record.Status == model.VerificationStatusApproved {
		c.JSON(http.StatusBadRequest, utilities.Err("Your account is already verified"))
		return
	}

	fileID, err := uc.Files.SaveUpload(c, "document", "verification-documents", ".pdf", ".png", ".jpg", ".jpeg")
	if err != nil {
		return
	}

	if err := record.Resubmit(fileID); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(err.Error()))
		return
	}
	if err := uc.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(record))
}

// ReportRequest is the request body for filing a spam report.
type ReportRequest struct {
	ReportedUserID string `json:"reported_user_id" binding:"required,uuid"`
	Reason         string `json:"reason" binding:"required"`
	Description    string `json:"description"`
}

// ReportUser files a spam report against another member.
// @Summary Report a user for spam
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param report body ReportRequest true "Report details"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Self-report or invalid body"
// @Failure 404 {object} utilities.ErrorResponse "Reported user not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /reports [post]
func (uc *UserController) ReportUser(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	reportedUUID, err := uuid.Parse(req.ReportedUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid reported_user_id format"))
		return
	}
	if reportedUUID == user.ID {
		c.JSON(http.StatusBadRequest, utilities.Err("You cannot report yourself"))
		return
	}

	if err := uc.DB.Where("id = ?", reportedUUID).First(&model.User{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Reported user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	report := model.SpamReport{
		ReporterID:     user.ID,
		ReportedUserID: reportedUUID,
		Reason:         req.Reason,
		Description:    req.Description,
	}
	if err := uc.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusCreated, utilities.Data(report))
}
