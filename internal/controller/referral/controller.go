// Package referral provides HTTP handlers for alumni referral requests.
package referral

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/moderation"
	"BracOut-backend/internal/utilities"
	"BracOut-backend/internal/workflow"
)

// ReferralController handles referral related endpoints
type ReferralController struct {
	DB     *database.DBinstanceStruct
	Scorer *moderation.ScoreKeeper
}

// NewReferralController creates a new instance of ReferralController
func NewReferralController(db *database.DBinstanceStruct) *ReferralController {
	return &ReferralController{
		DB:     db,
		Scorer: moderation.NewScoreKeeper(db.DB),
	}
}

// CreateRequest is the request body for requesting a referral.
type CreateRequest struct {
	JobID    uint   `json:"job_id" binding:"required"`
	AlumniID string `json:"alumni_id" binding:"required,uuid"`
	Message  string `json:"message"`
}

// CreateReferral lets a student ask a specific alumni to endorse them for a
// specific job. One request per (job, student, alumni) triple.
// @Summary Request a referral
// @Tags Referral
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param referral body CreateRequest true "Referral request"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid body, duplicate request, target not an alumni"
// @Failure 404 {object} utilities.ErrorResponse "Job or alumni not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /referrals [post]
func (rc *ReferralController) CreateReferral(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	alumniUUID, err := uuid.Parse(req.AlumniID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid alumni_id format"))
		return
	}

	var alumni model.User
	if err := rc.DB.Where("id = ?", alumniUUID).First(&alumni).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Alumni not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	if alumni.Role != model.RoleAlumni {
		c.JSON(http.StatusBadRequest, utilities.Err("Referrals can only be requested from alumni"))
		return
	}

	if err := rc.DB.Where("id = ?", req.JobID).First(&model.Job{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Job not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var existing int64
	rc.DB.Model(&model.Referral{}).
		Where("job_id = ? AND student_id = ? AND alumni_id = ?", req.JobID, user.ID, alumniUUID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, utilities.Err("You already requested a referral from this alumni for this job"))
		return
	}

	referral := model.Referral{
		JobID:           req.JobID,
		StudentID:       user.ID,
		AlumniID:        alumniUUID,
		StudentMessage:  req.Message,
		IsReadByStudent: true,
	}
	if err := rc.DB.Create(&referral).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	rc.Scorer.ScanText(&user.ID, req.Message)

	c.JSON(http.StatusCreated, utilities.Data(referral))
}

// ListReferrals returns the caller's referrals: requests they made as a
// student, or requests addressed to them as an alumni.
// @Summary List my referrals
// @Tags Referral
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by status"
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /referrals [get]
func (rc *ReferralController) ListReferrals(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	query := rc.DB.Preload("Job")
	switch user.Role {
	case model.RoleAlumni:
		query = query.Where("alumni_id = ?", user.ID)
	default:
		query = query.Where("student_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var referrals []model.Referral
	if err := query.Order("id DESC").Find(&referrals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(referrals))
}

// RespondRequest is the request body for answering a referral.
type RespondRequest struct {
	Action   string `json:"action" binding:"required,oneof=approve reject"`
	Response string `json:"response"`
}

// RespondReferral lets the named alumni approve or reject a pending request.
// @Summary Approve or reject a referral
// @Tags Referral
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Referral ID"
// @Param decision body RespondRequest true "approve or reject, with optional response text"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Not pending"
// @Failure 403 {object} utilities.ErrorResponse "Not the named alumni"
// @Failure 404 {object} utilities.ErrorResponse "Referral not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /referrals/{id} [put]
func (rc *ReferralController) RespondReferral(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: action must be 'approve' or 'reject'"))
		return
	}

	var referral model.Referral
	if err := rc.DB.Where("id = ?", c.Param("id")).First(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Referral not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if err := referral.Respond(workflow.Action(req.Action), user.ID, req.Response); err != nil {
		if errors.Is(err, model.ErrNotActionTarget) {
			c.JSON(http.StatusForbidden, utilities.Err("Only the named alumni may act on this referral"))
			return
		}
		c.JSON(http.StatusBadRequest, utilities.Err(err.Error()))
		return
	}

	if err := rc.DB.Save(&referral).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(referral))
}

// MarkRead flags a referral as read for the caller's side.
// @Summary Mark a referral as read
// @Tags Referral
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Referral ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 403 {object} utilities.ErrorResponse "Not a party to this referral"
// @Failure 404 {object} utilities.ErrorResponse "Referral not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /referrals/{id}/read [put]
func (rc *ReferralController) MarkRead(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var referral model.Referral
	if err := rc.DB.Where("id = ?", c.Param("id")).First(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Referral not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	switch user.ID {
	case referral.StudentID:
		referral.IsReadByStudent = true
	case referral.AlumniID:
		referral.IsReadByAlumni = true
	default:
		c.JSON(http.StatusForbidden, utilities.Err("You are not a party to this referral"))
		return
	}

	if err := rc.DB.Save(&referral).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Referral marked as read"))
}

// DeleteReferral withdraws a pending request. Requesting student only.
// @Summary Withdraw a pending referral request
// @Tags Referral
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Referral ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Not pending anymore"
// @Failure 403 {object} utilities.ErrorResponse "Not the requesting student"
// @Failure 404 {object} utilities.ErrorResponse "Referral not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /referrals/{id} [delete]
func (rc *ReferralController) DeleteReferral(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var referral model.Referral
	if err := rc.DB.Where("id = ?", c.Param("id")).First(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Referral not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if referral.StudentID != user.ID {
		c.JSON(http.StatusForbidden, utilities.Err("Only the requesting student may withdraw a referral"))
		return
	}
	if referral.Status != model.ReferralStatusPending {
		c.JSON(http.StatusBadRequest, utilities.Err("Only pending referrals can be withdrawn"))
		return
	}

	if err := rc.DB.Delete(&referral).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Referral withdrawn"))
}
