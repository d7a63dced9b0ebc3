// Package admin provides the moderation console: verification review, spam
// report handling, score management and account control.
package admin

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

// AdminController handles moderation console endpoints
type AdminController struct {
	DB     *database.DBinstanceStruct
	Scorer *moderation.ScoreKeeper
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(db *database.DBinstanceStruct) *AdminController {
	return &AdminController{
		DB:     db,
		Scorer: moderation.NewScoreKeeper(db.DB),
	}
}

// ListPendingVerifications returns verification records awaiting review.
// @Summary List pending verifications
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/verifications [get]
func (ac *AdminController) ListPendingVerifications(c *gin.Context) {
	var records []model.VerificationRecord
	if err := ac.DB.Where("status = ?", model.VerificationStatusPending).
		Order("id ASC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(records))
}

// ReviewRequest is the request body for a verification decision.
type ReviewRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Notes  string `json:"notes"`
}

// ReviewVerification approves or rejects a pending verification record.
// @Summary Review a verification record
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Verification record ID"
// @Param decision body ReviewRequest true "approve or reject, with optional notes"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Record not pending"
// @Failure 404 {object} utilities.ErrorResponse "Record not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/verifications/{id} [put]
func (ac *AdminController) ReviewVerification(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: action must be 'approve' or 'reject'"))
		return
	}

	var record model.VerificationRecord
	if err := ac.DB.Where("id = ?", c.Param("id")).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Verification record not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if err := record.Review(workflow.Action(req.Action), admin.ID, req.Notes); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(err.Error()))
		return
	}
	if err := ac.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(record))
}

// ListSpamReports returns spam reports, paginated, optionally filtered by
// status.
// @Summary List spam reports
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/reports [get]
func (ac *AdminController) ListSpamReports(c *gin.Context) {
	pq := utilities.ParsePage(c)

	query := ac.DB.Model(&model.SpamReport{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var reports []model.SpamReport
	if err := query.Order("id DESC").Offset(pq.Offset()).Limit(pq.Limit).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusOK, utilities.Data(gin.H{
		"reports":    reports,
		"pagination": utilities.NewPageMeta(pq, total),
	}))
}

// ReportActionRequest is the request body for progressing a spam report.
type ReportActionRequest struct {
	Action string `json:"action" binding:"required,oneof=investigate resolve dismiss"`
	Notes  string `json:"notes"`
}

// UpdateSpamReport progresses a report through its workflow. Resolved and
// dismissed reports reject further actions.
// @Summary Progress a spam report
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Report ID"
// @Param decision body ReportActionRequest true "investigate, resolve or dismiss"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid transition"
// @Failure 404 {object} utilities.ErrorResponse "Report not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/reports/{id} [put]
func (ac *AdminController) UpdateSpamReport(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req ReportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: action must be 'investigate', 'resolve' or 'dismiss'"))
		return
	}

	var report model.SpamReport
	if err := ac.DB.Where("id = ?", c.Param("id")).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Report not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if err := report.Apply(workflow.Action(req.Action), admin.ID, req.Notes); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(err.Error()))
		return
	}
	if err := ac.DB.Save(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(report))
}

// ScanTextRequest is the request body for an ad-hoc text scan.
type ScanTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ScanText runs the text heuristics over an arbitrary blob without touching
// any score. Used by admins to check content referenced in a report.
// @Summary Scan a text blob for spam patterns
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param text body ScanTextRequest true "Text to scan"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Router /admin/scan/text [post]
func (ac *AdminController) ScanText(c *gin.Context) {
	var req ScanTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(moderation.AnalyzeText(req.Text)))
}

// ScanUserProfile runs the profile heuristics over a user's links and
// message history. Any positive score is persisted and audited.
// @Summary Scan a user's profile for spam signals
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid user ID"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/scan/users/{id} [post]
func (ac *AdminController) ScanUserProfile(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid user ID format"))
		return
	}

	var target model.User
	if err := ac.DB.Where("id = ?", userUUID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	result := ac.Scorer.ScanProfile(target)
	c.JSON(http.StatusOK, utilities.Data(result))
}

// OverrideRequest is the request body for setting a user's score directly.
type OverrideRequest struct {
	Score  int    `json:"score" binding:"min=0,max=100"`
	Reason string `json:"reason" binding:"required"`
}

// OverrideScore sets a user's spam score to an explicit value. The change
// is audited with the acting admin's ID.
// @Summary Override a user's spam score
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Param override body OverrideRequest true "New score and reason"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Score outside [0, 100]"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users/{id}/score [put]
func (ac *AdminController) OverrideScore(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid user ID format"))
		return
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	if err := ac.Scorer.Override(userUUID, req.Score, admin.ID, req.Reason); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("User not found"))
			return
		}
		c.JSON(http.StatusBadRequest, utilities.Err(err.Error()))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Score updated"))
}

// BlockRequest is the request body for toggling a user's block state.
type BlockRequest struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason"`
}

// ToggleBlock sets a user's block state directly. The spam score is left
// untouched; only score mutations go through the score keeper.
// @Summary Block or unblock a user
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Param block body BlockRequest true "Desired block state"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Cannot block an admin"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users/{id}/block [put]
func (ac *AdminController) ToggleBlock(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid user ID format"))
		return
	}

	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	var target model.User
	if err := ac.DB.Where("id = ?", userUUID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	if target.Role == model.RoleAdmin {
		c.JSON(http.StatusBadRequest, utilities.Err("Admin accounts cannot be blocked"))
		return
	}

	if err := ac.DB.Model(&target).Update("is_blocked", req.Blocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if req.Blocked {
		c.JSON(http.StatusOK, utilities.Msg("User blocked"))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("User unblocked"))
}

// GetScoreAudit returns the append-only score history for a user, newest
// first.
// @Summary Get a user's score audit trail
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid user ID"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users/{id}/score-audit [get]
func (ac *AdminController) GetScoreAudit(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid user ID format"))
		return
	}

	var audits []model.ScoreAudit
	if err := ac.DB.Where("user_id = ?", userUUID).Order("id DESC").Find(&audits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(audits))
}

// Stats returns platform-wide counts for the console dashboard.
// @Summary Platform statistics
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/stats [get]
func (ac *AdminController) Stats(c *gin.Context) {
	stats := gin.H{}

	type countQuery struct {
		key   string
		model interface{}
		cond  []interface{}
	}
	queries := []countQuery{
		{"users", &model.User{}, nil},
		{"blocked_users", &model.User{}, []interface{}{"is_blocked = true"}},
		{"jobs", &model.Job{}, nil},
		{"applications", &model.Application{}, nil},
		{"referrals", &model.Referral{}, nil},
		{"connections", &model.Connection{}, nil},
		{"messages", &model.Message{}, nil},
		{"courses", &model.Course{}, nil},
		{"qa_sessions", &model.QASession{}, nil},
		{"pending_verifications", &model.VerificationRecord{}, []interface{}{"status = ?", model.VerificationStatusPending}},
		{"pending_reports", &model.SpamReport{}, []interface{}{"status = ?", model.SpamReportStatusPending}},
	}
	for _, q := range queries {
		var count int64
		query := ac.DB.Model(q.model)
		if len(q.cond) > 0 {
			query = query.Where(q.cond[0], q.cond[1:]...)
		}
		if err := query.Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
			return
		}
		stats[q.key] = count
	}

	c.JSON(http.StatusOK, utilities.Data(stats))
}

// DeleteUser removes an account and everything cascading from it.
// @Summary Delete a user account
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Cannot delete an admin"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users/{id} [delete]
func (ac *AdminController) DeleteUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid user ID format"))
		return
	}

	var target model.User
	if err := ac.DB.Where("id = ?", userUUID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	if target.Role == model.RoleAdmin {
		c.JSON(http.StatusBadRequest, utilities.Err("Admin accounts cannot be deleted"))
		return
	}

	if err := ac.DB.Delete(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("User deleted"))
}
