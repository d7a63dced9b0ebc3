// Package qasession provides HTTP handlers for alumni-hosted Q&A sessions.
package qasession

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/moderation"
	"BracOut-backend/internal/utilities"
)

// QASessionController handles Q&A session endpoints
type QASessionController struct {
	DB     *database.DBinstanceStruct
	Scorer *moderation.ScoreKeeper
}

// NewQASessionController creates a new instance of QASessionController
func NewQASessionController(db *database.DBinstanceStruct) *QASessionController {
	return &QASessionController{
		DB:     db,
		Scorer: moderation.NewScoreKeeper(db.DB),
	}
}

// CreateRequest is the request body for scheduling a session.
type CreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// CreateSession schedules a Q&A session. Alumni only, enforced by route
// middleware.
// @Summary Schedule a Q&A session
// @Tags QASession
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param session body CreateRequest true "Session details"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /qa-sessions [post]
func (qc *QASessionController) CreateSession(c *gin.Context) {
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

	session := model.QASession{
		HostID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
	}
	if err := qc.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusCreated, utilities.Data(session))
}

// ListSessions returns all sessions, soonest upcoming first.
// @Summary List Q&A sessions
// @Tags QASession
// @Produce json
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /qa-sessions [get]
func (qc *QASessionController) ListSessions(c *gin.Context) {
	var sessions []model.QASession
	if err := qc.DB.Order("scheduled_at ASC").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(sessions))
}

// GetSessionByID returns one session with its questions.
// @Summary Get a Q&A session
// @Tags QASession
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 404 {object} utilities.ErrorResponse "Session not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /qa-sessions/{id} [get]
func (qc *QASessionController) GetSessionByID(c *gin.Context) {
	var session model.QASession
	if err := qc.DB.Preload("Questions").Where("id = ?", c.Param("id")).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(session))
}

// AskRequest is the request body for submitting a question.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskQuestion submits a question to a session.
// @Summary Ask a question in a session
// @Tags QASession
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Session ID"
// @Param question body AskRequest true "Question text"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 404 {object} utilities.ErrorResponse "Session not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /qa-sessions/{id}/questions [post]
func (qc *QASessionController) AskQuestion(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	var session model.QASession
	if err := qc.DB.Where("id = ?", c.Param("id")).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	question := model.QAQuestion{
		SessionID: session.ID,
		AskerID:   user.ID,
		Question:  req.Question,
	}
	if err := qc.DB.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	qc.Scorer.ScanText(&user.ID, req.Question)

	c.JSON(http.StatusCreated, utilities.Data(question))
}

// AnswerRequest is the request body for answering a question.
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AnswerQuestion records the host's answer to a question. Host only.
// @Summary Answer a question
// @Tags QASession
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Session ID"
// @Param question_id path int true "Question ID"
// @Param answer body AnswerRequest true "Answer text"
// @Success 200 {object} utilities.DataResponse
// @Failure 403 {object} utilities.ErrorResponse "Caller is not the host"
// @Failure 404 {object} utilities.ErrorResponse "Session or question not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /qa-sessions/{id}/questions/{question_id} [put]
func (qc *QASessionController) AnswerQuestion(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	var session model.QASession
	if err := qc.DB.Where("id = ?", c.Param("id")).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	if session.HostID != user.ID {
		c.JSON(http.StatusForbidden, utilities.Err("Only the session host may answer questions"))
		return
	}

	var question model.QAQuestion
	if err := qc.DB.Where("id = ? AND session_id = ?", c.Param("question_id"), session.ID).
		First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Question not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	question.Answer = req.Answer
	if err := qc.DB.Save(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(question))
}

// DeleteSession cancels a session. Host or admin only.
// @Summary Cancel a Q&A session
// @Tags QASession
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Session ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 403 {object} utilities.ErrorResponse "Not the host"
// @Failure 404 {object} utilities.ErrorResponse "Session not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /qa-sessions/{id} [delete]
func (qc *QASessionController) DeleteSession(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var session model.QASession
	if err := qc.DB.Where("id = ?", c.Param("id")).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if session.HostID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.Err("Only the host or an admin may cancel this session"))
		return
	}

	if err := qc.DB.Delete(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Session cancelled"))
}
