// Package connection provides HTTP handlers for user connections.
package connection

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
	"BracOut-backend/internal/workflow"
)

// ConnectionController handles connection related endpoints
type ConnectionController struct {
	DB *database.DBinstanceStruct
}

// NewConnectionController creates a new instance of ConnectionController
func NewConnectionController(db *database.DBinstanceStruct) *ConnectionController {
	return &ConnectionController{DB: db}
}

// CreateRequest is the request body for sending a connection request.
type CreateRequest struct {
	TargetID string `json:"target_id" binding:"required,uuid"`
}

// CreateConnection sends a connection request to another user. At most one
// connection exists per pair of users, checked in both directions.
// @Summary Send a connection request
// @Tags Connection
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param connection body CreateRequest true "Target user"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Self-connection or duplicate"
// @Failure 404 {object} utilities.ErrorResponse "Target user not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /connections [post]
func (cc *ConnectionController) CreateConnection(c *gin.Context) {
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

	targetUUID, err := uuid.Parse(req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid target_id format"))
		return
	}
	if targetUUID == user.ID {
		c.JSON(http.StatusBadRequest, utilities.Err("You cannot connect with yourself"))
		return
	}

	if err := cc.DB.Where("id = ?", targetUUID).First(&model.User{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Target user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var existing int64
	cc.DB.Model(&model.Connection{}).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
			user.ID, targetUUID, targetUUID, user.ID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, utilities.Err("A connection already exists between you two"))
		return
	}

	connection := model.Connection{
		RequesterID: user.ID,
		TargetID:    targetUUID,
	}
	if err := cc.DB.Create(&connection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusCreated, utilities.Data(connection))
}

// ListConnections returns connections involving the caller, optionally
// filtered by status.
// @Summary List my connections
// @Tags Connection
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by status"
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /connections [get]
func (cc *ConnectionController) ListConnections(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	query := cc.DB.Where("requester_id = ? OR target_id = ?", user.ID, user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var connections []model.Connection
	if err := query.Order("id DESC").Find(&connections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(connections))
}

// RespondRequest is the request body for answering a connection request.
type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// RespondConnection lets the target approve or reject a pending request.
// @Summary Approve or reject a connection request
// @Tags Connection
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Connection ID"
// @Param decision body RespondRequest true "approve or reject"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Not pending"
// @Failure 403 {object} utilities.ErrorResponse "Caller is not the target"
// @Failure 404 {object} utilities.ErrorResponse "Connection not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /connections/{id} [put]
func (cc *ConnectionController) RespondConnection(c *gin.Context) {
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

	var connection model.Connection
	if err := cc.DB.Where("id = ?", c.Param("id")).First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Connection not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if err := connection.Apply(workflow.Action(req.Action), user.ID); err != nil {
		if errors.Is(err, model.ErrNotActionTarget) {
			c.JSON(http.StatusForbidden, utilities.Err("Only the request target may act on this connection"))
			return
		}
		c.JSON(http.StatusBadRequest, utilities.Err(err.Error()))
		return
	}

	if err := cc.DB.Save(&connection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(connection))
}

// DeleteConnection removes a connection the caller is part of. Works for
// withdrawing a pending request or dropping an approved connection.
// @Summary Remove a connection
// @Tags Connection
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Connection ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 403 {object} utilities.ErrorResponse "Not a party to this connection"
// @Failure 404 {object} utilities.ErrorResponse "Connection not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /connections/{id} [delete]
func (cc *ConnectionController) DeleteConnection(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var connection model.Connection
	if err := cc.DB.Where("id = ?", c.Param("id")).First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Connection not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if connection.RequesterID != user.ID && connection.TargetID != user.ID {
		c.JSON(http.StatusForbidden, utilities.Err("You are not a party to this connection"))
		return
	}

	if err := cc.DB.Delete(&connection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Connection removed"))
}

// Approved reports whether an approved connection exists between two users
// in either direction. Used by the message controller as the send gate.
func Approved(db *database.DBinstanceStruct, a, b uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&model.Connection{}).
		Where("status = ?", model.ConnectionStatusApproved).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
