// Package message provides HTTP handlers for direct messaging between
// connected users.
package message

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"BracOut-backend/internal/controller/connection"
	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/moderation"
	"BracOut-backend/internal/utilities"
)

// MessageController handles messaging endpoints
type MessageController struct {
	DB     *database.DBinstanceStruct
	Scorer *moderation.ScoreKeeper
}

// NewMessageController creates a new instance of MessageController
func NewMessageController(db *database.DBinstanceStruct) *MessageController {
	return &MessageController{
		DB:     db,
		Scorer: moderation.NewScoreKeeper(db.DB),
	}
}

// SendRequest is the request body for sending a message.
type SendRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Body        string `json:"body" binding:"required"`
}

// SendMessage delivers a message to a user the caller holds an approved
// connection with.
// @Summary Send a direct message
// @Tags Message
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param message body SendRequest true "Recipient and body"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or self-message"
// @Failure 403 {object} utilities.ErrorResponse "No approved connection with recipient"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /messages [post]
func (mc *MessageController) SendMessage(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	recipientUUID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid recipient_id format"))
		return
	}
	if recipientUUID == user.ID {
		c.JSON(http.StatusBadRequest, utilities.Err("You cannot message yourself"))
		return
	}

	connected, err := connection.Approved(mc.DB, user.ID, recipientUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	if !connected {
		c.JSON(http.StatusForbidden, utilities.Err("You can only message users you are connected with"))
		return
	}

	message := model.Message{
		SenderID:    user.ID,
		RecipientID: recipientUUID,
		Body:        req.Body,
	}
	if err := mc.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	mc.Scorer.ScanText(&user.ID, req.Body)

	c.JSON(http.StatusCreated, utilities.Data(message))
}

// GetConversation returns the message history between the caller and a
// partner, oldest first, and marks the partner's messages as read.
// @Summary View a conversation
// @Tags Message
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param user_id path string true "Partner user ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid user ID"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /messages/{user_id} [get]
func (mc *MessageController) GetConversation(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	partnerUUID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid user ID format"))
		return
	}

	var messages []model.Message
	if err := mc.DB.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			user.ID, partnerUUID, partnerUUID, user.ID).
		Order("sent_at ASC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	// Viewing a conversation marks the partner's messages as read.
	if err := mc.DB.Model(&model.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = false", partnerUUID, user.ID).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusOK, utilities.Data(messages))
}

// GetInbox returns one preview row per conversation partner: the latest
// message and the unread count, newest conversation first.
// @Summary List conversations
// @Tags Message
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /messages [get]
func (mc *MessageController) GetInbox(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var previews []model.ConversationPreview
	err = mc.DB.DB.Raw(`
		SELECT
			p.partner_id,
			u.username AS partner_name,
			m.body     AS last_body,
			m.sent_at  AS last_sent_at,
			COALESCE(unread.cnt, 0) AS unread_count
		FROM (
			SELECT
				CASE WHEN sender_id = @me THEN recipient_id ELSE sender_id END AS partner_id,
				MAX(id) AS last_id
			FROM messages
			WHERE sender_id = @me OR recipient_id = @me
			GROUP BY 1
		) p
		JOIN messages m ON m.id = p.last_id
		JOIN users u ON u.id = p.partner_id
		LEFT JOIN (
			SELECT sender_id, COUNT(*) AS cnt
			FROM messages
			WHERE recipient_id = @me AND is_read = false
			GROUP BY sender_id
		) unread ON unread.sender_id = p.partner_id
		ORDER BY m.sent_at DESC`,
		map[string]interface{}{"me": user.ID},
	).Scan(&previews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusOK, utilities.Data(previews))
}
