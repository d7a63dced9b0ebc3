// Package alert provides HTTP handlers for job alert subscriptions.
package alert

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// AlertController handles job alert endpoints
type AlertController struct {
	DB *database.DBinstanceStruct
}

// NewAlertController creates a new instance of AlertController
func NewAlertController(db *database.DBinstanceStruct) *AlertController {
	return &AlertController{DB: db}
}

// AlertRequest is the request body for creating a job alert.
type AlertRequest struct {
	Keyword  string `json:"keyword" binding:"required"`
	Location string `json:"location"`
}

// CreateAlert subscribes the caller to new jobs matching a keyword/location.
// @Summary Create a job alert
// @Tags Alert
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param alert body AlertRequest true "Alert subscription"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /alerts [post]
func (ac *AlertController) CreateAlert(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	alert := model.JobAlert{
		UserID:   user.ID,
		Keyword:  req.Keyword,
		Location: req.Location,
	}
	if err := ac.DB.Create(&alert).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusCreated, utilities.Data(alert))
}

// ListAlerts returns the caller's alert subscriptions.
// @Summary List my job alerts
// @Tags Alert
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /alerts [get]
func (ac *AlertController) ListAlerts(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var alerts []model.JobAlert
	if err := ac.DB.Preload("Notifications").Where("user_id = ?", user.ID).Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusOK, utilities.Data(alerts))
}

// DeleteAlert removes one of the caller's subscriptions.
// @Summary Delete a job alert
// @Tags Alert
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Alert ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 404 {object} utilities.ErrorResponse "Alert not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /alerts/{id} [delete]
func (ac *AlertController) DeleteAlert(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var alert model.JobAlert
	if err := ac.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Alert not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if err := ac.DB.Delete(&alert).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Alert deleted"))
}

// MarkNotificationRead flags one notification as read.
// @Summary Mark an alert notification as read
// @Tags Alert
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Notification ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 404 {object} utilities.ErrorResponse "Notification not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /alerts/notifications/{id}/read [put]
func (ac *AlertController) MarkNotificationRead(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	res := ac.DB.Model(&model.AlertNotification{}).
		Where("alert_notifications.id = ? AND alert_id IN (?)", c.Param("id"),
			ac.DB.Model(&model.JobAlert{}).Select("id").Where("user_id = ?", user.ID)).
		Update("is_read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.Err("Notification not found"))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Notification marked as read"))
}

// NotifyMatchingAlerts fans a new job out to matching subscriptions.
// Matching is substring on keyword against title/desc/tags and, when the
// alert carries a location, substring on location. Best-effort: the job
// posting request never fails because of alert fan-out.
func NotifyMatchingAlerts(db *database.DBinstanceStruct, job model.Job) error {
	var alerts []model.JobAlert
	if err := db.Find(&alerts).Error; err != nil {
		return err
	}

	haystack := strings.ToLower(job.Title + " " + job.Desc + " " + strings.Join(job.Tags, " "))
	location := strings.ToLower(job.Location)

	var notifications []model.AlertNotification
	for _, alert := range alerts {
		if !strings.Contains(haystack, strings.ToLower(alert.Keyword)) {
			continue
		}
		if alert.Location != "" && !strings.Contains(location, strings.ToLower(alert.Location)) {
			continue
		}
		notifications = append(notifications, model.AlertNotification{
			AlertID: alert.ID,
			JobID:   job.ID,
		})
	}

	if len(notifications) == 0 {
		return nil
	}
	return db.Create(&notifications).Error
}
