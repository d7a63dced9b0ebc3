package alert

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BracOut-backend/internal/auth"
	"BracOut-backend/internal/database"
	"BracOut-backend/internal/middleware"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

func router() *gin.Engine {
	ac := NewAlertController(testDB)
	r := gin.Default()
	g := r.Group("/alerts", middleware.RequireAuth(testDB))
	g.GET("", ac.ListAlerts)
	g.POST("", ac.CreateAlert)
	g.DELETE(":id", ac.DeleteAlert)
	g.PUT("notifications/:id/read", ac.MarkNotificationRead)
	return r
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func token(t *testing.T, user model.User) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func TestCreateAndListAlerts(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"keyword":  "golang",
		"location": "dhaka",
	}, studentToken, r, "/alerts", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"location": "remote"}, studentToken, r, "/alerts", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r, "/alerts", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, data)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "golang", first["keyword"])
}

func TestNotifyMatchingAlertsHonorsLocation(t *testing.T) {
	subscription := model.JobAlert{
		UserID:   database.TestUserStudent2.ID,
		Keyword:  "analyst",
		Location: "chattogram",
	}
	require.NoError(t, testDB.Create(&subscription).Error)

	// Keyword matches but the location does not.
	require.NoError(t, NotifyMatchingAlerts(testDB, database.TestJob2))

	var count int64
	testDB.Model(&model.AlertNotification{}).Where("alert_id = ?", subscription.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMarkNotificationReadOwnerOnly(t *testing.T) {
	subscription := model.JobAlert{
		UserID:  database.TestUserStudent2.ID,
		Keyword: "intern",
	}
	require.NoError(t, testDB.Create(&subscription).Error)
	notification := model.AlertNotification{
		AlertID: subscription.ID,
		JobID:   database.TestJob2.ID,
	}
	require.NoError(t, testDB.Create(&notification).Error)

	r := router()
	endpoint := "/alerts/notifications/" + itoa(notification.ID) + "/read"

	otherToken := token(t, database.TestUserStudent1)
	rec, _ := testutil.MakeJSONRequest(nil, otherToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ownerToken := token(t, database.TestUserStudent2)
	rec, _ = testutil.MakeJSONRequest(nil, ownerToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.AlertNotification
	require.NoError(t, testDB.Where("id = ?", notification.ID).First(&got).Error)
	assert.True(t, got.IsRead)
}

func TestDeleteAlertOwnerOnly(t *testing.T) {
	subscription := model.JobAlert{
		UserID:  database.TestUserAlumni1.ID,
		Keyword: "lecturer",
	}
	require.NoError(t, testDB.Create(&subscription).Error)

	r := router()
	endpoint := "/alerts/" + itoa(subscription.ID)

	otherToken := token(t, database.TestUserStudent1)
	rec, _ := testutil.MakeJSONRequest(nil, otherToken, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ownerToken := token(t, database.TestUserAlumni1)
	rec, _ = testutil.MakeJSONRequest(nil, ownerToken, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
}
