package message

import (
	"context"
	"log"
	"net/http"
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
	mc := NewMessageController(testDB)
	r := gin.Default()
	g := r.Group("/messages", middleware.RequireAuth(testDB))
	g.GET("", mc.GetInbox)
	g.GET(":user_id", mc.GetConversation)
	g.POST("", mc.SendMessage)
	return r
}

func token(t *testing.T, user model.User) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func connect(t *testing.T, a, b model.User) {
	t.Helper()
	require.NoError(t, testDB.Create(&model.Connection{
		RequesterID: a.ID,
		TargetID:    b.ID,
		Status:      model.ConnectionStatusApproved,
	}).Error)
}

func TestSendMessageRequiresApprovedConnection(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"recipient_id": database.TestUserAlumni1.ID.String(),
		"body":         "Hello!",
	}, studentToken, r, "/messages", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, resp["error"], "connected")
}

func TestSendMessagePendingConnectionNotEnough(t *testing.T) {
	require.NoError(t, testDB.Create(&model.Connection{
		RequesterID: database.TestUserStudent1.ID,
		TargetID:    database.TestUserRecruiter.ID,
	}).Error)

	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"recipient_id": database.TestUserRecruiter.ID.String(),
		"body":         "Hello!",
	}, studentToken, r, "/messages", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSendMessageWorksBothDirections(t *testing.T) {
	connect(t, database.TestUserStudent1, database.TestUserAlumni1)

	r := router()
	studentToken := token(t, database.TestUserStudent1)
	alumniToken := token(t, database.TestUserAlumni1)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"recipient_id": database.TestUserAlumni1.ID.String(),
		"body":         "Thanks for accepting my request!",
	}, studentToken, r, "/messages", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["success"])

	// The connection row is directional in storage but the gate is not.
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"recipient_id": database.TestUserStudent1.ID.String(),
		"body":         "Any time. How is the job hunt going?",
	}, alumniToken, r, "/messages", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSendMessageSelfRejected(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"recipient_id": database.TestUserStudent1.ID.String(),
		"body":         "note to self",
	}, studentToken, r, "/messages", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConversationMarksRead(t *testing.T) {
	connect(t, database.TestUserStudent2, database.TestUserAlumni2)
	require.NoError(t, testDB.Create(&model.Message{
		SenderID:    database.TestUserAlumni2.ID,
		RecipientID: database.TestUserStudent2.ID,
		Body:        "Saw your profile, nice portfolio.",
	}).Error)

	r := router()
	studentToken := token(t, database.TestUserStudent2)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r,
		"/messages/"+database.TestUserAlumni2.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, data)

	var unread int64
	testDB.Model(&model.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = false",
			database.TestUserAlumni2.ID, database.TestUserStudent2.ID).
		Count(&unread)
	assert.Equal(t, int64(0), unread)
}

func TestInboxGroupsByPartner(t *testing.T) {
	connect(t, database.TestUserAlumni1, database.TestUserAlumni2)

	r := router()
	alumniToken := token(t, database.TestUserAlumni1)

	for _, body := range []string{"first", "second", "third"} {
		rec, _ := testutil.MakeJSONRequest(gin.H{
			"recipient_id": database.TestUserAlumni2.ID.String(),
			"body":         body,
		}, alumniToken, r, "/messages", http.MethodPost)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	otherToken := token(t, database.TestUserAlumni2)
	rec, resp := testutil.MakeJSONRequest(nil, otherToken, r, "/messages", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, data)

	// One preview per partner, carrying the latest body and unread count.
	var preview map[string]interface{}
	for _, item := range data {
		p := item.(map[string]interface{})
		if p["partner_id"] == database.TestUserAlumni1.ID.String() {
			preview = p
			break
		}
	}
	require.NotNil(t, preview)
	assert.Equal(t, "third", preview["last_body"])
	assert.Equal(t, float64(3), preview["unread_count"])
	assert.Equal(t, database.TestUserAlumni1.Username, preview["partner_name"])
}
