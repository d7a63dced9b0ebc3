package qasession

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
	qc := NewQASessionController(testDB)
	r := gin.Default()
	g := r.Group("/qa-sessions", middleware.RequireAuth(testDB))
	g.GET("", qc.ListSessions)
	g.GET(":id", qc.GetSessionByID)
	g.POST("", middleware.CheckRole(model.RoleAlumni), qc.CreateSession)
	g.POST(":id/questions", middleware.CheckRole(model.RoleStudent), qc.AskQuestion)
	g.PUT(":id/questions/:question_id", qc.AnswerQuestion)
	g.DELETE(":id", qc.DeleteSession)
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

func TestCreateSessionAlumniOnly(t *testing.T) {
	r := router()

	body := gin.H{
		"title":        "Breaking into fintech",
		"description":  "AMA about my first two years at a payment gateway.",
		"scheduled_at": time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
	}

	studentToken := token(t, database.TestUserStudent1)
	rec, _ := testutil.MakeJSONRequest(body, studentToken, r, "/qa-sessions", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	alumniToken := token(t, database.TestUserAlumni1)
	rec, resp := testutil.MakeJSONRequest(body, alumniToken, r, "/qa-sessions", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["success"])
}

func TestCreateSessionRequiresSchedule(t *testing.T) {
	r := router()
	alumniToken := token(t, database.TestUserAlumni1)

	rec, _ := testutil.MakeJSONRequest(gin.H{"title": "unscheduled"}, alumniToken, r, "/qa-sessions", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskAndAnswerQuestion(t *testing.T) {
	session := model.QASession{
		HostID:      database.TestUserAlumni1.ID,
		Title:       "Grad school vs industry",
		ScheduledAt: time.Now().AddDate(0, 0, 3),
	}
	require.NoError(t, testDB.Create(&session).Error)

	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"question": "Did your thesis topic matter in interviews?",
	}, studentToken, r, "/qa-sessions/"+itoa(session.ID)+"/questions", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	data := resp["data"].(map[string]interface{})
	questionID := itoa(uint(data["id"].(float64)))

	endpoint := "/qa-sessions/" + itoa(session.ID) + "/questions/" + questionID

	// Only the host may answer.
	otherToken := token(t, database.TestUserAlumni2)
	rec, _ = testutil.MakeJSONRequest(gin.H{"answer": "Not really."}, otherToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	hostToken := token(t, database.TestUserAlumni1)
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"answer": "Only for research roles. Projects mattered more.",
	}, hostToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, "Only for research roles. Projects mattered more.", data["answer"])

	// The answered question comes back with the session detail.
	rec, resp = testutil.MakeJSONRequest(nil, studentToken, r, "/qa-sessions/"+itoa(session.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	questions := resp["data"].(map[string]interface{})["questions"].([]interface{})
	assert.NotEmpty(t, questions)
}

func TestAskQuestionUnknownSession(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(gin.H{"question": "hello?"}, studentToken, r,
		"/qa-sessions/999999/questions", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSessionHostOrAdmin(t *testing.T) {
	session := model.QASession{
		HostID:      database.TestUserAlumni2.ID,
		Title:       "Cancelled talk",
		ScheduledAt: time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, testDB.Create(&session).Error)

	r := router()
	endpoint := "/qa-sessions/" + itoa(session.ID)

	otherToken := token(t, database.TestUserAlumni1)
	rec, _ := testutil.MakeJSONRequest(nil, otherToken, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := token(t, database.TestAdminUser)
	rec, _ = testutil.MakeJSONRequest(nil, adminToken, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
}
