package user

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
	"BracOut-backend/internal/controller/file"
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
	uc := NewUserController(testDB, file.NewFileController(testDB, nil))
	r := gin.Default()
	g := r.Group("/users", middleware.RequireAuth(testDB))
	g.GET("", uc.Directory)
	g.GET("me", uc.GetMe)
	g.PUT("me", uc.EditMe)
	g.PUT("me/student", middleware.CheckRole(model.RoleStudent), uc.EditStudentProfile)
	g.PUT("me/alumni", middleware.CheckRole(model.RoleAlumni), uc.EditAlumniProfile)
	g.GET(":id", uc.GetUserByID)
	r.POST("/reports", middleware.RequireAuth(testDB), uc.ReportUser)
	return r
}

func token(t *testing.T, user model.User) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func TestGetMeReturnsRoleProfile(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r, "/users/me", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	u := data["user"].(map[string]interface{})
	assert.Equal(t, database.TestUserStudent1.Username, u["username"])
	require.NotNil(t, data["profile"])
	// Password never leaks through the JSON shape.
	_, exposed := u["password"]
	assert.False(t, exposed)
}

func TestEditMeMergesNonEmpty(t *testing.T) {
	r := router()
	alumniToken := token(t, database.TestUserAlumni1)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"about": "Backend engineer, BRACU CSE 2019.",
	}, alumniToken, r, "/users/me", http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Backend engineer, BRACU CSE 2019.", data["about"])
	assert.Equal(t, database.TestUserAlumni1.Username, data["username"])
}

func TestEditStudentProfile(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"skills": []string{"go", "postgres"},
		"cgpa":   "3.72",
	}, studentToken, r, "/users/me/student", http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "3.72", data["cgpa"])

	// Role middleware keeps alumni out of the student profile endpoint.
	alumniToken := token(t, database.TestUserAlumni1)
	rec, _ = testutil.MakeJSONRequest(gin.H{"cgpa": "4.0"}, alumniToken, r, "/users/me/student", http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDirectoryRoleFilter(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r, "/users?role=alumni", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	users, ok := data["users"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, users)
	for _, item := range users {
		u := item.(map[string]interface{})
		assert.Equal(t, model.RoleAlumni, u["role"])
	}
	assert.NotNil(t, data["pagination"])
}

func TestGetUserByID(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r,
		"/users/"+database.TestUserRecruiter.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	profile := data["profile"].(map[string]interface{})
	assert.Equal(t, "TechNova", profile["company_name"])

	rec, _ = testutil.MakeJSONRequest(nil, studentToken, r, "/users/not-a-uuid", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportUser(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"reported_user_id": database.TestUserStudent1.ID.String(),
		"reason":           "testing",
	}, studentToken, r, "/reports", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"reported_user_id": database.TestUserRecruiter.ID.String(),
		"reason":           "unsolicited bulk messages",
		"description":      "same pitch sent to my whole cohort",
	}, studentToken, r, "/reports", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, model.SpamReportStatusPending, data["status"])
}
