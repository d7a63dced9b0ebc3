package job

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
	"BracOut-backend/internal/controller/alert"
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
	jc := NewJobController(testDB)
	r := gin.Default()
	g := r.Group("/jobs", middleware.RequireAuth(testDB))
	g.GET("", jc.GetJobs)
	g.GET("applications/my", jc.MyApplications)
	g.GET(":id", jc.GetJobByID)
	g.POST("", middleware.CheckRole(model.RoleRecruiter, model.RoleAlumni), jc.CreateJob)
	g.PATCH(":id", jc.EditJob)
	g.DELETE(":id", jc.DeleteJob)
	g.POST(":id/apply", middleware.CheckRole(model.RoleStudent), jc.Apply)
	g.GET(":id/applicants", jc.ListApplicants)
	g.PUT(":id/applicants/:application_id", jc.UpdateApplicantStatus)
	g.POST(":id/faq", jc.AddFAQ)
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

func TestCreateJobRecruiterOnly(t *testing.T) {
	r := router()

	body := gin.H{
		"title":    "Platform Engineer",
		"desc":     "Own the deployment pipeline.",
		"location": "Dhaka",
		"type":     "Full-time",
	}

	studentToken := token(t, database.TestUserStudent1)
	rec, _ := testutil.MakeJSONRequest(body, studentToken, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	recruiterToken := token(t, database.TestUserRecruiter)
	rec, resp := testutil.MakeJSONRequest(body, recruiterToken, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["success"])
}

func TestCreateJobRequiresTitle(t *testing.T) {
	r := router()
	recruiterToken := token(t, database.TestUserRecruiter)

	rec, _ := testutil.MakeJSONRequest(gin.H{"desc": "no title"}, recruiterToken, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJobNotifiesMatchingAlerts(t *testing.T) {
	subscription := model.JobAlert{
		UserID:  database.TestUserStudent1.ID,
		Keyword: "compiler",
	}
	require.NoError(t, testDB.Create(&subscription).Error)

	r := router()
	recruiterToken := token(t, database.TestUserRecruiter)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title": "Compiler Engineer",
		"desc":  "Work on our in-house query compiler.",
	}, recruiterToken, r, "/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)

	var notifications []model.AlertNotification
	require.NoError(t, testDB.Where("alert_id = ?", subscription.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsRead)

	// Sanity check on the exported fan-out helper with a non-matching job.
	assert.NoError(t, alert.NotifyMatchingAlerts(testDB, model.Job{
		EditableJobInfo: model.EditableJobInfo{Title: "Gardener"},
	}))
	require.NoError(t, testDB.Where("alert_id = ?", subscription.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestGetJobsKeywordFilter(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r, "/jobs?keyword=backend", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	jobs, ok := data["jobs"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, jobs)
	for _, item := range jobs {
		j := item.(map[string]interface{})
		assert.Contains(t, j["title"].(string), "Backend")
	}
	assert.NotNil(t, data["pagination"])
}

func TestApplyOncePerJob(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)
	endpoint := "/jobs/" + itoa(database.TestJob1.ID) + "/apply"

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"cover_letter": "I built two Go services during my coursework.",
	}, studentToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"cover_letter": "trying again",
	}, studentToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already applied")
}

func TestMyApplications(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r, "/jobs/applications/my", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, data)
	first := data[0].(map[string]interface{})
	assert.Equal(t, database.TestUserStudent1.ID.String(), first["student_id"])
}

func TestListApplicantsOwnerOnly(t *testing.T) {
	r := router()
	endpoint := "/jobs/" + itoa(database.TestJob1.ID) + "/applicants"

	alumniToken := token(t, database.TestUserAlumni1)
	rec, _ := testutil.MakeJSONRequest(nil, alumniToken, r, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	recruiterToken := token(t, database.TestUserRecruiter)
	rec, resp := testutil.MakeJSONRequest(nil, recruiterToken, r, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data)
}

func TestUpdateApplicantStatusEnumOnly(t *testing.T) {
	var application model.Application
	require.NoError(t, testDB.
		Where("job_id = ? AND student_id = ?", database.TestJob1.ID, database.TestUserStudent1.ID).
		First(&application).Error)

	r := router()
	recruiterToken := token(t, database.TestUserRecruiter)
	endpoint := "/jobs/" + itoa(database.TestJob1.ID) + "/applicants/" + itoa(application.ID)

	rec, _ := testutil.MakeJSONRequest(gin.H{"status": "ghosted"}, recruiterToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Statuses are free-order: hired straight from applied is fine...
	rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusHired}, recruiterToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)

	// ...and so is moving back.
	rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusShortlisted}, recruiterToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddFAQAndReadBack(t *testing.T) {
	r := router()
	recruiterToken := token(t, database.TestUserRecruiter)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"question": "Is relocation supported?",
		"answer":   "Yes, within Bangladesh.",
	}, recruiterToken, r, "/jobs/"+itoa(database.TestJob2.ID)+"/faq", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	studentToken := token(t, database.TestUserStudent1)
	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r, "/jobs/"+itoa(database.TestJob2.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	faqs, ok := data["faqs"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, faqs)
}

func TestEditJobMergesNonEmpty(t *testing.T) {
	r := router()
	recruiterToken := token(t, database.TestUserRecruiter)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"salary": "70000 BDT",
	}, recruiterToken, r, "/jobs/"+itoa(database.TestJob1.ID), http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "70000 BDT", data["salary"])
	// Untouched fields keep their values.
	assert.Equal(t, database.TestJob1.Title, data["title"])
}
