package referral

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
	rc := NewReferralController(testDB)
	r := gin.Default()
	g := r.Group("/referrals", middleware.RequireAuth(testDB))
	g.GET("", rc.ListReferrals)
	g.POST("", middleware.CheckRole(model.RoleStudent), rc.CreateReferral)
	g.PUT(":id", middleware.CheckRole(model.RoleAlumni), rc.RespondReferral)
	g.PUT(":id/read", rc.MarkRead)
	g.DELETE(":id", middleware.CheckRole(model.RoleStudent), rc.DeleteReferral)
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

func TestCreateReferralAndTripleUniqueness(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	body := gin.H{
		"job_id":    database.TestJob1.ID,
		"alumni_id": database.TestUserAlumni1.ID.String(),
		"message":   "We worked together at the CS club, could you refer me?",
	}
	rec, resp := testutil.MakeJSONRequest(body, studentToken, r, "/referrals", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["success"])

	// Same (job, student, alumni) triple again.
	rec, _ = testutil.MakeJSONRequest(body, studentToken, r, "/referrals", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Same job and student but a different alumni is allowed.
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"job_id":    database.TestJob1.ID,
		"alumni_id": database.TestUserAlumni2.ID.String(),
	}, studentToken, r, "/referrals", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateReferralTargetMustBeAlumni(t *testing.T) {
	r := router()
	studentToken := token(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"job_id":    database.TestJob1.ID,
		"alumni_id": database.TestUserRecruiter.ID.String(),
	}, studentToken, r, "/referrals", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "alumni")
}

func TestRespondReferralNamedAlumniOnly(t *testing.T) {
	referral := model.Referral{
		JobID:     database.TestJob2.ID,
		StudentID: database.TestUserStudent2.ID,
		AlumniID:  database.TestUserAlumni1.ID,
	}
	require.NoError(t, testDB.Create(&referral).Error)

	r := router()
	endpoint := "/referrals/" + itoa(referral.ID)

	// A different alumni cannot act on it.
	otherToken := token(t, database.TestUserAlumni2)
	rec, _ := testutil.MakeJSONRequest(gin.H{"action": "approve"}, otherToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	namedToken := token(t, database.TestUserAlumni1)
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"action":   "approve",
		"response": "Happy to put in a word.",
	}, namedToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.Referral
	require.NoError(t, testDB.Where("id = ?", referral.ID).First(&got).Error)
	assert.Equal(t, model.ReferralStatusApproved, got.Status)
	assert.Equal(t, "Happy to put in a word.", got.AlumniResponse)
	assert.False(t, got.IsReadByStudent)

	// Decided referrals reject further decisions.
	rec, _ = testutil.MakeJSONRequest(gin.H{"action": "reject"}, namedToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkReadPartiesOnly(t *testing.T) {
	referral := model.Referral{
		JobID:     database.TestJob2.ID,
		StudentID: database.TestUserStudent2.ID,
		AlumniID:  database.TestUserAlumni2.ID,
	}
	require.NoError(t, testDB.Create(&referral).Error)

	r := router()
	endpoint := "/referrals/" + itoa(referral.ID) + "/read"

	outsiderToken := token(t, database.TestUserStudent1)
	rec, _ := testutil.MakeJSONRequest(nil, outsiderToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	alumniToken := token(t, database.TestUserAlumni2)
	rec, _ = testutil.MakeJSONRequest(nil, alumniToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.Referral
	require.NoError(t, testDB.Where("id = ?", referral.ID).First(&got).Error)
	assert.True(t, got.IsReadByAlumni)
}

func TestDeleteReferralPendingOnly(t *testing.T) {
	decided := model.Referral{
		JobID:     database.TestJob1.ID,
		StudentID: database.TestUserStudent2.ID,
		AlumniID:  database.TestUserAlumni1.ID,
		Status:    model.ReferralStatusApproved,
	}
	require.NoError(t, testDB.Create(&decided).Error)

	r := router()
	studentToken := token(t, database.TestUserStudent2)

	rec, _ := testutil.MakeJSONRequest(nil, studentToken, r, "/referrals/"+itoa(decided.ID), http.MethodDelete)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	pending := model.Referral{
		JobID:     database.TestJob1.ID,
		StudentID: database.TestUserStudent2.ID,
		AlumniID:  database.TestUserAlumni2.ID,
	}
	require.NoError(t, testDB.Create(&pending).Error)

	rec, _ = testutil.MakeJSONRequest(nil, studentToken, r, "/referrals/"+itoa(pending.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListReferralsByRole(t *testing.T) {
	r := router()

	alumniToken := token(t, database.TestUserAlumni1)
	rec, resp := testutil.MakeJSONRequest(nil, alumniToken, r, "/referrals", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	for _, item := range data {
		ref := item.(map[string]interface{})
		assert.Equal(t, database.TestUserAlumni1.ID.String(), ref["alumni_id"])
	}
}
