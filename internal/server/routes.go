package server

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"BracOut-backend/internal/auth"
	"BracOut-backend/internal/controller/admin"
	"BracOut-backend/internal/controller/alert"
	"BracOut-backend/internal/controller/connection"
	"BracOut-backend/internal/controller/course"
	"BracOut-backend/internal/controller/file"
	"BracOut-backend/internal/controller/job"
	"BracOut-backend/internal/controller/message"
	"BracOut-backend/internal/controller/qasession"
	"BracOut-backend/internal/controller/referral"
	"BracOut-backend/internal/controller/resume"
	"BracOut-backend/internal/controller/user"
	"BracOut-backend/internal/middleware"
	"BracOut-backend/internal/model"
)

func messageQuota() *middleware.MessageQuota {
	limit, err := strconv.Atoi(os.Getenv("MESSAGE_QUOTA_PER_DAY"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return middleware.NewMessageQuota(limit, 24*time.Hour)
}

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.openid",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)

	var storage file.StorageClient
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		client, err := file.NewCloudStorageClient(bucket)
		if err != nil {
			log.Printf("cloud storage disabled: %v", err)
		} else {
			storage = client
		}
	}

	files := file.NewFileController(s.DB, storage)
	users := user.NewUserController(s.DB, files)
	jobs := job.NewJobController(s.DB)
	referrals := referral.NewReferralController(s.DB)
	connections := connection.NewConnectionController(s.DB)
	messages := message.NewMessageController(s.DB)
	courses := course.NewCourseController(s.DB)
	sessions := qasession.NewQASessionController(s.DB)
	alerts := alert.NewAlertController(s.DB)
	resumes := resume.NewResumeController(s.DB)
	admins := admin.NewAdminController(s.DB)
	quota := messageQuota()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("google/student", gAuth.GoogleLoginHandler(model.RoleStudent))
			authRoute.POST("google/alumni", gAuth.GoogleLoginHandler(model.RoleAlumni))

			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.CheckBlocked())

			fileRoute := needAuth.Group("/files")
			{
				fileRoute.GET(":id", files.GetFile)
			}

			userRoute := needAuth.Group("/users")
			{
				userRoute.GET("", users.Directory)
				userRoute.GET("me", users.GetMe)
				userRoute.PUT("me", users.EditMe)
				userRoute.PUT("me/picture", middleware.SizeLimit(10<<20), users.UploadProfilePicture)
				userRoute.PUT("me/verification", middleware.SizeLimit(10<<20), users.UploadVerificationDocument)
				userRoute.PUT("me/student", middleware.CheckRole(model.RoleStudent), users.EditStudentProfile)
				userRoute.PUT("me/resume", middleware.CheckRole(model.RoleStudent), middleware.SizeLimit(10<<20), users.UploadResume)
				userRoute.PUT("me/alumni", middleware.CheckRole(model.RoleAlumni), users.EditAlumniProfile)
				userRoute.PUT("me/recruiter", middleware.CheckRole(model.RoleRecruiter), users.EditRecruiterProfile)
				userRoute.GET(":id", users.GetUserByID)
			}

			needAuth.POST("/reports", users.ReportUser)

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET("", jobs.GetJobs)
				jobRoute.GET("applications/my", middleware.CheckRole(model.RoleStudent), jobs.MyApplications)
				jobRoute.GET(":id", jobs.GetJobByID)
				jobRoute.POST("", middleware.CheckRole(model.RoleRecruiter, model.RoleAlumni), jobs.CreateJob)
				jobRoute.PATCH(":id", jobs.EditJob)
				jobRoute.DELETE(":id", jobs.DeleteJob)
				jobRoute.POST(":id/apply", middleware.CheckRole(model.RoleStudent), jobs.Apply)
				jobRoute.GET(":id/applicants", jobs.ListApplicants)
				jobRoute.PUT(":id/applicants/:application_id", jobs.UpdateApplicantStatus)
				jobRoute.POST(":id/faq", jobs.AddFAQ)
			}

			referralRoute := needAuth.Group("/referrals")
			{
				referralRoute.GET("", referrals.ListReferrals)
				referralRoute.POST("", middleware.CheckRole(model.RoleStudent), referrals.CreateReferral)
				referralRoute.PUT(":id", middleware.CheckRole(model.RoleAlumni), referrals.RespondReferral)
				referralRoute.PUT(":id/read", referrals.MarkRead)
				referralRoute.DELETE(":id", middleware.CheckRole(model.RoleStudent), referrals.DeleteReferral)
			}

			connectionRoute := needAuth.Group("/connections")
			{
				connectionRoute.GET("", connections.ListConnections)
				connectionRoute.POST("", connections.CreateConnection)
				connectionRoute.PUT(":id", connections.RespondConnection)
				connectionRoute.DELETE(":id", connections.DeleteConnection)
			}

			messageRoute := needAuth.Group("/messages")
			{
				messageRoute.GET("", messages.GetInbox)
				messageRoute.GET(":user_id", messages.GetConversation)
				messageRoute.POST("", middleware.MessageQuotaMiddleware(quota), messages.SendMessage)
			}

			courseRoute := needAuth.Group("/courses")
			{
				courseRoute.GET("", courses.ListCourses)
				courseRoute.GET("mine", courses.MyCourses)
				courseRoute.GET(":id", courses.GetCourseByID)
				courseRoute.POST("", middleware.CheckRole(model.RoleAlumni, model.RoleAdmin), courses.CreateCourse)
				courseRoute.POST(":id/enroll", middleware.CheckRole(model.RoleStudent), courses.Enroll)
				courseRoute.DELETE(":id", courses.DeleteCourse)
			}

			sessionRoute := needAuth.Group("/qa-sessions")
			{
				sessionRoute.GET("", sessions.ListSessions)
				sessionRoute.GET(":id", sessions.GetSessionByID)
				sessionRoute.POST("", middleware.CheckRole(model.RoleAlumni), sessions.CreateSession)
				sessionRoute.POST(":id/questions", middleware.CheckRole(model.RoleStudent), sessions.AskQuestion)
				sessionRoute.PUT(":id/questions/:question_id", sessions.AnswerQuestion)
				sessionRoute.DELETE(":id", sessions.DeleteSession)
			}

			alertRoute := needAuth.Group("/alerts")
			{
				alertRoute.GET("", alerts.ListAlerts)
				alertRoute.POST("", alerts.CreateAlert)
				alertRoute.DELETE(":id", alerts.DeleteAlert)
				alertRoute.PUT("notifications/:id/read", alerts.MarkNotificationRead)
			}

			needAuth.POST("/resume", middleware.CheckRole(model.RoleStudent), resumes.GenerateResume)

			adminRoute := needAuth.Group("/admin")
			{
				adminRoute.Use(middleware.CheckRole(model.RoleAdmin))
				adminRoute.GET("verifications", admins.ListPendingVerifications)
				adminRoute.PUT("verifications/:id", admins.ReviewVerification)
				adminRoute.GET("reports", admins.ListSpamReports)
				adminRoute.PUT("reports/:id", admins.UpdateSpamReport)
				adminRoute.POST("scan/text", admins.ScanText)
				adminRoute.POST("scan/users/:id", admins.ScanUserProfile)
				adminRoute.PUT("users/:id/score", admins.OverrideScore)
				adminRoute.GET("users/:id/score-audit", admins.GetScoreAudit)
				adminRoute.PUT("users/:id/block", admins.ToggleBlock)
				adminRoute.DELETE("users/:id", admins.DeleteUser)
				adminRoute.GET("stats", admins.Stats)
			}
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
