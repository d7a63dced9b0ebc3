// Package job provides HTTP handlers for job posting and application operations.
package job

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"BracOut-backend/internal/controller/alert"
	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/moderation"
	"BracOut-backend/internal/utilities"
)

// JobController handles job posting related endpoints
type JobController struct {
	DB     *database.DBinstanceStruct
	Scorer *moderation.ScoreKeeper
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{
		DB:     db,
		Scorer: moderation.NewScoreKeeper(db.DB),
	}
}

// CreateJob handles creation of a job posting by a recruiter.
// @Summary Create a job posting
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job body model.EditableJobInfo true "Job posting information"
// @Success 201 {object} utilities.DataResponse "Job created"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var info model.EditableJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	if info.Title == "" {
		c.JSON(http.StatusBadRequest, utilities.Err("Title must be provided"))
		return
	}

	job := model.Job{
		RecruiterID:     user.ID,
		EditableJobInfo: info,
	}
	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	// Soft content scan on the posting text.
	jc.Scorer.ScanText(&user.ID, info.Title+" "+info.Desc)

	if err := alert.NotifyMatchingAlerts(jc.DB, job); err != nil {
		log.Printf("alert fan-out failed for job %d: %v", job.ID, err)
	}

	c.JSON(http.StatusCreated, utilities.Data(job))
}

// GetJobs lists job postings with keyword/location/type filters and pagination.
// @Summary List job postings
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param keyword query string false "Substring match on title"
// @Param location query string false "Substring match on location"
// @Param type query string false "Exact match on job type"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetJobs(c *gin.Context) {
	page := utilities.ParsePage(c)

	query := jc.DB.Model(&model.Job{})
	if keyword := c.Query("keyword"); keyword != "" {
		query = query.Where("title ILIKE ?", "%"+keyword+"%")
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if jobType := c.Query("type"); jobType != "" {
		query = query.Where("type = ?", jobType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var jobs []model.Job
	if err := query.Order("post_time DESC").Offset(page.Offset()).Limit(page.Limit).Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusOK, utilities.Data(gin.H{
		"jobs":       jobs,
		"pagination": utilities.NewPageMeta(page, total),
	}))
}

// GetJobByID returns one job with its FAQ entries.
// @Summary Get a job posting by ID
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	var job model.Job
	if err := jc.DB.Preload("FAQs").Where("id = ?", c.Param("id")).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Job not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(job))
}

// findOwnJob loads a job and checks the caller owns it (or is an admin).
func (jc *JobController) findOwnJob(c *gin.Context) (model.Job, model.User, bool) {
	var job model.Job

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return job, user, false
	}

	if err := jc.DB.Where("id = ?", c.Param("id")).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Job not found"))
			return job, user, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return job, user, false
	}

	if job.RecruiterID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.Err("You don't own this job posting"))
		return job, user, false
	}
	return job, user, true
}

// EditJob updates a posting's editable fields. Owner or admin only.
// @Summary Edit a job posting
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param job body model.EditableJobInfo true "Fields to update"
// @Success 200 {object} utilities.DataResponse
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [patch]
func (jc *JobController) EditJob(c *gin.Context) {
	job, _, ok := jc.findOwnJob(c)
	if !ok {
		return
	}

	var info model.EditableJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	utilities.MergeNonEmpty(&job.EditableJobInfo, &info)

	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(job))
}

// DeleteJob removes a posting. Owner or admin only.
// @Summary Delete a job posting
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	job, _, ok := jc.findOwnJob(c)
	if !ok {
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Job deleted successfully"))
}

// ApplyRequest is the request body for applying to a job.
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
	ResumeID    *int   `json:"resume_id"`
}

// Apply submits a student application to a job.
// @Summary Apply to a job
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param application body ApplyRequest true "Cover letter and optional resume file ID"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Already applied, deadline passed"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/apply [post]
func (jc *JobController) Apply(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var job model.Job
	if err := jc.DB.Where("id = ?", c.Param("id")).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Job not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	var existing int64
	jc.DB.Model(&model.Application{}).
		Where("job_id = ? AND student_id = ?", job.ID, user.ID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, utilities.Err("You have already applied to this job"))
		return
	}

	application := model.Application{
		JobID:       job.ID,
		StudentID:   user.ID,
		Status:      model.ApplicationStatusApplied,
		CoverLetter: req.CoverLetter,
		ResumeID:    req.ResumeID,
	}
	if err := jc.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	jc.Scorer.ScanText(&user.ID, req.CoverLetter)

	c.JSON(http.StatusCreated, utilities.Data(application))
}

// ListApplicants returns applications for a job. Owner or admin only.
// @Summary List applicants of a job
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applicants [get]
func (jc *JobController) ListApplicants(c *gin.Context) {
	job, _, ok := jc.findOwnJob(c)
	if !ok {
		return
	}

	var applications []model.Application
	if err := jc.DB.Preload("Student").Where("job_id = ?", job.ID).Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(applications))
}

// UpdateApplicantStatus sets an application's status. Any status may follow
// any other; only membership in the enum is validated.
// @Summary Update an applicant's status
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param application_id path int true "Application ID"
// @Param status body object{status=string} true "One of applied, shortlisted, rejected, hired"
// @Success 200 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Unknown status"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job or application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applicants/{application_id} [put]
func (jc *JobController) UpdateApplicantStatus(c *gin.Context) {
	job, _, ok := jc.findOwnJob(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body"))
		return
	}
	if !model.ValidApplicationStatus(req.Status) {
		c.JSON(http.StatusBadRequest, utilities.Err(fmt.Sprintf("Unknown status %q", req.Status)))
		return
	}

	var application model.Application
	if err := jc.DB.Where("id = ? AND job_id = ?", c.Param("application_id"), job.ID).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Application not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	application.Status = req.Status
	if err := jc.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(application))
}

// MyApplications lists the calling student's applications.
// @Summary List my applications
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/applications/my [get]
func (jc *JobController) MyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var applications []model.Application
	if err := jc.DB.Preload("Job").Where("student_id = ?", user.ID).Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(applications))
}

// FAQRequest is the request body for adding a FAQ entry to a job.
type FAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// AddFAQ appends a question/answer entry to a job. Owner only.
// @Summary Add a FAQ entry to a job
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param faq body FAQRequest true "Question and answer"
// @Success 201 {object} utilities.DataResponse
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/faq [post]
func (jc *JobController) AddFAQ(c *gin.Context) {
	job, _, ok := jc.findOwnJob(c)
	if !ok {
		return
	}

	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	faq := model.JobFAQ{
		JobID:    job.ID,
		Question: req.Question,
		Answer:   req.Answer,
	}
	if err := jc.DB.Create(&faq).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusCreated, utilities.Data(faq))
}
