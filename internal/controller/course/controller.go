// Package course provides HTTP handlers for courses and enrollments.
package course

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// CourseController handles course related endpoints
type CourseController struct {
	DB *database.DBinstanceStruct
}

// NewCourseController creates a new instance of CourseController
func NewCourseController(db *database.DBinstanceStruct) *CourseController {
	return &CourseController{DB: db}
}

// CreateRequest is the request body for publishing a course.
type CreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// CreateCourse publishes a learning resource. Alumni and admin only,
// enforced by route middleware.
// @Summary Publish a course
// @Tags Course
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param course body CreateRequest true "Course details"
// @Success 201 {object} utilities.DataResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /courses [post]
func (cc *CourseController) CreateCourse(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Invalid request body: "+err.Error()))
		return
	}

	course := model.Course{
		InstructorID: user.ID,
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusCreated, utilities.Data(course))
}

// ListCourses returns the course catalog, paginated, with an optional
// keyword filter on title and description.
// @Summary Browse the course catalog
// @Tags Course
// @Produce json
// @Param keyword query string false "Keyword filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /courses [get]
func (cc *CourseController) ListCourses(c *gin.Context) {
	pq := utilities.ParsePage(c)

	query := cc.DB.Model(&model.Course{})
	if keyword := c.Query("keyword"); keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var courses []model.Course
	if err := query.Order("id DESC").Offset(pq.Offset()).Limit(pq.Limit).Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusOK, utilities.Data(gin.H{
		"courses":    courses,
		"pagination": utilities.NewPageMeta(pq, total),
	}))
}

// GetCourseByID returns one course with its enrollments.
// @Summary Get a course
// @Tags Course
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utilities.DataResponse
// @Failure 404 {object} utilities.ErrorResponse "Course not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /courses/{id} [get]
func (cc *CourseController) GetCourseByID(c *gin.Context) {
	var course model.Course
	if err := cc.DB.Preload("Enrollments").Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Course not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(course))
}

// Enroll registers the calling student in a course. Enrolling twice is a
// no-op that reports the existing enrollment.
// @Summary Enroll in a course
// @Tags Course
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Course ID"
// @Success 200 {object} utilities.MessageResponse "Already enrolled"
// @Success 201 {object} utilities.DataResponse
// @Failure 404 {object} utilities.ErrorResponse "Course not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /courses/{id}/enroll [post]
func (cc *CourseController) Enroll(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var course model.Course
	if err := cc.DB.Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Course not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	var existing int64
	cc.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND student_id = ?", course.ID, user.ID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusOK, utilities.Msg("You are already enrolled in this course"))
		return
	}

	enrollment := model.Enrollment{
		CourseID:  course.ID,
		StudentID: user.ID,
	}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusCreated, utilities.Data(enrollment))
}

// MyCourses lists the courses the caller is enrolled in.
// @Summary List my enrolled courses
// @Tags Course
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.DataResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /courses/mine [get]
func (cc *CourseController) MyCourses(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var courses []model.Course
	if err := cc.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", user.ID).
		Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Data(courses))
}

// DeleteCourse removes a course. Instructor or admin only.
// @Summary Delete a course
// @Tags Course
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Course ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 403 {object} utilities.ErrorResponse "Not the instructor"
// @Failure 404 {object} utilities.ErrorResponse "Course not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /courses/{id} [delete]
func (cc *CourseController) DeleteCourse(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var course model.Course
	if err := cc.DB.Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Course not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if course.InstructorID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.Err("Only the instructor or an admin may delete this course"))
		return
	}

	if err := cc.DB.Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}
	c.JSON(http.StatusOK, utilities.Msg("Course deleted"))
}
