// Package resume renders a student's profile into a downloadable PDF.
package resume

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// ResumeController handles resume generation endpoints
type ResumeController struct {
	DB *database.DBinstanceStruct
}

// NewResumeController creates a new instance of ResumeController
func NewResumeController(db *database.DBinstanceStruct) *ResumeController {
	return &ResumeController{DB: db}
}

// GenerateResume renders the caller's student profile as a PDF, stores it
// and records it as the profile's resume.
// @Summary Generate a resume PDF from my profile
// @Tags Resume
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 201 {object} utilities.DataResponse
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Render or database error"
// @Router /resume [post]
func (rc *ResumeController) GenerateResume(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.Err(err.Error()))
		return
	}

	var profile model.StudentProfile
	if err := rc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("Student profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	content, err := render(user, profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to render resume", err))
		return
	}

	stored := model.File{
		Name:      "resume_" + user.Username + ".pdf",
		Content:   content,
		Extension: ".pdf",
	}
	if err := rc.DB.Create(&stored).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	profile.ResumeID = &stored.ID
	if err := rc.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	c.JSON(http.StatusCreated, utilities.Data(gin.H{"resume_id": stored.ID}))
}

func render(user model.User, profile model.StudentProfile) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Resume", false)
	pdf.AddPage()

	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if name == "" {
		name = user.Username
	}
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var contact []string
	if user.Email != nil {
		contact = append(contact, *user.Email)
	}
	if user.Tel != nil {
		contact = append(contact, *user.Tel)
	}
	if user.LinkedinURL != "" {
		contact = append(contact, user.LinkedinURL)
	}
	if user.GithubURL != "" {
		contact = append(contact, user.GithubURL)
	}
	if len(contact) > 0 {
		pdf.CellFormat(0, 6, strings.Join(contact, "  |  "), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "", 11)
	}

	if user.About != "" {
		section("About")
		pdf.MultiCell(0, 5, user.About, "", "L", false)
		pdf.Ln(3)
	}

	section("Education")
	line := "BRAC University"
	if profile.Department != nil {
		line += ", " + *profile.Department
	}
	pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	if profile.Year != nil {
		pdf.CellFormat(0, 6, "Year: "+*profile.Year, "", 1, "L", false, 0, "")
	}
	if profile.CGPA != nil {
		pdf.CellFormat(0, 6, "CGPA: "+*profile.CGPA, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	if len(profile.Skills) > 0 {
		section("Skills")
		pdf.MultiCell(0, 5, strings.Join(profile.Skills, ", "), "", "L", false)
		pdf.Ln(3)
	}

	if len(user.Links) > 0 {
		section("Links")
		for _, link := range user.Links {
			pdf.CellFormat(0, 5, link, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
