package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// LocalAuthHandler struct holds the database connection for local register and login.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{DB: db}
}

// LocalRegisterHandler function handles local registration by receiving username and password
// do nothing if username already exist in the database
// do nothing if password is shorter than 8 characters
// @Summary Register a local account
// @Description Role can be only 'student', 'alumni' or 'recruiter'. Admin accounts are bootstrapped from env.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} utilities.DataResponse "Account created, access token issued"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, username taken, weak password"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/register [post]
func (h *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required,oneof=student alumni recruiter"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(
			"Username, email, password, and role (only 'student', 'alumni' or 'recruiter') must be provided"))
		return
	}

	var user model.User
	err := h.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.Err("Username already exist"))
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.Err("Password should longer or equal to 8 characters"))
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to hash password", err))
		return
	}

	newUser := model.User{
		Username:     info.Username,
		Email:        &info.Email,
		Password:     hashedPassword,
		Role:         info.Role,
		Verification: &model.VerificationRecord{Status: model.VerificationStatusPending},
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		switch info.Role {
		case model.RoleStudent:
			return tx.Create(&model.StudentProfile{UserID: newUser.ID}).Error
		case model.RoleAlumni:
			return tx.Create(&model.AlumniProfile{UserID: newUser.ID}).Error
		case model.RoleRecruiter:
			return tx.Create(&model.RecruiterProfile{UserID: newUser.ID}).Error
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to create user", err))
		return
	}

	accessToken, err := generateToken(newUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to generate access token", err))
		return
	}

	LogAuthAttempt("info", "Local", "Success", info.Username, "registered")
	c.JSON(http.StatusCreated, utilities.DataResponse{
		Success: true,
		Data: gin.H{
			"user":         newUser,
			"access_token": accessToken,
		},
	})
}

// LocalLoginHandler function handles local login by receiving username and password
// @Summary Log in with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utilities.DataResponse "Access token issued"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Wrong username or password"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (h *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err("Username or password is not provided"))
		return
	}

	var user model.User
	if err := h.DB.Where("username = ?", info.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			LogAuthAttempt("warning", "Local", "Fail", info.Username, "unknown username")
			c.JSON(http.StatusUnauthorized, utilities.Err("Wrong username or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	if !utilities.CheckPassword(user.Password, info.Password) {
		LogAuthAttempt("warning", "Local", "Fail", info.Username, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.Err("Wrong username or password"))
		return
	}

	accessToken, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to generate access token", err))
		return
	}

	LogAuthAttempt("info", "Local", "Success", info.Username, "")
	c.JSON(http.StatusOK, utilities.DataResponse{
		Success: true,
		Data: gin.H{
			"user":         user,
			"access_token": accessToken,
		},
	})
}
