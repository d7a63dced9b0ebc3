package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	// Auto load .env file
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// OauthLoginHandler struct holds the database connection and OAuth2 configuration for handling OAuth login.
type OauthLoginHandler struct {
	DB               *database.DBinstanceStruct
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

type code struct {
	Code string `json:"code" binding:"required"`
}

// NewOauthLoginHandler creates a new instance of OauthLoginHandler with the provided database connection and OAuth2 configuration.
func NewOauthLoginHandler(db *database.DBinstanceStruct, oauthConfig *oauth2.Config, userInfoEndpoint string) *OauthLoginHandler {
	return &OauthLoginHandler{
		DB:               db,
		OauthConfig:      oauthConfig,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

func (h *OauthLoginHandler) getUserInfo(c *gin.Context) (model.GoogleUserInfo, error) {

	var code code
	var uInfo model.GoogleUserInfo

	// check does body has code
	if err := c.ShouldBindJSON(&code); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(fmt.Sprintf("No authorization code provided: %v", err.Error())))
		return uInfo, err
	}

	// Exchange code with google and get userinfo
	token, err := h.OauthConfig.Exchange(context.Background(), code.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(fmt.Sprintf("Failed to receive token: %v", err.Error())))
		return uInfo, err
	}

	client := h.OauthConfig.Client(context.Background(), token)
	resp, err := client.Get(h.UserInfoEndpoint)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(fmt.Sprintf("Failed to fetch user information: %v", err.Error())))
		return uInfo, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var bodyBytes []byte
		if resp.Body != nil {
			bodyBytes, _ = io.ReadAll(resp.Body)
		}
		c.JSON(http.StatusBadRequest, utilities.Err(
			fmt.Sprintf("Failed to fetch user information: status=%d body=%s", resp.StatusCode, string(bodyBytes))))
		return uInfo, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&uInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(fmt.Sprintf("Failed to decode user info: %v", err.Error())))
		return uInfo, err
	}
	return uInfo, nil
}

// GoogleLoginHandler returns a login handler that exchanges a Google
// authorization code for a platform token, creating the account (with the
// given role, profile row and pending verification record) on first login.
// @Summary Log in with a Google campus account
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utilities.DataResponse "Access token issued"
// @Failure 400 {object} utilities.ErrorResponse "Missing/invalid authorization code"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/{role} [post]
func (h *OauthLoginHandler) GoogleLoginHandler(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uInfo, err := h.getUserInfo(c)
		if err != nil {
			LogAuthAttempt("warning", "Google", "Fail", uInfo.Email, err.Error())
			return
		}

		var user model.User
		respStatus := http.StatusOK

		err = h.DB.Where("google_id = ?", uInfo.GID).First(&user).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = model.User{
				Username:     uInfo.Email,
				Email:        &uInfo.Email,
				GoogleID:     uInfo.GID,
				Role:         role,
				Verification: &model.VerificationRecord{Status: model.VerificationStatusPending},
			}
			if err := h.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				switch role {
				case model.RoleStudent:
					return tx.Create(&model.StudentProfile{UserID: user.ID}).Error
				case model.RoleAlumni:
					return tx.Create(&model.AlumniProfile{UserID: user.ID}).Error
				}
				return nil
			}); err != nil {
				c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to create user", err))
				return
			}
			respStatus = http.StatusCreated

		case err != nil:
			c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
			return
		}

		accessToken, err := generateToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to generate access token", err))
			return
		}

		LogAuthAttempt("info", "Google", "Success", uInfo.Email, "")
		c.JSON(respStatus, utilities.DataResponse{
			Success: true,
			Data: gin.H{
				"user":         user,
				"access_token": accessToken,
			},
		})
	}
}
