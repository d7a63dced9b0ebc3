// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"log"
	"reflect"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"BracOut-backend/internal/model"
)

// ErrorResponse is the failure envelope for every endpoint
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Err wraps a message into the failure envelope
func Err(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

// ErrInternal builds the failure envelope for an internal failure. The public
// text is msg; the underlying error is appended only outside release mode.
func ErrInternal(msg string, err error) ErrorResponse {
	if gin.IsDebugging() && err != nil {
		return Err(msg + ": " + err.Error())
	}
	return Err(msg)
}

// ErrDB is ErrInternal for storage failures.
func ErrDB(err error) ErrorResponse {
	return ErrInternal("Database error", err)
}

// MessageResponse is the success envelope for endpoints without a payload
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Msg wraps a message into the success envelope
func Msg(msg string) MessageResponse {
	return MessageResponse{Success: true, Message: msg}
}

// DataResponse is the success envelope for endpoints with a payload
type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Data wraps a payload into the success envelope
func Data(data interface{}) DataResponse {
	return DataResponse{Success: true, Data: data}
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; it returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash with a plaintext candidate
func CheckPassword(hashed string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// CreateAdmin creates an admin user with the given password and username in the provided database.
func CreateAdmin(password string, username string, db *gorm.DB) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	admin := model.User{
		Username: username,
		Password: hashedPassword,
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin: ", err)
	}
}

// MergeNonEmpty help merge struct with non-empty field
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		if !sf.IsZero() {
			df := dv.FieldByName(sv.Type().Field(i).Name)
			if df.IsValid() && df.CanSet() {
				df.Set(sf)
			}
		}
	}
}

// Contains checks if a string is present in a slice of strings.
func Contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
