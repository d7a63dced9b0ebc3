// Package file provides HTTP handlers for file-related operations.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// StorageClient mirrors stored objects to an external bucket.
type StorageClient interface {
	UploadFile(objectName string, fileData io.Reader) error
}

// FileController handles file related endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, storage StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: storage,
	}
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// SaveUpload reads a multipart form file, checks its extension against
// allowedExts, stores it as a File row and mirrors it to the bucket when
// one is configured. Returns the stored file ID.
func (fc *FileController) SaveUpload(c *gin.Context, field string, prefix string, allowedExts ...string) (int, error) {
	rawFile, err := c.FormFile(field)
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.Err(err.Error()))
		return 0, err
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.Err(fmt.Sprintf("Failed to retrieve file: %s", err.Error())))
		return 0, err
	}

	ext := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !utilities.Contains(allowedExts, ext) {
		c.JSON(http.StatusUnsupportedMediaType, utilities.Err(
			fmt.Sprintf("File extension %q is not allowed", ext)))
		return 0, fmt.Errorf("extension %q not allowed", ext)
	}

	opened, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to open file", err))
		return 0, err
	}
	defer func() { _ = opened.Close() }()

	content, err := io.ReadAll(opened)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrInternal("Failed to read file", err))
		return 0, err
	}

	stored := model.File{
		Name:      rawFile.Filename,
		Content:   content,
		Extension: ext,
	}
	if err := fc.DB.Create(&stored).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return 0, err
	}

	if fc.Storage != nil {
		objectName := fmt.Sprintf("%s/%d%s", prefix, stored.ID, ext)
		if err := fc.Storage.UploadFile(objectName, bytes.NewReader(content)); err != nil {
			// Mirror is best-effort; the DB row is authoritative.
			log.Printf("bucket mirror failed for %s: %v", objectName, err)
		}
	}

	return stored.ID, nil
}

// GetFile serves a stored file by ID.
// @Summary Download a stored file
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} utilities.ErrorResponse "File not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /files/{id} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	id := c.Param("id")

	var stored model.File
	if err := fc.DB.Where("id = ?", id).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.Err("File not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrDB(err))
		return
	}

	contentType := contentTypes[stored.Extension]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", stored.Name))
	c.Data(http.StatusOK, contentType, stored.Content)
}
