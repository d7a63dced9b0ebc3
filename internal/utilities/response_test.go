package utilities

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrDBHidesDetailInReleaseMode(t *testing.T) {
	prev := gin.Mode()
	defer gin.SetMode(prev)

	gin.SetMode(gin.ReleaseMode)
	resp := ErrDB(errors.New("pq: connection refused"))
	assert.False(t, resp.Success)
	assert.Equal(t, "Database error", resp.Error)

	gin.SetMode(gin.DebugMode)
	resp = ErrDB(errors.New("pq: connection refused"))
	assert.Equal(t, "Database error: pq: connection refused", resp.Error)
}

func TestErrInternal(t *testing.T) {
	prev := gin.Mode()
	defer gin.SetMode(prev)

	gin.SetMode(gin.DebugMode)
	resp := ErrInternal("Failed to render resume", errors.New("missing font"))
	assert.Equal(t, "Failed to render resume: missing font", resp.Error)

	// A nil error never appends anything.
	resp = ErrInternal("Failed to render resume", nil)
	assert.Equal(t, "Failed to render resume", resp.Error)

	gin.SetMode(gin.ReleaseMode)
	resp = ErrInternal("Failed to render resume", errors.New("missing font"))
	assert.Equal(t, "Failed to render resume", resp.Error)
}
