package database

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context) error
	teardown, testDB, err = GetTestDB()
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

func TestDsnRequiresCompleteConfig(t *testing.T) {
	_, err := (&DBConfig{Host: "localhost"}).dsn()
	assert.Error(t, err)

	_, err = (&DBConfig{useConstr: true}).dsn()
	assert.Error(t, err)

	got, err := (&DBConfig{
		Host: "localhost", Port: "5432", User: "u", Password: "p", DBName: "d",
	}).dsn()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/d?sslmode=disable", got)
}

func TestRawCachesHandle(t *testing.T) {
	first, err := testDB.Raw()
	require.NoError(t, err)
	second, err := testDB.Raw()
	require.NoError(t, err)
	assert.Same(t, first, second)

	var nilDB *DBinstanceStruct
	_, err = nilDB.Raw()
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	// NewDBInstance already migrated once; a second run must be a no-op.
	assert.NoError(t, testDB.Migrate())
}

func TestHealthReportsPoolStats(t *testing.T) {
	stats := testDB.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "Database is healthy", stats["message"])
	for _, key := range []string{"open_connections", "in_use", "idle", "wait_count", "wait_duration"} {
		assert.Contains(t, stats, key)
	}
}
