// Package database implement connection to database service and initialize ORM.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	// Register pgx as the database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// DBinstanceStruct holds the GORM DB instance and its configuration.
type DBinstanceStruct struct {
	*gorm.DB
	Config *DBConfig

	rawOnce sync.Once
	sqlDB   *sql.DB
	rawErr  error
}

// DBConfig holds the configuration parameters for connecting to a database.
type DBConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	DBName    string
	Constr    string
	useConstr bool
}

func (d *DBConfig) dsn() (string, error) {
	if d.useConstr {
		if d.Constr == "" {
			return "", fmt.Errorf("DB_CONNECTION_STR is empty")
		}
		return d.Constr, nil
	}
	if d.Host == "" || d.Port == "" || d.User == "" || d.Password == "" || d.DBName == "" {
		return "", fmt.Errorf("database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.DBName), nil
}

var dbInstance *DBinstanceStruct

// NewDBInstance connects to the database described by config, runs migrations
// and seeds the bootstrap admin. It returns the instance or an error.
func NewDBInstance(config *DBConfig) (*DBinstanceStruct, error) {
	connStr, err := config.dsn()
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if gin.IsDebugging() {
		gdb = gdb.Debug()
	}

	instance := &DBinstanceStruct{
		DB:     gdb,
		Config: config,
	}

	if err := instance.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	instance.bootstrapAdmin()

	return instance, nil
}

// GetMainDB returns the process-wide database instance, initializing it from
// environment variables on first use.
func GetMainDB() (*DBinstanceStruct, error) {
	if dbInstance != nil {
		return dbInstance, nil
	}

	useConnStr, err := strconv.ParseBool(os.Getenv("USE_CONNECTION_STR"))
	if err != nil {
		return nil, fmt.Errorf("USE_CONNECTION_STR environment variable is invalid: %w", err)
	}

	instance, err := NewDBInstance(&DBConfig{
		Host:      os.Getenv("DB_HOST"),
		Port:      os.Getenv("DB_PORT"),
		User:      os.Getenv("DB_USERNAME"),
		Password:  os.Getenv("DB_PASSWORD"),
		DBName:    os.Getenv("DB_DATABASE"),
		Constr:    os.Getenv("DB_CONNECTION_STR"),
		useConstr: useConnStr,
	})
	if err != nil {
		return nil, err
	}
	dbInstance = instance
	return dbInstance, nil
}

// Raw returns the underlying *sql.DB. The handle is resolved once and cached;
// safe for concurrent use.
func (d *DBinstanceStruct) Raw() (*sql.DB, error) {
	if d == nil || d.DB == nil {
		return nil, fmt.Errorf("database instance is not initialized")
	}
	d.rawOnce.Do(func() {
		d.sqlDB, d.rawErr = d.DB.DB()
	})
	return d.sqlDB, d.rawErr
}

// bootstrapAdmin seeds an admin account from ADMIN_USERNAME/ADMIN_PASSWORD
// when no admin exists yet.
func (d *DBinstanceStruct) bootstrapAdmin() {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		log.Println("Admin username or password not set, skipping admin creation")
		return
	}

	var count int64
	d.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count)
	if count == 0 {
		utilities.CreateAdmin(adminPassword, adminUsername, d.DB)
	}
}

// Migrate installs the uuid-ossp extension and auto-migrates every registered
// model. Both steps are idempotent.
func (d *DBinstanceStruct) Migrate() error {
	if err := d.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}
	return d.AutoMigrate(model.MigrateAble...)
}

// Health pings the database and reports connection pool statistics.
func (d *DBinstanceStruct) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	raw, err := d.Raw()
	if err == nil {
		err = raw.PingContext(ctx)
	}
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("database unreachable: %v", err)
		log.Printf("database unreachable: %v", err)
		return stats
	}

	pool := raw.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(pool.OpenConnections)
	stats["in_use"] = strconv.Itoa(pool.InUse)
	stats["idle"] = strconv.Itoa(pool.Idle)
	stats["wait_count"] = strconv.FormatInt(pool.WaitCount, 10)
	stats["wait_duration"] = pool.WaitDuration.String()

	switch {
	case pool.WaitCount > 1000:
		stats["message"] = "Connection pool has a high number of wait events"
	case pool.OpenConnections > 40:
		stats["message"] = "Connection pool is under heavy load"
	default:
		stats["message"] = "Database is healthy"
	}

	return stats
}

// Close closes the database connection.
func (d *DBinstanceStruct) Close() error {
	raw, err := d.Raw()
	if err != nil {
		return err
	}
	log.Printf("closing database connection: %s", d.Config.DBName)
	return raw.Close()
}
