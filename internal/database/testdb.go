package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported test users & profiles
var (
	TestAdminUser     m.User
	TestUserStudent1  m.User
	TestUserStudent2  m.User
	TestUserAlumni1   m.User
	TestUserAlumni2   m.User
	TestUserRecruiter m.User

	// Shared plain password for every seeded account
	TestSeedPassword = "SeedPass123!"

	// Exported seeded jobs
	TestJob1 m.Job
	TestJob2 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users of every role plus two jobs if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	userSpecs := []struct {
		username string
		email    string
		role     string
	}{
		{"student_1", "student1@g.bracu.ac.bd", m.RoleStudent},
		{"student_2", "student2@g.bracu.ac.bd", m.RoleStudent},
		{"alumni_1", "alumni1@example.com", m.RoleAlumni},
		{"alumni_2", "alumni2@example.com", m.RoleAlumni},
		{"recruiter_1", "recruiter1@technova.example", m.RoleRecruiter},
		{"admin_user", "admin@bracu.ac.bd", m.RoleAdmin},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		email := s.email
		users = append(users, m.User{
			ID:           uuid.New(),
			Username:     s.username,
			Email:        &email,
			Role:         s.role,
			Password:     hashedPwd,
			Verification: &m.VerificationRecord{Status: m.VerificationStatusPending},
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		assignTestUser(u)
	}

	dept := "CSE"
	year := "4"
	gradYear := "2019"
	profiles := []interface{}{
		&m.StudentProfile{UserID: TestUserStudent1.ID, EditableStudentInfo: m.EditableStudentInfo{
			FirstName: "Anika", LastName: "Rahman", Department: &dept, Year: &year,
			Skills: pq.StringArray{"Go", "SQL"},
		}},
		&m.StudentProfile{UserID: TestUserStudent2.ID, EditableStudentInfo: m.EditableStudentInfo{
			FirstName: "Tanvir", LastName: "Hasan", Department: &dept,
			Skills: pq.StringArray{"Python"},
		}},
		&m.AlumniProfile{UserID: TestUserAlumni1.ID, EditableAlumniInfo: m.EditableAlumniInfo{
			FirstName: "Farhan", LastName: "Chowdhury", GraduationYear: &gradYear,
			CurrentCompany: "TechNova", Designation: "Senior Engineer",
		}},
		&m.AlumniProfile{UserID: TestUserAlumni2.ID, EditableAlumniInfo: m.EditableAlumniInfo{
			FirstName: "Nusrat", LastName: "Jahan",
			CurrentCompany: "DataForge", Designation: "Product Manager",
		}},
		&m.RecruiterProfile{UserID: TestUserRecruiter.ID, EditableRecruiterInfo: m.EditableRecruiterInfo{
			CompanyName: "TechNova", CompanyWebsite: "https://technova.example",
			Designation: "Talent Lead",
		}},
	}
	for _, p := range profiles {
		if err := db.Create(p).Error; err != nil {
			return err
		}
	}

	deadline1 := time.Now().AddDate(0, 1, 0)
	deadline2 := time.Now().AddDate(0, 2, 0)
	jobs := []m.Job{
		{
			RecruiterID: TestUserRecruiter.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:    "Backend Engineer",
				Desc:     "Work on Go services and database layers.",
				Req:      "Go basics; SQL familiarity",
				Location: "Dhaka (Hybrid)",
				Type:     "Full-time",
				Salary:   "60000 BDT",
				Tags:     []string{"go", "backend", "api"},
				Deadline: &deadline1,
			},
		},
		{
			RecruiterID: TestUserRecruiter.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:    "Data Analyst Intern",
				Desc:     "Support data cleansing and dashboard creation.",
				Req:      "SQL; basic statistics",
				Location: "Remote",
				Type:     "Internship",
				Salary:   "15000 BDT",
				Tags:     []string{"data", "sql"},
				Deadline: &deadline2,
			},
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1 = jobs[0]
	TestJob2 = jobs[1]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"student_1", "student_2", "alumni_1", "alumni_2", "recruiter_1", "admin_user",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		assignTestUser(u)
	}

	var jobs []m.Job
	if err := db.Order("id ASC").Limit(2).Find(&jobs).Error; err == nil {
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
	}
	return nil
}

func assignTestUser(u m.User) {
	switch u.Username {
	case "student_1":
		TestUserStudent1 = u
	case "student_2":
		TestUserStudent2 = u
	case "alumni_1":
		TestUserAlumni1 = u
	case "alumni_2":
		TestUserAlumni2 = u
	case "recruiter_1":
		TestUserRecruiter = u
	case "admin_user":
		TestAdminUser = u
	}
}
