package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/constants"
	"github.com/project-calendar/api/internal/database"
	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/repository"
	"github.com/project-calendar/api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CalendarHandlerTestSuite defines the test suite for CalendarHandler
type CalendarHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CalendarHandler
}

// SetupTest runs before each test
func (suite *CalendarHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.WorkWindow{},
		&models.Task{},
		&models.TaskAssignment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	suite.handler = NewCalendarHandler(services.NewCalendarService(taskRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CalendarHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CalendarHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		DisplayName:  "Test User",
	}
	suite.db.Create(user)
	return user
}

func (suite *CalendarHandlerTestSuite) createScheduledTask(title, ownerID string, start, due string) *models.Task {
	task := &models.Task{Title: title, OwnerID: ownerID}
	if start != "" {
		d, err := time.Parse(time.DateOnly, start)
		suite.Require().NoError(err)
		task.StartDate = &d
	}
	if due != "" {
		d, err := time.Parse(time.DateOnly, due)
		suite.Require().NoError(err)
		task.DueDate = &d
	}
	suite.db.Create(task)
	return task
}

func (suite *CalendarHandlerTestSuite) query(userID, rawQuery string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/calendar/tasks", nil)
	req.URL.RawQuery = rawQuery

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	suite.handler.GetTasks(c)
	return w
}

func (suite *CalendarHandlerTestSuite) titles(w *httptest.ResponseRecorder) []string {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)

	titles := []string{}
	for _, t := range response["tasks"].([]interface{}) {
		titles = append(titles, t.(map[string]interface{})["title"].(string))
	}
	return titles
}

// TestGetTasks_IntersectionWindow tests inclusive range intersection
func (suite *CalendarHandlerTestSuite) TestGetTasks_IntersectionWindow() {
	user := suite.createTestUser("user@example.com")

	suite.createScheduledTask("Before", user.ID, "2026-02-01", "2026-02-10")
	suite.createScheduledTask("Overlaps Start", user.ID, "2026-02-25", "2026-03-03")
	suite.createScheduledTask("Inside", user.ID, "2026-03-05", "2026-03-10")
	suite.createScheduledTask("Spans Whole Range", user.ID, "2026-02-01", "2026-04-01")
	suite.createScheduledTask("Touches End", user.ID, "2026-03-15", "2026-03-20")
	suite.createScheduledTask("After", user.ID, "2026-03-16", "2026-03-25")

	w := suite.query(user.ID, "start_date=2026-03-01&end_date=2026-03-15")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	titles := suite.titles(w)
	assert.ElementsMatch(suite.T(),
		[]string{"Overlaps Start", "Inside", "Spans Whole Range", "Touches End"},
		titles,
	)
}

// TestGetTasks_SingleBoundActsAsOneDay tests tasks with only one date set
func (suite *CalendarHandlerTestSuite) TestGetTasks_SingleBoundActsAsOneDay() {
	user := suite.createTestUser("user@example.com")

	suite.createScheduledTask("Due Only In", user.ID, "", "2026-03-05")
	suite.createScheduledTask("Due Only Out", user.ID, "", "2026-03-20")
	suite.createScheduledTask("Start Only In", user.ID, "2026-03-10", "")
	suite.createScheduledTask("Start Only Out", user.ID, "2026-02-20", "")
	suite.createScheduledTask("Unscheduled", user.ID, "", "")

	w := suite.query(user.ID, "start_date=2026-03-01&end_date=2026-03-15")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{"Due Only In", "Start Only In"}, suite.titles(w))
}

// TestGetTasks_VisibilityScope tests that foreign tasks stay out of the calendar
func (suite *CalendarHandlerTestSuite) TestGetTasks_VisibilityScope() {
	alice := suite.createTestUser("alice@example.com")
	bob := suite.createTestUser("bob@example.com")

	suite.createScheduledTask("Mine", alice.ID, "2026-03-05", "2026-03-06")
	assigned := suite.createScheduledTask("Assigned To Me", bob.ID, "2026-03-05", "2026-03-06")
	suite.db.Create(&models.TaskAssignment{TaskID: assigned.ID, UserID: alice.ID})
	suite.createScheduledTask("Not Mine", bob.ID, "2026-03-05", "2026-03-06")

	w := suite.query(alice.ID, "start_date=2026-03-01&end_date=2026-03-15")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{"Mine", "Assigned To Me"}, suite.titles(w))
}

// TestGetTasks_MissingParams tests that both range bounds are required
func (suite *CalendarHandlerTestSuite) TestGetTasks_MissingParams() {
	user := suite.createTestUser("user@example.com")

	w := suite.query(user.ID, "start_date=2026-03-01")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.query(user.ID, "end_date=2026-03-15")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetTasks_MalformedDate tests date format validation
func (suite *CalendarHandlerTestSuite) TestGetTasks_MalformedDate() {
	user := suite.createTestUser("user@example.com")

	w := suite.query(user.ID, "start_date=03%2F01%2F2026&end_date=2026-03-15")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetTasks_ReversedRange tests start after end
func (suite *CalendarHandlerTestSuite) TestGetTasks_ReversedRange() {
	user := suite.createTestUser("user@example.com")

	w := suite.query(user.ID, "start_date=2026-03-15&end_date=2026-03-01")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarHandlerTestSuite))
}
