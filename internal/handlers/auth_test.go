package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/auth"
	"github.com/project-calendar/api/internal/constants"
	"github.com/project-calendar/api/internal/database"
	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/repository"
	"github.com/project-calendar/api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthHandlerTestSuite defines the test suite for AuthHandler
type AuthHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *AuthHandler
	tokens  *auth.TokenService
}

// SetupTest runs before each test
func (suite *AuthHandlerTestSuite) SetupTest() {
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

	userRepo := repository.NewUserRepository(suite.db)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	suite.tokens = auth.NewTokenService("test-secret", time.Hour)
	suite.handler = NewAuthHandler(authService, userService, suite.tokens)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthHandlerTestSuite) createContext(method, url string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func (suite *AuthHandlerTestSuite) createTestUser(email, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	suite.Require().NoError(err)
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Test User",
	}
	suite.db.Create(user)
	return user
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":        email,
		"password":     "password123",
		"display_name": "Alice",
		"work_schedule": []map[string]interface{}{
			{"weekday": 0, "start_time": "09:00", "end_time": "17:00"},
			{"weekday": 1, "start_time": "09:00", "end_time": "17:00"},
		},
	}
}

// TestRegister_Success tests registration creating user, schedule and token
func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	body, _ := json.Marshal(registerBody("alice@example.com"))
	c, w := suite.createContext("POST", "/api/auth/register", body)

	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), true, response["success"])
	assert.NotEmpty(suite.T(), response["token"])

	user := response["user"].(map[string]interface{})
	assert.Equal(suite.T(), "alice@example.com", user["email"])
	assert.NotContains(suite.T(), user, "password_hash")

	schedule := response["work_schedule"].([]interface{})
	assert.Len(suite.T(), schedule, 2)

	// The returned token must authenticate as the new user
	userID, err := suite.tokens.Verify(response["token"].(string))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user["id"], userID)
}

// TestRegister_LowercasesEmail tests that the stored email is normalized
func (suite *AuthHandlerTestSuite) TestRegister_LowercasesEmail() {
	body, _ := json.Marshal(registerBody("Alice@Example.COM"))
	c, w := suite.createContext("POST", "/api/auth/register", body)

	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var stored models.User
	err := suite.db.First(&stored, "email = ?", "alice@example.com").Error
	assert.NoError(suite.T(), err)
}

// TestRegister_DuplicateEmail tests registering an already-taken email
func (suite *AuthHandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.createTestUser("alice@example.com", "password123")

	body, _ := json.Marshal(registerBody("alice@example.com"))
	c, w := suite.createContext("POST", "/api/auth/register", body)

	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestRegister_ShortPassword tests the minimum password length rule
func (suite *AuthHandlerTestSuite) TestRegister_ShortPassword() {
	payload := registerBody("alice@example.com")
	payload["password"] = "short"
	body, _ := json.Marshal(payload)
	c, w := suite.createContext("POST", "/api/auth/register", body)

	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestRegister_EmptySchedule tests that a work schedule is required
func (suite *AuthHandlerTestSuite) TestRegister_EmptySchedule() {
	payload := registerBody("alice@example.com")
	payload["work_schedule"] = []map[string]interface{}{}
	body, _ := json.Marshal(payload)
	c, w := suite.createContext("POST", "/api/auth/register", body)

	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestRegister_OverlappingWindows tests overlap rejection within a weekday
func (suite *AuthHandlerTestSuite) TestRegister_OverlappingWindows() {
	payload := registerBody("alice@example.com")
	payload["work_schedule"] = []map[string]interface{}{
		{"weekday": 0, "start_time": "09:00", "end_time": "13:00"},
		{"weekday": 0, "start_time": "12:00", "end_time": "17:00"},
	}
	body, _ := json.Marshal(payload)
	c, w := suite.createContext("POST", "/api/auth/register", body)

	suite.handler.Register(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// Nothing may be persisted when validation fails
	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestLogin_Success tests login with correct credentials
func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	user := suite.createTestUser("alice@example.com", "password123")

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	c, w := suite.createContext("POST", "/api/auth/login", body)

	suite.handler.Login(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), response["token"])

	userID, err := suite.tokens.Verify(response["token"].(string))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, userID)
}

// TestLogin_WrongPassword tests login with a bad password
func (suite *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	suite.createTestUser("alice@example.com", "password123")

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	c, w := suite.createContext("POST", "/api/auth/login", body)

	suite.handler.Login(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestLogin_UnknownEmail tests login for a user that does not exist
func (suite *AuthHandlerTestSuite) TestLogin_UnknownEmail() {
	body, _ := json.Marshal(map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	c, w := suite.createContext("POST", "/api/auth/login", body)

	suite.handler.Login(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestGetCurrentUser_Success tests the authenticated profile endpoint
func (suite *AuthHandlerTestSuite) TestGetCurrentUser_Success() {
	user := suite.createTestUser("alice@example.com", "password123")

	c, w := suite.createContext("GET", "/api/auth/me", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	suite.handler.GetCurrentUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, response["id"])
	assert.Equal(suite.T(), "alice@example.com", response["email"])
}

// TestGetCurrentUser_Unauthenticated tests the endpoint without auth context
func (suite *AuthHandlerTestSuite) TestGetCurrentUser_Unauthenticated() {
	c, w := suite.createContext("GET", "/api/auth/me", nil)

	suite.handler.GetCurrentUser(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
