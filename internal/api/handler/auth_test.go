package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/api/middleware"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/pkg/response"
	"github.com/qs3c/movie_go_server/internal/repository"
	"github.com/qs3c/movie_go_server/internal/service"
	"github.com/qs3c/movie_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest 发起测试请求，body 会被序列化为 JSON
func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// mockAuth 跳过 JWT 校验，直接注入用户 ID
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func handlerTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "handler-test-secret",
			ExpireHours: 24,
		},
		Client: config.ClientConfig{BaseURL: "http://localhost:3000"},
		Plans:  config.DefaultPlans(),
		Stream: config.StreamConfig{StaleHours: 4},
	}
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *service.AuthService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	authService := service.NewAuthService(repository.NewUserRepository(db), nil, handlerTestConfig())
	h := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	r.POST("/api/v1/auth/forgot-password", h.ForgotPassword)
	r.POST("/api/v1/auth/reset-password", h.ResetPassword)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return r, authService, db, cleanup
}

func TestAuthHandler_Register(t *testing.T) {
	r, _, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performRequest(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "apitest",
		"email":    "apitest@example.com",
		"password": "password123",
	})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, "注册成功", resp.Message)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	r, _, db, cleanup := setupAuthRouter(t)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithEmail("dup@example.com"))

	w := performRequest(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "another",
		"email":    "dup@example.com",
		"password": "password123",
	})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "邮箱已被注册", resp.Message)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	r, _, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performRequest(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "nopassword",
	})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	r, _, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	performRequest(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "loginapi",
		"email":    "loginapi@example.com",
		"password": "password123",
	})

	w := performRequest(r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "loginapi@example.com",
		"password": "password123",
	})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "loginapi", user["username"])
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	r, _, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	performRequest(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "wrongpw",
		"email":    "wrongpw@example.com",
		"password": "password123",
	})

	w := performRequest(r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "wrongpw@example.com",
		"password": "nope",
	})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	_, authService, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	registered, err := authService.Register(&dto.RegisterRequest{
		Username: "changepwapi",
		Email:    "changepwapi@example.com",
		Password: "oldpassword",
	})
	require.NoError(t, err)

	h := NewAuthHandler(authService)
	r := gin.New()
	r.POST("/api/v1/auth/change-password", mockAuth(registered.UserID), h.ChangePassword)

	w := performRequest(r, http.MethodPost, "/api/v1/auth/change-password", gin.H{
		"old_password": "oldpassword",
		"new_password": "newpassword",
	})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, "密码已修改", resp.Message)
}

func TestAuthHandler_ResetPassword_InvalidToken(t *testing.T) {
	r, _, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performRequest(r, http.MethodPost, "/api/v1/auth/reset-password", gin.H{
		"token":        "bogus-token",
		"new_password": "newpassword",
	})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "重置链接无效或已过期", resp.Message)
}
