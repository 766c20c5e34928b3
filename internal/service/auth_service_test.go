package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
	"github.com/qs3c/movie_go_server/internal/testutil"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpireHours: 24,
		},
		Client: config.ClientConfig{
			BaseURL: "http://localhost:3000",
		},
	}
}

// 邮件服务传 nil，注册和找回密码流程不依赖它
func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	service := NewAuthService(userRepo, nil, authTestConfig())

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestAuthService_Register_Success(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "newuser",
		Email:    "newuser@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	// 注册即可登录
	login, err := service.Login(&dto.LoginRequest{
		Email:    "newuser@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.User.ID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))

	_, err := service.Register(&dto.RegisterRequest{
		Username: "someoneelse",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithUsername("takenname"))

	_, err := service.Register(&dto.RegisterRequest{
		Username: "takenname",
		Email:    "fresh@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{
		Username: "loginuser",
		Email:    "login@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "login@example.com",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	// 未注册邮箱和密码错误返回同一个错误，不泄露账号是否存在
	_, err := service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "disabled",
		Email:    "disabled@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.User{}).Where("id = ?", resp.UserID).
		Update("is_active", false).Error)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "disabled@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_Login_UpdatesLastLogin(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "lastlogin",
		Email:    "lastlogin@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "lastlogin@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	var user model.User
	require.NoError(t, db.First(&user, resp.UserID).Error)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *user.LastLoginAt, time.Minute)
}

func TestAuthService_ChangePassword(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "changepw",
		Email:    "changepw@example.com",
		Password: "oldpassword",
	})
	require.NoError(t, err)

	err = service.ChangePassword(resp.UserID, &dto.ChangePasswordRequest{
		OldPassword: "oldpassword",
		NewPassword: "newpassword",
	})
	require.NoError(t, err)

	// 旧密码失效，新密码生效
	_, err = service.Login(&dto.LoginRequest{Email: "changepw@example.com", Password: "oldpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(&dto.LoginRequest{Email: "changepw@example.com", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "wrongold",
		Email:    "wrongold@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	err = service.ChangePassword(resp.UserID, &dto.ChangePasswordRequest{
		OldPassword: "notthepassword",
		NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	// 静默成功，避免被用来探测注册邮箱
	err := service.ForgotPassword(&dto.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_Flow(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "resetflow",
		Email:    "resetflow@example.com",
		Password: "oldpassword",
	})
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword(&dto.ForgotPasswordRequest{Email: "resetflow@example.com"}))

	var user model.User
	require.NoError(t, db.First(&user, resp.UserID).Error)
	require.NotNil(t, user.ResetToken)
	require.NotNil(t, user.ResetTokenExpiresAt)

	err = service.ResetPassword(&dto.ResetPasswordRequest{
		Token:       *user.ResetToken,
		NewPassword: "newpassword",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{Email: "resetflow@example.com", Password: "newpassword"})
	assert.NoError(t, err)

	// 令牌一次性，用过即作废
	err = service.ResetPassword(&dto.ResetPasswordRequest{
		Token:       *user.ResetToken,
		NewPassword: "anotherpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	userRepo := repository.NewUserRepository(db)
	require.NoError(t, userRepo.UpdateFields(user.ID, map[string]interface{}{
		"reset_token":            "expired-token",
		"reset_token_expires_at": time.Now().Add(-time.Minute),
	}))

	err := service.ResetPassword(&dto.ResetPasswordRequest{
		Token:       "expired-token",
		NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	err := service.ResetPassword(&dto.ResetPasswordRequest{
		Token:       "no-such-token",
		NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
