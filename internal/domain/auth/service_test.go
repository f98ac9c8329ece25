package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &RefreshToken{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	tm, err := NewTokenManager("access-secret", "refresh-secret", "15m", "7d", NewRefreshTokenRepository(db))
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	return NewService(NewUserRepository(db), tm, bcrypt.MinCost)
}

func registerRequest(email string) RegisterRequest {
	return RegisterRequest{
		FirstName: "Arthur",
		LastName:  "Dent",
		Email:     email,
		Age:       30,
		Password:  "password1!",
	}
}

func TestRegisterReturnsUserAndTokens(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerRequest("a@x.com"))
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", result.User.Email)
	assert.Empty(t, result.User.Password)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("a@x.com"))
	assert.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("a@x.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("a@x.com"))
	assert.NoError(t, err)

	_, wrongPass := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "nope"})
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)

	_, noUser := svc.Login(ctx, LoginRequest{Email: "who@x.com", Password: "password1!"})
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
}

func TestRefreshRotatesAndInvalidatesOldToken(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerRequest("a@x.com"))
	assert.NoError(t, err)

	fresh, err := svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.NoError(t, err)
	assert.NotEqual(t, result.Tokens.RefreshToken, fresh.RefreshToken)

	// Single-use: the original refresh token is gone after rotation.
	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLoginInvalidatesPreviousSession(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerRequest("a@x.com"))
	assert.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "password1!"})
	assert.NoError(t, err)

	// The registration-time refresh token died with the new login.
	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerRequest("a@x.com"))
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(ctx, result.User.ID))

	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
